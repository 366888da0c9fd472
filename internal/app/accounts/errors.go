package accounts

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func unauthorized() *Error {
	return &Error{Status: 401, Code: "UNAUTHORIZED", Message: "Not authenticated"}
}

func forbidden() *Error {
	return &Error{Status: 403, Code: "FORBIDDEN", Message: "Access denied"}
}
