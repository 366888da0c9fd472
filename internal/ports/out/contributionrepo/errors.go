package contributionrepo

import "errors"

var (
	ErrNotFound      = errors.New("contribution not found")
	ErrAlreadyExists = errors.New("contribution already exists")

	ErrOrderNotFound = errors.New("order not found")
)
