package httpapi

import (
	"net/http"
	"strings"

	"github.com/kunall-01/crowdspark-frontend/internal/platform/auth/sessiontoken"
)

// NewSessionMiddleware resolves the session cookie into a caller id.
//
// Requests without a valid cookie continue anonymously; each endpoint decides whether it
// needs a caller. The cookie value is never echoed back.
func NewSessionMiddleware(tokens *sessiontoken.Manager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(cookieName)
			if err != nil || strings.TrimSpace(ck.Value) == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := tokens.Verify(ck.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), id)))
		})
	}
}

// NewCORSMiddleware lets a browser front end on origin call the API with credentials.
// Requests from other origins get no CORS headers.
func NewCORSMiddleware(origin string) func(http.Handler) http.Handler {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin == "" || r.Header.Get("Origin") != origin {
				next.ServeHTTP(w, r)
				return
			}
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
