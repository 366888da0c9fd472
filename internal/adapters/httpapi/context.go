package httpapi

import (
	"context"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

type callerKey struct{}

func WithCaller(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, callerKey{}, id)
}

// CallerFromContext returns the signed-in user, or "" for anonymous requests.
func CallerFromContext(ctx context.Context) (domain.UserID, bool) {
	v, ok := ctx.Value(callerKey{}).(domain.UserID)
	return v, ok && v != ""
}
