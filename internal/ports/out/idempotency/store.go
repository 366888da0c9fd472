package idempotency

import (
	"context"
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// Key is the natural idempotency key of a request (the provider's payment id for
// transactions).
type Key string

// Fingerprint identifies a request uniquely for idempotency purposes: the key, the caller and
// the route it was sent to ("POST /transactions").
type Fingerprint struct {
	Key     Key
	Subject domain.UserID
	Route   string
}

// Record is the stored outcome we replay for a duplicate request.
type Record struct {
	StatusCode int
	Body       []byte
	CreatedAt  time.Time
}

// Store persists idempotency records.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
}
