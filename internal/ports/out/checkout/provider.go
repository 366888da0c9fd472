package checkout

import (
	"context"
	"errors"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// ErrDismissed indicates the user closed the hosted checkout without paying.
var ErrDismissed = errors.New("checkout dismissed")

// Request describes the hosted checkout to open for a server-issued order.
type Request struct {
	Order       domain.Order
	Name        string
	Description string
}

// Provider opens the third-party hosted checkout and blocks until it completes.
type Provider interface {
	Open(ctx context.Context, req Request) (domain.PaymentConfirmation, error)
}
