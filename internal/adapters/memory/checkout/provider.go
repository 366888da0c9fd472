// Package checkout is a stand-in for the hosted payment checkout.
//
// It completes every order immediately and signs the result with the shared payment secret,
// so the dev backend accepts it.
package checkout

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/paysig"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/checkout"
)

var _ checkout.Provider = (*Provider)(nil)

type Provider struct {
	secret string

	mu       sync.Mutex
	err      error
	requests []checkout.Request
}

func NewProvider(secret string) *Provider {
	return &Provider{secret: secret}
}

// FailWith makes later checkouts return err (checkout.ErrDismissed to simulate a closed
// dialog). Pass nil to restore.
func (p *Provider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Requests returns every checkout opened so far.
func (p *Provider) Requests() []checkout.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]checkout.Request(nil), p.requests...)
}

func (p *Provider) Open(ctx context.Context, req checkout.Request) (domain.PaymentConfirmation, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentConfirmation{}, err
	}
	p.mu.Lock()
	p.requests = append(p.requests, req)
	err := p.err
	p.mu.Unlock()
	if err != nil {
		return domain.PaymentConfirmation{}, err
	}

	paymentID := "pay_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
	return domain.PaymentConfirmation{
		PaymentID: paymentID,
		OrderID:   req.Order.ID,
		Signature: paysig.Sign(p.secret, req.Order.ID, paymentID),
	}, nil
}
