// Package auth resolves and changes who the current user is.
//
// The Bootstrapper runs the one-time "current user" check at startup; Service runs the
// login, registration and logout flows. Both write identity only through the session store.
package auth

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

// Bootstrapper performs the startup auth check exactly once.
type Bootstrapper struct {
	auth  backend.Auth
	store *session.Store
	log   logr.Logger

	once  sync.Once
	ready atomic.Bool
	done  chan struct{}
}

func NewBootstrapper(auth backend.Auth, store *session.Store, log logr.Logger) *Bootstrapper {
	return &Bootstrapper{
		auth:  auth,
		store: store,
		log:   log.WithName("auth-bootstrap"),
		done:  make(chan struct{}),
	}
}

// Start runs the check in the background.
func (b *Bootstrapper) Start(ctx context.Context) {
	go b.Run(ctx)
}

// Run performs the check and blocks until it has completed. Only the first call does any
// work; the rest wait for it. A failed check leaves the session as guest.
func (b *Bootstrapper) Run(ctx context.Context) {
	b.once.Do(func() {
		defer func() {
			b.ready.Store(true)
			close(b.done)
		}()

		// A login that lands while the check is in flight wins over the check's result.
		version := b.store.Version()
		u, err := b.auth.Me(ctx)
		if err != nil {
			b.log.Info("no authenticated user; continuing as guest", "reason", err.Error())
			return
		}
		if ctx.Err() != nil || b.store.Version() != version {
			return
		}
		if err := b.store.Dispatch(session.Set(u)); err != nil {
			b.log.Error(err, "rejected current user", "userId", u.ID, "role", u.Role)
		}
	})
	<-b.done
}

// Ready reports whether the check has completed, successfully or not.
func (b *Bootstrapper) Ready() bool { return b.ready.Load() }

// Done is closed when the check completes.
func (b *Bootstrapper) Done() <-chan struct{} { return b.done }
