// Package live keeps the process-wide push subscriptions in step with the session.
package live

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

// Membership joins the current user's room whenever the identity becomes a new non-empty value.
// It never leaves: the room is abandoned when the session goes back to guest.
type Membership struct {
	ch  pushchannel.Channel
	log logr.Logger

	mu     sync.Mutex
	joined domain.UserID
}

func NewMembership(ch pushchannel.Channel, log logr.Logger) *Membership {
	return &Membership{ch: ch, log: log.WithName("membership")}
}

// Attach follows store until the returned func is called. The current snapshot is applied
// immediately.
func (m *Membership) Attach(ctx context.Context, store *session.Store) (detach func()) {
	unsubscribe := store.Subscribe(func(_, next session.Session) {
		m.apply(ctx, next.UserID())
	})
	m.apply(ctx, store.Snapshot().UserID())
	return unsubscribe
}

// Joined is the room most recently joined, or "" after the session cleared.
func (m *Membership) Joined() domain.UserID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joined
}

func (m *Membership) apply(ctx context.Context, id domain.UserID) {
	m.mu.Lock()
	if id == m.joined {
		m.mu.Unlock()
		return
	}
	m.joined = id
	m.mu.Unlock()

	if id == "" {
		return
	}
	if err := m.ch.Emit(ctx, pushchannel.EventJoin, string(id)); err != nil {
		m.log.Error(err, "join failed", "room", id)
		return
	}
	m.log.V(1).Info("joined room", "room", id)
}
