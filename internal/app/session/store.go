package session

import (
	"errors"
	"sync"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// ErrInvalidSession indicates an identity without a usable role (or without an ID).
var ErrInvalidSession = errors.New("invalid session: identity requires an id and a non-guest role")

// Session is an immutable snapshot of the current actor.
type Session struct {
	user *domain.User
}

// Guest is the empty session.
func Guest() Session { return Session{} }

// User returns a copy of the identity and whether one is set.
func (s Session) User() (domain.User, bool) {
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// UserID is "" for guests.
func (s Session) UserID() domain.UserID {
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s Session) Authenticated() bool { return s.user != nil }

// Role is always derived from the identity; guests report RoleGuest.
func (s Session) Role() domain.Role {
	if s.user == nil {
		return domain.RoleGuest
	}
	return s.user.Role
}

// WithUser builds a snapshot directly, for callers (and tests) that need a Session value
// without going through a Store.
func WithUser(u domain.User) (Session, error) {
	if u.ID == "" || !u.Role.Valid() || u.Role == domain.RoleGuest {
		return Session{}, ErrInvalidSession
	}
	cp := u
	return Session{user: &cp}, nil
}

type actionKind int

const (
	actionSet actionKind = iota + 1
	actionClear
)

// Action is a session mutation. Build one with Set or Clear.
type Action struct {
	kind actionKind
	user domain.User
}

// Set replaces identity and role together, from a single "current user" response.
func Set(u domain.User) Action { return Action{kind: actionSet, user: u} }

// Clear resets the session to guest.
func Clear() Action { return Action{kind: actionClear} }

// Observer is notified after every effective change, outside the store's lock.
// Observers must not call Dispatch.
type Observer func(prev, next Session)

// Store is the single source of truth for identity and role.
// Dispatch is its only mutation entry point. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	cur     Session
	version uint64

	obsMu     sync.Mutex
	nextObsID uint64
	observers map[uint64]Observer
	order     []uint64

	// dispatchMu serializes notification so observers see changes in dispatch order.
	dispatchMu sync.Mutex
}

func NewStore() *Store {
	return &Store{observers: make(map[uint64]Observer)}
}

// Snapshot returns the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Version increments on every effective change. Views use it to detect a session that moved
// under an in-flight request.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Dispatch applies a. Setting an identity equal to the current one is still a change (the
// backend may have updated the username), but clearing an already-guest session is a no-op.
func (s *Store) Dispatch(a Action) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	var next Session
	switch a.kind {
	case actionSet:
		n, err := WithUser(a.user)
		if err != nil {
			return err
		}
		next = n
	case actionClear:
		next = Guest()
	default:
		return errors.New("session: unknown action")
	}

	s.mu.Lock()
	prev := s.cur
	if a.kind == actionClear && !prev.Authenticated() {
		s.mu.Unlock()
		return nil
	}
	s.cur = next
	s.version++
	s.mu.Unlock()

	for _, fn := range s.observerList() {
		fn(prev, next)
	}
	return nil
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	s.nextObsID++
	id := s.nextObsID
	s.observers[id] = fn
	s.order = append(s.order, id)
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			defer s.obsMu.Unlock()
			delete(s.observers, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) observerList() []Observer {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	out := make([]Observer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.observers[id])
	}
	return out
}

// IdentityChanged reports whether the user id differs between two snapshots.
func IdentityChanged(prev, next Session) bool {
	return prev.UserID() != next.UserID()
}
