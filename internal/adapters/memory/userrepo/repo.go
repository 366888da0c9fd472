package userrepo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.UserID]userrepo.User
	idByEmail map[string]domain.UserID

	upgrades map[domain.UpgradeRequestID]userrepo.UpgradeRequest
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.UserID]userrepo.User),
		idByEmail: make(map[string]domain.UserID),
		upgrades:  make(map[domain.UpgradeRequestID]userrepo.UpgradeRequest),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Repo) Create(ctx context.Context, u userrepo.User) error {
	_ = ctx
	if u.ID == "" {
		return userrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	if _, ok := r.idByEmail[emailKey(u.Email)]; ok {
		return userrepo.ErrEmailTaken
	}
	r.byID[u.ID] = cloneUser(u)
	r.idByEmail[emailKey(u.Email)] = u.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, u userrepo.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[u.ID]
	if !ok {
		return userrepo.ErrNotFound
	}
	oldKey, newKey := emailKey(existing.Email), emailKey(u.Email)
	if oldKey != newKey {
		if _, taken := r.idByEmail[newKey]; taken {
			return userrepo.ErrEmailTaken
		}
		delete(r.idByEmail, oldKey)
		r.idByEmail[newKey] = u.ID
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

// Delete removes the user and any upgrade request they filed.
func (r *Repo) Delete(ctx context.Context, id domain.UserID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return userrepo.ErrNotFound
	}
	delete(r.byID, id)
	delete(r.idByEmail, emailKey(u.Email))
	for rid, req := range r.upgrades {
		if req.UserID == id {
			delete(r.upgrades, rid)
		}
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.idByEmail[emailKey(email)]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	u, ok := r.byID[id]
	if !ok {
		return userrepo.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) List(ctx context.Context) ([]userrepo.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userrepo.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repo) CreateUpgradeRequest(ctx context.Context, req userrepo.UpgradeRequest) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[req.UserID]; !ok {
		return userrepo.ErrNotFound
	}
	for _, existing := range r.upgrades {
		if existing.UserID == req.UserID {
			return userrepo.ErrUpgradeRequestExists
		}
	}
	r.upgrades[req.ID] = req
	return nil
}

func (r *Repo) GetUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) (userrepo.UpgradeRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.upgrades[id]
	if !ok {
		return userrepo.UpgradeRequest{}, userrepo.ErrNotFound
	}
	return req, nil
}

func (r *Repo) HasUpgradeRequest(ctx context.Context, userID domain.UserID) (bool, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, req := range r.upgrades {
		if req.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repo) ListUpgradeRequests(ctx context.Context) ([]userrepo.UpgradeRequest, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]userrepo.UpgradeRequest, 0, len(r.upgrades))
	for _, req := range r.upgrades {
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repo) DeleteUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.upgrades[id]; !ok {
		return userrepo.ErrNotFound
	}
	delete(r.upgrades, id)
	return nil
}

func cloneUser(u userrepo.User) userrepo.User {
	out := u
	out.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return out
}
