// Package admin is the admin dashboard: every campaign, every user and the pending
// role-upgrade requests.
package admin

import (
	"context"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

type State struct {
	Loading         bool
	RequestsLoading bool
	Campaigns       []domain.Campaign
	Users           []domain.User
	Requests        []domain.UpgradeRequest
}

// View holds the admin dashboard state. It is safe for concurrent use.
type View struct {
	api backend.Admin
	log logr.Logger

	mu     sync.Mutex
	closed bool
	state  State
}

func NewView(api backend.Admin, log logr.Logger) *View {
	return &View{
		api:   api,
		log:   log.WithName("admin"),
		state: State{Loading: true, RequestsLoading: true},
	}
}

// Load fetches campaigns and users together, and the upgrade requests on their own.
// Failures are logged and leave the affected lists empty.
func (v *View) Load(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		v.loadDirectory(ctx)
		return nil
	})
	g.Go(func() error {
		v.loadRequests(ctx)
		return nil
	})
	_ = g.Wait()
}

func (v *View) loadDirectory(ctx context.Context) {
	var campaigns []domain.Campaign
	var users []domain.User
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cs, err := v.api.AdminCampaigns(gctx)
		campaigns = cs
		return err
	})
	g.Go(func() error {
		us, err := v.api.AdminUsers(gctx)
		users = us
		return err
	})
	err := g.Wait()
	if err != nil && !apperr.IsCancelled(err) {
		v.log.Error(err, "admin fetch error")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.state.Loading = false
	if err != nil {
		return
	}
	sort.SliceStable(campaigns, func(i, j int) bool { return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt) })
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	v.state.Campaigns = campaigns
	v.state.Users = users
}

func (v *View) loadRequests(ctx context.Context) {
	reqs, err := v.api.UpgradeRequests(ctx)
	if err != nil && !apperr.IsCancelled(err) {
		v.log.Error(err, "upgrade request fetch failed")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.state.RequestsLoading = false
	if err == nil {
		v.state.Requests = reqs
	}
}

// Close detaches the view from fetches still in flight.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

func (v *View) DeleteUser(ctx context.Context, id domain.UserID) error {
	if err := v.api.DeleteUser(ctx, id); err != nil {
		return v.failed(err, "user delete failed", "userId", id)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Users = without(v.state.Users, func(u domain.User) bool { return u.ID == id })
	return nil
}

func (v *View) DeleteCampaign(ctx context.Context, id domain.CampaignID) error {
	if err := v.api.DeleteCampaign(ctx, id); err != nil {
		return v.failed(err, "campaign delete failed", "campaignId", id)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Campaigns = without(v.state.Campaigns, func(c domain.Campaign) bool { return c.ID == id })
	return nil
}

func (v *View) ApproveRequest(ctx context.Context, id domain.UpgradeRequestID) error {
	if err := v.api.ApproveUpgradeRequest(ctx, id); err != nil {
		return v.failed(err, "approval failed", "requestId", id)
	}
	v.dropRequest(id)
	return nil
}

func (v *View) RejectRequest(ctx context.Context, id domain.UpgradeRequestID) error {
	if err := v.api.RejectUpgradeRequest(ctx, id); err != nil {
		return v.failed(err, "rejection failed", "requestId", id)
	}
	v.dropRequest(id)
	return nil
}

func (v *View) dropRequest(id domain.UpgradeRequestID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.Requests = without(v.state.Requests, func(r domain.UpgradeRequest) bool { return r.ID == id })
}

func (v *View) failed(err error, msg string, kv ...any) error {
	if !apperr.IsCancelled(err) {
		v.log.Error(err, msg, kv...)
	}
	return apperr.FromBackend(err, msg)
}

// State returns a copy of the current view state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.state
	st.Campaigns = append([]domain.Campaign(nil), v.state.Campaigns...)
	st.Users = append([]domain.User(nil), v.state.Users...)
	st.Requests = append([]domain.UpgradeRequest(nil), v.state.Requests...)
	return st
}

// RequesterName is the name shown on an upgrade-request card.
func RequesterName(r domain.UpgradeRequest) string {
	if r.User == nil || r.User.Username == "" {
		return "Unknown"
	}
	return r.User.Username
}

func without[T any](items []T, match func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}
