// Package dashboard is the user dashboard: the owner's campaigns, the user's contributions,
// the upgrade-request panel and a live refresh on every new backing.
package dashboard

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

// ListenerOwner is the listener owner key used by the dashboard.
const ListenerOwner = "dashboard"

const (
	MsgRequestSent   = "Request sent successfully"
	MsgRequestFailed = "Failed to send request"
)

// State is what the dashboard renders.
type State struct {
	Loading          bool
	Greeting         string
	Campaigns        []domain.Campaign
	Contributions    []domain.Contribution
	UpgradeRequested bool
	RequestLoading   bool
	RequestStatus    string
	ShowOwnerSection bool
	ShowUpgradePanel bool
}

// View is mounted while the dashboard route is shown. It is safe for concurrent use.
type View struct {
	api   backend.Dashboard
	ch    pushchannel.Channel
	store *session.Store
	log   logr.Logger

	mu          sync.Mutex
	active      bool
	gen         uint64
	ctx         context.Context
	cancel      context.CancelFunc
	joined      domain.UserID
	stopListen  func()
	unsubscribe func()
	state       State
}

func NewView(api backend.Dashboard, ch pushchannel.Channel, store *session.Store, log logr.Logger) *View {
	return &View{
		api:   api,
		ch:    ch,
		store: store,
		log:   log.WithName("dashboard"),
		state: State{Loading: true},
	}
}

// Mount joins the user's room, starts listening for backings and loads the dashboard.
// It returns once the first load has been applied.
func (v *View) Mount(ctx context.Context) {
	v.mu.Lock()
	if v.active {
		v.mu.Unlock()
		return
	}
	v.active = true
	v.ctx, v.cancel = context.WithCancel(ctx)
	v.state = State{Loading: true}
	mountCtx := v.ctx
	v.mu.Unlock()

	unsubscribe := v.store.Subscribe(func(prev, next session.Session) {
		if session.IdentityChanged(prev, next) {
			v.enter(mountCtx, next.UserID())
		}
	})
	v.mu.Lock()
	v.unsubscribe = unsubscribe
	v.mu.Unlock()
	v.enter(mountCtx, v.store.Snapshot().UserID())
}

// Unmount leaves the joined room, drops the listener and cancels in-flight fetches.
// Results that arrive afterwards are discarded.
func (v *View) Unmount() {
	v.mu.Lock()
	if !v.active {
		v.mu.Unlock()
		return
	}
	v.active = false
	v.gen++
	v.cancel()
	unsubscribe := v.unsubscribe
	v.unsubscribe = nil
	v.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	v.leave()
}

// enter runs the mount effect for id, first undoing the effect for the previous identity.
func (v *View) enter(ctx context.Context, id domain.UserID) {
	v.leave()

	if id != "" {
		if err := v.ch.Emit(ctx, pushchannel.EventJoin, string(id)); err != nil && !apperr.IsCancelled(err) {
			v.log.Error(err, "join failed", "room", id)
		}
		stop := v.ch.Listen(pushchannel.EventNewBacking, ListenerOwner, func(ev pushchannel.Frame) {
			v.onBacking(ctx, ev)
		})
		v.mu.Lock()
		v.joined = id
		v.stopListen = stop
		v.mu.Unlock()
	}
	v.Refresh(ctx)
}

func (v *View) leave() {
	v.mu.Lock()
	prev := v.joined
	stop := v.stopListen
	ctx := v.ctx
	v.joined = ""
	v.stopListen = nil
	v.mu.Unlock()

	if stop != nil {
		stop()
	}
	if prev == "" {
		return
	}
	// The leave must go out even though the mount context may already be cancelled.
	if err := v.ch.Emit(context.WithoutCancel(ctx), pushchannel.EventLeave, string(prev)); err != nil {
		v.log.Error(err, "leave failed", "room", prev)
	}
}

func (v *View) onBacking(ctx context.Context, ev pushchannel.Frame) {
	var nb pushchannel.NewBacking
	if err := json.Unmarshal(ev.Data, &nb); err == nil {
		v.log.V(1).Info("backing received; refreshing", "campaignId", nb.CampaignID, "amount", nb.Amount)
	}
	v.Refresh(ctx)
}

// Refresh refetches campaigns, contributions and the upgrade-request status.
func (v *View) Refresh(ctx context.Context) {
	v.mu.Lock()
	if !v.active {
		v.mu.Unlock()
		return
	}
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	var campaigns []domain.Campaign
	var contributions []domain.Contribution
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cs, err := v.api.MyCampaigns(gctx)
		campaigns = cs
		return err
	})
	g.Go(func() error {
		cs, err := v.api.MyContributions(gctx)
		contributions = cs
		return err
	})
	err := g.Wait()
	if err != nil && ctx.Err() != nil {
		return
	}
	if err != nil {
		v.log.Error(err, "failed to fetch dashboard data")
		campaigns, contributions = nil, nil
	}
	if len(campaigns) == 0 {
		campaigns = DemoCampaigns()
	}
	if len(contributions) == 0 {
		contributions = DemoContributions()
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Date.After(contributions[j].Date)
	})

	requested, reqErr := v.api.CheckUpgradeRequest(ctx)
	if reqErr != nil && !apperr.IsCancelled(reqErr) {
		v.log.Error(reqErr, "failed to check upgrade request")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.active || gen != v.gen {
		return
	}
	v.state.Loading = false
	v.state.Campaigns = campaigns
	v.state.Contributions = contributions
	if reqErr == nil {
		v.state.UpgradeRequested = requested
	}
}

// RequestUpgrade asks an admin to make the current backer a campaign owner.
func (v *View) RequestUpgrade(ctx context.Context) error {
	if !routes.Allowed(v.store.Snapshot(), routes.AffordanceUpgradeRequest) {
		return &apperr.Error{Kind: apperr.KindAuthorizationDenied, Message: MsgRequestFailed}
	}
	v.mu.Lock()
	v.state.RequestLoading = true
	v.mu.Unlock()

	err := v.api.RequestCampaignOwner(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.state.RequestLoading = false
	switch {
	case err == nil:
		v.state.RequestStatus = MsgRequestSent
		v.state.UpgradeRequested = true
		return nil
	case apperr.IsCancelled(err):
		return err
	default:
		v.state.RequestStatus = apperr.Message(err, MsgRequestFailed)
		return apperr.FromBackend(err, MsgRequestFailed)
	}
}

// State returns a copy of the current view state.
func (v *View) State() State {
	snap := v.store.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.state
	st.Campaigns = append([]domain.Campaign(nil), v.state.Campaigns...)
	st.Contributions = append([]domain.Contribution(nil), v.state.Contributions...)

	u, _ := snap.User()
	st.Greeting = "Hello, " + u.DisplayName() + "!"
	st.ShowOwnerSection = routes.Allowed(snap, routes.AffordanceOwnerCampaigns)
	st.ShowUpgradePanel = routes.Allowed(snap, routes.AffordanceUpgradeRequest)
	return st
}

// InvoiceURL is the download link for c, or "" for demo entries.
func (v *View) InvoiceURL(c domain.Contribution) string {
	if c.IsDemo || c.ID == "" {
		return ""
	}
	return v.api.InvoiceURL(c.ID)
}

// DateLabel formats a contribution date the way the table shows it.
func DateLabel(c domain.Contribution) string {
	if c.Date.IsZero() {
		return "N/A"
	}
	return c.Date.Format("2 Jan 2006")
}
