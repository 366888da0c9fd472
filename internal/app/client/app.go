// Package client wires the session, auth, routing and live-update pieces into one
// application and hands out the per-page view models.
package client

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/admin"
	"github.com/kunall-01/crowdspark-frontend/internal/app/auth"
	"github.com/kunall-01/crowdspark-frontend/internal/app/campaigns"
	"github.com/kunall-01/crowdspark-frontend/internal/app/dashboard"
	"github.com/kunall-01/crowdspark-frontend/internal/app/live"
	"github.com/kunall-01/crowdspark-frontend/internal/app/notifications"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/checkout"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

type Deps struct {
	Backend  backend.Backend
	Push     pushchannel.Channel
	Checkout checkout.Provider
	Log      logr.Logger
}

// App is one running client. Create it with New and call Start once.
type App struct {
	Store      *session.Store
	Bootstrap  *auth.Bootstrapper
	Auth       *auth.Service
	Gate       *routes.Gate
	Membership *live.Membership
	Feed       *live.Feed

	deps Deps
	log  logr.Logger

	startOnce sync.Once
	mu        sync.Mutex
	detach    []func()
}

func New(d Deps) *App {
	if d.Log.GetSink() == nil {
		d.Log = logr.Discard()
	}
	store := session.NewStore()
	boot := auth.NewBootstrapper(d.Backend, store, d.Log)
	return &App{
		Store:      store,
		Bootstrap:  boot,
		Auth:       auth.NewService(d.Backend, store, d.Log),
		Gate:       routes.NewGate(store, boot.Ready),
		Membership: live.NewMembership(d.Push, d.Log),
		Feed:       live.NewFeed(d.Push, notifications.NewAggregator(), d.Log),
		deps:       d,
		log:        d.Log,
	}
}

// Start attaches the live subscribers to the session and begins the auth check in the
// background. Only the first call has any effect.
func (a *App) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		a.mu.Lock()
		a.detach = append(a.detach,
			a.Membership.Attach(ctx, a.Store),
			a.Feed.Attach(a.Store),
		)
		a.mu.Unlock()
		a.Bootstrap.Start(ctx)
	})
}

// WaitReady blocks until the auth check has completed or ctx is done.
func (a *App) WaitReady(ctx context.Context) error {
	select {
	case <-a.Bootstrap.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop detaches the live subscribers. The push channel itself is left open.
func (a *App) Stop() {
	a.mu.Lock()
	detach := a.detach
	a.detach = nil
	a.mu.Unlock()
	for _, fn := range detach {
		fn()
	}
}

// Navigate resolves path against the current session.
func (a *App) Navigate(path string) routes.Resolution {
	return a.Gate.Resolve(path)
}

// Allowed reports whether the current session may see or use aff.
func (a *App) Allowed(aff routes.Affordance) bool {
	return routes.Allowed(a.Store.Snapshot(), aff)
}

// Notifications is the navigation bar's backing list.
func (a *App) Notifications() *notifications.Aggregator {
	return a.Feed.Aggregator()
}

func (a *App) NewDashboard() *dashboard.View {
	return dashboard.NewView(a.deps.Backend, a.deps.Push, a.Store, a.log)
}

func (a *App) NewAdmin() *admin.View {
	return admin.NewView(a.deps.Backend, a.log)
}

func (a *App) NewCatalog() *campaigns.Catalog {
	return campaigns.NewCatalog(a.deps.Backend, a.log)
}

func (a *App) NewDetail() *campaigns.Detail {
	return campaigns.NewDetail(a.deps.Backend, a.log)
}

func (a *App) NewCreator() *campaigns.Creator {
	return campaigns.NewCreator(a.deps.Backend, a.log)
}

func (a *App) NewSupporter() *campaigns.Supporter {
	return campaigns.NewSupporter(a.deps.Backend, a.deps.Checkout, a.deps.Push, a.log)
}
