package routes

import (
	"testing"

	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

func TestGate_BlankUntilReady(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	ready := false
	g := NewGate(store, func() bool { return ready })

	if res := g.Resolve(Dashboard); res.Decision.Outcome != OutcomeBlank {
		t.Fatalf("Resolve before ready=%+v, want blank", res.Decision)
	}

	_ = store.Dispatch(session.Set(domain.User{ID: "u1", Role: domain.RoleBacker}))
	ready = true
	if res := g.Resolve(Dashboard); !res.Decision.Renders() {
		t.Fatalf("Resolve after ready=%+v, want render", res.Decision)
	}
}

func TestGate_FollowsRedirects(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	g := NewGate(store, func() bool { return true })

	res := g.Resolve(Create)
	if res.Decision.Route != RouteLogin || !res.Decision.Renders() || res.Path != Login {
		t.Fatalf("Resolve(/create) as guest=%+v", res)
	}
	if len(res.Hops) != 1 || res.Hops[0] != Create {
		t.Fatalf("Hops=%v", res.Hops)
	}

	res = g.Resolve("/campaigns/c9")
	if res.Decision.Route != RouteCampaign || res.Decision.Param != "c9" {
		t.Fatalf("Resolve(legacy)=%+v", res)
	}
}

func TestGate_ReadsLiveSessionAfterLogout(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	g := NewGate(store, func() bool { return true })

	_ = store.Dispatch(session.Set(domain.User{ID: "u1", Role: domain.RoleAdmin}))
	if res := g.Resolve(Admin); !res.Decision.Renders() {
		t.Fatalf("admin before logout=%+v", res.Decision)
	}

	_ = store.Dispatch(session.Clear())
	if res := g.Resolve(Admin); res.Path != Home {
		t.Fatalf("admin after logout resolved to %q, want %q", res.Path, Home)
	}
	if res := g.Resolve(Dashboard); res.Path != Login {
		t.Fatalf("dashboard after logout resolved to %q, want %q", res.Path, Login)
	}
}
