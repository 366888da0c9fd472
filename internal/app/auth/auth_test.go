package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"

	membackend "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/backend"
	memclock "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/clock"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/app/auth"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

func newBackend(t *testing.T) *membackend.Backend {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	return membackend.New(clk, membackend.Options{PaymentSecret: "test-secret", BaseURL: "http://backend.test"})
}

func seed(t *testing.T, be *membackend.Backend, name string, role domain.Role) domain.User {
	t.Helper()
	if role == domain.RoleAdmin {
		u, err := be.Accounts().SeedAdmin(context.Background(), name+"@example.com", "secret123")
		if err != nil {
			t.Fatalf("SeedAdmin: %v", err)
		}
		return u
	}
	u, err := be.Accounts().Register(context.Background(), accounts.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "secret123", Role: string(role),
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	return u
}

func TestBootstrapper_GuestWhenNoCredential(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	store := session.NewStore()
	b := auth.NewBootstrapper(be, store, logr.Discard())

	if b.Ready() {
		t.Fatalf("Ready before Run")
	}
	b.Run(context.Background())
	if !b.Ready() {
		t.Fatalf("Ready after Run=false")
	}
	select {
	case <-b.Done():
	default:
		t.Fatalf("Done not closed")
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("session authenticated after failed check")
	}
}

func TestBootstrapper_PopulatesSessionOnce(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	u := seed(t, be, "olga", domain.RoleCampaignOwner)
	be.SignIn(u.ID)

	store := session.NewStore()
	b := auth.NewBootstrapper(be, store, logr.Discard())
	b.Start(context.Background())
	<-b.Done()
	b.Run(context.Background())

	if got := store.Snapshot(); got.UserID() != u.ID || got.Role() != domain.RoleCampaignOwner {
		t.Fatalf("session=%v/%v", got.UserID(), got.Role())
	}
	if n := be.Calls(membackend.OpMe); n != 1 {
		t.Fatalf("GET /me calls=%d, want 1", n)
	}
}

func TestService_LoginLandsByRole(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role domain.Role
		want string
	}{
		{domain.RoleAdmin, routes.Admin},
		{domain.RoleCampaignOwner, routes.Create},
		{domain.RoleBacker, routes.Dashboard},
	}
	for _, tc := range cases {
		be := newBackend(t)
		u := seed(t, be, "user-"+string(tc.role), tc.role)
		store := session.NewStore()
		svc := auth.NewService(be, store, logr.Discard())

		res, err := svc.Login(context.Background(), u.Email, "secret123")
		if err != nil {
			t.Fatalf("Login(%s): %v", tc.role, err)
		}
		if res.Landing != tc.want || res.Message != auth.MsgLoginSucceeded {
			t.Fatalf("Login(%s)=%+v, want landing %q", tc.role, res, tc.want)
		}
		if store.Snapshot().UserID() != u.ID {
			t.Fatalf("session user=%q, want %q", store.Snapshot().UserID(), u.ID)
		}
	}
}

func TestService_LoginFailureMessages(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	u := seed(t, be, "bob", domain.RoleBacker)
	store := session.NewStore()
	svc := auth.NewService(be, store, logr.Discard())

	_, err := svc.Login(context.Background(), u.Email, "wrong")
	if got := apperr.Message(err, auth.MsgLoginFailed); got != "Invalid credentials" {
		t.Fatalf("message=%q, want backend message", got)
	}
	if apperr.Classify(err) != apperr.KindValidationFailure {
		t.Fatalf("kind=%v", apperr.Classify(err))
	}

	be.SetHook(func(_ context.Context, op string) error {
		if op == membackend.OpLogin {
			return errors.New("connection refused")
		}
		return nil
	})
	_, err = svc.Login(context.Background(), u.Email, "secret123")
	if got := apperr.Message(err, ""); got != auth.MsgLoginFailed {
		t.Fatalf("message=%q, want %q", got, auth.MsgLoginFailed)
	}
	if apperr.Classify(err) != apperr.KindNetworkFailure {
		t.Fatalf("kind=%v, want NetworkFailure", apperr.Classify(err))
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("session set after failed login")
	}
}

func TestService_CancelledBeforeMeLeavesSession(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	u := seed(t, be, "bob", domain.RoleBacker)
	store := session.NewStore()
	svc := auth.NewService(be, store, logr.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	be.SetHook(func(_ context.Context, op string) error {
		if op == membackend.OpMe {
			cancel()
		}
		return nil
	})

	_, err := svc.Login(ctx, u.Email, "secret123")
	if !apperr.IsCancelled(err) {
		t.Fatalf("err=%v, want cancelled", err)
	}
	if apperr.Message(err, auth.MsgLoginFailed) != "" {
		t.Fatalf("cancelled login produced a message")
	}
	if store.Snapshot().Authenticated() || store.Version() != 0 {
		t.Fatalf("session mutated by cancelled login")
	}
}

func TestService_RegisterClientChecks(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	svc := auth.NewService(be, session.NewStore(), logr.Discard())

	cases := []struct {
		in   auth.RegisterInput
		want string
	}{
		{auth.RegisterInput{Username: "a", Email: "a@example.com", Password: "secret123", ConfirmPassword: "other", Role: "backer"}, auth.MsgPasswordsMismatch},
		{auth.RegisterInput{Username: "a", Email: "a@example.com", Password: "secret123", ConfirmPassword: "secret123"}, auth.MsgSelectRole},
		{auth.RegisterInput{Username: "a", Email: "a@example.com", Password: "secret123", ConfirmPassword: "secret123", Role: "admin"}, auth.MsgSelectRole},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.in)
		if got := apperr.Message(err, ""); got != tc.want {
			t.Fatalf("Register(%+v) message=%q, want %q", tc.in, got, tc.want)
		}
	}
	if n := be.Calls(membackend.OpRegister); n != 0 {
		t.Fatalf("POST /register calls=%d, want 0", n)
	}
}

func TestService_RegisterSignsIn(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	store := session.NewStore()
	svc := auth.NewService(be, store, logr.Discard())

	res, err := svc.Register(context.Background(), auth.RegisterInput{
		Username: "olga", Email: "olga@example.com", Password: "secret123", ConfirmPassword: "secret123", Role: "campaignOwner",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.Landing != routes.Create || res.Message != auth.MsgRegisterSucceeded {
		t.Fatalf("Register=%+v", res)
	}
	if store.Snapshot().Role() != domain.RoleCampaignOwner {
		t.Fatalf("role=%q", store.Snapshot().Role())
	}
}

func TestService_LogoutClearsOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	u := seed(t, be, "bob", domain.RoleBacker)
	store := session.NewStore()
	svc := auth.NewService(be, store, logr.Discard())
	if _, err := svc.Login(context.Background(), u.Email, "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	be.SetHook(func(_ context.Context, op string) error {
		if op == membackend.OpLogout {
			return errors.New("timeout")
		}
		return nil
	})
	if _, err := svc.Logout(context.Background()); err == nil {
		t.Fatalf("Logout succeeded despite backend failure")
	}
	if !store.Snapshot().Authenticated() {
		t.Fatalf("session cleared after failed logout")
	}

	be.SetHook(nil)
	to, err := svc.Logout(context.Background())
	if err != nil || to != routes.Home {
		t.Fatalf("Logout=%q err=%v", to, err)
	}
	if store.Snapshot().Authenticated() {
		t.Fatalf("session still authenticated after logout")
	}
}

func TestBootstrapper_LoginDuringCheckWins(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	stale := seed(t, be, "stale", domain.RoleBacker)
	be.SignIn(stale.ID)

	store := session.NewStore()
	fresh := domain.User{ID: "fresh", Username: "Fresh", Role: domain.RoleAdmin}
	be.SetHook(func(_ context.Context, op string) error {
		if op == membackend.OpMe {
			_ = store.Dispatch(session.Set(fresh))
		}
		return nil
	})

	b := auth.NewBootstrapper(be, store, logr.Discard())
	b.Run(context.Background())

	if got := store.Snapshot().UserID(); got != fresh.ID {
		t.Fatalf("session user=%q, want %q", got, fresh.ID)
	}
}
