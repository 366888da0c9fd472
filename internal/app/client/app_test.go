package client_test

import (
	"context"
	"testing"
	"time"

	membackend "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/backend"
	memcheckout "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/checkout"
	memclock "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/clock"
	mempush "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/pushchannel"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/client"
	"github.com/kunall-01/crowdspark-frontend/internal/app/fundraising"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

const secret = "test-secret"

type fixture struct {
	be  *membackend.Backend
	ch  *mempush.Channel
	app *client.App
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))
	be := membackend.New(clk, membackend.Options{PaymentSecret: secret, BaseURL: "http://backend.test"})
	ch := mempush.New()
	app := client.New(client.Deps{Backend: be, Push: ch, Checkout: memcheckout.NewProvider(secret)})
	t.Cleanup(app.Stop)
	return fixture{be: be, ch: ch, app: app}
}

func (f fixture) register(t *testing.T, name string, role domain.Role) domain.User {
	t.Helper()
	u, err := f.be.Accounts().Register(context.Background(), accounts.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "secret123", Role: string(role),
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	return u
}

func (f fixture) start(t *testing.T) {
	t.Helper()
	f.app.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.app.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
}

func TestApp_GuestNavigation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.start(t)

	if res := f.app.Navigate(routes.Dashboard); res.Path != routes.Login {
		t.Fatalf("guest /dashboard -> %q", res.Path)
	}
	if res := f.app.Navigate(routes.Admin); res.Path != routes.Home {
		t.Fatalf("guest /admin -> %q", res.Path)
	}
	if !f.app.Allowed(routes.AffordanceLoginLink) || f.app.Allowed(routes.AffordanceNotificationBell) {
		t.Fatalf("guest affordances wrong")
	}
}

func TestApp_RestoresSessionAtStartup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	olga := f.register(t, "olga", domain.RoleCampaignOwner)
	f.be.SignIn(olga.ID)
	f.start(t)

	if res := f.app.Navigate(routes.Create); !res.Decision.Renders() || res.Path != routes.Create {
		t.Fatalf("/create after restore=%+v", res)
	}
	if rooms := f.ch.Rooms(pushchannel.EventJoin); len(rooms) != 1 || rooms[0] != string(olga.ID) {
		t.Fatalf("joins=%v", rooms)
	}
}

func TestApp_LoginNotifyLogout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	olga := f.register(t, "olga", domain.RoleCampaignOwner)
	bob := f.register(t, "bob", domain.RoleBacker)
	c, err := f.be.Fundraising().CreateCampaign(context.Background(), olga.ID, fundraising.CreateCampaignInput{
		Title: "Wells", GoalAmount: 1000, Category: string(domain.CategoryHealth),
	})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	f.be.OnTransaction(func(r fundraising.Receipt) {
		_, _ = f.ch.Deliver(pushchannel.EventNewBacking, pushchannel.NewBacking{
			Amount: r.Backing.Amount, CampaignID: string(r.Backing.CampaignID), Backer: r.Backing.Backer,
		})
	})
	f.start(t)

	res, err := f.app.Auth.Login(context.Background(), olga.Email, "secret123")
	if err != nil || res.Landing != routes.Create {
		t.Fatalf("Login=%+v err=%v", res, err)
	}

	for i := 0; i < 6; i++ {
		if _, err := f.be.Contribute(context.Background(), bob.ID, c.ID, 10, nil); err != nil {
			t.Fatalf("Contribute: %v", err)
		}
	}
	if got := f.app.Notifications().Count(); got != 6 {
		t.Fatalf("badge=%d, want 6", got)
	}
	if recent := f.app.Notifications().Recent(); len(recent) != 5 || recent[0].Backer != "bob" {
		t.Fatalf("recent=%+v", recent)
	}

	to, err := f.app.Auth.Logout(context.Background())
	if err != nil || to != routes.Home {
		t.Fatalf("Logout=%q err=%v", to, err)
	}
	if f.app.Notifications().Count() != 0 {
		t.Fatalf("badge after logout=%d", f.app.Notifications().Count())
	}
	if res := f.app.Navigate(routes.Create); res.Path != routes.Login {
		t.Fatalf("/create after logout -> %q", res.Path)
	}
}

func TestApp_ViewModelsShareTheSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	bob := f.register(t, "bob", domain.RoleBacker)
	f.be.SignIn(bob.ID)
	f.start(t)

	d := f.app.NewDashboard()
	d.Mount(context.Background())
	defer d.Unmount()
	if st := f.app.NewDashboard().State(); !st.ShowUpgradePanel {
		t.Fatalf("backer dashboard has no upgrade panel")
	}
	if st := d.State(); st.Greeting != "Hello, bob!" {
		t.Fatalf("Greeting=%q", st.Greeting)
	}
}
