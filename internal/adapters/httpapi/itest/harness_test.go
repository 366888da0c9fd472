package itest

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/kunall-01/crowdspark-frontend/internal/adapters/httpapi"
	"github.com/kunall-01/crowdspark-frontend/internal/adapters/httpbackend"
	memcampaignrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/campaignrepo"
	memcheckout "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/checkout"
	memclock "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/clock"
	memcontributionrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/contributionrepo"
	memidempotency "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/idempotency"
	memimagestore "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/imagestore"
	memuserrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/userrepo"
	"github.com/kunall-01/crowdspark-frontend/internal/adapters/wspush"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/client"
	"github.com/kunall-01/crowdspark-frontend/internal/app/fundraising"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/auth/sessiontoken"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/config"
)

const paymentSecret = "itest-payment-secret"

type testServer struct {
	api *httpapi.Server
	url string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))
	users := memuserrepo.NewRepo()
	acc := accounts.NewService(users, clk)
	acc.HashCost = bcrypt.MinCost
	fr := fundraising.NewService(
		memcampaignrepo.NewRepo(),
		memcontributionrepo.NewRepo(),
		users,
		memidempotency.NewStore(),
		clk,
		fundraising.Options{PaymentSecret: paymentSecret},
	)
	tokens := sessiontoken.New(config.SessionTokenConfig{
		Secret:     "itest-session-secret",
		Issuer:     "itest",
		CookieName: "token",
		TTL:        time.Hour,
	})
	api := httpapi.NewServer(acc, fr, memimagestore.NewStore(), tokens, httpapi.ServerOptions{CookieName: "token"})

	srv := httptest.NewServer(httpapi.NewRouter(api, httpapi.RouterOptions{}))
	t.Cleanup(srv.Close)
	return &testServer{api: api, url: srv.URL}
}

func (s *testServer) register(t *testing.T, name string, role domain.Role) domain.User {
	t.Helper()
	u, err := s.api.Accounts.Register(context.Background(), accounts.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "secret123", Role: string(role),
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	return u
}

// testClient is one client process talking to the server over HTTP and the push socket.
type testClient struct {
	api  *httpbackend.Client
	push *wspush.Client
	app  *client.App
}

func (s *testServer) newClient(t *testing.T) *testClient {
	t.Helper()
	return s.newClientWith(t, nil)
}

// newClientWith starts a client on hc, so two clients can share one cookie jar.
func (s *testServer) newClientWith(t *testing.T, hc *http.Client) *testClient {
	t.Helper()

	api, err := httpbackend.New(s.url, httpbackend.Options{HTTPClient: hc})
	if err != nil {
		t.Fatalf("httpbackend.New: %v", err)
	}
	wsURL, origin, err := wspush.Endpoints(api.BaseURL(), "/push")
	if err != nil {
		t.Fatalf("Endpoints: %v", err)
	}
	push, err := wspush.Connect(context.Background(), wspush.Options{
		URL:        wsURL,
		Origin:     origin,
		Cookies:    api.Cookies,
		NewBackOff: func() backoff.BackOff { return backoff.NewConstantBackOff(10 * time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("wspush.Connect: %v", err)
	}
	t.Cleanup(func() { _ = push.Close() })

	app := client.New(client.Deps{Backend: api, Push: push, Checkout: memcheckout.NewProvider(paymentSecret)})
	t.Cleanup(app.Stop)
	app.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if err := push.WaitConnected(ctx); err != nil {
		t.Fatalf("WaitConnected: %v", err)
	}
	return &testClient{api: api, push: push, app: app}
}

func (c *testClient) login(t *testing.T, name string) {
	t.Helper()
	if _, err := c.app.Auth.Login(context.Background(), name+"@example.com", "secret123"); err != nil {
		t.Fatalf("Login(%s): %v", name, err)
	}
}

func newJarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
