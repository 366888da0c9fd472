package sessiontoken_test

import (
	"testing"
	"time"

	memclock "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/clock"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/auth/sessiontoken"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/config"
)

func testConfig() config.SessionTokenConfig {
	return config.SessionTokenConfig{
		Secret:     "0123456789abcdef-test",
		Issuer:     "test-iss",
		CookieName: "token",
		TTL:        time.Hour,
		ClockSkew:  0,
	}
}

func TestManager_IssueThenVerify(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	m := sessiontoken.NewWithClock(testConfig(), clk)

	tok, exp, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !exp.Equal(clk.Now().Add(time.Hour)) {
		t.Fatalf("exp=%v, want %v", exp, clk.Now().Add(time.Hour))
	}
	id, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id != "user-123" {
		t.Fatalf("id=%q, want %q", id, "user-123")
	}
}

func TestManager_Verify_Expired(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	m := sessiontoken.NewWithClock(testConfig(), clk)

	tok, _, err := m.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	clk.Advance(2 * time.Hour)
	if _, err := m.Verify(tok); err != sessiontoken.ErrUnauthorized {
		t.Fatalf("Verify err=%v, want ErrUnauthorized", err)
	}
}

func TestManager_Verify_RejectsOtherSecretAndIssuer(t *testing.T) {
	t.Parallel()

	clk := memclock.NewManualClock(time.Unix(1700000000, 0).UTC())
	m := sessiontoken.NewWithClock(testConfig(), clk)

	otherSecret := testConfig()
	otherSecret.Secret = "another-secret-of-16+"
	tok, _, err := sessiontoken.NewWithClock(otherSecret, clk).Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(tok); err == nil {
		t.Fatalf("Verify accepted token signed with another secret")
	}

	otherIss := testConfig()
	otherIss.Issuer = "someone-else"
	tok, _, err = sessiontoken.NewWithClock(otherIss, clk).Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := m.Verify(tok); err == nil {
		t.Fatalf("Verify accepted token from another issuer")
	}

	for _, bad := range []string{"", "   ", "not-a-jwt"} {
		if _, err := m.Verify(bad); err == nil {
			t.Fatalf("Verify(%q) succeeded", bad)
		}
	}
}
