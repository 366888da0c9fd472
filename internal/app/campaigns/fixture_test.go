package campaigns_test

import (
	"context"
	"testing"
	"time"

	membackend "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/backend"
	memclock "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/clock"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/fundraising"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

const paymentSecret = "test-secret"

func newBackend(t *testing.T) *membackend.Backend {
	t.Helper()
	clk := memclock.NewManualClock(time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC))
	return membackend.New(clk, membackend.Options{PaymentSecret: paymentSecret, BaseURL: "http://backend.test"})
}

func register(t *testing.T, be *membackend.Backend, name string, role domain.Role) domain.User {
	t.Helper()
	u, err := be.Accounts().Register(context.Background(), accounts.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "secret123", Role: string(role),
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	return u
}

func seedCampaign(t *testing.T, be *membackend.Backend, owner domain.UserID, title string, category domain.Category) domain.Campaign {
	t.Helper()
	c, err := be.Fundraising().CreateCampaign(context.Background(), owner, fundraising.CreateCampaignInput{
		Title: title, GoalAmount: 1000, Category: string(category),
	})
	if err != nil {
		t.Fatalf("CreateCampaign(%s): %v", title, err)
	}
	return c
}
