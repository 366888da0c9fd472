package campaigns_test

import (
	"context"
	"testing"

	"github.com/go-logr/logr"

	membackend "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/backend"
	"github.com/kunall-01/crowdspark-frontend/internal/app/campaigns"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

func TestCatalog_LoadAndFilter(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	olga := register(t, be, "olga", domain.RoleCampaignOwner)
	seedCampaign(t, be, olga.ID, "Plant Trees", domain.CategoryEnvironment)
	seedCampaign(t, be, olga.ID, "Clean Water", domain.CategoryHealth)
	seedCampaign(t, be, olga.ID, "Tree Surgeons Clinic", domain.CategoryHealth)

	cat := campaigns.NewCatalog(be, logr.Discard())
	if !cat.Loading() {
		t.Fatalf("Loading before Load=false")
	}
	if err := cat.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Loading() || len(cat.Campaigns()) != 3 {
		t.Fatalf("loading=%v campaigns=%d", cat.Loading(), len(cat.Campaigns()))
	}

	cases := []struct {
		category domain.Category
		search   string
		want     int
	}{
		{domain.CategoryAll, "", 3},
		{domain.CategoryHealth, "", 2},
		{domain.CategoryAll, "TREE", 2},
		{domain.CategoryHealth, "tree", 1},
		{domain.CategoryTechnology, "", 0},
		{"", "water", 1},
	}
	for _, tc := range cases {
		if got := cat.Filter(tc.category, tc.search); len(got) != tc.want {
			t.Fatalf("Filter(%q, %q)=%d, want %d", tc.category, tc.search, len(got), tc.want)
		}
	}
}

func TestCatalog_ResultAfterCloseIsDropped(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	olga := register(t, be, "olga", domain.RoleCampaignOwner)
	seedCampaign(t, be, olga.ID, "Plant Trees", domain.CategoryEnvironment)

	cat := campaigns.NewCatalog(be, logr.Discard())
	be.SetHook(func(_ context.Context, op string) error {
		if op == membackend.OpListCampaigns {
			cat.Close()
		}
		return nil
	})
	if err := cat.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat.Campaigns()) != 0 || !cat.Loading() {
		t.Fatalf("closed catalog changed: loading=%v campaigns=%d", cat.Loading(), len(cat.Campaigns()))
	}
}
