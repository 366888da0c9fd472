package campaigns_test

import (
	"context"
	"testing"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/campaigns"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

// gatedCampaigns holds each GetCampaign until released and ignores cancellation, so only the
// view's own bookkeeping can discard a stale response.
type gatedCampaigns struct {
	backend.Campaigns
	started chan domain.CampaignID
	release map[domain.CampaignID]chan struct{}
}

func (g *gatedCampaigns) GetCampaign(_ context.Context, id domain.CampaignID) (domain.Campaign, error) {
	g.started <- id
	<-g.release[id]
	return g.Campaigns.GetCampaign(context.Background(), id)
}

func TestDetail_Load(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	olga := register(t, be, "olga", domain.RoleCampaignOwner)
	c := seedCampaign(t, be, olga.ID, "Plant Trees", domain.CategoryEnvironment)

	d := campaigns.NewDetail(be, logr.Discard())
	d.Load(context.Background(), c.ID)
	got, ok := d.Campaign()
	if !ok || got.ID != c.ID || d.Loading() {
		t.Fatalf("Campaign()=%+v ok=%v loading=%v", got, ok, d.Loading())
	}

	d.Load(context.Background(), "missing")
	if _, ok := d.Campaign(); ok || d.Loading() {
		t.Fatalf("missing campaign shown (loading=%v)", d.Loading())
	}
}

func TestDetail_SupersededLoadNeverRenders(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	olga := register(t, be, "olga", domain.RoleCampaignOwner)
	first := seedCampaign(t, be, olga.ID, "First", domain.CategoryHealth)
	second := seedCampaign(t, be, olga.ID, "Second", domain.CategoryHealth)

	gated := &gatedCampaigns{
		Campaigns: be,
		started:   make(chan domain.CampaignID, 2),
		release: map[domain.CampaignID]chan struct{}{
			first.ID:  make(chan struct{}),
			second.ID: make(chan struct{}),
		},
	}
	d := campaigns.NewDetail(gated, logr.Discard())

	done1 := make(chan struct{})
	go func() {
		d.Load(context.Background(), first.ID)
		close(done1)
	}()
	<-gated.started

	done2 := make(chan struct{})
	go func() {
		d.Load(context.Background(), second.ID)
		close(done2)
	}()
	<-gated.started

	close(gated.release[first.ID])
	<-done1
	if _, ok := d.Campaign(); ok || !d.Loading() {
		t.Fatalf("stale response rendered")
	}

	close(gated.release[second.ID])
	<-done2
	got, ok := d.Campaign()
	if !ok || got.ID != second.ID {
		t.Fatalf("Campaign()=%+v ok=%v, want %s", got, ok, second.ID)
	}
}

func TestDetail_CloseDropsLateResult(t *testing.T) {
	t.Parallel()

	be := newBackend(t)
	olga := register(t, be, "olga", domain.RoleCampaignOwner)
	c := seedCampaign(t, be, olga.ID, "Plant Trees", domain.CategoryEnvironment)

	gated := &gatedCampaigns{
		Campaigns: be,
		started:   make(chan domain.CampaignID, 1),
		release:   map[domain.CampaignID]chan struct{}{c.ID: make(chan struct{})},
	}
	d := campaigns.NewDetail(gated, logr.Discard())
	done := make(chan struct{})
	go func() {
		d.Load(context.Background(), c.ID)
		close(done)
	}()
	<-gated.started
	d.Close()
	close(gated.release[c.ID])
	<-done

	if _, ok := d.Campaign(); ok {
		t.Fatalf("closed detail rendered a campaign")
	}
}
