package campaigns

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

// Detail is the single-campaign page. Each Load cancels the one before it; only the most
// recent load may change what is shown.
type Detail struct {
	api backend.Campaigns
	log logr.Logger

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
	loading  bool
	campaign *domain.Campaign
}

func NewDetail(api backend.Campaigns, log logr.Logger) *Detail {
	return &Detail{api: api, log: log.WithName("campaign-detail"), loading: true}
}

// Load fetches campaign id and blocks until the response is applied or discarded.
func (d *Detail) Load(ctx context.Context, id domain.CampaignID) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	gen := d.gen
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.loading = true
	d.campaign = nil
	d.mu.Unlock()
	defer cancel()

	c, err := d.api.GetCampaign(ctx, id)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen {
		return
	}
	switch {
	case err == nil && c.ID != "":
		d.campaign = &c
	case apperr.IsCancelled(err):
	case err != nil:
		d.log.Error(err, "failed to fetch campaign", "campaignId", id)
	}
	d.loading = false
}

// Close cancels any load in flight and ignores later results.
func (d *Detail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Detail) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Campaign reports the loaded campaign; false means "not found" once loading is over.
func (d *Detail) Campaign() (domain.Campaign, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.campaign == nil {
		return domain.Campaign{}, false
	}
	return *d.campaign, true
}
