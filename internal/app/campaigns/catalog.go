// Package campaigns holds the view models for browsing, viewing, creating and supporting
// campaigns.
package campaigns

import (
	"context"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

// Catalog is the campaign list behind the home and explore pages.
type Catalog struct {
	api backend.Campaigns
	log logr.Logger

	mu      sync.Mutex
	closed  bool
	loading bool
	items   []domain.Campaign
}

func NewCatalog(api backend.Campaigns, log logr.Logger) *Catalog {
	return &Catalog{api: api, log: log.WithName("catalog"), loading: true}
}

// Load fetches every campaign. A result that arrives after Close is dropped.
func (c *Catalog) Load(ctx context.Context) error {
	items, err := c.api.ListCampaigns(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.loading = false
	if err != nil {
		if !apperr.IsCancelled(err) {
			c.log.Error(err, "error fetching campaigns")
		}
		return err
	}
	c.items = items
	return nil
}

// Close detaches the catalog from any fetch still in flight.
func (c *Catalog) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Catalog) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Catalog) Campaigns() []domain.Campaign {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Campaign(nil), c.items...)
}

// Filter applies the explore page's category buttons and search box.
func (c *Catalog) Filter(category domain.Category, search string) []domain.Campaign {
	return Filter(c.Campaigns(), category, search)
}

// Filter keeps campaigns in category (CategoryAll or "" keeps every category) whose title
// contains search, ignoring case.
func Filter(cs []domain.Campaign, category domain.Category, search string) []domain.Campaign {
	search = strings.TrimSpace(search)
	out := make([]domain.Campaign, 0, len(cs))
	for _, c := range cs {
		if category != "" && category != domain.CategoryAll && c.Category != category {
			continue
		}
		if !domain.ContainsFold(c.Title, search) {
			continue
		}
		out = append(out, c)
	}
	return out
}
