package campaignrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/campaignrepo"
)

// Repo is an in-memory implementation of campaignrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex
	m  map[domain.CampaignID]campaignrepo.Campaign
}

func NewRepo() *Repo {
	return &Repo{m: make(map[domain.CampaignID]campaignrepo.Campaign)}
}

func (r *Repo) Create(ctx context.Context, c campaignrepo.Campaign) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		return campaignrepo.ErrAlreadyExists
	}
	if _, ok := r.m[c.ID]; ok {
		return campaignrepo.ErrAlreadyExists
	}
	r.m[c.ID] = cloneCampaign(c)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.CampaignID) (campaignrepo.Campaign, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.m[id]
	if !ok {
		return campaignrepo.Campaign{}, campaignrepo.ErrNotFound
	}
	return cloneCampaign(c), nil
}

func (r *Repo) List(ctx context.Context) ([]campaignrepo.Campaign, error) {
	return r.filter(ctx, func(campaignrepo.Campaign) bool { return true })
}

func (r *Repo) ListByOwner(ctx context.Context, owner domain.UserID) ([]campaignrepo.Campaign, error) {
	return r.filter(ctx, func(c campaignrepo.Campaign) bool { return c.OwnerID == owner })
}

func (r *Repo) Delete(ctx context.Context, id domain.CampaignID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.m[id]; !ok {
		return campaignrepo.ErrNotFound
	}
	delete(r.m, id)
	return nil
}

func (r *Repo) AddRaised(ctx context.Context, id domain.CampaignID, amount float64, at time.Time) (campaignrepo.Campaign, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.m[id]
	if !ok {
		return campaignrepo.Campaign{}, campaignrepo.ErrNotFound
	}
	c.RaisedAmount += amount
	c.UpdatedAt = at
	r.m[id] = c
	return cloneCampaign(c), nil
}

func (r *Repo) filter(ctx context.Context, keep func(campaignrepo.Campaign) bool) ([]campaignrepo.Campaign, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]campaignrepo.Campaign, 0)
	for _, c := range r.m {
		if keep(c) {
			out = append(out, cloneCampaign(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func cloneCampaign(c campaignrepo.Campaign) campaignrepo.Campaign {
	out := c
	if c.Deadline != nil {
		v := *c.Deadline
		out.Deadline = &v
	}
	return out
}
