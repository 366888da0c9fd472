package contributionrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/contributionrepo"
)

// Repo is an in-memory implementation of contributionrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	orders map[domain.OrderID]contributionrepo.Order
	byID   map[domain.ContributionID]contributionrepo.Contribution
}

func NewRepo() *Repo {
	return &Repo{
		orders: make(map[domain.OrderID]contributionrepo.Order),
		byID:   make(map[domain.ContributionID]contributionrepo.Contribution),
	}
}

func (r *Repo) CreateOrder(ctx context.Context, o contributionrepo.Order) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[o.ID]; ok || o.ID == "" {
		return contributionrepo.ErrAlreadyExists
	}
	r.orders[o.ID] = o
	return nil
}

func (r *Repo) GetOrder(ctx context.Context, id domain.OrderID) (contributionrepo.Order, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return contributionrepo.Order{}, contributionrepo.ErrOrderNotFound
	}
	return o, nil
}

func (r *Repo) Create(ctx context.Context, c contributionrepo.Contribution) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[c.ID]; ok || c.ID == "" {
		return contributionrepo.ErrAlreadyExists
	}
	r.byID[c.ID] = cloneContribution(c)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ContributionID) (contributionrepo.Contribution, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return contributionrepo.Contribution{}, contributionrepo.ErrNotFound
	}
	return cloneContribution(c), nil
}

func (r *Repo) ListByBacker(ctx context.Context, backer domain.UserID) ([]contributionrepo.Contribution, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]contributionrepo.Contribution, 0)
	for _, c := range r.byID {
		if c.BackerID == backer {
			out = append(out, cloneContribution(c))
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

func (r *Repo) DeleteByCampaign(ctx context.Context, campaignID domain.CampaignID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.byID {
		if c.CampaignID == campaignID {
			delete(r.byID, id)
		}
	}
	return nil
}

func cloneContribution(c contributionrepo.Contribution) contributionrepo.Contribution {
	out := c
	if c.Message != nil {
		v := *c.Message
		out.Message = &v
	}
	return out
}
