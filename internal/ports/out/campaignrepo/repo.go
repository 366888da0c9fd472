package campaignrepo

import (
	"context"
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

type Campaign struct {
	ID          domain.CampaignID
	OwnerID     domain.UserID
	Title       string
	Description string
	Category    domain.Category
	Image       string

	GoalAmount   float64
	RaisedAmount float64
	Deadline     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted campaigns. List methods return newest first.
type Repository interface {
	Create(ctx context.Context, c Campaign) error
	GetByID(ctx context.Context, id domain.CampaignID) (Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
	ListByOwner(ctx context.Context, owner domain.UserID) ([]Campaign, error)
	Delete(ctx context.Context, id domain.CampaignID) error

	// AddRaised increments RaisedAmount atomically and returns the updated campaign.
	AddRaised(ctx context.Context, id domain.CampaignID, amount float64, at time.Time) (Campaign, error)
}
