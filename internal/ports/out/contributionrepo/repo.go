package contributionrepo

import (
	"context"
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// Order is a checkout order issued before payment. The amount recorded against a campaign
// comes from here, not from the client.
type Order struct {
	ID        domain.OrderID
	UserID    domain.UserID
	Amount    float64
	Currency  string
	CreatedAt time.Time
}

type Contribution struct {
	ID         domain.ContributionID
	CampaignID domain.CampaignID
	BackerID   domain.UserID
	OrderID    domain.OrderID
	PaymentID  string
	Amount     float64
	Message    *string
	CreatedAt  time.Time
}

type Repository interface {
	CreateOrder(ctx context.Context, o Order) error
	GetOrder(ctx context.Context, id domain.OrderID) (Order, error)

	Create(ctx context.Context, c Contribution) error
	GetByID(ctx context.Context, id domain.ContributionID) (Contribution, error)

	// ListByBacker returns the backer's contributions, newest first.
	ListByBacker(ctx context.Context, backer domain.UserID) ([]Contribution, error)
	// DeleteByCampaign removes every contribution to a deleted campaign.
	DeleteByCampaign(ctx context.Context, campaignID domain.CampaignID) error
}
