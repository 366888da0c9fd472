package domain

import (
	"math"
	"time"
)

// Category groups campaigns on the explore page.
type Category string

const (
	CategoryAll         Category = "All"
	CategoryHealth      Category = "Health"
	CategoryEducation   Category = "Education"
	CategoryEnvironment Category = "Environment"
	CategoryTechnology  Category = "Technology"
)

// Categories lists the filters offered on the explore page, in display order.
func Categories() []Category {
	return []Category{CategoryAll, CategoryHealth, CategoryEducation, CategoryEnvironment, CategoryTechnology}
}

// OwnerSummary is the subset of the campaign creator exposed to other users.
type OwnerSummary struct {
	ID       UserID
	Username string
}

type Campaign struct {
	ID          CampaignID
	Title       string
	Description string
	Category    Category
	Image       string

	GoalAmount   float64
	RaisedAmount float64
	Deadline     *time.Time

	Owner     *OwnerSummary
	CreatedAt time.Time

	// IsDemo marks placeholder records shown when the backend has nothing (or fails).
	IsDemo bool
}

// Progress is the funded percentage, capped at 100. A non-positive goal reports 0.
func (c Campaign) Progress() float64 {
	if c.GoalAmount <= 0 {
		return 0
	}
	return math.Min(c.RaisedAmount/c.GoalAmount*100, 100)
}

// OwnerName falls back to a generic label when the creator is unknown.
func (c Campaign) OwnerName() string {
	if c.Owner == nil || c.Owner.Username == "" {
		return "Campaign Owner"
	}
	return c.Owner.Username
}

type Contribution struct {
	ID         ContributionID
	CampaignID CampaignID
	Title      string
	Amount     float64
	Date       time.Time
	Message    *string

	IsDemo bool
}

type UpgradeRequest struct {
	ID        UpgradeRequestID
	User      *OwnerSummary
	CreatedAt time.Time
}

// Order is a checkout order created by the backend for a single payment.
type Order struct {
	ID       OrderID
	Amount   float64
	Currency string
}

// PaymentConfirmation carries the provider's signed completion fields.
// The backend verifies the signature; the client only forwards it.
type PaymentConfirmation struct {
	PaymentID string
	OrderID   OrderID
	Signature string
}

// Backing is one pushed "new contribution" notification.
type Backing struct {
	Amount     float64
	CampaignID CampaignID
	Backer     string
	Message    *string

	// Seq is the 1-based arrival order within the aggregator that stored it.
	Seq int
}
