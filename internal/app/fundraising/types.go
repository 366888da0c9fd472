package fundraising

import (
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

type CreateCampaignInput struct {
	Title       string
	Description string
	GoalAmount  float64
	// Deadline is a calendar date (2006-01-02) or an RFC 3339 timestamp; empty means none.
	Deadline string
	Category string
	Image    string
}

type TransactionInput struct {
	CampaignID   domain.CampaignID
	Amount       float64
	Message      *string
	Confirmation domain.PaymentConfirmation
}

// Receipt is the outcome of a recorded transaction.
type Receipt struct {
	Contribution domain.Contribution
	// OwnerID is the campaign owner to notify.
	OwnerID domain.UserID
	Backing domain.Backing
	// Replayed is true when the payment had already been recorded.
	Replayed bool
}

// Invoice is the printable record of one contribution.
type Invoice struct {
	Contribution  domain.Contribution
	CampaignTitle string
	BackerName    string
	BackerEmail   string
	Currency      string
	IssuedAt      time.Time
}
