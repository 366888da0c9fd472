package backend

import (
	"context"
	"io"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// Credentials is the login form payload.
type Credentials struct {
	Email    string
	Password string
}

// Registration is the register form payload after client-side checks.
type Registration struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// NewCampaign is the create-campaign payload. Image is a hosted URL (possibly from Upload).
type NewCampaign struct {
	Title       string
	Description string
	GoalAmount  float64
	Deadline    string
	Category    domain.Category
	Image       string
}

// Transaction is posted after the checkout provider confirms a payment.
type Transaction struct {
	CampaignID   domain.CampaignID
	Amount       float64
	Message      *string
	Confirmation domain.PaymentConfirmation
}

// Image is a file submitted to the upload endpoint.
type Image struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Auth covers the session endpoints. The credential is ambient (a cookie) and never
// handled by callers.
type Auth interface {
	Me(ctx context.Context) (domain.User, error)
	Login(ctx context.Context, c Credentials) error
	Register(ctx context.Context, r Registration) error
	Logout(ctx context.Context) error
}

type Campaigns interface {
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetCampaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error)
	CreateCampaign(ctx context.Context, in NewCampaign) (domain.Campaign, error)
	Upload(ctx context.Context, img Image) (string, error)
}

type Dashboard interface {
	MyCampaigns(ctx context.Context) ([]domain.Campaign, error)
	MyContributions(ctx context.Context) ([]domain.Contribution, error)
	RequestCampaignOwner(ctx context.Context) error
	CheckUpgradeRequest(ctx context.Context) (bool, error)
	// InvoiceURL is a download link; it is not fetched by the client.
	InvoiceURL(id domain.ContributionID) string
}

type Payments interface {
	CreateOrder(ctx context.Context, amount float64) (domain.Order, error)
	RecordTransaction(ctx context.Context, tx Transaction) error
}

type Admin interface {
	AdminCampaigns(ctx context.Context) ([]domain.Campaign, error)
	AdminUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id domain.UserID) error
	DeleteCampaign(ctx context.Context, id domain.CampaignID) error
	UpgradeRequests(ctx context.Context) ([]domain.UpgradeRequest, error)
	ApproveUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error
	RejectUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error
}

// Backend is the full REST surface the client talks to.
type Backend interface {
	Auth
	Campaigns
	Dashboard
	Payments
	Admin
}
