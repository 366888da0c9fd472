package wire

import (
	"fmt"
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// OptionalString maps a possibly-nil message onto a nullable field; nil stays unspecified.
func OptionalString(p *string) nullable.Nullable[string] {
	if p == nil {
		return nullable.Nullable[string]{}
	}
	return nullable.NewNullableWithValue(*p)
}

// StringPtr is the inverse of OptionalString. Null, unspecified and empty all map to nil.
func StringPtr(n nullable.Nullable[string]) *string {
	if !n.IsSpecified() || n.IsNull() {
		return nil
	}
	v, err := n.Get()
	if err != nil || v == "" {
		return nil
	}
	return &v
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

func timeOf(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}

func FromUser(u domain.User) User {
	return User{
		ID:        string(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: timePtr(u.CreatedAt),
	}
}

// ToUser rejects roles outside the closed set.
func (u User) ToUser() (domain.User, error) {
	role, err := domain.ParseRole(u.Role)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return domain.User{
		ID:        domain.UserID(u.ID),
		Username:  u.Username,
		Email:     u.Email,
		Role:      role,
		CreatedAt: timeOf(u.CreatedAt),
	}, nil
}

func FromCampaign(c domain.Campaign) Campaign {
	out := Campaign{
		ID:           string(c.ID),
		Title:        c.Title,
		Description:  c.Description,
		Category:     string(c.Category),
		Image:        c.Image,
		GoalAmount:   Amount(c.GoalAmount),
		RaisedAmount: Amount(c.RaisedAmount),
		CreatedAt:    timePtr(c.CreatedAt),
	}
	if c.Deadline != nil {
		out.Deadline = timePtr(*c.Deadline)
	}
	if c.Owner != nil {
		out.Owner = &Owner{ID: string(c.Owner.ID), Username: c.Owner.Username}
	}
	return out
}

func (c Campaign) ToCampaign() domain.Campaign {
	out := domain.Campaign{
		ID:           domain.CampaignID(c.ID),
		Title:        c.Title,
		Description:  c.Description,
		Category:     domain.Category(c.Category),
		Image:        c.Image,
		GoalAmount:   float64(c.GoalAmount),
		RaisedAmount: float64(c.RaisedAmount),
		Deadline:     c.Deadline,
		CreatedAt:    timeOf(c.CreatedAt),
	}
	if c.Owner != nil {
		out.Owner = &domain.OwnerSummary{ID: domain.UserID(c.Owner.ID), Username: c.Owner.Username}
	}
	return out
}

func ToCampaigns(cs []Campaign) []domain.Campaign {
	out := make([]domain.Campaign, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ToCampaign())
	}
	return out
}

func FromContribution(c domain.Contribution) Contribution {
	return Contribution{
		ID:         string(c.ID),
		CampaignID: string(c.CampaignID),
		Title:      c.Title,
		Amount:     Amount(c.Amount),
		Date:       timePtr(c.Date),
		Message:    OptionalString(c.Message),
	}
}

func (c Contribution) ToContribution() domain.Contribution {
	out := domain.Contribution{
		ID:         domain.ContributionID(firstNonEmpty(c.ID, c.AltID)),
		CampaignID: domain.CampaignID(c.CampaignID),
		Title:      c.Title,
		Amount:     float64(c.Amount),
		Message:    StringPtr(c.Message),
	}
	if out.Title == "" && c.Campaign != nil {
		out.Title = c.Campaign.Title
	}
	if out.CampaignID == "" && c.Campaign != nil {
		out.CampaignID = domain.CampaignID(c.Campaign.ID)
	}
	switch {
	case c.Date != nil:
		out.Date = *c.Date
	case c.CreatedAt != nil:
		out.Date = *c.CreatedAt
	}
	return out
}

func FromUpgradeRequest(r domain.UpgradeRequest) UpgradeRequest {
	out := UpgradeRequest{ID: string(r.ID), CreatedAt: timePtr(r.CreatedAt)}
	if r.User != nil {
		out.User = &Owner{ID: string(r.User.ID), Username: r.User.Username}
	}
	return out
}

func (r UpgradeRequest) ToUpgradeRequest() domain.UpgradeRequest {
	out := domain.UpgradeRequest{ID: domain.UpgradeRequestID(r.ID), CreatedAt: timeOf(r.CreatedAt)}
	if r.User != nil {
		out.User = &domain.OwnerSummary{ID: domain.UserID(r.User.ID), Username: r.User.Username}
	}
	return out
}

func FromOrder(o domain.Order) Order {
	return Order{OrderID: string(o.ID), Amount: Amount(o.Amount), Currency: o.Currency}
}

func (o Order) ToOrder() domain.Order {
	return domain.Order{ID: domain.OrderID(o.OrderID), Amount: float64(o.Amount), Currency: o.Currency}
}

// Confirmation extracts the provider's signed fields.
func (t Transaction) Confirmation() domain.PaymentConfirmation {
	return domain.PaymentConfirmation{
		PaymentID: t.PaymentID,
		OrderID:   domain.OrderID(t.OrderID),
		Signature: t.Signature,
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
