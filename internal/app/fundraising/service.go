// Package fundraising implements the dev backend's campaign, order and transaction use cases.
package fundraising

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/paysig"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/campaignrepo"
	clockport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/clock"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/contributionrepo"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/idempotency"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/userrepo"
)

const transactionsRoute = "POST /transactions"

type Options struct {
	PaymentSecret string
	Currency      string
}

type Service struct {
	campaigns     campaignrepo.Repository
	contributions contributionrepo.Repository
	users         userrepo.Repository
	idem          idempotency.Store
	clk           clockport.Clock
	opts          Options

	// txMu serializes transaction recording so a replayed payment id is seen by the second call.
	txMu sync.Mutex

	newCampaignID     func() domain.CampaignID
	newOrderID        func() domain.OrderID
	newContributionID func() domain.ContributionID
}

func NewService(
	campaigns campaignrepo.Repository,
	contributions contributionrepo.Repository,
	users userrepo.Repository,
	idem idempotency.Store,
	clk clockport.Clock,
	opts Options,
) *Service {
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	return &Service{
		campaigns:     campaigns,
		contributions: contributions,
		users:         users,
		idem:          idem,
		clk:           clk,
		opts:          opts,
		newCampaignID: func() domain.CampaignID {
			return domain.CampaignID(uuid.NewString())
		},
		newOrderID: func() domain.OrderID {
			return domain.OrderID("order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14])
		},
		newContributionID: func() domain.ContributionID {
			return domain.ContributionID(uuid.NewString())
		},
	}
}

// SetNewCampaignIDForTest overrides campaign ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewCampaignIDForTest(fn func() domain.CampaignID) {
	if fn != nil {
		s.newCampaignID = fn
	}
}

func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	cs, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.toDomainList(ctx, cs), nil
}

func (s *Service) GetCampaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, campaignrepo.ErrNotFound) {
			return domain.Campaign{}, campaignNotFound()
		}
		return domain.Campaign{}, err
	}
	return s.toDomain(ctx, c), nil
}

func (s *Service) CreateCampaign(ctx context.Context, caller domain.UserID, in CreateCampaignInput) (domain.Campaign, error) {
	if _, err := s.requireRole(ctx, caller, domain.RoleCampaignOwner, domain.RoleAdmin); err != nil {
		return domain.Campaign{}, err
	}

	title := domain.NormalizeHumanName(in.Title)
	details := map[string]any{}
	if title == "" {
		details["title"] = "required"
	}
	if in.GoalAmount <= 0 {
		details["goalAmount"] = "must be positive"
	}
	category := domain.Category(strings.TrimSpace(in.Category))
	if !validCategory(category) {
		details["category"] = "unknown category"
	}
	deadline, err := parseDeadline(in.Deadline)
	if err != nil {
		details["deadline"] = "must be a date (YYYY-MM-DD)"
	}
	if len(details) > 0 {
		return domain.Campaign{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "Invalid campaign", Details: details}
	}

	now := s.clk.Now().UTC()
	c := campaignrepo.Campaign{
		ID:          s.newCampaignID(),
		OwnerID:     caller,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Category:    category,
		Image:       strings.TrimSpace(in.Image),
		GoalAmount:  in.GoalAmount,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return domain.Campaign{}, err
	}
	return s.toDomain(ctx, c), nil
}

func (s *Service) MyCampaigns(ctx context.Context, caller domain.UserID) ([]domain.Campaign, error) {
	if _, err := s.requireUser(ctx, caller); err != nil {
		return nil, err
	}
	cs, err := s.campaigns.ListByOwner(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.toDomainList(ctx, cs), nil
}

func (s *Service) AdminCampaigns(ctx context.Context, caller domain.UserID) ([]domain.Campaign, error) {
	if _, err := s.requireRole(ctx, caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.ListCampaigns(ctx)
}

func (s *Service) DeleteCampaign(ctx context.Context, caller domain.UserID, id domain.CampaignID) error {
	if _, err := s.requireRole(ctx, caller, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.campaigns.Delete(ctx, id); err != nil {
		if errors.Is(err, campaignrepo.ErrNotFound) {
			return campaignNotFound()
		}
		return err
	}
	return s.contributions.DeleteByCampaign(ctx, id)
}

// CreateOrder issues a checkout order for amount. The order's amount is what a later
// transaction records, whatever the client claims.
func (s *Service) CreateOrder(ctx context.Context, caller domain.UserID, amount float64) (domain.Order, error) {
	if _, err := s.requireUser(ctx, caller); err != nil {
		return domain.Order{}, err
	}
	if amount <= 0 {
		return domain.Order{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "Invalid amount"}
	}
	o := contributionrepo.Order{
		ID:        s.newOrderID(),
		UserID:    caller,
		Amount:    amount,
		Currency:  s.opts.Currency,
		CreatedAt: s.clk.Now().UTC(),
	}
	if err := s.contributions.CreateOrder(ctx, o); err != nil {
		return domain.Order{}, err
	}
	return domain.Order{ID: o.ID, Amount: o.Amount, Currency: o.Currency}, nil
}

// RecordTransaction verifies a checkout confirmation and credits the campaign. Recording the
// same payment twice returns the original contribution with Replayed set.
func (s *Service) RecordTransaction(ctx context.Context, caller domain.UserID, in TransactionInput) (Receipt, error) {
	backer, err := s.requireUser(ctx, caller)
	if err != nil {
		return Receipt{}, err
	}
	if !paysig.Verify(s.opts.PaymentSecret, in.Confirmation) {
		return Receipt{}, &Error{Status: 400, Code: "PAYMENT_VERIFICATION_FAILED", Message: "Payment verification failed"}
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	fp := idempotency.Fingerprint{
		Key:     idempotency.Key(in.Confirmation.PaymentID),
		Subject: caller,
		Route:   transactionsRoute,
	}
	if rec, ok, err := s.idem.Get(ctx, fp); err != nil {
		return Receipt{}, err
	} else if ok {
		return s.replay(ctx, domain.ContributionID(rec.Body))
	}

	order, err := s.contributions.GetOrder(ctx, in.Confirmation.OrderID)
	if err != nil {
		if errors.Is(err, contributionrepo.ErrOrderNotFound) {
			return Receipt{}, &Error{Status: 400, Code: "ORDER_NOT_FOUND", Message: "Unknown order"}
		}
		return Receipt{}, err
	}
	if order.UserID != caller {
		return Receipt{}, &Error{Status: 403, Code: "FORBIDDEN", Message: "Order belongs to another user"}
	}
	if in.Amount != 0 && in.Amount != order.Amount {
		return Receipt{}, &Error{Status: 400, Code: "AMOUNT_MISMATCH", Message: "Amount does not match order"}
	}

	now := s.clk.Now().UTC()
	camp, err := s.campaigns.AddRaised(ctx, in.CampaignID, order.Amount, now)
	if err != nil {
		if errors.Is(err, campaignrepo.ErrNotFound) {
			return Receipt{}, campaignNotFound()
		}
		return Receipt{}, err
	}

	var msg *string
	if in.Message != nil && strings.TrimSpace(*in.Message) != "" {
		m := strings.TrimSpace(*in.Message)
		msg = &m
	}
	rec := contributionrepo.Contribution{
		ID:         s.newContributionID(),
		CampaignID: camp.ID,
		BackerID:   caller,
		OrderID:    order.ID,
		PaymentID:  in.Confirmation.PaymentID,
		Amount:     order.Amount,
		Message:    msg,
		CreatedAt:  now,
	}
	if err := s.contributions.Create(ctx, rec); err != nil {
		return Receipt{}, err
	}
	if err := s.idem.Put(ctx, fp, idempotency.Record{StatusCode: 201, Body: []byte(rec.ID), CreatedAt: now}); err != nil {
		return Receipt{}, err
	}

	return Receipt{
		Contribution: contributionToDomain(rec, camp.Title),
		OwnerID:      camp.OwnerID,
		Backing: domain.Backing{
			Amount:     rec.Amount,
			CampaignID: camp.ID,
			Backer:     backer.Username,
			Message:    msg,
		},
	}, nil
}

func (s *Service) replay(ctx context.Context, id domain.ContributionID) (Receipt, error) {
	rec, err := s.contributions.GetByID(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	title := ""
	var owner domain.UserID
	if c, err := s.campaigns.GetByID(ctx, rec.CampaignID); err == nil {
		title, owner = c.Title, c.OwnerID
	}
	return Receipt{Contribution: contributionToDomain(rec, title), OwnerID: owner, Replayed: true}, nil
}

func (s *Service) MyContributions(ctx context.Context, caller domain.UserID) ([]domain.Contribution, error) {
	if _, err := s.requireUser(ctx, caller); err != nil {
		return nil, err
	}
	recs, err := s.contributions.ListByBacker(ctx, caller)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Contribution, 0, len(recs))
	for _, r := range recs {
		title := ""
		if c, err := s.campaigns.GetByID(ctx, r.CampaignID); err == nil {
			title = c.Title
		}
		out = append(out, contributionToDomain(r, title))
	}
	return out, nil
}

// Invoice returns the invoice for a contribution. Only its backer and admins may read it.
func (s *Service) Invoice(ctx context.Context, caller domain.UserID, id domain.ContributionID) (Invoice, error) {
	u, err := s.requireUser(ctx, caller)
	if err != nil {
		return Invoice{}, err
	}
	rec, err := s.contributions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, contributionrepo.ErrNotFound) {
			return Invoice{}, &Error{Status: 404, Code: "CONTRIBUTION_NOT_FOUND", Message: "Contribution not found"}
		}
		return Invoice{}, err
	}
	if rec.BackerID != caller && u.Role != domain.RoleAdmin {
		return Invoice{}, &Error{Status: 404, Code: "CONTRIBUTION_NOT_FOUND", Message: "Contribution not found"}
	}
	inv := Invoice{Currency: s.opts.Currency, IssuedAt: s.clk.Now().UTC()}
	title := ""
	if c, err := s.campaigns.GetByID(ctx, rec.CampaignID); err == nil {
		title = c.Title
	}
	inv.Contribution = contributionToDomain(rec, title)
	inv.CampaignTitle = title
	if b, err := s.users.GetByID(ctx, rec.BackerID); err == nil {
		inv.BackerName, inv.BackerEmail = b.Username, b.Email
	}
	return inv, nil
}

func (s *Service) requireUser(ctx context.Context, id domain.UserID) (userrepo.User, error) {
	if id == "" {
		return userrepo.User{}, unauthorized()
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return userrepo.User{}, unauthorized()
		}
		return userrepo.User{}, err
	}
	return u, nil
}

func (s *Service) requireRole(ctx context.Context, id domain.UserID, allowed ...domain.Role) (userrepo.User, error) {
	u, err := s.requireUser(ctx, id)
	if err != nil {
		return userrepo.User{}, err
	}
	for _, r := range allowed {
		if u.Role == r {
			return u, nil
		}
	}
	return userrepo.User{}, forbidden()
}

func (s *Service) toDomainList(ctx context.Context, cs []campaignrepo.Campaign) []domain.Campaign {
	out := make([]domain.Campaign, 0, len(cs))
	for _, c := range cs {
		out = append(out, s.toDomain(ctx, c))
	}
	return out
}

func (s *Service) toDomain(ctx context.Context, c campaignrepo.Campaign) domain.Campaign {
	d := domain.Campaign{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		Image:        c.Image,
		GoalAmount:   c.GoalAmount,
		RaisedAmount: c.RaisedAmount,
		CreatedAt:    c.CreatedAt,
	}
	if c.Deadline != nil {
		v := *c.Deadline
		d.Deadline = &v
	}
	if u, err := s.users.GetByID(ctx, c.OwnerID); err == nil {
		d.Owner = &domain.OwnerSummary{ID: u.ID, Username: u.Username}
	}
	return d
}

func contributionToDomain(r contributionrepo.Contribution, title string) domain.Contribution {
	d := domain.Contribution{
		ID:         r.ID,
		CampaignID: r.CampaignID,
		Title:      title,
		Amount:     r.Amount,
		Date:       r.CreatedAt,
	}
	if r.Message != nil {
		v := *r.Message
		d.Message = &v
	}
	return d
}

func campaignNotFound() *Error {
	return &Error{Status: 404, Code: "CAMPAIGN_NOT_FOUND", Message: "Campaign not found"}
}

func validCategory(c domain.Category) bool {
	for _, known := range domain.Categories() {
		if c == known && c != domain.CategoryAll {
			return true
		}
	}
	return false
}

func parseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
