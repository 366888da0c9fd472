package campaigns

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/oapi-codegen/nullable"

	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/checkout"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

const (
	MsgInvalidAmount = "Please enter a valid amount"
	MsgThankYou      = "Thank you for your support!"
	MsgPaymentFailed = "Payment failed."
)

// Checkout dialog labels.
const (
	CheckoutName        = "CrowdSpark"
	CheckoutDescription = "Support this campaign"
)

// ErrPaymentInProgress is returned when Pay is called while another payment is running.
var ErrPaymentInProgress = errors.New("payment already in progress")

// SupportBackend is the part of the backend the support page uses.
type SupportBackend interface {
	GetCampaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error)
	backend.Payments
}

// Supporter is the support page: it shows a campaign's progress and takes payments for it.
type Supporter struct {
	api      SupportBackend
	checkout checkout.Provider
	ch       pushchannel.Channel
	log      logr.Logger

	paying atomic.Bool

	mu       sync.Mutex
	id       domain.CampaignID
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
	loading  bool
	campaign *domain.Campaign
	feedback string
}

func NewSupporter(api SupportBackend, co checkout.Provider, ch pushchannel.Channel, log logr.Logger) *Supporter {
	return &Supporter{api: api, checkout: co, ch: ch, log: log.WithName("supporter"), loading: true}
}

// Load fetches campaign id, cancelling any load still in flight. Any failure leaves the page
// in its "not found" state; a response for a superseded load or a closed page is dropped.
func (s *Supporter) Load(ctx context.Context, id domain.CampaignID) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.id = id
	s.loading = true
	s.mu.Unlock()
	defer cancel()

	c, err := s.api.GetCampaign(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.loading = false
	if err != nil || c.ID == "" {
		if err != nil && !apperr.IsCancelled(err) {
			s.log.Error(err, "error fetching campaign", "campaignId", id)
		}
		s.campaign = nil
		return
	}
	s.campaign = &c
}

// Close cancels any load in flight. Later loads and late results leave the page untouched.
// A payment already past checkout still completes on the backend.
func (s *Supporter) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Pay runs the full payment flow for amount: order, hosted checkout, transaction record,
// donation event and a reload of the campaign.
func (s *Supporter) Pay(ctx context.Context, amount float64, message string) error {
	if amount <= 0 {
		s.setFeedback(MsgInvalidAmount)
		return apperr.Validation(MsgInvalidAmount)
	}
	s.mu.Lock()
	id := s.id
	s.mu.Unlock()
	if id == "" {
		return apperr.Validation(MsgPaymentFailed)
	}
	if !s.paying.CompareAndSwap(false, true) {
		return ErrPaymentInProgress
	}
	defer s.paying.Store(false)
	s.setFeedback("")

	order, err := s.api.CreateOrder(ctx, amount)
	if err != nil {
		return s.fail(err)
	}
	conf, err := s.checkout.Open(ctx, checkout.Request{
		Order:       order,
		Name:        CheckoutName,
		Description: CheckoutDescription,
	})
	if errors.Is(err, checkout.ErrDismissed) {
		return err
	}
	if err != nil {
		return s.fail(err)
	}

	tx := backend.Transaction{CampaignID: id, Amount: amount, Confirmation: conf}
	event := pushchannel.DonationMade{CampaignID: string(id), Amount: amount}
	if m := strings.TrimSpace(message); m != "" {
		tx.Message = &m
		event.Message = nullable.NewNullableWithValue(m)
	}
	if err := s.api.RecordTransaction(ctx, tx); err != nil {
		return s.fail(err)
	}

	if err := s.ch.Emit(ctx, pushchannel.EventDonationMade, event); err != nil {
		s.log.Error(err, "donationMade emit failed", "campaignId", id)
	}
	s.setFeedback(MsgThankYou)
	s.Load(ctx, id)
	return nil
}

func (s *Supporter) fail(err error) error {
	if apperr.IsCancelled(err) {
		return err
	}
	s.log.Error(err, "error during payment")
	s.setFeedback(MsgPaymentFailed)
	return &apperr.Error{Kind: apperr.Classify(err), Message: MsgPaymentFailed, Err: err}
}

func (s *Supporter) setFeedback(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.feedback = msg
}

// Feedback is the inline message under the payment form.
func (s *Supporter) Feedback() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback
}

func (s *Supporter) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Supporter) Campaign() (domain.Campaign, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.campaign == nil {
		return domain.Campaign{}, false
	}
	return *s.campaign, true
}
