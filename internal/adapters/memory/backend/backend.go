// Package backend is an in-process implementation of the client's backend port.
//
// It runs the dev backend's services directly, holding the "cookie" as a field, so client
// code can be exercised without HTTP. Hooks let tests fail or stall individual endpoints.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	memcampaignrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/campaignrepo"
	memcontributionrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/contributionrepo"
	memidempotency "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/idempotency"
	memimagestore "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/imagestore"
	memuserrepo "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/userrepo"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/fundraising"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/paysig"
	backendport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
	clockport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/clock"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/imagestore"
)

// Endpoint names passed to hooks.
const (
	OpMe                    = "GET /me"
	OpLogin                 = "POST /login"
	OpRegister              = "POST /register"
	OpLogout                = "POST /logout"
	OpListCampaigns         = "GET /campaigns"
	OpGetCampaign           = "GET /campaigns/{id}"
	OpCreateCampaign        = "POST /campaigns"
	OpUpload                = "POST /upload"
	OpMyCampaigns           = "GET /my-campaigns"
	OpMyContributions       = "GET /my-contributions"
	OpRequestCampaignOwner  = "POST /request-campaign-owner"
	OpCheckUpgradeRequest   = "GET /check-upgrade-request"
	OpCreateOrder           = "POST /create-order"
	OpRecordTransaction     = "POST /transactions"
	OpAdminCampaigns        = "GET /admin/campaigns"
	OpAdminUsers            = "GET /admin/users"
	OpDeleteUser            = "DELETE /admin/users/{id}"
	OpDeleteCampaign        = "DELETE /admin/campaigns/{id}"
	OpUpgradeRequests       = "GET /admin/upgrade-requests"
	OpApproveUpgradeRequest = "POST /admin/upgrade-requests/{id}/approve"
	OpRejectUpgradeRequest  = "DELETE /admin/upgrade-requests/{id}"
)

// Hook runs before every endpoint. A non-nil error is returned instead of calling it.
type Hook func(ctx context.Context, op string) error

// TransactionObserver is told about every newly recorded (not replayed) transaction.
type TransactionObserver func(r fundraising.Receipt)

type Options struct {
	PaymentSecret string
	Currency      string
	// BaseURL prefixes invoice links and uploaded image URLs.
	BaseURL string
}

// Backend implements the client's backend port in process. It is safe for concurrent use.
type Backend struct {
	accounts    *accounts.Service
	fundraising *fundraising.Service
	images      imagestore.Store
	opts        Options

	mu      sync.Mutex
	current domain.UserID
	hook    Hook
	onTx    TransactionObserver
	calls   map[string]int
}

var _ backendport.Backend = (*Backend)(nil)

func New(clk clockport.Clock, opts Options) *Backend {
	users := memuserrepo.NewRepo()
	acc := accounts.NewService(users, clk)
	acc.HashCost = bcrypt.MinCost
	fr := fundraising.NewService(
		memcampaignrepo.NewRepo(),
		memcontributionrepo.NewRepo(),
		users,
		memidempotency.NewStore(),
		clk,
		fundraising.Options{PaymentSecret: opts.PaymentSecret, Currency: opts.Currency},
	)
	return &Backend{
		accounts:    acc,
		fundraising: fr,
		images:      memimagestore.NewStore(),
		opts:        opts,
		calls:       make(map[string]int),
	}
}

// Accounts exposes the account service for seeding.
func (b *Backend) Accounts() *accounts.Service { return b.accounts }

// Fundraising exposes the campaign service for seeding.
func (b *Backend) Fundraising() *fundraising.Service { return b.fundraising }

// SetHook installs h, replacing any previous hook. Pass nil to remove it.
func (b *Backend) SetHook(h Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hook = h
}

// OnTransaction installs fn to observe recorded transactions.
func (b *Backend) OnTransaction(fn TransactionObserver) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onTx = fn
}

// SignIn sets the session credential directly, as if a cookie were present.
func (b *Backend) SignIn(id domain.UserID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = id
}

// Calls reports how many times op has been invoked (including hooked failures).
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *Backend) enter(ctx context.Context, op string) (domain.UserID, error) {
	b.mu.Lock()
	b.calls[op]++
	hook := b.hook
	cur := b.current
	b.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, op); err != nil {
			return "", err
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return cur, nil
}

// wrap converts service errors into the response errors an HTTP backend would produce.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var ae *accounts.Error
	if errors.As(err, &ae) {
		return &backendport.ResponseError{Status: ae.Status, Message: ae.Message}
	}
	var fe *fundraising.Error
	if errors.As(err, &fe) {
		return &backendport.ResponseError{Status: fe.Status, Message: fe.Message}
	}
	return err
}

func unauthenticated() error {
	return &backendport.ResponseError{Status: 401, Message: "Not authenticated"}
}

func (b *Backend) Me(ctx context.Context) (domain.User, error) {
	cur, err := b.enter(ctx, OpMe)
	if err != nil {
		return domain.User{}, err
	}
	if cur == "" {
		return domain.User{}, unauthenticated()
	}
	u, err := b.accounts.Me(ctx, cur)
	return u, wrap(err)
}

func (b *Backend) Login(ctx context.Context, c backendport.Credentials) error {
	if _, err := b.enter(ctx, OpLogin); err != nil {
		return err
	}
	u, err := b.accounts.Authenticate(ctx, c.Email, c.Password)
	if err != nil {
		return wrap(err)
	}
	b.SignIn(u.ID)
	return nil
}

func (b *Backend) Register(ctx context.Context, r backendport.Registration) error {
	if _, err := b.enter(ctx, OpRegister); err != nil {
		return err
	}
	u, err := b.accounts.Register(ctx, accounts.RegisterInput{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Role:     string(r.Role),
	})
	if err != nil {
		return wrap(err)
	}
	b.SignIn(u.ID)
	return nil
}

func (b *Backend) Logout(ctx context.Context) error {
	if _, err := b.enter(ctx, OpLogout); err != nil {
		return err
	}
	b.SignIn("")
	return nil
}

func (b *Backend) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	if _, err := b.enter(ctx, OpListCampaigns); err != nil {
		return nil, err
	}
	cs, err := b.fundraising.ListCampaigns(ctx)
	return cs, wrap(err)
}

func (b *Backend) GetCampaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error) {
	if _, err := b.enter(ctx, OpGetCampaign); err != nil {
		return domain.Campaign{}, err
	}
	c, err := b.fundraising.GetCampaign(ctx, id)
	return c, wrap(err)
}

func (b *Backend) CreateCampaign(ctx context.Context, in backendport.NewCampaign) (domain.Campaign, error) {
	cur, err := b.enter(ctx, OpCreateCampaign)
	if err != nil {
		return domain.Campaign{}, err
	}
	c, err := b.fundraising.CreateCampaign(ctx, cur, fundraising.CreateCampaignInput{
		Title:       in.Title,
		Description: in.Description,
		GoalAmount:  in.GoalAmount,
		Deadline:    in.Deadline,
		Category:    string(in.Category),
		Image:       in.Image,
	})
	return c, wrap(err)
}

func (b *Backend) Upload(ctx context.Context, img backendport.Image) (string, error) {
	cur, err := b.enter(ctx, OpUpload)
	if err != nil {
		return "", err
	}
	if cur == "" {
		return "", unauthenticated()
	}
	body, err := io.ReadAll(img.Body)
	if err != nil {
		return "", err
	}
	key := uuid.NewString()
	if err := b.images.Put(ctx, key, imagestore.Image{ContentType: img.ContentType, Body: body}); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/uploads/%s", b.opts.BaseURL, key), nil
}

func (b *Backend) MyCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	cur, err := b.enter(ctx, OpMyCampaigns)
	if err != nil {
		return nil, err
	}
	cs, err := b.fundraising.MyCampaigns(ctx, cur)
	return cs, wrap(err)
}

func (b *Backend) MyContributions(ctx context.Context) ([]domain.Contribution, error) {
	cur, err := b.enter(ctx, OpMyContributions)
	if err != nil {
		return nil, err
	}
	cs, err := b.fundraising.MyContributions(ctx, cur)
	return cs, wrap(err)
}

func (b *Backend) RequestCampaignOwner(ctx context.Context) error {
	cur, err := b.enter(ctx, OpRequestCampaignOwner)
	if err != nil {
		return err
	}
	if cur == "" {
		return unauthenticated()
	}
	return wrap(b.accounts.RequestUpgrade(ctx, cur))
}

func (b *Backend) CheckUpgradeRequest(ctx context.Context) (bool, error) {
	cur, err := b.enter(ctx, OpCheckUpgradeRequest)
	if err != nil {
		return false, err
	}
	if cur == "" {
		return false, unauthenticated()
	}
	ok, err := b.accounts.HasPendingUpgrade(ctx, cur)
	return ok, wrap(err)
}

func (b *Backend) InvoiceURL(id domain.ContributionID) string {
	return fmt.Sprintf("%s/invoice/%s", b.opts.BaseURL, id)
}

func (b *Backend) CreateOrder(ctx context.Context, amount float64) (domain.Order, error) {
	cur, err := b.enter(ctx, OpCreateOrder)
	if err != nil {
		return domain.Order{}, err
	}
	o, err := b.fundraising.CreateOrder(ctx, cur, amount)
	return o, wrap(err)
}

func (b *Backend) RecordTransaction(ctx context.Context, tx backendport.Transaction) error {
	cur, err := b.enter(ctx, OpRecordTransaction)
	if err != nil {
		return err
	}
	r, err := b.fundraising.RecordTransaction(ctx, cur, fundraising.TransactionInput{
		CampaignID:   tx.CampaignID,
		Amount:       tx.Amount,
		Message:      tx.Message,
		Confirmation: tx.Confirmation,
	})
	if err != nil {
		return wrap(err)
	}
	b.notify(r)
	return nil
}

// Contribute records a paid contribution by backer as if another client had completed checkout.
func (b *Backend) Contribute(ctx context.Context, backer domain.UserID, campaign domain.CampaignID, amount float64, message *string) (fundraising.Receipt, error) {
	o, err := b.fundraising.CreateOrder(ctx, backer, amount)
	if err != nil {
		return fundraising.Receipt{}, err
	}
	paymentID := "pay_" + uuid.NewString()
	r, err := b.fundraising.RecordTransaction(ctx, backer, fundraising.TransactionInput{
		CampaignID: campaign,
		Amount:     amount,
		Message:    message,
		Confirmation: domain.PaymentConfirmation{
			PaymentID: paymentID,
			OrderID:   o.ID,
			Signature: paysig.Sign(b.opts.PaymentSecret, o.ID, paymentID),
		},
	})
	if err != nil {
		return fundraising.Receipt{}, err
	}
	b.notify(r)
	return r, nil
}

func (b *Backend) notify(r fundraising.Receipt) {
	b.mu.Lock()
	onTx := b.onTx
	b.mu.Unlock()
	if onTx != nil && !r.Replayed {
		onTx(r)
	}
}

func (b *Backend) AdminCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	cur, err := b.enter(ctx, OpAdminCampaigns)
	if err != nil {
		return nil, err
	}
	cs, err := b.fundraising.AdminCampaigns(ctx, cur)
	return cs, wrap(err)
}

func (b *Backend) AdminUsers(ctx context.Context) ([]domain.User, error) {
	cur, err := b.enter(ctx, OpAdminUsers)
	if err != nil {
		return nil, err
	}
	if cur == "" {
		return nil, unauthenticated()
	}
	us, err := b.accounts.ListUsers(ctx, cur)
	return us, wrap(err)
}

func (b *Backend) DeleteUser(ctx context.Context, id domain.UserID) error {
	cur, err := b.enter(ctx, OpDeleteUser)
	if err != nil {
		return err
	}
	if cur == "" {
		return unauthenticated()
	}
	return wrap(b.accounts.DeleteUser(ctx, cur, id))
}

func (b *Backend) DeleteCampaign(ctx context.Context, id domain.CampaignID) error {
	cur, err := b.enter(ctx, OpDeleteCampaign)
	if err != nil {
		return err
	}
	return wrap(b.fundraising.DeleteCampaign(ctx, cur, id))
}

func (b *Backend) UpgradeRequests(ctx context.Context) ([]domain.UpgradeRequest, error) {
	cur, err := b.enter(ctx, OpUpgradeRequests)
	if err != nil {
		return nil, err
	}
	if cur == "" {
		return nil, unauthenticated()
	}
	rs, err := b.accounts.ListUpgradeRequests(ctx, cur)
	return rs, wrap(err)
}

func (b *Backend) ApproveUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error {
	cur, err := b.enter(ctx, OpApproveUpgradeRequest)
	if err != nil {
		return err
	}
	if cur == "" {
		return unauthenticated()
	}
	return wrap(b.accounts.ApproveUpgrade(ctx, cur, id))
}

func (b *Backend) RejectUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error {
	cur, err := b.enter(ctx, OpRejectUpgradeRequest)
	if err != nil {
		return err
	}
	if cur == "" {
		return unauthenticated()
	}
	return wrap(b.accounts.RejectUpgrade(ctx, cur, id))
}
