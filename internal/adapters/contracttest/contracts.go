package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	campaignrepoport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/campaignrepo"
	contributionrepoport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/contributionrepo"
	idempotencyport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/idempotency"
	userrepoport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/userrepo"
)

type CleanupFunc = func()

type UserRepoFactory func(t *testing.T) (userrepoport.Repository, CleanupFunc)
type CampaignRepoFactory func(t *testing.T) (campaignrepoport.Repository, CleanupFunc)
type ContributionRepoFactory func(t *testing.T) (contributionrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:     "pay_123",
		Subject: domain.UserID("u-1"),
		Route:   "POST /transactions",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}
	rec := idempotencyport.Record{
		StatusCode: 201,
		Body:       []byte("c-1"),
		CreatedAt:  time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "c-1" || got.StatusCode != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("c-2")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "c-2" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func RunUserRepo(t *testing.T, newRepo UserRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:           aID,
		Username:     "alice",
		Email:        "Alice@Example.com",
		PasswordHash: []byte("hash"),
		Role:         domain.RoleBacker,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil || got.ID != aID {
		t.Fatalf("GetByEmail: id=%q err=%v", got.ID, err)
	}

	// Email uniqueness (case-insensitive).
	if err := repo.Create(ctx, userrepoport.User{
		ID:        domain.UserID(uuid.NewString()),
		Username:  "alice2",
		Email:     "ALICE@example.com",
		Role:      domain.RoleBacker,
		CreatedAt: now,
		UpdatedAt: now,
	}); !errors.Is(err, userrepoport.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Newest first.
	bID := domain.UserID(uuid.NewString())
	if err := repo.Create(ctx, userrepoport.User{
		ID:        bID,
		Username:  "bob",
		Email:     "bob@example.com",
		Role:      domain.RoleCampaignOwner,
		CreatedAt: now.Add(time.Minute),
		UpdatedAt: now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	us, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(us) != 2 || us[0].ID != bID {
		t.Fatalf("unexpected ordering: %#v", us)
	}

	// Role update.
	got.Role = domain.RoleCampaignOwner
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if u, _ := repo.GetByID(ctx, aID); u.Role != domain.RoleCampaignOwner {
		t.Fatalf("role after update=%q", u.Role)
	}

	// One pending upgrade request per user.
	reqID := domain.UpgradeRequestID(uuid.NewString())
	if err := repo.CreateUpgradeRequest(ctx, userrepoport.UpgradeRequest{ID: reqID, UserID: aID, CreatedAt: now}); err != nil {
		t.Fatalf("CreateUpgradeRequest: %v", err)
	}
	if err := repo.CreateUpgradeRequest(ctx, userrepoport.UpgradeRequest{ID: domain.UpgradeRequestID(uuid.NewString()), UserID: aID, CreatedAt: now}); !errors.Is(err, userrepoport.ErrUpgradeRequestExists) {
		t.Fatalf("expected ErrUpgradeRequestExists, got %v", err)
	}
	if has, err := repo.HasUpgradeRequest(ctx, aID); err != nil || !has {
		t.Fatalf("HasUpgradeRequest=%v err=%v", has, err)
	}
	if reqs, err := repo.ListUpgradeRequests(ctx); err != nil || len(reqs) != 1 || reqs[0].ID != reqID {
		t.Fatalf("ListUpgradeRequests=%#v err=%v", reqs, err)
	}

	// Deleting the user drops their request.
	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, aID); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v", err)
	}
	if _, err := repo.GetUpgradeRequest(ctx, reqID); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetUpgradeRequest after user delete err=%v", err)
	}
	if _, err := repo.GetByEmail(ctx, "alice@example.com"); !errors.Is(err, userrepoport.ErrNotFound) {
		t.Fatalf("GetByEmail after delete err=%v", err)
	}
}

func RunCampaignRepo(t *testing.T, newRepo CampaignRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	owner := domain.UserID(uuid.NewString())
	deadline := now.Add(30 * 24 * time.Hour)
	first := campaignrepoport.Campaign{
		ID:         domain.CampaignID(uuid.NewString()),
		OwnerID:    owner,
		Title:      "Plant Trees",
		Category:   domain.CategoryEnvironment,
		GoalAmount: 1000,
		Deadline:   &deadline,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	second := first
	second.ID = domain.CampaignID(uuid.NewString())
	second.OwnerID = domain.UserID(uuid.NewString())
	second.Title = "Clean Water"
	second.CreatedAt = now.Add(time.Hour)

	for _, c := range []campaignrepoport.Campaign{first, second} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create %s: %v", c.Title, err)
		}
	}
	if err := repo.Create(ctx, first); !errors.Is(err, campaignrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v", err)
	}

	all, err := repo.List(ctx)
	if err != nil || len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("List=%#v err=%v", all, err)
	}
	mine, err := repo.ListByOwner(ctx, owner)
	if err != nil || len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("ListByOwner=%#v err=%v", mine, err)
	}

	updated, err := repo.AddRaised(ctx, first.ID, 250, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("AddRaised: %v", err)
	}
	if updated.RaisedAmount != 250 {
		t.Fatalf("RaisedAmount=%v, want 250", updated.RaisedAmount)
	}
	if _, err := repo.AddRaised(ctx, "missing", 1, now); !errors.Is(err, campaignrepoport.ErrNotFound) {
		t.Fatalf("AddRaised missing err=%v", err)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, first.ID); !errors.Is(err, campaignrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v", err)
	}
}

func RunContributionRepo(t *testing.T, newRepo ContributionRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(3000, 0).UTC()
	backer := domain.UserID(uuid.NewString())
	order := contributionrepoport.Order{ID: "order_1", UserID: backer, Amount: 500, Currency: "INR", CreatedAt: now}
	if err := repo.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got, err := repo.GetOrder(ctx, "order_1"); err != nil || got.Amount != 500 {
		t.Fatalf("GetOrder=%+v err=%v", got, err)
	}
	if _, err := repo.GetOrder(ctx, "order_x"); !errors.Is(err, contributionrepoport.ErrOrderNotFound) {
		t.Fatalf("GetOrder missing err=%v", err)
	}

	msg := "keep going"
	older := contributionrepoport.Contribution{
		ID: "c-1", CampaignID: "camp-1", BackerID: backer, OrderID: "order_1", PaymentID: "pay_1",
		Amount: 500, Message: &msg, CreatedAt: now,
	}
	newer := contributionrepoport.Contribution{
		ID: "c-2", CampaignID: "camp-2", BackerID: backer, OrderID: "order_2", PaymentID: "pay_2",
		Amount: 100, CreatedAt: now.Add(time.Minute),
	}
	for _, c := range []contributionrepoport.Contribution{older, newer} {
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("Create %s: %v", c.ID, err)
		}
	}
	list, err := repo.ListByBacker(ctx, backer)
	if err != nil || len(list) != 2 || list[0].ID != "c-2" {
		t.Fatalf("ListByBacker=%#v err=%v", list, err)
	}
	got, err := repo.GetByID(ctx, "c-1")
	if err != nil || got.Message == nil || *got.Message != "keep going" {
		t.Fatalf("GetByID=%+v err=%v", got, err)
	}

	if err := repo.DeleteByCampaign(ctx, "camp-1"); err != nil {
		t.Fatalf("DeleteByCampaign: %v", err)
	}
	if _, err := repo.GetByID(ctx, "c-1"); !errors.Is(err, contributionrepoport.ErrNotFound) {
		t.Fatalf("GetByID after DeleteByCampaign err=%v", err)
	}
}
