package userrepo

import (
	"context"
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// User is the persistence shape of an account. PasswordHash is a bcrypt hash and never leaves
// the backend.
type User struct {
	ID           domain.UserID
	Username     string
	Email        string
	PasswordHash []byte
	Role         domain.Role

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpgradeRequest is a backer's pending request to become a campaign owner.
type UpgradeRequest struct {
	ID        domain.UpgradeRequestID
	UserID    domain.UserID
	CreatedAt time.Time
}

// Repository provides access to accounts and their upgrade requests.
//
// Emails are matched case-insensitively. List methods return newest first.
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	Delete(ctx context.Context, id domain.UserID) error

	GetByID(ctx context.Context, id domain.UserID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	List(ctx context.Context) ([]User, error)

	// CreateUpgradeRequest fails with ErrUpgradeRequestExists when the user already has one.
	CreateUpgradeRequest(ctx context.Context, r UpgradeRequest) error
	GetUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) (UpgradeRequest, error)
	HasUpgradeRequest(ctx context.Context, userID domain.UserID) (bool, error)
	ListUpgradeRequests(ctx context.Context) ([]UpgradeRequest, error)
	DeleteUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error
}
