// Package accounts implements the dev backend's user, session and role-upgrade use cases.
package accounts

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	clockport "github.com/kunall-01/crowdspark-frontend/internal/ports/out/clock"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/userrepo"
)

// MinPasswordLength applies to registration only; seeded accounts are trusted.
const MinPasswordLength = 6

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

type Service struct {
	repo userrepo.Repository
	clk  clockport.Clock

	newUserID    func() domain.UserID
	newRequestID func() domain.UpgradeRequestID

	// HashCost is the bcrypt cost. Tests lower it to bcrypt.MinCost.
	HashCost int
}

func NewService(repo userrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
		newRequestID: func() domain.UpgradeRequestID {
			return domain.UpgradeRequestID(uuid.NewString())
		},
		HashCost: bcrypt.DefaultCost,
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

// Register creates a backer or campaign owner account. Admins can only be seeded.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	username := domain.NormalizeHumanName(in.Username)
	email := strings.TrimSpace(in.Email)
	details := map[string]any{}
	if username == "" {
		details["username"] = "required"
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		details["email"] = "must be a valid email address"
	}
	if len(in.Password) < MinPasswordLength {
		details["password"] = "must be at least 6 characters"
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil || !role.SelfAssignable() {
		details["role"] = "must be backer or campaignOwner"
	}
	if len(details) > 0 {
		return domain.User{}, &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "Invalid registration", Details: details}
	}
	return s.create(ctx, username, email, in.Password, role)
}

// SeedAdmin creates an admin account unless the email is already registered.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) (domain.User, error) {
	if u, err := s.repo.GetByEmail(ctx, email); err == nil {
		return toDomain(u), nil
	}
	return s.create(ctx, "admin", strings.TrimSpace(email), password, domain.RoleAdmin)
}

func (s *Service) create(ctx context.Context, username, email, password string, role domain.Role) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return domain.User{}, err
	}
	now := s.clk.Now().UTC()
	u := userrepo.User{
		ID:           s.newUserID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return domain.User{}, &Error{Status: 400, Code: "EMAIL_TAKEN", Message: "User already exists"}
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong passwords fail alike.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.User, error) {
	invalid := &Error{Status: 400, Code: "INVALID_CREDENTIALS", Message: "Invalid credentials"}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, invalid
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return domain.User{}, invalid
	}
	return toDomain(u), nil
}

// Me resolves the session subject. A deleted account is treated as signed out.
func (s *Service) Me(ctx context.Context, id domain.UserID) (domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.User{}, unauthorized()
		}
		return domain.User{}, err
	}
	return toDomain(u), nil
}

// RequireRole loads the caller and checks that their role is one of allowed.
func (s *Service) RequireRole(ctx context.Context, id domain.UserID, allowed ...domain.Role) (domain.User, error) {
	u, err := s.Me(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	for _, r := range allowed {
		if u.Role == r {
			return u, nil
		}
	}
	return domain.User{}, forbidden()
}

func (s *Service) ListUsers(ctx context.Context, caller domain.UserID) ([]domain.User, error) {
	if _, err := s.RequireRole(ctx, caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	us, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(us))
	for _, u := range us {
		out = append(out, toDomain(u))
	}
	return out, nil
}

func (s *Service) DeleteUser(ctx context.Context, caller, target domain.UserID) error {
	if _, err := s.RequireRole(ctx, caller, domain.RoleAdmin); err != nil {
		return err
	}
	if caller == target {
		return &Error{Status: 400, Code: "VALIDATION_ERROR", Message: "Admins cannot delete themselves"}
	}
	if err := s.repo.Delete(ctx, target); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "USER_NOT_FOUND", Message: "User not found"}
		}
		return err
	}
	return nil
}

// RequestUpgrade files a backer's request to become a campaign owner.
func (s *Service) RequestUpgrade(ctx context.Context, caller domain.UserID) error {
	u, err := s.Me(ctx, caller)
	if err != nil {
		return err
	}
	if u.Role != domain.RoleBacker {
		return &Error{Status: 400, Code: "NOT_A_BACKER", Message: "Only backers can request campaign owner access"}
	}
	err = s.repo.CreateUpgradeRequest(ctx, userrepo.UpgradeRequest{
		ID:        s.newRequestID(),
		UserID:    caller,
		CreatedAt: s.clk.Now().UTC(),
	})
	if errors.Is(err, userrepo.ErrUpgradeRequestExists) {
		return &Error{Status: 400, Code: "REQUEST_PENDING", Message: "Request already pending"}
	}
	return err
}

func (s *Service) HasPendingUpgrade(ctx context.Context, caller domain.UserID) (bool, error) {
	if _, err := s.Me(ctx, caller); err != nil {
		return false, err
	}
	return s.repo.HasUpgradeRequest(ctx, caller)
}

func (s *Service) ListUpgradeRequests(ctx context.Context, caller domain.UserID) ([]domain.UpgradeRequest, error) {
	if _, err := s.RequireRole(ctx, caller, domain.RoleAdmin); err != nil {
		return nil, err
	}
	reqs, err := s.repo.ListUpgradeRequests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UpgradeRequest, 0, len(reqs))
	for _, r := range reqs {
		d := domain.UpgradeRequest{ID: r.ID, CreatedAt: r.CreatedAt}
		if u, err := s.repo.GetByID(ctx, r.UserID); err == nil {
			d.User = &domain.OwnerSummary{ID: u.ID, Username: u.Username}
		}
		out = append(out, d)
	}
	return out, nil
}

// ApproveUpgrade promotes the requester to campaign owner and closes the request.
func (s *Service) ApproveUpgrade(ctx context.Context, caller domain.UserID, id domain.UpgradeRequestID) error {
	if _, err := s.RequireRole(ctx, caller, domain.RoleAdmin); err != nil {
		return err
	}
	req, err := s.repo.GetUpgradeRequest(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "REQUEST_NOT_FOUND", Message: "Request not found"}
		}
		return err
	}
	u, err := s.repo.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	u.Role = domain.RoleCampaignOwner
	u.UpdatedAt = s.clk.Now().UTC()
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	return s.repo.DeleteUpgradeRequest(ctx, id)
}

func (s *Service) RejectUpgrade(ctx context.Context, caller domain.UserID, id domain.UpgradeRequestID) error {
	if _, err := s.RequireRole(ctx, caller, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.DeleteUpgradeRequest(ctx, id); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return &Error{Status: 404, Code: "REQUEST_NOT_FOUND", Message: "Request not found"}
		}
		return err
	}
	return nil
}

// Username looks up a display name for notifications; unknown users yield "".
func (s *Service) Username(ctx context.Context, id domain.UserID) string {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return u.Username
}

func toDomain(u userrepo.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
