package auth

import (
	"context"
	"strings"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

// Inline messages shown by the login and register forms.
const (
	MsgLoginFailed       = "Login failed"
	MsgRegisterFailed    = "Something went wrong"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgSelectRole        = "Please select a role"
	MsgLoginSucceeded    = "Login successful!"
	MsgRegisterSucceeded = "Registration successful! Redirecting..."
	MsgLogoutFailed      = "Logout failed"
)

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	// Role is the raw form value; only backer and campaignOwner are accepted.
	Role string
}

// Result is a completed login or registration.
type Result struct {
	User    domain.User
	Landing string
	Message string
}

type Service struct {
	auth  backend.Auth
	store *session.Store
	log   logr.Logger
}

func NewService(auth backend.Auth, store *session.Store, log logr.Logger) *Service {
	return &Service{auth: auth, store: store, log: log.WithName("auth")}
}

func (s *Service) Login(ctx context.Context, email, password string) (Result, error) {
	creds := backend.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := s.auth.Login(ctx, creds); err != nil {
		return Result{}, apperr.FromBackend(err, MsgLoginFailed)
	}
	return s.establish(ctx, MsgLoginFailed, MsgLoginSucceeded)
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Result, error) {
	if in.Password != in.ConfirmPassword {
		return Result{}, apperr.Validation(MsgPasswordsMismatch)
	}
	raw := strings.TrimSpace(in.Role)
	if raw == "" {
		return Result{}, apperr.Validation(MsgSelectRole)
	}
	role, err := domain.ParseRole(raw)
	if err != nil || !role.SelfAssignable() {
		return Result{}, apperr.Validation(MsgSelectRole)
	}

	err = s.auth.Register(ctx, backend.Registration{
		Username: domain.NormalizeHumanName(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
		Role:     role,
	})
	if err != nil {
		return Result{}, apperr.FromBackend(err, MsgRegisterFailed)
	}
	return s.establish(ctx, MsgRegisterFailed, MsgRegisterSucceeded)
}

// establish reads the current user after the credential changed and publishes it.
// A flow cancelled before the read resolves leaves the session untouched.
func (s *Service) establish(ctx context.Context, fallback, success string) (Result, error) {
	u, err := s.auth.Me(ctx)
	if err != nil {
		return Result{}, apperr.FromBackend(err, fallback)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, apperr.FromBackend(err, fallback)
	}
	if err := s.store.Dispatch(session.Set(u)); err != nil {
		s.log.Error(err, "backend returned an unusable user", "userId", u.ID, "role", u.Role)
		return Result{}, &apperr.Error{Kind: apperr.KindValidationFailure, Message: fallback, Err: err}
	}
	s.log.V(1).Info("signed in", "userId", u.ID, "role", u.Role)
	return Result{User: u, Landing: routes.Landing(u.Role), Message: success}, nil
}

// Logout ends the backend session and clears the local one, returning where to navigate.
// When the backend call fails the session is kept.
func (s *Service) Logout(ctx context.Context) (string, error) {
	if err := s.auth.Logout(ctx); err != nil {
		s.log.Error(err, "logout failed")
		return "", apperr.FromBackend(err, MsgLogoutFailed)
	}
	if err := s.store.Dispatch(session.Clear()); err != nil {
		return "", err
	}
	return routes.Home, nil
}
