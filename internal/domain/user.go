package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role governs route and action eligibility. The set is closed.
type Role string

const (
	RoleGuest         Role = "guest"
	RoleBacker        Role = "backer"
	RoleCampaignOwner Role = "campaignOwner"
	RoleAdmin         Role = "admin"
)

// ParseRole maps a wire value onto the closed role set.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleGuest, RoleBacker, RoleCampaignOwner, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// CanOwnCampaigns reports whether the role may create and manage campaigns.
func (r Role) CanOwnCampaigns() bool {
	return r == RoleCampaignOwner || r == RoleAdmin
}

// SelfAssignable reports whether a user may pick the role at registration.
func (r Role) SelfAssignable() bool {
	return r == RoleBacker || r == RoleCampaignOwner
}

// User is the authenticated identity returned by the backend's "current user" endpoint.
type User struct {
	ID       UserID
	Username string
	Email    string
	Role     Role

	CreatedAt time.Time
}

// DisplayName falls back to a generic label when the backend has no username.
func (u User) DisplayName() string {
	if name := NormalizeHumanName(u.Username); name != "" {
		return name
	}
	return "User"
}
