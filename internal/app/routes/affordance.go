package routes

import "github.com/kunall-01/crowdspark-frontend/internal/app/session"

// Affordance is a conditional piece of UI or behavior gated by the session.
type Affordance int

const (
	AffordanceAdminLink Affordance = iota + 1
	AffordanceCreateLink
	AffordanceDashboardLink
	AffordanceNotificationBell
	AffordanceLogout
	AffordanceLoginLink
	// AffordanceOwnerCampaigns is the "Your Campaigns" dashboard section.
	AffordanceOwnerCampaigns
	// AffordanceUpgradeRequest is the backer's "request campaign owner access" panel.
	AffordanceUpgradeRequest
	// AffordanceBackingNotifications subscribes the navigation bar to new_backing events.
	AffordanceBackingNotifications
)

// Allowed reports whether s may see or use a. Every answer is derived from Authorize so
// links never disagree with the routes they point to.
func Allowed(s session.Session, a Affordance) bool {
	renders := func(path string) bool { return Authorize(path, s).Renders() }

	switch a {
	case AffordanceAdminLink:
		return renders(Admin)
	case AffordanceCreateLink, AffordanceOwnerCampaigns, AffordanceBackingNotifications:
		return renders(Create)
	case AffordanceDashboardLink, AffordanceNotificationBell, AffordanceLogout:
		return renders(Dashboard)
	case AffordanceLoginLink:
		return !renders(Dashboard)
	case AffordanceUpgradeRequest:
		return renders(Dashboard) && !renders(Create)
	default:
		return false
	}
}
