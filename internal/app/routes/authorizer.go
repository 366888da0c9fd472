// Package routes decides, for every navigation, whether a view renders or redirects.
//
// Authorize is the only place role eligibility is evaluated. Views and conditional
// affordances (links, panels, subscriptions) all go through it.
package routes

import (
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

type Outcome int

const (
	// OutcomeBlank: render nothing; the auth check has not completed.
	OutcomeBlank Outcome = iota
	OutcomeRender
	OutcomeRedirect
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeNotFound:
		return "not-found"
	default:
		return "blank"
	}
}

// Route names a view.
type Route string

const (
	RouteNone           Route = ""
	RouteHome           Route = "home"
	RouteExplore        Route = "explore"
	RouteCampaign       Route = "campaign"
	RouteLegacyCampaign Route = "legacy-campaign"
	RouteSupport        Route = "support"
	RouteLogin          Route = "login"
	RouteRegister       Route = "register"
	RouteDashboard      Route = "dashboard"
	RouteAdmin          Route = "admin"
	RouteCreate         Route = "create"
)

// Decision is the result of authorizing one navigation. It is comparable.
type Decision struct {
	Outcome Outcome
	Route   Route
	// Param is the route's single path parameter (campaign id), if any.
	Param      string
	RedirectTo string
}

func (d Decision) Renders() bool { return d.Outcome == OutcomeRender }

// Authorize decides what to do with path for the given session. It is pure: it reads nothing
// but its arguments.
func Authorize(path string, s session.Session) Decision {
	segs, ok := splitPath(path)
	if !ok {
		return Decision{Outcome: OutcomeNotFound}
	}

	switch len(segs) {
	case 0:
		return render(RouteHome, "")
	case 1:
		switch segs[0] {
		case "explore":
			return render(RouteExplore, "")
		case "login":
			return render(RouteLogin, "")
		case "register":
			return render(RouteRegister, "")
		case "dashboard":
			if !s.Authenticated() {
				return redirect(RouteDashboard, "", Login)
			}
			return render(RouteDashboard, "")
		case "admin":
			// Hide, don't prompt: there is no legitimate way to earn this route by logging in.
			if s.Role() != domain.RoleAdmin {
				return redirect(RouteAdmin, "", Home)
			}
			return render(RouteAdmin, "")
		case "create":
			if !s.Role().CanOwnCampaigns() {
				return redirect(RouteCreate, "", Login)
			}
			return render(RouteCreate, "")
		}
	case 2:
		id := segs[1]
		switch segs[0] {
		case "campaign":
			return render(RouteCampaign, id)
		case "support":
			return render(RouteSupport, id)
		case "campaigns":
			return redirect(RouteLegacyCampaign, id, Campaign(id))
		}
	}
	return Decision{Outcome: OutcomeNotFound}
}

// Landing is where a successful login or registration navigates for role.
func Landing(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return Admin
	case domain.RoleCampaignOwner:
		return Create
	default:
		return Dashboard
	}
}

func render(r Route, param string) Decision {
	return Decision{Outcome: OutcomeRender, Route: r, Param: param}
}

func redirect(r Route, param, to string) Decision {
	return Decision{Outcome: OutcomeRedirect, Route: r, Param: param, RedirectTo: to}
}
