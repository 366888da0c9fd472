package routes

import (
	"net/url"
	"strings"
)

// Canonical client paths.
const (
	Home      = "/"
	Explore   = "/explore"
	Login     = "/login"
	Register  = "/register"
	Dashboard = "/dashboard"
	Admin     = "/admin"
	Create    = "/create"

	CampaignPrefix        = "/campaign/"
	LegacyCampaignsPrefix = "/campaigns/"
	SupportPrefix         = "/support/"
)

// Campaign is the canonical detail path for id.
func Campaign(id string) string {
	return CampaignPrefix + url.PathEscape(id)
}

// Support is the payment page path for a campaign.
func Support(id string) string {
	return SupportPrefix + url.PathEscape(id)
}

// splitPath drops query, fragment and empty segments, and unescapes each segment.
func splitPath(raw string) ([]string, bool) {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	parts := strings.Split(raw, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		seg, err := url.PathUnescape(p)
		if err != nil || strings.TrimSpace(seg) == "" {
			return nil, false
		}
		out = append(out, seg)
	}
	return out, true
}
