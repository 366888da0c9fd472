package routes

import (
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
)

// maxRedirects bounds redirect chains; the table never needs more than two hops.
const maxRedirects = 4

// SessionSource yields the current session at call time.
type SessionSource interface {
	Snapshot() session.Session
}

// Gate resolves navigations against the live session, rendering nothing until the auth
// check has completed.
type Gate struct {
	sessions SessionSource
	ready    func() bool
}

func NewGate(sessions SessionSource, ready func() bool) *Gate {
	return &Gate{sessions: sessions, ready: ready}
}

// Resolution is the final decision for a navigation plus the paths visited on the way.
type Resolution struct {
	Decision Decision
	Path     string
	Hops     []string
}

// Resolve follows redirects from path to the view that should render.
// The session is re-read on every call, so a decision never reflects a snapshot taken before
// the most recent bootstrap or login.
func (g *Gate) Resolve(path string) Resolution {
	if g.ready != nil && !g.ready() {
		return Resolution{Decision: Decision{Outcome: OutcomeBlank}, Path: path}
	}
	snap := g.sessions.Snapshot()

	res := Resolution{Path: path}
	cur := path
	for i := 0; ; i++ {
		d := Authorize(cur, snap)
		res.Decision = d
		res.Path = cur
		if d.Outcome != OutcomeRedirect || i == maxRedirects {
			return res
		}
		res.Hops = append(res.Hops, cur)
		cur = d.RedirectTo
	}
}
