package live

import (
	"encoding/json"
	"sync"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/notifications"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

// FeedOwner is the listener owner key used by the navigation bar.
const FeedOwner = "navbar"

// Feed appends every new_backing event to the aggregator while the session may receive them.
type Feed struct {
	ch  pushchannel.Channel
	agg *notifications.Aggregator
	log logr.Logger

	mu       sync.Mutex
	stop     func()
	current  domain.UserID
	onAppend func(domain.Backing)
}

func NewFeed(ch pushchannel.Channel, agg *notifications.Aggregator, log logr.Logger) *Feed {
	return &Feed{ch: ch, agg: agg, log: log.WithName("feed")}
}

// OnAppend installs fn to run after each stored notification.
func (f *Feed) OnAppend(fn func(domain.Backing)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onAppend = fn
}

// Aggregator returns the store the feed writes to.
func (f *Feed) Aggregator() *notifications.Aggregator { return f.agg }

// Attach follows store until the returned func is called, which also stops listening.
func (f *Feed) Attach(store *session.Store) (detach func()) {
	unsubscribe := store.Subscribe(func(_, next session.Session) {
		f.sync(next)
	})
	f.sync(store.Snapshot())
	return func() {
		unsubscribe()
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopLocked()
	}
}

// Listening reports whether a new_backing listener is registered.
func (f *Feed) Listening() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stop != nil
}

func (f *Feed) sync(s session.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := s.UserID()
	if id != f.current {
		// Notifications belong to the identity that received them.
		f.stopLocked()
		f.agg.Reset()
		f.current = id
	}
	if !routes.Allowed(s, routes.AffordanceBackingNotifications) {
		f.stopLocked()
		return
	}
	if f.stop == nil {
		f.stop = f.ch.Listen(pushchannel.EventNewBacking, FeedOwner, f.handle)
	}
}

func (f *Feed) stopLocked() {
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
}

func (f *Feed) handle(ev pushchannel.Frame) {
	var nb pushchannel.NewBacking
	if err := json.Unmarshal(ev.Data, &nb); err != nil {
		f.log.Error(err, "dropping malformed new_backing")
		return
	}
	if nb.Amount <= 0 {
		f.log.V(1).Info("dropping backing with non-positive amount", "campaignId", nb.CampaignID)
		return
	}
	stored := f.agg.Append(nb.Backing())

	f.mu.Lock()
	fn := f.onAppend
	f.mu.Unlock()
	if fn != nil {
		fn(stored)
	}
}
