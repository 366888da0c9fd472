package live_test

import (
	"context"
	"testing"

	"github.com/go-logr/logr"

	mempush "github.com/kunall-01/crowdspark-frontend/internal/adapters/memory/pushchannel"
	"github.com/kunall-01/crowdspark-frontend/internal/app/live"
	"github.com/kunall-01/crowdspark-frontend/internal/app/notifications"
	"github.com/kunall-01/crowdspark-frontend/internal/app/session"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

func set(t *testing.T, store *session.Store, id domain.UserID, role domain.Role) {
	t.Helper()
	if err := store.Dispatch(session.Set(domain.User{ID: id, Username: string(id), Role: role})); err != nil {
		t.Fatalf("Dispatch(Set %s): %v", id, err)
	}
}

func equalRooms(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMembership_JoinsOncePerTransition(t *testing.T) {
	t.Parallel()

	ch := mempush.New()
	store := session.NewStore()
	m := live.NewMembership(ch, logr.Discard())
	detach := m.Attach(context.Background(), store)
	defer detach()

	if rooms := ch.Rooms(pushchannel.EventJoin); len(rooms) != 0 {
		t.Fatalf("joins as guest=%v", rooms)
	}

	set(t, store, "A", domain.RoleBacker)
	set(t, store, "A", domain.RoleBacker)
	set(t, store, "B", domain.RoleCampaignOwner)
	if rooms := ch.Rooms(pushchannel.EventJoin); !equalRooms(rooms, "A", "B") {
		t.Fatalf("joins=%v, want [A B]", rooms)
	}

	_ = store.Dispatch(session.Clear())
	if m.Joined() != "" {
		t.Fatalf("Joined after clear=%q", m.Joined())
	}
	if leaves := ch.Rooms(pushchannel.EventLeave); len(leaves) != 0 {
		t.Fatalf("membership emitted leaves=%v", leaves)
	}

	set(t, store, "B", domain.RoleCampaignOwner)
	if rooms := ch.Rooms(pushchannel.EventJoin); !equalRooms(rooms, "A", "B", "B") {
		t.Fatalf("joins after re-login=%v, want [A B B]", rooms)
	}
}

func TestMembership_AttachAppliesCurrentSession(t *testing.T) {
	t.Parallel()

	ch := mempush.New()
	store := session.NewStore()
	set(t, store, "A", domain.RoleBacker)

	detach := live.NewMembership(ch, logr.Discard()).Attach(context.Background(), store)
	detach()
	set(t, store, "B", domain.RoleBacker)

	if rooms := ch.Rooms(pushchannel.EventJoin); !equalRooms(rooms, "A") {
		t.Fatalf("joins=%v, want [A]", rooms)
	}
}

func backing(amount float64) pushchannel.NewBacking {
	return pushchannel.NewBacking{Amount: amount, CampaignID: "c1", Backer: "  Asha  Rao "}
}

func TestFeed_AggregatesForOwners(t *testing.T) {
	t.Parallel()

	ch := mempush.New()
	store := session.NewStore()
	agg := notifications.NewAggregator()
	feed := live.NewFeed(ch, agg, logr.Discard())
	detach := feed.Attach(store)
	defer detach()

	if feed.Listening() {
		t.Fatalf("guest feed listening")
	}

	set(t, store, "owner", domain.RoleCampaignOwner)
	for i := 1; i <= 7; i++ {
		if n, err := ch.Deliver(pushchannel.EventNewBacking, backing(float64(i*100))); err != nil || n != 1 {
			t.Fatalf("Deliver #%d n=%d err=%v", i, n, err)
		}
	}
	recent := agg.Recent()
	if agg.Count() != 7 || len(recent) != notifications.DisplayLimit {
		t.Fatalf("count=%d recent=%d", agg.Count(), len(recent))
	}
	if recent[0].Seq != 7 || recent[0].Amount != 700 || recent[4].Seq != 3 {
		t.Fatalf("recent=%+v", recent)
	}
	if recent[0].Backer != "Asha Rao" {
		t.Fatalf("Backer=%q, want normalized", recent[0].Backer)
	}
}

func TestFeed_DropsInvalidPayloads(t *testing.T) {
	t.Parallel()

	ch := mempush.New()
	store := session.NewStore()
	agg := notifications.NewAggregator()
	defer live.NewFeed(ch, agg, logr.Discard()).Attach(store)()
	set(t, store, "admin", domain.RoleAdmin)

	_, _ = ch.Deliver(pushchannel.EventNewBacking, backing(0))
	_, _ = ch.Deliver(pushchannel.EventNewBacking, "not an object")
	if agg.Count() != 0 {
		t.Fatalf("count=%d, want 0", agg.Count())
	}
}

func TestFeed_BackerDoesNotListen(t *testing.T) {
	t.Parallel()

	ch := mempush.New()
	store := session.NewStore()
	feed := live.NewFeed(ch, notifications.NewAggregator(), logr.Discard())
	defer feed.Attach(store)()

	set(t, store, "backer", domain.RoleBacker)
	if feed.Listening() || ch.Listeners(pushchannel.EventNewBacking) != 0 {
		t.Fatalf("backer feed registered a listener")
	}
}

func TestFeed_LogoutStopsAndResets(t *testing.T) {
	t.Parallel()

	ch := mempush.New()
	store := session.NewStore()
	agg := notifications.NewAggregator()
	feed := live.NewFeed(ch, agg, logr.Discard())
	defer feed.Attach(store)()

	set(t, store, "owner", domain.RoleCampaignOwner)
	_, _ = ch.Deliver(pushchannel.EventNewBacking, backing(50))
	if agg.Count() != 1 {
		t.Fatalf("count=%d, want 1", agg.Count())
	}

	_ = store.Dispatch(session.Clear())
	if agg.Count() != 0 || feed.Listening() {
		t.Fatalf("after logout count=%d listening=%v", agg.Count(), feed.Listening())
	}
	if n, _ := ch.Deliver(pushchannel.EventNewBacking, backing(50)); n != 0 {
		t.Fatalf("delivered to %d listeners after logout", n)
	}
}

func TestFeed_RemountNeverDoubleFires(t *testing.T) {
	t.Parallel()

	ch := mempush.New()
	store := session.NewStore()
	set(t, store, "owner", domain.RoleCampaignOwner)

	first := notifications.NewAggregator()
	detachFirst := live.NewFeed(ch, first, logr.Discard()).Attach(store)
	second := notifications.NewAggregator()
	detachSecond := live.NewFeed(ch, second, logr.Discard()).Attach(store)
	defer detachSecond()

	// The first instance's stale disposer must not remove the replacement.
	detachFirst()

	if n, _ := ch.Deliver(pushchannel.EventNewBacking, backing(10)); n != 1 {
		t.Fatalf("listeners=%d, want 1", n)
	}
	if first.Count() != 0 || second.Count() != 1 {
		t.Fatalf("first=%d second=%d", first.Count(), second.Count())
	}
}
