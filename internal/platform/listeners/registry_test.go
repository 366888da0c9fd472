package listeners

import (
	"testing"

	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

func TestRegistry_SameOwnerReplacesListener(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var first, second int
	_ = r.Add(pushchannel.EventNewBacking, "navbar", func(pushchannel.Frame) { first++ })
	_ = r.Add(pushchannel.EventNewBacking, "navbar", func(pushchannel.Frame) { second++ })

	if n := r.Dispatch(pushchannel.Frame{Event: pushchannel.EventNewBacking}); n != 1 {
		t.Fatalf("Dispatch() delivered to %d listeners, want 1", n)
	}
	if first != 0 || second != 1 {
		t.Fatalf("first=%d second=%d, want 0 and 1", first, second)
	}
}

func TestRegistry_StaleStopDoesNotRemoveReplacement(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var calls int
	stopOld := r.Add(pushchannel.EventNewBacking, "dashboard", func(pushchannel.Frame) { t.Fatalf("old listener fired") })
	stopNew := r.Add(pushchannel.EventNewBacking, "dashboard", func(pushchannel.Frame) { calls++ })

	stopOld()
	stopOld()
	r.Dispatch(pushchannel.Frame{Event: pushchannel.EventNewBacking})
	if calls != 1 {
		t.Fatalf("calls=%d, want 1", calls)
	}

	stopNew()
	if got := r.Len(pushchannel.EventNewBacking); got != 0 {
		t.Fatalf("Len()=%d after stop, want 0", got)
	}
}

func TestRegistry_DispatchOnlyMatchingEvent(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var order []string
	_ = r.Add(pushchannel.EventNewBacking, "navbar", func(pushchannel.Frame) { order = append(order, "navbar") })
	_ = r.Add(pushchannel.EventNewBacking, "dashboard", func(pushchannel.Frame) { order = append(order, "dashboard") })
	_ = r.Add("other", "navbar", func(pushchannel.Frame) { order = append(order, "other") })

	r.Dispatch(pushchannel.Frame{Event: pushchannel.EventNewBacking})
	if len(order) != 2 || order[0] != "navbar" || order[1] != "dashboard" {
		t.Fatalf("order=%v, want [navbar dashboard]", order)
	}
}
