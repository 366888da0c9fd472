package listeners

import (
	"sort"
	"sync"

	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

type key struct {
	event string
	owner string
}

type entry struct {
	token uint64
	seq   uint64
	fn    pushchannel.Listener
}

// Registry holds push listeners keyed by (event, owner).
// It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	next  uint64
	byKey map[key]entry
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[key]entry)}
}

// Add registers fn, replacing any listener already held for (event, owner).
// The returned stop func removes this registration only.
func (r *Registry) Add(event, owner string, fn pushchannel.Listener) (stop func()) {
	r.mu.Lock()
	r.next++
	token := r.next
	k := key{event: event, owner: owner}
	seq := token
	if prev, ok := r.byKey[k]; ok {
		// Keep the original delivery position on replacement.
		seq = prev.seq
	}
	r.byKey[k] = entry{token: token, seq: seq, fn: fn}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if cur, ok := r.byKey[k]; ok && cur.token == token {
				delete(r.byKey, k)
			}
		})
	}
}

// Len reports how many listeners are registered for event.
func (r *Registry) Len(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for k := range r.byKey {
		if k.event == event {
			n++
		}
	}
	return n
}

// Dispatch delivers ev to every listener for ev.Event in registration order.
// Listeners are invoked outside the lock so they may add or remove registrations.
func (r *Registry) Dispatch(ev pushchannel.Frame) int {
	r.mu.Lock()
	fns := make([]entry, 0, 2)
	for k, e := range r.byKey {
		if k.event == ev.Event {
			fns = append(fns, e)
		}
	}
	r.mu.Unlock()

	sort.Slice(fns, func(i, j int) bool { return fns[i].seq < fns[j].seq })
	for _, e := range fns {
		e.fn(ev)
	}
	return len(fns)
}
