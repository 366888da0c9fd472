// Package notifications keeps the backing notifications shown in the navigation bar.
package notifications

import (
	"sync"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// DisplayLimit is how many notifications the bell dropdown shows.
const DisplayLimit = 5

// Aggregator is an append-only list of backings. The badge counts everything received;
// the dropdown shows only the most recent DisplayLimit.
type Aggregator struct {
	mu    sync.Mutex
	items []domain.Backing
	seq   int
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Append stores b with the next arrival sequence number and returns the stored copy.
// Duplicates are kept.
func (a *Aggregator) Append(b domain.Backing) domain.Backing {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	b.Seq = a.seq
	if b.Message != nil {
		m := *b.Message
		b.Message = &m
	}
	a.items = append(a.items, b)
	return b
}

// Recent returns up to DisplayLimit notifications, newest first.
func (a *Aggregator) Recent() []domain.Backing {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.items)
	if n > DisplayLimit {
		n = DisplayLimit
	}
	out := make([]domain.Backing, 0, n)
	for i := len(a.items) - 1; i >= len(a.items)-n; i-- {
		out = append(out, a.items[i])
	}
	return out
}

// Count is the badge number: every notification since the last Reset.
func (a *Aggregator) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// Reset drops everything. Sequence numbers restart at 1.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = nil
	a.seq = 0
}
