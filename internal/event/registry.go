package event

import (
	"sort"
	"sync"

	"github.com/dshills/caret/internal/event/topic"
)

// registry holds subscriptions in priority order.
type registry struct {
	mu   sync.RWMutex
	subs []*subscription
}

func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subs = append(r.subs, sub)
	sort.SliceStable(r.subs, func(i, j int) bool {
		if r.subs[i].config.Priority != r.subs[j].config.Priority {
			return r.subs[i].config.Priority < r.subs[j].config.Priority
		}
		return r.subs[i].seq < r.subs[j].seq
	})
}

func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.subs {
		if s.id == id {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return true
		}
	}
	return false
}

// match returns a snapshot of the subscriptions whose pattern matches t.
func (r *registry) match(t topic.Topic) []*subscription {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*subscription
	for _, s := range r.subs {
		if t.Matches(s.pattern) {
			out = append(out, s)
		}
	}
	return out
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
