package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/caret/internal/event/topic"
)

// Subscription represents an active event subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() topic.Topic

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Pause temporarily stops event delivery to this subscription.
	Pause()

	// Resume restarts event delivery after a pause.
	Resume()

	// Cancel permanently cancels the subscription.
	Cancel()
}

// SubscriptionConfig contains configuration for a subscription.
type SubscriptionConfig struct {
	// Priority determines execution order (lower values execute first).
	Priority Priority

	// Filter is an optional predicate; events are delivered only if it returns true.
	Filter FilterFunc

	// Once indicates the subscription should cancel itself after the first event.
	Once bool
}

type subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	config  SubscriptionConfig
	seq     uint64

	paused    atomic.Bool
	cancelled atomic.Bool
	onCancel  func(*subscription)
}

func newSubscription(pattern topic.Topic, h Handler, seq uint64, opts ...SubscriptionOption) *subscription {
	cfg := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: h,
		config:  cfg,
		seq:     seq,
	}
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }

func (s *subscription) IsActive() bool {
	return !s.cancelled.Load() && !s.paused.Load()
}

func (s *subscription) Pause()  { s.paused.Store(true) }
func (s *subscription) Resume() { s.paused.Store(false) }

func (s *subscription) Cancel() {
	if s.cancelled.Swap(true) {
		return
	}
	if s.onCancel != nil {
		s.onCancel(s)
	}
}

// claim reports whether this delivery may proceed. Once subscriptions are
// cancelled on their first successful claim so a re-entrant publish cannot
// deliver twice.
func (s *subscription) claim(event any) bool {
	if !s.IsActive() {
		return false
	}
	if s.config.Filter != nil && !s.config.Filter(event) {
		return false
	}
	if s.config.Once {
		if s.cancelled.Swap(true) {
			return false
		}
		if s.onCancel != nil {
			s.onCancel(s)
		}
	}
	return true
}
