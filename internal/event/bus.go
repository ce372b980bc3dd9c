package event

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dshills/caret/internal/event/topic"
)

// Bus is the central event bus interface.
type Bus interface {
	// Publish delivers the event to every matching subscription before
	// returning. Handler errors are joined into the returned error.
	Publish(ctx context.Context, event any) error

	// Subscription
	Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	// Delivery control
	Pause()
	Resume()
	IsPaused() bool

	Stats() Stats
}

type bus struct {
	registry registry
	config   busConfig
	seq      atomic.Uint64
	paused   atomic.Bool

	eventsPublished atomic.Uint64
	eventsDelivered atomic.Uint64
	eventsDropped   atomic.Uint64
	handlerErrors   atomic.Uint64
	handlerPanics   atomic.Uint64
}

// NewBus creates a new synchronous event bus.
func NewBus(opts ...BusOption) Bus {
	cfg := defaultBusConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &bus{config: cfg}
}

// Subscribe registers a handler for a topic pattern.
func (b *bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := newSubscription(pattern, handler, b.seq.Add(1), opts...)
	sub.onCancel = func(s *subscription) {
		b.registry.remove(s.id)
	}
	b.registry.add(sub)
	return sub, nil
}

// SubscribeFunc registers a handler function for a topic pattern.
func (b *bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels a subscription.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	s, ok := sub.(*subscription)
	if !ok || s.cancelled.Load() {
		return ErrSubscriptionNotFound
	}
	s.Cancel()
	return nil
}

// Publish delivers the event synchronously in priority order.
func (b *bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()
	if !t.IsValid() || t.IsWildcard() {
		return ErrInvalidTopic
	}

	b.eventsPublished.Add(1)
	if b.paused.Load() {
		b.eventsDropped.Add(1)
		return nil
	}

	var errs []error
	for _, sub := range b.registry.match(t) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !sub.claim(event) {
			continue
		}
		if err := b.deliver(ctx, sub, t, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *bus) deliver(ctx context.Context, sub *subscription, t topic.Topic, event any) (err error) {
	b.eventsDelivered.Add(1)
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.config.logger.Error("handler panic on %s: %v", t, r)
			if b.config.panicHandler != nil {
				b.config.panicHandler(event, sub, r)
			}
			err = &PanicError{SubscriptionID: sub.id, Topic: t.String(), Value: r}
		}
	}()

	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.handlerErrors.Add(1)
		b.config.logger.Warn("handler error on %s: %v", t, herr)
		return &HandlerError{SubscriptionID: sub.id, Topic: t.String(), Err: herr}
	}
	return nil
}

// Pause drops events until Resume is called.
func (b *bus) Pause() {
	b.paused.Store(true)
}

// Resume restarts event delivery after a pause.
func (b *bus) Resume() {
	b.paused.Store(false)
}

// IsPaused returns true if delivery is paused.
func (b *bus) IsPaused() bool {
	return b.paused.Load()
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		EventsDropped:     b.eventsDropped.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: b.registry.count(),
	}
}
