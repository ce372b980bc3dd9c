package event

import (
	"context"

	"github.com/dshills/caret/internal/event/topic"
)

// Subscribe registers a typed handler on bus. Only events whose payload
// is of type T reach fn.
func Subscribe[T any](b Bus, pattern topic.Topic, fn TypedHandlerFunc[T], opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, AsHandler(fn), opts...)
}

// Emit builds an event from payload and publishes it.
func Emit[T any](ctx context.Context, b Bus, eventType topic.Topic, payload T, source string) error {
	return b.Publish(ctx, NewEvent(eventType, payload, source))
}
