// Package event provides the synchronous event bus that connects the
// selection controller with the content tree and the host surface.
//
// Events use hierarchical topics with dot notation:
//
//	selection.change          - the selection moved (not emitted for silent updates)
//	editor.change             - general change notification, tagged with a kind
//	scroll.before-update      - the content tree is about to absorb mutations
//	scroll.update             - the content tree finished absorbing mutations
//	scroll.optimize           - the consistency pass ran, optionally with a range
//	input.composition.start   - the host began an input-method composition
//
// # Delivery
//
// Delivery is always synchronous: Publish runs every matching handler in
// priority order before it returns. Handlers may publish, subscribe and
// unsubscribe while being dispatched.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	sub, err := bus.SubscribeFunc(events.TopicSelectionChange, func(ctx context.Context, evt any) error {
//	    e := evt.(event.Event[events.SelectionChange])
//	    fmt.Println(e.Payload.Range)
//	    return nil
//	})
//
//	bus.Publish(ctx, event.NewEvent(events.TopicSelectionChange, payload, "selection"))
//
// Typed handlers avoid the assertion:
//
//	event.Subscribe(bus, events.TopicSelectionChange,
//	    func(ctx context.Context, e event.Event[events.SelectionChange]) error { ... })
//
// # Thread Safety
//
// The bus is safe for concurrent use, although caret drives it from a
// single event loop.
package event
