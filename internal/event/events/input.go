package events

import "github.com/dshills/caret/internal/event/topic"

// Host input event topics.
const (
	// TopicCompositionStart is published when an input method starts composing.
	TopicCompositionStart topic.Topic = "input.composition.start"

	// TopicCompositionEnd is published when the composition is committed.
	TopicCompositionEnd topic.Topic = "input.composition.end"

	// TopicPointerDown is published when a pointer button is pressed.
	TopicPointerDown topic.Topic = "input.pointer.down"

	// TopicPointerUp is published when a pointer button is released.
	TopicPointerUp topic.Topic = "input.pointer.up"

	// TopicNativeSelectionChange is published when the host reports that
	// its native selection changed.
	TopicNativeSelectionChange topic.Topic = "input.selection.change"
)

// Composition is published on the composition topics.
type Composition struct {
	Data string
}

// Pointer is published on the pointer topics.
type Pointer struct {
	X, Y   float64
	Button int
}

// NativeSelectionChange is published on TopicNativeSelectionChange.
type NativeSelectionChange struct{}
