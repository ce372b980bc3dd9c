package events

import (
	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event/topic"
)

// Content tree event topics.
const (
	// TopicScrollBeforeUpdate is published before pending mutations are
	// absorbed into the content tree.
	TopicScrollBeforeUpdate topic.Topic = "scroll.before-update"

	// TopicScrollUpdate is published once the mutations were absorbed.
	TopicScrollUpdate topic.Topic = "scroll.update"

	// TopicScrollOptimize is published after the consistency pass.
	TopicScrollOptimize topic.Topic = "scroll.optimize"
)

// ScrollBeforeUpdate is published on TopicScrollBeforeUpdate.
type ScrollBeforeUpdate struct {
	Source Source
}

// ScrollUpdate is published on TopicScrollUpdate.
type ScrollUpdate struct {
	Source Source
}

// ScrollOptimize is published on TopicScrollOptimize.
type ScrollOptimize struct {
	// Range is where the native selection should end up after the pass,
	// nil when the pass has no opinion.
	Range *dom.Range
}
