package events

import (
	"github.com/dshills/caret/internal/event/topic"
	"github.com/dshills/caret/internal/textrange"
)

// Selection event topics.
const (
	// TopicEditorChange is the general change notification. Selection
	// updates are published here with Kind set to ChangeSelection.
	TopicEditorChange topic.Topic = "editor.change"

	// TopicSelectionChange is published when the selection moves, unless
	// the change was silent.
	TopicSelectionChange topic.Topic = "selection.change"
)

// ChangeKind tags an EditorChange.
type ChangeKind string

// ChangeSelection tags editor changes caused by selection movement.
const ChangeSelection ChangeKind = "selection-change"

// EditorChange is published on TopicEditorChange.
type EditorChange struct {
	// Kind identifies what changed.
	Kind ChangeKind

	// Range is the new selection, nil when there is none.
	Range *textrange.Range

	// OldRange is the previous selection, nil when there was none.
	OldRange *textrange.Range

	// Source identifies who caused the change.
	Source Source
}

// SelectionChange is published on TopicSelectionChange.
type SelectionChange struct {
	Range    *textrange.Range
	OldRange *textrange.Range
	Source   Source
}
