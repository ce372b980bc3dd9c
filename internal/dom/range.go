package dom

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"
)

var (
	// ErrIndexSize is returned when a boundary offset is outside its node.
	ErrIndexSize = errors.New("dom: offset out of range")

	// ErrNotAttached is returned when a boundary node is not part of a tree.
	ErrNotAttached = errors.New("dom: node not attached")

	// ErrNoRoot is returned when the document has no editing root.
	ErrNoRoot = errors.New("dom: no editing root")
)

// Range is a native selection range between two boundary points.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// Collapsed reports whether both boundaries are the same point.
func (r Range) Collapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// Equal reports whether r and o have identical boundaries.
func (r Range) Equal(o Range) bool {
	return r == o
}

func (r Range) String() string {
	return fmt.Sprintf("Range(%s:%d, %s:%d)",
		describe(r.StartContainer), r.StartOffset,
		describe(r.EndContainer), r.EndOffset)
}

func validBoundary(n *html.Node, offset int) error {
	if n == nil || (n.Parent == nil && n.Type != html.DocumentNode) {
		return ErrNotAttached
	}
	if offset < 0 || offset > MaxOffset(n) {
		return fmt.Errorf("%w: %d not in [0, %d] for %s", ErrIndexSize, offset, MaxOffset(n), describe(n))
	}
	return nil
}

func describe(n *html.Node) string {
	switch {
	case n == nil:
		return "<nil>"
	case IsText(n):
		return fmt.Sprintf("#text(%q)", n.Data)
	case IsElement(n):
		return "<" + n.Data + ">"
	default:
		return "#document"
	}
}
