// Package selection keeps an index-space selection in sync with the native
// selection of an editing surface.
//
// A Controller maps native boundaries (node, offset) onto the linear index
// space of a content tree and back, follows the tree through mutations,
// suspends itself during input method composition and manages the cursor
// placeholder that carries formats for a collapsed selection.
package selection

import (
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/blot"
	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event/events"
	"github.com/dshills/caret/internal/geometry"
	"github.com/dshills/caret/internal/textrange"
)

// Range is a selection in index space.
type Range = textrange.Range

// RangesEqual reports whether a and b are both nil or cover the same span.
func RangesEqual(a, b *Range) bool {
	return textrange.Equal(a, b)
}

// Boundary is a leaf-level native boundary: a text node and a rune offset,
// or a childless element and 0 (before) or 1 (after).
type Boundary struct {
	Node   *html.Node
	Offset int
}

// Normalized is a native selection whose boundaries were descended to
// leaf level. Native keeps the selection as the host reported it.
type Normalized struct {
	Start  Boundary
	End    Boundary
	Native dom.Range
}

// Collapsed reports whether the native selection is collapsed.
func (n *Normalized) Collapsed() bool {
	return n.Native.Collapsed()
}

// Range returns the normalized boundaries as a native range.
func (n *Normalized) Range() *dom.Range {
	return &dom.Range{
		StartContainer: n.Start.Node,
		StartOffset:    n.Start.Offset,
		EndContainer:   n.End.Node,
		EndOffset:      n.End.Offset,
	}
}

// Tree is the content tree a controller maps against.
type Tree interface {
	Root() *html.Node
	Find(node *html.Node, bubble bool) blot.Blot
	Leaf(index int) (blot.Leaf, int)
	Line(index int) (*blot.Block, int)
	Length() int
	NewCursor(host blot.CursorHost) *blot.Cursor
	BatchStart()
	BatchEnd()
	IsBlockFormat(name string) bool
	Update(source events.Source)
	Optimize()
}

// Host is the editing surface: its native selection, focus and layout.
type Host interface {
	geometry.Layout[*html.Node]

	Selection() *dom.Range
	SetSelection(r dom.Range) error
	RemoveAllRanges()

	HasFocus(root *html.Node) bool
	Focus(n *html.Node)
	Blur(n *html.Node)

	NodeRect(n *html.Node) geometry.Rect
	RangeRect(r dom.Range) (geometry.Rect, error)
	ScrollTo(n *html.Node, top, left float64)
}

var (
	_ Tree = (*blot.Scroll)(nil)
	_ Host = (*dom.Document)(nil)
)
