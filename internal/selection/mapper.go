package selection

import (
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/blot"
	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/geometry"
)

// NormalizedToRange maps a normalized selection onto index space. The
// result is clamped to the document and never has a negative length. It
// returns nil when a boundary does not resolve to a blot.
func NormalizedToRange(tree Tree, n *Normalized) *Range {
	positions := []Boundary{n.Start}
	if !n.Collapsed() {
		positions = append(positions, n.End)
	}

	indexes := make([]int, 0, len(positions))
	for _, pos := range positions {
		b := tree.Find(pos.Node, true)
		if b == nil {
			return nil
		}
		index := b.Offset(nil)
		switch leaf, ok := b.(blot.Leaf); {
		case pos.Offset == 0:
		case ok && leaf.Kind().Addressable():
			index += max(0, leaf.Index(pos.Node, pos.Offset))
		default:
			index += b.Length()
		}
		indexes = append(indexes, index)
	}

	end := min(maxOf(indexes), tree.Length()-1)
	start := min(end, minOf(indexes))
	start, end = max(0, start), max(0, end)
	return &Range{Index: start, Length: end - start}
}

// RangeToNative maps r onto native boundaries. The end of a non-collapsed
// range prefers the start of the following node. ok is false when an
// index does not resolve to a leaf.
func RangeToNative(tree Tree, r Range) (native dom.Range, ok bool) {
	indexes := []int{r.Index}
	if !r.Collapsed() {
		indexes = append(indexes, r.Index+r.Length)
	}

	limit := tree.Length() - 1
	var nodes [2]*html.Node
	var offsets [2]int
	for i, index := range indexes {
		index = max(0, min(limit, index))
		leaf, off := tree.Leaf(index)
		if leaf == nil {
			return dom.Range{}, false
		}
		nodes[i], offsets[i] = leaf.Position(off, i != 0)
	}
	if len(indexes) == 1 {
		nodes[1], offsets[1] = nodes[0], offsets[0]
	}
	return dom.Range{
		StartContainer: nodes[0],
		StartOffset:    offsets[0],
		EndContainer:   nodes[1],
		EndOffset:      offsets[1],
	}, true
}

// Bounds returns the rectangle covering length units from index. A
// zero-length position is reported as a zero-width rectangle on the edge
// of the neighbouring character or embed. ok is false when the position
// does not resolve.
func Bounds(tree Tree, host Host, index, length int) (geometry.Rect, bool) {
	limit := tree.Length() - 1
	index = max(0, min(index, limit))
	length = max(0, min(index+length, limit)-index)

	leaf, off := tree.Leaf(index)
	if leaf == nil {
		return geometry.Rect{}, false
	}
	node, off := leaf.Position(off, true)

	if length > 0 {
		endLeaf, endOff := tree.Leaf(index + length)
		if endLeaf == nil {
			return geometry.Rect{}, false
		}
		endNode, endOff := endLeaf.Position(endOff, true)
		rect, err := host.RangeRect(dom.Range{
			StartContainer: node, StartOffset: off,
			EndContainer: endNode, EndOffset: endOff,
		})
		return rect, err == nil
	}

	right := false
	var rect geometry.Rect
	if dom.IsText(node) {
		r := dom.Range{StartContainer: node, StartOffset: off, EndContainer: node, EndOffset: off + 1}
		if off >= dom.TextLength(node) {
			r.StartOffset, r.EndOffset = off-1, off
			right = true
		}
		var err error
		if rect, err = host.RangeRect(r); err != nil {
			return geometry.Rect{}, false
		}
	} else {
		rect = host.NodeRect(leaf.Node())
		right = off > 0
	}

	x := rect.Left
	if right {
		x = rect.Right
	}
	return geometry.Rect{
		Top:    rect.Top,
		Bottom: rect.Top + rect.Height,
		Height: rect.Height,
		Left:   x,
		Right:  x,
	}, true
}

func maxOf(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		m = max(m, x)
	}
	return m
}

func minOf(xs []int) int {
	m := xs[0]
	for _, x := range xs[1:] {
		m = min(m, x)
	}
	return m
}
