package selection

import (
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
)

// Normalize descends both boundaries of native to leaf level. It returns
// nil when the start lies outside root, or when a non-collapsed selection
// ends outside it.
func Normalize(root *html.Node, native *dom.Range) *Normalized {
	if native == nil || !dom.Contains(root, native.StartContainer) {
		return nil
	}
	if !native.Collapsed() && !dom.Contains(root, native.EndContainer) {
		return nil
	}
	return &Normalized{
		Start:  descend(native.StartContainer, native.StartOffset),
		End:    descend(native.EndContainer, native.EndOffset),
		Native: *native,
	}
}

func descend(node *html.Node, offset int) Boundary {
	for !dom.IsText(node) && node.FirstChild != nil {
		count := dom.ChildCount(node)
		switch {
		case offset < count:
			node = dom.ChildAt(node, offset)
			offset = 0
		case offset == count:
			node = node.LastChild
			switch {
			case dom.IsText(node):
				offset = dom.TextLength(node)
			case node.FirstChild != nil:
				offset = dom.ChildCount(node)
			default:
				offset = 1
			}
		default:
			return Boundary{Node: node, Offset: offset}
		}
	}
	return Boundary{Node: node, Offset: offset}
}
