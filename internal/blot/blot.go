package blot

import (
	"errors"

	"golang.org/x/net/html"
)

// ErrIndexOutOfRange is returned by edits addressing a position outside
// the document.
var ErrIndexOutOfRange = errors.New("blot: index out of range")

// Kind is the closed set of leaf variants.
type Kind int

const (
	KindText Kind = iota
	KindEmbed
	KindBreak
	KindCursor
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindEmbed:
		return "embed"
	case KindBreak:
		return "break"
	case KindCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// Addressable reports whether boundary offsets inside leaves of this kind
// map to individual index units.
func (k Kind) Addressable() bool {
	return k == KindText || k == KindCursor
}

// Blot is a node of the content tree.
type Blot interface {
	// Node returns the native node backing the blot.
	Node() *html.Node

	// Parent returns the enclosing container, nil for the Scroll.
	Parent() Container

	// Length returns the number of index units the blot spans.
	Length() int

	// Offset returns the index of the blot relative to root. A nil root
	// means the top of the tree.
	Offset(root Blot) int
}

// Leaf is a blot without blot children.
type Leaf interface {
	Blot

	Kind() Kind

	// Position converts an in-leaf offset into a native boundary.
	// preferNext asks for the start of the following node when the
	// offset sits on a trailing edge.
	Position(offset int, preferNext bool) (*html.Node, int)

	// Index converts a native boundary inside the leaf into an in-leaf
	// offset, -1 when node is not part of the leaf.
	Index(node *html.Node, offset int) int

	// Split divides the leaf at offset and returns the blot starting
	// there, which may be nil at the end of the parent.
	Split(offset int) Blot
}

// Container is a blot with blot children.
type Container interface {
	Blot

	Children() []Blot

	// InsertBefore moves child before ref. A nil ref appends.
	InsertBefore(child, ref Blot)
}

type pather interface {
	path(index int, inclusive bool) (Blot, int)
}

type base struct {
	node   *html.Node
	scroll *Scroll
	self   Blot
}

func (b *base) Node() *html.Node { return b.node }

func (b *base) Parent() Container {
	if b.node.Parent == nil {
		return nil
	}
	c, _ := b.scroll.blots[b.node.Parent].(Container)
	return c
}

func (b *base) Offset(root Blot) int {
	off := 0
	var cur Blot = b.self
	for cur != root {
		p := cur.Parent()
		if p == nil {
			break
		}
		for _, sib := range p.Children() {
			if sib == cur {
				break
			}
			off += sib.Length()
		}
		cur = p
	}
	return off
}

// next returns the blot registered for the first registered sibling after
// b's node.
func (b *base) next() Blot {
	for n := b.node.NextSibling; n != nil; n = n.NextSibling {
		if nb, ok := b.scroll.blots[n]; ok {
			return nb
		}
	}
	return nil
}

func (b *base) prev() Blot {
	for n := b.node.PrevSibling; n != nil; n = n.PrevSibling {
		if pb, ok := b.scroll.blots[n]; ok {
			return pb
		}
	}
	return nil
}
