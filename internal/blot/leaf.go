package blot

import (
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
)

// Text is a run of characters.
type Text struct {
	base
}

func newText(s *Scroll, n *html.Node) *Text {
	t := &Text{base{node: n, scroll: s}}
	t.self = t
	return t
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Length() int { return dom.TextLength(t.node) }

// Value returns the text content.
func (t *Text) Value() string { return t.node.Data }

func (t *Text) Position(offset int, _ bool) (*html.Node, int) {
	return t.node, offset
}

func (t *Text) Index(node *html.Node, offset int) int {
	if node == t.node {
		return offset
	}
	return -1
}

func (t *Text) Split(offset int) Blot {
	switch {
	case offset <= 0:
		return t
	case offset >= t.Length():
		return t.next()
	}
	tail := t.scroll.doc.SplitText(t.node, offset)
	return t.scroll.register(tail)
}

// Embed is an atomic unit such as an image. It spans one index unit.
type Embed struct {
	base
}

func newEmbed(s *Scroll, n *html.Node) *Embed {
	e := &Embed{base{node: n, scroll: s}}
	e.self = e
	return e
}

func (e *Embed) Kind() Kind { return KindEmbed }

func (e *Embed) Length() int { return 1 }

func (e *Embed) Position(offset int, _ bool) (*html.Node, int) {
	return atomicPosition(e.node, offset)
}

func (e *Embed) Index(node *html.Node, offset int) int {
	return atomicIndex(e.node, node, offset)
}

func (e *Embed) Split(offset int) Blot {
	if offset == 0 {
		return e
	}
	return e.next()
}

// Break is the <br> filling an otherwise empty line. It spans nothing.
type Break struct {
	base
}

func newBreak(s *Scroll, n *html.Node) *Break {
	b := &Break{base{node: n, scroll: s}}
	b.self = b
	return b
}

func (b *Break) Kind() Kind { return KindBreak }

func (b *Break) Length() int { return 0 }

func (b *Break) Position(offset int, _ bool) (*html.Node, int) {
	return atomicPosition(b.node, offset)
}

func (b *Break) Index(node *html.Node, offset int) int {
	return atomicIndex(b.node, node, offset)
}

func (b *Break) Split(offset int) Blot {
	if offset == 0 {
		return b
	}
	return b.next()
}

// atomicPosition addresses a leaf without text as a child slot of its
// parent: before it for offset 0, after it otherwise.
func atomicPosition(n *html.Node, offset int) (*html.Node, int) {
	idx := dom.ChildIndex(n)
	if offset > 0 {
		idx++
	}
	return n.Parent, idx
}

func atomicIndex(self, node *html.Node, offset int) int {
	if dom.Contains(self, node) {
		return min(offset, 1)
	}
	return -1
}
