package blot

import "golang.org/x/net/html"

type containerBase struct {
	base
}

func (c *containerBase) Children() []Blot {
	var out []Blot
	for n := c.node.FirstChild; n != nil; n = n.NextSibling {
		if b, ok := c.scroll.blots[n]; ok {
			out = append(out, b)
		}
	}
	return out
}

func (c *containerBase) InsertBefore(child, ref Blot) {
	var refNode *html.Node
	if ref != nil {
		refNode = ref.Node()
	}
	c.scroll.doc.InsertBefore(c.node, child.Node(), refNode)
	c.scroll.register(child.Node())
}

func (c *containerBase) childrenLength() int {
	total := 0
	for _, ch := range c.Children() {
		total += ch.Length()
	}
	return total
}

// find returns the child covering index and the offset inside it.
//
// When inclusive, an index equal to a child's length selects that child
// if it is the last one or the following child is not empty.
func (c *containerBase) find(index int, inclusive bool) (Blot, int) {
	children := c.Children()
	for i, ch := range children {
		l := ch.Length()
		if index < l || (inclusive && index == l && (i == len(children)-1 || children[i+1].Length() != 0)) {
			return ch, index
		}
		index -= l
	}
	return nil, 0
}

func (c *containerBase) descend(index int, inclusive bool) (Blot, int) {
	child, off := c.find(index, inclusive)
	if child == nil {
		return c.self, index
	}
	if p, ok := child.(pather); ok {
		return p.path(off, inclusive)
	}
	return child, off
}

// Block is a line: a direct child of the editing root. Its length
// includes the trailing newline.
type Block struct {
	containerBase
}

func newBlock(s *Scroll, n *html.Node) *Block {
	b := &Block{containerBase{base{node: n, scroll: s}}}
	b.self = b
	return b
}

func (b *Block) Length() int { return b.childrenLength() + 1 }

// Block lookups are always inclusive so a position at the end of a text
// run resolves to that run.
func (b *Block) path(index int, _ bool) (Blot, int) {
	return b.descend(index, true)
}

// Inline is a formatting wrapper such as <strong> or <em>.
type Inline struct {
	containerBase
}

func newInline(s *Scroll, n *html.Node) *Inline {
	in := &Inline{containerBase{base{node: n, scroll: s}}}
	in.self = in
	return in
}

func (in *Inline) Length() int { return in.childrenLength() }

func (in *Inline) path(index int, inclusive bool) (Blot, int) {
	return in.descend(index, inclusive)
}
