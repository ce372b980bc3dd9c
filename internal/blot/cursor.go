package blot

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
)

// CursorClass marks the placeholder's wrapper element.
const CursorClass = "ql-cursor"

// CursorHost is what the cursor needs from the selection owning it.
type CursorHost interface {
	// Composing reports whether an input method composition is active.
	Composing() bool

	// NativeRange returns the normalized native selection, nil when there
	// is none inside the editing root.
	NativeRange() *dom.Range
}

// Cursor is a zero-length placeholder spliced into the tree to carry
// formatting for a collapsed selection. It wraps a single text node
// holding a zero-width no-break space, which also receives whatever the
// user types until the cursor is restored.
type Cursor struct {
	base
	text     *html.Node
	host     CursorHost
	attached bool
}

func (c *Cursor) Kind() Kind { return KindCursor }

func (c *Cursor) Length() int { return 0 }

// TextNode returns the node the native selection is placed in.
func (c *Cursor) TextNode() *html.Node { return c.text }

func (c *Cursor) Position(int, bool) (*html.Node, int) {
	return c.text, dom.TextLength(c.text)
}

func (c *Cursor) Index(node *html.Node, offset int) int {
	if node == c.text {
		return 0
	}
	return atomicIndex(c.node, node, offset)
}

func (c *Cursor) Split(offset int) Blot {
	if offset == 0 {
		return c
	}
	return c.next()
}

// Attached reports whether the cursor is registered inside the root.
func (c *Cursor) Attached() bool {
	return c.attached && dom.Contains(c.scroll.root, c.node)
}

// Attach registers the cursor once its node was inserted into the tree.
func (c *Cursor) Attach() {
	if !dom.Contains(c.scroll.root, c.node) {
		return
	}
	c.attached = true
	c.scroll.blots[c.node] = c
}

// Detach removes the cursor from the tree.
func (c *Cursor) Detach() {
	if c.node.Parent != nil {
		c.scroll.doc.Remove(c.node)
	}
	delete(c.scroll.blots, c.node)
	c.attached = false
}

// Format applies an inline format to the cursor by wrapping it, or removes
// one when value is false or empty. Block formats are ignored.
func (c *Cursor) Format(name string, value any) {
	if !c.Attached() || c.scroll.IsBlockFormat(name) {
		return
	}
	doc := c.scroll.doc
	wrapper := c.wrapperFor(name)

	if !truthy(value) {
		if wrapper != nil {
			c.lift(wrapper)
		}
		return
	}

	if wrapper != nil {
		if name != "link" {
			return
		}
		c.lift(wrapper)
	}
	el := formatElement(name, value)
	doc.InsertBefore(c.node.Parent, el, c.node)
	doc.InsertBefore(el, c.node, nil)
	c.scroll.register(el)
}

// Formats returns the inline formats wrapping the cursor.
func (c *Cursor) Formats() map[string]any {
	out := make(map[string]any)
	for n := c.node.Parent; n != nil && n != c.scroll.root && n.Parent != c.scroll.root; n = n.Parent {
		if name, value, ok := formatOf(n); ok {
			if _, seen := out[name]; !seen {
				out[name] = value
			}
		}
	}
	return out
}

func (c *Cursor) wrapperFor(name string) *html.Node {
	for n := c.node.Parent; n != nil && n != c.scroll.root && n.Parent != c.scroll.root; n = n.Parent {
		if got, _, ok := formatOf(n); ok && got == name {
			return n
		}
	}
	return nil
}

// lift moves the cursor out of wrapper. Content after the cursor moves
// into clones of its ancestors so document order is kept, and the
// formats between the cursor and wrapper are reapplied.
func (c *Cursor) lift(wrapper *html.Node) {
	doc := c.scroll.doc

	var keep []*html.Node
	for n := c.node.Parent; n != wrapper; n = n.Parent {
		keep = append(keep, n)
	}

	for c.node.Parent != wrapper.Parent {
		p := c.node.Parent
		if c.node.NextSibling != nil {
			clone := shallowClone(p)
			doc.InsertBefore(p.Parent, clone, p.NextSibling)
			for sib := c.node.NextSibling; sib != nil; sib = c.node.NextSibling {
				doc.InsertBefore(clone, sib, nil)
			}
			c.scroll.register(clone)
		}
		doc.InsertBefore(p.Parent, c.node, p.NextSibling)
	}

	for i := len(keep) - 1; i >= 0; i-- {
		el := shallowClone(keep[i])
		doc.InsertBefore(c.node.Parent, el, c.node)
		doc.InsertBefore(el, c.node, nil)
		c.scroll.register(el)
	}
}

// Restore removes the cursor, keeping any text typed into it, and returns
// where the native selection should go. It returns nil while composing,
// when the cursor is not in the tree, or when the selection was not on
// the text around the cursor.
func (c *Cursor) Restore() *dom.Range {
	if (c.host != nil && c.host.Composing()) || !c.Attached() {
		return nil
	}
	var native *dom.Range
	if c.host != nil {
		native = c.host.NativeRange()
	}

	s := c.scroll
	doc := s.doc

	var stray []*html.Node
	for n := c.node.FirstChild; n != nil; n = n.NextSibling {
		if n != c.text {
			stray = append(stray, n)
		}
	}
	for _, n := range stray {
		doc.InsertBefore(c.node.Parent, n, c.node)
		s.register(n)
	}

	prev, _ := c.prev().(*Text)
	next, _ := c.next().(*Text)
	prevLen := 0
	if prev != nil {
		prevLen = prev.Length()
	}
	nextText := ""
	if next != nil {
		nextText = next.Value()
	}

	newText := strings.ReplaceAll(c.text.Data, dom.ZeroWidth, "")
	doc.SetData(c.text, dom.ZeroWidth)

	var merged *Text
	switch {
	case prev != nil:
		merged = prev
		if newText != "" || next != nil {
			doc.InsertData(prev.node, prev.Length(), newText+nextText)
			if next != nil {
				s.remove(next)
			}
		}
	case next != nil:
		merged = next
		doc.InsertData(next.node, 0, newText)
	default:
		tn := dom.NewText(newText)
		doc.InsertBefore(c.node.Parent, tn, c.node)
		merged, _ = s.register(tn).(*Text)
	}
	c.Detach()

	if native == nil || merged == nil {
		return nil
	}

	newLen := utf8.RuneCountInString(newText)
	remap := func(n *html.Node, off int) (int, bool) {
		switch {
		case prev != nil && n == prev.node:
			return off, true
		case n == c.text:
			return max(0, prevLen+off-1), true
		case next != nil && n == next.node:
			return prevLen + newLen + off, true
		}
		return 0, false
	}
	start, ok := remap(native.StartContainer, native.StartOffset)
	if !ok {
		return nil
	}
	end, ok := remap(native.EndContainer, native.EndOffset)
	if !ok {
		return nil
	}
	return &dom.Range{
		StartContainer: merged.node,
		StartOffset:    start,
		EndContainer:   merged.node,
		EndOffset:      end,
	}
}

func shallowClone(n *html.Node) *html.Node {
	c := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Namespace: n.Namespace}
	c.Attr = append([]html.Attribute(nil), n.Attr...)
	return c
}
