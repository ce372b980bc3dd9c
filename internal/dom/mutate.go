package dom

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// The mutation methods below keep the native selection live the way a
// browser does: boundaries inside removed nodes collapse onto the removal
// point and offsets shift with inserted or deleted content.

// InsertBefore inserts child into parent before ref. A nil ref appends.
// An attached child is moved.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if child.Parent != nil {
		d.Remove(child)
	}
	parent.InsertBefore(child, ref)

	idx := ChildIndex(child)
	d.adjust(func(n *html.Node, off int) (*html.Node, int) {
		if n == parent && off > idx {
			return n, off + 1
		}
		return n, off
	})
}

// Remove detaches n from its parent.
func (d *Document) Remove(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	idx := ChildIndex(n)
	d.adjust(func(c *html.Node, off int) (*html.Node, int) {
		switch {
		case Contains(n, c):
			return parent, idx
		case c == parent && off > idx:
			return c, off - 1
		}
		return c, off
	})
	parent.RemoveChild(n)
}

// SplitText splits text node n at rune offset and returns the new tail
// node, inserted right after n.
func (d *Document) SplitText(n *html.Node, offset int) *html.Node {
	offset = max(0, min(offset, TextLength(n)))
	parent := n.Parent
	idx := ChildIndex(n)
	tail := SplitText(n, offset)

	d.adjust(func(c *html.Node, off int) (*html.Node, int) {
		switch {
		case c == n && off > offset:
			return tail, off - offset
		case parent != nil && c == parent && off > idx:
			return c, off + 1
		}
		return c, off
	})
	return tail
}

// InsertData inserts s into text node n at rune offset.
func (d *Document) InsertData(n *html.Node, offset int, s string) {
	runes := []rune(n.Data)
	offset = max(0, min(offset, len(runes)))
	n.Data = string(runes[:offset]) + s + string(runes[offset:])

	count := utf8.RuneCountInString(s)
	d.adjust(func(c *html.Node, off int) (*html.Node, int) {
		if c == n && off > offset {
			return c, off + count
		}
		return c, off
	})
}

// DeleteData removes count runes from text node n starting at offset.
func (d *Document) DeleteData(n *html.Node, offset, count int) {
	runes := []rune(n.Data)
	offset = max(0, min(offset, len(runes)))
	end := max(offset, min(offset+count, len(runes)))
	n.Data = string(runes[:offset]) + string(runes[end:])

	d.adjust(func(c *html.Node, off int) (*html.Node, int) {
		if c != n {
			return c, off
		}
		switch {
		case off > end:
			return c, off - (end - offset)
		case off > offset:
			return c, offset
		}
		return c, off
	})
}

// SetData replaces the whole content of text node n.
func (d *Document) SetData(n *html.Node, s string) {
	d.DeleteData(n, 0, TextLength(n))
	d.InsertData(n, 0, s)
}

func (d *Document) adjust(fn func(*html.Node, int) (*html.Node, int)) {
	if d.selection == nil {
		return
	}
	r := d.selection
	r.StartContainer, r.StartOffset = fn(r.StartContainer, r.StartOffset)
	r.EndContainer, r.EndOffset = fn(r.EndContainer, r.EndOffset)
}
