package blot

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event/events"
)

// InsertText inserts text at index and updates the tree. Text must not
// contain newlines; use InsertLine to break a line.
func (s *Scroll) InsertText(index int, text string) error {
	if strings.ContainsRune(text, '\n') {
		return fmt.Errorf("insert text: newline in %q", text)
	}
	if index < 0 || index >= s.Length() {
		return fmt.Errorf("insert text at %d: %w", index, ErrIndexOutOfRange)
	}
	leaf, off := s.Leaf(index)
	if leaf == nil {
		return fmt.Errorf("insert text at %d: %w", index, ErrIndexOutOfRange)
	}
	if text == "" {
		return nil
	}

	switch l := leaf.(type) {
	case *Text:
		s.doc.InsertData(l.node, off, text)
	default:
		n := leaf.Node()
		ref := n
		if off > 0 {
			ref = n.NextSibling
		}
		s.doc.InsertBefore(n.Parent, dom.NewText(text), ref)
	}

	s.dirty = true
	s.Update(events.SourceAPI)
	return nil
}

// InsertLine breaks the line containing index at that position.
func (s *Scroll) InsertLine(index int) error {
	if index < 0 || index >= s.Length() {
		return fmt.Errorf("insert line at %d: %w", index, ErrIndexOutOfRange)
	}
	line, off := s.Line(index)
	if line == nil {
		return fmt.Errorf("insert line at %d: %w", index, ErrIndexOutOfRange)
	}

	// Split the leaf so the break falls between two nodes, then lift
	// everything after it into a new line.
	var ref *html.Node
	if leaf, loff := s.Leaf(index); leaf != nil {
		if after := leaf.Split(loff); after != nil {
			ref = after.Node()
		}
	}
	tail := shallowClone(line.node)
	s.doc.InsertBefore(s.root, tail, line.node.NextSibling)
	if ref != nil && off < line.Length()-1 {
		s.moveAfter(line.node, tail, ref)
	}

	s.dirty = true
	s.Update(events.SourceAPI)
	return nil
}

// moveAfter moves ref and everything after it inside line into tail,
// cloning the inline ancestors between ref and line.
func (s *Scroll) moveAfter(line, tail, ref *html.Node) {
	for ref.Parent != line {
		p := ref.Parent
		clone := shallowClone(p)
		for sib := ref; sib != nil; {
			next := sib.NextSibling
			s.doc.InsertBefore(clone, sib, nil)
			sib = next
		}
		s.doc.InsertBefore(p.Parent, clone, p.NextSibling)
		ref = clone
	}
	for sib := ref; sib != nil; {
		next := sib.NextSibling
		s.doc.InsertBefore(tail, sib, nil)
		sib = next
	}
}

// DeleteAt removes length units starting at index. Deleting a line's
// newline joins it with the following line. The final newline cannot be
// deleted.
func (s *Scroll) DeleteAt(index, length int) error {
	if index < 0 || length < 0 || index+length > s.Length()-1 {
		return fmt.Errorf("delete %d+%d: %w", index, length, ErrIndexOutOfRange)
	}
	if length == 0 {
		return nil
	}
	end := index + length

	pos := 0
	var carry *html.Node
	for _, b := range s.Blocks() {
		start := pos
		blen := b.Length()
		pos += blen
		newline := start + blen - 1

		if from, to := max(index, start), min(end, newline); from < to {
			s.deleteInBlock(b, from-start, to-start)
		}

		node := b.node
		if carry != nil {
			for c := node.FirstChild; c != nil; c = node.FirstChild {
				s.doc.InsertBefore(carry, c, nil)
			}
			s.remove(b)
			node = carry
		}

		carry = nil
		if newline >= index && newline < end {
			carry = node
		}
		if pos >= end && carry == nil {
			break
		}
	}

	s.dirty = true
	s.Update(events.SourceAPI)
	return nil
}

func (s *Scroll) deleteInBlock(b *Block, from, to int) {
	pos := 0
	for _, leaf := range leaves(b) {
		l := leaf.Length()
		start := pos
		pos += l
		lo, hi := max(from, start), min(to, pos)
		if lo >= hi {
			continue
		}
		if t, ok := leaf.(*Text); ok {
			s.doc.DeleteData(t.node, lo-start, hi-lo)
			continue
		}
		s.remove(leaf)
	}
}

// leaves returns the leaves under c in document order.
func leaves(c Container) []Leaf {
	var out []Leaf
	for _, ch := range c.Children() {
		switch v := ch.(type) {
		case Leaf:
			out = append(out, v)
		case Container:
			out = append(out, leaves(v)...)
		}
	}
	return out
}
