package blot

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
)

type shape int

const (
	shapeNone shape = iota
	shapeText
	shapeEmbed
	shapeBreak
	shapeBlock
	shapeInline
)

func (s *Scroll) shapeOf(n *html.Node) shape {
	switch {
	case dom.IsText(n):
		return shapeText
	case !dom.IsElement(n):
		return shapeNone
	case dom.IsBreak(n):
		return shapeBreak
	case embedElements[n.Data]:
		return shapeEmbed
	case n.Parent == s.root:
		return shapeBlock
	}
	return shapeInline
}

func blotShape(b Blot) shape {
	switch b.(type) {
	case *Text:
		return shapeText
	case *Embed:
		return shapeEmbed
	case *Break:
		return shapeBreak
	case *Block:
		return shapeBlock
	case *Inline:
		return shapeInline
	}
	return shapeNone
}

// blotFor returns the blot for n, reusing the one in known when its shape
// still matches. The cursor resolves only while attached.
func (s *Scroll) blotFor(n *html.Node, known map[*html.Node]Blot) Blot {
	if s.cursor != nil && n == s.cursor.node {
		if s.cursor.attached {
			return s.cursor
		}
		return nil
	}

	sh := s.shapeOf(n)
	if b, ok := known[n]; ok && blotShape(b) == sh {
		return b
	}
	switch sh {
	case shapeText:
		return newText(s, n)
	case shapeEmbed:
		return newEmbed(s, n)
	case shapeBreak:
		return newBreak(s, n)
	case shapeBlock:
		return newBlock(s, n)
	case shapeInline:
		return newInline(s, n)
	}
	return nil
}

// resync rebuilds the registry from the DOM.
func (s *Scroll) resync() {
	known := s.blots
	s.blots = make(map[*html.Node]Blot, len(known))
	s.blots[s.root] = s
	s.walk(s.root, known)
}

func (s *Scroll) walk(parent *html.Node, known map[*html.Node]Blot) {
	for n := parent.FirstChild; n != nil; n = n.NextSibling {
		b := s.blotFor(n, known)
		if b == nil {
			continue
		}
		s.blots[n] = b
		if _, ok := b.(Container); ok {
			s.walk(n, known)
		}
	}
}

// register adds n and its subtree to the registry and returns n's blot.
func (s *Scroll) register(n *html.Node) Blot {
	b := s.blotFor(n, s.blots)
	if b == nil {
		return nil
	}
	s.blots[n] = b
	if _, ok := b.(Container); ok {
		s.walk(n, s.blots)
	}
	return b
}

// remove detaches b from the DOM and forgets its subtree.
func (s *Scroll) remove(b Blot) {
	n := b.Node()
	s.doc.Remove(n)
	var forget func(n *html.Node)
	forget = func(n *html.Node) {
		delete(s.blots, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			forget(c)
		}
	}
	forget(n)
	if s.cursor != nil && b == Blot(s.cursor) {
		s.cursor.attached = false
	}
}

// normalize brings the DOM under the root into line form and reports
// whether anything changed.
func (s *Scroll) normalize() bool {
	doc := s.doc
	changed := false

	var run []*html.Node
	flush := func() {
		if len(run) == 0 {
			return
		}
		p := dom.NewElement("p")
		doc.InsertBefore(s.root, p, run[0])
		for _, n := range run {
			doc.InsertBefore(p, n, nil)
		}
		run = nil
		changed = true
	}

	for n := s.root.FirstChild; n != nil; {
		next := n.NextSibling
		switch {
		case dom.IsText(n) && strings.TrimSpace(n.Data) == "":
			doc.Remove(n)
			changed = true
		case dom.IsText(n), dom.IsElement(n) && inlineElements[n.Data]:
			run = append(run, n)
		case dom.IsElement(n):
			flush()
		default:
			doc.Remove(n)
			changed = true
		}
		n = next
	}
	flush()

	for n := s.root.FirstChild; n != nil; n = n.NextSibling {
		if s.optimizeNode(n) {
			changed = true
		}
		if n.FirstChild == nil {
			doc.InsertBefore(n, dom.NewElement("br"), nil)
			changed = true
		}
	}

	if s.root.FirstChild == nil {
		p := dom.NewElement("p")
		p.AppendChild(dom.NewElement("br"))
		doc.InsertBefore(s.root, p, nil)
		changed = true
	}
	return changed
}

func (s *Scroll) optimizeNode(n *html.Node) bool {
	doc := s.doc
	changed := false

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if s.cursor != nil && c == s.cursor.node {
			c = next
			continue
		}
		if dom.IsElement(c) && !dom.IsBreak(c) && !embedElements[c.Data] {
			if s.optimizeNode(c) {
				changed = true
			}
			if c.FirstChild == nil {
				doc.Remove(c)
				changed = true
			}
		} else if !dom.IsElement(c) && !dom.IsText(c) {
			doc.Remove(c)
			changed = true
		}
		c = next
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dom.IsText(c) {
			if c.Data == "" {
				doc.Remove(c)
				changed = true
				c = next
				continue
			}
			if dom.IsText(next) {
				doc.InsertData(c, dom.TextLength(c), next.Data)
				doc.Remove(next)
				changed = true
				continue
			}
		}
		c = next
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if dom.IsBreak(c) && (c.PrevSibling != nil || c.NextSibling != nil) {
			doc.Remove(c)
			changed = true
		}
		c = next
	}
	return changed
}
