package blot

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event"
	"github.com/dshills/caret/internal/event/events"
	"github.com/dshills/caret/internal/event/topic"
	"github.com/dshills/caret/internal/logging"
)

// Scroll is the root of the content tree, bound to the editing root of a
// document.
type Scroll struct {
	containerBase

	doc    *dom.Document
	root   *html.Node
	bus    event.Bus
	logger *logging.Logger

	blots  map[*html.Node]Blot
	cursor *Cursor
	batch  bool
	dirty  bool
}

// Option configures a Scroll.
type Option func(*Scroll)

// WithLogger sets the scroll logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Scroll) {
		if l != nil {
			s.logger = l.WithComponent("scroll")
		}
	}
}

// NewScroll binds a content tree to the editing root of doc. The root is
// normalized into lines first; an empty root gets a single empty line.
// bus may be nil.
func NewScroll(doc *dom.Document, bus event.Bus, opts ...Option) *Scroll {
	s := &Scroll{
		doc:    doc,
		root:   doc.Root(),
		bus:    bus,
		logger: logging.Nop(),
		blots:  make(map[*html.Node]Blot),
	}
	s.containerBase = containerBase{base{node: s.root, scroll: s}}
	s.self = s

	for _, opt := range opts {
		opt(s)
	}

	s.normalize()
	s.resync()
	return s
}

// Root returns the editing root node.
func (s *Scroll) Root() *html.Node { return s.root }

// Document returns the host document.
func (s *Scroll) Document() *dom.Document { return s.doc }

func (s *Scroll) Parent() Container { return nil }

func (s *Scroll) Offset(Blot) int { return 0 }

// Length returns the total index span of the document.
func (s *Scroll) Length() int { return s.childrenLength() }

// Find returns the blot registered for node. With bubble, the nearest
// registered ancestor is returned instead. Nodes outside the root never
// resolve.
func (s *Scroll) Find(node *html.Node, bubble bool) Blot {
	if !dom.Contains(s.root, node) {
		return nil
	}
	for n := node; n != nil; n = n.Parent {
		if b, ok := s.blots[n]; ok {
			return b
		}
		if !bubble || n == s.root {
			break
		}
	}
	return nil
}

// Leaf returns the leaf covering index and the offset inside it, or
// (nil, -1) when index is outside the document.
func (s *Scroll) Leaf(index int) (Leaf, int) {
	child, off := s.find(index, false)
	if child == nil {
		return nil, -1
	}
	var last Blot = child
	if p, ok := child.(pather); ok {
		last, off = p.path(off, false)
	}
	leaf, ok := last.(Leaf)
	if !ok {
		return nil, -1
	}
	return leaf, off
}

// Line returns the line covering index and the offset inside it. The
// document length itself resolves to the last line.
func (s *Scroll) Line(index int) (*Block, int) {
	if index > 0 && index == s.Length() {
		return s.Line(index - 1)
	}
	child, off := s.find(index, false)
	if b, ok := child.(*Block); ok {
		return b, off
	}
	return nil, -1
}

// Blocks returns the lines in document order.
func (s *Scroll) Blocks() []*Block {
	var out []*Block
	for _, ch := range s.Children() {
		if b, ok := ch.(*Block); ok {
			out = append(out, b)
		}
	}
	return out
}

// Text returns the document as plain text, one newline per line. Embeds
// render as U+FFFC.
func (s *Scroll) Text() string {
	var b strings.Builder
	var walk func(bl Blot)
	walk = func(bl Blot) {
		switch v := bl.(type) {
		case *Text:
			b.WriteString(v.Value())
		case *Embed:
			b.WriteRune('\ufffc')
		case Container:
			for _, ch := range v.Children() {
				walk(ch)
			}
		}
	}
	for _, blk := range s.Blocks() {
		walk(blk)
		b.WriteByte('\n')
	}
	return b.String()
}

// NewCursor creates the cursor placeholder for host. The cursor is
// detached until inserted and attached.
func (s *Scroll) NewCursor(host CursorHost) *Cursor {
	span := dom.NewElement("span", "class", CursorClass)
	text := dom.NewText(dom.ZeroWidth)
	span.AppendChild(text)

	c := &Cursor{base: base{node: span, scroll: s}, text: text, host: host}
	c.self = c
	s.cursor = c
	return c
}

// IsBlockFormat reports whether name formats whole lines.
func (s *Scroll) IsBlockFormat(name string) bool {
	return blockFormats[name]
}

// BatchStart suspends updates until BatchEnd.
func (s *Scroll) BatchStart() {
	s.batch = true
}

// BatchEnd resumes updates and absorbs everything changed meanwhile.
func (s *Scroll) BatchEnd() {
	s.batch = false
	s.Update(events.SourceUser)
}

// Batching reports whether a batch is open.
func (s *Scroll) Batching() bool {
	return s.batch
}

// MarkDirty records that the DOM under the root was changed directly.
func (s *Scroll) MarkDirty() {
	s.dirty = true
}

// Update absorbs pending DOM changes.
//
// When something changed, scroll.before-update is published, the registry
// is rebuilt, text typed into the cursor is restored into the tree, the
// consistency pass runs and scroll.update is published.
func (s *Scroll) Update(source events.Source) {
	if s.batch {
		return
	}
	typed := s.cursor != nil && s.cursor.Attached() && s.cursor.text.Data != dom.ZeroWidth
	if !s.dirty && !typed {
		s.resync()
		return
	}
	s.dirty = false

	publish(s, events.TopicScrollBeforeUpdate, events.ScrollBeforeUpdate{Source: source})
	s.resync()

	var rng *dom.Range
	if typed {
		rng = s.cursor.Restore()
	}
	s.optimize(rng, true)

	publish(s, events.TopicScrollUpdate, events.ScrollUpdate{Source: source})
}

// Optimize runs the consistency pass: adjacent text merges, empty text
// and wrappers go away, and every line keeps at least a <br>.
func (s *Scroll) Optimize() {
	s.optimize(nil, false)
}

func (s *Scroll) optimize(rng *dom.Range, mutated bool) {
	if s.batch {
		return
	}
	changed := s.normalize()
	s.resync()
	if changed || mutated || rng != nil {
		publish(s, events.TopicScrollOptimize, events.ScrollOptimize{Range: rng})
	}
}

func publish[T any](s *Scroll, t topic.Topic, payload T) {
	if s.bus == nil {
		return
	}
	if err := event.Emit(context.Background(), s.bus, t, payload, "scroll"); err != nil {
		s.logger.Warn("publish %s: %v", t, err)
	}
}
