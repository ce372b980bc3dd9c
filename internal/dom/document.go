package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/geometry"
	"github.com/dshills/caret/internal/logging"
)

// DefaultRootQuery selects the editing root when none is configured.
const DefaultRootQuery = "//*[@contenteditable]"

// Document is a parsed HTML tree acting as the host editing surface.
//
// It owns the single native selection, the focused element and the
// layout state. Document is not safe for concurrent use; like a browser
// document it belongs to one event loop.
type Document struct {
	node *html.Node
	html *html.Node
	body *html.Node
	root *html.Node

	selection *Range
	writes    int
	active    *html.Node

	charWidth  float64
	lineHeight float64
	viewport   geometry.Viewport
	boxes      map[*html.Node]*Box

	rootQuery string
	logger    *logging.Logger
}

// Option configures a Document.
type Option func(*Document)

// WithRootQuery selects the editing root with an XPath expression.
func WithRootQuery(expr string) Option {
	return func(d *Document) {
		d.rootQuery = expr
	}
}

// WithCharWidth sets the advance of one character.
func WithCharWidth(w float64) Option {
	return func(d *Document) {
		if w > 0 {
			d.charWidth = w
		}
	}
}

// WithLineHeight sets the height of one row.
func WithLineHeight(h float64) Option {
	return func(d *Document) {
		if h > 0 {
			d.lineHeight = h
		}
	}
}

// WithViewport sets the initial viewport.
func WithViewport(vp geometry.Viewport) Option {
	return func(d *Document) {
		d.viewport = vp
	}
}

// WithLogger sets the document logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// Parse reads an HTML document.
//
// Elements carrying a data-box attribute ("top left width height") get a
// scroll box; see SetBox for the other data-* attributes understood.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	node, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	d := &Document{
		node:       node,
		charWidth:  8,
		lineHeight: 20,
		viewport:   geometry.Viewport{Width: 1024, Height: 768},
		boxes:      make(map[*html.Node]*Box),
		rootQuery:  DefaultRootQuery,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.html = htmlquery.FindOne(node, "/html")
	d.body = htmlquery.FindOne(node, "/html/body")
	if d.html == nil || d.body == nil {
		return nil, fmt.Errorf("parse document: missing html or body element")
	}

	root, err := htmlquery.Query(node, d.rootQuery)
	if err != nil {
		return nil, fmt.Errorf("root query %q: %w", d.rootQuery, err)
	}
	if root == nil {
		if d.rootQuery != DefaultRootQuery {
			return nil, fmt.Errorf("root query %q: %w", d.rootQuery, ErrNoRoot)
		}
		root = d.body
	}
	d.root = root

	if err := d.loadBoxes(); err != nil {
		return nil, err
	}

	d.logger.Debug("parsed document root=%s boxes=%d", describe(root), len(d.boxes))
	return d, nil
}

// ParseString parses an HTML document held in a string.
func ParseString(s string, opts ...Option) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// Node returns the document node.
func (d *Document) Node() *html.Node { return d.node }

// Root returns the editing root element.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the body element.
func (d *Document) Body() *html.Node { return d.body }

// DocumentElement returns the html element.
func (d *Document) DocumentElement() *html.Node { return d.html }

// ScrollingElement returns the element that scrolls the viewport.
func (d *Document) ScrollingElement() *html.Node { return d.html }

// IsElement reports whether n is an element.
func (d *Document) IsElement(n *html.Node) bool { return IsElement(n) }

// Parent returns the parent of n.
func (d *Document) Parent(n *html.Node) (*html.Node, bool) {
	if n == nil || n.Parent == nil {
		return nil, false
	}
	return n.Parent, true
}

// Query returns the first node matching an XPath expression.
func (d *Document) Query(expr string) (*html.Node, error) {
	return htmlquery.Query(d.node, expr)
}

// Selection returns a copy of the native selection range, or nil when
// nothing is selected.
func (d *Document) Selection() *Range {
	if d.selection == nil {
		return nil
	}
	r := *d.selection
	return &r
}

// SetSelection replaces the native selection with r.
func (d *Document) SetSelection(r Range) error {
	if err := validBoundary(r.StartContainer, r.StartOffset); err != nil {
		return fmt.Errorf("set selection start: %w", err)
	}
	if err := validBoundary(r.EndContainer, r.EndOffset); err != nil {
		return fmt.Errorf("set selection end: %w", err)
	}
	d.selection = &r
	d.writes++
	d.logger.Debug("selection set %s", r)
	return nil
}

// RemoveAllRanges clears the native selection.
func (d *Document) RemoveAllRanges() {
	d.selection = nil
	d.writes++
}

// Writes returns how many times the native selection was written.
func (d *Document) Writes() int {
	return d.writes
}

// ActiveElement returns the focused element, the body when nothing is.
func (d *Document) ActiveElement() *html.Node {
	if d.active == nil {
		return d.body
	}
	return d.active
}

// Focus gives n keyboard focus.
func (d *Document) Focus(n *html.Node) {
	if IsElement(n) {
		d.active = n
	}
}

// Blur removes focus from n if it or one of its descendants has it.
func (d *Document) Blur(n *html.Node) {
	if d.active != nil && Contains(n, d.active) {
		d.active = nil
	}
}

// HasFocus reports whether root or one of its descendants is focused.
func (d *Document) HasFocus(root *html.Node) bool {
	return d.active != nil && Contains(root, d.active)
}
