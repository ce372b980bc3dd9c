package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/caret/internal/geometry"
)

// replaced elements occupy one character cell even without content.
var replaced = map[atom.Atom]bool{
	atom.Img:    true,
	atom.Video:  true,
	atom.Iframe: true,
	atom.Canvas: true,
	atom.Input:  true,
	atom.Hr:     true,
}

// CharWidth returns the advance of one character.
func (d *Document) CharWidth() float64 { return d.charWidth }

// LineHeight returns the height of one row.
func (d *Document) LineHeight() float64 { return d.lineHeight }

// Rows returns the children of the editing root that form layout rows.
// Whitespace-only text between blocks is skipped.
func (d *Document) Rows() []*html.Node {
	var rows []*html.Node
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if isBlankText(c) {
			continue
		}
		rows = append(rows, c)
	}
	return rows
}

// NodeRect returns the bounding rectangle of n in client coordinates.
func (d *Document) NodeRect(n *html.Node) geometry.Rect {
	dy, dx := d.scrollOffset(n)
	return d.absRect(n).Translate(-dx, -dy)
}

// RangeRect returns the bounding rectangle of r in client coordinates.
// Both boundaries must lie inside the editing root.
func (d *Document) RangeRect(r Range) (geometry.Rect, error) {
	sr, sx, ok := d.boundaryPoint(r.StartContainer, r.StartOffset)
	if !ok {
		return geometry.Rect{}, ErrNotAttached
	}
	er, ex, ok := d.boundaryPoint(r.EndContainer, r.EndOffset)
	if !ok {
		return geometry.Rect{}, ErrNotAttached
	}
	if er < sr || (er == sr && ex < sx) {
		sr, sx, er, ex = er, ex, sr, sx
	}

	top, left := d.contentOrigin()
	var rect geometry.Rect
	if sr == er {
		rect = geometry.NewRect(top+float64(sr)*d.lineHeight, sx, ex-sx, d.lineHeight)
	} else {
		rows := d.Rows()
		widest := 0.0
		for i := sr; i <= er && i < len(rows); i++ {
			widest = max(widest, d.width(rows[i]))
		}
		rect = geometry.NewRect(
			top+float64(sr)*d.lineHeight,
			left,
			widest,
			float64(er-sr+1)*d.lineHeight,
		)
	}

	dy, dx := d.scrollOffset(r.StartContainer)
	if b, ok := d.boxes[r.StartContainer]; ok {
		dy += b.ScrollTop
		dx += b.ScrollLeft
	}
	return rect.Translate(-dx, -dy), nil
}

// Metrics returns the box metrics of n.
func (d *Document) Metrics(n *html.Node) geometry.Metrics {
	rect := d.NodeRect(n)

	if b, ok := d.boxes[n]; ok {
		m := geometry.Metrics{
			Rect:         rect,
			ClientWidth:  b.ClientWidth,
			ClientHeight: b.ClientHeight,
			ScrollWidth:  max(b.ScrollWidth, b.ClientWidth),
			ScrollHeight: max(b.ScrollHeight, b.ClientHeight),
			OffsetWidth:  b.Width,
			OffsetHeight: b.Height,
			ScrollTop:    b.ScrollTop,
			ScrollLeft:   b.ScrollLeft,
			Border:       b.Border,
			OverflowX:    b.OverflowX,
			OverflowY:    b.OverflowY,
		}
		if n == d.root {
			w, h := d.contentSize()
			if b.ScrollWidth == 0 {
				m.ScrollWidth = max(w, b.ClientWidth)
			}
			if b.ScrollHeight == 0 {
				m.ScrollHeight = max(h, b.ClientHeight)
			}
		}
		return m
	}

	if n == d.html {
		w, h := d.documentSize()
		return geometry.Metrics{
			Rect:         rect,
			ClientWidth:  d.viewport.Width,
			ClientHeight: d.viewport.Height,
			ScrollWidth:  w,
			ScrollHeight: h,
			OffsetWidth:  d.viewport.Width,
			OffsetHeight: d.viewport.Height,
			ScrollTop:    d.viewport.ScrollY,
			ScrollLeft:   d.viewport.ScrollX,
			OverflowX:    geometry.OverflowAuto,
			OverflowY:    geometry.OverflowAuto,
		}
	}

	return geometry.Metrics{
		Rect:         rect,
		ClientWidth:  rect.Width,
		ClientHeight: rect.Height,
		ScrollWidth:  rect.Width,
		ScrollHeight: rect.Height,
		OffsetWidth:  rect.Width,
		OffsetHeight: rect.Height,
	}
}

// absRect is the document-absolute rectangle of n, ignoring scrolling.
func (d *Document) absRect(n *html.Node) geometry.Rect {
	if b, ok := d.boxes[n]; ok {
		return geometry.NewRect(b.Top, b.Left, b.Width, b.Height)
	}

	switch n {
	case d.root:
		top, left := d.contentOrigin()
		w, h := d.contentSize()
		return geometry.NewRect(top, left, w, h)
	case d.html, d.body:
		w, h := d.documentSize()
		return geometry.NewRect(0, 0, w, h)
	}

	row, idx := d.rowOf(n)
	if row == nil {
		return geometry.Rect{}
	}
	top, left := d.contentOrigin()
	return geometry.NewRect(
		top+float64(idx)*d.lineHeight,
		left+d.prefixWidth(row, n),
		d.width(n),
		d.lineHeight,
	)
}

// scrollOffset sums the scroll offsets applied to n by its ancestors.
func (d *Document) scrollOffset(n *html.Node) (dy, dx float64) {
	dy, dx = d.viewport.ScrollY, d.viewport.ScrollX
	if n == nil {
		return dy, dx
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if b, ok := d.boxes[p]; ok && p != d.html {
			dy += b.ScrollTop
			dx += b.ScrollLeft
		}
	}
	return dy, dx
}

func (d *Document) contentOrigin() (top, left float64) {
	if b, ok := d.boxes[d.root]; ok {
		return b.Top + b.Border.Top, b.Left + b.Border.Left
	}
	return 0, 0
}

func (d *Document) contentSize() (w, h float64) {
	rows := d.Rows()
	for _, r := range rows {
		w = max(w, d.width(r))
	}
	return w, float64(len(rows)) * d.lineHeight
}

func (d *Document) documentSize() (w, h float64) {
	top, left := d.contentOrigin()
	cw, ch := d.contentSize()
	w, h = left+cw, top+ch
	if b, ok := d.boxes[d.root]; ok {
		w, h = b.Left+b.Width, b.Top+b.Height
	}
	return max(w, d.viewport.Width), max(h, d.viewport.Height)
}

// rowOf returns the row containing n and its index, or nil when n is not
// inside the editing root.
func (d *Document) rowOf(n *html.Node) (*html.Node, int) {
	if n == nil || n == d.root {
		return nil, -1
	}
	row := n
	for row.Parent != d.root {
		row = row.Parent
		if row == nil {
			return nil, -1
		}
	}
	idx := 0
	for c := d.root.FirstChild; c != nil && c != row; c = c.NextSibling {
		if !isBlankText(c) {
			idx++
		}
	}
	return row, idx
}

// boundaryPoint maps a boundary to its row index and absolute x position.
func (d *Document) boundaryPoint(n *html.Node, offset int) (int, float64, bool) {
	_, left := d.contentOrigin()

	if n == d.root {
		rows := d.Rows()
		if len(rows) == 0 {
			return 0, left, true
		}
		child := ChildAt(d.root, offset)
		if child == nil {
			last := rows[len(rows)-1]
			return len(rows) - 1, left + d.width(last), true
		}
		_, idx := d.rowOf(child)
		return min(idx, len(rows)-1), left, true
	}

	row, idx := d.rowOf(n)
	if row == nil {
		return 0, 0, false
	}

	var x float64
	switch {
	case IsText(n):
		x = d.prefixWidth(row, n) + float64(visibleRunesBefore(n.Data, offset))*d.charWidth
	default:
		if child := ChildAt(n, offset); child != nil {
			x = d.prefixWidth(row, child)
		} else {
			x = d.prefixWidth(row, n) + d.width(n)
		}
	}
	return idx, left + x, true
}

// prefixWidth is the width of everything laid out before target in row.
func (d *Document) prefixWidth(row, target *html.Node) float64 {
	var w float64
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n == target {
			return true
		}
		if n.FirstChild == nil {
			w += d.width(n)
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(row)
	return w
}

// width is the laid out width of n.
func (d *Document) width(n *html.Node) float64 {
	switch {
	case IsText(n):
		return float64(visibleRunes(n.Data)) * d.charWidth
	case !IsElement(n), IsBreak(n):
		return 0
	case n.FirstChild == nil:
		if replaced[n.DataAtom] {
			return d.charWidth
		}
		return 0
	}
	var w float64
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w += d.width(c)
	}
	return w
}

func isBlankText(n *html.Node) bool {
	return IsText(n) && strings.TrimSpace(n.Data) == ""
}
