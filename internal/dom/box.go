package dom

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/geometry"
)

// Box is the explicit geometry of a scroll container.
//
// Top and Left are document-absolute coordinates of the border box, before
// any ancestor scrolling is applied.
type Box struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64

	ClientWidth  float64
	ClientHeight float64

	// ScrollWidth and ScrollHeight default to the client size, or to the
	// laid out content when the box belongs to the editing root.
	ScrollWidth  float64
	ScrollHeight float64

	ScrollTop  float64
	ScrollLeft float64

	Border    geometry.Edges
	OverflowX geometry.Overflow
	OverflowY geometry.Overflow
}

// SetBox gives n explicit geometry. Zero client sizes are derived from the
// border box minus borders.
func (d *Document) SetBox(n *html.Node, b Box) {
	if b.ClientWidth == 0 {
		b.ClientWidth = max(0, b.Width-b.Border.Left-b.Border.Right)
	}
	if b.ClientHeight == 0 {
		b.ClientHeight = max(0, b.Height-b.Border.Top-b.Border.Bottom)
	}
	d.boxes[n] = &b
}

// Box returns the explicit geometry of n, if any.
func (d *Document) Box(n *html.Node) (Box, bool) {
	b, ok := d.boxes[n]
	if !ok {
		return Box{}, false
	}
	return *b, true
}

// Viewport returns the viewport of the top-level document.
func (d *Document) Viewport() geometry.Viewport {
	return d.viewport
}

// SetViewport replaces the viewport.
func (d *Document) SetViewport(vp geometry.Viewport) {
	d.viewport = vp
}

// ScrollTo sets the scroll position of n, clamped to its scrollable
// extent. Scrolling the scrolling element moves the viewport.
func (d *Document) ScrollTo(n *html.Node, top, left float64) {
	if n == d.ScrollingElement() {
		m := d.Metrics(n)
		d.viewport.ScrollY = clamp(top, 0, m.ScrollHeight-m.ClientHeight)
		d.viewport.ScrollX = clamp(left, 0, m.ScrollWidth-m.ClientWidth)
		return
	}
	b, ok := d.boxes[n]
	if !ok {
		return
	}
	m := d.Metrics(n)
	b.ScrollTop = clamp(top, 0, m.ScrollHeight-m.ClientHeight)
	b.ScrollLeft = clamp(left, 0, m.ScrollWidth-m.ClientWidth)
}

// loadBoxes reads data-box, data-border, data-overflow, data-scroll-size
// and data-scroll attributes.
func (d *Document) loadBoxes() error {
	var walk func(n *html.Node) error
	walk = func(n *html.Node) error {
		if IsElement(n) {
			if attr, ok := Attr(n, "data-box"); ok {
				b, err := parseBox(n, attr)
				if err != nil {
					return err
				}
				d.SetBox(n, b)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(d.node)
}

func parseBox(n *html.Node, attr string) (Box, error) {
	var b Box
	vals, err := parseFloats(attr, 4)
	if err != nil {
		return b, fmt.Errorf("%s data-box: %w", describe(n), err)
	}
	b.Top, b.Left, b.Width, b.Height = vals[0], vals[1], vals[2], vals[3]

	if v, ok := Attr(n, "data-border"); ok {
		w, err := parseFloats(v, 1)
		if err != nil {
			return b, fmt.Errorf("%s data-border: %w", describe(n), err)
		}
		b.Border = geometry.Edges{Top: w[0], Right: w[0], Bottom: w[0], Left: w[0]}
	}
	if v, ok := Attr(n, "data-overflow"); ok {
		b.OverflowX = geometry.ParseOverflow(v)
		b.OverflowY = b.OverflowX
	}
	if v, ok := Attr(n, "data-scroll-size"); ok {
		s, err := parseFloats(v, 2)
		if err != nil {
			return b, fmt.Errorf("%s data-scroll-size: %w", describe(n), err)
		}
		b.ScrollWidth, b.ScrollHeight = s[0], s[1]
	}
	if v, ok := Attr(n, "data-scroll"); ok {
		s, err := parseFloats(v, 2)
		if err != nil {
			return b, fmt.Errorf("%s data-scroll: %w", describe(n), err)
		}
		b.ScrollTop, b.ScrollLeft = s[0], s[1]
	}
	return b, nil
}

func parseFloats(s string, want int) ([]float64, error) {
	fields := strings.Fields(s)
	if len(fields) != want {
		return nil, fmt.Errorf("want %d numbers, got %q", want, s)
	}
	out := make([]float64, want)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
