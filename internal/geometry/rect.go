package geometry

// Rect is an axis-aligned rectangle in client coordinates.
type Rect struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
	Width  float64
	Height float64
}

// NewRect builds a rectangle from its origin and size.
func NewRect(top, left, width, height float64) Rect {
	return Rect{
		Top:    top,
		Left:   left,
		Right:  left + width,
		Bottom: top + height,
		Width:  width,
		Height: height,
	}
}

// Translate returns r moved by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	return NewRect(r.Top+dy, r.Left+dx, r.Width, r.Height)
}

// ContainedIn reports whether r lies fully inside o.
func (r Rect) ContainedIn(o Rect) bool {
	return r.Top >= o.Top && r.Bottom <= o.Bottom && r.Left >= o.Left && r.Right <= o.Right
}

// Edges holds per-side widths such as borders.
type Edges struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// Viewport describes the visible window of the top-level document.
type Viewport struct {
	Width   float64
	Height  float64
	ScrollX float64
	ScrollY float64
}

// Overflow mirrors the CSS overflow property of one axis.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
	OverflowClip
)

// String returns the CSS keyword.
func (o Overflow) String() string {
	switch o {
	case OverflowVisible:
		return "visible"
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	case OverflowAuto:
		return "auto"
	case OverflowClip:
		return "clip"
	default:
		return "unknown"
	}
}

// ParseOverflow parses a CSS overflow keyword. Unknown values are visible.
func ParseOverflow(s string) Overflow {
	switch s {
	case "hidden":
		return OverflowHidden
	case "scroll":
		return OverflowScroll
	case "auto":
		return OverflowAuto
	case "clip":
		return OverflowClip
	default:
		return OverflowVisible
	}
}

// Metrics is the box geometry of a single element.
type Metrics struct {
	// Rect is the element's border box in client coordinates.
	Rect Rect

	ClientWidth  float64
	ClientHeight float64
	ScrollWidth  float64
	ScrollHeight float64
	OffsetWidth  float64
	OffsetHeight float64
	ScrollTop    float64
	ScrollLeft   float64

	Border    Edges
	OverflowX Overflow
	OverflowY Overflow

	// Frame is the client size of the frame hosting the element's
	// document, nil when the document is top-level.
	Frame *Size
}
