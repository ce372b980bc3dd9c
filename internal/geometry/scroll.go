package geometry

import "errors"

// ErrInvalidTarget is returned when the scroll target is not an element.
var ErrInvalidTarget = errors.New("geometry: invalid target")

// Alignment selects which edge of the target lines up with the container.
type Alignment int

const (
	// AlignAuto behaves like AlignNearest.
	AlignAuto Alignment = iota
	AlignStart
	AlignCenter
	AlignEnd
	AlignNearest
)

// String returns the alignment keyword.
func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignNearest:
		return "nearest"
	default:
		return "auto"
	}
}

// ParseAlignment parses an alignment keyword.
func ParseAlignment(s string) (Alignment, bool) {
	switch s {
	case "", "auto":
		return AlignAuto, true
	case "start":
		return AlignStart, true
	case "center":
		return AlignCenter, true
	case "end":
		return AlignEnd, true
	case "nearest":
		return AlignNearest, true
	}
	return AlignAuto, false
}

// Mode controls whether containers scroll when the target is visible.
type Mode int

const (
	// ModeAlways always computes offsets for every container.
	ModeAlways Mode = iota
	// ModeIfNeeded stops as soon as the target is fully visible.
	ModeIfNeeded
)

// String returns the mode keyword.
func (m Mode) String() string {
	if m == ModeIfNeeded {
		return "if-needed"
	}
	return "always"
}

// ParseMode parses a scroll mode keyword.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "always":
		return ModeAlways, true
	case "if-needed":
		return ModeIfNeeded, true
	}
	return ModeAlways, false
}

// Options configures ScrollIntoView.
type Options[N comparable] struct {
	Mode   Mode
	Block  Alignment
	Inline Alignment

	// Boundary stops the container walk when it returns false for the
	// current node. Nil walks up to the scrolling element.
	Boundary func(N) bool

	// SkipOverflowHidden treats overflow:hidden containers as not scrollable.
	SkipOverflowHidden bool
}

// Layout exposes the node tree and its geometry to the solver.
type Layout[N comparable] interface {
	IsElement(n N) bool
	Parent(n N) (N, bool)
	ScrollingElement() N
	Body() N
	DocumentElement() N
	Viewport() Viewport
	Metrics(n N) Metrics
}

// Computation is the scroll position a container must be set to.
type Computation[N comparable] struct {
	Element N
	Top     float64
	Left    float64
}

func canOverflow(o Overflow, skipHidden bool) bool {
	if skipHidden && o == OverflowHidden {
		return false
	}
	return o != OverflowVisible && o != OverflowClip
}

func hiddenByFrame(m Metrics) bool {
	if m.Frame == nil {
		return false
	}
	return m.Frame.Height < m.ScrollHeight || m.Frame.Width < m.ScrollWidth
}

// IsScrollable reports whether an element with metrics m scrolls its content.
func IsScrollable(m Metrics, skipHidden bool) bool {
	if m.ClientHeight < m.ScrollHeight || m.ClientWidth < m.ScrollWidth {
		return canOverflow(m.OverflowY, skipHidden) ||
			canOverflow(m.OverflowX, skipHidden) ||
			hiddenByFrame(m)
	}
	return false
}

// NearestOffset returns the scroll delta that brings the element span into
// the scrolling span with the least movement on one axis.
//
//	      ┌──────────┐ scrolling
//	  ┌───┼──┐       │
//	  │ el│  │       │  el starts before and fits: align leading edges
//	  └───┼──┘       │
//	      └──────────┘
func NearestOffset(
	scrollingStart, scrollingEnd, scrollingSize,
	borderStart, borderEnd,
	elementStart, elementEnd, elementSize float64,
) float64 {
	if (elementStart < scrollingStart && elementEnd > scrollingEnd) ||
		(elementStart > scrollingStart && elementEnd < scrollingEnd) {
		return 0
	}

	if (elementStart <= scrollingStart && elementSize <= scrollingSize) ||
		(elementEnd >= scrollingEnd && elementSize >= scrollingSize) {
		return elementStart - scrollingStart - borderStart
	}

	if (elementEnd > scrollingEnd && elementSize < scrollingSize) ||
		(elementStart < scrollingStart && elementSize > scrollingSize) {
		return elementEnd - scrollingEnd + borderEnd
	}

	return 0
}

// frames walks from target to the scrolling element and collects every
// container that scrolls, innermost first.
func frames[N comparable](target N, layout Layout[N], opts Options[N]) []N {
	scrolling := layout.ScrollingElement()
	body := layout.Body()
	var out []N

	cursor := target
	for layout.IsElement(cursor) && (opts.Boundary == nil || opts.Boundary(cursor)) {
		parent, ok := layout.Parent(cursor)
		if !ok {
			break
		}
		cursor = parent

		if cursor == scrolling {
			out = append(out, cursor)
			break
		}
		if !layout.IsElement(cursor) {
			break
		}

		if cursor == body &&
			IsScrollable(layout.Metrics(cursor), false) &&
			!IsScrollable(layout.Metrics(layout.DocumentElement()), false) {
			continue
		}

		if IsScrollable(layout.Metrics(cursor), opts.SkipOverflowHidden) {
			out = append(out, cursor)
		}
	}
	return out
}

// ScrollIntoView computes, for every scrollable ancestor of target, the
// scroll position that satisfies opts for the rectangle bounds.
//
// Offsets for the scrolling element are absolute and never negative.
// Offsets for other containers are clamped to their scrollable extent,
// and bounds is rebased by the distance actually scrolled before the next
// container is measured.
func ScrollIntoView[N comparable](bounds Rect, target N, layout Layout[N], opts Options[N]) ([]Computation[N], error) {
	if !layout.IsElement(target) {
		return nil, ErrInvalidTarget
	}

	block, inline := opts.Block, opts.Inline
	if block == AlignAuto {
		block = AlignNearest
	}
	if inline == AlignAuto {
		inline = AlignNearest
	}

	scrolling := layout.ScrollingElement()
	chain := frames(target, layout, opts)

	vp := layout.Viewport()

	var targetBlock float64
	switch block {
	case AlignStart, AlignNearest:
		targetBlock = bounds.Top
	case AlignEnd:
		targetBlock = bounds.Bottom
	default:
		targetBlock = bounds.Top + bounds.Height/2
	}

	var targetInline float64
	switch inline {
	case AlignCenter:
		targetInline = bounds.Left + bounds.Width/2
	case AlignEnd:
		targetInline = bounds.Right
	default:
		targetInline = bounds.Left
	}

	visible := NewRect(0, 0, vp.Width, vp.Height)
	var computations []Computation[N]

	for _, frame := range chain {
		m := layout.Metrics(frame)
		fr := m.Rect

		// Visibility is checked against bounds, not the rebased target.
		if opts.Mode == ModeIfNeeded && bounds.ContainedIn(visible) && bounds.ContainedIn(fr) {
			return computations, nil
		}

		border := m.Border
		scrollbarWidth := m.OffsetWidth - m.ClientWidth - border.Left - border.Right
		scrollbarHeight := m.OffsetHeight - m.ClientHeight - border.Top - border.Bottom

		var blockScroll, inlineScroll float64

		if frame == scrolling {
			switch block {
			case AlignStart:
				blockScroll = targetBlock
			case AlignEnd:
				blockScroll = targetBlock - vp.Height
			case AlignNearest:
				blockScroll = NearestOffset(
					vp.ScrollY, vp.ScrollY+vp.Height, vp.Height,
					border.Top, border.Bottom,
					vp.ScrollY+targetBlock, vp.ScrollY+targetBlock+bounds.Height, bounds.Height,
				)
			default:
				blockScroll = targetBlock - vp.Height/2
			}

			switch inline {
			case AlignStart:
				inlineScroll = targetInline
			case AlignCenter:
				inlineScroll = targetInline - vp.Width/2
			case AlignEnd:
				inlineScroll = targetInline - vp.Width
			default:
				inlineScroll = NearestOffset(
					vp.ScrollX, vp.ScrollX+vp.Width, vp.Width,
					border.Left, border.Right,
					vp.ScrollX+targetInline, vp.ScrollX+targetInline+bounds.Width, bounds.Width,
				)
			}

			blockScroll = max(0, blockScroll+vp.ScrollY)
			inlineScroll = max(0, inlineScroll+vp.ScrollX)
		} else {
			switch block {
			case AlignStart:
				blockScroll = targetBlock - fr.Top - border.Top
			case AlignEnd:
				blockScroll = targetBlock - fr.Bottom + border.Bottom + scrollbarHeight
			case AlignNearest:
				blockScroll = NearestOffset(
					fr.Top, fr.Bottom, fr.Height,
					border.Top, border.Bottom+scrollbarHeight,
					targetBlock, targetBlock+bounds.Height, bounds.Height,
				)
			default:
				blockScroll = targetBlock - (fr.Top + fr.Height/2) + scrollbarHeight/2
			}

			switch inline {
			case AlignStart:
				inlineScroll = targetInline - fr.Left - border.Left
			case AlignCenter:
				inlineScroll = targetInline - (fr.Left + fr.Width/2) + scrollbarWidth/2
			case AlignEnd:
				inlineScroll = targetInline - fr.Right + border.Right + scrollbarWidth
			default:
				inlineScroll = NearestOffset(
					fr.Left, fr.Right, fr.Width,
					border.Left, border.Right+scrollbarWidth,
					targetInline, targetInline+bounds.Width, bounds.Width,
				)
			}

			blockScroll = max(0, min(m.ScrollTop+blockScroll, m.ScrollHeight-fr.Height+scrollbarHeight))
			inlineScroll = max(0, min(m.ScrollLeft+inlineScroll, m.ScrollWidth-fr.Width+scrollbarWidth))

			targetBlock += m.ScrollTop - blockScroll
			targetInline += m.ScrollLeft - inlineScroll
		}

		computations = append(computations, Computation[N]{
			Element: frame,
			Top:     blockScroll,
			Left:    inlineScroll,
		})
	}

	return computations, nil
}
