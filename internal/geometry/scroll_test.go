package geometry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeNode struct {
	name    string
	parent  string
	element bool
	metrics Metrics
}

type fakeLayout struct {
	nodes     map[string]*fakeNode
	scrolling string
	body      string
	html      string
	viewport  Viewport
}

func newFakeLayout() *fakeLayout {
	l := &fakeLayout{
		nodes:     make(map[string]*fakeNode),
		scrolling: "html",
		body:      "body",
		html:      "html",
		viewport:  Viewport{Width: 1024, Height: 768},
	}
	l.add("document", "", false, Metrics{})
	l.add("html", "document", true, Metrics{Rect: NewRect(0, 0, 1024, 768), ClientWidth: 1024, ClientHeight: 768, ScrollWidth: 1024, ScrollHeight: 768})
	l.add("body", "html", true, Metrics{ClientWidth: 1024, ClientHeight: 768, ScrollWidth: 1024, ScrollHeight: 768})
	return l
}

func (l *fakeLayout) add(name, parent string, element bool, m Metrics) {
	l.nodes[name] = &fakeNode{name: name, parent: parent, element: element, metrics: m}
}

func (l *fakeLayout) IsElement(n string) bool {
	node, ok := l.nodes[n]
	return ok && node.element
}

func (l *fakeLayout) Parent(n string) (string, bool) {
	node, ok := l.nodes[n]
	if !ok || node.parent == "" {
		return "", false
	}
	return node.parent, true
}

func (l *fakeLayout) ScrollingElement() string { return l.scrolling }
func (l *fakeLayout) Body() string             { return l.body }
func (l *fakeLayout) DocumentElement() string  { return l.html }
func (l *fakeLayout) Viewport() Viewport       { return l.viewport }
func (l *fakeLayout) Metrics(n string) Metrics { return l.nodes[n].metrics }

// scroller is a 480px tall, 300px wide container with 2000px of content.
func scroller(rect Rect) Metrics {
	return Metrics{
		Rect:         rect,
		ClientWidth:  rect.Width,
		ClientHeight: rect.Height,
		OffsetWidth:  rect.Width,
		OffsetHeight: rect.Height,
		ScrollWidth:  rect.Width,
		ScrollHeight: 2000,
		OverflowY:    OverflowAuto,
	}
}

func TestNearestOffset(t *testing.T) {
	tests := []struct {
		name                   string
		regionStart, regionEnd float64
		elemStart, elemEnd     float64
		want                   float64
	}{
		{"inside", 0, 100, 20, 40, 0},
		{"straddles", 0, 100, -10, 120, 0},
		{"leading fits", 0, 100, -10, 40, -10},
		{"trailing fits", 0, 100, 80, 140, 40},
		{"flush start", 0, 100, 0, 40, 0},
		{"larger trailing", 0, 100, 50, 200, 50},
		{"larger leading", 0, 100, -150, 50, -50},
		{"exact", 0, 100, 0, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NearestOffset(
				tt.regionStart, tt.regionEnd, tt.regionEnd-tt.regionStart,
				0, 0,
				tt.elemStart, tt.elemEnd, tt.elemEnd-tt.elemStart,
			)
			if got != tt.want {
				t.Errorf("NearestOffset = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNearestOffsetBorders(t *testing.T) {
	got := NearestOffset(0, 100, 100, 2, 3, -10, 40, 50)
	if got != -12 {
		t.Errorf("leading with border = %v, want -12", got)
	}
	got = NearestOffset(0, 100, 100, 2, 3, 80, 140, 60)
	if got != 43 {
		t.Errorf("trailing with border = %v, want 43", got)
	}
}

func TestIsScrollable(t *testing.T) {
	tests := []struct {
		name       string
		m          Metrics
		skipHidden bool
		want       bool
	}{
		{"no overflow", Metrics{ClientHeight: 100, ScrollHeight: 100, OverflowY: OverflowAuto}, false, false},
		{"auto", Metrics{ClientHeight: 100, ScrollHeight: 200, OverflowY: OverflowAuto}, false, true},
		{"visible", Metrics{ClientHeight: 100, ScrollHeight: 200}, false, false},
		{"clip", Metrics{ClientHeight: 100, ScrollHeight: 200, OverflowY: OverflowClip, OverflowX: OverflowClip}, false, false},
		{"hidden", Metrics{ClientHeight: 100, ScrollHeight: 200, OverflowY: OverflowHidden}, false, true},
		{"hidden skipped", Metrics{ClientHeight: 100, ScrollHeight: 200, OverflowY: OverflowHidden}, true, false},
		{"framed", Metrics{ClientHeight: 100, ScrollHeight: 200, Frame: &Size{Width: 50, Height: 50}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsScrollable(tt.m, tt.skipHidden); got != tt.want {
				t.Errorf("IsScrollable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScrollIntoViewInvalidTarget(t *testing.T) {
	l := newFakeLayout()
	_, err := ScrollIntoView[string](Rect{}, "document", l, Options[string]{})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
	_, err = ScrollIntoView[string](Rect{}, "missing", l, Options[string]{})
	if !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestScrollIntoViewRecordsEveryFrame(t *testing.T) {
	l := newFakeLayout()
	l.add("editor", "body", true, scroller(NewRect(0, 0, 300, 480)))
	l.add("target", "editor", true, Metrics{})

	bounds := Rect{Top: 500, Bottom: 540, Left: 10, Right: 50, Width: 40, Height: 40}
	got, err := ScrollIntoView[string](bounds, "target", l, Options[string]{
		Block:  AlignNearest,
		Inline: AlignNearest,
	})
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}

	want := []Computation[string]{
		{Element: "editor", Top: 60, Left: 0},
		{Element: "html", Top: 0, Left: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("computations mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollIntoViewIfNeeded(t *testing.T) {
	l := newFakeLayout()
	l.add("editor", "body", true, scroller(NewRect(0, 0, 300, 480)))
	l.add("target", "editor", true, Metrics{})

	opts := Options[string]{Mode: ModeIfNeeded, Block: AlignNearest, Inline: AlignNearest}

	visible := NewRect(100, 10, 40, 20)
	got, err := ScrollIntoView[string](visible, "target", l, opts)
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("visible target produced %d computations, want 0", len(got))
	}

	hidden := Rect{Top: 500, Bottom: 540, Left: 10, Right: 50, Width: 40, Height: 40}
	got, err = ScrollIntoView[string](hidden, "target", l, opts)
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}
	want := []Computation[string]{
		{Element: "editor", Top: 60},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("computations mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollIntoViewIfNeededStopsAtFirstVisibleFrame(t *testing.T) {
	l := newFakeLayout()
	l.viewport = Viewport{Width: 200, Height: 200}
	l.add("outer", "body", true, scroller(NewRect(50, 0, 300, 100)))
	l.add("inner", "outer", true, scroller(NewRect(0, 0, 100, 100)))
	l.add("target", "inner", true, Metrics{})

	// Above the outer frame's box, but outer is never measured.
	got, err := ScrollIntoView[string](NewRect(10, 10, 20, 20), "target", l, Options[string]{Mode: ModeIfNeeded})
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no computations", got)
	}
}

func TestScrollIntoViewAlignments(t *testing.T) {
	frame := NewRect(100, 0, 300, 400)
	bounds := NewRect(700, 20, 40, 20)

	tests := []struct {
		block   Alignment
		wantTop float64
	}{
		{AlignStart, 600},
		{AlignEnd, 220},
		{AlignCenter, 410},
		{AlignNearest, 220},
		{AlignAuto, 220},
	}

	for _, tt := range tests {
		t.Run(tt.block.String(), func(t *testing.T) {
			l := newFakeLayout()
			l.add("editor", "body", true, scroller(frame))
			l.add("target", "editor", true, Metrics{})

			got, err := ScrollIntoView[string](bounds, "target", l, Options[string]{Block: tt.block})
			if err != nil {
				t.Fatalf("ScrollIntoView: %v", err)
			}
			if len(got) == 0 || got[0].Element != "editor" {
				t.Fatalf("got %v, want editor first", got)
			}
			if got[0].Top != tt.wantTop {
				t.Errorf("top = %v, want %v", got[0].Top, tt.wantTop)
			}
		})
	}
}

func TestScrollIntoViewClampsAndRebases(t *testing.T) {
	l := newFakeLayout()
	l.viewport = Viewport{Width: 1024, Height: 300}
	l.nodes["html"].metrics.ScrollHeight = 2000
	l.add("editor", "body", true, Metrics{
		Rect:         NewRect(0, 0, 300, 100),
		ClientWidth:  300,
		ClientHeight: 100,
		OffsetWidth:  300,
		OffsetHeight: 100,
		ScrollWidth:  300,
		ScrollHeight: 150,
		OverflowY:    OverflowScroll,
	})
	l.add("target", "editor", true, Metrics{})

	bounds := NewRect(400, 0, 10, 20)
	got, err := ScrollIntoView[string](bounds, "target", l, Options[string]{Block: AlignStart, Inline: AlignStart})
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}

	// The editor can only scroll 50px, so the viewport makes up the rest.
	want := []Computation[string]{
		{Element: "editor", Top: 50},
		{Element: "html", Top: 350},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("computations mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollIntoViewBodySkipped(t *testing.T) {
	l := newFakeLayout()
	l.nodes["body"].metrics = Metrics{ClientHeight: 768, ScrollHeight: 3000, OverflowY: OverflowAuto}
	l.add("target", "body", true, Metrics{})

	got, err := ScrollIntoView[string](NewRect(1000, 0, 10, 10), "target", l, Options[string]{})
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}
	for _, c := range got {
		if c.Element == "body" {
			t.Errorf("body should not be in the chain when html does not scroll")
		}
	}
	if len(got) != 1 || got[0].Element != "html" {
		t.Errorf("got %v, want only html", got)
	}
}

func TestScrollIntoViewBoundary(t *testing.T) {
	l := newFakeLayout()
	l.add("editor", "body", true, scroller(NewRect(0, 0, 300, 480)))
	l.add("target", "editor", true, Metrics{})

	got, err := ScrollIntoView[string](NewRect(500, 0, 10, 10), "target", l, Options[string]{
		Boundary: func(n string) bool { return n != "editor" },
	})
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}
	want := []Computation[string]{{Element: "editor", Top: 30}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("computations mismatch (-want +got):\n%s", diff)
	}
}

func TestScrollingElementNeverNegative(t *testing.T) {
	l := newFakeLayout()
	l.viewport = Viewport{Width: 100, Height: 100, ScrollY: 20}
	l.add("target", "body", true, Metrics{})

	got, err := ScrollIntoView[string](NewRect(-50, 0, 10, 10), "target", l, Options[string]{Block: AlignStart})
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}
	if len(got) != 1 || got[0].Top != 0 {
		t.Errorf("got %v, want top clamped to 0", got)
	}
}

func TestParseAlignmentAndMode(t *testing.T) {
	if a, ok := ParseAlignment("center"); !ok || a != AlignCenter {
		t.Errorf("ParseAlignment(center) = %v, %v", a, ok)
	}
	if _, ok := ParseAlignment("middle"); ok {
		t.Error("ParseAlignment(middle) should fail")
	}
	if m, ok := ParseMode("if-needed"); !ok || m != ModeIfNeeded {
		t.Errorf("ParseMode(if-needed) = %v, %v", m, ok)
	}
	if ParseOverflow("scroll") != OverflowScroll || ParseOverflow("bogus") != OverflowVisible {
		t.Error("ParseOverflow mismatch")
	}
}

func TestRectContainedIn(t *testing.T) {
	outer := NewRect(0, 0, 100, 50)
	tests := []struct {
		r    Rect
		want bool
	}{
		{NewRect(0, 0, 100, 50), true},
		{NewRect(10, 10, 0, 20), true},
		{NewRect(-1, 0, 10, 10), false},
		{NewRect(40, 0, 10, 20), false},
		{NewRect(0, 95, 10, 10), false},
	}
	for _, tt := range tests {
		if got := tt.r.ContainedIn(outer); got != tt.want {
			t.Errorf("%+v.ContainedIn(outer) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
