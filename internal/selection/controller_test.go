package selection

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event"
	"github.com/dshills/caret/internal/event/events"
	"github.com/dshills/caret/internal/geometry"
	"github.com/dshills/caret/internal/tick"
)

func TestNewRejectsNilCollaborators(t *testing.T) {
	if _, err := New(nil, nil, event.NewBus(), tick.New()); err == nil {
		t.Error("New with nil tree should fail")
	}
}

func TestNewStartsWithoutSelection(t *testing.T) {
	f := setup(t, sample)
	if got := f.c.Range(); got != nil {
		t.Errorf("Range() = %v, want nil", got)
	}
	if got := f.c.SavedRange(); got != *rng(0, 0) {
		t.Errorf("SavedRange() = %v, want 0+0", got)
	}
}

func TestSetRangeEmitsChanges(t *testing.T) {
	f := setup(t, sample)

	f.c.SetRange(rng(2, 3), false, events.SourceAPI)
	if diff := cmp.Diff(rng(2, 3), f.c.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	wantEditor := []events.EditorChange{{Kind: events.ChangeSelection, Range: rng(2, 3), Source: events.SourceAPI}}
	if diff := cmp.Diff(wantEditor, f.editor); diff != "" {
		t.Errorf("editor changes mismatch (-want +got):\n%s", diff)
	}
	wantChanges := []events.SelectionChange{{Range: rng(2, 3), Source: events.SourceAPI}}
	if diff := cmp.Diff(wantChanges, f.changes); diff != "" {
		t.Errorf("selection changes mismatch (-want +got):\n%s", diff)
	}
	if !f.c.HasFocus() {
		t.Error("setting a range should focus the root")
	}

	f.reset()
	f.c.SetRange(rng(2, 3), false, events.SourceAPI)
	if len(f.editor) != 0 || len(f.changes) != 0 {
		t.Errorf("unchanged range emitted %v %v", f.editor, f.changes)
	}

	f.c.SetRange(rng(4, 0), false, events.SourceSilent)
	if len(f.editor) != 1 || len(f.changes) != 0 {
		t.Errorf("silent change: editor %d, selection %d, want 1 and 0", len(f.editor), len(f.changes))
	}
	if diff := cmp.Diff(rng(2, 3), f.editor[0].OldRange); diff != "" {
		t.Errorf("old range mismatch (-want +got):\n%s", diff)
	}
}

func TestSetRangeNilKeepsSavedRange(t *testing.T) {
	f := setup(t, sample)
	f.c.SetRange(rng(7, 2), false, events.SourceAPI)
	f.c.SetRange(nil, false, events.SourceAPI)

	if f.c.Range() != nil {
		t.Errorf("Range() = %v, want nil", f.c.Range())
	}
	if f.c.SavedRange() != *rng(7, 2) {
		t.Errorf("SavedRange() = %v, want 7+2", f.c.SavedRange())
	}
	if f.doc.Selection() != nil || f.c.HasFocus() {
		t.Error("clearing should drop the native selection and blur")
	}

	f.c.Focus()
	if !f.c.HasFocus() {
		t.Fatal("Focus() did not focus the root")
	}
	if diff := cmp.Diff(rng(7, 2), f.c.Range()); diff != "" {
		t.Errorf("focus did not restore the saved range (-want +got):\n%s", diff)
	}

	writes := f.doc.Writes()
	f.c.Focus()
	if f.doc.Writes() != writes {
		t.Error("Focus() on a focused root wrote the selection")
	}
}

func TestSetNativeRange(t *testing.T) {
	f := setup(t, sample)
	hello := f.node(t, "//p[1]/text()")

	start := f.doc.Writes()
	f.c.SetNativeRange(hello, 1, hello, 3, false)
	f.c.SetNativeRange(hello, 1, hello, 3, false)
	if got := f.doc.Writes() - start; got != 1 {
		t.Errorf("identical writes = %d, want 1", got)
	}
	f.c.SetNativeRange(hello, 1, hello, 3, true)
	if got := f.doc.Writes() - start; got != 2 {
		t.Errorf("forced writes = %d, want 2", got)
	}

	f.c.SetNativeRange(dom.NewText("detached"), 0, nil, 0, false)
	if got := f.doc.Writes() - start; got != 2 {
		t.Errorf("detached node was written, writes = %d", got)
	}

	br := f.node(t, "//br")
	f.c.SetNativeRange(br, 0, nil, 0, false)
	want := dom.Range{StartContainer: br.Parent, StartOffset: 0, EndContainer: br.Parent, EndOffset: 0}
	if got := f.doc.Selection(); got == nil || !got.Equal(want) {
		t.Errorf("break boundary = %v, want %v", got, want)
	}

	f.c.SetNativeRange(nil, 0, nil, 0, false)
	if f.doc.Selection() != nil || f.c.HasFocus() {
		t.Error("nil boundaries should clear the selection and blur")
	}
}

func TestSelectionChangedIsDeferred(t *testing.T) {
	f := setup(t, sample)
	hello := f.node(t, "//p[1]/text()")
	f.selectNative(t, hello, 1, hello, 1)

	f.c.SelectionChanged()
	f.c.SelectionChanged()
	if len(f.changes) != 0 {
		t.Fatal("selection change handled synchronously")
	}
	if f.sched.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.sched.Pending())
	}

	f.sched.Turn()
	want := []events.SelectionChange{{Range: rng(1, 0), Source: events.SourceUser}}
	if diff := cmp.Diff(want, f.changes); diff != "" {
		t.Errorf("selection changes mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionChangedFromBus(t *testing.T) {
	f := setup(t, sample, WithDeferTicks(2))
	hello := f.node(t, "//p[1]/text()")
	f.selectNative(t, hello, 4, hello, 4)

	err := event.Emit(context.Background(), f.bus, events.TopicNativeSelectionChange, events.NativeSelectionChange{}, "test")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	f.sched.Turn()
	if len(f.changes) != 0 {
		t.Fatal("update ran before the configured delay")
	}
	f.sched.Turn()
	if diff := cmp.Diff(rng(4, 0), f.c.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
}

func TestCompositionSuppressesSelectionChange(t *testing.T) {
	f := setup(t, sample)
	hello := f.node(t, "//p[1]/text()")

	err := event.Emit(context.Background(), f.bus, events.TopicCompositionStart, events.Composition{}, "test")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !f.c.Composing() || !f.tree.Batching() {
		t.Fatal("composition start should set composing and open a batch")
	}

	f.selectNative(t, hello, 2, hello, 2)
	f.c.SelectionChanged()
	f.sched.Drain()
	if len(f.editor) != 0 || len(f.changes) != 0 {
		t.Errorf("events while composing: %v %v", f.editor, f.changes)
	}

	f.c.CompositionEnd()
	if f.c.Composing() || f.tree.Batching() {
		t.Error("composition end should clear composing and close the batch")
	}
}

func TestDraggingSuppressesSelectionChange(t *testing.T) {
	f := setup(t, sample)
	hello := f.node(t, "//p[1]/text()")

	f.c.PointerDown()
	f.selectNative(t, hello, 0, hello, 3)
	f.c.SelectionChanged()
	if f.sched.Pending() != 0 || !f.c.Dragging() {
		t.Fatal("selection change scheduled while dragging")
	}

	err := event.Emit(context.Background(), f.bus, events.TopicPointerUp, events.Pointer{}, "test")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if f.c.Dragging() {
		t.Error("pointer up should clear dragging")
	}
	want := []events.SelectionChange{{Range: rng(0, 3), Source: events.SourceUser}}
	if diff := cmp.Diff(want, f.changes); diff != "" {
		t.Errorf("selection changes mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatSplicesCursor(t *testing.T) {
	f := setup(t, sample)
	f.c.SetRange(rng(3, 0), false, events.SourceAPI)
	f.reset()

	f.c.Format("bold", true)

	p := f.node(t, "//p[1]")
	if got, want := dom.InnerHTML(p), `hel<strong><span class="ql-cursor">`+dom.ZeroWidth+`</span></strong>lo`; got != want {
		t.Errorf("html = %s, want %s", got, want)
	}
	if diff := cmp.Diff(rng(3, 0), f.c.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	cursor := f.c.Cursor()
	want := dom.Range{StartContainer: cursor.TextNode(), StartOffset: 1, EndContainer: cursor.TextNode(), EndOffset: 1}
	if got := f.doc.Selection(); got == nil || !got.Equal(want) {
		t.Errorf("native selection = %v, want on the cursor", got)
	}
	if diff := cmp.Diff(map[string]any{"bold": true}, cursor.Formats()); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if len(f.changes) != 0 {
		t.Errorf("formatting in place emitted %v", f.changes)
	}
}

func TestFormatIgnored(t *testing.T) {
	f := setup(t, sample)

	f.c.Format("bold", true)
	f.c.SetRange(rng(1, 2), false, events.SourceAPI)
	f.c.Format("bold", true)
	f.c.SetRange(rng(1, 0), false, events.SourceAPI)
	f.c.Format("header", 1)

	if f.c.Cursor().Attached() {
		t.Error("cursor attached without a collapsed selection or for a block format")
	}
}

func TestTypingIntoFormattedCursor(t *testing.T) {
	f := setup(t, sample)
	f.c.SetRange(rng(3, 0), false, events.SourceAPI)
	f.c.Format("bold", true)
	f.reset()

	text := f.c.Cursor().TextNode()
	f.doc.SetData(text, dom.ZeroWidth+"X")
	f.selectNative(t, text, 2, text, 2)
	f.tree.Update(events.SourceUser)

	if got := dom.InnerHTML(f.node(t, "//p[1]")); got != "hel<strong>X</strong>lo" {
		t.Errorf("html = %s", got)
	}
	if diff := cmp.Diff(rng(4, 0), f.c.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	if f.c.Cursor().Attached() {
		t.Error("cursor still attached after restore")
	}
	if len(f.editor) != 1 || f.editor[0].Source != events.SourceSilent || len(f.changes) != 0 {
		t.Errorf("restore should update silently: %v %v", f.editor, f.changes)
	}
}

func TestMovingAwayRemovesCursor(t *testing.T) {
	f := setup(t, sample)
	f.c.SetRange(rng(3, 0), false, events.SourceAPI)
	f.c.Format("italic", true)

	f.c.SetRange(rng(0, 0), false, events.SourceAPI)
	if f.c.Cursor().Attached() {
		t.Error("cursor should be removed when the caret moves")
	}
	f.tree.Optimize()
	if got := dom.InnerHTML(f.node(t, "//p[1]")); got != "hello" {
		t.Errorf("html = %s, want hello", got)
	}
}

func TestCompositionEndRestoresCursor(t *testing.T) {
	f := setup(t, sample)
	f.c.SetRange(rng(3, 0), false, events.SourceAPI)
	f.c.Format("bold", true)

	f.c.CompositionStart()
	text := f.c.Cursor().TextNode()
	f.doc.SetData(text, dom.ZeroWidth+"あ")
	f.selectNative(t, text, 2, text, 2)
	f.tree.Update(events.SourceUser)
	if !f.c.Cursor().Attached() {
		t.Fatal("cursor restored while composing")
	}

	f.c.CompositionEnd()
	if f.c.Cursor().Attached() {
		t.Fatal("cursor still attached after composition end")
	}
	if got := f.tree.Text(); !strings.HasPrefix(got, "helあlo\n") {
		t.Errorf("Text() = %q", got)
	}

	composed := f.node(t, "//strong/text()")
	want := dom.Range{StartContainer: composed, StartOffset: 1, EndContainer: composed, EndOffset: 1}
	if got := f.doc.Selection(); got != nil && got.Equal(want) {
		t.Error("selection written before the host settled")
	}
	f.sched.Turn()
	if got := f.doc.Selection(); got == nil || !got.Equal(want) {
		t.Errorf("selection = %v, want %v", got, want)
	}
}

func TestMutationKeepsSelection(t *testing.T) {
	f := setup(t, sample)
	f.c.SetRange(rng(1, 2), false, events.SourceAPI)
	f.reset()
	writes := f.doc.Writes()

	if err := f.tree.InsertText(0, "ab"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if diff := cmp.Diff(rng(3, 2), f.c.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	if f.doc.Writes() != writes {
		t.Error("restoring an unchanged selection wrote it again")
	}
	if len(f.editor) != 1 || f.editor[0].Source != events.SourceSilent || len(f.changes) != 0 {
		t.Errorf("mutation should update silently: %v %v", f.editor, f.changes)
	}
}

func TestMutationRemovingAnchor(t *testing.T) {
	f := setup(t, `<div contenteditable><p>hello</p><p>world</p></div>`)
	f.c.SetRange(rng(7, 2), false, events.SourceAPI)

	if err := f.tree.DeleteAt(5, 6); err != nil {
		t.Fatalf("DeleteAt: %v", err)
	}
	if diff := cmp.Diff(rng(5, 0), f.c.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
}

func TestOptimizeWithRange(t *testing.T) {
	f := setup(t, sample)
	hello := f.node(t, "//p[1]/text()")

	err := event.Emit(context.Background(), f.bus, events.TopicScrollOptimize, events.ScrollOptimize{
		Range: &dom.Range{StartContainer: hello, StartOffset: 1, EndContainer: hello, EndOffset: 4},
	}, "test")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if diff := cmp.Diff(rng(1, 3), f.c.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	if len(f.changes) != 0 {
		t.Errorf("optimize range should update silently, got %v", f.changes)
	}
}

func scrollDoc() string {
	var b strings.Builder
	b.WriteString(`<div id="editor" contenteditable data-box="0 0 300 100" data-overflow="auto">`)
	for range 10 {
		b.WriteString("<p>line</p>")
	}
	b.WriteString(`</div>`)
	return b.String()
}

func TestScrollIntoView(t *testing.T) {
	f := setup(t, scrollDoc())
	root := f.doc.Root()

	comps, err := f.c.ScrollIntoView()
	if err != nil || comps != nil {
		t.Fatalf("without a selection: %v, %v", comps, err)
	}

	f.c.SetRange(rng(45, 0), false, events.SourceAPI)
	comps, err = f.c.ScrollIntoView()
	if err != nil {
		t.Fatalf("ScrollIntoView: %v", err)
	}
	want := []geometry.Computation[*html.Node]{{Element: root, Top: 100, Left: 0}}
	if diff := cmp.Diff(want, comps, cmp.Comparer(func(a, b *html.Node) bool { return a == b })); diff != "" {
		t.Errorf("computations mismatch (-want +got):\n%s", diff)
	}
	if b, _ := f.doc.Box(root); b.ScrollTop != 100 {
		t.Errorf("root ScrollTop = %v, want 100", b.ScrollTop)
	}

	comps, err = f.c.ScrollIntoView()
	if err != nil || len(comps) != 0 {
		t.Errorf("visible selection scrolled again: %v, %v", comps, err)
	}
}

func TestClose(t *testing.T) {
	f := setup(t, sample)
	hello := f.node(t, "//p[1]/text()")
	f.selectNative(t, hello, 1, hello, 1)
	f.c.SelectionChanged()

	f.c.Close()
	f.c.Close()
	if f.sched.Pending() != 0 {
		t.Error("Close left deferred work behind")
	}
	_ = event.Emit(context.Background(), f.bus, events.TopicPointerDown, events.Pointer{}, "test")
	if f.c.Dragging() {
		t.Error("closed controller still reacts to the bus")
	}
}

func TestCloseCancelsCompositionSettle(t *testing.T) {
	f := setup(t, sample)
	f.c.SetRange(rng(3, 0), false, events.SourceAPI)
	f.c.Format("bold", true)

	f.c.CompositionStart()
	text := f.c.Cursor().TextNode()
	f.doc.SetData(text, dom.ZeroWidth+"x")
	f.selectNative(t, text, 2, text, 2)
	f.tree.Update(events.SourceUser)
	f.c.CompositionEnd()
	if f.sched.Pending() != 1 {
		t.Fatalf("pending = %d, want the deferred selection write", f.sched.Pending())
	}

	writes := f.doc.Writes()
	f.c.Close()
	if f.sched.Pending() != 0 {
		t.Errorf("pending after Close = %d, want 0", f.sched.Pending())
	}
	f.sched.Drain()
	if got := f.doc.Writes(); got != writes {
		t.Errorf("native writes after Close = %d, want %d", got-writes, 0)
	}
}
