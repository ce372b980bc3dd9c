package selection

import (
	"context"
	"testing"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/blot"
	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event"
	"github.com/dshills/caret/internal/event/events"
	"github.com/dshills/caret/internal/tick"
)

const sample = `<div contenteditable><p>hello</p><p><strong>bold</strong> text</p><p><br></p><p>a<img src="x.png">b</p></div>`

type fixture struct {
	doc   *dom.Document
	tree  *blot.Scroll
	bus   event.Bus
	sched *tick.Scheduler
	c     *Controller

	editor  []events.EditorChange
	changes []events.SelectionChange
}

func setup(t *testing.T, src string, opts ...Option) *fixture {
	t.Helper()
	doc, err := dom.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	f := &fixture{doc: doc, bus: event.NewBus(), sched: tick.New()}
	f.tree = blot.NewScroll(doc, f.bus)
	f.c, err = New(f.tree, doc, f.bus, f.sched, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(f.c.Close)

	_, err = event.Subscribe(f.bus, events.TopicEditorChange, func(_ context.Context, e event.Event[events.EditorChange]) error {
		f.editor = append(f.editor, e.Payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	_, err = event.Subscribe(f.bus, events.TopicSelectionChange, func(_ context.Context, e event.Event[events.SelectionChange]) error {
		f.changes = append(f.changes, e.Payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	return f
}

func (f *fixture) node(t *testing.T, expr string) *html.Node {
	t.Helper()
	n := htmlquery.FindOne(f.doc.Node(), expr)
	if n == nil {
		t.Fatalf("no node for %s", expr)
	}
	return n
}

func (f *fixture) selectNative(t *testing.T, sn *html.Node, so int, en *html.Node, eo int) {
	t.Helper()
	err := f.doc.SetSelection(dom.Range{StartContainer: sn, StartOffset: so, EndContainer: en, EndOffset: eo})
	if err != nil {
		t.Fatalf("SetSelection: %v", err)
	}
}

func (f *fixture) reset() {
	f.editor = nil
	f.changes = nil
}

func rng(index, length int) *Range {
	return &Range{Index: index, Length: length}
}
