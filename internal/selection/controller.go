package selection

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/dshills/caret/internal/blot"
	"github.com/dshills/caret/internal/dom"
	"github.com/dshills/caret/internal/event"
	"github.com/dshills/caret/internal/event/events"
	"github.com/dshills/caret/internal/event/topic"
	"github.com/dshills/caret/internal/geometry"
	"github.com/dshills/caret/internal/logging"
	"github.com/dshills/caret/internal/tick"
)

// Controller owns the current selection of one editing root.
//
// All methods must be called from the goroutine driving the event bus and
// the scheduler.
type Controller struct {
	tree   Tree
	host   Host
	root   *html.Node
	bus    event.Bus
	sched  *tick.Scheduler
	logger *logging.Logger

	deferTicks int
	scroll     geometry.Options[*html.Node]

	cursor     *blot.Cursor
	lastRange  *Range
	savedRange Range
	composing  bool
	dragging   bool

	subs    []event.Subscription
	restore event.Subscription
	pending tick.Token // deferred update after a native selection change
	settle  tick.Token // deferred selection write after composition end
	closed  bool
}

// New creates a controller for the root of tree. It subscribes to the
// content tree and input topics on bus and reads the initial selection
// silently.
func New(tree Tree, host Host, bus event.Bus, sched *tick.Scheduler, opts ...Option) (*Controller, error) {
	if tree == nil || host == nil || bus == nil || sched == nil {
		return nil, errors.New("selection: nil collaborator")
	}

	c := &Controller{
		tree:       tree,
		host:       host,
		root:       tree.Root(),
		bus:        bus,
		sched:      sched,
		logger:     logging.Nop(),
		deferTicks: 1,
		scroll:     defaultScrollOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.cursor = tree.NewCursor(c)
	c.lastRange = c.savedRange.Clone()

	if err := c.subscribe(); err != nil {
		c.Close()
		return nil, err
	}

	c.Update(events.SourceSilent)
	return c, nil
}

func (c *Controller) subscribe() error {
	add := func(sub event.Subscription, err error) error {
		if err != nil {
			return fmt.Errorf("selection: subscribe: %w", err)
		}
		c.subs = append(c.subs, sub)
		return nil
	}

	return errors.Join(
		add(event.Subscribe(c.bus, events.TopicScrollBeforeUpdate, c.onBeforeUpdate)),
		add(event.Subscribe(c.bus, events.TopicScrollOptimize, c.onOptimize)),
		add(event.Subscribe(c.bus, events.TopicCompositionStart, func(context.Context, event.Event[events.Composition]) error {
			c.CompositionStart()
			return nil
		})),
		add(event.Subscribe(c.bus, events.TopicCompositionEnd, func(context.Context, event.Event[events.Composition]) error {
			c.CompositionEnd()
			return nil
		})),
		add(event.Subscribe(c.bus, events.TopicPointerDown, func(context.Context, event.Event[events.Pointer]) error {
			c.PointerDown()
			return nil
		})),
		add(event.Subscribe(c.bus, events.TopicPointerUp, func(context.Context, event.Event[events.Pointer]) error {
			c.PointerUp()
			return nil
		})),
		add(event.Subscribe(c.bus, events.TopicNativeSelectionChange, func(context.Context, event.Event[events.NativeSelectionChange]) error {
			c.SelectionChanged()
			return nil
		})),
	)
}

// Close unsubscribes from the bus and cancels deferred work. The
// controller must not be used afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, sub := range c.subs {
		_ = c.bus.Unsubscribe(sub)
	}
	c.subs = nil
	if c.restore != nil {
		_ = c.bus.Unsubscribe(c.restore)
		c.restore = nil
	}
	c.sched.Cancel(c.pending)
	c.sched.Cancel(c.settle)
}

// Range returns the last observed selection, nil when there is none.
func (c *Controller) Range() *Range { return c.lastRange.Clone() }

// SavedRange returns the last selection that was not nil.
func (c *Controller) SavedRange() Range { return c.savedRange }

// Composing reports whether an input method composition is active.
func (c *Controller) Composing() bool { return c.composing }

// Dragging reports whether a pointer button is held down.
func (c *Controller) Dragging() bool { return c.dragging }

// Cursor returns the cursor placeholder.
func (c *Controller) Cursor() *blot.Cursor { return c.cursor }

// HasFocus reports whether focus is on or inside the root.
func (c *Controller) HasFocus() bool {
	return c.host.HasFocus(c.root)
}

// Normalized returns the current native selection normalized to leaf
// level, nil when it is not inside the root.
func (c *Controller) Normalized() *Normalized {
	n := Normalize(c.root, c.host.Selection())
	if n != nil {
		c.logger.Debug("getNativeRange %s", n.Range())
	}
	return n
}

// NativeRange returns the normalized native selection as a native range.
func (c *Controller) NativeRange() *dom.Range {
	n := c.Normalized()
	if n == nil {
		return nil
	}
	return n.Range()
}

func (c *Controller) currentRange() (*Range, *Normalized) {
	n := c.Normalized()
	if n == nil {
		return nil, nil
	}
	return NormalizedToRange(c.tree, n), n
}

// Update reads the native selection and publishes a change when it maps to
// a different range than before. Moving to a new collapsed position first
// restores the cursor placeholder, keeping what was typed into it.
func (c *Controller) Update(source events.Source) {
	old := c.lastRange
	rng, native := c.currentRange()
	c.lastRange = rng
	if rng != nil {
		c.savedRange = *rng
	}
	if RangesEqual(old, rng) {
		return
	}

	if !c.composing && native != nil && native.Collapsed() && native.Start.Node != c.cursor.TextNode() {
		if r := c.cursor.Restore(); r != nil {
			c.SetNativeRange(r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset, false)
		}
	}

	emit(c, events.TopicEditorChange, events.EditorChange{
		Kind:     events.ChangeSelection,
		Range:    rng.Clone(),
		OldRange: old.Clone(),
		Source:   source,
	})
	if source != events.SourceSilent {
		emit(c, events.TopicSelectionChange, events.SelectionChange{
			Range:    rng.Clone(),
			OldRange: old.Clone(),
			Source:   source,
		})
	}
}

func emit[T any](c *Controller, t topic.Topic, payload T) {
	if err := event.Emit(context.Background(), c.bus, t, payload, "selection"); err != nil {
		c.logger.Warn("publish %s: %v", t, err)
	}
}

// Focus gives the root focus and restores the saved selection. It does
// nothing when the root already has focus.
func (c *Controller) Focus() {
	if c.HasFocus() {
		return
	}
	c.host.Focus(c.root)
	saved := c.savedRange
	c.SetRange(&saved, false, events.SourceAPI)
}

// Format applies an inline format to a collapsed selection by splicing the
// cursor placeholder in at the caret and formatting it. The next
// characters typed land inside the placeholder and carry the format.
func (c *Controller) Format(name string, value any) {
	c.tree.Update(events.SourceUser)
	native := c.Normalized()
	if native == nil || !native.Collapsed() || c.tree.IsBlockFormat(name) {
		return
	}

	if native.Start.Node != c.cursor.TextNode() {
		b := c.tree.Find(native.Start.Node, false)
		if b == nil || b.Parent() == nil {
			return
		}
		if leaf, ok := b.(blot.Leaf); ok {
			after := leaf.Split(native.Start.Offset)
			leaf.Parent().InsertBefore(c.cursor, after)
		} else {
			b.Parent().InsertBefore(c.cursor, b)
		}
		c.cursor.Attach()
	}

	c.cursor.Format(name, value)
	c.tree.Optimize()
	text := c.cursor.TextNode()
	c.SetNativeRange(text, dom.TextLength(text), text, dom.TextLength(text), false)
	c.Update(events.SourceUser)
}

// SetRange selects r, or clears the selection when r is nil, and updates
// from the result.
func (c *Controller) SetRange(r *Range, force bool, source events.Source) {
	c.logger.Debug("setRange %s", r)
	if r == nil {
		c.ClearNativeRange()
	} else if native, ok := RangeToNative(c.tree, *r); ok {
		c.SetNativeRange(native.StartContainer, native.StartOffset, native.EndContainer, native.EndOffset, force)
	}
	c.Update(source)
}

// SetNativeRange writes a native selection. A nil start node clears it.
// Detached nodes are ignored, as is a selection equal to the current one
// unless force is set.
func (c *Controller) SetNativeRange(startNode *html.Node, startOffset int, endNode *html.Node, endOffset int, force bool) {
	if err := c.setNativeRange(startNode, startOffset, endNode, endOffset, force); err != nil {
		c.logger.Warn("setNativeRange: %v", err)
	}
}

func (c *Controller) setNativeRange(startNode *html.Node, startOffset int, endNode *html.Node, endOffset int, force bool) error {
	if startNode == nil {
		c.ClearNativeRange()
		return nil
	}
	if endNode == nil {
		endNode, endOffset = startNode, startOffset
	}
	c.logger.Debug("setNativeRange %p:%d %p:%d", startNode, startOffset, endNode, endOffset)
	if c.root.Parent == nil || startNode.Parent == nil || endNode.Parent == nil {
		return nil
	}

	if !c.HasFocus() {
		c.host.Focus(c.root)
	}
	if cur := c.Normalized(); cur != nil && !force {
		n := cur.Native
		if n.StartContainer == startNode && n.StartOffset == startOffset &&
			n.EndContainer == endNode && n.EndOffset == endOffset {
			return nil
		}
	}

	if dom.IsBreak(startNode) {
		startNode, startOffset = startNode.Parent, dom.ChildIndex(startNode)
	}
	if dom.IsBreak(endNode) {
		endNode, endOffset = endNode.Parent, dom.ChildIndex(endNode)
	}
	return c.host.SetSelection(dom.Range{
		StartContainer: startNode,
		StartOffset:    startOffset,
		EndContainer:   endNode,
		EndOffset:      endOffset,
	})
}

// ClearNativeRange removes the native selection and blurs the root.
func (c *Controller) ClearNativeRange() {
	c.host.RemoveAllRanges()
	c.host.Blur(c.root)
}

// tryRestoreSelection writes a captured selection back when both of its
// boundaries are still inside the root. It reports whether it did.
func (c *Controller) tryRestoreSelection(n *Normalized) bool {
	if !dom.Contains(c.root, n.Start.Node) || !dom.Contains(c.root, n.End.Node) {
		return false
	}
	err := c.setNativeRange(n.Start.Node, n.Start.Offset, n.End.Node, n.End.Offset, false)
	return err == nil
}

// onBeforeUpdate captures the native selection before the tree absorbs
// pending mutations and puts it back once it has.
func (c *Controller) onBeforeUpdate(context.Context, event.Event[events.ScrollBeforeUpdate]) error {
	if !c.HasFocus() {
		return nil
	}
	native := c.Normalized()
	if native == nil || native.Start.Node == c.cursor.TextNode() {
		return nil
	}

	if c.restore != nil {
		_ = c.bus.Unsubscribe(c.restore)
	}
	sub, err := event.Subscribe(c.bus, events.TopicScrollUpdate, func(context.Context, event.Event[events.ScrollUpdate]) error {
		c.restore = nil
		if !c.tryRestoreSelection(native) {
			c.logger.Warn("selection not restored: boundary left the root")
		}
		c.Update(events.SourceSilent)
		return nil
	}, event.Once())
	if err != nil {
		return fmt.Errorf("selection: subscribe: %w", err)
	}
	c.restore = sub
	return nil
}

// onOptimize applies the range a consistency pass asked for.
func (c *Controller) onOptimize(_ context.Context, e event.Event[events.ScrollOptimize]) error {
	r := e.Payload.Range
	if r == nil {
		return nil
	}
	c.SetNativeRange(r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset, false)
	c.Update(events.SourceSilent)
	return nil
}

// CompositionStart suspends synchronization and batches tree updates until
// CompositionEnd.
func (c *Controller) CompositionStart() {
	c.composing = true
	c.tree.BatchStart()
}

// CompositionEnd flushes the batch and, when the cursor placeholder took
// the composed text, restores it and selects the end of the text after
// the host settled.
func (c *Controller) CompositionEnd() {
	c.tree.BatchEnd()
	c.composing = false
	if !c.cursor.Attached() {
		return
	}
	r := c.cursor.Restore()
	if r == nil {
		return
	}
	c.sched.Cancel(c.settle)
	c.settle = c.sched.DeferN(c.deferTicks, func() {
		if c.closed {
			return
		}
		c.SetNativeRange(r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset, false)
	})
}

// PointerDown suspends synchronization while a drag selection is made.
func (c *Controller) PointerDown() {
	c.dragging = true
}

// PointerUp resumes synchronization and reads the settled selection.
func (c *Controller) PointerUp() {
	c.dragging = false
	c.Update(events.SourceUser)
}

// SelectionChanged reacts to a native selection change notification. The
// update runs after the host settled; a newer notification supersedes a
// pending one. Notifications are ignored while composing or dragging.
func (c *Controller) SelectionChanged() {
	if c.composing || c.dragging {
		return
	}
	c.sched.Cancel(c.pending)
	c.pending = c.sched.DeferN(c.deferTicks, func() {
		if c.closed {
			return
		}
		c.Update(events.SourceUser)
	})
}

// Bounds returns the rectangle covering length units from index.
func (c *Controller) Bounds(index, length int) (geometry.Rect, bool) {
	return Bounds(c.tree, c.host, index, length)
}

// ScrollIntoView scrolls the containers around the current selection so
// it is visible and returns the positions written.
//
// The walk starts at the element of the selection's first line, so a
// scrollable editing root counts as a scroll container. Both the top and
// left offsets of every computation are applied.
func (c *Controller) ScrollIntoView() ([]geometry.Computation[*html.Node], error) {
	r := c.lastRange
	if r == nil {
		return nil, nil
	}
	bounds, ok := c.Bounds(r.Index, r.Length)
	if !ok {
		return nil, nil
	}
	limit := c.tree.Length() - 1
	first, _ := c.tree.Line(min(r.Index, limit))
	last := first
	if r.Length > 0 {
		last, _ = c.tree.Line(min(r.Index+r.Length, limit))
	}
	if first == nil || last == nil {
		return nil, nil
	}

	comps, err := geometry.ScrollIntoView[*html.Node](bounds, first.Node(), c.host, c.scroll)
	if err != nil {
		return nil, fmt.Errorf("selection: scroll into view: %w", err)
	}
	for _, comp := range comps {
		c.host.ScrollTo(comp.Element, comp.Top, comp.Left)
	}
	return comps, nil
}
