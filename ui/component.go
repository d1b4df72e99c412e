package ui

import (
	"sync"
	"sync/atomic"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
)

// ComponentFns are the user callbacks of an Elm-style component. View
// is required; the others may be nil.
//
// All callbacks run inline on the UI task and must not block. Update
// and Input receive exclusive model access, Event and View shared
// access.
type ComponentFns[M, Msg, In, Out any] struct {
	// Update applies an application message to the model.
	Update func(msg Msg, model *M)

	// Input applies a device input event to the model.
	Input func(ev input.Event, model *M)

	// Event maps an event emitted by the component's subtree to an
	// optional outer event. Pure: it must not mutate the model.
	Event func(inner In, model *M) (Out, bool)

	// View builds the declarative subtree from the model.
	View func(model *M) Dom[In]
}

// Component owns a model and rebuilds its subtree when the model
// changes. Mutation goes through guarded sections; releasing an
// exclusive section raises the dirty flag and fires the notifier, so
// the scheduler reconciles the component's view on the next frame.
//
// The dirty flag starts raised so the first frame builds the view,
// and is lowered just before View runs.
//
// Component is safe for concurrent use; concurrent updates serialize
// on the model lock.
type Component[M, Msg, In, Out any] struct {
	mu       sync.RWMutex
	model    M
	dirty    atomic.Bool
	notifier atomic.Pointer[Notifier]
	fns      ComponentFns[M, Msg, In, Out]
}

// NewComponent creates a component owning the given model. Panics if
// fns.View is nil.
func NewComponent[M, Msg, In, Out any](model M, fns ComponentFns[M, Msg, In, Out]) *Component[M, Msg, In, Out] {
	if fns.View == nil {
		panic("ui: component View must not be nil")
	}
	c := &Component[M, Msg, In, Out]{model: model, fns: fns}
	c.dirty.Store(true)
	return c
}

// Update applies a message under exclusive model access.
func (c *Component[M, Msg, In, Out]) Update(msg Msg) {
	if c.fns.Update == nil {
		return
	}
	c.mu.Lock()
	c.fns.Update(msg, &c.model)
	c.mu.Unlock()
	c.raise()
}

// PushInput applies a device input event under exclusive model
// access.
func (c *Component[M, Msg, In, Out]) PushInput(ev input.Event) {
	if c.fns.Input == nil {
		return
	}
	c.mu.Lock()
	c.fns.Input(ev, &c.model)
	c.mu.Unlock()
	c.raise()
}

// RecvInnerEvent maps a subtree event to an optional outer event
// under shared model access. Does not mutate.
func (c *Component[M, Msg, In, Out]) RecvInnerEvent(inner In) (Out, bool) {
	if c.fns.Event == nil {
		var zero Out
		return zero, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fns.Event(inner, &c.model)
}

// Write runs f under exclusive model access and raises the dirty
// flag.
func (c *Component[M, Msg, In, Out]) Write(f func(model *M)) {
	c.mu.Lock()
	f(&c.model)
	c.mu.Unlock()
	c.raise()
}

// Read runs f under shared model access.
func (c *Component[M, Msg, In, Out]) Read(f func(model *M)) {
	c.mu.RLock()
	f(&c.model)
	c.mu.RUnlock()
}

// Dirty reports whether the model changed since the last view.
func (c *Component[M, Msg, In, Out]) Dirty() bool {
	return c.dirty.Load()
}

// Dom returns the declarative node embedding this component in an
// outer tree.
func (c *Component[M, Msg, In, Out]) Dom() Dom[Out] {
	return &componentDom[M, Msg, In, Out]{cell: c}
}

func (c *Component[M, Msg, In, Out]) raise() {
	c.dirty.Store(true)
	if n := c.notifier.Load(); n != nil {
		n.Notify()
	}
}

// viewDom lowers the dirty flag, builds the subtree description under
// shared access, and forwards the notifier into it.
func (c *Component[M, Msg, In, Out]) viewDom() Dom[In] {
	c.dirty.Store(false)
	c.mu.RLock()
	d := c.fns.View(&c.model)
	c.mu.RUnlock()
	if n := c.notifier.Load(); n != nil {
		d.SetUpdateNotifier(n)
	}
	return d
}

// componentDom is the Dom decorator wrapping a component cell.
type componentDom[M, Msg, In, Out any] struct {
	cell *Component[M, Msg, In, Out]
}

func (d *componentDom[M, Msg, In, Out]) Key() string { return "" }

func (d *componentDom[M, Msg, In, Out]) SetUpdateNotifier(n *Notifier) {
	d.cell.notifier.Store(n)
}

func (d *componentDom[M, Msg, In, Out]) BuildWidgetTree(ctx *Context) Widget[Out] {
	w := &componentWidget[M, Msg, In, Out]{
		Node: NewNode("component", ""),
		cell: d.cell,
	}
	w.inner = d.cell.viewDom().BuildWidgetTree(ctx)
	w.inner.LayoutNode().SetParent(&w.Node)
	return w
}

// componentWidget sits between the outer tree and the component's
// subtree, translating inner events to outer ones.
type componentWidget[M, Msg, In, Out any] struct {
	Node
	cell  *Component[M, Msg, In, Out]
	inner Widget[In]
}

func (w *componentWidget[M, Msg, In, Out]) Update(ctx *Context, d Dom[Out]) error {
	cd, ok := d.(*componentDom[M, Msg, In, Out])
	if !ok {
		return ErrTypeMismatch
	}
	if cd.cell != w.cell {
		// A different cell of the same shape: adopt it and rebuild
		// the subtree from its model.
		w.cell = cd.cell
		w.inner.Release(ctx)
		w.inner = w.cell.viewDom().BuildWidgetTree(ctx)
		w.inner.LayoutNode().SetParent(&w.Node)
		w.MarkRearrange()
		return nil
	}
	if w.cell.dirty.Load() {
		w.inner = ReconcileChild(ctx, &w.Node, w.inner, w.cell.viewDom())
	}
	return nil
}

func (w *componentWidget[M, Msg, In, Out]) HandleEvent(ctx *Context, ev input.Event, size matcha.Size) []Out {
	w.cell.PushInput(ev)
	var out []Out
	for _, inner := range w.inner.HandleEvent(ctx, ev, size) {
		if o, ok := w.cell.RecvInnerEvent(inner); ok {
			out = append(out, o)
		}
	}
	return out
}

func (w *componentWidget[M, Msg, In, Out]) Measure(ctx *Context, c Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	s := w.inner.Measure(ctx, c)
	w.StoreMeasure(c, s)
	return s
}

func (w *componentWidget[M, Msg, In, Out]) Arrange(ctx *Context, final matcha.Size) []Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	list := []Arrangement{NewArrangement(final, matcha.Identity())}
	w.StoreArrange(final, list)
	return list
}

func (w *componentWidget[M, Msg, In, Out]) Render(ctx *Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	w.inner.Render(ctx, b, final, tf)
	w.ClearDirty()
}

func (w *componentWidget[M, Msg, In, Out]) Release(ctx *Context) {
	w.inner.Release(ctx)
}

func (w *componentWidget[M, Msg, In, Out]) LayoutNode() *Node { return &w.Node }
