package ui

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
)

// Test doubles: a fixed-size leaf and a vertical stack container,
// both emitting string events.

type leafDom struct {
	key     string
	variant string
	size    matcha.Size
}

func (d *leafDom) Key() string                { return d.key }
func (d *leafDom) SetUpdateNotifier(*Notifier) {}

func (d *leafDom) BuildWidgetTree(ctx *Context) Widget[string] {
	return &leafWidget{
		Node:    NewNode("leaf-"+d.variant, d.key),
		variant: d.variant,
		size:    d.size,
	}
}

type leafWidget struct {
	Node
	variant  string
	size     matcha.Size
	events   []input.Event
	released bool
	updates  int
}

func (w *leafWidget) Update(ctx *Context, d Dom[string]) error {
	ld, ok := d.(*leafDom)
	if !ok || ld.variant != w.variant {
		return ErrTypeMismatch
	}
	w.updates++
	if ld.size != w.size {
		w.size = ld.size
		w.MarkRearrange()
	}
	return nil
}

func (w *leafWidget) HandleEvent(ctx *Context, ev input.Event, size matcha.Size) []string {
	w.events = append(w.events, ev)
	if c, ok := ev.(input.Click); ok && c.State == input.Pressed {
		return []string{"press:" + w.variant}
	}
	return nil
}

func (w *leafWidget) Measure(ctx *Context, c Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	s := c.Clamp(w.size)
	w.StoreMeasure(c, s)
	return s
}

func (w *leafWidget) Arrange(ctx *Context, final matcha.Size) []Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	w.StoreArrange(final, nil)
	return nil
}

func (w *leafWidget) Render(ctx *Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	b.ColoredQuad(final, matcha.White, tf)
	w.ClearDirty()
}

func (w *leafWidget) Release(ctx *Context) { w.released = true }

func (w *leafWidget) LayoutNode() *Node { return &w.Node }

type stackDom struct {
	key      string
	children []Dom[string]
}

func (d *stackDom) Key() string { return d.key }

func (d *stackDom) SetUpdateNotifier(n *Notifier) {
	for _, c := range d.children {
		c.SetUpdateNotifier(n)
	}
}

func (d *stackDom) BuildWidgetTree(ctx *Context) Widget[string] {
	w := &stackWidget{Node: NewNode("stack", d.key)}
	w.children = ReconcileChildren(ctx, &w.Node, nil, d.children)
	return w
}

type stackWidget struct {
	Node
	children []Widget[string]
}

func (w *stackWidget) Update(ctx *Context, d Dom[string]) error {
	sd, ok := d.(*stackDom)
	if !ok {
		return ErrTypeMismatch
	}
	w.children = ReconcileChildren(ctx, &w.Node, w.children, sd.children)
	return nil
}

func (w *stackWidget) HandleEvent(ctx *Context, ev input.Event, size matcha.Size) []string {
	list := w.Arrange(ctx, size)
	var out []string
	for i, child := range w.children {
		local, ok := list[i].TransformEvent(ev)
		if !ok {
			continue
		}
		out = append(out, child.HandleEvent(ctx, local, list[i].Size)...)
	}
	return out
}

func (w *stackWidget) Measure(ctx *Context, c Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	var size matcha.Size
	child := Constraints{MaxW: c.MaxW, MaxH: c.MaxH}
	for _, ch := range w.children {
		s := ch.Measure(ctx, child)
		if s.W > size.W {
			size.W = s.W
		}
		size.H += s.H
	}
	size = c.Clamp(size)
	w.StoreMeasure(c, size)
	return size
}

func (w *stackWidget) Arrange(ctx *Context, final matcha.Size) []Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	list := make([]Arrangement, len(w.children))
	y := 0.0
	for i, ch := range w.children {
		s := ch.Measure(ctx, Constraints{MaxW: final.W, MaxH: final.H})
		list[i] = NewArrangement(s, matcha.Translate(0, y))
		y += s.H
	}
	w.StoreArrange(final, list)
	return list
}

func (w *stackWidget) Render(ctx *Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	list := w.Arrange(ctx, final)
	for i, ch := range w.children {
		ch.Render(ctx, b, list[i].Size, tf.Mul(list[i].Affine))
	}
	w.ClearDirty()
}

func (w *stackWidget) Release(ctx *Context) {
	for _, ch := range w.children {
		ch.Release(ctx)
	}
}

func (w *stackWidget) LayoutNode() *Node { return &w.Node }

// testContext builds a Context with live resources for layout tests.
func testContext() *Context {
	return NewContext(ContextResources{Config: matcha.DefaultConfig()})
}
