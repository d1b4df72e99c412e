package widgets

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/ui"
)

// AbsoluteChild pairs a child with its explicit offset from the
// container origin.
type AbsoluteChild[E any] struct {
	Dom    ui.Dom[E]
	Offset matcha.Vec2
}

// Absolute places children at explicit offsets. Its measured size is
// the maximum extent any child reaches.
type Absolute[E any] struct {
	// ChildKey is the reconcile key, empty for positional matching.
	ChildKey string
	Children []AbsoluteChild[E]
}

func (d *Absolute[E]) Key() string { return d.ChildKey }

func (d *Absolute[E]) SetUpdateNotifier(n *ui.Notifier) {
	for _, c := range d.Children {
		c.Dom.SetUpdateNotifier(n)
	}
}

func (d *Absolute[E]) BuildWidgetTree(ctx *ui.Context) ui.Widget[E] {
	w := &absoluteWidget[E]{Node: ui.NewNode("absolute", d.ChildKey)}
	w.apply(ctx, d)
	return w
}

func (d *Absolute[E]) doms() []ui.Dom[E] {
	out := make([]ui.Dom[E], len(d.Children))
	for i, c := range d.Children {
		out[i] = c.Dom
	}
	return out
}

type absoluteWidget[E any] struct {
	ui.Node
	offsets  []matcha.Vec2
	children []ui.Widget[E]
}

func (w *absoluteWidget[E]) apply(ctx *ui.Context, d *Absolute[E]) {
	offsets := make([]matcha.Vec2, len(d.Children))
	for i, c := range d.Children {
		offsets[i] = c.Offset
	}
	if !vecSliceEqual(w.offsets, offsets) {
		w.offsets = offsets
		w.MarkRearrange()
	}
	w.children = ui.ReconcileChildren(ctx, &w.Node, w.children, d.doms())
}

func (w *absoluteWidget[E]) Update(ctx *ui.Context, d ui.Dom[E]) error {
	ad, ok := d.(*Absolute[E])
	if !ok {
		return ui.ErrTypeMismatch
	}
	w.apply(ctx, ad)
	return nil
}

func (w *absoluteWidget[E]) HandleEvent(ctx *ui.Context, ev input.Event, size matcha.Size) []E {
	list := w.Arrange(ctx, size)
	var out []E
	for i, ch := range w.children {
		local, ok := list[i].TransformEvent(ev)
		if !ok {
			continue
		}
		out = append(out, ch.HandleEvent(ctx, local, list[i].Size)...)
	}
	return out
}

func (w *absoluteWidget[E]) Measure(ctx *ui.Context, c ui.Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	var extent matcha.Size
	for i, ch := range w.children {
		off := w.offsets[i]
		s := ch.Measure(ctx, ui.Constraints{MaxW: c.MaxW, MaxH: c.MaxH}.Shrink(off.X, off.Y))
		if off.X+s.W > extent.W {
			extent.W = off.X + s.W
		}
		if off.Y+s.H > extent.H {
			extent.H = off.Y + s.H
		}
	}
	extent = c.Clamp(extent)
	w.StoreMeasure(c, extent)
	return extent
}

func (w *absoluteWidget[E]) Arrange(ctx *ui.Context, final matcha.Size) []ui.Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	list := make([]ui.Arrangement, len(w.children))
	for i, ch := range w.children {
		off := w.offsets[i]
		s := ch.Measure(ctx, ui.Constraints{MaxW: final.W, MaxH: final.H}.Shrink(off.X, off.Y))
		list[i] = ui.NewArrangement(s, matcha.Translate(off.X, off.Y))
	}
	w.StoreArrange(final, list)
	return list
}

func (w *absoluteWidget[E]) Render(ctx *ui.Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	list := w.Arrange(ctx, final)
	for i, ch := range w.children {
		ch.Render(ctx, b, list[i].Size, tf.Mul(list[i].Affine))
	}
	w.ClearDirty()
}

func (w *absoluteWidget[E]) Release(ctx *ui.Context) {
	for _, ch := range w.children {
		ch.Release(ctx)
	}
}

func (w *absoluteWidget[E]) LayoutNode() *ui.Node { return &w.Node }

func vecSliceEqual(a, b []matcha.Vec2) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
