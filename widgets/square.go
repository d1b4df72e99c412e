package widgets

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/ui"
)

// Square is a fixed-size colored rectangle leaf.
type Square[E any] struct {
	// ChildKey is the reconcile key, empty for positional matching.
	ChildKey string
	Size     matcha.Size
	Color    matcha.Color
}

func (d *Square[E]) Key() string { return d.ChildKey }

func (d *Square[E]) SetUpdateNotifier(*ui.Notifier) {}

func (d *Square[E]) BuildWidgetTree(ctx *ui.Context) ui.Widget[E] {
	return &squareWidget[E]{
		Node:  ui.NewNode("square", d.ChildKey),
		size:  d.Size,
		color: d.Color,
	}
}

type squareWidget[E any] struct {
	ui.Node
	size  matcha.Size
	color matcha.Color
}

func (w *squareWidget[E]) Update(ctx *ui.Context, d ui.Dom[E]) error {
	sd, ok := d.(*Square[E])
	if !ok {
		return ui.ErrTypeMismatch
	}
	if sd.Size != w.size {
		w.size = sd.Size
		w.MarkRearrange()
	}
	if sd.Color != w.color {
		w.color = sd.Color
		w.MarkRedraw()
	}
	return nil
}

func (w *squareWidget[E]) HandleEvent(*ui.Context, input.Event, matcha.Size) []E { return nil }

func (w *squareWidget[E]) Measure(ctx *ui.Context, c ui.Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	s := c.Clamp(w.size)
	w.StoreMeasure(c, s)
	return s
}

func (w *squareWidget[E]) Arrange(ctx *ui.Context, final matcha.Size) []ui.Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	w.StoreArrange(final, nil)
	return nil
}

func (w *squareWidget[E]) Render(ctx *ui.Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	b.ColoredQuad(final, w.color, tf)
	w.ClearDirty()
}

func (w *squareWidget[E]) Release(*ui.Context) {}

func (w *squareWidget[E]) LayoutNode() *ui.Node { return &w.Node }
