package widgets

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/ui"
)

// Insets are per-edge thicknesses in logical pixels.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// UniformInsets returns equal insets on all four edges.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

func (i Insets) horizontal() float64 { return i.Left + i.Right }
func (i Insets) vertical() float64   { return i.Top + i.Bottom }

// BoxSizing decides whether a container's declared size includes its
// border and padding.
type BoxSizing int

const (
	// ContentBox declares the content extent; border and padding add
	// to the rendered size.
	ContentBox BoxSizing = iota
	// BorderBox declares the border-box extent; border and padding
	// carve into the content.
	BorderBox
)

// Container wraps a single child in a styled box: margin outside,
// border in the middle, padding inside.
type Container[E any] struct {
	// ChildKey is the reconcile key, empty for positional matching.
	ChildKey string

	Margin  Insets
	Border  Insets
	Padding Insets

	BoxSizing BoxSizing

	// Width and Height fix the declared extent when positive; zero
	// leaves the axis sized by the child.
	Width, Height float64

	// Background fills the border box when non-zero. BorderColor
	// paints the border edges when non-zero.
	Background  matcha.Color
	BorderColor matcha.Color

	// Child may be nil for a purely decorative box.
	Child ui.Dom[E]
}

func (d *Container[E]) Key() string { return d.ChildKey }

func (d *Container[E]) SetUpdateNotifier(n *ui.Notifier) {
	if d.Child != nil {
		d.Child.SetUpdateNotifier(n)
	}
}

func (d *Container[E]) BuildWidgetTree(ctx *ui.Context) ui.Widget[E] {
	w := &containerWidget[E]{Node: ui.NewNode("container", d.ChildKey)}
	w.apply(ctx, d)
	return w
}

type containerStyle struct {
	margin, border, padding Insets
	sizing                  BoxSizing
	width, height           float64
	background, borderColor matcha.Color
}

type containerWidget[E any] struct {
	ui.Node
	style containerStyle
	child ui.Widget[E]
}

func (w *containerWidget[E]) apply(ctx *ui.Context, d *Container[E]) {
	style := containerStyle{
		margin: d.Margin, border: d.Border, padding: d.Padding,
		sizing: d.BoxSizing, width: d.Width, height: d.Height,
		background: d.Background, borderColor: d.BorderColor,
	}
	if style != w.style {
		layout := style
		layout.background = w.style.background
		layout.borderColor = w.style.borderColor
		if layout != w.style {
			w.MarkRearrange()
		} else {
			w.MarkRedraw()
		}
		w.style = style
	}
	if d.Child == nil {
		if w.child != nil {
			w.child.Release(ctx)
			w.child = nil
			w.MarkRearrange()
		}
		return
	}
	w.child = ui.ReconcileChild(ctx, &w.Node, w.child, d.Child)
}

func (w *containerWidget[E]) Update(ctx *ui.Context, d ui.Dom[E]) error {
	cd, ok := d.(*Container[E])
	if !ok {
		return ui.ErrTypeMismatch
	}
	w.apply(ctx, cd)
	return nil
}

// chrome returns the total non-content thickness per axis.
func (w *containerWidget[E]) chrome() (hor, ver float64) {
	s := &w.style
	return s.margin.horizontal() + s.border.horizontal() + s.padding.horizontal(),
		s.margin.vertical() + s.border.vertical() + s.padding.vertical()
}

// declaredContent converts a declared extent to the content extent for
// the active box sizing. Returns ok=false when the axis is auto.
func (w *containerWidget[E]) declaredContent(declared, borderPad float64) (float64, bool) {
	if declared <= 0 {
		return 0, false
	}
	if w.style.sizing == BorderBox {
		return max(0, declared-borderPad), true
	}
	return declared, true
}

func (w *containerWidget[E]) Measure(ctx *ui.Context, c ui.Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	s := &w.style
	chromeW, chromeH := w.chrome()
	borderPadW := s.border.horizontal() + s.padding.horizontal()
	borderPadH := s.border.vertical() + s.padding.vertical()

	child := c.Shrink(chromeW, chromeH)
	contentW, fixedW := w.declaredContent(s.width, borderPadW)
	contentH, fixedH := w.declaredContent(s.height, borderPadH)
	if fixedW {
		child.MinW, child.MaxW = contentW, contentW
	}
	if fixedH {
		child.MinH, child.MaxH = contentH, contentH
	}

	var inner matcha.Size
	if w.child != nil {
		inner = w.child.Measure(ctx, child)
	} else {
		inner = child.Clamp(matcha.Size{})
	}
	if fixedW {
		inner.W = contentW
	}
	if fixedH {
		inner.H = contentH
	}
	out := c.Clamp(matcha.Size{W: inner.W + chromeW, H: inner.H + chromeH})
	w.StoreMeasure(c, out)
	return out
}

func (w *containerWidget[E]) Arrange(ctx *ui.Context, final matcha.Size) []ui.Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	var list []ui.Arrangement
	if w.child != nil {
		s := &w.style
		chromeW, chromeH := w.chrome()
		content := matcha.Size{
			W: max(0, final.W-chromeW),
			H: max(0, final.H-chromeH),
		}
		origin := matcha.Translate(
			s.margin.Left+s.border.Left+s.padding.Left,
			s.margin.Top+s.border.Top+s.padding.Top,
		)
		list = []ui.Arrangement{ui.NewArrangement(content, origin)}
	}
	w.StoreArrange(final, list)
	return list
}

func (w *containerWidget[E]) HandleEvent(ctx *ui.Context, ev input.Event, size matcha.Size) []E {
	if w.child == nil {
		return nil
	}
	list := w.Arrange(ctx, size)
	local, ok := list[0].TransformEvent(ev)
	if !ok {
		return nil
	}
	return w.child.HandleEvent(ctx, local, list[0].Size)
}

func (w *containerWidget[E]) Render(ctx *ui.Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	s := &w.style
	boxW := max(0, final.W-s.margin.horizontal())
	boxH := max(0, final.H-s.margin.vertical())
	boxTf := tf.Mul(matcha.Translate(s.margin.Left, s.margin.Top))

	if s.background != (matcha.Color{}) {
		b.ColoredQuad(matcha.Size{W: boxW, H: boxH}, s.background, boxTf)
	}
	if s.borderColor != (matcha.Color{}) {
		w.renderBorder(b, boxW, boxH, boxTf)
	}

	if w.child != nil {
		list := w.Arrange(ctx, final)
		w.child.Render(ctx, b, list[0].Size, tf.Mul(list[0].Affine))
	}
	w.ClearDirty()
}

// renderBorder draws the four border edges as quads inside the border
// box.
func (w *containerWidget[E]) renderBorder(b *render.Builder, boxW, boxH float64, boxTf matcha.Affine) {
	s := &w.style
	col := s.borderColor
	if s.border.Top > 0 {
		b.ColoredQuad(matcha.Size{W: boxW, H: s.border.Top}, col, boxTf)
	}
	if s.border.Bottom > 0 {
		b.ColoredQuad(matcha.Size{W: boxW, H: s.border.Bottom}, col,
			boxTf.Mul(matcha.Translate(0, boxH-s.border.Bottom)))
	}
	if s.border.Left > 0 {
		b.ColoredQuad(matcha.Size{W: s.border.Left, H: boxH - s.border.Top - s.border.Bottom}, col,
			boxTf.Mul(matcha.Translate(0, s.border.Top)))
	}
	if s.border.Right > 0 {
		b.ColoredQuad(matcha.Size{W: s.border.Right, H: boxH - s.border.Top - s.border.Bottom}, col,
			boxTf.Mul(matcha.Translate(boxW-s.border.Right, s.border.Top)))
	}
}

func (w *containerWidget[E]) Release(ctx *ui.Context) {
	if w.child != nil {
		w.child.Release(ctx)
	}
}

func (w *containerWidget[E]) LayoutNode() *ui.Node { return &w.Node }
