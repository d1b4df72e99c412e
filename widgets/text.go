package widgets

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/text"
	"github.com/helgev-traP/matcha/ui"
)

// Text is a single-line text leaf shaped with the context's default
// font. The shaped run and the glyph bitmaps come from the shared
// caches, so identical labels across the tree cost one shaping and one
// rasterization each.
type Text[E any] struct {
	// ChildKey is the reconcile key, empty for positional matching.
	ChildKey string

	Content string

	// FontSize in logical pixels; zero uses the configured default.
	FontSize float64

	Color matcha.Color

	Direction text.Direction
}

func (d *Text[E]) Key() string { return d.ChildKey }

func (d *Text[E]) SetUpdateNotifier(*ui.Notifier) {}

func (d *Text[E]) BuildWidgetTree(ctx *ui.Context) ui.Widget[E] {
	w := &textWidget[E]{Node: ui.NewNode("text", d.ChildKey)}
	w.apply(ctx, d)
	return w
}

type textWidget[E any] struct {
	ui.Node
	content string
	size    float64
	color   matcha.Color
	dir     text.Direction

	shaped bool
	run    []text.ShapedGlyph
	width  float64
	line   text.LineMetrics
}

func (w *textWidget[E]) apply(ctx *ui.Context, d *Text[E]) {
	size := d.FontSize
	if size <= 0 {
		size = ctx.Config().FontSize
	}
	if d.Content != w.content || size != w.size || d.Direction != w.dir {
		w.content = d.Content
		w.size = size
		w.dir = d.Direction
		w.shaped = false
		w.MarkRearrange()
	}
	if d.Color != w.color {
		w.color = d.Color
		w.MarkRedraw()
	}
}

func (w *textWidget[E]) Update(ctx *ui.Context, d ui.Dom[E]) error {
	td, ok := d.(*Text[E])
	if !ok {
		return ui.ErrTypeMismatch
	}
	w.apply(ctx, td)
	return nil
}

func (w *textWidget[E]) HandleEvent(*ui.Context, input.Event, matcha.Size) []E { return nil }

// shape runs the cached shaper and line metrics once per content
// change.
func (w *textWidget[E]) shape(ctx *ui.Context) {
	if w.shaped {
		return
	}
	source := ctx.Font()
	w.run = ctx.Runs().Shape(w.content, source, w.size, w.dir)
	w.width = 0
	if n := len(w.run); n > 0 {
		last := w.run[n-1]
		w.width = last.X + last.XAdvance
	}
	lm, err := source.Metrics(w.size)
	if err != nil {
		matcha.Logger().Warn("widgets: font metrics failed", "err", err)
	}
	w.line = lm
	w.shaped = true
}

func (w *textWidget[E]) Measure(ctx *ui.Context, c ui.Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	w.shape(ctx)
	s := c.Clamp(matcha.Size{W: w.width, H: w.line.Height})
	w.StoreMeasure(c, s)
	return s
}

func (w *textWidget[E]) Arrange(ctx *ui.Context, final matcha.Size) []ui.Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	w.StoreArrange(final, nil)
	return nil
}

func (w *textWidget[E]) Render(ctx *ui.Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	w.shape(ctx)
	source := ctx.Font()
	glyphs := ctx.Glyphs()
	sizeQ := text.QuantizeSize(w.size)
	hash := source.Hash()

	placed := make([]render.PlacedGlyph, 0, len(w.run))
	for _, g := range w.run {
		glyph, err := glyphs.GetOrCreate(text.GlyphKey{Ch: g.Rune, Size: sizeQ, FontHash: hash}, source)
		if err != nil {
			matcha.Logger().Warn("widgets: glyph rasterization failed",
				"rune", string(g.Rune), "err", err)
			continue
		}
		if !glyph.Region.Valid() {
			// Whitespace advances the pen without a bitmap.
			continue
		}
		placed = append(placed, render.PlacedGlyph{
			Region: glyph.Region,
			X:      g.X + glyph.Metrics.OffsetX,
			Y:      w.line.Ascent + g.Y + glyph.Metrics.OffsetY,
			W:      float64(glyph.Metrics.Width),
			H:      float64(glyph.Metrics.Height),
		})
	}
	b.GlyphBatch(placed, w.color, tf)
	w.ClearDirty()
}

func (w *textWidget[E]) Release(*ui.Context) {}

func (w *textWidget[E]) LayoutNode() *ui.Node { return &w.Node }
