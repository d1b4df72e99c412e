package widgets

import (
	"math"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/ui"
)

// Track is one column or row template: either a fixed pixel extent or
// a weight claiming a share of the leftover space.
type Track struct {
	fixed float64
	grow  float64
}

// Fixed returns a track with a fixed pixel extent.
func Fixed(px float64) Track { return Track{fixed: px} }

// Grow returns a track claiming a weighted share of the free space.
func Grow(weight float64) Track { return Track{grow: weight} }

// GridItem places a child over a rectangle of tracks. Spans are
// inclusive on both ends; a span over several tracks merges the tracks
// and the gaps between them.
type GridItem[E any] struct {
	Dom              ui.Dom[E]
	ColStart, ColEnd int
	RowStart, RowEnd int
}

// Grid places children on a track grid.
type Grid[E any] struct {
	// ChildKey is the reconcile key, empty for positional matching.
	ChildKey string
	Columns  []Track
	Rows     []Track
	// GapCol and GapRow are reserved after every track, so the end
	// edge keeps one trailing gap of padding.
	GapCol float64
	GapRow float64
	Items  []GridItem[E]
}

func (d *Grid[E]) Key() string { return d.ChildKey }

func (d *Grid[E]) SetUpdateNotifier(n *ui.Notifier) {
	for _, it := range d.Items {
		it.Dom.SetUpdateNotifier(n)
	}
}

func (d *Grid[E]) BuildWidgetTree(ctx *ui.Context) ui.Widget[E] {
	w := &gridWidget[E]{Node: ui.NewNode("grid", d.ChildKey)}
	w.apply(ctx, d)
	return w
}

func (d *Grid[E]) doms() []ui.Dom[E] {
	out := make([]ui.Dom[E], len(d.Items))
	for i, it := range d.Items {
		out[i] = it.Dom
	}
	return out
}

type gridSpan struct {
	colStart, colEnd int
	rowStart, rowEnd int
}

type gridWidget[E any] struct {
	ui.Node
	cols     []Track
	rows     []Track
	gapCol   float64
	gapRow   float64
	spans    []gridSpan
	children []ui.Widget[E]
}

func (w *gridWidget[E]) apply(ctx *ui.Context, d *Grid[E]) {
	if !trackSliceEqual(w.cols, d.Columns) || !trackSliceEqual(w.rows, d.Rows) ||
		w.gapCol != d.GapCol || w.gapRow != d.GapRow {
		w.cols = append(w.cols[:0], d.Columns...)
		w.rows = append(w.rows[:0], d.Rows...)
		w.gapCol = d.GapCol
		w.gapRow = d.GapRow
		w.MarkRearrange()
	}
	spans := make([]gridSpan, len(d.Items))
	for i, it := range d.Items {
		spans[i] = gridSpan{
			colStart: clampIndex(it.ColStart, len(d.Columns)),
			colEnd:   clampIndex(it.ColEnd, len(d.Columns)),
			rowStart: clampIndex(it.RowStart, len(d.Rows)),
			rowEnd:   clampIndex(it.RowEnd, len(d.Rows)),
		}
	}
	if !spanSliceEqual(w.spans, spans) {
		w.spans = spans
		w.MarkRearrange()
	}
	w.children = ui.ReconcileChildren(ctx, &w.Node, w.children, d.doms())
}

func (w *gridWidget[E]) Update(ctx *ui.Context, d ui.Dom[E]) error {
	gd, ok := d.(*Grid[E])
	if !ok {
		return ui.ErrTypeMismatch
	}
	w.apply(ctx, gd)
	return nil
}

func (w *gridWidget[E]) HandleEvent(ctx *ui.Context, ev input.Event, size matcha.Size) []E {
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

func (w *gridWidget[E]) Measure(ctx *ui.Context, c ui.Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	size := matcha.Size{
		W: measureTracks(w.cols, w.gapCol, c.MaxW),
		H: measureTracks(w.rows, w.gapRow, c.MaxH),
	}
	colO, colS := resolveTracks(w.cols, w.gapCol, size.W)
	rowO, rowS := resolveTracks(w.rows, w.gapRow, size.H)
	for i, ch := range w.children {
		cell := w.cellRect(i, colO, colS, rowO, rowS)
		ch.Measure(ctx, ui.Constraints{MaxW: cell.W, MaxH: cell.H})
	}
	size = c.Clamp(size)
	w.StoreMeasure(c, size)
	return size
}

func (w *gridWidget[E]) Arrange(ctx *ui.Context, final matcha.Size) []ui.Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	colO, colS := resolveTracks(w.cols, w.gapCol, final.W)
	rowO, rowS := resolveTracks(w.rows, w.gapRow, final.H)
	list := make([]ui.Arrangement, len(w.children))
	for i, ch := range w.children {
		cell := w.cellRect(i, colO, colS, rowO, rowS)
		ch.Measure(ctx, ui.Constraints{MaxW: cell.W, MaxH: cell.H})
		sp := w.spans[i]
		list[i] = ui.NewArrangement(
			matcha.Size{W: cell.W, H: cell.H},
			matcha.Translate(colO[sp.colStart], rowO[sp.rowStart]),
		)
	}
	w.StoreArrange(final, list)
	return list
}

// cellRect returns the spanned extent of item i under resolved tracks.
func (w *gridWidget[E]) cellRect(i int, colO, colS, rowO, rowS []float64) matcha.Size {
	sp := w.spans[i]
	return matcha.Size{
		W: spanExtent(colO, colS, sp.colStart, sp.colEnd),
		H: spanExtent(rowO, rowS, sp.rowStart, sp.rowEnd),
	}
}

func (w *gridWidget[E]) Render(ctx *ui.Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	list := w.Arrange(ctx, final)
	for i, ch := range w.children {
		ch.Render(ctx, b, list[i].Size, tf.Mul(list[i].Affine))
	}
	w.ClearDirty()
}

func (w *gridWidget[E]) Release(ctx *ui.Context) {
	for _, ch := range w.children {
		ch.Release(ctx)
	}
}

func (w *gridWidget[E]) LayoutNode() *ui.Node { return &w.Node }

// resolveTracks lays tracks along one axis: fixed tracks keep their
// extent, grow tracks split what remains after fixed extents and one
// gap per track.
func resolveTracks(tracks []Track, gap, size float64) (origins, sizes []float64) {
	var fixed, grow float64
	for _, t := range tracks {
		fixed += t.fixed
		grow += t.grow
	}
	free := size - fixed - gap*float64(len(tracks))
	if free < 0 {
		free = 0
	}
	origins = make([]float64, len(tracks))
	sizes = make([]float64, len(tracks))
	pos := 0.0
	for i, t := range tracks {
		extent := t.fixed
		if t.grow > 0 && grow > 0 {
			extent = free * t.grow / grow
		}
		origins[i] = pos
		sizes[i] = extent
		pos += extent + gap
	}
	return origins, sizes
}

// measureTracks returns the preferred extent of an axis: grow tracks
// fill a bounded axis, otherwise only the fixed extents count.
func measureTracks(tracks []Track, gap, maxExtent float64) float64 {
	var fixed, grow float64
	for _, t := range tracks {
		fixed += t.fixed
		grow += t.grow
	}
	if grow > 0 && !math.IsInf(maxExtent, 1) {
		return maxExtent
	}
	return fixed + gap*float64(len(tracks))
}

func spanExtent(origins, sizes []float64, start, end int) float64 {
	if len(origins) == 0 {
		return 0
	}
	if end < start {
		end = start
	}
	return origins[end] + sizes[end] - origins[start]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n && n > 0 {
		return n - 1
	}
	return i
}

func trackSliceEqual(a, b []Track) bool {
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

func spanSliceEqual(a, b []gridSpan) bool {
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
