package widgets

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/ui"
)

// Axis selects a linear container's main axis.
type Axis int

const (
	// Horizontal packs children left to right.
	Horizontal Axis = iota
	// Vertical packs children top to bottom.
	Vertical
)

// Justify selects how a linear container distributes free main-axis
// space. Children with a positive grow weight override justification
// by claiming the free space themselves.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align selects cross-axis placement of each child.
type Align int

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenter
)

// LinearChild pairs a child with its grow weight.
type LinearChild[E any] struct {
	Dom ui.Dom[E]
	// Grow claims a proportional share of the free main-axis space
	// when positive.
	Grow float64
}

// Linear packs children along one axis with a fixed gap between
// neighbors.
type Linear[E any] struct {
	// ChildKey is the reconcile key, empty for positional matching.
	ChildKey string
	Axis     Axis
	Justify  Justify
	Align    Align
	// Gap is the main-axis spacing between adjacent children.
	Gap      float64
	Children []LinearChild[E]
}

// Row builds a horizontal container around the given children.
func Row[E any](children ...ui.Dom[E]) *Linear[E] {
	return linearOf[E](Horizontal, children)
}

// Column builds a vertical container around the given children.
func Column[E any](children ...ui.Dom[E]) *Linear[E] {
	return linearOf[E](Vertical, children)
}

func linearOf[E any](axis Axis, children []ui.Dom[E]) *Linear[E] {
	l := &Linear[E]{Axis: axis, Children: make([]LinearChild[E], len(children))}
	for i, c := range children {
		l.Children[i] = LinearChild[E]{Dom: c}
	}
	return l
}

func (d *Linear[E]) Key() string { return d.ChildKey }

func (d *Linear[E]) SetUpdateNotifier(n *ui.Notifier) {
	for _, c := range d.Children {
		c.Dom.SetUpdateNotifier(n)
	}
}

func (d *Linear[E]) BuildWidgetTree(ctx *ui.Context) ui.Widget[E] {
	w := &linearWidget[E]{Node: ui.NewNode("linear", d.ChildKey)}
	w.apply(ctx, d)
	return w
}

func (d *Linear[E]) doms() []ui.Dom[E] {
	out := make([]ui.Dom[E], len(d.Children))
	for i, c := range d.Children {
		out[i] = c.Dom
	}
	return out
}

type linearWidget[E any] struct {
	ui.Node
	axis     Axis
	justify  Justify
	align    Align
	gap      float64
	grows    []float64
	children []ui.Widget[E]
}

func (w *linearWidget[E]) apply(ctx *ui.Context, d *Linear[E]) {
	if d.Axis != w.axis || d.Justify != w.justify || d.Align != w.align || d.Gap != w.gap {
		w.axis = d.Axis
		w.justify = d.Justify
		w.align = d.Align
		w.gap = d.Gap
		w.MarkRearrange()
	}
	grows := make([]float64, len(d.Children))
	for i, c := range d.Children {
		grows[i] = c.Grow
	}
	if !growSliceEqual(w.grows, grows) {
		w.grows = grows
		w.MarkRearrange()
	}
	w.children = ui.ReconcileChildren(ctx, &w.Node, w.children, d.doms())
}

func growSliceEqual(a, b []float64) bool {
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

func (w *linearWidget[E]) Update(ctx *ui.Context, d ui.Dom[E]) error {
	ld, ok := d.(*Linear[E])
	if !ok {
		return ui.ErrTypeMismatch
	}
	w.apply(ctx, ld)
	return nil
}

func (w *linearWidget[E]) HandleEvent(ctx *ui.Context, ev input.Event, size matcha.Size) []E {
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

// split decomposes a size into main and cross extents; join is its
// inverse.
func (w *linearWidget[E]) split(s matcha.Size) (main, cross float64) {
	if w.axis == Horizontal {
		return s.W, s.H
	}
	return s.H, s.W
}

func (w *linearWidget[E]) join(main, cross float64) matcha.Size {
	if w.axis == Horizontal {
		return matcha.Size{W: main, H: cross}
	}
	return matcha.Size{W: cross, H: main}
}

func (w *linearWidget[E]) Measure(ctx *ui.Context, c ui.Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	child := ui.Constraints{MaxW: c.MaxW, MaxH: c.MaxH}
	var main, cross float64
	for _, ch := range w.children {
		m, x := w.split(ch.Measure(ctx, child))
		main += m
		if x > cross {
			cross = x
		}
	}
	if n := len(w.children); n > 1 {
		main += w.gap * float64(n-1)
	}
	s := c.Clamp(w.join(main, cross))
	w.StoreMeasure(c, s)
	return s
}

func (w *linearWidget[E]) Arrange(ctx *ui.Context, final matcha.Size) []ui.Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}

	n := len(w.children)
	mainMax, crossMax := w.split(final)
	sizes := make([]matcha.Size, n)
	var content float64
	for i, ch := range w.children {
		sizes[i] = ch.Measure(ctx, ui.Constraints{MaxW: final.W, MaxH: final.H})
		m, _ := w.split(sizes[i])
		content += m
	}
	var gaps float64
	if n > 1 {
		gaps = w.gap * float64(n-1)
	}
	free := mainMax - content - gaps

	var totalGrow float64
	for _, g := range w.grows {
		totalGrow += g
	}

	lead := 0.0
	spacing := w.gap
	switch {
	case free < 0:
		// Not enough room: the gap collapses toward zero and children
		// overflow the end edge in order.
		if n > 1 {
			spacing = max(0, w.gap+free/float64(n-1))
		}
	case totalGrow > 0:
		for i, g := range w.grows {
			if g <= 0 {
				continue
			}
			m, x := w.split(sizes[i])
			sizes[i] = w.join(m+free*g/totalGrow, x)
		}
	default:
		switch w.justify {
		case JustifyEnd:
			lead = free
		case JustifyCenter:
			lead = free / 2
		case JustifySpaceBetween:
			if n > 1 {
				spacing += free / float64(n-1)
			}
		case JustifySpaceAround:
			if n > 0 {
				pad := free / float64(2*n)
				lead = pad
				spacing += 2 * pad
			}
		case JustifySpaceEvenly:
			pad := free / float64(n+1)
			lead = pad
			spacing += pad
		}
	}

	list := make([]ui.Arrangement, n)
	pos := lead
	for i := range w.children {
		m, x := w.split(sizes[i])
		var off float64
		switch w.align {
		case AlignEnd:
			off = crossMax - x
		case AlignCenter:
			off = (crossMax - x) / 2
		}
		var tf matcha.Affine
		if w.axis == Horizontal {
			tf = matcha.Translate(pos, off)
		} else {
			tf = matcha.Translate(off, pos)
		}
		list[i] = ui.NewArrangement(sizes[i], tf)
		pos += m + spacing
	}
	w.StoreArrange(final, list)
	return list
}

func (w *linearWidget[E]) Render(ctx *ui.Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	list := w.Arrange(ctx, final)
	for i, ch := range w.children {
		ch.Render(ctx, b, list[i].Size, tf.Mul(list[i].Affine))
	}
	w.ClearDirty()
}

func (w *linearWidget[E]) Release(ctx *ui.Context) {
	for _, ch := range w.children {
		ch.Release(ctx)
	}
}

func (w *linearWidget[E]) LayoutNode() *ui.Node { return &w.Node }
