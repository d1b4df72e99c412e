package widgets

import (
	"testing"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/ui"
)

func TestColumnCenterJustify(t *testing.T) {
	ctx := testContext()
	dom := Column[string](sq(100, 100), sq(80, 100), sq(60, 100))
	dom.Justify = JustifyCenter
	dom.Gap = 10

	w := dom.BuildWidgetTree(ctx)

	size := w.Measure(ctx, ui.Constraints{MaxW: 400, MaxH: 400})
	if size != (matcha.Size{W: 100, H: 320}) {
		t.Fatalf("measure = %v, want (100, 320)", size)
	}

	// The window hands the column more room than it asked for; the
	// content block centers inside it.
	list := w.Arrange(ctx, matcha.Size{W: 100, H: 450})
	got := origins(list)
	want := []float64{65, 175, 285}
	for i, y := range want {
		if got[i].Y != y {
			t.Errorf("child %d y-origin = %v, want %v", i, got[i].Y, y)
		}
		if got[i].X != 0 {
			t.Errorf("child %d x-origin = %v, want 0", i, got[i].X)
		}
	}
}

func TestRowGrow(t *testing.T) {
	ctx := testContext()
	dom := &Linear[string]{
		Axis: Horizontal,
		Children: []LinearChild[string]{
			{Dom: sq(100, 50)},
			{Dom: sq(100, 50), Grow: 1},
		},
	}

	w := dom.BuildWidgetTree(ctx)
	list := w.Arrange(ctx, matcha.Size{W: 400, H: 50})

	if list[1].Size.W != 300 {
		t.Errorf("grow child width = %v, want 300", list[1].Size.W)
	}
	got := origins(list)
	if got[0].X != 0 || got[1].X != 100 {
		t.Errorf("x-origins = %v, %v, want 0, 100", got[0].X, got[1].X)
	}
}

func TestRowGrowSplitsByWeight(t *testing.T) {
	ctx := testContext()
	dom := &Linear[string]{
		Axis: Horizontal,
		Children: []LinearChild[string]{
			{Dom: sq(0, 50), Grow: 1},
			{Dom: sq(0, 50), Grow: 3},
		},
	}

	w := dom.BuildWidgetTree(ctx)
	list := w.Arrange(ctx, matcha.Size{W: 400, H: 50})

	if list[0].Size.W != 100 || list[1].Size.W != 300 {
		t.Errorf("grow widths = %v, %v, want 100, 300", list[0].Size.W, list[1].Size.W)
	}
}

func TestRowSpaceBetween(t *testing.T) {
	ctx := testContext()
	dom := Row[string](sq(50, 50), sq(50, 50), sq(50, 50))
	dom.Justify = JustifySpaceBetween

	w := dom.BuildWidgetTree(ctx)
	list := w.Arrange(ctx, matcha.Size{W: 400, H: 50})

	got := origins(list)
	want := []float64{0, 175, 350}
	for i, x := range want {
		if got[i].X != x {
			t.Errorf("child %d x-origin = %v, want %v", i, got[i].X, x)
		}
	}
}

func TestColumnOverflowDropsGap(t *testing.T) {
	ctx := testContext()
	dom := Column[string](sq(100, 100), sq(100, 100), sq(100, 100))
	dom.Gap = 10

	w := dom.BuildWidgetTree(ctx)

	// 250px for 320px of content: the gap collapses to zero and the
	// last child overflows the end edge.
	list := w.Arrange(ctx, matcha.Size{W: 100, H: 250})
	got := origins(list)
	want := []float64{0, 100, 200}
	for i, y := range want {
		if got[i].Y != y {
			t.Errorf("child %d y-origin = %v, want %v", i, got[i].Y, y)
		}
	}
}

func TestRowCrossAlign(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		align Align
		want  float64
	}{
		{AlignStart, 0},
		{AlignCenter, 30},
		{AlignEnd, 60},
	}
	for _, tt := range tests {
		dom := Row[string](sq(50, 40))
		dom.Align = tt.align
		w := dom.BuildWidgetTree(ctx)
		list := w.Arrange(ctx, matcha.Size{W: 50, H: 100})
		if y := origins(list)[0].Y; y != tt.want {
			t.Errorf("align %v: y-origin = %v, want %v", tt.align, y, tt.want)
		}
	}
}

func TestLinearRearrangeOnGapChange(t *testing.T) {
	ctx := testContext()
	dom := Column[string](sq(100, 100), sq(100, 100))

	w := dom.BuildWidgetTree(ctx)
	w.Arrange(ctx, matcha.Size{W: 100, H: 400})
	w.ClearDirty()

	next := Column[string](sq(100, 100), sq(100, 100))
	next.Gap = 20
	if err := w.Update(ctx, next); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !w.NeedRearrange() {
		t.Error("gap change did not mark rearrange")
	}

	list := w.Arrange(ctx, matcha.Size{W: 100, H: 400})
	if y := origins(list)[1].Y; y != 120 {
		t.Errorf("second child y-origin = %v, want 120", y)
	}
}

func TestLinearRearrangeOnChildCountChange(t *testing.T) {
	ctx := testContext()
	dom := Column[string](sq(100, 100), sq(100, 100))
	final := matcha.Size{W: 100, H: 400}

	w := dom.BuildWidgetTree(ctx)
	if got := len(w.Arrange(ctx, final)); got != 2 {
		t.Fatalf("arrangements = %d, want 2", got)
	}
	w.ClearDirty()

	next := Column[string](sq(100, 100), sq(100, 100), sq(100, 100))
	if err := w.Update(ctx, next); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !w.NeedRearrange() {
		t.Error("adding a child did not mark rearrange")
	}
	list := w.Arrange(ctx, final)
	if len(list) != 3 {
		t.Fatalf("arrangements after adding a child = %d, want 3", len(list))
	}
	if y := origins(list)[2].Y; y != 200 {
		t.Errorf("third child y-origin = %v, want 200", y)
	}

	if err := w.Update(ctx, Column[string](sq(100, 100))); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := len(w.Arrange(ctx, final)); got != 1 {
		t.Errorf("arrangements after removing children = %d, want 1", got)
	}
}

func TestLinearRearrangeOnGrowChange(t *testing.T) {
	ctx := testContext()
	dom := &Linear[string]{
		Axis: Horizontal,
		Children: []LinearChild[string]{
			{Dom: sq(100, 50)},
			{Dom: sq(100, 50)},
		},
	}
	final := matcha.Size{W: 400, H: 50}

	w := dom.BuildWidgetTree(ctx)
	w.Arrange(ctx, final)
	w.ClearDirty()

	next := &Linear[string]{
		Axis: Horizontal,
		Children: []LinearChild[string]{
			{Dom: sq(100, 50)},
			{Dom: sq(100, 50), Grow: 1},
		},
	}
	if err := w.Update(ctx, next); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !w.NeedRearrange() {
		t.Error("grow change did not mark rearrange")
	}
	list := w.Arrange(ctx, final)
	if list[1].Size.W != 300 {
		t.Errorf("grow child width after reconcile = %v, want 300", list[1].Size.W)
	}
}
