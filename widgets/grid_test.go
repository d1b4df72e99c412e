package widgets

import (
	"testing"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/ui"
)

func TestGridColumnRanges(t *testing.T) {
	ctx := testContext()
	dom := &Grid[string]{
		Columns: []Track{Fixed(100), Grow(1), Fixed(100)},
		Rows:    []Track{Fixed(50)},
		GapCol:  10,
		Items: []GridItem[string]{
			{Dom: sq(10, 10), ColStart: 0, ColEnd: 0},
			{Dom: sq(10, 10), ColStart: 1, ColEnd: 1},
			{Dom: sq(10, 10), ColStart: 2, ColEnd: 2},
		},
	}

	w := dom.BuildWidgetTree(ctx)
	list := w.Arrange(ctx, matcha.Size{W: 520, H: 50})

	got := origins(list)
	ranges := [][2]float64{{0, 100}, {110, 400}, {410, 510}}
	for i, r := range ranges {
		if got[i].X != r[0] {
			t.Errorf("column %d starts at %v, want %v", i, got[i].X, r[0])
		}
		if end := got[i].X + list[i].Size.W; end != r[1] {
			t.Errorf("column %d ends at %v, want %v", i, end, r[1])
		}
	}
	for i := range list {
		if list[i].Size.H != 50 {
			t.Errorf("item %d height = %v, want 50", i, list[i].Size.H)
		}
	}
}

func TestGridSpanMergesTracksAndGaps(t *testing.T) {
	ctx := testContext()
	dom := &Grid[string]{
		Columns: []Track{Fixed(100), Grow(1), Fixed(100)},
		Rows:    []Track{Fixed(50), Fixed(30)},
		GapCol:  10,
		GapRow:  5,
		Items: []GridItem[string]{
			{Dom: sq(10, 10), ColStart: 0, ColEnd: 1, RowStart: 0, RowEnd: 1},
		},
	}

	w := dom.BuildWidgetTree(ctx)
	list := w.Arrange(ctx, matcha.Size{W: 520, H: 100})

	// Columns 0..1 span 100 + 10 + 290; rows 0..1 span 50 + 5 + 30.
	if list[0].Size.W != 400 {
		t.Errorf("span width = %v, want 400", list[0].Size.W)
	}
	if list[0].Size.H != 85 {
		t.Errorf("span height = %v, want 85", list[0].Size.H)
	}
}

func TestGridMeasureFixedTracks(t *testing.T) {
	ctx := testContext()
	dom := &Grid[string]{
		Columns: []Track{Fixed(100), Fixed(100)},
		Rows:    []Track{Fixed(50)},
		GapCol:  10,
	}

	w := dom.BuildWidgetTree(ctx)

	// Each track reserves its trailing gap.
	size := w.Measure(ctx, ui.Unbounded())
	if size != (matcha.Size{W: 220, H: 50}) {
		t.Errorf("measure = %v, want (220, 50)", size)
	}

	// Grow tracks fill a bounded axis.
	dom.Columns = []Track{Fixed(100), Grow(1)}
	w = dom.BuildWidgetTree(ctx)
	size = w.Measure(ctx, ui.Constraints{MaxW: 500, MaxH: 50})
	if size.W != 500 {
		t.Errorf("bounded grow measure width = %v, want 500", size.W)
	}
}

func TestGridOutOfRangeSpanClamps(t *testing.T) {
	ctx := testContext()
	dom := &Grid[string]{
		Columns: []Track{Fixed(100)},
		Rows:    []Track{Fixed(50)},
		Items: []GridItem[string]{
			{Dom: sq(10, 10), ColStart: -2, ColEnd: 7, RowStart: 0, RowEnd: 0},
		},
	}

	w := dom.BuildWidgetTree(ctx)
	list := w.Arrange(ctx, matcha.Size{W: 100, H: 50})
	if list[0].Size.W != 100 {
		t.Errorf("clamped span width = %v, want 100", list[0].Size.W)
	}
}
