package widgets

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/gpu"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/text"
	"github.com/helgev-traP/matcha/ui"
)

// fixedShaper places one glyph per rune, one advance apart, so layout
// assertions do not depend on the font's real metrics.
type fixedShaper struct{}

func (fixedShaper) Shape(s string, source *text.FontSource, size float64, dir text.Direction) []text.ShapedGlyph {
	var out []text.ShapedGlyph
	x := 0.0
	i := 0
	for _, r := range s {
		out = append(out, text.ShapedGlyph{
			GID:      text.GlyphID(r),
			Rune:     r,
			Cluster:  i,
			X:        x,
			XAdvance: size,
		})
		x += size
		i++
	}
	return out
}

func textTestContext(t *testing.T) (*ui.Context, func()) {
	t.Helper()
	atlas, err := gpu.NewAtlas(nil, gpu.FormatR8, gpu.AtlasConfig{Size: 256})
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFontSource: %v", err)
	}
	res := ui.ContextResources{
		Glyphs: text.NewGlyphCache(atlas, text.GlyphCacheConfig{}),
		Runs:   text.NewRunCache(),
		Font:   source,
		Config: matcha.DefaultConfig(),
	}
	cleanup := func() {
		res.Glyphs.Clear()
		source.Close()
		atlas.Close()
	}
	return ui.NewContext(res), cleanup
}

func TestTextSingleGlyphBatch(t *testing.T) {
	old := text.SetShaper(fixedShaper{})
	defer text.SetShaper(old)

	ctx, cleanup := textTestContext(t)
	defer cleanup()

	dom := &Text[string]{Content: "ABC", FontSize: 14, Color: matcha.Black}
	w := dom.BuildWidgetTree(ctx)

	size := w.Measure(ctx, ui.Unbounded())
	if size.W != 42 {
		t.Errorf("measure width = %v, want 42", size.W)
	}
	if size.H <= 0 {
		t.Errorf("measure height = %v, want positive", size.H)
	}

	b := render.NewBuilder()
	defer b.Release()
	w.Render(ctx, b, size, matcha.Identity())

	mesh := render.BuildMesh(b.Commands())
	if len(mesh.Batches) != 1 {
		t.Fatalf("batches = %d, want 1", len(mesh.Batches))
	}
	if mesh.VertexCount() != 12 || mesh.IndexCount() != 18 {
		t.Errorf("mesh = %d vertices, %d indices, want 12, 18",
			mesh.VertexCount(), mesh.IndexCount())
	}
}

func TestTextDefaultFontSize(t *testing.T) {
	old := text.SetShaper(fixedShaper{})
	defer text.SetShaper(old)

	ctx, cleanup := textTestContext(t)
	defer cleanup()

	dom := &Text[string]{Content: "hi"}
	w := dom.BuildWidgetTree(ctx)

	size := w.Measure(ctx, ui.Unbounded())
	if size.W != 2*matcha.DefaultFontSize {
		t.Errorf("measure width = %v, want %v", size.W, 2*matcha.DefaultFontSize)
	}
}

func TestTextContentChangeReshapes(t *testing.T) {
	old := text.SetShaper(fixedShaper{})
	defer text.SetShaper(old)

	ctx, cleanup := textTestContext(t)
	defer cleanup()

	dom := &Text[string]{Content: "AB", FontSize: 10}
	w := dom.BuildWidgetTree(ctx)
	if size := w.Measure(ctx, ui.Unbounded()); size.W != 20 {
		t.Fatalf("initial width = %v, want 20", size.W)
	}
	w.ClearDirty()

	if err := w.Update(ctx, &Text[string]{Content: "ABCD", FontSize: 10}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !w.NeedRearrange() {
		t.Error("content change did not mark rearrange")
	}
	if size := w.Measure(ctx, ui.Unbounded()); size.W != 40 {
		t.Errorf("width after update = %v, want 40", size.W)
	}
}

func TestTextWhitespaceSkipsBitmaps(t *testing.T) {
	old := text.SetShaper(fixedShaper{})
	defer text.SetShaper(old)

	ctx, cleanup := textTestContext(t)
	defer cleanup()

	dom := &Text[string]{Content: "A B", FontSize: 14}
	w := dom.BuildWidgetTree(ctx)
	size := w.Measure(ctx, ui.Unbounded())

	b := render.NewBuilder()
	defer b.Release()
	w.Render(ctx, b, size, matcha.Identity())

	// The space advances the pen but contributes no quad: two glyphs,
	// eight vertices.
	mesh := render.BuildMesh(b.Commands())
	if mesh.VertexCount() != 8 {
		t.Errorf("vertices = %d, want 8", mesh.VertexCount())
	}
	if size.W != 42 {
		t.Errorf("width = %v, want 42", size.W)
	}
}
