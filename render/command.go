package render

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/gpu"
)

// Command is one draw operation in a frame's command list. Commands
// draw in list order; there is no depth buffer.
type Command interface {
	isCommand()
}

// ColoredQuad fills an axis-aligned rectangle of the given size with
// a solid color, transformed by an affine matrix.
type ColoredQuad struct {
	Size      matcha.Size
	Color     matcha.Color
	Transform matcha.Affine
}

func (ColoredQuad) isCommand() {}

// TexturedQuad samples an atlas region over a rectangle. The command
// holds its own clone of the region; the Builder releases it when the
// frame is done.
type TexturedQuad struct {
	Region    gpu.Region
	Size      matcha.Size
	Tint      matcha.Color
	Transform matcha.Affine
}

func (TexturedQuad) isCommand() {}

// PlacedGlyph is one glyph quad within a batch, positioned in the
// batch's local coordinates.
type PlacedGlyph struct {
	Region gpu.Region
	X, Y   float64
	W, H   float64
}

// GlyphBatch draws a run of alpha-mask glyphs from the glyph atlas in
// one color. All glyphs of a batch share the atlas texture, so the
// whole batch tessellates into a single draw.
type GlyphBatch struct {
	Glyphs    []PlacedGlyph
	Color     matcha.Color
	Transform matcha.Affine
}

func (GlyphBatch) isCommand() {}
