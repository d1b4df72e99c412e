package render

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/gpu"
)

// Builder accumulates the draw commands of one frame. Widgets append
// commands during the render walk with their absolute transforms
// already composed; the scheduler tessellates and then releases the
// builder.
//
// The builder clones every atlas region it records, so regions stay
// alive until Release even when the originating widget is torn down
// mid-frame. Builder is not safe for concurrent use.
type Builder struct {
	commands []Command
	clones   []gpu.Region
}

// NewBuilder creates an empty command list.
func NewBuilder() *Builder {
	return &Builder{}
}

// ColoredQuad appends a solid rectangle.
func (b *Builder) ColoredQuad(size matcha.Size, color matcha.Color, tf matcha.Affine) {
	b.commands = append(b.commands, ColoredQuad{Size: size, Color: color, Transform: tf})
}

// TexturedQuad appends a rectangle sampling an atlas region. The
// region is cloned; the caller keeps its own handle.
func (b *Builder) TexturedQuad(region gpu.Region, size matcha.Size, tint matcha.Color, tf matcha.Affine) {
	if !region.Valid() {
		return
	}
	c := region.Clone()
	b.clones = append(b.clones, c)
	b.commands = append(b.commands, TexturedQuad{Region: c, Size: size, Tint: tint, Transform: tf})
}

// GlyphBatch appends a glyph run. Glyphs with invalid regions
// (whitespace) are skipped; every kept region is cloned. Empty
// batches are dropped.
func (b *Builder) GlyphBatch(glyphs []PlacedGlyph, color matcha.Color, tf matcha.Affine) {
	kept := make([]PlacedGlyph, 0, len(glyphs))
	for _, g := range glyphs {
		if !g.Region.Valid() {
			continue
		}
		g.Region = g.Region.Clone()
		b.clones = append(b.clones, g.Region)
		kept = append(kept, g)
	}
	if len(kept) == 0 {
		return
	}
	b.commands = append(b.commands, GlyphBatch{Glyphs: kept, Color: color, Transform: tf})
}

// Commands returns the accumulated command list in draw order.
func (b *Builder) Commands() []Command {
	return b.commands
}

// Len returns the number of commands.
func (b *Builder) Len() int {
	return len(b.commands)
}

// Release drops the region clones held by the command list and resets
// the builder. Call after the frame's mesh has been submitted.
func (b *Builder) Release() {
	for _, c := range b.clones {
		c.Release()
	}
	b.clones = b.clones[:0]
	b.commands = b.commands[:0]
}
