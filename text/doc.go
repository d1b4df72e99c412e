// Package text provides font loading, HarfBuzz shaping, and glyph
// rasterization for matcha widgets.
//
// A FontSource wraps one parsed font file and is shared across the
// application. Shaping converts a string into positioned glyphs; the
// default shaper uses go-text/typesetting's HarfBuzz implementation
// and can be replaced process-wide with SetShaper. Rasterized glyph
// alpha masks live in the shared R8 texture atlas, deduplicated by
// the GlyphCache.
package text
