// Package render turns widget draw commands into GPU geometry.
//
// Widgets append commands (colored quads, textured quads, glyph
// batches) to a Builder during the render walk; the frame scheduler
// tessellates the command list into one interleaved vertex/index mesh,
// batched by source atlas, and submits it through the quad pipeline.
package render
