package ui

import (
	"weak"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/gpu"
	"github.com/helgev-traP/matcha/text"
)

// Context hands widgets weak handles to the shared resources: GPU
// backend, atlases, the uniform buffer atlas, glyph and shaping
// caches, the default font, and the application config.
//
// The handles are weak on purpose: widgets outlive frames but never
// outlive the application, so an upgrade that fails is a lifecycle
// bug, not a recoverable condition, and the accessors panic.
type Context struct {
	backend  weak.Pointer[gpu.Backend]
	atlases  weak.Pointer[gpu.AtlasManager]
	uniforms weak.Pointer[gpu.BufferAtlas]
	glyphs   weak.Pointer[text.GlyphCache]
	runs     weak.Pointer[text.RunCache]
	font     weak.Pointer[text.FontSource]

	config matcha.Config
}

// ContextResources bundles the strong references the application owns.
type ContextResources struct {
	Backend  *gpu.Backend
	Atlases  *gpu.AtlasManager
	Uniforms *gpu.BufferAtlas
	Glyphs   *text.GlyphCache
	Runs     *text.RunCache
	Font     *text.FontSource
	Config   matcha.Config
}

// NewContext creates a context holding weak handles to the given
// resources. The caller keeps the strong references alive for the
// lifetime of the widget tree.
func NewContext(r ContextResources) *Context {
	return &Context{
		backend:  weak.Make(r.Backend),
		atlases:  weak.Make(r.Atlases),
		uniforms: weak.Make(r.Uniforms),
		glyphs:   weak.Make(r.Glyphs),
		runs:     weak.Make(r.Runs),
		font:     weak.Make(r.Font),
		config:   r.Config,
	}
}

// Backend returns the GPU backend.
func (c *Context) Backend() *gpu.Backend {
	return upgrade(c.backend, "gpu backend")
}

// Atlases returns the per-format texture atlas manager.
func (c *Context) Atlases() *gpu.AtlasManager {
	return upgrade(c.atlases, "atlas manager")
}

// Uniforms returns the shared uniform buffer atlas.
func (c *Context) Uniforms() *gpu.BufferAtlas {
	return upgrade(c.uniforms, "buffer atlas")
}

// Glyphs returns the glyph cache.
func (c *Context) Glyphs() *text.GlyphCache {
	return upgrade(c.glyphs, "glyph cache")
}

// Runs returns the shaped-run cache.
func (c *Context) Runs() *text.RunCache {
	return upgrade(c.runs, "run cache")
}

// Font returns the default font source.
func (c *Context) Font() *text.FontSource {
	return upgrade(c.font, "font source")
}

// Config returns the application configuration.
func (c *Context) Config() matcha.Config { return c.config }

// Debug returns the debug flags.
func (c *Context) Debug() matcha.DebugFlags { return c.config.Debug }

func upgrade[T any](p weak.Pointer[T], what string) *T {
	v := p.Value()
	if v == nil {
		panic("ui: " + what + " released while widgets are alive")
	}
	return v
}
