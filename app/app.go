package app

import (
	"golang.org/x/image/font/gofont/goregular"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/gpu"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/text"
	"github.com/helgev-traP/matcha/ui"
)

// uniformSlotSize is the BufferAtlas slot size for per-widget uniform
// blocks. 256 bytes matches the wgpu minimum uniform offset alignment,
// so every slot is directly bindable with a dynamic offset.
const uniformSlotSize = 256

// atlasPageSize is the edge length of the shared texture atlases.
const atlasPageSize = 1024

// App owns the process-wide shared resources: the GPU backend, the
// per-format texture atlases, the uniform buffer atlas, the glyph and
// shaping caches, and the default font. Windows borrow them through
// weak handles; the App keeps the strong references until Close.
type App struct {
	config matcha.Config

	backend  *gpu.Backend
	atlases  *gpu.AtlasManager
	uniforms *gpu.BufferAtlas
	glyphs   *text.GlyphCache
	runs     *text.RunCache
	font     *text.FontSource

	shaders  *render.ShaderCache
	renderer *render.Renderer
	uploader gpu.Uploader
}

// New validates the configuration, initializes the GPU backend, and
// builds the shared resource set.
func New(config matcha.Config) (*App, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	backend := gpu.NewBackend()
	if err := backend.Init(config.Power); err != nil {
		return nil, err
	}

	atlases := gpu.NewAtlasManager(backend, gpu.AtlasConfig{Size: atlasPageSize})
	if err := atlases.AddFormat(gpu.FormatRGBA8); err != nil {
		return nil, err
	}
	if err := atlases.AddFormat(gpu.FormatR8); err != nil {
		return nil, err
	}

	uniforms, err := gpu.NewBufferAtlas(uniformSlotSize)
	if err != nil {
		return nil, err
	}

	glyphAtlas, ok := atlases.Atlas(gpu.FormatR8)
	if !ok {
		return nil, gpu.ErrFormatSetNotFound
	}

	font, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, err
	}

	shaders := render.NewShaderCache()
	renderer, err := render.NewRenderer(backend, shaders, gpu.FormatBGRA8)
	if err != nil {
		return nil, err
	}

	uploader, err := gpu.NewQueueUploader(backend)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   config,
		backend:  backend,
		atlases:  atlases,
		uniforms: uniforms,
		glyphs:   text.NewGlyphCache(glyphAtlas, text.GlyphCacheConfig{}),
		runs:     text.NewRunCache(),
		font:     font,
		shaders:  shaders,
		renderer: renderer,
		uploader: uploader,
	}, nil
}

// Config returns the application configuration.
func (a *App) Config() matcha.Config { return a.config }

// Resources bundles the strong references for window contexts.
func (a *App) Resources() ui.ContextResources {
	return ui.ContextResources{
		Backend:  a.backend,
		Atlases:  a.atlases,
		Uniforms: a.uniforms,
		Glyphs:   a.glyphs,
		Runs:     a.runs,
		Font:     a.font,
		Config:   a.config,
	}
}

// Renderer returns the shared frame renderer.
func (a *App) Renderer() *render.Renderer { return a.renderer }

// Uploader returns the queue uploader for atlas flushes.
func (a *App) Uploader() gpu.Uploader { return a.uploader }

// Close tears down the shared resources. Windows must be released
// first.
func (a *App) Close() {
	a.glyphs.Clear()
	a.runs.Clear()
	if err := a.font.Close(); err != nil {
		matcha.Logger().Warn("app: font close failed", "err", err)
	}
	a.atlases.Close()
	a.backend.Close()
}

// OpenWindow creates a window over the app's shared resources.
func OpenWindow[E any](a *App, root ui.Dom[E], surface Surface, onEvent func(E)) (*Window[E], error) {
	return NewWindow(a.config, a.Resources(), WindowOptions[E]{
		Root:     root,
		Surface:  surface,
		Renderer: a.renderer,
		Uploader: a.uploader,
		OnEvent:  onEvent,
	})
}
