package gpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	matcha "github.com/helgev-traP/matcha"
)

// atlasIDCounter produces process-wide unique atlas IDs. Never reset.
var atlasIDCounter atomic.Uint64

// AtlasConfig holds texture atlas sizing and resize policy.
type AtlasConfig struct {
	// Size is the width and height of every layer in pixels.
	// Default: 1024.
	Size int

	// InitialLayers is the layer count at creation. Default: 1.
	InitialLayers int

	// MaxLayers caps layer growth. Default: 8.
	MaxLayers int

	// ResizeThreshold is the usage fraction above which the atlas
	// proactively adds layers before an allocation. Default: 0.8.
	ResizeThreshold float64

	// ResizeFactor scales the layer count on proactive growth.
	// Default: 2.0.
	ResizeFactor float64

	// ShrinkThreshold is the usage fraction below which Compact may
	// drop empty trailing layers between frames. Default: 0.25.
	ShrinkThreshold float64

	// Padding is the spacing between packed regions. Default: 1.
	Padding int
}

// DefaultAtlasConfig returns the default atlas configuration.
func DefaultAtlasConfig() AtlasConfig {
	return AtlasConfig{
		Size:            1024,
		InitialLayers:   1,
		MaxLayers:       8,
		ResizeThreshold: 0.8,
		ResizeFactor:    2.0,
		ShrinkThreshold: 0.25,
		Padding:         1,
	}
}

func (c *AtlasConfig) applyDefaults() {
	d := DefaultAtlasConfig()
	if c.Size <= 0 {
		c.Size = d.Size
	}
	if c.InitialLayers <= 0 {
		c.InitialLayers = d.InitialLayers
	}
	if c.MaxLayers < c.InitialLayers {
		c.MaxLayers = max(d.MaxLayers, c.InitialLayers)
	}
	if c.ResizeThreshold <= 0 || c.ResizeThreshold > 1 {
		c.ResizeThreshold = d.ResizeThreshold
	}
	if c.ResizeFactor <= 1 {
		c.ResizeFactor = d.ResizeFactor
	}
	if c.ShrinkThreshold <= 0 {
		c.ShrinkThreshold = d.ShrinkThreshold
	}
	if c.Padding < 0 {
		c.Padding = d.Padding
	}
}

// regionEntry is the atlas-side record of an allocated region.
type regionEntry struct {
	atlas *Atlas
	id    uint64
	layer int
	r     rect
	refs  atomic.Int32
}

// Region is a reference-counted handle to a reserved rectangle in one
// atlas layer. Clones share the underlying region; the pixels are
// reclaimed only after every clone has been released and the next
// Flash tick observes the zero count.
type Region struct {
	e *regionEntry
}

// Valid reports whether the handle refers to a live region.
func (r Region) Valid() bool { return r.e != nil }

// AtlasID returns the process-wide ID of the owning atlas.
func (r Region) AtlasID() uint64 { return r.e.atlas.id }

// Layer returns the array layer index.
func (r Region) Layer() int { return r.e.layer }

// Origin returns the top-left pixel of the region within its layer.
// Offsets are stable for the lifetime of the region.
func (r Region) Origin() (x, y int) { return r.e.r.x, r.e.r.y }

// Size returns the region dimensions in pixels.
func (r Region) Size() (w, h int) { return r.e.r.w, r.e.r.h }

// Format returns the pixel format of the owning atlas.
func (r Region) Format() Format { return r.e.atlas.format }

// Clone returns a new handle sharing the region.
func (r Region) Clone() Region {
	r.e.refs.Add(1)
	return r
}

// Release drops this handle. The region becomes reclaimable once all
// clones are released; the space is actually freed on the next Flash.
func (r Region) Release() {
	r.e.refs.Add(-1)
}

// Upload copies tightly packed pixel data into the region. The data
// length must equal w*h*bytesPerPixel. The write lands in the atlas's
// CPU shadow immediately and is uploaded on the next Flash.
func (r Region) Upload(pix []byte) error {
	return r.e.atlas.upload(r.e, pix)
}

// UV returns the normalized texture coordinates of the region corners
// within its layer: (u0, v0) top-left, (u1, v1) bottom-right.
func (r Region) UV() (u0, v0, u1, v1 float64) {
	size := float64(r.e.atlas.config.Size)
	u0 = float64(r.e.r.x) / size
	v0 = float64(r.e.r.y) / size
	u1 = float64(r.e.r.x+r.e.r.w) / size
	v1 = float64(r.e.r.y+r.e.r.h) / size
	return
}

// dirtyRect is a pending shadow-to-GPU upload.
type dirtyRect struct {
	layer int
	r     rect
}

// Atlas packs rectangular pixel regions of one format into a 2D
// array-of-layers texture. Allocation is shelf packing, first fit
// across layers, with a new layer added when no current layer fits.
//
// Atlas is safe for concurrent use; each atlas has its own lock so
// allocations from different pixel formats do not contend.
type Atlas struct {
	mu sync.Mutex

	id     uint64
	format Format
	config AtlasConfig

	texture *Texture
	retired []*Texture // previous textures awaiting copy-forward at Flash

	layers []*layerAllocator
	shadow [][]byte // CPU copy of every layer, row-major

	regions    map[uint64]*regionEntry
	nextRegion uint64

	dirty  []dirtyRect
	closed bool
}

// NewAtlas creates an atlas for the given pixel format.
func NewAtlas(backend *Backend, format Format, config AtlasConfig) (*Atlas, error) {
	config.applyDefaults()

	tex, err := CreateTexture(backend, TextureConfig{
		Width:  config.Size,
		Height: config.Size,
		Layers: config.InitialLayers,
		Format: format,
		Label:  fmt.Sprintf("matcha-atlas-%s", format),
	})
	if err != nil {
		return nil, err
	}

	a := &Atlas{
		id:      atlasIDCounter.Add(1),
		format:  format,
		config:  config,
		texture: tex,
		regions: make(map[uint64]*regionEntry),
	}
	for i := 0; i < config.InitialLayers; i++ {
		a.addLayerLocked()
	}
	return a, nil
}

// addLayerLocked appends one empty layer. Caller holds a.mu (or is
// the constructor).
func (a *Atlas) addLayerLocked() {
	a.layers = append(a.layers, newLayerAllocator(a.config.Size, a.config.Size, a.config.Padding))
	a.shadow = append(a.shadow, make([]byte, a.config.Size*a.config.Size*a.format.BytesPerPixel()))
}

// ID returns the process-wide atlas ID.
func (a *Atlas) ID() uint64 { return a.id }

// Format returns the pixel format.
func (a *Atlas) Format() Format { return a.format }

// LayerCount returns the current layer count.
func (a *Atlas) LayerCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.layers)
}

// Texture returns the backing array texture.
func (a *Atlas) Texture() *Texture {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.texture
}

// UsedArea returns the total allocated area in square pixels.
func (a *Atlas) UsedArea() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usedAreaLocked()
}

func (a *Atlas) usedAreaLocked() int {
	total := 0
	for _, l := range a.layers {
		total += l.usedArea
	}
	return total
}

// Utilization returns the used fraction of the total capacity.
func (a *Atlas) Utilization() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	capacity := a.capacityLocked()
	if capacity == 0 {
		return 0
	}
	return float64(a.usedAreaLocked()) / float64(capacity)
}

func (a *Atlas) capacityLocked() int {
	return a.config.Size * a.config.Size * len(a.layers)
}

// Allocate reserves a w×h region. It may proactively grow the layer
// count per the resize policy, and grows reactively when no layer
// fits, until MaxLayers is reached.
func (a *Atlas) Allocate(w, h int) (Region, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return Region{}, ErrAtlasClosed
	}
	if w <= 0 || h <= 0 || w > a.config.Size || h > a.config.Size {
		return Region{}, fmt.Errorf("%w: %dx%d in %d-pixel atlas", ErrInvalidTextureSize, w, h, a.config.Size)
	}

	// Proactive growth: adding layers before the atlas runs hot keeps
	// the reactive path off the per-glyph fast path.
	if usage := a.usedAreaLocked() + w*h; float64(usage) > a.config.ResizeThreshold*float64(a.capacityLocked()) &&
		len(a.layers) < a.config.MaxLayers {
		a.growLocked()
	}

	for {
		for i, l := range a.layers {
			if r, ok := l.allocate(w, h); ok {
				return a.registerLocked(i, r), nil
			}
		}
		if len(a.layers) >= a.config.MaxLayers {
			return Region{}, fmt.Errorf("%w: %dx%d, %d layers used", ErrAllocationFailed, w, h, len(a.layers))
		}
		a.addLayerLocked()
		a.textureDirtyLocked()
	}
}

// growLocked scales the layer count by ResizeFactor, capped at
// MaxLayers. Caller holds a.mu.
func (a *Atlas) growLocked() {
	target := int(float64(len(a.layers)) * a.config.ResizeFactor)
	if target <= len(a.layers) {
		target = len(a.layers) + 1
	}
	if target > a.config.MaxLayers {
		target = a.config.MaxLayers
	}
	for len(a.layers) < target {
		a.addLayerLocked()
	}
	a.textureDirtyLocked()
	matcha.Logger().Debug("gpu: atlas grown", "atlas", a.id, "format", a.format.String(), "layers", len(a.layers))
}

// textureDirtyLocked recreates the backing texture after a layer-count
// change. The previous texture is retired; its contents are
// copy-enqueued into the new one on the next Flash, before the old
// texture is dropped, so existing regions survive the resize.
func (a *Atlas) textureDirtyLocked() {
	old := a.texture
	tex, err := CreateTexture(nil, TextureConfig{
		Width:  a.config.Size,
		Height: a.config.Size,
		Layers: len(a.layers),
		Format: a.format,
		Label:  old.Label(),
	})
	if err != nil {
		// Layer counts and sizes are validated; creation of a logical
		// texture cannot fail here.
		panic(err)
	}
	a.texture = tex
	a.retired = append(a.retired, old)
}

func (a *Atlas) registerLocked(layer int, r rect) Region {
	a.nextRegion++
	e := &regionEntry{
		atlas: a,
		id:    a.nextRegion,
		layer: layer,
		r:     r,
	}
	e.refs.Store(1)
	a.regions[e.id] = e
	return Region{e: e}
}

// upload copies pixel data into the shadow and queues the GPU write.
func (a *Atlas) upload(e *regionEntry, pix []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAtlasClosed
	}
	bpp := a.format.BytesPerPixel()
	if len(pix) != e.r.w*e.r.h*bpp {
		return fmt.Errorf("%w: got %d bytes for %dx%d %s region",
			ErrUploadSizeMismatch, len(pix), e.r.w, e.r.h, a.format)
	}

	dst := a.shadow[e.layer]
	rowBytes := a.config.Size * bpp
	for row := 0; row < e.r.h; row++ {
		dstOff := (e.r.y+row)*rowBytes + e.r.x*bpp
		srcOff := row * e.r.w * bpp
		copy(dst[dstOff:dstOff+e.r.w*bpp], pix[srcOff:srcOff+e.r.w*bpp])
	}
	a.dirty = append(a.dirty, dirtyRect{layer: e.layer, r: e.r})
	return nil
}

// Flash reclaims dead regions, carries contents across any pending
// resize, and uploads dirty regions to the GPU. Call once per frame.
func (a *Atlas) Flash(up Uploader) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return ErrAtlasClosed
	}

	a.reclaimLocked()

	// Carry contents of retired textures into the current one before
	// dropping them.
	for _, old := range a.retired {
		if err := up.CopyTexture(old, a.texture); err != nil {
			return err
		}
		old.Close()
	}
	a.retired = a.retired[:0]

	// Upload dirty rects from the shadow.
	bpp := a.format.BytesPerPixel()
	rowBytes := a.config.Size * bpp
	for _, d := range a.dirty {
		src := a.shadow[d.layer]
		tight := make([]byte, d.r.w*d.r.h*bpp)
		for row := 0; row < d.r.h; row++ {
			srcOff := (d.r.y+row)*rowBytes + d.r.x*bpp
			copy(tight[row*d.r.w*bpp:], src[srcOff:srcOff+d.r.w*bpp])
		}
		if err := up.WriteTexture(a.texture, d.layer, d.r.x, d.r.y, d.r.w, d.r.h, tight); err != nil {
			return err
		}
	}
	a.dirty = a.dirty[:0]
	return nil
}

// reclaimLocked frees regions whose handles have all been released.
// The free happens at Flash, one tick after the last release, so a
// handle read concurrently with its release never observes reused
// pixels. Caller holds a.mu.
func (a *Atlas) reclaimLocked() {
	for id, e := range a.regions {
		if e.refs.Load() <= 0 {
			a.layers[e.layer].release(e.r)
			delete(a.regions, id)
		}
	}
}

// Reclaim frees released regions immediately instead of waiting for
// the next Flash. Cache eviction uses this to make room before
// retrying a failed allocation.
func (a *Atlas) Reclaim() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.reclaimLocked()
}

// Compact drops empty trailing layers while usage is below the shrink
// threshold, never below the initial layer count. Call between frames
// only; compaction never runs automatically mid-frame.
func (a *Atlas) Compact() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || len(a.layers) <= a.config.InitialLayers {
		return
	}
	if float64(a.usedAreaLocked()) >= a.config.ShrinkThreshold*float64(a.capacityLocked()) {
		return
	}
	trimmed := false
	for len(a.layers) > a.config.InitialLayers && a.layers[len(a.layers)-1].empty() {
		a.layers = a.layers[:len(a.layers)-1]
		a.shadow = a.shadow[:len(a.shadow)-1]
		trimmed = true
	}
	if trimmed {
		a.textureDirtyLocked()
	}
}

// RegionCount returns the number of live regions.
func (a *Atlas) RegionCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.regions)
}

// Shadow returns the CPU copy of one layer, row-major. Exposed for
// tests and software present paths; the slice must not be mutated.
func (a *Atlas) Shadow(layer int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	if layer < 0 || layer >= len(a.shadow) {
		return nil
	}
	return a.shadow[layer]
}

// Close releases the backing texture. Outstanding regions become
// invalid.
func (a *Atlas) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	for _, old := range a.retired {
		old.Close()
	}
	a.retired = nil
	a.texture.Close()
	a.closed = true
}

// AtlasManager holds one atlas per pixel format. There is one manager
// per process; atlas IDs come from a process-wide atomic counter.
//
// AtlasManager is safe for concurrent use. Each atlas has its own
// lock, so allocations for different formats proceed concurrently.
type AtlasManager struct {
	mu      sync.RWMutex
	backend *Backend
	config  AtlasConfig
	atlases map[Format]*Atlas
}

// NewAtlasManager creates an empty manager. Formats are added with
// AddFormat before allocation.
func NewAtlasManager(backend *Backend, config AtlasConfig) *AtlasManager {
	config.applyDefaults()
	return &AtlasManager{
		backend: backend,
		config:  config,
		atlases: make(map[Format]*Atlas),
	}
}

// AddFormat creates an empty atlas for a pixel format. It fails when
// the format is already present.
func (m *AtlasManager) AddFormat(f Format) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.atlases[f]; ok {
		return fmt.Errorf("%w: %s", ErrFormatSetExists, f)
	}
	a, err := NewAtlas(m.backend, f, m.config)
	if err != nil {
		return err
	}
	m.atlases[f] = a
	return nil
}

// Allocate reserves a region in the atlas of the given format.
func (m *AtlasManager) Allocate(w, h int, f Format) (Region, error) {
	m.mu.RLock()
	a, ok := m.atlases[f]
	m.mu.RUnlock()
	if !ok {
		return Region{}, fmt.Errorf("%w: %s", ErrFormatSetNotFound, f)
	}
	return a.Allocate(w, h)
}

// Atlas returns the atlas for a format.
func (m *AtlasManager) Atlas(f Format) (*Atlas, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.atlases[f]
	return a, ok
}

// Flash flashes every atlas. Call once per frame before submit.
func (m *AtlasManager) Flash(up Uploader) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.atlases {
		if err := a.Flash(up); err != nil {
			return err
		}
	}
	return nil
}

// Compact compacts every atlas. Call between frames.
func (m *AtlasManager) Compact() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.atlases {
		a.Compact()
	}
}

// Close closes every atlas.
func (m *AtlasManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.atlases {
		a.Close()
	}
	m.atlases = make(map[Format]*Atlas)
}
