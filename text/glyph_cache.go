package text

import (
	"errors"
	"sync"

	"github.com/helgev-traP/matcha/gpu"
	"github.com/helgev-traP/matcha/internal/cache"
)

// GlyphKey identifies one rasterized glyph in the cache.
type GlyphKey struct {
	// Ch is the rune the glyph renders.
	Ch rune

	// Size is the quantized font size.
	Size int16

	// FontHash is the FNV-1a hash of the font data.
	FontHash uint64
}

// Glyph is a cached rasterized glyph: its atlas region and metrics.
// The region is invalid for whitespace; the metrics still carry the
// advance.
type Glyph struct {
	Region  gpu.Region
	Metrics GlyphMetrics
}

// GlyphCacheConfig holds glyph cache limits.
type GlyphCacheConfig struct {
	// MaxEntries is the soft entry limit. Default: 4096.
	MaxEntries int
}

// GlyphCache maps runes to rasterized alpha masks in the shared R8
// atlas. A miss rasterizes the glyph and uploads it; when the atlas
// cannot grow, the least recently used quarter of the cache is
// evicted and the allocation retried.
//
// GlyphCache is safe for concurrent use.
type GlyphCache struct {
	mu sync.Mutex

	atlas      *gpu.Atlas
	entries    map[GlyphKey]*glyphEntry
	lru        *cache.List[GlyphKey]
	maxEntries int

	hits      uint64
	misses    uint64
	evictions uint64
}

type glyphEntry struct {
	glyph Glyph
	node  *cache.Node[GlyphKey]
}

// NewGlyphCache creates a glyph cache over the given R8 atlas.
func NewGlyphCache(atlas *gpu.Atlas, config GlyphCacheConfig) *GlyphCache {
	if config.MaxEntries <= 0 {
		config.MaxEntries = 4096
	}
	return &GlyphCache{
		atlas:      atlas,
		entries:    make(map[GlyphKey]*glyphEntry),
		lru:        cache.NewList[GlyphKey](),
		maxEntries: config.MaxEntries,
	}
}

// Get returns the cached glyph for a key without rasterizing.
func (c *GlyphCache) Get(key GlyphKey) (Glyph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return Glyph{}, false
	}
	c.lru.MoveToFront(e.node)
	c.hits++
	return e.glyph, true
}

// GetOrCreate returns the cached glyph, rasterizing and uploading it
// on a miss.
func (c *GlyphCache) GetOrCreate(key GlyphKey, source *FontSource) (Glyph, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.lru.MoveToFront(e.node)
		c.hits++
		return e.glyph, nil
	}
	c.misses++

	mask, metrics, err := source.RasterizeGlyph(key.Ch, UnquantizeSize(key.Size))
	if err != nil {
		return Glyph{}, err
	}

	g := Glyph{Metrics: metrics}
	if mask != nil {
		w := mask.Bounds().Dx()
		h := mask.Bounds().Dy()
		region, err := c.atlas.Allocate(w, h)
		if errors.Is(err, gpu.ErrAllocationFailed) {
			c.evictLocked(len(c.entries)/4 + 1)
			c.atlas.Reclaim()
			region, err = c.atlas.Allocate(w, h)
		}
		if err != nil {
			return Glyph{}, err
		}
		if err := region.Upload(mask.Pix); err != nil {
			region.Release()
			return Glyph{}, err
		}
		g.Region = region
	}

	for len(c.entries) >= c.maxEntries {
		c.evictLocked(1)
	}
	c.entries[key] = &glyphEntry{glyph: g, node: c.lru.PushFront(key)}
	return g, nil
}

// evictLocked releases the n least recently used glyphs. The atlas
// regions become reclaimable; the pixels are reused after the next
// Flash or Reclaim. Caller holds c.mu.
func (c *GlyphCache) evictLocked(n int) {
	for i := 0; i < n; i++ {
		key, ok := c.lru.RemoveOldest()
		if !ok {
			return
		}
		e := c.entries[key]
		delete(c.entries, key)
		if e.glyph.Region.Valid() {
			e.glyph.Region.Release()
		}
		c.evictions++
	}
}

// Len returns the number of cached glyphs.
func (c *GlyphCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit, miss, and eviction counters since creation.
func (c *GlyphCache) Stats() (hits, misses, evictions uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.evictions
}

// Clear releases every cached glyph.
func (c *GlyphCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if e.glyph.Region.Valid() {
			e.glyph.Region.Release()
		}
		delete(c.entries, key)
	}
	c.lru.Clear()
}
