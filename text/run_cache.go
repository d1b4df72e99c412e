package text

import "github.com/helgev-traP/matcha/internal/cache"

// runCacheLimit is the soft entry limit of the shaped-run cache.
const runCacheLimit = 1024

// RunKey identifies one shaped run: the text, the font, the quantized
// size, and the direction.
type RunKey struct {
	Text     string
	FontHash uint64
	Size     int16
	Dir      Direction
}

// RunCache memoizes shaping results. Shaping is the most expensive
// step of text layout and identical runs repeat across frames, so the
// cache sits between widgets and the Shaper.
//
// RunCache is safe for concurrent use.
type RunCache struct {
	runs *cache.Cache[RunKey, []ShapedGlyph]
}

// NewRunCache creates a shaped-run cache.
func NewRunCache() *RunCache {
	return &RunCache{runs: cache.New[RunKey, []ShapedGlyph](runCacheLimit)}
}

// Shape returns the shaped glyphs for a run, consulting the cache
// before the process-wide shaper. The returned slice is shared; it
// must not be mutated.
func (c *RunCache) Shape(text string, source *FontSource, size float64, dir Direction) []ShapedGlyph {
	if text == "" || source == nil {
		return nil
	}
	key := RunKey{
		Text:     text,
		FontHash: source.Hash(),
		Size:     QuantizeSize(size),
		Dir:      dir,
	}
	return c.runs.GetOrCreate(key, func() []ShapedGlyph {
		return ActiveShaper().Shape(text, source, UnquantizeSize(key.Size), dir)
	})
}

// Len returns the number of cached runs.
func (c *RunCache) Len() int { return c.runs.Len() }

// Stats returns hit/miss counters since creation.
func (c *RunCache) Stats() (hits, misses uint64) { return c.runs.Stats() }

// Clear empties the cache.
func (c *RunCache) Clear() { c.runs.Clear() }
