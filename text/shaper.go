package text

import "sync/atomic"

// Direction is the text layout direction.
type Direction uint8

const (
	// DirectionLTR is left-to-right horizontal text.
	DirectionLTR Direction = iota

	// DirectionRTL is right-to-left horizontal text.
	DirectionRTL

	// DirectionTTB is top-to-bottom vertical text.
	DirectionTTB

	// DirectionBTT is bottom-to-top vertical text.
	DirectionBTT
)

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirectionRTL:
		return "RTL"
	case DirectionTTB:
		return "TTB"
	case DirectionBTT:
		return "BTT"
	default:
		return "LTR"
	}
}

// GlyphID is a glyph index within a font.
type GlyphID uint32

// ShapedGlyph is one positioned glyph produced by shaping. Positions
// are in pixels relative to the pen origin of the run; Y grows
// downward.
type ShapedGlyph struct {
	// GID is the glyph index within the font.
	GID GlyphID

	// Rune is the first rune of the cluster this glyph renders.
	Rune rune

	// Cluster is the rune index in the source text.
	Cluster int

	// X and Y position the glyph relative to the run origin.
	X float64
	Y float64

	// XAdvance and YAdvance are the pen advances contributed by this
	// glyph.
	XAdvance float64
	YAdvance float64
}

// Shaper converts text into positioned glyphs. Implementations must
// be safe for concurrent use.
type Shaper interface {
	Shape(text string, source *FontSource, size float64, dir Direction) []ShapedGlyph
}

var activeShaper atomic.Pointer[Shaper]

// SetShaper replaces the process-wide shaper. Passing nil restores
// the default HarfBuzz shaper. Returns the previous shaper.
func SetShaper(s Shaper) Shaper {
	prev := ActiveShaper()
	if s == nil {
		activeShaper.Store(nil)
		return prev
	}
	activeShaper.Store(&s)
	return prev
}

// ActiveShaper returns the process-wide shaper.
func ActiveShaper() Shaper {
	if p := activeShaper.Load(); p != nil {
		return *p
	}
	return defaultShaper
}

var defaultShaper Shaper = NewGoTextShaper()
