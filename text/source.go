package text

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/draw"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// sizeQuant is the quantization factor for font sizes used as cache
// keys. Sizes are rounded to quarter points so nearby float sizes
// share rasterized glyphs.
const sizeQuant = 4

// QuantizeSize rounds a font size to the quarter-point grid used by
// the glyph and shaping caches.
func QuantizeSize(size float64) int16 {
	q := int64(size*sizeQuant + 0.5)
	if q < 1 {
		q = 1
	}
	if q > 1<<15-1 {
		q = 1<<15 - 1
	}
	return int16(q)
}

// UnquantizeSize converts a quantized size back to points.
func UnquantizeSize(q int16) float64 {
	return float64(q) / sizeQuant
}

// GlyphMetrics describes one rasterized glyph. Offsets are relative
// to the pen position on the baseline; Y grows downward, so OffsetY
// is negative for glyphs extending above the baseline.
type GlyphMetrics struct {
	// Width and Height are the mask dimensions in pixels. Both are
	// zero for whitespace.
	Width  int
	Height int

	// OffsetX and OffsetY place the mask's top-left corner relative
	// to the pen position.
	OffsetX float64
	OffsetY float64

	// Advance is the horizontal pen advance in pixels.
	Advance float64
}

// LineMetrics describes the vertical extents of a face at one size.
type LineMetrics struct {
	// Ascent is the distance from the baseline to the top of the
	// tallest glyph, in pixels.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the
	// lowest glyph, in pixels.
	Descent float64

	// Height is the recommended line spacing.
	Height float64
}

// FontSource is a loaded font file. It carries two parsed views of
// the same data: a go-text font for HarfBuzz shaping and an sfnt font
// for rasterization. FontSource is heavyweight and should be shared
// across the application.
//
// FontSource is safe for concurrent use and must not be copied after
// creation.
type FontSource struct {
	// addr points to the FontSource itself for copy detection.
	addr *FontSource

	data []byte
	hash uint64

	shaping *font.Font
	raster  *sfnt.Font

	mu     sync.Mutex
	faces  map[int16]xfont.Face // quantized size -> rasterizer face
	closed bool
}

// NewFontSource parses TTF or OTF font data. The data slice is copied
// and can be reused after the call.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	shapingFace, err := font.ParseTTF(bytes.NewReader(dataCopy))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontParse, err)
	}
	rasterFont, err := sfnt.Parse(dataCopy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontParse, err)
	}

	h := fnv.New64a()
	h.Write(dataCopy)

	s := &FontSource{
		data:    dataCopy,
		hash:    h.Sum64(),
		shaping: shapingFace.Font,
		raster:  rasterFont,
		faces:   make(map[int16]xfont.Face),
	}
	s.addr = s
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: read font file: %w", err)
	}
	return NewFontSource(data)
}

// Hash returns the FNV-1a hash of the font data, stable across
// processes and used in cache keys.
func (s *FontSource) Hash() uint64 {
	s.copyCheck()
	return s.hash
}

// Font returns the go-text font used for shaping.
func (s *FontSource) Font() *font.Font {
	s.copyCheck()
	return s.shaping
}

// faceLocked returns the rasterizer face for a quantized size,
// creating it on first use. Caller holds s.mu.
func (s *FontSource) faceLocked(q int16) (xfont.Face, error) {
	if f, ok := s.faces[q]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(s.raster, &opentype.FaceOptions{
		Size:    UnquantizeSize(q),
		DPI:     72,
		Hinting: xfont.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontParse, err)
	}
	s.faces[q] = f
	return f, nil
}

// RasterizeGlyph renders one rune at the given size into a tight
// alpha mask. The mask is nil for whitespace; the metrics still carry
// the advance.
func (s *FontSource) RasterizeGlyph(r rune, size float64) (*image.Alpha, GlyphMetrics, error) {
	s.copyCheck()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, GlyphMetrics{}, ErrSourceClosed
	}
	face, err := s.faceLocked(QuantizeSize(size))
	if err != nil {
		return nil, GlyphMetrics{}, err
	}

	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, GlyphMetrics{}, fmt.Errorf("%w: %q", ErrNoGlyph, r)
	}

	m := GlyphMetrics{
		Width:   dr.Dx(),
		Height:  dr.Dy(),
		OffsetX: float64(dr.Min.X),
		OffsetY: float64(dr.Min.Y),
		Advance: fixedToFloat(advance),
	}
	if dr.Empty() {
		return nil, m, nil
	}

	tight := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
	draw.Draw(tight, tight.Bounds(), mask, maskp, draw.Src)
	return tight, m, nil
}

// Metrics returns the line metrics of the face at the given size.
func (s *FontSource) Metrics(size float64) (LineMetrics, error) {
	s.copyCheck()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return LineMetrics{}, ErrSourceClosed
	}
	face, err := s.faceLocked(QuantizeSize(size))
	if err != nil {
		return LineMetrics{}, err
	}
	fm := face.Metrics()
	return LineMetrics{
		Ascent:  fixedToFloat(fm.Ascent),
		Descent: fixedToFloat(fm.Descent),
		Height:  fixedToFloat(fm.Height),
	}, nil
}

// Close releases the rasterizer faces. Shaping and rasterization fail
// after Close.
func (s *FontSource) Close() error {
	s.copyCheck()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	for _, f := range s.faces {
		if c, ok := f.(interface{ Close() error }); ok {
			c.Close()
		}
	}
	s.faces = nil
	s.closed = true
	return nil
}

// copyCheck panics when the FontSource was copied by value.
func (s *FontSource) copyCheck() {
	if s.addr != s {
		panic("text: FontSource must not be copied by value")
	}
}
