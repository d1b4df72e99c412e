package text

import "testing"

func TestGoTextShaperBasic(t *testing.T) {
	s := newTestSource(t)
	shaper := NewGoTextShaper()

	glyphs := shaper.Shape("ABC", s, 14, DirectionLTR)
	if len(glyphs) != 3 {
		t.Fatalf("shaped %d glyphs, want 3", len(glyphs))
	}
	for i, g := range glyphs {
		if g.GID == 0 {
			t.Errorf("glyph %d has GID 0 (.notdef)", i)
		}
		if g.XAdvance <= 0 {
			t.Errorf("glyph %d XAdvance = %v, want positive", i, g.XAdvance)
		}
		if g.Cluster != i {
			t.Errorf("glyph %d cluster = %d, want %d", i, g.Cluster, i)
		}
	}
	if glyphs[0].Rune != 'A' || glyphs[1].Rune != 'B' || glyphs[2].Rune != 'C' {
		t.Errorf("runes = %q %q %q, want A B C", glyphs[0].Rune, glyphs[1].Rune, glyphs[2].Rune)
	}
	// The pen moves right.
	if !(glyphs[0].X < glyphs[1].X && glyphs[1].X < glyphs[2].X) {
		t.Errorf("X positions not increasing: %v %v %v", glyphs[0].X, glyphs[1].X, glyphs[2].X)
	}
}

func TestGoTextShaperEmpty(t *testing.T) {
	s := newTestSource(t)
	shaper := NewGoTextShaper()

	if got := shaper.Shape("", s, 14, DirectionLTR); got != nil {
		t.Errorf("Shape(\"\") = %v, want nil", got)
	}
	if got := shaper.Shape("x", nil, 14, DirectionLTR); got != nil {
		t.Errorf("Shape with nil source = %v, want nil", got)
	}
}

func TestSetShaper(t *testing.T) {
	s := newTestSource(t)
	stub := &countingShaper{}

	prev := SetShaper(stub)
	defer SetShaper(prev)

	ActiveShaper().Shape("hi", s, 14, DirectionLTR)
	if stub.calls != 1 {
		t.Errorf("stub calls = %d, want 1", stub.calls)
	}

	SetShaper(nil)
	if _, ok := ActiveShaper().(*GoTextShaper); !ok {
		t.Errorf("ActiveShaper after reset = %T, want *GoTextShaper", ActiveShaper())
	}
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"latin", "hello", DirectionLTR},
		{"hebrew", "שלום", DirectionRTL},
		{"arabic", "مرحبا", DirectionRTL},
		{"empty", "", DirectionLTR},
		{"digits", "123", DirectionLTR},
		{"mixed leading latin", "abc שלום", DirectionLTR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDirection(tt.text); got != tt.want {
				t.Errorf("DetectDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

// countingShaper is a test shaper producing one fixed-advance glyph
// per rune.
type countingShaper struct {
	calls int
}

func (c *countingShaper) Shape(text string, source *FontSource, size float64, dir Direction) []ShapedGlyph {
	c.calls++
	runes := []rune(text)
	out := make([]ShapedGlyph, len(runes))
	for i, r := range runes {
		out[i] = ShapedGlyph{
			GID:      GlyphID(r),
			Rune:     r,
			Cluster:  i,
			X:        float64(i) * size,
			XAdvance: size,
		}
	}
	return out
}
