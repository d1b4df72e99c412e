package matcha

// Color represents a straight-alpha RGBA color with each channel
// in [0, 1]. It is the color type consumed by draw commands and the
// window base color.
type Color struct {
	R, G, B, A float64
}

// RGBA creates a color from individual channels. Values are clamped
// to [0, 1].
func RGBA(r, g, b, a float64) Color {
	return Color{
		R: clamp01(r),
		G: clamp01(g),
		B: clamp01(b),
		A: clamp01(a),
	}
}

// RGB creates an opaque color.
func RGB(r, g, b float64) Color {
	return RGBA(r, g, b, 1)
}

// Premultiplied returns the color with RGB channels multiplied by
// alpha, the form the GPU blend pipelines consume.
func (c Color) Premultiplied() Color {
	return Color{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Common colors.
var (
	Transparent = Color{0, 0, 0, 0}
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
