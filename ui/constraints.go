package ui

import (
	"math"

	matcha "github.com/helgev-traP/matcha"
)

// constraintQuant is the sub-pixel grid for constraint cache keys.
// Near-equal float constraints quantize to the same key, so a parent
// resizing by fractions of a pixel still hits the measure cache.
const constraintQuant = 256

// Constraints bound a widget's measured size on both axes. All values
// are ≥ 0 with min ≤ max; max may be +Inf for unbounded axes.
type Constraints struct {
	MinW, MaxW float64
	MinH, MaxH float64
}

// Unbounded returns constraints allowing any size.
func Unbounded() Constraints {
	return Constraints{MaxW: math.Inf(1), MaxH: math.Inf(1)}
}

// Loose returns constraints from zero up to the given size.
func Loose(max matcha.Size) Constraints {
	return Constraints{MaxW: max.W, MaxH: max.H}
}

// Tight returns constraints forcing exactly the given size.
func Tight(size matcha.Size) Constraints {
	return Constraints{MinW: size.W, MaxW: size.W, MinH: size.H, MaxH: size.H}
}

// Clamp returns the size bounded into the constraints.
func (c Constraints) Clamp(s matcha.Size) matcha.Size {
	return matcha.Size{
		W: math.Min(math.Max(s.W, c.MinW), c.MaxW),
		H: math.Min(math.Max(s.H, c.MinH), c.MaxH),
	}
}

// Contains reports whether the size satisfies the constraints.
func (c Constraints) Contains(s matcha.Size) bool {
	return s.W >= c.MinW && s.W <= c.MaxW && s.H >= c.MinH && s.H <= c.MaxH
}

// Shrink removes a fixed inset from both axes, flooring at zero.
// Unbounded maxima stay unbounded.
func (c Constraints) Shrink(w, h float64) Constraints {
	out := Constraints{
		MinW: math.Max(c.MinW-w, 0),
		MinH: math.Max(c.MinH-h, 0),
		MaxW: c.MaxW,
		MaxH: c.MaxH,
	}
	if !math.IsInf(c.MaxW, 1) {
		out.MaxW = math.Max(c.MaxW-w, 0)
	}
	if !math.IsInf(c.MaxH, 1) {
		out.MaxH = math.Max(c.MaxH-h, 0)
	}
	return out
}

// ConstraintsKey is the quantized cache key of a Constraints value.
type ConstraintsKey struct {
	MinW, MaxW int32
	MinH, MaxH int32
}

// Key quantizes the constraints to the sub-pixel grid. Infinite
// maxima map to the largest key value so all unbounded constraints
// share a slot.
func (c Constraints) Key() ConstraintsKey {
	return ConstraintsKey{
		MinW: quantize(c.MinW),
		MaxW: quantize(c.MaxW),
		MinH: quantize(c.MinH),
		MaxH: quantize(c.MaxH),
	}
}

func quantize(v float64) int32 {
	if math.IsInf(v, 1) {
		return math.MaxInt32
	}
	q := math.Round(v * constraintQuant)
	if q > math.MaxInt32 {
		return math.MaxInt32
	}
	if q < 0 {
		return 0
	}
	return int32(q)
}
