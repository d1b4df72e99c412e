package matcha

import (
	"math"
	"testing"
)

func TestAffineIdentity(t *testing.T) {
	id := Identity()
	p := V2(3.5, -7.25)
	if got := id.Apply(p); got != p {
		t.Errorf("Identity().Apply(%v) = %v, want %v", p, got, p)
	}
	if !id.IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
}

func TestAffineMulApply(t *testing.T) {
	// Translate then scale must equal applying translate first.
	m := Scale(2, 3).Mul(Translate(1, 1))
	got := m.Apply(V2(0, 0))
	want := V2(2, 3)
	if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
		t.Errorf("composed transform applied to origin = %v, want %v", got, want)
	}
}

func TestAffineInvertRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
	}{
		{"identity", Identity()},
		{"translate", Translate(12.5, -3)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(math.Pi / 3)},
		{"composed", Translate(100, 50).Mul(Rotate(0.7)).Mul(Scale(1.5, 2.25))},
	}

	points := []Vec2{{0, 0}, {1, 1}, {-35.5, 820.125}, {1e4, -1e4}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.Invert()
			if !ok {
				t.Fatalf("Invert() reported singular for %+v", tt.m)
			}
			for _, p := range points {
				q := tt.m.Apply(inv.Apply(p))
				if math.Abs(q.X-p.X) > 1e-5 || math.Abs(q.Y-p.Y) > 1e-5 {
					t.Errorf("to_global(to_local(%v)) = %v, want within 1e-5", p, q)
				}
			}
		})
	}
}

func TestAffineInvertSingular(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
	}{
		{"zero scale", Scale(0, 1)},
		{"collapsed", Affine{A: 1, B: 2, D: 2, E: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.m.Invert(); ok {
				t.Errorf("Invert() = ok for singular matrix %+v", tt.m)
			}
		})
	}
}
