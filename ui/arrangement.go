package ui

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
)

// Arrangement places one child within its parent: the final size the
// parent chose and the affine mapping child-local coordinates to
// parent-local coordinates. The inverse is computed once at
// construction; a singular affine leaves the child non-hit-testable
// while it still measures and may be skipped at render.
type Arrangement struct {
	Size   matcha.Size
	Affine matcha.Affine

	inv    matcha.Affine
	hasInv bool
}

// NewArrangement builds an arrangement and caches the affine inverse.
func NewArrangement(size matcha.Size, affine matcha.Affine) Arrangement {
	inv, ok := affine.Invert()
	return Arrangement{Size: size, Affine: affine, inv: inv, hasInv: ok}
}

// HitTestable reports whether the affine is invertible, i.e. whether
// parent-local points can be mapped into the child.
func (a Arrangement) HitTestable() bool { return a.hasInv }

// ToLocal maps a parent-local point into child-local coordinates.
// The second result is false when the affine is singular.
func (a Arrangement) ToLocal(p matcha.Vec2) (matcha.Vec2, bool) {
	if !a.hasInv {
		return matcha.Vec2{}, false
	}
	return a.inv.Apply(p), true
}

// ToGlobal maps a child-local point into parent-local coordinates.
func (a Arrangement) ToGlobal(p matcha.Vec2) matcha.Vec2 {
	return a.Affine.Apply(p)
}

// Contains reports whether a parent-local point falls inside the
// child's bounds.
func (a Arrangement) Contains(p matcha.Vec2) bool {
	local, ok := a.ToLocal(p)
	if !ok {
		return false
	}
	return local.X >= 0 && local.X < a.Size.W && local.Y >= 0 && local.Y < a.Size.H
}

// TransformEvent maps a semantic input event into the child's local
// frame. Returns false when the affine is singular.
func (a Arrangement) TransformEvent(ev input.Event) (input.Event, bool) {
	if !a.hasInv {
		return nil, false
	}
	return ev.Transform(a.inv), true
}
