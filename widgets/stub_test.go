package widgets

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/ui"
)

// testContext builds a Context without GPU resources; layout tests
// never touch them.
func testContext() *ui.Context {
	return ui.NewContext(ui.ContextResources{Config: matcha.DefaultConfig()})
}

// sq is a shorthand for a fixed-size square emitting string events.
func sq(w, h float64) *Square[string] {
	return &Square[string]{Size: matcha.Size{W: w, H: h}, Color: matcha.White}
}

// origins extracts each arrangement's translation.
func origins(list []ui.Arrangement) []matcha.Vec2 {
	out := make([]matcha.Vec2, len(list))
	for i, a := range list {
		out[i] = a.ToGlobal(matcha.Vec2{})
	}
	return out
}
