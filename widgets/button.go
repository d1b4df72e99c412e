package widgets

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/ui"
)

// ButtonState is the interaction state of a button.
type ButtonState int

const (
	// ButtonNormal is the resting state.
	ButtonNormal ButtonState = iota
	// ButtonHovered means the cursor is over the button.
	ButtonHovered
	// ButtonPressed means a press started inside and has not been
	// released yet.
	ButtonPressed
)

// String returns the string representation of the button state.
func (s ButtonState) String() string {
	switch s {
	case ButtonNormal:
		return "Normal"
	case ButtonHovered:
		return "Hovered"
	case ButtonPressed:
		return "Pressed"
	default:
		return "Unknown"
	}
}

// Button wraps a child and emits one message when the primary button
// is pressed and then released inside its bounds. A release outside
// cancels without emitting.
type Button[E any] struct {
	// ChildKey is the reconcile key, empty for positional matching.
	ChildKey string

	Child ui.Dom[E]

	// OnClick produces the emitted message. A nil OnClick makes the
	// button inert.
	OnClick func() E
}

func (d *Button[E]) Key() string { return d.ChildKey }

func (d *Button[E]) SetUpdateNotifier(n *ui.Notifier) {
	if d.Child != nil {
		d.Child.SetUpdateNotifier(n)
	}
}

func (d *Button[E]) BuildWidgetTree(ctx *ui.Context) ui.Widget[E] {
	w := &buttonWidget[E]{
		Node:    ui.NewNode("button", d.ChildKey),
		onClick: d.OnClick,
	}
	if d.Child != nil {
		w.child = d.Child.BuildWidgetTree(ctx)
		w.child.LayoutNode().SetParent(&w.Node)
	}
	return w
}

type buttonWidget[E any] struct {
	ui.Node
	child   ui.Widget[E]
	onClick func() E
	state   ButtonState
}

// State returns the current interaction state.
func (w *buttonWidget[E]) State() ButtonState { return w.state }

func (w *buttonWidget[E]) Update(ctx *ui.Context, d ui.Dom[E]) error {
	bd, ok := d.(*Button[E])
	if !ok {
		return ui.ErrTypeMismatch
	}
	w.onClick = bd.OnClick
	if bd.Child == nil {
		if w.child != nil {
			w.child.Release(ctx)
			w.child = nil
			w.MarkRearrange()
		}
		return nil
	}
	w.child = ui.ReconcileChild(ctx, &w.Node, w.child, bd.Child)
	return nil
}

func (w *buttonWidget[E]) HandleEvent(ctx *ui.Context, ev input.Event, size matcha.Size) []E {
	var out []E
	if w.child != nil {
		out = w.child.HandleEvent(ctx, ev, size)
	}

	switch e := ev.(type) {
	case input.Click:
		if e.Button != ctx.Config().PrimaryButton {
			break
		}
		inside := insideBox(e.Pos, size)
		switch e.State {
		case input.Pressed:
			if inside {
				w.setState(ButtonPressed)
			}
		case input.Released:
			if w.state != ButtonPressed {
				break
			}
			if inside {
				w.setState(ButtonHovered)
				if w.onClick != nil {
					out = append(out, w.onClick())
				}
			} else {
				w.setState(ButtonNormal)
			}
		}
	case input.Move:
		switch {
		case w.state == ButtonPressed:
			// A drag keeps the press armed until release.
		case insideBox(e.Pos, size):
			w.setState(ButtonHovered)
		default:
			w.setState(ButtonNormal)
		}
	case input.Leave:
		if w.state != ButtonPressed {
			w.setState(ButtonNormal)
		}
	}
	return out
}

func (w *buttonWidget[E]) setState(s ButtonState) {
	if w.state != s {
		w.state = s
		w.MarkRedraw()
	}
}

func insideBox(p matcha.Vec2, size matcha.Size) bool {
	return p.X >= 0 && p.X < size.W && p.Y >= 0 && p.Y < size.H
}

func (w *buttonWidget[E]) Measure(ctx *ui.Context, c ui.Constraints) matcha.Size {
	if s, ok := w.CachedMeasure(ctx, c); ok {
		return s
	}
	var s matcha.Size
	if w.child != nil {
		s = w.child.Measure(ctx, c)
	} else {
		s = c.Clamp(matcha.Size{})
	}
	w.StoreMeasure(c, s)
	return s
}

func (w *buttonWidget[E]) Arrange(ctx *ui.Context, final matcha.Size) []ui.Arrangement {
	if list, ok := w.CachedArrange(ctx, final); ok {
		return list
	}
	var list []ui.Arrangement
	if w.child != nil {
		list = []ui.Arrangement{ui.NewArrangement(final, matcha.Identity())}
	}
	w.StoreArrange(final, list)
	return list
}

func (w *buttonWidget[E]) Render(ctx *ui.Context, b *render.Builder, final matcha.Size, tf matcha.Affine) {
	if w.child != nil {
		w.child.Render(ctx, b, final, tf)
	}
	w.ClearDirty()
}

func (w *buttonWidget[E]) Release(ctx *ui.Context) {
	if w.child != nil {
		w.child.Release(ctx)
	}
}

func (w *buttonWidget[E]) LayoutNode() *ui.Node { return &w.Node }
