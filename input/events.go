package input

import (
	"time"

	matcha "github.com/helgev-traP/matcha"
)

// PressState is the high-level state of a mouse button.
type PressState int

const (
	// Released means the button is up.
	Released PressState = iota
	// Pressed means the button is down and has not yet long-pressed.
	Pressed
	// LongPressed means the button has been held past the long-press
	// threshold without dragging.
	LongPressed
)

// String returns the string representation of the press state.
func (s PressState) String() string {
	switch s {
	case Released:
		return "Released"
	case Pressed:
		return "Pressed"
	case LongPressed:
		return "LongPressed"
	default:
		return "Unknown"
	}
}

// Modifiers is a bitmask of active keyboard modifiers.
type Modifiers uint8

// Modifier bits.
const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Has reports whether all bits in m are active.
func (mods Modifiers) Has(m Modifiers) bool { return mods&m == m }

// KeyPress is one entry of the keyboard press-order sequence.
type KeyPress struct {
	// Code is the physical key code reported by the host.
	Code uint32
	// Logical is the logical key value after layout mapping.
	Logical string
}

// Raw events delivered by the host.

// RawEvent is implemented by every raw device event.
type RawEvent interface{ isRawEvent() }

// RawButton is a physical mouse button transition.
type RawButton struct {
	Button  matcha.MouseButton
	Pressed bool
	Time    time.Time
}

// RawCursor is a cursor position report in window coordinates.
type RawCursor struct {
	Pos  matcha.Vec2
	Time time.Time
}

// RawCursorEnter reports the cursor entering the window.
type RawCursorEnter struct {
	Pos matcha.Vec2
}

// RawCursorLeave reports the cursor leaving the window.
type RawCursorLeave struct{}

// RawWheel is a scroll report. Delta is in lines; the machine converts
// to pixels using its configured factor.
type RawWheel struct {
	DeltaLines matcha.Vec2
	Time       time.Time
}

// RawKey is a physical key transition. Key repeat arrives as repeated
// presses without an intervening release.
type RawKey struct {
	Code    uint32
	Logical string
	Pressed bool
	Time    time.Time
}

// RawModifiers reports the new modifier bitmask.
type RawModifiers struct {
	Mods Modifiers
}

// RawWindowResized reports the new window size.
type RawWindowResized struct {
	Size matcha.Size
}

// RawWindowMoved reports the new window position.
type RawWindowMoved struct {
	Pos matcha.Vec2
}

func (RawButton) isRawEvent()        {}
func (RawCursor) isRawEvent()        {}
func (RawCursorEnter) isRawEvent()   {}
func (RawCursorLeave) isRawEvent()   {}
func (RawWheel) isRawEvent()         {}
func (RawKey) isRawEvent()           {}
func (RawModifiers) isRawEvent()     {}
func (RawWindowResized) isRawEvent() {}
func (RawWindowMoved) isRawEvent()   {}

// Semantic events emitted by the machine and dispatched into the
// widget tree.

// Event is implemented by every semantic input event. Transform maps
// any positional payload into another coordinate frame; containers use
// it to hand events to children in the child's local frame.
type Event interface {
	Transform(m matcha.Affine) Event
}

// Click is a button gesture transition.
type Click struct {
	// Button is the physical button.
	Button matcha.MouseButton
	// State is the transition the button entered.
	State PressState
	// Combo is the consecutive-click count at this transition.
	Combo int
	// Pos is the cursor position in the receiver's frame.
	Pos matcha.Vec2
}

// Move is cursor motion, carrying per-button drag origins for every
// button currently dragging.
type Move struct {
	// Pos is the cursor position in the receiver's frame.
	Pos matcha.Vec2
	// Delta is the motion since the previous report.
	Delta matcha.Vec2
	// DragFrom maps each dragging button to the position where its
	// drag started, in the receiver's frame.
	DragFrom map[matcha.MouseButton]matcha.Vec2
}

// Enter reports the cursor entering the window.
type Enter struct {
	Pos matcha.Vec2
}

// Leave reports the cursor leaving the window.
type Leave struct{}

// Scroll is a wheel gesture in pixels.
type Scroll struct {
	Pos   matcha.Vec2
	Delta matcha.Vec2
}

// Key is a keyboard transition. The full press-order sequence is
// available from the machine.
type Key struct {
	Code    uint32
	Logical string
	Pressed bool
	Mods    Modifiers
}

// ModifiersChanged reports a change of the modifier bitmask.
type ModifiersChanged struct {
	Mods Modifiers
}

// Transform implementations. Positions map through the full affine;
// deltas map through the linear part only.

func (e Click) Transform(m matcha.Affine) Event {
	e.Pos = m.Apply(e.Pos)
	return e
}

func (e Move) Transform(m matcha.Affine) Event {
	e.Pos = m.Apply(e.Pos)
	e.Delta = applyLinear(m, e.Delta)
	if len(e.DragFrom) > 0 {
		mapped := make(map[matcha.MouseButton]matcha.Vec2, len(e.DragFrom))
		for b, p := range e.DragFrom {
			mapped[b] = m.Apply(p)
		}
		e.DragFrom = mapped
	}
	return e
}

func (e Enter) Transform(m matcha.Affine) Event {
	e.Pos = m.Apply(e.Pos)
	return e
}

func (e Leave) Transform(matcha.Affine) Event { return e }

func (e Scroll) Transform(m matcha.Affine) Event {
	e.Pos = m.Apply(e.Pos)
	e.Delta = applyLinear(m, e.Delta)
	return e
}

func (e Key) Transform(matcha.Affine) Event { return e }

func (e ModifiersChanged) Transform(matcha.Affine) Event { return e }

// applyLinear transforms a displacement, ignoring translation.
func applyLinear(m matcha.Affine, v matcha.Vec2) matcha.Vec2 {
	return matcha.Vec2{
		X: m.A*v.X + m.B*v.Y,
		Y: m.D*v.X + m.E*v.Y,
	}
}
