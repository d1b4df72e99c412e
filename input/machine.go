package input

import (
	"time"

	matcha "github.com/helgev-traP/matcha"
)

// MachineConfig holds the gesture thresholds.
type MachineConfig struct {
	// ComboDuration is the maximum release-to-press interval counted
	// into the same click combo. Must not exceed LongPressDuration.
	ComboDuration time.Duration

	// LongPressDuration is how long a button must be held, without
	// dragging, before a long press is reported.
	LongPressDuration time.Duration

	// ScrollPixelsPerLine converts line-based wheel deltas to pixels.
	ScrollPixelsPerLine float64

	// PrimaryButton is the button driving click gestures. Stored for
	// widgets that only react to the primary button.
	PrimaryButton matcha.MouseButton
}

// DefaultMachineConfig returns the default thresholds.
func DefaultMachineConfig() MachineConfig {
	return MachineConfig{
		ComboDuration:       matcha.DefaultDoubleClick,
		LongPressDuration:   matcha.DefaultLongPress,
		ScrollPixelsPerLine: matcha.DefaultScrollPixelsPerLine,
		PrimaryButton:       matcha.MouseLeft,
	}
}

// buttonState is the per-button gesture state.
type buttonState struct {
	state      PressState
	lastPress  time.Time
	combo      int
	dragOrigin *matcha.Vec2
}

// Machine derives semantic gestures from raw device events.
//
// Machine is single-owner: the UI task feeds it raw events and
// dispatches the returned semantic events before the next push. It is
// not safe for concurrent use.
type Machine struct {
	config MachineConfig

	buttons map[matcha.MouseButton]*buttonState

	// Keyboard press-order sequence. Key repeat appends duplicates; a
	// release removes the first entry with the matching physical code.
	pressOrder []KeyPress
	mods       Modifiers

	cursor     matcha.Vec2
	cursorIn   bool
	windowSize matcha.Size
	windowPos  matcha.Vec2
}

// NewMachine creates a machine with the given thresholds. It returns
// a ConfigError when ComboDuration exceeds LongPressDuration: a combo
// window longer than the long-press threshold would let a second press
// land on an already long-pressed button.
func NewMachine(config MachineConfig) (*Machine, error) {
	if config.ComboDuration <= 0 {
		return nil, &matcha.ConfigError{Field: "ComboDuration", Reason: "must be positive"}
	}
	if config.LongPressDuration <= 0 {
		return nil, &matcha.ConfigError{Field: "LongPressDuration", Reason: "must be positive"}
	}
	if config.ComboDuration > config.LongPressDuration {
		return nil, &matcha.ConfigError{Field: "ComboDuration", Reason: "must not exceed LongPressDuration"}
	}
	if config.ScrollPixelsPerLine <= 0 {
		config.ScrollPixelsPerLine = matcha.DefaultScrollPixelsPerLine
	}
	return &Machine{
		config:  config,
		buttons: make(map[matcha.MouseButton]*buttonState),
	}, nil
}

// Push feeds one raw event and returns the semantic events it caused,
// in emission order.
func (m *Machine) Push(raw RawEvent) []Event {
	switch ev := raw.(type) {
	case RawButton:
		return m.pushButton(ev)
	case RawCursor:
		return m.pushCursor(ev)
	case RawCursorEnter:
		m.cursor = ev.Pos
		m.cursorIn = true
		return []Event{Enter{Pos: ev.Pos}}
	case RawCursorLeave:
		m.cursorIn = false
		return []Event{Leave{}}
	case RawWheel:
		return []Event{Scroll{
			Pos:   m.cursor,
			Delta: ev.DeltaLines.Mul(m.config.ScrollPixelsPerLine),
		}}
	case RawKey:
		return m.pushKey(ev)
	case RawModifiers:
		m.mods = ev.Mods
		return []Event{ModifiersChanged{Mods: ev.Mods}}
	case RawWindowResized:
		m.windowSize = ev.Size
		return nil
	case RawWindowMoved:
		m.windowPos = ev.Pos
		return nil
	default:
		return nil
	}
}

// Tick advances time-based transitions. A button held past the
// long-press threshold without a drag origin transitions to
// LongPressed and emits the corresponding click event.
func (m *Machine) Tick(now time.Time) []Event {
	var out []Event
	for button, b := range m.buttons {
		if b.state != Pressed || b.dragOrigin != nil {
			continue
		}
		if now.Sub(b.lastPress) < m.config.LongPressDuration {
			continue
		}
		b.state = LongPressed
		out = append(out, Click{
			Button: button,
			State:  LongPressed,
			Combo:  b.combo,
			Pos:    m.cursor,
		})
	}
	return out
}

func (m *Machine) pushButton(ev RawButton) []Event {
	b := m.button(ev.Button)

	if ev.Pressed {
		if b.state != Released {
			// Duplicate press report; ignore.
			return nil
		}
		if b.combo > 0 && ev.Time.Sub(b.lastPress) <= m.config.ComboDuration {
			b.combo++
		} else {
			b.combo = 1
		}
		b.state = Pressed
		b.lastPress = ev.Time
		b.dragOrigin = nil
		return []Event{Click{Button: ev.Button, State: Pressed, Combo: b.combo, Pos: m.cursor}}
	}

	if b.state == Released {
		return nil
	}
	b.state = Released
	b.dragOrigin = nil
	return []Event{Click{Button: ev.Button, State: Released, Combo: b.combo, Pos: m.cursor}}
}

func (m *Machine) pushCursor(ev RawCursor) []Event {
	delta := ev.Pos.Sub(m.cursor)
	prev := m.cursor
	m.cursor = ev.Pos

	var drag map[matcha.MouseButton]matcha.Vec2
	for button, b := range m.buttons {
		if b.state != Pressed {
			// A long-pressed button stays long-pressed; motion after
			// the transition does not start a drag for it.
			continue
		}
		if b.dragOrigin == nil {
			origin := prev
			b.dragOrigin = &origin
		}
		if drag == nil {
			drag = make(map[matcha.MouseButton]matcha.Vec2)
		}
		drag[button] = *b.dragOrigin
	}

	return []Event{Move{Pos: ev.Pos, Delta: delta, DragFrom: drag}}
}

func (m *Machine) pushKey(ev RawKey) []Event {
	if ev.Pressed {
		// Key repeat arrives as presses without a release and is
		// appended like any other press.
		m.pressOrder = append(m.pressOrder, KeyPress{Code: ev.Code, Logical: ev.Logical})
	} else {
		for i, kp := range m.pressOrder {
			if kp.Code == ev.Code {
				m.pressOrder = append(m.pressOrder[:i], m.pressOrder[i+1:]...)
				break
			}
		}
	}
	return []Event{Key{Code: ev.Code, Logical: ev.Logical, Pressed: ev.Pressed, Mods: m.mods}}
}

// button returns the state record for a button, creating it on first use.
func (m *Machine) button(b matcha.MouseButton) *buttonState {
	s, ok := m.buttons[b]
	if !ok {
		s = &buttonState{state: Released}
		m.buttons[b] = s
	}
	return s
}

// ButtonState returns the current press state of a button.
func (m *Machine) ButtonState(b matcha.MouseButton) PressState {
	if s, ok := m.buttons[b]; ok {
		return s.state
	}
	return Released
}

// Cursor returns the last-seen cursor position.
func (m *Machine) Cursor() matcha.Vec2 { return m.cursor }

// CursorInside reports whether the cursor is inside the window.
func (m *Machine) CursorInside() bool { return m.cursorIn }

// PressedKeys returns the keyboard press-order sequence, oldest first.
// The returned slice is a copy.
func (m *Machine) PressedKeys() []KeyPress {
	out := make([]KeyPress, len(m.pressOrder))
	copy(out, m.pressOrder)
	return out
}

// Modifiers returns the active modifier bitmask.
func (m *Machine) Modifiers() Modifiers { return m.mods }

// WindowSize returns the last-seen window size.
func (m *Machine) WindowSize() matcha.Size { return m.windowSize }

// WindowPos returns the last-seen window position.
func (m *Machine) WindowPos() matcha.Vec2 { return m.windowPos }
