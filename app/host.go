package app

import (
	"sync"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
)

// WindowID identifies a host window. IDs are assigned by the host and
// are stable for the lifetime of the window.
type WindowID uint64

// WindowEvent is a raw platform event tagged with the window that
// received it.
type WindowEvent struct {
	Window WindowID
	Raw    input.RawEvent
}

// Host abstracts the windowing platform. A host implementation queues
// platform events and app messages on its own threads; the UI loop
// drains both with the Poll methods between frames.
type Host interface {
	// PollEvents drains the queued window events in arrival order.
	PollEvents() []WindowEvent

	// PostMessage enqueues an application message. Safe to call from
	// any goroutine; the typical use is waking the UI loop from a
	// background task.
	PostMessage(msg any)

	// PollMessages drains the queued application messages in post
	// order.
	PollMessages() []any

	// CursorPos reports the cursor position in window-local logical
	// coordinates. ok is false when the cursor is outside the window
	// or the window is unknown.
	CursorPos(id WindowID) (pos matcha.Vec2, ok bool)

	// WindowSize reports the window's current inner size in pixels.
	WindowSize(id WindowID) (width, height int, ok bool)
}

// EventTarget receives raw events for one window. *Window[E]
// implements it.
type EventTarget interface {
	DeliverRaw(raw input.RawEvent)
}

// Dispatcher fans host window events out to registered windows.
// Events for unknown windows are dropped with a debug log; a host may
// deliver a few events for a window that was just closed.
type Dispatcher struct {
	mu      sync.Mutex
	targets map[WindowID]EventTarget
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{targets: make(map[WindowID]EventTarget)}
}

// Register routes events for id to t, replacing any previous target.
func (d *Dispatcher) Register(id WindowID, t EventTarget) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.targets[id] = t
}

// Unregister stops routing events for id.
func (d *Dispatcher) Unregister(id WindowID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.targets, id)
}

// Pump drains the host's queued window events and delivers each to
// its registered target.
func (d *Dispatcher) Pump(h Host) {
	for _, ev := range h.PollEvents() {
		d.mu.Lock()
		t, ok := d.targets[ev.Window]
		d.mu.Unlock()
		if !ok {
			matcha.Logger().Debug("dropping event for unknown window",
				"window", uint64(ev.Window))
			continue
		}
		t.DeliverRaw(ev.Raw)
	}
}

// MessageQueue is a threadsafe FIFO hosts can embed to satisfy the
// PostMessage/PollMessages half of Host.
type MessageQueue struct {
	mu   sync.Mutex
	msgs []any
}

// PostMessage enqueues msg.
func (q *MessageQueue) PostMessage(msg any) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msg)
}

// PollMessages drains and returns every queued message.
func (q *MessageQueue) PollMessages() []any {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.msgs
	q.msgs = nil
	return out
}
