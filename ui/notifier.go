package ui

import "sync/atomic"

// Notifier is the one-way wake signal between components and the
// frame scheduler. A component notifies when its model changes; the
// scheduler consumes the flag once per tick and blocks on the wake
// channel while nothing is dirty.
//
// Notifier is safe for concurrent use.
type Notifier struct {
	dirty atomic.Bool
	wake  chan struct{}
}

// NewNotifier creates a notifier.
func NewNotifier() *Notifier {
	return &Notifier{wake: make(chan struct{}, 1)}
}

// Notify raises the dirty flag and wakes a blocked scheduler. Safe to
// call from any goroutine, any number of times per frame.
func (n *Notifier) Notify() {
	n.dirty.Store(true)
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// Consume returns the dirty flag and lowers it.
func (n *Notifier) Consume() bool {
	return n.dirty.Swap(false)
}

// Dirty returns the dirty flag without lowering it.
func (n *Notifier) Dirty() bool {
	return n.dirty.Load()
}

// Wake returns the channel the scheduler blocks on between frames.
func (n *Notifier) Wake() <-chan struct{} {
	return n.wake
}
