package app

import (
	"sync"
	"time"

	matcha "github.com/helgev-traP/matcha"
)

// DefaultFrameInterval paces the scheduler when nothing wakes it
// early.
const DefaultFrameInterval = 16 * time.Millisecond

// Scheduler drives a window's frames cooperatively: it sleeps until
// the frame interval elapses or the window's notifier fires, runs
// time-based input transitions, and renders only when the window
// reports dirt. Clean ticks cost one channel poll.
type Scheduler[E any] struct {
	window   *Window[E]
	interval time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a scheduler for the window. A non-positive
// interval falls back to DefaultFrameInterval.
func NewScheduler[E any](w *Window[E], interval time.Duration) *Scheduler[E] {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Scheduler[E]{
		window:   w,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Stop signals the loop to exit after the in-flight frame. Safe to
// call more than once and from any goroutine.
func (s *Scheduler[E]) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Run loops until Stop. Frame errors are logged and the frame is
// skipped; the window keeps its redraw bit raised so the next tick
// retries.
func (s *Scheduler[E]) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-s.window.Notifier().Wake():
		case <-ticker.C:
		}

		// A stop racing a wake-up still exits before the next frame.
		select {
		case <-s.done:
			return
		default:
		}

		s.window.Tick(time.Now())
		if !s.window.NeedsFrame() {
			continue
		}
		if err := s.window.Frame(); err != nil {
			matcha.Logger().Warn("app: frame skipped", "err", err)
		}
	}
}

// RunFrame runs at most one frame immediately, ignoring pacing. Hosts
// with their own event loop (repaint-on-demand embeddings) call this
// instead of Run.
func (s *Scheduler[E]) RunFrame(now time.Time) error {
	s.window.Tick(now)
	if !s.window.NeedsFrame() {
		return nil
	}
	return s.window.Frame()
}
