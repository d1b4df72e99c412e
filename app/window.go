package app

import (
	"time"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/gpu"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
	"github.com/helgev-traP/matcha/ui"
)

// Window owns one widget tree and the per-window frame state: the
// input machine, the update notifier the tree's components fire, and
// the renderer submitting to the window's surface.
//
// Window is owned by the UI task; all methods must be called from it.
type Window[E any] struct {
	config matcha.Config

	resources ui.ContextResources
	ctx       *ui.Context

	root   ui.Dom[E]
	widget ui.Widget[E]

	notifier ui.Notifier
	machine  *input.Machine

	surface  Surface
	renderer *render.Renderer
	uploader gpu.Uploader

	lastSize matcha.Size
	sink     func(E)
}

// WindowOptions bundles what a window needs beyond the shared
// resources.
type WindowOptions[E any] struct {
	// Root is the declarative tree the window shows.
	Root ui.Dom[E]

	// Surface is the render target; nil runs the window headless
	// (frames are built and submitted but never presented).
	Surface Surface

	// Renderer submits frame meshes. Required.
	Renderer *render.Renderer

	// Uploader flushes atlas writes before submit. Required when the
	// shared resources include atlases.
	Uploader gpu.Uploader

	// OnEvent receives messages the root tree emits. May be nil.
	OnEvent func(E)
}

// NewWindow creates a window over the shared resources. The root Dom
// gets the window's notifier, so any component below it wakes the
// scheduler on model updates.
func NewWindow[E any](config matcha.Config, res ui.ContextResources, opts WindowOptions[E]) (*Window[E], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	machine, err := input.NewMachine(input.MachineConfig{
		ComboDuration:       config.DoubleClick,
		LongPressDuration:   config.LongPress,
		ScrollPixelsPerLine: config.ScrollPixelsPerLine,
		PrimaryButton:       config.PrimaryButton,
	})
	if err != nil {
		return nil, err
	}
	w := &Window[E]{
		config:    config,
		resources: res,
		ctx:       ui.NewContext(res),
		root:      opts.Root,
		machine:   machine,
		surface:   opts.Surface,
		renderer:  opts.Renderer,
		uploader:  opts.Uploader,
		lastSize:  matcha.Size{W: config.Width, H: config.Height},
		sink:      opts.OnEvent,
	}
	w.root.SetUpdateNotifier(&w.notifier)
	return w, nil
}

// Notifier returns the window's update notifier.
func (w *Window[E]) Notifier() *ui.Notifier { return &w.notifier }

// Machine returns the window's input state machine.
func (w *Window[E]) Machine() *input.Machine { return w.machine }

// DeliverRaw feeds one raw host event through the input machine and
// dispatches the resulting semantic events into the widget tree.
func (w *Window[E]) DeliverRaw(raw input.RawEvent) {
	w.dispatch(w.machine.Push(raw))
}

// Tick advances the machine's time-based gestures (long press).
func (w *Window[E]) Tick(now time.Time) {
	w.dispatch(w.machine.Tick(now))
}

func (w *Window[E]) dispatch(events []input.Event) {
	if w.widget == nil {
		return
	}
	for _, ev := range events {
		for _, out := range w.widget.HandleEvent(w.ctx, ev, w.lastSize) {
			if w.sink != nil {
				w.sink(out)
			}
		}
	}
}

// NeedsFrame reports whether the next scheduler tick should run a
// frame: the tree was never built, a widget wants a repaint, or a
// component model changed.
func (w *Window[E]) NeedsFrame() bool {
	if w.widget == nil || w.config.Debug.DisableRenderCache {
		return true
	}
	return w.widget.NeedRedraw() || w.notifier.Dirty()
}

// Frame runs one frame: reconcile when dirty, measure, arrange,
// build the render graph, flush atlas uploads, submit, present.
//
// A surface-acquisition failure is retried once; on the second
// failure the frame is skipped with the redraw bit left raised, so
// the previous frame stays visible and the next tick retries.
func (w *Window[E]) Frame() error {
	modelDirty := w.notifier.Consume()

	switch {
	case w.widget == nil || w.config.Debug.AlwaysRebuildWidget:
		if w.widget != nil {
			w.widget.Release(w.ctx)
		}
		w.widget = w.root.BuildWidgetTree(w.ctx)
	case modelDirty:
		w.widget = ui.Reconcile(w.ctx, w.widget, w.root)
	}

	width, height, err := w.acquire()
	if err != nil {
		w.widget.LayoutNode().MarkRedraw()
		return err
	}
	size := matcha.Size{W: float64(width), H: float64(height)}
	if size.IsZero() {
		size = w.lastSize
	}
	w.lastSize = size

	final := w.widget.Measure(w.ctx, ui.Tight(size))
	w.widget.Arrange(w.ctx, final)

	b := render.NewBuilder()
	defer b.Release()
	w.widget.Render(w.ctx, b, final, matcha.Identity())

	if err := w.flush(); err != nil {
		w.widget.LayoutNode().MarkRedraw()
		return err
	}

	mesh := render.BuildMesh(b.Commands())
	if err := w.renderer.Submit(mesh, width, height, w.config.BaseColor); err != nil {
		w.widget.LayoutNode().MarkRedraw()
		return err
	}
	if w.surface != nil {
		if err := w.surface.Present(); err != nil {
			w.widget.LayoutNode().MarkRedraw()
			return err
		}
	}
	return nil
}

// acquire obtains the surface target, retrying a transient failure
// once.
func (w *Window[E]) acquire() (int, int, error) {
	if w.surface == nil {
		return int(w.lastSize.W), int(w.lastSize.H), nil
	}
	width, height, err := w.surface.Acquire()
	if err == nil {
		return width, height, nil
	}
	matcha.Logger().Warn("app: surface acquire failed, retrying", "err", err)
	return w.surface.Acquire()
}

// flush pushes pending atlas and buffer writes to the queue before
// the frame references them.
func (w *Window[E]) flush() error {
	if w.uploader == nil {
		return nil
	}
	if w.resources.Atlases != nil {
		if err := w.resources.Atlases.Flash(w.uploader); err != nil {
			return err
		}
	}
	if w.resources.Uniforms != nil {
		if err := w.resources.Uniforms.Flash(w.uploader); err != nil {
			return err
		}
	}
	return nil
}

// Release tears down the widget tree and its GPU handles.
func (w *Window[E]) Release() {
	if w.widget != nil {
		w.widget.Release(w.ctx)
		w.widget = nil
	}
}
