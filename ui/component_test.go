package ui

import (
	"testing"

	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
)

type counterModel struct {
	count int
}

func newCounterCell() *Component[counterModel, int, string, string] {
	return NewComponent(counterModel{}, ComponentFns[counterModel, int, string, string]{
		Update: func(delta int, m *counterModel) { m.count += delta },
		Event: func(inner string, m *counterModel) (string, bool) {
			return "outer:" + inner, true
		},
		View: func(m *counterModel) Dom[string] {
			h := float64(10 + m.count)
			return &leafDom{variant: "counter", size: matcha.Size{W: 10, H: h}}
		},
	})
}

func TestComponentDirtyLifecycle(t *testing.T) {
	ctx := testContext()
	cell := newCounterCell()

	if !cell.Dirty() {
		t.Fatal("fresh component is not dirty")
	}

	w := cell.Dom().BuildWidgetTree(ctx)
	if cell.Dirty() {
		t.Error("building the view did not lower the dirty flag")
	}

	cell.Update(5)
	if !cell.Dirty() {
		t.Error("Update did not raise the dirty flag")
	}

	// Reconciling the same dom consumes the flag and rebuilds the view
	// from the new model.
	w = Reconcile(ctx, w, cell.Dom())
	if cell.Dirty() {
		t.Error("reconcile did not lower the dirty flag")
	}
	s := w.Measure(ctx, Unbounded())
	if s != (matcha.Size{W: 10, H: 15}) {
		t.Errorf("view size = %v, want (10, 15)", s)
	}
}

func TestComponentViewOnlyWhenDirty(t *testing.T) {
	ctx := testContext()
	views := 0
	cell := NewComponent(counterModel{}, ComponentFns[counterModel, int, string, string]{
		Update: func(delta int, m *counterModel) { m.count += delta },
		View: func(m *counterModel) Dom[string] {
			views++
			return &leafDom{variant: "counter"}
		},
	})

	w := cell.Dom().BuildWidgetTree(ctx)
	if views != 1 {
		t.Fatalf("views = %d after build, want 1", views)
	}

	// Clean cell: reconcile keeps the old subtree without calling View.
	w = Reconcile(ctx, w, cell.Dom())
	if views != 1 {
		t.Errorf("views = %d after clean reconcile, want 1", views)
	}

	cell.Update(1)
	Reconcile(ctx, w, cell.Dom())
	if views != 2 {
		t.Errorf("views = %d after dirty reconcile, want 2", views)
	}
}

func TestComponentEventMapping(t *testing.T) {
	ctx := testContext()
	cell := newCounterCell()

	w := cell.Dom().BuildWidgetTree(ctx)
	size := w.Measure(ctx, Unbounded())

	out := w.HandleEvent(ctx, input.Click{State: input.Pressed, Pos: matcha.V2(1, 1)}, size)
	if len(out) != 1 || out[0] != "outer:press:counter" {
		t.Errorf("mapped events = %v, want [outer:press:counter]", out)
	}
}

func TestComponentEventDropped(t *testing.T) {
	ctx := testContext()
	cell := NewComponent(counterModel{}, ComponentFns[counterModel, int, string, string]{
		Event: func(inner string, m *counterModel) (string, bool) { return "", false },
		View: func(m *counterModel) Dom[string] {
			return &leafDom{variant: "counter"}
		},
	})

	w := cell.Dom().BuildWidgetTree(ctx)
	out := w.HandleEvent(ctx, input.Click{State: input.Pressed, Pos: matcha.V2(1, 1)}, matcha.Size{W: 10, H: 10})
	if len(out) != 0 {
		t.Errorf("dropped event leaked: %v", out)
	}
}

// A component nested inside a container must still reach the root
// notifier: the container dom forwards the notifier down, the
// component stores it, and a model update fires it. Without the
// forwarding the window never learns it has to repaint.
func TestComponentNotifierForwarding(t *testing.T) {
	ctx := testContext()
	cell := newCounterCell()

	root := &stackDom{children: []Dom[string]{
		&leafDom{variant: "header"},
		cell.Dom(),
	}}

	var n Notifier
	root.SetUpdateNotifier(&n)

	w := Reconcile[string](ctx, nil, Dom[string](root))
	w.ClearDirty()
	n.Consume()

	cell.Update(1)

	if !n.Dirty() {
		t.Fatal("model update did not reach the root notifier")
	}
	select {
	case <-n.Wake():
	default:
		t.Error("model update did not signal the wake channel")
	}

	// The next reconcile picks up the new model.
	w = Reconcile(ctx, w, Dom[string](root))
	s := w.Measure(ctx, Unbounded())
	if s.H != 21 {
		t.Errorf("stack height = %v, want 21 (header 0 + counter 11)", s.H)
	}
}

func TestComponentWriteRead(t *testing.T) {
	cell := newCounterCell()

	cell.Write(func(m *counterModel) { m.count = 42 })
	if !cell.Dirty() {
		t.Error("Write did not raise the dirty flag")
	}

	var got int
	cell.Read(func(m *counterModel) { got = m.count })
	if got != 42 {
		t.Errorf("Read saw count %d, want 42", got)
	}
}

func TestComponentNilViewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("nil View did not panic")
		}
	}()
	NewComponent(counterModel{}, ComponentFns[counterModel, int, string, string]{})
}
