package ui

import (
	"testing"

	matcha "github.com/helgev-traP/matcha"
)

func TestReconcileUpdateInPlace(t *testing.T) {
	ctx := testContext()

	w := Reconcile[string](ctx, nil, &leafDom{variant: "a", size: matcha.Size{W: 10, H: 10}})
	leaf := w.(*leafWidget)

	got := Reconcile[string](ctx, w, &leafDom{variant: "a", size: matcha.Size{W: 20, H: 20}})
	if got != w {
		t.Fatal("matching dom rebuilt the widget")
	}
	if leaf.updates != 1 || leaf.size != (matcha.Size{W: 20, H: 20}) {
		t.Errorf("update not applied: updates=%d size=%v", leaf.updates, leaf.size)
	}
	if leaf.released {
		t.Error("matched widget was released")
	}
}

func TestReconcileTypeMismatchRebuilds(t *testing.T) {
	ctx := testContext()

	w := Reconcile[string](ctx, nil, &leafDom{variant: "a"})
	leaf := w.(*leafWidget)

	got := Reconcile[string](ctx, w, &leafDom{variant: "b"})
	if got == w {
		t.Fatal("mismatched dom kept the old widget")
	}
	if !leaf.released {
		t.Error("replaced widget was not released")
	}
	if got.(*leafWidget).variant != "b" {
		t.Errorf("rebuilt widget variant = %q", got.(*leafWidget).variant)
	}
}

func TestReconcileChildrenKeyed(t *testing.T) {
	ctx := testContext()
	parent := NewNode("parent", "")

	old := ReconcileChildren(ctx, &parent, nil, []Dom[string]{
		&leafDom{key: "a", variant: "x"},
		&leafDom{key: "b", variant: "x"},
		&leafDom{key: "c", variant: "x"},
	})

	// Reorder and drop one child; keyed widgets keep their identity.
	next := ReconcileChildren(ctx, &parent, old, []Dom[string]{
		&leafDom{key: "c", variant: "x"},
		&leafDom{key: "a", variant: "x"},
	})

	if next[0] != old[2] || next[1] != old[0] {
		t.Error("keyed children lost identity across reorder")
	}
	if !old[1].(*leafWidget).released {
		t.Error("dropped child was not released")
	}
	if old[0].(*leafWidget).released || old[2].(*leafWidget).released {
		t.Error("surviving children were released")
	}
}

func TestReconcileChildrenPositional(t *testing.T) {
	ctx := testContext()
	parent := NewNode("parent", "")

	old := ReconcileChildren(ctx, &parent, nil, []Dom[string]{
		&leafDom{variant: "x"},
		&leafDom{variant: "x"},
	})

	next := ReconcileChildren(ctx, &parent, old, []Dom[string]{
		&leafDom{variant: "x", size: matcha.Size{W: 5, H: 5}},
		&leafDom{variant: "x"},
		&leafDom{variant: "x"},
	})

	if next[0] != old[0] || next[1] != old[1] {
		t.Error("positional children lost identity")
	}
	if next[0].(*leafWidget).updates != 1 {
		t.Error("matched child was not updated")
	}
	if next[2] == old[0] || next[2] == old[1] {
		t.Error("new child reused an old widget")
	}
	if next[2].LayoutNode().Parent() != &parent {
		t.Error("new child not parented")
	}
}

func TestReconcileChildrenDirtiesParent(t *testing.T) {
	ctx := testContext()
	parent := NewNode("parent", "")

	old := ReconcileChildren(ctx, &parent, nil, []Dom[string]{
		&leafDom{variant: "x"},
	})
	parent.ClearDirty()

	// A built child is dirty before adoption; the parent must pick
	// that up or its arrange cache replays a one-element list.
	next := ReconcileChildren(ctx, &parent, old, []Dom[string]{
		&leafDom{variant: "x"},
		&leafDom{variant: "x"},
	})
	if !parent.NeedRearrange() {
		t.Fatal("adding a child left the parent clean")
	}

	parent.ClearDirty()
	for _, w := range next {
		w.LayoutNode().ClearDirty()
	}

	ReconcileChildren(ctx, &parent, next, []Dom[string]{
		&leafDom{variant: "x"},
	})
	if !parent.NeedRearrange() {
		t.Error("removing a child left the parent clean")
	}
}

func TestReconcileIdempotent(t *testing.T) {
	ctx := testContext()

	dom := &stackDom{children: []Dom[string]{
		&leafDom{key: "a", variant: "x", size: matcha.Size{W: 10, H: 10}},
		&leafDom{key: "b", variant: "x", size: matcha.Size{W: 10, H: 20}},
	}}

	w := Reconcile[string](ctx, nil, Dom[string](dom))
	stack := w.(*stackWidget)
	first := append([]Widget[string](nil), stack.children...)

	// Applying the same dom again leaves the tree unchanged.
	if got := Reconcile[string](ctx, w, Dom[string](dom)); got != w {
		t.Fatal("second apply rebuilt the root")
	}
	for i, ch := range stack.children {
		if ch != first[i] {
			t.Errorf("child %d replaced on identical dom", i)
		}
		if ch.(*leafWidget).released {
			t.Errorf("child %d released on identical dom", i)
		}
	}

	s := w.Measure(ctx, Constraints{MaxW: 100, MaxH: 100})
	if s != (matcha.Size{W: 10, H: 30}) {
		t.Errorf("stack measure = %v, want (10, 30)", s)
	}
}
