package ui

import (
	"errors"
	"strconv"

	matcha "github.com/helgev-traP/matcha"
)

// Reconcile folds a Dom into an existing widget. On a type match the
// widget updates in place; on a mismatch (or a nil widget) the old
// widget is released and a fresh one is built from the Dom.
func Reconcile[E any](ctx *Context, w Widget[E], d Dom[E]) Widget[E] {
	if w != nil {
		err := w.Update(ctx, d)
		if err == nil {
			return w
		}
		if !errors.Is(err, ErrTypeMismatch) {
			// Update contracts only fail on type mismatch; anything
			// else still falls through to a rebuild.
			matcha.Logger().Warn("ui: widget update failed, rebuilding",
				"widget", w.Label(), "err", err)
		}
		w.Release(ctx)
	}
	return d.BuildWidgetTree(ctx)
}

// ReconcileChild folds a single child Dom, adopting the result under
// parent. A rebuilt child is born dirty before it has a parent, so its
// rearrange bit is re-propagated after adoption.
func ReconcileChild[E any](ctx *Context, parent *Node, old Widget[E], d Dom[E]) Widget[E] {
	w := Reconcile(ctx, old, d)
	node := w.LayoutNode()
	node.SetParent(parent)
	if node.NeedRearrange() {
		parent.MarkRearrange()
	}
	return w
}

// ReconcileChildren diffs a Dom child list against existing widgets.
// Children match by user key when present, otherwise by position.
// Matched widgets update in place, missing ones are built, and
// leftover widgets are released with their GPU handles.
//
// The parent passes its own node so adopted children back-propagate
// dirty bits correctly.
func ReconcileChildren[E any](ctx *Context, parent *Node, old []Widget[E], doms []Dom[E]) []Widget[E] {
	unused := make(map[string]Widget[E], len(old))
	for i, w := range old {
		if w == nil {
			continue
		}
		unused[effectiveKey(w.Key(), i)] = w
	}

	out := make([]Widget[E], len(doms))
	for i, d := range doms {
		k := effectiveKey(d.Key(), i)
		match := unused[k]
		if match != nil {
			delete(unused, k)
		}
		w := Reconcile(ctx, match, d)
		node := w.LayoutNode()
		node.SetParent(parent)
		// A freshly built child is born dirty before it has a parent,
		// so its bits never reached this node. Re-propagate after
		// adoption or the parent replays a stale arrangement.
		if node.NeedRearrange() {
			parent.MarkRearrange()
		}
		out[i] = w
	}

	if len(unused) > 0 {
		// Removing children changes the layout even when every kept
		// child is clean.
		parent.MarkRearrange()
	}
	for _, w := range unused {
		w.Release(ctx)
	}
	return out
}

// effectiveKey returns the user key, or a positional key for unkeyed
// children. Positional keys cannot collide with user keys.
func effectiveKey(key string, index int) string {
	if key != "" {
		return key
	}
	return "#" + strconv.Itoa(index)
}
