package ui

import (
	matcha "github.com/helgev-traP/matcha"
	"github.com/helgev-traP/matcha/input"
	"github.com/helgev-traP/matcha/render"
)

// Dom is one node of the declarative tree: an immutable description
// of what the UI should be, parametric in the event type E its
// handlers emit. A Dom is built inside a component's view, consumed
// by the reconciler within the same frame, then dropped.
type Dom[E any] interface {
	// Key returns the user-assigned reconcile id, empty for
	// positional matching.
	Key() string

	// SetUpdateNotifier hands the scheduler's wake signal down the
	// tree. Every container Dom must forward the call to its
	// children; a component that never receives the notifier cannot
	// wake the scheduler when its model changes.
	SetUpdateNotifier(n *Notifier)

	// BuildWidgetTree creates the stateful widget mirroring this
	// description.
	BuildWidgetTree(ctx *Context) Widget[E]
}

// Widget is the stateful mirror of a Dom node, persisting between
// frames. It holds layout caches, dirty bits, widget-local state, and
// GPU handles. A parent exclusively owns its children.
type Widget[E any] interface {
	// Label returns the widget type name, for logging.
	Label() string

	// Key returns the reconcile key the widget was built with.
	Key() string

	// Update folds a new Dom of the same type into the widget in
	// place, reconciling children. Returns ErrTypeMismatch when the
	// Dom describes a different type; the caller then releases this
	// widget and builds fresh.
	Update(ctx *Context, d Dom[E]) error

	// HandleEvent dispatches a semantic input event in the widget's
	// local frame. size is the widget's arranged size. Containers
	// transform the event through each child's arrangement.
	HandleEvent(ctx *Context, ev input.Event, size matcha.Size) []E

	// Measure returns the widget's preferred size within the
	// constraints. The result is cached per quantized constraints;
	// an unchanged widget measured twice does not re-traverse its
	// children.
	Measure(ctx *Context, c Constraints) matcha.Size

	// Arrange fixes the children's final sizes and affines for the
	// widget's own final size, one Arrangement per child in order.
	Arrange(ctx *Context, final matcha.Size) []Arrangement

	// Render appends the widget's draw commands with its absolute
	// transform composed, then recurses through the arrangements.
	Render(ctx *Context, b *render.Builder, final matcha.Size, tf matcha.Affine)

	// Release frees the widget's GPU handles and recurses into
	// children. Called when the widget leaves the tree.
	Release(ctx *Context)

	// NeedRearrange reports whether this subtree needs re-layout.
	NeedRearrange() bool

	// NeedRedraw reports whether this subtree needs repaint.
	NeedRedraw() bool

	// ClearDirty lowers the node's dirty bits.
	ClearDirty()

	// LayoutNode exposes the embedded layout/invalidation state to
	// the reconciler for parent linking.
	LayoutNode() *Node
}
