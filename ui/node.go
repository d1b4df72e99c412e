package ui

import (
	matcha "github.com/helgev-traP/matcha"
)

// measureSlots is the measure cache size per node. Small on purpose:
// a widget usually sees one or two distinct parent constraints, and a
// tiny cache evicts aggressively when the parent resizes.
const measureSlots = 2

type measureSlot struct {
	key   ConstraintsKey
	size  matcha.Size
	valid bool
}

// Node is the layout and invalidation state every widget embeds: the
// label and reconcile key, the dirty bits with parent back-
// propagation, the constraint-keyed measure cache, and the last
// arrangement.
//
// Node is owned by the UI task; it is not safe for concurrent use.
type Node struct {
	label string
	key   string

	parent *Node

	needRearrange bool
	needRedraw    bool

	measures    [measureSlots]measureSlot
	measureNext int

	arrangeSize  matcha.Size
	arrangeList  []Arrangement
	arrangeValid bool
}

// NewNode creates node state for a widget. The label names the widget
// type; the key is the user-assigned reconcile id, empty for
// positional matching.
func NewNode(label, key string) Node {
	return Node{label: label, key: key, needRearrange: true, needRedraw: true}
}

// Label returns the widget type name.
func (n *Node) Label() string { return n.label }

// Key returns the reconcile key.
func (n *Node) Key() string { return n.key }

// SetParent links the node to its parent for dirty back-propagation.
// The reconciler calls this when adopting children.
func (n *Node) SetParent(p *Node) { n.parent = p }

// Parent returns the node this one propagates dirty bits to, nil at
// the root.
func (n *Node) Parent() *Node { return n.parent }

// MarkRearrange flags the node for re-layout: the measure and arrange
// caches drop, and the bit propagates to every ancestor since the
// node's size may change theirs.
func (n *Node) MarkRearrange() {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.needRearrange && cur.needRedraw {
			break
		}
		cur.needRearrange = true
		cur.needRedraw = true
		cur.invalidateCaches()
	}
}

// MarkRedraw flags the node for repaint without re-layout. The bit
// propagates to ancestors so the scheduler sees it at the root.
func (n *Node) MarkRedraw() {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.needRedraw {
			break
		}
		cur.needRedraw = true
	}
}

// NeedRearrange reports whether this node or any descendant needs
// re-layout.
func (n *Node) NeedRearrange() bool { return n.needRearrange }

// NeedRedraw reports whether this node or any descendant needs
// repaint.
func (n *Node) NeedRedraw() bool { return n.needRedraw }

// ClearDirty lowers both bits. The frame passes call this as they
// consume the node.
func (n *Node) ClearDirty() {
	n.needRearrange = false
	n.needRedraw = false
}

func (n *Node) invalidateCaches() {
	for i := range n.measures {
		n.measures[i].valid = false
	}
	n.arrangeValid = false
}

// CachedMeasure looks up a measured size for quantized constraints.
// Misses while the rearrange bit is set or while the measure cache is
// disabled.
func (n *Node) CachedMeasure(ctx *Context, c Constraints) (matcha.Size, bool) {
	if n.needRearrange || ctx.Debug().DisableMeasureCache {
		return matcha.Size{}, false
	}
	key := c.Key()
	for i := range n.measures {
		if n.measures[i].valid && n.measures[i].key == key {
			return n.measures[i].size, true
		}
	}
	return matcha.Size{}, false
}

// StoreMeasure records a measured size, evicting round-robin.
func (n *Node) StoreMeasure(c Constraints, size matcha.Size) {
	n.measures[n.measureNext] = measureSlot{key: c.Key(), size: size, valid: true}
	n.measureNext = (n.measureNext + 1) % measureSlots
}

// CachedArrange returns the last arrangements when the final size
// matches and the node is clean. Misses while the arrange cache is
// disabled.
func (n *Node) CachedArrange(ctx *Context, final matcha.Size) ([]Arrangement, bool) {
	if n.needRearrange || ctx.Debug().DisableArrangeCache {
		return nil, false
	}
	if !n.arrangeValid || n.arrangeSize != final {
		return nil, false
	}
	return n.arrangeList, true
}

// StoreArrange records the arrangements for a final size and lowers
// the rearrange bit: the node is laid out.
func (n *Node) StoreArrange(final matcha.Size, list []Arrangement) {
	n.arrangeSize = final
	n.arrangeList = list
	n.arrangeValid = true
	n.needRearrange = false
}
