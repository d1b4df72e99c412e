// Package ui holds the reactive core of matcha: the declarative Dom
// and stateful Widget contracts, the reconciler that diffs one into
// the other, the two-phase measure/arrange layout caches, Elm-style
// components, and the resource context widgets draw from.
//
// Applications describe a frame as a Dom tree built from the current
// model. The reconciler folds that description into the live Widget
// tree, preserving widget state and GPU handles wherever the types
// match. Layout then runs measure (bottom-up, constraint-keyed cache)
// and arrange (top-down, final sizes and affines), and the render
// walk emits draw commands.
package ui
