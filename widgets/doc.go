// Package widgets is the built-in widget catalogue: colored squares,
// single-line text, linear and grid containers, absolute placement,
// styled boxes, and buttons.
//
// Every type here comes in pairs: an exported Dom struct the
// application composes declaratively, and an unexported widget the
// reconciler keeps alive between frames. The Dom structs are plain
// records; fill the fields and hand the tree to a window.
package widgets
