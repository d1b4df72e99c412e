// Package input derives semantic gestures from raw device events.
//
// The host feeds raw events (button transitions, cursor motion, wheel
// deltas, key transitions) into a Machine. The Machine tracks
// per-button press state, click combos, long presses and drag origins,
// plus keyboard press order and the modifier bitmask, and emits
// semantic events ready for widget dispatch.
package input
