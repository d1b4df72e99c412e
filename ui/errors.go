package ui

import "errors"

// ErrTypeMismatch is returned by Widget.Update when the Dom describes
// a different widget type. The caller releases the widget and builds
// a fresh one from the Dom.
var ErrTypeMismatch = errors.New("ui: dom type does not match widget")
