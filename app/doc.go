// Package app ties the framework together: it owns the shared GPU
// resources, feeds raw host events through the input machine into the
// widget tree, and drives dirty-gated frames from a cooperative
// scheduler loop.
package app
