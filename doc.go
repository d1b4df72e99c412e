// Package matcha is a retained-mode, GPU-accelerated UI framework.
//
// Applications declare their interface as a pure function of a model.
// Each frame the framework diffs the declared tree against the live
// widget tree, measures and arranges the result, and renders through a
// wgpu-backed device layer.
//
// The pipeline per frame:
//
//	host input → input.Machine → widget event dispatch → model update
//	→ notifier raises dirty → scheduler reconciles the fresh Dom
//	→ measure → arrange → render graph → GPU submit
//
// The root package holds the application builder (Config, App), the
// frame scheduler, and the small geometry types shared by every
// subsystem. The tree contracts live in ui, the widget catalogue in
// widgets, the GPU resource layer in gpu, text shaping in text, and
// input derivation in input.
package matcha
