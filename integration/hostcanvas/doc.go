// Package hostcanvas embeds a matcha window inside a gogpu host
// application. It implements app.Surface over a CPU staging image and
// presents the frame to the host as a texture draw, so a matcha UI can
// render into any host that exposes a gpucontext.TextureDrawer.
package hostcanvas
