// Package gpu is the shared GPU resource layer.
//
// It owns the wgpu device and queue (Backend), and multiplexes many
// small per-widget resources onto a handful of physical ones:
//
//   - TextureAtlas packs rectangular pixel regions into a 2D
//     array-of-layers texture using shelf packing, one atlas per pixel
//     format, managed by AtlasManager.
//   - BufferAtlas packs fixed-size uniform slots into one large GPU
//     buffer with batched, coalesced uploads.
//
// Region and slot handles are reference counted; a resource is
// reclaimed only after every clone has been released and the next
// flash tick observes the zero reference count, so a handle held by a
// live widget can never be reused under it.
package gpu
