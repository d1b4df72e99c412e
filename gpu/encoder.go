package gpu

import (
	"github.com/gogpu/wgpu/core"
)

// Uploader receives the byte ranges and pixel regions produced by
// atlas flashes. The production implementation forwards to the wgpu
// queue; tests substitute a recorder.
type Uploader interface {
	// WriteBuffer writes data into the shared buffer at offset.
	WriteBuffer(offset uint64, data []byte) error

	// WriteTexture writes tightly packed pixel rows into the region
	// (x, y, w, h) of the given array layer.
	WriteTexture(tex *Texture, layer, x, y, w, h int, data []byte) error

	// CopyTexture copies every layer of src into dst, used to carry
	// atlas contents across a resize. dst must be at least as large
	// as src in every dimension.
	CopyTexture(src, dst *Texture) error
}

// QueueUploader is the production Uploader backed by the wgpu queue.
type QueueUploader struct {
	queue core.QueueID
}

// NewQueueUploader creates an uploader submitting through the given
// backend's queue.
func NewQueueUploader(backend *Backend) (*QueueUploader, error) {
	if backend == nil || !backend.IsInitialized() {
		return nil, ErrNotInitialized
	}
	return &QueueUploader{queue: backend.Queue()}, nil
}

// WriteBuffer implements Uploader.
func (u *QueueUploader) WriteBuffer(offset uint64, data []byte) error {
	// Queue write pending full wgpu buffer support:
	//
	// core.QueueWriteBuffer(u.queue, buffer, offset, data)
	_ = offset
	_ = data
	return nil
}

// WriteTexture implements Uploader.
func (u *QueueUploader) WriteTexture(tex *Texture, layer, x, y, w, h int, data []byte) error {
	if tex.IsReleased() {
		return ErrAtlasClosed
	}
	// Queue write pending full wgpu texture support:
	//
	// core.QueueWriteTexture(u.queue,
	//     &gputypes.ImageCopyTexture{
	//         Texture:  uintptr(tex.TextureID().Raw()),
	//         MipLevel: 0,
	//         Origin:   gputypes.Origin3D{X: uint32(x), Y: uint32(y), Z: uint32(layer)},
	//         Aspect:   gputypes.TextureAspectAll,
	//     },
	//     data,
	//     &gputypes.TextureDataLayout{
	//         BytesPerRow:  uint32(w * tex.Format().BytesPerPixel()),
	//         RowsPerImage: uint32(h),
	//     },
	//     &gputypes.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})
	_, _, _, _, _, _ = layer, x, y, w, h, data
	return nil
}

// CopyTexture implements Uploader.
func (u *QueueUploader) CopyTexture(src, dst *Texture) error {
	if src.IsReleased() || dst.IsReleased() {
		return ErrAtlasClosed
	}
	// Encoder copy pending full wgpu texture support:
	//
	// encoder, _ := core.CreateCommandEncoder(device, nil)
	// core.CommandEncoderCopyTextureToTexture(encoder,
	//     &gputypes.ImageCopyTexture{Texture: uintptr(src.TextureID().Raw())},
	//     &gputypes.ImageCopyTexture{Texture: uintptr(dst.TextureID().Raw())},
	//     &gputypes.Extent3D{
	//         Width:              uint32(src.Width()),
	//         Height:             uint32(src.Height()),
	//         DepthOrArrayLayers: uint32(src.Layers()),
	//     })
	// core.QueueSubmit(u.queue, []core.CommandBufferID{core.FinishCommandEncoder(encoder)})
	return nil
}
