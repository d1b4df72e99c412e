package gpu

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
)

// Format represents the pixel format of an atlas texture.
type Format uint8

const (
	// FormatRGBA8 is the standard RGBA format with 8 bits per channel.
	FormatRGBA8 Format = iota

	// FormatBGRA8 is BGRA order, used for surface presentation.
	FormatBGRA8

	// FormatR8 is single-channel 8-bit, used for glyph alpha masks.
	FormatR8
)

// String returns a human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBGRA8:
		return "BGRA8"
	case FormatR8:
		return "R8"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(f))
	}
}

// BytesPerPixel returns the number of bytes per pixel for the format.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatRGBA8, FormatBGRA8:
		return 4
	case FormatR8:
		return 1
	default:
		return 4
	}
}

// ToWGPUFormat converts to the wgpu texture format.
func (f Format) ToWGPUFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	case FormatR8:
		return gputypes.TextureFormatR8Unorm
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// Texture is a 2D array-of-layers GPU texture. Atlases store their
// pixel contents in one Texture and hand out regions addressed by
// (layer, x, y).
//
// The wgpu resource IDs are created lazily against the backend; a
// Texture created without a backend tracks the logical resource only,
// which keeps the resource layer fully testable off-GPU.
type Texture struct {
	textureID core.TextureID
	viewID    core.TextureViewID

	width  int
	height int
	layers int
	format Format

	released atomic.Bool
	label    string
}

// TextureConfig holds configuration for creating an array texture.
type TextureConfig struct {
	// Width and Height are the per-layer dimensions in pixels.
	Width  int
	Height int

	// Layers is the array layer count.
	Layers int

	// Format is the pixel format.
	Format Format

	// Label is an optional debug label.
	Label string
}

// CreateTexture creates a new array texture.
func CreateTexture(backend *Backend, config TextureConfig) (*Texture, error) {
	if config.Width <= 0 || config.Height <= 0 || config.Layers <= 0 {
		return nil, ErrInvalidTextureSize
	}
	if backend != nil && !backend.IsInitialized() {
		return nil, ErrNotInitialized
	}

	// GPU texture creation pending full wgpu texture support:
	//
	// textureID, err := core.CreateTexture(backend.Device(), &gputypes.TextureDescriptor{
	//     Label: config.Label,
	//     Size: gputypes.Extent3D{
	//         Width:              uint32(config.Width),
	//         Height:             uint32(config.Height),
	//         DepthOrArrayLayers: uint32(config.Layers),
	//     },
	//     MipLevelCount: 1,
	//     SampleCount:   1,
	//     Dimension:     gputypes.TextureDimension2D,
	//     Format:        config.Format.ToWGPUFormat(),
	//     Usage:         gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	// })

	return &Texture{
		width:  config.Width,
		height: config.Height,
		layers: config.Layers,
		format: config.Format,
		label:  config.Label,
	}, nil
}

// Width returns the per-layer width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the per-layer height in pixels.
func (t *Texture) Height() int { return t.height }

// Layers returns the array layer count.
func (t *Texture) Layers() int { return t.layers }

// Format returns the pixel format.
func (t *Texture) Format() Format { return t.format }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// TextureID returns the underlying wgpu texture ID. Zero for logical
// textures created without a backend.
func (t *Texture) TextureID() core.TextureID { return t.textureID }

// ViewID returns the texture view ID.
func (t *Texture) ViewID() core.TextureViewID { return t.viewID }

// IsReleased reports whether Close has been called.
func (t *Texture) IsReleased() bool { return t.released.Load() }

// Close releases the GPU texture resources.
func (t *Texture) Close() {
	if t.released.Swap(true) {
		return
	}
	// Resource drop pending full wgpu texture support:
	//
	// if !t.viewID.IsZero() {
	//     core.TextureViewDrop(t.viewID)
	// }
	// if !t.textureID.IsZero() {
	//     core.TextureDrop(t.textureID)
	// }
	t.textureID = core.TextureID{}
	t.viewID = core.TextureViewID{}
}

// String returns a string representation of the texture.
func (t *Texture) String() string {
	return fmt.Sprintf("Texture[%s %dx%dx%d %s]",
		t.label, t.width, t.height, t.layers, t.format)
}
