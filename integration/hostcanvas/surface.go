package hostcanvas

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Common errors returned by Surface operations.
var (
	// ErrSurfaceClosed is returned when operations are attempted on a
	// closed surface.
	ErrSurfaceClosed = errors.New("hostcanvas: surface is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("hostcanvas: invalid dimensions")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("hostcanvas: nil DeviceProvider")

	// ErrInvalidRenderer is returned when the draw context cannot
	// create textures.
	ErrInvalidRenderer = errors.New("hostcanvas: dc must provide a texture creator")

	// ErrInvalidDrawContext is returned when the created texture does
	// not implement gpucontext.Texture.
	ErrInvalidDrawContext = errors.New("hostcanvas: texture must implement gpucontext.Texture")

	// ErrPixelSizeMismatch is returned when staged pixel data does not
	// match the surface extent.
	ErrPixelSizeMismatch = errors.New("hostcanvas: pixel data does not match surface size")
)

// textureDestroyer matches the host texture Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Surface is a matcha render target embedded in a gogpu host. The
// frame scheduler acquires and presents it like a swapchain surface;
// the host calls RenderTo from its draw callback to composite the
// last presented frame.
//
// Surface is NOT safe for concurrent use; drive it from the UI task.
type Surface struct {
	provider gpucontext.DeviceProvider

	width  int
	height int

	// pixels is the RGBA staging image of the last presented frame.
	pixels []byte

	texture     any
	oldTexture  any // awaiting deferred destruction after a resize
	dirty       bool
	sizeChanged bool
	closed      bool
}

// New creates a host surface. The provider should come from the host
// application's GPU context.
func New(provider gpucontext.DeviceProvider, width, height int) (*Surface, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	return &Surface{
		provider: provider,
		width:    width,
		height:   height,
		pixels:   make([]byte, width*height*4),
		dirty:    true,
	}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Acquire implements app.Surface.
func (s *Surface) Acquire() (int, int, error) {
	if s.closed {
		return 0, 0, ErrSurfaceClosed
	}
	return s.width, s.height, nil
}

// Present implements app.Surface: it flags the staged frame for the
// next RenderTo.
func (s *Surface) Present() error {
	if s.closed {
		return ErrSurfaceClosed
	}
	s.dirty = true
	return nil
}

// SetPixels stages the RGBA readback of a rendered frame. The data
// must be exactly width*height*4 bytes.
func (s *Surface) SetPixels(rgba []byte) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if len(rgba) != s.width*s.height*4 {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrPixelSizeMismatch, len(rgba), s.width*s.height*4)
	}
	copy(s.pixels, rgba)
	s.dirty = true
	return nil
}

// IsDirty reports whether a presented frame awaits upload.
func (s *Surface) IsDirty() bool { return s.dirty }

// Resize changes the surface extent. The host texture is recreated on
// the next RenderTo; the old one is destroyed only after the new
// upload completes, since in-flight command buffers may still
// reference it.
func (s *Surface) Resize(width, height int) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if s.width == width && s.height == height {
		return nil
	}
	s.width = width
	s.height = height
	s.pixels = make([]byte, width*height*4)
	s.sizeChanged = true
	s.dirty = true
	return nil
}

// RenderTo composites the last presented frame into the host draw
// context at the origin.
func (s *Surface) RenderTo(dc gpucontext.TextureDrawer) error {
	return s.RenderToPosition(dc, 0, 0)
}

// RenderToPosition composites the last presented frame at (x, y) in
// host coordinates.
func (s *Surface) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if s.closed {
		return ErrSurfaceClosed
	}

	if s.sizeChanged && s.texture != nil {
		if s.oldTexture != nil {
			if d, ok := s.oldTexture.(textureDestroyer); ok {
				d.Destroy()
			}
		}
		s.oldTexture = s.texture
		s.texture = nil
		s.sizeChanged = false
	}

	if s.texture == nil {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		// NewTextureFromRGBA waits for the GPU internally, so the
		// deferred old texture is safe to destroy afterwards.
		tex, err := creator.NewTextureFromRGBA(s.width, s.height, s.pixels)
		if err != nil {
			return fmt.Errorf("hostcanvas: NewTextureFromRGBA failed: %w", err)
		}
		s.texture = tex
		s.dirty = false
		if s.oldTexture != nil {
			if d, ok := s.oldTexture.(textureDestroyer); ok {
				d.Destroy()
			}
			s.oldTexture = nil
		}
	} else if s.dirty {
		if updater, ok := s.texture.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(s.pixels); err != nil {
				return fmt.Errorf("hostcanvas: texture update failed: %w", err)
			}
		}
		s.dirty = false
	}

	tex, ok := s.texture.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	return dc.DrawTexture(tex, x, y)
}

// Texture returns the current host texture without uploading. Nil
// until the first RenderTo.
func (s *Surface) Texture() any { return s.texture }

// Close releases the host textures. Idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.oldTexture != nil {
		if d, ok := s.oldTexture.(textureDestroyer); ok {
			d.Destroy()
		}
		s.oldTexture = nil
	}
	if s.texture != nil {
		if d, ok := s.texture.(textureDestroyer); ok {
			d.Destroy()
		}
		s.texture = nil
	}
	return nil
}
