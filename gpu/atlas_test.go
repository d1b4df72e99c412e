package gpu

import (
	"bytes"
	"errors"
	"testing"
)

type bufWrite struct {
	offset uint64
	data   []byte
}

type texWrite struct {
	layer      int
	x, y, w, h int
	data       []byte
}

// recordUploader captures uploads instead of touching the GPU.
type recordUploader struct {
	bufWrites []bufWrite
	texWrites []texWrite
	copies    int
}

func (u *recordUploader) WriteBuffer(offset uint64, data []byte) error {
	u.bufWrites = append(u.bufWrites, bufWrite{offset: offset, data: append([]byte(nil), data...)})
	return nil
}

func (u *recordUploader) WriteTexture(tex *Texture, layer, x, y, w, h int, data []byte) error {
	u.texWrites = append(u.texWrites, texWrite{
		layer: layer, x: x, y: y, w: w, h: h,
		data: append([]byte(nil), data...),
	})
	return nil
}

func (u *recordUploader) CopyTexture(src, dst *Texture) error {
	u.copies++
	return nil
}

func (u *recordUploader) reset() {
	u.bufWrites = u.bufWrites[:0]
	u.texWrites = u.texWrites[:0]
	u.copies = 0
}

func newTestAtlas(t *testing.T, format Format, config AtlasConfig) *Atlas {
	t.Helper()
	a, err := NewAtlas(nil, format, config)
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func TestAtlasProactiveGrowth(t *testing.T) {
	a := newTestAtlas(t, FormatR8, AtlasConfig{
		Size:            32,
		InitialLayers:   1,
		MaxLayers:       8,
		ResizeThreshold: 0.1,
		ResizeFactor:    2.0,
		Padding:         0,
	})

	// One full-layer allocation pushes usage past 10%, so a second
	// layer is added before the region is placed.
	r, err := a.Allocate(32, 32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer r.Release()

	if got := a.LayerCount(); got != 2 {
		t.Errorf("LayerCount = %d, want 2", got)
	}
	if got := a.UsedArea(); got != 1024 {
		t.Errorf("UsedArea = %d, want 1024", got)
	}
	if x, y := r.Origin(); x != 0 || y != 0 {
		t.Errorf("Origin = (%d, %d), want (0, 0)", x, y)
	}
}

func TestAtlasExhaustion(t *testing.T) {
	a := newTestAtlas(t, FormatR8, AtlasConfig{
		Size:          32,
		InitialLayers: 1,
		MaxLayers:     1,
		Padding:       0,
	})

	r, err := a.Allocate(32, 32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer r.Release()

	if _, err := a.Allocate(1, 1); !errors.Is(err, ErrAllocationFailed) {
		t.Errorf("Allocate on full atlas = %v, want ErrAllocationFailed", err)
	}
	if _, err := a.Allocate(33, 1); !errors.Is(err, ErrInvalidTextureSize) {
		t.Errorf("oversized Allocate = %v, want ErrInvalidTextureSize", err)
	}
}

func TestAtlasReclaimOnFlash(t *testing.T) {
	a := newTestAtlas(t, FormatR8, AtlasConfig{Size: 64, MaxLayers: 1, Padding: 0})
	up := &recordUploader{}

	r1, err := a.Allocate(16, 16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	x1, y1 := r1.Origin()

	clone := r1.Clone()
	r1.Release()

	// One handle still lives; the region survives the flash.
	if err := a.Flash(up); err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if got := a.RegionCount(); got != 1 {
		t.Fatalf("RegionCount after partial release = %d, want 1", got)
	}

	clone.Release()
	if got := a.RegionCount(); got != 1 {
		t.Fatalf("RegionCount before flash = %d, want 1; reclamation must wait for Flash", got)
	}
	if err := a.Flash(up); err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if got := a.RegionCount(); got != 0 {
		t.Fatalf("RegionCount after flash = %d, want 0", got)
	}

	// The freed spot is reused.
	r2, err := a.Allocate(16, 16)
	if err != nil {
		t.Fatalf("reallocate: %v", err)
	}
	defer r2.Release()
	if x2, y2 := r2.Origin(); x2 != x1 || y2 != y1 {
		t.Errorf("reallocation at (%d, %d), want freed spot (%d, %d)", x2, y2, x1, y1)
	}
}

func TestAtlasUploadAndFlash(t *testing.T) {
	a := newTestAtlas(t, FormatR8, AtlasConfig{Size: 16, MaxLayers: 1, Padding: 0})
	up := &recordUploader{}

	r, err := a.Allocate(4, 2)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer r.Release()

	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := r.Upload(pix); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if err := r.Upload(pix[:3]); !errors.Is(err, ErrUploadSizeMismatch) {
		t.Fatalf("short Upload = %v, want ErrUploadSizeMismatch", err)
	}

	// The shadow holds the pixels before any flash.
	shadow := a.Shadow(r.Layer())
	x, y := r.Origin()
	if got := shadow[y*16+x : y*16+x+4]; !bytes.Equal(got, pix[:4]) {
		t.Errorf("shadow row 0 = %v, want %v", got, pix[:4])
	}

	if err := a.Flash(up); err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if len(up.texWrites) != 1 {
		t.Fatalf("texture writes = %d, want 1", len(up.texWrites))
	}
	w := up.texWrites[0]
	if w.x != x || w.y != y || w.w != 4 || w.h != 2 {
		t.Errorf("write rect = (%d, %d, %d, %d), want (%d, %d, 4, 2)", w.x, w.y, w.w, w.h, x, y)
	}
	if !bytes.Equal(w.data, pix) {
		t.Errorf("write data = %v, want %v", w.data, pix)
	}

	// A second flash with nothing dirty uploads nothing.
	up.reset()
	if err := a.Flash(up); err != nil {
		t.Fatalf("Flash: %v", err)
	}
	if len(up.texWrites) != 0 {
		t.Errorf("idle flash produced %d writes, want 0", len(up.texWrites))
	}
}

func TestAtlasContentsSurviveResize(t *testing.T) {
	a := newTestAtlas(t, FormatR8, AtlasConfig{
		Size:            32,
		InitialLayers:   1,
		MaxLayers:       4,
		ResizeThreshold: 0.5,
		ResizeFactor:    2.0,
		Padding:         0,
	})
	up := &recordUploader{}

	r1, err := a.Allocate(16, 16)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer r1.Release()
	pix := bytes.Repeat([]byte{7}, 16*16)
	if err := r1.Upload(pix); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	x1, y1 := r1.Origin()
	layers := a.LayerCount()

	// Push usage past the threshold so the texture is rebuilt.
	r2, err := a.Allocate(24, 24)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer r2.Release()
	if a.LayerCount() <= layers {
		t.Fatalf("LayerCount = %d, want growth past %d", a.LayerCount(), layers)
	}

	if err := a.Flash(up); err != nil {
		t.Fatalf("Flash: %v", err)
	}
	// The retired texture is copied forward exactly once.
	if up.copies != 1 {
		t.Errorf("texture copies = %d, want 1", up.copies)
	}
	// The region keeps its placement and its pixels.
	if x, y := r1.Origin(); x != x1 || y != y1 {
		t.Errorf("Origin moved to (%d, %d) from (%d, %d)", x, y, x1, y1)
	}
	shadow := a.Shadow(r1.Layer())
	if shadow[y1*32+x1] != 7 {
		t.Errorf("shadow pixel = %d, want 7", shadow[y1*32+x1])
	}
}

func TestAtlasCompact(t *testing.T) {
	a := newTestAtlas(t, FormatR8, AtlasConfig{
		Size:            32,
		InitialLayers:   1,
		MaxLayers:       8,
		ResizeThreshold: 0.1,
		ResizeFactor:    4.0,
		ShrinkThreshold: 0.25,
		Padding:         0,
	})
	up := &recordUploader{}

	r, err := a.Allocate(32, 32)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if a.LayerCount() < 2 {
		t.Fatalf("LayerCount = %d, want growth", a.LayerCount())
	}

	r.Release()
	if err := a.Flash(up); err != nil {
		t.Fatalf("Flash: %v", err)
	}

	a.Compact()
	if got := a.LayerCount(); got != 1 {
		t.Errorf("LayerCount after Compact = %d, want 1", got)
	}
	// Compact never drops below the initial layer count.
	a.Compact()
	if got := a.LayerCount(); got != 1 {
		t.Errorf("LayerCount after second Compact = %d, want 1", got)
	}
}

func TestAtlasRegionUV(t *testing.T) {
	a := newTestAtlas(t, FormatRGBA8, AtlasConfig{Size: 128, MaxLayers: 1, Padding: 0})

	r, err := a.Allocate(32, 64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer r.Release()

	u0, v0, u1, v1 := r.UV()
	if u0 != 0 || v0 != 0 || u1 != 0.25 || v1 != 0.5 {
		t.Errorf("UV = (%v, %v, %v, %v), want (0, 0, 0.25, 0.5)", u0, v0, u1, v1)
	}
}

func TestAtlasManagerFormats(t *testing.T) {
	m := NewAtlasManager(nil, AtlasConfig{Size: 64, MaxLayers: 1, Padding: 0})
	t.Cleanup(m.Close)

	if _, err := m.Allocate(8, 8, FormatR8); !errors.Is(err, ErrFormatSetNotFound) {
		t.Fatalf("Allocate without format = %v, want ErrFormatSetNotFound", err)
	}
	if err := m.AddFormat(FormatR8); err != nil {
		t.Fatalf("AddFormat: %v", err)
	}
	if err := m.AddFormat(FormatR8); !errors.Is(err, ErrFormatSetExists) {
		t.Fatalf("duplicate AddFormat = %v, want ErrFormatSetExists", err)
	}

	r, err := m.Allocate(8, 8, FormatR8)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer r.Release()
	if r.Format() != FormatR8 {
		t.Errorf("Format = %v, want FormatR8", r.Format())
	}

	// Atlases of different formats get distinct process-wide IDs.
	if err := m.AddFormat(FormatRGBA8); err != nil {
		t.Fatalf("AddFormat: %v", err)
	}
	r8, _ := m.Atlas(FormatR8)
	rgba, _ := m.Atlas(FormatRGBA8)
	if r8.ID() == rgba.ID() {
		t.Errorf("atlas IDs collide: %d", r8.ID())
	}
}
