package gpu

// rect is an allocated or free rectangle inside one atlas layer.
type rect struct {
	x, y, w, h int
}

// shelf is a horizontal shelf in the shelf-packing algorithm.
type shelf struct {
	y      int // top Y coordinate of this shelf
	height int // height of this shelf (tallest item so far)
	nextX  int // next available X position on this shelf
}

// layerAllocator packs rectangles into one fixed-size atlas layer.
//
// The layer is divided into horizontal shelves. Each new rectangle is
// placed on the first shelf it fits, or a new shelf is created below.
// Freed rectangles go to a free list and are reused first-fit before
// new shelf space is consumed, so glyph-sized regions churn without
// growing the shelves. The allocator is not thread-safe; the owning
// atlas serializes access.
type layerAllocator struct {
	width   int
	height  int
	padding int

	shelves  []*shelf
	free     []rect
	usedArea int
}

func newLayerAllocator(width, height, padding int) *layerAllocator {
	if padding < 0 {
		padding = 0
	}
	return &layerAllocator{
		width:   width,
		height:  height,
		padding: padding,
	}
}

// allocate finds space for a w×h rectangle. Returns false when the
// layer cannot fit it.
func (a *layerAllocator) allocate(w, h int) (rect, bool) {
	if w <= 0 || h <= 0 {
		return rect{}, false
	}

	// Reuse a freed rectangle when one fits. First fit; the unused
	// remainder of a larger freed rectangle stays unavailable until
	// the layer is compacted.
	for i, f := range a.free {
		if f.w >= w && f.h >= h {
			a.free = append(a.free[:i], a.free[i+1:]...)
			a.usedArea += w * h
			return rect{x: f.x, y: f.y, w: w, h: h}, true
		}
	}

	paddedW := w + a.padding
	paddedH := h + a.padding
	if paddedW > a.width || paddedH > a.height {
		return rect{}, false
	}

	for _, s := range a.shelves {
		if !a.fitsOnShelf(s, paddedW, paddedH) {
			continue
		}
		r := rect{x: s.nextX, y: s.y, w: w, h: h}
		s.nextX += paddedW
		if paddedH > s.height {
			s.height = paddedH
		}
		a.usedArea += w * h
		return r, true
	}

	return a.allocateNewShelf(w, h, paddedW, paddedH)
}

// fitsOnShelf checks whether a padded rectangle fits on the shelf. A
// taller item only fits while the shelf is still empty; occupied
// shelves cannot grow.
func (a *layerAllocator) fitsOnShelf(s *shelf, paddedW, paddedH int) bool {
	if s.nextX+paddedW > a.width {
		return false
	}
	if paddedH > s.height && s.nextX > 0 {
		return false
	}
	return true
}

func (a *layerAllocator) allocateNewShelf(w, h, paddedW, paddedH int) (rect, bool) {
	newY := 0
	if len(a.shelves) > 0 {
		last := a.shelves[len(a.shelves)-1]
		newY = last.y + last.height
	}
	if newY+paddedH > a.height {
		return rect{}, false
	}

	a.shelves = append(a.shelves, &shelf{
		y:      newY,
		height: paddedH,
		nextX:  paddedW,
	})
	a.usedArea += w * h
	return rect{x: 0, y: newY, w: w, h: h}, true
}

// release returns a rectangle to the free list for reuse.
func (a *layerAllocator) release(r rect) {
	a.free = append(a.free, r)
	a.usedArea -= r.w * r.h
	if a.usedArea < 0 {
		a.usedArea = 0
	}
}

// empty reports whether nothing is currently allocated on the layer.
func (a *layerAllocator) empty() bool {
	return a.usedArea == 0
}

// reset clears all allocations and the free list.
func (a *layerAllocator) reset() {
	a.shelves = a.shelves[:0]
	a.free = a.free[:0]
	a.usedArea = 0
}
