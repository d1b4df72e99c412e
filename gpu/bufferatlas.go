package gpu

import (
	"fmt"
	"math/bits"
	"sync"
	"sync/atomic"

	matcha "github.com/helgev-traP/matcha"
)

// Slot is a reference-counted handle to one fixed-size byte range in
// a shared GPU buffer. Clones share the slot; the range is reclaimable
// once every clone has been released, and actually reclaimed on the
// next Flash.
//
// A freshly allocated slot is pending: it has no buffer offset until
// the next Flash assigns one. Store works in either state.
type Slot struct {
	atlas *BufferAtlas

	// refs counts live clones of the handle.
	refs atomic.Int32

	// index is the assigned slot index, or -1 while pending.
	index int

	// data is the local staging copy of the slot contents.
	data []byte

	// updated marks the slot for upload at the next Flash. Guarded by
	// the atlas lock.
	updated bool
}

// Clone returns a new handle sharing the slot.
func (s *Slot) Clone() *Slot {
	s.refs.Add(1)
	return s
}

// Release drops this handle. The slot becomes reclaimable once all
// clones are released; the space is actually freed on the next Flash.
func (s *Slot) Release() {
	s.refs.Add(-1)
}

// Store writes the slot contents locally and marks the slot updated.
// The write reaches the GPU on the next Flash. The data length must
// equal the atlas slot size.
func (s *Slot) Store(data []byte) error {
	if s.refs.Load() <= 0 {
		return ErrHandleReleased
	}
	if len(data) != s.atlas.slotSize {
		return fmt.Errorf("%w: got %d, slot size %d", ErrSlotSizeMismatch, len(data), s.atlas.slotSize)
	}
	s.atlas.mu.Lock()
	defer s.atlas.mu.Unlock()
	copy(s.data, data)
	s.updated = true
	return nil
}

// Index returns the assigned slot index, or -1 while the slot is
// pending placement. Valid only between Flash calls.
func (s *Slot) Index() int {
	s.atlas.mu.Lock()
	defer s.atlas.mu.Unlock()
	return s.index
}

// Offset returns the byte offset of the slot in the shared buffer, or
// -1 while pending.
func (s *Slot) Offset() int {
	s.atlas.mu.Lock()
	defer s.atlas.mu.Unlock()
	if s.index < 0 {
		return -1
	}
	return s.index * s.atlas.slotSize
}

// BufferAtlas packs many fixed-size slots into one shared GPU buffer.
// Thousands of per-widget uniform blocks live in a single physical
// buffer; uploads are batched and adjacent updated slots coalesce into
// single writes.
//
// BufferAtlas is safe for concurrent use. It has its own lock, so
// atlases of different slot sizes do not contend.
type BufferAtlas struct {
	mu sync.Mutex

	slotSize int
	slots    []*Slot // nil entries are free; len(slots) is the capacity
	pending  []*Slot
}

// NewBufferAtlas creates an atlas of slotSize-byte slots. The backing
// buffer starts empty and grows in powers of two as slots are placed.
func NewBufferAtlas(slotSize int) (*BufferAtlas, error) {
	if slotSize <= 0 {
		return nil, ErrInvalidSlotSize
	}
	return &BufferAtlas{slotSize: slotSize}, nil
}

// SlotSize returns the slot size in bytes.
func (b *BufferAtlas) SlotSize() int { return b.slotSize }

// Capacity returns the current slot capacity. The backing buffer holds
// exactly Capacity × SlotSize bytes.
func (b *BufferAtlas) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.slots)
}

// Live returns the number of live (placed, referenced) slots.
func (b *BufferAtlas) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, s := range b.slots {
		if s != nil && s.refs.Load() > 0 {
			n++
		}
	}
	return n
}

// Allocate reserves a new slot. The handle is usable immediately;
// placement into the buffer happens on the next Flash.
func (b *BufferAtlas) Allocate() *Slot {
	s := &Slot{
		atlas: b,
		index: -1,
		data:  make([]byte, b.slotSize),
	}
	s.refs.Store(1)
	b.mu.Lock()
	b.pending = append(b.pending, s)
	b.mu.Unlock()
	return s
}

// Flash reconciles the slot table with the GPU buffer:
//
//  1. slots whose handles are all released are marked free,
//  2. pending allocations whose handles already died are dropped,
//  3. the buffer grows to the next power of two when the survivors
//     exceed the free space (old contents are carried over),
//  4. pending slots are placed into free entries,
//  5. runs of adjacent updated slots coalesce into single writes.
//
// After Flash every updated flag is cleared.
func (b *BufferAtlas) Flash(up Uploader) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// 1. Reclaim dead slots.
	free := 0
	for i, s := range b.slots {
		if s == nil {
			free++
			continue
		}
		if s.refs.Load() <= 0 {
			b.slots[i] = nil
			free++
		}
	}

	// 2. Drop dead pending allocations.
	alive := b.pending[:0]
	for _, s := range b.pending {
		if s.refs.Load() > 0 {
			alive = append(alive, s)
		}
	}
	b.pending = alive

	// 3. Grow when the pending slots outnumber the free entries.
	if need := len(b.pending) - free; need > 0 {
		newCap := nextPow2(len(b.slots) + need)
		grown := make([]*Slot, newCap)
		copy(grown, b.slots)
		b.slots = grown

		// Buffer reallocation pending full wgpu buffer support; the
		// old buffer contents are copied into the new one before the
		// old is dropped:
		//
		// newBuf, _ := core.CreateBuffer(device, &gputypes.BufferDescriptor{
		//     Size:  uint64(newCap * b.slotSize),
		//     Usage: gputypes.BufferUsageCopyDst | gputypes.BufferUsageUniform | gputypes.BufferUsageCopySrc,
		// })
		// encoder copy old -> new, core.QueueSubmit, drop old
		matcha.Logger().Debug("gpu: buffer atlas grown", "slots", newCap, "slotSize", b.slotSize)
	}

	// 4. Place pending slots into free entries.
	next := 0
	for _, s := range b.pending {
		for ; next < len(b.slots); next++ {
			if b.slots[next] == nil {
				break
			}
		}
		// Growth above guarantees a free entry exists.
		b.slots[next] = s
		s.index = next
		s.updated = true
	}
	b.pending = b.pending[:0]

	// 5. Coalesce adjacent updated slots into single writes.
	runStart := -1
	var run []byte
	flush := func() error {
		if runStart < 0 {
			return nil
		}
		err := up.WriteBuffer(uint64(runStart*b.slotSize), run)
		runStart = -1
		run = nil
		return err
	}
	for i, s := range b.slots {
		if s == nil || !s.updated {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		if runStart < 0 {
			runStart = i
		}
		run = append(run, s.data...)
		s.updated = false
	}
	return flush()
}

// nextPow2 returns the smallest power of two ≥ n.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
