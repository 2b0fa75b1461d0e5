package geometry

import "sync/atomic"

// Slot holds the buffer currently on display. Installing a new buffer
// releases the previous one, so callers never tear buffers down by hand.
type Slot struct {
	current atomic.Pointer[Buffer]
}

// NewSlot returns a slot holding initial, which may be nil.
func NewSlot(initial *Buffer) *Slot {
	s := &Slot{}
	s.current.Store(initial)
	return s
}

// Current returns the installed buffer, or nil.
func (s *Slot) Current() *Buffer {
	return s.current.Load()
}

// BoundingRadius returns the current buffer's radius, or 0 when empty.
func (s *Slot) BoundingRadius() float32 {
	if b := s.current.Load(); b != nil {
		return b.BoundingRadius
	}
	return 0
}

// Swap installs next and releases the buffer it replaces.
func (s *Slot) Swap(next *Buffer) {
	if old := s.current.Swap(next); old != nil && old != next {
		old.Release()
	}
}
