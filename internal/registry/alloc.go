package registry

import (
	"fmt"

	"github.com/dshills/menuconf/internal/setting"
)

// Allocator provides the backing store of a builder.
type Allocator interface {
	// Grow returns a store of at least capacity slots holding the
	// entries of cur in order.
	Grow(cur []*setting.Setting, capacity int) ([]*setting.Setting, error)
}

// HeapAllocator allocates from the Go heap.
type HeapAllocator struct{}

// Grow implements Allocator.
func (HeapAllocator) Grow(cur []*setting.Setting, capacity int) ([]*setting.Setting, error) {
	if capacity < len(cur) {
		return nil, fmt.Errorf("%w: capacity %d below length %d", ErrAllocation, capacity, len(cur))
	}
	out := make([]*setting.Setting, len(cur), capacity)
	copy(out, cur)
	return out, nil
}

// LimitAllocator refuses to grow past a fixed number of entries.
type LimitAllocator struct {
	Max int
}

// Grow implements Allocator.
func (a LimitAllocator) Grow(cur []*setting.Setting, capacity int) ([]*setting.Setting, error) {
	if capacity > a.Max {
		if len(cur) >= a.Max {
			return nil, fmt.Errorf("%w: limit of %d entries reached", ErrAllocation, a.Max)
		}
		capacity = a.Max
	}
	return HeapAllocator{}.Grow(cur, capacity)
}
