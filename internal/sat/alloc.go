package sat

// Ref is an opaque 32-bit handle into a RegionAllocator's word arena. Refs
// are stable across allocations but not across garbage collection: every
// persistent holder of a Ref must be rewritten via relocateAll whenever a
// GC runs.
type Ref uint32

// RefUndef marks the absence of a handle (e.g. "no clause", "no reason").
const RefUndef Ref = 1<<32 - 1

// defaultStartCapacity is the arena's initial capacity, in words, absent any
// other hint. It mirrors the original implementation's 1MiB-of-words default.
const defaultStartCapacity = 1024 * 1024

// RegionAllocator is a contiguous, bump-allocated arena of 32-bit words.
// Allocation only ever grows the arena (modulo the garbage collector, which
// builds a fresh, compacted arena and swaps it in); freeing a span only
// accounts the wasted words so a caller can decide when to collect.
type RegionAllocator struct {
	memory []uint32
	wasted uint32
}

// NewRegionAllocator returns an allocator with the given initial capacity,
// in words. A capacity of 0 selects a sensible default.
func NewRegionAllocator(startCapacity uint32) *RegionAllocator {
	if startCapacity == 0 {
		startCapacity = defaultStartCapacity
	}
	return &RegionAllocator{memory: make([]uint32, 0, startCapacity)}
}

// Size returns the number of words currently in use.
func (a *RegionAllocator) Size() uint32 { return uint32(len(a.memory)) }

// Wasted returns the number of words freed but not yet reclaimed by GC.
func (a *RegionAllocator) Wasted() uint32 { return a.wasted }

// Alloc reserves size words and returns a handle to the first one. size must
// be strictly positive.
func (a *RegionAllocator) Alloc(size uint32) Ref {
	if size == 0 {
		panic("sat: RegionAllocator.Alloc: size must be greater than 0")
	}

	prevSize := uint32(len(a.memory))
	newSize := prevSize + size
	if newSize < prevSize {
		panic("sat: RegionAllocator.Alloc: allocation overflow")
	}

	a.grow(newSize)
	a.memory = a.memory[:newSize]
	return Ref(prevSize)
}

// Free accounts size words as wasted. It does not reclaim them; only a
// garbage collection pass does.
func (a *RegionAllocator) Free(size uint32) { a.wasted += size }

// grow ensures the backing array has capacity for at least minCap words,
// following the same growth schedule as the original allocator: multiply by
// roughly 13/8, add 2, and clear the low bit so capacity stays even. This
// keeps the sequence of capacities close to the uint32 ceiling as it
// approaches it, rather than overshooting early.
func (a *RegionAllocator) grow(minCap uint32) {
	capacity := uint32(cap(a.memory))
	if capacity >= minCap {
		return
	}

	prevCap := capacity
	for capacity < minCap {
		delta := ((capacity >> 1) + (capacity >> 3) + 2) &^ 1
		capacity += delta
		if capacity <= prevCap {
			panic("sat: RegionAllocator.grow: capacity overflow")
		}
		prevCap = capacity
	}

	newMemory := make([]uint32, len(a.memory), capacity)
	copy(newMemory, a.memory)
	a.memory = newMemory
}

// MoveTo transfers ownership of the arena to dest, leaving the receiver
// empty. Used by garbage collection to swap a compacted arena into place.
func (a *RegionAllocator) MoveTo(dest *RegionAllocator) {
	dest.memory = a.memory
	dest.wasted = a.wasted
	a.memory = nil
	a.wasted = 0
}
