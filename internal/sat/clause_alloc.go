package sat

const clauseHeaderWords = 1

func clauseWords(size int, hasExtra bool) uint32 {
	n := clauseHeaderWords + size
	if hasExtra {
		n++
	}
	return uint32(n)
}

// ClauseAllocator allocates clause records inside a RegionAllocator's word
// arena. It is the only thing that knows how to turn a Ref back into a
// Clause view.
type ClauseAllocator struct {
	ra *RegionAllocator
	// extraClauseField forces every clause, learnt or not, to carry the
	// trailing extra word. Original clauses need it for subsumption's
	// abstraction filter, so the solver enables it unconditionally.
	extraClauseField bool
}

// NewClauseAllocator returns a clause allocator backed by a fresh arena of
// the given initial capacity (0 selects a default).
func NewClauseAllocator(startCapacity uint32) *ClauseAllocator {
	return &ClauseAllocator{ra: NewRegionAllocator(startCapacity)}
}

// SetExtraClauseField controls whether non-learnt clauses also receive the
// extra word. The solver turns this on so original clauses always carry an
// abstraction.
func (ca *ClauseAllocator) SetExtraClauseField(on bool) { ca.extraClauseField = on }

// Size returns the arena's word count.
func (ca *ClauseAllocator) Size() uint32 { return ca.ra.Size() }

// Wasted returns the arena's wasted word count.
func (ca *ClauseAllocator) Wasted() uint32 { return ca.ra.Wasted() }

// Deref returns a Clause view for ref. The view is invalidated by the next
// Allocate*, Free, or garbage collection on this allocator.
func (ca *ClauseAllocator) Deref(ref Ref) Clause {
	header := ca.ra.memory[ref]
	size := int(header >> sizeShift)
	hasExtra := header&(1<<hasExtraBt) != 0
	n := clauseWords(size, hasExtra)
	return Clause{words: ca.ra.memory[ref : uint32(ref)+n]}
}

// Allocate reserves space for a new clause with the given literals and
// returns its handle.
func (ca *ClauseAllocator) Allocate(literals []Literal, learnt bool) Ref {
	useExtra := learnt || ca.extraClauseField
	size := len(literals)
	ref := ca.ra.Alloc(clauseWords(size, useExtra))

	words := ca.ra.memory[ref : uint32(ref)+clauseWords(size, useExtra)]
	header := uint32(size) << sizeShift
	if useExtra {
		header |= 1 << hasExtraBt
	}
	if learnt {
		header |= 1 << learntBit
	}
	words[0] = header
	for i, l := range literals {
		words[1+i] = uint32(int32(l))
	}

	c := Clause{words: words}
	if useExtra {
		if learnt {
			c.SetActivity(0)
		} else {
			c.RecomputeAbstraction()
		}
	}
	return ref
}

// AllocateCopy duplicates clause from into this allocator's arena and
// returns the new handle. Used by relocation.
func (ca *ClauseAllocator) AllocateCopy(from Clause) Ref {
	useExtra := from.Learnt() || ca.extraClauseField
	size := from.Size()
	ref := ca.ra.Alloc(clauseWords(size, useExtra))

	words := ca.ra.memory[ref : uint32(ref)+clauseWords(size, useExtra)]
	copy(words[:1+size], from.words[:1+size])
	header := uint32(size) << sizeShift
	if useExtra {
		header |= 1 << hasExtraBt
	}
	if from.Learnt() {
		header |= 1 << learntBit
	}
	words[0] = header

	c := Clause{words: words}
	if useExtra {
		if from.HasExtra() {
			words[1+size] = from.words[1+size]
		} else if from.Learnt() {
			c.SetActivity(0)
		} else {
			c.RecomputeAbstraction()
		}
	}
	return ref
}

// Free accounts the clause's words as wasted. It does not physically
// reclaim them; only garbage collection does.
func (ca *ClauseAllocator) Free(ref Ref) {
	c := ca.Deref(ref)
	ca.ra.Free(clauseWords(c.Size(), c.HasExtra()))
}

// Reloc rewrites *ref to point at its copy inside dest, following an
// existing forwarding pointer if the clause has already been relocated, or
// copying it over (and leaving a forwarding pointer behind) otherwise.
func (ca *ClauseAllocator) Reloc(ref *Ref, dest *ClauseAllocator) {
	c := ca.Deref(*ref)
	if c.Reloced() {
		*ref = c.Relocation()
		return
	}
	newRef := dest.AllocateCopy(c)
	c.SetRelocation(newRef)
	*ref = newRef
}

// MoveTo transfers this allocator's arena to dest, leaving the receiver
// empty.
func (ca *ClauseAllocator) MoveTo(dest *ClauseAllocator) {
	dest.extraClauseField = ca.extraClauseField
	ca.ra.MoveTo(dest.ra)
}
