package sat

// occLists maps each literal to a slice of entries, supporting the lazy
// deletion scheme described in the spec: removing an entry's clause does
// not eagerly shrink every list that references it; instead the literal's
// slot is marked dirty, and an actual compaction only happens the next time
// that slot is cleaned (explicitly, or implicitly via Lookup).
type occLists[V any] struct {
	entries [][]V
	dirty   []bool
	dirties []int
	deleted func(V) bool
}

func newOccLists[V any](deleted func(V) bool) *occLists[V] {
	return &occLists[V]{deleted: deleted}
}

// expand grows the table by one slot. The literal-keyed watch lists call it
// once per literal (twice per new variable); the variable-keyed occurrence
// table calls it once per new variable.
func (o *occLists[V]) expand() {
	o.entries = append(o.entries, nil)
	o.dirty = append(o.dirty, false)
}

// Get returns the raw (possibly dirty) entry list for literal l.
func (o *occLists[V]) Get(l Literal) []V { return o.entries[l] }

// Set replaces the entry list for literal l.
func (o *occLists[V]) Set(l Literal, v []V) { o.entries[l] = v }

// Push appends an entry to literal l's list.
func (o *occLists[V]) Push(l Literal, v V) { o.entries[l] = append(o.entries[l], v) }

// Lookup returns literal l's entry list, cleaning it first if dirty.
func (o *occLists[V]) Lookup(l Literal) []V {
	if o.dirty[l] {
		o.clean(l)
	}
	return o.entries[l]
}

// clean compacts literal l's list by dropping deleted entries and clears
// its dirty bit.
func (o *occLists[V]) clean(l Literal) {
	entries := o.entries[l]
	j := 0
	for i := range entries {
		if !o.deleted(entries[i]) {
			entries[j] = entries[i]
			j++
		}
	}
	o.entries[l] = entries[:j]
	o.dirty[l] = false
}

// CleanAll drains the pending dirties list, cleaning every literal still
// marked dirty (a literal may appear more than once in dirties; the second
// occurrence is a no-op).
func (o *occLists[V]) CleanAll() {
	for _, l := range o.dirties {
		if o.dirty[l] {
			o.clean(Literal(l))
		}
	}
	o.dirties = o.dirties[:0]
}

// Remove eagerly deletes the first entry matching pred from literal l's
// list. Unlike the lazy tombstone-based deletion the rest of this type
// relies on, Remove is for entries whose underlying value changed (e.g. a
// clause that was strengthened and no longer contains l) rather than ones
// that were deleted outright.
func (o *occLists[V]) Remove(l Literal, pred func(V) bool) {
	entries := o.entries[l]
	i := 0
	for i < len(entries) && !pred(entries[i]) {
		i++
	}
	if i == len(entries) {
		return // no matching entry
	}
	copy(entries[i:], entries[i+1:])
	o.entries[l] = entries[:len(entries)-1]
}

// Smudge marks literal l's list dirty. Idempotent.
func (o *occLists[V]) Smudge(l Literal) {
	if !o.dirty[l] {
		o.dirty[l] = true
		o.dirties = append(o.dirties, int(l))
	}
}
