package sat

import "math"

// Clause word layout, per spec: one header word, then size literal words,
// then (if hasExtra) one trailing word holding either a learnt clause's
// activity (as float32 bits) or an original clause's abstraction.
//
// Header bit layout (low to high): mark(2) | learnt(1) | hasExtra(1) |
// reloced(1) | size(27).
const (
	markBits   = 2
	markShift  = 0
	markMask   = uint32(1)<<markBits - 1
	learntBit  = markShift + markBits
	hasExtraBt = learntBit + 1
	relocedBit = hasExtraBt + 1
	sizeShift  = relocedBit + 1
)

// Clause is a view over a clause record stored in a ClauseAllocator's word
// arena. It is only valid until the next allocation or garbage collection
// on that arena; callers must re-derive it (via ClauseAllocator.Deref) after
// either.
type Clause struct {
	words []uint32
}

func (c Clause) header() uint32 { return c.words[0] }

// Mark returns the clause's 2-bit mark: 1 means tombstoned.
func (c Clause) Mark() uint32 { return (c.header() >> markShift) & markMask }

// SetMark sets the clause's mark.
func (c Clause) SetMark(m uint32) {
	c.words[0] = (c.words[0] &^ (markMask << markShift)) | ((m & markMask) << markShift)
}

// Learnt reports whether the clause was derived by conflict analysis rather
// than supplied by the caller.
func (c Clause) Learnt() bool { return c.header()&(1<<learntBit) != 0 }

// HasExtra reports whether the clause carries a trailing activity/
// abstraction word.
func (c Clause) HasExtra() bool { return c.header()&(1<<hasExtraBt) != 0 }

// Reloced reports whether the clause has already been relocated by a GC
// pass; if so, its literal-0 slot holds a forwarding Ref instead of a
// literal.
func (c Clause) Reloced() bool { return c.header()&(1<<relocedBit) != 0 }

// Size returns the number of literals in the clause.
func (c Clause) Size() int { return int(c.header() >> sizeShift) }

func (c Clause) setSize(n int) {
	c.words[0] = (c.words[0] & (uint32(1)<<sizeShift - 1)) | (uint32(n) << sizeShift)
}

// Lit returns the i'th literal.
func (c Clause) Lit(i int) Literal { return Literal(int32(c.words[1+i])) }

// SetLit overwrites the i'th literal. Callers that change clause contents
// in place must call RecomputeAbstraction afterwards for subsumption to
// keep working correctly.
func (c Clause) SetLit(i int, l Literal) { c.words[1+i] = uint32(int32(l)) }

// Last returns the clause's final literal.
func (c Clause) Last() Literal { return c.Lit(c.Size() - 1) }

// Has reports whether p occurs in the clause.
func (c Clause) Has(p Literal) bool {
	for i := 0; i < c.Size(); i++ {
		if c.Lit(i) == p {
			return true
		}
	}
	return false
}

func (c Clause) extraIndex() int { return 1 + c.Size() }

// Activity returns the clause's activity. Valid only for learnt clauses
// with HasExtra set.
func (c Clause) Activity() float32 {
	if !c.HasExtra() {
		panic("sat: Clause.Activity: clause has no extra field")
	}
	return math.Float32frombits(c.words[c.extraIndex()])
}

// SetActivity overwrites the clause's activity.
func (c Clause) SetActivity(v float32) {
	if !c.HasExtra() {
		panic("sat: Clause.SetActivity: clause has no extra field")
	}
	c.words[c.extraIndex()] = math.Float32bits(v)
}

// Abstraction returns the clause's abstraction word: the bitwise OR of its
// members' literal abstractions at the time it was last (re)computed. Valid
// only for original (non-learnt) clauses with HasExtra set.
func (c Clause) Abstraction() uint32 {
	if !c.HasExtra() {
		panic("sat: Clause.Abstraction: clause has no extra field")
	}
	return c.words[c.extraIndex()]
}

// SetAbstraction overwrites the clause's abstraction word.
func (c Clause) SetAbstraction(v uint32) {
	if !c.HasExtra() {
		panic("sat: Clause.SetAbstraction: clause has no extra field")
	}
	c.words[c.extraIndex()] = v
}

// RecomputeAbstraction recomputes the abstraction from the clause's current
// literals. Must be called after any in-place modification of a non-learnt
// clause's literals (e.g. Strengthen does this automatically).
func (c Clause) RecomputeAbstraction() {
	var abs uint32
	for i := 0; i < c.Size(); i++ {
		abs |= c.Lit(i).Abstraction()
	}
	c.SetAbstraction(abs)
}

// Shrink reduces the clause's size by n in place, preserving the extra word
// (if any) at its new position. It does not recompute the abstraction;
// callers that remove specific literals (as opposed to trailing ones) must
// do so themselves, or use Strengthen.
func (c Clause) Shrink(n int) {
	size := c.Size()
	if n > size {
		panic("sat: Clause.Shrink: n exceeds clause size")
	}
	if c.HasExtra() {
		c.words[1+size-n] = c.words[1+size]
	}
	c.setSize(size - n)
}

// Strengthen removes literal p from the clause and recomputes its
// abstraction. p must be present.
func (c Clause) Strengthen(p Literal) {
	idx := -1
	for i := 0; i < c.Size(); i++ {
		if c.Lit(i) == p {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("sat: Clause.Strengthen: literal not in clause")
	}
	for i := idx; i < c.Size()-1; i++ {
		c.SetLit(i, c.Lit(i+1))
	}
	c.Shrink(1)
	c.RecomputeAbstraction()
}

// Relocation returns the forwarding handle left behind by a GC pass. Valid
// only when Reloced is true.
func (c Clause) Relocation() Ref { return Ref(c.words[1]) }

// SetRelocation marks the clause as relocated and records where to.
func (c Clause) SetRelocation(r Ref) {
	c.words[0] |= 1 << relocedBit
	c.words[1] = uint32(r)
}

// Subsumes checks whether the clause subsumes other, and at the same time
// whether it can be used to simplify other by self-subsuming resolution.
//
// It returns LitError if neither holds, LitUndef if the clause subsumes
// other outright, or the literal p such that other can be simplified to
// other \ {¬p} (self-subsumption: the clause and other differ only in the
// complementary pair {p, ¬p}).
//
// Both clauses must be non-learnt and carry an abstraction.
func (c Clause) Subsumes(other Clause) Literal {
	if c.Learnt() || other.Learnt() || !c.HasExtra() || !other.HasExtra() {
		panic("sat: Clause.Subsumes: requires two non-learnt clauses with abstractions")
	}

	if other.Size() < c.Size() || (c.Abstraction() & ^other.Abstraction()) != 0 {
		return LitError
	}

	result := LitUndef
	for i := 0; i < c.Size(); i++ {
		found := false
		for j := 0; j < other.Size(); j++ {
			if c.Lit(i) == other.Lit(j) {
				found = true
				break
			}
			if result == LitUndef && c.Lit(i) == other.Lit(j).Opposite() {
				result = c.Lit(i)
				found = true
				break
			}
		}
		if !found {
			return LitError
		}
	}
	return result
}
