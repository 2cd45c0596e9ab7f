package sat

import "testing"

func lits(vs ...int32) []Literal {
	out := make([]Literal, len(vs))
	for i, v := range vs {
		if v < 0 {
			out[i] = NegativeLiteral(Variable(-v - 1))
		} else {
			out[i] = PositiveLiteral(Variable(v - 1))
		}
	}
	return out
}

func TestClauseAllocator_Allocate_original(t *testing.T) {
	ca := NewClauseAllocator(0)
	ca.SetExtraClauseField(true)

	cr := ca.Allocate(lits(1, -2, 3), false)
	c := ca.Deref(cr)

	if got, want := c.Size(), 3; got != want {
		t.Errorf("Size() = %d, want %d", got, want)
	}
	if c.Learnt() {
		t.Errorf("Learnt() = true, want false")
	}
	if !c.HasExtra() {
		t.Fatalf("HasExtra() = false, want true")
	}
	if c.Lit(0) != lits(1)[0] || c.Lit(1) != lits(-2)[0] || c.Lit(2) != lits(3)[0] {
		t.Errorf("literals mismatch: %v %v %v", c.Lit(0), c.Lit(1), c.Lit(2))
	}

	want := lits(1)[0].Abstraction() | lits(-2)[0].Abstraction() | lits(3)[0].Abstraction()
	if got := c.Abstraction(); got != want {
		t.Errorf("Abstraction() = %b, want %b", got, want)
	}
}

func TestClauseAllocator_Allocate_learnt(t *testing.T) {
	ca := NewClauseAllocator(0)

	cr := ca.Allocate(lits(1, 2), true)
	c := ca.Deref(cr)

	if !c.Learnt() {
		t.Errorf("Learnt() = false, want true")
	}
	if !c.HasExtra() {
		t.Fatalf("HasExtra() = false, want true (learnt clauses always carry activity)")
	}
	if got, want := c.Activity(), float32(0); got != want {
		t.Errorf("Activity() = %v, want %v", got, want)
	}
}

func TestClause_SetMark(t *testing.T) {
	ca := NewClauseAllocator(0)
	cr := ca.Allocate(lits(1, 2), false)
	c := ca.Deref(cr)

	if got, want := c.Mark(), uint32(0); got != want {
		t.Fatalf("Mark() = %d, want %d", got, want)
	}

	c.SetMark(1)

	if got, want := c.Mark(), uint32(1); got != want {
		t.Errorf("Mark() after SetMark(1) = %d, want %d", got, want)
	}
	if got, want := c.Size(), 2; got != want {
		t.Errorf("SetMark must not disturb Size(): got %d, want %d", got, want)
	}
}

func TestClause_Strengthen(t *testing.T) {
	ca := NewClauseAllocator(0)
	ca.SetExtraClauseField(true)
	cr := ca.Allocate(lits(1, 2, 3), false)
	c := ca.Deref(cr)

	c.Strengthen(lits(2)[0])

	if got, want := c.Size(), 2; got != want {
		t.Fatalf("Size() after Strengthen = %d, want %d", got, want)
	}
	if c.Has(lits(2)[0]) {
		t.Errorf("clause still has strengthened-out literal")
	}
	if !c.Has(lits(1)[0]) || !c.Has(lits(3)[0]) {
		t.Errorf("Strengthen dropped the wrong literal(s): %v %v", c.Lit(0), c.Lit(1))
	}

	want := lits(1)[0].Abstraction() | lits(3)[0].Abstraction()
	if got := c.Abstraction(); got != want {
		t.Errorf("Abstraction() not recomputed after Strengthen: got %b, want %b", got, want)
	}
}

func TestClause_Strengthen_literalNotPresentPanics(t *testing.T) {
	ca := NewClauseAllocator(0)
	cr := ca.Allocate(lits(1, 2), false)
	c := ca.Deref(cr)

	defer func() {
		if recover() == nil {
			t.Errorf("Strengthen with absent literal did not panic")
		}
	}()
	c.Strengthen(lits(3)[0])
}

func TestClause_Subsumes(t *testing.T) {
	ca := NewClauseAllocator(0)
	ca.SetExtraClauseField(true)

	tests := []struct {
		name string
		c    []Literal
		d    []Literal
		want Literal
	}{
		{
			name: "subsumes outright",
			c:    lits(1, 2),
			d:    lits(1, 2, 3),
			want: LitUndef,
		},
		{
			name: "self-subsumption resolvent",
			c:    lits(1, 2),
			d:    lits(-1, 2, 3),
			want: lits(1)[0],
		},
		{
			name: "unrelated clauses",
			c:    lits(1, 2),
			d:    lits(4, 5, 6),
			want: LitError,
		},
		{
			name: "d smaller than c can never be subsumed",
			c:    lits(1, 2, 3),
			d:    lits(1, 2),
			want: LitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := ca.Allocate(tt.c, false)
			dr := ca.Allocate(tt.d, false)
			c := ca.Deref(cr)
			d := ca.Deref(dr)

			if got := c.Subsumes(d); got != tt.want {
				t.Errorf("Subsumes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClauseAllocator_Reloc(t *testing.T) {
	src := NewClauseAllocator(0)
	src.SetExtraClauseField(true)
	dest := NewClauseAllocator(0)
	dest.SetExtraClauseField(true)

	cr := src.Allocate(lits(1, -2), false)
	ref := cr

	src.Reloc(&ref, dest)

	got := dest.Deref(ref)
	if got.Size() != 2 || got.Lit(0) != lits(1)[0] || got.Lit(1) != lits(-2)[0] {
		t.Errorf("relocated clause mismatch: size=%d lits=%v,%v", got.Size(), got.Lit(0), got.Lit(1))
	}

	// The source clause must now carry a forwarding pointer, and relocating
	// it again (e.g. via a second live reference) must follow that pointer
	// rather than copying a second time.
	c := src.Deref(cr)
	if !c.Reloced() {
		t.Fatalf("source clause not marked Reloced after Reloc")
	}

	ref2 := cr
	src.Reloc(&ref2, dest)
	if ref2 != ref {
		t.Errorf("second Reloc() = %v, want forwarding to same ref %v", ref2, ref)
	}
}
