package sat

import "testing"

func TestSolver_assume_and_cancelUntil(t *testing.T) {
	s := NewDefaultSolver()
	v0 := s.NewVariable(Unknown, true)
	v1 := s.NewVariable(Unknown, true)

	s.assume(PositiveLiteral(v0))
	s.assume(PositiveLiteral(v1))

	if got, want := s.decisionLevel(), 2; got != want {
		t.Fatalf("decisionLevel() = %d, want %d", got, want)
	}

	s.cancelUntil(1)

	if got, want := s.decisionLevel(), 1; got != want {
		t.Errorf("decisionLevel() after cancelUntil(1) = %d, want %d", got, want)
	}
	if got := s.VarValue(v1); got != Unknown {
		t.Errorf("VarValue(v1) after cancelUntil(1) = %v, want Unknown", got)
	}
	if got := s.VarValue(v0); got != True {
		t.Errorf("VarValue(v0) after cancelUntil(1) = %v, want True", got)
	}
}

func TestSolver_cancelUntil_clampsQueueHead(t *testing.T) {
	s := NewDefaultSolver()
	v0 := s.NewVariable(Unknown, true)

	s.assume(PositiveLiteral(v0))
	s.Propagate() // advances queueHead to len(trail)

	s.cancelUntil(0)

	if got, want := s.queueHead, 0; got != want {
		t.Errorf("queueHead after cancelUntil(0) = %d, want %d", got, want)
	}
}

func TestSolver_uncheckedEnqueue_alreadyFalsePanics(t *testing.T) {
	s := NewDefaultSolver()
	v0 := s.NewVariable(Unknown, true)
	s.uncheckedEnqueue(PositiveLiteral(v0), RefUndef)

	defer func() {
		if recover() == nil {
			t.Errorf("uncheckedEnqueue did not panic on an already-false literal")
		}
	}()
	s.uncheckedEnqueue(NegativeLiteral(v0), RefUndef)
}

func TestSolver_enqueue_alreadyTrueIsNoop(t *testing.T) {
	s := NewDefaultSolver()
	v0 := s.NewVariable(Unknown, true)
	s.uncheckedEnqueue(PositiveLiteral(v0), RefUndef)
	trailLen := len(s.trail)

	if ok := s.enqueue(PositiveLiteral(v0), RefUndef); !ok {
		t.Errorf("enqueue() of an already-true literal returned false")
	}
	if got := len(s.trail); got != trailLen {
		t.Errorf("enqueue() of an already-true literal grew the trail: got %d, want %d", got, trailLen)
	}
}
