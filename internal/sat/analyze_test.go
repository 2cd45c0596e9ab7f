package sat

import "testing"

// TestSolver_Analyze_allAtSameLevelLearnsUnit exercises a classic case where
// every literal resolved away sits at the current decision level: the
// resulting learnt clause is the single asserting literal, and the backjump
// target is the root.
//
//	c1: -1 v 2
//	c2: -1 v 3
//	c3: -2 v -3 v 4
//	unit: -4
//
// Deciding 1 propagates 2 (via c1) and 3 (via c2), which then conflicts with
// c3 (since 4 is permanently false). First-UIP resolution should walk back
// through both implications without ever crossing a lower decision level,
// learning the unit clause {-1}.
func TestSolver_Analyze_allAtSameLevelLearnsUnit(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 4; i++ {
		s.NewVariable(Unknown, true)
	}

	addClause(t, s, -4)
	addClause(t, s, -1, 2)
	addClause(t, s, -1, 3)
	addClause(t, s, -2, -3, 4)

	if !s.assume(lits(1)[0]) {
		t.Fatalf("assume(1) failed unexpectedly")
	}
	confl := s.Propagate()
	if confl == RefUndef {
		t.Fatalf("Propagate() did not find the expected conflict")
	}

	learnt, backjumpLevel := s.Analyze(confl)

	if got, want := backjumpLevel, 0; got != want {
		t.Errorf("backjumpLevel = %d, want %d", got, want)
	}
	if got, want := learnt, lits(-1); len(got) != 1 || got[0] != want[0] {
		t.Errorf("learnt clause = %v, want %v", got, want)
	}
}

func TestSolver_assume_decisionHasNoReason(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)
	s.assume(lits(1)[0])

	if got := s.reason[0]; got != RefUndef {
		t.Errorf("reason[decision] = %v, want RefUndef", got)
	}
}
