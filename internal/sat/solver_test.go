package sat

import "testing"

func addClause(t *testing.T, s *Solver, ls ...int32) {
	t.Helper()
	if err := s.AddClause(lits(ls...)); err != nil {
		t.Fatalf("AddClause(%v) returned error: %v", ls, err)
	}
}

func TestSolver_NewVariable(t *testing.T) {
	s := NewDefaultSolver()

	v0 := s.NewVariable(Unknown, true)
	v1 := s.NewVariable(Unknown, true)

	if v0 != 0 || v1 != 1 {
		t.Fatalf("NewVariable() = %d, %d, want 0, 1", v0, v1)
	}
	if got, want := s.NumVariables(), 2; got != want {
		t.Errorf("NumVariables() = %d, want %d", got, want)
	}
	if got := s.VarValue(v0); got != Unknown {
		t.Errorf("VarValue(v0) = %v, want Unknown", got)
	}
}

func TestSolver_AddClause_tautologyDropped(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)
	s.NewVariable(Unknown, true)

	addClause(t, s, 1, -1, 2)

	if got, want := s.NumClauses(), 0; got != want {
		t.Errorf("NumClauses() after tautology = %d, want %d", got, want)
	}
}

func TestSolver_AddClause_duplicateLiteralsDropped(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)
	s.NewVariable(Unknown, true)

	addClause(t, s, 1, 2, 1)

	if got, want := s.NumClauses(), 1; got != want {
		t.Fatalf("NumClauses() = %d, want %d", got, want)
	}
	c := s.ca.Deref(s.clauses[0])
	if got, want := c.Size(), 2; got != want {
		t.Errorf("clause size after dedupe = %d, want %d", got, want)
	}
}

func TestSolver_AddClause_unitEnqueuesImmediately(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)

	addClause(t, s, 1)

	if got := s.Value(lits(1)[0]); got != True {
		t.Errorf("Value(1) after unit clause = %v, want True", got)
	}
	if got, want := s.NumClauses(), 0; got != want {
		t.Errorf("unit clause should not be stored: NumClauses() = %d, want %d", got, want)
	}
}

func TestSolver_AddClause_emptyMarksUnsat(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)

	addClause(t, s, 1)
	addClause(t, s, -1)

	if !s.unsat {
		t.Errorf("conflicting unit clauses did not mark solver unsat")
	}
}

func TestSolver_Propagate_unitChain(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.NewVariable(Unknown, true)
	}
	// -1 v 2, -2 v 3, 1  =>  1, 2, 3 all true by unit propagation. The unit
	// goes in last so that AddClause stores both binary clauses instead of
	// resolving them against an already-true 1.
	addClause(t, s, -1, 2)
	addClause(t, s, -2, 3)
	addClause(t, s, 1)

	if confl := s.Propagate(); confl != RefUndef {
		t.Fatalf("Propagate() found a spurious conflict")
	}
	for i, want := range []LBool{True, True, True} {
		if got := s.VarValue(Variable(i)); got != want {
			t.Errorf("VarValue(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestSolver_Propagate_conflict(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)
	s.NewVariable(Unknown, true)

	addClause(t, s, 1, 2)
	addClause(t, s, 1, -2)
	addClause(t, s, -1, 2)
	addClause(t, s, -1, -2)

	// No unit clauses yet, so nothing should have propagated or conflicted.
	if confl := s.Propagate(); confl != RefUndef {
		t.Fatalf("Propagate() found a conflict before any decision was made")
	}

	s.assume(lits(1)[0])
	confl := s.Propagate()
	if confl == RefUndef {
		t.Fatalf("Propagate() did not find the expected conflict after assuming 1")
	}
}

func TestSolver_Solve_trivialSAT(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)

	addClause(t, s, 1)

	if got := s.Solve(nil); got != True {
		t.Fatalf("Solve() = %v, want True", got)
	}
	if got := s.ModelValue(0); got != True {
		t.Errorf("ModelValue(0) = %v, want True", got)
	}
}

func TestSolver_Solve_trivialUNSAT(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)

	addClause(t, s, 1)
	addClause(t, s, -1)

	if got := s.Solve(nil); got != False {
		t.Fatalf("Solve() = %v, want False", got)
	}
}

func TestSolver_Solve_pigeonhole(t *testing.T) {
	// Three pigeons, two holes: unsatisfiable. Variable (i,j) = (i-1)*2+j
	// encodes "pigeon i is in hole j".
	s := NewDefaultSolver()
	for i := 0; i < 6; i++ {
		s.NewVariable(Unknown, true)
	}
	v := func(i, j int) int32 { return int32((i-1)*2 + j) }

	for i := 1; i <= 3; i++ {
		addClause(t, s, v(i, 1), v(i, 2))
	}
	for j := 1; j <= 2; j++ {
		for i1 := 1; i1 <= 3; i1++ {
			for i2 := i1 + 1; i2 <= 3; i2++ {
				addClause(t, s, -v(i1, j), -v(i2, j))
			}
		}
	}

	if got := s.Solve(nil); got != False {
		t.Fatalf("Solve() on pigeonhole(3,2) = %v, want False", got)
	}
}

func TestSolver_Solve_assumptionsConflict(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)

	addClause(t, s, 1)

	if got := s.Solve(lits(-1)); got != False {
		t.Fatalf("Solve([-1]) against a forced-true unit = %v, want False", got)
	}
}

func TestSolver_Simplify_removesSubsumedClause(t *testing.T) {
	s := NewDefaultSolver()
	for i := 0; i < 3; i++ {
		s.NewVariable(Unknown, true)
	}
	addClause(t, s, 1, 2)
	addClause(t, s, 1, 2, 3) // subsumed by the clause above

	before := s.NumClauses()
	if !s.Simplify() {
		t.Fatalf("Simplify() returned false unexpectedly")
	}
	// Whether the subsumed clause's removal from s.clauses happens within
	// this pass (via an end-of-pass GC) or only gets pruned by the next
	// simplifyAtRoot depends on the garbage fraction crossed; a second call
	// is always safe and guarantees it's visible either way.
	if !s.Simplify() {
		t.Fatalf("second Simplify() returned false unexpectedly")
	}
	after := s.NumClauses()

	if after >= before {
		t.Errorf("Simplify() did not shrink the clause count: before=%d after=%d", before, after)
	}
}

func TestSolver_Simplify_propagatesRootFalseLiteral(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)
	s.NewVariable(Unknown, true)

	// Added while both variables are still unassigned, so AddClause's own
	// root-level resolution pass has nothing to simplify yet.
	addClause(t, s, 1, 2)
	addClause(t, s, -1) // forces variable 0 false at the root afterwards

	// AddClause only resolves against assignments in place at the time each
	// clause was added, so {1, 2} is still stored. Simplify's opening
	// Propagate must now derive 2 through it (after which the clause is
	// satisfied at the root and removed).

	if !s.Simplify() {
		t.Fatalf("Simplify() returned false unexpectedly")
	}
	if got := s.Value(lits(2)[0]); got != True {
		t.Errorf("Value(2) after simplification = %v, want True", got)
	}
}

func TestSolver_ReleaseVariable(t *testing.T) {
	s := NewDefaultSolver()
	s.NewVariable(Unknown, true)

	s.ReleaseVariable(lits(1)[0])

	if got := s.Value(lits(1)[0]); got != True {
		t.Fatalf("Value(1) after ReleaseVariable = %v, want True", got)
	}
	if s.dvar[0] {
		t.Errorf("released variable still eligible for branching")
	}
}
