package sat

import "time"

// record turns a freshly learnt clause into a permanent one: allocates it,
// attaches its watchers (or enqueues it directly if it is a unit), and
// appends it to the learnt clause list.
func (s *Solver) record(literals []Literal) {
	if len(literals) == 1 {
		s.uncheckedEnqueue(literals[0], RefUndef)
		return
	}

	// literals[1] must be the literal with the highest decision level among
	// literals[1:], so that it (and not some lower-level literal) ends up as
	// the clause's second watched literal.
	maxLevel, wl := -1, -1
	for i := 1; i < len(literals); i++ {
		if level := s.level[literals[i].Variable()]; level > maxLevel {
			maxLevel = level
			wl = i
		}
	}
	literals[wl], literals[1] = literals[1], literals[wl]

	cr := s.ca.Allocate(literals, true)
	s.attachClause(cr)
	s.learnts = append(s.learnts, cr)
	s.uncheckedEnqueue(literals[0], cr)
}

// Search runs the CDCL loop: propagate, and on conflict analyze and
// backjump, otherwise decide. It returns True/False once the instance is
// resolved, or Unknown if a stop condition (conflict budget or timeout) is
// hit first.
func (s *Solver) Search() LBool {
	if s.unsat {
		return False
	}

	for {
		confl := s.Propagate()
		if confl != RefUndef {
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return False
			}

			learnt, backjumpLevel := s.Analyze(confl)
			s.cancelUntil(backjumpLevel)
			s.record(learnt)

			if s.shouldStop() {
				return Unknown
			}
			continue
		}

		// No conflict.
		if s.decisionLevel() == 0 && len(s.addedQueue)+len(s.strengthenedQueue) > 0 {
			s.Simplify()
		}

		if s.NumAssigns() == s.NumVariables() {
			s.saveModel()
			return True
		}

		if s.shouldStop() {
			return Unknown
		}

		l := s.order.Select()
		if l == LitUndef {
			s.saveModel()
			return True
		}
		s.TotalDecisions++
		s.assume(l)
	}
}

// Solve runs the search loop to completion (modulo stop conditions),
// returning True, False, or Unknown. assumptions are enqueued as decisions,
// one level each, with a propagation after each one; if any conflicts with the
// existing assignment (or with each other), Solve returns False and
// populates the Conflict core.
func (s *Solver) Solve(assumptions []Literal) LBool {
	s.assumptions = assumptions
	s.startTime = time.Now()

	if s.unsat {
		return False
	}

	for _, a := range assumptions {
		if !s.assume(a) {
			s.analyzeFinalFromAssumption(a)
			s.cancelUntil(0)
			return False
		}
		if confl := s.Propagate(); confl != RefUndef {
			s.analyzeFinal(confl)
			s.cancelUntil(0)
			return False
		}
	}

	status := s.Search()
	s.cancelUntil(0)
	return status
}

// SolveLimited behaves like Solve, but additionally gives up and returns
// Unknown once this call alone has spent budget conflicts, regardless of
// Options.MaxConflicts. A negative budget imposes no additional limit and
// SolveLimited reduces to Solve.
func (s *Solver) SolveLimited(assumptions []Literal, budget int64) LBool {
	if budget < 0 {
		return s.Solve(assumptions)
	}

	prevMax := s.opts.MaxConflicts
	callLimit := s.TotalConflicts + budget
	if prevMax < 0 || callLimit < prevMax {
		s.opts.MaxConflicts = callLimit
	}
	defer func() { s.opts.MaxConflicts = prevMax }()

	return s.Solve(assumptions)
}

// saveModel snapshots the current (complete) assignment, so it survives the
// cancelUntil(0) that Solve performs before returning.
func (s *Solver) saveModel() {
	s.model = make([]LBool, s.NumVariables())
	for v := 0; v < s.NumVariables(); v++ {
		s.model[v] = s.VarValue(Variable(v))
	}
}

// ModelValue returns v's value in the most recently found model. It is only
// meaningful after Solve has returned True.
func (s *Solver) ModelValue(v Variable) LBool {
	if int(v) >= len(s.model) {
		return Unknown
	}
	return s.model[v]
}

// analyzeFinal computes the subset of assumptions that participated in
// deriving confl, by walking the trail the same way Analyze does but
// without producing a learnt clause.
func (s *Solver) analyzeFinal(confl Ref) {
	for k := range s.conflict {
		delete(s.conflict, k)
	}
	for i := range s.seen {
		s.seen[i] = false
	}

	c := s.ca.Deref(confl)
	for i := 0; i < c.Size(); i++ {
		v := c.Lit(i).Variable()
		if s.level[v] > 0 {
			s.seen[v] = true
		}
	}

	s.walkTrailForFinalConflict()
}

// analyzeFinalFromAssumption is analyzeFinal's counterpart for the
// degenerate case where assumption a is already false before it is ever
// enqueued, i.e. it was already implied (by an earlier assumption, or by a
// root-level fact) rather than contradicted by propagation. There is no
// conflicting clause to seed the walk from here, only a's own negation.
func (s *Solver) analyzeFinalFromAssumption(a Literal) {
	for k := range s.conflict {
		delete(s.conflict, k)
	}
	for i := range s.seen {
		s.seen[i] = false
	}

	s.conflict[a.Opposite()] = struct{}{}
	if s.decisionLevel() == 0 {
		return
	}
	s.seen[a.Variable()] = true

	s.walkTrailForFinalConflict()
}

// walkTrailForFinalConflict is the shared trail walk behind analyzeFinal
// and analyzeFinalFromAssumption: every trail literal seeded into s.seen by
// the caller is either a prior assumption (no reason: its negation joins
// the conflict core) or a propagated fact (its reason's antecedents above
// level 0 are seeded in turn).
func (s *Solver) walkTrailForFinalConflict() {
	for i := len(s.trail) - 1; i >= s.trailLim[0]; i-- {
		l := s.trail[i]
		v := l.Variable()
		if !s.seen[v] {
			continue
		}
		if s.reason[v] == RefUndef {
			s.conflict[l.Opposite()] = struct{}{}
		} else {
			reason := s.ca.Deref(s.reason[v])
			for j := 1; j < reason.Size(); j++ {
				rv := reason.Lit(j).Variable()
				if s.level[rv] > 0 {
					s.seen[rv] = true
				}
			}
		}
		s.seen[v] = false
	}
}

// Conflict returns the final conflict core: the negations of the subset of
// the last Solve call's assumptions that, together, are already
// unsatisfiable. Only meaningful after Solve has returned False.
func (s *Solver) Conflict() []Literal {
	out := make([]Literal, 0, len(s.conflict))
	for l := range s.conflict {
		out = append(out, l)
	}
	return out
}
