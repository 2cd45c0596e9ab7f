package sat

// Analyze performs first-UIP conflict analysis starting from the
// conflicting clause confl. It returns a learnt clause (whose first literal
// is the asserting UIP literal) and the decision level to backjump to.
//
// It walks the trail backwards from the conflict, resolving away every
// literal assigned at the current decision level until exactly one remains:
// that literal is the first unique implication point. Literals assigned at
// earlier decision levels are kept (negated) in the learnt clause.
func (s *Solver) Analyze(confl Ref) ([]Literal, int) {
	pathCount := 0

	s.tmpLearnt = s.tmpLearnt[:0]
	s.tmpLearnt = append(s.tmpLearnt, LitUndef) // reserved for the UIP literal

	for i := range s.seen {
		s.seen[i] = false
	}

	backjumpLevel := 0
	trailIdx := len(s.trail) - 1
	p := LitUndef

	for {
		if confl == RefUndef {
			panic("sat: Analyze: resolved into a decision literal with no reason")
		}
		reasonLits := s.explain(confl, p)
		for _, q := range reasonLits {
			v := q.Variable()
			if s.seen[v] || s.level[v] == 0 {
				continue // already resolved, or a permanent root-level fact
			}
			s.seen[v] = true

			if s.level[v] >= s.decisionLevel() {
				pathCount++
				continue
			}

			s.tmpLearnt = append(s.tmpLearnt, q.Opposite())
			if s.level[v] > backjumpLevel {
				backjumpLevel = s.level[v]
			}
		}

		// Find the next seen literal on the trail to resolve on.
		for {
			p = s.trail[trailIdx]
			trailIdx--
			if s.seen[p.Variable()] {
				break
			}
		}
		confl = s.reason[p.Variable()]

		pathCount--
		if pathCount <= 0 {
			break
		}
	}

	s.tmpLearnt[0] = p.Opposite()
	return s.tmpLearnt, backjumpLevel
}

// explain returns the set of literals that, together, imply l (or, when l
// is LitUndef, the literals that together falsify the conflicting clause
// confl). Every returned literal is the negation of a literal appearing in
// confl, i.e. the antecedents of the implication.
func (s *Solver) explain(confl Ref, l Literal) []Literal {
	c := s.ca.Deref(confl)
	s.tmpClause = s.tmpClause[:0]
	start := 0
	if l != LitUndef {
		if c.Lit(0) != l {
			panic("sat: explain: l is not the clause's asserted literal")
		}
		start = 1
	}
	for i := start; i < c.Size(); i++ {
		s.tmpClause = append(s.tmpClause, c.Lit(i).Opposite())
	}
	return s.tmpClause
}
