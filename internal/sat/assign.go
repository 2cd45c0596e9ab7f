package sat

// decisionLevel returns the current decision level: the number of decisions
// made since the root.
func (s *Solver) decisionLevel() int { return len(s.trailLim) }

// newDecisionLevel opens a new decision level at the current trail height.
func (s *Solver) newDecisionLevel() { s.trailLim = append(s.trailLim, len(s.trail)) }

// uncheckedEnqueue records l as true, with the given reason (RefUndef for a
// decision), without checking for a conflicting prior assignment. Callers
// must ensure l is not already assigned false.
func (s *Solver) uncheckedEnqueue(l Literal, reason Ref) {
	if s.Value(l) == False {
		panic("sat: uncheckedEnqueue: literal already false")
	}

	v := l.Variable()
	s.assigns[l] = True
	s.assigns[l.Opposite()] = False
	s.level[v] = s.decisionLevel()
	s.reason[v] = reason
	s.trail = append(s.trail, l)
}

// enqueue assigns l true with the given reason, returning false if l is
// already assigned false (a conflict) and true otherwise (including when l
// was already assigned true).
func (s *Solver) enqueue(l Literal, reason Ref) bool {
	switch s.Value(l) {
	case False:
		return false
	case True:
		return true
	default:
		s.uncheckedEnqueue(l, reason)
		return true
	}
}

// assume opens a new decision level and enqueues l as a decision (reason
// RefUndef). It returns false if l conflicts with the current assignment.
func (s *Solver) assume(l Literal) bool {
	s.newDecisionLevel()
	return s.enqueue(l, RefUndef)
}

// undoOne unassigns the most recently enqueued literal.
func (s *Solver) undoOne() {
	l := s.trail[len(s.trail)-1]
	v := l.Variable()

	s.assigns[l] = Unknown
	s.assigns[l.Opposite()] = Unknown
	s.reason[v] = RefUndef
	s.level[v] = -1
	s.trail = s.trail[:len(s.trail)-1]

	if !s.released[v] {
		s.order.Undo(v)
	}
}

// cancelUntil undoes assignments down to (but not including) level.
func (s *Solver) cancelUntil(level int) {
	for s.decisionLevel() > level {
		trailTarget := s.trailLim[len(s.trailLim)-1]
		for len(s.trail) > trailTarget {
			s.undoOne()
		}
		s.trailLim = s.trailLim[:len(s.trailLim)-1]
	}
	if s.queueHead > len(s.trail) {
		s.queueHead = len(s.trail)
	}
}
