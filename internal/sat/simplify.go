package sat

// touchAdded enqueues cr for a subsume0 pass: it is either a brand new
// original clause, or one whose contents changed enough that it should be
// re-checked against the rest of the database.
func (s *Solver) touchAdded(cr Ref) {
	if _, ok := s.addedSet[cr]; ok {
		return
	}
	s.addedSet[cr] = struct{}{}
	s.addedQueue = append(s.addedQueue, cr)
}

// touchStrengthened enqueues cr for a subsume1 pass after it was shortened
// by self-subsuming resolution.
func (s *Solver) touchStrengthened(cr Ref) {
	if _, ok := s.strengthenedSet[cr]; ok {
		return
	}
	s.strengthenedSet[cr] = struct{}{}
	s.strengthenedQueue = append(s.strengthenedQueue, cr)
}

func (s *Solver) drainAdded() []Ref {
	q := s.addedQueue
	s.addedQueue = nil
	s.addedSet = map[Ref]struct{}{}
	return q
}

func (s *Solver) drainStrengthened() []Ref {
	q := s.strengthenedQueue
	s.strengthenedQueue = nil
	s.strengthenedSet = map[Ref]struct{}{}
	return q
}

// varKey addresses the simplifier's occurrence table, which (unlike the
// watch lists) is indexed by variable rather than by literal: a clause
// containing either polarity of a variable must turn up in the same
// bucket, since self-subsuming resolution pairs a literal in one clause
// against its complement in another.
func varKey(v Variable) Literal { return Literal(v) }

// attachOccurrences indexes a freshly added original clause's literals into
// the occurrence lists and schedules it for a subsume0 pass.
func (s *Solver) attachOccurrences(cr Ref) {
	c := s.ca.Deref(cr)
	for i := 0; i < c.Size(); i++ {
		v := c.Lit(i).Variable()
		s.occ.Push(varKey(v), cr)
		s.activity[v]++
		s.order.Update(v)
	}
	if !s.opts.NoSubsumption {
		s.touchAdded(cr)
	}
}

// smallestOccurrenceLiteral returns the literal of c whose variable has the
// fewest live occurrences, the standard pivot choice for both subsume0 and
// subsume1.
func (s *Solver) smallestOccurrenceLiteral(c Clause) Literal {
	best := c.Lit(0)
	bestCount := len(s.occ.Lookup(varKey(best.Variable())))
	for i := 1; i < c.Size(); i++ {
		l := c.Lit(i)
		n := len(s.occ.Lookup(varKey(l.Variable())))
		if n < bestCount {
			best = l
			bestCount = n
		}
	}
	return best
}

// removeClause tombstones cr, detaches it from watchers and, if it is an
// original clause, from the occurrence lists and the per-variable activity
// counts that back branching.
func (s *Solver) removeClause(cr Ref) {
	c := s.ca.Deref(cr)
	s.detachClauseWatcher(cr, false)

	if !c.Learnt() {
		for i := 0; i < c.Size(); i++ {
			v := c.Lit(i).Variable()
			s.activity[v]--
			s.occ.Smudge(varKey(v))
			s.order.Update(v)
		}
	}

	// A removed clause may still be some level-0 variable's propagation
	// reason (unit propagation always enqueues with the reason's Lit(0) as
	// the asserted literal, and that position never moves afterward). Left
	// set, reason[v] would dangle into a freed clause and, after a second
	// garbage collection discards the arena it pointed into, dereferencing
	// it would read garbage or corrupt an unrelated clause.
	if v := c.Lit(0).Variable(); s.reason[v] == cr {
		s.reason[v] = RefUndef
	}

	c.SetMark(1)
	s.ca.Free(cr)
	s.checkGarbage()
}

// strengthenClause removes literal p from cr in place: detaches the
// clause's watchers (its watched literals may be among those shifted),
// strengthens it, re-attaches watchers (or enqueues it if it became a
// unit), removes it from p's occurrence list, and schedules it (if it is an
// original clause) for a subsume1 revisit.
func (s *Solver) strengthenClause(cr Ref, p Literal) bool {
	c := s.ca.Deref(cr)
	s.TotalStrengthened++

	if c.Size() == 2 {
		// Down to a unit: the clause degenerates entirely.
		other := c.Lit(0)
		if other == p {
			other = c.Lit(1)
		}
		s.removeClause(cr)
		return s.enqueue(other, RefUndef)
	}

	s.detachClauseWatcher(cr, true)
	c.Strengthen(p)
	s.occ.Remove(varKey(p.Variable()), func(r Ref) bool { return r == cr })
	if !c.Learnt() {
		v := p.Variable()
		s.activity[v]--
		s.order.Update(v)
	}
	s.attachClause(cr)

	if !s.opts.NoSubsumption && !c.Learnt() {
		s.touchStrengthened(cr)
	}
	return true
}

// subsume0 tombstones every original clause subsumed by cr.
func (s *Solver) subsume0(cr Ref) {
	c := s.ca.Deref(cr)
	if c.Learnt() || s.clauseTombstoned(cr) {
		return
	}
	pivot := s.smallestOccurrenceLiteral(c)
	candidates := append([]Ref(nil), s.occ.Lookup(varKey(pivot.Variable()))...)

	for _, d := range candidates {
		if d == cr || s.clauseTombstoned(d) {
			continue
		}
		other := s.ca.Deref(d)
		if c.Subsumes(other) == LitUndef {
			s.TotalSubsumed++
			s.removeClause(d)
		}
	}
}

// subsume1 runs self-subsuming resolution seeded at cr: whenever cr (or a
// clause it strengthens) subsumes-except-one-literal another clause e, e is
// shortened by that literal and requeued to look for further
// simplifications.
func (s *Solver) subsume1(cr Ref) {
	queue := []Ref{cr}
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		if s.clauseTombstoned(d) {
			continue
		}

		dC := s.ca.Deref(d)
		pivot := s.smallestOccurrenceLiteral(dC)
		candidates := append([]Ref(nil), s.occ.Lookup(varKey(pivot.Variable()))...)

		for _, e := range candidates {
			if e == d || s.clauseTombstoned(e) {
				continue
			}
			eC := s.ca.Deref(e)
			p := dC.Subsumes(eC)
			if p == LitUndef || p == LitError {
				continue
			}
			// p is a literal of d; the literal actually present in e (and to
			// be removed from it) is its complement.
			if !s.strengthenClause(e, p.Opposite()) {
				s.unsat = true
				return
			}
			queue = append(queue, e)
		}
	}
}

// reductionBySubsumption drains the added/strengthened work queues to a
// fixpoint, running subsume0 on newly added clauses and subsume1 on
// strengthened ones until both queues are empty.
func (s *Solver) reductionBySubsumption() {
	for len(s.addedQueue) > 0 || len(s.strengthenedQueue) > 0 {
		for _, cr := range s.drainAdded() {
			if !s.clauseTombstoned(cr) {
				s.subsume0(cr)
			}
		}
		for _, cr := range s.drainStrengthened() {
			if !s.clauseTombstoned(cr) {
				s.subsume1(cr)
			}
		}
	}
}

// simplifyAtRoot removes clauses satisfied by the root-level assignment and
// strengthens clauses containing root-level-false literals. It is the
// top-level pass Simplify runs before handing off to the subsumption
// fixpoint.
func (s *Solver) simplifyAtRoot(list *[]Ref) {
	clauses := *list
	j := 0
outer:
	for i := 0; i < len(clauses); i++ {
		cr := clauses[i]
		if s.clauseTombstoned(cr) {
			continue
		}
		c := s.ca.Deref(cr)

		satisfied := false
		for k := 0; k < c.Size(); k++ {
			if s.Value(c.Lit(k)) == True {
				satisfied = true
				break
			}
		}
		if satisfied {
			s.removeClause(cr)
			continue
		}

		for {
			removedLit := LitUndef
			for k := 0; k < c.Size(); k++ {
				if s.Value(c.Lit(k)) == False {
					removedLit = c.Lit(k)
					break
				}
			}
			if removedLit == LitUndef {
				break
			}
			if !s.strengthenClause(cr, removedLit) {
				s.unsat = true
			}
			if s.clauseTombstoned(cr) {
				continue outer
			}
			c = s.ca.Deref(cr)
		}

		clauses[j] = cr
		j++
	}
	*list = clauses[:j]
}

// Simplify cleans up the clause database according to the root-level
// assignment: it must only be called at decision level 0. Clauses satisfied
// there are removed, clauses containing root-level-false literals are
// strengthened, and (unless disabled) the subsumption/self-subsumption
// fixpoint is run over whatever that touched.
func (s *Solver) Simplify() bool {
	if s.decisionLevel() != 0 {
		panic("sat: Simplify: called above decision level 0")
	}

	if s.unsat {
		return false
	}
	if confl := s.Propagate(); confl != RefUndef {
		s.unsat = true
		return false
	}

	// removeClause's checkGarbage is suppressed for the whole pass: a
	// mid-pass collection would invalidate the Ref snapshots that
	// simplifyAtRoot and the subsumption fixpoint hold across iterations.
	// Garbage is instead checked once at the end, by which point the work
	// queues are guaranteed empty.
	s.simplifying = true
	s.simplifyAtRoot(&s.learnts)
	s.simplifyAtRoot(&s.clauses)

	if !s.opts.NoSubsumption {
		s.reductionBySubsumption()
	}
	s.simplifying = false
	s.checkGarbage()

	return !s.unsat
}

// checkGarbage triggers a garbage collection once wasted words cross the
// configured fraction of the store's size. It is a no-op while Simplify is
// suppressing mid-pass collections (see Simplify).
func (s *Solver) checkGarbage() {
	if s.simplifying || s.ca.Size() == 0 {
		return
	}
	if float64(s.ca.Wasted()) > float64(s.ca.Size())*s.opts.GarbageFrac {
		s.garbageCollect()
	}
}

// garbageCollect builds a compacted clause store and rewrites every Ref the
// solver holds (watchers, occurrence lists, reasons, and the clause/learnt
// lists themselves, dropping tombstoned entries from the latter) to point
// into it.
func (s *Solver) garbageCollect() {
	dest := NewClauseAllocator(s.ca.Size() - s.ca.Wasted())
	dest.SetExtraClauseField(true)
	s.relocateAll(dest)
	s.ca = dest
	s.TotalGCs++
}

func (s *Solver) relocateAll(dest *ClauseAllocator) {
	for v := 0; v < s.NumVariables(); v++ {
		for _, l := range [2]Literal{PositiveLiteral(Variable(v)), NegativeLiteral(Variable(v))} {
			ws := s.watches.Lookup(l)
			for i := range ws {
				s.ca.Reloc(&ws[i].clause, dest)
			}
		}

		os := s.occ.Lookup(varKey(Variable(v)))
		for i := range os {
			s.ca.Reloc(&os[i], dest)
		}
	}

	for v := range s.reason {
		// removeClause clears reason[v] for any variable whose reason it
		// tombstones, so every surviving entry here still points at a live
		// clause safe to relocate.
		if s.reason[v] != RefUndef {
			s.ca.Reloc(&s.reason[v], dest)
		}
	}

	s.clauses = relocList(s.ca, dest, s.clauses)
	s.learnts = relocList(s.ca, dest, s.learnts)
}

func relocList(ca, dest *ClauseAllocator, list []Ref) []Ref {
	j := 0
	for _, cr := range list {
		if ca.Deref(cr).Mark() == 1 {
			continue
		}
		ca.Reloc(&cr, dest)
		list[j] = cr
		j++
	}
	return list[:j]
}
