package sat

// attachClause inserts cr into the watch lists of its first two literals.
// The clause must already have at least two literals; unit and empty
// clauses are handled by the caller before this is ever invoked.
func (s *Solver) attachClause(cr Ref) {
	c := s.ca.Deref(cr)
	if c.Size() < 2 {
		panic("sat: attachClause: clause has fewer than two literals")
	}
	s.Watch(cr, c.Lit(0).Opposite(), c.Lit(1))
	s.Watch(cr, c.Lit(1).Opposite(), c.Lit(0))
}

// detachClauseWatcher removes cr from the watch lists of its first two
// literals. When strict is false (the common case), the removal is a lazy
// smudge that a later CleanAll (or the next Propagate) will compact away;
// when true, the watchers are removed immediately, which debugging code and
// invariant checks rely on to see a watcher-list state with no stale
// entries at all.
func (s *Solver) detachClauseWatcher(cr Ref, strict bool) {
	c := s.ca.Deref(cr)
	if c.Size() < 2 {
		return
	}
	w0, w1 := c.Lit(0).Opposite(), c.Lit(1).Opposite()
	if strict {
		s.Unwatch(cr, w0)
		s.Unwatch(cr, w1)
		return
	}
	s.watches.Smudge(w0)
	s.watches.Smudge(w1)
}

// Propagate runs unit propagation to a fixpoint, returning RefUndef if no
// conflict was found, or the conflicting clause's handle otherwise. On
// conflict, the trail is left exactly as it was when the conflict was
// discovered; the caller is responsible for analysis and backtracking.
func (s *Solver) Propagate() Ref {
	confl := RefUndef
	numProps := 0

	for s.queueHead < len(s.trail) {
		p := s.trail[s.queueHead]
		s.queueHead++
		numProps++

		ws := s.watches.Lookup(p)
		i, j := 0, 0
		for i < len(ws) {
			blocker := ws[i].blocker
			if s.Value(blocker) == True {
				ws[j] = ws[i]
				i++
				j++
				continue
			}

			cr := ws[i].clause
			c := s.ca.Deref(cr)
			falseLit := p.Opposite()
			if c.Lit(0) == falseLit {
				c.SetLit(0, c.Lit(1))
				c.SetLit(1, falseLit)
			}
			i++

			first := c.Lit(0)
			w := watcher{clause: cr, blocker: first}
			if first != blocker && s.Value(first) == True {
				ws[j] = w
				j++
				continue
			}

			foundNewWatch := false
			for k := 2; k < c.Size(); k++ {
				if s.Value(c.Lit(k)) != False {
					c.SetLit(1, c.Lit(k))
					c.SetLit(k, falseLit)
					s.Watch(cr, c.Lit(1).Opposite(), w.blocker)
					foundNewWatch = true
					break
				}
			}
			if foundNewWatch {
				continue
			}

			ws[j] = w
			j++
			if s.Value(first) == False {
				confl = cr
				s.queueHead = len(s.trail)
				for i < len(ws) {
					ws[j] = ws[i]
					i++
					j++
				}
			} else {
				s.uncheckedEnqueue(first, cr)
			}
		}
		s.watches.Set(p, ws[:j])
	}

	s.TotalPropagations += int64(numProps)
	return confl
}
