package sat

import (
	"fmt"
	"time"
)

// watcher represents a clause attached to the watch list of a literal: the
// clause is re-examined whenever its watched literal is set to false.
type watcher struct {
	clause  Ref
	blocker Literal // a literal of the clause; if true, propagation can skip it
}

// Options configures a Solver. The zero value is not valid; use
// DefaultOptions as a starting point.
type Options struct {
	// MaxConflicts bounds the number of conflicts Solve will tolerate before
	// giving up and returning Unknown. Negative means unbounded.
	MaxConflicts int64
	// Timeout bounds wall-clock search time. Negative means unbounded.
	Timeout time.Duration
	// GarbageFrac triggers a clause-store GC once wasted words exceed this
	// fraction of the store's total size.
	GarbageFrac float64
	// NoSubsumption disables the subsumption/self-subsumption simplifier.
	NoSubsumption bool
}

// DefaultOptions mirrors the defaults used by the reference implementation.
var DefaultOptions = Options{
	MaxConflicts:  -1,
	Timeout:       -1,
	GarbageFrac:   0.20,
	NoSubsumption: false,
}

// Solver is a CDCL SAT solver over CNF formulas. It owns a region-allocated
// clause store, two-watched-literal propagation, first-UIP conflict
// analysis, and a subsumption-based simplifier.
type Solver struct {
	opts Options

	// Clause database.
	ca      *ClauseAllocator
	clauses []Ref // original (non-learnt) clauses
	learnts []Ref
	unsat   bool // true once a root-level conflict has been derived

	// Variable ordering.
	activity []int // number of live original clauses mentioning each variable
	order    *VarOrder
	dvar     []bool // whether a variable is eligible as a decision
	released []bool // whether a variable has been released back to the pool

	// Propagation and watchers. Pending literals to propagate are simply the
	// unprocessed suffix of the trail, tracked by queueHead.
	watches   *occLists[watcher]
	queueHead int

	// Assignment state.
	assigns  []LBool
	trail    []Literal
	trailLim []int
	reason   []Ref
	level    []int

	// Simplifier: per-variable occurrence lists of original clauses, and the
	// pending work sets driving the subsumption fixpoint.
	occ               *occLists[Ref]
	addedQueue        []Ref
	addedSet          map[Ref]struct{}
	strengthenedQueue []Ref
	strengthenedSet   map[Ref]struct{}
	simplifying       bool // true while Simplify is running; suppresses mid-pass GC

	// Final conflict core under assumptions: the negations of the subset of
	// assumptions that were actually responsible for unsatisfiability.
	assumptions []Literal
	conflict    map[Literal]struct{}

	// model holds a copy of the assignment found by the most recent
	// successful Solve, taken before the trail is unwound back to the root.
	model []LBool

	// Search statistics.
	TotalConflicts    int64
	TotalDecisions    int64
	TotalPropagations int64
	TotalGCs          int64
	TotalSubsumed     int64
	TotalStrengthened int64
	startTime         time.Time

	// Shared scratch state to avoid reallocating on every call.
	seen      []bool // used by Analyze
	tmpLearnt []Literal
	tmpClause []Literal
	addBuf    []Literal
}

// NewSolver returns an empty solver configured with opts.
func NewSolver(opts Options) *Solver {
	ca := NewClauseAllocator(0)
	ca.SetExtraClauseField(true)

	s := &Solver{
		opts:            opts,
		ca:              ca,
		addedSet:        map[Ref]struct{}{},
		strengthenedSet: map[Ref]struct{}{},
		conflict:        map[Literal]struct{}{},
	}
	s.watches = newOccLists[watcher](func(w watcher) bool { return s.clauseTombstoned(w.clause) })
	s.occ = newOccLists[Ref](func(r Ref) bool { return s.clauseTombstoned(r) })
	s.order = NewVarOrder(s)
	return s
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

func (s *Solver) clauseTombstoned(r Ref) bool {
	return s.ca.Deref(r).Mark() == 1
}

func (s *Solver) shouldStop() bool {
	if s.opts.MaxConflicts >= 0 && s.TotalConflicts >= s.opts.MaxConflicts {
		return true
	}
	if s.opts.Timeout >= 0 && time.Since(s.startTime) >= s.opts.Timeout {
		return true
	}
	return false
}

// NumVariables returns the number of variables ever created.
func (s *Solver) NumVariables() int { return len(s.assigns) / 2 }

// NumAssigns returns the number of currently assigned variables.
func (s *Solver) NumAssigns() int { return len(s.trail) }

// NumClauses returns the number of original (non-learnt) clauses.
func (s *Solver) NumClauses() int { return len(s.clauses) }

// NumLearnts returns the number of learnt clauses.
func (s *Solver) NumLearnts() int { return len(s.learnts) }

// VarValue returns v's current assignment.
func (s *Solver) VarValue(v Variable) LBool { return s.assigns[PositiveLiteral(v)] }

// Value returns l's current assignment, i.e. VarValue(l.Variable()).Xor(l.Sign()).
func (s *Solver) Value(l Literal) LBool { return s.assigns[l] }

// NewVariable creates a fresh variable, assigns it the given initial
// polarity preference (Unknown for "no preference"), and marks it eligible
// for branching according to dvar.
func (s *Solver) NewVariable(upol LBool, dvar bool) Variable {
	v := Variable(s.NumVariables())

	s.watches.expand()
	s.watches.expand()
	s.occ.expand() // the simplifier's occurrence table is indexed per variable, not per literal

	s.reason = append(s.reason, RefUndef)
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.level = append(s.level, -1)
	s.activity = append(s.activity, 0)
	s.dvar = append(s.dvar, dvar)
	s.released = append(s.released, false)
	s.seen = append(s.seen, false)

	s.order.AddVar(v, upol)

	return v
}

// ReleaseVariable marks v as permanently assigned to the value that makes l
// true and excludes it from future branching. It must not already be bound
// to the opposite value.
func (s *Solver) ReleaseVariable(l Literal) {
	v := l.Variable()
	if s.VarValue(v) == Unknown {
		s.uncheckedEnqueue(l, RefUndef)
	} else if s.Value(l) != True {
		panic("sat: ReleaseVariable: variable already bound to the opposite value")
	}
	s.released[v] = true
	s.dvar[v] = false
}

// Watch registers clause cr to wake up when literal watch is assigned true
// (i.e. its complement, the clause's watched literal, becomes false).
func (s *Solver) Watch(cr Ref, watch Literal, blocker Literal) {
	s.watches.Push(watch, watcher{clause: cr, blocker: blocker})
}

// Unwatch is the strict counterpart to Watch: it immediately removes cr from
// watch's list rather than lazily smudging it.
func (s *Solver) Unwatch(cr Ref, watch Literal) {
	s.watches.Remove(watch, func(w watcher) bool { return w.clause == cr })
}

// AddClause adds an original (non-learnt) clause. It may only be called at
// decision level 0; a call at any other level panics. Literals already false at the root level are dropped;
// a clause satisfied at the root level, or a syntactic tautology (a literal
// and its negation both present), is silently discarded rather than added.
// A clause that simplifies to empty marks the solver permanently
// unsatisfiable; one that simplifies to a unit is enqueued directly.
func (s *Solver) AddClause(literals []Literal) error {
	if s.decisionLevel() != 0 {
		panic(fmt.Sprintf("sat: AddClause: must be called at decision level 0, got %d", s.decisionLevel()))
	}
	if s.unsat {
		return nil
	}

	s.addBuf = append(s.addBuf[:0], literals...)

	// Pass 1: resolve against the root-level assignment.
	j := 0
	for _, l := range s.addBuf {
		if s.level[l.Variable()] == 0 {
			switch s.Value(l) {
			case True:
				return nil // already satisfied at the root
			case False:
				continue // permanently false: drop it
			}
		}
		s.addBuf[j] = l
		j++
	}
	s.addBuf = s.addBuf[:j]

	// Pass 2: dedupe, and bail out on a syntactic tautology.
	seen := make(map[Literal]bool, len(s.addBuf))
	j = 0
	for _, l := range s.addBuf {
		if seen[l.Opposite()] {
			return nil // p and ¬p both present: trivially satisfied
		}
		if seen[l] {
			continue
		}
		seen[l] = true
		s.addBuf[j] = l
		j++
	}
	s.addBuf = s.addBuf[:j]

	switch len(s.addBuf) {
	case 0:
		s.unsat = true
	case 1:
		if !s.enqueue(s.addBuf[0], RefUndef) {
			s.unsat = true
		}
	default:
		cr := s.ca.Allocate(s.addBuf, false)
		s.clauses = append(s.clauses, cr)
		s.attachClause(cr)
		s.attachOccurrences(cr)
	}
	return nil
}

func (s *Solver) String() string {
	return fmt.Sprintf("sat.Solver{vars: %d, clauses: %d, learnts: %d}",
		s.NumVariables(), s.NumClauses(), s.NumLearnts())
}
