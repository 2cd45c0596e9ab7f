package sat

import (
	"github.com/rhartert/yagh"
)

// VarOrder selects decision variables for the search loop. Per the spec's
// heuristics placeholder, activity is simply the number of non-tombstoned
// original clauses mentioning the variable (maintained incrementally by the
// solver as clauses are added and tombstoned); VarOrder itself only keeps a
// max-heap over that activity and toggles phase on every pick.
type VarOrder struct {
	solver *Solver
	phase  []bool // last polarity tried per variable; toggled on each pick.
	heap   *yagh.IntMap[float64]
}

// NewVarOrder returns a VarOrder over the solver's current variables.
func NewVarOrder(s *Solver) *VarOrder {
	vo := &VarOrder{
		solver: s,
		heap:   yagh.New[float64](max(len(s.activity), 1)),
	}
	for v := range s.activity {
		vo.heap.Put(v, -float64(s.activity[v]))
	}
	return vo
}

// AddVar registers a newly created variable with the heap. upol seeds the
// phase so the first decision tried matches it (Unknown leaves the default
// positive-first behavior).
func (vo *VarOrder) AddVar(v Variable, upol LBool) {
	vo.phase = append(vo.phase, upol == False)
	vo.heap.GrowBy(1)
	vo.heap.Put(int(v), -float64(vo.solver.activity[v]))
}

// Update refreshes v's position in the heap after its activity changed.
func (vo *VarOrder) Update(v Variable) {
	vo.heap.Put(int(v), -float64(vo.solver.activity[v]))
}

// Select pops the unassigned variable with the highest activity and returns
// the literal for it, toggling its phase. It returns LitUndef if every
// variable is assigned.
func (vo *VarOrder) Select() Literal {
	for {
		next, ok := vo.heap.Pop()
		if !ok {
			return LitUndef
		}
		v := Variable(next.Elem)
		if vo.solver.VarValue(v) != Unknown || !vo.solver.dvar[v] {
			continue // already assigned, or excluded from branching
		}

		vo.phase[v] = !vo.phase[v]
		if vo.phase[v] {
			return PositiveLiteral(v)
		}
		return NegativeLiteral(v)
	}
}

// Undo reinserts v into the heap after it is unassigned by backtracking.
func (vo *VarOrder) Undo(v Variable) {
	vo.heap.Put(int(v), -float64(vo.solver.activity[v]))
}

