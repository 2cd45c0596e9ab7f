package parsers

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/go-satsolver/satsolver/internal/sat"
)

// SATSolver is the subset of *sat.Solver that LoadDIMACS needs, so that
// callers can pass a test double instead of a real solver.
type SATSolver interface {
	NewVariable(upol sat.LBool, dvar bool) sat.Variable
	AddClause([]sat.Literal) error
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses the DIMACS CNF file and loads its CNF formula in the
// given SAT solver. Gzip-compressed files (.cnf.gz) are read transparently
// when gzipped is true.
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) error {
	f, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer f.Close()

	b := &builder{solver: solver}
	return dimacs.ReadBuilder(f, b)
}

// builder wraps the solver to implement dimacs.Builder.
type builder struct {
	solver SATSolver
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem")
	}
	for i := 0; i < nVars; i++ {
		b.solver.NewVariable(sat.Unknown, true)
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(sat.Variable(-l - 1))
		} else {
			clause[i] = sat.PositiveLiteral(sat.Variable(l - 1))
		}
	}
	return b.solver.AddClause(clause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// ReadModels returns the list of models (if any) contained in the given file.
// Fixture files pair a "<name>.cnf" instance with a "<name>.cnf.models" file
// listing every expected satisfying assignment, one clause-shaped line per
// model.
func ReadModels(filename string) ([][]bool, error) {
	f, err := reader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer f.Close()

	b := &modelBuilder{}
	if err := dimacs.ReadBuilder(f, b); err != nil {
		return nil, err
	}

	return b.models, nil
}

// modelBuilder wraps a model-file parse to implement dimacs.Builder: each
// "clause" line in a .models file is really a full variable assignment.
type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("model files should not have problem lines")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil // ignore comments
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
