package dimacs

import (
	"fmt"

	rdimacs "github.com/rhartert/dimacs"
)

// ParseModels reads a file of DIMACS-clause-formatted assignment lines (no
// problem line, one model per line) and returns each as a slice of bools
// indexed by the order literals appeared, positive meaning true. Grounded
// on the teacher's parsers.ReadModels/modelBuilder, reusing the same
// ReadBuilder entry point rather than a bespoke scanner since the wire
// format is identical to a clause body.
func ParseModels(filename string) ([][]bool, error) {
	r, err := reader(filename, false)
	if err != nil {
		return nil, fmt.Errorf("dimacs: error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &modelBuilder{}
	if err := rdimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("dimacs: %w", err)
	}
	return b.models, nil
}

// modelBuilder adapts rdimacs.Builder to collect each clause-shaped line as
// a model instead of a CNF clause.
type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars, nClauses int) error {
	return fmt.Errorf("model files should not have a problem line")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}

func (b *modelBuilder) Clause(tmpClause []int) error {
	model := make([]bool, len(tmpClause))
	for i, l := range tmpClause {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
