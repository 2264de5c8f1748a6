// Package dimacs wraps github.com/rhartert/dimacs to load a CNF formula
// straight into a sat.Formula, and to read plain DIMACS-clause model/result
// files back. Grounded on the teacher's parsers/parsers.go.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	rdimacs "github.com/rhartert/dimacs"

	"github.com/lfreitas/cdclsat/internal/sat"
)

// FormulaBuilder is the subset of *sat.Formula the DIMACS loader needs: a
// way to grow the variable set and to add clauses using DIMACS's own
// signed-integer literal encoding.
type FormulaBuilder interface {
	AddVariable() sat.Variable
	AddBaseClause(dimacsLiterals []int) error
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

// LoadDIMACS parses the DIMACS CNF file at filename and loads its formula
// into fb, per spec.md §6's wire-format contract: exactly one problem line,
// clauses may span lines, a trailing clause's final 0 is tolerated. A
// duplicate problem line, a clause count mismatch against the declared
// total (tautological clauses excluded from that count), or a literal
// naming a variable outside the declared range are all rejected with a
// diagnostic rather than silently tolerated or left to panic deep inside
// the solver.
func LoadDIMACS(filename string, gzipped bool, fb FormulaBuilder) error {
	r, err := reader(filename, gzipped)
	if err != nil {
		return fmt.Errorf("dimacs: error reading file %q: %w", filename, err)
	}
	defer r.Close()

	b := &builder{formula: fb}
	if err := rdimacs.ReadBuilder(r, b); err != nil {
		return fmt.Errorf("dimacs: %w", err)
	}
	if !b.sawProblem {
		return fmt.Errorf("dimacs: missing problem line")
	}
	if b.clauseCount != b.declaredClauses {
		return fmt.Errorf("dimacs: declared %d clauses, found %d (tautological clauses excluded from this count)", b.declaredClauses, b.clauseCount)
	}
	return nil
}

// builder adapts a FormulaBuilder to rdimacs.Builder, the interface
// github.com/rhartert/dimacs's ReadBuilder drives as it scans the file.
type builder struct {
	formula FormulaBuilder

	sawProblem      bool
	declaredVars    int
	declaredClauses int
	clauseCount     int // non-tautological clauses seen so far
}

func (b *builder) Problem(problem string, nVars, nClauses int) error {
	if b.sawProblem {
		return fmt.Errorf("duplicate problem line")
	}
	if problem != "cnf" {
		return fmt.Errorf("instance of type %q is not supported", problem)
	}
	b.sawProblem = true
	b.declaredVars = nVars
	b.declaredClauses = nClauses
	for i := 0; i < nVars; i++ {
		b.formula.AddVariable()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	if !b.sawProblem {
		return fmt.Errorf("clause encountered before problem line")
	}
	for _, l := range tmpClause {
		if v := abs(l); v > b.declaredVars {
			return fmt.Errorf("clause literal %d names a variable beyond the declared %d", l, b.declaredVars)
		}
	}
	if !isTautology(tmpClause) {
		b.clauseCount++
	}
	return b.formula.AddBaseClause(tmpClause)
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}

// isTautology reports whether a clause contains both a literal and its
// negation, per spec.md §4.3/§6: such clauses are dropped and excluded from
// the declared clause count, not rejected as malformed.
func isTautology(lits []int) bool {
	seen := make(map[int]bool, len(lits))
	for _, l := range lits {
		if seen[-l] {
			return true
		}
		seen[l] = true
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
