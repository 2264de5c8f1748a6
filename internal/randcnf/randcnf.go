// Package randcnf generates random k-CNF DIMACS files, grounded on
// _examples/original_source/randcnf.py.
package randcnf

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

// RandomClause returns a clause of numLits distinct, randomly signed
// variables drawn from [1, numVars] (DIMACS numbering). Grounded on
// randcnf.py's random_clause, which samples without replacement so a
// variable never appears twice in the same clause.
func RandomClause(rng *rand.Rand, numVars, numLits int) []int {
	vars := rng.Perm(numVars)[:numLits]
	clause := make([]int, numLits)
	for i, v := range vars {
		lit := v + 1
		if rng.Intn(2) == 0 {
			lit = -lit
		}
		clause[i] = lit
	}
	return clause
}

// RandomFormula returns numClauses independently drawn clauses of
// litsPerClause literals each, over numVars variables. Grounded on
// random_formula.
func RandomFormula(rng *rand.Rand, numVars, numClauses, litsPerClause int) [][]int {
	formula := make([][]int, numClauses)
	for i := range formula {
		formula[i] = RandomClause(rng, numVars, litsPerClause)
	}
	return formula
}

// WriteFormula writes formula to w as a DIMACS CNF problem over numVars
// variables. Grounded on write_formula.
func WriteFormula(w io.Writer, numVars int, formula [][]int) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", numVars, len(formula)); err != nil {
		return err
	}
	for _, clause := range formula {
		for _, lit := range clause {
			if _, err := fmt.Fprintf(w, "%d ", lit); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, "0"); err != nil {
			return err
		}
	}
	return nil
}

// WriteRandomFormula generates a random formula and writes it to filename
// as a DIMACS CNF file. Grounded on write_random_formula.
func WriteRandomFormula(rng *rand.Rand, filename string, numVars, numClauses, litsPerClause int) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("randcnf: %w", err)
	}
	defer f.Close()
	formula := RandomFormula(rng, numVars, numClauses, litsPerClause)
	return WriteFormula(f, numVars, formula)
}

// Fixed sizing policy for GeneratePolySuite, grounded on
// gen_poly_3cnf_suite's hardcoded constants: clause counts sweep from
// MinClauses to MaxClauses in steps of Step, Instances copies generated at
// each size, with K literals per clause and variable count scaled as
// ceil(clauses^(1/Pow)) so the clause-to-variable ratio drifts exactly the
// way the original's solver stress-test suite intended.
const (
	MinClauses = 32
	MaxClauses = 256
	Step       = 4
	Instances  = 16
	Pow        = 3
	K          = 3
)

// GeneratePolySuite reproduces gen_poly_3cnf_suite: it writes, into dir,
// Instances random 3-CNF instances at each clause count from MinClauses to
// MaxClauses (inclusive) in steps of Step, named
// poly-<vars>-<clauses>-<instance>.cnf.
func GeneratePolySuite(rng *rand.Rand, dir string) error {
	for m := MinClauses; m <= MaxClauses; m += Step {
		n := int(math.Ceil(math.Pow(float64(m), 1.0/Pow)))
		for i := 0; i < Instances; i++ {
			filename := filepath.Join(dir, fmt.Sprintf("poly-%d-%d-%d.cnf", n, m, i))
			if err := WriteRandomFormula(rng, filename, n, m, K); err != nil {
				return err
			}
		}
	}
	return nil
}
