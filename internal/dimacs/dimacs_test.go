package dimacs

import (
	"strings"
	"testing"

	"github.com/lfreitas/cdclsat/internal/sat"
)

func TestLoadDIMACS_cnf(t *testing.T) {
	f := sat.NewFormula(0)
	if err := LoadDIMACS("testdata/test_instance.cnf", false, f); err != nil {
		t.Fatalf("LoadDIMACS() error: %v", err)
	}
	if got, want := f.NumVariables(), 3; got != want {
		t.Errorf("NumVariables() = %d, want %d", got, want)
	}
	if got, want := len(f.Clauses()), 8; got != want {
		t.Errorf("len(Clauses()) = %d, want %d", got, want)
	}
}

func TestLoadDIMACS_gzip(t *testing.T) {
	f := sat.NewFormula(0)
	if err := LoadDIMACS("testdata/test_instance.cnf.gz", true, f); err != nil {
		t.Fatalf("LoadDIMACS() error: %v", err)
	}
	if got, want := f.NumVariables(), 3; got != want {
		t.Errorf("NumVariables() = %d, want %d", got, want)
	}
	if got, want := len(f.Clauses()), 8; got != want {
		t.Errorf("len(Clauses()) = %d, want %d", got, want)
	}
}

func TestLoadDIMACS_noFile(t *testing.T) {
	f := sat.NewFormula(0)
	if err := LoadDIMACS("testdata/does-not-exist.cnf", false, f); err == nil {
		t.Fatal("LoadDIMACS() error = nil, want an error")
	}
}

func TestLoadDIMACS_notGzipFile(t *testing.T) {
	f := sat.NewFormula(0)
	if err := LoadDIMACS("testdata/test_instance.cnf", true, f); err == nil {
		t.Fatal("LoadDIMACS() error = nil, want an error (not actually gzipped)")
	}
}

func TestLoadDIMACS_duplicateProblemLineIsRejected(t *testing.T) {
	f := sat.NewFormula(0)
	err := LoadDIMACS("testdata/duplicate_problem.cnf", false, f)
	if err == nil {
		t.Fatal("LoadDIMACS() error = nil, want a diagnostic for the duplicate problem line")
	}
	if !strings.Contains(err.Error(), "duplicate problem line") {
		t.Errorf("LoadDIMACS() error = %v, want it to mention the duplicate problem line", err)
	}
}

func TestLoadDIMACS_clauseCountMismatchIsRejected(t *testing.T) {
	f := sat.NewFormula(0)
	err := LoadDIMACS("testdata/count_mismatch.cnf", false, f)
	if err == nil {
		t.Fatal("LoadDIMACS() error = nil, want a diagnostic for the declared/actual clause count mismatch")
	}
}

// TestLoadDIMACS_tautologyExcludedFromCount is the spec's explicit carve-out:
// a tautological clause is dropped, and does not count against the declared
// clause total, so a file declaring 1 clause but containing 1 real clause
// plus 1 tautology must load cleanly.
func TestLoadDIMACS_tautologyExcludedFromCount(t *testing.T) {
	f := sat.NewFormula(0)
	if err := LoadDIMACS("testdata/with_tautology.cnf", false, f); err != nil {
		t.Fatalf("LoadDIMACS() error: %v, want the tautology to be silently excluded from the count check", err)
	}
	if got, want := len(f.Clauses()), 1; got != want {
		t.Errorf("len(Clauses()) = %d, want %d (the tautology must not be registered as a clause)", got, want)
	}
}

func TestParseModels(t *testing.T) {
	models, err := ParseModels("testdata/models.txt")
	if err != nil {
		t.Fatalf("ParseModels() error: %v", err)
	}
	want := [][]bool{
		{true, true, false},
		{false, false, true},
	}
	if len(models) != len(want) {
		t.Fatalf("ParseModels() returned %d models, want %d", len(models), len(want))
	}
	for i := range want {
		if len(models[i]) != len(want[i]) {
			t.Fatalf("model %d has %d literals, want %d", i, len(models[i]), len(want[i]))
		}
		for j := range want[i] {
			if models[i][j] != want[i][j] {
				t.Errorf("model %d literal %d = %v, want %v", i, j, models[i][j], want[i][j])
			}
		}
	}
}
