package sat

import (
	"math/rand"
	"testing"
)

func buildTwoVarChain(t *testing.T) *Formula {
	t.Helper()
	f := NewFormula(3)
	for _, cl := range [][]int{{1, 2}, {2, 3}} {
		if err := f.AddBaseClause(cl); err != nil {
			t.Fatalf("AddBaseClause(%v) error: %v", cl, err)
		}
	}
	return f
}

func TestArbitraryBrancher_PicksLowestUnassigned(t *testing.T) {
	f := buildTwoVarChain(t)
	pf := NewPropagatingFormula(f)
	b := NewArbitraryBrancher()

	v, value := b.Decide(pf)
	if got, want := v, Variable(0); got != want {
		t.Errorf("Decide() variable = %d, want %d", got, want)
	}
	if got, want := value, False; got != want {
		t.Errorf("Decide() value = %s, want %s", got, want)
	}
}

func TestRandomBrancher_OnlyReturnsUnassignedVariables(t *testing.T) {
	f := buildTwoVarChain(t)
	pf := NewPropagatingFormula(f)
	pf.Decide(0, True) // leaves 1 and 2 unassigned (clause "2 3" still unresolved)

	b := NewRandomBrancher(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		v, _ := b.Decide(pf)
		if pf.Trail().IsAssigned(v) {
			t.Fatalf("Decide() returned already-assigned variable %d", v)
		}
	}
}

func TestTwoChoiceBrancher_IgnoresBinaryClauses(t *testing.T) {
	// Variable 0 (DIMACS 1) occurs three times, but only in binary clauses,
	// so its score stays 0. Variable 1 (DIMACS 2) occurs in both ternary
	// clauses "2 3 4" and "-2 5 6" and scores 2; every other variable
	// occurs in at most one of them and scores at most 1. Variable 1 has
	// the unique highest score and wins regardless of the random tie-break
	// draw.
	f := NewFormula(6)
	for _, cl := range [][]int{{1, 2}, {-1, 3}, {1, -4}, {2, 3, 4}, {-2, 5, 6}} {
		if err := f.AddBaseClause(cl); err != nil {
			t.Fatalf("AddBaseClause(%v) error: %v", cl, err)
		}
	}
	pf := NewPropagatingFormula(f)
	b := NewTwoChoiceBrancher(f, rand.NewSource(7))

	v, _ := b.Decide(pf)
	if got, want := v, Variable(1); got != want {
		t.Errorf("Decide() variable = %d, want %d (in both ternary clauses)", got, want)
	}
}

func TestVSIDSBrancher_InitialScoresAndPreferredSign(t *testing.T) {
	f := NewFormula(2)
	for _, cl := range [][]int{{1, 2}, {1, -2}, {-1}} {
		if err := f.AddBaseClause(cl); err != nil {
			t.Fatalf("AddBaseClause(%v) error: %v", cl, err)
		}
	}
	// Variable 0 (DIMACS 1): 2 positive, 1 negative occurrences, score 3,
	// preferred sign True. Variable 1 (DIMACS 2): 1 positive, 1 negative,
	// score 2, preferred sign True (ties favor True per the reference).
	b := NewVSIDSBrancher(f)
	if got, want := b.scores[0], int64(3); got != want {
		t.Errorf("scores[0] = %d, want %d", got, want)
	}
	if got, want := b.scores[1], int64(2); got != want {
		t.Errorf("scores[1] = %d, want %d", got, want)
	}
	if got, want := b.sign[0], True; got != want {
		t.Errorf("sign[0] = %s, want %s", got, want)
	}
	if got, want := b.maxScore, int64(3); got != want {
		t.Errorf("maxScore = %d, want %d", got, want)
	}
	if got, want := b.bonus, int64(2); got != want { // 3/3 + 1 == 2
		t.Errorf("bonus = %d, want %d", got, want)
	}
}

func TestVSIDSBrancher_DecidePicksHighestScoringUnassigned(t *testing.T) {
	f := NewFormula(3)
	for _, cl := range [][]int{{1, 2}, {1, -2}, {-1, 3}} {
		if err := f.AddBaseClause(cl); err != nil {
			t.Fatalf("AddBaseClause(%v) error: %v", cl, err)
		}
	}
	pf := NewPropagatingFormula(f)
	b := NewVSIDSBrancher(f)

	v, value := b.Decide(pf)
	if got, want := v, Variable(0); got != want {
		t.Fatalf("Decide() variable = %d, want %d (highest initial score)", got, want)
	}
	if got, want := value, True; got != want {
		t.Errorf("Decide() value = %s, want %s", got, want)
	}
}

func TestVSIDSBrancher_DecideSkipsAssignedVariableAfterUnassign(t *testing.T) {
	f := NewFormula(2)
	for _, cl := range [][]int{{1, 2}} {
		if err := f.AddBaseClause(cl); err != nil {
			t.Fatalf("AddBaseClause(%v) error: %v", cl, err)
		}
	}
	pf := NewPropagatingFormula(f)
	b := NewVSIDSBrancher(f)

	v1, _ := b.Decide(pf)
	pf.Decide(v1, True)
	b.Unassign(v1) // simulates the driver's bookkeeping without a real backtrack

	// Re-decide: since v1 is (per the test harness) still marked assigned
	// on the trail, Decide must skip it and fall through to the other
	// variable rather than return it a second time.
	v2, _ := b.Decide(pf)
	if v2 == v1 {
		t.Fatalf("Decide() returned %d twice despite it being assigned", v1)
	}
}

func TestVSIDSBrancher_ScoresAndBonusStayBounded(t *testing.T) {
	f := NewFormula(4)
	for _, cl := range [][]int{{1, 2, 3}, {-1, 2, 4}, {1, -2, -3}, {-4, 3}} {
		if err := f.AddBaseClause(cl); err != nil {
			t.Fatalf("AddBaseClause(%v) error: %v", cl, err)
		}
	}
	b := NewVSIDSBrancher(f)

	for i := 0; i < 10_000; i++ {
		b.RecordLearnedClause([]Literal{PositiveLiteral(Variable(i % 4))})
		if b.maxScore > 1<<25 {
			t.Fatalf("maxScore = %d exceeds 2^25 after %d bumps", b.maxScore, i+1)
		}
		if b.bonus > 1<<25 {
			t.Fatalf("bonus = %d exceeds 2^25 after %d bumps", b.bonus, i+1)
		}
	}
}
