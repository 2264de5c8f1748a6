package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// Brancher is the pluggable decision heuristic of spec.md §4.6: it picks
// the next branching variable and its value, and optionally reacts to
// conflict analysis so later decisions can take learned information into
// account. The three capabilities mirror the reference's ABC: a brancher
// that ignores resolved literals and learned clauses (ArbitraryBrancher,
// RandomBrancher) simply no-ops those methods.
type Brancher interface {
	// Decide returns the next (unassigned) variable to branch on and the
	// value to assign it.
	Decide(pf *PropagatingFormula) (Variable, Value)
	// RecordResolvedLiteral is called, for each trail item that conflict
	// analysis visited while walking the conflict DAG backwards, with the
	// literal that item currently makes true.
	RecordResolvedLiteral(lit Literal)
	// RecordLearnedClause is called once per clause learned from a
	// conflict, after RecordResolvedLiteral has already been called for
	// every item visited during that conflict's analysis.
	RecordLearnedClause(clause []Literal)
	// Unassign notifies the brancher that v, previously assigned, has just
	// been unassigned by a backtrack and is eligible to be decided again.
	// Branchers that re-derive their candidate set from the trail on every
	// Decide (Arbitrary, Random, TwoChoice) have nothing to do here; a
	// heap-backed brancher (VSIDS) uses it to reinsert v.
	Unassign(v Variable)
}

func firstUnassigned(trail *Trail) Variable {
	for v := 0; v < trail.NumVars(); v++ {
		if !trail.IsAssigned(Variable(v)) {
			return Variable(v)
		}
	}
	panic("sat: firstUnassigned called with no unassigned variable")
}

func unassignedVars(trail *Trail) []Variable {
	vars := make([]Variable, 0, trail.NumUnassigned())
	for v := 0; v < trail.NumVars(); v++ {
		if !trail.IsAssigned(Variable(v)) {
			vars = append(vars, Variable(v))
		}
	}
	return vars
}

// ArbitraryBrancher always picks the lowest-numbered unassigned variable and
// assigns it False. Grounded on arbitrary_brancher.py.
type ArbitraryBrancher struct{}

func NewArbitraryBrancher() *ArbitraryBrancher { return &ArbitraryBrancher{} }

func (b *ArbitraryBrancher) Decide(pf *PropagatingFormula) (Variable, Value) {
	return firstUnassigned(pf.Trail()), False
}

func (b *ArbitraryBrancher) RecordResolvedLiteral(lit Literal)    {}
func (b *ArbitraryBrancher) RecordLearnedClause(clause []Literal) {}
func (b *ArbitraryBrancher) Unassign(v Variable)                  {}

// RandomBrancher picks a uniformly random unassigned variable and assigns it
// False. Grounded on random_brancher.py.
type RandomBrancher struct {
	rng *rand.Rand
}

// NewRandomBrancher returns a RandomBrancher seeded from src.
func NewRandomBrancher(src rand.Source) *RandomBrancher {
	return &RandomBrancher{rng: rand.New(src)}
}

func (b *RandomBrancher) Decide(pf *PropagatingFormula) (Variable, Value) {
	vars := unassignedVars(pf.Trail())
	return vars[b.rng.Intn(len(vars))], False
}

func (b *RandomBrancher) RecordResolvedLiteral(lit Literal)    {}
func (b *RandomBrancher) RecordLearnedClause(clause []Literal) {}
func (b *RandomBrancher) Unassign(v Variable)                  {}

// TwoChoiceBrancher scores each variable by how many non-binary clauses
// mention it (binary clauses are excluded from scoring, following the
// reference's rationale that they constrain the search less per
// occurrence), then at each decision picks uniformly among the unassigned
// variables with the highest score and assigns it a uniformly random value.
// Grounded on two_choice_brancher.py.
type TwoChoiceBrancher struct {
	scores []int
	rng    *rand.Rand
}

// NewTwoChoiceBrancher scores every variable against f's clauses as they
// stand at construction time.
func NewTwoChoiceBrancher(f *Formula, src rand.Source) *TwoChoiceBrancher {
	scores := make([]int, f.NumVariables())
	for _, c := range f.Clauses() {
		lits := c.Literals()
		if len(lits) == 2 {
			continue
		}
		for _, lit := range lits {
			scores[lit.Var()]++
		}
	}
	return &TwoChoiceBrancher{scores: scores, rng: rand.New(src)}
}

func (b *TwoChoiceBrancher) Decide(pf *PropagatingFormula) (Variable, Value) {
	trail := pf.Trail()
	var maxVars []Variable
	maxScore := 0
	for v := 0; v < trail.NumVars(); v++ {
		variable := Variable(v)
		if trail.IsAssigned(variable) {
			continue
		}
		switch score := b.scores[v]; {
		case score > maxScore:
			maxScore = score
			maxVars = []Variable{variable}
		case score == maxScore:
			maxVars = append(maxVars, variable)
		}
	}
	v := maxVars[b.rng.Intn(len(maxVars))]
	return v, Lift(b.rng.Intn(2) == 1)
}

func (b *TwoChoiceBrancher) RecordResolvedLiteral(lit Literal)    {}
func (b *TwoChoiceBrancher) RecordLearnedClause(clause []Literal) {}
func (b *TwoChoiceBrancher) Unassign(v Variable)                  {}

// vsidsMaintenanceThreshold and vsidsRescaleShift bound VSIDS scores and the
// bonus exactly as spec.md §8's property test expects: after any number of
// bumps, both stay below 2²⁵ (they're rescaled as soon as either would
// exceed 2²⁴).
const (
	vsidsMaintenanceThreshold = 1 << 24
	vsidsRescaleShift         = 16
)

// VSIDSBrancher implements Variable State Independent Decaying Sum: each
// variable's score starts at its total literal occurrence count, is bumped
// by a growing bonus whenever it participates in conflict analysis, and is
// rescaled whenever the bonus or the top score would otherwise overflow.
// The preferred value of a variable is the polarity it appeared in most
// often in the original formula. Grounded on vsids_brancher.py, using the
// teacher's own IntMap-based priority order (internal/sat/ordering.go in
// the example pack) for the max-score pop instead of a linear scan.
type VSIDSBrancher struct {
	order *yagh.IntMap[int64]

	scores   []int64
	sign     []Value
	maxScore int64
	bonus    int64
}

// NewVSIDSBrancher scores every variable against f's clauses as they stand
// at construction time (the reference reads `formula.formula.formula`, the
// original clause list, once at construction).
func NewVSIDSBrancher(f *Formula) *VSIDSBrancher {
	n := f.NumVariables()
	negCounts := make([]int64, n)
	posCounts := make([]int64, n)
	for _, c := range f.Clauses() {
		for _, lit := range c.Literals() {
			if lit.IsPositive() {
				posCounts[lit.Var()]++
			} else {
				negCounts[lit.Var()]++
			}
		}
	}

	b := &VSIDSBrancher{
		order: yagh.New[int64](n),
		scores: make([]int64, n),
		sign:   make([]Value, n),
	}
	b.order.GrowBy(n)
	for v := 0; v < n; v++ {
		total := negCounts[v] + posCounts[v]
		b.scores[v] = total
		if negCounts[v] > posCounts[v] {
			b.sign[v] = False
		} else {
			b.sign[v] = True
		}
		if total > b.maxScore {
			b.maxScore = total
		}
		b.order.Put(v, -total)
	}
	b.bonus = b.maxScore/3 + 1
	return b
}

func (b *VSIDSBrancher) bump(v Variable) {
	b.scores[v] += b.bonus
	if b.scores[v] >= b.maxScore {
		b.maxScore = b.scores[v]
	}
	if b.order.Contains(int(v)) {
		b.order.Put(int(v), -b.scores[v])
	}
}

func (b *VSIDSBrancher) RecordResolvedLiteral(lit Literal) {
	b.bump(lit.Var())
	b.maintain()
}

func (b *VSIDSBrancher) RecordLearnedClause(clause []Literal) {
	for _, lit := range clause {
		b.bump(lit.Var())
	}
	b.bonus = ceilDiv(b.bonus*6, 5)
	b.maintain()
}

func (b *VSIDSBrancher) maintain() {
	if b.maxScore <= vsidsMaintenanceThreshold && b.bonus <= vsidsMaintenanceThreshold {
		return
	}
	b.bonus >>= vsidsRescaleShift
	b.maxScore = 0
	for v, s := range b.scores {
		rescaled := s >> vsidsRescaleShift
		b.scores[v] = rescaled
		if rescaled > b.maxScore {
			b.maxScore = rescaled
		}
		if b.order.Contains(v) {
			b.order.Put(v, -rescaled)
		}
	}
}

func ceilDiv(num, den int64) int64 {
	return (num + den - 1) / den
}

func (b *VSIDSBrancher) Decide(pf *PropagatingFormula) (Variable, Value) {
	trail := pf.Trail()
	for {
		item, ok := b.order.Pop()
		if !ok {
			panic("sat: VSIDSBrancher.Decide called with no unassigned variable")
		}
		v := Variable(item.Elem)
		if trail.IsAssigned(v) {
			continue
		}
		return v, b.sign[v]
	}
}

// Unassign reinserts v into the priority order: Decide permanently removes
// a variable from the underlying heap, so a variable freed by backtracking
// needs to be put back to be eligible again.
func (b *VSIDSBrancher) Unassign(v Variable) {
	if !b.order.Contains(int(v)) {
		b.order.Put(int(v), -b.scores[v])
	}
}
