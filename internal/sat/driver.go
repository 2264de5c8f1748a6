package sat

import (
	"fmt"
	"math/rand"
	"time"
)

// Outcome is the three-way verdict Solve reports: the formula is
// satisfiable, unsatisfiable, or the search was abandoned before either was
// established because a configured stop condition (Options.MaxConflicts or
// Options.Timeout) was hit first.
type Outcome uint8

const (
	Satisfiable Outcome = iota
	Unsatisfiable
	Unknown
)

func (o Outcome) String() string {
	switch o {
	case Satisfiable:
		return "SATISFIABLE"
	case Unsatisfiable:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// Result is what Solve returns: the verdict, the number of conflicts
// resolved to reach it, and — when Outcome is Satisfiable — the full
// variable assignment.
type Result struct {
	Outcome    Outcome
	Conflicts  int64
	Assignment []Value
}

// BrancherKind selects which Brancher implementation NewBrancher builds.
// Grounded on spec.md §4.6's four named heuristics.
type BrancherKind string

const (
	Arbitrary BrancherKind = "arbitrary"
	Random    BrancherKind = "random"
	TwoChoice BrancherKind = "two-choice"
	VSIDS     BrancherKind = "vsids"
)

// Options configures Solve. It plays the role the teacher's own
// sat.Options/DefaultOptions pair plays for its Solver: stop conditions plus
// the knobs that select and seed the branching heuristic. There is no
// restart knob: spec.md's driver is a straight loop with no restart step, so
// none is modeled here (see DESIGN.md's Open Questions).
type Options struct {
	Brancher     BrancherKind
	Seed         int64
	MaxConflicts int64         // <= 0 means unbounded
	Timeout      time.Duration // <= 0 means unbounded
}

// DefaultOptions mirrors the teacher's DefaultOptions: VSIDS branching, no
// stop condition.
var DefaultOptions = Options{
	Brancher:     VSIDS,
	MaxConflicts: -1,
	Timeout:      -1,
}

// NewBrancher builds the Brancher named by kind against f, seeded from seed
// for the heuristics that need randomness.
func NewBrancher(kind BrancherKind, f *Formula, seed int64) (Brancher, error) {
	switch kind {
	case Arbitrary:
		return NewArbitraryBrancher(), nil
	case Random:
		return NewRandomBrancher(rand.NewSource(seed)), nil
	case TwoChoice:
		return NewTwoChoiceBrancher(f, rand.NewSource(seed)), nil
	case VSIDS:
		return NewVSIDSBrancher(f), nil
	default:
		return nil, fmt.Errorf("sat: unknown brancher kind %q", kind)
	}
}

// unassignAbove walks the trail's history and notifies b.Unassign for every
// variable at a level strictly above d, in reverse chronological order. It
// must run before the formula itself is rolled back, since Backtrack erases
// the very history this depends on.
func unassignAbove(trail *Trail, d DecisionLevel, b Brancher) {
	history := trail.History()
	for i := len(history) - 1; i >= 0; i-- {
		item := history[i]
		if item.Level <= d {
			break
		}
		b.Unassign(item.Var)
	}
}

// Solve runs the CDCL loop of spec.md §4.7 against f: decide, propagate to a
// fixed point, and on conflict either report UNSATISFIABLE (if the conflict
// is already at decision level 0) or analyze it, backjump, and learn the
// derived clause before resuming. Grounded on cdcl.py's top-level driver
// function, with the teacher's stop-condition pattern (solver.go's
// shouldStop, checked once per conflict) layered on top.
func Solve(f *Formula, opts Options) (Result, error) {
	b, err := NewBrancher(opts.Brancher, f, opts.Seed)
	if err != nil {
		return Result{}, err
	}

	pf := NewPropagatingFormula(f)
	var conflicts int64
	start := time.Now()
	hasStop := opts.MaxConflicts > 0 || opts.Timeout > 0
	shouldStop := func() bool {
		if !hasStop {
			return false
		}
		if opts.MaxConflicts > 0 && conflicts >= opts.MaxConflicts {
			return true
		}
		if opts.Timeout > 0 && time.Since(start) >= opts.Timeout {
			return true
		}
		return false
	}

	if pf.CurrentState() == FormulaUnsatisfied {
		return Result{Outcome: Unsatisfiable}, nil
	}

	for pf.CurrentState() != FormulaSatisfied {
		v, value := b.Decide(pf)
		pf.Decide(v, value)

		for pf.CurrentState() == FormulaUnsatisfied {
			conflicts++
			if pf.DecisionLevel() == 0 {
				return Result{Outcome: Unsatisfiable, Conflicts: conflicts}, nil
			}
			if shouldStop() {
				return Result{Outcome: Unknown, Conflicts: conflicts}, nil
			}

			backtrackLevel, clause, resolved, err := AnalyzeConflict(pf)
			if err != nil {
				return Result{}, err
			}
			if backtrackLevel < 0 {
				return Result{Outcome: Unsatisfiable, Conflicts: conflicts}, nil
			}

			unassignAbove(pf.Trail(), backtrackLevel, b)
			pf.Backtrack(backtrackLevel)

			for _, lit := range resolved {
				b.RecordResolvedLiteral(lit)
			}
			b.RecordLearnedClause(clause)
			pf.AddClause(clause)
		}

		if shouldStop() {
			return Result{Outcome: Unknown, Conflicts: conflicts}, nil
		}
	}

	trail := pf.Trail()
	assignment := make([]Value, trail.NumVars())
	for v := 0; v < trail.NumVars(); v++ {
		assignment[v] = trail.GetValue(Variable(v))
	}
	return Result{Outcome: Satisfiable, Conflicts: conflicts, Assignment: assignment}, nil
}
