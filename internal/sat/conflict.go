package sat

import "fmt"

// kappa is the artificial sink vertex κ of the conflict DAG: every trail
// item that falsifies a literal of an unsatisfied clause gets an edge
// straight to kappa. It is distinguished from every real AssignmentItem by
// a negative Var, which no real variable ever has.
var kappa = AssignmentItem{Level: -1, Var: -1, Value: Undefined, Antecedent: nil}

// buildConflictDAG walks backward from the unsatisfied clauses' falsified
// trail items through their antecedents, stopping at decisions or items
// below the conflict level d, per spec.md §4.5 step 1. It returns the
// unique level-d decision item (the DAG's root) and the DAG's forward
// adjacency.
//
// AssignmentItem values, not trail-index integers, are used as DAG
// vertices here: each is an immutable snapshot of (level, variable, value,
// antecedent) rather than a mutable reference, so using it directly as a
// map key carries none of the aliasing risk that motivates preferring
// index-based identity elsewhere (e.g. for Clause). It also avoids an
// extra trail lookup in buildLearnedClause, which needs exactly those four
// fields to emit the resolvent's literals.
// participants is returned alongside the DAG so the caller can notify the
// brancher of every trail item visited while walking backward from the
// conflict, per spec.md §4.6's record_resolved_lit capability (the
// reference calls this "each literal that participates in conflict
// analysis", which this takes to mean every item the backward walk
// actually visits — not only the literals surviving into the final
// learned clause, which is the narrower record_learned_clause case).
func buildConflictDAG(d DecisionLevel, unsatClauses []*Clause, trail *Trail, seenVar *ResetSet) (root AssignmentItem, succ map[AssignmentItem]map[AssignmentItem]struct{}, participants []AssignmentItem, err error) {
	succ = map[AssignmentItem]map[AssignmentItem]struct{}{
		kappa: {},
	}
	addEdge := func(from, to AssignmentItem) {
		if succ[from] == nil {
			succ[from] = map[AssignmentItem]struct{}{}
		}
		succ[from][to] = struct{}{}
	}

	queue := map[AssignmentItem]struct{}{}
	seenVar.Clear()
	haveRoot := false

	for _, clause := range unsatClauses {
		for _, v := range clause.AssignedVars(trail) {
			item, ok := trail.GetItem(v)
			if !ok {
				return AssignmentItem{}, nil, nil, fmt.Errorf("sat: variable %d should be present on the trail", v)
			}
			addEdge(item, kappa)
			queue[item] = struct{}{}
		}
	}

	for len(queue) > 0 {
		item := popAny(queue)
		if seenVar.Contains(int(item.Var)) {
			continue
		}
		seenVar.Add(int(item.Var))
		participants = append(participants, item)

		antecedent := item.Antecedent
		if item.Level != d || antecedent == nil {
			if item.Level == d {
				root = item
				haveRoot = true
			}
			continue
		}
		for _, v := range antecedent.AssignedVars(trail) {
			if v == item.Var {
				continue
			}
			parentItem, ok := trail.GetItem(v)
			if !ok {
				return AssignmentItem{}, nil, nil, fmt.Errorf("sat: variable %d should be present on the trail", v)
			}
			addEdge(parentItem, item)
			queue[parentItem] = struct{}{}
		}
	}
	if !haveRoot {
		return AssignmentItem{}, nil, nil, fmt.Errorf("sat: no root found while building the conflict graph")
	}
	return root, succ, participants, nil
}

// buildPred inverts a forward adjacency into a predecessor map.
func buildPred[V comparable](succ map[V]map[V]struct{}) map[V]map[V]struct{} {
	pred := map[V]map[V]struct{}{}
	for p, children := range succ {
		for c := range children {
			if pred[c] == nil {
				pred[c] = map[V]struct{}{}
			}
			pred[c][p] = struct{}{}
		}
	}
	return pred
}

// buildLearnedClause derives the learned clause and backjump level from the
// FUIP, per spec.md §4.5 steps 3-4: walk predecessors back from κ, cutting
// at the FUIP and at every item below the conflict's decision level d. The
// cut vertices become the learned clause's literals (negated relative to
// their current value); the backjump level is the highest level among cut
// vertices other than the FUIP, or -1 if the conflict occurred at level 0.
func buildLearnedClause(fuip AssignmentItem, pred map[AssignmentItem]map[AssignmentItem]struct{}, seenVar *ResetSet) (DecisionLevel, []Literal) {
	stack := []AssignmentItem{kappa}
	seenVar.Clear()
	kappaSeen := false
	conflictingVars := map[AssignmentItem]struct{}{}
	d := fuip.Level
	var maxSubD DecisionLevel

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		notKappa := v != kappa
		if notKappa {
			if seenVar.Contains(int(v.Var)) {
				continue
			}
			seenVar.Add(int(v.Var))
		} else {
			if kappaSeen {
				continue
			}
			kappaSeen = true
		}
		if v == fuip || (notKappa && v.Level != d) {
			if notKappa && v.Level != d && maxSubD < v.Level {
				maxSubD = v.Level
			}
			conflictingVars[v] = struct{}{}
			continue
		}
		for p := range pred[v] {
			stack = append(stack, p)
		}
	}

	clause := make([]Literal, 0, len(conflictingVars))
	for v := range conflictingVars {
		if v.Value == True {
			clause = append(clause, NegativeLiteral(v.Var))
		} else {
			clause = append(clause, PositiveLiteral(v.Var))
		}
	}
	if d == 0 {
		maxSubD = -1
	}
	return maxSubD, clause
}

// itemLiteral converts a trail item into the literal that is currently true
// of it. buildLearnedClause uses the opposite convention for the clause's
// literals: the literal recorded there is the negation of what the item
// actually holds, so asserting the clause forces the cut variable away from
// its conflicting value. RecordResolvedLiteral is a different notification
// (it tells the brancher which variables participated, not what to assert),
// so it uses the item's actual current literal instead of the negation.
func itemLiteral(item AssignmentItem) Literal {
	if item.Value == True {
		return PositiveLiteral(item.Var)
	}
	return NegativeLiteral(item.Var)
}

// AnalyzeConflict runs the FUIP conflict analyzer (spec.md §4.5) against a
// PropagatingFormula currently in the UNSATISFIED state, returning the
// backjump level, the single clause to learn before resuming search at that
// level, and the literals of every trail item visited while walking the
// conflict DAG (for the brancher's RecordResolvedLiteral hook, a broader set
// than the clause's own literals — see buildConflictDAG).
//
// The caller must check DecisionLevel() > 0 before calling this: a conflict
// discovered at level 0 means the formula is unsatisfiable at the root with
// no non-chronological backjump to perform, and the driver must report
// UNSATISFIABLE directly rather than invoke the analyzer, which assumes the
// conflict DAG has a genuine decision vertex (nil antecedent) to root
// itself at — an assumption level 0 never satisfies, since every level-0
// assignment is forced by the original formula's own unit clauses.
func AnalyzeConflict(pf *PropagatingFormula) (DecisionLevel, []Literal, []Literal, error) {
	formula := pf.Formula()
	seenVar := formula.SeenVarSet()
	root, succ, participants, err := buildConflictDAG(pf.DecisionLevel(), formula.UnsatClauses(), formula.Trail(), seenVar)
	if err != nil {
		return 0, nil, nil, err
	}

	dom := buildDominatorTree(root, succ)
	fuip, ok := dom[kappa]
	if !ok {
		return 0, nil, nil, fmt.Errorf("sat: dominator graph has no entry for the conflict vertex")
	}

	pred := buildPred(succ)
	backtrackLevel, clause := buildLearnedClause(fuip, pred, seenVar)

	resolved := make([]Literal, len(participants))
	for i, item := range participants {
		resolved[i] = itemLiteral(item)
	}
	return backtrackLevel, clause, resolved, nil
}
