package sat

// AssignmentItem records a single variable assignment: the decision level at
// which it was made, the variable and value assigned, and the antecedent
// clause that forced it (nil for a decision).
type AssignmentItem struct {
	Level      DecisionLevel
	Var        Variable
	Value      Value
	Antecedent *Clause
}

// IsDecision reports whether the item was produced by a branching decision
// rather than by propagation.
func (a AssignmentItem) IsDecision() bool {
	return a.Antecedent == nil
}

// Trail is the ordered, append-only log of assignments described in
// spec.md §4.1. It tracks, for every variable, whether it is currently
// assigned and — if so — the AssignmentItem that assigned it, while also
// keeping the chronological history needed to replay or inspect past
// assignments (used by conflict analysis to walk antecedents backwards).
type Trail struct {
	// current holds the AssignmentItem of variable v at current[v] while v
	// is assigned. When v is unassigned, current[v] is either the zero value
	// or a stale item left by Backtrack, so it is only meaningful when
	// assigned[v] is true; assigned[v] also disambiguates a real decision
	// (Antecedent == nil) from "unassigned".
	current  []AssignmentItem
	assigned []bool

	// history is the chronological sequence of items, in assignment order.
	// Within a level, decisions precede the propagations they cause.
	history []AssignmentItem

	numUnassigned int
}

// NewTrail returns a Trail with capacity for numVars variables, all
// initially unassigned.
func NewTrail(numVars int) *Trail {
	return &Trail{
		current:       make([]AssignmentItem, numVars),
		assigned:      make([]bool, numVars),
		history:       make([]AssignmentItem, 0, numVars),
		numUnassigned: numVars,
	}
}

// Grow adds n freshly unassigned variables to the trail, returning the ID of
// the first one added.
func (t *Trail) Grow(n int) Variable {
	first := Variable(len(t.current))
	t.current = append(t.current, make([]AssignmentItem, n)...)
	t.assigned = append(t.assigned, make([]bool, n)...)
	t.numUnassigned += n
	return first
}

// NumVars returns the total number of variables known to the trail.
func (t *Trail) NumVars() int {
	return len(t.current)
}

// NumAssigned returns the number of currently assigned variables.
func (t *Trail) NumAssigned() int {
	return len(t.current) - t.numUnassigned
}

// NumUnassigned returns the number of currently unassigned variables.
func (t *Trail) NumUnassigned() int {
	return t.numUnassigned
}

// IsAssigned reports whether v currently has a value.
func (t *Trail) IsAssigned(v Variable) bool {
	return t.assigned[v]
}

// Add records a new assignment. v must currently be unassigned.
func (t *Trail) Add(level DecisionLevel, v Variable, value Value, antecedent *Clause) {
	item := AssignmentItem{Level: level, Var: v, Value: value, Antecedent: antecedent}
	t.current[v] = item
	t.assigned[v] = true
	t.history = append(t.history, item)
	t.numUnassigned--
}

// GetValue returns the value assigned to v, or Undefined if v is unassigned.
func (t *Trail) GetValue(v Variable) Value {
	if !t.assigned[v] {
		return Undefined
	}
	return t.current[v].Value
}

// GetItem returns the AssignmentItem for v and true, or the zero item and
// false if v is unassigned.
func (t *Trail) GetItem(v Variable) (AssignmentItem, bool) {
	if !t.assigned[v] {
		return AssignmentItem{}, false
	}
	return t.current[v], true
}

// History returns the trail's chronological assignment history. The caller
// must not mutate the returned slice.
func (t *Trail) History() []AssignmentItem {
	return t.history
}

// Len returns the number of items currently on the trail.
func (t *Trail) Len() int {
	return len(t.history)
}

// Backtrack pops every trail entry with a level greater than d, restoring
// the corresponding variables to unassigned. Entries with level <= d are
// kept, in their original order.
func (t *Trail) Backtrack(d DecisionLevel) {
	for len(t.history) > 0 && t.history[len(t.history)-1].Level > d {
		item := t.history[len(t.history)-1]
		t.history = t.history[:len(t.history)-1]
		t.assigned[item.Var] = false
		t.numUnassigned++
	}
}
