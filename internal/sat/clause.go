package sat

import "strings"

// ClauseState is the four-valued state of a Clause under a given trail, as
// defined in spec.md §3.
type ClauseState uint8

const (
	// Unresolved: head < tail; the clause's fate is undecided.
	Unresolved ClauseState = iota
	// Unit: head == tail and the watched variable is unassigned.
	Unit
	// Satisfied: some watched literal agrees with the trail.
	Satisfied
	// ClauseUnsatisfied: head == tail and the watched literal disagrees.
	ClauseUnsatisfied
)

func (s ClauseState) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Unit:
		return "unit"
	case Satisfied:
		return "satisfied"
	case ClauseUnsatisfied:
		return "unsatisfied"
	default:
		return "invalid"
	}
}

// refFrame is one entry of a Clause's reference history: the watch
// configuration (head, tail) that was current starting at decision level
// Level. head <= tail are indices into Clause.literals.
type refFrame struct {
	level DecisionLevel
	head  int
	tail  int
}

// Clause is an immutable disjunction of literals augmented with the lazy
// head/tail watch scheme of spec.md §4.2. Both watches migrate inward as
// the trail grows; a per-level history of watch configurations lets
// Backtrack restore the exact configuration observed at any earlier level,
// which is what makes the scheme correct under non-chronological
// backjumps.
//
// A Clause never reallocates or reorders its literal slice after
// construction: only the head/tail indices move. Clauses are referred to by
// pointer identity throughout the Formula's watch index and the trail's
// antecedent links; never compare clauses structurally.
type Clause struct {
	literals []Literal
	history  []refFrame

	// learnt and activity are bookkeeping for learned clauses; the driver
	// does not currently use activity for deletion (spec.md's CDCL loop has
	// no clause-database reduction step), but bumping it is how VSIDS-style
	// branchers could eventually prioritize which learned clauses to keep.
	learnt   bool
	activity float64
}

// NewClause constructs a Clause from literals. literals must be non-empty
// and is taken by reference: the caller must not mutate it afterwards. The
// clause starts with watches at (0, len(literals)-1), unresolved at level 0
// regardless of any assignment already on the trail — call Assign to align
// it against the current trail before use (spec.md §4.3's add_clause
// contract).
func NewClause(literals []Literal, learnt bool) *Clause {
	if len(literals) == 0 {
		panic("sat: NewClause called with no literals")
	}
	return &Clause{
		literals: literals,
		history:  []refFrame{{level: 0, head: 0, tail: len(literals) - 1}},
		learnt:   learnt,
	}
}

// Len returns the number of literals in the clause.
func (c *Clause) Len() int {
	return len(c.literals)
}

// Literals returns the clause's literals. The caller must not mutate the
// returned slice.
func (c *Clause) Literals() []Literal {
	return c.literals
}

// IsLearnt reports whether the clause was derived by conflict analysis
// rather than present in the original formula.
func (c *Clause) IsLearnt() bool {
	return c.learnt
}

func (c *Clause) top() refFrame {
	return c.history[len(c.history)-1]
}

// headTail returns the current watched indices.
func (c *Clause) headTail() (head, tail int) {
	f := c.top()
	return f.head, f.tail
}

// HeadTailVars returns the variables currently watched at head and tail.
func (c *Clause) HeadTailVars() (head, tail Variable) {
	h, t := c.headTail()
	return c.literals[h].Var(), c.literals[t].Var()
}

// pushFrame records a new (head, tail) configuration current as of level d,
// following the stamping rule of spec.md §4.2: the level attached to an
// entry is the maximum of the previous entry's level and d. If that max
// equals the previous entry's level, the top entry is mutated in place;
// otherwise a new entry is appended.
func (c *Clause) pushFrame(d DecisionLevel, head, tail int) {
	top := &c.history[len(c.history)-1]
	maxLevel := top.level
	if d > maxLevel {
		maxLevel = d
	}
	if maxLevel == top.level {
		top.head, top.tail = head, tail
		return
	}
	c.history = append(c.history, refFrame{level: maxLevel, head: head, tail: tail})
}

// Assign advances the head watch rightward and the tail watch leftward past
// any literal that disagrees with the trail, logging every advance to the
// reference history. It must be called once per assignment that could
// affect this clause, with the trail reflecting that assignment (and every
// earlier one) already applied.
func (c *Clause) Assign(trail *Trail) {
	head, tail := c.headTail()

	for head < tail {
		lit := c.literals[head]
		item, ok := trail.GetItem(lit.Var())
		if !ok || !lit.Disagrees(item.Value) {
			break
		}
		head++
		c.pushFrame(item.Level, head, tail)
	}

	for head < tail {
		lit := c.literals[tail]
		item, ok := trail.GetItem(lit.Var())
		if !ok || !lit.Disagrees(item.Value) {
			break
		}
		tail--
		c.pushFrame(item.Level, head, tail)
	}
}

// Backtrack restores the clause's watch configuration to the one current at
// decision level d, by popping every history entry with a level above d.
func (c *Clause) Backtrack(d DecisionLevel) {
	for len(c.history) > 1 && c.history[len(c.history)-1].level > d {
		c.history = c.history[:len(c.history)-1]
	}
}

// State returns the clause's current state along with the variables
// watched at head and tail.
func (c *Clause) State(trail *Trail) (ClauseState, Variable, Variable) {
	head, tail := c.headTail()
	headLit, tailLit := c.literals[head], c.literals[tail]
	headVar, tailVar := headLit.Var(), tailLit.Var()

	headItem, headOK := trail.GetItem(headVar)
	tailItem, tailOK := trail.GetItem(tailVar)

	if (headOK && headLit.Agrees(headItem.Value)) || (tailOK && tailLit.Agrees(tailItem.Value)) {
		return Satisfied, headVar, tailVar
	}
	if head == tail {
		if headOK && headLit.Disagrees(headItem.Value) {
			return ClauseUnsatisfied, headVar, tailVar
		}
		return Unit, headVar, tailVar
	}
	return Unresolved, headVar, tailVar
}

// UnitLiteral returns the single unassigned watched literal of a Unit
// clause. The caller must ensure the clause is currently Unit.
func (c *Clause) UnitLiteral() Literal {
	head, _ := c.headTail()
	return c.literals[head]
}

// AssignedVars returns the variables of every literal in the clause that is
// currently assigned, used by conflict analysis to find the trail items
// that explain this clause (spec.md §4.5, step 1).
func (c *Clause) AssignedVars(trail *Trail) []Variable {
	vars := make([]Variable, 0, len(c.literals))
	for _, lit := range c.literals {
		v := lit.Var()
		if trail.IsAssigned(v) {
			vars = append(vars, v)
		}
	}
	return vars
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
