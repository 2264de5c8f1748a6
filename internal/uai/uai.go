// Package uai translates a Bayesian network in the .uai format plus a
// .uai.evid evidence file into a weighted CNF, as an interface-level front
// end to the solver core. Grounded on
// _examples/original_source/graphical/bayes_graph.py's BayesGraph class;
// the CDCL core (internal/sat) consumes only the resulting CNF and never
// imports this package.
package uai

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// literal is a (sign, variable) pair in the encoder's own 0-indexed
// variable numbering, mirroring bayes_graph.py's Literal tuple. sign 1
// means positive, 0 means negated; this matches the Python source's
// convention exactly so the negate/DIMACS-sign conversion stays a direct
// port.
type literal struct {
	sign int
	v    int
}

func negate(l literal) literal {
	return literal{sign: 1 - l.sign, v: l.v}
}

// toDIMACS converts a 0-indexed encoder literal into a DIMACS signed
// literal over 1-indexed variables.
func (l literal) toDIMACS() int {
	if l.sign == 1 {
		return l.v + 1
	}
	return -(l.v + 1)
}

// maxOne returns the pairwise exclusion clauses (¬a ∨ ¬b for every pair)
// that assert at most one of lits holds. Grounded on bayes_graph.py's
// max_1.
func maxOne(lits []literal) [][]literal {
	var cnf [][]literal
	for i := 0; i < len(lits); i++ {
		for j := i + 1; j < len(lits); j++ {
			cnf = append(cnf, []literal{negate(lits[i]), negate(lits[j])})
		}
	}
	return cnf
}

// Graph holds a parsed .uai Bayesian network: a Markov random field in
// factor-table form. Grounded on bayes_graph.py's BayesGraph.__init__.
type Graph struct {
	Cardinalities []int
	Factors       [][]int          // Factors[i] is the ordered variable scope of factor i
	Tables        []map[string]string // Tables[i] maps a stringified assignment tuple to its weight literal
}

// assignmentKey stringifies an assignment tuple the same way Python's
// tuple(assignment) would hash, as a map key.
func assignmentKey(assignment []int) string {
	parts := make([]string, len(assignment))
	for i, a := range assignment {
		parts[i] = strconv.Itoa(a)
	}
	return strings.Join(parts, ",")
}

// Parse reads a .uai model file and builds its Graph. Grounded on
// BayesGraph.__init__: a "BAYES\n" header, a variable-count line (unused
// beyond validating the file shape), a cardinalities line, a factor count,
// one factor-scope line per factor, and then the function tables as a
// single whitespace-separated token stream.
func Parse(r io.Reader) (*Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	readLine := func(what string) (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", fmt.Errorf("uai: reading %s: %w", what, err)
			}
			return "", fmt.Errorf("uai: unexpected end of file reading %s", what)
		}
		return sc.Text(), nil
	}

	graphType, err := readLine("graph type")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(graphType) != "BAYES" {
		return nil, fmt.Errorf("uai: file does not contain a Bayes network in .uai format")
	}
	if _, err := readLine("variable count"); err != nil {
		return nil, err
	}
	cardLine, err := readLine("cardinalities")
	if err != nil {
		return nil, err
	}
	cardinalities, err := parseInts(cardLine)
	if err != nil {
		return nil, fmt.Errorf("uai: parsing cardinalities: %w", err)
	}

	numFactorsLine, err := readLine("factor count")
	if err != nil {
		return nil, err
	}
	numFactors, err := strconv.Atoi(strings.TrimSpace(numFactorsLine))
	if err != nil {
		return nil, fmt.Errorf("uai: parsing factor count: %w", err)
	}

	factors := make([][]int, numFactors)
	for i := 0; i < numFactors; i++ {
		line, err := readLine(fmt.Sprintf("factor %d scope", i))
		if err != nil {
			return nil, err
		}
		desc, err := parseInts(line)
		if err != nil {
			return nil, fmt.Errorf("uai: parsing factor %d scope: %w", i, err)
		}
		if len(desc) == 0 || desc[0] != len(desc)-1 {
			return nil, fmt.Errorf("uai: factor %d declares %d variables but lists %d", i, desc[0], len(desc)-1)
		}
		factors[i] = desc[1:]
	}

	// The function tables are a flat whitespace-separated token stream
	// covering the remainder of the file, exactly as
	// ft_description = file_object.read().split() reads it.
	return finishParseTables(sc, cardinalities, factors)
}

// finishParseTables reads the remaining function-table tokens from sc (a
// bufio.Scanner still positioned after the last factor-scope line) and
// builds each factor's table. Split out of Parse to keep the token-stream
// reassembly (the Scanner only yields lines, not a raw remainder) in one
// place.
func finishParseTables(sc *bufio.Scanner, cardinalities []int, factors [][]int) (*Graph, error) {
	var tokens []string
	for sc.Scan() {
		tokens = append(tokens, strings.Fields(sc.Text())...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("uai: reading function tables: %w", err)
	}

	tables := make([]map[string]string, len(factors))
	i := 0
	next := func() (string, error) {
		if i >= len(tokens) {
			return "", fmt.Errorf("uai: function-table stream ended early")
		}
		tok := tokens[i]
		i++
		return tok, nil
	}

	for fi := range factors {
		numEntriesTok, err := next()
		if err != nil {
			return nil, err
		}
		numEntries, err := strconv.Atoi(numEntriesTok)
		if err != nil {
			return nil, fmt.Errorf("uai: parsing factor %d entry count: %w", fi, err)
		}
		table := make(map[string]string, numEntries)
		assignment := make([]int, len(factors[fi]))
		for {
			weight, err := next()
			if err != nil {
				return nil, err
			}
			table[assignmentKey(assignment)] = weight
			if !incrementAssignment(assignment, factors[fi], cardinalities) {
				break
			}
		}
		tables[fi] = table
	}

	return &Graph{Cardinalities: cardinalities, Factors: factors, Tables: tables}, nil
}

// incrementAssignment advances assignment to the next mixed-radix tuple
// (least-significant position last, matching bayes_graph.py's
// right-to-left carry loop) and reports whether it stayed in range.
func incrementAssignment(assignment []int, scope []int, cardinalities []int) bool {
	for j := len(assignment) - 1; j >= 0; j-- {
		if assignment[j] < cardinalities[scope[j]]-1 {
			assignment[j]++
			return true
		}
		assignment[j] = 0
	}
	return false
}

func parseInts(line string) ([]int, error) {
	fields := strings.Fields(line)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// parameter names a single CPT entry: the factor it belongs to, the
// assignment tuple (as a string key) naming which row, and its weight
// literal.
type parameter struct {
	factor     int
	assignment string
	weight     string
}

// ToFormula encodes g as a weighted CNF, returning the DIMACS weights
// slice (indexed by 0-indexed variable) and the clause list in DIMACS
// signed-literal form. Grounded on bayes_graph.py's to_formula: one
// indicator variable per (variable, value) pair with at-most-one exclusion
// clauses, one parameter variable per CPT entry with a per-factor
// at-least-one clause, and parameter -> indicator implication clauses.
func (g *Graph) ToFormula() (weights []string, clauses [][]int) {
	type indicatorKey struct{ v, val int }
	var indicators []indicatorKey
	indicatorIndex := map[indicatorKey]int{}
	for v, card := range g.Cardinalities {
		for val := 0; val < card; val++ {
			k := indicatorKey{v, val}
			indicatorIndex[k] = len(indicators)
			indicators = append(indicators, k)
		}
	}
	weights = make([]string, len(indicators))
	for i := range weights {
		weights[i] = "1.0"
	}

	var cnf [][]literal

	for v, card := range g.Cardinalities {
		lits := make([]literal, card)
		for val := 0; val < card; val++ {
			lits[val] = literal{sign: 1, v: indicatorIndex[indicatorKey{v, val}]}
		}
		cnf = append(cnf, maxOne(lits)...)
	}

	var parameters []parameter
	for fi, table := range g.Tables {
		keys := make([]string, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parameters = append(parameters, parameter{factor: fi, assignment: k, weight: table[k]})
		}
	}
	for _, p := range parameters {
		weights = append(weights, p.weight)
	}
	paramIndex := make(map[parameter]int, len(parameters))
	for i, p := range parameters {
		paramIndex[p] = len(indicators) + i
	}

	// Per-factor at-least-one clause over its own parameter variables.
	for fi, table := range g.Tables {
		keys := make([]string, 0, len(table))
		for k := range table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		clause := make([]literal, 0, len(keys))
		for _, k := range keys {
			idx := paramIndex[parameter{factor: fi, assignment: k, weight: table[k]}]
			clause = append(clause, literal{sign: 1, v: idx})
		}
		cnf = append(cnf, clause)
	}

	// parameter -> indicator implication clauses, one per variable in the
	// parameter's factor scope.
	for _, p := range parameters {
		idx := paramIndex[p]
		scope := g.Factors[p.factor]
		vals, _ := splitAssignmentKey(p.assignment)
		for pos, vv := range vals {
			ind := indicatorIndex[indicatorKey{scope[pos], vv}]
			cnf = append(cnf, []literal{negate(literal{sign: 1, v: idx}), {sign: 1, v: ind}})
		}
	}

	clauses = make([][]int, len(cnf))
	for i, c := range cnf {
		dc := make([]int, len(c))
		for j, l := range c {
			dc[j] = l.toDIMACS()
		}
		clauses[i] = dc
	}
	return weights, clauses
}

func splitAssignmentKey(key string) ([]int, error) {
	if key == "" {
		return nil, nil
	}
	parts := strings.Split(key, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// EvidenceToFormula reads a .uai.evid file and returns unit clauses
// asserting each observed indicator. Grounded on
// BayesGraph.evidence_to_formula: the indicator base offset of variable v
// is the running sum of cardinalities of variables before it.
func (g *Graph) EvidenceToFormula(r io.Reader) ([][]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("uai: reading evidence: %w", err)
	}
	fields := strings.Fields(string(data))
	nums := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("uai: parsing evidence: %w", err)
		}
		nums[i] = n
	}
	if len(nums) == 0 || nums[0] != (len(nums)-1)/2 {
		return nil, fmt.Errorf("uai: evidence file is improperly formatted")
	}

	base := make([]int, len(g.Cardinalities))
	running := 0
	for i, card := range g.Cardinalities {
		base[i] = running
		running += card
	}

	var clauses [][]int
	for i := 1; i < len(nums); i += 2 {
		v, val := nums[i], nums[i+1]
		clauses = append(clauses, []int{base[v] + val + 1})
	}
	return clauses, nil
}

// WriteFormulaFile writes clauses as a DIMACS CNF problem whose declared
// variable count is len(weights) (one per indicator/parameter variable),
// as bayes_graph.py's to_formula_file_with_evidence does.
func WriteFormulaFile(w io.Writer, weights []string, clauses [][]int) error {
	if _, err := fmt.Fprintf(w, "p cnf %d %d\n", len(weights), len(clauses)); err != nil {
		return err
	}
	for _, clause := range clauses {
		parts := make([]string, len(clause))
		for i, l := range clause {
			parts[i] = strconv.Itoa(l)
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")+" 0"); err != nil {
			return err
		}
	}
	return nil
}

// WriteWeightsFile writes the companion weights file: "p <n>\n" followed
// by "w i <p> 0\nw -i 1.0 0\n" per variable, using the same 1-indexed
// variable numbering as the DIMACS CNF written alongside it (toDIMACS,
// EvidenceToFormula) so "variable i" means the same thing in both files.
// bayes_graph.py's own numbering is 0-indexed throughout; the shift here is
// local to this encoder's two output files staying mutually consistent.
// Weights are opaque to the solver core.
func WriteWeightsFile(w io.Writer, weights []string) error {
	if _, err := fmt.Fprintf(w, "p %d\n", len(weights)); err != nil {
		return err
	}
	for i, weight := range weights {
		if _, err := fmt.Fprintf(w, "w %d %s 0\nw -%d 1.0 0\n", i+1, weight, i+1); err != nil {
			return err
		}
	}
	return nil
}
