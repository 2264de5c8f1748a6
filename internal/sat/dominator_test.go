package sat

import "testing"

func adjacency(edges map[string][]string) map[string]map[string]struct{} {
	succ := map[string]map[string]struct{}{}
	for v, children := range edges {
		if succ[v] == nil {
			succ[v] = map[string]struct{}{}
		}
		for _, c := range children {
			succ[v][c] = struct{}{}
			if succ[c] == nil {
				succ[c] = map[string]struct{}{}
			}
		}
	}
	return succ
}

func TestBuildDominatorTree_Chain(t *testing.T) {
	succ := adjacency(map[string][]string{
		"R": {"A"},
		"A": {"B"},
		"B": {"C"},
	})
	dom := buildDominatorTree("R", succ)

	want := map[string]string{"A": "R", "B": "A", "C": "B"}
	for v, want := range want {
		if got := dom[v]; got != want {
			t.Errorf("dom[%s] = %s, want %s", v, got, want)
		}
	}
}

func TestBuildDominatorTree_Diamond(t *testing.T) {
	// R branches to A and B, both of which rejoin at C: neither A nor B
	// alone lies on every R-to-C path, so C's immediate dominator is R,
	// not A or B.
	succ := adjacency(map[string][]string{
		"R": {"A", "B"},
		"A": {"C"},
		"B": {"C"},
	})
	dom := buildDominatorTree("R", succ)

	if got, want := dom["A"], "R"; got != want {
		t.Errorf("dom[A] = %s, want %s", got, want)
	}
	if got, want := dom["B"], "R"; got != want {
		t.Errorf("dom[B] = %s, want %s", got, want)
	}
	if got, want := dom["C"], "R"; got != want {
		t.Errorf("dom[C] = %s, want %s", got, want)
	}
}

func TestBuildDominatorTree_DiamondWithDirectEdge(t *testing.T) {
	// Same diamond, plus a direct R -> C edge: C is now reachable without
	// passing through A or B at all, so its only dominator is still R.
	succ := adjacency(map[string][]string{
		"R": {"A", "B", "C"},
		"A": {"C"},
		"B": {"C"},
	})
	dom := buildDominatorTree("R", succ)

	if got, want := dom["C"], "R"; got != want {
		t.Errorf("dom[C] = %s, want %s", got, want)
	}
}
