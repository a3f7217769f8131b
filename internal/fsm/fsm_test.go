package fsm

import "testing"

// buildAB builds an NFA for (a|b)*abb, the textbook subset-construction
// example, using single-character symbols as the alphabet.
func buildAB() *NFA {
	n := NewNFA(11, 0)
	n.AddEpsilon(0, 1)
	n.AddEpsilon(0, 7)
	n.AddEpsilon(1, 2)
	n.AddEpsilon(1, 4)
	n.AddTrans(2, "a", 3)
	n.AddTrans(4, "b", 5)
	n.AddEpsilon(3, 6)
	n.AddEpsilon(5, 6)
	n.AddEpsilon(6, 1)
	n.AddEpsilon(6, 7)
	n.AddTrans(7, "a", 8)
	n.AddTrans(8, "b", 9)
	n.AddTrans(9, "b", 10)
	n.AddFinal(10, "ACCEPT")
	return n
}

func TestSubsetConstructAccepts(t *testing.T) {
	d := SubsetConstruct(buildAB())
	if !accepts(d, "abb") {
		t.Fatalf("expected DFA to accept %q", "abb")
	}
	if !accepts(d, "aabb") {
		t.Fatalf("expected DFA to accept %q", "aabb")
	}
	if !accepts(d, "babbabb") {
		t.Fatalf("expected DFA to accept %q", "babbabb")
	}
	if accepts(d, "ab") {
		t.Fatalf("did not expect DFA to accept %q", "ab")
	}
	if accepts(d, "") {
		t.Fatalf("did not expect DFA to accept empty string")
	}
}

func TestMinimizePreservesLanguage(t *testing.T) {
	d := SubsetConstruct(buildAB())
	m := Minimize(d)
	if m.NumStates > d.NumStates {
		t.Fatalf("minimization grew the automaton: %d > %d", m.NumStates, d.NumStates)
	}
	for _, s := range []string{"abb", "aabb", "babbabb", "ab", "", "aab"} {
		if accepts(d, s) != accepts(m, s) {
			t.Fatalf("minimized DFA disagrees with original on %q", s)
		}
	}
}

func TestMinimizeNoEquivalentStatesRemain(t *testing.T) {
	m := Minimize(SubsetConstruct(buildAB()))
	for i := 0; i < m.NumStates; i++ {
		for j := i + 1; j < m.NumStates; j++ {
			if statesEquivalent(m, i, j) {
				t.Fatalf("states %d and %d are still equivalent after minimization", i, j)
			}
		}
	}
}

func statesEquivalent(d *DFA, a, b int) bool {
	if d.IsFinal(a) != d.IsFinal(b) {
		return false
	}
	syms := allSymbols(d)
	for _, sym := range syms {
		ta, oka := d.Trans[a][sym]
		tb, okb := d.Trans[b][sym]
		if oka != okb {
			return false
		}
		if oka && ta != tb {
			return false
		}
	}
	return true
}

func accepts(d *DFA, s string) bool {
	cur := 0
	for _, c := range []byte(s) {
		to, ok := d.Trans[cur][string(c)]
		if !ok {
			return false
		}
		cur = to
	}
	return d.IsFinal(cur)
}
