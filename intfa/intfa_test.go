package intfa

import "testing"

func idRange(lo, hi byte) Pattern { return Range{lo, hi} }

func TestConflictsDetectsOverlap(t *testing.T) {
	terms := []Terminal{
		{Name: "IDENT", Pattern: Plus{Elem: idRange('a', 'z')}},
		{Name: "KW_IF", Pattern: Literal("if")},
		{Name: "NUM", Pattern: Plus{Elem: idRange('0', '9')}},
	}
	cs := Conflicts(terms)
	if !cs.Conflicting("IDENT", "KW_IF") {
		t.Fatalf("expected IDENT and KW_IF to conflict (both match %q)", "if")
	}
	if cs.Conflicting("IDENT", "NUM") {
		t.Fatalf("did not expect IDENT and NUM to conflict")
	}
	if cs.Conflicting("NUM", "KW_IF") {
		t.Fatalf("did not expect NUM and KW_IF to conflict")
	}
}

func TestAllocatePacksNonConflicting(t *testing.T) {
	terms := []Terminal{
		{Name: "A", Pattern: Byte('a')},
		{Name: "B", Pattern: Byte('b')},
		{Name: "C", Pattern: Byte('a')}, // conflicts with A
	}
	cs := Conflicts(terms)
	buckets, assignment := Allocate(cs, [][]string{{"A"}, {"B"}, {"A", "C"}})
	if len(buckets) != 2 {
		t.Fatalf("expected A,C to force a separate bucket from B, got %d buckets: %v", len(buckets), buckets)
	}
	if assignment[0] != assignment[1] {
		t.Fatalf("expected A and B (non-conflicting) to share a bucket")
	}
	if assignment[2] == assignment[0] {
		t.Fatalf("expected A,C request to avoid bucket already containing plain A since C conflicts with A")
	}
}

func TestBuildIntFAAcceptsRegisteredTerminals(t *testing.T) {
	terms := map[string]Pattern{
		"IDENT": Plus{Elem: Range{'a', 'z'}},
		"NUM":   Plus{Elem: Range{'0', '9'}},
	}
	fa, err := Build(terms, []string{"IDENT", "NUM"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if name, ok := run(fa, "abc"); !ok || name != "IDENT" {
		t.Fatalf("expected abc -> IDENT, got %q, %v", name, ok)
	}
	if name, ok := run(fa, "123"); !ok || name != "NUM" {
		t.Fatalf("expected 123 -> NUM, got %q, %v", name, ok)
	}
}

// run drives fa over s from the start state, returning the terminal name
// of the last final state visited (maximal munch) and whether any final
// state was reached at all.
func run(fa *IntFA, s string) (string, bool) {
	cur := 0
	lastFinal := ""
	ok := false
	for i := 0; i < len(s); i++ {
		to, matched := fa.Step(cur, s[i])
		if !matched {
			break
		}
		cur = to
		if fa.IsFinal(cur) {
			lastFinal = fa.Final[cur]
			ok = true
		}
	}
	return lastFinal, ok
}
