package gla

import (
	"errors"
	"testing"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/rtn"
)

func slot(n string, i int) gazelle.SlotDescriptor { return gazelle.SlotDescriptor{Name: n, SlotNum: i} }

// s -> b "X" | c "X";  where b -> "A"; and c -> "B";  so one terminal
// of lookahead (A vs B) disambiguates which call to take.
func TestBuildDisambiguatesOnFirstTerminal(t *testing.T) {
	b := rtn.Build("b", rtn.TermRef{Name: "A", Slot: slot("a", 0)}, 1, nil)
	c := rtn.Build("c", rtn.TermRef{Name: "B", Slot: slot("b", 0)}, 1, nil)
	s := rtn.Build("s", rtn.Alt{
		rtn.Seq{rtn.CallRef{Rule: "b", Slot: slot("b", 0)}, rtn.TermRef{Name: "X", Slot: slot("x", 1)}},
		rtn.Seq{rtn.CallRef{Rule: "c", Slot: slot("c", 0)}, rtn.TermRef{Name: "X", Slot: slot("x", 1)}},
	}, 2, nil)
	g := &rtn.Grammar{Start: "s", Networks: map[string]*rtn.Network{"s": s, "b": b, "c": c}}

	cands := CandidatesForState(s, 0, nil)
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates at s's start state, got %d", len(cands))
	}
	aut, err := Build("s", g, cands, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if aut.IsFinal(0) {
		t.Fatalf("start state should not yet be decided")
	}
	next, ok := aut.Trans[0]["A"]
	if !ok {
		t.Fatalf("expected an edge on A from the start state")
	}
	if !aut.IsFinal(next) || aut.Decision[next] != 0 {
		t.Fatalf("expected decision 0 (candidate b) after A, got final=%v decision=%d", aut.IsFinal(next), aut.Decision[next])
	}
	next, ok = aut.Trans[0]["B"]
	if !ok {
		t.Fatalf("expected an edge on B from the start state")
	}
	if !aut.IsFinal(next) || aut.Decision[next] != 1 {
		t.Fatalf("expected decision 1 (candidate c) after B, got final=%v decision=%d", aut.IsFinal(next), aut.Decision[next])
	}
}

// a -> ("Z" a)?;  exercises tail-recursive return-site merging: the GLA
// must settle into a finite automaton (Z decides the recursive branch,
// end-of-input decides the return) rather than recursing forever.
func TestBuildMergesTailRecursion(t *testing.T) {
	aExpr := rtn.Optional(rtn.Seq{
		rtn.TermRef{Name: "Z", Slot: slot("z", 0)},
		rtn.CallRef{Rule: "a", Slot: slot("a", 1)},
	})
	a := rtn.Build("a", aExpr, 2, nil)
	g := &rtn.Grammar{Start: "a", Networks: map[string]*rtn.Network{"a": a}}

	cands := CandidatesForState(a, 0, []string{gazelle.EOFTerminalName})
	aut, err := Build("a", g, cands, 10)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if aut.NumStates > 3 {
		t.Fatalf("expected a small finite automaton from tail-recursive merging, got %d states", aut.NumStates)
	}
}

// b -> "A" "P"; c -> "A" "Q"; s -> b "X" | c "Y";  b and c share a
// first terminal ("A"), so one candidate transition (call b) and the
// other (call c) stay merged in the GLA until the second terminal (P
// vs Q) finally distinguishes them. Capping max_lookahead at 1 must
// therefore fail not-LL(*).
func TestBuildFailsNotLLStarWhenLookaheadExceeded(t *testing.T) {
	b := rtn.Build("b", rtn.Seq{rtn.TermRef{Name: "A", Slot: slot("a", 0)}, rtn.TermRef{Name: "P", Slot: slot("p", 1)}}, 2, nil)
	c := rtn.Build("c", rtn.Seq{rtn.TermRef{Name: "A", Slot: slot("a", 0)}, rtn.TermRef{Name: "Q", Slot: slot("q", 1)}}, 2, nil)
	s := rtn.Build("s", rtn.Alt{
		rtn.Seq{rtn.CallRef{Rule: "b", Slot: slot("b", 0)}, rtn.TermRef{Name: "X", Slot: slot("x", 1)}},
		rtn.Seq{rtn.CallRef{Rule: "c", Slot: slot("c", 0)}, rtn.TermRef{Name: "Y", Slot: slot("y", 1)}},
	}, 2, nil)
	g := &rtn.Grammar{Start: "s", Networks: map[string]*rtn.Network{"s": s, "b": b, "c": c}}

	cands := CandidatesForState(s, 0, nil)
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates (call b, call c) at s's start state, got %d", len(cands))
	}
	if _, err := Build("s", g, cands, 2); err != nil {
		t.Fatalf("Build with max_lookahead=2 should resolve via the second terminal: %v", err)
	}

	_, err := Build("s", g, cands, 1)
	if err == nil {
		t.Fatalf("expected a not-LL(*) error when lookahead is exhausted")
	}
	if !errors.Is(err, gzerr.ErrNotLLStar) {
		t.Fatalf("expected ErrNotLLStar, got %v", err)
	}
}
