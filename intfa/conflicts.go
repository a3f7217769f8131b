package intfa

import (
	"github.com/gazelle-lang/gazelle/internal/fsm"
)

// ConflictSet records, for each terminal, the set of other terminals whose
// recognized languages are not disjoint from it — i.e. some input string
// could be read as either. Two terminals conflict iff the uber-DFA (the
// NFA→DFA union of every terminal's pattern) reaches a single final state
// tagged with both.
type ConflictSet map[string]map[string]bool

// Conflicts builds the uber-DFA over every terminal in terms and returns
// the pairwise conflict relation (spec.md §4.3 step 1).
func Conflicts(terms []Terminal) ConflictSet {
	patterns := make([]Pattern, len(terms))
	for i, t := range terms {
		patterns[i] = t.Pattern
	}
	alp := buildAlphabet(patterns)

	arena := fsm.NewNFA(1, 0)
	for _, t := range terms {
		start, accept := compilePattern(arena, alp, t.Pattern)
		arena.AddEpsilon(arena.Start, start)
		arena.AddFinal(accept, t.Name)
	}
	uber := fsm.SubsetConstruct(arena)

	cs := ConflictSet{}
	for _, t := range terms {
		cs[t.Name] = map[string]bool{}
	}
	for s := 0; s < uber.NumStates; s++ {
		tags := uber.Final[s]
		for i := 0; i < len(tags); i++ {
			for j := i + 1; j < len(tags); j++ {
				cs[tags[i]][tags[j]] = true
				cs[tags[j]][tags[i]] = true
			}
		}
	}
	return cs
}

// Conflicting reports whether a and b share at least part of their
// recognized language.
func (cs ConflictSet) Conflicting(a, b string) bool {
	if a == b {
		return false
	}
	return cs[a][b]
}
