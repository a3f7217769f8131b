/*
Package intfa builds the shared lexical DFAs ("IntFAs") Gazelle uses to
tokenize input: deterministic automata over disjoint byte ranges [lo,hi],
numbered from a start state 0, where final states carry the terminal(s)
they accept.

It implements three things from spec.md §4.3:

  - a regex/literal-to-NFA compiler for terminal definitions (Thompson
    construction over byte ranges, grounded on
    shadowCow-cow-lang-go/lang/automata/compiler.go's pattern-to-fragment
    shape, generalized from runes to byte ranges and combined with an
    explicit alphabet-partitioning pass so that overlapping ranges from
    different terminals still produce a deterministic automaton after
    subset construction);
  - the uber-DFA conflict detector (union of every terminal's language,
    tagging states with the set of terminals accepted there, recording a
    conflict between any two terminals that share a final state); and
  - the greedy IntFA allocator, assigning each RTN state's candidate
    terminal set to a shared bucket with no internal conflicts, then
    building and Hopcroft-minimizing one DFA per bucket via
    internal/fsm.
*/
package intfa

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to the "gazelle.intfa" tracer.
func tracer() tracing.Trace {
	return tracing.Select("gazelle.intfa")
}
