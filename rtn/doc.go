/*
Package rtn builds and minimizes Recursive Transition Networks: one finite
automaton per grammar nonterminal, whose transitions are labeled with
either a terminal name or a call to another nonterminal, each carrying a
gazelle.SlotDescriptor recording which grammatical role the matched
symbol plays in its owning rule.

Construction follows the same Thompson-construction-then-subset-
construction-then-minimize pipeline as package intfa (see
internal/fsm), but over a symbol alphabet of {terminal, nonterminal} x
slot rather than byte ranges — and the minimizer's label equivalence
therefore already respects slot descriptors for free, since the slot is
baked into the transition's alphabet symbol (spec.md §4.2: "transitions
labeled with the same symbol but different slot descriptors are not
merged").

Grounded on gorgo/lr/tables.go's CFSMState/cfsmEdge shape for the
state/edge representation (generalized from LR items to RTN slots), and
on gorgo/lr/earley/earley.go's worklist-over-item-sets style for the
FIRST-terminal-set / left-recursion analysis in analysis.go.
*/
package rtn

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("gazelle.rtn")
}
