/*
Package grammar is Gazelle's front end (spec §4.1): it tokenizes and
parses the `.gzl` surface syntax — rules, alternation, grouping,
modifiers, quoted-literal and /regex/ terminals, and the `start`/`allow`
directives — directly into the rtn.Expr/intfa.Pattern shape
compile.Source expects, assigning slot numbers as it parses rather than
building an intermediate tree to desugar afterwards.

None of this is part of the core the specification holds to its
invariants; it exists so the core (rtn, intfa, gla, bytecode, vm) has a
real caller instead of requiring every test to hand-build a
compile.Source by hand.
*/
package grammar

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("gazelle.grammar")
}
