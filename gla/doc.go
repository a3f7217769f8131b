/*
Package gla synthesizes Grammar Lookahead Automata: the LL(*) lookahead
analyzer (spec §4.4). Given an RTN state whose outgoing transitions are
not disambiguated by a single terminal of lookahead, Build performs a
simultaneous forward exploration of the grammar graph from each
candidate transition, determinizing the resulting terminal-labelled
graph much the way internal/fsm determinizes a byte-range NFA — except
here the "alphabet" is terminal names and the exploration must step
through nonterminal calls, carrying a call stack per candidate so that
tail-recursive constructs like `a -> ("Z" a)?` still settle into a
finite automaton.

A GLA node is final once every surviving candidate agrees on the same
decision (an outgoing RTN transition, or "return"); that decision is
recorded on the node. A node that cannot converge within max_lookahead
terminals is reported as a not-LL(*) diagnostic.
*/
package gla

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("gazelle.gla")
}
