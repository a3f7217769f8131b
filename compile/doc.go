/*
Package compile is the single entry point tying the rest of Gazelle's
compiler core together: grammar → rtn → intfa → gla → bytecode. It
mirrors gorgo's lr.Analysis(g) / lr.NewTableGenerator(ga).CreateTables()
pipeline shape — one function per stage, a side-table of analysis
results threaded through rather than mutated onto the grammar itself
(spec §9's "dynamic runtime state" note: compile-time scratch never
leaks onto the immutable structures a grammar.Source produces).

Compile takes a Source — the desugared output a grammar front-end
would produce (or that a test builds directly) — and returns a
*bytecode.CompiledGrammar ready to serialize or hand straight to vm.
*/
package compile

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("gazelle.compile")
}
