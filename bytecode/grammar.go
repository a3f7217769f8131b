package bytecode

import "github.com/gazelle-lang/gazelle/intfa"

// CompiledGrammar is the in-memory shape bytecode reads and writes: the
// output of compile.Compile, ready either to drive vm.Parser directly
// or to be serialized.
type CompiledGrammar struct {
	Start string
	Hash  string // structhash digest of the grammar source (spec §8.2 round-trip check)
	IntFAs []*intfa.IntFA
	RTNs   []*RTNEntry
}

// RTN looks up a compiled rule's entry by name.
func (g *CompiledGrammar) RTN(name string) *RTNEntry {
	for _, e := range g.RTNs {
		if e.Network.Rule == name {
			return e
		}
	}
	return nil
}
