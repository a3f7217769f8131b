package bytecode

// Stats summarizes a compiled grammar's state/transition counts, the
// numbers a reference driver's --dump-total wants without walking the
// whole structure itself.
type Stats struct {
	Rules          int
	IntFAs         int
	IntFAStates    int
	IntFATransitions int
	RTNStates      int
	RTNTransitions int
	GLACount       int
}

// Stats computes size counters over g (spec §6's reference driver
// --dump-total).
func (g *CompiledGrammar) Stats() Stats {
	var s Stats
	s.Rules = len(g.RTNs)
	s.IntFAs = len(g.IntFAs)
	for _, fa := range g.IntFAs {
		s.IntFAStates += fa.NumStates
		for _, trs := range fa.Trans {
			s.IntFATransitions += len(trs)
		}
	}
	for _, e := range g.RTNs {
		s.RTNStates += e.Network.NumStates
		for _, trs := range e.Network.Trans {
			s.RTNTransitions += len(trs)
		}
		s.GLACount += len(e.GLAOf)
	}
	return s
}
