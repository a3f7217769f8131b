package intfa

import "sort"

// alphabet is the partition of the byte space [0,255] into the maximal
// disjoint cells needed so that every Range appearing across a set of
// patterns is exactly a union of cells. Building one shared alphabet
// before compiling patterns to NFA fragments is what lets independently
// written terminal definitions ("[a-z]" and "[a-m]", say) still produce a
// deterministic, minimizable automaton once subset-constructed — without
// it, two overlapping-but-not-identical ranges would each become their
// own NFA transition and the DFA states built over them would never
// merge correctly. Grounded on the byte-range-partition idea in
// coregx-coregex/nfa/alphabet.go, adapted from UTF-8 byte classes to
// Gazelle's flat byte-range terminals.
type alphabet struct {
	cells []Range // sorted, disjoint, covering every input range
}

// buildAlphabet computes the cell partition for a set of patterns.
func buildAlphabet(patterns []Pattern) *alphabet {
	var ranges []Range
	for _, p := range patterns {
		allRanges(p, &ranges)
	}
	return &alphabet{cells: partition(ranges)}
}

// partition computes the coarsest set of disjoint byte ranges such that
// every range in rs is exactly a union of some of them.
func partition(rs []Range) []Range {
	if len(rs) == 0 {
		return nil
	}
	boundarySet := map[int]bool{}
	for _, r := range rs {
		boundarySet[int(r.Lo)] = true
		boundarySet[int(r.Hi)+1] = true
	}
	bounds := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		bounds = append(bounds, b)
	}
	sort.Ints(bounds)

	cells := make([]Range, 0, len(bounds))
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]-1
		if lo > 255 {
			break
		}
		if hi > 255 {
			hi = 255
		}
		cells = append(cells, Range{byte(lo), byte(hi)})
	}
	return cells
}

// cellsWithin returns every alphabet cell fully contained in [lo,hi].
func (a *alphabet) cellsWithin(lo, hi byte) []Range {
	var out []Range
	for _, c := range a.cells {
		if c.Lo >= lo && c.Hi <= hi {
			out = append(out, c)
		}
	}
	return out
}
