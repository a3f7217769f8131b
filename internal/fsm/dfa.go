package fsm

import "sort"

// DFA is a deterministic finite automaton over the same opaque-string
// alphabet as NFA. State 0 is always the start state (subset construction
// and minimization both guarantee this, matching the "state 0 is the
// start" invariant shared by IntFA, RTN and GLA).
type DFA struct {
	NumStates int
	Trans     []map[string]int // per state: symbol -> target state
	Final     [][]string       // per state: sorted, deduplicated tags (nil/empty if non-final)
}

// IsFinal reports whether state s is an accepting state.
func (d *DFA) IsFinal(s int) bool {
	return len(d.Final[s]) > 0
}

// SubsetConstruct converts an NFA to an equivalent DFA via the standard
// subset construction, renaming the epsilon-closure of the start state to
// DFA state 0.
func SubsetConstruct(n *NFA) *DFA {
	startInts := setInts(n.EpsilonClosure([]int{n.Start}))
	startKey := setKey(n.EpsilonClosure([]int{n.Start}))

	order := []string{startKey}
	members := map[string][]int{startKey: startInts}
	seen := map[string]bool{startKey: true}

	for qi := 0; qi < len(order); qi++ {
		curInts := members[order[qi]]

		bySymbol := make(map[string][]int)
		for _, st := range curInts {
			for sym, targets := range n.Trans[st] {
				bySymbol[sym] = append(bySymbol[sym], targets...)
			}
		}
		for _, targets := range bySymbol {
			closure := n.EpsilonClosure(targets)
			key := setKey(closure)
			if !seen[key] {
				seen[key] = true
				order = append(order, key)
				members[key] = setInts(closure)
			}
		}
	}

	index := make(map[string]int, len(order))
	for i, k := range order {
		index[k] = i
	}

	d := &DFA{
		NumStates: len(order),
		Trans:     make([]map[string]int, len(order)),
		Final:     make([][]string, len(order)),
	}
	for i, k := range order {
		ints := members[k]
		d.Trans[i] = make(map[string]int)

		bySymbol := make(map[string][]int)
		for _, st := range ints {
			for sym, targets := range n.Trans[st] {
				bySymbol[sym] = append(bySymbol[sym], targets...)
			}
		}
		for sym, targets := range bySymbol {
			closure := n.EpsilonClosure(targets)
			d.Trans[i][sym] = index[setKey(closure)]
		}

		tagSet := map[string]bool{}
		for _, st := range ints {
			for _, tag := range n.Final[st] {
				tagSet[tag] = true
			}
		}
		if len(tagSet) > 0 {
			tags := make([]string, 0, len(tagSet))
			for t := range tagSet {
				tags = append(tags, t)
			}
			sort.Strings(tags)
			d.Final[i] = tags
		}
	}
	return d
}
