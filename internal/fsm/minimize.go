package fsm

import (
	"sort"
	"strings"
)

// Minimize collapses equivalent states of d, preserving finality and
// transition behavior exactly: two states are merged only if they agree
// on their final tags (so two states accepting different terminal sets,
// or carrying different RTN slot information baked into the alphabet, are
// never merged) and on where every symbol in the alphabet leads, up to
// the same equivalence. This is Hopcroft's partition-refinement
// equivalence, computed here by iterated signature refinement to a
// fixpoint rather than Hopcroft's O(n·log n) worklist — same minimal
// result, simpler code, and these automata are small enough that the
// asymptotics never matter in practice.
//
// The final classes are renumbered so that the class containing state 0
// gets index 0, keeping the start state at index 0.
func Minimize(d *DFA) *DFA {
	n := d.NumStates
	if n == 0 {
		return d
	}
	class := make([]int, n)
	// initial partition: group by final-tag signature (including the
	// "non-final" group). The start state is not treated specially here;
	// the renumbering below puts its class at index 0.
	tagOf := make([]string, n)
	for s := 0; s < n; s++ {
		tagOf[s] = strings.Join(d.Final[s], "\x00")
	}
	groups := map[string][]int{}
	for s := 0; s < n; s++ {
		groups[tagOf[s]] = append(groups[tagOf[s]], s)
	}
	class = assignClasses(groups, n)

	alphabet := allSymbols(d)

	for {
		sig := make([]string, n)
		for s := 0; s < n; s++ {
			var b strings.Builder
			b.WriteString(tagOf[s])
			for _, sym := range alphabet {
				b.WriteByte('\x01')
				if to, ok := d.Trans[s][sym]; ok {
					b.WriteString(itoa(class[to]))
				} else {
					b.WriteString("-")
				}
			}
			sig[s] = b.String()
		}
		newGroups := map[string][]int{}
		for s := 0; s < n; s++ {
			newGroups[sig[s]] = append(newGroups[sig[s]], s)
		}
		if len(newGroups) == len(groups) {
			same := true
			newClass := assignClasses(newGroups, n)
			for s := 0; s < n; s++ {
				if newClass[s] != class[s] {
					same = false
					break
				}
			}
			if same {
				break
			}
			class = newClass
			groups = newGroups
			continue
		}
		groups = newGroups
		class = assignClasses(groups, n)
	}

	return rebuild(d, class)
}

// assignClasses gives every group a stable class id, ordered so that the
// group containing state 0 gets class 0 (preserving the start-state
// invariant through minimization).
func assignClasses(groups map[string][]int, n int) []int {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return groups[keys[i]][0] < groups[keys[j]][0]
	})
	class := make([]int, n)
	zeroClass := -1
	for i, k := range keys {
		for _, s := range groups[k] {
			class[s] = i
			if s == 0 {
				zeroClass = i
			}
		}
	}
	if zeroClass > 0 {
		// swap class 0 and zeroClass so state 0's class is renumbered 0
		for s := range class {
			switch class[s] {
			case 0:
				class[s] = zeroClass
			case zeroClass:
				class[s] = 0
			}
		}
	}
	return class
}

func allSymbols(d *DFA) []string {
	set := map[string]bool{}
	for _, t := range d.Trans {
		for sym := range t {
			set[sym] = true
		}
	}
	syms := make([]string, 0, len(set))
	for s := range set {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	return syms
}

func rebuild(d *DFA, class []int) *DFA {
	numClasses := 0
	for _, c := range class {
		if c+1 > numClasses {
			numClasses = c + 1
		}
	}
	out := &DFA{
		NumStates: numClasses,
		Trans:     make([]map[string]int, numClasses),
		Final:     make([][]string, numClasses),
	}
	seen := make([]bool, numClasses)
	for s := 0; s < d.NumStates; s++ {
		c := class[s]
		if seen[c] {
			continue
		}
		seen[c] = true
		out.Final[c] = d.Final[s]
		out.Trans[c] = make(map[string]int, len(d.Trans[s]))
		for sym, to := range d.Trans[s] {
			out.Trans[c][sym] = class[to]
		}
	}
	return out
}
