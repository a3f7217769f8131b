package intfa

import (
	"sort"

	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/internal/fsm"
)

// Terminal is everything intfa needs to know about a grammar terminal: its
// interned name and its lexical definition.
type Terminal struct {
	Name    string
	Pattern Pattern
}

// Transition is one byte-range edge of a built IntFA.
type Transition struct {
	Lo, Hi byte
	To     int
}

// IntFA is a minimized, conflict-free lexical DFA: state 0 is the start
// state, and every final state carries exactly the one terminal name it
// accepts (construction guarantees this — see Allocate).
type IntFA struct {
	NumStates int
	Trans     [][]Transition // per state, sorted by Lo
	Final     []string       // per state; "" if non-final
}

// IsFinal reports whether state s accepts a terminal.
func (f *IntFA) IsFinal(s int) bool {
	return f.Final[s] != ""
}

// Step follows the transition out of state s that matches byte b, if any.
func (f *IntFA) Step(s int, b byte) (int, bool) {
	for _, t := range f.Trans[s] {
		if b >= t.Lo && b <= t.Hi {
			return t.To, true
		}
	}
	return 0, false
}

// Build compiles the terminals named in bucket (a subset of the keys of
// terms) into one minimized IntFA. Callers are expected to have already
// verified (via Conflicts) that no two terminals in bucket share a
// language; Build itself re-checks this at the level of final DFA states
// and returns a *gzerr.Diagnostic-wrapped error if it finds an ambiguous
// final state, since that would silently mis-lex input.
func Build(terms map[string]Pattern, bucket []string) (*IntFA, error) {
	sort.Strings(bucket)
	patterns := make([]Pattern, 0, len(bucket))
	for _, name := range bucket {
		patterns = append(patterns, terms[name])
	}
	alp := buildAlphabet(patterns)

	arena := fsm.NewNFA(1, 0)
	for _, name := range bucket {
		start, accept := compilePattern(arena, alp, terms[name])
		arena.AddEpsilon(arena.Start, start)
		arena.AddFinal(accept, name)
	}

	d := fsm.Minimize(fsm.SubsetConstruct(arena))
	return convert(d)
}

func convert(d *fsm.DFA) (*IntFA, error) {
	out := &IntFA{
		NumStates: d.NumStates,
		Trans:     make([][]Transition, d.NumStates),
		Final:     make([]string, d.NumStates),
	}
	for s := 0; s < d.NumStates; s++ {
		if len(d.Final[s]) > 1 {
			return nil, gzerr.Corrupt("intfa bucket produced ambiguous final state %d accepting %v", s, d.Final[s])
		}
		if len(d.Final[s]) == 1 {
			out.Final[s] = d.Final[s][0]
		}
		trans := make([]Transition, 0, len(d.Trans[s]))
		for key, to := range d.Trans[s] {
			r := RangeOf(key)
			trans = append(trans, Transition{Lo: r.Lo, Hi: r.Hi, To: to})
		}
		sort.Slice(trans, func(i, j int) bool { return trans[i].Lo < trans[j].Lo })
		out.Trans[s] = trans
	}
	return out, nil
}
