package gla

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/rtn"
)

// frame is a pending return site: once the callee at (rule, -) finishes,
// resume at (rule, state).
type frame struct {
	rule  string
	state int
}

// item is one live exploration position for one candidate path.
type item struct {
	path  int // index into the candidates slice
	rule  string
	state int   // -1 for the synthetic CandReturn position
	stack []frame
}

func (it item) withStack(s []frame) item {
	cp := make([]frame, len(s))
	copy(cp, s)
	it.stack = cp
	return it
}

// edge is one terminal-labelled step discovered while closing an item
// over ε (nonterminal calls and rule returns).
type edge struct {
	terminal string
	next     item
}

// closeItem expands it past every call/return it can take without
// consuming a terminal, emitting one edge per terminal it can then
// consume. Left recursion (a call cycle reachable without consuming a
// terminal) cannot occur here because rtn.ComputeNullable/FirstTerminals
// already rejects left-recursive grammars before gla ever runs.
func closeItem(g *rtn.Grammar, it item, candidates []Candidate, out *[]edge) error {
	if it.state == -1 {
		// Synthetic CandReturn position: every terminal in its follow
		// set is immediately consumable, landing back in "returned".
		for _, t := range candidates[it.path].Follow {
			*out = append(*out, edge{terminal: t, next: it})
		}
		return nil
	}
	net := g.Networks[it.rule]
	if net == nil {
		return gzerr.NotLLStar(gazelle.Position{}, it.rule, "reference to undefined rule %q during lookahead analysis", it.rule)
	}
	// A final state may still carry outgoing transitions of its own
	// (e.g. the loop-back edge of a starred element); those are handled
	// by the loop below regardless of finality. Finality only adds a
	// second thing to explore: if there's a pending return site, this
	// path may also continue there.
	if net.IsFinal(it.state) && len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		popped := it.withStack(it.stack[:len(it.stack)-1])
		popped.rule, popped.state = top.rule, top.state
		if err := closeItem(g, popped, candidates, out); err != nil {
			return err
		}
	}
	for _, t := range net.Trans[it.state] {
		switch t.Kind {
		case rtn.TransTerminal:
			*out = append(*out, edge{terminal: t.Symbol, next: it.setPos(it.rule, t.To)})
		case rtn.TransCall:
			pushed := it.withStack(append(append([]frame{}, it.stack...), frame{rule: it.rule, state: t.To}))
			pushed.rule, pushed.state = t.Symbol, 0
			if err := closeItem(g, pushed, candidates, out); err != nil {
				return err
			}
		}
	}
	return nil
}

func (it item) setPos(rule string, state int) item {
	it.rule, it.state = rule, state
	return it
}

// signature canonicalizes an item set so that identical frontiers reuse
// the same GLA state, which is what turns tail recursion like
// `a -> ("Z" a)?` into a finite automaton instead of an infinite
// unrolling.
func signature(items []item) string {
	keys := make([]string, len(items))
	for i, it := range items {
		var b strings.Builder
		b.WriteString(strconv.Itoa(it.path))
		b.WriteByte('|')
		b.WriteString(it.rule)
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(it.state))
		for _, f := range it.stack {
			b.WriteByte('>')
			b.WriteString(f.rule)
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(f.state))
		}
		keys[i] = b.String()
	}
	sort.Strings(keys)
	return strings.Join(keys, "\x1f")
}

func decisionOf(items []item, candidates []Candidate) int {
	path := items[0].path
	for _, it := range items[1:] {
		if it.path != path {
			return NoDecision
		}
	}
	if candidates[path].Kind == CandReturn {
		return ReturnDecision
	}
	return path
}

// Build synthesizes a GLA disambiguating the given candidates, which
// must all originate from the same RTN state (spec §4.4). rule names
// the RTN the candidates belong to, used as the starting position for
// any candidate that is itself a direct terminal transition.
func Build(rule string, g *rtn.Grammar, candidates []Candidate, maxLookahead int) (*GLA, error) {
	start := make([]item, 0, len(candidates))
	for i, c := range candidates {
		switch c.Kind {
		case CandReturn:
			start = append(start, item{path: i, state: -1})
		case CandTransition:
			if c.IsCall {
				start = append(start, item{path: i, rule: c.Symbol, state: 0, stack: []frame{{rule: rule, state: c.To}}})
			} else {
				start = append(start, item{path: i, rule: rule, state: c.To})
			}
		}
	}

	a := &GLA{}
	seen := map[string]int{}
	type queued struct {
		items []item
		depth int
	}
	queue := []queued{{items: start, depth: 0}}
	a.NumStates = 1
	a.Trans = append(a.Trans, map[string]int{})
	a.Decision = append(a.Decision, decisionOf(start, candidates))
	a.IntFAOf = append(a.IntFAOf, -1)
	seen[signature(start)] = 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curIdx := seen[signature(cur.items)]
		if a.Decision[curIdx] != NoDecision {
			continue
		}
		if cur.depth >= maxLookahead {
			return nil, gzerr.NotLLStar(gazelle.Position{}, rule,
				"ambiguous lookahead: candidates remain undecided after %d terminals", maxLookahead)
		}

		byTerminal := map[string][]item{}
		for _, it := range cur.items {
			var edges []edge
			if err := closeItem(g, it, candidates, &edges); err != nil {
				return nil, err
			}
			for _, e := range edges {
				byTerminal[e.terminal] = append(byTerminal[e.terminal], e.next)
			}
		}
		if len(byTerminal) == 0 {
			return nil, gzerr.NotLLStar(gazelle.Position{}, rule, "no terminal distinguishes the remaining candidates")
		}

		terms := make([]string, 0, len(byTerminal))
		for t := range byTerminal {
			terms = append(terms, t)
		}
		sort.Strings(terms)

		for _, t := range terms {
			items := dedupItems(byTerminal[t])
			sig := signature(items)
			idx, ok := seen[sig]
			if !ok {
				idx = a.NumStates
				a.NumStates++
				a.Trans = append(a.Trans, map[string]int{})
				a.Decision = append(a.Decision, decisionOf(items, candidates))
				a.IntFAOf = append(a.IntFAOf, -1)
				seen[sig] = idx
				queue = append(queue, queued{items: items, depth: cur.depth + 1})
			}
			a.Trans[curIdx][t] = idx
		}
	}
	return a, nil
}

func dedupItems(items []item) []item {
	sigs := map[string]bool{}
	out := make([]item, 0, len(items))
	for _, it := range items {
		s := signature([]item{it})
		if sigs[s] {
			continue
		}
		sigs[s] = true
		out = append(out, it)
	}
	return out
}
