package rtn

import (
	"sort"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/gzerr"
)

// Nullable reports, for every (rule, state) pair, whether that position
// can complete the rule without consuming another terminal — either
// because the state is itself final, or because some outgoing call
// transition reaches a nullable callee whose return site is itself
// nullable. Computed once per grammar as a monotone fixpoint (the same
// shape as classical FIRST/FOLLOW nullable-set computation).
type Nullable map[string][]bool

// ComputeNullable computes the Nullable relation for every rule in g.
func ComputeNullable(g *Grammar) Nullable {
	null := Nullable{}
	for name, net := range g.Networks {
		states := make([]bool, net.NumStates)
		for s, f := range net.Final {
			states[s] = f
		}
		null[name] = states
	}
	for changed := true; changed; {
		changed = false
		for name, net := range g.Networks {
			for s := 0; s < net.NumStates; s++ {
				if null[name][s] {
					continue
				}
				for _, t := range net.Trans[s] {
					if t.Kind != TransCall {
						continue
					}
					callee := g.Networks[t.Symbol]
					if callee == nil {
						continue
					}
					if null[t.Symbol][0] && null[name][t.To] {
						null[name][s] = true
						changed = true
						break
					}
				}
			}
		}
	}
	return null
}

// FirstTerminals enumerates the terminals that could legally be lexed
// next from (rule, state) — spec.md §4.3 step 2 — following nonterminal
// calls into their callees' start states and, when a callee is nullable,
// continuing past the call to its return site. A rule reachable from
// itself through zero-or-more such calls without ever consuming a
// terminal is left recursion and is reported as a *gzerr.Diagnostic
// wrapping gzerr.ErrNotLLStar (spec.md §4.3 Failure, §8.6).
func FirstTerminals(g *Grammar, null Nullable, rule string, state int) ([]string, error) {
	visited := map[string]bool{}
	set := map[string]bool{}
	if err := firsts(g, null, rule, state, visited, set); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

// ComputeFollow computes, for every rule, the terminals that can
// legally appear immediately after some call to it from anywhere in the
// grammar — the classical FOLLOW relation, extended here to a
// call-graph instead of a context-free production set. The start
// rule's own follow set seeds with gazelle.EOFTerminalName. This is a
// grammar-wide approximation shared by every call site; the
// call-site-specific context a particular GLA actually needs is
// already captured by its own stack-aware exploration (gla.Build) — the
// Follow computed here only feeds the fallback "return" candidate once
// that exploration has popped back out to the top of the call stack.
func ComputeFollow(g *Grammar, null Nullable) (map[string][]string, error) {
	follow := map[string]map[string]bool{}
	for name := range g.Networks {
		follow[name] = map[string]bool{}
	}
	if _, ok := follow[g.Start]; !ok {
		return nil, gzerr.NotLLStar(gazelle.Position{}, g.Start, "start rule %q is not defined", g.Start)
	}
	follow[g.Start][gazelle.EOFTerminalName] = true

	for changed := true; changed; {
		changed = false
		for name, net := range g.Networks {
			for s := 0; s < net.NumStates; s++ {
				for _, t := range net.Trans[s] {
					if t.Kind != TransCall {
						continue
					}
					firstsAfter, err := FirstTerminals(g, null, name, t.To)
					if err != nil {
						return nil, err
					}
					for _, f := range firstsAfter {
						if !follow[t.Symbol][f] {
							follow[t.Symbol][f] = true
							changed = true
						}
					}
					if null[name][t.To] {
						for f := range follow[name] {
							if !follow[t.Symbol][f] {
								follow[t.Symbol][f] = true
								changed = true
							}
						}
					}
				}
			}
		}
	}

	out := make(map[string][]string, len(follow))
	for name, set := range follow {
		list := make([]string, 0, len(set))
		for f := range set {
			list = append(list, f)
		}
		sort.Strings(list)
		out[name] = list
	}
	return out, nil
}

func firsts(g *Grammar, null Nullable, rule string, state int, visiting map[string]bool, out map[string]bool) error {
	net := g.Networks[rule]
	if net == nil {
		return gzerr.NotLLStar(gazelle.Position{}, rule, "reference to undefined rule %q", rule)
	}
	for _, t := range net.Trans[state] {
		switch t.Kind {
		case TransTerminal:
			out[t.Symbol] = true
		case TransCall:
			if visiting[t.Symbol] {
				return gzerr.NotLLStar(gazelle.Position{}, t.Symbol,
					"left-recursive: rule %q reaches itself via a nonterminal call before consuming a terminal", t.Symbol)
			}
			visiting[t.Symbol] = true
			if err := firsts(g, null, t.Symbol, 0, visiting, out); err != nil {
				return err
			}
			delete(visiting, t.Symbol)
			if null[t.Symbol][0] {
				if err := firsts(g, null, rule, t.To, visiting, out); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
