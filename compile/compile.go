package compile

import (
	"sort"

	"github.com/cnf/structhash"
	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/bytecode"
	"github.com/gazelle-lang/gazelle/gla"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/intfa"
	"github.com/gazelle-lang/gazelle/rtn"
)

// Compile runs the full pipeline of spec §2: RTN construction per
// rule, left-recursion/FIRST analysis, GLA synthesis at every state
// that needs one, IntFA conflict detection and allocation, and
// assembly of the resulting bytecode.CompiledGrammar.
func Compile(src *Source, opts Options) (*bytecode.CompiledGrammar, error) {
	if src.Start == "" {
		return nil, gzerr.Syntax(gazelle.Position{}, "grammar declares no start rule")
	}

	g, ruleOrder, err := buildNetworks(src)
	if err != nil {
		return nil, err
	}
	if g.Networks[src.Start] == nil {
		return nil, gzerr.Syntax(gazelle.Position{}, "start rule %q is not defined", src.Start)
	}

	tracer().Debugf("computing nullable/FIRST/FOLLOW for %d rules", len(ruleOrder))
	null := rtn.ComputeNullable(g)
	follow, err := rtn.ComputeFollow(g, null)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]*bytecode.RTNEntry, len(ruleOrder))

	// Every position that needs to lex a terminal — an RTN state or a
	// non-final GLA state — contributes one candidate terminal set here
	// and one closure to apply the bucket index it's eventually
	// assigned, so RTN and GLA lexing sites share a single grammar-wide
	// IntFA allocation pass (spec §4.3 makes no distinction between the
	// two: an IntFA bucket is shared "wherever possible").
	candidateSets := [][]string{}
	assigners := []func(bucket int){}

	for _, name := range ruleOrder {
		net := g.Networks[name]
		entry := &bytecode.RTNEntry{
			Network: net,
			IntFAOf: make([]int, net.NumStates),
			GLAOf:   map[int]*gla.GLA{},
		}
		for s := range entry.IntFAOf {
			entry.IntFAOf[s] = -1
		}
		entries[name] = entry

		for s := 0; s < net.NumStates; s++ {
			if len(net.Trans[s]) == 0 {
				continue // dead-end final state: nothing left to lex here
			}
			firstSet, err := rtn.FirstTerminals(g, null, name, s)
			if err != nil {
				return nil, err
			}
			set := unionSorted(firstSet, net.Ignore)
			candidateSets = append(candidateSets, set)
			state := s
			assigners = append(assigners, func(bucket int) { entry.IntFAOf[state] = bucket })

			if needsGLA(net, s) {
				cands := gla.CandidatesForState(net, s, follow[name])
				tracer().Debugf("rule %q state %d: %d candidates need a GLA", name, s, len(cands))
				aut, err := gla.Build(name, g, cands, opts.maxLookahead())
				if err != nil {
					return nil, err
				}
				entry.GLAOf[s] = aut
				for gs := 0; gs < aut.NumStates; gs++ {
					if aut.IsFinal(gs) {
						continue
					}
					terms := make([]string, 0, len(aut.Trans[gs]))
					for t := range aut.Trans[gs] {
						terms = append(terms, t)
					}
					sort.Strings(terms)
					candidateSets = append(candidateSets, terms)
					glaState := gs
					assigners = append(assigners, func(bucket int) { aut.IntFAOf[glaState] = bucket })
				}
			}
		}
	}

	terms := make([]intfa.Terminal, len(src.Terminals))
	patterns := make(map[string]intfa.Pattern, len(src.Terminals))
	for i, t := range src.Terminals {
		terms[i] = intfa.Terminal{Name: t.Name, Pattern: t.Pattern}
		patterns[t.Name] = t.Pattern
	}
	conflicts := intfa.Conflicts(terms)
	buckets, assignment := intfa.Allocate(conflicts, candidateSets)
	tracer().Infof("allocated %d IntFA buckets across %d lexing sites", len(buckets), len(candidateSets))

	fas := make([]*intfa.IntFA, len(buckets))
	for i, b := range buckets {
		fa, err := intfa.Build(patterns, b.Terminals)
		if err != nil {
			return nil, err
		}
		fas[i] = fa
	}
	for i, assign := range assigners {
		assign(assignment[i])
	}

	rtns := make([]*bytecode.RTNEntry, 0, len(ruleOrder))
	for _, name := range ruleOrder {
		rtns = append(rtns, entries[name])
	}

	hash, err := structhash.Hash(src.Text, 1)
	if err != nil {
		return nil, err
	}

	return &bytecode.CompiledGrammar{
		Start:  src.Start,
		Hash:   hash,
		IntFAs: fas,
		RTNs:   rtns,
	}, nil
}

// buildNetworks compiles every rule's desugared Expr into an
// *rtn.Network and returns the resulting grammar plus a canonical rule
// order — start rule first, the rest alphabetical — matching the
// emission order spec §4.5 requires of the bytecode writer.
func buildNetworks(src *Source) (*rtn.Grammar, []string, error) {
	g := &rtn.Grammar{Start: src.Start, Networks: map[string]*rtn.Network{}}
	names := make([]string, 0, len(src.Rules))
	for _, r := range src.Rules {
		if _, dup := g.Networks[r.Name]; dup {
			return nil, nil, gzerr.Syntax(gazelle.Position{}, "rule %q is defined more than once", r.Name)
		}
		g.Networks[r.Name] = rtn.Build(r.Name, r.Expr, r.NumSlots, r.Ignore)
		names = append(names, r.Name)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i] == src.Start {
			return true
		}
		if names[j] == src.Start {
			return false
		}
		return names[i] < names[j]
	})
	return g, names, nil
}

// needsGLA reports whether state's outgoing transitions require a GLA
// to disambiguate. A state with only terminal transitions is already
// deterministic — the RTN's own transition map dispatches on the
// lexed terminal's symbol directly — so a GLA is needed only when a
// nonterminal call is among two or more live candidates: the callee's
// name is not itself a terminal, so the parser cannot tell candidates
// apart without looking at what the callee's FIRST set (or the rule's
// own follow set, if returning is also live) actually lexes to.
func needsGLA(net *rtn.Network, state int) bool {
	trans := net.Trans[state]
	live := len(trans)
	if net.IsFinal(state) {
		live++
	}
	if live <= 1 {
		return false
	}
	for _, t := range trans {
		if t.Kind == rtn.TransCall {
			return true
		}
	}
	return false
}

func unionSorted(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
