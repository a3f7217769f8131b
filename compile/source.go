package compile

import (
	"github.com/gazelle-lang/gazelle/intfa"
	"github.com/gazelle-lang/gazelle/rtn"
)

// TerminalSpec names one lexical terminal and its recognized language.
type TerminalSpec struct {
	Name    string
	Pattern intfa.Pattern
}

// RuleSpec is one nonterminal's desugared body, ready for rtn.Build:
// the grammar front-end's job is reducing surface syntax (alternation,
// `?`/`*`/`+`, separator modifiers, groups) down to this shape (spec
// §4.1's desugaring rules).
type RuleSpec struct {
	Name     string
	Expr     rtn.Expr
	NumSlots int
	Ignore   []string // terminal names silently dropped while this rule is on top (`allow`)
}

// Source is everything Compile needs: the desugared rule set, the
// terminal alphabet, the designated start rule, and the raw grammar
// text (hashed into the resulting CompiledGrammar.Hash for the
// round-trip check of spec §8.2).
type Source struct {
	Start     string
	Terminals []TerminalSpec
	Rules     []RuleSpec
	Text      string
}

// DefaultMaxLookahead bounds GLA exploration depth when Options.MaxLookahead
// is left at zero.
const DefaultMaxLookahead = 8

// Options tunes a single Compile call.
type Options struct {
	// MaxLookahead caps how many terminals the lookahead analyzer will
	// explore before declaring a state not-LL(*) (spec §4.4). Zero
	// means DefaultMaxLookahead.
	MaxLookahead int
}

func (o Options) maxLookahead() int {
	if o.MaxLookahead > 0 {
		return o.MaxLookahead
	}
	return DefaultMaxLookahead
}
