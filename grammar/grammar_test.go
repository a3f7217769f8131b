package grammar

import (
	"errors"
	"testing"

	"github.com/gazelle-lang/gazelle/compile"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/rtn"
	"github.com/gazelle-lang/gazelle/vm"
)

func TestParseSimpleSequence(t *testing.T) {
	src, err := Parse([]byte(`s -> "X" "Y";`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.Start != "s" {
		t.Fatalf("Start = %q, want s", src.Start)
	}
	if len(src.Terminals) != 2 || src.Terminals[0].Name != "X" || src.Terminals[1].Name != "Y" {
		t.Fatalf("Terminals = %+v, want [X Y]", src.Terminals)
	}
	if len(src.Rules) != 1 {
		t.Fatalf("Rules = %+v, want one rule", src.Rules)
	}
	r := src.Rules[0]
	if r.Name != "s" || r.NumSlots != 2 {
		t.Fatalf("rule s = %+v, want NumSlots 2", r)
	}
	seq, ok := r.Expr.(rtn.Seq)
	if !ok || len(seq) != 2 {
		t.Fatalf("rule s Expr = %#v, want a 2-element Seq", r.Expr)
	}
	x, ok := seq[0].(rtn.TermRef)
	if !ok || x.Name != "X" || x.Slot.SlotNum != 0 {
		t.Fatalf("seq[0] = %#v, want TermRef X slot 0", seq[0])
	}
	y, ok := seq[1].(rtn.TermRef)
	if !ok || y.Name != "Y" || y.Slot.SlotNum != 1 {
		t.Fatalf("seq[1] = %#v, want TermRef Y slot 1", seq[1])
	}
}

func TestParseAlternationAndGrouping(t *testing.T) {
	src, err := Parse([]byte(`s -> ("A" "B") | "C";`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	alt, ok := src.Rules[0].Expr.(rtn.Alt)
	if !ok || len(alt) != 2 {
		t.Fatalf("Expr = %#v, want a 2-element Alt", src.Rules[0].Expr)
	}
	if _, ok := alt[0].(rtn.Seq); !ok {
		t.Fatalf("alt[0] = %#v, want a Seq", alt[0])
	}
	if _, ok := alt[1].(rtn.TermRef); !ok {
		t.Fatalf("alt[1] = %#v, want a TermRef", alt[1])
	}
}

func TestParseNamedSlotOverride(t *testing.T) {
	src, err := Parse([]byte(`s -> lhs = "X" "Y";`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	seq := src.Rules[0].Expr.(rtn.Seq)
	lhs := seq[0].(rtn.TermRef)
	if lhs.Slot.Name != "lhs" {
		t.Fatalf("slot name = %q, want lhs", lhs.Slot.Name)
	}
	y := seq[1].(rtn.TermRef)
	if y.Slot.Name != "Y" {
		t.Fatalf("default slot name = %q, want Y", y.Slot.Name)
	}
}

func TestParseEmptyDerivation(t *testing.T) {
	src, err := Parse([]byte(`s -> "X" | e;`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	alt := src.Rules[0].Expr.(rtn.Alt)
	if _, ok := alt[1].(rtn.Empty); !ok {
		t.Fatalf("alt[1] = %#v, want Empty", alt[1])
	}
}

// Modifiers desugar per spec.md §4.1's fixed rules; check the shapes
// directly rather than re-deriving them.
func TestParseModifiersDesugar(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want func(rtn.Expr) bool
	}{
		{"optional", `s -> "X"?;`, func(e rtn.Expr) bool { _, ok := e.(rtn.Alt); return ok }},
		{"star", `s -> "X"*;`, func(e rtn.Expr) bool { _, ok := e.(rtn.StarExpr); return ok }},
		{"plus", `s -> "X"+;`, func(e rtn.Expr) bool { _, ok := e.(rtn.Seq); return ok }},
		{"sepPlus", `s -> "X" +(",");`, func(e rtn.Expr) bool { _, ok := e.(rtn.Seq); return ok }},
		{"sepStar", `s -> "X" *(",");`, func(e rtn.Expr) bool { _, ok := e.(rtn.Alt); return ok }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src, err := Parse([]byte(c.src))
			if err != nil {
				t.Fatalf("Parse(%q): %v", c.src, err)
			}
			if !c.want(src.Rules[0].Expr) {
				t.Fatalf("Parse(%q) Expr = %#v, shape mismatch", c.src, src.Rules[0].Expr)
			}
		})
	}
}

// `X ?(S)` is an explicit compile error (spec.md §4.1).
func TestParseRejectsOptWithSeparator(t *testing.T) {
	_, err := Parse([]byte(`s -> "X"?(",");`))
	if err == nil {
		t.Fatalf("expected an error for '?(sep)'")
	}
	if !errors.Is(err, gzerr.ErrGrammarSyntax) {
		t.Fatalf("expected ErrGrammarSyntax, got %v", err)
	}
}

func TestParseRejectsUndeclaredName(t *testing.T) {
	_, err := Parse([]byte(`s -> frobnicate "X";`))
	if err == nil {
		t.Fatalf("expected an error for an undeclared name")
	}
	if !errors.Is(err, gzerr.ErrGrammarSyntax) {
		t.Fatalf("expected ErrGrammarSyntax, got %v", err)
	}
}

// A bare single-literal/regex RHS (no modifier, no sequence) declares a
// terminal, not a rule — mirrors spec.md §8's `WS -> /[ \t]+/;` used
// only through `allow`, never as a callable nonterminal. Rule bodies
// below therefore use at least two factors each.
func TestParseDefaultsStartToFirstRule(t *testing.T) {
	src, err := Parse([]byte(`s -> "X" "X"; t -> "Y" "Y";`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.Start != "s" {
		t.Fatalf("Start = %q, want s (first declared rule)", src.Start)
	}
}

func TestParseStartDirectiveOverridesDefault(t *testing.T) {
	src, err := Parse([]byte(`start t; s -> "X" "X"; t -> "Y" "Y";`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.Start != "t" {
		t.Fatalf("Start = %q, want t", src.Start)
	}
}

// The spec's own worked example (§8): a declared-terminal grammar with
// a regex source and an `allow` directive, compiled and actually run
// end to end through vm.Parser.
func TestParseDeclaredTerminalsAndAllowRoundTrip(t *testing.T) {
	text := `expr -> num ("+" num)*; allow WS in expr; WS -> /[ \t]+/; num -> /[0-9]+/;`
	src, err := Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.Start != "expr" {
		t.Fatalf("Start = %q, want expr", src.Start)
	}
	var exprRule *compile.RuleSpec
	for i := range src.Rules {
		if src.Rules[i].Name == "expr" {
			exprRule = &src.Rules[i]
		}
	}
	if exprRule == nil {
		t.Fatalf("missing rule expr")
	}
	if len(exprRule.Ignore) != 1 || exprRule.Ignore[0] != "WS" {
		t.Fatalf("expr.Ignore = %v, want [WS]", exprRule.Ignore)
	}

	cg, err := compile.Compile(src, compile.Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var terminals []string
	p := vm.New(cg, vm.Callbacks{
		Terminal: func(_ *vm.Parser, term vm.Terminal) { terminals = append(terminals, term.Name) },
	}, vm.Limits{})
	consumed, status := p.Parse([]byte("12 + 34"))
	if status != vm.OK {
		t.Fatalf("Parse = %v, want OK", status)
	}
	if consumed != len("12 + 34") {
		t.Fatalf("consumed = %d, want %d", consumed, len("12 + 34"))
	}
	ok, status := p.Finish()
	if !ok || status != vm.HardEOF {
		t.Fatalf("Finish = (%v, %v), want (true, HARD_EOF)", ok, status)
	}
	want := []string{"num", "+", "num"}
	if len(terminals) != len(want) {
		t.Fatalf("terminals = %v, want %v", terminals, want)
	}
	for i := range want {
		if terminals[i] != want[i] {
			t.Fatalf("terminals = %v, want %v", terminals, want)
		}
	}
}

// s -> s? "X";  must be rejected by compile.Compile as left-recursive;
// package grammar only has to get out of its way and produce the
// Source that exposes the cycle.
func TestParseAndCompileRejectsLeftRecursion(t *testing.T) {
	src, err := Parse([]byte(`s -> s? "X";`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = compile.Compile(src, compile.Options{})
	if err == nil {
		t.Fatalf("expected a left-recursion error")
	}
	if !errors.Is(err, gzerr.ErrNotLLStar) {
		t.Fatalf("expected ErrNotLLStar, got %v", err)
	}
}

// A rule body that is nothing but one bare terminal source (no
// modifier, no sequence) declares a named terminal instead — the same
// shape spec.md §8 uses for `WS -> /[ \t]+/;`.
func TestParseBareLiteralRuleBodyDeclaresTerminal(t *testing.T) {
	src, err := Parse([]byte(`digit -> /[0-9]/; s -> digit digit;`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(src.Rules) != 1 || src.Rules[0].Name != "s" {
		t.Fatalf("Rules = %+v, want exactly rule s (digit is a terminal)", src.Rules)
	}
	seq := src.Rules[0].Expr.(rtn.Seq)
	for i, elem := range seq {
		tr, ok := elem.(rtn.TermRef)
		if !ok || tr.Name != "digit" {
			t.Fatalf("seq[%d] = %#v, want TermRef digit", i, elem)
		}
	}
}

func TestOptionsProjectOntoCompileAndLimits(t *testing.T) {
	o := NewOptions(WithMaxLookahead(3), WithMaxStackDepth(64))
	if got := o.CompileOptions(); got.MaxLookahead != 3 {
		t.Fatalf("CompileOptions().MaxLookahead = %d, want 3", got.MaxLookahead)
	}
	if got := o.Limits(); got.MaxStackDepth != 64 {
		t.Fatalf("Limits().MaxStackDepth = %d, want 64", got.MaxStackDepth)
	}
}

func TestZeroOptionsLeaveDefaultsInEffect(t *testing.T) {
	o := NewOptions()
	if got := o.CompileOptions(); got.MaxLookahead != 0 {
		t.Fatalf("zero Options.CompileOptions().MaxLookahead = %d, want 0 (defaults apply downstream)", got.MaxLookahead)
	}
}

func TestParseEscapedQuoteInLiteral(t *testing.T) {
	src, err := Parse([]byte(`s -> "a\"b" "Y";`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if src.Terminals[0].Name != `a"b` {
		t.Fatalf("terminal name = %q, want a\"b", src.Terminals[0].Name)
	}
}
