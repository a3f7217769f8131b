package vm

import (
	"strings"
	"testing"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/bytecode"
	"github.com/gazelle-lang/gazelle/compile"
	"github.com/gazelle-lang/gazelle/intfa"
	"github.com/gazelle-lang/gazelle/rtn"
)

func slot(n string, i int) gazelle.SlotDescriptor { return gazelle.SlotDescriptor{Name: n, SlotNum: i} }

func mustCompile(t *testing.T, src *compile.Source, opts compile.Options) *bytecode.CompiledGrammar {
	t.Helper()
	cg, err := compile.Compile(src, opts)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return cg
}

type recorder struct {
	terminals []string
	starts    []string
	ends      []string
	errChars  []byte
	errTerms  []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		Terminal:      func(p *Parser, t Terminal) { r.terminals = append(r.terminals, t.Name) },
		StartRule:     func(p *Parser, rule string) { r.starts = append(r.starts, rule) },
		EndRule:       func(p *Parser, rule string) { r.ends = append(r.ends, rule) },
		ErrorChar:     func(p *Parser, b byte) { r.errChars = append(r.errChars, b) },
		ErrorTerminal: func(p *Parser, t Terminal) { r.errTerms = append(r.errTerms, t.Name) },
	}
}

// s -> "X" "Y";  input "XY" parses cleanly to HARD_EOF.
func TestParseSimpleSequence(t *testing.T) {
	src := &compile.Source{
		Start: "s",
		Terminals: []compile.TerminalSpec{
			{Name: "X", Pattern: intfa.Literal("X")},
			{Name: "Y", Pattern: intfa.Literal("Y")},
		},
		Rules: []compile.RuleSpec{
			{Name: "s", NumSlots: 2, Expr: rtn.Seq{
				rtn.TermRef{Name: "X", Slot: slot("x", 0)},
				rtn.TermRef{Name: "Y", Slot: slot("y", 1)},
			}},
		},
		Text: `s -> "X" "Y";`,
	}
	cg := mustCompile(t, src, compile.Options{})

	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	consumed, st := p.Parse([]byte("XY"))
	if st != OK {
		t.Fatalf("Parse = %v, want OK", st)
	}
	if consumed != 2 {
		t.Fatalf("consumed = %d, want 2", consumed)
	}
	ok, st := p.Finish()
	if !ok || st != HardEOF {
		t.Fatalf("Finish = (%v, %v), want (true, HARD_EOF)", ok, st)
	}
	if strings.Join(rec.terminals, ",") != "X,Y" {
		t.Fatalf("terminals = %v, want [X Y]", rec.terminals)
	}
	if len(rec.starts) != 1 || rec.starts[0] != "s" || len(rec.ends) != 1 || rec.ends[0] != "s" {
		t.Fatalf("start/end rule callbacks = %v/%v, want one s/s", rec.starts, rec.ends)
	}
}

// s -> "AB";  input "AC" must fail with ERROR, having consumed nothing
// of the offending byte.
func TestParseRejectsBadByte(t *testing.T) {
	src := &compile.Source{
		Start: "s",
		Terminals: []compile.TerminalSpec{
			{Name: "AB", Pattern: intfa.Literal("AB")},
		},
		Rules: []compile.RuleSpec{
			{Name: "s", NumSlots: 1, Expr: rtn.Seq{
				rtn.TermRef{Name: "AB", Slot: slot("ab", 0)},
			}},
		},
		Text: `s -> "AB";`,
	}
	cg := mustCompile(t, src, compile.Options{})

	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	consumed, st := p.Parse([]byte("AC"))
	if st != ParseError {
		t.Fatalf("Parse = %v, want ERROR", st)
	}
	if consumed != 1 {
		t.Fatalf("consumed = %d, want 1 (stopped before the bad byte)", consumed)
	}
	if len(rec.errChars) != 1 || rec.errChars[0] != 'C' {
		t.Fatalf("errChars = %v, want ['C']", rec.errChars)
	}
}

// s -> b "X" | c "X"; b -> "A" "P"; c -> "A" "Q";  disambiguating
// which of b/c to call requires a GLA that looks two terminals deep.
// Exercise both branches.
func ambiguousCallGrammar(t *testing.T) *bytecode.CompiledGrammar {
	t.Helper()
	termPattern := func(s string) intfa.Pattern { return intfa.Literal(s) }
	src := &compile.Source{
		Start: "s",
		Terminals: []compile.TerminalSpec{
			{Name: "A", Pattern: termPattern("A")},
			{Name: "P", Pattern: termPattern("P")},
			{Name: "Q", Pattern: termPattern("Q")},
			{Name: "X", Pattern: termPattern("X")},
		},
		Rules: []compile.RuleSpec{
			{Name: "s", NumSlots: 2, Expr: rtn.Alt{
				rtn.Seq{rtn.CallRef{Rule: "b", Slot: slot("b", 0)}, rtn.TermRef{Name: "X", Slot: slot("x", 1)}},
				rtn.Seq{rtn.CallRef{Rule: "c", Slot: slot("c", 0)}, rtn.TermRef{Name: "X", Slot: slot("x", 1)}},
			}},
			{Name: "b", NumSlots: 2, Expr: rtn.Seq{
				rtn.TermRef{Name: "A", Slot: slot("a", 0)},
				rtn.TermRef{Name: "P", Slot: slot("p", 1)},
			}},
			{Name: "c", NumSlots: 2, Expr: rtn.Seq{
				rtn.TermRef{Name: "A", Slot: slot("a", 0)},
				rtn.TermRef{Name: "Q", Slot: slot("q", 1)},
			}},
		},
		Text: `s -> b "X" | c "X"; b -> "A" "P"; c -> "A" "Q";`,
	}
	return mustCompile(t, src, compile.Options{MaxLookahead: 4})
}

func TestParseResolvesGLAToFirstBranch(t *testing.T) {
	cg := ambiguousCallGrammar(t)
	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	consumed, st := p.Parse([]byte("APX"))
	if st != OK || consumed != 3 {
		t.Fatalf("Parse = (%d, %v), want (3, OK)", consumed, st)
	}
	ok, st := p.Finish()
	if !ok || st != HardEOF {
		t.Fatalf("Finish = (%v, %v), want (true, HARD_EOF)", ok, st)
	}
	if strings.Join(rec.terminals, ",") != "A,P,X" {
		t.Fatalf("terminals = %v, want [A P X]", rec.terminals)
	}
	if strings.Join(rec.starts, ",") != "s,b" {
		t.Fatalf("starts = %v, want [s b]", rec.starts)
	}
}

func TestParseResolvesGLAToSecondBranch(t *testing.T) {
	cg := ambiguousCallGrammar(t)
	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	consumed, st := p.Parse([]byte("AQX"))
	if st != OK || consumed != 3 {
		t.Fatalf("Parse = (%d, %v), want (3, OK)", consumed, st)
	}
	ok, st := p.Finish()
	if !ok || st != HardEOF {
		t.Fatalf("Finish = (%v, %v), want (true, HARD_EOF)", ok, st)
	}
	if strings.Join(rec.starts, ",") != "s,c" {
		t.Fatalf("starts = %v, want [s c]", rec.starts)
	}
}

// Feeding the same input one byte at a time must reach the same result
// as feeding it in one shot: Parse is resumable across arbitrary chunk
// boundaries.
func TestParseIsResumableAcrossChunks(t *testing.T) {
	cg := ambiguousCallGrammar(t)
	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	input := []byte("APX")
	for i, b := range input {
		consumed, st := p.Parse([]byte{b})
		if st != OK {
			t.Fatalf("byte %d: Parse = %v, want OK", i, st)
		}
		if consumed != 1 {
			t.Fatalf("byte %d: consumed = %d, want 1", i, consumed)
		}
	}
	ok, st := p.Finish()
	if !ok || st != HardEOF {
		t.Fatalf("Finish = (%v, %v), want (true, HARD_EOF)", ok, st)
	}
	if strings.Join(rec.terminals, ",") != "A,P,X" {
		t.Fatalf("terminals = %v, want [A P X]", rec.terminals)
	}
}

// a -> "Z"*; s -> a "X" | a "Y";  input "ZZZX" (spec.md §8). Both
// alternatives begin with the same call to a, so s's start state has a
// single call transition and needs no GLA: Z,Z,Z flow into a's RTN
// frame; the trailing X doesn't match a's own "Z" self-loop, but a's
// state is final, so a must implicitly return and X must be retried
// against s's resumed (post-call) state.
func TestParseImplicitReturnFromFinalNonCallFrame(t *testing.T) {
	termPattern := func(s string) intfa.Pattern { return intfa.Literal(s) }
	src := &compile.Source{
		Start: "s",
		Terminals: []compile.TerminalSpec{
			{Name: "Z", Pattern: termPattern("Z")},
			{Name: "X", Pattern: termPattern("X")},
			{Name: "Y", Pattern: termPattern("Y")},
		},
		Rules: []compile.RuleSpec{
			{Name: "a", NumSlots: 1, Expr: rtn.StarExpr{
				Elem: rtn.TermRef{Name: "Z", Slot: slot("z", 0)},
			}},
			{Name: "s", NumSlots: 2, Expr: rtn.Alt{
				rtn.Seq{rtn.CallRef{Rule: "a", Slot: slot("a", 0)}, rtn.TermRef{Name: "X", Slot: slot("x", 1)}},
				rtn.Seq{rtn.CallRef{Rule: "a", Slot: slot("a", 0)}, rtn.TermRef{Name: "Y", Slot: slot("y", 1)}},
			}},
		},
		Text: `a -> "Z"*; s -> a "X" | a "Y";`,
	}
	cg := mustCompile(t, src, compile.Options{MaxLookahead: 8})

	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	consumed, st := p.Parse([]byte("ZZZX"))
	if st != OK || consumed != 4 {
		t.Fatalf("Parse = (%d, %v), want (4, OK)", consumed, st)
	}
	ok, st := p.Finish()
	if !ok || st != HardEOF {
		t.Fatalf("Finish = (%v, %v), want (true, HARD_EOF)", ok, st)
	}
	if strings.Join(rec.terminals, ",") != "Z,Z,Z,X" {
		t.Fatalf("terminals = %v, want [Z Z Z X]", rec.terminals)
	}
	if strings.Join(rec.starts, ",") != "s,a" {
		t.Fatalf("starts = %v, want [s a]", rec.starts)
	}
	if strings.Join(rec.ends, ",") != "a,s" {
		t.Fatalf("ends = %v, want [a s]", rec.ends)
	}
}

// allow WS in s;  whitespace between "X" and "Y" must be silently
// dropped rather than treated as input to match against a transition.
func TestParseDropsIgnoredTerminals(t *testing.T) {
	src := &compile.Source{
		Start: "s",
		Terminals: []compile.TerminalSpec{
			{Name: "X", Pattern: intfa.Literal("X")},
			{Name: "Y", Pattern: intfa.Literal("Y")},
			{Name: "WS", Pattern: intfa.Literal(" ")},
		},
		Rules: []compile.RuleSpec{
			{Name: "s", NumSlots: 2, Ignore: []string{"WS"}, Expr: rtn.Seq{
				rtn.TermRef{Name: "X", Slot: slot("x", 0)},
				rtn.TermRef{Name: "Y", Slot: slot("y", 1)},
			}},
		},
		Text: `allow WS in s; s -> "X" "Y";`,
	}
	cg := mustCompile(t, src, compile.Options{})

	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	consumed, st := p.Parse([]byte("X Y"))
	if st != OK || consumed != 3 {
		t.Fatalf("Parse = (%d, %v), want (3, OK)", consumed, st)
	}
	ok, st := p.Finish()
	if !ok || st != HardEOF {
		t.Fatalf("Finish = (%v, %v), want (true, HARD_EOF)", ok, st)
	}
	if strings.Join(rec.terminals, ",") != "X,Y" {
		t.Fatalf("terminals = %v, want [X Y] (WS dropped)", rec.terminals)
	}
}

// s -> "FOO";  ending input mid-lexeme of a longer terminal must report
// PREMATURE_EOF from Finish rather than silently truncating.
func TestFinishReportsPrematureEOFMidLexeme(t *testing.T) {
	src := &compile.Source{
		Start: "s",
		Terminals: []compile.TerminalSpec{
			{Name: "FOO", Pattern: intfa.Literal("FOO")},
		},
		Rules: []compile.RuleSpec{
			{Name: "s", NumSlots: 1, Expr: rtn.Seq{
				rtn.TermRef{Name: "FOO", Slot: slot("f", 0)},
			}},
		},
		Text: `s -> "FOO";`,
	}
	cg := mustCompile(t, src, compile.Options{})

	rec := &recorder{}
	p := New(cg, rec.callbacks(), Limits{})
	if _, st := p.Parse([]byte("FO")); st != OK {
		t.Fatalf("Parse = %v, want OK", st)
	}
	ok, st := p.Finish()
	if ok || st != PrematureEOF {
		t.Fatalf("Finish = (%v, %v), want (false, PREMATURE_EOF)", ok, st)
	}
}
