package vm

import (
	"strings"
	"testing"

	"github.com/gazelle-lang/gazelle/compile"
	"github.com/gazelle-lang/gazelle/intfa"
	"github.com/gazelle-lang/gazelle/rtn"
)

func TestParseReaderDrainsToHardEOF(t *testing.T) {
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
	// bufSize smaller than the input forces multiple Read/Parse rounds.
	st := ParseReader(p, strings.NewReader("XY"), 1)
	if st != HardEOF {
		t.Fatalf("ParseReader = %v, want HARD_EOF", st)
	}
	if strings.Join(rec.terminals, ",") != "X,Y" {
		t.Fatalf("terminals = %v, want [X Y]", rec.terminals)
	}
}

func TestParseReaderReportsPrematureEOF(t *testing.T) {
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
	st := ParseReader(p, strings.NewReader("FO"), 4096)
	if st != PrematureEOF {
		t.Fatalf("ParseReader = %v, want PREMATURE_EOF", st)
	}
}
