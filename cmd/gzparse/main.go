// Command gzparse is the reference parser driver of spec §6: it loads a
// compiled grammar container and streams an input through vm.Parser,
// reporting the callback sequence. Not part of the core; a debugging
// and demonstration front end for it.
//
//	gzparse <grammar.gzc> <input|-> [--dump-json] [--dump-total] [--help]
//
// Omitting <input> drops into an interactive line-at-a-time mode
// (mirrors terexlang/trepl): each line typed is fed to the same parser
// state until EOF, then Finish is reported.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	flag "github.com/spf13/pflag"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/gazelle-lang/gazelle/bytecode"
	"github.com/gazelle-lang/gazelle/grammar"
	"github.com/gazelle-lang/gazelle/internal/cliutil"
	"github.com/gazelle-lang/gazelle/vm"
)

func tracer() tracing.Trace {
	return tracing.Select("gazelle.gzparse")
}

// event is one callback fired during a parse, in the shape --dump-json
// emits (spec §6: terminals expose {name, offset, len}).
type event struct {
	Kind   string `json:"kind"`
	Name   string `json:"name,omitempty"`
	Offset uint64 `json:"offset,omitempty"`
	Len    uint64 `json:"len,omitempty"`
	Char   string `json:"char,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("gzparse", flag.ContinueOnError)
	dumpJSON := fs.Bool("dump-json", false, "print the callback sequence as JSON")
	dumpTotal := fs.Bool("dump-total", false, "print the loaded grammar's state/transition counts")
	maxStackDepth := fs.Int("max-stack-depth", 0, "pushdown call-stack depth cap (0: vm.DefaultLimits.MaxStackDepth)")
	loglevel := fs.String("loglevel", "Error", "trace level [Debug|Info|Error]")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: gzparse <grammar.gzc> <input|-> [--dump-json] [--dump-total]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return 1
	}

	gtrace.SyntaxTracer = gologadapter.New()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*loglevel))

	gf, err := os.Open(fs.Arg(0))
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	cg, err := bytecode.ReadGrammar(gf)
	gf.Close()
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}

	if *dumpTotal {
		cliutil.PrintStats(cg.Stats())
	}

	lim := grammar.NewOptions(grammar.WithMaxStackDepth(*maxStackDepth)).Limits()

	if fs.NArg() < 2 {
		return runInteractive(cg, lim, *dumpJSON)
	}
	return runOnce(cg, lim, fs.Arg(1), *dumpJSON)
}

func runOnce(cg *bytecode.CompiledGrammar, lim vm.Limits, inputArg string, dumpJSON bool) int {
	var r io.Reader
	if inputArg == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(inputArg)
		if err != nil {
			pterm.Error.Println(err.Error())
			return 1
		}
		defer f.Close()
		r = f
	}

	var events []event
	p := vm.New(cg, collector(&events), lim)
	status := vm.ParseReader(p, r, 0)

	if dumpJSON {
		printEvents(events)
	}
	if status != vm.HardEOF {
		reportFailure(p, status)
		return 1
	}
	pterm.Success.Printfln("accepted, %s", p.Position())
	return 0
}

func runInteractive(cg *bytecode.CompiledGrammar, lim vm.Limits, dumpJSON bool) int {
	repl, err := readline.New("gzparse> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	defer repl.Close()

	var events []event
	p := vm.New(cg, collector(&events), lim)
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on ctrl-D
			break
		}
		_, status := p.Parse([]byte(line + "\n"))
		if status == vm.HardEOF {
			break
		}
		if status != vm.OK {
			reportFailure(p, status)
			return 1
		}
	}
	ok, status := true, vm.HardEOF
	if !p.Done() {
		ok, status = p.Finish()
	}
	if dumpJSON {
		printEvents(events)
	}
	if !ok {
		reportFailure(p, status)
		return 1
	}
	pterm.Success.Printfln("accepted, %s", p.Position())
	return 0
}

func collector(events *[]event) vm.Callbacks {
	return vm.Callbacks{
		Terminal: func(_ *vm.Parser, t vm.Terminal) {
			*events = append(*events, event{Kind: "terminal", Name: t.Name, Offset: t.Span.From.Byte, Len: t.Span.To.Byte - t.Span.From.Byte})
		},
		StartRule: func(_ *vm.Parser, rule string) {
			*events = append(*events, event{Kind: "start_rule", Name: rule})
		},
		EndRule: func(_ *vm.Parser, rule string) {
			*events = append(*events, event{Kind: "end_rule", Name: rule})
		},
		ErrorChar: func(_ *vm.Parser, ch byte) {
			*events = append(*events, event{Kind: "error_char", Char: string(ch)})
		},
		ErrorTerminal: func(_ *vm.Parser, t vm.Terminal) {
			*events = append(*events, event{Kind: "error_terminal", Name: t.Name, Offset: t.Span.From.Byte, Len: t.Span.To.Byte - t.Span.From.Byte})
		},
	}
}

func reportFailure(p *vm.Parser, status vm.Status) {
	pos := p.Position()
	pterm.Error.Printfln("%s: %s", pos, statusMessage(status))
}

func statusMessage(status vm.Status) string {
	switch status {
	case vm.ParseError:
		return "no transition accepts the next input"
	case vm.PrematureEOF:
		return "input ended mid-lexeme or mid-lookahead"
	case vm.ResourceLimitExceeded:
		return "resource limit exceeded"
	case vm.Cancelled:
		return "parse cancelled"
	case vm.IOError:
		return "I/O error reading input"
	default:
		return status.String()
	}
}

func printEvents(events []event) {
	enc, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	fmt.Println(string(enc))
}
