// Command gzc compiles a .gzl grammar source file into the bytecode
// container format (spec §4.5, §6): gzc grammar.gzl -o grammar.gzc
package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	flag "github.com/spf13/pflag"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/gazelle-lang/gazelle/bytecode"
	"github.com/gazelle-lang/gazelle/compile"
	"github.com/gazelle-lang/gazelle/grammar"
	"github.com/gazelle-lang/gazelle/internal/cliutil"
)

func tracer() tracing.Trace {
	return tracing.Select("gazelle.gzc")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("gzc", flag.ContinueOnError)
	out := fs.StringP("output", "o", "", "output container path (default: input with .gzc extension)")
	maxLookahead := fs.Int("max-lookahead", 0, "GLA exploration depth cap (0: compile.DefaultMaxLookahead)")
	loglevel := fs.String("loglevel", "Error", "trace level [Debug|Info|Error]")
	dumpStats := fs.Bool("dump-total", false, "print state/transition counts after compiling")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: gzc <grammar.gzl> [-o grammar.gzc] [--max-lookahead N] [--dump-total]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	gtrace.SyntaxTracer = gologadapter.New()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*loglevel))

	inPath := fs.Arg(0)
	outPath := *out
	if outPath == "" {
		outPath = withExt(inPath, ".gzc")
	}

	src, err := os.ReadFile(inPath)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	gsrc, err := grammar.Parse(src)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	gopts := grammar.NewOptions(grammar.WithMaxLookahead(*maxLookahead))
	cg, err := compile.Compile(gsrc, gopts.CompileOptions())
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}

	f, err := os.Create(outPath)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	defer f.Close()
	if err := bytecode.WriteGrammar(f, cg); err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	pterm.Success.Printfln("compiled %s -> %s (start rule %q)", inPath, outPath, cg.Start)

	if *dumpStats {
		cliutil.PrintStats(cg.Stats())
	}
	return 0
}

func withExt(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}
	return path + ext
}
