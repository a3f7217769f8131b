// Package cliutil holds the small bits of display logic gzc and
// gzparse both need, so neither main package has to duplicate it.
package cliutil

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/gazelle-lang/gazelle/bytecode"
)

// PrintStats renders a compiled grammar's size counters for --dump-total.
func PrintStats(s bytecode.Stats) {
	pterm.Info.Println("grammar totals:")
	rows := [][2]string{
		{"rules", fmt.Sprint(s.Rules)},
		{"IntFAs", fmt.Sprint(s.IntFAs)},
		{"IntFA states", fmt.Sprint(s.IntFAStates)},
		{"IntFA transitions", fmt.Sprint(s.IntFATransitions)},
		{"RTN states", fmt.Sprint(s.RTNStates)},
		{"RTN transitions", fmt.Sprint(s.RTNTransitions)},
		{"GLAs", fmt.Sprint(s.GLACount)},
	}
	for _, r := range rows {
		pterm.Printfln("  %-18s %s", r[0], r[1])
	}
}
