package grammar

import (
	"github.com/gazelle-lang/gazelle/compile"
	"github.com/gazelle-lang/gazelle/vm"
)

// Options collects the compile-time and runtime knobs a grammar can be
// built and driven with: how deep the lookahead analyzer may explore
// (spec.md §4.4) and how deep the pushdown stack may grow (spec.md
// §4.6). Built with functional-option constructors, echoing gorgo's
// own `earley.NewParser(ga, opts ...Option)` builder style.
type Options struct {
	maxLookahead  int
	maxStackDepth int
}

// Option configures an Options value.
type Option func(*Options)

// WithMaxLookahead caps GLA exploration depth (0 leaves
// compile.DefaultMaxLookahead in effect).
func WithMaxLookahead(n int) Option {
	return func(o *Options) { o.maxLookahead = n }
}

// WithMaxStackDepth caps pushdown call-stack nesting at parse time (0
// leaves vm.DefaultLimits.MaxStackDepth in effect).
func WithMaxStackDepth(n int) Option {
	return func(o *Options) { o.maxStackDepth = n }
}

// NewOptions applies opts over the zero value.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CompileOptions projects the compile-time knob onto compile.Options.
func (o Options) CompileOptions() compile.Options {
	return compile.Options{MaxLookahead: o.maxLookahead}
}

// Limits projects the runtime knob onto vm.Limits.
func (o Options) Limits() vm.Limits {
	return vm.Limits{MaxStackDepth: o.maxStackDepth}
}
