package intfa

import (
	"fmt"

	"github.com/gazelle-lang/gazelle/internal/fsm"
)

// cellKey is the canonical fsm transition-symbol for an alphabet cell.
func cellKey(c Range) string {
	return fmt.Sprintf("%03d-%03d", c.Lo, c.Hi)
}

// RangeOf recovers the byte range a cell key denotes (used by the vm's
// IntFA layer when it needs to report the matched range, and by tests).
func RangeOf(key string) Range {
	var lo, hi int
	fmt.Sscanf(key, "%03d-%03d", &lo, &hi)
	return Range{byte(lo), byte(hi)}
}

// fragment is a Thompson-construction fragment: entry and exit states
// within a shared arena. Concatenation, alternation and the repetition
// operators all just wire fragments together with epsilon edges, never
// touching bytes directly except at the Byte/Range/AnyByte leaves.
type fragment struct {
	start, accept int
}

type compiler struct {
	nfa *fsm.NFA
	alp *alphabet
}

// compilePattern builds an NFA fragment for p within arena, using alp to
// split any byte range into alphabet-consistent cell transitions.
func compilePattern(arena *fsm.NFA, alp *alphabet, p Pattern) (start, accept int) {
	c := &compiler{nfa: arena, alp: alp}
	frag := c.compile(p)
	return frag.start, frag.accept
}

func (c *compiler) newFragment() fragment {
	return fragment{start: c.nfa.AddState(), accept: c.nfa.AddState()}
}

func (c *compiler) compile(p Pattern) fragment {
	switch x := p.(type) {
	case Byte:
		return c.compileRange(Range{byte(x), byte(x)})
	case Range:
		return c.compileRange(x)
	case AnyByte:
		return c.compileRange(Range{0, 255})
	case Concat:
		return c.compileConcat(x)
	case Alt:
		return c.compileAlt(x)
	case Star:
		return c.compileStar(x.Elem)
	case Plus:
		return c.compilePlus(x.Elem)
	case Opt:
		return c.compileOpt(x.Elem)
	default:
		panic(fmt.Sprintf("intfa: unknown pattern type %T", p))
	}
}

func (c *compiler) compileRange(r Range) fragment {
	f := c.newFragment()
	for _, cell := range c.alp.cellsWithin(r.Lo, r.Hi) {
		c.nfa.AddTrans(f.start, cellKey(cell), f.accept)
	}
	return f
}

func (c *compiler) compileConcat(seq Concat) fragment {
	if len(seq) == 0 {
		f := c.newFragment()
		c.nfa.AddEpsilon(f.start, f.accept)
		return f
	}
	first := c.compile(seq[0])
	cur := first.accept
	for _, p := range seq[1:] {
		next := c.compile(p)
		c.nfa.AddEpsilon(cur, next.start)
		cur = next.accept
	}
	return fragment{start: first.start, accept: cur}
}

func (c *compiler) compileAlt(opts Alt) fragment {
	f := c.newFragment()
	for _, p := range opts {
		sub := c.compile(p)
		c.nfa.AddEpsilon(f.start, sub.start)
		c.nfa.AddEpsilon(sub.accept, f.accept)
	}
	return f
}

func (c *compiler) compileStar(elem Pattern) fragment {
	f := c.newFragment()
	sub := c.compile(elem)
	c.nfa.AddEpsilon(f.start, sub.start)
	c.nfa.AddEpsilon(f.start, f.accept)
	c.nfa.AddEpsilon(sub.accept, sub.start)
	c.nfa.AddEpsilon(sub.accept, f.accept)
	return f
}

func (c *compiler) compilePlus(elem Pattern) fragment {
	sub := c.compile(elem)
	c.nfa.AddEpsilon(sub.accept, sub.start)
	return sub
}

func (c *compiler) compileOpt(elem Pattern) fragment {
	f := c.newFragment()
	sub := c.compile(elem)
	c.nfa.AddEpsilon(f.start, sub.start)
	c.nfa.AddEpsilon(f.start, f.accept)
	c.nfa.AddEpsilon(sub.accept, f.accept)
	return f
}
