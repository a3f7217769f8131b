package vm

import "github.com/gazelle-lang/gazelle/gla"

type frameKind uint8

const (
	frameRTN frameKind = iota
	frameGLA
)

// frame is one element of the parser's pushdown stack: either an
// active RTN call (rule, current state) or a transient GLA resolution
// overlaying the RTN call directly beneath it. A callee's resume state
// is written straight onto its caller's frame at call time (see
// Parser.takeChosen), so no separate return-address bookkeeping is
// needed when a frame pops.
type frame struct {
	kind frameKind

	// valid when kind == frameRTN
	rule  string
	state int

	// valid when kind == frameGLA
	gla        *gla.GLA
	glaState   int
	tokens     []Terminal
	ownerRule  string // the RTN frame this GLA is resolving for
	ownerState int
}

// top returns the stack's top frame, or nil if empty.
func (p *Parser) top() *frame {
	v, ok := p.stack.Peek()
	if !ok {
		return nil
	}
	return v.(*frame)
}

func (p *Parser) push(f *frame) {
	p.stack.Push(f)
}

func (p *Parser) pop() *frame {
	v, ok := p.stack.Pop()
	if !ok {
		return nil
	}
	return v.(*frame)
}

func (p *Parser) depth() int {
	return p.stack.Size()
}
