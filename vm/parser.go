package vm

import (
	"github.com/emirpasic/gods/stacks/linkedliststack"
	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/bytecode"
	"github.com/gazelle-lang/gazelle/gla"
	"github.com/gazelle-lang/gazelle/rtn"
)

// Parser is one resumable parse over a *bytecode.CompiledGrammar.
// Grammars are immutable once loaded and may be shared across many
// concurrent Parsers (spec §5); a Parser itself is not safe for
// concurrent use and may only move between goroutines between Parse
// calls.
type Parser struct {
	g   *bytecode.CompiledGrammar
	cb  Callbacks
	lim Limits

	stack *linkedliststack.Stack

	pos       gazelle.Position
	lastWasCR bool

	// the currently open lexeme, if any (persists across Parse calls —
	// this is what lets a token span a buffer boundary).
	lexing         bool
	fa             *intfaStepper
	faState        int
	faLastFinal    int
	faLastFinalLen int
	lexBuf         []byte
	lexStart       gazelle.Position
	lexStartWasCR  bool

	// bytes already read that belong to a future lexeme: IntFA overshoot
	// past the last final state, replayed ahead of the next buf (see
	// package doc).
	carry []byte

	cancel bool
	done   bool
}

// New creates a parser positioned at the start of g's start rule and
// fires that rule's start_rule_cb.
func New(g *bytecode.CompiledGrammar, cb Callbacks, lim Limits) *Parser {
	p := &Parser{
		g:     g,
		cb:    cb,
		lim:   lim.withDefaults(),
		stack: linkedliststack.New(),
	}
	p.push(&frame{kind: frameRTN, rule: g.Start, state: 0})
	p.fireStartRule(g.Start)
	return p
}

// Position reports the furthest successfully parsed position.
func (p *Parser) Position() gazelle.Position { return p.pos }

// Cancel requests cooperative halt; checked between terminals.
func (p *Parser) Cancel() { p.cancel = true }

// Done reports whether the stack has fully reduced (the start rule has
// returned); Finish still must be called to confirm success.
func (p *Parser) Done() bool { return p.done }

// Parse feeds buf into the parser, resuming from wherever the previous
// call left off, and returns how many bytes of buf were consumed along
// with a status from the §4.6 table.
func (p *Parser) Parse(buf []byte) (consumed int, status Status) {
	bi := 0
	for {
		if p.cancel {
			return bi, Cancelled
		}
		var b byte
		fromCarry := len(p.carry) > 0
		if fromCarry {
			b = p.carry[0]
		} else if bi < len(buf) {
			b = buf[bi]
		} else {
			return bi, OK
		}

		st, retry := p.stepByte(b)
		if st != OK {
			// A rejected byte is never counted as consumed: the parser
			// is left positioned just before it.
			return bi, st
		}
		if !retry {
			if fromCarry {
				p.carry = p.carry[1:]
			} else {
				bi++
			}
		}
	}
}

// stepByte feeds one byte through whatever IntFA the current stack top
// names. retry reports that b was not consumed at all (the top frame
// implicitly returned with nothing to lex) and must be re-offered
// against the new top.
func (p *Parser) stepByte(b byte) (status Status, retry bool) {
	if !p.lexing {
		idx, ok, st := p.ensureLexContext()
		if !ok {
			if st == statusImplicitReturn {
				p.implicitReturn()
				if p.stack.Empty() {
					p.done = true
					return HardEOF, false
				}
				return OK, true
			}
			return st, false
		}
		p.fa = &intfaStepper{fa: p.g.IntFAs[idx]}
		p.faState = 0
		p.faLastFinal = -1
		p.faLastFinalLen = 0
		p.lexBuf = p.lexBuf[:0]
		p.lexStart = p.pos
		p.lexStartWasCR = p.lastWasCR
		p.lexing = true
	}

	next, ok := p.fa.Step(p.faState, b)
	if ok {
		p.faState = next
		p.lexBuf = append(p.lexBuf, b)
		p.pos, p.lastWasCR = p.pos.Advance(b, p.lastWasCR)
		if p.fa.IsFinal(next) {
			p.faLastFinal = next
			p.faLastFinalLen = len(p.lexBuf)
		}
		return OK, false
	}

	if p.faLastFinal == -1 {
		top := p.top()
		if top.kind == frameGLA {
			p.fireErrorChar(b)
			return ParseError, false
		}
		net := p.g.RTN(top.rule).Network
		if net.IsFinal(top.state) && len(p.lexBuf) == 0 {
			p.implicitReturn()
			if p.stack.Empty() {
				p.done = true
				return HardEOF, false
			}
			p.lexing = false
			return OK, true
		}
		p.fireErrorChar(b)
		return ParseError, false
	}

	// Maximal munch: the lexeme ends at faLastFinalLen bytes; anything
	// scanned beyond that, plus b itself, belongs to the next lexeme.
	name := p.fa.Final(p.faLastFinal)
	overshoot := append([]byte(nil), p.lexBuf[p.faLastFinalLen:]...)
	finalPos, finalWasCR := foldPosition(p.lexStart, p.lexStartWasCR, p.lexBuf[:p.faLastFinalLen])
	term := Terminal{Name: name, Span: gazelle.Span{From: p.lexStart, To: finalPos}}
	p.pos, p.lastWasCR = finalPos, finalWasCR
	p.carry = append(append(overshoot, b), p.carry...)
	p.lexing = false

	return p.deliver(term), false
}

// ensureLexContext decides which IntFA the next lex run should use,
// pushing a GLA frame first if the top RTN state needs one.
func (p *Parser) ensureLexContext() (idx int, ok bool, status Status) {
	top := p.top()
	if top.kind == frameGLA {
		return top.gla.IntFAOf[top.glaState], true, OK
	}
	entry := p.g.RTN(top.rule)
	if g, has := entry.GLAOf[top.state]; has {
		if p.depth() >= p.lim.MaxStackDepth {
			return 0, false, ResourceLimitExceeded
		}
		p.push(&frame{kind: frameGLA, gla: g, glaState: 0, ownerRule: top.rule, ownerState: top.state})
		return g.IntFAOf[0], true, OK
	}
	idx = entry.IntFAOf[top.state]
	if idx < 0 {
		if entry.Network.IsFinal(top.state) {
			return 0, false, statusImplicitReturn
		}
		return 0, false, ParseError
	}
	return idx, true, OK
}

// statusImplicitReturn is an internal-only sentinel ensureLexContext
// uses to tell stepByte a final RTN state has no lexing site at all
// (no outgoing transitions, no GLA) rather than a genuine error: the
// frame should pop and the byte should be retried against the caller.
const statusImplicitReturn Status = -1

// deliver applies a just-lexed terminal, dropping it silently first if
// it's in the owning rule's ignore set (spec §4.6 "Ignored terminals").
func (p *Parser) deliver(t Terminal) Status {
	owner := p.ignoreOwnerRule()
	net := p.g.RTN(owner).Network
	for _, ig := range net.Ignore {
		if ig == t.Name {
			return OK
		}
	}
	return p.intake(t)
}

func (p *Parser) ignoreOwnerRule() string {
	top := p.top()
	if top.kind == frameGLA {
		return top.ownerRule
	}
	return top.rule
}

// intake is the single entry point for "a non-ignored terminal is
// ready"; it recurses across nonterminal-call cascades and GLA
// replays, so it is used for both freshly lexed terminals and buffered
// tokens replayed after a GLA resolves.
func (p *Parser) intake(t Terminal) Status {
	top := p.top()

	if top.kind == frameGLA {
		if len(top.tokens) >= p.lim.MaxLookahead {
			return ResourceLimitExceeded
		}
		to, ok := top.gla.Trans[top.glaState][t.Name]
		if !ok {
			p.fireErrorTerminal(t)
			return ParseError
		}
		top.tokens = append(top.tokens, t)
		top.glaState = to
		if !top.gla.IsFinal(to) {
			return OK
		}

		decision := top.gla.Decision[to]
		tokens := top.tokens
		ownerRule, ownerState := top.ownerRule, top.ownerState
		p.pop()

		if decision == gla.ReturnDecision {
			p.implicitReturn()
		} else {
			net := p.g.RTN(ownerRule).Network
			chosen := net.Trans[ownerState][decision]
			if st := p.takeChosen(chosen, tokens[0]); st != OK {
				return st
			}
			tokens = tokens[1:]
		}
		for _, tok := range tokens {
			if st := p.intake(tok); st != OK {
				return st
			}
		}
		return OK
	}

	net := p.g.RTN(top.rule).Network
	for _, tr := range net.Trans[top.state] {
		if tr.Kind == rtn.TransTerminal && tr.Symbol == t.Name {
			return p.takeChosen(tr, t)
		}
	}
	if len(net.Trans[top.state]) == 1 && net.Trans[top.state][0].Kind == rtn.TransCall {
		return p.takeChosen(net.Trans[top.state][0], t)
	}
	// No outgoing transition consumes t. If this frame is merely at a
	// final state, it implicitly returns and t is retried against the
	// caller's resumed state; this can cascade through several frames.
	if net.IsFinal(top.state) {
		if st := p.implicitReturn(); st != OK {
			return st
		}
		if p.stack.Empty() {
			p.fireErrorTerminal(t)
			return ParseError
		}
		return p.intake(t)
	}
	p.fireErrorTerminal(t)
	return ParseError
}

// takeChosen applies a specific, already-decided transition. For a
// call, the caller frame's resume state is written immediately (rather
// than deferred to pop time) and t is retried fresh at the callee's
// start state — which transparently cascades through any chain of
// unconditional single-candidate calls.
func (p *Parser) takeChosen(tr rtn.Transition, t Terminal) Status {
	top := p.top()
	if tr.Kind == rtn.TransTerminal {
		p.fireTerminal(t)
		top.state = tr.To
		return OK
	}
	if p.depth() >= p.lim.MaxStackDepth {
		return ResourceLimitExceeded
	}
	top.state = tr.To
	p.push(&frame{kind: frameRTN, rule: tr.Symbol, state: 0})
	p.fireStartRule(tr.Symbol)
	return p.intake(t)
}

// implicitReturn pops the top RTN frame with nothing further to
// consume at this level (no GLA, final state, no matching transition)
// and fires its end_rule_cb. It does not itself decide whether an
// empty stack afterward means the parse is done: a caller may still
// have an unconsumed terminal to report as an error, so the decision
// to set p.done belongs to that caller.
func (p *Parser) implicitReturn() Status {
	f := p.pop()
	p.fireEndRule(f.rule)
	return OK
}

// Finish asserts the stack reduces to nothing (the start rule
// completed) and fires any remaining end_rule_cbs along the way. It
// also finalizes an open lexeme if end-of-input arrived exactly at (or
// past) its last final state.
func (p *Parser) Finish() (ok bool, status Status) {
	if p.lexing {
		if p.faLastFinal == -1 {
			return false, PrematureEOF
		}
		name := p.fa.Final(p.faLastFinal)
		overshoot := p.lexBuf[p.faLastFinalLen:]
		finalPos, finalWasCR := foldPosition(p.lexStart, p.lexStartWasCR, p.lexBuf[:p.faLastFinalLen])
		term := Terminal{Name: name, Span: gazelle.Span{From: p.lexStart, To: finalPos}}
		p.pos, p.lastWasCR = finalPos, finalWasCR
		p.lexing = false
		p.lexBuf = nil
		if st := p.deliver(term); st != OK {
			return false, st
		}
		if len(overshoot) > 0 {
			// Re-lex the bytes scanned past the last final state, as
			// stepByte does mid-stream, then finish again.
			p.carry = append(append([]byte(nil), overshoot...), p.carry...)
			if _, st := p.Parse(nil); st != OK {
				return false, st
			}
			return p.Finish()
		}
	}

	for !p.stack.Empty() {
		top := p.top()
		if top.kind == frameGLA {
			return false, PrematureEOF
		}
		net := p.g.RTN(top.rule).Network
		if !net.IsFinal(top.state) {
			return false, ParseError
		}
		if st := p.implicitReturn(); st != OK {
			return false, st
		}
	}
	p.done = true
	return true, HardEOF
}

func foldPosition(start gazelle.Position, startWasCR bool, bytes []byte) (gazelle.Position, bool) {
	pos, wasCR := start, startWasCR
	for _, b := range bytes {
		pos, wasCR = pos.Advance(b, wasCR)
	}
	return pos, wasCR
}
