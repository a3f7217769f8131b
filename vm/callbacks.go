package vm

import "github.com/gazelle-lang/gazelle"

// Terminal is what a terminal_cb (or error_terminal_cb) receives: the
// matched terminal's name and its span in the input.
type Terminal struct {
	Name string
	Span gazelle.Span
}

// Callbacks are the host hooks §5 guarantees fire in strict
// left-to-right source order: start_rule_cb precedes every terminal_cb
// or nested start_rule_cb within that rule, and every such callback
// precedes the rule's end_rule_cb. Any callback may be nil.
type Callbacks struct {
	Terminal      func(p *Parser, t Terminal)
	StartRule     func(p *Parser, rule string)
	EndRule       func(p *Parser, rule string)
	ErrorChar     func(p *Parser, ch byte)
	ErrorTerminal func(p *Parser, t Terminal)
}

func (p *Parser) fireTerminal(t Terminal) {
	if p.cb.Terminal != nil {
		p.cb.Terminal(p, t)
	}
}

func (p *Parser) fireStartRule(rule string) {
	if p.cb.StartRule != nil {
		p.cb.StartRule(p, rule)
	}
}

func (p *Parser) fireEndRule(rule string) {
	if p.cb.EndRule != nil {
		p.cb.EndRule(p, rule)
	}
}

func (p *Parser) fireErrorChar(b byte) {
	if p.cb.ErrorChar != nil {
		p.cb.ErrorChar(p, b)
	}
}

func (p *Parser) fireErrorTerminal(t Terminal) {
	if p.cb.ErrorTerminal != nil {
		p.cb.ErrorTerminal(p, t)
	}
}
