package grammar

import (
	"fmt"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/compile"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/intfa"
	"github.com/gazelle-lang/gazelle/rtn"
)

// Parse reads .gzl surface syntax and produces a *compile.Source ready
// for compile.Compile. It is the sole entry point package grammar
// exports; lexer, declKind classification and desugaring are internal
// machinery behind it.
func Parse(src []byte) (*compile.Source, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: toks}
	p.classify()
	tracer().Debugf("classified %d top-level declarations", len(p.kinds))
	return p.parseSource(string(src))
}

func tokenize(src []byte) ([]Token, error) {
	lx, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	var toks []Token
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == TokEOF {
			return toks, nil
		}
	}
}

// declKind classifies a top-level IDENT -> RHS ; statement: a terminal
// declaration iff its RHS is exactly one STRING or REGEX token (nothing
// else), a rule declaration otherwise (spec.md §4.1/§6 introduces named
// terminals this way: `WS -> /[ \t]+/;`, `num -> /[0-9]+/;`).
type declKind int

const (
	declUnknown declKind = iota
	declTerminal
	declRule
)

type parser struct {
	tokens []Token
	pos    int

	kinds map[string]declKind

	// accumulated output
	start     string
	startPos  gazelle.Position
	allows    []allowDirective
	terminals []compile.TerminalSpec
	termSeen  map[string]bool
	rules     []compile.RuleSpec

	slotNum int // per-rule counter, reset at the start of each rule body

	regexNames   map[string]string // regex source text -> synthesized terminal name
	regexCounter int
}

type allowDirective struct {
	ignore string
	rules  []string
	pos    gazelle.Position
}

// classify performs the single shallow linear scan described on
// declKind, without building any expression tree.
func (p *parser) classify() {
	p.kinds = make(map[string]declKind)
	for i := 0; i < len(p.tokens)-2; i++ {
		if p.tokens[i].Kind != TokIdent || p.tokens[i+1].Kind != TokArrow {
			continue
		}
		name := p.tokens[i].Text
		rhs := p.tokens[i+2]
		if (rhs.Kind == TokString || rhs.Kind == TokRegex) && i+3 < len(p.tokens) && p.tokens[i+3].Kind == TokSemi {
			p.kinds[name] = declTerminal
		} else if _, exists := p.kinds[name]; !exists {
			p.kinds[name] = declRule
		}
	}
}

func (p *parser) peek() Token { return p.tokens[p.pos] }
func (p *parser) atEnd() bool { return p.peek().Kind == TokEOF }

func (p *parser) advance() Token {
	t := p.tokens[p.pos]
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *parser) expect(k TokKind) (Token, error) {
	if p.peek().Kind != k {
		return Token{}, gzerr.Syntax(p.peek().Pos, "expected %s, found %s %q", k, p.peek().Kind, p.peek().Text)
	}
	return p.advance(), nil
}

func (p *parser) parseSource(text string) (*compile.Source, error) {
	p.termSeen = make(map[string]bool)
	p.regexNames = make(map[string]string)
	for !p.atEnd() {
		if err := p.parseStatement(); err != nil {
			return nil, err
		}
	}
	if p.start == "" {
		if len(p.rules) == 0 {
			return nil, gzerr.Syntax(gazelle.Position{}, "grammar declares no rules")
		}
		p.start = p.rules[0].Name
	}
	for _, a := range p.allows {
		for _, rn := range a.rules {
			found := false
			for i := range p.rules {
				if p.rules[i].Name == rn {
					p.rules[i].Ignore = append(p.rules[i].Ignore, a.ignore)
					found = true
				}
			}
			if !found {
				return nil, gzerr.Syntax(a.pos, "allow directive names unknown rule %q", rn)
			}
		}
	}
	tracer().Infof("parsed grammar: %d rules, %d terminals, start=%q", len(p.rules), len(p.terminals), p.start)
	return &compile.Source{
		Start:     p.start,
		Terminals: p.terminals,
		Rules:     p.rules,
		Text:      text,
	}, nil
}

func (p *parser) parseStatement() error {
	switch {
	case p.peek().Kind == TokKwStart:
		return p.parseStartDirective()
	case p.peek().Kind == TokKwAllow:
		return p.parseAllowDirective()
	case p.peek().Kind == TokIdent:
		return p.parseDecl()
	default:
		return gzerr.Syntax(p.peek().Pos, "expected a statement, found %s %q", p.peek().Kind, p.peek().Text)
	}
}

func (p *parser) parseStartDirective() error {
	kw := p.advance()
	name, err := p.expect(TokIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokSemi); err != nil {
		return err
	}
	if p.start != "" {
		return gzerr.Syntax(kw.Pos, "duplicate 'start' directive")
	}
	p.start, p.startPos = name.Text, kw.Pos
	return nil
}

func (p *parser) parseAllowDirective() error {
	kw := p.advance()
	ign, err := p.expect(TokIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokKwIn); err != nil {
		return err
	}
	var rules []string
	for {
		rn, err := p.expect(TokIdent)
		if err != nil {
			return err
		}
		rules = append(rules, rn.Text)
		if p.peek().Kind != TokComma {
			break
		}
		p.advance()
	}
	if _, err := p.expect(TokSemi); err != nil {
		return err
	}
	p.allows = append(p.allows, allowDirective{ignore: ign.Text, rules: rules, pos: kw.Pos})
	return nil
}

// parseDecl parses one `IDENT -> RHS ;`, dispatching to a terminal or
// rule declaration per the classification already computed.
func (p *parser) parseDecl() error {
	name, err := p.expect(TokIdent)
	if err != nil {
		return err
	}
	if _, err := p.expect(TokArrow); err != nil {
		return err
	}
	if p.kinds[name.Text] == declTerminal {
		src := p.peek()
		if src.Kind != TokString && src.Kind != TokRegex {
			return gzerr.Syntax(src.Pos, "expected a terminal source, found %s %q", src.Kind, src.Text)
		}
		p.advance()
		pat, err := patternFromSource(src)
		if err != nil {
			return err
		}
		if _, err := p.expect(TokSemi); err != nil {
			return err
		}
		p.addTerminal(name.Text, pat)
		return nil
	}

	p.slotNum = 0
	expr, numSlots, err := p.parseAlt()
	if err != nil {
		return err
	}
	if _, err := p.expect(TokSemi); err != nil {
		return err
	}
	p.rules = append(p.rules, compile.RuleSpec{Name: name.Text, Expr: expr, NumSlots: numSlots})
	return nil
}

func (p *parser) addTerminal(name string, pat intfa.Pattern) {
	if p.termSeen[name] {
		return
	}
	p.termSeen[name] = true
	p.terminals = append(p.terminals, compile.TerminalSpec{Name: name, Pattern: pat})
}

// --- expression grammar: alt -> seq ('|' seq)*; seq -> factor+ ---------

func (p *parser) parseAlt() (rtn.Expr, int, error) {
	first, err := p.parseSeq()
	if err != nil {
		return nil, 0, err
	}
	alts := rtn.Alt{first}
	for p.peek().Kind == TokPipe {
		p.advance()
		next, err := p.parseSeq()
		if err != nil {
			return nil, 0, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return alts[0], p.slotNum, nil
	}
	return alts, p.slotNum, nil
}

func (p *parser) parseSeq() (rtn.Expr, error) {
	var seq rtn.Seq
	for p.startsFactor() {
		f, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		seq = append(seq, f)
	}
	if len(seq) == 0 {
		return nil, gzerr.Syntax(p.peek().Pos, "empty alternative (use 'e' for the empty derivation)")
	}
	if len(seq) == 1 {
		return seq[0], nil
	}
	return seq, nil
}

func (p *parser) startsFactor() bool {
	switch p.peek().Kind {
	case TokString, TokRegex, TokIdent, TokLParen:
		return true
	default:
		return false
	}
}

func (p *parser) parseFactor() (rtn.Expr, error) {
	atom, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Kind {
		case TokQuestion:
			qTok := p.advance()
			if p.peek().Kind == TokLParen {
				return nil, gzerr.Syntax(qTok.Pos, "'?(sep)' is not a valid modifier (spec: X ?(S) is a compile error)")
			}
			atom = rtn.Optional(atom)
		case TokPlus:
			p.advance()
			if p.peek().Kind == TokLParen {
				sep, err := p.parseSepGroup()
				if err != nil {
					return nil, err
				}
				atom = rtn.SepPlus(atom, sep)
			} else {
				atom = rtn.OneOrMore(atom)
			}
		case TokStar:
			p.advance()
			if p.peek().Kind == TokLParen {
				sep, err := p.parseSepGroup()
				if err != nil {
					return nil, err
				}
				atom = rtn.SepStar(atom, sep)
			} else {
				atom = rtn.StarExpr{Elem: atom}
			}
		default:
			return atom, nil
		}
	}
}

func (p *parser) parseSepGroup() (rtn.Expr, error) {
	if _, err := p.expect(TokLParen); err != nil {
		return nil, err
	}
	sep, _, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen); err != nil {
		return nil, err
	}
	return sep, nil
}

func (p *parser) parsePrimary() (rtn.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokString, TokRegex:
		p.advance()
		return p.termOccurrence("", tok)
	case TokLParen:
		p.advance()
		inner, _, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case TokIdent:
		p.advance()
		if tok.Text == "e" {
			return rtn.Empty{}, nil
		}
		if p.peek().Kind == TokEquals {
			p.advance()
			src := p.peek()
			if src.Kind != TokString && src.Kind != TokRegex {
				return nil, gzerr.Syntax(src.Pos, "expected a terminal source after '=', found %s", src.Kind)
			}
			p.advance()
			return p.termOccurrence(tok.Text, src)
		}
		return p.identOccurrence(tok)
	default:
		return nil, gzerr.Syntax(tok.Pos, "expected a terminal, rule reference, or group, found %s %q", tok.Kind, tok.Text)
	}
}

// termOccurrence handles an inline "…" or /…/ appearing directly in a
// rule body; its terminal name is the literal text itself (so two
// identical literals anywhere in the grammar share one terminal), or a
// synthesized "~reN" name for a regex. A slot override changes only the
// slot name, never the terminal name.
func (p *parser) termOccurrence(slotName string, src Token) (rtn.Expr, error) {
	pat, err := patternFromSource(src)
	if err != nil {
		return nil, err
	}
	var name string
	if src.Kind == TokString {
		name = unquote(src.Text)
	} else {
		name = p.internRegexName(src.Text)
	}
	p.addTerminal(name, pat)
	if slotName == "" {
		slotName = name
	}
	slot := gazelle.SlotDescriptor{Name: slotName, SlotNum: p.slotNum}
	p.slotNum++
	return rtn.TermRef{Name: name, Slot: slot}, nil
}

func (p *parser) internRegexName(raw string) string {
	if name, ok := p.regexNames[raw]; ok {
		return name
	}
	p.regexCounter++
	name := fmt.Sprintf("~re%d", p.regexCounter)
	p.regexNames[raw] = name
	return name
}

// identOccurrence resolves a bare identifier against the declKind
// classification: a reference to a declared terminal becomes a
// TermRef, a reference to a rule becomes a CallRef.
func (p *parser) identOccurrence(tok Token) (rtn.Expr, error) {
	slot := gazelle.SlotDescriptor{Name: tok.Text, SlotNum: p.slotNum}
	p.slotNum++
	switch p.kinds[tok.Text] {
	case declTerminal:
		return rtn.TermRef{Name: tok.Text, Slot: slot}, nil
	case declRule:
		return rtn.CallRef{Rule: tok.Text, Slot: slot}, nil
	default:
		return nil, gzerr.Syntax(tok.Pos, "reference to undeclared name %q", tok.Text)
	}
}

func patternFromSource(tok Token) (intfa.Pattern, error) {
	switch tok.Kind {
	case TokString:
		return intfa.Literal(unquote(tok.Text)), nil
	case TokRegex:
		body := tok.Text[1 : len(tok.Text)-1]
		pat, err := parseRegexPattern(body)
		if err != nil {
			return nil, gzerr.Syntax(tok.Pos, "invalid regex %s: %v", tok.Text, err)
		}
		return pat, nil
	default:
		return nil, gzerr.Syntax(tok.Pos, "expected a terminal source, found %s", tok.Kind)
	}
}

// unquote strips the surrounding quote character from a STRING token's
// raw text and resolves `\` escapes (spec.md §6: "\ escaping the next
// character").
func unquote(raw string) string {
	body := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		out = append(out, body[i])
	}
	return string(out)
}
