package grammar

import (
	"bytes"
	"fmt"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// lexKind tags a lexmachine match with the TokKind it produces; carried
// as the match's Type so the scanner loop can translate back without a
// second dispatch.
const (
	lexIdent = iota
	lexString
	lexRegex
	lexArrow
	lexSemi
	lexPipe
	lexLParen
	lexRParen
	lexQuestion
	lexStar
	lexPlus
	lexEquals
	lexComma
)

var gzlLexer *lexmachine.Lexer

func init() {
	l := lexmachine.NewLexer()
	l.Add([]byte(`( |\t|\n|\r)+`), skip)
	l.Add([]byte(`\"([^\"\\]|\\.)*\"`), tokenAction(lexString))
	l.Add([]byte(`'([^'\\]|\\.)*'`), tokenAction(lexString))
	l.Add([]byte(`/([^/\\]|\\.)*/`), tokenAction(lexRegex))
	l.Add([]byte(`\-\>`), tokenAction(lexArrow))
	l.Add([]byte(`\;`), tokenAction(lexSemi))
	l.Add([]byte(`\|`), tokenAction(lexPipe))
	l.Add([]byte(`\(`), tokenAction(lexLParen))
	l.Add([]byte(`\)`), tokenAction(lexRParen))
	l.Add([]byte(`\?`), tokenAction(lexQuestion))
	l.Add([]byte(`\*`), tokenAction(lexStar))
	l.Add([]byte(`\+`), tokenAction(lexPlus))
	l.Add([]byte(`\=`), tokenAction(lexEquals))
	l.Add([]byte(`\,`), tokenAction(lexComma))
	l.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), tokenAction(lexIdent))
	if err := l.Compile(); err != nil {
		panic(fmt.Errorf("grammar: compiling surface-syntax lexer DFA: %w", err))
	}
	gzlLexer = l
}

// skip discards whitespace matches; grammar source has no comment
// syntax of its own to skip alongside it.
func skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

func tokenAction(kind int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(kind, string(m.Bytes), m), nil
	}
}

// lexer turns .gzl source text into a Token stream, folding gazelle
// Positions over the raw bytes (including skipped whitespace) rather
// than trusting lexmachine's own line/column count, so offsets agree
// with the rest of the module's position handling (see vm.foldPosition).
type lexer struct {
	src     []byte
	scanner *lexmachine.Scanner

	cursor    int
	pos       gazelle.Position
	lastWasCR bool
}

func newLexer(src []byte) (*lexer, error) {
	s, err := gzlLexer.Scanner(src)
	if err != nil {
		return nil, gzerr.Syntax(gazelle.Position{}, "starting scanner: %v", err)
	}
	return &lexer{src: src, scanner: s}, nil
}

// Next returns the next token, or a Token of kind TokEOF at end of
// input.
func (lx *lexer) Next() (Token, error) {
	tok, err, eof := lx.scanner.Next()
	if err != nil {
		return Token{}, gzerr.Syntax(lx.pos, "lexing surface syntax: %v", err)
	}
	if eof {
		lx.advanceTo(len(lx.src))
		return Token{Kind: TokEOF, Pos: lx.pos}, nil
	}
	t := tok.(*lexmachine.Token)
	text := string(t.Lexeme)

	// lexmachine's own byte-offset bookkeeping isn't something this
	// package depends on directly: find where the match actually starts
	// by searching forward from the last position folded, which is
	// always exactly where any non-whitespace token text can first
	// occur.
	rel := bytes.Index(lx.src[lx.cursor:], t.Lexeme)
	if rel < 0 {
		return Token{}, gzerr.Syntax(lx.pos, "internal error: lost track of token %q", text)
	}
	start := lx.cursor + rel
	lx.advanceTo(start)
	startPos := lx.pos
	lx.advanceTo(start + len(t.Lexeme))
	var kind TokKind
	switch t.Type {
	case lexIdent:
		if kw, ok := keywords[text]; ok {
			kind = kw
		} else {
			kind = TokIdent
		}
	case lexString:
		kind = TokString
	case lexRegex:
		kind = TokRegex
	case lexArrow:
		kind = TokArrow
	case lexSemi:
		kind = TokSemi
	case lexPipe:
		kind = TokPipe
	case lexLParen:
		kind = TokLParen
	case lexRParen:
		kind = TokRParen
	case lexQuestion:
		kind = TokQuestion
	case lexStar:
		kind = TokStar
	case lexPlus:
		kind = TokPlus
	case lexEquals:
		kind = TokEquals
	case lexComma:
		kind = TokComma
	default:
		return Token{}, gzerr.Syntax(startPos, "unrecognized token %q", text)
	}
	return Token{Kind: kind, Text: text, Pos: startPos}, nil
}

func (lx *lexer) advanceTo(byteOffset int) {
	for lx.cursor < byteOffset {
		lx.pos, lx.lastWasCR = lx.pos.Advance(lx.src[lx.cursor], lx.lastWasCR)
		lx.cursor++
	}
}
