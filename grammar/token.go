package grammar

import "github.com/gazelle-lang/gazelle"

// TokKind classifies one lexeme of the .gzl surface syntax (spec §4.1,
// §6).
type TokKind int

const (
	TokEOF TokKind = iota
	TokIdent
	TokString // "…" or '…', Text holds the raw source including quotes
	TokRegex  // /…/, Text holds the raw source including slashes
	TokArrow  // ->
	TokSemi   // ;
	TokPipe   // |
	TokLParen
	TokRParen
	TokQuestion
	TokStar
	TokPlus
	TokEquals
	TokComma
	TokKwStart
	TokKwAllow
	TokKwIn
)

func (k TokKind) String() string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "ident"
	case TokString:
		return "string"
	case TokRegex:
		return "regex"
	case TokArrow:
		return "'->'"
	case TokSemi:
		return "';'"
	case TokPipe:
		return "'|'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokQuestion:
		return "'?'"
	case TokStar:
		return "'*'"
	case TokPlus:
		return "'+'"
	case TokEquals:
		return "'='"
	case TokComma:
		return "','"
	case TokKwStart:
		return "'start'"
	case TokKwAllow:
		return "'allow'"
	case TokKwIn:
		return "'in'"
	default:
		return "?"
	}
}

// Token is one lexed unit of surface syntax, tagged with the position
// its first byte occupies in the source.
type Token struct {
	Kind TokKind
	Text string
	Pos  gazelle.Position
}

var keywords = map[string]TokKind{
	"start": TokKwStart,
	"allow": TokKwAllow,
	"in":    TokKwIn,
}
