package intfa

// Pattern is the AST for a terminal's lexical definition, as produced by
// package grammar from either a quoted literal or a /regex/ (the grammar
// front-end parses surface syntax; intfa only ever sees this shape,
// mirroring how shadowCow's grammar.LexicalPattern feeds
// automata.CompilePatternToNFA without either side knowing the other's
// concrete syntax).
type Pattern interface {
	isPattern()
}

// Byte matches exactly one byte.
type Byte byte

// Range matches any byte in [Lo, Hi].
type Range struct{ Lo, Hi byte }

// AnyByte matches any single byte (the /./ pattern).
type AnyByte struct{}

// Concat matches each of its elements in order.
type Concat []Pattern

// Alt matches any one of its elements.
type Alt []Pattern

// Star matches zero or more repetitions of Elem.
type Star struct{ Elem Pattern }

// Plus matches one or more repetitions of Elem.
type Plus struct{ Elem Pattern }

// Opt matches zero or one repetition of Elem.
type Opt struct{ Elem Pattern }

func (Byte) isPattern()    {}
func (Range) isPattern()   {}
func (AnyByte) isPattern() {}
func (Concat) isPattern()  {}
func (Alt) isPattern()     {}
func (Star) isPattern()    {}
func (Plus) isPattern()    {}
func (Opt) isPattern()     {}

// Literal builds a Concat of exact bytes matching s, the pattern produced
// for quoted-string terminal definitions.
func Literal(s string) Pattern {
	if len(s) == 0 {
		return Concat{}
	}
	seq := make(Concat, len(s))
	for i := 0; i < len(s); i++ {
		seq[i] = Byte(s[i])
	}
	return seq
}

// allRanges collects every (lo,hi) byte range mentioned by p, used to
// build the alphabet partition before compiling p into an NFA.
func allRanges(p Pattern, out *[]Range) {
	switch x := p.(type) {
	case Byte:
		*out = append(*out, Range{byte(x), byte(x)})
	case Range:
		*out = append(*out, x)
	case AnyByte:
		*out = append(*out, Range{0, 255})
	case Concat:
		for _, e := range x {
			allRanges(e, out)
		}
	case Alt:
		for _, e := range x {
			allRanges(e, out)
		}
	case Star:
		allRanges(x.Elem, out)
	case Plus:
		allRanges(x.Elem, out)
	case Opt:
		allRanges(x.Elem, out)
	}
}
