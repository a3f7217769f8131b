package grammar

import (
	"fmt"

	"github.com/gazelle-lang/gazelle/intfa"
)

// regexParser turns the content of a /…/ terminal source into an
// intfa.Pattern. It implements a small recursive-descent parser over a
// byte-range regex dialect (literal bytes, `.`, `[...]` classes with
// `^` negation and `a-z` ranges, `(...)` grouping, `|` alternation, and
// postfix `*`/`+`/`?`) — this is Gazelle's own subject matter (it feeds
// straight into intfa.Pattern, the same AST compile.go's IntFA
// allocator consumes), not an ambient concern, so it is hand-written
// rather than grounded on a general-purpose regex library.
type regexParser struct {
	src []byte
	pos int
}

func parseRegexPattern(content string) (intfa.Pattern, error) {
	rp := &regexParser{src: []byte(content)}
	p, err := rp.parseAlt()
	if err != nil {
		return nil, err
	}
	if rp.pos != len(rp.src) {
		return nil, fmt.Errorf("unexpected %q at offset %d", rp.src[rp.pos], rp.pos)
	}
	return p, nil
}

func (rp *regexParser) parseAlt() (intfa.Pattern, error) {
	first, err := rp.parseConcat()
	if err != nil {
		return nil, err
	}
	alts := intfa.Alt{first}
	for rp.peekByte('|') {
		rp.pos++
		next, err := rp.parseConcat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return alts, nil
}

func (rp *regexParser) parseConcat() (intfa.Pattern, error) {
	var seq intfa.Concat
	for rp.pos < len(rp.src) && rp.src[rp.pos] != '|' && rp.src[rp.pos] != ')' {
		atom, err := rp.parseQuantified()
		if err != nil {
			return nil, err
		}
		seq = append(seq, atom)
	}
	if len(seq) == 1 {
		return seq[0], nil
	}
	return seq, nil
}

func (rp *regexParser) parseQuantified() (intfa.Pattern, error) {
	atom, err := rp.parseAtom()
	if err != nil {
		return nil, err
	}
	if rp.pos >= len(rp.src) {
		return atom, nil
	}
	switch rp.src[rp.pos] {
	case '*':
		rp.pos++
		return intfa.Star{Elem: atom}, nil
	case '+':
		rp.pos++
		return intfa.Plus{Elem: atom}, nil
	case '?':
		rp.pos++
		return intfa.Opt{Elem: atom}, nil
	default:
		return atom, nil
	}
}

func (rp *regexParser) parseAtom() (intfa.Pattern, error) {
	if rp.pos >= len(rp.src) {
		return nil, fmt.Errorf("unexpected end of regex")
	}
	switch b := rp.src[rp.pos]; b {
	case '(':
		rp.pos++
		inner, err := rp.parseAlt()
		if err != nil {
			return nil, err
		}
		if !rp.peekByte(')') {
			return nil, fmt.Errorf("unclosed '(' at offset %d", rp.pos)
		}
		rp.pos++
		return inner, nil
	case '.':
		rp.pos++
		return intfa.AnyByte{}, nil
	case '[':
		return rp.parseClass()
	case '\\':
		rp.pos++
		if rp.pos >= len(rp.src) {
			return nil, fmt.Errorf("dangling '\\' at end of regex")
		}
		c := rp.src[rp.pos]
		rp.pos++
		return intfa.Byte(c), nil
	default:
		rp.pos++
		return intfa.Byte(b), nil
	}
}

func (rp *regexParser) parseClass() (intfa.Pattern, error) {
	rp.pos++ // consume '['
	negate := rp.peekByte('^')
	if negate {
		rp.pos++
	}
	var ranges []intfa.Range
	for {
		if rp.pos >= len(rp.src) {
			return nil, fmt.Errorf("unclosed '[' ")
		}
		if rp.src[rp.pos] == ']' {
			rp.pos++
			break
		}
		lo, err := rp.classByte()
		if err != nil {
			return nil, err
		}
		hi := lo
		if rp.peekByte('-') && rp.pos+1 < len(rp.src) && rp.src[rp.pos+1] != ']' {
			rp.pos++
			hi, err = rp.classByte()
			if err != nil {
				return nil, err
			}
		}
		ranges = append(ranges, intfa.Range{Lo: lo, Hi: hi})
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("empty character class")
	}
	if !negate {
		if len(ranges) == 1 {
			return ranges[0], nil
		}
		alt := make(intfa.Alt, len(ranges))
		for i, r := range ranges {
			alt[i] = r
		}
		return alt, nil
	}
	return negateRanges(ranges), nil
}

func (rp *regexParser) classByte() (byte, error) {
	if rp.pos >= len(rp.src) {
		return 0, fmt.Errorf("unclosed character class")
	}
	b := rp.src[rp.pos]
	if b == '\\' {
		rp.pos++
		if rp.pos >= len(rp.src) {
			return 0, fmt.Errorf("dangling '\\' in character class")
		}
		b = rp.src[rp.pos]
	}
	rp.pos++
	return b, nil
}

func (rp *regexParser) peekByte(b byte) bool {
	return rp.pos < len(rp.src) && rp.src[rp.pos] == b
}

// negateRanges builds the complement of a set of (already unsorted,
// possibly overlapping) ranges over the full byte alphabet.
func negateRanges(ranges []intfa.Range) intfa.Pattern {
	covered := make([]bool, 256)
	for _, r := range ranges {
		for b := int(r.Lo); b <= int(r.Hi); b++ {
			covered[b] = true
		}
	}
	var out intfa.Alt
	start := -1
	for b := 0; b < 256; b++ {
		if !covered[b] {
			if start == -1 {
				start = b
			}
			continue
		}
		if start != -1 {
			out = append(out, intfa.Range{Lo: byte(start), Hi: byte(b - 1)})
			start = -1
		}
	}
	if start != -1 {
		out = append(out, intfa.Range{Lo: byte(start), Hi: 255})
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
