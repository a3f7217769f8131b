package gazelle

import "fmt"

// --- Source positions -------------------------------------------------

// Position is a position within an input stream: a 0-based byte offset
// together with a 1-based line and column. A CR or an LF advances the line
// and resets the column; the LF of a CRLF pair completes the newline the
// CR began and is not counted again.
type Position struct {
	Byte   uint64
	Line   uint64
	Column uint64
}

// Zero reports whether p is the zero Position (start of stream).
func (p Position) Zero() bool {
	return p == Position{}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d (byte %d)", p.Line, p.Column, p.Byte)
}

// Advance updates p for having consumed byte b, coalescing CRLF into a
// single newline via lastWasCR.
func (p Position) Advance(b byte, lastWasCR bool) (next Position, isCR bool) {
	next = p
	next.Byte++
	switch {
	case b == '\n':
		if lastWasCR {
			// second half of a CRLF pair: already counted on the CR.
			next.Column = 1
		} else {
			next.Line++
			next.Column = 1
		}
		return next, false
	case b == '\r':
		next.Line++
		next.Column = 1
		return next, true
	default:
		next.Column++
		return next, false
	}
}

// Span is a half-open range [From, To) of source positions.
type Span struct {
	From, To Position
}

// IsNull reports whether s covers zero bytes.
func (s Span) IsNull() bool {
	return s.From.Byte == s.To.Byte
}

func (s Span) String() string {
	return fmt.Sprintf("[%d…%d)", s.From.Byte, s.To.Byte)
}

// --- Terminals and symbols ----------------------------------------------

// TermID identifies a terminal (a lexical category) by its index into a
// grammar's string table. EOFTerm is a distinguished terminal appearing
// only in the follow set of the grammar's start rule.
type TermID int32

// EOFTerm is the reserved terminal id standing for end-of-input.
const EOFTerm TermID = -1

// EOFTerminalName is the reserved terminal name standing for
// end-of-input, used wherever terminals are still addressed by name
// rather than by TermID (rtn and gla work before bytecode assigns ids).
const EOFTerminalName = "$EOF"

// SlotDescriptor tags an RTN transition with the grammatical role its
// matched symbol plays within the owning rule: a name (e.g. "lhs", "op")
// and a small dense integer ("slotnum") unique per distinct name within
// one rule.
type SlotDescriptor struct {
	Name    string
	SlotNum int
}

func (s SlotDescriptor) String() string {
	return fmt.Sprintf("%s#%d", s.Name, s.SlotNum)
}
