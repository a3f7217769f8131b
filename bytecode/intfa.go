package bytecode

import (
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/intfa"
)

func writeIntFAs(table *stringTable, fas []*intfa.IntFA) *blockWriter {
	outer := newBlockWriter(BlockIntFAs)
	for _, fa := range fas {
		inner := newBlockWriter(BlockIntFA)
		// State records are emitted in their own pass, ahead of any
		// final-state or transition record, since readIntFA grows
		// fa.NumStates as it sees each RecIntFAState and validates
		// transition targets against that count as it goes. A forward
		// reference (state 0's transition to state 1) would otherwise
		// read as out-of-range before state 1's own record had been seen.
		for s := 0; s < fa.NumStates; s++ {
			inner.record(RecIntFAState, &intfaStateRec{State: s})
		}
		for s := 0; s < fa.NumStates; s++ {
			if fa.IsFinal(s) {
				inner.record(RecIntFAFinalState, &intfaFinalStateRec{
					State:    s,
					Terminal: table.intern(fa.Final[s]),
				})
			}
			for _, tr := range fa.Trans[s] {
				code := RecIntFATransitionRange
				if tr.Lo == tr.Hi {
					code = RecIntFATransition
				}
				inner.record(code, &intfaTransitionRec{From: s, Lo: tr.Lo, Hi: tr.Hi, To: tr.To})
			}
		}
		// A nested block is itself just a record in the outer block's
		// byte stream: reuse the record framing with the inner block's
		// own id as if it were a one-off "code" — this is what keeps
		// BlockIntFA sub-blocks addressable by position (their
		// emission order is their id, per §4.5's order-is-identity
		// convention for IntFAs referenced from RTN_STATE records).
		outer.rawRecord(uint16(inner.id), rawBlockPayload(inner))
	}
	return outer
}

// rawBlockPayload renders a blockWriter's accumulated records as a flat
// byte slice, for embedding one block inside another's record stream.
func rawBlockPayload(b *blockWriter) []byte {
	return append([]byte(nil), b.buf.Bytes()...)
}

func readIntFAs(body []byte, strs []string) ([]*intfa.IntFA, error) {
	recs, err := readBlockBody(body, "INTFAS")
	if err != nil {
		return nil, err
	}
	fas := make([]*intfa.IntFA, 0, len(recs))
	for _, r := range recs {
		if r.code != uint16(BlockIntFA) {
			continue // unknown record at this level: tolerated
		}
		fa, err := readIntFA(r.payload, strs)
		if err != nil {
			return nil, err
		}
		fas = append(fas, fa)
	}
	return fas, nil
}

func readIntFA(body []byte, strs []string) (*intfa.IntFA, error) {
	recs, err := readBlockBody(body, "INTFA")
	if err != nil {
		return nil, err
	}
	fa := &intfa.IntFA{}
	for _, r := range recs {
		switch r.code {
		case RecIntFAState:
			var rec intfaStateRec
			if err := decodeInto("INTFA", r.code, r.payload, &rec); err != nil {
				return nil, err
			}
			for fa.NumStates <= rec.State {
				fa.Trans = append(fa.Trans, nil)
				fa.Final = append(fa.Final, "")
				fa.NumStates++
			}
		case RecIntFAFinalState:
			var rec intfaFinalStateRec
			if err := decodeInto("INTFA", r.code, r.payload, &rec); err != nil {
				return nil, err
			}
			name, err := resolve(strs, rec.Terminal)
			if err != nil {
				return nil, err
			}
			if rec.State < 0 || rec.State >= fa.NumStates {
				return nil, gzerr.Corrupt("INTFA_FINAL_STATE references out-of-range state %d", rec.State)
			}
			fa.Final[rec.State] = name
		case RecIntFATransition, RecIntFATransitionRange:
			var rec intfaTransitionRec
			if err := decodeInto("INTFA", r.code, r.payload, &rec); err != nil {
				return nil, err
			}
			if rec.From < 0 || rec.From >= fa.NumStates || rec.To < 0 || rec.To >= fa.NumStates {
				return nil, gzerr.Corrupt("INTFA transition references out-of-range state (%d -> %d)", rec.From, rec.To)
			}
			fa.Trans[rec.From] = append(fa.Trans[rec.From], intfa.Transition{Lo: rec.Lo, Hi: rec.Hi, To: rec.To})
		default:
			// unknown record code: skip
		}
	}
	return fa, nil
}
