package bytecode

import (
	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/gla"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/rtn"
)

// RTNEntry bundles one rule's compiled network with the per-state
// wiring a parser needs but an *rtn.Network doesn't itself carry: which
// IntFA lexes at that state, and which GLA (if any) disambiguates it.
type RTNEntry struct {
	Network *rtn.Network
	IntFAOf []int         // per state, index into the container's IntFA table, or -1
	GLAOf   map[int]*gla.GLA // per state that needed one
}

func writeRTNs(table *stringTable, entries []*RTNEntry) *blockWriter {
	outer := newBlockWriter(BlockRTNs)
	for _, e := range entries {
		inner := writeRTN(table, e)
		outer.rawRecord(uint16(inner.id), rawBlockPayload(inner))
	}
	return outer
}

func writeRTN(table *stringTable, e *RTNEntry) *blockWriter {
	net := e.Network
	b := newBlockWriter(BlockRTN)
	b.record(RecRTNInfo, &rtnInfoPayload{
		Rule:      table.intern(net.Rule),
		NumStates: net.NumStates,
		NumSlots:  net.NumSlots,
		Ignore:    table.internAll(net.Ignore),
	})
	for s := 0; s < net.NumStates; s++ {
		intfaIdx := -1
		if s < len(e.IntFAOf) {
			intfaIdx = e.IntFAOf[s]
		}
		b.record(RecRTNState, &rtnStateRec{State: s, Final: net.IsFinal(s), IntFA: intfaIdx})
		for _, t := range net.Trans[s] {
			rec := &rtnTransitionRec{
				From:     s,
				Symbol:   table.intern(t.Symbol),
				SlotName: table.intern(t.Slot.Name),
				SlotNum:  t.Slot.SlotNum,
				To:       t.To,
			}
			if t.Kind == rtn.TransTerminal {
				b.record(RecRTNTransitionTerminal, rec)
			} else {
				b.record(RecRTNTransitionNonterm, rec)
			}
		}
		if g, ok := e.GLAOf[s]; ok {
			b.record(RecRTNLookahead, glaToRec(table, s, g))
		}
	}
	return b
}

func glaToRec(table *stringTable, owner int, g *gla.GLA) *rtnLookaheadRec {
	rec := &rtnLookaheadRec{OwnerState: owner, NumStates: g.NumStates, Decision: g.Decision, IntFAOf: g.IntFAOf}
	for s := 0; s < g.NumStates; s++ {
		for t, to := range g.Trans[s] {
			rec.Edges = append(rec.Edges, glaEdge{From: s, Terminal: table.intern(t), To: to})
		}
	}
	return rec
}

func readRTNs(body []byte, strs []string) ([]*RTNEntry, error) {
	recs, err := readBlockBody(body, "RTNS")
	if err != nil {
		return nil, err
	}
	entries := make([]*RTNEntry, 0, len(recs))
	for _, r := range recs {
		if r.code != uint16(BlockRTN) {
			continue
		}
		e, err := readRTN(r.payload, strs)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readRTN(body []byte, strs []string) (*RTNEntry, error) {
	recs, err := readBlockBody(body, "RTN")
	if err != nil {
		return nil, err
	}
	net := &rtn.Network{}
	e := &RTNEntry{Network: net, GLAOf: map[int]*gla.GLA{}}
	haveInfo := false

	for _, r := range recs {
		switch r.code {
		case RecRTNInfo:
			var rec rtnInfoPayload
			if err := decodeInto("RTN", r.code, r.payload, &rec); err != nil {
				return nil, err
			}
			name, err := resolve(strs, rec.Rule)
			if err != nil {
				return nil, err
			}
			ignore := make([]string, len(rec.Ignore))
			for i, idx := range rec.Ignore {
				ig, err := resolve(strs, idx)
				if err != nil {
					return nil, err
				}
				ignore[i] = ig
			}
			net.Rule = name
			net.NumStates = rec.NumStates
			net.NumSlots = rec.NumSlots
			net.Ignore = ignore
			net.Trans = make([][]rtn.Transition, rec.NumStates)
			net.Final = make([]bool, rec.NumStates)
			e.IntFAOf = make([]int, rec.NumStates)
			for i := range e.IntFAOf {
				e.IntFAOf[i] = -1
			}
			haveInfo = true
		case RecRTNState:
			if !haveInfo {
				return nil, gzerr.Corrupt("RTN_STATE record before RTN_INFO")
			}
			var rec rtnStateRec
			if err := decodeInto("RTN", r.code, r.payload, &rec); err != nil {
				return nil, err
			}
			if rec.State < 0 || rec.State >= net.NumStates {
				return nil, gzerr.Corrupt("RTN_STATE references out-of-range state %d", rec.State)
			}
			net.Final[rec.State] = rec.Final
			e.IntFAOf[rec.State] = rec.IntFA
		case RecRTNTransitionTerminal, RecRTNTransitionNonterm:
			if !haveInfo {
				return nil, gzerr.Corrupt("RTN transition record before RTN_INFO")
			}
			var rec rtnTransitionRec
			if err := decodeInto("RTN", r.code, r.payload, &rec); err != nil {
				return nil, err
			}
			if rec.From < 0 || rec.From >= net.NumStates || rec.To < 0 || rec.To >= net.NumStates {
				return nil, gzerr.Corrupt("RTN transition references out-of-range state (%d -> %d)", rec.From, rec.To)
			}
			symbol, err := resolve(strs, rec.Symbol)
			if err != nil {
				return nil, err
			}
			slotName, err := resolve(strs, rec.SlotName)
			if err != nil {
				return nil, err
			}
			kind := rtn.TransTerminal
			if r.code == RecRTNTransitionNonterm {
				kind = rtn.TransCall
			}
			net.Trans[rec.From] = append(net.Trans[rec.From], rtn.Transition{
				Kind:   kind,
				Symbol: symbol,
				Slot:   gazelle.SlotDescriptor{Name: slotName, SlotNum: rec.SlotNum},
				To:     rec.To,
			})
		case RecRTNLookahead:
			if !haveInfo {
				return nil, gzerr.Corrupt("RTN_LOOKAHEAD record before RTN_INFO")
			}
			var rec rtnLookaheadRec
			if err := decodeInto("RTN", r.code, r.payload, &rec); err != nil {
				return nil, err
			}
			g, err := recToGLA(strs, &rec)
			if err != nil {
				return nil, err
			}
			e.GLAOf[rec.OwnerState] = g
		case RecRTNIgnore, RecRTNDecision:
			// RTN_IGNORE is folded into RTN_INFO; RTN_DECISION is
			// intentionally never written (spec §9) — tolerated if an
			// older writer produced one.
		default:
			// unknown record code: skip
		}
	}
	if !haveInfo {
		return nil, gzerr.Corrupt("RTN block had no RTN_INFO record")
	}
	return e, nil
}

func recToGLA(strs []string, rec *rtnLookaheadRec) (*gla.GLA, error) {
	intfaOf := append([]int(nil), rec.IntFAOf...)
	for len(intfaOf) < rec.NumStates {
		intfaOf = append(intfaOf, -1) // tolerate containers written before IntFAOf existed
	}
	g := &gla.GLA{
		NumStates: rec.NumStates,
		Trans:     make([]map[string]int, rec.NumStates),
		Decision:  append([]int(nil), rec.Decision...),
		IntFAOf:   intfaOf,
	}
	for i := range g.Trans {
		g.Trans[i] = map[string]int{}
	}
	for _, edge := range rec.Edges {
		if edge.From < 0 || edge.From >= rec.NumStates || edge.To < 0 || edge.To >= rec.NumStates {
			return nil, gzerr.Corrupt("GLA edge references out-of-range state (%d -> %d)", edge.From, edge.To)
		}
		t, err := resolve(strs, edge.Terminal)
		if err != nil {
			return nil, err
		}
		g.Trans[edge.From][t] = edge.To
	}
	return g, nil
}
