package bytecode

import "github.com/dekarrin/rezi"

// Record payload shapes. rezi's EncBinary/DecBinary only know how to
// call a type's own MarshalBinary/UnmarshalBinary (it has no reflection
// fallback for arbitrary structs), so each record composes its fields
// by hand from rezi's int/string/bool primitives — same idiom as the
// tunascript package's AST node encodings.

type stringRec struct {
	S string
}

func (r stringRec) MarshalBinary() ([]byte, error) {
	return rezi.EncString(r.S), nil
}

func (r *stringRec) UnmarshalBinary(data []byte) error {
	s, _, err := rezi.DecString(data)
	if err != nil {
		return err
	}
	r.S = s
	return nil
}

// intfaStateRec registers one state of an IntFA; a state's index in
// the IntFA is its position among these records (one per state, in
// order), the same order-is-identity convention §4.5 uses for RTNs.
type intfaStateRec struct {
	State int
}

func (r intfaStateRec) MarshalBinary() ([]byte, error) {
	return rezi.EncInt(r.State), nil
}

func (r *intfaStateRec) UnmarshalBinary(data []byte) error {
	v, _, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	r.State = v
	return nil
}

type intfaFinalStateRec struct {
	State    int
	Terminal int // index into the string table
}

func (r intfaFinalStateRec) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(r.State)
	enc = append(enc, rezi.EncInt(r.Terminal)...)
	return enc, nil
}

func (r *intfaFinalStateRec) UnmarshalBinary(data []byte) error {
	state, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	term, _, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	r.State, r.Terminal = state, term
	return nil
}

type intfaTransitionRec struct {
	From int
	Lo   byte
	Hi   byte
	To   int
}

func (r intfaTransitionRec) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(r.From)
	enc = append(enc, rezi.EncInt(int(r.Lo))...)
	enc = append(enc, rezi.EncInt(int(r.Hi))...)
	enc = append(enc, rezi.EncInt(r.To)...)
	return enc, nil
}

func (r *intfaTransitionRec) UnmarshalBinary(data []byte) error {
	from, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	lo, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	hi, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	to, _, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	r.From, r.Lo, r.Hi, r.To = from, byte(lo), byte(hi), to
	return nil
}

// rtnInfoPayload is the RTN_INFO record: string-table indices instead
// of raw strings, since RTNs are emitted after the STRINGS block and
// reference it by index (spec §4.5).
type rtnInfoPayload struct {
	Rule      int
	NumStates int
	NumSlots  int
	Ignore    []int
}

func (r rtnInfoPayload) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(r.Rule)
	enc = append(enc, rezi.EncInt(r.NumStates)...)
	enc = append(enc, rezi.EncInt(r.NumSlots)...)
	enc = append(enc, encIntSlice(r.Ignore)...)
	return enc, nil
}

func (r *rtnInfoPayload) UnmarshalBinary(data []byte) error {
	rule, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	numStates, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	numSlots, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	ignore, _, err := decIntSlice(data)
	if err != nil {
		return err
	}
	r.Rule, r.NumStates, r.NumSlots, r.Ignore = rule, numStates, numSlots, ignore
	return nil
}

type rtnStateRec struct {
	State int
	Final bool
	IntFA int // index into the container's IntFA table, or -1
}

func (r rtnStateRec) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(r.State)
	enc = append(enc, rezi.EncBool(r.Final)...)
	enc = append(enc, rezi.EncInt(r.IntFA)...)
	return enc, nil
}

func (r *rtnStateRec) UnmarshalBinary(data []byte) error {
	state, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	final, n, err := rezi.DecBool(data)
	if err != nil {
		return err
	}
	data = data[n:]
	intfa, _, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	r.State, r.Final, r.IntFA = state, final, intfa
	return nil
}

type rtnTransitionRec struct {
	From     int
	Symbol   int // string-table index: terminal name, or callee rule name
	SlotName int // string-table index
	SlotNum  int
	To       int
}

func (r rtnTransitionRec) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(r.From)
	enc = append(enc, rezi.EncInt(r.Symbol)...)
	enc = append(enc, rezi.EncInt(r.SlotName)...)
	enc = append(enc, rezi.EncInt(r.SlotNum)...)
	enc = append(enc, rezi.EncInt(r.To)...)
	return enc, nil
}

func (r *rtnTransitionRec) UnmarshalBinary(data []byte) error {
	from, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	symbol, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	slotName, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	slotNum, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	to, _, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	r.From, r.Symbol, r.SlotName, r.SlotNum, r.To = from, symbol, slotName, slotNum, to
	return nil
}

// rtnLookaheadRec attaches a synthesized GLA to the RTN state it
// disambiguates. The GLA's own states/transitions/decisions are
// flattened into this single record rather than split across many —
// a GLA belongs entirely to one RTN state and is never referenced from
// anywhere else, so there is nothing to gain from giving it RTN_STATE-
// shaped records of its own.
type rtnLookaheadRec struct {
	OwnerState int
	NumStates  int
	Edges      []glaEdge
	// Decision[i]: NoDecision, ReturnDecision, or the index (into the
	// owner state's outgoing transition list) the GLA state has
	// converged on.
	Decision []int
	// IntFAOf[i]: index into the container's IntFA table the runtime
	// lexes with at GLA state i, or -1 once i has converged on Decision.
	IntFAOf []int
}

func (r rtnLookaheadRec) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(r.OwnerState)
	enc = append(enc, rezi.EncInt(r.NumStates)...)
	enc = append(enc, rezi.EncInt(len(r.Edges))...)
	for _, e := range r.Edges {
		enc = append(enc, rezi.EncInt(e.From)...)
		enc = append(enc, rezi.EncInt(e.Terminal)...)
		enc = append(enc, rezi.EncInt(e.To)...)
	}
	enc = append(enc, encIntSlice(r.Decision)...)
	enc = append(enc, encIntSlice(r.IntFAOf)...)
	return enc, nil
}

func (r *rtnLookaheadRec) UnmarshalBinary(data []byte) error {
	ownerState, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	numStates, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	edgeCount, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	edges := make([]glaEdge, edgeCount)
	for i := range edges {
		from, n, err := rezi.DecInt(data)
		if err != nil {
			return err
		}
		data = data[n:]
		term, n, err := rezi.DecInt(data)
		if err != nil {
			return err
		}
		data = data[n:]
		to, n, err := rezi.DecInt(data)
		if err != nil {
			return err
		}
		data = data[n:]
		edges[i] = glaEdge{From: from, Terminal: term, To: to}
	}
	decision, n, err := decIntSlice(data)
	if err != nil {
		return err
	}
	data = data[n:]
	intfaOf, _, err := decIntSlice(data)
	if err != nil {
		return err
	}
	r.OwnerState, r.NumStates, r.Edges, r.Decision, r.IntFAOf = ownerState, numStates, edges, decision, intfaOf
	return nil
}

type glaEdge struct {
	From     int
	Terminal int // string-table index
	To       int
}
