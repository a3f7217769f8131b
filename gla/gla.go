package gla

// NoDecision marks a GLA state that has not yet converged on a single
// candidate; ReturnDecision marks convergence on "finish the rule"
// rather than on any numbered candidate.
const (
	NoDecision     = -1
	ReturnDecision = -2
)

// GLA is a deterministic, terminal-labelled automaton synthesized to
// disambiguate one RTN state's outgoing transitions (spec §3, §4.4).
// State 0 is always the start state.
type GLA struct {
	NumStates int
	Trans     []map[string]int // per state: terminal -> next state
	Decision  []int            // per state: NoDecision, ReturnDecision, or a candidate index
	// IntFAOf is filled in by compile once the grammar-wide IntFA
	// allocation pass runs: per non-final state, the index into the
	// compiled grammar's IntFA table that lexes the next terminal from
	// here (spec §3: "non-final GLA states reference an IntFA"). -1 for
	// final states, which need no further lexing.
	IntFAOf []int
}

// IsFinal reports whether s has already converged on a decision.
func (a *GLA) IsFinal(s int) bool {
	return a.Decision[s] != NoDecision
}

// CandidateKind discriminates what a Candidate asks the analyzer to
// explore.
type CandidateKind uint8

const (
	// CandTransition explores the RTN graph reachable by taking a
	// specific outgoing transition of the state being disambiguated.
	CandTransition CandidateKind = iota
	// CandReturn explores the terminals that may legally follow the
	// disambiguated rule once it returns to its caller — supplied by
	// the compiler, since that depends on call sites outside this RTN.
	CandReturn
)

// Candidate is one of the live choices the GLA must pick among.
type Candidate struct {
	Kind CandidateKind

	// Valid when Kind == CandTransition: the transition to follow.
	Symbol string // terminal name, or callee rule name for a call
	IsCall bool
	To     int // RTN state to resume at once Symbol (or its callee) is consumed

	// Valid when Kind == CandReturn: the terminals that can legally
	// appear after this rule returns (grammar start's is EOF alone).
	Follow []string
}
