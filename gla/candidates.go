package gla

import "github.com/gazelle-lang/gazelle/rtn"

// CandidatesForState builds the candidate list for the outgoing
// transitions of one RTN state, in transition order so that candidate
// index i names net.Trans[state][i], the index a GLA decision records.
// Build applies no tie-break between candidates: candidates that no
// terminal tells apart make it fail with a not-LL(*) error. If
// the state is itself final, a trailing CandReturn candidate is
// appended using follow as the terminals that may appear after the
// rule returns to its caller.
func CandidatesForState(net *rtn.Network, state int, follow []string) []Candidate {
	trans := net.Trans[state]
	cands := make([]Candidate, 0, len(trans)+1)
	for _, t := range trans {
		cands = append(cands, Candidate{
			Kind:   CandTransition,
			Symbol: t.Symbol,
			IsCall: t.Kind == rtn.TransCall,
			To:     t.To,
		})
	}
	if net.IsFinal(state) {
		cands = append(cands, Candidate{Kind: CandReturn, Follow: follow})
	}
	return cands
}
