package vm

import "github.com/gazelle-lang/gazelle/intfa"

// intfaStepper adapts *intfa.IntFA's field-based Final lookup to the
// method call parser.go's stepping loop wants, so the hot loop reads
// uniformly as p.fa.Step/IsFinal/Final regardless of which IntFA is
// currently active.
type intfaStepper struct {
	fa *intfa.IntFA
}

func (s *intfaStepper) Step(state int, b byte) (int, bool) {
	return s.fa.Step(state, b)
}

func (s *intfaStepper) IsFinal(state int) bool {
	return s.fa.IsFinal(state)
}

func (s *intfaStepper) Final(state int) string {
	return s.fa.Final[state]
}
