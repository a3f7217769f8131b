package rtn

import "github.com/gazelle-lang/gazelle"

// Expr is the AST package grammar desugars a rule's alternation into
// before handing it to rtn for compilation: every surface modifier
// (?, *, +, *(sep), +(sep)) is reduced to Seq/Alt/Star/Empty/TermRef/
// CallRef per the desugaring rules of spec.md §4.1 before reaching here.
type Expr interface{ isExpr() }

// TermRef matches one occurrence of the named terminal, tagged with the
// slot it fills in the owning rule.
type TermRef struct {
	Name string
	Slot gazelle.SlotDescriptor
}

// CallRef matches one full derivation of the named nonterminal.
type CallRef struct {
	Rule string
	Slot gazelle.SlotDescriptor
}

// Empty matches the empty string (used for X?, X*, and epsilon
// alternatives — "a bare e denotes the empty derivation", spec.md §6).
type Empty struct{}

// Seq matches each element in order.
type Seq []Expr

// Alt matches any one alternative.
type Alt []Expr

// StarExpr matches zero or more repetitions of Elem (X* ≡ (X X*)?,
// implemented directly as an epsilon loop rather than recursive
// expansion).
type StarExpr struct{ Elem Expr }

func (TermRef) isExpr()  {}
func (CallRef) isExpr()  {}
func (Empty) isExpr()    {}
func (Seq) isExpr()      {}
func (Alt) isExpr()      {}
func (StarExpr) isExpr() {}

// Optional builds X? ≡ X | ε.
func Optional(e Expr) Expr { return Alt{e, Empty{}} }

// OneOrMore builds X+ ≡ X X*.
func OneOrMore(e Expr) Expr { return Seq{e, StarExpr{e}} }

// SepPlus builds X +(S) ≡ X (S X)*.
func SepPlus(x, sep Expr) Expr { return Seq{x, StarExpr{Seq{sep, x}}} }

// SepStar builds X *(S) ≡ (X (S X)*)?.
func SepStar(x, sep Expr) Expr { return Optional(SepPlus(x, sep)) }
