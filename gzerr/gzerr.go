/*
Package gzerr collects the error taxonomy used throughout Gazelle:
grammar-syntax errors from the front-end, not-LL(*) errors from the
lookahead analyzer, corrupt-grammar errors from the bytecode reader, and
the parse-time statuses returned by the streaming parser.

Compile-time errors (ErrGrammarSyntax, ErrNotLLStar, ErrCorruptGrammar) are
returned wrapping a *Diagnostic, which a caller can unwrap with
errors.As. Parse-time conditions (ErrParse, ErrResourceLimit, ErrIO,
ErrPrematureEOF, ErrCancelled) are sentinels comparable with errors.Is.
*/
package gzerr

import (
	"errors"
	"fmt"

	"github.com/gazelle-lang/gazelle"
)

// Sentinel errors for the taxonomy of spec §7. Wrap with fmt.Errorf and
// %w so callers can errors.Is/errors.As against them.
var (
	ErrGrammarSyntax   = errors.New("grammar-syntax error")
	ErrNotLLStar       = errors.New("not-LL(*) grammar")
	ErrCorruptGrammar  = errors.New("corrupt-grammar")
	ErrParse           = errors.New("parse-error")
	ErrResourceLimit   = errors.New("resource-limit-exceeded")
	ErrIO              = errors.New("io-error")
	ErrPrematureEOF    = errors.New("premature-eof")
	ErrCancelled       = errors.New("cancelled")
)

// Diagnostic carries a source position alongside an error message, the
// shape every compile-time error in Gazelle is reported with.
type Diagnostic struct {
	Pos     gazelle.Position
	Rule    string // offending rule name, if applicable
	Message string
	Cause   error
}

func (d *Diagnostic) Error() string {
	if d.Rule != "" {
		return fmt.Sprintf("%s: rule %q: %s", d.Pos, d.Rule, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Pos, d.Message)
}

func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// Syntax builds a grammar-syntax diagnostic at pos.
func Syntax(pos gazelle.Position, format string, args ...interface{}) error {
	return &Diagnostic{Pos: pos, Message: fmt.Sprintf(format, args...), Cause: ErrGrammarSyntax}
}

// NotLLStar builds a not-LL(*) diagnostic naming the offending rule.
func NotLLStar(pos gazelle.Position, rule string, format string, args ...interface{}) error {
	return &Diagnostic{Pos: pos, Rule: rule, Message: fmt.Sprintf(format, args...), Cause: ErrNotLLStar}
}

// Corrupt builds a corrupt-grammar diagnostic naming the offending record.
func Corrupt(format string, args ...interface{}) error {
	return &Diagnostic{Message: fmt.Sprintf(format, args...), Cause: ErrCorruptGrammar}
}
