/*
Package vm is Gazelle's streaming pushdown parser (spec §4.6): a
single-threaded, resumable state machine driven by repeated calls to
Parse(buf) rather than a token-at-a-time pull loop. It layers three
interleaved mechanisms over one tagged pushdown stack of *frame
values — RTN frames (one per active rule invocation) and, transiently,
GLA frames pushed while a state's lookahead is being resolved:

  - the IntFA layer steps bytes one at a time through whichever IntFA
    the current top of stack names, tracking the last-seen final state
    for maximal munch;
  - the GLA layer, active only while a GLA frame sits on top, buffers
    the terminals the IntFA layer produces instead of applying them to
    the RTN until the GLA converges on a decision, then replays them;
  - the RTN layer applies a decided terminal to the owning rule's
    network: following a terminal transition, pushing a callee frame
    for a nonterminal transition, or (at a final state with nothing
    left to try) popping back to the caller.

Position tracking folds gazelle.Position.Advance over the bytes of the
currently open lexeme rather than attempting true stream rewind: spec
§9 notes the IntFA layer "requires at most one byte of rewind" in the
reference implementation's pointer-into-host-buffer design, but an
IntFA bucket containing terminals in a textual prefix relationship
(e.g. "ab" and "abcd" sharing one conflict-free bucket) can overshoot
by more than one byte past the last final state. Rather than build a
general backward-seeking lexer, Parser keeps its own copy of the open
lexeme and any overshoot bytes in p.carry, replayed ahead of the next
call's buf — a strictly more general mechanism that happens to
degenerate to one-byte rewind in the common case the spec describes,
documented here as a deliberate scoping decision rather than a silent
difference.
*/
package vm

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("gazelle.vm")
}
