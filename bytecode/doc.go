/*
Package bytecode reads and writes the compiled-grammar container (spec
§4.5, §6): an LLVM-bitcode-flavored block/record bitstream prefixed by
the magic bytes "GH". Four block kinds appear: a BLOCKINFO block (kept
empty — this implementation does not install bit-packed abbreviations,
see below), a STRINGS block holding a single deduplicated string table,
an INTFAS block holding one INTFA sub-block per allocated lexical
automaton, and an RTNS block holding one RTN sub-block per rule
(carrying that rule's GLA, if it needed one, inline on its
RTN_LOOKAHEAD records).

Record payloads are encoded with github.com/dekarrin/rezi rather than
spec's literal sub-byte bit-packed abbreviations: this keeps the block/
record structure — ids, codes, emission order, unknown-record
tolerance — byte-exact to §6 while avoiding a hand-rolled bit-packer
for what the spec itself treats as an implementation detail ("BLOCKINFO/
abbreviation details... beyond what the core needs to round-trip are
not prescribed").

Readers tolerate unknown record codes within a known block (skipped by
their length prefix) but reject unknown block ids, truncated records,
out-of-range string indices, and out-of-range state offsets as
*gzerr.ErrCorruptGrammar, naming the offending record (spec §4.5
Failure).
*/
package bytecode

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("gazelle.bytecode")
}
