/*
Package fsm implements the automaton machinery shared by package rtn
(slot-aware Recursive Transition Networks) and package intfa (byte-range
lexical DFAs): an arena-of-states NFA representation, epsilon closure,
subset construction (NFA → DFA), and partition-refinement minimization
in the style of Hopcroft's algorithm.

States are represented as dense integer indices into an arena rather than
pointers, so that both the NFA and DFA forms serialize trivially (compare
gorgo's CFSM, which keeps states as a slice indexed by serial ID rather
than a pointer graph).

Transition symbols are opaque strings. Callers choose an encoding that
makes exactly the distinctions that must survive minimization: intfa
encodes byte ranges ("lo-hi"), rtn encodes a kind tag ("T" terminal, "N"
call), the symbol name, the slot number and the slot name joined by NUL
bytes, so that two transitions with the same grammar symbol but different slot
descriptors are never collapsed into one.
*/
package fsm
