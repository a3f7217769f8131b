/*
Package gazelle is an LL(*) parser-generator toolchain.

Gazelle compiles a grammar into a compact bytecode image (a "gzc" file) and
then executes that image as a streaming, incremental, pushdown parser.
Package structure is as follows:

■ grammar: Package grammar implements the front-end for Gazelle's grammar
surface syntax — lexing, parsing, and desugaring into per-rule automaton
fragments.

■ rtn: Package rtn builds and minimizes Recursive Transition Networks, one
per grammar nonterminal.

■ intfa: Package intfa builds the shared lexical DFAs ("IntFAs") used to
tokenize input, detecting and resolving conflicts between terminals.

■ gla: Package gla synthesizes per-state lookahead automata for RTN states
whose outgoing transitions need more than one token of lookahead.

■ bytecode: Package bytecode reads and writes the on-disk container format
that holds a compiled grammar.

■ compile: Package compile orchestrates the above into a single compiler
entry point.

■ vm: Package vm implements the streaming, resumable parser that executes a
loaded grammar against an input stream.

The base package contains data types used throughout all the other
packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 The Gazelle Authors.

*/
package gazelle
