package bytecode

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/dekarrin/rezi"
	"github.com/gazelle-lang/gazelle/gzerr"
)

// ReadGrammar parses a "GH" container produced by WriteGrammar. It
// resolves string indices and RTN transition targets and range-checks
// the IntFA indices of RTN states and GLA states before returning. The
// rule named by a call transition is not checked against the RTNs
// present in the container.
func ReadGrammar(r io.Reader) (*CompiledGrammar, error) {
	all, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(all) < 2 || all[0] != Magic[0] || all[1] != Magic[1] {
		return nil, gzerr.Corrupt("missing \"GH\" magic header")
	}
	br := bytes.NewReader(all[2:])

	var hdrLenBuf [4]byte
	if _, err := io.ReadFull(br, hdrLenBuf[:]); err != nil {
		return nil, gzerr.Corrupt("truncated header length")
	}
	hdrLen := binary.BigEndian.Uint32(hdrLenBuf[:])
	hdrBytes := make([]byte, hdrLen)
	if _, err := io.ReadFull(br, hdrBytes); err != nil {
		return nil, gzerr.Corrupt("truncated header")
	}
	var hdr headerRec
	if _, err := rezi.DecBinary(hdrBytes, &hdr); err != nil {
		return nil, gzerr.Corrupt("header: %v", err)
	}

	blocks, err := readTopLevelBlocks(br)
	if err != nil {
		return nil, err
	}

	var strs []string
	var sawStrings bool
	var intfaBody, rtnBody []byte
	var sawIntFAs, sawRTNs bool
	for _, blk := range blocks {
		switch blk.id {
		case BlockInfo:
			// kept empty; nothing to interpret
		case BlockStrings:
			strs, err = readStrings(blk.body)
			if err != nil {
				return nil, err
			}
			sawStrings = true
		case BlockIntFAs:
			intfaBody = blk.body
			sawIntFAs = true
		case BlockRTNs:
			rtnBody = blk.body
			sawRTNs = true
		default:
			return nil, gzerr.Corrupt("unexpected top-level block id %d", blk.id)
		}
	}
	if !sawStrings {
		return nil, gzerr.Corrupt("container has no STRINGS block")
	}
	if !sawIntFAs {
		return nil, gzerr.Corrupt("container has no INTFAS block")
	}
	if !sawRTNs {
		return nil, gzerr.Corrupt("container has no RTNS block")
	}

	start, err := resolve(strs, hdr.Start)
	if err != nil {
		return nil, err
	}
	fas, err := readIntFAs(intfaBody, strs)
	if err != nil {
		return nil, err
	}
	entries, err := readRTNs(rtnBody, strs)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		for _, idx := range e.IntFAOf {
			if idx != -1 && (idx < 0 || idx >= len(fas)) {
				return nil, gzerr.Corrupt("RTN_STATE references out-of-range IntFA %d", idx)
			}
		}
		for _, g := range e.GLAOf {
			for _, idx := range g.IntFAOf {
				if idx != -1 && (idx < 0 || idx >= len(fas)) {
					return nil, gzerr.Corrupt("RTN_LOOKAHEAD references out-of-range IntFA %d", idx)
				}
			}
		}
	}

	return &CompiledGrammar{Start: start, Hash: hdr.Hash, IntFAs: fas, RTNs: entries}, nil
}
