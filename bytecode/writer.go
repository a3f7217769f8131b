package bytecode

import (
	"encoding/binary"
	"io"

	"github.com/dekarrin/rezi"
)

// headerRec is written right after the magic bytes: container-level
// metadata that isn't part of any of the four enumerated content blocks
// (spec §4.5/§6 name Strings, IntFAs, RTNs, GLAs; this is bookkeeping
// the reference format leaves unspecified but a round-trip check per
// spec §8.2 needs somewhere to live).
type headerRec struct {
	Start int // string-table index of the grammar's start rule
	Hash  string
}

func (r headerRec) MarshalBinary() ([]byte, error) {
	enc := rezi.EncInt(r.Start)
	enc = append(enc, rezi.EncString(r.Hash)...)
	return enc, nil
}

func (r *headerRec) UnmarshalBinary(data []byte) error {
	start, n, err := rezi.DecInt(data)
	if err != nil {
		return err
	}
	data = data[n:]
	hash, _, err := rezi.DecString(data)
	if err != nil {
		return err
	}
	r.Start, r.Hash = start, hash
	return nil
}

// WriteGrammar serializes g to w as a "GH" container (spec §4.5, §6).
func WriteGrammar(w io.Writer, g *CompiledGrammar) error {
	table := newStringTable()
	startIdx := table.intern(g.Start)

	intfaBW := writeIntFAs(table, g.IntFAs)
	rtnBW := writeRTNs(table, g.RTNs)
	stringsBW := writeStrings(table) // built last so it sees every interned string

	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	hdr := rezi.EncBinary(&headerRec{Start: startIdx, Hash: g.Hash})
	var hdrLen [4]byte
	binary.BigEndian.PutUint32(hdrLen[:], uint32(len(hdr)))
	if _, err := w.Write(hdrLen[:]); err != nil {
		return err
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	blockInfo := newBlockWriter(BlockInfo) // kept empty: no abbreviations installed
	for _, bw := range []*blockWriter{blockInfo, stringsBW, intfaBW, rtnBW} {
		if err := bw.writeTo(w); err != nil {
			return err
		}
	}
	return nil
}
