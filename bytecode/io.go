package bytecode

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"io"

	"github.com/dekarrin/rezi"
	"github.com/gazelle-lang/gazelle/gzerr"
)

// blockWriter accumulates one block's records before it is flushed with
// its length prefix, mirroring the length-prefixed block/record framing
// spec §6 describes.
type blockWriter struct {
	id  uint32
	buf bytes.Buffer
}

func newBlockWriter(id uint32) *blockWriter {
	return &blockWriter{id: id}
}

// record appends one length-prefixed record. v's own MarshalBinary
// composes its fields from rezi's int/string/bool primitives; rezi.EncBinary
// just adds the length prefix every record needs.
func (b *blockWriter) record(code uint16, v encoding.BinaryMarshaler) {
	b.rawRecord(code, rezi.EncBinary(v))
}

// rawRecord appends a record whose payload is already framed bytes —
// used to nest one block's accumulated bytes inside another's record
// stream (an INTFA or RTN sub-block), where re-running the payload
// through rezi would double-encode it.
func (b *blockWriter) rawRecord(code uint16, payload []byte) {
	var hdr [6]byte
	binary.BigEndian.PutUint16(hdr[0:2], code)
	binary.BigEndian.PutUint32(hdr[2:6], uint32(len(payload)))
	b.buf.Write(hdr[:])
	b.buf.Write(payload)
}

func (b *blockWriter) writeTo(w io.Writer) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], b.id)
	binary.BigEndian.PutUint32(hdr[4:8], uint32(b.buf.Len()))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(b.buf.Bytes())
	return err
}

// rawRecord is one decoded-but-not-yet-interpreted record from a block
// body: code plus its exact payload bytes.
type rawRecord struct {
	code    uint16
	payload []byte
}

func readBlockBody(body []byte, blockName string) ([]rawRecord, error) {
	var recs []rawRecord
	for off := 0; off < len(body); {
		if off+6 > len(body) {
			return nil, gzerr.Corrupt("%s block: truncated record header at offset %d", blockName, off)
		}
		code := binary.BigEndian.Uint16(body[off : off+2])
		n := int(binary.BigEndian.Uint32(body[off+2 : off+6]))
		off += 6
		if off+n > len(body) {
			return nil, gzerr.Corrupt("%s block: truncated record payload (code %d) at offset %d", blockName, code, off)
		}
		recs = append(recs, rawRecord{code: code, payload: body[off : off+n]})
		off += n
	}
	return recs, nil
}

// decodeInto unmarshals a record's payload into dst (a pointer) with
// rezi, wrapping any failure as a named corrupt-grammar diagnostic.
func decodeInto(blockName string, code uint16, payload []byte, dst encoding.BinaryUnmarshaler) error {
	if _, err := rezi.DecBinary(payload, dst); err != nil {
		return gzerr.Corrupt("%s record %d: %v", blockName, code, err)
	}
	return nil
}

// readTopLevelBlocks splits the container body (after the magic and any
// outer framing) into its top-level blocks.
func readTopLevelBlocks(r *bytes.Reader) ([]struct {
	id   uint32
	body []byte
}, error) {
	var blocks []struct {
		id   uint32
		body []byte
	}
	for r.Len() > 0 {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, gzerr.Corrupt("truncated block header near end of container")
		}
		id := binary.BigEndian.Uint32(hdr[0:4])
		n := binary.BigEndian.Uint32(hdr[4:8])
		if !knownBlock(id) {
			return nil, gzerr.Corrupt("unknown block id %d", id)
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, gzerr.Corrupt("truncated body of block %d", id)
		}
		blocks = append(blocks, struct {
			id   uint32
			body []byte
		}{id: id, body: body})
	}
	return blocks, nil
}
