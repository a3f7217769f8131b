package vm

import "io"

// DefaultBufferSize is the chunk size ParseReader reads at a time.
const DefaultBufferSize = 4096

// ParseReader drains r into p until EOF or a non-OK status, the
// buffered convenience layer spec §6 calls gzl_buffer / parse_file: a
// host that doesn't want to manage its own chunking can hand Parser a
// plain io.Reader instead of calling Parse directly.
func ParseReader(p *Parser, r io.Reader, bufSize int) Status {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	buf := make([]byte, bufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			consumed, st := p.Parse(buf[:n])
			if st != OK {
				return st
			}
			if consumed != n {
				// Parse returns consumed < n only together with a status
				// other than OK; reaching here would mean a Parser bug.
				return ParseError
			}
		}
		if err == io.EOF {
			ok, st := p.Finish()
			if !ok {
				return st
			}
			return HardEOF
		}
		if err != nil {
			return IOError
		}
	}
}
