package bytecode

import "github.com/dekarrin/rezi"

// encIntSlice/decIntSlice compose a []int the way rezi's own
// EncSliceString does for strings, since rezi ships no int-slice
// primitive of its own (mirrors the tunascript package's local binary.go
// helpers, which compose rezi's int/string primitives by hand for
// shapes rezi doesn't cover directly).
func encIntSlice(ints []int) []byte {
	enc := rezi.EncInt(len(ints))
	for _, v := range ints {
		enc = append(enc, rezi.EncInt(v)...)
	}
	return enc
}

func decIntSlice(data []byte) ([]int, int, error) {
	n, read, err := rezi.DecInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[read:]
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, vn, err := rezi.DecInt(data)
		if err != nil {
			return nil, 0, err
		}
		out[i] = v
		data = data[vn:]
		read += vn
	}
	return out, read, nil
}
