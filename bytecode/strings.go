package bytecode

import "github.com/gazelle-lang/gazelle/gzerr"

// stringTable collects every string referenced by a compiled grammar —
// terminal names, rule names, slot names — into one deduplicated table
// indexed by first-insertion order, so later records can refer to a
// string by a small int instead of repeating it (spec §4.5).
type stringTable struct {
	strs []string
	idx  map[string]int
}

func newStringTable() *stringTable {
	return &stringTable{idx: map[string]int{}}
}

func (t *stringTable) intern(s string) int {
	if i, ok := t.idx[s]; ok {
		return i
	}
	i := len(t.strs)
	t.strs = append(t.strs, s)
	t.idx[s] = i
	return i
}

func (t *stringTable) internAll(ss []string) []int {
	out := make([]int, len(ss))
	for i, s := range ss {
		out[i] = t.intern(s)
	}
	return out
}

func writeStrings(table *stringTable) *blockWriter {
	bw := newBlockWriter(BlockStrings)
	for _, s := range table.strs {
		bw.record(RecString, &stringRec{S: s})
	}
	return bw
}

func readStrings(body []byte) ([]string, error) {
	recs, err := readBlockBody(body, "STRINGS")
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.code != RecString {
			continue // unknown record: tolerated, skipped
		}
		var rec stringRec
		if err := decodeInto("STRINGS", r.code, r.payload, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec.S)
	}
	return out, nil
}

// resolve looks up string index i, reporting a corrupt-grammar
// diagnostic if it falls outside the table (spec §4.5 Failure).
func resolve(strs []string, i int) (string, error) {
	if i < 0 || i >= len(strs) {
		return "", gzerr.Corrupt("string index %d out of range (table has %d entries)", i, len(strs))
	}
	return strs[i], nil
}
