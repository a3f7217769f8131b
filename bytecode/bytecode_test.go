package bytecode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/gla"
	"github.com/gazelle-lang/gazelle/gzerr"
	"github.com/gazelle-lang/gazelle/intfa"
	"github.com/gazelle-lang/gazelle/rtn"
)

func slot(n string, i int) gazelle.SlotDescriptor { return gazelle.SlotDescriptor{Name: n, SlotNum: i} }

func buildSampleGrammar(t *testing.T) *CompiledGrammar {
	t.Helper()
	terms := map[string]intfa.Pattern{"X": intfa.Literal("x")}
	fa, err := intfa.Build(terms, []string{"X"})
	if err != nil {
		t.Fatalf("intfa.Build: %v", err)
	}
	net := rtn.Build("s", rtn.TermRef{Name: "X", Slot: slot("x", 0)}, 1, []string{"WS"})

	entry := &RTNEntry{
		Network: net,
		IntFAOf: make([]int, net.NumStates),
		GLAOf:   map[int]*gla.GLA{},
	}
	for i := range entry.IntFAOf {
		entry.IntFAOf[i] = -1
	}
	entry.IntFAOf[0] = 0

	return &CompiledGrammar{
		Start:  "s",
		Hash:   "deadbeef",
		IntFAs: []*intfa.IntFA{fa},
		RTNs:   []*RTNEntry{entry},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	g := buildSampleGrammar(t)

	var buf bytes.Buffer
	if err := WriteGrammar(&buf, g); err != nil {
		t.Fatalf("WriteGrammar: %v", err)
	}

	got, err := ReadGrammar(&buf)
	if err != nil {
		t.Fatalf("ReadGrammar: %v", err)
	}
	if got.Start != g.Start {
		t.Fatalf("Start = %q, want %q", got.Start, g.Start)
	}
	if got.Hash != g.Hash {
		t.Fatalf("Hash = %q, want %q", got.Hash, g.Hash)
	}
	if len(got.IntFAs) != 1 {
		t.Fatalf("got %d IntFAs, want 1", len(got.IntFAs))
	}
	if got.IntFAs[0].NumStates != g.IntFAs[0].NumStates {
		t.Fatalf("IntFA NumStates = %d, want %d", got.IntFAs[0].NumStates, g.IntFAs[0].NumStates)
	}

	entry := got.RTN("s")
	if entry == nil {
		t.Fatalf("round-tripped grammar has no rule %q", "s")
	}
	if entry.Network.NumStates != g.RTNs[0].Network.NumStates {
		t.Fatalf("RTN NumStates = %d, want %d", entry.Network.NumStates, g.RTNs[0].Network.NumStates)
	}
	if len(entry.Network.Ignore) != 1 || entry.Network.Ignore[0] != "WS" {
		t.Fatalf("Ignore = %v, want [WS]", entry.Network.Ignore)
	}
	if entry.IntFAOf[0] != 0 {
		t.Fatalf("IntFAOf[0] = %d, want 0", entry.IntFAOf[0])
	}

	foundX := false
	for _, tr := range entry.Network.Trans[0] {
		if tr.Kind == rtn.TransTerminal && tr.Symbol == "X" && tr.Slot.Name == "x" {
			foundX = true
		}
	}
	if !foundX {
		t.Fatalf("round-tripped network lost its X transition: %+v", entry.Network.Trans[0])
	}
}

// A GLA attached to one RTN state must round-trip along with it.
func TestWriteReadRoundTripWithGLA(t *testing.T) {
	g := buildSampleGrammar(t)
	g.RTNs[0].GLAOf[0] = &gla.GLA{
		NumStates: 2,
		Trans:     []map[string]int{{"X": 1}, {}},
		Decision:  []int{gla.NoDecision, 0},
	}

	var buf bytes.Buffer
	if err := WriteGrammar(&buf, g); err != nil {
		t.Fatalf("WriteGrammar: %v", err)
	}
	got, err := ReadGrammar(&buf)
	if err != nil {
		t.Fatalf("ReadGrammar: %v", err)
	}
	entry := got.RTN("s")
	gg, ok := entry.GLAOf[0]
	if !ok {
		t.Fatalf("lost the GLA attached to state 0")
	}
	if gg.NumStates != 2 {
		t.Fatalf("GLA NumStates = %d, want 2", gg.NumStates)
	}
	if gg.Trans[0]["X"] != 1 {
		t.Fatalf("GLA edge on X = %d, want 1", gg.Trans[0]["X"])
	}
	if gg.Decision[1] != 0 {
		t.Fatalf("GLA decision at state 1 = %d, want 0", gg.Decision[1])
	}
}

func TestReadGrammarRejectsMissingMagic(t *testing.T) {
	_, err := ReadGrammar(bytes.NewReader([]byte("not a grammar container")))
	if err == nil {
		t.Fatalf("expected a corrupt-grammar error")
	}
	if !errors.Is(err, gzerr.ErrCorruptGrammar) {
		t.Fatalf("expected ErrCorruptGrammar, got %v", err)
	}
}

func TestStats(t *testing.T) {
	g := buildSampleGrammar(t)
	s := g.Stats()
	if s.Rules != 1 {
		t.Fatalf("Rules = %d, want 1", s.Rules)
	}
	if s.IntFAs != 1 {
		t.Fatalf("IntFAs = %d, want 1", s.IntFAs)
	}
	if s.IntFAStates == 0 || s.IntFATransitions == 0 {
		t.Fatalf("expected nonzero IntFA state/transition counts, got %+v", s)
	}
	if s.RTNStates == 0 || s.RTNTransitions == 0 {
		t.Fatalf("expected nonzero RTN state/transition counts, got %+v", s)
	}
	if s.GLACount != 0 {
		t.Fatalf("GLACount = %d, want 0 (sample grammar has no GLA)", s.GLACount)
	}
}

func TestReadTopLevelBlocksRejectsUnknownBlockID(t *testing.T) {
	var raw bytes.Buffer
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], 250) // not one of the known block ids
	binary.BigEndian.PutUint32(hdr[4:8], 0)
	raw.Write(hdr[:])

	_, err := readTopLevelBlocks(bytes.NewReader(raw.Bytes()))
	if err == nil {
		t.Fatalf("expected a corrupt-grammar error for an unknown block id")
	}
	if !errors.Is(err, gzerr.ErrCorruptGrammar) {
		t.Fatalf("expected ErrCorruptGrammar, got %v", err)
	}
}
