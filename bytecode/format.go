package bytecode

// Magic is the two-byte signature every container begins with.
var Magic = [2]byte{'G', 'H'}

// Block ids (spec §6). BlockInfo mirrors the LLVM convention of
// reserving block id 0 for the (here unused) abbreviation-definition
// block.
const (
	BlockInfo    uint32 = 0
	BlockIntFAs  uint32 = 8
	BlockIntFA   uint32 = 9
	BlockStrings uint32 = 10
	BlockRTNs    uint32 = 11
	BlockRTN     uint32 = 12
)

// Record codes within an INTFA block.
const (
	RecIntFAState           uint16 = 0
	RecIntFAFinalState      uint16 = 1
	RecIntFATransition      uint16 = 2
	RecIntFATransitionRange uint16 = 3
)

// Record codes within the STRINGS block.
const RecString uint16 = 0

// Record codes within an RTN block.
const (
	RecRTNInfo               uint16 = 0
	RecRTNState              uint16 = 1
	RecRTNTransitionTerminal uint16 = 2
	RecRTNTransitionNonterm  uint16 = 3
	RecRTNDecision           uint16 = 4
	RecRTNIgnore             uint16 = 5
	RecRTNLookahead          uint16 = 6
)

func knownBlock(id uint32) bool {
	switch id {
	case BlockInfo, BlockIntFAs, BlockIntFA, BlockStrings, BlockRTNs, BlockRTN:
		return true
	}
	return false
}
