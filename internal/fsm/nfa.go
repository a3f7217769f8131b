package fsm

import (
	"sort"

	"github.com/emirpasic/gods/sets/hashset"
)

// NFA is a nondeterministic finite automaton over an opaque alphabet of
// transition symbols, plus epsilon edges. States are dense indices
// [0, NumStates).
type NFA struct {
	NumStates int
	Start     int
	Eps       map[int][]int            // state -> epsilon-reachable states
	Trans     map[int]map[string][]int // state -> symbol -> target states (nondeterministic)
	Final     map[int][]string         // state -> tags accepted at this state (e.g. terminal names)
}

// NewNFA creates an empty NFA arena with n states and start state s.
func NewNFA(n, start int) *NFA {
	return &NFA{
		NumStates: n,
		Start:     start,
		Eps:       make(map[int][]int),
		Trans:     make(map[int]map[string][]int),
		Final:     make(map[int][]string),
	}
}

// AddState appends a fresh state to the arena and returns its index. It
// lets callers (e.g. Thompson-construction regex compilers) grow the
// arena incrementally rather than pre-sizing it.
func (n *NFA) AddState() int {
	id := n.NumStates
	n.NumStates++
	return id
}

// AddEpsilon adds an epsilon edge from -> to.
func (n *NFA) AddEpsilon(from, to int) {
	n.Eps[from] = append(n.Eps[from], to)
}

// AddTrans adds a transition from -[symbol]-> to.
func (n *NFA) AddTrans(from int, symbol string, to int) {
	if n.Trans[from] == nil {
		n.Trans[from] = make(map[string][]int)
	}
	n.Trans[from][symbol] = append(n.Trans[from][symbol], to)
}

// AddFinal tags state s as accepting, recording tag (e.g. a terminal name).
// A state may carry more than one tag (the uber-DFA conflict detector
// relies on this to spot terminals that end in the same IntFA state).
func (n *NFA) AddFinal(s int, tag string) {
	n.Final[s] = append(n.Final[s], tag)
}

// EpsilonClosure returns the set of states reachable from states via zero
// or more epsilon edges, including states themselves.
func (n *NFA) EpsilonClosure(states []int) *hashset.Set {
	closure := hashset.New()
	stack := make([]int, 0, len(states))
	for _, s := range states {
		if closure.Add(s); true {
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range n.Eps[cur] {
			if !closure.Contains(t) {
				closure.Add(t)
				stack = append(stack, t)
			}
		}
	}
	return closure
}

// setKey produces a canonical, order-independent name for a set of NFA
// state indices, used to recognize previously-built DFA states during
// subset construction.
func setKey(s *hashset.Set) string {
	vals := s.Values()
	ints := make([]int, 0, len(vals))
	for _, v := range vals {
		ints = append(ints, v.(int))
	}
	sort.Ints(ints)
	buf := make([]byte, 0, len(ints)*4)
	for i, v := range ints {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, []byte(itoa(v))...)
	}
	return string(buf)
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var b [20]byte
	i := len(b)
	for v > 0 {
		i--
		b[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

func setInts(s *hashset.Set) []int {
	vals := s.Values()
	ints := make([]int, 0, len(vals))
	for _, v := range vals {
		ints = append(ints, v.(int))
	}
	sort.Ints(ints)
	return ints
}
