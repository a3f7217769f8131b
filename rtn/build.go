package rtn

import (
	"strconv"
	"strings"

	"github.com/gazelle-lang/gazelle"
	"github.com/gazelle-lang/gazelle/internal/fsm"
)

// label keys use \x00 as a field separator so terminal/rule names
// containing arbitrary characters never collide with the delimiter.
const fieldSep = "\x00"

func termKey(name string, slot int, slotName string) string {
	return strings.Join([]string{"T", name, strconv.Itoa(slot), slotName}, fieldSep)
}

func callKey(rule string, slot int, slotName string) string {
	return strings.Join([]string{"N", rule, strconv.Itoa(slot), slotName}, fieldSep)
}

func decodeKey(key string) Transition {
	parts := strings.Split(key, fieldSep)
	slot, _ := strconv.Atoi(parts[2])
	t := Transition{
		Symbol: parts[1],
		Slot:   gazelle.SlotDescriptor{Name: parts[3], SlotNum: slot},
	}
	if parts[0] == "T" {
		t.Kind = TransTerminal
	} else {
		t.Kind = TransCall
	}
	return t
}

// Build compiles a rule's desugared Expr into a minimized Network via
// Thompson construction + subset construction + Hopcroft minimization
// (internal/fsm), the same three-pass pipeline package intfa uses for
// byte-range automata.
func Build(rule string, e Expr, numSlots int, ignore []string) *Network {
	arena := fsm.NewNFA(1, 0)
	accept := arena.AddState()
	frag := compile(arena, e)
	arena.Start = frag.start
	arena.AddEpsilon(frag.accept, accept)
	arena.AddFinal(accept, "") // tag is irrelevant for RTN finality, only presence matters

	d := fsm.Minimize(fsm.SubsetConstruct(arena))

	n := &Network{
		Rule:      rule,
		NumStates: d.NumStates,
		Trans:     make([][]Transition, d.NumStates),
		Final:     make([]bool, d.NumStates),
		NumSlots:  numSlots,
		Ignore:    ignore,
	}
	for s := 0; s < d.NumStates; s++ {
		n.Final[s] = d.IsFinal(s)
		for key, to := range d.Trans[s] {
			t := decodeKey(key)
			t.To = to
			n.Trans[s] = append(n.Trans[s], t)
		}
	}
	return n
}

type fragment struct{ start, accept int }

func newFragment(arena *fsm.NFA) fragment {
	return fragment{start: arena.AddState(), accept: arena.AddState()}
}

func compile(arena *fsm.NFA, e Expr) fragment {
	switch x := e.(type) {
	case TermRef:
		f := newFragment(arena)
		arena.AddTrans(f.start, termKey(x.Name, x.Slot.SlotNum, x.Slot.Name), f.accept)
		return f
	case CallRef:
		f := newFragment(arena)
		arena.AddTrans(f.start, callKey(x.Rule, x.Slot.SlotNum, x.Slot.Name), f.accept)
		return f
	case Empty:
		f := newFragment(arena)
		arena.AddEpsilon(f.start, f.accept)
		return f
	case Seq:
		if len(x) == 0 {
			return compile(arena, Empty{})
		}
		first := compile(arena, x[0])
		cur := first.accept
		for _, sub := range x[1:] {
			next := compile(arena, sub)
			arena.AddEpsilon(cur, next.start)
			cur = next.accept
		}
		return fragment{start: first.start, accept: cur}
	case Alt:
		f := newFragment(arena)
		for _, sub := range x {
			s := compile(arena, sub)
			arena.AddEpsilon(f.start, s.start)
			arena.AddEpsilon(s.accept, f.accept)
		}
		return f
	case StarExpr:
		f := newFragment(arena)
		s := compile(arena, x.Elem)
		arena.AddEpsilon(f.start, s.start)
		arena.AddEpsilon(f.start, f.accept)
		arena.AddEpsilon(s.accept, s.start)
		arena.AddEpsilon(s.accept, f.accept)
		return f
	default:
		panic("rtn: unknown Expr type")
	}
}
