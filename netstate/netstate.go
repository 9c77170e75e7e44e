// Package netstate is the compiled, index-based representation of a FAN
// (§3's "Network (compiled form)") and the operational model's Step
// function (§4.4): compound-state enabling/firing semantics over
// link-connected automata.
package netstate

import (
	"encoding/binary"

	"github.com/minio/highwayhash"
)

// EventRef names an event traveling on a specific link.
type EventRef struct {
	Event int
	Link  int
}

// Transition is one compiled arc of an automaton.
type Transition struct {
	ID    int
	Name  string
	Input *EventRef
	// Outputs is ordered; firing requires every listed link empty, and
	// produces one successor per Transition — not one per output, per §4.4.
	Outputs []EventRef
	Obs     *int
	Rel     *int

	OwnerAutomaton int
	SelfIndex      int
}

// Arc is one outgoing edge of an automaton's adjacency list.
type Arc struct {
	Next       int
	Transition *Transition
}

// Automaton is a compiled finite automaton within a network.
type Automaton struct {
	Name            string
	Index           int
	InitialState    int
	StateNames      []string
	TransitionNames []string
	// Adjacency[s] lists the outgoing arcs from state s, in declaration
	// order — §5's ordering guarantee depends on this.
	Adjacency [][]Arc
}

// Link is a directed one-slot buffer between two automata.
type Link struct {
	Name string
	Src  int
	Dst  int
}

// Network is a compiled FAN: automata, links, and the event,
// observation-label and relevance-label name lists. The compiled
// requests that target it are kept separately (compiler.Request).
type Network struct {
	Name          string
	Automata      []*Automaton
	Links         []Link
	EventNames    []string
	ObsLabelNames []string
	RelLabelNames []string
}

// Initial returns the network's compound initial state: every automaton
// at its initial state, every link empty.
func (n *Network) Initial() CompoundState {
	states := make([]int, len(n.Automata))
	for i, a := range n.Automata {
		states[i] = a.InitialState
	}
	links := make([]int, len(n.Links))
	for i := range links {
		links[i] = -1
	}
	return CompoundState{States: states, Links: links}
}

// CompoundState is the tuple of per-automaton states plus the snapshot
// of every link slot (§3): Links[k] == -1 means Empty, else it holds the
// carried event id. Index is the linspace observation-progress counter;
// full-space leaves it at zero.
type CompoundState struct {
	States []int
	Links  []int
	Index  int
}

// IsFinal reports the invariant "is_final iff every link slot is empty".
func (s CompoundState) IsFinal() bool {
	for _, l := range s.Links {
		if l != -1 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy, so a caller can derive a successor without
// mutating the predecessor still referenced elsewhere in the work list.
func (s CompoundState) Clone() CompoundState {
	return CompoundState{
		States: append([]int(nil), s.States...),
		Links:  append([]int(nil), s.Links...),
		Index:  s.Index,
	}
}

// hashKey is a fixed 32-byte HighwayHash key; canonicalization has no
// adversarial-input concern, so a constant key is adequate.
var hashKey = []byte("fsanet-compound-state-canonical!")

// encode lays out (States, Links, Index) as fixed-width little-endian
// ints. Every CompoundState reached from one network has the same
// len(States)/len(Links), so this encoding is injective over the tuple:
// two states encode identically iff all three fields match.
func (s CompoundState) encode() []byte {
	buf := make([]byte, 0, 4*(len(s.States)+len(s.Links)+1))
	var tmp [4]byte
	for _, v := range s.States {
		binary.LittleEndian.PutUint32(tmp[:], uint32(v))
		buf = append(buf, tmp[:]...)
	}
	for _, v := range s.Links {
		// shift by one so Empty (-1) and event id 0 encode distinctly.
		binary.LittleEndian.PutUint32(tmp[:], uint32(v+1))
		buf = append(buf, tmp[:]...)
	}
	binary.LittleEndian.PutUint32(tmp[:], uint32(s.Index))
	return append(buf, tmp[:]...)
}

// CanonicalKey returns the exact-equality key used by statetable.Table
// to dedup compound states: the injective byte encoding of the tuple,
// compared by Go's built-in string equality. Per §4.5/§3's "Equality and
// hashing cover all three fields", this is what the work-list expander
// keys its state table on — an exact encoding rather than a hash digest,
// so two distinct states can never collide onto the same table slot.
func (s CompoundState) CanonicalKey() string {
	return string(s.encode())
}

// Key returns a compact 64-bit fingerprint of the compound state, for
// logging and test assertions where a short comparable value is more
// convenient than the full CanonicalKey string. It is not used as the
// state table's dedup key — see CanonicalKey.
func (s CompoundState) Key() uint64 {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		panic(err) // only fails if hashKey is not exactly 32 bytes
	}
	_, _ = h.Write(s.encode())
	return h.Sum64()
}

// TransEvent is the edge label recorded for every fired transition
// (§3's "Transition event").
type TransEvent struct {
	OwnerAutomaton int
	TransitionID   int
	Obs            *int
	Rel            *int
}

// Step enumerates every successor of s reachable by firing exactly one
// enabled transition, visiting automata and their arcs in declaration
// order (§5's determinism guarantee).
func (n *Network) Step(s CompoundState) []struct {
	Event TransEvent
	Next  CompoundState
} {
	var out []struct {
		Event TransEvent
		Next  CompoundState
	}
	for i, a := range n.Automata {
		cur := s.States[i]
		for _, arc := range a.Adjacency[cur] {
			t := arc.Transition
			if !enabled(s, t) {
				continue
			}
			next := s.Clone()
			next.States[i] = arc.Next
			if t.Input != nil {
				next.Links[t.Input.Link] = -1
			}
			for _, o := range t.Outputs {
				next.Links[o.Link] = o.Event
			}
			out = append(out, struct {
				Event TransEvent
				Next  CompoundState
			}{
				Event: TransEvent{OwnerAutomaton: i, TransitionID: t.ID, Obs: t.Obs, Rel: t.Rel},
				Next:  next,
			})
		}
	}
	return out
}

func enabled(s CompoundState, t *Transition) bool {
	if t.Input != nil && s.Links[t.Input.Link] != t.Input.Event {
		return false
	}
	for _, o := range t.Outputs {
		if s.Links[o.Link] != -1 {
			return false
		}
	}
	return true
}
