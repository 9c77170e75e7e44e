// Package ident implements the multi-scope symbol resolver: the name
// table that enforces declare-before-use, class coherence and
// cross-reference validation across nested network/automata/request
// scopes (spec §4.1).
package ident

// Class is one of the closed set of identifier classes a name in FAN
// source can belong to.
type Class int

const (
	// Network names a communicating-automata network block.
	Network Class = iota
	// Request names an analysis-request block.
	Request
	// Automata names an automaton within a network.
	Automata
	// Link names a one-slot FIFO buffer between two automata.
	Link
	// Event names a token that can travel on a link.
	Event
	// ObsLabel names an observation label.
	ObsLabel
	// RelLabel names a relevance label.
	RelLabel
	// State names a declared automaton state.
	State
	// Begin names a state additionally marked as an automaton's initial
	// state. DeclareBeginState assigns it, and a State occurrence and a
	// Begin occurrence of the same name coalesce into it (see mergeClass).
	Begin
	// Transition names a declared transition.
	Transition
)

func (c Class) String() string {
	switch c {
	case Network:
		return "Network"
	case Request:
		return "Request"
	case Automata:
		return "Automata"
	case Link:
		return "Link"
	case Event:
		return "Event"
	case ObsLabel:
		return "ObsLabel"
	case RelLabel:
		return "RelLabel"
	case State:
		return "State"
	case Begin:
		return "Begin"
	case Transition:
		return "Transition"
	default:
		return "Unknown"
	}
}

// mergeClass implements §4.1's "Initial-state class coalescing": a State
// occurrence and a Begin occurrence of the same name merge into Begin,
// the only class merge permitted. Any other pair of distinct classes does
// not merge; the caller raises NameRidefinitionError.
func mergeClass(prev, incoming Class) (merged Class, ok bool) {
	if prev == incoming {
		return prev, true
	}
	if (prev == State && incoming == Begin) || (prev == Begin && incoming == State) {
		return Begin, true
	}
	return prev, false
}
