package ident

// Status is the per-name-occurrence state machine of §4.1. Declarations
// enter with incoming status Defined; uses enter with incoming status
// Undefined. Used and Unknown never appear as an incoming status — only
// as a prior one.
type Status int

const (
	// Unknown means the name has not been observed in this scope yet.
	Unknown Status = iota
	// Defined means a declaration has been observed, with no use yet.
	Defined
	// Undefined means a use has been observed with no declaration yet.
	Undefined
	// Used means both a declaration and at least one use have been
	// observed.
	Used
)

func (s Status) String() string {
	switch s {
	case Defined:
		return "Defined"
	case Undefined:
		return "Undefined"
	case Used:
		return "Used"
	default:
		return "Unknown"
	}
}

// nextStatus implements the NameStatus.check/next lattice of §4.1's
// table: given the name's previous status and an incoming occurrence's
// status (always Defined for a declare_X call, Undefined for an add_X
// call), it returns the new status or reports that the transition is a
// redefinition.
//
// The table's "prev=Used, incoming=Defined" cell is marked "—" in
// spec.md, meaning the reference implementation never calls this
// function with that combination given a well-formed traversal. This
// implementation still defines it (a second declaration of an
// already-used name), resolving the open question by treating it as a
// redefinition like the "prev=Defined, incoming=Defined" cell — see
// DESIGN.md.
func nextStatus(prev, incoming Status) (next Status, isRedefinition bool) {
	switch prev {
	case Unknown:
		return incoming, false
	case Defined:
		if incoming == Defined {
			return prev, true
		}
		return Used, false
	case Undefined:
		if incoming == Defined {
			return Used, false
		}
		return Undefined, false
	case Used:
		if incoming == Defined {
			return prev, true
		}
		return Used, false
	default:
		return incoming, false
	}
}
