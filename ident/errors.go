package ident

import (
	"fmt"

	"github.com/viant/fsanet/lang"
)

// RedefinitionError reports two declarations of the same name within its
// scope, or a declaration whose class disagrees with an existing
// occurrence.
type RedefinitionError struct {
	Name       string
	OrigSpan   lang.Location
	RidefSpan  lang.Location
	OrigClass  Class
	RidefClass Class
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("%q redefined as %s at [%d,%d); originally %s at [%d,%d)",
		e.Name, e.RidefClass, e.RidefSpan.Begin, e.RidefSpan.End, e.OrigClass, e.OrigSpan.Begin, e.OrigSpan.End)
}

// UndefinedNameError reports a name used but never declared, detected at
// Validate.
type UndefinedNameError struct {
	Name string
	Span lang.Location
}

func (e *UndefinedNameError) Error() string {
	return fmt.Sprintf("%q used at [%d,%d) is never declared", e.Name, e.Span.Begin, e.Span.End)
}

// BeginStateKind distinguishes the two ways an automaton can fail to
// declare exactly one initial state.
type BeginStateKind int

const (
	// NoBeginState means the automaton declared zero initial states.
	NoBeginState BeginStateKind = iota
	// MultipleBeginState means the automaton declared more than one.
	MultipleBeginState
)

// BeginStateError reports that an automaton does not declare exactly one
// initial state.
type BeginStateError struct {
	Automaton string
	Span      lang.Location
	Kind      BeginStateKind
	Names     []string // populated when Kind == MultipleBeginState
}

func (e *BeginStateError) Error() string {
	if e.Kind == NoBeginState {
		return fmt.Sprintf("automaton %q declares no initial state", e.Automaton)
	}
	return fmt.Sprintf("automaton %q declares multiple initial states: %v", e.Automaton, e.Names)
}

// UndefinedNetworkError reports that a request block names a network
// that is never declared. Spec.md's UndefinedNetwork carries the full
// set of offending (name, span) pairs; this implementation raises one
// error per offending request and the caller (Validate) aggregates them.
type UndefinedNetworkError struct {
	Name string
	Span lang.Location
}

func (e *UndefinedNetworkError) Error() string {
	return fmt.Sprintf("request references undeclared network %q at [%d,%d)", e.Name, e.Span.Begin, e.Span.End)
}

// UndefinedLabelError reports that a request's observation or relevance
// label does not exist in its network.
type UndefinedLabelError struct {
	Name  string
	Class Class
	Span  lang.Location
}

func (e *UndefinedLabelError) Error() string {
	return fmt.Sprintf("undefined %s %q at [%d,%d)", e.Class, e.Name, e.Span.Begin, e.Span.End)
}

// MismatchedTypeError reports that a request's label exists but in a
// different class than expected.
type MismatchedTypeError struct {
	Name     string
	Expected Class
	Actual   Class
	Span     lang.Location
}

func (e *MismatchedTypeError) Error() string {
	return fmt.Sprintf("%q at [%d,%d) is a %s, expected %s", e.Name, e.Span.Begin, e.Span.End, e.Actual, e.Expected)
}

// ValidationErrors aggregates every failure a Validate pass collects, so
// a host diagnostic renderer can report them all at once rather than
// stopping at the first.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d semantic errors, first: %s", len(e.Errors), e.Errors[0].Error())
}

// Unwrap exposes the wrapped errors for errors.Is/As.
func (e *ValidationErrors) Unwrap() []error { return e.Errors }
