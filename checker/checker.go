// Package checker implements the connectivity checker (§4.2) and the
// link checker (§4.3), the two validation phases that run after
// compilation and before any exploration engine.
package checker

import (
	"fmt"

	"github.com/viant/fsanet/logging"
	"github.com/viant/fsanet/netstate"
)

// GraphError reports that an automaton declares states never reachable
// by forward BFS from its initial state.
type GraphError struct {
	Automaton string
	Unreached []string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("automaton %q has unreachable states: %v", e.Automaton, e.Unreached)
}

// CheckConnectivity runs forward BFS from each automaton's initial state
// and reports every state never visited. An automaton with no
// unreachable states contributes no error.
func CheckConnectivity(net *netstate.Network) []*GraphError {
	var errs []*GraphError
	for _, a := range net.Automata {
		if unreached := unreachedStates(a); len(unreached) > 0 {
			errs = append(errs, &GraphError{Automaton: a.Name, Unreached: unreached})
		}
	}
	if len(errs) == 0 {
		logging.Infof("connectivity check: network %q clean, %d automata", net.Name, len(net.Automata))
	} else {
		for _, e := range errs {
			logging.Errorf("connectivity check: %v", e)
		}
	}
	return errs
}

func unreachedStates(a *netstate.Automaton) []string {
	n := len(a.StateNames)
	visited := make([]bool, n)
	queue := []int{a.InitialState}
	visited[a.InitialState] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, arc := range a.Adjacency[cur] {
			if !visited[arc.Next] {
				visited[arc.Next] = true
				queue = append(queue, arc.Next)
			}
		}
	}
	var unreached []string
	for i, v := range visited {
		if !v {
			unreached = append(unreached, a.StateNames[i])
		}
	}
	return unreached
}

// NotInputError reports a transition using a link as its input even
// though the link's declared destination is a different automaton.
type NotInputError struct {
	Automaton string
	Link      string
}

func (e *NotInputError) Error() string {
	return fmt.Sprintf("automaton %q is not link %q's destination, cannot use it as input", e.Automaton, e.Link)
}

// NotOutputError reports a transition using a link as an output even
// though the link's declared source is a different automaton.
type NotOutputError struct {
	Automaton string
	Link      string
}

func (e *NotOutputError) Error() string {
	return fmt.Sprintf("automaton %q is not link %q's source, cannot use it as output", e.Automaton, e.Link)
}

// MultipleLinkUseError reports that an automaton's transitions touch the
// same link more than once in aggregate.
type MultipleLinkUseError struct {
	Automaton string
	Link      string
	Count     int
}

func (e *MultipleLinkUseError) Error() string {
	return fmt.Sprintf("automaton %q uses link %q %d times, at most once is allowed", e.Automaton, e.Link, e.Count)
}

type autoLinkKey struct {
	automaton int
	link      int
}

// CheckLinks verifies every transition's input/output link orientation
// and that no (automaton, link) pair is exercised by more than one
// transition usage across the network.
func CheckLinks(net *netstate.Network) []error {
	var errs []error
	usage := map[autoLinkKey]int{}

	for ai, a := range net.Automata {
		for _, arcs := range a.Adjacency {
			for _, arc := range arcs {
				t := arc.Transition
				if t.Input != nil {
					link := net.Links[t.Input.Link]
					if link.Dst != ai {
						errs = append(errs, &NotInputError{Automaton: a.Name, Link: link.Name})
					}
					usage[autoLinkKey{ai, t.Input.Link}]++
				}
				for _, o := range t.Outputs {
					link := net.Links[o.Link]
					if link.Src != ai {
						errs = append(errs, &NotOutputError{Automaton: a.Name, Link: link.Name})
					}
					usage[autoLinkKey{ai, o.Link}]++
				}
			}
		}
	}

	for key, count := range usage {
		if count > 1 {
			errs = append(errs, &MultipleLinkUseError{
				Automaton: net.Automata[key.automaton].Name,
				Link:      net.Links[key.link].Name,
				Count:     count,
			})
		}
	}

	if len(errs) == 0 {
		logging.Infof("link check: network %q clean, %d links", net.Name, len(net.Links))
	} else {
		for _, e := range errs {
			logging.Errorf("link check: %v", e)
		}
	}
	return errs
}
