// Package linspace implements the observation-indexed exploration
// engine of §4.7: the subspace of the full reachable state space whose
// observation sequence matches a given prefix of the target sequence.
package linspace

import (
	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/logging"
	"github.com/viant/fsanet/netstate"
	"github.com/viant/fsanet/statetable"
	"github.com/viant/fsanet/timer"
)

// Result is the linspace artifact: the explored graph, the
// index-augmented compound state at each node, and whether exploration
// ran to completion.
type Result struct {
	Graph    *graph.Graph[netstate.TransEvent]
	States   []netstate.CompoundState
	Complete bool
}

// Explore runs linspace exploration over n against the observation
// sequence obs (a sequence of obs-label ids). A node is final iff its
// underlying compound state is final and its observation index equals
// len(obs).
func Explore(n *netstate.Network, obs []int, tm *timer.Timer) Result {
	m := len(obs)
	logging.Infof("linspace: exploring network %q against %d-long observation sequence", n.Name, m)

	ex := statetable.Expander[netstate.CompoundState, string, netstate.TransEvent]{
		Step: func(s netstate.CompoundState) []statetable.Successor[netstate.CompoundState, netstate.TransEvent] {
			var out []statetable.Successor[netstate.CompoundState, netstate.TransEvent]
			for _, succ := range n.Step(s) {
				next := succ.Next
				if succ.Event.Obs != nil {
					k := s.Index
					if k >= m || obs[k] != *succ.Event.Obs {
						continue
					}
					next.Index = k + 1
				} else {
					next.Index = s.Index
				}
				out = append(out, statetable.Successor[netstate.CompoundState, netstate.TransEvent]{
					Label: succ.Event,
					Next:  next,
				})
			}
			return out
		},
		Transform: func(s netstate.CompoundState) netstate.CompoundState { return s },
		Key:       func(s netstate.CompoundState) string { return s.CanonicalKey() },
	}

	initial := n.Initial()
	raw := statetable.Run[netstate.CompoundState, string, netstate.TransEvent](ex, initial, tm)
	if !raw.Complete {
		logging.Warnf("linspace: network %q exploration hit the time budget after %d states, result is partial", n.Name, len(raw.States))
	} else {
		logging.Infof("linspace: network %q explored %d states, %d arcs", n.Name, len(raw.States), len(raw.Arcs))
	}

	b := graph.NewBuilder[netstate.TransEvent]()
	for i, s := range raw.States {
		kind := graph.Simple
		if s.IsFinal() && s.Index == m {
			kind = graph.Final
		}
		b.AddNode(i, kind)
	}
	for _, a := range raw.Arcs {
		b.AddArc(a.From, a.To, a.Label)
	}

	return Result{Graph: b.Build(), States: raw.States, Complete: raw.Complete}
}
