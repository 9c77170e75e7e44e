// Package fullspace implements the full-space exploration engine of
// §4.6: every compound state reachable from the network's initial
// state, explored via the shared work-list expander with an identity
// transform.
package fullspace

import (
	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/logging"
	"github.com/viant/fsanet/netstate"
	"github.com/viant/fsanet/statetable"
	"github.com/viant/fsanet/timer"
)

// Result is the full-space artifact: the explored graph, the compound
// state reached at each node in dense-index order, and whether
// exploration ran to completion.
type Result struct {
	Graph    *graph.Graph[netstate.TransEvent]
	States   []netstate.CompoundState
	Complete bool
}

// Explore runs full-space exploration over n from its initial state. If
// pruneToFinal is set, the result graph is reduced to the subgraph that
// can reach a final node, per §4.9's prune.
func Explore(n *netstate.Network, tm *timer.Timer, pruneToFinal bool) Result {
	initial := n.Initial()
	logging.Infof("fullspace: exploring network %q from initial state %x (prune_to_final=%v)", n.Name, initial.Key(), pruneToFinal)

	ex := statetable.Expander[netstate.CompoundState, string, netstate.TransEvent]{
		Step: func(s netstate.CompoundState) []statetable.Successor[netstate.CompoundState, netstate.TransEvent] {
			var out []statetable.Successor[netstate.CompoundState, netstate.TransEvent]
			for _, succ := range n.Step(s) {
				out = append(out, statetable.Successor[netstate.CompoundState, netstate.TransEvent]{
					Label: succ.Event,
					Next:  succ.Next,
				})
			}
			return out
		},
		Transform: func(s netstate.CompoundState) netstate.CompoundState { return s },
		Key:       func(s netstate.CompoundState) string { return s.CanonicalKey() },
	}

	raw := statetable.Run[netstate.CompoundState, string, netstate.TransEvent](ex, initial, tm)
	if !raw.Complete {
		logging.Warnf("fullspace: network %q exploration hit the time budget after %d states, result is partial", n.Name, len(raw.States))
	} else {
		logging.Infof("fullspace: network %q explored %d states, %d arcs", n.Name, len(raw.States), len(raw.Arcs))
	}

	b := graph.NewBuilder[netstate.TransEvent]()
	for i, s := range raw.States {
		kind := graph.Simple
		if s.IsFinal() {
			kind = graph.Final
		}
		b.AddNode(i, kind)
	}
	for _, a := range raw.Arcs {
		b.AddArc(a.From, a.To, a.Label)
	}
	g := b.Build()
	states := raw.States

	if pruneToFinal {
		g, states = graph.Prune(g, states)
	}

	return Result{Graph: g, States: states, Complete: raw.Complete}
}
