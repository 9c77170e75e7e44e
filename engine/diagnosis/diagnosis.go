// Package diagnosis implements the state-elimination algorithm of §4.8:
// given a linspace graph, reduce it to a single source-to-sink edge
// carrying a regex over relevance labels, then prune away the
// Value([]) placeholders that fix_empty targets.
package diagnosis

import (
	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/logging"
	"github.com/viant/fsanet/netstate"
	"github.com/viant/fsanet/regex"
	"github.com/viant/fsanet/timer"
)

// Result is what one diagnosis run produces: the reduced regex (nil if
// no final-reaching trace exists), whether reduction ran to completion,
// and whether a time budget cut it short.
type Result struct {
	Regex    regex.Regex
	Complete bool
	Timeout  bool
}

// Reduce runs the chain/parallel/pivot reduction loop over g (already
// carrying regex labels from Step1, wrapped with a fake source/sink)
// starting at source, ending at sink, honoring tm's cancellation.
func Reduce(g *graph.Graph[regex.Regex], source, sink int, tm *timer.Timer) Result {
	cur := g
	src, snk := source, sink
	maxIter := cur.NodeCount() + 1

	for iter := 0; iter < maxIter; iter++ {
		if edgeCount(cur) <= 1 {
			logging.Infof("diagnosis: reduction converged after %d iterations", iter)
			return Result{Regex: finalEdge(cur, src, snk), Complete: true}
		}
		if tm.Expired() {
			logging.Warnf("diagnosis: reduction hit the time budget after %d iterations", iter)
			return Result{Regex: nil, Complete: false, Timeout: true}
		}

		if ng, ns, nk, ok := tryChain(cur, src, snk); ok {
			cur, src, snk = ng, ns, nk
			continue
		}
		if tryParallel(cur) {
			continue
		}
		cur, src, snk = doPivot(cur, src, snk)
	}

	return Result{Regex: finalEdge(cur, src, snk), Complete: true}
}

func edgeCount[T any](g *graph.Graph[T]) int {
	total := 0
	for _, edges := range g.Adjacency {
		total += len(edges)
	}
	return total
}

func finalEdge(g *graph.Graph[regex.Regex], src, snk int) regex.Regex {
	for _, e := range g.Adjacency[src] {
		if e.Next == snk {
			return e.Label
		}
	}
	return nil
}

// DiagnoseFromRelGraph runs the §4.8 pipeline over a graph already
// projected to rel_id labels (the load-diagnosis path: a previously
// persisted and reloaded linspace graph).
func DiagnoseFromRelGraph(g *graph.Graph[*int], root int, relevant map[int]bool, tm *timer.Timer) Result {
	logging.Infof("diagnosis: reducing loaded graph with %d nodes against %d relevance labels", g.NodeCount(), len(relevant))
	labeled := buildEdgeLabelsFromRel(g, relevant)
	wrapped, source, sink := graph.AddFakeNodes[regex.Regex](labeled, root, regex.Value{})
	res := Reduce(wrapped, source, sink, tm)
	if !res.Complete {
		return res
	}
	return Result{Regex: regex.FixEmpty(res.Regex), Complete: true}
}

func buildEdgeLabelsFromRel(g *graph.Graph[*int], relevant map[int]bool) *graph.Graph[regex.Regex] {
	out := &graph.Graph[regex.Regex]{
		Nodes:     append([]graph.Kind(nil), g.Nodes...),
		Adjacency: make([][]graph.Edge[regex.Regex], len(g.Adjacency)),
	}
	for i, edges := range g.Adjacency {
		converted := make([]graph.Edge[regex.Regex], len(edges))
		for j, e := range edges {
			var v regex.Value
			if e.Label != nil && relevant[*e.Label] {
				v = regex.Value{Rel: []int{*e.Label}}
			}
			converted[j] = graph.Edge[regex.Regex]{Next: e.Next, Label: v}
		}
		out.Adjacency[i] = converted
	}
	return out
}

// Diagnose runs the full §4.8 pipeline: Step1 edge conversion, source/
// sink wrapping, reduction, and fix_empty. root is the linspace graph's
// initial-state node index.
func Diagnose(g *graph.Graph[netstate.TransEvent], root int, relevant map[int]bool, tm *timer.Timer) Result {
	logging.Infof("diagnosis: reducing graph with %d nodes against %d relevance labels", g.NodeCount(), len(relevant))
	labeled := BuildEdgeLabels(g, relevant)
	wrapped, source, sink := graph.AddFakeNodes[regex.Regex](labeled, root, regex.Value{})
	res := Reduce(wrapped, source, sink, tm)
	if !res.Complete {
		return res
	}
	return Result{Regex: regex.FixEmpty(res.Regex), Complete: true}
}

// BuildEdgeLabels converts every TransEvent arc label in a linspace
// graph to a regex.Value per Step1: Value([rel]) if the transition
// carries a relevance label marked in relevant, else Value([]). The result
// is widened to graph.Graph[regex.Regex] so the reduction loop can
// later store composite Chain/Alternative/Optional/ZeroMore labels in
// the same adjacency structure.
func BuildEdgeLabels(g *graph.Graph[netstate.TransEvent], relevant map[int]bool) *graph.Graph[regex.Regex] {
	out := &graph.Graph[regex.Regex]{
		Nodes:     append([]graph.Kind(nil), g.Nodes...),
		Adjacency: make([][]graph.Edge[regex.Regex], len(g.Adjacency)),
	}
	for i, edges := range g.Adjacency {
		converted := make([]graph.Edge[regex.Regex], len(edges))
		for j, e := range edges {
			var v regex.Value
			if e.Label.Rel != nil && relevant[*e.Label.Rel] {
				v = regex.Value{Rel: []int{*e.Label.Rel}}
			}
			converted[j] = graph.Edge[regex.Regex]{Next: e.Next, Label: v}
		}
		out.Adjacency[i] = converted
	}
	return out
}
