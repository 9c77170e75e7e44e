package diagnosis

import (
	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/regex"
)

// tryChain finds a maximal run of interior nodes each with in=out=1 and
// no self-loop. If the run is at least two nodes long, it concatenates
// every edge label along the run (including the entry and exit edges)
// into one Chain, drops the interior nodes, and re-emits a single edge
// from the run's external predecessor to its external successor.
func tryChain(g *graph.Graph[regex.Regex], source, sink int) (ng *graph.Graph[regex.Regex], newSource, newSink int, ok bool) {
	n := g.NodeCount()
	eligible := func(i int) bool {
		return i != source && i != sink && g.InDegree(i) == 1 && g.OutDegree(i) == 1 && len(g.SelfLoops(i)) == 0
	}

	visited := make([]bool, n)
	for start := 0; start < n; start++ {
		if visited[start] || !eligible(start) {
			continue
		}
		run := expandChain(g, start, eligible, n)
		for _, c := range run {
			visited[c] = true
		}
		if len(run) < 2 {
			continue
		}

		head, tail := run[0], run[len(run)-1]
		preds := g.FindOrigin(head)
		succs := g.Successors(tail)
		if len(preds) != 1 || len(succs) != 1 {
			continue
		}
		p, q := preds[0], succs[0]

		labels := []regex.Regex{edgeLabel(g, p, head)}
		for i := 0; i < len(run)-1; i++ {
			labels = append(labels, edgeLabel(g, run[i], run[i+1]))
		}
		labels = append(labels, edgeLabel(g, tail, q))

		markers := []int{source, sink, p, q}
		ng, remapped := graph.RemoveNodesKeepMarkers(g, run, markers)
		ng.AddArc(remapped[2], remapped[3], regex.Chain{Items: labels})
		return ng, remapped[0], remapped[1], true
	}
	return nil, 0, 0, false
}

// expandChain walks both directions from start, gathering the maximal
// contiguous run of nodes satisfying eligible and linked by single
// edges.
func expandChain(g *graph.Graph[regex.Regex], start int, eligible func(int) bool, bound int) []int {
	run := []int{start}
	for len(run) <= bound {
		head := run[0]
		preds := g.FindOrigin(head)
		if len(preds) != 1 || !eligible(preds[0]) {
			break
		}
		run = append([]int{preds[0]}, run...)
	}
	for len(run) <= bound {
		tail := run[len(run)-1]
		succs := g.Successors(tail)
		if len(succs) != 1 || !eligible(succs[0]) {
			break
		}
		run = append(run, succs[0])
	}
	return run
}

func edgeLabel(g *graph.Graph[regex.Regex], src, dst int) regex.Regex {
	for _, e := range g.Adjacency[src] {
		if e.Next == dst {
			return e.Label
		}
	}
	return regex.Value{}
}

// tryParallel collapses the first ordered pair (u, v), u != v, backed by
// two or more edges into one edge labeled Alternative. Self-loops are
// left for the pivot rule's loop* construction.
func tryParallel(g *graph.Graph[regex.Regex]) bool {
	for u, edges := range g.Adjacency {
		counts := map[int]int{}
		for _, e := range edges {
			if e.Next == u {
				continue
			}
			counts[e.Next]++
		}
		for v, c := range counts {
			if c < 2 {
				continue
			}
			labels := g.RemoveArc(u, v)
			g.AddArc(u, v, regex.Alternative{Items: labels})
			return true
		}
	}
	return false
}

// doPivot eliminates the interior node maximizing in-degree plus
// out-degree, wiring every predecessor directly to every successor with
// a Chain that threads through the eliminated node's self-loops (if
// any): ZeroMore of the label when there is one self-loop, ZeroMore of an
// Alternative of the labels when there are several.
func doPivot(g *graph.Graph[regex.Regex], source, sink int) (*graph.Graph[regex.Regex], int, int) {
	n := g.NodeCount()
	nnode, bestScore := -1, -1
	for i := 0; i < n; i++ {
		if i == source || i == sink {
			continue
		}
		if score := g.InDegree(i) + g.OutDegree(i); score > bestScore {
			bestScore, nnode = score, i
		}
	}

	var loop regex.Regex
	if selfLabels := g.SelfLoops(nnode); len(selfLabels) > 0 {
		if len(selfLabels) == 1 {
			loop = regex.ZeroMore{Item: selfLabels[0]}
		} else {
			loop = regex.ZeroMore{Item: regex.Alternative{Items: selfLabels}}
		}
	}

	preds := g.FindOrigin(nnode)
	succs := g.Successors(nnode)

	type pendingArc struct {
		p, q  int
		label regex.Regex
	}
	var arcs []pendingArc
	for _, p := range preds {
		pLabel := edgeLabel(g, p, nnode)
		for _, q := range succs {
			qLabel := edgeLabel(g, nnode, q)
			items := []regex.Regex{pLabel}
			if loop != nil {
				items = append(items, loop)
			}
			items = append(items, qLabel)
			arcs = append(arcs, pendingArc{p, q, regex.Chain{Items: items}})
		}
	}

	markers := append([]int{source, sink}, preds...)
	markers = append(markers, succs...)
	ng, remapped := graph.RemoveNodesKeepMarkers(g, []int{nnode}, markers)

	newSource, newSink := remapped[0], remapped[1]
	predIndex := make(map[int]int, len(preds))
	for i, p := range preds {
		predIndex[p] = remapped[2+i]
	}
	succIndex := make(map[int]int, len(succs))
	for i, q := range succs {
		succIndex[q] = remapped[2+len(preds)+i]
	}

	for _, a := range arcs {
		ng.AddArc(predIndex[a.p], succIndex[a.q], a.label)
	}

	return ng, newSource, newSink
}
