// Package graph implements the labeled directed multigraph core of §4.9:
// build from accumulated nodes/arcs, prune to final-reaching nodes,
// remap indices after node deletion, arc add/remove, predecessor lookup,
// and source/sink wrapping. The type is generic over its edge label so
// full-space, linspace and the diagnosis reducer share one
// implementation instead of three hand-rolled copies.
package graph

// Kind tags a node as an ordinary state or an accepting one.
type Kind int

const (
	// Simple is an ordinary node.
	Simple Kind = iota
	// Final is an accepting node.
	Final
)

func (k Kind) String() string {
	if k == Final {
		return "Final"
	}
	return "Simple"
}

// Edge is one arc's target and label. Multi-edges between the same pair
// of nodes are permitted — Adjacency simply holds more than one Edge
// with the same Next.
type Edge[T any] struct {
	Next  int
	Label T
}

// Graph is a labeled directed multigraph. It exclusively owns its nodes
// and edges; any parallel per-node payload the caller wants to keep in
// lockstep (e.g. a compound-state vector) is the caller's
// responsibility, as §3 describes.
type Graph[T any] struct {
	Nodes     []Kind
	Adjacency [][]Edge[T]
}

// New returns an empty graph.
func New[T any]() *Graph[T] { return &Graph[T]{} }

// NodeCount returns the number of nodes.
func (g *Graph[T]) NodeCount() int { return len(g.Nodes) }

// AddArc appends a single arc.
func (g *Graph[T]) AddArc(src, dst int, label T) {
	g.Adjacency[src] = append(g.Adjacency[src], Edge[T]{Next: dst, Label: label})
}

// RemoveArc removes and returns every arc from src to dst.
func (g *Graph[T]) RemoveArc(src, dst int) []T {
	var removed []T
	kept := g.Adjacency[src][:0]
	for _, e := range g.Adjacency[src] {
		if e.Next == dst {
			removed = append(removed, e.Label)
		} else {
			kept = append(kept, e)
		}
	}
	g.Adjacency[src] = kept
	return removed
}

// FindOrigin returns every predecessor of n other than n itself — the
// pivot rule's p and the chain rule's chain start both come from here.
func (g *Graph[T]) FindOrigin(n int) []int {
	var preds []int
	seen := map[int]bool{}
	for i, edges := range g.Adjacency {
		if i == n {
			continue
		}
		for _, e := range edges {
			if e.Next == n && !seen[i] {
				seen[i] = true
				preds = append(preds, i)
			}
		}
	}
	return preds
}

// Successors returns every distinct node n has an arc to, other than n
// itself.
func (g *Graph[T]) Successors(n int) []int {
	var next []int
	seen := map[int]bool{}
	for _, e := range g.Adjacency[n] {
		if e.Next != n && !seen[e.Next] {
			seen[e.Next] = true
			next = append(next, e.Next)
		}
	}
	return next
}

// InDegree counts arcs targeting n, counting multiplicities, excluding
// self-loops.
func (g *Graph[T]) InDegree(n int) int {
	count := 0
	for i, edges := range g.Adjacency {
		if i == n {
			continue
		}
		for _, e := range edges {
			if e.Next == n {
				count++
			}
		}
	}
	return count
}

// OutDegree counts arcs leaving n, counting multiplicities, excluding
// self-loops.
func (g *Graph[T]) OutDegree(n int) int {
	count := 0
	for _, e := range g.Adjacency[n] {
		if e.Next != n {
			count++
		}
	}
	return count
}

// SelfLoops returns the labels of every arc from n to itself.
func (g *Graph[T]) SelfLoops(n int) []T {
	var labels []T
	for _, e := range g.Adjacency[n] {
		if e.Next == n {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// Builder accumulates nodes keyed by an external index (so a caller can
// add them out of order) and arcs, then emits a Graph whose nodes are
// sorted by external index and whose arcs with an out-of-range endpoint
// are silently dropped, per §4.9's build_graph contract.
type Builder[T any] struct {
	nodes   map[int]Kind
	maxNode int
	arcs    []builderArc[T]
}

type builderArc[T any] struct {
	src, dst int
	label    T
}

// NewBuilder returns an empty Builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{nodes: map[int]Kind{}}
}

// AddNode records a node's kind at its external index.
func (b *Builder[T]) AddNode(externalIndex int, kind Kind) {
	b.nodes[externalIndex] = kind
	if externalIndex+1 > b.maxNode {
		b.maxNode = externalIndex + 1
	}
}

// AddArc records an arc to be emitted by Build.
func (b *Builder[T]) AddArc(src, dst int, label T) {
	b.arcs = append(b.arcs, builderArc[T]{src: src, dst: dst, label: label})
}

// Build emits the accumulated graph.
func (b *Builder[T]) Build() *Graph[T] {
	n := b.maxNode
	nodes := make([]Kind, n)
	for idx, kind := range b.nodes {
		if idx >= 0 && idx < n {
			nodes[idx] = kind
		}
	}
	adjacency := make([][]Edge[T], n)
	for _, a := range b.arcs {
		if a.src < 0 || a.src >= n || a.dst < 0 || a.dst >= n {
			continue
		}
		adjacency[a.src] = append(adjacency[a.src], Edge[T]{Next: a.dst, Label: a.label})
	}
	return &Graph[T]{Nodes: nodes, Adjacency: adjacency}
}

// Prune removes every node that cannot reach a Final node (computed by
// reverse reachability from the Final set), remapping arc endpoints and
// filtering the parallel states slice in lockstep.
func Prune[T any, S any](g *Graph[T], states []S) (*Graph[T], []S) {
	n := len(g.Nodes)
	reach := make([]bool, n)
	var stack []int
	for i, k := range g.Nodes {
		if k == Final {
			reach[i] = true
			stack = append(stack, i)
		}
	}

	rev := make([][]int, n)
	for src, edges := range g.Adjacency {
		for _, e := range edges {
			rev[e.Next] = append(rev[e.Next], src)
		}
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range rev[cur] {
			if !reach[p] {
				reach[p] = true
				stack = append(stack, p)
			}
		}
	}

	remap := make([]int, n)
	newCount := 0
	for i := range g.Nodes {
		if reach[i] {
			remap[i] = newCount
			newCount++
		} else {
			remap[i] = -1
		}
	}

	newNodes := make([]Kind, newCount)
	newStates := make([]S, newCount)
	for i := range g.Nodes {
		if reach[i] {
			newNodes[remap[i]] = g.Nodes[i]
			newStates[remap[i]] = states[i]
		}
	}

	newAdj := make([][]Edge[T], newCount)
	for i, edges := range g.Adjacency {
		if !reach[i] {
			continue
		}
		for _, e := range edges {
			if reach[e.Next] {
				newAdj[remap[i]] = append(newAdj[remap[i]], Edge[T]{Next: remap[e.Next], Label: e.Label})
			}
		}
	}

	return &Graph[T]{Nodes: newNodes, Adjacency: newAdj}, newStates
}

// RemoveNodes returns the graph minus the named nodes and every edge
// incident to them, along with (src, dst) remapped into the new index
// space (-1 if either fell inside the removed set). The diagnosis
// reducer uses the more general RemoveNodesKeepMarkers instead.
func RemoveNodes[T any](g *Graph[T], drop []int, src, dst int) (ng *Graph[T], newSrc, newDst int) {
	dropSet := make(map[int]bool, len(drop))
	for _, d := range drop {
		dropSet[d] = true
	}

	n := len(g.Nodes)
	remap := make([]int, n)
	newCount := 0
	for i := 0; i < n; i++ {
		if dropSet[i] {
			remap[i] = -1
			continue
		}
		remap[i] = newCount
		newCount++
	}

	newNodes := make([]Kind, newCount)
	for i := 0; i < n; i++ {
		if remap[i] >= 0 {
			newNodes[remap[i]] = g.Nodes[i]
		}
	}

	newAdj := make([][]Edge[T], newCount)
	for i, edges := range g.Adjacency {
		if remap[i] < 0 {
			continue
		}
		for _, e := range edges {
			if remap[e.Next] < 0 {
				continue
			}
			newAdj[remap[i]] = append(newAdj[remap[i]], Edge[T]{Next: remap[e.Next], Label: e.Label})
		}
	}

	newSrc, newDst = -1, -1
	if src >= 0 {
		newSrc = remap[src]
	}
	if dst >= 0 {
		newDst = remap[dst]
	}
	return &Graph[T]{Nodes: newNodes, Adjacency: newAdj}, newSrc, newDst
}

// RemoveNodesKeepMarkers behaves like RemoveNodes but remaps an arbitrary
// set of marker indices at once (-1 for any marker that fell inside the
// removed set). The chain rule uses this to carry the reduction's
// evolving source and sink alongside the chain's own endpoints through a
// single removal.
func RemoveNodesKeepMarkers[T any](g *Graph[T], drop []int, markers []int) (ng *Graph[T], newMarkers []int) {
	dropSet := make(map[int]bool, len(drop))
	for _, d := range drop {
		dropSet[d] = true
	}

	n := len(g.Nodes)
	remap := make([]int, n)
	newCount := 0
	for i := 0; i < n; i++ {
		if dropSet[i] {
			remap[i] = -1
			continue
		}
		remap[i] = newCount
		newCount++
	}

	newNodes := make([]Kind, newCount)
	for i := 0; i < n; i++ {
		if remap[i] >= 0 {
			newNodes[remap[i]] = g.Nodes[i]
		}
	}

	newAdj := make([][]Edge[T], newCount)
	for i, edges := range g.Adjacency {
		if remap[i] < 0 {
			continue
		}
		for _, e := range edges {
			if remap[e.Next] < 0 {
				continue
			}
			newAdj[remap[i]] = append(newAdj[remap[i]], Edge[T]{Next: remap[e.Next], Label: e.Label})
		}
	}

	newMarkers = make([]int, len(markers))
	for i, m := range markers {
		if m < 0 {
			newMarkers[i] = -1
			continue
		}
		newMarkers[i] = remap[m]
	}
	return &Graph[T]{Nodes: newNodes, Adjacency: newAdj}, newMarkers
}

// AddFakeNodes prepends a fresh source with an epsilon arc to root and
// appends a fresh sink with an epsilon arc from every Final node, as
// §4.8 step 2 requires before state elimination begins.
func AddFakeNodes[T any](g *Graph[T], root int, epsilon T) (ng *Graph[T], source, sink int) {
	n := len(g.Nodes)
	newNodes := make([]Kind, n+2)
	newNodes[0] = Simple
	copy(newNodes[1:n+1], g.Nodes)
	newNodes[n+1] = Final

	newAdj := make([][]Edge[T], n+2)
	for i, edges := range g.Adjacency {
		shifted := make([]Edge[T], len(edges))
		for j, e := range edges {
			shifted[j] = Edge[T]{Next: e.Next + 1, Label: e.Label}
		}
		newAdj[i+1] = shifted
	}
	newAdj[0] = []Edge[T]{{Next: root + 1, Label: epsilon}}
	for i, k := range g.Nodes {
		if k == Final {
			newAdj[i+1] = append(newAdj[i+1], Edge[T]{Next: n + 1, Label: epsilon})
		}
	}

	return &Graph[T]{Nodes: newNodes, Adjacency: newAdj}, 0, n + 1
}
