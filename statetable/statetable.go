// Package statetable implements the insertion-ordered state table and
// generic work-list expander of §4.5 (the work list is a LIFO stack),
// shared by the exploration engines.
package statetable

import "github.com/viant/fsanet/timer"

// Table is an insertion-ordered map from a canonical state key to a
// dense index.
type Table[K comparable] struct {
	index map[K]int
	order []K
}

// New returns an empty Table.
func New[K comparable]() *Table[K] {
	return &Table[K]{index: map[K]int{}}
}

// InsertOrGet returns k's dense index, assigning a fresh one — the next
// insertion order position — the first time k is seen.
func (t *Table[K]) InsertOrGet(k K) (index int, isNew bool) {
	if idx, ok := t.index[k]; ok {
		return idx, false
	}
	idx := len(t.order)
	t.index[k] = idx
	t.order = append(t.order, k)
	return idx, true
}

// Len returns the number of distinct states recorded.
func (t *Table[K]) Len() int { return len(t.order) }

// At returns the key at a dense index.
func (t *Table[K]) At(i int) K { return t.order[i] }

// Keys returns every key in insertion order.
func (t *Table[K]) Keys() []K { return append([]K(nil), t.order...) }

// Successor is one outgoing transition the expander's Step hook
// produces: an edge label and the raw (pre-transform) next state.
type Successor[S any, L any] struct {
	Label L
	Next  S
}

// Expander drives the work-list exploration of §4.5. K is the canonical,
// comparable key a transformed state hashes to; S is the raw state type
// a Step call consumes and produces; L is the edge label type recorded
// on the built graph.
type Expander[S any, K comparable, L any] struct {
	// Step enumerates a state's enabled successors.
	Step func(S) []Successor[S, L]
	// Transform maps a raw successor state to the (possibly augmented)
	// state actually inserted into the table. Both full-space and
	// linspace pass the identity; linspace applies its observation-index
	// update in Step, where a successor can also be dropped.
	Transform func(S) S
	// Key canonicalizes a (transformed) state into the table's key type.
	Key func(S) K
}

// Node is one expanded state: its dense index and its (transformed)
// value. Whether it is accepting is decided by the caller, since
// finality differs per engine.
type Node[S any] struct {
	Index int
	State S
}

// Arc is one expanded edge, labeled and pointing at a dense index.
type Arc[L any] struct {
	From  int
	To    int
	Label L
}

// Result is the raw product of Run: every distinct state in insertion
// (dense index) order, every arc discovered, and whether the work list
// was fully drained before the timer fired.
type Result[S any, L any] struct {
	States   []S
	Arcs     []Arc[L]
	Complete bool
}

// Run drives the work-list template of §4.5, always popping the most
// recently pushed state next, to completion or until tm reports
// expired. Insertion order, and therefore dense node indices,
// is deterministic for fixed input because Step is required to visit
// successors in declaration order.
func Run[S any, K comparable, L any](ex Expander[S, K, L], initial S, tm *timer.Timer) Result[S, L] {
	table := New[K]()
	idx, _ := table.InsertOrGet(ex.Key(initial))
	states := []S{initial}
	var stack []int
	stack = append(stack, idx)

	var arcs []Arc[L]
	complete := true

	for len(stack) > 0 {
		if tm.Expired() {
			complete = false
			break
		}
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := states[cur]

		for _, succ := range ex.Step(s) {
			next := ex.Transform(succ.Next)
			key := ex.Key(next)
			j, isNew := table.InsertOrGet(key)
			if isNew {
				states = append(states, next)
			}
			arcs = append(arcs, Arc[L]{From: cur, To: j, Label: succ.Label})
			if isNew {
				stack = append(stack, j)
			}
		}
	}

	return Result[S, L]{States: states, Arcs: arcs, Complete: complete}
}
