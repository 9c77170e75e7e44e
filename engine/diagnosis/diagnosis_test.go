package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/netstate"
	"github.com/viant/fsanet/regex"
	"github.com/viant/fsanet/timer"
)

// buildFixtureGraph mirrors §8 scenario 6: 8 nodes, arcs
// (0,1,None),(1,2,None),(2,3,0),(2,4,None),(3,5,1),(5,6,0),(5,7,None),
// finals {3,4,6,7}.
func buildFixtureGraph() *graph.Graph[netstate.TransEvent] {
	rel0, rel1 := 0, 1
	b := graph.NewBuilder[netstate.TransEvent]()
	finals := map[int]bool{3: true, 4: true, 6: true, 7: true}
	for i := 0; i < 8; i++ {
		kind := graph.Simple
		if finals[i] {
			kind = graph.Final
		}
		b.AddNode(i, kind)
	}
	b.AddArc(0, 1, netstate.TransEvent{})
	b.AddArc(1, 2, netstate.TransEvent{})
	b.AddArc(2, 3, netstate.TransEvent{Rel: &rel0})
	b.AddArc(2, 4, netstate.TransEvent{})
	b.AddArc(3, 5, netstate.TransEvent{Rel: &rel1})
	b.AddArc(5, 6, netstate.TransEvent{Rel: &rel0})
	b.AddArc(5, 7, netstate.TransEvent{})
	return b.Build()
}

func TestDiagnoseReducesToSingleRegexAndTerminates(t *testing.T) {
	g := buildFixtureGraph()
	relevant := map[int]bool{0: true, 1: true}
	tm := timer.Unbounded().New()

	res := Diagnose(g, 0, relevant, tm)
	require.True(t, res.Complete)
	require.False(t, res.Timeout)
	require.NotNil(t, res.Regex)

	rendered := regex.Render(res.Regex, []string{"r0", "r1"})
	assert.NotEmpty(t, rendered)
}

func TestDiagnoseIsDeterministic(t *testing.T) {
	relevant := map[int]bool{0: true, 1: true}
	tm := timer.Unbounded().New()

	r1 := Diagnose(buildFixtureGraph(), 0, relevant, tm)
	r2 := Diagnose(buildFixtureGraph(), 0, relevant, tm)
	assert.Equal(t, regex.Render(r1.Regex, nil), regex.Render(r2.Regex, nil))
}

func TestDiagnoseHonorsExpiredTimer(t *testing.T) {
	g := buildFixtureGraph()
	tm := timer.NewBudget(1).New()
	for !tm.Expired() {
	}
	res := Diagnose(g, 0, map[int]bool{0: true, 1: true}, tm)
	assert.False(t, res.Complete)
	assert.True(t, res.Timeout)
	assert.Nil(t, res.Regex)
}
