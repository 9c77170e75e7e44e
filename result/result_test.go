package result

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/netstate"
)

func buildSampleGraph() *graph.Graph[netstate.TransEvent] {
	rel := 0
	b := graph.NewBuilder[netstate.TransEvent]()
	b.AddNode(0, graph.Simple)
	b.AddNode(1, graph.Final)
	b.AddArc(0, 1, netstate.TransEvent{OwnerAutomaton: 0, TransitionID: 0, Rel: &rel})
	return b.Build()
}

func TestEncodeJSONProducesOneEntryPerNetwork(t *testing.T) {
	g := buildSampleGraph()
	exp := ToFullSpaceExport(g, true)
	docs := []NetworkResult{{
		Name:    "Simple",
		Exports: []ExportResult{Ok(Export{FullSpace: &exp})},
	}}

	out, err := EncodeJSON(docs, false)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"name":"Simple"`)
	assert.Contains(t, string(out), `"FullSpace"`)
}

func TestEncodeJSONPrettyIndents(t *testing.T) {
	docs := []NetworkResult{{Name: "N", Exports: []ExportResult{Err("boom")}}}
	out, err := EncodeJSON(docs, true)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n")
	assert.Contains(t, string(out), `"Error"`)
}

func TestDumpYAMLRenders(t *testing.T) {
	docs := []NetworkResult{{Name: "N", Exports: nil}}
	out, err := DumpYAML(docs)
	require.NoError(t, err)
	assert.Contains(t, string(out), "name: N")
}

func TestPersistedGraphSaveLoadRoundTrips(t *testing.T) {
	g := buildSampleGraph()
	path := "file://" + filepath.Join(t.TempDir(), "linspace.json")

	err := Save(context.Background(), path, g)
	require.NoError(t, err)

	loaded, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Simple", "Final"}, loaded.Nodes)
	require.Len(t, loaded.Adjacent[0], 1)
	require.NotNil(t, loaded.Adjacent[0][0].Label)
	assert.Equal(t, 0, *loaded.Adjacent[0][0].Label)
}

func TestToGraphRebuildsFinalKinds(t *testing.T) {
	pg := ToPersistedGraph(buildSampleGraph())
	rg := pg.ToGraph()
	require.Equal(t, 2, rg.NodeCount())
	assert.Equal(t, graph.Final, rg.Nodes[1])
}
