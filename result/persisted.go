package result

import (
	"bytes"
	"context"

	goccyjson "github.com/goccy/go-json"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/netstate"
)

// PersistedArc is one arc of a persisted linspace graph: label is the
// rel_id projection of the original TransEvent, or nil.
type PersistedArc struct {
	Next  int  `json:"next"`
	Label *int `json:"label"`
}

// PersistedGraph is §6's save/load format for a linspace graph:
// `{nodes: [Simple|Final], adjacent: [[{next, label}]]}`.
type PersistedGraph struct {
	Nodes    []string         `json:"nodes"`
	Adjacent [][]PersistedArc `json:"adjacent"`
}

// ToPersistedGraph projects a linspace graph into the save format,
// dropping everything but each arc's relevance-label id.
func ToPersistedGraph(g *graph.Graph[netstate.TransEvent]) PersistedGraph {
	pg := PersistedGraph{
		Nodes:    make([]string, len(g.Nodes)),
		Adjacent: make([][]PersistedArc, len(g.Adjacency)),
	}
	for i, k := range g.Nodes {
		pg.Nodes[i] = k.String()
	}
	for i, edges := range g.Adjacency {
		arcs := make([]PersistedArc, len(edges))
		for j, e := range edges {
			arcs[j] = PersistedArc{Next: e.Next, Label: e.Label.Rel}
		}
		pg.Adjacent[i] = arcs
	}
	return pg
}

// ToGraph rebuilds a graph.Graph[*int] from a persisted document, ready
// for the diagnosis engine's Step1 projection.
func (pg PersistedGraph) ToGraph() *graph.Graph[*int] {
	b := graph.NewBuilder[*int]()
	for i, n := range pg.Nodes {
		kind := graph.Simple
		if n == "Final" {
			kind = graph.Final
		}
		b.AddNode(i, kind)
	}
	for i, arcs := range pg.Adjacent {
		for _, a := range arcs {
			b.AddArc(i, a.Next, a.Label)
		}
	}
	return b.Build()
}

// Save writes a linspace graph's persisted form to path via afs.
func Save(ctx context.Context, path string, g *graph.Graph[netstate.TransEvent]) error {
	data, err := goccyjson.Marshal(ToPersistedGraph(g))
	if err != nil {
		return err
	}
	fs := afs.New()
	return fs.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewReader(data))
}

// Load reads a persisted linspace graph back from path via afs.
func Load(ctx context.Context, path string) (PersistedGraph, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, path)
	if err != nil {
		return PersistedGraph{}, err
	}
	var pg PersistedGraph
	if err := goccyjson.Unmarshal(data, &pg); err != nil {
		return PersistedGraph{}, err
	}
	return pg, nil
}
