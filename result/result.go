// Package result builds and serializes the JSON documents external
// callers consume (§6): one entry per network, each export tagged
// FullSpace, LinSpace, or Diagnosis, and the persisted-graph format the
// linspace save/load round trip uses.
package result

import (
	"bytes"

	goccyjson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/viant/fsanet/graph"
	"github.com/viant/fsanet/netstate"
)

// TransEventExport is the JSON projection of a netstate.TransEvent.
type TransEventExport struct {
	Automaton  int  `json:"automaton" yaml:"automaton"`
	Transition int  `json:"transition" yaml:"transition"`
	Obs        *int `json:"obs,omitempty" yaml:"obs,omitempty"`
	Rel        *int `json:"rel,omitempty" yaml:"rel,omitempty"`
}

// ArcExport is one labeled edge in an exported graph.
type ArcExport struct {
	Next  int              `json:"next" yaml:"next"`
	Label TransEventExport `json:"label" yaml:"label"`
}

// FullSpaceExport is the FullSpace-tagged export payload.
type FullSpaceExport struct {
	Nodes    []string      `json:"nodes" yaml:"nodes"`
	Adjacent [][]ArcExport `json:"adjacent" yaml:"adjacent"`
	Complete bool          `json:"complete" yaml:"complete"`
}

// LinSpaceExport is the LinSpace-tagged export payload. Indices mirror
// each node's observation-progress counter alongside its graph role.
type LinSpaceExport struct {
	Nodes    []string      `json:"nodes" yaml:"nodes"`
	Adjacent [][]ArcExport `json:"adjacent" yaml:"adjacent"`
	Index    []int         `json:"index" yaml:"index"`
	Complete bool          `json:"complete" yaml:"complete"`
	SavedTo  *string       `json:"savedTo,omitempty" yaml:"savedTo,omitempty"`
}

// DiagnosisExport is the Diagnosis-tagged export payload.
type DiagnosisExport struct {
	Regex    string `json:"regex" yaml:"regex"`
	Complete bool   `json:"complete" yaml:"complete"`
	Timeout  bool   `json:"timeout" yaml:"timeout"`
}

// Export is the tagged union of the three engine outputs. At most one
// field is set, mirroring the reference's externally-tagged enum.
type Export struct {
	FullSpace *FullSpaceExport `json:"FullSpace,omitempty" yaml:"FullSpace,omitempty"`
	LinSpace  *LinSpaceExport  `json:"LinSpace,omitempty" yaml:"LinSpace,omitempty"`
	Diagnosis *DiagnosisExport `json:"Diagnosis,omitempty" yaml:"Diagnosis,omitempty"`
}

// ExportResult is either a successful Export or an error message.
type ExportResult struct {
	Success *Export `json:"Success,omitempty" yaml:"Success,omitempty"`
	Error   *string `json:"Error,omitempty" yaml:"Error,omitempty"`
}

// Ok wraps a successful export.
func Ok(e Export) ExportResult { return ExportResult{Success: &e} }

// Err wraps a failure message.
func Err(msg string) ExportResult { return ExportResult{Error: &msg} }

// NetworkResult is one entry of the top-level result array.
type NetworkResult struct {
	Name    string         `json:"name" yaml:"name"`
	Exports []ExportResult `json:"exports" yaml:"exports"`
}

// ToFullSpaceExport projects a compiled graph into its JSON form.
func ToFullSpaceExport(g *graph.Graph[netstate.TransEvent], complete bool) FullSpaceExport {
	nodes, adjacent := projectGraph(g)
	return FullSpaceExport{Nodes: nodes, Adjacent: adjacent, Complete: complete}
}

// ToLinSpaceExport projects a compiled linspace graph, its per-node
// observation index, and optional save-path annotation.
func ToLinSpaceExport(g *graph.Graph[netstate.TransEvent], states []netstate.CompoundState, complete bool, savedTo *string) LinSpaceExport {
	nodes, adjacent := projectGraph(g)
	index := make([]int, len(states))
	for i, s := range states {
		index[i] = s.Index
	}
	return LinSpaceExport{Nodes: nodes, Adjacent: adjacent, Index: index, Complete: complete, SavedTo: savedTo}
}

func projectGraph(g *graph.Graph[netstate.TransEvent]) ([]string, [][]ArcExport) {
	nodes := make([]string, len(g.Nodes))
	for i, k := range g.Nodes {
		nodes[i] = k.String()
	}
	adjacent := make([][]ArcExport, len(g.Adjacency))
	for i, edges := range g.Adjacency {
		arcs := make([]ArcExport, len(edges))
		for j, e := range edges {
			arcs[j] = ArcExport{Next: e.Next, Label: TransEventExport{
				Automaton:  e.Label.OwnerAutomaton,
				Transition: e.Label.TransitionID,
				Obs:        e.Label.Obs,
				Rel:        e.Label.Rel,
			}}
		}
		adjacent[i] = arcs
	}
	return nodes, adjacent
}

// EncodeJSON marshals the full result document, pretty-printing with a
// two-space indent when pretty is set.
func EncodeJSON(docs []NetworkResult, pretty bool) ([]byte, error) {
	if pretty {
		var buf bytes.Buffer
		enc := goccyjson.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return nil, err
		}
		return bytes.TrimRight(buf.Bytes(), "\n"), nil
	}
	return goccyjson.Marshal(docs)
}

// DumpYAML renders the result document as YAML for human debugging.
func DumpYAML(docs []NetworkResult) ([]byte, error) {
	return yaml.Marshal(docs)
}
