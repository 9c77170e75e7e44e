// Package compiler lowers a validated syntax tree into the compact,
// index-based representation netstate and the request package consume
// (§4.1's component 5, "Compiler (lowering)"). It assumes its *ident.Table
// argument already passed Validate — name errors are the caller's
// responsibility to surface before compiling, per §4.10's "later phases
// require earlier success". Connectivity and link checking (package
// checker) run afterwards, on the networks Compile returns.
package compiler

import (
	"github.com/viant/fsanet/ident"
	"github.com/viant/fsanet/lang"
	"github.com/viant/fsanet/logging"
	"github.com/viant/fsanet/netstate"
)

// Command is one compiled request command.
type Command interface{ isCommand() }

// FullSpaceCmd requests the full reachable state space.
type FullSpaceCmd struct{}

// LinspaceCmd requests the observation-indexed subspace.
type LinspaceCmd struct {
	ObsLabels []int
	SavePath  *string
}

// DiagnosisCmd requests a diagnosis regex, fresh over RelLabels or
// loaded from a previously saved linspace graph named by LoadFile.
type DiagnosisCmd struct {
	RelLabels []int
	LoadFile  *string
}

func (FullSpaceCmd) isCommand() {}
func (LinspaceCmd) isCommand()  {}
func (DiagnosisCmd) isCommand() {}

// Request is a compiled analysis request against one compiled network.
type Request struct {
	Name     string
	Network  string
	Commands []Command
}

// Compile lowers every network and request block in src into its
// compiled form, using tbl's dense indices to resolve every name
// reference into an integer.
func Compile(src *lang.Source, tbl *ident.Table) ([]*netstate.Network, []*Request, error) {
	var networks []*netstate.Network
	for _, block := range src.Blocks {
		net, ok := block.(*lang.Network)
		if !ok {
			continue
		}
		compiled, err := compileNetwork(net, tbl)
		if err != nil {
			logging.Errorf("compile: lowering network %q failed: %v", net.Name, err)
			return nil, nil, err
		}
		networks = append(networks, compiled)
	}

	var requests []*Request
	for _, block := range src.Blocks {
		req, ok := block.(*lang.Request)
		if !ok {
			continue
		}
		requests = append(requests, compileRequest(req, tbl))
	}

	logging.Infof("compile: lowered %d networks, %d requests", len(networks), len(requests))
	return networks, requests, nil
}

func compileNetwork(net *lang.Network, tbl *ident.Table) (*netstate.Network, error) {
	automataTrees := map[string]*lang.Automata{}
	linkTrees := map[string]*lang.Link{}
	for _, p := range net.Params {
		switch pp := p.(type) {
		case lang.AutomataParam:
			automataTrees[pp.Automata.Name] = pp.Automata
		case lang.LinkParam:
			linkTrees[pp.Link.Name] = pp.Link
		}
	}

	automataNames := tbl.Automata(net.Name)
	automataIndex := make(map[string]int, len(automataNames))
	for i, name := range automataNames {
		automataIndex[name] = i
	}

	automata := make([]*netstate.Automaton, len(automataNames))
	for i, name := range automataNames {
		automata[i] = compileAutomaton(net.Name, automataTrees[name], i, tbl)
	}

	linkNames := tbl.Links(net.Name)
	links := make([]netstate.Link, len(linkNames))
	for _, name := range linkNames {
		idx, _ := tbl.NetworkScopeIndex(net.Name, name)
		tree := linkTrees[name]
		links[idx] = netstate.Link{Name: name, Src: automataIndex[tree.Source], Dst: automataIndex[tree.Destination]}
	}

	return &netstate.Network{
		Name:          net.Name,
		Automata:      automata,
		Links:         links,
		EventNames:    tbl.Events(net.Name),
		ObsLabelNames: tbl.ObsLabels(net.Name),
		RelLabelNames: tbl.RelLabels(net.Name),
	}, nil
}

func compileAutomaton(networkName string, tree *lang.Automata, autoIndex int, tbl *ident.Table) *netstate.Automaton {
	stateNames := tbl.States(networkName, tree.Name)
	stateIdx := make(map[string]int, len(stateNames))
	for i, n := range stateNames {
		stateIdx[n] = i
	}
	beginName, _ := tbl.BeginState(networkName, tree.Name)

	transNames := tbl.Transitions(networkName, tree.Name)
	transIdx := make(map[string]int, len(transNames))
	for i, n := range transNames {
		transIdx[n] = i
	}

	adjacency := make([][]netstate.Arc, len(stateNames))
	for _, p := range tree.Params {
		tp, ok := p.(lang.TransitionParam)
		if !ok {
			continue
		}
		trTree := tp.Transition
		id := transIdx[trTree.Name]
		compiled := &netstate.Transition{
			ID:             id,
			Name:           trTree.Name,
			OwnerAutomaton: autoIndex,
			SelfIndex:      id,
		}
		if trTree.Input != nil {
			eIdx, _ := tbl.NetworkScopeIndex(networkName, trTree.Input.Name)
			lIdx, _ := tbl.NetworkScopeIndex(networkName, trTree.Input.Link)
			compiled.Input = &netstate.EventRef{Event: eIdx, Link: lIdx}
		}
		for _, o := range trTree.Output {
			eIdx, _ := tbl.NetworkScopeIndex(networkName, o.Name)
			lIdx, _ := tbl.NetworkScopeIndex(networkName, o.Link)
			compiled.Outputs = append(compiled.Outputs, netstate.EventRef{Event: eIdx, Link: lIdx})
		}
		if trTree.ObsLabel != nil {
			idx, _ := tbl.NetworkScopeIndex(networkName, *trTree.ObsLabel)
			compiled.Obs = &idx
		}
		if trTree.RelLabel != nil {
			idx, _ := tbl.NetworkScopeIndex(networkName, *trTree.RelLabel)
			compiled.Rel = &idx
		}

		srcIdx := stateIdx[trTree.Source]
		dstIdx := stateIdx[trTree.Destination]
		adjacency[srcIdx] = append(adjacency[srcIdx], netstate.Arc{Next: dstIdx, Transition: compiled})
	}

	return &netstate.Automaton{
		Name:            tree.Name,
		Index:           autoIndex,
		InitialState:    stateIdx[beginName],
		StateNames:      stateNames,
		TransitionNames: transNames,
		Adjacency:       adjacency,
	}
}

func compileRequest(req *lang.Request, tbl *ident.Table) *Request {
	cmds := make([]Command, 0, len(req.List))
	for _, c := range req.List {
		switch cc := c.(type) {
		case lang.SpaceCommand:
			cmds = append(cmds, FullSpaceCmd{})
		case lang.LinspaceCommand:
			obsIdx := make([]int, len(cc.ObsLabels))
			for i, name := range cc.ObsLabels {
				obsIdx[i], _ = tbl.NetworkScopeIndex(req.Network, name)
			}
			cmds = append(cmds, LinspaceCmd{ObsLabels: obsIdx, SavePath: cc.SavePath})
		case lang.DiagnosisCommand:
			if cc.LoadFile != nil {
				cmds = append(cmds, DiagnosisCmd{LoadFile: cc.LoadFile})
				continue
			}
			relIdx := make([]int, len(cc.RelLabels))
			for i, name := range cc.RelLabels {
				relIdx[i], _ = tbl.NetworkScopeIndex(req.Network, name)
			}
			cmds = append(cmds, DiagnosisCmd{RelLabels: relIdx})
		}
	}
	return &Request{Name: req.Name, Network: req.Network, Commands: cmds}
}
