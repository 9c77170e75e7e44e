package ident

import (
	"github.com/viant/fsanet/lang"
	"github.com/viant/fsanet/logging"
)

// Collect performs the single left-to-right traversal §3's Lifecycle
// describes: it walks a parsed Source, feeding every declaration and use
// it finds to a fresh Table, then runs Validate. The returned error is
// either the first *RedefinitionError the traversal hit, or the
// aggregated *ValidationErrors from the final sweep.
func Collect(src *lang.Source) (*Table, error) {
	tbl := NewTable()
	var networks, requests int
	for _, block := range src.Blocks {
		switch b := block.(type) {
		case *lang.Network:
			networks++
			if err := collectNetwork(tbl, b); err != nil {
				logging.Errorf("name resolution: %v", err)
				return nil, err
			}
		case *lang.Request:
			requests++
			if err := collectRequest(tbl, b); err != nil {
				logging.Errorf("name resolution: %v", err)
				return nil, err
			}
		}
	}
	if err := tbl.Validate(); err != nil {
		logging.Errorf("name resolution: %v", err)
		return nil, err
	}
	logging.Infof("name resolution: resolved %d networks, %d requests", networks, requests)
	return tbl, nil
}

func collectNetwork(tbl *Table, net *lang.Network) error {
	if err := tbl.EnterNetwork(net.Name, net.Location); err != nil {
		return err
	}

	for _, p := range net.Params {
		if ap, ok := p.(lang.AutomataParam); ok {
			if err := collectAutomata(tbl, ap.Automata); err != nil {
				return err
			}
		}
	}

	for _, p := range net.Params {
		switch pp := p.(type) {
		case lang.LinkParam:
			if err := tbl.DeclareLink(pp.Link.Name, pp.Link.Location); err != nil {
				return err
			}
			if err := tbl.AddAutomataUse(pp.Link.Source, pp.Link.Location); err != nil {
				return err
			}
			if err := tbl.AddAutomataUse(pp.Link.Destination, pp.Link.Location); err != nil {
				return err
			}
		case lang.EventsParam:
			for _, name := range pp.Names {
				if err := tbl.DeclareEvent(name, net.Location); err != nil {
					return err
				}
			}
		case lang.ObserveLabelsParam:
			for _, name := range pp.Names {
				if err := tbl.DeclareObsLabel(name, net.Location); err != nil {
					return err
				}
			}
		case lang.RelevanceLabelsParam:
			for _, name := range pp.Names {
				if err := tbl.DeclareRelLabel(name, net.Location); err != nil {
					return err
				}
			}
		}
	}

	tbl.ExitNetwork()
	return nil
}

func collectAutomata(tbl *Table, a *lang.Automata) error {
	if err := tbl.EnterAutomata(a.Name, a.Location); err != nil {
		return err
	}

	for _, p := range a.Params {
		sp, ok := p.(lang.StateDeclParam)
		if !ok {
			continue
		}
		var err error
		if sp.Decl.Kind == lang.StateKindBegin {
			err = tbl.DeclareBeginState(sp.Decl.Name, sp.Decl.Location)
		} else {
			err = tbl.DeclareState(sp.Decl.Name, sp.Decl.Location)
		}
		if err != nil {
			return err
		}
	}

	for _, p := range a.Params {
		tp, ok := p.(lang.TransitionParam)
		if !ok {
			continue
		}
		tr := tp.Transition
		if err := tbl.DeclareTransition(tr.Name, tr.Location); err != nil {
			return err
		}
		if err := tbl.AddStateUse(tr.Source, tr.Location); err != nil {
			return err
		}
		if err := tbl.AddStateUse(tr.Destination, tr.Location); err != nil {
			return err
		}
		if tr.Input != nil {
			if err := tbl.AddEventUse(tr.Input.Name, tr.Input.Location); err != nil {
				return err
			}
			if err := tbl.AddLinkUse(tr.Input.Link, tr.Input.Location); err != nil {
				return err
			}
		}
		for _, out := range tr.Output {
			if err := tbl.AddEventUse(out.Name, out.Location); err != nil {
				return err
			}
			if err := tbl.AddLinkUse(out.Link, out.Location); err != nil {
				return err
			}
		}
		if tr.ObsLabel != nil {
			if err := tbl.AddObsLabelUse(*tr.ObsLabel, tr.Location); err != nil {
				return err
			}
		}
		if tr.RelLabel != nil {
			if err := tbl.AddRelLabelUse(*tr.RelLabel, tr.Location); err != nil {
				return err
			}
		}
	}

	tbl.ExitAutomata()
	return nil
}

func collectRequest(tbl *Table, r *lang.Request) error {
	if err := tbl.InsertRequest(r.Name, r.Location, r.Network, r.Location); err != nil {
		return err
	}
	for _, cmd := range r.List {
		switch c := cmd.(type) {
		case lang.LinspaceCommand:
			for _, name := range c.ObsLabels {
				if err := tbl.AddRequestObsLabelUse(name, c.Location); err != nil {
					return err
				}
			}
		case lang.DiagnosisCommand:
			for _, name := range c.RelLabels {
				if err := tbl.AddRequestRelLabelUse(name, c.Location); err != nil {
					return err
				}
			}
		}
	}
	tbl.ExitRequest()
	return nil
}
