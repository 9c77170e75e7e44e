package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/fsanet/ident"
	"github.com/viant/fsanet/lang"
	"github.com/viant/fsanet/netstate"
)

const fixture = `
network Simple {
  automata A {
    state b begin;
    state a;
    trans t1: b -> a in e2(L2) rel r;
  }
  automata B {
    state a begin;
    state b;
    trans t2: a -> b out e3(L3) obs o3;
    trans t3: b -> a in e3(L3);
  }
  link L2: A -> B;
  link L3: B -> A;
  events { e2, e3 };
  obs { o2, o3 };
  rel { r, f };
}

request Req for Simple {
  fullspace;
  linspace(o2, o3) save "out.json";
  diagnosis(r, f);
}
`

func compileFixture(t *testing.T) ([]*netstate.Network, []*Request) {
	t.Helper()
	src, err := lang.Parse([]byte(fixture))
	require.NoError(t, err)
	tbl, err := ident.Collect(src)
	require.NoError(t, err)
	networks, requests, err := Compile(src, tbl)
	require.NoError(t, err)
	return networks, requests
}

func TestCompileProducesOneNetworkWithTwoAutomata(t *testing.T) {
	networks, requests := compileFixture(t)
	require.Len(t, networks, 1)
	net := networks[0]
	assert.Equal(t, "Simple", net.Name)
	require.Len(t, net.Automata, 2)
	assert.Equal(t, "A", net.Automata[0].Name)
	assert.Equal(t, "B", net.Automata[1].Name)
	assert.Equal(t, []string{"b", "a"}, net.Automata[0].StateNames)
	assert.Equal(t, 0, net.Automata[0].InitialState) // "b" is A's begin state

	require.Len(t, net.Links, 2)
	assert.Equal(t, "L2", net.Links[0].Name)
	assert.Equal(t, 0, net.Links[0].Src) // A
	assert.Equal(t, 1, net.Links[0].Dst) // B

	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "Simple", req.Network)
	require.Len(t, req.Commands, 3)
	assert.IsType(t, FullSpaceCmd{}, req.Commands[0])
	lc, ok := req.Commands[1].(LinspaceCmd)
	require.True(t, ok)
	require.NotNil(t, lc.SavePath)
	assert.Equal(t, "out.json", *lc.SavePath)
	dc, ok := req.Commands[2].(DiagnosisCmd)
	require.True(t, ok)
	assert.Len(t, dc.RelLabels, 2)
}

func TestCompiledTransitionWiring(t *testing.T) {
	networks, _ := compileFixture(t)
	a := networks[0].Automata[0]
	require.Len(t, a.Adjacency[0], 1) // from "b"
	tr := a.Adjacency[0][0].Transition
	assert.Equal(t, "t1", tr.Name)
	require.NotNil(t, tr.Input)
	require.NotNil(t, tr.Rel)
	assert.Nil(t, tr.Obs)
}
