package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/fsanet/compiler"
	"github.com/viant/fsanet/ident"
	"github.com/viant/fsanet/lang"
	"github.com/viant/fsanet/netstate"
	"github.com/viant/fsanet/result"
	"github.com/viant/fsanet/timer"
)

const sampleSource = `
network Simple {
  automata A {
    state b begin;
    state a;
    trans t1: b -> a out e2(L2) rel r;
  }
  automata B {
    state a begin;
    state b;
    trans t2: a -> b in e2(L2) obs o3;
    trans t3: b -> a out e3(L3);
  }
  link L2: A -> B;
  link L3: B -> A;
  events { e2, e3 };
  obs { o2, o3 };
  rel { r, f };
}

request R1 for Simple {
  fullspace;
  linspace(o3);
  diagnosis(r, f);
}
`

func compileSample(t *testing.T) (*netstate.Network, []*compiler.Request) {
	t.Helper()
	src, err := lang.Parse([]byte(sampleSource))
	require.NoError(t, err)
	tbl, err := ident.Collect(src)
	require.NoError(t, err)
	networks, requests, err := compiler.Compile(src, tbl)
	require.NoError(t, err)
	require.Len(t, networks, 1)
	return networks[0], requests
}

func TestRunCommandsProducesOneExportPerCommand(t *testing.T) {
	net, requests := compileSample(t)
	require.Len(t, requests, 1)

	budget := timer.Unbounded()
	exports := runCommands(context.Background(), net, requests[0].Commands, budget)

	require.Len(t, exports, 3)
	for i, e := range exports {
		require.Nilf(t, e.Error, "export %d unexpectedly failed", i)
		require.NotNil(t, e.Success)
	}
	assert.NotNil(t, exports[0].Success.FullSpace)
	assert.NotNil(t, exports[1].Success.LinSpace)
	assert.NotNil(t, exports[2].Success.Diagnosis)
}

func TestRunDiagnosisFreshProducesNonEmptyRegex(t *testing.T) {
	net, requests := compileSample(t)
	cc := requests[0].Commands[2].(compiler.DiagnosisCmd)

	exp := runDiagnosis(context.Background(), net, cc, timer.Unbounded())
	require.NotNil(t, exp.Success)
	require.NotNil(t, exp.Success.Diagnosis)
	assert.True(t, exp.Success.Diagnosis.Complete)
	assert.False(t, exp.Success.Diagnosis.Timeout)
	assert.NotEmpty(t, exp.Success.Diagnosis.Regex)
}

func TestRunLinspaceSaveThenDiagnosisLoadRoundTrips(t *testing.T) {
	net, requests := compileSample(t)
	savePath := "file://" + filepath.Join(t.TempDir(), "lin.json")

	linCmd := requests[0].Commands[1].(compiler.LinspaceCmd)
	linCmd.SavePath = &savePath
	linExp := runLinspace(context.Background(), net, linCmd, timer.Unbounded())
	require.NotNil(t, linExp.Success)
	require.NotNil(t, linExp.Success.LinSpace.SavedTo)

	loadCmd := compiler.DiagnosisCmd{RelLabels: requests[0].Commands[2].(compiler.DiagnosisCmd).RelLabels, LoadFile: &savePath}
	diagExp := runDiagnosis(context.Background(), net, loadCmd, timer.Unbounded())
	require.NotNil(t, diagExp.Success)
	assert.True(t, diagExp.Success.Diagnosis.Complete)
}

func TestCheckAllPassesOnSampleNetwork(t *testing.T) {
	net, _ := compileSample(t)
	assert.NoError(t, checkAll([]*netstate.Network{net}))
}

func TestRunEndToEndWritesResultFile(t *testing.T) {
	inPath := filepath.Join(t.TempDir(), "in.fan")
	outPath := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(inPath, []byte(sampleSource), 0644))

	root := NewRootCmd()
	root.SetArgs([]string{"file://" + inPath, "file://" + outPath})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var docs []result.NetworkResult
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "R1", docs[0].Name)
	require.Len(t, docs[0].Exports, 3)
}
