package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/viant/fsanet/compiler"
	"github.com/viant/fsanet/ident"
	"github.com/viant/fsanet/lang"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	ar, err := txtar.ParseFile("testdata/scenarios.txtar")
	require.NoError(t, err)
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data
		}
	}
	t.Fatalf("fixture %q not found in archive", name)
	return nil
}

func TestSimpleFixtureCompilesAndChecksClean(t *testing.T) {
	data := loadFixture(t, "simple.fan")
	src, err := lang.Parse(data)
	require.NoError(t, err)
	tbl, err := ident.Collect(src)
	require.NoError(t, err)
	networks, requests, err := compiler.Compile(src, tbl)
	require.NoError(t, err)
	require.Len(t, networks, 1)
	require.Len(t, requests, 1)
	assert.NoError(t, checkAll(networks))
}

func TestDisconnectedFixtureReportsUnreachedState(t *testing.T) {
	data := loadFixture(t, "disconnected.fan")
	src, err := lang.Parse(data)
	require.NoError(t, err)
	tbl, err := ident.Collect(src)
	require.NoError(t, err)
	networks, _, err := compiler.Compile(src, tbl)
	require.NoError(t, err)
	require.Len(t, networks, 1)

	err = checkAll(networks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a4")
}
