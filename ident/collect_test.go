package ident

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viant/fsanet/lang"
)

const collectFixture = `
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

func TestCollectFixtureValidates(t *testing.T) {
	src, err := lang.Parse([]byte(collectFixture))
	require.NoError(t, err)

	tbl, err := Collect(src)
	require.NoError(t, err)
	require.NotNil(t, tbl)

	require.Equal(t, []string{"A", "B"}, tbl.Automata("Simple"))
	begin, ok := tbl.BeginState("Simple", "A")
	require.True(t, ok)
	require.Equal(t, "b", begin)
}

func TestCollectDetectsMissingBeginState(t *testing.T) {
	src, err := lang.Parse([]byte(`
network N {
  automata A {
    state a;
  }
}
`))
	require.NoError(t, err)
	_, err = Collect(src)
	require.Error(t, err)
	var ve *ValidationErrors
	require.ErrorAs(t, err, &ve)
}
