package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixEmptyPrunesEmptyLeaf(t *testing.T) {
	assert.Nil(t, FixEmpty(Value{}))
	assert.Equal(t, Value{Rel: []int{0}}, FixEmpty(Value{Rel: []int{0}}))
}

func TestFixEmptyChainDropsEmptyMembers(t *testing.T) {
	r := Chain{Items: []Regex{Value{}, Value{Rel: []int{0}}, Value{}, Value{Rel: []int{1}}}}
	got := FixEmpty(r)
	assert.Equal(t, Chain{Items: []Regex{Value{Rel: []int{0}}, Value{Rel: []int{1}}}}, got)
}

func TestFixEmptyChainOfAllEmptyCollapsesToNil(t *testing.T) {
	r := Chain{Items: []Regex{Value{}, Value{}}}
	assert.Nil(t, FixEmpty(r))
}

func TestFixEmptyChainSingleSurvivorUnwraps(t *testing.T) {
	r := Chain{Items: []Regex{Value{}, Value{Rel: []int{0}}}}
	assert.Equal(t, Value{Rel: []int{0}}, FixEmpty(r))
}

func TestFixEmptyAlternativeLostBranchWrapsOptional(t *testing.T) {
	r := Alternative{Items: []Regex{Value{}, Value{Rel: []int{0}}}}
	got := FixEmpty(r)
	assert.Equal(t, Optional{Item: Value{Rel: []int{0}}}, got)
}

func TestFixEmptyAlternativeNoLossStaysPlain(t *testing.T) {
	r := Alternative{Items: []Regex{Value{Rel: []int{0}}, Value{Rel: []int{1}}}}
	got := FixEmpty(r)
	assert.Equal(t, Alternative{Items: []Regex{Value{Rel: []int{0}}, Value{Rel: []int{1}}}}, got)
}

func TestFixEmptyOptionalAndZeroMoreOfEmptyCollapse(t *testing.T) {
	assert.Nil(t, FixEmpty(Optional{Item: Value{}}))
	assert.Nil(t, FixEmpty(ZeroMore{Item: Value{}}))
}

func TestRenderProducesReadableString(t *testing.T) {
	names := []string{"r", "f"}
	r := Chain{Items: []Regex{
		Value{Rel: []int{0}},
		Optional{Item: Alternative{Items: []Regex{Value{Rel: []int{1}}, Value{Rel: []int{0}}}}},
	}}
	assert.Equal(t, "r(f|r)?", Render(r, names))
}

func TestRenderZeroMore(t *testing.T) {
	names := []string{"r"}
	assert.Equal(t, "r*", Render(ZeroMore{Item: Value{Rel: []int{0}}}, names))
}
