package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnboundedNeverExpires(t *testing.T) {
	tm := Unbounded().New()
	assert.False(t, tm.Expired())
	time.Sleep(time.Millisecond)
	assert.False(t, tm.Expired())
}

func TestBudgetExpires(t *testing.T) {
	tm := NewBudget(1).New()
	for i := 0; i < 1000 && !tm.Expired(); i++ {
		time.Sleep(time.Microsecond)
	}
	assert.True(t, tm.Expired())
}

func TestZeroMicrosecondsIsUnbounded(t *testing.T) {
	tm := NewBudget(0).New()
	assert.False(t, tm.Expired())
}
