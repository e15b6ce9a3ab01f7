package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAdmitsUpToCap(t *testing.T) {
	limiter := NewLimiter(3)

	assert.True(t, limiter.Admit("10.0.0.1"))
	assert.True(t, limiter.Admit("10.0.0.1"))
	assert.True(t, limiter.Admit("10.0.0.1"))
	assert.False(t, limiter.Admit("10.0.0.1"))
	assert.Equal(t, 3, limiter.Active("10.0.0.1"))
}

func TestLimiterTracksAddressesIndependently(t *testing.T) {
	limiter := NewLimiter(1)

	assert.True(t, limiter.Admit("10.0.0.1"))
	assert.False(t, limiter.Admit("10.0.0.1"))
	assert.True(t, limiter.Admit("10.0.0.2"))
}

func TestLimiterReleaseFreesSlot(t *testing.T) {
	limiter := NewLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Admit("10.0.0.1"))
	}
	assert.False(t, limiter.Admit("10.0.0.1"))

	limiter.Release("10.0.0.1")
	assert.Equal(t, 2, limiter.Active("10.0.0.1"))
	assert.True(t, limiter.Admit("10.0.0.1"))
}

func TestLimiterRejectedAdmitDoesNotCount(t *testing.T) {
	limiter := NewLimiter(1)

	assert.True(t, limiter.Admit("10.0.0.1"))
	assert.False(t, limiter.Admit("10.0.0.1"))

	// One release must fully free the address despite the rejected attempt
	limiter.Release("10.0.0.1")
	assert.Equal(t, 0, limiter.Active("10.0.0.1"))
	assert.True(t, limiter.Admit("10.0.0.1"))
}

func TestLimiterReleaseOfUnknownAddrIsNoOp(t *testing.T) {
	limiter := NewLimiter(3)

	limiter.Release("10.0.0.1")
	assert.Equal(t, 0, limiter.Active("10.0.0.1"))
}
