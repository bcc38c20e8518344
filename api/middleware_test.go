package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_ReusesBucketPerClient(t *testing.T) {
	l := NewClientLimiter(1, 2)

	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
	assert.Equal(t, 2, l.Len())
}

func TestClientLimiter_EvictsIdleClients(t *testing.T) {
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewClientLimiter(1, 2)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	l.GetLimiter("10.0.0.1")
	l.GetLimiter("10.0.0.2")

	clock = clock.Add(limiterIdle / 2)
	l.GetLimiter("10.0.0.2")

	clock = clock.Add(limiterIdle/2 + time.Second)
	l.GetLimiter("10.0.0.3")

	assert.Equal(t, 2, l.Len())
	l.mu.RLock()
	_, kept := l.limiters["10.0.0.2"]
	_, dropped := l.limiters["10.0.0.1"]
	l.mu.RUnlock()
	assert.True(t, kept)
	assert.False(t, dropped)
}
