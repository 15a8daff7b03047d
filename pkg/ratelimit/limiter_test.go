package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketAllow(t *testing.T) {
	tb := NewTokenBucket(3, time.Hour)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())

	// Bucket exhausted
	assert.False(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(2, 50*time.Millisecond)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	time.Sleep(60 * time.Millisecond)

	// Refill restores full capacity
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestTokenBucketReset(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)

	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	tb.Reset()
	assert.True(t, tb.Allow())
}

func TestNewHourlyQuota(t *testing.T) {
	tb := NewHourlyQuota(DemoKeyHourlyQuota)
	assert.Equal(t, DemoKeyHourlyQuota, tb.capacity)
	assert.Equal(t, time.Hour, tb.refillPeriod)

	// Non-positive quotas fall back to the registered key quota
	tb = NewHourlyQuota(0)
	assert.Equal(t, RegisteredKeyQuota, tb.capacity)

	tb = NewHourlyQuota(-5)
	assert.Equal(t, RegisteredKeyQuota, tb.capacity)
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1, 30*time.Millisecond)

	assert.True(t, tb.Allow())

	start := time.Now()
	tb.Wait()
	elapsed := time.Since(start)

	// Wait must block until the refill period passes
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}
