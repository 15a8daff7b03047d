package ratelimit

import (
	"sync"
	"time"
)

// Hourly request quotas enforced by api.nasa.gov per API key.
const (
	DemoKeyHourlyQuota = 30
	RegisteredKeyQuota = 1000
)

// Limiter defines the interface for pacing API requests
type Limiter interface {
	// Allow checks if a request is allowed under the current quota
	Allow() bool
	// Wait blocks until the quota allows another request
	Wait()
	// Reset resets the limiter state
	Reset()
}

// TokenBucket paces requests against a fixed quota per refill period. Each
// request consumes a token; an empty bucket means the quota for the current
// period is spent and callers must wait for the next refill.
type TokenBucket struct {
	capacity     int           // Quota per period
	tokens       int           // Tokens left in the current period
	refillPeriod time.Duration // Period after which the quota renews
	lastRefill   time.Time     // Last time the bucket was refilled
	mu           sync.Mutex
}

// NewTokenBucket creates a token bucket allowing capacity requests per period
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// NewHourlyQuota creates a limiter matching NASA's hourly API key quota.
// Non-positive quotas fall back to the registered key quota.
func NewHourlyQuota(requestsPerHour int) *TokenBucket {
	if requestsPerHour <= 0 {
		requestsPerHour = RegisteredKeyQuota
	}
	return NewTokenBucket(requestsPerHour, time.Hour)
}

// Allow consumes a token if the quota has room for another request
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	return false
}

// Wait blocks until the quota allows another request
func (tb *TokenBucket) Wait() {
	for !tb.Allow() {
		tb.mu.Lock()
		timeUntilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if timeUntilRefill > 0 {
			time.Sleep(timeUntilRefill)
		} else {
			// Small sleep to prevent busy waiting
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// Reset restores the full quota and restarts the current period
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// refill renews the quota once the refill period has elapsed
func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}
