// Package ratelimit provides request rate limiting for the APOD API.
//
// NASA enforces hourly request quotas per API key (30/hour for DEMO_KEY,
// 1000/hour for registered keys), so batch operations like range and random
// fetches pace their requests through a limiter.
//
// The TokenBucket implementation holds a fixed capacity of tokens that
// refills after the configured period. NewHourlyQuota builds one matching
// NASA's hourly quota:
//
//	limiter := ratelimit.NewHourlyQuota(ratelimit.RegisteredKeyQuota)
//
//	// Block until a request is allowed
//	limiter.Wait()
package ratelimit
