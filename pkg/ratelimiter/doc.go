// Package ratelimiter throttles API clients with a token bucket per key.
//
// Each key starts with Capacity tokens; every RefillInterval adds RefillRate
// tokens up to Capacity. A request costs one token and is refused once the
// bucket is empty. Refusals are reported as operational 429 errors so they
// render like every other client error:
//
//	store := ratelimiter.NewMemoryStore()
//	bucket, err := ratelimiter.NewBucket(store, cfg)
//	r.Use(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP, onError))
//
// Responses carry X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset; refusals add Retry-After.
package ratelimiter
