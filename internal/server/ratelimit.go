package server

import (
	"net/http"
	"sync"
	"time"

	"activsante/internal/utility"
	"github.com/juju/ratelimit"
	"github.com/labstack/echo/v4"
)

// Per-client rate limiting for the expensive generation routes.

type rateLimiter struct {
	clients map[string]*ratelimit.Bucket
	mu      sync.RWMutex

	fillRate float64
	capacity int64
}

func newRateLimiter(fillRate float64, capacity int64) *rateLimiter {
	rl := &rateLimiter{
		clients:  make(map[string]*ratelimit.Bucket),
		fillRate: fillRate,
		capacity: capacity,
	}
	rl.cleanup()
	return rl
}

func (rl *rateLimiter) getBucket(clientIP string) *ratelimit.Bucket {
	rl.mu.RLock()
	bucket, exists := rl.clients[clientIP]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		if bucket, exists = rl.clients[clientIP]; !exists {
			bucket = ratelimit.NewBucketWithRate(rl.fillRate, rl.capacity)
			rl.clients[clientIP] = bucket
		}
		rl.mu.Unlock()
	}

	return bucket
}

// cleanup drops clients whose buckets refilled completely.
func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(30 * time.Minute)
	go func() {
		for range ticker.C {
			rl.mu.Lock()
			for ip, bucket := range rl.clients {
				if bucket.Available() == bucket.Capacity() {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
}

// middleware rejects requests once the caller's bucket is empty.
func (rl *rateLimiter) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		bucket := rl.getBucket(utility.GetRealIP(c))
		if bucket.TakeAvailable(1) == 0 {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests, please slow down",
			})
		}
		return next(c)
	}
}
