package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// MultiLimiter manages multiple rate limiters for different services
type MultiLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
}

// NewMultiLimiter creates a new multi-limiter
func NewMultiLimiter() *MultiLimiter {
	return &MultiLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// AddLimiter adds a new rate limiter for a service
// requestsPerSecond: the rate limit (e.g., 10 means 10 requests per second)
// burst: maximum burst size
func (m *MultiLimiter) AddLimiter(name string, requestsPerSecond float64, burst int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.limiters[name] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until the limiter allows an event
func (m *MultiLimiter) Wait(ctx context.Context, name string) error {
	m.mu.RLock()
	limiter, ok := m.limiters[name]
	m.mu.RUnlock()

	if !ok {
		return fmt.Errorf("limiter %s not found", name)
	}

	return limiter.Wait(ctx)
}

// Default rate limiter names
const (
	LimiterGeneration = "generation"
	LimiterRefinement = "refinement"
	LimiterRSS        = "rss"
	LimiterTrends     = "trends"
	LimiterUnsplash   = "unsplash"
	LimiterSheets     = "sheets"
)

// NewDefaultLimiter creates a limiter with default rate limits
func NewDefaultLimiter() *MultiLimiter {
	m := NewMultiLimiter()

	// Generation service: runs on borrowed hardware, keep it slow
	m.AddLimiter(LimiterGeneration, 10.0/60, 2)

	// Refinement API: 60 requests per minute, burst 2
	m.AddLimiter(LimiterRefinement, 1, 2)

	// RSS: no strict limit, but be polite - 1 per second, burst 10
	m.AddLimiter(LimiterRSS, 1, 10)

	// Trends page: scrape gently
	m.AddLimiter(LimiterTrends, 0.2, 2)

	// Unsplash free tier: 50 requests per hour
	m.AddLimiter(LimiterUnsplash, 50.0/3600, 5)

	// Sheets API: 60 writes per minute per user
	m.AddLimiter(LimiterSheets, 1, 5)

	return m
}
