package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrThrottled means the provider's bucket cannot hand out a token before
// the search gives up.
var ErrThrottled = errors.New("provider rate limit exceeded")

type Limit struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

func DefaultLimit() Limit {
	return Limit{
		RequestsPerSecond: 10,
		Burst:             20,
	}
}

type bucket struct {
	limiter   *rate.Limiter
	throttled atomic.Int64
}

func newBucket(l Limit) *bucket {
	return &bucket{limiter: rate.NewLimiter(rate.Limit(l.RequestsPerSecond), l.Burst)}
}

// ProviderLimiter keeps one token bucket per journey provider, so a busy
// timetable cannot hold up searches against the others.
type ProviderLimiter struct {
	mu       sync.RWMutex
	buckets  map[string]*bucket
	defaults Limit
}

func NewProviderLimiter(defaults Limit) *ProviderLimiter {
	return &ProviderLimiter{
		buckets:  make(map[string]*bucket),
		defaults: defaults,
	}
}

func NewProviderLimiterWithDefaults() *ProviderLimiter {
	return NewProviderLimiter(DefaultLimit())
}

func (p *ProviderLimiter) SetProviderLimit(provider string, l Limit) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buckets[provider] = newBucket(l)
}

// Limit reports the limit in effect for the provider.
func (p *ProviderLimiter) Limit(provider string) Limit {
	l := p.bucket(provider).limiter
	return Limit{RequestsPerSecond: float64(l.Limit()), Burst: l.Burst()}
}

// Throttled counts the searches that had to queue for the provider.
func (p *ProviderLimiter) Throttled(provider string) int64 {
	return p.bucket(provider).throttled.Load()
}

// Wait takes one token for the provider and reports whether the search had
// to queue for it. When the token would only be available after ctx's
// deadline, Wait fails at once with ErrThrottled instead of sleeping.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) (throttled bool, err error) {
	b := p.bucket(provider)

	r := b.limiter.Reserve()
	if !r.OK() {
		return true, fmt.Errorf("%w: %s accepts no requests", ErrThrottled, provider)
	}

	delay := r.Delay()
	if delay <= 0 {
		return false, nil
	}
	b.throttled.Add(1)

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < delay {
		r.Cancel()
		log.Warn().Str("provider", provider).Dur("delay", delay).Msg("Provider rate limit exceeds search deadline")
		return true, fmt.Errorf("%w: %s needs %s", ErrThrottled, provider, delay)
	}

	log.Debug().Str("provider", provider).Dur("delay", delay).Msg("Waiting for provider rate limit")

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true, nil
	case <-ctx.Done():
		r.Cancel()
		return true, ctx.Err()
	}
}

func (p *ProviderLimiter) bucket(provider string) *bucket {
	p.mu.RLock()
	b, exists := p.buckets[provider]
	p.mu.RUnlock()

	if exists {
		return b
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if b, exists = p.buckets[provider]; exists {
		return b
	}

	b = newBucket(p.defaults)
	p.buckets[provider] = b
	return b
}
