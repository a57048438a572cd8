package aggregator

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/providers"
	"github.com/dharmasatrya/journeysearch/internal/ratelimit"
)

var ErrAllProvidersFailed = errors.New("all journey providers failed")

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
	RateLimiter *ratelimit.ProviderLimiter
}

func DefaultConfig() Config {
	return Config{
		Timeout:    5 * time.Second,
		MaxRetries: 2,
		RetryDelays: []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
		},
	}
}

type Aggregator struct {
	providers []providers.Provider
	config    Config
}

type Result struct {
	Journeys           []models.Journey
	ProvidersQueried   int
	ProvidersSucceeded int
	ProvidersFailed    int
	FailedProviders    []string
	ThrottledProviders []string
}

func NewAggregator(providerList []providers.Provider, config Config) *Aggregator {
	return &Aggregator{
		providers: providerList,
		config:    config,
	}
}

// Search queries every provider concurrently. Journeys are returned in
// provider order. A partial failure is reported in the result; only when no
// provider answers does Search return an error.
func (a *Aggregator) Search(ctx context.Context, req models.SearchRequest) (*Result, error) {
	searchCtx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	type providerResult struct {
		index     int
		provider  string
		journeys  []models.Journey
		throttled bool
		err       error
	}

	p := pool.NewWithResults[providerResult]().WithMaxGoroutines(max(len(a.providers), 1))
	for i, prov := range a.providers {
		p.Go(func() providerResult {
			pr := providerResult{index: i, provider: prov.Name()}
			if a.config.RateLimiter != nil {
				pr.throttled, pr.err = a.config.RateLimiter.Wait(searchCtx, prov.Name())
				if pr.err != nil {
					return pr
				}
			}

			pr.journeys, pr.err = a.searchWithRetry(searchCtx, prov, req)
			return pr
		})
	}

	ordered := make([]providerResult, len(a.providers))
	for _, pr := range p.Wait() {
		ordered[pr.index] = pr
	}

	result := &Result{
		Journeys:         make([]models.Journey, 0),
		ProvidersQueried: len(a.providers),
	}

	var errs []error
	for _, pr := range ordered {
		if pr.throttled {
			result.ThrottledProviders = append(result.ThrottledProviders, pr.provider)
		}
		if pr.err != nil {
			log.Warn().Err(pr.err).Str("provider", pr.provider).Msg("Provider failed")
			result.ProvidersFailed++
			result.FailedProviders = append(result.FailedProviders, pr.provider)
			errs = append(errs, providers.NewProviderError(pr.provider, pr.err))
			continue
		}
		result.ProvidersSucceeded++
		result.Journeys = append(result.Journeys, pr.journeys...)
	}

	if result.ProvidersQueried > 0 && result.ProvidersSucceeded == 0 {
		return nil, errors.Join(append([]error{ErrAllProvidersFailed}, errs...)...)
	}

	return result, nil
}

func (a *Aggregator) searchWithRetry(ctx context.Context, provider providers.Provider, req models.SearchRequest) ([]models.Journey, error) {
	var lastErr error

	for attempt := 0; attempt <= a.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(a.config.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(a.config.RetryDelays) {
				delayIdx = len(a.config.RetryDelays) - 1
			}

			select {
			case <-time.After(a.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		journeys, err := provider.Search(ctx, req)
		if err == nil {
			return journeys, nil
		}

		lastErr = err
		log.Debug().Err(err).Str("provider", provider.Name()).Int("attempt", attempt+1).Msg("Provider attempt failed")
	}

	return nil, lastErr
}
