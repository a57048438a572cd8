package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dharmasatrya/journeysearch/internal/ratelimit"
)

type ProviderSettings struct {
	Disabled  bool            `yaml:"disabled"`
	RateLimit ratelimit.Limit `yaml:"rate_limit"`
	Latency   time.Duration   `yaml:"latency"`
	Jitter    time.Duration   `yaml:"jitter"`
}

type Providers struct {
	MaxRetries  int                         `yaml:"max_retries"`
	RetryDelays []time.Duration             `yaml:"retry_delays"`
	Providers   map[string]ProviderSettings `yaml:"providers"`
}

func DefaultProviders() Providers {
	return Providers{
		MaxRetries:  2,
		RetryDelays: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond},
		Providers: map[string]ProviderSettings{
			"ns": {
				RateLimit: ratelimit.Limit{RequestsPerSecond: 20, Burst: 30},
				Latency:   500 * time.Millisecond,
				Jitter:    250 * time.Millisecond,
			},
			"arriva": {
				RateLimit: ratelimit.Limit{RequestsPerSecond: 15, Burst: 25},
				Latency:   300 * time.Millisecond,
				Jitter:    200 * time.Millisecond,
			},
		},
	}
}

// LoadProviders reads the provider file at path. An empty path yields the
// defaults. Providers missing from the file keep their default settings and
// a listed provider without a rate limit gets ratelimit.DefaultLimit.
func LoadProviders(path string) (Providers, error) {
	if path == "" {
		return DefaultProviders(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Providers{}, fmt.Errorf("reading providers config: %w", err)
	}

	return ParseProviders(data)
}

func ParseProviders(data []byte) (Providers, error) {
	defaults := DefaultProviders()

	var file struct {
		MaxRetries  *int                        `yaml:"max_retries"`
		RetryDelays []time.Duration             `yaml:"retry_delays"`
		Providers   map[string]ProviderSettings `yaml:"providers"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Providers{}, fmt.Errorf("parsing providers config: %w", err)
	}

	result := defaults
	if file.MaxRetries != nil {
		if *file.MaxRetries < 0 {
			return Providers{}, fmt.Errorf("max_retries must not be negative, got %d", *file.MaxRetries)
		}
		result.MaxRetries = *file.MaxRetries
	}
	if file.RetryDelays != nil {
		result.RetryDelays = file.RetryDelays
	}

	for name, settings := range file.Providers {
		if settings.RateLimit.RequestsPerSecond <= 0 {
			settings.RateLimit = ratelimit.DefaultLimit()
		}
		result.Providers[name] = settings
	}

	return result, nil
}

// Limiter builds a rate limiter carrying every configured provider limit.
func (p Providers) Limiter() *ratelimit.ProviderLimiter {
	limiter := ratelimit.NewProviderLimiterWithDefaults()
	for name, settings := range p.Providers {
		limiter.SetProviderLimit(name, settings.RateLimit)
	}
	return limiter
}

func (p Providers) Enabled(name string) bool {
	settings, ok := p.Providers[name]
	return !ok || !settings.Disabled
}
