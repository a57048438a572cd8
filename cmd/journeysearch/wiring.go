package main

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dharmasatrya/journeysearch/internal/aggregator"
	"github.com/dharmasatrya/journeysearch/internal/cache"
	"github.com/dharmasatrya/journeysearch/internal/config"
	"github.com/dharmasatrya/journeysearch/internal/providers"
	"github.com/dharmasatrya/journeysearch/internal/search"
)

type factory func(providers.Options) (providers.Provider, error)

var providerFactories = []struct {
	name  string
	build factory
}{
	{"ns", func(o providers.Options) (providers.Provider, error) { return providers.NewNSProvider(o) }},
	{"arriva", func(o providers.Options) (providers.Provider, error) { return providers.NewArrivaProvider(o) }},
}

func initializeProviders(settings config.Providers, loc *time.Location) ([]providers.Provider, error) {
	var providerList []providers.Provider

	for _, f := range providerFactories {
		if !settings.Enabled(f.name) {
			log.Info().Str("provider", f.name).Msg("Provider disabled")
			continue
		}

		s := settings.Providers[f.name]
		p, err := f.build(providers.Options{
			Clock:    time.Now,
			Location: loc,
			Latency:  s.Latency,
			Jitter:   s.Jitter,
		})
		if err != nil {
			return nil, err
		}
		providerList = append(providerList, p)
	}

	return providerList, nil
}

// initializeCache connects to redis when caching is enabled. With required
// unset a failed connection falls back to no caching.
func initializeCache(cfg config.Config, required bool) (cache.Cache, error) {
	if !cfg.CacheEnabled {
		log.Info().Msg("Cache disabled")
		return cache.NewNoOpCache(), nil
	}

	redisCache, err := cache.NewRedisCache(cache.RedisConfig{
		Host: cfg.RedisHost,
		Port: cfg.RedisPort,
		TTL:  cfg.RedisTTL,
	})
	if err != nil {
		if required {
			return nil, err
		}
		log.Warn().Err(err).Msg("Redis unavailable, searching without cache")
		return cache.NewNoOpCache(), nil
	}

	log.Info().
		Str("host", cfg.RedisHost+":"+cfg.RedisPort).
		Dur("ttl", cfg.RedisTTL).
		Msg("Redis cache enabled")
	return redisCache, nil
}

func initializeService(cfg config.Config, loc *time.Location, requireCache bool) (*search.Service, cache.Cache, error) {
	settings, err := config.LoadProviders(cfg.ProvidersConfig)
	if err != nil {
		return nil, nil, err
	}

	providerList, err := initializeProviders(settings, loc)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Int("providers", len(providerList)).Msg("Initialized journey providers")

	agg := aggregator.NewAggregator(providerList, aggregator.Config{
		Timeout:     cfg.SearchTimeout,
		MaxRetries:  settings.MaxRetries,
		RetryDelays: settings.RetryDelays,
		RateLimiter: settings.Limiter(),
	})

	journeyCache, err := initializeCache(cfg, requireCache)
	if err != nil {
		return nil, nil, err
	}

	return search.NewService(agg, journeyCache), journeyCache, nil
}
