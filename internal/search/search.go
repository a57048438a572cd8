// Package search is the journey matching service used by the form
// pipeline: a cache in front of the provider aggregator.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dharmasatrya/journeysearch/internal/aggregator"
	"github.com/dharmasatrya/journeysearch/internal/cache"
	"github.com/dharmasatrya/journeysearch/internal/models"
)

var ErrSearchFailed = errors.New("journey search failed")

// Searcher finds the journeys matching a validated request. Calls may be
// slow and may fail.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) ([]models.Journey, error)
}

type Source interface {
	Search(ctx context.Context, req models.SearchRequest) (*aggregator.Result, error)
}

type Service struct {
	source Source
	cache  cache.Cache
}

type Result struct {
	Journeys []models.Journey
	Metadata models.SearchMetadata
}

func NewService(source Source, c cache.Cache) *Service {
	if c == nil {
		c = cache.NewNoOpCache()
	}
	return &Service{
		source: source,
		cache:  c,
	}
}

func (s *Service) Search(ctx context.Context, req models.SearchRequest) ([]models.Journey, error) {
	result, err := s.SearchWithMetadata(ctx, req)
	if err != nil {
		return nil, err
	}
	return result.Journeys, nil
}

func (s *Service) SearchWithMetadata(ctx context.Context, req models.SearchRequest) (*Result, error) {
	startTime := time.Now()

	if journeys, found := s.cache.Get(ctx, req); found {
		return &Result{
			Journeys: journeys,
			Metadata: models.SearchMetadata{
				TotalResults: len(journeys),
				SearchTimeMs: time.Since(startTime).Milliseconds(),
				CacheHit:     true,
			},
		}, nil
	}

	result, err := s.source.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	// Partial answers are not cached, the failed providers may recover.
	if result.ProvidersFailed == 0 {
		if err := s.cache.Set(ctx, req, result.Journeys); err != nil {
			log.Warn().Err(err).Msg("Failed to cache journeys")
		}
	}

	return &Result{
		Journeys: result.Journeys,
		Metadata: models.SearchMetadata{
			TotalResults:       len(result.Journeys),
			ProvidersQueried:   result.ProvidersQueried,
			ProvidersSucceeded: result.ProvidersSucceeded,
			ProvidersFailed:    result.ProvidersFailed,
			FailedProviders:    result.FailedProviders,
			ThrottledProviders: result.ThrottledProviders,
			SearchTimeMs:       time.Since(startTime).Milliseconds(),
		},
	}, nil
}
