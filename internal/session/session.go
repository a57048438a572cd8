// Package session drives one search form from load to results: it restores
// the form from the URL, applies edits, submits requests to the matching
// service and tells a Shell what to display.
package session

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dharmasatrya/journeysearch/internal/form"
	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/search"
	"github.com/dharmasatrya/journeysearch/internal/urlstate"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

var (
	ErrInvalidForm      = errors.New("search form is not valid")
	ErrSearchInProgress = errors.New("a search is already in progress")
	ErrClosed           = errors.New("session is closed")
)

// Shell displays the pipeline's outcome. Calls arrive in order: one
// RenderLoading per search, then either RenderError or RenderResults.
type Shell interface {
	RenderLoading()
	RenderError(message string)
	RenderResults(journeys []models.Journey)
}

type Session struct {
	ID string

	validator *validation.Validator
	binding   *urlstate.Binding
	searcher  search.Searcher
	shell     Shell
	logger    zerolog.Logger

	mountOnce sync.Once

	mu      sync.Mutex
	state   form.State
	outcome models.SearchOutcome
	loading bool
	closed  bool
	cancel  context.CancelFunc
}

// New restores the form from the URL values straight away, so the form and
// its query string agree from the start. Mount decides about auto-submit.
func New(values url.Values, v *validation.Validator, searcher search.Searcher, shell Shell) *Session {
	id := uuid.NewString()
	s := &Session{
		ID:        id,
		validator: v,
		binding:   urlstate.NewBinding(values),
		searcher:  searcher,
		shell:     shell,
		logger:    log.With().Str("session", id).Logger(),
		outcome:   models.SearchOutcome{Status: models.SearchIdle},
	}
	s.state = form.Reduce(v, s.state, form.Restored{Raw: s.binding.Snapshot()})
	return s
}

// Mount re-reads the form from the URL and, if it already carries a
// complete search, submits it. Only the first call does anything; it
// reports whether a search was started.
func (s *Session) Mount(ctx context.Context) (submitted bool, err error) {
	s.mountOnce.Do(func() {
		s.mu.Lock()
		raw := s.binding.Snapshot()
		s.state = form.Reduce(s.validator, s.state, form.Restored{Raw: raw})
		s.mu.Unlock()

		req, ok := form.AutoSubmitRequest(raw, s.validator.Zone())
		if !ok {
			return
		}

		s.logger.Debug().Str("query", s.binding.Query()).Msg("Auto-submitting search from link")
		submitted = true
		err = s.run(ctx, req)
	})
	return submitted, err
}

// Edit applies one user edit to the field and its URL parameter.
func (s *Session) Edit(field models.Field, value string) form.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := s.binding.Set(field, value)
	s.state = form.Reduce(s.validator, s.state, form.FieldChanged{Field: field, Value: value})
	s.state.Raw = raw
	return s.state
}

// Submit builds a request from the current form and runs the search. An
// invalid form returns ErrInvalidForm without contacting the service.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	raw := s.state.Raw
	s.mu.Unlock()

	req, ok := form.TryBuildRequest(s.validator, raw)
	if !ok {
		return ErrInvalidForm
	}
	return s.run(ctx, req)
}

func (s *Session) run(ctx context.Context, req models.SearchRequest) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.loading {
		s.mu.Unlock()
		return ErrSearchInProgress
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.loading = true
	s.cancel = cancel
	s.mu.Unlock()

	s.shell.RenderLoading()
	journeys, err := s.searcher.Search(runCtx, req)
	cancel()

	s.mu.Lock()
	s.loading = false
	s.cancel = nil
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug().Msg("Discarding search result of closed session")
		return ErrClosed
	}
	if err != nil {
		s.outcome = models.SearchOutcome{Status: models.SearchError, Error: models.SearchFailedMessage}
	} else {
		s.outcome = models.SearchOutcome{Status: models.SearchResults, Journeys: journeys}
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).
			Str("origin", req.Origin).
			Str("destination", req.Destination).
			Str("date", req.DateString()).
			Msg("Journey search failed")
		s.shell.RenderError(models.SearchFailedMessage)
		return err
	}

	s.logger.Info().Int("journeys", len(journeys)).Msg("Journey search finished")
	s.shell.RenderResults(journeys)
	return nil
}

// Close aborts an in-flight search; its result is dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Session) State() form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) Valid() bool {
	return s.validator.FormIsValid(s.State().Raw)
}

func (s *Session) Query() string {
	return s.binding.Query()
}

func (s *Session) Page() models.PageResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.PageResponse{
		Form:   s.state.View(s.validator, s.binding.Query()),
		Search: s.outcome,
	}
}
