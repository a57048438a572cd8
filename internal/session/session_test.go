package session

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/dharmasatrya/journeysearch/internal/aggregator"
	"github.com/dharmasatrya/journeysearch/internal/form"
	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/providers"
	"github.com/dharmasatrya/journeysearch/internal/search"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

var (
	testZone = time.FixedZone("CEST", 2*60*60)
	testNow  = time.Date(2026, 10, 16, 9, 15, 0, 0, testZone)
	today    = time.Date(2026, 10, 16, 0, 0, 0, 0, testZone)
)

type recordingShell struct {
	mu     sync.Mutex
	events []string
	errMsg string
	result []models.Journey
}

func (r *recordingShell) RenderLoading() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "loading")
}

func (r *recordingShell) RenderError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "error")
	r.errMsg = message
}

func (r *recordingShell) RenderResults(journeys []models.Journey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "results")
	r.result = journeys
}

func (r *recordingShell) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeSearcher struct {
	mu       sync.Mutex
	requests []models.SearchRequest
	journeys []models.Journey
	err      error
	started  chan struct{}
	release  chan struct{}
}

func (f *fakeSearcher) Search(ctx context.Context, req models.SearchRequest) ([]models.Journey, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.journeys, f.err
}

func (f *fakeSearcher) Requests() []models.SearchRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.SearchRequest(nil), f.requests...)
}

func testValidator() *validation.Validator {
	return validation.New(
		validation.WithLocation(testZone),
		validation.WithClock(func() time.Time { return testNow }),
	)
}

func linkValues(query string) url.Values {
	values, err := url.ParseQuery(query)
	if err != nil {
		panic(err)
	}
	return values
}

type SessionTestSuite struct {
	suite.Suite

	shell    *recordingShell
	searcher *fakeSearcher
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (sts *SessionTestSuite) SetupTest() {
	sts.shell = &recordingShell{}
	sts.searcher = &fakeSearcher{journeys: []models.Journey{{Origin: "Enschede", Destination: "Hengelo"}}}
}

func (sts *SessionTestSuite) newSession(query string) *Session {
	return New(linkValues(query), testValidator(), sts.searcher, sts.shell)
}

func (sts *SessionTestSuite) TestMountAutoSubmitsCompleteLink() {
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=2")

	submitted, err := s.Mount(context.Background())
	sts.Require().NoError(err)
	sts.True(submitted)

	sts.Equal([]models.SearchRequest{{
		Origin:         "Enschede",
		Destination:    "Hengelo",
		Date:           today,
		NrOfPassengers: 2,
	}}, sts.searcher.Requests())
	sts.Equal([]string{"loading", "results"}, sts.shell.Events())

	state := s.State()
	sts.Equal(form.Pristine, state.Phase, "restoring from the link is not an edit")
	sts.True(state.Errors.Empty())
}

func (sts *SessionTestSuite) TestMountRunsOnlyOnce() {
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=2")

	_, err := s.Mount(context.Background())
	sts.Require().NoError(err)
	submitted, err := s.Mount(context.Background())
	sts.Require().NoError(err)
	sts.False(submitted)

	s.Edit(models.FieldPassengers, "3")
	sts.Len(sts.searcher.Requests(), 1, "edits never re-trigger the load-time search")
}

func (sts *SessionTestSuite) TestMountWithIncompleteLinkWaitsForUser() {
	for _, q := range []string{
		"",
		"origin=Enschede&destination=Hengelo&date=2026-10-16",
		"origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=11",
		"origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=0",
		"origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=lots",
	} {
		s := sts.newSession(q)
		submitted, err := s.Mount(context.Background())
		sts.Require().NoError(err, q)
		sts.False(submitted, q)
		sts.True(s.State().Errors.Empty(), q)
	}
	sts.Empty(sts.searcher.Requests())
	sts.Empty(sts.shell.Events())
}

func (sts *SessionTestSuite) TestMountKeepsDeepLinkLeniency() {
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-01&passengers=-3")

	submitted, err := s.Mount(context.Background())
	sts.Require().NoError(err)
	sts.True(submitted)
	sts.Equal(-3, sts.searcher.Requests()[0].NrOfPassengers)
	sts.False(s.Valid(), "the form itself still reports the values as invalid")
}

func (sts *SessionTestSuite) TestEditSyncsURLAndGoesLive() {
	s := sts.newSession("origin=Enschede")
	_, err := s.Mount(context.Background())
	sts.Require().NoError(err)

	state := s.Edit(models.FieldDestination, "Hengelo!")
	sts.Equal(form.Live, state.Phase)
	sts.Equal("Destination is required!", *state.Errors.Destination)
	sts.Nil(state.Errors.Origin)
	sts.Equal("destination=Hengelo%21&origin=Enschede", s.Query())

	s.Edit(models.FieldDestination, "Hengelo")
	s.Edit(models.FieldDate, "2026-10-16")
	s.Edit(models.FieldPassengers, "2")
	sts.True(s.Valid())
	sts.True(s.State().Errors.Empty())
	sts.Equal("date=2026-10-16&destination=Hengelo&origin=Enschede&passengers=2", s.Query())
}

func (sts *SessionTestSuite) TestEditBeforeMountKeepsFormAndURLInStep() {
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=2&lang=nl")

	state := s.Edit(models.FieldPassengers, "3")
	sts.Require().NotNil(state.Raw.Origin)
	sts.Equal("Enschede", *state.Raw.Origin)
	sts.Equal(3, *state.Raw.Passengers)
	sts.Equal("date=2026-10-16&destination=Hengelo&lang=nl&origin=Enschede&passengers=3", s.Query())
	sts.True(s.Valid())

	page := s.Page()
	sts.Equal(s.Query(), page.Form.Query)
	sts.Equal(state.Raw, page.Form.Raw)

	sts.Require().NoError(s.Submit(context.Background()))
	sts.Require().Len(sts.searcher.Requests(), 1)
	sts.Equal(3, sts.searcher.Requests()[0].NrOfPassengers)

	submitted, err := s.Mount(context.Background())
	sts.Require().NoError(err)
	sts.True(submitted, "the restored form still carries a complete search")
	sts.Equal(state.Raw, s.State().Raw, "mounting does not undo the edit")
}

func (sts *SessionTestSuite) TestNewRestoresFormFromLink() {
	s := sts.newSession("origin=Enschede&passengers=4")

	state := s.State()
	sts.Equal(form.Pristine, state.Phase)
	sts.Require().NotNil(state.Raw.Origin)
	sts.Equal("Enschede", *state.Raw.Origin)
	sts.Equal(4, *state.Raw.Passengers)
	sts.Equal("origin=Enschede&passengers=4", s.Query())
}

func (sts *SessionTestSuite) TestSubmitInvalidIsNoOp() {
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-15&passengers=2")
	_, err := s.Mount(context.Background())
	sts.Require().NoError(err)
	sts.Require().Len(sts.searcher.Requests(), 1, "the past date still auto-submits")

	err = s.Submit(context.Background())
	sts.ErrorIs(err, ErrInvalidForm)
	sts.Len(sts.searcher.Requests(), 1)
}

func (sts *SessionTestSuite) TestSubmitValid() {
	s := sts.newSession("")
	s.Edit(models.FieldOrigin, "Enschede")
	s.Edit(models.FieldDestination, "Hengelo")
	s.Edit(models.FieldDate, "2026-10-17")
	s.Edit(models.FieldPassengers, "4")

	sts.Require().NoError(s.Submit(context.Background()))
	sts.Equal([]models.SearchRequest{{
		Origin:         "Enschede",
		Destination:    "Hengelo",
		Date:           today.AddDate(0, 0, 1),
		NrOfPassengers: 4,
	}}, sts.searcher.Requests())

	page := s.Page()
	sts.Equal(models.SearchResults, page.Search.Status)
	sts.Len(page.Search.Journeys, 1)
	sts.Equal("live", page.Form.Phase)
	sts.True(page.Form.Valid)
}

func (sts *SessionTestSuite) TestServiceFailureShowsGenericMessage() {
	sts.searcher.err = errors.New("redis: connection refused at 10.0.0.7:6379")
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=2")

	_, err := s.Mount(context.Background())
	sts.Error(err)
	sts.Equal([]string{"loading", "error"}, sts.shell.Events())
	sts.Equal("An error occurred while fetching the journeys.", sts.shell.errMsg)
	sts.Len(sts.searcher.Requests(), 1, "no automatic retry")

	page := s.Page()
	sts.Equal(models.SearchError, page.Search.Status)
	sts.Equal(models.SearchFailedMessage, page.Search.Error)
	sts.False(s.Loading())

	sts.searcher.err = nil
	sts.NoError(s.Submit(context.Background()), "the form stays usable after a failure")
}

func (sts *SessionTestSuite) TestSecondSubmitWhileLoadingIsRejected() {
	sts.searcher.started = make(chan struct{}, 1)
	sts.searcher.release = make(chan struct{})
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=11")
	submitted, err := s.Mount(context.Background())
	sts.Require().NoError(err)
	sts.Require().False(submitted)
	s.Edit(models.FieldPassengers, "2")

	done := make(chan error, 1)
	go func() { done <- s.Submit(context.Background()) }()
	<-sts.searcher.started
	sts.True(s.Loading())

	sts.ErrorIs(s.Submit(context.Background()), ErrSearchInProgress)

	close(sts.searcher.release)
	sts.NoError(<-done)
	sts.Len(sts.searcher.Requests(), 1)
}

func (sts *SessionTestSuite) TestCloseAbortsAndDiscards() {
	sts.searcher.started = make(chan struct{}, 1)
	sts.searcher.release = make(chan struct{})
	s := sts.newSession("origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=2")

	done := make(chan error, 1)
	go func() {
		_, err := s.Mount(context.Background())
		done <- err
	}()
	<-sts.searcher.started

	s.Close()
	sts.ErrorIs(<-done, ErrClosed)
	sts.Equal([]string{"loading"}, sts.shell.Events(), "late results are not rendered")
	sts.ErrorIs(s.Submit(context.Background()), ErrClosed)
	sts.Equal(models.SearchIdle, s.Page().Search.Status)
}

func newPipeline(t *testing.T) search.Searcher {
	opts := providers.Options{
		Clock:    func() time.Time { return testNow },
		Location: testZone,
	}
	ns, err := providers.NewNSProvider(opts)
	require.NoError(t, err)
	arriva, err := providers.NewArrivaProvider(opts)
	require.NoError(t, err)

	agg := aggregator.NewAggregator([]providers.Provider{ns, arriva}, aggregator.DefaultConfig())
	return search.NewService(agg, nil)
}

func TestEndToEnd(t *testing.T) {
	searcher := newPipeline(t)

	shell := &recordingShell{}
	s := New(linkValues("origin=Enschede&destination=Hengelo&date=2026-10-16&passengers=2"), testValidator(), searcher, shell)
	submitted, err := s.Mount(context.Background())
	require.NoError(t, err)
	require.True(t, submitted)
	require.NotEmpty(t, shell.result)
	assert.Equal(t, "Hengelo", shell.result[0].Destination)
	assert.Equal(t, 12.0, shell.result[0].Price.Value)

	s.Edit(models.FieldDestination, "Almelo")
	s.Edit(models.FieldDate, "2026-10-18")
	require.NoError(t, s.Submit(context.Background()))
	assert.Empty(t, shell.result)
	assert.Equal(t, []string{"loading", "results", "loading", "results"}, shell.Events())
}
