package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dharmasatrya/journeysearch/internal/filter"
	"github.com/dharmasatrya/journeysearch/internal/form"
	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/search"
	"github.com/dharmasatrya/journeysearch/internal/session"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

type JourneyService interface {
	search.Searcher
	SearchWithMetadata(ctx context.Context, req models.SearchRequest) (*search.Result, error)
}

type SearchHandler struct {
	service   JourneyService
	validator *validation.Validator
}

func NewSearchHandler(service JourneyService, v *validation.Validator) *SearchHandler {
	return &SearchHandler{
		service:   service,
		validator: v,
	}
}

type searchRequest struct {
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	Date        *string `json:"date"`
	Passengers  *int    `json:"passengers"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

func (r searchRequest) raw() models.RawFormState {
	return models.RawFormState{
		Origin:      r.Origin,
		Destination: r.Destination,
		Date:        r.Date,
		Passengers:  r.Passengers,
	}
}

// Page renders a deep link: the form restored from the query string and,
// when the link is complete, the outcome of the search it triggers.
func (h *SearchHandler) Page(c echo.Context) error {
	s := session.New(c.QueryParams(), h.validator, h.service, pageShell{})
	defer s.Close()

	if _, err := s.Mount(c.Request().Context()); err != nil {
		log.Debug().Err(err).Str("session", s.ID).Msg("Deep link search did not complete")
	}

	return c.JSON(http.StatusOK, s.Page())
}

// Search is the explicit submit of a filled-in form.
func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var body searchRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body",
			Code:    http.StatusBadRequest,
		})
	}

	if !filter.ValidSort(body.SortBy) || !validSortOrder(body.SortOrder) {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "sort_by must be one of " + strings.Join(filter.SortOptions, ", ") + " and sort_order asc or desc",
			Code:    http.StatusBadRequest,
		})
	}

	raw := body.raw()
	req, ok := form.TryBuildRequest(h.validator, raw)
	if !ok {
		fields := h.validator.Errors(raw)
		return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "validation_error",
			Message: "The search form is not valid",
			Code:    http.StatusUnprocessableEntity,
			Fields:  &fields,
		})
	}

	result, err := h.service.SearchWithMetadata(ctx, req)
	if err != nil {
		log.Error().Err(err).
			Str("origin", req.Origin).
			Str("destination", req.Destination).
			Str("date", req.DateString()).
			Msg("Journey search failed")
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "search_error",
			Message: models.SearchFailedMessage,
			Code:    http.StatusBadGateway,
		})
	}

	journeys := filter.Apply(result.Journeys, body.SortBy, body.SortOrder)
	metadata := result.Metadata
	metadata.TotalResults = len(journeys)
	metadata.SearchTimeMs = time.Since(startTime).Milliseconds()

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: buildSearchCriteria(req, body.SortBy, body.SortOrder),
		Metadata:       metadata,
		Journeys:       journeys,
	})
}

func buildSearchCriteria(req models.SearchRequest, sortBy, sortOrder string) models.SearchCriteria {
	return models.SearchCriteria{
		Origin:         req.Origin,
		Destination:    req.Destination,
		Date:           req.DateString(),
		NrOfPassengers: req.NrOfPassengers,
		SortBy:         sortBy,
		SortOrder:      sortOrder,
	}
}

func validSortOrder(order string) bool {
	switch strings.ToLower(order) {
	case "", "asc", "desc":
		return true
	}
	return false
}

// pageShell ignores render calls; the page response carries the outcome.
type pageShell struct{}

func (pageShell) RenderLoading() {}

func (pageShell) RenderError(string) {}

func (pageShell) RenderResults([]models.Journey) {}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
