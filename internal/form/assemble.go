package form

import (
	"time"

	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/timezone"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

// TryBuildRequest re-checks every field on the given snapshot, whatever the
// phase, and only then builds a request.
func TryBuildRequest(v *validation.Validator, raw models.RawFormState) (models.SearchRequest, bool) {
	if !v.FormIsValid(raw) {
		return models.SearchRequest{}, false
	}

	date, err := timezone.ParseDate(*raw.Date, v.Zone())
	if err != nil {
		return models.SearchRequest{}, false
	}

	return models.SearchRequest{
		Origin:         *raw.Origin,
		Destination:    *raw.Destination,
		Date:           date,
		NrOfPassengers: *raw.Passengers,
	}, true
}

// AutoSubmitRequest is the deep-link check run once on load. It is
// looser than TryBuildRequest: all four fields must be set and
// passengers may not exceed the maximum, but the lower bound and the date
// are not validated. Zero passengers count as unset.
func AutoSubmitRequest(raw models.RawFormState, loc *time.Location) (models.SearchRequest, bool) {
	if raw.Origin == nil || *raw.Origin == "" ||
		raw.Destination == nil || *raw.Destination == "" ||
		raw.Date == nil || *raw.Date == "" ||
		raw.Passengers == nil || *raw.Passengers == 0 ||
		*raw.Passengers > validation.MaxPassengers {
		return models.SearchRequest{}, false
	}

	date, err := timezone.ParseDate(*raw.Date, loc)
	if err != nil {
		return models.SearchRequest{}, false
	}

	return models.SearchRequest{
		Origin:         *raw.Origin,
		Destination:    *raw.Destination,
		Date:           date,
		NrOfPassengers: *raw.Passengers,
	}, true
}
