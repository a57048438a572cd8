package providers

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/timezone"
	"github.com/dharmasatrya/journeysearch/pkg/currency"
)

type Provider interface {
	Name() string
	Search(ctx context.Context, req models.SearchRequest) ([]models.Journey, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}

// Options are shared by the timetable providers. Departures are computed
// relative to Clock on every search, so the demo data never goes stale.
type Options struct {
	Clock    func() time.Time
	Location *time.Location
	Latency  time.Duration
	Jitter   time.Duration
}

func DefaultOptions() Options {
	return Options{
		Clock:    time.Now,
		Location: time.Local,
		Latency:  500 * time.Millisecond,
		Jitter:   250 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.Location == nil {
		o.Location = d.Location
	}
	return o
}

func (o Options) wait(ctx context.Context) error {
	delay := o.Latency
	if o.Jitter > 0 {
		delay += time.Duration(rand.Int63n(int64(o.Jitter)))
	}
	if delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// matches applies the search contract: exact, case-insensitive stations and
// a departure on the requested local calendar day.
func matches(j models.Journey, req models.SearchRequest, loc *time.Location) bool {
	return strings.EqualFold(j.Origin, req.Origin) &&
		strings.EqualFold(j.Destination, req.Destination) &&
		timezone.SameDay(j.Departure, req.Date, loc)
}

func price(fare float64, code string, passengers int) models.Amount {
	value := fare * float64(passengers)
	return models.Amount{
		Value:     value,
		Currency:  code,
		Formatted: currency.Format(value, code),
	}
}
