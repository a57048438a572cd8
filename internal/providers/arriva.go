package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/providers/data"
	"github.com/dharmasatrya/journeysearch/internal/timezone"
)

type arrivaRow struct {
	Origin          string  `csv:"origin"`
	Destination     string  `csv:"destination"`
	DayOffset       int     `csv:"day_offset"`
	DepartureTime   string  `csv:"departure_time"`
	DurationMinutes int     `csv:"duration_minutes"`
	Fare            float64 `csv:"fare"`
	Currency        string  `csv:"currency"`
}

// ArrivaProvider serves the regional timetable: fixed clock times on days
// counted from today.
type ArrivaProvider struct {
	rows []arrivaRow
	opts Options
}

func NewArrivaProvider(opts Options) (*ArrivaProvider, error) {
	return newArrivaProvider(data.ArrivaData, opts)
}

func newArrivaProvider(raw []byte, opts Options) (*ArrivaProvider, error) {
	var rows []arrivaRow
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		return nil, err
	}

	for _, r := range rows {
		if _, err := time.Parse("15:04", r.DepartureTime); err != nil {
			return nil, fmt.Errorf("row %s-%s: departure_time %q: %w", r.Origin, r.Destination, r.DepartureTime, err)
		}
	}

	return &ArrivaProvider{rows: rows, opts: opts.withDefaults()}, nil
}

func (p *ArrivaProvider) Name() string {
	return "arriva"
}

func (p *ArrivaProvider) Search(ctx context.Context, req models.SearchRequest) ([]models.Journey, error) {
	if err := p.opts.wait(ctx); err != nil {
		return nil, err
	}

	loc := p.opts.Location
	today := timezone.StartOfDay(p.opts.Clock(), loc)

	results := make([]models.Journey, 0)
	for _, r := range p.rows {
		clock, _ := time.Parse("15:04", r.DepartureTime)
		day := today.AddDate(0, 0, r.DayOffset)
		departure := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)

		journey := models.Journey{
			Provider:    p.Name(),
			Origin:      r.Origin,
			Destination: r.Destination,
			Departure:   departure,
			Arrival:     departure.Add(time.Duration(r.DurationMinutes) * time.Minute),
		}
		if !matches(journey, req, loc) {
			continue
		}

		journey.Price = price(r.Fare, r.Currency, req.NrOfPassengers)
		results = append(results, journey)
	}

	return results, nil
}
