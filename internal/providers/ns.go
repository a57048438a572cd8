package providers

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	iso8601 "github.com/senseyeio/duration"

	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/providers/data"
)

type nsResponse struct {
	Trips []nsTrip `json:"trips"`
}

type nsTrip struct {
	From       string `json:"from"`
	To         string `json:"to"`
	DepartsIn  string `json:"departs_in"`
	TravelTime string `json:"travel_time"`
	Fare       nsFare `json:"fare"`
}

type nsFare struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type nsJourney struct {
	trip       nsTrip
	departsIn  iso8601.Duration
	travelTime iso8601.Duration
}

// NSProvider serves the national rail timetable. Offsets are ISO8601
// durations from the moment of the search.
type NSProvider struct {
	journeys []nsJourney
	opts     Options
}

func NewNSProvider(opts Options) (*NSProvider, error) {
	return newNSProvider(data.NSData, opts)
}

func newNSProvider(raw []byte, opts Options) (*NSProvider, error) {
	var resp nsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}

	journeys := make([]nsJourney, 0, len(resp.Trips))
	for _, t := range resp.Trips {
		departsIn, err := iso8601.ParseISO8601(t.DepartsIn)
		if err != nil {
			return nil, fmt.Errorf("trip %s-%s: departs_in %q: %w", t.From, t.To, t.DepartsIn, err)
		}
		travelTime, err := iso8601.ParseISO8601(t.TravelTime)
		if err != nil {
			return nil, fmt.Errorf("trip %s-%s: travel_time %q: %w", t.From, t.To, t.TravelTime, err)
		}
		journeys = append(journeys, nsJourney{trip: t, departsIn: departsIn, travelTime: travelTime})
	}

	return &NSProvider{journeys: journeys, opts: opts.withDefaults()}, nil
}

func (p *NSProvider) Name() string {
	return "ns"
}

func (p *NSProvider) Search(ctx context.Context, req models.SearchRequest) ([]models.Journey, error) {
	if err := p.opts.wait(ctx); err != nil {
		return nil, err
	}

	now := p.opts.Clock()
	results := make([]models.Journey, 0)
	for _, j := range p.journeys {
		departure := j.departsIn.Shift(now)
		journey := models.Journey{
			Provider:    p.Name(),
			Origin:      j.trip.From,
			Destination: j.trip.To,
			Departure:   departure,
			Arrival:     j.travelTime.Shift(departure),
		}
		if !matches(journey, req, p.opts.Location) {
			continue
		}

		journey.Price = price(j.trip.Fare.Amount, j.trip.Fare.Currency, req.NrOfPassengers)
		results = append(results, journey)
	}

	return results, nil
}
