package filter

import (
	"sort"
	"strings"

	"github.com/dharmasatrya/journeysearch/internal/models"
)

var SortOptions = []string{"departure", "arrival", "price", "duration"}

func ValidSort(sortBy string) bool {
	if sortBy == "" {
		return true
	}
	for _, s := range SortOptions {
		if strings.EqualFold(s, sortBy) {
			return true
		}
	}
	return false
}

// Apply sorts a copy of the journeys. An empty sortBy keeps provider order.
func Apply(journeys []models.Journey, sortBy, sortOrder string) []models.Journey {
	sorted := make([]models.Journey, len(journeys))
	copy(sorted, journeys)

	if sortBy == "" || len(sorted) == 0 {
		return sorted
	}

	ascending := strings.ToLower(sortOrder) != "desc"
	less := lessFunc(strings.ToLower(sortBy))
	if less == nil {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return less(sorted[i], sorted[j])
		}
		return less(sorted[j], sorted[i])
	})

	return sorted
}

func lessFunc(sortBy string) func(a, b models.Journey) bool {
	switch sortBy {
	case "departure":
		return func(a, b models.Journey) bool { return a.Departure.Before(b.Departure) }
	case "arrival":
		return func(a, b models.Journey) bool { return a.Arrival.Before(b.Arrival) }
	case "price":
		return func(a, b models.Journey) bool { return a.Price.Value < b.Price.Value }
	case "duration":
		return func(a, b models.Journey) bool { return a.Duration() < b.Duration() }
	}
	return nil
}
