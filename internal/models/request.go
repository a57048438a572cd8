package models

import (
	"strconv"
	"time"
)

// Field names double as URL query parameter names.
type Field string

const (
	FieldOrigin      Field = "origin"
	FieldDestination Field = "destination"
	FieldDate        Field = "date"
	FieldPassengers  Field = "passengers"
)

var Fields = []Field{FieldOrigin, FieldDestination, FieldDate, FieldPassengers}

func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

const DateLayout = "2006-01-02"

// RawFormState holds the unvalidated form values. Every field may be absent.
type RawFormState struct {
	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`
	Date        *string `json:"date,omitempty"`
	Passengers  *int    `json:"passengers,omitempty"`
}

// Set writes a raw textual value into the given field. Empty text clears
// the field; passenger text that is not a decimal integer clears it too.
func (r RawFormState) Set(field Field, value string) RawFormState {
	var s *string
	if value != "" {
		s = &value
	}

	switch field {
	case FieldOrigin:
		r.Origin = s
	case FieldDestination:
		r.Destination = s
	case FieldDate:
		r.Date = s
	case FieldPassengers:
		r.Passengers = ParsePassengers(value)
	}
	return r
}

func ParsePassengers(value string) *int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

type FieldErrors struct {
	Origin      *string `json:"origin"`
	Destination *string `json:"destination"`
	Date        *string `json:"date"`
	Passengers  *string `json:"passengers"`
}

func (e FieldErrors) Get(field Field) *string {
	switch field {
	case FieldOrigin:
		return e.Origin
	case FieldDestination:
		return e.Destination
	case FieldDate:
		return e.Date
	case FieldPassengers:
		return e.Passengers
	}
	return nil
}

func (e FieldErrors) With(field Field, msg *string) FieldErrors {
	switch field {
	case FieldOrigin:
		e.Origin = msg
	case FieldDestination:
		e.Destination = msg
	case FieldDate:
		e.Date = msg
	case FieldPassengers:
		e.Passengers = msg
	}
	return e
}

func (e FieldErrors) Empty() bool {
	return e.Origin == nil && e.Destination == nil && e.Date == nil && e.Passengers == nil
}

// SearchRequest is only built from a form state that passed validation
// (or, on load, the lenient deep-link check).
type SearchRequest struct {
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Date           time.Time `json:"date"`
	NrOfPassengers int       `json:"nr_of_passengers"`
}

func (r SearchRequest) DateString() string {
	return r.Date.Format(DateLayout)
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrOriginRequired      ValidationError = "Origin is required!"
	ErrDestinationRequired ValidationError = "Destination is required!"
	ErrDateInvalid         ValidationError = "Date is required and must be in the future!"
	ErrPassengersRange     ValidationError = "Passengers must be between 1 and 10!"
)

// SearchFailedMessage is the only service failure text shown to users.
const SearchFailedMessage = "An error occurred while fetching the journeys."
