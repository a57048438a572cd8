// Package urlstate mirrors the search form into URL query parameters so a
// search can be shared and restored from a link.
package urlstate

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/dharmasatrya/journeysearch/internal/models"
)

// Parse builds the raw form from query parameters. Missing or empty
// parameters leave the field unset; passengers that are not an integer are
// unset too, never zero.
func Parse(values url.Values) models.RawFormState {
	var raw models.RawFormState
	for _, f := range models.Fields {
		if v := values.Get(string(f)); v != "" {
			raw = raw.Set(f, v)
		}
	}
	return raw
}

// ParseQuery accepts a bare query ("origin=A&..."), one with a leading "?"
// or a full link.
func ParseQuery(s string) (models.RawFormState, error) {
	values, err := Values(s)
	if err != nil {
		return models.RawFormState{}, err
	}
	return Parse(values), nil
}

// Values extracts the query parameters from any form ParseQuery accepts.
func Values(s string) (url.Values, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return nil, err
		}
		return u.Query(), nil
	}
	return url.ParseQuery(strings.TrimPrefix(s, "?"))
}

func Encode(raw models.RawFormState) url.Values {
	values := url.Values{}
	if raw.Origin != nil {
		values.Set(string(models.FieldOrigin), *raw.Origin)
	}
	if raw.Destination != nil {
		values.Set(string(models.FieldDestination), *raw.Destination)
	}
	if raw.Date != nil {
		values.Set(string(models.FieldDate), *raw.Date)
	}
	if raw.Passengers != nil {
		values.Set(string(models.FieldPassengers), strconv.Itoa(*raw.Passengers))
	}
	return values
}

// Binding keeps the raw form and its query parameters in step. Both are
// written under one lock, so readers never see them disagree. Parameters
// other than the form fields are carried along untouched.
type Binding struct {
	mu     sync.RWMutex
	raw    models.RawFormState
	values url.Values
}

func NewBinding(values url.Values) *Binding {
	raw := Parse(values)

	kept := url.Values{}
	for k, v := range values {
		kept[k] = append([]string(nil), v...)
	}
	for _, f := range models.Fields {
		syncParam(kept, f, raw)
	}

	return &Binding{
		raw:    raw,
		values: kept,
	}
}

// Set writes a raw field value and the matching query parameter, returning
// the new snapshot.
func (b *Binding) Set(field models.Field, value string) models.RawFormState {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.raw = b.raw.Set(field, value)
	syncParam(b.values, field, b.raw)
	return b.raw
}

// syncParam makes the field's parameter mirror raw; an unset field has no
// parameter.
func syncParam(values url.Values, field models.Field, raw models.RawFormState) {
	encoded := Encode(raw)
	if v := encoded.Get(string(field)); v != "" {
		values.Set(string(field), v)
		return
	}
	values.Del(string(field))
}

func (b *Binding) Snapshot() models.RawFormState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.raw
}

func (b *Binding) Query() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values.Encode()
}
