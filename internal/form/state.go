// Package form holds the search form's state machine: raw values, the
// per-field error messages and the phase deciding whether those messages
// are shown at all.
package form

import (
	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

// Phase controls error visibility. A form starts Pristine and becomes Live
// on the first user edit; it never goes back.
type Phase int

const (
	Pristine Phase = iota
	Live
)

func (p Phase) String() string {
	if p == Live {
		return "live"
	}
	return "pristine"
}

func ParsePhase(s string) Phase {
	if s == "live" {
		return Live
	}
	return Pristine
}

type State struct {
	Raw    models.RawFormState
	Errors models.FieldErrors
	Phase  Phase
}

type Event interface {
	apply(v *validation.Validator, s State) State
}

// FieldChanged is a user edit of one field.
type FieldChanged struct {
	Field models.Field
	Value string
}

// Restored replaces the raw values without counting as an edit, as when
// the form is populated from the URL on load.
type Restored struct {
	Raw models.RawFormState
}

// Reduce applies one event and returns the next state. The input state is
// not modified.
func Reduce(v *validation.Validator, s State, e Event) State {
	return e.apply(v, s)
}

func (e FieldChanged) apply(v *validation.Validator, s State) State {
	s.Raw = s.Raw.Set(e.Field, e.Value)
	s.Phase = Live
	s.Errors = s.Errors.With(e.Field, validation.Message(v.Field(e.Field, s.Raw)))
	return s
}

func (e Restored) apply(_ *validation.Validator, s State) State {
	s.Raw = e.Raw
	return s
}

func (s State) View(v *validation.Validator, query string) models.FormView {
	return models.FormView{
		Phase:  s.Phase.String(),
		Raw:    s.Raw,
		Errors: s.Errors,
		Valid:  v.FormIsValid(s.Raw),
		Query:  query,
	}
}
