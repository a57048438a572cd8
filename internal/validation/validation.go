package validation

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/timezone"
)

const (
	MinPassengers = 1
	MaxPassengers = 10
)

// ASCII letters and whitespace only.
var locationPattern = regexp.MustCompile(`^[A-Za-z\s]+$`)

// Validator holds the field predicates. It is stateless apart from the
// clock and zone used to decide what "today" is.
type Validator struct {
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

type Option func(*Validator)

func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		v.loc = loc
	}
}

func New(opts ...Option) *Validator {
	v := &Validator{
		validate: validator.New(),
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}

	if err := v.validate.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		return locationPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

func (v *Validator) Zone() *time.Location {
	return v.loc
}

// Today is local midnight of the current calendar day.
func (v *Validator) Today() time.Time {
	return timezone.StartOfDay(v.now(), v.loc)
}

func (v *Validator) Location(field models.Field, value *string) error {
	reason := models.ErrOriginRequired
	if field == models.FieldDestination {
		reason = models.ErrDestinationRequired
	}

	if value == nil {
		return reason
	}
	if err := v.validate.Var(*value, "required,location"); err != nil {
		return reason
	}
	return nil
}

// Date accepts today and any later day; only strictly past days fail.
func (v *Validator) Date(value *string) error {
	if value == nil || *value == "" {
		return models.ErrDateInvalid
	}

	d, err := timezone.ParseDate(*value, v.loc)
	if err != nil {
		return models.ErrDateInvalid
	}
	if d.Before(v.Today()) {
		return models.ErrDateInvalid
	}
	return nil
}

func (v *Validator) Passengers(value *int) error {
	if value == nil {
		return models.ErrPassengersRange
	}
	if err := v.validate.Var(*value, "min=1,max=10"); err != nil {
		return models.ErrPassengersRange
	}
	return nil
}

func (v *Validator) Field(field models.Field, raw models.RawFormState) error {
	switch field {
	case models.FieldOrigin:
		return v.Location(field, raw.Origin)
	case models.FieldDestination:
		return v.Location(field, raw.Destination)
	case models.FieldDate:
		return v.Date(raw.Date)
	case models.FieldPassengers:
		return v.Passengers(raw.Passengers)
	}
	return nil
}

// Errors evaluates every field, regardless of whether the user touched it.
func (v *Validator) Errors(raw models.RawFormState) models.FieldErrors {
	var errs models.FieldErrors
	for _, f := range models.Fields {
		errs = errs.With(f, Message(v.Field(f, raw)))
	}
	return errs
}

func (v *Validator) FormIsValid(raw models.RawFormState) bool {
	for _, f := range models.Fields {
		if v.Field(f, raw) != nil {
			return false
		}
	}
	return true
}

// Message converts a predicate result into the optional inline message.
func Message(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}
