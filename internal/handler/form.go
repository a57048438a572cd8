package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/journeysearch/internal/form"
	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/internal/urlstate"
	"github.com/dharmasatrya/journeysearch/internal/validation"
)

type FormHandler struct {
	validator *validation.Validator
}

func NewFormHandler(v *validation.Validator) *FormHandler {
	return &FormHandler{validator: v}
}

// formEvent carries the client's current form state along with one edit.
type formEvent struct {
	Phase  string              `json:"phase"`
	Raw    models.RawFormState `json:"raw"`
	Errors models.FieldErrors  `json:"errors"`
	Field  string              `json:"field"`
	Value  string              `json:"value"`
}

func (h *FormHandler) Event(c echo.Context) error {
	var event formEvent
	if err := c.Bind(&event); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body",
			Code:    http.StatusBadRequest,
		})
	}

	field, ok := models.ParseField(event.Field)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Unknown field: " + event.Field,
			Code:    http.StatusBadRequest,
		})
	}

	state := form.State{
		Raw:    event.Raw,
		Errors: event.Errors,
		Phase:  form.ParsePhase(event.Phase),
	}
	state = form.Reduce(h.validator, state, form.FieldChanged{Field: field, Value: event.Value})

	return c.JSON(http.StatusOK, state.View(h.validator, urlstate.Encode(state.Raw).Encode()))
}
