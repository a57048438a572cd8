// Package shell renders search outcomes for a terminal.
package shell

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dharmasatrya/journeysearch/internal/models"
	"github.com/dharmasatrya/journeysearch/pkg/currency"
)

type Terminal struct {
	out io.Writer
	loc *time.Location
}

func NewTerminal(out io.Writer, loc *time.Location) *Terminal {
	return &Terminal{out: out, loc: loc}
}

func (t *Terminal) RenderLoading() {
	fmt.Fprintln(t.out, "Searching journeys...")
}

func (t *Terminal) RenderError(message string) {
	fmt.Fprintf(t.out, "An unexpected error occurred: %s\n", message)
}

func (t *Terminal) RenderResults(journeys []models.Journey) {
	if len(journeys) == 0 {
		fmt.Fprintln(t.out, "No results")
		return
	}

	fmt.Fprintln(t.out, "Possible Journeys")
	w := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Origin\tDestination\tDate\tDeparture time\tArrival time\tPrice")
	for _, j := range journeys {
		departure := j.Departure.In(t.loc)
		arrival := j.Arrival.In(t.loc)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			j.Origin,
			j.Destination,
			departure.Format("02-01-2006"),
			departure.Format("15:04"),
			arrival.Format("15:04"),
			currency.Format(j.Price.Value, j.Price.Currency),
		)
	}
	_ = w.Flush()
}

// RenderFieldErrors lists the inline messages of a Live form.
func (t *Terminal) RenderFieldErrors(errs models.FieldErrors) {
	for _, f := range models.Fields {
		if msg := errs.Get(f); msg != nil {
			fmt.Fprintf(t.out, "%s: %s\n", f, *msg)
		}
	}
}
