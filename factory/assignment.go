package factory

import (
	"fmt"

	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/pricing"
)

// =============================================================================
// RESOURCE ASSIGNMENTS
// =============================================================================

// AssignmentJSON is a resource time block as received from clients.
type AssignmentJSON struct {
	ID          string `json:"id"`
	ResourceID  string `json:"resource_id"`
	Kind        string `json:"kind"` // vehicle, guide
	Date        string `json:"date,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	DepartureID string `json:"departure_id,omitempty"`
}

// ParseAssignment converts and validates an assignment. Unparseable instants
// fail with ErrInvalidDateFormat; end <= start fails with ErrInvalidRange.
// Date defaults to the UTC day of Start; a different date is rejected.
func ParseAssignment(aj AssignmentJSON) (availability.ResourceKind, availability.ResourceAssignment, error) {
	kind := availability.ResourceKind(aj.Kind)
	if !kind.Valid() {
		verr := generic.NewValidationError()
		verr.Add("kind", "must be vehicle or guide")
		return "", availability.ResourceAssignment{}, verr
	}
	if aj.ResourceID == "" {
		verr := generic.NewValidationError()
		verr.Add("resource_id", "required")
		return "", availability.ResourceAssignment{}, verr
	}

	start, err := generic.ParseInstant(aj.Start)
	if err != nil {
		return "", availability.ResourceAssignment{}, generic.WithField(err, "start")
	}
	end, err := generic.ParseInstant(aj.End)
	if err != nil {
		return "", availability.ResourceAssignment{}, generic.WithField(err, "end")
	}
	if err := (generic.TimeRange{Start: start, End: end}).Validate(); err != nil {
		return "", availability.ResourceAssignment{}, fmt.Errorf("assignment %s: %w", aj.ID, err)
	}

	date := generic.DateOf(start)
	if aj.Date != "" {
		given, err := generic.ParseDate(aj.Date)
		if err != nil {
			return "", availability.ResourceAssignment{}, generic.WithField(err, "date")
		}
		if !given.Equal(date) {
			verr := generic.NewValidationError()
			verr.Add("date", fmt.Sprintf("must be %s, the UTC day of start", date))
			return "", availability.ResourceAssignment{}, verr
		}
	}

	return kind, availability.ResourceAssignment{
		ID:          aj.ID,
		ResourceID:  aj.ResourceID,
		Date:        date,
		Start:       start,
		End:         end,
		DepartureID: aj.DepartureID,
	}, nil
}

// AssignmentToJSON renders an assignment with RFC3339 instants.
func AssignmentToJSON(kind availability.ResourceKind, a availability.ResourceAssignment) AssignmentJSON {
	return AssignmentJSON{
		ID:          a.ID,
		ResourceID:  a.ResourceID,
		Kind:        string(kind),
		Date:        a.Date.String(),
		Start:       a.Start.UTC().Format(instantLayout),
		End:         a.End.UTC().Format(instantLayout),
		DepartureID: a.DepartureID,
	}
}

const instantLayout = "2006-01-02T15:04:05Z07:00"

// =============================================================================
// PRICE INPUT
// =============================================================================

// PaxJSON is the passenger mix. Child and infant may be omitted.
type PaxJSON struct {
	Adult  int `json:"adult"`
	Child  int `json:"child,omitempty"`
	Infant int `json:"infant,omitempty"`
}

// PriceInputJSON is a booking draft as received from clients.
type PriceInputJSON struct {
	TourDate  string  `json:"tour_date"`
	Pax       PaxJSON `json:"pax"`
	IsPrivate bool    `json:"is_private,omitempty"`
}

// ParsePriceInput converts a draft, rejecting unparseable tour dates and
// negative passenger counts.
func ParsePriceInput(pj PriceInputJSON) (pricing.PriceInput, error) {
	at, err := generic.ParseInstant(pj.TourDate)
	if err != nil {
		// A bare date means the start of that day.
		d, derr := generic.ParseDate(pj.TourDate)
		if derr != nil {
			return pricing.PriceInput{}, generic.WithField(err, "tour_date")
		}
		at = d.Time
	}

	verr := generic.NewValidationError()
	if pj.Pax.Adult < 0 {
		verr.Add("pax.adult", "must not be negative")
	}
	if pj.Pax.Child < 0 {
		verr.Add("pax.child", "must not be negative")
	}
	if pj.Pax.Infant < 0 {
		verr.Add("pax.infant", "must not be negative")
	}
	if err := verr.OrNil(); err != nil {
		return pricing.PriceInput{}, err
	}

	return pricing.PriceInput{
		TourAt:    at,
		Pax:       pricing.PaxBreakdown{Adult: pj.Pax.Adult, Child: pj.Pax.Child, Infant: pj.Pax.Infant},
		IsPrivate: pj.IsPrivate,
	}, nil
}
