/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY:
  Amounts are decimal strings with two places ("297.00"). Clients must not
  round-trip them through binary floats.

VALIDATION:
  Request types carry go-playground/validator tags for shape checks
  (required fields, enums, non-negative counts). Date parsing and
  domain rules stay in factory and booking.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/pricing.go: PricingConfigJSON type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/factory"
	"github.com/warp/tour-engine/pricing"
)

// =============================================================================
// PRICING
// =============================================================================

// PricingConfigDTO represents a stored pricing configuration.
type PricingConfigDTO struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Currency  string                    `json:"currency"`
	Version   int                       `json:"version"`
	Config    factory.PricingConfigJSON `json:"config"`
	CreatedAt string                    `json:"created_at,omitempty"`
	UpdatedAt string                    `json:"updated_at,omitempty"`
}

// PaxDTO is the passenger mix.
type PaxDTO struct {
	Adult  int `json:"adult" validate:"gte=0"`
	Child  int `json:"child" validate:"gte=0"`
	Infant int `json:"infant" validate:"gte=0"`
}

// QuoteRequest prices a draft. Now overrides the server clock for what-if
// quotes.
type QuoteRequest struct {
	TourDate  string `json:"tour_date" validate:"required"`
	Pax       PaxDTO `json:"pax"`
	IsPrivate bool   `json:"is_private"`
	Now       string `json:"now,omitempty"`
}

// ModifierEffectDTO is one applied modifier.
type ModifierEffectDTO struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// PriceBreakdownDTO is a quote.
type PriceBreakdownDTO struct {
	Subtotal     string              `json:"subtotal"`
	Modifiers    []ModifierEffectDTO `json:"modifiers"`
	Taxes        string              `json:"taxes"`
	Total        string              `json:"total"`
	Currency     string              `json:"currency"`
	SeasonID     string              `json:"season_id,omitempty"`
	UsedDefaults bool                `json:"used_defaults"`
}

// =============================================================================
// DEPARTURES AND AVAILABILITY
// =============================================================================

// DepartureDTO represents a departure.
type DepartureDTO struct {
	ID              string `json:"id"`
	TourName        string `json:"tour_name"`
	PricingConfigID string `json:"pricing_config_id"`
	StartsAt        string `json:"starts_at"`
	Date            string `json:"date"`
	MaxCapacity     int    `json:"max_capacity"`
	BookedCount     int    `json:"booked_count"`
	Remaining       int    `json:"remaining"`
	CreatedAt       string `json:"created_at,omitempty"`
}

// CreateDepartureRequest is the request to schedule a departure.
type CreateDepartureRequest struct {
	ID              string `json:"id"`
	TourName        string `json:"tour_name" validate:"required"`
	PricingConfigID string `json:"pricing_config_id" validate:"required"`
	StartsAt        string `json:"starts_at" validate:"required"`
	MaxCapacity     int    `json:"max_capacity" validate:"gte=0"`
	BookedCount     int    `json:"booked_count" validate:"gte=0"`
}

// AssignmentRequest is a resource block as submitted by clients.
type AssignmentRequest struct {
	ID          string `json:"id"`
	ResourceID  string `json:"resource_id" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=vehicle guide"`
	Date        string `json:"date,omitempty"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	DepartureID string `json:"departure_id"`
}

// CheckRequest carries optional what-if blocks.
type CheckRequest struct {
	Proposed []AssignmentRequest `json:"proposed" validate:"dive"`
}

// OverlapDTO is one overlapping pair.
type OverlapDTO struct {
	Kind       string `json:"kind"`
	ResourceID string `json:"resource_id"`
	FirstID    string `json:"first_id"`
	SecondID   string `json:"second_id"`
}

// HoursViolationDTO is one guide over the daily limit.
type HoursViolationDTO struct {
	GuideID   string `json:"guide_id"`
	Hours     string `json:"hours"`
	Threshold string `json:"threshold"`
}

// AvailabilityDTO is a departure verdict.
type AvailabilityDTO struct {
	DepartureID     string              `json:"departure_id"`
	Date            string              `json:"date"`
	Status          string              `json:"status"`
	CapacityStatus  string              `json:"capacity_status"`
	Conflicts       []string            `json:"conflicts"`
	Overlaps        []OverlapDTO        `json:"overlaps"`
	HoursViolations []HoursViolationDTO `json:"hours_violations"`
	MaxCapacity     int                 `json:"max_capacity"`
	BookedCount     int                 `json:"booked_count"`
	Remaining       int                 `json:"remaining"`
}

// AvailabilityRunDTO is one monitor verdict.
type AvailabilityRunDTO struct {
	ID          string   `json:"id"`
	DepartureID string   `json:"departure_id"`
	Date        string   `json:"date"`
	Status      string   `json:"status"`
	Conflicts   []string `json:"conflicts"`
	CheckedAt   string   `json:"checked_at"`
}

// MonitorSummaryDTO is the result of a manual sweep.
type MonitorSummaryDTO struct {
	From     string               `json:"from"`
	To       string               `json:"to"`
	Checked  int                  `json:"checked"`
	ByStatus map[string]int       `json:"by_status"`
	Runs     []AvailabilityRunDTO `json:"runs"`
	Errors   string               `json:"errors,omitempty"`
}

// =============================================================================
// BOOKINGS
// =============================================================================

// CreateBookingRequest is the request to book seats.
type CreateBookingRequest struct {
	DepartureID string `json:"departure_id" validate:"required"`
	Pax         PaxDTO `json:"pax"`
	IsPrivate   bool   `json:"is_private"`
}

// BookingDTO represents a confirmed booking.
type BookingDTO struct {
	ID          string `json:"id"`
	DepartureID string `json:"departure_id"`
	Pax         PaxDTO `json:"pax"`
	IsPrivate   bool   `json:"is_private"`
	Seats       int    `json:"seats"`
	Subtotal    string `json:"subtotal"`
	Modifiers   string `json:"modifiers"`
	Taxes       string `json:"taxes"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	SeasonID    string `json:"season_id,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// CreateBookingResponse returns the booking and the quote it froze.
type CreateBookingResponse struct {
	Booking BookingDTO        `json:"booking"`
	Quote   PriceBreakdownDTO `json:"quote"`
}

// =============================================================================
// MISC
// =============================================================================

// ScenarioDTO describes a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// HealthDTO reports liveness and the active feature toggles.
type HealthDTO struct {
	Status   string          `json:"status"`
	Features map[string]bool `json:"features"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string              `json:"error"`
	Details   string              `json:"details,omitempty"`
	Fields    map[string][]string `json:"fields,omitempty"`
	Conflicts []string            `json:"conflicts,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func toPriceBreakdownDTO(b pricing.PriceBreakdown) PriceBreakdownDTO {
	dto := PriceBreakdownDTO{
		Subtotal:     money(b.Subtotal),
		Modifiers:    make([]ModifierEffectDTO, 0, len(b.Modifiers)),
		Taxes:        money(b.Taxes),
		Total:        money(b.Total),
		Currency:     string(b.Currency),
		SeasonID:     b.SeasonID,
		UsedDefaults: b.UsedDefaults(),
	}
	for _, m := range b.Modifiers {
		dto.Modifiers = append(dto.Modifiers, ModifierEffectDTO{Label: m.Label, Amount: money(m.Amount)})
	}
	return dto
}

func toDepartureDTO(d booking.Departure) DepartureDTO {
	return DepartureDTO{
		ID:              d.ID,
		TourName:        d.TourName,
		PricingConfigID: d.PricingConfigID,
		StartsAt:        formatInstant(d.StartsAt),
		Date:            d.Date().String(),
		MaxCapacity:     d.MaxCapacity,
		BookedCount:     d.BookedCount,
		Remaining:       d.Capacity().Remaining(),
		CreatedAt:       formatInstant(d.CreatedAt),
	}
}

func toAvailabilityDTO(res *booking.CheckResult) AvailabilityDTO {
	dep := res.Departure
	dto := AvailabilityDTO{
		DepartureID:     dep.ID,
		Date:            dep.Date().String(),
		Status:          string(res.Status),
		CapacityStatus:  string(res.Capacity),
		Conflicts:       res.Conflicts,
		Overlaps:        make([]OverlapDTO, 0, len(res.Overlaps)),
		HoursViolations: make([]HoursViolationDTO, 0, len(res.HoursViolations)),
		MaxCapacity:     dep.MaxCapacity,
		BookedCount:     dep.BookedCount,
		Remaining:       dep.Capacity().Remaining(),
	}
	for _, o := range res.Overlaps {
		dto.Overlaps = append(dto.Overlaps, OverlapDTO{
			Kind:       string(o.Kind),
			ResourceID: o.ResourceID,
			FirstID:    o.First.ID,
			SecondID:   o.Second.ID,
		})
	}
	for _, v := range res.HoursViolations {
		dto.HoursViolations = append(dto.HoursViolations, HoursViolationDTO{
			GuideID:   v.GuideID,
			Hours:     v.Hours.String(),
			Threshold: v.Threshold.String(),
		})
	}
	return dto
}

func toAssignmentJSON(a booking.Assignment) factory.AssignmentJSON {
	return factory.AssignmentToJSON(a.Kind, a.ResourceAssignment)
}

func (r AssignmentRequest) toFactory() factory.AssignmentJSON {
	return factory.AssignmentJSON{
		ID:          r.ID,
		ResourceID:  r.ResourceID,
		Kind:        r.Kind,
		Date:        r.Date,
		Start:       r.Start,
		End:         r.End,
		DepartureID: r.DepartureID,
	}
}

func toBookingDTO(b booking.Booking) BookingDTO {
	return BookingDTO{
		ID:          b.ID,
		DepartureID: b.DepartureID,
		Pax:         PaxDTO{Adult: b.Pax.Adult, Child: b.Pax.Child, Infant: b.Pax.Infant},
		IsPrivate:   b.IsPrivate,
		Seats:       b.Seats,
		Subtotal:    money(b.Subtotal),
		Modifiers:   money(b.Modifiers),
		Taxes:       money(b.Taxes),
		Total:       money(b.Total),
		Currency:    string(b.Currency),
		SeasonID:    b.SeasonID,
		Status:      string(b.Status),
		CreatedAt:   formatInstant(b.CreatedAt),
	}
}

func toRunDTO(r booking.AvailabilityRun) AvailabilityRunDTO {
	conflicts := r.Conflicts
	if conflicts == nil {
		conflicts = []string{}
	}
	return AvailabilityRunDTO{
		ID:          r.ID,
		DepartureID: r.DepartureID,
		Date:        r.Date.String(),
		Status:      string(r.Status),
		Conflicts:   conflicts,
		CheckedAt:   formatInstant(r.CheckedAt),
	}
}

func toStatusCounts(m map[availability.Status]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
