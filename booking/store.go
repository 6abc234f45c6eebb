package booking

import (
	"context"

	"github.com/warp/tour-engine/generic"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// PricingConfigStore persists pricing configurations. Saving an existing id
// bumps its version.
type PricingConfigStore interface {
	SavePricingConfig(ctx context.Context, rec PricingConfigRecord) (PricingConfigRecord, error)
	GetPricingConfig(ctx context.Context, id string) (PricingConfigRecord, error)
	ListPricingConfigs(ctx context.Context) ([]PricingConfigRecord, error)
}

// DepartureStore persists departures.
type DepartureStore interface {
	// CreateDeparture fails with ErrDuplicateID when the id exists.
	CreateDeparture(ctx context.Context, d Departure) error
	GetDeparture(ctx context.Context, id string) (Departure, error)
	// ListDepartures returns departures starting within [from, to] by day,
	// ordered by start. Zero bounds are open.
	ListDepartures(ctx context.Context, from, to generic.Date) ([]Departure, error)
}

// AssignmentStore persists resource blocks.
type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a Assignment) error
	DeleteAssignment(ctx context.Context, id string) error
	ListAssignmentsByDate(ctx context.Context, date generic.Date) ([]Assignment, error)
}

// BookingStore persists bookings.
type BookingStore interface {
	// CreateBooking inserts the booking and adds b.Seats to the departure's
	// booked count in one step. It fails with ErrInsufficientCapacity when
	// the seats no longer fit.
	CreateBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookingsByDeparture(ctx context.Context, departureID string) ([]Booking, error)
}

// RunStore persists monitor verdicts.
type RunStore interface {
	SaveAvailabilityRun(ctx context.Context, r AvailabilityRun) error
	// ListAvailabilityRuns returns the newest runs first. limit <= 0 means all.
	ListAvailabilityRuns(ctx context.Context, limit int) ([]AvailabilityRun, error)
}

// Store is everything the service needs.
type Store interface {
	PricingConfigStore
	DepartureStore
	AssignmentStore
	BookingStore
	RunStore

	// Reset clears all data (demo scenarios).
	Reset(ctx context.Context) error
}
