/*
Package booking is the host service around the pricing and availability
engines.

PURPOSE:
  The engines are pure: they price a draft and judge a departure from
  values handed to them. This package does the loading and saving around
  them: it fetches configurations, departures and assignments, calls the
  evaluators, and persists what the verdict allows.

RECORDS:
  PricingConfigRecord: Stored JSON configuration, versioned on every save
  Departure:           A scheduled tour run with seat capacity
  Assignment:          A vehicle or guide time block, usually tied to a departure
  Booking:             Confirmed seats with the quoted price frozen in
  AvailabilityRun:     One monitor verdict for one departure

SEE ALSO:
  - store.go: Store interface (sqlite and memory implementations)
  - service.go: Quote, CheckDeparture, CommitAssignment, CreateBooking
  - monitor.go: Periodic availability sweep
*/
package booking

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/pricing"
)

// PricingConfigRecord is a stored pricing configuration.
type PricingConfigRecord struct {
	ID         string
	Name       string
	Currency   generic.Currency
	ConfigJSON string
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Departure is one scheduled run of a tour.
type Departure struct {
	ID              string
	TourName        string
	PricingConfigID string
	StartsAt        time.Time
	MaxCapacity     int
	BookedCount     int
	CreatedAt       time.Time
}

// Date is the UTC calendar day the departure starts on.
func (d Departure) Date() generic.Date { return generic.DateOf(d.StartsAt) }

// Capacity returns the seat counters as the availability engine sees them.
func (d Departure) Capacity() availability.CapacityInfo {
	return availability.CapacityInfo{MaxCapacity: d.MaxCapacity, BookedCount: d.BookedCount}
}

// Assignment is a stored resource block.
type Assignment struct {
	availability.ResourceAssignment
	Kind      availability.ResourceKind
	CreatedAt time.Time
}

// BookingStatus tracks a booking's lifecycle.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
)

// Booking is a confirmed reservation. Prices are frozen at booking time.
type Booking struct {
	ID          string
	DepartureID string
	Pax         pricing.PaxBreakdown
	IsPrivate   bool
	Seats       int
	Subtotal    decimal.Decimal
	Modifiers   decimal.Decimal
	Taxes       decimal.Decimal
	Total       decimal.Decimal
	Currency    generic.Currency
	SeasonID    string
	Status      BookingStatus
	CreatedAt   time.Time
}

// AvailabilityRun records one monitor verdict.
type AvailabilityRun struct {
	ID          string
	DepartureID string
	Date        generic.Date
	Status      availability.Status
	Conflicts   []string
	CheckedAt   time.Time
}
