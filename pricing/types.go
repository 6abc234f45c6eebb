// Package pricing implements the tour price evaluator.
// It turns a pricing configuration and a booking draft into a price breakdown.
// Every function here is pure: no I/O, no clock reads, no package state.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
)

// =============================================================================
// PASSENGER CATEGORIES
// =============================================================================

type PaxCategory string

const (
	PaxAdult  PaxCategory = "adult"
	PaxChild  PaxCategory = "child"
	PaxInfant PaxCategory = "infant"
)

// PaxCategories lists the categories in breakdown order. Each call returns
// a new slice.
func PaxCategories() []PaxCategory {
	return []PaxCategory{PaxAdult, PaxChild, PaxInfant}
}

func (c PaxCategory) Valid() bool {
	return c == PaxAdult || c == PaxChild || c == PaxInfant
}

// PaxBreakdown counts passengers per category. Child and Infant are optional
// in requests; zero means none.
type PaxBreakdown struct {
	Adult  int
	Child  int
	Infant int
}

// Count returns the number of passengers in a category.
func (p PaxBreakdown) Count(c PaxCategory) int {
	switch c {
	case PaxAdult:
		return p.Adult
	case PaxChild:
		return p.Child
	case PaxInfant:
		return p.Infant
	}
	return 0
}

// Total counts every passenger with a positive count.
func (p PaxBreakdown) Total() int {
	total := 0
	for _, c := range PaxCategories() {
		if n := p.Count(c); n > 0 {
			total += n
		}
	}
	return total
}

// =============================================================================
// SEASONS
// =============================================================================

// DayRestriction limits a season to weekdays or weekends.
type DayRestriction string

const (
	AnyDay       DayRestriction = ""
	WeekdaysOnly DayRestriction = "weekdays"
	WeekendsOnly DayRestriction = "weekends"
)

type PaxTierPrice struct {
	Category  PaxCategory
	UnitPrice decimal.Decimal
}

// Season is a date-ranged set of unit prices. Seasons are configuration:
// read-only during evaluation.
type Season struct {
	ID          string
	Name        string
	Range       generic.DateRange
	Restriction DayRestriction
	Tiers       []PaxTierPrice

	// PrivateTourPrice replaces per-pax pricing for private bookings.
	PrivateTourPrice *decimal.Decimal

	// TaxesPercent is applied to the subtotal; nil means no taxes.
	TaxesPercent *decimal.Decimal
}

// =============================================================================
// MODIFIERS
// =============================================================================

type ModifierType string

const (
	ModifierEarlyBird  ModifierType = "early-bird"
	ModifierLastMinute ModifierType = "last-minute"
)

// TimeWindowModifier adjusts the running total based on booking lead time.
// PercentOff is signed: positive is a discount, negative a surcharge.
type TimeWindowModifier struct {
	Type       ModifierType
	PercentOff decimal.Decimal

	// DaysBefore: early-bird applies when the tour is at least this many
	// (ceiled) days away.
	DaysBefore int

	// HoursBefore: last-minute applies when the tour is at most this many
	// (ceiled) hours away and not in the past.
	HoursBefore int
}

// =============================================================================
// CONFIG / INPUT / OUTPUT
// =============================================================================

// Config is an operator-maintained pricing configuration.
//
// Seasons are an ordered priority list: the first season whose range and
// day restriction match the tour date wins. Operators put overrides (a
// holiday week inside a high season) before the broader season.
type Config struct {
	Currency  generic.Currency
	Seasons   []Season
	Modifiers []TimeWindowModifier
}

// PriceInput is a booking draft. TourAt must come from a parsed ISO string.
type PriceInput struct {
	TourAt    time.Time
	Pax       PaxBreakdown
	IsPrivate bool
}

// ModifierEffect records one applied modifier as a signed delta.
type ModifierEffect struct {
	Label  string
	Amount decimal.Decimal
}

// PriceBreakdown is the evaluator output.
//
// Total == Subtotal + Taxes + sum(Modifiers[i].Amount), rounded once at the end.
// SeasonID is empty when the built-in default season was used.
type PriceBreakdown struct {
	Subtotal  decimal.Decimal
	Modifiers []ModifierEffect
	Taxes     decimal.Decimal
	Total     decimal.Decimal
	Currency  generic.Currency
	SeasonID  string
}

// ModifiersTotal sums the modifier deltas.
func (b PriceBreakdown) ModifiersTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, m := range b.Modifiers {
		sum = sum.Add(m.Amount)
	}
	return sum
}

// UsedDefaults reports whether no configured season was available.
func (b PriceBreakdown) UsedDefaults() bool { return b.SeasonID == "" }
