// Package availability decides whether a departure can be scheduled.
// It detects double-booked vehicles and guides, guide daily-hour excess and
// capacity exhaustion, and folds them into one verdict. Pure functions only.
package availability

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
)

// =============================================================================
// RESOURCES
// =============================================================================

type ResourceKind string

const (
	KindVehicle ResourceKind = "vehicle"
	KindGuide   ResourceKind = "guide"
)

func (k ResourceKind) Valid() bool { return k == KindVehicle || k == KindGuide }

// ResourceAssignment is one committed (or proposed) time block for a vehicle
// or a guide. Start and End must come from parsed instants; [Start, End).
type ResourceAssignment struct {
	ID          string
	ResourceID  string
	Date        generic.Date
	Start       time.Time
	End         time.Time
	DepartureID string
}

// Range returns the half-open occupancy interval.
func (a ResourceAssignment) Range() generic.TimeRange {
	return generic.TimeRange{Start: a.Start, End: a.End}
}

// Day is the UTC calendar day of the start instant. The daily-hours policy
// uses this, not the Date field.
func (a ResourceAssignment) Day() generic.Date { return generic.DateOf(a.Start) }

// =============================================================================
// CAPACITY & STATUS
// =============================================================================

type CapacityInfo struct {
	MaxCapacity int
	BookedCount int
}

// Remaining seats, never negative.
func (c CapacityInfo) Remaining() int {
	if c.BookedCount >= c.MaxCapacity {
		return 0
	}
	return c.MaxCapacity - c.BookedCount
}

// Status is ordered by severity: available < low < sold-out < conflicted.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusLow        Status = "low"
	StatusSoldOut    Status = "sold-out"
	StatusConflicted Status = "conflicted"
)

// Severity ranks statuses for coloring and gating.
func (s Status) Severity() int {
	switch s {
	case StatusAvailable:
		return 0
	case StatusLow:
		return 1
	case StatusSoldOut:
		return 2
	case StatusConflicted:
		return 3
	}
	return -1
}

// Worst returns the more severe of two statuses.
func Worst(a, b Status) Status {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// Bookable reports whether new passengers may be added.
func (s Status) Bookable() bool { return s == StatusAvailable || s == StatusLow }

// =============================================================================
// CHECK INPUT / RESULT
// =============================================================================

const defaultGuideMaxDailyHours = 10

// DefaultGuideMaxDailyHours returns the guide daily-hours policy threshold.
func DefaultGuideMaxDailyHours() decimal.Decimal {
	return decimal.NewFromInt(defaultGuideMaxDailyHours)
}

// DepartureCheckInput bundles everything a check needs. The caller supplies
// a consistent snapshot of the day's assignments, what-if blocks included.
type DepartureCheckInput struct {
	Date     generic.Date
	Capacity CapacityInfo
	Vehicles []ResourceAssignment
	Guides   []ResourceAssignment

	// GuideMaxDailyHours overrides the policy threshold; zero means
	// DefaultGuideMaxDailyHours.
	GuideMaxDailyHours decimal.Decimal
}

func (in DepartureCheckInput) maxDailyHours() decimal.Decimal {
	if in.GuideMaxDailyHours.IsPositive() {
		return in.GuideMaxDailyHours
	}
	return DefaultGuideMaxDailyHours()
}

// Overlap is one pair of same-resource assignments that share time.
type Overlap struct {
	Kind       ResourceKind
	ResourceID string
	First      ResourceAssignment
	Second     ResourceAssignment
}

// HoursViolation is a guide over the daily-hours threshold.
type HoursViolation struct {
	GuideID   string
	Hours     decimal.Decimal
	Threshold decimal.Decimal
}

// Result is the verdict. Conflicts holds the human-readable reasons;
// Overlaps and HoursViolations carry the structured detail behind them.
type Result struct {
	Status          Status
	Capacity        Status
	Conflicts       []string
	Overlaps        []Overlap
	HoursViolations []HoursViolation
}

// Conflicted is shorthand for Status == StatusConflicted.
func (r Result) Conflicted() bool { return r.Status == StatusConflicted }
