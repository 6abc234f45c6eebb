package generic

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE RANGE - Inclusive calendar range (season validity)
// =============================================================================

// DateRange is [Start, End], both days included.
type DateRange struct {
	Start Date
	End   Date
}

// Contains returns true if the day is within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Validate rejects ranges that end before they start.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: missing bound in %s", ErrInvalidRange, r)
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	return nil
}

// Days returns all days in the range.
func (r DateRange) Days() []Date {
	var days []Date
	for current := r.Start; current.BeforeOrEqual(r.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// =============================================================================
// TIME RANGE - Half-open instant interval (resource occupancy)
// =============================================================================

// TimeRange is [Start, End). Touching ranges do not overlap.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open ranges share any instant.
// Symmetric: a.Overlaps(b) == b.Overlaps(a).
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// RangesOverlap is the free-function form of Overlaps.
func RangesOverlap(a, b TimeRange) bool { return a.Overlaps(b) }

// Duration of the range; zero or negative for malformed ranges.
func (r TimeRange) Duration() time.Duration { return r.End.Sub(r.Start) }

// Hours returns the duration in hours, rounded to two decimals.
func (r TimeRange) Hours() decimal.Decimal {
	return Round2(decimal.NewFromFloat(r.Duration().Hours()))
}

// Day is the UTC calendar day the range starts on.
func (r TimeRange) Day() Date { return DateOf(r.Start) }

// Validate rejects empty and inverted ranges.
func (r TimeRange) Validate() error {
	if !r.End.After(r.Start) {
		return fmt.Errorf("%w: end %s not after start %s",
			ErrInvalidRange, r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

func (r TimeRange) String() string {
	return "[" + r.Start.Format(time.RFC3339) + ", " + r.End.Format(time.RFC3339) + ")"
}
