package availability

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
)

// GuideDailyHours sums, per guide, the hours of assignments starting on the
// given UTC day. Each sum is rounded to two decimals.
func GuideDailyHours(day generic.Date, guides []ResourceAssignment) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, a := range guides {
		if !a.Day().Equal(day) {
			continue
		}
		hours := decimal.NewFromFloat(a.End.Sub(a.Start).Hours())
		totals[a.ResourceID] = totals[a.ResourceID].Add(hours)
	}
	for id, h := range totals {
		totals[id] = generic.Round2(h)
	}
	return totals
}

// FindHoursViolations returns guides whose hours on the day exceed the
// threshold, sorted by guide id.
func FindHoursViolations(day generic.Date, guides []ResourceAssignment, threshold decimal.Decimal) []HoursViolation {
	var out []HoursViolation
	for id, hours := range GuideDailyHours(day, guides) {
		if hours.GreaterThan(threshold) {
			out = append(out, HoursViolation{GuideID: id, Hours: hours, Threshold: threshold})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuideID < out[j].GuideID })
	return out
}

// Reason renders the violation for display.
func (v HoursViolation) Reason() string {
	return fmt.Sprintf("Guide %s exceeds max daily hours (%sh > %sh)", v.GuideID, v.Hours.String(), v.Threshold.String())
}
