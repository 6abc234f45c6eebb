package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
)

// =============================================================================
// SEASON MATCHING
// =============================================================================

// Matches returns true if the day is inside the season's inclusive range and
// satisfies its day restriction.
func (s Season) Matches(d generic.Date) bool {
	if !s.Range.Contains(d) {
		return false
	}
	switch s.Restriction {
	case WeekdaysOnly:
		return d.IsWorkday()
	case WeekendsOnly:
		return d.IsWeekend()
	default:
		return true
	}
}

// MatchSeason scans seasons in order and returns the first match.
func MatchSeason(seasons []Season, d generic.Date) (Season, bool) {
	for _, s := range seasons {
		if s.Matches(d) {
			return s, true
		}
	}
	return Season{}, false
}

// SelectSeason picks the season that prices a tour day.
//
//   - no seasons configured: the built-in DefaultSeason, usedDefault=true
//   - seasonal pricing off: the first configured season, no date check
//   - seasonal pricing on: the first matching season, else the first season
func SelectSeason(seasons []Season, d generic.Date, seasonal bool) (season Season, usedDefault bool) {
	if len(seasons) == 0 {
		return DefaultSeason(), true
	}
	if seasonal {
		if s, ok := MatchSeason(seasons, d); ok {
			return s, false
		}
	}
	return seasons[0], false
}

// =============================================================================
// TIER PRICING
// =============================================================================

// UnitPrice returns the first tier price for the category. A missing tier
// prices at zero.
func (s Season) UnitPrice(c PaxCategory) decimal.Decimal {
	for _, t := range s.Tiers {
		if t.Category == c {
			return t.UnitPrice
		}
	}
	return decimal.Zero
}

// Subtotal prices a passenger mix. Private bookings use the flat private
// price when the season defines one.
func (s Season) Subtotal(pax PaxBreakdown, private bool) decimal.Decimal {
	if private && s.PrivateTourPrice != nil {
		return *s.PrivateTourPrice
	}
	subtotal := decimal.Zero
	for _, c := range PaxCategories() {
		n := pax.Count(c)
		if n <= 0 {
			continue
		}
		subtotal = subtotal.Add(s.UnitPrice(c).Mul(decimal.NewFromInt(int64(n))))
	}
	return subtotal
}

// Taxes returns subtotal * TaxesPercent / 100, zero when unset.
func (s Season) Taxes(subtotal decimal.Decimal) decimal.Decimal {
	if s.TaxesPercent == nil {
		return decimal.Zero
	}
	return generic.PercentOf(subtotal, *s.TaxesPercent)
}
