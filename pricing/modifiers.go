package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
)

// =============================================================================
// LEAD-TIME MODIFIERS
// =============================================================================

// Applies reports whether the modifier's lead-time window holds for a tour
// starting at tourAt, evaluated at now.
func (m TimeWindowModifier) Applies(tourAt, now time.Time) bool {
	switch m.Type {
	case ModifierEarlyBird:
		return generic.CeilDaysBetween(now, tourAt) >= m.DaysBefore
	case ModifierLastMinute:
		hours := generic.CeilHoursBetween(now, tourAt)
		return hours >= 0 && hours <= m.HoursBefore
	default:
		return false
	}
}

// ApplyModifiers runs the modifiers in list order. Each one is computed on the
// running total left by the previous ones, not on the original amount.
// Deltas are signed (a discount is negative) and are not rounded here.
func ApplyModifiers(total decimal.Decimal, mods []TimeWindowModifier, tourAt, now time.Time) (decimal.Decimal, []ModifierEffect) {
	effects := make([]ModifierEffect, 0, len(mods))
	for _, m := range mods {
		if !m.Applies(tourAt, now) {
			continue
		}
		delta := generic.PercentOf(total, m.PercentOff).Neg()
		total = total.Add(delta)
		effects = append(effects, ModifierEffect{Label: string(m.Type), Amount: delta})
	}
	return total, effects
}
