package pricing

import (
	"fmt"

	"github.com/warp/tour-engine/generic"
)

// Validate checks operator-entered configuration before it is stored.
// Evaluation itself tolerates anything typed; this guards the write path.
func (c Config) Validate() error {
	verr := generic.NewValidationError()

	if len(c.Currency) != 3 {
		verr.Add("currency", "must be a 3-letter code")
	}

	seen := make(map[string]bool, len(c.Seasons))
	for i, s := range c.Seasons {
		field := fmt.Sprintf("seasons[%d]", i)
		if s.ID == "" {
			verr.Add(field+".id", "required")
		} else if seen[s.ID] {
			verr.Add(field+".id", "duplicate season id "+s.ID)
		}
		seen[s.ID] = true

		if err := s.Range.Validate(); err != nil {
			verr.Add(field+".range", err.Error())
		}
		switch s.Restriction {
		case AnyDay, WeekdaysOnly, WeekendsOnly:
		default:
			verr.Add(field+".restriction", "must be weekdays or weekends")
		}
		for j, t := range s.Tiers {
			if !t.Category.Valid() {
				verr.Add(fmt.Sprintf("%s.tiers[%d].category", field, j), "must be adult, child or infant")
			}
			if t.UnitPrice.IsNegative() {
				verr.Add(fmt.Sprintf("%s.tiers[%d].unit_price", field, j), "must not be negative")
			}
		}
		if s.PrivateTourPrice != nil && s.PrivateTourPrice.IsNegative() {
			verr.Add(field+".private_tour_price", "must not be negative")
		}
		if s.TaxesPercent != nil && s.TaxesPercent.IsNegative() {
			verr.Add(field+".taxes_percent", "must not be negative")
		}
	}

	for i, m := range c.Modifiers {
		field := fmt.Sprintf("modifiers[%d]", i)
		switch m.Type {
		case ModifierEarlyBird:
			if m.DaysBefore < 0 {
				verr.Add(field+".days_before", "must not be negative")
			}
		case ModifierLastMinute:
			if m.HoursBefore < 0 {
				verr.Add(field+".hours_before", "must not be negative")
			}
		default:
			verr.Add(field+".type", "must be early-bird or last-minute")
		}
	}

	if verr.HasErrors() {
		return fmt.Errorf("%w: %w", generic.ErrInvalidConfig, verr)
	}
	return nil
}
