/*
presets.go - Built-in and sample pricing configurations

PURPOSE:
  DefaultSeason is the last-resort price list used when a configuration has
  no seasons at all. Its values are fixed for compatibility with existing
  quotes: adult 100, child 70, infant 0, taxes 10%.

  The other presets are ready-made configurations for demos and tests.

AVAILABLE PRESETS:
  DefaultSeason:        Last-resort price list (no id)
  HighLowSeasons:       Low Jan-Jun, high Jul-Dec, weekend surcharge season first
  LeadTimeModifiers:    Early-bird 10% at 60 days, last-minute 15% within 48h

SEE ALSO:
  - factory/presets.go: JSON versions of the same presets
*/
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
)

// DefaultSeason returns the built-in fallback price list.
func DefaultSeason() Season {
	taxes := decimal.NewFromInt(10)
	return Season{
		Name: "Default",
		Tiers: []PaxTierPrice{
			{Category: PaxAdult, UnitPrice: decimal.NewFromInt(100)},
			{Category: PaxChild, UnitPrice: decimal.NewFromInt(70)},
		},
		TaxesPercent: &taxes,
	}
}

// HighLowSeasons returns a two-season year with a weekend override in the
// high season. The override comes first so it wins on summer weekends.
func HighLowSeasons(year int, currency generic.Currency) Config {
	taxes := decimal.NewFromInt(10)
	private := decimal.NewFromInt(900)
	return Config{
		Currency: currency,
		Seasons: []Season{
			{
				ID:          "summer-weekends",
				Name:        "Summer Weekends",
				Range:       generic.DateRange{Start: generic.NewDate(year, time.July, 1), End: generic.NewDate(year, time.August, 31)},
				Restriction: WeekendsOnly,
				Tiers: []PaxTierPrice{
					{Category: PaxAdult, UnitPrice: decimal.NewFromInt(150)},
					{Category: PaxChild, UnitPrice: decimal.NewFromInt(100)},
					{Category: PaxInfant, UnitPrice: decimal.NewFromInt(10)},
				},
				PrivateTourPrice: &private,
				TaxesPercent:     &taxes,
			},
			{
				ID:    "low",
				Name:  "Low Season",
				Range: generic.DateRange{Start: generic.NewDate(year, time.January, 1), End: generic.NewDate(year, time.June, 30)},
				Tiers: []PaxTierPrice{
					{Category: PaxAdult, UnitPrice: decimal.NewFromInt(90)},
					{Category: PaxChild, UnitPrice: decimal.NewFromInt(60)},
				},
				TaxesPercent: &taxes,
			},
			{
				ID:    "high",
				Name:  "High Season",
				Range: generic.DateRange{Start: generic.NewDate(year, time.July, 1), End: generic.NewDate(year, time.December, 31)},
				Tiers: []PaxTierPrice{
					{Category: PaxAdult, UnitPrice: decimal.NewFromInt(130)},
					{Category: PaxChild, UnitPrice: decimal.NewFromInt(85)},
					{Category: PaxInfant, UnitPrice: decimal.NewFromInt(5)},
				},
				PrivateTourPrice: &private,
				TaxesPercent:     &taxes,
			},
		},
	}
}

// LeadTimeModifiers returns an early-bird discount followed by a
// last-minute discount.
func LeadTimeModifiers() []TimeWindowModifier {
	return []TimeWindowModifier{
		{Type: ModifierEarlyBird, PercentOff: decimal.NewFromInt(10), DaysBefore: 60},
		{Type: ModifierLastMinute, PercentOff: decimal.NewFromInt(15), HoursBefore: 48},
	}
}
