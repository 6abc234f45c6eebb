package factory

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/pricing"
)

// HighLowSeasonsJSON returns the two-season preset (with weekend override
// and lead-time modifiers) as a JSON document.
func HighLowSeasonsJSON(id, name string, year int, currency generic.Currency) string {
	cfg := pricing.HighLowSeasons(year, currency)
	cfg.Modifiers = pricing.LeadTimeModifiers()
	return mustMarshal(PricingDocument{ID: id, Name: name, Config: cfg})
}

// FlatPriceJSON returns a single all-year season with adult/child prices
// and a tax rate.
func FlatPriceJSON(id, name string, year int, currency generic.Currency, adult, child, taxes float64) string {
	cj := PricingConfigJSON{
		ID:       id,
		Name:     name,
		Currency: string(currency),
		Seasons: []SeasonJSON{{
			ID:        id + "-all-year",
			Name:      "All Year",
			StartDate: generic.NewDate(year, 1, 1).String(),
			EndDate:   generic.NewDate(year, 12, 31).String(),
			Tiers: []TierJSON{
				{Category: string(pricing.PaxAdult), UnitPrice: decimalFromFloat(adult)},
				{Category: string(pricing.PaxChild), UnitPrice: decimalFromFloat(child)},
			},
			TaxesPercent: decimalPtr(taxes),
		}},
	}
	b, _ := json.Marshal(cj)
	return string(b)
}

func mustMarshal(doc PricingDocument) string {
	s, err := NewConfigFactory().Marshal(doc)
	if err != nil {
		panic(err)
	}
	return s
}

func decimalFromFloat(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func decimalPtr(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}
