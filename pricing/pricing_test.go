package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/pricing"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func tourAt(s string) time.Time { return generic.MustParseInstant(s) }

func season(id, start, end string, adult, child string, taxes string) pricing.Season {
	s := pricing.Season{
		ID:    id,
		Name:  id,
		Range: generic.DateRange{Start: generic.MustParseDate(start), End: generic.MustParseDate(end)},
		Tiers: []pricing.PaxTierPrice{
			{Category: pricing.PaxAdult, UnitPrice: dec(adult)},
			{Category: pricing.PaxChild, UnitPrice: dec(child)},
		},
	}
	if taxes != "" {
		s.TaxesPercent = decPtr(taxes)
	}
	return s
}

func twoSeasonConfig() pricing.Config {
	return pricing.Config{
		Currency: "EUR",
		Seasons: []pricing.Season{
			season("S1", "2024-01-01", "2024-06-30", "100", "70", "10"),
			season("S2", "2024-07-01", "2024-12-31", "120", "80", "10"),
		},
	}
}

var (
	allOn = generic.AllFeatures()
	farNow = tourAt("2024-07-31T12:00:00Z") // one day before the usual tour: no early-bird
)

// =============================================================================
// TIER PRICING
// =============================================================================

func TestComputePrice_ConcreteScenario(t *testing.T) {
	// GIVEN: Season {adult:100, child:70, taxes:10%}
	// WHEN: 2 adults + 1 child
	// THEN: subtotal 270, taxes 27, total 297
	cfg := pricing.Config{
		Currency: "EUR",
		Seasons:  []pricing.Season{season("main", "2024-01-01", "2024-12-31", "100", "70", "10")},
	}
	in := pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pricing.PaxBreakdown{Adult: 2, Child: 1}}

	b := pricing.ComputePrice(cfg, in, farNow, allOn)

	assertDecimal(t, "270", b.Subtotal)
	assertDecimal(t, "27", b.Taxes)
	assertDecimal(t, "297", b.Total)
	assert.Empty(t, b.Modifiers)
	assert.Equal(t, generic.Currency("EUR"), b.Currency)
	assert.Equal(t, "main", b.SeasonID)
}

func TestComputePrice_ZeroPax_IsZeroNotError(t *testing.T) {
	b := pricing.ComputePrice(twoSeasonConfig(), pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z")}, farNow, allOn)

	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.Taxes.IsZero())
	assert.True(t, b.Total.IsZero())
}

func TestComputePrice_MissingTier_ContributesZero(t *testing.T) {
	cfg := pricing.Config{
		Currency: "EUR",
		Seasons: []pricing.Season{{
			ID:    "adults-only",
			Range: generic.DateRange{Start: generic.MustParseDate("2024-01-01"), End: generic.MustParseDate("2024-12-31")},
			Tiers: []pricing.PaxTierPrice{{Category: pricing.PaxAdult, UnitPrice: dec("50")}},
		}},
	}
	in := pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pricing.PaxBreakdown{Adult: 1, Child: 2, Infant: 1}}

	b := pricing.ComputePrice(cfg, in, farNow, allOn)

	assertDecimal(t, "50", b.Subtotal)
	assertDecimal(t, "0", b.Taxes, "no taxes configured")
	assertDecimal(t, "50", b.Total)
}

func TestComputePrice_NegativeCountsIgnored(t *testing.T) {
	in := pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pricing.PaxBreakdown{Adult: 1, Child: -3}}
	b := pricing.ComputePrice(twoSeasonConfig(), in, farNow, allOn)
	assertDecimal(t, "120", b.Subtotal)
}

// =============================================================================
// SEASON SELECTION
// =============================================================================

func TestComputePrice_SeasonSelection(t *testing.T) {
	cfg := twoSeasonConfig()
	pax := pricing.PaxBreakdown{Adult: 1}

	b := pricing.ComputePrice(cfg, pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pax}, farNow, allOn)
	assert.Equal(t, "S2", b.SeasonID)
	assertDecimal(t, "120", b.Subtotal)

	// Outside every range: first configured season, not an error
	b = pricing.ComputePrice(cfg, pricing.PriceInput{TourAt: tourAt("2025-03-01T09:00:00Z"), Pax: pax}, farNow, allOn)
	assert.Equal(t, "S1", b.SeasonID)
	assertDecimal(t, "100", b.Subtotal)
}

func TestComputePrice_SeasonBoundaryDaysInclusive(t *testing.T) {
	cfg := twoSeasonConfig()
	pax := pricing.PaxBreakdown{Adult: 1}

	// Last instant of June 30 (UTC) is still S1
	b := pricing.ComputePrice(cfg, pricing.PriceInput{TourAt: tourAt("2024-06-30T23:59:00Z"), Pax: pax}, farNow, allOn)
	assert.Equal(t, "S1", b.SeasonID)

	b = pricing.ComputePrice(cfg, pricing.PriceInput{TourAt: tourAt("2024-07-01T00:00:00Z"), Pax: pax}, farNow, allOn)
	assert.Equal(t, "S2", b.SeasonID)
}

func TestComputePrice_FirstMatchWins(t *testing.T) {
	// GIVEN: A holiday override listed before the broad season it sits in
	holiday := season("xmas", "2024-12-20", "2024-12-31", "200", "150", "")
	broad := season("winter", "2024-12-01", "2024-12-31", "80", "50", "")
	pax := pricing.PaxBreakdown{Adult: 1}
	in := pricing.PriceInput{TourAt: tourAt("2024-12-24T10:00:00Z"), Pax: pax}
	now := tourAt("2024-12-23T10:00:00Z")

	b := pricing.ComputePrice(pricing.Config{Currency: "EUR", Seasons: []pricing.Season{holiday, broad}}, in, now, allOn)
	assert.Equal(t, "xmas", b.SeasonID)

	// Reordering changes the result: list order is the priority
	b = pricing.ComputePrice(pricing.Config{Currency: "EUR", Seasons: []pricing.Season{broad, holiday}}, in, now, allOn)
	assert.Equal(t, "winter", b.SeasonID)
}

func TestComputePrice_WeekdayWeekendRestriction(t *testing.T) {
	cfg := pricing.HighLowSeasons(2024, "EUR")
	pax := pricing.PaxBreakdown{Adult: 1}
	now := tourAt("2024-01-01T00:00:00Z")

	cases := []struct {
		date   string
		season string
	}{
		{"2024-08-03T10:00:00Z", "summer-weekends"}, // Saturday
		{"2024-08-05T10:00:00Z", "high"},            // Monday
		{"2024-03-02T10:00:00Z", "low"},             // Saturday, outside the override range
	}
	for _, tc := range cases {
		b := pricing.ComputePrice(cfg, pricing.PriceInput{TourAt: tourAt(tc.date), Pax: pax}, now, generic.Features{SeasonalPricing: true})
		assert.Equal(t, tc.season, b.SeasonID, tc.date)
	}

	weekdays := season("wk", "2024-01-01", "2024-12-31", "10", "5", "")
	weekdays.Restriction = pricing.WeekdaysOnly
	assert.True(t, weekdays.Matches(generic.MustParseDate("2024-08-05")))
	assert.False(t, weekdays.Matches(generic.MustParseDate("2024-08-04")))
}

func TestComputePrice_EmptySeasons_UsesDefaultPricing(t *testing.T) {
	// GIVEN: No seasons at all
	// THEN: adult 100, child 70, 10% tax; no season id
	in := pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pricing.PaxBreakdown{Adult: 2, Child: 1, Infant: 1}}

	b := pricing.ComputePrice(pricing.Config{Currency: "USD"}, in, farNow, allOn)

	assertDecimal(t, "270", b.Subtotal)
	assertDecimal(t, "27", b.Taxes)
	assertDecimal(t, "297", b.Total)
	assert.Equal(t, "", b.SeasonID)
	assert.True(t, b.UsedDefaults())
}

func TestComputePrice_SeasonalPricingOff_UsesFirstSeason(t *testing.T) {
	cfg := twoSeasonConfig()
	cfg.Modifiers = []pricing.TimeWindowModifier{{Type: pricing.ModifierEarlyBird, PercentOff: dec("10"), DaysBefore: 0}}
	in := pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pricing.PaxBreakdown{Adult: 1}}

	b := pricing.ComputePrice(cfg, in, farNow, generic.Features{SeasonalPricing: false})

	assert.Equal(t, "S1", b.SeasonID, "date restriction ignored")
	assertDecimal(t, "100", b.Subtotal)
	assert.Empty(t, b.Modifiers, "modifiers are part of seasonal pricing")
	assertDecimal(t, "110", b.Total)
}

// =============================================================================
// PRIVATE TOURS
// =============================================================================

func TestComputePrice_PrivateOverride(t *testing.T) {
	s := season("main", "2024-01-01", "2024-12-31", "100", "70", "5")
	s.PrivateTourPrice = decPtr("500")
	cfg := pricing.Config{Currency: "EUR", Seasons: []pricing.Season{s}}

	for _, pax := range []pricing.PaxBreakdown{{}, {Adult: 1}, {Adult: 9, Child: 4, Infant: 2}} {
		in := pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pax, IsPrivate: true}
		b := pricing.ComputePrice(cfg, in, farNow, allOn)
		assertDecimal(t, "500", b.Subtotal)
		assertDecimal(t, "25", b.Taxes)
		assertDecimal(t, "525", b.Total)
	}
}

func TestComputePrice_PrivateWithoutFlatPrice_UsesTiers(t *testing.T) {
	in := pricing.PriceInput{TourAt: tourAt("2024-08-01T09:00:00Z"), Pax: pricing.PaxBreakdown{Adult: 2}, IsPrivate: true}
	b := pricing.ComputePrice(twoSeasonConfig(), in, farNow, allOn)
	assertDecimal(t, "240", b.Subtotal)
}

func TestPaxCategories_CallersCannotChangeTheOrder(t *testing.T) {
	cats := pricing.PaxCategories()
	cats[0] = pricing.PaxInfant

	assert.Equal(t, []pricing.PaxCategory{pricing.PaxAdult, pricing.PaxChild, pricing.PaxInfant}, pricing.PaxCategories())
	assert.Equal(t, 3, pricing.PaxBreakdown{Adult: 1, Child: 1, Infant: 1}.Total())
}
