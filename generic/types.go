/*
Package generic provides the shared primitives of the tour pricing and
availability engine.

PURPOSE:
  Domain-agnostic building blocks used by both evaluators. Nothing here
  knows about seasons, passengers, vehicles or guides. The pricing and
  availability packages are built on top.

KEY CONCEPTS IN THIS FILE (types.go):
  - Currency: ISO code carried by configs and breakdowns
  - Percent helpers: apply a percentage without float drift
  - Round2: the single rounding rule (2 decimals, half away from zero)
  - Features: explicit feature toggles handed to the evaluators

DESIGN PRINCIPLES:
  1. Purity: No package-level mutable state, no clock reads
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Explicit inputs: Toggles and "now" are always parameters

USAGE:
  taxes := generic.Round2(generic.PercentOf(decimal.NewFromInt(270), decimal.NewFromInt(10))) // 27

SEE ALSO:
  - time.go: Calendar days and boundary parsing
  - period.go: Inclusive date ranges and half-open time ranges
  - errors.go: Sentinel and structured errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY
// =============================================================================

type Currency string

// =============================================================================
// ROUNDING & PERCENTAGES
// =============================================================================

// Round2 rounds to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// PercentOf returns value * percent / 100. The division is a decimal shift,
// so it is exact.
func PercentOf(value, percent decimal.Decimal) decimal.Decimal {
	return value.Mul(percent).Shift(-2)
}

// =============================================================================
// FEATURES - Explicit toggles
// =============================================================================

// Features replaces global feature flags. Both evaluators receive it as a
// parameter so identical inputs always give identical outputs.
type Features struct {
	// SeasonalPricing enables date-based season matching and lead-time
	// modifiers. When off, the first configured season prices every date.
	SeasonalPricing bool

	// ResourceAvailability enables overlap and daily-hours checks. When off,
	// only capacity is classified.
	ResourceAvailability bool
}

// AllFeatures has every toggle on.
func AllFeatures() Features {
	return Features{SeasonalPricing: true, ResourceAvailability: true}
}
