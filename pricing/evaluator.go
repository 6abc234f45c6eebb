/*
evaluator.go - Price computation for a booking draft

PURPOSE:
  Computes the price breakdown shown in the booking preview and stored on
  the booking. Pure function of (config, input, now, features).

ALGORITHM:
  1. Truncate the tour instant to its UTC day and select a season
     (first match in list order; first season when nothing matches or when
     seasonal pricing is off; built-in defaults when no season exists).
  2. Subtotal: flat private price, or sum(count * unit price) per category.
  3. Taxes: subtotal * taxesPercent / 100.
  4. total = subtotal + taxes, then each lead-time modifier in list order,
     each on the running total (skipped when seasonal pricing is off).
  5. Round subtotal, taxes and total to 2 decimals, once, at the end.

CLOCK:
  ComputePrice never reads the clock. Evaluator.Quote resolves "now" from an
  injected clock for callers that do not pass one.

SEE ALSO:
  - season.go: Season selection and tier pricing
  - modifiers.go: Early-bird / last-minute chain
  - presets.go: Built-in default season
*/
package pricing

import (
	"time"

	"github.com/warp/tour-engine/generic"
)

// ComputePrice evaluates a booking draft against a pricing configuration.
// It never fails: empty season lists fall back to DefaultSeason, missing
// tiers price at zero.
func ComputePrice(cfg Config, in PriceInput, now time.Time, features generic.Features) PriceBreakdown {
	day := generic.DateOf(in.TourAt)
	season, usedDefault := SelectSeason(cfg.Seasons, day, features.SeasonalPricing)

	subtotal := season.Subtotal(in.Pax, in.IsPrivate)
	taxes := season.Taxes(subtotal)
	total := subtotal.Add(taxes)

	effects := []ModifierEffect{}
	if features.SeasonalPricing {
		total, effects = ApplyModifiers(total, cfg.Modifiers, in.TourAt, now)
	}

	breakdown := PriceBreakdown{
		Subtotal:  generic.Round2(subtotal),
		Modifiers: effects,
		Taxes:     generic.Round2(taxes),
		Total:     generic.Round2(total),
		Currency:  cfg.Currency,
	}
	if !usedDefault {
		breakdown.SeasonID = season.ID
	}
	return breakdown
}

// =============================================================================
// EVALUATOR - Clock and feature binding for hosts
// =============================================================================

// Evaluator binds feature toggles and a clock. It holds no mutable state and
// is safe for concurrent use.
type Evaluator struct {
	Features generic.Features
	Clock    func() time.Time
}

// NewEvaluator creates an evaluator using the wall clock.
func NewEvaluator(features generic.Features) *Evaluator {
	return &Evaluator{Features: features, Clock: time.Now}
}

// Quote prices the draft as of the evaluator's clock.
func (e *Evaluator) Quote(cfg Config, in PriceInput) PriceBreakdown {
	return e.QuoteAt(cfg, in, e.now())
}

// QuoteAt prices the draft as of an explicit instant. A zero now falls back
// to the evaluator's clock.
func (e *Evaluator) QuoteAt(cfg Config, in PriceInput, now time.Time) PriceBreakdown {
	if now.IsZero() {
		now = e.now()
	}
	return ComputePrice(cfg, in, now, e.Features)
}

func (e *Evaluator) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}
