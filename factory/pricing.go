/*
Package factory converts JSON documents into engine types.

PURPOSE:
  Pricing configurations are operator data: edited in the back office,
  stored as JSON, loaded per request. Resource assignments and booking
  drafts arrive as JSON with ISO date strings. The factory is the boundary
  where strings become typed values, so it is also where bad dates are
  rejected. Nothing unparsed reaches an evaluator.

JSON SCHEMA (pricing configuration):
  {
    "id": "city-tour-2024",
    "name": "City Tour 2024",
    "currency": "EUR",
    "seasons": [
      {
        "id": "high",
        "name": "High Season",
        "start_date": "2024-07-01",
        "end_date": "2024-12-31",
        "restriction": "weekends",
        "tiers": [
          {"category": "adult", "unit_price": 120},
          {"category": "child", "unit_price": 80}
        ],
        "private_tour_price": 900,
        "taxes_percent": 10
      }
    ],
    "modifiers": [
      {"type": "early-bird", "percent_off": 10, "days_before": 60},
      {"type": "last-minute", "percent_off": 15, "hours_before": 48}
    ]
  }

  Season order is priority order: the first matching season wins.

USAGE:
  f := factory.NewConfigFactory()
  doc, err := f.ParsePricingConfig(jsonString)
  breakdown := pricing.ComputePrice(doc.Config, input, now, features)

SEE ALSO:
  - pricing/types.go: Config, Season, TimeWindowModifier
  - assignment.go: Assignment and price-input parsing
  - presets.go: JSON presets
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/pricing"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PricingConfigJSON is the JSON representation of a pricing configuration.
type PricingConfigJSON struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Currency  string         `json:"currency"`
	Seasons   []SeasonJSON   `json:"seasons"`
	Modifiers []ModifierJSON `json:"modifiers,omitempty"`
}

// SeasonJSON represents one season.
type SeasonJSON struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	StartDate        string           `json:"start_date"`
	EndDate          string           `json:"end_date"`
	Restriction      string           `json:"restriction,omitempty"` // weekdays, weekends
	Tiers            []TierJSON       `json:"tiers"`
	PrivateTourPrice *decimal.Decimal `json:"private_tour_price,omitempty"`
	TaxesPercent     *decimal.Decimal `json:"taxes_percent,omitempty"`
}

// TierJSON is a per-category unit price.
type TierJSON struct {
	Category  string          `json:"category"` // adult, child, infant
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ModifierJSON is a lead-time modifier.
type ModifierJSON struct {
	Type        string          `json:"type"` // early-bird, last-minute
	PercentOff  decimal.Decimal `json:"percent_off"`
	DaysBefore  int             `json:"days_before,omitempty"`
	HoursBefore int             `json:"hours_before,omitempty"`
}

// PricingDocument is a parsed configuration with its identity.
type PricingDocument struct {
	ID     string
	Name   string
	Config pricing.Config
}

// =============================================================================
// CONFIG FACTORY
// =============================================================================

// ConfigFactory converts JSON configurations to engine structs.
type ConfigFactory struct{}

// NewConfigFactory creates a new config factory.
func NewConfigFactory() *ConfigFactory {
	return &ConfigFactory{}
}

// ParsePricingConfig parses and validates a JSON pricing configuration.
func (f *ConfigFactory) ParsePricingConfig(jsonStr string) (*PricingDocument, error) {
	var cj PricingConfigJSON
	if err := json.Unmarshal([]byte(jsonStr), &cj); err != nil {
		return nil, fmt.Errorf("%w: failed to parse pricing JSON: %w", generic.ErrInvalidConfig, err)
	}
	return f.FromJSON(cj)
}

// FromJSON converts PricingConfigJSON into a validated PricingDocument.
func (f *ConfigFactory) FromJSON(cj PricingConfigJSON) (*PricingDocument, error) {
	if cj.ID == "" {
		return nil, fmt.Errorf("%w: id is required", generic.ErrInvalidConfig)
	}

	cfg := pricing.Config{Currency: generic.Currency(cj.Currency)}

	for i, sj := range cj.Seasons {
		s, err := parseSeason(sj)
		if err != nil {
			return nil, fmt.Errorf("season %d (%s): %w", i, sj.ID, err)
		}
		cfg.Seasons = append(cfg.Seasons, s)
	}

	for _, mj := range cj.Modifiers {
		cfg.Modifiers = append(cfg.Modifiers, pricing.TimeWindowModifier{
			Type:        pricing.ModifierType(mj.Type),
			PercentOff:  mj.PercentOff,
			DaysBefore:  mj.DaysBefore,
			HoursBefore: mj.HoursBefore,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &PricingDocument{ID: cj.ID, Name: cj.Name, Config: cfg}, nil
}

// ToJSON converts a document back to its JSON form.
func (f *ConfigFactory) ToJSON(doc PricingDocument) PricingConfigJSON {
	cj := PricingConfigJSON{
		ID:       doc.ID,
		Name:     doc.Name,
		Currency: string(doc.Config.Currency),
		Seasons:  make([]SeasonJSON, 0, len(doc.Config.Seasons)),
	}

	for _, s := range doc.Config.Seasons {
		sj := SeasonJSON{
			ID:               s.ID,
			Name:             s.Name,
			StartDate:        s.Range.Start.String(),
			EndDate:          s.Range.End.String(),
			Restriction:      string(s.Restriction),
			PrivateTourPrice: s.PrivateTourPrice,
			TaxesPercent:     s.TaxesPercent,
		}
		for _, t := range s.Tiers {
			sj.Tiers = append(sj.Tiers, TierJSON{Category: string(t.Category), UnitPrice: t.UnitPrice})
		}
		cj.Seasons = append(cj.Seasons, sj)
	}

	for _, m := range doc.Config.Modifiers {
		cj.Modifiers = append(cj.Modifiers, ModifierJSON{
			Type:        string(m.Type),
			PercentOff:  m.PercentOff,
			DaysBefore:  m.DaysBefore,
			HoursBefore: m.HoursBefore,
		})
	}

	return cj
}

// Marshal renders a document as a JSON string for storage.
func (f *ConfigFactory) Marshal(doc PricingDocument) (string, error) {
	b, err := json.Marshal(f.ToJSON(doc))
	if err != nil {
		return "", fmt.Errorf("failed to marshal pricing config: %w", err)
	}
	return string(b), nil
}

// PricingConfigToJSON renders a document with a default factory.
func PricingConfigToJSON(doc PricingDocument) (string, error) {
	return NewConfigFactory().Marshal(doc)
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseSeason(sj SeasonJSON) (pricing.Season, error) {
	start, err := generic.ParseDate(sj.StartDate)
	if err != nil {
		return pricing.Season{}, generic.WithField(err, "start_date")
	}
	end, err := generic.ParseDate(sj.EndDate)
	if err != nil {
		return pricing.Season{}, generic.WithField(err, "end_date")
	}

	s := pricing.Season{
		ID:               sj.ID,
		Name:             sj.Name,
		Range:            generic.DateRange{Start: start, End: end},
		Restriction:      pricing.DayRestriction(sj.Restriction),
		PrivateTourPrice: sj.PrivateTourPrice,
		TaxesPercent:     sj.TaxesPercent,
	}
	for _, tj := range sj.Tiers {
		s.Tiers = append(s.Tiers, pricing.PaxTierPrice{
			Category:  pricing.PaxCategory(tj.Category),
			UnitPrice: tj.UnitPrice,
		})
	}
	return s, nil
}
