/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	tour data. Each scenario creates pricing configs, departures and resource
	blocks that demonstrate one verdict of the availability engine.

AVAILABLE SCENARIOS:

	summer-season:     High/low seasons with weekend override, clean departures
	double-booked-van: One van blocked on two overlapping departures
	last-seats:        A departure in the low-availability band
	guide-overtime:    One guide over the daily hours limit across two tours

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create pricing configs via factory presets
 3. Schedule departures relative to today
 4. Seed resource blocks straight into the store (conflicting blocks
    would be refused by CommitAssignment)

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "double-booked-van"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to the loaders map

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler context
  - factory/presets.go: Pricing config presets
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "summer-season",
		Name:        "Summer Season",
		Description: "High/low seasons with a summer weekend override and lead-time discounts",
	},
	{
		ID:          "double-booked-van",
		Name:        "Double-Booked Van",
		Description: "The same van blocked on two overlapping departures",
	},
	{
		ID:          "last-seats",
		Name:        "Last Seats",
		Description: "A departure with 8 of 10 seats sold",
	},
	{
		ID:          "guide-overtime",
		Name:        "Guide Overtime",
		Description: "One guide working 12 hours across two tours on the same day",
	},
}

func (h *Handler) scenarioLoaders() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"summer-season":     h.loadSummerSeasonScenario,
		"double-booked-van": h.loadDoubleBookedVanScenario,
		"last-seats":        h.loadLastSeatsScenario,
		"guide-overtime":    h.loadGuideOvertimeScenario,
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario resets the database and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	load, ok := h.scenarioLoaders()[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("no scenario named %q", req.ScenarioID))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	if err := h.Service.Store().Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	if err := load(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}
	h.currentScenario = req.ScenarioID

	h.Log.Info().Str("scenario", req.ScenarioID).Msg("scenario loaded")
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"scenario": req.ScenarioID,
	})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Service.Store().Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadSummerSeasonScenario(ctx context.Context) error {
	today := h.today()
	if err := h.saveConfigJSON(ctx, factory.HighLowSeasonsJSON("city-tour", "City Tour", today.Year(), h.Currency)); err != nil {
		return err
	}
	if err := h.saveConfigJSON(ctx, factory.HighLowSeasonsJSON("city-tour-next", "City Tour (next year)", today.Year()+1, h.Currency)); err != nil {
		return err
	}

	for i, offset := range []int{1, 3, 90} {
		day := today.AddDays(offset)
		cfgID := "city-tour"
		if day.Year() != today.Year() {
			cfgID = "city-tour-next"
		}
		dep := booking.Departure{
			ID:              fmt.Sprintf("city-%d", i+1),
			TourName:        "Old Town Walk",
			PricingConfigID: cfgID,
			StartsAt:        day.At(9, 0),
			MaxCapacity:     20,
			BookedCount:     4,
		}
		if _, err := h.Service.CreateDeparture(ctx, dep); err != nil {
			return err
		}
		if err := h.seedBlock(ctx, dep, availability.KindVehicle, fmt.Sprintf("van-%d", i+1), 9, 12); err != nil {
			return err
		}
		if err := h.seedBlock(ctx, dep, availability.KindGuide, "guide-anna", 9, 12); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadDoubleBookedVanScenario(ctx context.Context) error {
	today := h.today()
	if err := h.saveConfigJSON(ctx, factory.FlatPriceJSON("coast", "Coastal Drive", today.Year(), h.Currency, 80, 40, 10)); err != nil {
		return err
	}

	day := today.AddDays(2)
	morning := booking.Departure{ID: "coast-am", TourName: "Coastal Drive", PricingConfigID: "coast", StartsAt: day.At(9, 0), MaxCapacity: 8}
	midday := booking.Departure{ID: "coast-mid", TourName: "Coastal Drive", PricingConfigID: "coast", StartsAt: day.At(11, 0), MaxCapacity: 8}
	for _, d := range []booking.Departure{morning, midday} {
		if _, err := h.Service.CreateDeparture(ctx, d); err != nil {
			return err
		}
	}

	// van-7 runs 09:00-13:00 and 11:00-15:00
	if err := h.seedBlock(ctx, morning, availability.KindVehicle, "van-7", 9, 13); err != nil {
		return err
	}
	return h.seedBlock(ctx, midday, availability.KindVehicle, "van-7", 11, 15)
}

func (h *Handler) loadLastSeatsScenario(ctx context.Context) error {
	today := h.today()
	if err := h.saveConfigJSON(ctx, factory.FlatPriceJSON("sunset", "Sunset Cruise", today.Year(), h.Currency, 120, 60, 10)); err != nil {
		return err
	}

	dep := booking.Departure{
		ID:              "sunset-1",
		TourName:        "Sunset Cruise",
		PricingConfigID: "sunset",
		StartsAt:        today.AddDays(1).At(18, 0),
		MaxCapacity:     10,
		BookedCount:     8,
	}
	if _, err := h.Service.CreateDeparture(ctx, dep); err != nil {
		return err
	}
	return h.seedBlock(ctx, dep, availability.KindGuide, "guide-marco", 18, 21)
}

func (h *Handler) loadGuideOvertimeScenario(ctx context.Context) error {
	today := h.today()
	if err := h.saveConfigJSON(ctx, factory.FlatPriceJSON("hike", "Mountain Hike", today.Year(), h.Currency, 95, 50, 10)); err != nil {
		return err
	}

	day := today.AddDays(3)
	early := booking.Departure{ID: "hike-early", TourName: "Sunrise Ridge", PricingConfigID: "hike", StartsAt: day.At(5, 0), MaxCapacity: 12}
	late := booking.Departure{ID: "hike-late", TourName: "Valley Loop", PricingConfigID: "hike", StartsAt: day.At(12, 0), MaxCapacity: 12}
	for _, d := range []booking.Departure{early, late} {
		if _, err := h.Service.CreateDeparture(ctx, d); err != nil {
			return err
		}
	}

	// 05:00-11:00 and 12:00-18:00: no overlap, 12 hours in total
	if err := h.seedBlock(ctx, early, availability.KindGuide, "guide-lena", 5, 11); err != nil {
		return err
	}
	return h.seedBlock(ctx, late, availability.KindGuide, "guide-lena", 12, 18)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) saveConfigJSON(ctx context.Context, doc string) error {
	var cj factory.PricingConfigJSON
	if err := json.Unmarshal([]byte(doc), &cj); err != nil {
		return fmt.Errorf("failed to decode preset: %w", err)
	}
	_, err := h.Service.SavePricingConfig(ctx, cj)
	return err
}

// seedBlock writes a block for dep's day between the given hours, bypassing
// the availability check.
func (h *Handler) seedBlock(ctx context.Context, dep booking.Departure, kind availability.ResourceKind, resourceID string, fromHour, toHour int) error {
	day := dep.Date()
	start := day.At(fromHour, 0)
	end := day.At(toHour, 0)
	a := booking.Assignment{
		Kind: kind,
		ResourceAssignment: availability.ResourceAssignment{
			ID:          fmt.Sprintf("%s-%s-%s", dep.ID, kind, resourceID),
			ResourceID:  resourceID,
			DepartureID: dep.ID,
			Date:        day,
			Start:       start,
			End:         end,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Service.Store().SaveAssignment(ctx, a); err != nil {
		return fmt.Errorf("failed to seed %s block for %s: %w", kind, dep.ID, err)
	}
	return nil
}
