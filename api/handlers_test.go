/*
handlers_test.go - HTTP tests for the API handlers

Tests run the full chi router against an in-memory SQLite store with a
fixed clock, covering:
- Pricing config versioning and quotes
- Departure checks, committed and what-if blocks
- Booking flow and capacity refusals
- Request validation and error mapping
- Monitor sweep and demo scenarios
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tour-engine/api"
	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var fixedNow = generic.MustParseInstant("2024-06-01T10:00:00Z")

const cityConfigJSON = `{
	"id": "city",
	"name": "City Tour",
	"currency": "EUR",
	"seasons": [{
		"id": "year",
		"name": "All Year",
		"start_date": "2024-01-01",
		"end_date": "2024-12-31",
		"tiers": [
			{"category": "adult", "unit_price": 100},
			{"category": "child", "unit_price": "50"}
		],
		"taxes_percent": 10
	}]
}`

type testServer struct {
	router *chi.Mux
	store  *sqlite.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	clock := func() time.Time { return fixedNow }
	svc := booking.NewService(store, booking.Options{
		Features: generic.AllFeatures(),
		Logger:   zerolog.Nop(),
		Clock:    clock,
	})

	h := api.NewHandler(svc, zerolog.Nop())
	h.Clock = clock
	h.Monitor = api.NewAvailabilityMonitor(svc, zerolog.Nop())
	h.Monitor.Clock = clock

	return &testServer{router: api.NewRouter(h), store: store}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// seed creates the city config and one departure.
func (s *testServer) seed(t *testing.T, depID, startsAt string, maxCap int) {
	t.Helper()
	if rec := s.do(t, http.MethodGet, "/api/pricing-configs/city", ""); rec.Code == http.StatusNotFound {
		rec = s.do(t, http.MethodPost, "/api/pricing-configs", cityConfigJSON)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	body, _ := json.Marshal(map[string]any{
		"id":                depID,
		"tour_name":         "Old Town Walk",
		"pricing_config_id": "city",
		"starts_at":         startsAt,
		"max_capacity":      maxCap,
	})
	rec := s.do(t, http.MethodPost, "/api/departures", string(body))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[api.HealthDTO](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.Features["seasonal_pricing"])
	assert.True(t, health.Features["resource_availability"])
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

// =============================================================================
// PRICING CONFIGS
// =============================================================================

func TestPricingConfigs_CreateVersionGet(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: A config posted twice under the same id
	rec := s.do(t, http.MethodPost, "/api/pricing-configs", cityConfigJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeBody[api.PricingConfigDTO](t, rec).Version)

	rec = s.do(t, http.MethodPost, "/api/pricing-configs", cityConfigJSON)
	require.Equal(t, http.StatusCreated, rec.Code)

	// THEN: The stored config is at version 2 and round-trips its seasons
	rec = s.do(t, http.MethodGet, "/api/pricing-configs/city", "")
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decodeBody[api.PricingConfigDTO](t, rec)
	assert.Equal(t, 2, dto.Version)
	assert.Equal(t, "EUR", dto.Currency)
	require.Len(t, dto.Config.Seasons, 1)
	assert.Equal(t, "2024-01-01", dto.Config.Seasons[0].StartDate)

	rec = s.do(t, http.MethodGet, "/api/pricing-configs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]api.PricingConfigDTO](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/pricing-configs/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPricingConfigs_InvalidRejected(t *testing.T) {
	s := newTestServer(t)

	tests := map[string]string{
		"bad json":      `{"id": "x",`,
		"bad currency":  `{"id": "x", "currency": "EURO", "seasons": []}`,
		"bad date":      `{"id": "x", "currency": "EUR", "seasons": [{"id": "s", "start_date": "01/07/2024", "end_date": "2024-08-31", "tiers": []}]}`,
		"bad category":  `{"id": "x", "currency": "EUR", "seasons": [{"id": "s", "start_date": "2024-07-01", "end_date": "2024-08-31", "tiers": [{"category": "senior", "unit_price": 1}]}]}`,
		"bad modifier":  `{"id": "x", "currency": "EUR", "seasons": [], "modifiers": [{"type": "flash-sale", "percent_off": 5}]}`,
		"reversed span": `{"id": "x", "currency": "EUR", "seasons": [{"id": "s", "start_date": "2024-09-01", "end_date": "2024-08-31", "tiers": []}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/pricing-configs", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			errResp := decodeBody[api.ErrorResponse](t, rec)
			assert.Equal(t, "Invalid request", errResp.Error)
			assert.NotEmpty(t, errResp.Details)
		})
	}
}

func TestQuote(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-07-15T09:00:00Z", 10)

	// WHEN: Two adults and a child are quoted for a mid-July tour
	rec := s.do(t, http.MethodPost, "/api/pricing-configs/city/quote",
		`{"tour_date": "2024-07-15", "pax": {"adult": 2, "child": 1}}`)

	// THEN: 250 + 10% tax, money rendered with two decimals
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decodeBody[api.PriceBreakdownDTO](t, rec)
	assert.Equal(t, "250.00", quote.Subtotal)
	assert.Equal(t, "25.00", quote.Taxes)
	assert.Equal(t, "275.00", quote.Total)
	assert.Equal(t, "EUR", quote.Currency)
	assert.Equal(t, "year", quote.SeasonID)
	assert.False(t, quote.UsedDefaults)
	assert.Empty(t, quote.Modifiers)
}

func TestQuote_BadInput(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-07-15T09:00:00Z", 10)

	rec := s.do(t, http.MethodPost, "/api/pricing-configs/city/quote", `{"tour_date": "15/07/2024", "pax": {"adult": 1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[api.ErrorResponse](t, rec).Details, "tour_date")

	rec = s.do(t, http.MethodPost, "/api/pricing-configs/city/quote", `{"pax": {"adult": 1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[api.ErrorResponse](t, rec).Fields, "tour_date")

	rec = s.do(t, http.MethodPost, "/api/pricing-configs/city/quote", `{"tour_date": "2024-07-15", "pax": {"adult": -1}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[api.ErrorResponse](t, rec).Fields, "pax.adult")

	rec = s.do(t, http.MethodPost, "/api/pricing-configs/ghost/quote", `{"tour_date": "2024-07-15", "pax": {"adult": 1}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// DEPARTURES AND ASSIGNMENTS
// =============================================================================

func TestDepartures_CreateListGet(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-06-10T09:00:00Z", 10)
	s.seed(t, "d2", "2024-06-11T09:00:00Z", 10)

	rec := s.do(t, http.MethodGet, "/api/departures?date=2024-06-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	deps := decodeBody[[]api.DepartureDTO](t, rec)
	require.Len(t, deps, 1)
	assert.Equal(t, "d1", deps[0].ID)
	assert.Equal(t, "2024-06-10", deps[0].Date)
	assert.Equal(t, 10, deps[0].Remaining)

	rec = s.do(t, http.MethodGet, "/api/departures?from=2024-06-01&to=2024-06-30", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]api.DepartureDTO](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/departures?date=June", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/departures/d2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-06-11T09:00:00Z", decodeBody[api.DepartureDTO](t, rec).StartsAt)

	rec = s.do(t, http.MethodGet, "/api/departures/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDepartures_CreateRejected(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-06-10T09:00:00Z", 10)

	// Duplicate id
	rec := s.do(t, http.MethodPost, "/api/departures",
		`{"id": "d1", "tour_name": "x", "pricing_config_id": "city", "starts_at": "2024-06-10T09:00:00Z", "max_capacity": 5}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown pricing config
	rec = s.do(t, http.MethodPost, "/api/departures",
		`{"tour_name": "x", "pricing_config_id": "ghost", "starts_at": "2024-06-10T09:00:00Z", "max_capacity": 5}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Missing fields and negative capacity
	rec = s.do(t, http.MethodPost, "/api/departures", `{"max_capacity": -1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody[api.ErrorResponse](t, rec).Fields
	assert.Contains(t, fields, "tour_name")
	assert.Contains(t, fields, "pricing_config_id")
	assert.Contains(t, fields, "starts_at")
	assert.Contains(t, fields, "max_capacity")
}

func TestAssignments_DoubleBookedVehicleRefused(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-06-10T09:00:00Z", 10)
	s.seed(t, "d2", "2024-06-10T10:00:00Z", 10)

	// GIVEN: van-1 is committed to d1 from 09:00 to 12:00
	rec := s.do(t, http.MethodPost, "/api/assignments",
		`{"id": "a1", "resource_id": "van-1", "kind": "vehicle", "start": "2024-06-10T09:00:00Z", "end": "2024-06-10T12:00:00Z", "departure_id": "d1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// WHEN: The same van is committed to d2 from 10:00
	rec = s.do(t, http.MethodPost, "/api/assignments",
		`{"id": "a2", "resource_id": "van-1", "kind": "vehicle", "start": "2024-06-10T10:00:00Z", "end": "2024-06-10T13:00:00Z", "departure_id": "d2"}`)

	// THEN: 409 with the vehicle conflict, and nothing new is stored
	require.Equal(t, http.StatusConflict, rec.Code)
	errResp := decodeBody[api.ErrorResponse](t, rec)
	assert.Equal(t, "Departure has resource conflicts", errResp.Error)
	assert.Contains(t, errResp.Conflicts, availability.ReasonVehicleConflict)

	rec = s.do(t, http.MethodGet, "/api/assignments?date=2024-06-10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	// Back-to-back from 12:00 is fine
	rec = s.do(t, http.MethodPost, "/api/assignments",
		`{"id": "a3", "resource_id": "van-1", "kind": "vehicle", "start": "2024-06-10T12:00:00Z", "end": "2024-06-10T14:00:00Z", "departure_id": "d2"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAssignments_Validation(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-06-10T09:00:00Z", 10)

	rec := s.do(t, http.MethodPost, "/api/assignments",
		`{"resource_id": "boat-1", "kind": "boat", "start": "2024-06-10T09:00:00Z", "end": "2024-06-10T12:00:00Z", "departure_id": "d1"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[api.ErrorResponse](t, rec).Fields, "kind")

	rec = s.do(t, http.MethodPost, "/api/assignments",
		`{"resource_id": "van-1", "kind": "vehicle", "start": "2024-06-10T12:00:00Z", "end": "2024-06-10T09:00:00Z", "departure_id": "d1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/assignments",
		`{"resource_id": "van-1", "kind": "vehicle", "start": "tomorrow", "end": "2024-06-10T09:00:00Z", "departure_id": "d1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/assignments",
		`{"resource_id": "van-1", "kind": "vehicle", "start": "2024-06-10T09:00:00Z", "end": "2024-06-10T12:00:00Z", "departure_id": "ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignments_Delete(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-06-10T09:00:00Z", 10)

	rec := s.do(t, http.MethodPost, "/api/assignments",
		`{"id": "a1", "resource_id": "guide-1", "kind": "guide", "start": "2024-06-10T09:00:00Z", "end": "2024-06-10T12:00:00Z", "departure_id": "d1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/assignments/a1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/assignments/a1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckDeparture_WhatIf(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-06-10T09:00:00Z", 10)
	s.seed(t, "d2", "2024-06-10T13:00:00Z", 10)

	rec := s.do(t, http.MethodPost, "/api/assignments",
		`{"id": "g1", "resource_id": "guide-1", "kind": "guide", "start": "2024-06-10T07:00:00Z", "end": "2024-06-10T13:00:00Z", "departure_id": "d1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Stored state only
	rec = s.do(t, http.MethodPost, "/api/departures/d2/check", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "available", decodeBody[api.AvailabilityDTO](t, rec).Status)

	// WHEN: guide-1 is proposed for another 6 hours on d2
	rec = s.do(t, http.MethodPost, "/api/departures/d2/check",
		`{"proposed": [{"resource_id": "guide-1", "kind": "guide", "start": "2024-06-10T13:00:00Z", "end": "2024-06-10T19:00:00Z"}]}`)

	// THEN: 12h exceeds the 10h default, but the block is not saved
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	check := decodeBody[api.AvailabilityDTO](t, rec)
	assert.Equal(t, "conflicted", check.Status)
	assert.Equal(t, "available", check.CapacityStatus)
	require.Len(t, check.HoursViolations, 1)
	assert.Equal(t, "guide-1", check.HoursViolations[0].GuideID)
	assert.Equal(t, "12", check.HoursViolations[0].Hours)
	assert.Empty(t, check.Overlaps)

	rec = s.do(t, http.MethodGet, "/api/assignments?date=2024-06-10", "")
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = s.do(t, http.MethodPost, "/api/departures/d2/check",
		`{"proposed": [{"resource_id": "guide-1", "kind": "bike", "start": "2024-06-10T13:00:00Z", "end": "2024-06-10T19:00:00Z"}]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[api.ErrorResponse](t, rec).Fields, "proposed[0].kind")
}

// =============================================================================
// BOOKINGS
// =============================================================================

func TestBookings_Flow(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "d1", "2024-06-10T09:00:00Z", 10)

	// WHEN: Two adults book
	rec := s.do(t, http.MethodPost, "/api/bookings", `{"departure_id": "d1", "pax": {"adult": 2}}`)

	// THEN: The booking carries the frozen quote
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[api.CreateBookingResponse](t, rec)
	assert.Equal(t, "220.00", resp.Booking.Total)
	assert.Equal(t, "220.00", resp.Quote.Total)
	assert.Equal(t, 2, resp.Booking.Seats)
	assert.Equal(t, "confirmed", resp.Booking.Status)
	assert.Equal(t, "2024-06-01T10:00:00Z", resp.Booking.CreatedAt)

	rec = s.do(t, http.MethodGet, "/api/bookings/"+resp.Booking.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "d1", decodeBody[api.BookingDTO](t, rec).DepartureID)

	rec = s.do(t, http.MethodGet, "/api/departures/d1/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]api.BookingDTO](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/departures/d1", "")
	dep := decodeBody[api.DepartureDTO](t, rec)
	assert.Equal(t, 2, dep.BookedCount)
	assert.Equal(t, 8, dep.Remaining)

	// A party of nine no longer fits
	rec = s.do(t, http.MethodPost, "/api/bookings", `{"departure_id": "d1", "pax": {"adult": 9}}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Not enough seats left", decodeBody[api.ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/api/bookings/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookings_Refusals(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "full", "2024-06-10T09:00:00Z", 0)

	rec := s.do(t, http.MethodPost, "/api/bookings", `{"departure_id": "full", "pax": {"adult": 1}}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Departure sold out", decodeBody[api.ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/api/bookings", `{"pax": {"adult": 1}}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[api.ErrorResponse](t, rec).Fields, "departure_id")

	rec = s.do(t, http.MethodPost, "/api/bookings", `{"departure_id": "full", "pax": {}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/bookings", `{"departure_id": "ghost", "pax": {"adult": 1}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// MONITOR AND SCENARIOS
// =============================================================================

func TestAvailabilityRuns(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, "soon", "2024-06-05T09:00:00Z", 10)
	s.seed(t, "full", "2024-06-06T09:00:00Z", 0)
	s.seed(t, "later", "2024-09-01T09:00:00Z", 10)

	// WHEN: A sweep is triggered on 2024-06-01 with the default 14 day horizon
	rec := s.do(t, http.MethodPost, "/api/availability/runs", "")

	// THEN: Only the two departures inside the horizon are checked
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[api.MonitorSummaryDTO](t, rec)
	assert.Equal(t, 2, summary.Checked)
	assert.Equal(t, "2024-06-01", summary.From)
	assert.Equal(t, "2024-06-15", summary.To)
	assert.Equal(t, map[string]int{"available": 1, "sold-out": 1}, summary.ByStatus)
	assert.Empty(t, summary.Errors)

	rec = s.do(t, http.MethodGet, "/api/availability/runs?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]api.AvailabilityRunDTO](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/availability/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]api.AvailabilityRunDTO](t, rec), 2)

	rec = s.do(t, http.MethodGet, "/api/availability/runs?limit=many", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenarios(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]api.ScenarioDTO](t, rec), 4)

	tests := []struct {
		scenario  string
		departure string
		status    string
	}{
		{"summer-season", "city-1", "available"},
		{"double-booked-van", "coast-am", "conflicted"},
		{"last-seats", "sunset-1", "low"},
		{"guide-overtime", "hike-late", "conflicted"},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "`+tt.scenario+`"}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			rec = s.do(t, http.MethodGet, "/api/scenarios/current", "")
			assert.Equal(t, tt.scenario, decodeBody[api.ScenarioDTO](t, rec).ID)

			rec = s.do(t, http.MethodPost, "/api/departures/"+tt.departure+"/check", "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.status, decodeBody[api.AvailabilityDTO](t, rec).Status)
		})
	}

	rec = s.do(t, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "moon-landing"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/scenarios/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/departures", "")
	assert.Empty(t, decodeBody[[]api.DepartureDTO](t, rec))
}
