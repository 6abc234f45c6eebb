// Package memory provides an in-memory booking.Store for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	configs     map[string]booking.PricingConfigRecord
	departures  map[string]booking.Departure
	assignments map[string]booking.Assignment
	bookings    map[string]booking.Booking
	runs        []booking.AvailabilityRun
}

var _ booking.Store = (*Memory)(nil)

func New() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.configs = make(map[string]booking.PricingConfigRecord)
	m.departures = make(map[string]booking.Departure)
	m.assignments = make(map[string]booking.Assignment)
	m.bookings = make(map[string]booking.Booking)
	m.runs = nil
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

// =============================================================================
// PRICING CONFIGS
// =============================================================================

func (m *Memory) SavePricingConfig(_ context.Context, rec booking.PricingConfigRecord) (booking.PricingConfigRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	if prev, ok := m.configs[rec.ID]; ok {
		rec.Version = prev.Version + 1
		rec.CreatedAt = prev.CreatedAt
	} else {
		rec.Version = 1
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.configs[rec.ID] = rec
	return rec, nil
}

func (m *Memory) GetPricingConfig(_ context.Context, id string) (booking.PricingConfigRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.configs[id]
	if !ok {
		return booking.PricingConfigRecord{}, fmt.Errorf("pricing config %s: %w", id, generic.ErrNotFound)
	}
	return rec, nil
}

func (m *Memory) ListPricingConfigs(_ context.Context) ([]booking.PricingConfigRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]booking.PricingConfigRecord, 0, len(m.configs))
	for _, rec := range m.configs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// =============================================================================
// DEPARTURES
// =============================================================================

func (m *Memory) CreateDeparture(_ context.Context, d booking.Departure) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.departures[d.ID]; ok {
		return fmt.Errorf("departure %s: %w", d.ID, generic.ErrDuplicateID)
	}
	m.departures[d.ID] = d
	return nil
}

func (m *Memory) GetDeparture(_ context.Context, id string) (booking.Departure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.departures[id]
	if !ok {
		return booking.Departure{}, fmt.Errorf("departure %s: %w", id, generic.ErrNotFound)
	}
	return d, nil
}

func (m *Memory) ListDepartures(_ context.Context, from, to generic.Date) ([]booking.Departure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []booking.Departure
	for _, d := range m.departures {
		day := d.Date()
		if !from.IsZero() && day.Before(from) {
			continue
		}
		if !to.IsZero() && day.After(to) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (m *Memory) SaveAssignment(_ context.Context, a booking.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
	return nil
}

func (m *Memory) DeleteAssignment(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assignments[id]; !ok {
		return fmt.Errorf("assignment %s: %w", id, generic.ErrNotFound)
	}
	delete(m.assignments, id)
	return nil
}

func (m *Memory) ListAssignmentsByDate(_ context.Context, date generic.Date) ([]booking.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []booking.Assignment
	for _, a := range m.assignments {
		if a.Date.Equal(date) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// =============================================================================
// BOOKINGS
// =============================================================================

// CreateBooking checks capacity and writes under one lock.
func (m *Memory) CreateBooking(_ context.Context, b booking.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.departures[b.DepartureID]
	if !ok {
		return fmt.Errorf("departure %s: %w", b.DepartureID, generic.ErrNotFound)
	}
	if _, ok := m.bookings[b.ID]; ok {
		return fmt.Errorf("booking %s: %w", b.ID, generic.ErrDuplicateID)
	}
	if d.BookedCount+b.Seats > d.MaxCapacity {
		return fmt.Errorf("%w: departure %s has %d seats left", generic.ErrInsufficientCapacity, d.ID, d.Capacity().Remaining())
	}

	d.BookedCount += b.Seats
	m.departures[d.ID] = d
	m.bookings[b.ID] = b
	return nil
}

func (m *Memory) GetBooking(_ context.Context, id string) (booking.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.bookings[id]
	if !ok {
		return booking.Booking{}, fmt.Errorf("booking %s: %w", id, generic.ErrNotFound)
	}
	return b, nil
}

func (m *Memory) ListBookingsByDeparture(_ context.Context, departureID string) ([]booking.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []booking.Booking
	for _, b := range m.bookings {
		if b.DepartureID == departureID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// AVAILABILITY RUNS
// =============================================================================

func (m *Memory) SaveAvailabilityRun(_ context.Context, r booking.AvailabilityRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, r)
	return nil
}

func (m *Memory) ListAvailabilityRuns(_ context.Context, limit int) ([]booking.AvailabilityRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]booking.AvailabilityRun, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		out = append(out, m.runs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
