/*
scheduler.go - Automated availability monitor

PURPOSE:
  Periodically re-evaluates every upcoming departure so that conflicts
  introduced by blocks on shared vehicles or guides show up before the
  tour runs, not at the counter.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Covers departures dated within [today, today+HorizonDays]
  - Records one availability run per departure for audit and UI display

CONFIGURATION:
  - Interval:    How often to check (default: 1 hour)
  - HorizonDays: How far ahead to look (default: 14)
  - Enabled:     Whether the monitor is active (default: true)

USAGE:
  monitor := NewAvailabilityMonitor(service, log)
  monitor.Start()
  // ... later
  monitor.Stop()

SEE ALSO:
  - handlers.go: TriggerAvailabilityRun endpoint (manual sweep)
  - booking/monitor.go: MonitorDepartures
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/generic"
)

// AvailabilityMonitor sweeps upcoming departures on a ticker.
type AvailabilityMonitor struct {
	Service     *booking.Service
	Interval    time.Duration
	HorizonDays int
	Enabled     bool
	Clock       func() time.Time

	log     zerolog.Logger
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewAvailabilityMonitor creates a monitor with default settings.
func NewAvailabilityMonitor(svc *booking.Service, log zerolog.Logger) *AvailabilityMonitor {
	return &AvailabilityMonitor{
		Service:     svc,
		Interval:    1 * time.Hour,
		HorizonDays: 14,
		Enabled:     true,
		Clock:       time.Now,
		log:         log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins the monitor. Calling Start on a running monitor is a no-op.
func (m *AvailabilityMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled {
		m.log.Info().Msg("disabled, not starting")
		return
	}
	if m.running {
		return
	}

	m.ticker = time.NewTicker(m.Interval)
	m.stop = make(chan struct{})
	m.running = true
	m.wg.Add(1)

	go m.run(m.ticker, m.stop)

	m.log.Info().Dur("interval", m.Interval).Int("horizon_days", m.HorizonDays).Msg("started")
}

// Stop stops the monitor and waits for an in-flight sweep to finish.
// Calling Stop on a stopped monitor is a no-op.
func (m *AvailabilityMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.ticker.Stop()
	close(m.stop)
	m.wg.Wait()
	m.running = false
	m.log.Info().Msg("stopped")
}

// Running reports whether the background loop is active.
func (m *AvailabilityMonitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *AvailabilityMonitor) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer m.wg.Done()

	// Run immediately on start
	m.RunNow()

	for {
		select {
		case <-ticker.C:
			m.RunNow()
		case <-stop:
			return
		}
	}
}

// RunNow sweeps from the monitor's current date.
func (m *AvailabilityMonitor) RunNow() {
	m.RunOnce(context.Background(), generic.DateOf(m.Clock()))
}

// RunOnce checks every departure within the horizon starting at today and
// records one run per departure.
func (m *AvailabilityMonitor) RunOnce(ctx context.Context, today generic.Date) (booking.MonitorSummary, error) {
	to := today.AddDays(m.HorizonDays)

	summary, err := m.Service.MonitorDepartures(ctx, today, to)
	if err != nil {
		m.log.Error().Err(err).Str("from", today.String()).Str("to", to.String()).Msg("sweep finished with errors")
	}

	event := m.log.Info()
	for status, n := range summary.ByStatus {
		event = event.Int(string(status), n)
	}
	event.Int("checked", summary.Checked).Str("from", today.String()).Msg("sweep completed")

	return summary, err
}
