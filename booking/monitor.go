package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/generic"
)

// MonitorSummary counts the verdicts of one sweep.
type MonitorSummary struct {
	Checked  int
	ByStatus map[availability.Status]int
	Runs     []AvailabilityRun
}

// MonitorDepartures checks every departure starting within [from, to] and
// records one AvailabilityRun per departure. A failing departure does not
// stop the sweep; failures are joined into the returned error.
func (s *Service) MonitorDepartures(ctx context.Context, from, to generic.Date) (MonitorSummary, error) {
	summary := MonitorSummary{ByStatus: make(map[availability.Status]int)}

	deps, err := s.store.ListDepartures(ctx, from, to)
	if err != nil {
		return summary, fmt.Errorf("failed to list departures: %w", err)
	}

	var errs []error
	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := s.CheckDeparture(ctx, DepartureCheck{DepartureID: dep.ID})
		if err != nil {
			errs = append(errs, fmt.Errorf("departure %s: %w", dep.ID, err))
			continue
		}

		run := AvailabilityRun{
			ID:          s.newID(),
			DepartureID: dep.ID,
			Date:        dep.Date(),
			Status:      res.Status,
			Conflicts:   res.Conflicts,
			CheckedAt:   s.clock().UTC(),
		}
		if err := s.store.SaveAvailabilityRun(ctx, run); err != nil {
			errs = append(errs, fmt.Errorf("departure %s: failed to save run: %w", dep.ID, err))
			continue
		}

		summary.Checked++
		summary.ByStatus[res.Status]++
		summary.Runs = append(summary.Runs, run)
	}

	return summary, errors.Join(errs...)
}

// ListAvailabilityRuns returns the newest monitor verdicts first.
func (s *Service) ListAvailabilityRuns(ctx context.Context, limit int) ([]AvailabilityRun, error) {
	return s.store.ListAvailabilityRuns(ctx, limit)
}
