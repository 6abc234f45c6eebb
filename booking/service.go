/*
service.go - Booking flow around the pricing and availability engines

PURPOSE:
  Gathers a consistent snapshot from the store, runs the pure evaluators on
  it, and persists only what the verdict allows.

FLOWS:
  Quote:            load config -> ComputePrice
  CheckDeparture:   load departure + the blocks of its resources on the
                    covered days (and the day before, for blocks crossing
                    midnight), append what-if blocks
                    -> CheckDepartureAvailability
  CommitAssignment: the same check with the new block, plus guide hours on
                    each day the block touches; refuse if conflicted
  CreateBooking:    quote at departure time, refuse unless available/low
                    and the party fits, then insert booking and bump the
                    booked count in one store call

SEE ALSO:
  - store.go: Store interface
  - monitor.go: MonitorDepartures
*/
package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/warp/tour-engine/availability"
	"github.com/warp/tour-engine/factory"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/pricing"
)

// Options configures a Service. Zero values get sensible defaults.
type Options struct {
	Features           generic.Features
	GuideMaxDailyHours decimal.Decimal
	Logger             zerolog.Logger
	Clock              func() time.Time
	NewID              func() string
}

// Service is safe for concurrent use if the store is.
type Service struct {
	store    Store
	factory  *factory.ConfigFactory
	pricing  *pricing.Evaluator
	features generic.Features
	maxHours decimal.Decimal
	log      zerolog.Logger
	clock    func() time.Time
	newID    func() string
}

// NewService wires a service to a store.
func NewService(store Store, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	ev := pricing.NewEvaluator(opts.Features)
	ev.Clock = opts.Clock

	return &Service{
		store:    store,
		factory:  factory.NewConfigFactory(),
		pricing:  ev,
		features: opts.Features,
		maxHours: opts.GuideMaxDailyHours,
		log:      opts.Logger.With().Str("component", "booking").Logger(),
		clock:    opts.Clock,
		newID:    opts.NewID,
	}
}

// Features returns the toggles the service was built with.
func (s *Service) Features() generic.Features { return s.features }

// Store exposes the underlying store for the scenario loader.
func (s *Service) Store() Store { return s.store }

// =============================================================================
// PRICING CONFIGS
// =============================================================================

// SavePricingConfig validates a configuration and stores it. An empty id is
// assigned. Saving an existing id creates a new version.
func (s *Service) SavePricingConfig(ctx context.Context, cj factory.PricingConfigJSON) (PricingConfigRecord, error) {
	if cj.ID == "" {
		cj.ID = s.newID()
	}
	doc, err := s.factory.FromJSON(cj)
	if err != nil {
		return PricingConfigRecord{}, err
	}
	raw, err := s.factory.Marshal(*doc)
	if err != nil {
		return PricingConfigRecord{}, err
	}

	rec, err := s.store.SavePricingConfig(ctx, PricingConfigRecord{
		ID:         doc.ID,
		Name:       doc.Name,
		Currency:   doc.Config.Currency,
		ConfigJSON: raw,
	})
	if err != nil {
		return PricingConfigRecord{}, fmt.Errorf("failed to save pricing config %s: %w", doc.ID, err)
	}
	s.log.Debug().Str("config_id", rec.ID).Int("version", rec.Version).Msg("pricing config saved")
	return rec, nil
}

// GetPricingConfig returns the stored record.
func (s *Service) GetPricingConfig(ctx context.Context, id string) (PricingConfigRecord, error) {
	return s.store.GetPricingConfig(ctx, id)
}

// ListPricingConfigs returns all stored configurations.
func (s *Service) ListPricingConfigs(ctx context.Context) ([]PricingConfigRecord, error) {
	return s.store.ListPricingConfigs(ctx)
}

// LoadPricingConfig returns the parsed configuration.
func (s *Service) LoadPricingConfig(ctx context.Context, id string) (*factory.PricingDocument, error) {
	rec, err := s.store.GetPricingConfig(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.factory.ParsePricingConfig(rec.ConfigJSON)
	if err != nil {
		return nil, fmt.Errorf("stored pricing config %s: %w", id, err)
	}
	return doc, nil
}

// =============================================================================
// QUOTES
// =============================================================================

// Quote prices a draft against a stored configuration as of now.
func (s *Service) Quote(ctx context.Context, configID string, in pricing.PriceInput) (pricing.PriceBreakdown, error) {
	return s.QuoteAt(ctx, configID, in, s.clock())
}

// QuoteAt prices a draft as of an explicit instant.
func (s *Service) QuoteAt(ctx context.Context, configID string, in pricing.PriceInput, now time.Time) (pricing.PriceBreakdown, error) {
	doc, err := s.LoadPricingConfig(ctx, configID)
	if err != nil {
		return pricing.PriceBreakdown{}, err
	}
	b := s.pricing.QuoteAt(doc.Config, in, now)
	s.log.Debug().
		Str("config_id", configID).
		Str("season_id", b.SeasonID).
		Str("total", b.Total.String()).
		Msg("quote computed")
	return b, nil
}

// =============================================================================
// DEPARTURES
// =============================================================================

// CreateDeparture validates and stores a departure. An empty id is assigned.
func (s *Service) CreateDeparture(ctx context.Context, d Departure) (Departure, error) {
	verr := generic.NewValidationError()
	if d.StartsAt.IsZero() {
		verr.Add("starts_at", "required")
	}
	if d.MaxCapacity < 0 {
		verr.Add("max_capacity", "must not be negative")
	}
	if d.BookedCount < 0 {
		verr.Add("booked_count", "must not be negative")
	}
	if d.PricingConfigID == "" {
		verr.Add("pricing_config_id", "required")
	}
	if err := verr.OrNil(); err != nil {
		return Departure{}, err
	}
	if _, err := s.store.GetPricingConfig(ctx, d.PricingConfigID); err != nil {
		return Departure{}, fmt.Errorf("pricing config %s: %w", d.PricingConfigID, err)
	}

	if d.ID == "" {
		d.ID = s.newID()
	}
	d.StartsAt = d.StartsAt.UTC()
	d.CreatedAt = s.clock().UTC()
	if err := s.store.CreateDeparture(ctx, d); err != nil {
		return Departure{}, err
	}
	return d, nil
}

// GetDeparture returns a departure by id.
func (s *Service) GetDeparture(ctx context.Context, id string) (Departure, error) {
	return s.store.GetDeparture(ctx, id)
}

// ListDepartures returns departures within [from, to]. Zero bounds are open.
func (s *Service) ListDepartures(ctx context.Context, from, to generic.Date) ([]Departure, error) {
	return s.store.ListDepartures(ctx, from, to)
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// DepartureCheck asks for a verdict, optionally with what-if blocks that are
// not stored.
type DepartureCheck struct {
	DepartureID string
	Proposed    []Assignment
}

// CheckResult is a verdict with the departure it was computed for.
type CheckResult struct {
	Departure Departure
	availability.Result
}

// CheckDeparture evaluates a departure against the stored blocks of its
// resources, plus any proposed ones.
func (s *Service) CheckDeparture(ctx context.Context, req DepartureCheck) (*CheckResult, error) {
	dep, err := s.store.GetDeparture(ctx, req.DepartureID)
	if err != nil {
		return nil, err
	}
	in, err := s.checkInput(ctx, dep, req.Proposed)
	if err != nil {
		return nil, err
	}

	res := availability.CheckDepartureAvailability(in, s.features)
	s.log.Debug().
		Str("departure_id", dep.ID).
		Str("status", string(res.Status)).
		Int("conflicts", len(res.Conflicts)).
		Msg("departure checked")
	return &CheckResult{Departure: dep, Result: res}, nil
}

type resourceKey struct {
	kind availability.ResourceKind
	id   string
}

// maxBlockSpan bounds a committed block, so a block can reach at most one
// day past the day it starts on.
const maxBlockSpan = 24 * time.Hour

// checkInput builds the snapshot. It covers the departure's day and every
// day a proposed block touches. Stored blocks are read for those days and
// the day before each, then kept when they belong to a resource used by the
// departure or a proposed block and reach into one of the covered days.
func (s *Service) checkInput(ctx context.Context, dep Departure, proposed []Assignment) (availability.DepartureCheckInput, error) {
	days := coveredDays(dep, proposed)

	var stored []Assignment
	loaded := make(map[string]bool)
	for _, day := range days {
		for _, d := range []generic.Date{day.AddDays(-1), day} {
			if loaded[d.String()] {
				continue
			}
			loaded[d.String()] = true
			blocks, err := s.store.ListAssignmentsByDate(ctx, d)
			if err != nil {
				return availability.DepartureCheckInput{}, fmt.Errorf("failed to load assignments for %s: %w", d, err)
			}
			stored = append(stored, blocks...)
		}
	}

	replaced := make(map[string]bool, len(proposed))
	used := make(map[resourceKey]bool)
	for _, p := range proposed {
		if p.ID != "" {
			replaced[p.ID] = true
		}
		used[resourceKey{p.Kind, p.ResourceID}] = true
	}
	for _, a := range stored {
		if a.DepartureID == dep.ID {
			used[resourceKey{a.Kind, a.ResourceID}] = true
		}
	}

	in := availability.DepartureCheckInput{
		Date:               dep.Date(),
		Capacity:           dep.Capacity(),
		GuideMaxDailyHours: s.maxHours,
	}
	add := func(a Assignment) {
		if !used[resourceKey{a.Kind, a.ResourceID}] {
			return
		}
		switch a.Kind {
		case availability.KindVehicle:
			in.Vehicles = append(in.Vehicles, a.ResourceAssignment)
		case availability.KindGuide:
			in.Guides = append(in.Guides, a.ResourceAssignment)
		}
	}
	for _, a := range stored {
		if !replaced[a.ID] && touchesAny(a.Range(), days) {
			add(a)
		}
	}
	for _, p := range proposed {
		add(p)
	}
	return in, nil
}

// coveredDays returns the departure's day and the days each proposed block
// spans, oldest first.
func coveredDays(dep Departure, proposed []Assignment) []generic.Date {
	seen := map[string]generic.Date{dep.Date().String(): dep.Date()}
	for _, p := range proposed {
		for _, d := range spannedDays(p.Range()) {
			seen[d.String()] = d
		}
	}
	days := make([]generic.Date, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// spannedDays lists the UTC days a half-open range touches.
func spannedDays(r generic.TimeRange) []generic.Date {
	first := generic.DateOf(r.Start)
	last := first
	if r.End.After(r.Start) {
		last = generic.DateOf(r.End.Add(-time.Nanosecond))
	}
	var out []generic.Date
	for d := first; !d.After(last); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

func touchesAny(r generic.TimeRange, days []generic.Date) bool {
	for _, d := range days {
		if r.Overlaps(generic.TimeRange{Start: d.At(0, 0), End: d.AddDays(1).At(0, 0)}) {
			return true
		}
	}
	return false
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

// CommitAssignment stores a block after checking its departure with the
// block included. A conflicted verdict is refused with *AvailabilityError.
func (s *Service) CommitAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	verr := generic.NewValidationError()
	if !a.Kind.Valid() {
		verr.Add("kind", "must be vehicle or guide")
	}
	if a.ResourceID == "" {
		verr.Add("resource_id", "required")
	}
	if a.DepartureID == "" {
		verr.Add("departure_id", "required")
	}
	if !a.Date.IsZero() && !a.Date.Equal(a.Day()) {
		verr.Add("date", "must be the UTC day of start")
	}
	if err := verr.OrNil(); err != nil {
		return Assignment{}, err
	}
	if err := a.Range().Validate(); err != nil {
		return Assignment{}, err
	}
	if a.End.Sub(a.Start) > maxBlockSpan {
		verr.Add("end", "block must not exceed 24 hours")
		return Assignment{}, verr
	}

	if a.ID == "" {
		a.ID = s.newID()
	}
	a.Date = a.Day()

	dep, err := s.store.GetDeparture(ctx, a.DepartureID)
	if err != nil {
		return Assignment{}, err
	}
	in, err := s.checkInput(ctx, dep, []Assignment{a})
	if err != nil {
		return Assignment{}, err
	}
	res := availability.CheckDepartureAvailability(in, s.features)

	// The departure's verdict only counts guide hours on its own day.
	for _, day := range spannedDays(a.Range()) {
		if day.Equal(dep.Date()) {
			continue
		}
		other := in
		other.Date = day
		res = mergeConflicts(res, availability.CheckDepartureAvailability(other, s.features))
	}

	if res.Conflicted() {
		s.log.Warn().
			Str("departure_id", a.DepartureID).
			Str("resource_id", a.ResourceID).
			Strs("conflicts", res.Conflicts).
			Msg("assignment refused")
		return Assignment{}, &generic.AvailabilityError{Status: string(res.Status), Conflicts: res.Conflicts}
	}

	a.CreatedAt = s.clock().UTC()
	if err := s.store.SaveAssignment(ctx, a); err != nil {
		return Assignment{}, fmt.Errorf("failed to save assignment: %w", err)
	}
	return a, nil
}

// mergeConflicts adds the reasons of b that a lacks.
func mergeConflicts(a, b availability.Result) availability.Result {
	seen := make(map[string]bool, len(a.Conflicts))
	for _, c := range a.Conflicts {
		seen[c] = true
	}
	for _, c := range b.Conflicts {
		if !seen[c] {
			seen[c] = true
			a.Conflicts = append(a.Conflicts, c)
		}
	}
	if len(a.Conflicts) > 0 {
		a.Status = availability.StatusConflicted
	}
	return a
}

// ListAssignments returns the stored blocks for a day.
func (s *Service) ListAssignments(ctx context.Context, date generic.Date) ([]Assignment, error) {
	return s.store.ListAssignmentsByDate(ctx, date)
}

// DeleteAssignment removes a block.
func (s *Service) DeleteAssignment(ctx context.Context, id string) error {
	return s.store.DeleteAssignment(ctx, id)
}

// =============================================================================
// BOOKINGS
// =============================================================================

// BookingRequest is a booking draft for a departure.
type BookingRequest struct {
	DepartureID string
	Pax         pricing.PaxBreakdown
	IsPrivate   bool
}

// CreateBooking quotes and confirms a booking. It refuses conflicted and
// sold-out departures with *AvailabilityError and parties larger than the
// remaining seats with ErrInsufficientCapacity.
func (s *Service) CreateBooking(ctx context.Context, req BookingRequest) (Booking, pricing.PriceBreakdown, error) {
	seats := req.Pax.Total()
	if seats <= 0 {
		verr := generic.NewValidationError()
		verr.Add("pax", "at least one passenger is required")
		return Booking{}, pricing.PriceBreakdown{}, verr
	}

	res, err := s.CheckDeparture(ctx, DepartureCheck{DepartureID: req.DepartureID})
	if err != nil {
		return Booking{}, pricing.PriceBreakdown{}, err
	}
	dep := res.Departure
	if !res.Status.Bookable() {
		s.log.Warn().
			Str("departure_id", dep.ID).
			Str("status", string(res.Status)).
			Msg("booking refused")
		return Booking{}, pricing.PriceBreakdown{}, &generic.AvailabilityError{Status: string(res.Status), Conflicts: res.Conflicts}
	}
	if seats > dep.Capacity().Remaining() {
		return Booking{}, pricing.PriceBreakdown{}, fmt.Errorf("%w: %d seats requested, %d remaining",
			generic.ErrInsufficientCapacity, seats, dep.Capacity().Remaining())
	}

	now := s.clock()
	quote, err := s.QuoteAt(ctx, dep.PricingConfigID, pricing.PriceInput{
		TourAt:    dep.StartsAt,
		Pax:       req.Pax,
		IsPrivate: req.IsPrivate,
	}, now)
	if err != nil {
		return Booking{}, pricing.PriceBreakdown{}, err
	}

	b := Booking{
		ID:          s.newID(),
		DepartureID: dep.ID,
		Pax:         req.Pax,
		IsPrivate:   req.IsPrivate,
		Seats:       seats,
		Subtotal:    quote.Subtotal,
		Modifiers:   quote.ModifiersTotal(),
		Taxes:       quote.Taxes,
		Total:       quote.Total,
		Currency:    quote.Currency,
		SeasonID:    quote.SeasonID,
		Status:      BookingConfirmed,
		CreatedAt:   now.UTC(),
	}
	if err := s.store.CreateBooking(ctx, b); err != nil {
		s.log.Warn().Err(err).Str("departure_id", dep.ID).Msg("booking not stored")
		return Booking{}, pricing.PriceBreakdown{}, err
	}

	s.log.Info().
		Str("booking_id", b.ID).
		Str("departure_id", dep.ID).
		Int("seats", seats).
		Str("total", b.Total.String()).
		Msg("booking confirmed")
	return b, quote, nil
}

// GetBooking returns a booking by id.
func (s *Service) GetBooking(ctx context.Context, id string) (Booking, error) {
	return s.store.GetBooking(ctx, id)
}

// ListBookings returns a departure's bookings, oldest first.
func (s *Service) ListBookings(ctx context.Context, departureID string) ([]Booking, error) {
	if _, err := s.store.GetDeparture(ctx, departureID); err != nil {
		return nil, err
	}
	bookings, err := s.store.ListBookingsByDeparture(ctx, departureID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].CreatedAt.Before(bookings[j].CreatedAt) })
	return bookings, nil
}
