/*
handlers.go - HTTP API handlers for the tour pricing and availability service

PURPOSE:
  Exposes the booking service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to booking.Service.

ENDPOINTS:
  Pricing:
    GET    /api/pricing-configs             List configurations
    POST   /api/pricing-configs             Create or version a configuration
    GET    /api/pricing-configs/{id}        Get a configuration
    POST   /api/pricing-configs/{id}/quote  Price a draft

  Departures:
    GET    /api/departures?date=|from=&to=  List departures
    POST   /api/departures                  Schedule a departure
    GET    /api/departures/{id}             Get a departure
    POST   /api/departures/{id}/check       Availability verdict (with what-if blocks)
    GET    /api/departures/{id}/bookings    Bookings for a departure

  Assignments:
    POST   /api/assignments                 Commit a vehicle/guide block
    GET    /api/assignments?date=           Blocks for a day
    DELETE /api/assignments/{id}            Remove a block

  Bookings:
    POST   /api/bookings                    Book seats
    GET    /api/bookings/{id}               Get a booking

  Availability monitor:
    GET    /api/availability/runs           Recent verdicts
    POST   /api/availability/runs           Run a sweep now

REQUEST FLOW:
  1. Decode JSON and validate shape (validator tags)
  2. Parse dates through factory (400 on bad formats)
  3. Call booking.Service
  4. Serialize response or map the error

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid dates, invalid configuration
  - 404: Resource not found
  - 409: Conflicted, sold out, insufficient capacity, duplicate id
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/warp/tour-engine/booking"
	"github.com/warp/tour-engine/factory"
	"github.com/warp/tour-engine/generic"
	"github.com/warp/tour-engine/pricing"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service  *booking.Service
	Monitor  *AvailabilityMonitor
	Currency generic.Currency
	Log      zerolog.Logger
	Clock    func() time.Time

	validate *validator.Validate

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler around the service.
func NewHandler(svc *booking.Service, log zerolog.Logger) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Handler{
		Service:  svc,
		Currency: "EUR",
		Log:      log,
		Clock:    time.Now,
		validate: v,
	}
}

func (h *Handler) today() generic.Date {
	return generic.DateOf(h.Clock())
}

// =============================================================================
// PRICING CONFIG HANDLERS
// =============================================================================

// ListPricingConfigs returns all configurations.
func (h *Handler) ListPricingConfigs(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.ListPricingConfigs(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]PricingConfigDTO, 0, len(records))
	for _, rec := range records {
		dto, err := toPricingConfigDTO(rec)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePricingConfig stores a configuration. Posting an existing id
// creates a new version.
func (h *Handler) CreatePricingConfig(w http.ResponseWriter, r *http.Request) {
	var req factory.PricingConfigJSON
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	rec, err := h.Service.SavePricingConfig(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dto, err := toPricingConfigDTO(rec)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetPricingConfig returns one configuration.
func (h *Handler) GetPricingConfig(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Service.GetPricingConfig(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dto, err := toPricingConfigDTO(rec)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// QuotePricingConfig prices a draft against a configuration.
func (h *Handler) QuotePricingConfig(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	in, err := factory.ParsePriceInput(factory.PriceInputJSON{
		TourDate:  req.TourDate,
		Pax:       factory.PaxJSON{Adult: req.Pax.Adult, Child: req.Pax.Child, Infant: req.Pax.Infant},
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	var quote pricing.PriceBreakdown
	id := chi.URLParam(r, "id")
	if req.Now != "" {
		now, perr := generic.ParseInstant(req.Now)
		if perr != nil {
			h.writeServiceError(w, r, generic.WithField(perr, "now"))
			return
		}
		quote, err = h.Service.QuoteAt(r.Context(), id, in, now)
	} else {
		quote, err = h.Service.Quote(r.Context(), id, in)
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPriceBreakdownDTO(quote))
}

func toPricingConfigDTO(rec booking.PricingConfigRecord) (PricingConfigDTO, error) {
	var cfg factory.PricingConfigJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &cfg); err != nil {
		return PricingConfigDTO{}, fmt.Errorf("stored pricing config %s is corrupt: %w", rec.ID, err)
	}
	return PricingConfigDTO{
		ID:        rec.ID,
		Name:      rec.Name,
		Currency:  string(rec.Currency),
		Version:   rec.Version,
		Config:    cfg,
		CreatedAt: formatInstant(rec.CreatedAt),
		UpdatedAt: formatInstant(rec.UpdatedAt),
	}, nil
}

// =============================================================================
// DEPARTURE HANDLERS
// =============================================================================

// ListDepartures lists departures for ?date= or the ?from=&to= window.
func (h *Handler) ListDepartures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var from, to generic.Date
	var err error

	if d := q.Get("date"); d != "" {
		if from, err = generic.ParseDate(d); err != nil {
			h.writeServiceError(w, r, generic.WithField(err, "date"))
			return
		}
		to = from
	} else {
		if f := q.Get("from"); f != "" {
			if from, err = generic.ParseDate(f); err != nil {
				h.writeServiceError(w, r, generic.WithField(err, "from"))
				return
			}
		}
		if t := q.Get("to"); t != "" {
			if to, err = generic.ParseDate(t); err != nil {
				h.writeServiceError(w, r, generic.WithField(err, "to"))
				return
			}
		}
	}

	deps, err := h.Service.ListDepartures(r.Context(), from, to)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]DepartureDTO, 0, len(deps))
	for _, d := range deps {
		dtos = append(dtos, toDepartureDTO(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDeparture schedules a departure.
func (h *Handler) CreateDeparture(w http.ResponseWriter, r *http.Request) {
	var req CreateDepartureRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	startsAt, err := generic.ParseInstant(req.StartsAt)
	if err != nil {
		h.writeServiceError(w, r, generic.WithField(err, "starts_at"))
		return
	}

	dep, err := h.Service.CreateDeparture(r.Context(), booking.Departure{
		ID:              req.ID,
		TourName:        req.TourName,
		PricingConfigID: req.PricingConfigID,
		StartsAt:        startsAt,
		MaxCapacity:     req.MaxCapacity,
		BookedCount:     req.BookedCount,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDepartureDTO(dep))
}

// GetDeparture returns one departure.
func (h *Handler) GetDeparture(w http.ResponseWriter, r *http.Request) {
	dep, err := h.Service.GetDeparture(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDepartureDTO(dep))
}

// CheckDeparture returns the availability verdict. An empty body checks the
// stored state; proposed blocks are evaluated but not saved.
func (h *Handler) CheckDeparture(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if r.ContentLength != 0 {
		if err := h.decode(r, &req); err != nil {
			h.writeServiceError(w, r, err)
			return
		}
	}

	id := chi.URLParam(r, "id")
	proposed := make([]booking.Assignment, 0, len(req.Proposed))
	for i, p := range req.Proposed {
		if p.DepartureID == "" {
			p.DepartureID = id
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("proposed-%d", i+1)
		}
		kind, a, err := factory.ParseAssignment(p.toFactory())
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		proposed = append(proposed, booking.Assignment{Kind: kind, ResourceAssignment: a})
	}

	res, err := h.Service.CheckDeparture(r.Context(), booking.DepartureCheck{DepartureID: id, Proposed: proposed})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAvailabilityDTO(res))
}

// ListDepartureBookings returns the bookings of a departure.
func (h *Handler) ListDepartureBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Service.ListBookings(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]BookingDTO, 0, len(bookings))
	for _, b := range bookings {
		dtos = append(dtos, toBookingDTO(b))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// CreateAssignment commits a block. Conflicting blocks are refused with 409.
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req AssignmentRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	kind, block, err := factory.ParseAssignment(req.toFactory())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	saved, err := h.Service.CommitAssignment(r.Context(), booking.Assignment{Kind: kind, ResourceAssignment: block})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssignmentJSON(saved))
}

// ListAssignments returns the blocks of ?date= (default today).
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	date := h.today()
	if d := r.URL.Query().Get("date"); d != "" {
		var err error
		if date, err = generic.ParseDate(d); err != nil {
			h.writeServiceError(w, r, generic.WithField(err, "date"))
			return
		}
	}

	blocks, err := h.Service.ListAssignments(r.Context(), date)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]factory.AssignmentJSON, 0, len(blocks))
	for _, a := range blocks {
		dtos = append(dtos, toAssignmentJSON(a))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeleteAssignment removes a block.
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteAssignment(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BOOKING HANDLERS
// =============================================================================

// CreateBooking books seats on a departure.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	b, quote, err := h.Service.CreateBooking(r.Context(), booking.BookingRequest{
		DepartureID: req.DepartureID,
		Pax:         pricing.PaxBreakdown{Adult: req.Pax.Adult, Child: req.Pax.Child, Infant: req.Pax.Infant},
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateBookingResponse{
		Booking: toBookingDTO(b),
		Quote:   toPriceBreakdownDTO(quote),
	})
}

// GetBooking returns one booking.
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Service.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingDTO(b))
}

// =============================================================================
// AVAILABILITY MONITOR HANDLERS
// =============================================================================

// ListAvailabilityRuns returns recent monitor verdicts (?limit=, default 100).
func (h *Handler) ListAvailabilityRuns(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			verr := generic.NewValidationError()
			verr.Add("limit", "must be a non-negative integer")
			h.writeServiceError(w, r, verr)
			return
		}
		limit = n
	}

	runs, err := h.Service.ListAvailabilityRuns(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	dtos := make([]AvailabilityRunDTO, 0, len(runs))
	for _, run := range runs {
		dtos = append(dtos, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TriggerAvailabilityRun sweeps upcoming departures immediately.
func (h *Handler) TriggerAvailabilityRun(w http.ResponseWriter, r *http.Request) {
	if h.Monitor == nil {
		writeError(w, http.StatusServiceUnavailable, "Availability monitor not configured", nil)
		return
	}

	today := h.today()
	summary, err := h.Monitor.RunOnce(r.Context(), today)

	dto := MonitorSummaryDTO{
		From:     today.String(),
		To:       today.AddDays(h.Monitor.HorizonDays).String(),
		Checked:  summary.Checked,
		ByStatus: toStatusCounts(summary.ByStatus),
		Runs:     make([]AvailabilityRunDTO, 0, len(summary.Runs)),
	}
	for _, run := range summary.Runs {
		dto.Runs = append(dto.Runs, toRunDTO(run))
	}
	if err != nil {
		dto.Errors = err.Error()
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health reports liveness and feature toggles.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	f := h.Service.Features()
	writeJSON(w, http.StatusOK, HealthDTO{
		Status: "ok",
		Features: map[string]bool{
			"seasonal_pricing":      f.SeasonalPricing,
			"resource_availability": f.ResourceAvailability,
		},
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads a JSON body and runs validator tags.
func (h *Handler) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		verr := generic.NewValidationError()
		verr.Add("body", "invalid JSON: "+err.Error())
		return verr
	}

	if err := h.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate request: %w", err)
		}
		verr := generic.NewValidationError()
		for _, fe := range fieldErrs {
			verr.Add(fieldPath(fe), validationMessage(fe))
		}
		return verr
	}
	return nil
}

// fieldPath drops the root struct name: "CreateBookingRequest.pax.adult" -> "pax.adult".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	resp := ErrorResponse{Details: err.Error()}

	var verr *generic.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	var aerr *generic.AvailabilityError
	if errors.As(err, &aerr) {
		resp.Conflicts = aerr.Conflicts
	}

	var status int
	switch {
	case generic.IsClientError(err):
		status, resp.Error = http.StatusBadRequest, "Invalid request"
	case generic.IsNotFound(err):
		status, resp.Error = http.StatusNotFound, "Not found"
	case errors.Is(err, generic.ErrDepartureConflicted):
		status, resp.Error = http.StatusConflict, "Departure has resource conflicts"
	case errors.Is(err, generic.ErrSoldOut):
		status, resp.Error = http.StatusConflict, "Departure sold out"
	case errors.Is(err, generic.ErrInsufficientCapacity):
		status, resp.Error = http.StatusConflict, "Not enough seats left"
	case generic.IsConflict(err):
		status, resp.Error = http.StatusConflict, "Conflict"
	default:
		status, resp.Error = http.StatusInternalServerError, "Internal error"
		h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}

	writeJSON(w, status, resp)
}
