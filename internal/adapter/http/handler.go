package http

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/middleware"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/response"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/monitor"
	"github.com/tripsmith/travel-booking-aggregator/internal/usecase"
)

// FareComparer compares fares for a structured route query.
type FareComparer interface {
	Compare(ctx context.Context, query domain.StructuredQuery) (domain.FareAnalysis, error)
}

// Bookings initiates and reads bookings.
type Bookings interface {
	Initiate(ctx context.Context, req usecase.InitiateRequest) (usecase.InitiateResult, error)
	Status(ctx context.Context, userID, bookingID string) (usecase.BookingStatus, error)
	List(ctx context.Context, userID string) ([]domain.Booking, error)
	Layout(ctx context.Context, provider, externalID string) (domain.Layout, error)
}

// AutomatedBookings runs browser-driven bookings whose payment is awaited
// in the background.
type AutomatedBookings interface {
	Start(ctx context.Context, req usecase.InitiateRequest) (usecase.InitiateResult, error)
	Cancel(userID, bookingID string) error
}

// Monitors controls price monitors.
type Monitors interface {
	StartMonitoring(ctx context.Context, subjectID string, query domain.StructuredQuery, threshold float64) (monitor.Handle, error)
	StopMonitoring(ctx context.Context, subjectID string) error
	Monitors(ctx context.Context) ([]monitor.Handle, error)
}

// Services groups what the handler delegates to.
type Services struct {
	Extractor usecase.QueryExtractor
	Search    usecase.SearchUseCase
	Fares     FareComparer
	Bookings  Bookings
	Automated AutomatedBookings
	Monitors  Monitors
	Registry  *domain.ProviderRegistry
	Logger    *logger.Logger
}

// Handler handles HTTP requests for the travel booking endpoints.
type Handler struct {
	svc    Services
	logger *logger.Logger
}

// NewHandler creates a new Handler with the given services.
func NewHandler(svc Services) *Handler {
	if svc.Registry == nil {
		svc.Registry = domain.NewProviderRegistry()
	}
	return &Handler{
		svc:    svc,
		logger: logger.OrNop(svc.Logger),
	}
}

// Search handles POST /api/v1/search
//
// @Summary Smart search
// @Description Extracts a structured query from a free-text prompt and searches every provider of the matching kind
// @Tags search
// @Accept json
// @Produce json
// @Param request body SearchRequest true "Prompt"
// @Success 200 {object} SearchResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/search [post]
func (h *Handler) Search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.svc.Search.Search(c.Request().Context(), req.Prompt)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToSearchResponseDTO(result))
}

// CompareFares handles POST /api/v1/fares/compare
//
// @Summary Compare fares
// @Description Compares transport fares for the route named in the prompt across providers
// @Tags fares
// @Accept json
// @Produce json
// @Param request body FareCompareRequest true "Route prompt"
// @Success 200 {object} FareComparisonResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 504 {object} response.ErrorDetail "Gateway timeout"
// @Router /api/v1/fares/compare [post]
func (h *Handler) CompareFares(c echo.Context) error {
	var req FareCompareRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	query := h.svc.Extractor.Extract(req.Prompt)
	analysis, err := h.svc.Fares.Compare(c.Request().Context(), query)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.OK(c, ToFareComparisonDTO(query, analysis))
}

// InitiateBooking handles POST /api/v1/bookings
//
// @Summary Initiate a booking
// @Description Submits the selection to the provider and returns the payment link
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body InitiateBookingRequest true "Selection"
// @Success 201 {object} BookingInitiatedDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 401 {object} response.ErrorDetail "Missing identity"
// @Failure 404 {object} response.ErrorDetail "Unknown provider"
// @Failure 502 {object} response.ErrorDetail "Payment service error"
// @Router /api/v1/bookings [post]
func (h *Handler) InitiateBooking(c echo.Context) error {
	req, err := h.bindBooking(c)
	if err != nil || req == nil {
		return err
	}

	result, err := h.svc.Bookings.Initiate(c.Request().Context(), ToInitiateRequest(req, middleware.GetUserID(c)))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Created(c, ToBookingInitiatedDTO(result))
}

// StartAutomatedBooking handles POST /api/v1/bookings/automated
//
// @Summary Start a browser-driven booking
// @Description Fills the provider's booking form in a browser session and waits for the payment in the background
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body InitiateBookingRequest true "Selection"
// @Success 202 {object} BookingInitiatedDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 422 {object} response.ErrorDetail "Provider cannot automate bookings"
// @Router /api/v1/bookings/automated [post]
func (h *Handler) StartAutomatedBooking(c echo.Context) error {
	req, err := h.bindBooking(c)
	if err != nil || req == nil {
		return err
	}

	result, err := h.svc.Automated.Start(c.Request().Context(), ToInitiateRequest(req, middleware.GetUserID(c)))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Accepted(c, ToBookingInitiatedDTO(result))
}

// CancelAutomatedBooking handles DELETE /api/v1/bookings/automated/:id
//
// @Summary Cancel a payment wait
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Booking ID"
// @Success 200 {object} MessageResponseDTO
// @Failure 403 {object} response.ErrorDetail "Not the owner"
// @Failure 404 {object} response.ErrorDetail "No payment wait for this booking"
// @Router /api/v1/bookings/automated/{id} [delete]
func (h *Handler) CancelAutomatedBooking(c echo.Context) error {
	if err := h.svc.Automated.Cancel(middleware.GetUserID(c), c.Param("id")); err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, &MessageResponseDTO{Status: response.StatusSuccess, Message: "payment wait cancelled"})
}

// BookingStatus handles GET /api/v1/bookings/:id/status
//
// @Summary Booking status
// @Description Refreshes the payment status of a booking owned by the caller
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param id path string true "Booking ID"
// @Success 200 {object} BookingStatusResponseDTO
// @Failure 403 {object} response.ErrorDetail "Not the owner"
// @Failure 404 {object} response.ErrorDetail "Unknown booking"
// @Failure 502 {object} response.ErrorDetail "Payment service error"
// @Router /api/v1/bookings/{id}/status [get]
func (h *Handler) BookingStatus(c echo.Context) error {
	status, err := h.svc.Bookings.Status(c.Request().Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToBookingStatusDTO(status))
}

// ListBookings handles GET /api/v1/bookings
//
// @Summary My bookings
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Success 200 {object} BookingListResponseDTO
// @Router /api/v1/bookings [get]
func (h *Handler) ListBookings(c echo.Context) error {
	bookings, err := h.svc.Bookings.List(c.Request().Context(), middleware.GetUserID(c))
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToBookingListDTO(bookings))
}

// Layout handles GET /api/v1/layouts?provider=&external_id=
//
// @Summary Seat or room layout
// @Tags bookings
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param provider query string true "Provider name"
// @Param external_id query string true "Listing ID"
// @Success 200 {object} LayoutResponseDTO
// @Failure 404 {object} response.ErrorDetail "Unknown provider"
// @Router /api/v1/layouts [get]
func (h *Handler) Layout(c echo.Context) error {
	provider := strings.ToLower(strings.TrimSpace(c.QueryParam("provider")))
	externalID := strings.TrimSpace(c.QueryParam("external_id"))

	errs := &ValidationErrors{}
	if provider == "" {
		errs.Add("provider", "provider is required")
	}
	if externalID == "" {
		errs.Add("external_id", "external_id is required")
	}
	if errs.HasErrors() {
		return h.handleValidationError(c, errs)
	}

	layout, err := h.svc.Bookings.Layout(c.Request().Context(), provider, externalID)
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToLayoutDTO(provider, layout))
}

// StartMonitor handles POST /api/v1/monitors
//
// @Summary Start a price monitor
// @Description Searches the prompt's route on a schedule and alerts once a fare drops below the threshold
// @Tags monitors
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body StartMonitorRequest true "Monitor"
// @Success 201 {object} MonitorResponseDTO
// @Failure 400 {object} response.ErrorDetail "Validation error"
// @Failure 409 {object} response.ErrorDetail "Subject already monitored"
// @Router /api/v1/monitors [post]
func (h *Handler) StartMonitor(c echo.Context) error {
	var req StartMonitorRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	userID := middleware.GetUserID(c)
	query := h.svc.Extractor.Extract(req.Prompt)
	handle, err := h.svc.Monitors.StartMonitoring(c.Request().Context(), monitorSubject(userID, req.SubjectID), query, req.Threshold)
	if err != nil {
		return h.handleError(c, err)
	}

	return response.Created(c, &MonitorResponseDTO{
		Status:  response.StatusSuccess,
		Monitor: ToMonitorDTO(handle, userID),
	})
}

// ListMonitors handles GET /api/v1/monitors
//
// @Summary My price monitors
// @Tags monitors
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Success 200 {object} MonitorListResponseDTO
// @Router /api/v1/monitors [get]
func (h *Handler) ListMonitors(c echo.Context) error {
	handles, err := h.svc.Monitors.Monitors(c.Request().Context())
	if err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, ToMonitorListDTO(handles, middleware.GetUserID(c)))
}

// StopMonitor handles DELETE /api/v1/monitors and DELETE /api/v1/monitors/:subject.
// Without a subject the caller's default monitor is stopped.
//
// @Summary Stop a price monitor
// @Tags monitors
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param subject path string true "Monitor subject"
// @Success 200 {object} MessageResponseDTO
// @Failure 404 {object} response.ErrorDetail "Subject not monitored"
// @Router /api/v1/monitors/{subject} [delete]
func (h *Handler) StopMonitor(c echo.Context) error {
	subject := monitorSubject(middleware.GetUserID(c), strings.TrimSpace(c.Param("subject")))
	if err := h.svc.Monitors.StopMonitoring(c.Request().Context(), subject); err != nil {
		return h.handleError(c, err)
	}
	return response.OK(c, &MessageResponseDTO{Status: response.StatusSuccess, Message: "monitoring stopped"})
}

// Health handles GET /health
// Simple health check endpoint.
func (h *Handler) Health(c echo.Context) error {
	return response.Health(c, len(h.svc.Registry.Names()))
}

// bindBooking binds and validates a booking body. A nil request with a nil
// error means the failure response was already written.
func (h *Handler) bindBooking(c echo.Context) (*InitiateBookingRequest, error) {
	var req InitiateBookingRequest
	if err := c.Bind(&req); err != nil {
		return nil, response.InvalidRequestBody(c)
	}
	if err := req.Validate(); err != nil {
		return nil, h.handleValidationError(c, err)
	}
	return &req, nil
}

// handleValidationError handles validation errors and returns a 400 response.
func (h *Handler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}

	// Fallback for non-structured validation errors
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps domain errors to appropriate HTTP responses.
func (h *Handler) handleError(c echo.Context, err error) error {
	var fieldErr *domain.ValidationError
	if errors.As(err, &fieldErr) {
		return response.ValidationError(c, map[string]string{fieldErr.Field: fieldErr.Message})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return response.ValidationErrorWithMessage(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorizedAccess):
		return response.Forbidden(c)
	case errors.Is(err, domain.ErrBookingNotFound):
		return response.NotFound(c, "Booking not found")
	case errors.Is(err, domain.ErrProviderNotFound):
		return response.NotFound(c, "Provider not found")
	case errors.Is(err, domain.ErrMonitorNotFound):
		return response.NotFound(c, "Monitor not found")
	case errors.Is(err, domain.ErrMonitorExists):
		return response.Conflict(c, "Subject is already monitored")
	case errors.Is(err, domain.ErrSelectionUnsupported):
		return response.UnprocessableProvider(c, "Provider does not support this booking flow")
	case errors.Is(err, domain.ErrPaymentService):
		h.logFailure(c, err, "payment service failed")
		return response.PaymentError(c)
	case errors.Is(err, domain.ErrProviderUnavailable), errors.Is(err, domain.ErrElementNotFound):
		h.logFailure(c, err, "provider failed")
		return response.ProviderError(c, "Provider could not complete the request")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrProviderTimeout):
		return response.GatewayTimeout(c)
	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)
	case errors.Is(err, monitor.ErrSupervisorStopped):
		h.logFailure(c, err, "monitor supervisor unavailable")
		return response.InternalServerError(c)
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		h.logFailure(c, err, "provider failed")
		return response.ProviderError(c, "Provider could not complete the request")
	}

	h.logFailure(c, err, "request failed")
	return response.InternalServerError(c)
}

func (h *Handler) logFailure(c echo.Context, err error, msg string) {
	logger.FromContext(c.Request().Context(), h.logger).Error().Err(err).Msg(msg)
}
