package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// InitiateRequest asks a provider to hold a listing for a user.
type InitiateRequest struct {
	Provider   string
	ExternalID string
	Details    domain.SelectionDetails
}

// InitiateResult is returned once a booking intent is stored and payable.
type InitiateResult struct {
	BookingID         string
	ProviderReference string
	PaymentURL        string
	Amount            float64
}

// BookingStatus is the current view of a stored booking.
type BookingStatus struct {
	Booking        domain.Booking
	PaymentStatus  domain.PaymentStatus
	ProviderStatus domain.PaymentStatus
}

// BookingService initiates bookings against providers, stores the intent
// and arranges payment.
type BookingService struct {
	registry *domain.ProviderRegistry
	store    domain.BookingStore
	payments domain.PaymentGateway
	currency string
	logger   *logger.Logger
}

// NewBookingService creates a BookingService. payments may be nil when
// every provider hosts its own payment page.
func NewBookingService(registry *domain.ProviderRegistry, store domain.BookingStore, payments domain.PaymentGateway, currency string, log *logger.Logger) *BookingService {
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return &BookingService{
		registry: registry,
		store:    store,
		payments: payments,
		currency: currency,
		logger:   logger.OrNop(log),
	}
}

// Initiate submits the selection to the provider, stores the resulting
// intent and returns where the user pays. When the provider does not host
// a payment page, a payment link is created through the gateway; gateway
// failures are returned as a PaymentServiceError and the stored booking is
// marked failed.
//
// Initiation is not idempotent: calling it twice creates two bookings.
func (s *BookingService) Initiate(ctx context.Context, req InitiateRequest) (InitiateResult, error) {
	if req.Details.UserID == "" {
		return InitiateResult{}, domain.NewValidationError("user_id", "is required")
	}
	if strings.TrimSpace(req.ExternalID) == "" {
		return InitiateResult{}, domain.NewValidationError("external_id", "is required")
	}
	provider, err := s.provider(req.Provider)
	if err != nil {
		return InitiateResult{}, err
	}

	log := logger.FromContext(ctx, s.logger).WithProvider(provider.Name())

	sel, err := provider.InitiateSelection(ctx, req.ExternalID, req.Details)
	if err != nil {
		log.Warn().Err(err).Str("external_id", req.ExternalID).Msg("selection failed")
		return InitiateResult{}, err
	}

	amount := sel.TotalAmount
	if amount <= 0 {
		amount = req.Details.Amount
	}
	if sel.PaymentURL == "" && s.payments == nil {
		return InitiateResult{}, domain.NewPaymentServiceError("create link", errors.New("no payment gateway configured"))
	}
	if sel.PaymentURL == "" && amount <= 0 {
		return InitiateResult{}, domain.NewValidationError("amount", "is required when the provider does not quote a total")
	}

	intent := domain.BookingIntent{
		BookingType:       domain.BookingTypeFor(provider.Kind()),
		Provider:          provider.Name(),
		ExternalID:        req.ExternalID,
		ProviderReference: sel.ProviderReference,
		PaymentStatus:     domain.PaymentPending,
		TotalAmount:       amount,
		RawDetails:        selectionDetails(req.Details),
	}
	id, err := s.store.SaveBookingIntent(ctx, req.Details.UserID, intent)
	if err != nil {
		return InitiateResult{}, fmt.Errorf("save booking intent: %w", err)
	}

	paymentID, paymentURL := "", sel.PaymentURL
	if paymentURL == "" {
		link, err := s.payments.CreatePaymentLink(ctx, amount, s.currency, "Booking ID: "+id, req.Details.Customer)
		if err != nil {
			s.markFailed(ctx, id, err)
			if !domain.IsPaymentServiceError(err) {
				err = domain.NewPaymentServiceError("create link", err)
			}
			return InitiateResult{}, err
		}
		paymentID, paymentURL = link.ID, link.URL
	}

	if err := s.store.AttachPayment(ctx, id, paymentID, paymentURL); err != nil {
		return InitiateResult{}, fmt.Errorf("attach payment: %w", err)
	}

	log.Info().
		Str("booking_id", id).
		Str("reference", sel.ProviderReference).
		Float64("amount", amount).
		Bool("gateway", paymentID != "").
		Msg("booking initiated")

	return InitiateResult{
		BookingID:         id,
		ProviderReference: sel.ProviderReference,
		PaymentURL:        paymentURL,
		Amount:            amount,
	}, nil
}

// Status refreshes and returns a booking owned by userID. Another user's
// booking yields ErrUnauthorizedAccess.
//
// Payments made through the gateway are verified there. Payments hosted by
// the provider are settled by the provider's own status report.
func (s *BookingService) Status(ctx context.Context, userID, bookingID string) (BookingStatus, error) {
	booking, err := s.owned(ctx, userID, bookingID)
	if err != nil {
		return BookingStatus{}, err
	}

	log := logger.FromContext(ctx, s.logger).WithContext("booking_id", booking.ID)
	status := BookingStatus{Booking: booking, PaymentStatus: booking.Intent.PaymentStatus}

	if checker, ok := s.registry.Get(booking.Intent.Provider).(domain.StatusChecker); ok && booking.Intent.ProviderReference != "" {
		ps, err := checker.CheckStatus(ctx, booking.Intent.ProviderReference)
		if err != nil {
			log.Warn().Err(err).Msg("provider status check failed")
		} else {
			status.ProviderStatus = ps
		}
	}

	if isSettled(status.PaymentStatus) {
		return status, nil
	}

	next := status.PaymentStatus
	switch {
	case booking.PaymentID != "" && s.payments != nil:
		paid, err := s.payments.Verify(ctx, booking.PaymentID)
		if err != nil {
			if !domain.IsPaymentServiceError(err) {
				err = domain.NewPaymentServiceError("verify", err)
			}
			return BookingStatus{}, err
		}
		if paid {
			next = domain.PaymentPaid
		}
	case booking.PaymentID == "" && isSettled(status.ProviderStatus):
		next = status.ProviderStatus
	}

	if next != status.PaymentStatus {
		if err := s.store.UpdateStatus(ctx, booking.ID, next, map[string]interface{}{"source": "status_check"}); err != nil {
			return BookingStatus{}, fmt.Errorf("update status: %w", err)
		}
		log.Info().Str("from", string(status.PaymentStatus)).Str("to", string(next)).Msg("payment status changed")
		status.PaymentStatus = next
		status.Booking.Intent.PaymentStatus = next
	}

	return status, nil
}

// List returns the bookings of userID, newest first as the store orders them.
func (s *BookingService) List(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	bookings, err := s.store.GetBookingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

// Layout returns the seat map or room list of a listing.
func (s *BookingService) Layout(ctx context.Context, providerName, externalID string) (domain.Layout, error) {
	if strings.TrimSpace(externalID) == "" {
		return domain.Layout{}, domain.NewValidationError("external_id", "is required")
	}
	provider, err := s.provider(providerName)
	if err != nil {
		return domain.Layout{}, err
	}
	return provider.FetchLayout(ctx, externalID)
}

func (s *BookingService) provider(name string) (domain.Provider, error) {
	if name == "" {
		return nil, domain.NewValidationError("provider", "is required")
	}
	p := s.registry.Get(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, name)
	}
	return p, nil
}

// owned loads a booking and checks that userID owns it.
func (s *BookingService) owned(ctx context.Context, userID, bookingID string) (domain.Booking, error) {
	if userID == "" {
		return domain.Booking{}, domain.NewValidationError("user_id", "is required")
	}
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking.UserID != userID {
		logger.FromContext(ctx, s.logger).Warn().
			Str("booking_id", bookingID).
			Str("user_id", userID).
			Msg("cross-user booking access rejected")
		return domain.Booking{}, domain.ErrUnauthorizedAccess
	}
	return booking, nil
}

func (s *BookingService) markFailed(ctx context.Context, id string, cause error) {
	if err := s.store.UpdateStatus(ctx, id, domain.PaymentFailed, map[string]interface{}{"error": cause.Error()}); err != nil {
		logger.FromContext(ctx, s.logger).Error().Err(err).Str("booking_id", id).Msg("mark booking failed")
	}
}

func isSettled(s domain.PaymentStatus) bool {
	return s == domain.PaymentPaid || s == domain.PaymentFailed
}

// selectionDetails flattens what the user picked into the intent's raw details.
func selectionDetails(d domain.SelectionDetails) map[string]interface{} {
	raw := map[string]interface{}{}
	if len(d.Units) > 0 {
		raw["units"] = d.Units
	}
	if d.Customer.Name != "" {
		raw["customer_name"] = d.Customer.Name
	}
	if d.Customer.Email != "" {
		raw["customer_email"] = d.Customer.Email
	}
	if d.CheckIn != nil {
		raw["check_in"] = d.CheckIn.Format("2006-01-02")
	}
	if d.CheckOut != nil {
		raw["check_out"] = d.CheckOut.Format("2006-01-02")
	}
	if d.Guests > 0 {
		raw["guests"] = d.Guests
	}
	if d.Rooms > 0 {
		raw["rooms"] = d.Rooms
	}
	for k, v := range d.Passenger {
		raw["passenger_"+k] = v
	}
	return raw
}
