package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// AutomatedBooking runs bookings on providers that keep a live session
// until payment. The selection happens inside the request; the payment
// wait continues in the background and records the outcome in the store.
type AutomatedBooking struct {
	registry *domain.ProviderRegistry
	store    domain.BookingStore
	logger   *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]inFlightPayment
}

type inFlightPayment struct {
	userID  string
	session domain.PendingPayment
	cancel  context.CancelFunc
}

// NewAutomatedBooking creates an AutomatedBooking. Call Shutdown to stop
// every payment wait still running.
func NewAutomatedBooking(registry *domain.ProviderRegistry, store domain.BookingStore, log *logger.Logger) *AutomatedBooking {
	ctx, cancel := context.WithCancel(context.Background())
	return &AutomatedBooking{
		registry: registry,
		store:    store,
		logger:   logger.OrNop(log),
		ctx:      ctx,
		cancel:   cancel,
		inFlight: make(map[string]inFlightPayment),
	}
}

// Start submits the selection through the provider's session, stores the
// intent as pending with the provider's payment page, and begins watching
// for payment.
func (a *AutomatedBooking) Start(ctx context.Context, req InitiateRequest) (InitiateResult, error) {
	if req.Details.UserID == "" {
		return InitiateResult{}, domain.NewValidationError("user_id", "is required")
	}
	p := a.registry.Get(req.Provider)
	if p == nil {
		return InitiateResult{}, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, req.Provider)
	}
	booker, ok := p.(domain.InteractiveBooker)
	if !ok {
		return InitiateResult{}, domain.NewProviderError(p.Name(), domain.ErrSelectionUnsupported)
	}

	session, sel, err := booker.BeginSelection(ctx, req.ExternalID, req.Details)
	if err != nil {
		return InitiateResult{}, err
	}

	id, err := a.store.SaveBookingIntent(ctx, req.Details.UserID, domain.BookingIntent{
		BookingType:       domain.BookingTypeFor(p.Kind()),
		Provider:          p.Name(),
		ExternalID:        req.ExternalID,
		ProviderReference: sel.ProviderReference,
		PaymentStatus:     domain.PaymentPending,
		TotalAmount:       sel.TotalAmount,
		RawDetails:        selectionDetails(req.Details),
	})
	if err == nil {
		err = a.store.AttachPayment(ctx, id, "", sel.PaymentURL)
	}
	if err != nil {
		_ = session.Close()
		return InitiateResult{}, fmt.Errorf("store booking intent: %w", err)
	}

	a.watch(id, req.Details.UserID, p.Name(), session)

	return InitiateResult{
		BookingID:         id,
		ProviderReference: sel.ProviderReference,
		PaymentURL:        sel.PaymentURL,
		Amount:            sel.TotalAmount,
	}, nil
}

// Cancel stops the payment wait of a booking owned by userID. The booking
// is then recorded as failed by the background wait.
func (a *AutomatedBooking) Cancel(userID, bookingID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p, ok := a.inFlight[bookingID]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if p.userID != userID {
		return domain.ErrUnauthorizedAccess
	}
	p.cancel()
	return nil
}

// InFlight returns the number of payment waits still running.
func (a *AutomatedBooking) InFlight() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inFlight)
}

// Shutdown cancels every payment wait and blocks until their sessions are
// closed or ctx ends.
func (a *AutomatedBooking) Shutdown(ctx context.Context) error {
	a.cancel()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AutomatedBooking) watch(bookingID, userID, provider string, session domain.PendingPayment) {
	ctx, cancel := context.WithCancel(a.ctx)

	a.mu.Lock()
	a.inFlight[bookingID] = inFlightPayment{userID: userID, session: session, cancel: cancel}
	a.mu.Unlock()

	log := a.logger.WithProvider(provider).WithContext("booking_id", bookingID)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() {
			cancel()
			if err := session.Close(); err != nil {
				log.Warn().Err(err).Msg("close session")
			}
			a.mu.Lock()
			delete(a.inFlight, bookingID)
			a.mu.Unlock()
		}()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("payment wait panicked")
				a.record(log, bookingID, domain.PaymentFailed, map[string]interface{}{"reason": "panic"})
			}
		}()

		conf, err := session.AwaitPayment(ctx)
		if err != nil {
			reason := "error"
			switch {
			case errors.Is(err, domain.ErrPaymentTimeout):
				reason = "payment_timeout"
			case errors.Is(err, context.Canceled):
				reason = "cancelled"
			}
			log.Warn().Err(err).Str("reason", reason).Msg("payment not completed")
			a.record(log, bookingID, domain.PaymentFailed, map[string]interface{}{"reason": reason, "error": err.Error()})
			return
		}

		log.Info().Str("provider_booking_id", conf.BookingID).Str("pnr", conf.PNR).Msg("booking confirmed")
		a.record(log, bookingID, domain.PaymentPaid, map[string]interface{}{
			"booking_id":   conf.BookingID,
			"pnr":          conf.PNR,
			"total_amount": conf.TotalAmount,
		})
	}()
}

// record writes the outcome with a fresh context: the wait's own context
// may already be cancelled.
func (a *AutomatedBooking) record(log *logger.Logger, bookingID string, status domain.PaymentStatus, details map[string]interface{}) {
	if err := a.store.UpdateStatus(context.Background(), bookingID, status, details); err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("record booking outcome")
	}
}
