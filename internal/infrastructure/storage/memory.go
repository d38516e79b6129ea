// Package storage persists booking intents. Postgres is used in production,
// the in-memory store when no database is configured and in tests.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// MemoryStore keeps bookings in a map.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
	clock    timeutil.Clock
}

// NewMemoryStore creates an empty store. clock may be nil.
func NewMemoryStore(clock timeutil.Clock) *MemoryStore {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &MemoryStore{bookings: make(map[string]domain.Booking), clock: clock}
}

func (s *MemoryStore) SaveBookingIntent(_ context.Context, userID string, intent domain.BookingIntent) (string, error) {
	if userID == "" {
		return "", domain.NewValidationError("user_id", "is required")
	}
	now := s.clock.Now()
	b := domain.Booking{
		ID:        uuid.NewString(),
		UserID:    userID,
		Intent:    intent,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Intent.RawDetails = mergeDetails(nil, intent.RawDetails)
	if b.Intent.PaymentStatus == "" {
		b.Intent.PaymentStatus = domain.PaymentPending
	}

	s.mu.Lock()
	s.bookings[b.ID] = b
	s.mu.Unlock()
	return b.ID, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id string, status domain.PaymentStatus, details map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}
	b.Intent.PaymentStatus = status
	b.Intent.RawDetails = mergeDetails(b.Intent.RawDetails, details)
	b.UpdatedAt = s.clock.Now()
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) AttachPayment(_ context.Context, id, paymentID, paymentURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}
	b.PaymentID = paymentID
	b.PaymentURL = paymentURL
	b.UpdatedAt = s.clock.Now()
	s.bookings[id] = b
	return nil
}

func (s *MemoryStore) GetBooking(_ context.Context, id string) (domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}
	b.Intent.RawDetails = mergeDetails(nil, b.Intent.RawDetails)
	return b, nil
}

// GetBookingsForUser returns the user's bookings, newest first.
func (s *MemoryStore) GetBookingsForUser(_ context.Context, userID string) ([]domain.Booking, error) {
	s.mu.RLock()
	out := make([]domain.Booking, 0)
	for _, b := range s.bookings {
		if b.UserID == userID {
			b.Intent.RawDetails = mergeDetails(nil, b.Intent.RawDetails)
			out = append(out, b)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(bookings []domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID > bookings[j].ID
	})
}

// mergeDetails returns a copy of base with extra laid over it.
func mergeDetails(base, extra map[string]interface{}) map[string]interface{} {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

var _ domain.BookingStore = (*MemoryStore)(nil)
