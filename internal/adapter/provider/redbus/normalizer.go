package redbus

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// ProviderName is the unique identifier for the RedBus provider.
const ProviderName = "redbus"

// RedBus ratings are already on five stars.
const ratingScale = 5.0

const seatSelectURL = "https://www.redbus.in/booking/select-seat/"

// normalize converts RedBus inventories into listings. doj is the journey
// date used to anchor bare "HH:MM" times.
func normalize(inventories []inventory, origin, destination string, doj time.Time) []domain.ListingItem {
	result := make([]domain.ListingItem, 0, len(inventories))
	for _, inv := range inventories {
		if inv.ID == "" || inv.TravelsName == "" {
			continue
		}
		result = append(result, normalizeInventory(inv, origin, destination, doj))
	}
	return result
}

func normalizeInventory(inv inventory, origin, destination string, doj time.Time) domain.ListingItem {
	details := &domain.TransportDetails{
		Operator:       inv.TravelsName,
		Origin:         origin,
		Destination:    destination,
		Duration:       inv.Duration,
		SeatsAvailable: inv.AvailableSeats,
	}
	if t, err := parseDateTime(inv.DepartureTime, doj); err == nil {
		details.DepartureTime = &t
	}
	if t, err := parseDateTime(inv.ArrivalTime, doj); err == nil {
		// Overnight buses arrive the next day.
		if details.DepartureTime != nil && t.Before(*details.DepartureTime) {
			t = t.AddDate(0, 0, 1)
		}
		details.ArrivalTime = &t
	}

	item := domain.ListingItem{
		SourceProvider: ProviderName,
		ExternalID:     string(inv.ID),
		DisplayName:    inv.TravelsName,
		Kind:           domain.KindTransport,
		Category:       inv.BusType,
		Location:       domain.Location{Address: origin},
		Amenities:      inv.Amenities,
		RawBookingURL:  seatSelectURL + url.PathEscape(string(inv.ID)),
		Transport:      details,
	}
	if inv.Fare.Valid {
		item.Price = domain.NewMoney(inv.Fare.Value, domain.DefaultCurrency)
	}
	if inv.Rating.Valid {
		item.Rating = domain.NormalizeRating(inv.Rating.Value, ratingScale)
	}
	if inv.CancellationPolicy != "" {
		item.CancellationPolicy = domain.StringPtr(inv.CancellationPolicy)
	}
	return item
}

// parseDateTime accepts RFC3339, "YYYY-MM-DD HH:MM" in IST, or a bare
// "HH:MM" placed on doj.
func parseDateTime(value string, doj time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := timeutil.ParseInTimezone("2006-01-02 15:04", value, timeutil.IST); err == nil {
		return t, nil
	}
	if t, err := timeutil.ParseClockOnDate(value, doj); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse time %q", value)
}

func normalizeLayout(inventoryID string, seats []seat) domain.Layout {
	layout := domain.Layout{ExternalID: inventoryID, Units: make([]domain.LayoutUnit, 0, len(seats))}
	for _, s := range seats {
		label := s.SeatNumber
		if s.Berth != "" {
			label = s.SeatNumber + " (" + strings.ToLower(s.Berth) + ")"
		}
		layout.Units = append(layout.Units, domain.LayoutUnit{
			ID:        s.SeatNumber,
			Label:     label,
			Available: s.Available,
			Price:     s.Fare.Ptr(),
		})
	}
	return layout
}

// normalizeStatus maps RedBus booking states onto payment states.
func normalizeStatus(status string) domain.PaymentStatus {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "CONFIRMED", "BOOKED", "TICKETED":
		return domain.PaymentPaid
	case "FAILED", "CANCELLED", "EXPIRED":
		return domain.PaymentFailed
	case "":
		return domain.PaymentNone
	default:
		return domain.PaymentPending
	}
}
