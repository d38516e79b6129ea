package domain

import "time"

// BookingType mirrors Kind for bookings.
type BookingType string

const (
	BookingHotel     BookingType = "hotel"
	BookingTransport BookingType = "transport"
)

// PaymentStatus is changed only by the payment collaborator's verification.
type PaymentStatus string

const (
	PaymentNone    PaymentStatus = "none"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// BookingIntent is created when a selection step completes.
type BookingIntent struct {
	BookingType       BookingType            `json:"bookingType"`
	Provider          string                 `json:"provider"`
	ExternalID        string                 `json:"externalId"`
	ProviderReference string                 `json:"providerReference,omitempty"`
	PaymentStatus     PaymentStatus          `json:"paymentStatus"`
	TotalAmount       float64                `json:"totalAmount"`
	RawDetails        map[string]interface{} `json:"rawDetails,omitempty"`
}

// Booking is a persisted intent with ownership and lifecycle data.
type Booking struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	Intent     BookingIntent `json:"intent"`
	PaymentID  string        `json:"paymentId,omitempty"`
	PaymentURL string        `json:"paymentUrl,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// BookingTypeFor maps a listing kind to a booking type.
func BookingTypeFor(k Kind) BookingType {
	if k == KindTransport {
		return BookingTransport
	}
	return BookingHotel
}

// Layout is the seat map of a departure or the room list of a hotel.
type Layout struct {
	ExternalID string       `json:"externalId"`
	Units      []LayoutUnit `json:"units"`
}

// LayoutUnit is one seat or room.
type LayoutUnit struct {
	ID        string   `json:"id"`
	Label     string   `json:"label,omitempty"`
	Available bool     `json:"available"`
	Price     *float64 `json:"price,omitempty"`
}

// Available returns the units that can still be booked.
func (l Layout) Available() []LayoutUnit {
	out := make([]LayoutUnit, 0, len(l.Units))
	for _, u := range l.Units {
		if u.Available {
			out = append(out, u)
		}
	}
	return out
}

// Customer identifies who pays.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// SelectionDetails carries what the user picked on a listing.
type SelectionDetails struct {
	UserID string `json:"userId"`

	// Units are seat numbers or room ids.
	Units []string `json:"units,omitempty"`

	Customer  Customer          `json:"customer"`
	Passenger map[string]string `json:"passenger,omitempty"`

	CheckIn  *time.Time `json:"checkIn,omitempty"`
	CheckOut *time.Time `json:"checkOut,omitempty"`
	Guests   int        `json:"guests,omitempty"`
	Rooms    int        `json:"rooms,omitempty"`

	// Amount is the expected total when the provider does not quote one.
	Amount float64 `json:"amount,omitempty"`
}

// SelectionResult is what a provider returns after a selection is submitted.
type SelectionResult struct {
	ProviderReference string  `json:"providerReference"`
	PaymentURL        string  `json:"paymentUrl,omitempty"`
	TotalAmount       float64 `json:"totalAmount,omitempty"`
}

// Confirmation is what a provider reports once a booking is paid.
type Confirmation struct {
	BookingID   string  `json:"bookingId,omitempty"`
	PNR         string  `json:"pnr,omitempty"`
	TotalAmount float64 `json:"totalAmount,omitempty"`
}

// PriceAlert is emitted by a monitor when a fare drops below its threshold.
type PriceAlert struct {
	SubjectID  string      `json:"subjectId"`
	MinPrice   float64     `json:"minPrice"`
	Threshold  float64     `json:"threshold"`
	Item       ListingItem `json:"item"`
	ObservedAt time.Time   `json:"observedAt"`
}
