// Package domain contains the provider-agnostic entities shared by the
// extractor, adapters, ranking and booking layers.
package domain

import (
	"math"
	"time"
)

// Kind distinguishes hotel listings from transport listings.
type Kind string

const (
	KindHotel     Kind = "hotel"
	KindTransport Kind = "transport"
)

// DefaultCurrency is the single currency budgets are expressed in.
const DefaultCurrency = "INR"

// MaxRating is the top of the normalized rating scale.
const MaxRating = 5.0

// ListingItem is one hotel or transport offering in the common shape every
// adapter converts into. Rating is always on the 0-5 scale.
type ListingItem struct {
	// SourceProvider names the adapter that produced the item.
	SourceProvider string `json:"sourceProvider"`

	// ExternalID is the provider's own identifier, used for layout and selection.
	ExternalID string `json:"externalId"`

	DisplayName string `json:"displayName"`

	Kind Kind `json:"kind"`

	// Category is the bus type or room type as the provider reports it.
	Category string `json:"category,omitempty"`

	Price *Money `json:"price,omitempty"`

	// Rating is normalized to 0-5; nil when the provider has none.
	Rating *float64 `json:"rating,omitempty"`

	Location Location `json:"location"`

	Amenities []string `json:"amenities,omitempty"`

	RawBookingURL string `json:"rawBookingUrl,omitempty"`

	CancellationPolicy *string `json:"cancellationPolicy,omitempty"`

	// Transport is set for bus and train listings only.
	Transport *TransportDetails `json:"transport,omitempty"`

	// Score is filled in by ranking.
	Score float64 `json:"score,omitempty"`
}

// Money is an amount in a currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Location is an address with optional coordinates.
type Location struct {
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// TransportDetails holds the fields specific to a bus or train departure.
type TransportDetails struct {
	Operator       string     `json:"operator"`
	Origin         string     `json:"origin,omitempty"`
	Destination    string     `json:"destination,omitempty"`
	DepartureTime  *time.Time `json:"departureTime,omitempty"`
	ArrivalTime    *time.Time `json:"arrivalTime,omitempty"`
	Duration       string     `json:"duration,omitempty"`
	SeatsAvailable *int       `json:"seatsAvailable,omitempty"`
}

// NewMoney returns a Money pointer, defaulting the currency.
func NewMoney(amount float64, currency string) *Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Money{Amount: amount, Currency: currency}
}

// PriceAmount returns the price amount and whether a price is present.
func (l ListingItem) PriceAmount() (float64, bool) {
	if l.Price == nil {
		return 0, false
	}
	return l.Price.Amount, true
}

// NormalizeRating converts a provider-native rating on a 0..scaleMax scale
// to the 0-5 scale, clamped. A non-positive scaleMax yields nil.
func NormalizeRating(value, scaleMax float64) *float64 {
	if scaleMax <= 0 || math.IsNaN(value) {
		return nil
	}
	r := value * MaxRating / scaleMax
	r = math.Max(0, math.Min(MaxRating, r))
	r = math.Round(r*100) / 100
	return &r
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}
