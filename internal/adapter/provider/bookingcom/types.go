package bookingcom

import "github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/httpclient"

// searchRequest is the body of POST /hotels/search.
type searchRequest struct {
	CityID        string        `json:"city_id,omitempty"`
	City          string        `json:"city"`
	Checkin       string        `json:"checkin,omitempty"`
	Checkout      string        `json:"checkout,omitempty"`
	AdultsNumber  int           `json:"adults_number"`
	RoomNumber    int           `json:"room_number"`
	Filter        *searchFilter `json:"filter,omitempty"`
	MaxTotalPrice float64       `json:"max_total_price,omitempty"`
}

type searchFilter struct {
	// MinReviewScore is on Booking.com's 1-10 scale.
	MinReviewScore float64 `json:"min_review_score"`
}

type searchResponse struct {
	Result []hotel `json:"result"`
}

type hotel struct {
	HotelID            httpclient.FlexString `json:"hotel_id"`
	HotelName          string                `json:"hotel_name"`
	ReviewScore        httpclient.FlexFloat  `json:"review_score"`
	MinTotalPrice      httpclient.FlexFloat  `json:"min_total_price"`
	Currency           string                `json:"currency"`
	Address            string                `json:"address"`
	Latitude           httpclient.FlexFloat  `json:"latitude"`
	Longitude          httpclient.FlexFloat  `json:"longitude"`
	Facilities         []string              `json:"facilities"`
	CancellationPolicy string                `json:"cancellation_policy"`
	AccommodationType  string                `json:"accommodation_type"`
}

type city struct {
	CityID httpclient.FlexString `json:"city_id"`
	Name   string                `json:"name"`
}

type blocksResponse struct {
	Blocks []block `json:"blocks"`
}

type block struct {
	BlockID   httpclient.FlexString `json:"block_id"`
	Name      string                `json:"name"`
	RoomsLeft int                   `json:"rooms_left"`
	MinPrice  httpclient.FlexFloat  `json:"min_price"`
}

type bookingRequest struct {
	HotelID  string   `json:"hotel_id"`
	BlockIDs []string `json:"block_ids,omitempty"`
	Checkin  string   `json:"checkin,omitempty"`
	Checkout string   `json:"checkout,omitempty"`
	Guests   int      `json:"guests"`
	Rooms    int      `json:"rooms"`
	Name     string   `json:"booker_name,omitempty"`
	Email    string   `json:"booker_email,omitempty"`
}

type bookingResponse struct {
	BookingReference string               `json:"booking_reference"`
	PaymentURL       string               `json:"payment_url"`
	TotalAmount      httpclient.FlexFloat `json:"total_amount"`
}
