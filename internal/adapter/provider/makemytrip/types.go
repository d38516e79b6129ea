package makemytrip

import "github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/httpclient"

type searchRequest struct {
	City     string          `json:"city"`
	Checkin  string          `json:"checkin,omitempty"`
	Checkout string          `json:"checkout,omitempty"`
	Rooms    []roomOccupancy `json:"rooms"`
	Filters  searchFilters   `json:"filters"`
}

type roomOccupancy struct {
	Adults int `json:"adults"`
}

type searchFilters struct {
	Rating   float64 `json:"rating,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

type searchResponse struct {
	Hotels []hotel `json:"hotels"`
}

type hotel struct {
	ID                 httpclient.FlexString `json:"id"`
	Name               string                `json:"name"`
	Rating             httpclient.FlexFloat  `json:"rating"`
	Price              *price                `json:"price"`
	Address            string                `json:"address"`
	Latitude           httpclient.FlexFloat  `json:"latitude"`
	Longitude          httpclient.FlexFloat  `json:"longitude"`
	Amenities          []string              `json:"amenities"`
	CancellationPolicy string                `json:"cancellationPolicy"`
	RoomType           string                `json:"roomType"`
}

type price struct {
	Amount   httpclient.FlexFloat `json:"amount"`
	Currency string               `json:"currency"`
}

type roomsResponse struct {
	Rooms []room `json:"rooms"`
}

type room struct {
	RoomID    httpclient.FlexString `json:"roomId"`
	RoomName  string                `json:"roomName"`
	Available bool                  `json:"available"`
	Price     httpclient.FlexFloat  `json:"price"`
}

type bookRequest struct {
	HotelID  string   `json:"hotelId"`
	RoomIDs  []string `json:"roomIds,omitempty"`
	Checkin  string   `json:"checkin,omitempty"`
	Checkout string   `json:"checkout,omitempty"`
	Guests   int      `json:"guests"`
	Rooms    int      `json:"rooms"`
	Contact  contact  `json:"contact"`
}

type contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type bookResponse struct {
	BookingID   string               `json:"bookingId"`
	PaymentLink string               `json:"paymentLink"`
	Amount      httpclient.FlexFloat `json:"amount"`
}
