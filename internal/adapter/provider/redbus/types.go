package redbus

import "github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/httpclient"

type city struct {
	ID   httpclient.FlexString `json:"id"`
	Name string                `json:"name"`
}

type searchRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	DOJ         string `json:"doj"`
	SrcID       string `json:"srcId,omitempty"`
	DestID      string `json:"destId,omitempty"`
}

type searchResponse struct {
	Inventories []inventory `json:"inventories"`
}

type inventory struct {
	ID                 httpclient.FlexString `json:"id"`
	TravelsName        string                `json:"travelsName"`
	BusType            string                `json:"busType"`
	DepartureTime      string                `json:"departureTime"`
	ArrivalTime        string                `json:"arrivalTime"`
	Duration           string                `json:"duration"`
	AvailableSeats     *int                  `json:"availableSeats"`
	Fare               httpclient.FlexFloat  `json:"fare"`
	Amenities          []string              `json:"amenities"`
	Rating             httpclient.FlexFloat  `json:"rating"`
	CancellationPolicy string                `json:"cancellationPolicy"`
}

type layoutResponse struct {
	Seats []seat `json:"seats"`
}

type seat struct {
	SeatNumber string               `json:"seatNumber"`
	Berth      string               `json:"berth"`
	Available  bool                 `json:"available"`
	Fare       httpclient.FlexFloat `json:"fare"`
}

type initiateRequest struct {
	InventoryID string            `json:"inventoryId"`
	SeatNumbers []string          `json:"seatNumbers"`
	Passengers  map[string]string `json:"passengers"`
}

type initiateResponse struct {
	BookingReference string               `json:"bookingReference"`
	PaymentURL       string               `json:"paymentUrl"`
	TotalAmount      httpclient.FlexFloat `json:"totalAmount"`
}

type statusResponse struct {
	Status       string `json:"status"`
	TicketNumber string `json:"ticketNumber"`
	PNR          string `json:"pnr"`
}
