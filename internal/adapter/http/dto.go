package http

// SearchResponseDTO is the data transfer object for search responses.
// It matches the expected API output format with snake_case fields.
type SearchResponseDTO struct {
	Status   string       `json:"status"`
	Type     string       `json:"type"`
	Query    QueryDTO     `json:"query"`
	Results  []ListingDTO `json:"results"`
	Metadata MetadataDTO  `json:"metadata"`
}

// QueryDTO is the structured form the prompt was read as.
type QueryDTO struct {
	Location      string   `json:"location,omitempty"`
	Origin        string   `json:"origin,omitempty"`
	Destination   string   `json:"destination,omitempty"`
	Dates         []string `json:"dates"`
	Preferences   []string `json:"preferences"`
	Budget        *float64 `json:"budget,omitempty"`
	TransportType string   `json:"transport_type"`
}

// MetadataDTO contains metadata about the search execution.
type MetadataDTO struct {
	TotalResults     int      `json:"total_results"`
	SearchTimeMs     int64    `json:"search_time_ms"`
	ProvidersQueried []string `json:"providers_queried"`
	ProvidersFailed  []string `json:"providers_failed"`
}

// ListingDTO is one hotel or transport result.
type ListingDTO struct {
	Provider           string        `json:"provider"`
	ExternalID         string        `json:"external_id"`
	Name               string        `json:"name"`
	Kind               string        `json:"kind"`
	Category           string        `json:"category,omitempty"`
	Price              *PriceDTO     `json:"price"`
	Rating             *float64      `json:"rating"`
	Address            string        `json:"address,omitempty"`
	Amenities          []string      `json:"amenities"`
	BookingURL         string        `json:"booking_url,omitempty"`
	CancellationPolicy *string       `json:"cancellation_policy,omitempty"`
	Transport          *TransportDTO `json:"transport,omitempty"`
	Score              float64       `json:"score"`
}

// PriceDTO represents price information.
type PriceDTO struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// TransportDTO holds bus and train departure details.
type TransportDTO struct {
	Operator       string `json:"operator"`
	Origin         string `json:"origin,omitempty"`
	Destination    string `json:"destination,omitempty"`
	DepartureTime  string `json:"departure_time,omitempty"`
	ArrivalTime    string `json:"arrival_time,omitempty"`
	Duration       string `json:"duration,omitempty"`
	SeatsAvailable *int   `json:"seats_available,omitempty"`
}

// BookingInitiatedDTO is returned when a booking was created.
type BookingInitiatedDTO struct {
	Status            string  `json:"status"`
	BookingID         string  `json:"booking_id"`
	ProviderReference string  `json:"provider_reference,omitempty"`
	PaymentURL        string  `json:"payment_url"`
	Amount            float64 `json:"amount"`
}

// BookingDTO is a stored booking as the owner sees it.
type BookingDTO struct {
	BookingID         string  `json:"booking_id"`
	BookingType       string  `json:"booking_type"`
	Provider          string  `json:"provider"`
	ExternalID        string  `json:"external_id"`
	ProviderReference string  `json:"provider_reference,omitempty"`
	PaymentStatus     string  `json:"payment_status"`
	TotalAmount       float64 `json:"total_amount"`
	PaymentURL        string  `json:"payment_url,omitempty"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

// BookingStatusResponseDTO is the refreshed state of one booking.
type BookingStatusResponseDTO struct {
	Status         string     `json:"status"`
	Booking        BookingDTO `json:"booking"`
	PaymentStatus  string     `json:"payment_status"`
	ProviderStatus string     `json:"provider_status,omitempty"`
}

// BookingListResponseDTO lists the caller's bookings.
type BookingListResponseDTO struct {
	Status   string       `json:"status"`
	Count    int          `json:"count"`
	Bookings []BookingDTO `json:"bookings"`
}

// LayoutResponseDTO is a seat map or room list.
type LayoutResponseDTO struct {
	Status     string          `json:"status"`
	Provider   string          `json:"provider"`
	ExternalID string          `json:"external_id"`
	Available  int             `json:"available"`
	Units      []LayoutUnitDTO `json:"units"`
}

// LayoutUnitDTO is one seat or room.
type LayoutUnitDTO struct {
	ID        string   `json:"id"`
	Label     string   `json:"label,omitempty"`
	Available bool     `json:"available"`
	Price     *float64 `json:"price,omitempty"`
}

// MonitorDTO describes a running price monitor.
type MonitorDTO struct {
	ID        string   `json:"id"`
	SubjectID string   `json:"subject_id"`
	Threshold float64  `json:"threshold"`
	StartedAt string   `json:"started_at"`
	Query     QueryDTO `json:"query"`
}

// MonitorResponseDTO wraps one monitor.
type MonitorResponseDTO struct {
	Status  string     `json:"status"`
	Monitor MonitorDTO `json:"monitor"`
}

// MonitorListResponseDTO lists the caller's monitors.
type MonitorListResponseDTO struct {
	Status   string       `json:"status"`
	Count    int          `json:"count"`
	Monitors []MonitorDTO `json:"monitors"`
}

// FareComparisonResponseDTO compares fares for one route.
type FareComparisonResponseDTO struct {
	Status             string                     `json:"status"`
	Route              RouteDTO                   `json:"route"`
	LowestFare         float64                    `json:"lowest_fare"`
	HighestFare        float64                    `json:"highest_fare"`
	AverageFare        float64                    `json:"average_fare"`
	BestDeals          []FareDealDTO              `json:"best_deals"`
	ProviderComparison map[string]ProviderFareDTO `json:"provider_comparison"`
}

// RouteDTO is the route a fare comparison covered.
type RouteDTO struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date,omitempty"`
}

// FareDealDTO is one of the cheapest departures.
type FareDealDTO struct {
	Provider   string   `json:"provider"`
	ExternalID string   `json:"external_id"`
	Operator   string   `json:"operator,omitempty"`
	Amount     float64  `json:"amount"`
	Departure  string   `json:"departure,omitempty"`
	Duration   string   `json:"duration,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
}

// ProviderFareDTO summarizes one provider's fares.
type ProviderFareDTO struct {
	MinFare      float64 `json:"min_fare"`
	MaxFare      float64 `json:"max_fare"`
	AverageFare  float64 `json:"average_fare"`
	TotalOptions int     `json:"total_options"`
}

// MessageResponseDTO acknowledges a command without a payload.
type MessageResponseDTO struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
