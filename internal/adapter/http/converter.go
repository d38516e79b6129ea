package http

import (
	"strings"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/response"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
	"github.com/tripsmith/travel-booking-aggregator/internal/monitor"
	"github.com/tripsmith/travel-booking-aggregator/internal/usecase"
)

// ToSelectionDetails converts a validated booking request to the domain
// selection for userID. Stay dates are read as IST calendar days.
func ToSelectionDetails(req *InitiateBookingRequest, userID string) domain.SelectionDetails {
	return domain.SelectionDetails{
		UserID: userID,
		Units:  req.Units,
		Customer: domain.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Passenger: req.Passenger,
		CheckIn:   toStayDate(req.CheckIn),
		CheckOut:  toStayDate(req.CheckOut),
		Guests:    req.Guests,
		Rooms:     req.Rooms,
		Amount:    req.Amount,
	}
}

func toStayDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := timeutil.ParseInTimezone(dateLayout, value, timeutil.IST)
	if err != nil {
		return nil
	}
	return &t
}

// ToInitiateRequest builds the use case request from a validated body.
func ToInitiateRequest(req *InitiateBookingRequest, userID string) usecase.InitiateRequest {
	return usecase.InitiateRequest{
		Provider:   req.Provider,
		ExternalID: req.ExternalID,
		Details:    ToSelectionDetails(req, userID),
	}
}

// ToSearchResponseDTO converts a search result to its response DTO.
func ToSearchResponseDTO(result *usecase.SearchResult) *SearchResponseDTO {
	if result == nil {
		return nil
	}

	dto := &SearchResponseDTO{
		Status: response.StatusSuccess,
		Type:   string(result.Kind),
		Query:  ToQueryDTO(result.Query),
		Metadata: MetadataDTO{
			TotalResults:     result.Metadata.TotalResults,
			SearchTimeMs:     result.Metadata.SearchDurationMs,
			ProvidersQueried: nonNilStrings(result.Metadata.ProvidersQueried),
			ProvidersFailed:  nonNilStrings(result.Metadata.ProvidersFailed),
		},
		Results: make([]ListingDTO, len(result.Items)),
	}

	for i := range result.Items {
		dto.Results[i] = ToListingDTO(&result.Items[i])
	}

	return dto
}

// ToQueryDTO converts a structured query.
func ToQueryDTO(q domain.StructuredQuery) QueryDTO {
	dates := make([]string, len(q.Dates))
	for i, d := range q.Dates {
		dates[i] = timeutil.FormatDate(d)
	}
	return QueryDTO{
		Location:      q.Location,
		Origin:        q.Origin,
		Destination:   q.Destination,
		Dates:         dates,
		Preferences:   nonNilStrings(q.Preferences),
		Budget:        q.Budget,
		TransportType: string(q.TransportType),
	}
}

// ToListingDTO converts a listing.
func ToListingDTO(item *domain.ListingItem) ListingDTO {
	dto := ListingDTO{
		Provider:           item.SourceProvider,
		ExternalID:         item.ExternalID,
		Name:               item.DisplayName,
		Kind:               string(item.Kind),
		Category:           item.Category,
		Rating:             item.Rating,
		Address:            item.Location.Address,
		Amenities:          nonNilStrings(item.Amenities),
		BookingURL:         item.RawBookingURL,
		CancellationPolicy: item.CancellationPolicy,
		Score:              item.Score,
	}

	if item.Price != nil {
		dto.Price = &PriceDTO{Amount: item.Price.Amount, Currency: item.Price.Currency}
	}

	if t := item.Transport; t != nil {
		dto.Transport = &TransportDTO{
			Operator:       t.Operator,
			Origin:         t.Origin,
			Destination:    t.Destination,
			DepartureTime:  formatTimestamp(t.DepartureTime),
			ArrivalTime:    formatTimestamp(t.ArrivalTime),
			Duration:       t.Duration,
			SeatsAvailable: t.SeatsAvailable,
		}
	}

	return dto
}

// ToBookingDTO converts a stored booking.
func ToBookingDTO(b domain.Booking) BookingDTO {
	return BookingDTO{
		BookingID:         b.ID,
		BookingType:       string(b.Intent.BookingType),
		Provider:          b.Intent.Provider,
		ExternalID:        b.Intent.ExternalID,
		ProviderReference: b.Intent.ProviderReference,
		PaymentStatus:     string(b.Intent.PaymentStatus),
		TotalAmount:       b.Intent.TotalAmount,
		PaymentURL:        b.PaymentURL,
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         b.UpdatedAt.Format(time.RFC3339),
	}
}

// ToBookingInitiatedDTO converts an initiation result.
func ToBookingInitiatedDTO(r usecase.InitiateResult) *BookingInitiatedDTO {
	return &BookingInitiatedDTO{
		Status:            response.StatusSuccess,
		BookingID:         r.BookingID,
		ProviderReference: r.ProviderReference,
		PaymentURL:        r.PaymentURL,
		Amount:            r.Amount,
	}
}

// ToBookingStatusDTO converts a refreshed booking status.
func ToBookingStatusDTO(s usecase.BookingStatus) *BookingStatusResponseDTO {
	return &BookingStatusResponseDTO{
		Status:         response.StatusSuccess,
		Booking:        ToBookingDTO(s.Booking),
		PaymentStatus:  string(s.PaymentStatus),
		ProviderStatus: string(s.ProviderStatus),
	}
}

// ToBookingListDTO converts the caller's bookings, keeping their order.
func ToBookingListDTO(bookings []domain.Booking) *BookingListResponseDTO {
	dto := &BookingListResponseDTO{
		Status:   response.StatusSuccess,
		Count:    len(bookings),
		Bookings: make([]BookingDTO, len(bookings)),
	}
	for i, b := range bookings {
		dto.Bookings[i] = ToBookingDTO(b)
	}
	return dto
}

// ToLayoutDTO converts a layout.
func ToLayoutDTO(provider string, layout domain.Layout) *LayoutResponseDTO {
	dto := &LayoutResponseDTO{
		Status:     response.StatusSuccess,
		Provider:   provider,
		ExternalID: layout.ExternalID,
		Available:  len(layout.Available()),
		Units:      make([]LayoutUnitDTO, len(layout.Units)),
	}
	for i, u := range layout.Units {
		dto.Units[i] = LayoutUnitDTO{
			ID:        u.ID,
			Label:     u.Label,
			Available: u.Available,
			Price:     u.Price,
		}
	}
	return dto
}

// ToMonitorDTO converts a monitor handle. The owner prefix is stripped
// from the subject.
func ToMonitorDTO(h monitor.Handle, userID string) MonitorDTO {
	return MonitorDTO{
		ID:        h.ID,
		SubjectID: displaySubject(h.SubjectID, userID),
		Threshold: h.Threshold,
		StartedAt: h.StartedAt.Format(time.RFC3339),
		Query:     ToQueryDTO(h.Query),
	}
}

// ToMonitorListDTO converts the monitors owned by userID.
func ToMonitorListDTO(handles []monitor.Handle, userID string) *MonitorListResponseDTO {
	dto := &MonitorListResponseDTO{
		Status:   response.StatusSuccess,
		Monitors: []MonitorDTO{},
	}
	for _, h := range handles {
		if ownsSubject(h.SubjectID, userID) {
			dto.Monitors = append(dto.Monitors, ToMonitorDTO(h, userID))
		}
	}
	dto.Count = len(dto.Monitors)
	return dto
}

// ToFareComparisonDTO converts a fare analysis for the route of query.
func ToFareComparisonDTO(query domain.StructuredQuery, analysis domain.FareAnalysis) *FareComparisonResponseDTO {
	dto := &FareComparisonResponseDTO{
		Status: response.StatusSuccess,
		Route: RouteDTO{
			Origin:      query.SearchFrom(),
			Destination: query.Destination,
		},
		LowestFare:         analysis.LowestFare,
		HighestFare:        analysis.HighestFare,
		AverageFare:        analysis.AverageFare,
		BestDeals:          make([]FareDealDTO, len(analysis.BestDeals)),
		ProviderComparison: make(map[string]ProviderFareDTO, len(analysis.Providers)),
	}
	if d, ok := query.DepartDate(); ok {
		dto.Route.Date = timeutil.FormatDate(d)
	}

	for i, d := range analysis.BestDeals {
		dto.BestDeals[i] = FareDealDTO{
			Provider:   d.Provider,
			ExternalID: d.ExternalID,
			Operator:   d.Operator,
			Amount:     d.Amount,
			Departure:  formatTimestamp(d.Departure),
			Duration:   d.Duration,
			Rating:     d.Rating,
		}
	}
	for name, p := range analysis.Providers {
		dto.ProviderComparison[name] = ProviderFareDTO{
			MinFare:      p.MinFare,
			MaxFare:      p.MaxFare,
			AverageFare:  p.AverageFare,
			TotalOptions: p.TotalOptions,
		}
	}

	return dto
}

// subjectSeparator joins the owner and the caller-chosen monitor name.
const subjectSeparator = "/"

// monitorSubject scopes a monitor subject to its owner. The caller's
// identity alone names their default monitor.
func monitorSubject(userID, subject string) string {
	if subject == "" {
		return userID
	}
	return userID + subjectSeparator + subject
}

func ownsSubject(subjectID, userID string) bool {
	return subjectID == userID || strings.HasPrefix(subjectID, userID+subjectSeparator)
}

func displaySubject(subjectID, userID string) string {
	if rest, ok := strings.CutPrefix(subjectID, userID+subjectSeparator); ok {
		return rest
	}
	return subjectID
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
