// Package bookingcom adapts the Booking.com distribution API to the common
// listing model.
package bookingcom

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/httpclient"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/retry"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// DefaultBaseURL is the production distribution API root.
const DefaultBaseURL = "https://distribution-xml.booking.com/json"

// Config holds the adapter settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
}

// Adapter implements domain.Provider for Booking.com.
type Adapter struct {
	client *httpclient.Client
	logger *logger.Logger

	cityIDs sync.Map
}

// NewAdapter creates a Booking.com adapter. httpClient may be nil.
func NewAdapter(cfg Config, httpClient *http.Client, log *logger.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Adapter{
		client: httpclient.New(httpclient.Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			Burst:     2,
			Headers:   map[string]string{"Authorization": "Bearer " + cfg.APIKey},
			Retry:     retry.ProviderConfig,
		}, httpClient),
		logger: logger.OrNop(log).WithProvider(ProviderName),
	}
}

// Name returns the provider identifier.
func (a *Adapter) Name() string {
	return ProviderName
}

// Kind reports that Booking.com lists hotels.
func (a *Adapter) Kind() domain.Kind {
	return domain.KindHotel
}

// Search queries hotel availability. Upstream failures yield an empty result.
func (a *Adapter) Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
	location := query.Destination
	if location == "" {
		location = query.Location
	}
	if location == "" {
		a.logger.Debug().Msg("no location in query, skipping search")
		return []domain.ListingItem{}, nil
	}

	req := searchRequest{
		CityID:       a.cityID(ctx, location),
		City:         location,
		AdultsNumber: 1,
		RoomNumber:   1,
	}
	if d, ok := query.DepartDate(); ok {
		req.Checkin = timeutil.FormatDate(d)
	}
	if d, ok := query.ReturnDate(); ok {
		req.Checkout = timeutil.FormatDate(d)
	}
	if floor, ok := query.RatingFloor(); ok {
		req.Filter = &searchFilter{MinReviewScore: floor * reviewScale / domain.MaxRating}
	}
	if query.Budget != nil {
		req.MaxTotalPrice = *query.Budget
	}

	var resp searchResponse
	if err := a.client.PostJSON(ctx, "/hotels/search", req, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn().Err(err).Str("location", location).Msg("hotel search failed")
		return []domain.ListingItem{}, nil
	}

	items := normalize(resp.Result)
	a.logger.Debug().Int("count", len(items)).Msg("hotel search completed")
	return items, nil
}

// FetchLayout returns the room blocks for a hotel.
func (a *Adapter) FetchLayout(ctx context.Context, externalID string) (domain.Layout, error) {
	var resp blocksResponse
	path := "/hotels/" + url.PathEscape(externalID) + "/blocks"
	if err := a.client.GetJSON(ctx, path, nil, &resp); err != nil {
		return domain.Layout{}, domain.NewProviderError(ProviderName, fmt.Errorf("fetch blocks: %w", err))
	}
	return normalizeLayout(externalID, resp.Blocks), nil
}

// InitiateSelection creates a booking for the chosen room blocks.
func (a *Adapter) InitiateSelection(ctx context.Context, externalID string, details domain.SelectionDetails) (domain.SelectionResult, error) {
	req := bookingRequest{
		HotelID:  externalID,
		BlockIDs: details.Units,
		Guests:   max(details.Guests, 1),
		Rooms:    max(details.Rooms, 1),
		Name:     details.Customer.Name,
		Email:    details.Customer.Email,
	}
	if details.CheckIn != nil {
		req.Checkin = timeutil.FormatDate(*details.CheckIn)
	}
	if details.CheckOut != nil {
		req.Checkout = timeutil.FormatDate(*details.CheckOut)
	}

	var resp bookingResponse
	if err := a.client.PostJSON(ctx, "/bookings", req, &resp); err != nil {
		return domain.SelectionResult{}, domain.NewProviderError(ProviderName, fmt.Errorf("initiate booking: %w", err))
	}

	a.logger.Info().Str("reference", resp.BookingReference).Msg("booking initiated")
	return domain.SelectionResult{
		ProviderReference: resp.BookingReference,
		PaymentURL:        resp.PaymentURL,
		TotalAmount:       resp.TotalAmount.Value,
	}, nil
}

// cityID resolves and caches the Booking.com city id; empty when unknown.
func (a *Adapter) cityID(ctx context.Context, name string) string {
	if v, ok := a.cityIDs.Load(name); ok {
		return v.(string)
	}

	var cities []city
	if err := a.client.GetJSON(ctx, "/cities", url.Values{"name": {name}}, &cities); err != nil {
		a.logger.Debug().Err(err).Str("city", name).Msg("city lookup failed")
		return ""
	}
	if len(cities) == 0 {
		return ""
	}
	id := string(cities[0].CityID)
	a.cityIDs.Store(name, id)
	return id
}

var _ domain.Provider = (*Adapter)(nil)
