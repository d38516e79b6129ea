// Package makemytrip adapts the MakeMyTrip hotel API.
package makemytrip

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/httpclient"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/retry"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.makemytrip.com"

// Config holds the adapter settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
}

// Adapter implements domain.Provider for MakeMyTrip.
type Adapter struct {
	client *httpclient.Client
	logger *logger.Logger
}

// NewAdapter creates a MakeMyTrip adapter. httpClient may be nil.
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
			Headers:   map[string]string{"api-key": cfg.APIKey},
			Retry:     retry.ProviderConfig,
		}, httpClient),
		logger: logger.OrNop(log).WithProvider(ProviderName),
	}
}

func (a *Adapter) Name() string { return ProviderName }

func (a *Adapter) Kind() domain.Kind { return domain.KindHotel }

// Search queries MakeMyTrip hotels. Upstream failures yield an empty result.
func (a *Adapter) Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
	city := query.Destination
	if city == "" {
		city = query.Location
	}
	if city == "" {
		return []domain.ListingItem{}, nil
	}

	req := searchRequest{
		City:  city,
		Rooms: []roomOccupancy{{Adults: 1}},
	}
	if d, ok := query.DepartDate(); ok {
		req.Checkin = timeutil.FormatDate(d)
	}
	if d, ok := query.ReturnDate(); ok {
		req.Checkout = timeutil.FormatDate(d)
	}
	if floor, ok := query.RatingFloor(); ok {
		req.Filters.Rating = floor
	}
	if query.Budget != nil {
		req.Filters.MaxPrice = *query.Budget
	}

	var resp searchResponse
	if err := a.client.PostJSON(ctx, "/hotels/search", req, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn().Err(err).Str("city", city).Msg("hotel search failed")
		return []domain.ListingItem{}, nil
	}

	return normalize(resp.Hotels), nil
}

// FetchLayout lists the rooms of a hotel.
func (a *Adapter) FetchLayout(ctx context.Context, externalID string) (domain.Layout, error) {
	var resp roomsResponse
	if err := a.client.GetJSON(ctx, "/hotels/"+url.PathEscape(externalID)+"/rooms", nil, &resp); err != nil {
		return domain.Layout{}, domain.NewProviderError(ProviderName, fmt.Errorf("fetch rooms: %w", err))
	}
	return normalizeRooms(externalID, resp.Rooms), nil
}

// InitiateSelection books the chosen rooms.
func (a *Adapter) InitiateSelection(ctx context.Context, externalID string, details domain.SelectionDetails) (domain.SelectionResult, error) {
	req := bookRequest{
		HotelID: externalID,
		RoomIDs: details.Units,
		Guests:  max(details.Guests, 1),
		Rooms:   max(details.Rooms, 1),
		Contact: contact{
			Name:  details.Customer.Name,
			Email: details.Customer.Email,
			Phone: details.Customer.Phone,
		},
	}
	if details.CheckIn != nil {
		req.Checkin = timeutil.FormatDate(*details.CheckIn)
	}
	if details.CheckOut != nil {
		req.Checkout = timeutil.FormatDate(*details.CheckOut)
	}

	var resp bookResponse
	if err := a.client.PostJSON(ctx, "/hotels/book", req, &resp); err != nil {
		return domain.SelectionResult{}, domain.NewProviderError(ProviderName, fmt.Errorf("book: %w", err))
	}

	return domain.SelectionResult{
		ProviderReference: resp.BookingID,
		PaymentURL:        resp.PaymentLink,
		TotalAmount:       resp.Amount.Value,
	}, nil
}

var _ domain.Provider = (*Adapter)(nil)
