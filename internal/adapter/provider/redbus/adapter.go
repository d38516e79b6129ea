// Package redbus adapts the RedBus partner API for bus inventory, seat
// layouts and booking.
package redbus

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

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.redbus.in/v2"

// Config holds the adapter settings.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
}

// Adapter implements domain.Provider and domain.StatusChecker for RedBus.
type Adapter struct {
	client *httpclient.Client
	clock  timeutil.Clock
	logger *logger.Logger

	cityIDs sync.Map
}

// NewAdapter creates a RedBus adapter. httpClient and clock may be nil.
func NewAdapter(cfg Config, httpClient *http.Client, clock timeutil.Clock, log *logger.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &Adapter{
		client: httpclient.New(httpclient.Config{
			BaseURL:   cfg.BaseURL,
			Timeout:   cfg.Timeout,
			RateLimit: cfg.RateLimit,
			Burst:     2,
			Headers:   map[string]string{"apiKey": cfg.APIKey},
			Retry:     retry.ProviderConfig,
		}, httpClient),
		clock:  clock,
		logger: logger.OrNop(log).WithProvider(ProviderName),
	}
}

func (a *Adapter) Name() string { return ProviderName }

func (a *Adapter) Kind() domain.Kind { return domain.KindTransport }

// Search looks up buses between the query's origin and destination on the
// departure date, or today when none was given.
func (a *Adapter) Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
	from, to := query.SearchFrom(), query.Destination
	if from == "" || to == "" || from == to {
		a.logger.Debug().Str("from", from).Str("to", to).Msg("route incomplete, skipping search")
		return []domain.ListingItem{}, nil
	}

	ist := timeutil.MustGetLocation(timeutil.IST)
	doj := timeutil.StartOfDay(a.clock.Now().In(ist))
	if d, ok := query.DepartDate(); ok {
		doj = timeutil.StartOfDay(d.In(ist))
	}

	req := searchRequest{
		Source:      from,
		Destination: to,
		DOJ:         timeutil.FormatDate(doj),
		SrcID:       a.cityID(ctx, from),
		DestID:      a.cityID(ctx, to),
	}

	var resp searchResponse
	if err := a.client.PostJSON(ctx, "/search", req, &resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn().Err(err).Str("from", from).Str("to", to).Msg("bus search failed")
		return []domain.ListingItem{}, nil
	}

	return normalize(resp.Inventories, from, to, doj), nil
}

// FetchLayout returns the seat map of a bus.
func (a *Adapter) FetchLayout(ctx context.Context, externalID string) (domain.Layout, error) {
	var resp layoutResponse
	if err := a.client.GetJSON(ctx, "/layout/"+url.PathEscape(externalID), nil, &resp); err != nil {
		return domain.Layout{}, domain.NewProviderError(ProviderName, fmt.Errorf("fetch layout: %w", err))
	}
	return normalizeLayout(externalID, resp.Seats), nil
}

// InitiateSelection holds the chosen seats and returns the RedBus payment page.
func (a *Adapter) InitiateSelection(ctx context.Context, externalID string, details domain.SelectionDetails) (domain.SelectionResult, error) {
	if len(details.Units) == 0 {
		return domain.SelectionResult{}, domain.NewValidationError("units", "at least one seat is required")
	}

	passengers := make(map[string]string, len(details.Passenger)+3)
	for k, v := range details.Passenger {
		passengers[k] = v
	}
	passengers["user_id"] = details.UserID
	if details.Customer.Name != "" {
		passengers["name"] = details.Customer.Name
	}
	if details.Customer.Email != "" {
		passengers["email"] = details.Customer.Email
	}

	var resp initiateResponse
	err := a.client.PostJSON(ctx, "/booking/initiate", initiateRequest{
		InventoryID: externalID,
		SeatNumbers: details.Units,
		Passengers:  passengers,
	}, &resp)
	if err != nil {
		return domain.SelectionResult{}, domain.NewProviderError(ProviderName, fmt.Errorf("initiate booking: %w", err))
	}

	return domain.SelectionResult{
		ProviderReference: resp.BookingReference,
		PaymentURL:        resp.PaymentURL,
		TotalAmount:       resp.TotalAmount.Value,
	}, nil
}

// CheckStatus reports the payment state of a RedBus booking.
func (a *Adapter) CheckStatus(ctx context.Context, providerReference string) (domain.PaymentStatus, error) {
	var resp statusResponse
	if err := a.client.GetJSON(ctx, "/booking/status/"+url.PathEscape(providerReference), nil, &resp); err != nil {
		return domain.PaymentNone, domain.NewProviderError(ProviderName, fmt.Errorf("booking status: %w", err))
	}
	a.logger.Debug().
		Str("reference", providerReference).
		Str("status", resp.Status).
		Str("pnr", resp.PNR).
		Msg("booking status checked")
	return normalizeStatus(resp.Status), nil
}

func (a *Adapter) cityID(ctx context.Context, name string) string {
	if v, ok := a.cityIDs.Load(name); ok {
		return v.(string)
	}

	var cities []city
	if err := a.client.GetJSON(ctx, "/cities", url.Values{"search": {name}}, &cities); err != nil || len(cities) == 0 {
		return ""
	}
	id := string(cities[0].ID)
	a.cityIDs.Store(name, id)
	return id
}

var (
	_ domain.Provider      = (*Adapter)(nil)
	_ domain.StatusChecker = (*Adapter)(nil)
)
