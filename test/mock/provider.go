// Package mock provides test doubles for the travel booking system.
// These mocks are meant for integration tests that need configurable
// behavior (delays, errors, specific listings).
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// Provider is a configurable implementation of domain.Provider.
// It supports configurable delays, errors, layouts and selections so tests
// can drive timeouts, partial failures and booking flows.
type Provider struct {
	name      string
	kind      domain.Kind
	items     []domain.ListingItem
	err       error
	delay     time.Duration
	layout    domain.Layout
	selection domain.SelectionResult
	selectErr error
	status    domain.PaymentStatus
	callCount int
	lastQuery domain.StructuredQuery
	selected  []domain.SelectionDetails
	mu        sync.Mutex
}

// NewProvider creates a provider with the given name and kind.
// It is configured with the With* builder methods.
func NewProvider(name string, kind domain.Kind) *Provider {
	return &Provider{
		name: name,
		kind: kind,
		selection: domain.SelectionResult{
			ProviderReference: strings.ToUpper(name) + "-REF",
		},
		status: domain.PaymentPending,
	}
}

// WithItems configures the listings returned by Search. It may be called
// while searches are running, to change fares between monitor checks.
func (p *Provider) WithItems(items []domain.ListingItem) *Provider {
	p.mu.Lock()
	p.items = items
	p.mu.Unlock()
	return p
}

// WithError configures Search to fail with err.
func (p *Provider) WithError(err error) *Provider {
	p.err = err
	return p
}

// WithDelay makes Search wait d before answering, or until the context ends.
func (p *Provider) WithDelay(d time.Duration) *Provider {
	p.delay = d
	return p
}

// WithLayout configures the layout returned by FetchLayout.
func (p *Provider) WithLayout(layout domain.Layout) *Provider {
	p.layout = layout
	return p
}

// WithSelection configures the result of InitiateSelection.
func (p *Provider) WithSelection(result domain.SelectionResult, err error) *Provider {
	p.selection = result
	p.selectErr = err
	return p
}

// WithStatus configures what CheckStatus reports.
func (p *Provider) WithStatus(status domain.PaymentStatus) *Provider {
	p.status = status
	return p
}

// Name returns the provider's unique identifier.
func (p *Provider) Name() string {
	return p.name
}

// Kind returns the listing family the provider serves.
func (p *Provider) Kind() domain.Kind {
	return p.kind
}

// Search returns the configured listings after the configured delay.
// It honors context cancellation during the delay.
func (p *Provider) Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
	p.mu.Lock()
	p.callCount++
	p.lastQuery = query
	delay, err := p.delay, p.err
	items := append([]domain.ListingItem(nil), p.items...)
	p.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}
	return items, nil
}

// FetchLayout returns the configured layout for any listing.
func (p *Provider) FetchLayout(ctx context.Context, externalID string) (domain.Layout, error) {
	if err := ctx.Err(); err != nil {
		return domain.Layout{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	layout := p.layout
	layout.ExternalID = externalID
	return layout, nil
}

// InitiateSelection records the details and returns the configured result.
func (p *Provider) InitiateSelection(ctx context.Context, externalID string, details domain.SelectionDetails) (domain.SelectionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.SelectionResult{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = append(p.selected, details)
	return p.selection, p.selectErr
}

// CheckStatus reports the configured payment status.
func (p *Provider) CheckStatus(ctx context.Context, providerReference string) (domain.PaymentStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, nil
}

// CallCount returns how many times Search was called.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// LastQuery returns the query of the most recent Search call.
func (p *Provider) LastQuery() domain.StructuredQuery {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastQuery
}

// Selections returns the details of every InitiateSelection call.
func (p *Provider) Selections() []domain.SelectionDetails {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.SelectionDetails(nil), p.selected...)
}

// Reset clears the call count and recorded selections.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCount = 0
	p.lastQuery = domain.StructuredQuery{}
	p.selected = nil
}

var (
	_ domain.Provider      = (*Provider)(nil)
	_ domain.StatusChecker = (*Provider)(nil)
)

// SampleHotels generates count hotel listings for provider. Prices start at
// 2000 and grow by 500; ratings alternate between 4.5 and 3.5. Names carry the
// provider so listings from different providers never collapse in dedup.
func SampleHotels(provider string, count int) []domain.ListingItem {
	items := make([]domain.ListingItem, count)
	for i := 0; i < count; i++ {
		rating := 4.5
		if i%2 == 1 {
			rating = 3.5
		}
		items[i] = domain.ListingItem{
			SourceProvider: provider,
			ExternalID:     fmt.Sprintf("%s-H%d", strings.ToUpper(provider), i+1),
			DisplayName:    fmt.Sprintf("%s Residency %d", provider, i+1),
			Kind:           domain.KindHotel,
			Category:       "Deluxe Room",
			Price:          domain.NewMoney(2000+float64(i)*500, domain.DefaultCurrency),
			Rating:         domain.Float64Ptr(rating),
			Location: domain.Location{
				Address: "Calangute, Goa",
				Lat:     domain.Float64Ptr(15.54 + float64(i)*0.01),
				Lon:     domain.Float64Ptr(73.76),
			},
			Amenities: []string{"WiFi", "Pool"},
		}
	}
	return items
}

// SampleBuses generates count bus departures for provider between origin
// and destination on day. Departures are one hour apart from 20:00 IST;
// even-indexed buses are AC sleepers and odd ones Non-AC seaters.
func SampleBuses(provider, origin, destination string, day time.Time, count int) []domain.ListingItem {
	ist := time.FixedZone("IST", 5*3600+1800)
	base := time.Date(day.Year(), day.Month(), day.Day(), 20, 0, 0, 0, ist)

	items := make([]domain.ListingItem, count)
	for i := 0; i < count; i++ {
		category := "AC Sleeper (2+1)"
		if i%2 == 1 {
			category = "Non-AC Seater (2+2)"
		}
		dep := base.Add(time.Duration(i) * time.Hour)
		arr := dep.Add(10 * time.Hour)
		items[i] = domain.ListingItem{
			SourceProvider: provider,
			ExternalID:     fmt.Sprintf("%s-B%d", strings.ToUpper(provider), i+1),
			DisplayName:    fmt.Sprintf("%s Travels %d", provider, i+1),
			Kind:           domain.KindTransport,
			Category:       category,
			Price:          domain.NewMoney(800+float64(i)*150, domain.DefaultCurrency),
			Rating:         domain.Float64Ptr(4.0),
			Transport: &domain.TransportDetails{
				Operator:       fmt.Sprintf("%s Travels %d", provider, i+1),
				Origin:         origin,
				Destination:    destination,
				DepartureTime:  &dep,
				ArrivalTime:    &arr,
				Duration:       "10h 00m",
				SeatsAvailable: domain.IntPtr(20 - i),
			},
		}
	}
	return items
}
