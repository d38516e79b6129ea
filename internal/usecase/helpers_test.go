package usecase

import (
	"context"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

var testDay = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

// hotel creates a hotel listing. A negative price means unpriced and a
// negative rating means unrated.
func hotel(provider, name string, price, rating float64) domain.ListingItem {
	item := domain.ListingItem{
		SourceProvider: provider,
		ExternalID:     provider + "-" + name,
		DisplayName:    name,
		Kind:           domain.KindHotel,
	}
	if price >= 0 {
		item.Price = domain.NewMoney(price, "")
	}
	if rating >= 0 {
		item.Rating = domain.Float64Ptr(rating)
	}
	return item
}

// bus creates a bus listing departing hour o'clock on testDay.
func bus(provider, operator string, hour int, price float64) domain.ListingItem {
	dep := testDay.Add(time.Duration(hour) * time.Hour)
	return domain.ListingItem{
		SourceProvider: provider,
		ExternalID:     provider + "-" + operator,
		DisplayName:    operator,
		Kind:           domain.KindTransport,
		Price:          domain.NewMoney(price, ""),
		Transport: &domain.TransportDetails{
			Operator:      operator,
			Origin:        "Delhi",
			Destination:   "Manali",
			DepartureTime: &dep,
		},
	}
}

func budget(v float64) *float64 { return &v }

func names(items []domain.ListingItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.DisplayName
	}
	return out
}

// setupMockProvider creates a mock provider with standard behavior.
func setupMockProvider(ctrl *gomock.Controller, name string, kind domain.Kind, items []domain.ListingItem, err error) *domain.MockProvider {
	m := domain.NewMockProvider(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	m.EXPECT().Kind().Return(kind).AnyTimes()
	m.EXPECT().Search(gomock.Any(), gomock.Any()).Return(items, err).AnyTimes()
	return m
}

// setupMockProviderWithDelay creates a mock provider that simulates network delay.
func setupMockProviderWithDelay(ctrl *gomock.Controller, name string, kind domain.Kind, items []domain.ListingItem, delay time.Duration) *domain.MockProvider {
	m := domain.NewMockProvider(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	m.EXPECT().Kind().Return(kind).AnyTimes()
	m.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.StructuredQuery) ([]domain.ListingItem, error) {
			select {
			case <-time.After(delay):
				return items, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	).AnyTimes()
	return m
}

// setupMockProviderWithPanic creates a mock provider that panics.
func setupMockProviderWithPanic(ctrl *gomock.Controller, name string, kind domain.Kind) *domain.MockProvider {
	m := domain.NewMockProvider(ctrl)
	m.EXPECT().Name().Return(name).AnyTimes()
	m.EXPECT().Kind().Return(kind).AnyTimes()
	m.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.StructuredQuery) ([]domain.ListingItem, error) {
			panic("scraper exploded")
		},
	).AnyTimes()
	return m
}

func registryOf(providers ...domain.Provider) *domain.ProviderRegistry {
	r := domain.NewProviderRegistry()
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

type fixedExtractor domain.StructuredQuery

func (f fixedExtractor) Extract(string) domain.StructuredQuery { return domain.StructuredQuery(f) }
