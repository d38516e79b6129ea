package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// ===== AnalyzeFares Tests =====

func TestAnalyzeFares(t *testing.T) {
	rated := bus("redbus", "Zingbus", 21, 1200)
	rated.Rating = domain.Float64Ptr(4.3)
	unpriced := bus("abhibus", "Ghost", 5, 0)
	unpriced.Price = nil

	analysis := AnalyzeFares([]domain.ListingItem{
		rated,
		bus("redbus", "HRTC", 6, 800),
		bus("abhibus", "Laxmi", 7, 1000),
		bus("abhibus", "Orange", 8, 1400),
		unpriced,
	})

	assert.Equal(t, 800.0, analysis.LowestFare)
	assert.Equal(t, 1400.0, analysis.HighestFare)
	assert.Equal(t, 1100.0, analysis.AverageFare)

	require.Len(t, analysis.BestDeals, 3)
	assert.Equal(t, "HRTC", analysis.BestDeals[0].Operator)
	assert.Equal(t, "Laxmi", analysis.BestDeals[1].Operator)
	assert.Equal(t, "Zingbus", analysis.BestDeals[2].Operator)
	assert.Equal(t, 4.3, *analysis.BestDeals[2].Rating)
	assert.NotNil(t, analysis.BestDeals[0].Departure)

	require.Len(t, analysis.Providers, 2)
	assert.Equal(t, domain.ProviderFares{MinFare: 800, MaxFare: 1200, AverageFare: 1000, TotalOptions: 2}, analysis.Providers["redbus"])
	assert.Equal(t, domain.ProviderFares{MinFare: 1000, MaxFare: 1400, AverageFare: 1200, TotalOptions: 2}, analysis.Providers["abhibus"])
}

func TestAnalyzeFares_NoPricedListings(t *testing.T) {
	item := bus("redbus", "Ghost", 5, 0)
	item.Price = nil

	analysis := AnalyzeFares([]domain.ListingItem{item})

	assert.Zero(t, analysis.LowestFare)
	assert.Zero(t, analysis.AverageFare)
	assert.Empty(t, analysis.BestDeals)
	assert.Empty(t, analysis.Providers)
}

// ===== FareComparison Tests =====

func TestFareComparison_Compare(t *testing.T) {
	ctrl := gomock.NewController(t)

	redbus := domain.NewMockProvider(ctrl)
	redbus.EXPECT().Name().Return("redbus").AnyTimes()
	redbus.EXPECT().Kind().Return(domain.KindTransport).AnyTimes()
	redbus.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, q domain.StructuredQuery) ([]domain.ListingItem, error) {
			assert.Equal(t, domain.TransportBus, q.TransportType)
			return []domain.ListingItem{bus("redbus", "Zingbus", 21, 1299)}, nil
		})
	abhibus := setupMockProvider(ctrl, "abhibus", domain.KindTransport, []domain.ListingItem{bus("abhibus", "ZINGBUS", 21, 1099), bus("abhibus", "HRTC", 6, 850)}, nil)

	fc := NewFareComparison(registryOf(redbus, abhibus), nil, nil)

	analysis, err := fc.Compare(context.Background(), domain.StructuredQuery{Origin: "Delhi", Destination: "Manali"})

	require.NoError(t, err)
	assert.Equal(t, 850.0, analysis.LowestFare)
	assert.Equal(t, 1299.0, analysis.HighestFare)
	// The abhibus Zingbus departure duplicates the redbus one.
	assert.Equal(t, 1, analysis.Providers["redbus"].TotalOptions)
	assert.Equal(t, 1, analysis.Providers["abhibus"].TotalOptions)
}

func TestFareComparison_RequiresRoute(t *testing.T) {
	fc := NewFareComparison(registryOf(), nil, nil)

	_, err := fc.Compare(context.Background(), domain.StructuredQuery{Origin: "Delhi"})

	assert.True(t, domain.IsInvalidRequest(err))
}
