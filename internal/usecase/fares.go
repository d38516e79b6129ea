package usecase

import (
	"context"
	"sort"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// bestDealCount is how many of the cheapest fares a comparison reports.
const bestDealCount = 3

// FareComparison compares transport fares for one route across providers.
type FareComparison struct {
	registry *domain.ProviderRegistry
	logger   *logger.Logger
	config   Config
}

// NewFareComparison creates a FareComparison. If config is nil, default
// timeout values are used.
func NewFareComparison(registry *domain.ProviderRegistry, config *Config, log *logger.Logger) *FareComparison {
	cfg := DefaultConfig()
	if config != nil {
		if config.GlobalTimeout > 0 {
			cfg.GlobalTimeout = config.GlobalTimeout
		}
		if config.ProviderTimeout > 0 {
			cfg.ProviderTimeout = config.ProviderTimeout
		}
	}
	return &FareComparison{
		registry: registry,
		logger:   logger.OrNop(log),
		config:   cfg,
	}
}

// Compare searches every transport provider for the route and analyzes the
// priced results. Listings are deduplicated first so a departure sold by
// two providers counts once, for the provider listed first.
func (f *FareComparison) Compare(ctx context.Context, query domain.StructuredQuery) (domain.FareAnalysis, error) {
	if query.SearchFrom() == "" || query.Destination == "" {
		return domain.FareAnalysis{}, domain.NewValidationError("route", "origin and destination are required")
	}
	if query.TransportType == "" || query.TransportType == domain.TransportNone {
		query.TransportType = domain.TransportBus
	}

	items, _, failed := gather(ctx, f.registry.ForKind(domain.KindTransport), query, f.config.GlobalTimeout, f.config.ProviderTimeout, f.logger)
	if err := ctx.Err(); err != nil {
		return domain.FareAnalysis{}, err
	}

	analysis := AnalyzeFares(NormalizeAndDedup(items))
	logger.FromContext(ctx, f.logger).Info().
		Str("from", query.SearchFrom()).
		Str("to", query.Destination).
		Int("providers", len(analysis.Providers)).
		Strs("failed", failed).
		Float64("lowest", analysis.LowestFare).
		Msg("fare comparison completed")

	return analysis, nil
}

// AnalyzeFares summarizes priced listings. Unpriced listings are ignored;
// with no priced listing at all every figure is zero.
func AnalyzeFares(items []domain.ListingItem) domain.FareAnalysis {
	analysis := domain.FareAnalysis{
		BestDeals: []domain.FareDeal{},
		Providers: map[string]domain.ProviderFares{},
	}

	var (
		deals []domain.FareDeal
		total float64
	)
	sums := map[string]float64{}

	for _, item := range items {
		amount, ok := item.PriceAmount()
		if !ok {
			continue
		}
		deals = append(deals, toDeal(item, amount))
		total += amount

		p, seen := analysis.Providers[item.SourceProvider]
		if !seen || amount < p.MinFare {
			p.MinFare = amount
		}
		if !seen || amount > p.MaxFare {
			p.MaxFare = amount
		}
		p.TotalOptions++
		sums[item.SourceProvider] += amount
		analysis.Providers[item.SourceProvider] = p

		if len(deals) == 1 || amount < analysis.LowestFare {
			analysis.LowestFare = amount
		}
		if len(deals) == 1 || amount > analysis.HighestFare {
			analysis.HighestFare = amount
		}
	}

	if len(deals) == 0 {
		return analysis
	}

	analysis.AverageFare = total / float64(len(deals))
	for name, p := range analysis.Providers {
		p.AverageFare = sums[name] / float64(p.TotalOptions)
		analysis.Providers[name] = p
	}

	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Amount < deals[j].Amount
	})
	if len(deals) > bestDealCount {
		deals = deals[:bestDealCount]
	}
	analysis.BestDeals = deals

	return analysis
}

func toDeal(item domain.ListingItem, amount float64) domain.FareDeal {
	deal := domain.FareDeal{
		Provider:   item.SourceProvider,
		ExternalID: item.ExternalID,
		Amount:     amount,
		Rating:     item.Rating,
	}
	if t := item.Transport; t != nil {
		deal.Operator = t.Operator
		deal.Departure = t.DepartureTime
		deal.Duration = t.Duration
	}
	if deal.Operator == "" {
		deal.Operator = item.DisplayName
	}
	return deal
}
