package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// Default timeout values. Browser-driven providers need far longer than
// partner APIs, so the defaults leave room for a full page search.
const (
	DefaultGlobalTimeout   = 90 * time.Second
	DefaultProviderTimeout = 60 * time.Second
)

// QueryExtractor turns a free-text prompt into a StructuredQuery. It never fails.
type QueryExtractor interface {
	Extract(prompt string) domain.StructuredQuery
}

// SearchUseCase defines the smart search operations.
type SearchUseCase interface {
	// Search extracts a query from the prompt and runs it.
	Search(ctx context.Context, prompt string) (*SearchResult, error)

	// SearchQuery runs an already structured query.
	SearchQuery(ctx context.Context, query domain.StructuredQuery) (*SearchResult, error)
}

// SearchResult is the outcome of one smart search.
type SearchResult struct {
	Query    domain.StructuredQuery
	Kind     domain.Kind
	Items    []domain.ListingItem
	Metadata SearchMetadata
}

// SearchMetadata describes how the providers behaved during a search.
type SearchMetadata struct {
	TotalResults     int
	SearchDurationMs int64
	ProvidersQueried []string
	ProvidersFailed  []string
}

// Config contains configuration options for the search use case.
type Config struct {
	GlobalTimeout   time.Duration
	ProviderTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		GlobalTimeout:   DefaultGlobalTimeout,
		ProviderTimeout: DefaultProviderTimeout,
	}
}

// smartSearch runs a query against every provider of the query's kind using
// the Scatter-Gather pattern, then deduplicates, filters and ranks.
type smartSearch struct {
	extractor       QueryExtractor
	registry        *domain.ProviderRegistry
	clock           timeutil.Clock
	logger          *logger.Logger
	globalTimeout   time.Duration
	providerTimeout time.Duration
}

// NewSearchUseCase creates a SearchUseCase. If config is nil, default
// timeout values are used. clock and log may be nil.
func NewSearchUseCase(extractor QueryExtractor, registry *domain.ProviderRegistry, config *Config, clock timeutil.Clock, log *logger.Logger) SearchUseCase {
	cfg := DefaultConfig()
	if config != nil {
		if config.GlobalTimeout > 0 {
			cfg.GlobalTimeout = config.GlobalTimeout
		}
		if config.ProviderTimeout > 0 {
			cfg.ProviderTimeout = config.ProviderTimeout
		}
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}

	return &smartSearch{
		extractor:       extractor,
		registry:        registry,
		clock:           clock,
		logger:          logger.OrNop(log),
		globalTimeout:   cfg.GlobalTimeout,
		providerTimeout: cfg.ProviderTimeout,
	}
}

// providerResult holds the result from a single provider query.
type providerResult struct {
	Index    int
	Provider string
	Items    []domain.ListingItem
	Error    error
	Duration time.Duration
}

// Search implements SearchUseCase.Search.
func (uc *smartSearch) Search(ctx context.Context, prompt string) (*SearchResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, domain.NewValidationError("prompt", "is required")
	}
	query := uc.extractor.Extract(prompt)
	logger.FromContext(ctx, uc.logger).Debug().
		Str("location", query.Location).
		Str("transport", string(query.TransportType)).
		Int("dates", len(query.Dates)).
		Strs("preferences", query.Preferences).
		Msg("query extracted")
	return uc.SearchQuery(ctx, query)
}

// SearchQuery implements SearchUseCase.SearchQuery.
func (uc *smartSearch) SearchQuery(ctx context.Context, query domain.StructuredQuery) (*SearchResult, error) {
	start := uc.clock.Now()
	kind := query.Kind()

	items, queried, failed := gather(ctx, uc.registry.ForKind(kind), query, uc.globalTimeout, uc.providerTimeout, uc.logger)

	ranked := Rank(ApplySmartFilters(NormalizeAndDedup(items), query), query)

	result := &SearchResult{
		Query: query,
		Kind:  kind,
		Items: ranked,
		Metadata: SearchMetadata{
			TotalResults:     len(ranked),
			SearchDurationMs: uc.clock.Now().Sub(start).Milliseconds(),
			ProvidersQueried: queried,
			ProvidersFailed:  failed,
		},
	}

	logger.FromContext(ctx, uc.logger).Info().
		Str("kind", string(kind)).
		Int("results", len(ranked)).
		Strs("failed", failed).
		Msg("search completed")

	return result, nil
}

// gather queries providers concurrently and concatenates their listings in
// provider order, whatever order they answer in. Failed providers contribute
// nothing and are reported by name.
func gather(ctx context.Context, providers []domain.Provider, query domain.StructuredQuery, globalTimeout, providerTimeout time.Duration, log *logger.Logger) (items []domain.ListingItem, queried, failed []string) {
	queried = make([]string, 0, len(providers))
	failed = []string{}
	if len(providers) == 0 {
		return []domain.ListingItem{}, queried, failed
	}

	ctx, cancel := context.WithTimeout(ctx, globalTimeout)
	defer cancel()

	// Buffered so a late provider never blocks after the gather is done.
	resultsChan := make(chan providerResult, len(providers))

	var wg sync.WaitGroup
	for i, provider := range providers {
		wg.Add(1)
		go func(i int, p domain.Provider) {
			defer wg.Done()
			queryProvider(ctx, i, p, query, providerTimeout, resultsChan)
		}(i, provider)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	slots := make([]*providerResult, len(providers))
	for result := range resultsChan {
		r := result
		slots[r.Index] = &r
	}

	items = []domain.ListingItem{}
	for i, r := range slots {
		name := providers[i].Name()
		queried = append(queried, name)
		if r == nil || r.Error != nil {
			failed = append(failed, name)
			if r != nil {
				logger.FromContext(ctx, log).Warn().Err(r.Error).Str("provider", name).Dur("took", r.Duration).Msg("provider search failed")
			}
			continue
		}
		logger.FromContext(ctx, log).Debug().Str("provider", name).Int("items", len(r.Items)).Dur("took", r.Duration).Msg("provider answered")
		items = append(items, r.Items...)
	}
	return items, queried, failed
}

// queryProvider queries a single provider with timeout and panic recovery.
func queryProvider(ctx context.Context, index int, provider domain.Provider, query domain.StructuredQuery, timeout time.Duration, results chan<- providerResult) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	name := provider.Name()

	// One misbehaving provider must not take the whole search down.
	defer func() {
		if r := recover(); r != nil {
			results <- providerResult{
				Index:    index,
				Provider: name,
				Error:    fmt.Errorf("provider panic: %v", r),
				Duration: time.Since(start),
			}
		}
	}()

	items, err := provider.Search(ctx, query)

	results <- providerResult{
		Index:    index,
		Provider: name,
		Items:    items,
		Error:    err,
		Duration: time.Since(start),
	}
}

// Ensure smartSearch implements SearchUseCase at compile time.
var _ SearchUseCase = (*smartSearch)(nil)
