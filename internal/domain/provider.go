package domain

import (
	"context"
	"sync"
)

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=domain

// Provider is the contract every inventory source implements, whether it
// talks to a partner API, scrapes pages, or drives a browser.
type Provider interface {
	// Name returns the unique identifier of the provider.
	Name() string

	// Kind reports whether the provider lists hotels or transport.
	Kind() Kind

	// Search returns listings for the query. Adapters absorb upstream
	// failures into an empty result; an error is only returned when the
	// caller's context ends.
	Search(ctx context.Context, query StructuredQuery) ([]ListingItem, error)

	// FetchLayout returns the seat map or room list for a listing.
	FetchLayout(ctx context.Context, externalID string) (Layout, error)

	// InitiateSelection submits the user's choice and returns the provider
	// reference and, when the provider hosts it, a payment URL.
	InitiateSelection(ctx context.Context, externalID string, details SelectionDetails) (SelectionResult, error)
}

// StatusChecker is implemented by providers that can report on a booking
// after it was initiated.
type StatusChecker interface {
	CheckStatus(ctx context.Context, providerReference string) (PaymentStatus, error)
}

// PendingPayment is a provider-side booking flow that stays open until the
// user pays on the provider's page.
type PendingPayment interface {
	ID() string
	AwaitPayment(ctx context.Context) (Confirmation, error)
	Close() error
}

// InteractiveBooker is implemented by providers whose selection keeps a live
// session that must watch for the payment to complete.
type InteractiveBooker interface {
	BeginSelection(ctx context.Context, externalID string, details SelectionDetails) (PendingPayment, SelectionResult, error)
}

// ProviderRegistry keeps providers in registration order. Search results
// are gathered in this order, which makes first-seen dedup deterministic.
type ProviderRegistry struct {
	mu        sync.RWMutex
	order     []string
	providers map[string]Provider
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]Provider)}
}

// Register adds p. A nil provider is ignored; a provider with an existing
// name replaces the earlier one in place.
func (r *ProviderRegistry) Register(p Provider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
}

// Get returns the provider registered under name, or nil.
func (r *ProviderRegistry) Get(name string) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// GetAll returns every provider in registration order.
func (r *ProviderRegistry) GetAll() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}

// ForKind returns the providers of one kind in registration order.
func (r *ProviderRegistry) ForKind(k Kind) []Provider {
	all := r.GetAll()
	out := all[:0]
	for _, p := range all {
		if p.Kind() == k {
			out = append(out, p)
		}
	}
	return out
}

// Names returns provider names in registration order.
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
