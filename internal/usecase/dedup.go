// Package usecase provides the business logic for search, booking and fare
// comparison across hotel and transport providers.
package usecase

import (
	"sort"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// NormalizeAndDedup collapses listings that share a DedupKey and orders the
// survivors by ascending price.
//
// Behavior:
//   - The first item seen for a key wins; later duplicates are dropped
//   - Items are never dropped for missing optional fields
//   - Sorting is stable, so equal prices keep their input order
//   - Items without a price sort after every priced item
//   - Does NOT mutate the input slice
func NormalizeAndDedup(items []domain.ListingItem) []domain.ListingItem {
	seen := make(map[domain.DedupKey]struct{}, len(items))
	result := make([]domain.ListingItem, 0, len(items))

	for _, item := range items {
		key := item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, item)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return priceLess(result[i], result[j])
	})

	return result
}

// priceLess orders priced items ascending, with unpriced items last.
func priceLess(a, b domain.ListingItem) bool {
	pa, okA := a.PriceAmount()
	pb, okB := b.PriceAmount()
	switch {
	case okA && okB:
		return pa < pb
	case okA:
		return true
	default:
		return false
	}
}
