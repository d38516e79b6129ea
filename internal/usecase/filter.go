package usecase

import (
	"regexp"
	"strings"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

var (
	nonACText = regexp.MustCompile(`(?i)\bnon[-\s]?(?:ac|a/c|air[-\s]?condition(?:ed|ing)?)\b`)
	acText    = regexp.MustCompile(`(?i)\b(?:ac|a/c|air[-\s]?condition(?:ed|ing)?)\b`)
)

// ApplySmartFilters removes listings that violate a hard requirement of the
// query. It returns a new slice; ranking is applied separately.
//
// Behavior:
//   - Over budget: excluded when both the budget and the price are known
//   - AC mismatch: excluded when the query asks for AC (or Non-AC) and the
//     listing says otherwise; listings with no AC information stay
//   - Rating floor: excluded when a "Rating N" preference is set and the
//     listing's rating is below N; unrated listings stay
//   - Does NOT mutate the input slice
func ApplySmartFilters(items []domain.ListingItem, query domain.StructuredQuery) []domain.ListingItem {
	wantAC := query.HasPreference(domain.PrefAC)
	wantNonAC := query.HasPreference(domain.PrefNonAC)
	floor, hasFloor := query.RatingFloor()

	result := make([]domain.ListingItem, 0, len(items))
	for _, item := range items {
		if passesAllFilters(item, query.Budget, wantAC, wantNonAC, floor, hasFloor) {
			result = append(result, item)
		}
	}
	return result
}

func passesAllFilters(item domain.ListingItem, budget *float64, wantAC, wantNonAC bool, floor float64, hasFloor bool) bool {
	if budget != nil {
		if price, ok := item.PriceAmount(); ok && price > *budget {
			return false
		}
	}

	// Asking for both is no constraint at all.
	if wantAC != wantNonAC {
		if isAC, known := acInfo(item); known && isAC != wantAC {
			return false
		}
	}

	if hasFloor && item.Rating != nil && *item.Rating < floor {
		return false
	}

	return true
}

// acInfo reports whether the listing is air-conditioned, and whether its
// category or amenities say anything about it at all.
func acInfo(item domain.ListingItem) (isAC, known bool) {
	text := item.Category
	if len(item.Amenities) > 0 {
		text += " " + strings.Join(item.Amenities, " ")
	}

	if nonACText.MatchString(text) {
		return false, true
	}
	if acText.MatchString(text) {
		return true, true
	}
	return false, false
}
