package usecase

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// Ranking weights. They are fixed and not normalized: a listing's score
// grows with its rating and with every preference it mentions.
const (
	// weightBudget scales how far under budget a listing is.
	weightBudget = 50.0

	// weightRating is applied to the 0-5 rating.
	weightRating = 30.0

	// weightPreference is added once per preference the listing mentions.
	weightPreference = 10.0
)

// Rank scores every listing against the query and orders them best-first.
//
//	Score = (1 - price/budget) × 50 + rating × 30 + 10 × matched preferences
//
// The budget term is 0 when the query has no budget or the listing has no
// price, and it goes negative for listings over budget; Rank does not
// exclude them. A preference matches when its tag appears, case-insensitively,
// anywhere in the listing's JSON form.
//
// Behavior:
//   - Returns an empty slice for empty input
//   - Sorting is stable, so equal scores keep their input order
//   - Does NOT mutate the input slice
func Rank(items []domain.ListingItem, query domain.StructuredQuery) []domain.ListingItem {
	result := make([]domain.ListingItem, len(items))
	for i, item := range items {
		result[i] = item
		result[i].Score = Score(item, query)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})

	return result
}

// Score computes the ranking score of a single listing.
func Score(item domain.ListingItem, query domain.StructuredQuery) float64 {
	var score float64

	if query.Budget != nil && *query.Budget > 0 {
		if price, ok := item.PriceAmount(); ok {
			score += (1 - price/(*query.Budget)) * weightBudget
		}
	}

	if item.Rating != nil {
		score += *item.Rating * weightRating
	}

	if len(query.Preferences) > 0 {
		text := serialized(item)
		for _, pref := range query.Preferences {
			if strings.Contains(text, strings.ToLower(pref)) {
				score += weightPreference
			}
		}
	}

	return score
}

// serialized returns the lower-cased JSON form of item without its score.
func serialized(item domain.ListingItem) string {
	item.Score = 0
	b, err := json.Marshal(item)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(b))
}
