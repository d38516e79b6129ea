package domain

import "time"

// FareDeal is one priced departure in a fare comparison.
type FareDeal struct {
	Provider   string     `json:"provider"`
	ExternalID string     `json:"externalId"`
	Operator   string     `json:"operator,omitempty"`
	Amount     float64    `json:"amount"`
	Departure  *time.Time `json:"departure,omitempty"`
	Duration   string     `json:"duration,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
}

// ProviderFares summarizes the fares offered by one provider.
type ProviderFares struct {
	MinFare      float64 `json:"minFare"`
	MaxFare      float64 `json:"maxFare"`
	AverageFare  float64 `json:"averageFare"`
	TotalOptions int     `json:"totalOptions"`
}

// FareAnalysis compares fares for a route across providers. Only priced
// listings take part; providers with no priced listing are omitted.
type FareAnalysis struct {
	LowestFare  float64                  `json:"lowestFare"`
	HighestFare float64                  `json:"highestFare"`
	AverageFare float64                  `json:"averageFare"`
	BestDeals   []FareDeal               `json:"bestDeals"`
	Providers   map[string]ProviderFares `json:"providerComparison"`
}
