package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// coordinatePrecision is the number of decimals coordinates are rounded to
// before comparison, roughly 11 metres.
const coordinatePrecision = 4

// DedupKey is the derived identity used to collapse the same listing
// reported by several providers.
type DedupKey string

// Key derives the DedupKey of an item. Hotels are keyed by normalized name
// and rounded coordinates; transport by operator, departure time, origin and
// destination.
func (l ListingItem) Key() DedupKey {
	if l.Kind == KindTransport && l.Transport != nil {
		t := l.Transport
		dep := ""
		if t.DepartureTime != nil {
			dep = t.DepartureTime.UTC().Format(time.RFC3339)
		}
		return DedupKey(strings.Join([]string{
			"transport",
			normalizeName(t.Operator),
			dep,
			normalizeName(t.Origin),
			normalizeName(t.Destination),
		}, "|"))
	}

	return DedupKey(strings.Join([]string{
		"hotel",
		normalizeName(l.DisplayName),
		roundCoordinate(l.Location.Lat),
		roundCoordinate(l.Location.Lon),
	}, "|"))
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func roundCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	scale := math.Pow(10, coordinatePrecision)
	rounded := math.Round(*v*scale) / scale
	if rounded == 0 {
		rounded = 0 // collapse -0
	}
	return fmt.Sprintf("%.*f", coordinatePrecision, rounded)
}
