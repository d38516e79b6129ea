package webauto

import (
	"net/url"
	"strings"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/automation"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

const defaultRatingScale = 5.0

// normalize converts scraped rows into listings. Cells that fail to parse
// become nil; rows without a name are skipped.
func normalize(rows []automation.Row, profile automation.SiteProfile, query domain.StructuredQuery, day time.Time) []domain.ListingItem {
	result := make([]domain.ListingItem, 0, len(rows))
	for _, row := range rows {
		name := row.Field("name")
		if name == "" {
			name = row.Field("operator")
		}
		if name == "" {
			continue
		}
		if profile.Kind == domain.KindTransport {
			result = append(result, normalizeTransport(row, name, profile, query, day))
		} else {
			result = append(result, normalizeHotel(row, name, profile))
		}
	}
	return result
}

func baseItem(row automation.Row, name string, profile automation.SiteProfile) domain.ListingItem {
	link := absoluteURL(profile.HomeURL, row.URL)
	id := link
	if id == "" {
		id = row.ID
	}
	item := domain.ListingItem{
		SourceProvider: profile.Name,
		ExternalID:     id,
		DisplayName:    name,
		Kind:           profile.Kind,
		Category:       row.Field("category"),
		RawBookingURL:  link,
	}
	if v, ok := automation.ParseAmount(row.Field("price")); ok {
		item.Price = domain.NewMoney(v, domain.DefaultCurrency)
	}
	if v, ok := automation.ParseAmount(row.Field("rating")); ok {
		scale := profile.RatingScale
		if scale <= 0 {
			scale = defaultRatingScale
		}
		item.Rating = domain.NormalizeRating(v, scale)
	}
	return item
}

func normalizeHotel(row automation.Row, name string, profile automation.SiteProfile) domain.ListingItem {
	item := baseItem(row, name, profile)
	item.Location = domain.Location{Address: row.Field("location")}
	return item
}

func normalizeTransport(row automation.Row, name string, profile automation.SiteProfile, query domain.StructuredQuery, day time.Time) domain.ListingItem {
	item := baseItem(row, name, profile)
	details := &domain.TransportDetails{
		Operator:    name,
		Origin:      query.SearchFrom(),
		Destination: query.Destination,
		Duration:    row.Field("duration"),
	}
	if t, err := timeutil.ParseClockOnDate(row.Field("departure"), day); err == nil {
		details.DepartureTime = &t
	}
	if t, err := timeutil.ParseClockOnDate(row.Field("arrival"), day); err == nil {
		if details.DepartureTime != nil && t.Before(*details.DepartureTime) {
			t = t.AddDate(0, 0, 1)
		}
		details.ArrivalTime = &t
	}
	if v, ok := automation.ParseAmount(row.Field("seats")); ok {
		details.SeatsAvailable = domain.IntPtr(int(v))
	}
	item.Location = domain.Location{Address: details.Origin}
	item.Transport = details
	return item
}

func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
