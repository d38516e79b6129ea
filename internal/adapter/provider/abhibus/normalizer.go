package abhibus

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// ProviderName is the unique identifier for the AbhiBus provider.
const ProviderName = "abhibus"

const ratingScale = 5.0

var (
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	clockPattern  = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
)

func normalize(rows []serviceRow, origin, destination string, doj time.Time, baseURL string) []domain.ListingItem {
	result := make([]domain.ListingItem, 0, len(rows))
	for _, row := range rows {
		if row.Operator == "" {
			continue
		}
		result = append(result, normalizeRow(row, origin, destination, doj, baseURL))
	}
	return result
}

func normalizeRow(row serviceRow, origin, destination string, doj time.Time, baseURL string) domain.ListingItem {
	details := &domain.TransportDetails{
		Operator:    row.Operator,
		Origin:      origin,
		Destination: destination,
		Duration:    row.Duration,
	}
	if t, ok := parseClock(row.Departure, doj); ok {
		details.DepartureTime = &t
	}
	if t, ok := parseClock(row.Arrival, doj); ok {
		if details.DepartureTime != nil && t.Before(*details.DepartureTime) {
			t = t.AddDate(0, 0, 1)
		}
		details.ArrivalTime = &t
	}
	if seats, ok := parseNumber(row.Seats); ok {
		details.SeatsAvailable = domain.IntPtr(int(seats))
	}

	id := row.ServiceID
	if id == "" {
		id = row.Operator + "@" + row.Departure
	}

	item := domain.ListingItem{
		SourceProvider: ProviderName,
		ExternalID:     id,
		DisplayName:    row.Operator,
		Kind:           domain.KindTransport,
		Category:       row.BusType,
		Location:       domain.Location{Address: origin},
		RawBookingURL:  absoluteURL(baseURL, row.URL),
		Transport:      details,
	}
	if fare, ok := parseNumber(row.Fare); ok {
		item.Price = domain.NewMoney(fare, domain.DefaultCurrency)
	}
	if rating, ok := parseNumber(row.Rating); ok {
		item.Rating = domain.NormalizeRating(rating, ratingScale)
	}
	return item
}

// parseNumber reads the first number in text, ignoring currency symbols
// and thousands separators.
func parseNumber(text string) (float64, bool) {
	m := numberPattern.FindString(strings.ReplaceAll(text, ",", ""))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseClock(text string, doj time.Time) (time.Time, bool) {
	m := clockPattern.FindString(text)
	if m == "" {
		return time.Time{}, false
	}
	if len(m) == 4 {
		m = "0" + m
	}
	t, err := timeutil.ParseClockOnDate(m, doj)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func absoluteURL(base, href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(base, "/") + href
	default:
		return strings.TrimRight(base, "/") + "/" + href
	}
}

// citySlug turns a place name into the path segment AbhiBus uses.
func citySlug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
