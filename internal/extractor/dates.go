package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// DateResolver turns a matched date phrase into a calendar date. It reports
// false for phrases it cannot place; those are dropped.
type DateResolver interface {
	Resolve(phrase string) (time.Time, bool)
}

var monthNames = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:tomorrow|today|day after tomorrow|next\s+week|next\s+month)\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:` + monthNames + `)\b`),
	regexp.MustCompile(`(?i)\b(?:` + monthNames + `)\s+\d{1,2}(?:st|nd|rd|th)?\b`),
}

var (
	absoluteDate = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})$`)
	dayMonth     = regexp.MustCompile(`(?i)^(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?([a-z]+)$`)
	monthDay     = regexp.MustCompile(`(?i)^([a-z]+)\s+(\d{1,2})(?:st|nd|rd|th)?$`)
)

// ClockResolver resolves dates relative to a clock in a fixed timezone.
// Numeric dates are read day first. A day and month without a year take
// the clock's current year.
type ClockResolver struct {
	clock timeutil.Clock
	loc   *time.Location
}

// NewClockResolver returns a resolver anchored on clock in loc.
func NewClockResolver(clock timeutil.Clock, loc *time.Location) *ClockResolver {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ClockResolver{clock: clock, loc: loc}
}

// Resolve implements DateResolver.
func (r *ClockResolver) Resolve(phrase string) (time.Time, bool) {
	phrase = strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	today := timeutil.StartOfDay(r.clock.Now().In(r.loc))

	switch phrase {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	case "day after tomorrow":
		return today.AddDate(0, 0, 2), true
	case "next week":
		return today.AddDate(0, 0, 7), true
	case "next month":
		return today.AddDate(0, 1, 0), true
	}

	if m := absoluteDate.FindStringSubmatch(phrase); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		return r.build(year, month, day)
	}

	if m := dayMonth.FindStringSubmatch(phrase); m != nil {
		day, _ := strconv.Atoi(m[1])
		return r.buildNamed(today.Year(), m[2], day)
	}
	if m := monthDay.FindStringSubmatch(phrase); m != nil {
		day, _ := strconv.Atoi(m[2])
		return r.buildNamed(today.Year(), m[1], day)
	}

	return time.Time{}, false
}

func (r *ClockResolver) buildNamed(year int, monthName string, day int) (time.Time, bool) {
	month, ok := parseMonth(monthName)
	if !ok {
		return time.Time{}, false
	}
	return r.build(year, int(month), day)
}

// build rejects dates that time.Date would silently normalize, such as 31/02.
func (r *ClockResolver) build(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, r.loc)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func parseMonth(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), name[:3]) {
			return m, true
		}
	}
	return 0, false
}

type span struct {
	start, end int
	text       string
}

// dateSpans returns non-overlapping date phrases in text order.
func dateSpans(text string) []span {
	var spans []span
	for _, re := range datePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1], text: text[loc[0]:loc[1]]})
		}
	}
	return nonOverlapping(spans)
}
