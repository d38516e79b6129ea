package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

const amount = `(\d+(?:,\d+)*(?:\.\d{1,2})?)`

const currency = `(?:\brs\.?|\binr|₹)`

// budgetPatterns are tried in order; the first that matches wins.
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)` + currency + `\s*` + amount),
	regexp.MustCompile(`(?i)\bbudget\s*(?:of|:)?\s*` + currency + `?\s*` + amount),
	regexp.MustCompile(`(?i)\bunder\s*` + currency + `?\s*` + amount),
	regexp.MustCompile(`(?i)\bless\s+than\s*` + currency + `?\s*` + amount),
}

var (
	nonACPattern   = regexp.MustCompile(`(?i)\bnon[-\s]?(?:ac|a/c|air[-\s]?condition(?:ed|ing)?)\b`)
	acPattern      = regexp.MustCompile(`(?i)\b(?:ac|a/c|air[-\s]?condition(?:ed|ing)?)\b`)
	sleeperPattern = regexp.MustCompile(`(?i)\b(?:sleeper|sleeping|sleep|berths?)\b`)
	windowPattern  = regexp.MustCompile(`(?i)\bwindow(?:\s+seats?)?\b`)
	directPattern  = regexp.MustCompile(`(?i)\b(?:direct|non[-\s]?stop)\b`)
	ratingPattern  = regexp.MustCompile(`(?i)\b(\d(?:\.\d)?)\s*\+?\s*stars?\b|\brating\s*(?:of\s*|above\s*|over\s*|:\s*)?(\d(?:\.\d)?)`)
)

var (
	busPattern   = regexp.MustCompile(`(?i)\b(?:bus|buses|volvo|coach)\b`)
	trainPattern = regexp.MustCompile(`(?i)\b(?:train|trains|rail|railway)\b`)
)

func extractBudget(text string) *float64 {
	for _, re := range budgetPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}

func extractPreferences(text string) []string {
	var prefs []string

	nonAC := nonACPattern.FindAllStringIndex(text, -1)
	if len(nonAC) > 0 {
		prefs = append(prefs, domain.PrefNonAC)
	}
	for _, loc := range acPattern.FindAllStringIndex(text, -1) {
		if !insideAny(loc, nonAC) {
			prefs = append(prefs, domain.PrefAC)
			break
		}
	}
	if sleeperPattern.MatchString(text) {
		prefs = append(prefs, domain.PrefSleeper)
	}
	if windowPattern.MatchString(text) {
		prefs = append(prefs, domain.PrefWindowSeat)
	}
	if directPattern.MatchString(text) {
		prefs = append(prefs, domain.PrefDirect)
	}
	if m := ratingPattern.FindStringSubmatch(text); m != nil {
		n := m[1]
		if n == "" {
			n = m[2]
		}
		prefs = append(prefs, RatingPreference(n))
	}
	return prefs
}

// RatingPreference builds the "Rating N" tag for a floor of n.
func RatingPreference(n string) string {
	return domain.PrefRating + " " + n
}

// extractTransport picks bus or train. When both appear the one mentioned
// first in the prompt wins.
func extractTransport(text string) domain.TransportType {
	bus := busPattern.FindStringIndex(text)
	train := trainPattern.FindStringIndex(text)

	switch {
	case bus == nil && train == nil:
		return domain.TransportNone
	case train == nil:
		return domain.TransportBus
	case bus == nil:
		return domain.TransportTrain
	case bus[0] <= train[0]:
		return domain.TransportBus
	default:
		return domain.TransportTrain
	}
}

func insideAny(loc []int, ranges [][]int) bool {
	for _, r := range ranges {
		if loc[0] >= r[0] && loc[1] <= r[1] {
			return true
		}
	}
	return false
}

func nonOverlapping(spans []span) []span {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	out := spans[:0]
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		out = append(out, s)
		lastEnd = s.end
	}
	return out
}
