package domain

import (
	"strconv"
	"strings"
	"time"
)

// TransportType is the mode of travel requested in a prompt.
type TransportType string

const (
	TransportBus   TransportType = "bus"
	TransportTrain TransportType = "train"
	TransportNone  TransportType = "none"
)

// Preference tags recognized in prompts. Rating floors use the
// "Rating N" form built by RatingPreference.
const (
	PrefAC         = "AC"
	PrefNonAC      = "Non-AC"
	PrefSleeper    = "Sleeper"
	PrefWindowSeat = "Window Seat"
	PrefDirect     = "Direct"
	PrefRating     = "Rating"
)

// StructuredQuery is the normalized form of a free-text travel request.
// It is built once per request and treated as read-only afterwards.
type StructuredQuery struct {
	// Location is the first place name found in the prompt.
	Location string `json:"location,omitempty"`

	// Origin and Destination are set when the prompt has a "from X to Y" phrase.
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`

	// Dates holds up to two dates in text order: depart/check-in, then return/check-out.
	Dates []time.Time `json:"dates,omitempty"`

	Preferences []string `json:"preferences,omitempty"`

	// Budget is a plain amount in DefaultCurrency.
	Budget *float64 `json:"budget,omitempty"`

	TransportType TransportType `json:"transportType"`
}

// Kind reports which listing family the query targets.
func (q StructuredQuery) Kind() Kind {
	if q.TransportType == TransportBus || q.TransportType == TransportTrain {
		return KindTransport
	}
	return KindHotel
}

// DepartDate returns the first date, used as departure or check-in.
func (q StructuredQuery) DepartDate() (time.Time, bool) {
	if len(q.Dates) == 0 {
		return time.Time{}, false
	}
	return q.Dates[0], true
}

// ReturnDate returns the second date, used as return or check-out.
func (q StructuredQuery) ReturnDate() (time.Time, bool) {
	if len(q.Dates) < 2 {
		return time.Time{}, false
	}
	return q.Dates[1], true
}

// SearchFrom returns the place a search should start from: the explicit
// origin if one was given, else the first location.
func (q StructuredQuery) SearchFrom() string {
	if q.Origin != "" {
		return q.Origin
	}
	return q.Location
}

// RatingFloor returns the minimum rating requested with a "Rating N"
// preference. N is the last whitespace-separated token.
func (q StructuredQuery) RatingFloor() (float64, bool) {
	for _, p := range q.Preferences {
		if !strings.HasPrefix(p, PrefRating+" ") {
			continue
		}
		fields := strings.Fields(p)
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			continue
		}
		return v, true
	}
	return 0, false
}

// HasPreference reports whether tag was requested.
func (q StructuredQuery) HasPreference(tag string) bool {
	for _, p := range q.Preferences {
		if p == tag {
			return true
		}
	}
	return false
}
