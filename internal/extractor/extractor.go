// Package extractor turns a free-text travel prompt into a StructuredQuery.
// Extraction never fails: anything it cannot recognize is left empty.
package extractor

import (
	"strings"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// maxDates is the number of dates a query can carry: depart and return.
const maxDates = 2

// Extractor parses prompts. It is safe for concurrent use.
type Extractor struct {
	places   PlaceRecognizer
	resolver DateResolver
	logger   *logger.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPlaceRecognizer replaces the built-in gazetteer.
func WithPlaceRecognizer(p PlaceRecognizer) Option {
	return func(e *Extractor) { e.places = p }
}

// WithDateResolver replaces the clock-based resolver.
func WithDateResolver(r DateResolver) Option {
	return func(e *Extractor) { e.resolver = r }
}

// WithClock anchors relative dates on clock, in IST.
func WithClock(clock timeutil.Clock) Option {
	return func(e *Extractor) {
		e.resolver = NewClockResolver(clock, timeutil.MustGetLocation(timeutil.IST))
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.places == nil {
		e.places = NewGazetteer()
	}
	if e.resolver == nil {
		WithClock(timeutil.NewRealClock())(e)
	}
	e.logger = logger.OrNop(e.logger)
	return e
}

// Extract builds a StructuredQuery from prompt.
func (e *Extractor) Extract(prompt string) domain.StructuredQuery {
	q := domain.StructuredQuery{
		TransportType: extractTransport(prompt),
		Budget:        extractBudget(prompt),
		Preferences:   extractPreferences(prompt),
		Dates:         e.extractDates(prompt),
	}

	places := e.places.Places(prompt)
	if len(places) > 0 {
		q.Location = places[0].Name
	}
	q.Origin, q.Destination = routeEndpoints(prompt, places)

	e.logger.Debug().
		Str("location", q.Location).
		Str("transport_type", string(q.TransportType)).
		Int("dates", len(q.Dates)).
		Strs("preferences", q.Preferences).
		Bool("has_budget", q.Budget != nil).
		Msg("extracted query")

	return q
}

func (e *Extractor) extractDates(prompt string) []time.Time {
	var dates []time.Time
	for _, s := range dateSpans(prompt) {
		d, ok := e.resolver.Resolve(s.text)
		if !ok {
			e.logger.Debug().Str("phrase", s.text).Msg("dropping unresolvable date")
			continue
		}
		dates = append(dates, d)
		if len(dates) == maxDates {
			break
		}
	}
	return dates
}

// routeEndpoints reads the places directly preceded by "from" and "to".
func routeEndpoints(prompt string, places []PlaceMention) (origin, destination string) {
	for _, p := range places {
		switch precedingWord(prompt, p.Start) {
		case "from":
			if origin == "" {
				origin = p.Name
			}
		case "to":
			if destination == "" {
				destination = p.Name
			}
		}
	}
	return origin, destination
}

func precedingWord(text string, pos int) string {
	fields := strings.Fields(text[:pos])
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}
