// Package abhibus scrapes the AbhiBus server-rendered search results page.
// It supports search only.
package abhibus

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// DefaultBaseURL is the public site root.
const DefaultBaseURL = "https://www.abhibus.com"

const (
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxResults = 10
)

// Config holds the adapter settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Delay is the pause between consecutive page fetches.
	Delay time.Duration
}

// Adapter implements domain.Provider by scraping AbhiBus result pages.
type Adapter struct {
	baseURL   string
	collector *colly.Collector
	clock     timeutil.Clock
	logger    *logger.Logger
}

// NewAdapter creates an AbhiBus adapter. transport and clock may be nil.
func NewAdapter(cfg Config, transport http.RoundTripper, clock timeutil.Clock, log *logger.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	log = logger.OrNop(log).WithProvider(ProviderName)

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)
	if transport != nil {
		c.WithTransport(transport)
	}
	applyLimit(c, &colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       cfg.Delay,
	}, log)

	return &Adapter{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		collector: c,
		clock:     clock,
		logger:    log,
	}
}

// applyLimit installs rule on c. A rejected rule leaves fetches unthrottled,
// so it is reported rather than ignored.
func applyLimit(c *colly.Collector, rule *colly.LimitRule, log *logger.Logger) {
	if err := c.Limit(rule); err != nil {
		log.Warn().Err(err).Dur("delay", rule.Delay).Msg("page fetch limit not applied, requests are unthrottled")
	}
}

func (a *Adapter) Name() string { return ProviderName }

func (a *Adapter) Kind() domain.Kind { return domain.KindTransport }

// Search fetches the results page for the route and date and scrapes at
// most ten service cards. Fetch failures yield an empty result.
func (a *Adapter) Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
	from, to := query.SearchFrom(), query.Destination
	if from == "" || to == "" || from == to {
		return []domain.ListingItem{}, nil
	}

	ist := timeutil.MustGetLocation(timeutil.IST)
	doj := timeutil.StartOfDay(a.clock.Now().In(ist))
	if d, ok := query.DepartDate(); ok {
		doj = timeutil.StartOfDay(d.In(ist))
	}

	target := fmt.Sprintf("%s/bus_search/%s/%s/%s/O", a.baseURL, citySlug(from), citySlug(to), timeutil.FormatDayFirst(doj))

	rows := make([]serviceRow, 0, maxResults)
	c := a.collector.Clone()
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})
	c.OnHTML(selRow, func(e *colly.HTMLElement) {
		if len(rows) >= maxResults {
			return
		}
		rows = append(rows, serviceRow{
			ServiceID: e.Attr(attrServiceID),
			Operator:  strings.TrimSpace(e.ChildText(selOperator)),
			BusType:   strings.TrimSpace(e.ChildText(selBusType)),
			Departure: strings.TrimSpace(e.ChildText(selDeparture)),
			Arrival:   strings.TrimSpace(e.ChildText(selArrival)),
			Duration:  strings.TrimSpace(e.ChildText(selDuration)),
			Fare:      strings.TrimSpace(e.ChildText(selFare)),
			Seats:     strings.TrimSpace(e.ChildText(selSeats)),
			Rating:    strings.TrimSpace(e.ChildText(selRating)),
			URL:       e.Attr(attrURL),
		})
	})

	err := c.Visit(target)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("url", target).Msg("results page fetch failed")
		return []domain.ListingItem{}, nil
	}

	a.logger.Debug().Int("rows", len(rows)).Str("url", target).Msg("results page scraped")
	return normalize(rows, from, to, doj, a.baseURL), nil
}

// FetchLayout is not available from the static results page.
func (a *Adapter) FetchLayout(ctx context.Context, externalID string) (domain.Layout, error) {
	return domain.Layout{}, domain.NewProviderError(ProviderName, domain.ErrSelectionUnsupported)
}

// InitiateSelection is not available from the static results page.
func (a *Adapter) InitiateSelection(ctx context.Context, externalID string, details domain.SelectionDetails) (domain.SelectionResult, error) {
	return domain.SelectionResult{}, domain.NewProviderError(ProviderName, domain.ErrSelectionUnsupported)
}

var _ domain.Provider = (*Adapter)(nil)
