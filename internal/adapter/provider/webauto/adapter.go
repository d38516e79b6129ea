// Package webauto exposes browser-automated booking sites as providers.
// Each call runs in its own automation session.
package webauto

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripsmith/travel-booking-aggregator/internal/automation"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// Adapter implements domain.Provider for one site profile.
type Adapter struct {
	factory *automation.Factory
	profile automation.SiteProfile
	clock   timeutil.Clock
	logger  *logger.Logger
}

// NewAdapter creates an adapter for the named profile of factory.
func NewAdapter(factory *automation.Factory, profileName string, clock timeutil.Clock, log *logger.Logger) (*Adapter, error) {
	profile, ok := factory.Profile(profileName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, profileName)
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &Adapter{
		factory: factory,
		profile: profile,
		clock:   clock,
		logger:  logger.OrNop(log).WithProvider(profileName),
	}, nil
}

func (a *Adapter) Name() string { return a.profile.Name }

func (a *Adapter) Kind() domain.Kind { return a.profile.Kind }

// Search drives the site's search form. Session failures are logged and
// yield an empty result.
func (a *Adapter) Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
	if !a.canSearch(query) {
		return []domain.ListingItem{}, nil
	}

	var rows []automation.Row
	err := a.factory.Run(ctx, a.profile.Name, func(ctx context.Context, s *automation.Session) error {
		var err error
		rows, err = s.Search(ctx, query)
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn().Err(err).Msg("automated search failed")
		return []domain.ListingItem{}, nil
	}

	ist := timeutil.MustGetLocation(timeutil.IST)
	day := timeutil.StartOfDay(a.clock.Now().In(ist))
	if d, ok := query.DepartDate(); ok {
		day = timeutil.StartOfDay(d.In(ist))
	}
	return normalize(rows, a.profile, query, day), nil
}

// FetchLayout opens the listing page and reads its seat or room map.
// externalID must be the listing URL.
func (a *Adapter) FetchLayout(ctx context.Context, externalID string) (domain.Layout, error) {
	listingURL, err := a.listingURL(externalID)
	if err != nil {
		return domain.Layout{}, err
	}

	var layout domain.Layout
	err = a.factory.Run(ctx, a.profile.Name, func(ctx context.Context, s *automation.Session) error {
		if err := s.OpenListing(ctx, listingURL); err != nil {
			return err
		}
		var err error
		layout, err = s.Layout(ctx, externalID)
		return err
	})
	if err != nil {
		return domain.Layout{}, domain.NewProviderError(a.profile.Name, err)
	}
	return layout, nil
}

// InitiateSelection submits the selection and returns the payment page.
// The session is closed afterwards; use Begin to keep it for the payment
// wait.
func (a *Adapter) InitiateSelection(ctx context.Context, externalID string, details domain.SelectionDetails) (domain.SelectionResult, error) {
	s, result, err := a.Begin(ctx, externalID, details)
	if s != nil {
		_ = s.Close()
	}
	return result, err
}

// Begin starts a session, opens the listing and submits the selection. On
// success the session is left in PaymentPending and the caller owns it.
// On failure the session has already been closed.
func (a *Adapter) Begin(ctx context.Context, externalID string, details domain.SelectionDetails) (*automation.Session, domain.SelectionResult, error) {
	listingURL, err := a.listingURL(externalID)
	if err != nil {
		return nil, domain.SelectionResult{}, err
	}
	s, err := a.factory.NewSession(a.profile.Name)
	if err != nil {
		return nil, domain.SelectionResult{}, domain.NewProviderError(a.profile.Name, err)
	}

	paymentURL, err := a.begin(ctx, s, listingURL, details)
	if err != nil {
		_ = s.Close()
		return nil, domain.SelectionResult{}, domain.NewProviderError(a.profile.Name, err)
	}
	return s, domain.SelectionResult{
		ProviderReference: s.ID(),
		PaymentURL:        paymentURL,
		TotalAmount:       details.Amount,
	}, nil
}

// BeginSelection is Begin behind the domain.InteractiveBooker contract.
func (a *Adapter) BeginSelection(ctx context.Context, externalID string, details domain.SelectionDetails) (domain.PendingPayment, domain.SelectionResult, error) {
	s, result, err := a.Begin(ctx, externalID, details)
	if err != nil {
		return nil, result, err
	}
	return s, result, nil
}

func (a *Adapter) begin(ctx context.Context, s *automation.Session, listingURL string, details domain.SelectionDetails) (paymentURL string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during selection: %v", r)
		}
	}()
	if err := s.StartBrowser(ctx); err != nil {
		return "", err
	}
	if err := s.OpenListing(ctx, listingURL); err != nil {
		return "", err
	}
	return s.Select(ctx, 0, details)
}

func (a *Adapter) canSearch(q domain.StructuredQuery) bool {
	if q.Kind() != a.profile.Kind {
		return false
	}
	if a.profile.Kind == domain.KindTransport {
		return q.SearchFrom() != "" && q.Destination != ""
	}
	return q.Location != "" || q.Destination != ""
}

func (a *Adapter) listingURL(externalID string) (string, error) {
	u := absoluteURL(a.profile.HomeURL, externalID)
	if u == "" || !strings.HasPrefix(u, "http") {
		return "", domain.NewProviderError(a.profile.Name, domain.NewValidationError("external_id", "listing url expected"))
	}
	return u, nil
}

var (
	_ domain.Provider          = (*Adapter)(nil)
	_ domain.InteractiveBooker = (*Adapter)(nil)
	_ domain.PendingPayment    = (*automation.Session)(nil)
)
