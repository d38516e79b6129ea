// Package automation drives booking sites through a real browser. A Session
// is a strict state machine over one exclusively owned browser; every wait
// it performs is bounded and every failure ends in the Failed state with a
// reason.
package automation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/retry"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// Config bounds the waits of a session.
type Config struct {
	ElementTimeout      time.Duration
	PaymentTimeout      time.Duration
	PaymentPollInterval time.Duration
	MaxResults          int
}

// DefaultConfig returns the standard wait bounds.
func DefaultConfig() Config {
	return Config{
		ElementTimeout:      20 * time.Second,
		PaymentTimeout:      900 * time.Second,
		PaymentPollInterval: 5 * time.Second,
		MaxResults:          10,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = d.ElementTimeout
	}
	if c.PaymentTimeout <= 0 {
		c.PaymentTimeout = d.PaymentTimeout
	}
	if c.PaymentPollInterval <= 0 {
		c.PaymentPollInterval = d.PaymentPollInterval
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	return c
}

// Session is one scripted booking attempt on one site.
type Session struct {
	id       string
	profile  SiteProfile
	launcher Launcher
	clock    timeutil.Clock
	cfg      Config
	logger   *logger.Logger

	mu         sync.Mutex
	state      State
	startedAt  time.Time
	lastErr    *ErrorInfo
	browser    Browser
	results    []Row
	paymentURL string
	awaiting   bool
}

// NewSession creates an idle session. No browser is started until
// StartBrowser.
func NewSession(profile SiteProfile, launcher Launcher, clock timeutil.Clock, cfg Config, log *logger.Logger) *Session {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	id := xid.New().String()
	return &Session{
		id:       id,
		profile:  profile,
		launcher: launcher,
		clock:    clock,
		cfg:      cfg.withDefaults(),
		logger:   logger.OrNop(log).WithSession(id).WithProvider(profile.Name),
		state:    StateIdle,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Provider() string { return s.profile.Name }

func (s *Session) Profile() SiteProfile { return s.profile }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartedAt is zero until the browser has started.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// LastError returns the failure that moved the session to Failed, if any.
func (s *Session) LastError() *ErrorInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	info := *s.lastErr
	return &info
}

func (s *Session) Results() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.results...)
}

func (s *Session) PaymentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paymentURL
}

// StartBrowser launches the browser: Idle -> BrowserStarted.
func (s *Session) StartBrowser(ctx context.Context) error {
	const op = "start_browser"
	s.mu.Lock()
	if !canTransition(s.state, StateBrowserStarted) {
		defer s.mu.Unlock()
		return illegal(op, s.state)
	}
	s.mu.Unlock()

	b, err := s.launcher.Launch(ctx)
	if err != nil {
		return s.fail(ctx, op, ReasonBrowserLaunch, err)
	}

	s.mu.Lock()
	if s.state != StateIdle {
		state := s.state
		s.mu.Unlock()
		_ = b.Close()
		return illegal(op, state)
	}
	s.browser = b
	s.state = StateBrowserStarted
	s.startedAt = s.clock.Now()
	s.mu.Unlock()

	s.logger.Info().Msg("browser started")
	return nil
}

// Search runs the site's search form for query and scrapes the result
// rows: BrowserStarted -> Searching -> ResultsReady.
func (s *Session) Search(ctx context.Context, query domain.StructuredQuery) ([]Row, error) {
	const op = "search"
	b, err := s.enter(op, StateSearching, nil)
	if err != nil {
		return nil, err
	}

	if err := b.Navigate(ctx, s.profile.HomeURL); err != nil {
		return nil, s.fail(ctx, op, classify(err, ReasonNavigation), err)
	}
	if err := s.runSteps(ctx, b, s.profile.SearchSteps, searchVars(query, s.clock.Now())); err != nil {
		return nil, s.fail(ctx, op, classify(err, ReasonNavigation), err)
	}
	return s.collectResults(ctx, op, b)
}

// OpenListing navigates straight to a listing page and treats it as the
// only result: BrowserStarted -> Searching -> ResultsReady.
func (s *Session) OpenListing(ctx context.Context, listingURL string) error {
	const op = "open_listing"
	if listingURL == "" {
		return &SessionError{Op: op, State: s.State(), Err: domain.NewValidationError("url", "listing url is required")}
	}
	b, err := s.enter(op, StateSearching, nil)
	if err != nil {
		return err
	}

	if err := b.Navigate(ctx, listingURL); err != nil {
		return s.fail(ctx, op, classify(err, ReasonNavigation), err)
	}
	_, err = s.advance(op, StateSearching, StateResultsReady, func() {
		s.results = []Row{{URL: listingURL, Fields: map[string]string{}}}
	})
	return err
}

// Layout reads the seat or room map of the current listing page. It does
// not change state.
func (s *Session) Layout(ctx context.Context, externalID string) (domain.Layout, error) {
	const op = "layout"
	s.mu.Lock()
	if s.state != StateResultsReady {
		defer s.mu.Unlock()
		return domain.Layout{}, illegal(op, s.state)
	}
	b := s.browser
	s.mu.Unlock()

	sel := s.profile.Layout
	if sel.Ready != "" {
		if err := b.WaitVisible(ctx, sel.Ready, s.cfg.ElementTimeout); err != nil {
			return domain.Layout{}, s.fail(ctx, op, classify(err, ReasonElementNotFound), err)
		}
	}
	html, err := b.HTML(ctx)
	if err != nil {
		return domain.Layout{}, s.fail(ctx, op, ReasonScrapeFailed, err)
	}
	layout, err := ExtractLayout(html, sel, externalID)
	if err != nil {
		return domain.Layout{}, s.fail(ctx, op, ReasonScrapeFailed, err)
	}
	return layout, nil
}

// Select opens the result at index, picks the requested units (or the
// first available one), fills the customer form and submits it:
// ResultsReady -> SelectionInProgress -> PaymentPending. It returns the
// payment page URL.
func (s *Session) Select(ctx context.Context, index int, details domain.SelectionDetails) (string, error) {
	const op = "select"
	var row Row
	b, err := s.enter(op, StateSelectionInProgress, func() error {
		if index < 0 || index >= len(s.results) {
			return &SessionError{Op: op, State: s.state, Err: domain.WrapInvalidRequest("result index %d out of range [0,%d)", index, len(s.results))}
		}
		row = s.results[index]
		return nil
	})
	if err != nil {
		return "", err
	}
	sel := s.profile.Selection

	if row.URL != "" {
		current, _ := b.URL(ctx)
		if current != row.URL {
			if err := b.Navigate(ctx, row.URL); err != nil {
				return "", s.fail(ctx, op, classify(err, ReasonNavigation), err)
			}
		}
	}
	if sel.Ready != "" {
		if err := b.WaitVisible(ctx, sel.Ready, s.cfg.ElementTimeout); err != nil {
			return "", s.fail(ctx, op, classify(err, ReasonElementNotFound), err)
		}
	}
	if err := s.pickUnits(ctx, b, details.Units); err != nil {
		return "", s.fail(ctx, op, classify(err, ReasonElementNotFound), err)
	}
	if err := s.runSteps(ctx, b, sel.Steps, customerVars(details.Customer)); err != nil {
		return "", s.fail(ctx, op, classify(err, ReasonElementNotFound), err)
	}
	if sel.Submit != "" {
		if err := s.click(ctx, b, sel.Submit); err != nil {
			return "", s.fail(ctx, op, classify(err, ReasonElementNotFound), err)
		}
	}
	if ready := s.profile.Payment.Ready; ready != "" {
		if err := b.WaitVisible(ctx, ready, s.cfg.ElementTimeout); err != nil {
			return "", s.fail(ctx, op, classify(err, ReasonElementNotFound), err)
		}
	}

	paymentURL, err := b.URL(ctx)
	if err != nil {
		return "", s.fail(ctx, op, classify(err, ReasonNavigation), err)
	}
	if _, err := s.advance(op, StateSelectionInProgress, StatePaymentPending, func() {
		s.paymentURL = paymentURL
	}); err != nil {
		return "", err
	}

	s.logger.Info().Str("payment_url", paymentURL).Msg("selection submitted, awaiting payment")
	return paymentURL, nil
}

// AwaitPayment polls the payment page for the success indicator until it
// appears or the payment timeout elapses: PaymentPending -> Confirmed, or
// Failed with ReasonPaymentTimeout.
func (s *Session) AwaitPayment(ctx context.Context) (domain.Confirmation, error) {
	const op = "await_payment"
	s.mu.Lock()
	if s.state != StatePaymentPending || s.awaiting {
		defer s.mu.Unlock()
		return domain.Confirmation{}, illegal(op, s.state)
	}
	s.awaiting = true
	b := s.browser
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.awaiting = false
		s.mu.Unlock()
	}()

	success := s.profile.Payment.Success
	err := retry.Poll(ctx, s.clock, s.cfg.PaymentPollInterval, s.cfg.PaymentTimeout, func(ctx context.Context) (bool, error) {
		return b.Has(ctx, success)
	})
	switch {
	case errors.Is(err, retry.ErrPollTimeout):
		return domain.Confirmation{}, s.fail(ctx, op, ReasonPaymentTimeout, domain.ErrPaymentTimeout)
	case err != nil:
		return domain.Confirmation{}, s.fail(ctx, op, classify(err, ReasonNavigation), err)
	}

	var confirmation domain.Confirmation
	if html, err := b.HTML(ctx); err == nil {
		confirmation, err = ExtractConfirmation(html, s.profile.Payment.Confirmation)
		if err != nil {
			s.logger.Warn().Err(err).Msg("confirmation details unreadable")
		}
	} else {
		s.logger.Warn().Err(err).Msg("confirmation page unreadable")
	}

	if _, err := s.advance(op, StatePaymentPending, StateConfirmed, nil); err != nil {
		return domain.Confirmation{}, err
	}
	s.logger.Info().Str("booking_id", confirmation.BookingID).Str("pnr", confirmation.PNR).Msg("payment confirmed")
	return confirmation, nil
}

// Close tears down the browser and moves the session to Closed. It is
// valid from every state and safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	prev := s.state
	s.state = StateClosed
	b := s.browser
	s.browser = nil
	s.mu.Unlock()

	var err error
	if b != nil {
		err = b.Close()
	}
	ev := s.logger.Info()
	if err != nil {
		ev = s.logger.Warn().Err(err)
	}
	ev.Str("from", prev.String()).Msg("session closed")
	return err
}

// WithSession starts the browser, runs fn and closes the session on every
// exit path. A panic inside fn fails the session and is returned as an
// error.
func WithSession(ctx context.Context, s *Session, fn func(context.Context, *Session) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = s.fail(ctx, "run", ReasonPanic, fmt.Errorf("panic: %v", r))
		}
		_ = s.Close()
	}()

	if err := s.StartBrowser(ctx); err != nil {
		return err
	}
	return fn(ctx, s)
}

// enter performs a forward transition and returns the browser to use.
// check runs under the same lock before the state changes; its error
// aborts the transition.
func (s *Session) enter(op string, next State, check func() error) (Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.state, next) {
		return nil, illegal(op, s.state)
	}
	if check != nil {
		if err := check(); err != nil {
			return nil, err
		}
	}
	s.state = next
	return s.browser, nil
}

// advance moves from -> to if the session is still in from. apply runs
// under the lock before the state changes.
func (s *Session) advance(op string, from, to State, apply func()) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from || !canTransition(from, to) {
		return s.state, illegal(op, s.state)
	}
	if apply != nil {
		apply()
	}
	s.state = to
	return to, nil
}

// fail records the failure and moves the session to Failed, unless it was
// closed in the meantime.
func (s *Session) fail(ctx context.Context, op string, reason Reason, err error) error {
	if ctx != nil && ctx.Err() != nil && reason != ReasonPaymentTimeout && reason != ReasonPanic {
		reason = ReasonCancelled
	}

	s.mu.Lock()
	state := s.state
	if state != StateClosed {
		s.state = StateFailed
		s.lastErr = &ErrorInfo{Reason: reason, Message: err.Error(), At: s.clock.Now()}
	}
	s.mu.Unlock()

	s.logger.Warn().Err(err).Str("op", op).Str("reason", string(reason)).Str("state", state.String()).Msg("session failed")
	return &SessionError{Op: op, State: state, Reason: reason, Err: err}
}

func (s *Session) collectResults(ctx context.Context, op string, b Browser) ([]Row, error) {
	if err := b.WaitVisible(ctx, s.profile.Results.Row, s.cfg.ElementTimeout); err != nil {
		return nil, s.fail(ctx, op, classify(err, ReasonElementNotFound), err)
	}
	html, err := b.HTML(ctx)
	if err != nil {
		return nil, s.fail(ctx, op, ReasonScrapeFailed, err)
	}
	rows, err := ExtractRows(html, s.profile.Results, s.cfg.MaxResults)
	if err != nil {
		return nil, s.fail(ctx, op, ReasonScrapeFailed, err)
	}

	if _, err := s.advance(op, StateSearching, StateResultsReady, func() {
		s.results = rows
	}); err != nil {
		return nil, err
	}
	s.logger.Info().Int("rows", len(rows)).Msg("results extracted")
	return append([]Row(nil), rows...), nil
}

func (s *Session) pickUnits(ctx context.Context, b Browser, units []string) error {
	sel := s.profile.Selection
	if len(units) == 0 || sel.UnitByID == "" {
		if sel.FirstAvailable == "" {
			return nil
		}
		return s.click(ctx, b, sel.FirstAvailable)
	}
	for _, unit := range units {
		if err := s.click(ctx, b, strings.ReplaceAll(sel.UnitByID, "{unit}", unit)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) runSteps(ctx context.Context, b Browser, steps []Step, vars map[string]string) error {
	for _, step := range steps {
		switch step.Action {
		case "input":
			value := expand(step.Value, vars)
			if value == "" {
				continue
			}
			if err := b.WaitVisible(ctx, step.Selector, s.cfg.ElementTimeout); err != nil {
				return err
			}
			if err := b.Input(ctx, step.Selector, value); err != nil {
				return fmt.Errorf("input %s: %w", step.Selector, err)
			}
		case "click":
			if err := s.click(ctx, b, step.Selector); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) click(ctx context.Context, b Browser, selector string) error {
	if err := b.WaitVisible(ctx, selector, s.cfg.ElementTimeout); err != nil {
		return err
	}
	if err := b.Click(ctx, selector); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func classify(err error, fallback Reason) Reason {
	if errors.Is(err, domain.ErrElementNotFound) {
		return ReasonElementNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCancelled
	}
	return fallback
}

func searchVars(q domain.StructuredQuery, now time.Time) map[string]string {
	ist := timeutil.MustGetLocation(timeutil.IST)
	depart := timeutil.StartOfDay(now.In(ist))
	if d, ok := q.DepartDate(); ok {
		depart = d.In(ist)
	}
	checkout := depart.AddDate(0, 0, 1)
	if d, ok := q.ReturnDate(); ok {
		checkout = d.In(ist)
	}

	location := q.Location
	if location == "" {
		location = q.Destination
	}
	return map[string]string{
		"origin":      q.SearchFrom(),
		"destination": q.Destination,
		"location":    location,
		"date":        timeutil.FormatDayFirst(depart),
		"checkin":     timeutil.FormatDate(depart),
		"checkout":    timeutil.FormatDate(checkout),
	}
}

func customerVars(c domain.Customer) map[string]string {
	return map[string]string{
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
	}
}
