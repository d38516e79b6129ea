// Package monitor watches fares for subjects and raises an alert the first
// time a search finds a price below the subject's threshold.
//
// A single supervisor goroutine owns the subject to monitor mapping. Start
// and Stop talk to it over a channel, and every monitor runs in its own
// goroutine that checks for cancellation before each search.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/xid"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// DefaultSchedule is the retry interval between searches.
const DefaultSchedule = "@every 1h"

// DefaultAlertTimeout bounds a single alert delivery.
const DefaultAlertTimeout = 30 * time.Second

// ErrSupervisorStopped is returned once the supervisor has shut down.
var ErrSupervisorStopped = errors.New("monitor supervisor stopped")

// Searcher finds listings for a query. Each call is expected to open and
// close its own browser session.
type Searcher interface {
	Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error)
}

// SearchFunc adapts a function to Searcher.
type SearchFunc func(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error)

func (f SearchFunc) Search(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
	return f(ctx, query)
}

// Handle describes a running monitor.
type Handle struct {
	ID        string                 `json:"id"`
	SubjectID string                 `json:"subjectId"`
	Query     domain.StructuredQuery `json:"query"`
	Threshold float64                `json:"threshold"`
	StartedAt time.Time              `json:"startedAt"`
}

// Config holds the supervisor settings.
type Config struct {
	// Schedule is a cron spec or descriptor such as "@every 1h".
	Schedule string

	// AlertTimeout bounds how long a sink may take to deliver one alert.
	AlertTimeout time.Duration
}

// Supervisor runs one monitor per subject.
type Supervisor struct {
	searcher Searcher
	sink     domain.AlertSink
	schedule cron.Schedule
	clock    timeutil.Clock
	logger   *logger.Logger

	alertTimeout time.Duration

	cmds chan command
	done chan struct{}
	wg   sync.WaitGroup
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdStop
	cmdList
	cmdFinished
)

type command struct {
	kind    commandKind
	subject string
	handle  Handle
	id      string
	reply   chan reply
}

type reply struct {
	handle  Handle
	handles []Handle
	err     error

	// delivered is closed once no alert of a stopped monitor is in flight.
	delivered <-chan struct{}
}

// running is a monitor as the supervisor sees it.
type running struct {
	handle Handle
	cancel context.CancelFunc
	gate   *gate
}

// gate decides between alert delivery and Stop. Whichever claims it first
// wins, and the gate stays shut afterwards.
type gate struct {
	mu       sync.Mutex
	closed   bool
	inflight chan struct{}
}

var nothingInFlight = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// close shuts the gate without waiting. The returned channel is closed once
// a delivery that claimed the gate earlier has finished.
func (g *gate) close() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	if g.inflight == nil {
		return nothingInFlight
	}
	return g.inflight
}

// pass runs fn unless the gate is closed. The lock is not held while fn runs.
func (g *gate) pass(fn func()) bool {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return false
	}
	g.closed = true
	done := make(chan struct{})
	g.inflight = done
	g.mu.Unlock()

	defer close(done)
	fn()
	return true
}

// NewSupervisor parses the schedule and returns a supervisor. Call Run to
// start it.
func NewSupervisor(searcher Searcher, sink domain.AlertSink, cfg Config, clock timeutil.Clock, log *logger.Logger) (*Supervisor, error) {
	spec := cfg.Schedule
	if spec == "" {
		spec = DefaultSchedule
	}
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse monitor schedule %q: %w", spec, err)
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if sink == nil {
		sink = NewLogSink(log)
	}
	alertTimeout := cfg.AlertTimeout
	if alertTimeout <= 0 {
		alertTimeout = DefaultAlertTimeout
	}
	return &Supervisor{
		searcher:     searcher,
		sink:         sink,
		schedule:     schedule,
		clock:        clock,
		logger:       logger.OrNop(log),
		alertTimeout: alertTimeout,
		cmds:         make(chan command),
		done:         make(chan struct{}),
	}, nil
}

// Run owns the subject mapping until ctx ends, then stops every monitor and
// waits for them to exit.
func (s *Supervisor) Run(ctx context.Context) {
	monitors := make(map[string]*running)

	defer func() {
		close(s.done)
		for _, m := range monitors {
			m.gate.close()
			m.cancel()
		}
		s.wg.Wait()
		s.logger.Info().Int("stopped", len(monitors)).Msg("monitor supervisor stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-s.cmds:
			switch cmd.kind {
			case cmdStart:
				if _, exists := monitors[cmd.subject]; exists {
					cmd.reply <- reply{err: fmt.Errorf("%w: %s", domain.ErrMonitorExists, cmd.subject)}
					continue
				}
				m := s.spawn(ctx, cmd.handle)
				monitors[cmd.subject] = m
				cmd.reply <- reply{handle: m.handle}

			case cmdStop:
				m, ok := monitors[cmd.subject]
				if !ok {
					cmd.reply <- reply{err: fmt.Errorf("%w: %s", domain.ErrMonitorNotFound, cmd.subject)}
					continue
				}
				delivered := m.gate.close()
				m.cancel()
				delete(monitors, cmd.subject)
				cmd.reply <- reply{handle: m.handle, delivered: delivered}

			case cmdList:
				handles := make([]Handle, 0, len(monitors))
				for _, m := range monitors {
					handles = append(handles, m.handle)
				}
				sort.Slice(handles, func(i, j int) bool { return handles[i].SubjectID < handles[j].SubjectID })
				cmd.reply <- reply{handles: handles}

			case cmdFinished:
				// A finished monitor may already have been replaced.
				if m, ok := monitors[cmd.subject]; ok && m.handle.ID == cmd.id {
					delete(monitors, cmd.subject)
				}
			}
		}
	}
}

// StartMonitoring begins watching fares for subjectID. It fails with
// ErrMonitorExists when the subject is already monitored.
func (s *Supervisor) StartMonitoring(ctx context.Context, subjectID string, query domain.StructuredQuery, threshold float64) (Handle, error) {
	if subjectID == "" {
		return Handle{}, domain.NewValidationError("subject_id", "is required")
	}
	if threshold <= 0 {
		return Handle{}, domain.NewValidationError("threshold", "must be positive")
	}
	h := Handle{
		ID:        xid.New().String(),
		SubjectID: subjectID,
		Query:     query,
		Threshold: threshold,
		StartedAt: s.clock.Now(),
	}
	r, err := s.send(ctx, command{kind: cmdStart, subject: subjectID, handle: h})
	return r.handle, err
}

// StopMonitoring stops the monitor of subjectID. Once it returns nil, no
// alert is delivered for that monitor, even if a search it started is still
// finishing. An alert already being delivered is waited for until ctx ends.
func (s *Supervisor) StopMonitoring(ctx context.Context, subjectID string) error {
	r, err := s.send(ctx, command{kind: cmdStop, subject: subjectID})
	if err != nil {
		return err
	}
	log := s.logger.WithSubject(subjectID)
	select {
	case <-r.delivered:
	case <-ctx.Done():
		log.Warn().Msg("monitoring stopped while an alert was still being delivered")
		return fmt.Errorf("wait for alert delivery: %w", ctx.Err())
	}
	log.Info().Msg("monitoring stopped")
	return nil
}

// Monitors lists the running monitors ordered by subject.
func (s *Supervisor) Monitors(ctx context.Context) ([]Handle, error) {
	r, err := s.send(ctx, command{kind: cmdList})
	return r.handles, err
}

func (s *Supervisor) send(ctx context.Context, cmd command) (reply, error) {
	cmd.reply = make(chan reply, 1)
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return reply{}, ErrSupervisorStopped
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
	select {
	case r := <-cmd.reply:
		return r, r.err
	case <-s.done:
		return reply{}, ErrSupervisorStopped
	case <-ctx.Done():
		return reply{}, ctx.Err()
	}
}

func (s *Supervisor) spawn(parent context.Context, h Handle) *running {
	ctx, cancel := context.WithCancel(parent)
	m := &running{handle: h, cancel: cancel, gate: &gate{}}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.watch(ctx, m)

		select {
		case s.cmds <- command{kind: cmdFinished, subject: h.SubjectID, id: h.ID}:
		case <-s.done:
		}
	}()

	s.logger.WithSubject(h.SubjectID).Info().
		Str("monitor_id", h.ID).
		Float64("threshold", h.Threshold).
		Msg("monitoring started")
	return m
}

// watch searches until a price drops below the threshold or ctx ends.
func (s *Supervisor) watch(ctx context.Context, m *running) {
	h := m.handle
	log := s.logger.WithSubject(h.SubjectID).WithContext("monitor_id", h.ID)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("monitor panicked")
		}
	}()

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return
		}

		items, err := s.searcher.Search(ctx, h.Query)
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("fare search failed")
		} else if cheapest, ok := Cheapest(items); ok {
			price := cheapest.Price.Amount
			log.Debug().Int("attempt", attempt).Float64("min_price", price).Msg("fares checked")

			if price < h.Threshold {
				alert := domain.PriceAlert{
					SubjectID:  h.SubjectID,
					MinPrice:   price,
					Threshold:  h.Threshold,
					Item:       cheapest,
					ObservedAt: s.clock.Now(),
				}
				delivered := m.gate.pass(func() {
					notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.alertTimeout)
					defer cancel()
					if err := s.sink.Notify(notifyCtx, alert); err != nil {
						log.Error().Err(err).Msg("deliver price alert")
					}
				})
				if delivered {
					log.Info().Float64("min_price", price).Msg("price alert raised")
				}
				return
			}
		}

		now := s.clock.Now()
		wait := s.schedule.Next(now).Sub(now)
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(wait):
		}
	}
}

// Cheapest returns the lowest-priced listing. Unpriced listings are ignored.
func Cheapest(items []domain.ListingItem) (domain.ListingItem, bool) {
	var (
		best  domain.ListingItem
		found bool
	)
	for _, it := range items {
		p, ok := it.PriceAmount()
		if !ok {
			continue
		}
		if !found || p < best.Price.Amount {
			best, found = it, true
		}
	}
	return best, found
}
