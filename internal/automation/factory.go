package automation

import (
	"context"
	"fmt"
	"sort"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// Factory creates sessions for the configured site profiles. Each session
// gets its own browser from the launcher.
type Factory struct {
	profiles map[string]SiteProfile
	launcher Launcher
	clock    timeutil.Clock
	cfg      Config
	logger   *logger.Logger
}

// NewFactory creates a session factory.
func NewFactory(profiles map[string]SiteProfile, launcher Launcher, clock timeutil.Clock, cfg Config, log *logger.Logger) *Factory {
	return &Factory{
		profiles: profiles,
		launcher: launcher,
		clock:    clock,
		cfg:      cfg,
		logger:   logger.OrNop(log),
	}
}

// Profile returns the named site profile.
func (f *Factory) Profile(name string) (SiteProfile, bool) {
	p, ok := f.profiles[name]
	return p, ok
}

// Profiles returns the profile names in sorted order.
func (f *Factory) Profiles() []string {
	names := make([]string, 0, len(f.profiles))
	for name := range f.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewSession returns an idle session for the named site.
func (f *Factory) NewSession(name string) (*Session, error) {
	p, ok := f.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotFound, name)
	}
	return NewSession(p, f.launcher, f.clock, f.cfg, f.logger), nil
}

// Run opens a session for the named site and passes it to fn through
// WithSession.
func (f *Factory) Run(ctx context.Context, name string, fn func(context.Context, *Session) error) error {
	s, err := f.NewSession(name)
	if err != nil {
		return err
	}
	return WithSession(ctx, s, fn)
}
