// Package browser provides the rod-backed implementation of
// automation.Browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tripsmith/travel-booking-aggregator/internal/automation"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

// Config controls how Chrome is launched.
type Config struct {
	Headless    bool
	Bin         string
	UserDataDir string
	// ActionTimeout bounds single clicks and inputs.
	ActionTimeout time.Duration
}

var systemChromePaths = []string{
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/snap/bin/chromium",
}

// Launcher starts one Chrome process per session.
type Launcher struct {
	cfg    Config
	logger *logger.Logger
}

// NewLauncher creates a rod launcher.
func NewLauncher(cfg Config, log *logger.Logger) *Launcher {
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = 10 * time.Second
	}
	return &Launcher{cfg: cfg, logger: logger.OrNop(log)}
}

// Launch starts Chrome and opens a blank tab.
func (l *Launcher) Launch(ctx context.Context) (automation.Browser, error) {
	ln := launcher.New().
		Context(ctx).
		Headless(l.cfg.Headless).
		NoSandbox(true).
		Leakless(false).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-notifications").
		Set("start-maximized")

	if l.cfg.UserDataDir != "" {
		ln = ln.UserDataDir(l.cfg.UserDataDir)
	}
	if bin := l.resolveBin(); bin != "" {
		ln = ln.Bin(bin)
	}

	controlURL, err := ln.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		ln.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		ln.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	l.logger.Debug().Str("control_url", controlURL).Msg("browser launched")
	return &Browser{
		browser:       b,
		page:          page,
		launcher:      ln,
		actionTimeout: l.cfg.ActionTimeout,
	}, nil
}

func (l *Launcher) resolveBin() string {
	if l.cfg.Bin != "" {
		return l.cfg.Bin
	}
	for _, path := range systemChromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Browser is a single Chrome tab.
type Browser struct {
	browser       *rod.Browser
	page          *rod.Page
	launcher      *launcher.Launcher
	actionTimeout time.Duration
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	p := b.page.Context(ctx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("load %s: %w", url, err)
	}
	return nil
}

func (b *Browser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	el, err := b.page.Context(ctx).Timeout(timeout).Element(selector)
	if err == nil {
		err = el.WaitVisible()
	}
	return notFound(ctx, selector, err)
}

func (b *Browser) Has(ctx context.Context, selector string) (bool, error) {
	ok, _, err := b.page.Context(ctx).Has(selector)
	return ok, err
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	el, err := b.page.Context(ctx).Timeout(b.actionTimeout).Element(selector)
	if err != nil {
		return notFound(ctx, selector, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (b *Browser) Input(ctx context.Context, selector, text string) error {
	el, err := b.page.Context(ctx).Timeout(b.actionTimeout).Element(selector)
	if err != nil {
		return notFound(ctx, selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(text)
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	return b.page.Context(ctx).HTML()
}

func (b *Browser) URL(ctx context.Context) (string, error) {
	info, err := b.page.Context(ctx).Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

// Close shuts Chrome down and removes its temporary profile.
func (b *Browser) Close() error {
	err := b.browser.Close()
	b.launcher.Kill()
	b.launcher.Cleanup()
	return err
}

// notFound reports an element wait that ran out of time as
// domain.ErrElementNotFound. Caller cancellation is passed through.
func notFound(ctx context.Context, selector string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", domain.ErrElementNotFound, selector)
	}
	var notFoundErr *rod.ElementNotFoundError
	if errors.As(err, &notFoundErr) {
		return fmt.Errorf("%w: %s", domain.ErrElementNotFound, selector)
	}
	return fmt.Errorf("wait %s: %w", selector, err)
}

var (
	_ automation.Launcher = (*Launcher)(nil)
	_ automation.Browser  = (*Browser)(nil)
)
