package automation

import (
	"context"
	"time"
)

// Browser is one exclusively owned browser tab. Implementations must bound
// every wait by the timeout or context they are given.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until selector is visible or timeout elapses. A
	// timeout is reported as an error wrapping domain.ErrElementNotFound.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Has checks for selector without waiting.
	Has(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Input(ctx context.Context, selector, text string) error
	HTML(ctx context.Context) (string, error)
	URL(ctx context.Context) (string, error)
	Close() error
}

// Launcher starts a new browser for each session.
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context) (Browser, error)

func (f LauncherFunc) Launch(ctx context.Context) (Browser, error) {
	return f(ctx)
}
