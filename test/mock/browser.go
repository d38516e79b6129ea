package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/automation"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// Browser is a scriptable in-memory automation.Browser. Every selector is
// visible unless marked missing, and HTML serves the page registered for
// the current URL.
type Browser struct {
	mu          sync.Mutex
	url         string
	pages       map[string]string
	missing     map[string]bool
	redirects   map[string]string
	hasFn       func(selector string) bool
	panicOn     string
	inputs      map[string]string
	clicks      []string
	navigations []string
	closed      int
}

// NewBrowser creates a browser with no pages.
func NewBrowser() *Browser {
	return &Browser{
		pages:     make(map[string]string),
		missing:   make(map[string]bool),
		redirects: make(map[string]string),
		inputs:    make(map[string]string),
	}
}

// WithPage serves html when the browser is at url. An empty url is the
// fallback page.
func (b *Browser) WithPage(url, html string) *Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages[url] = html
	return b
}

// WithMissing makes selectors time out in WaitVisible and report false in Has.
func (b *Browser) WithMissing(selectors ...string) *Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range selectors {
		b.missing[s] = true
	}
	return b
}

// WithRedirect moves the browser to url after selector is clicked.
func (b *Browser) WithRedirect(selector, url string) *Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.redirects[selector] = url
	return b
}

// WithHas overrides Has.
func (b *Browser) WithHas(fn func(selector string) bool) *Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hasFn = fn
	return b
}

// WithPanicOn makes Click panic for selector.
func (b *Browser) WithPanicOn(selector string) *Browser {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.panicOn = selector
	return b
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.url = url
	b.navigations = append(b.navigations, url)
	return nil
}

func (b *Browser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.missing[selector] {
		return fmt.Errorf("%w: %s after %s", domain.ErrElementNotFound, selector, timeout)
	}
	return nil
}

func (b *Browser) Has(ctx context.Context, selector string) (bool, error) {
	b.mu.Lock()
	fn := b.hasFn
	missing := b.missing[selector]
	b.mu.Unlock()
	if fn != nil {
		return fn(selector), nil
	}
	return !missing, nil
}

func (b *Browser) Click(ctx context.Context, selector string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.panicOn != "" && b.panicOn == selector {
		panic("click on " + selector)
	}
	if b.missing[selector] {
		return fmt.Errorf("%w: %s", domain.ErrElementNotFound, selector)
	}
	b.clicks = append(b.clicks, selector)
	if next, ok := b.redirects[selector]; ok {
		b.url = next
	}
	return nil
}

func (b *Browser) Input(ctx context.Context, selector, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inputs[selector] = text
	return nil
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if html, ok := b.pages[b.url]; ok {
		return html, nil
	}
	return b.pages[""], nil
}

func (b *Browser) URL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.url, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

// Closed returns how many times Close was called.
func (b *Browser) Closed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Clicks returns the clicked selectors in order.
func (b *Browser) Clicks() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.clicks...)
}

// Inputs returns the last text typed into each selector.
func (b *Browser) Inputs() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]string, len(b.inputs))
	for k, v := range b.inputs {
		out[k] = v
	}
	return out
}

// Navigations returns the visited URLs in order.
func (b *Browser) Navigations() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.navigations...)
}

// Launcher hands out browsers built by New, or fails with Err.
type Launcher struct {
	New func() *Browser
	Err error

	mu       sync.Mutex
	launched []*Browser
}

// NewLauncher returns a launcher that creates a fresh browser per launch
// using build.
func NewLauncher(build func() *Browser) *Launcher {
	return &Launcher{New: build}
}

func (l *Launcher) Launch(ctx context.Context) (automation.Browser, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	b := l.New()
	l.mu.Lock()
	l.launched = append(l.launched, b)
	l.mu.Unlock()
	return b, nil
}

// Launched returns every browser handed out so far.
func (l *Launcher) Launched() []*Browser {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Browser(nil), l.launched...)
}

var (
	_ automation.Browser  = (*Browser)(nil)
	_ automation.Launcher = (*Launcher)(nil)
)
