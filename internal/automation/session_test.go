package automation_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripsmith/travel-booking-aggregator/internal/automation"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
	"github.com/tripsmith/travel-booking-aggregator/test/mock"
)

const (
	homeURL    = "https://bus.example"
	listingURL = "https://bus.example/bus/1"
	paymentURL = "https://pay.example/p/1"
)

func testProfile() automation.SiteProfile {
	return automation.SiteProfile{
		Name:    "testsite",
		Kind:    domain.KindTransport,
		HomeURL: homeURL,
		SearchSteps: []automation.Step{
			{Action: "input", Selector: "#src", Value: "{origin}"},
			{Action: "input", Selector: "#dest", Value: "{destination}"},
			{Action: "input", Selector: "#date", Value: "{date}"},
			{Action: "click", Selector: "#search"},
		},
		Results: automation.ResultSelectors{
			Row:     ".bus-item",
			IDAttr:  "data-id",
			URLAttr: "data-url",
			Fields:  map[string]string{"operator": ".travels", "price": ".fare"},
		},
		Layout: automation.LayoutSelectors{
			Ready:          ".seat-layout",
			Unit:           ".seat",
			IDAttr:         "data-seat",
			AvailableClass: "available",
		},
		Selection: automation.SelectionSelectors{
			Ready:          ".seat-layout",
			FirstAvailable: ".seat.available",
			UnitByID:       ".seat[data-seat='{unit}']",
			Steps:          []automation.Step{{Action: "input", Selector: "#name", Value: "{name}"}},
			Submit:         "#pay",
		},
		Payment: automation.PaymentSelectors{
			Success: ".payment-success",
			Confirmation: map[string]string{
				"booking_id": ".booking-id",
				"pnr":        ".pnr",
				"amount":     ".total",
			},
		},
	}
}

func resultsHTML(n int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, `<div class="bus-item" data-id="bus-%d" data-url="https://bus.example/bus/%d"><span class="travels">Operator %d</span><span class="fare">Rs %d</span></div>`, i, i, i, 1000+i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

const confirmationHTML = `<html><body>
<div class="payment-success">Paid</div>
<span class="booking-id">BK-77</span><span class="pnr">PNR123</span><span class="total">&#8377; 1,001</span>
</body></html>`

const layoutHTML = `<div class="seat-layout">
<div class="seat available" data-seat="L1">L1</div>
<div class="seat" data-seat="L2">L2</div>
</div>`

func newBrowser() *mock.Browser {
	return mock.NewBrowser().
		WithPage("", resultsHTML(12)).
		WithPage(listingURL, layoutHTML).
		WithPage(paymentURL, confirmationHTML).
		WithRedirect("#pay", paymentURL)
}

type fixture struct {
	session  *automation.Session
	launcher *mock.Launcher
	clock    *timeutil.MockClock
}

func newFixture(t *testing.T, build func() *mock.Browser) fixture {
	t.Helper()
	clock := timeutil.NewMockClock(time.Date(2024, 3, 10, 9, 0, 0, 0, timeutil.MustGetLocation(timeutil.IST)))
	launcher := mock.NewLauncher(build)
	s := automation.NewSession(testProfile(), launcher, clock, automation.DefaultConfig(), logger.Nop())
	return fixture{session: s, launcher: launcher, clock: clock}
}

func (f fixture) browser(t *testing.T) *mock.Browser {
	t.Helper()
	launched := f.launcher.Launched()
	require.Len(t, launched, 1)
	return launched[0]
}

func busQuery() domain.StructuredQuery {
	return domain.StructuredQuery{
		Origin:        "Delhi",
		Destination:   "Manali",
		Dates:         []time.Time{time.Date(2024, 6, 15, 0, 0, 0, 0, timeutil.MustGetLocation(timeutil.IST))},
		TransportType: domain.TransportBus,
	}
}

// ===== Transition Guard Tests =====

func TestSession_SearchBeforeStartIsRejected(t *testing.T) {
	f := newFixture(t, newBrowser)

	rows, err := f.session.Search(context.Background(), busQuery())

	assert.Nil(t, rows)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	var serr *automation.SessionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, automation.StateIdle, serr.State)
	assert.Equal(t, automation.StateIdle, f.session.State())
	assert.Empty(t, f.launcher.Launched())
}

func TestSession_IllegalTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newBrowser)

	_, err := f.session.Select(ctx, 0, domain.SelectionDetails{})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = f.session.AwaitPayment(ctx)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = f.session.Layout(ctx, "x")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, automation.StateIdle, f.session.State())

	require.NoError(t, f.session.StartBrowser(ctx))
	assert.ErrorIs(t, f.session.StartBrowser(ctx), domain.ErrIllegalTransition)
	assert.Equal(t, automation.StateBrowserStarted, f.session.State())

	_, err = f.session.AwaitPayment(ctx)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Equal(t, automation.StateBrowserStarted, f.session.State())
}

// ===== Happy Path Tests =====

func TestSession_FullBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newBrowser)

	require.NoError(t, f.session.StartBrowser(ctx))
	assert.Equal(t, f.clock.Now(), f.session.StartedAt())

	rows, err := f.session.Search(ctx, busQuery())
	require.NoError(t, err)
	assert.Equal(t, automation.StateResultsReady, f.session.State())
	require.Len(t, rows, 10)
	assert.Equal(t, "bus-1", rows[0].ID)
	assert.Equal(t, "Operator 1", rows[0].Field("operator"))
	assert.Equal(t, listingURL, rows[0].URL)

	b := f.browser(t)
	inputs := b.Inputs()
	assert.Equal(t, "Delhi", inputs["#src"])
	assert.Equal(t, "Manali", inputs["#dest"])
	assert.Equal(t, "15-06-2024", inputs["#date"])

	url, err := f.session.Select(ctx, 0, domain.SelectionDetails{
		Units:    []string{"L1"},
		Customer: domain.Customer{Name: "Asha"},
	})
	require.NoError(t, err)
	assert.Equal(t, paymentURL, url)
	assert.Equal(t, paymentURL, f.session.PaymentURL())
	assert.Equal(t, automation.StatePaymentPending, f.session.State())
	assert.Contains(t, b.Clicks(), ".seat[data-seat='L1']")
	assert.Equal(t, "Asha", b.Inputs()["#name"])

	confirmation, err := f.session.AwaitPayment(ctx)
	require.NoError(t, err)
	assert.Equal(t, automation.StateConfirmed, f.session.State())
	assert.Equal(t, "BK-77", confirmation.BookingID)
	assert.Equal(t, "PNR123", confirmation.PNR)
	assert.Equal(t, 1001.0, confirmation.TotalAmount)

	require.NoError(t, f.session.Close())
	assert.Equal(t, automation.StateClosed, f.session.State())
	assert.Equal(t, 1, b.Closed())
}

func TestSession_SelectFirstAvailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newBrowser)
	require.NoError(t, f.session.StartBrowser(ctx))
	_, err := f.session.Search(ctx, busQuery())
	require.NoError(t, err)

	_, err = f.session.Select(ctx, 2, domain.SelectionDetails{})
	require.NoError(t, err)

	b := f.browser(t)
	assert.Contains(t, b.Clicks(), ".seat.available")
	assert.Contains(t, b.Navigations(), "https://bus.example/bus/3")
	_, typedName := b.Inputs()["#name"]
	assert.False(t, typedName)
}

func TestSession_SelectIndexOutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newBrowser)
	require.NoError(t, f.session.StartBrowser(ctx))
	_, err := f.session.Search(ctx, busQuery())
	require.NoError(t, err)

	clicks := f.browser(t).Clicks()

	for _, index := range []int{10, 12, -1} {
		_, err = f.session.Select(ctx, index, domain.SelectionDetails{})

		assert.True(t, domain.IsInvalidRequest(err), "index %d", index)
		assert.Equal(t, automation.StateResultsReady, f.session.State())
	}
	assert.Equal(t, clicks, f.browser(t).Clicks(), "a rejected index must not touch the page")
}

func TestSession_ConcurrentSelectsClaimOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newBrowser)
	require.NoError(t, f.session.StartBrowser(ctx))
	_, err := f.session.Search(ctx, busQuery())
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			index := 1
			if i%2 == 1 {
				index = 10
			}
			if _, err := f.session.Select(ctx, index, domain.SelectionDetails{}); err == nil {
				succeeded.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, automation.StatePaymentPending, f.session.State())
}

func TestSession_OpenListingAndLayout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, newBrowser)
	require.NoError(t, f.session.StartBrowser(ctx))

	require.NoError(t, f.session.OpenListing(ctx, listingURL))
	assert.Equal(t, automation.StateResultsReady, f.session.State())

	layout, err := f.session.Layout(ctx, "bus-1")
	require.NoError(t, err)
	require.Len(t, layout.Units, 2)
	assert.Equal(t, "L1", layout.Units[0].ID)
	assert.True(t, layout.Units[0].Available)
	assert.False(t, layout.Units[1].Available)
	assert.Equal(t, automation.StateResultsReady, f.session.State())
}

// ===== Failure Tests =====

func TestSession_PaymentTimeout(t *testing.T) {
	ctx := context.Background()
	var polls int32
	f := newFixture(t, func() *mock.Browser {
		return newBrowser().WithHas(func(selector string) bool {
			atomic.AddInt32(&polls, 1)
			return false
		})
	})
	require.NoError(t, f.session.StartBrowser(ctx))
	_, err := f.session.Search(ctx, busQuery())
	require.NoError(t, err)
	_, err = f.session.Select(ctx, 0, domain.SelectionDetails{})
	require.NoError(t, err)

	start := f.clock.Now()
	f.clock.SetAutoAdvance(true)
	_, err = f.session.AwaitPayment(ctx)

	assert.ErrorIs(t, err, domain.ErrPaymentTimeout)
	assert.Equal(t, automation.StateFailed, f.session.State())
	require.NotNil(t, f.session.LastError())
	assert.Equal(t, automation.ReasonPaymentTimeout, f.session.LastError().Reason)
	assert.Equal(t, 900*time.Second, f.clock.Now().Sub(start))
	assert.Equal(t, int32(181), atomic.LoadInt32(&polls))

	// Failed is terminal for the attempt.
	_, err = f.session.AwaitPayment(ctx)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.NotEqual(t, automation.StateConfirmed, f.session.State())
}

func TestSession_PaymentConfirmedAfterPolling(t *testing.T) {
	ctx := context.Background()
	var polls int32
	f := newFixture(t, func() *mock.Browser {
		return newBrowser().WithHas(func(selector string) bool {
			return atomic.AddInt32(&polls, 1) >= 3
		})
	})
	require.NoError(t, f.session.StartBrowser(ctx))
	_, err := f.session.Search(ctx, busQuery())
	require.NoError(t, err)
	_, err = f.session.Select(ctx, 0, domain.SelectionDetails{})
	require.NoError(t, err)

	start := f.clock.Now()
	f.clock.SetAutoAdvance(true)
	_, err = f.session.AwaitPayment(ctx)

	require.NoError(t, err)
	assert.Equal(t, automation.StateConfirmed, f.session.State())
	assert.Equal(t, 10*time.Second, f.clock.Now().Sub(start))
}

func TestSession_ResultsMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func() *mock.Browser {
		return newBrowser().WithMissing(".bus-item")
	})
	require.NoError(t, f.session.StartBrowser(ctx))

	_, err := f.session.Search(ctx, busQuery())

	assert.ErrorIs(t, err, domain.ErrElementNotFound)
	assert.Equal(t, automation.StateFailed, f.session.State())
	assert.Equal(t, automation.ReasonElementNotFound, f.session.LastError().Reason)

	_, err = f.session.Select(ctx, 0, domain.SelectionDetails{})
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestSession_SubmitMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, func() *mock.Browser {
		return newBrowser().WithMissing("#pay")
	})
	require.NoError(t, f.session.StartBrowser(ctx))
	_, err := f.session.Search(ctx, busQuery())
	require.NoError(t, err)

	_, err = f.session.Select(ctx, 0, domain.SelectionDetails{})

	assert.ErrorIs(t, err, domain.ErrElementNotFound)
	assert.Equal(t, automation.StateFailed, f.session.State())
}

func TestSession_LaunchFailure(t *testing.T) {
	f := newFixture(t, newBrowser)
	f.launcher.Err = errors.New("chrome not found")

	err := f.session.StartBrowser(context.Background())

	require.Error(t, err)
	assert.Equal(t, automation.StateFailed, f.session.State())
	assert.Equal(t, automation.ReasonBrowserLaunch, f.session.LastError().Reason)
	assert.NoError(t, f.session.Close())
}

func TestSession_CancelledContext(t *testing.T) {
	f := newFixture(t, newBrowser)
	require.NoError(t, f.session.StartBrowser(context.Background()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.session.Search(ctx, busQuery())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, automation.ReasonCancelled, f.session.LastError().Reason)
}

// ===== Teardown Tests =====

func TestSession_CloseIsIdempotent(t *testing.T) {
	f := newFixture(t, newBrowser)
	require.NoError(t, f.session.StartBrowser(context.Background()))

	require.NoError(t, f.session.Close())
	require.NoError(t, f.session.Close())

	assert.Equal(t, 1, f.browser(t).Closed())
	assert.ErrorIs(t, f.session.StartBrowser(context.Background()), domain.ErrIllegalTransition)
}

func TestWithSession_ClosesOnError(t *testing.T) {
	f := newFixture(t, newBrowser)
	boom := errors.New("boom")

	err := automation.WithSession(context.Background(), f.session, func(ctx context.Context, s *automation.Session) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, automation.StateClosed, f.session.State())
	assert.Equal(t, 1, f.browser(t).Closed())
}

func TestWithSession_RecoversPanic(t *testing.T) {
	f := newFixture(t, func() *mock.Browser {
		return newBrowser().WithPanicOn("#search")
	})

	err := automation.WithSession(context.Background(), f.session, func(ctx context.Context, s *automation.Session) error {
		_, err := s.Search(ctx, busQuery())
		return err
	})

	var serr *automation.SessionError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, automation.ReasonPanic, serr.Reason)
	assert.Equal(t, automation.StateClosed, f.session.State())
	assert.Equal(t, automation.ReasonPanic, f.session.LastError().Reason)
	assert.Equal(t, 1, f.browser(t).Closed())
}

func TestFactory_UnknownProfile(t *testing.T) {
	factory := automation.NewFactory(map[string]automation.SiteProfile{"testsite": testProfile()}, mock.NewLauncher(newBrowser), nil, automation.Config{}, nil)

	_, err := factory.NewSession("nope")
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)

	s, err := factory.NewSession("testsite")
	require.NoError(t, err)
	assert.Equal(t, "testsite", s.Provider())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, []string{"testsite"}, factory.Profiles())
}
