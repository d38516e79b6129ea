// Package integration provides helpers and integration tests for the travel
// booking system. The tests drive the real router, use cases, extractor,
// supervisor and partner adapters end to end, with partner APIs replaced by
// fixture-backed stubs and the payment gateway by an in-memory fake.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/tripsmith/travel-booking-aggregator/internal/adapter/http"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/middleware"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/provider/bookingcom"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/provider/redbus"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/extractor"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/storage"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
	"github.com/tripsmith/travel-booking-aggregator/internal/monitor"
	"github.com/tripsmith/travel-booking-aggregator/internal/usecase"
	"github.com/tripsmith/travel-booking-aggregator/test/mock"
	"github.com/tripsmith/travel-booking-aggregator/test/testutil"
)

// Now is the fixed time every test server runs at. Relative dates in
// prompts ("tomorrow") resolve against it.
const Now = "2026-03-01T09:00:00+05:30"

// TestUser is the identity sent by Request when no user is given.
const TestUser = "user-1"

// Env configures a test server.
type Env struct {
	Providers []domain.Provider
	Payments  domain.PaymentGateway
	Sink      domain.AlertSink
	Config    *usecase.Config

	// Schedule is the monitor retry schedule; defaults to hourly.
	Schedule string
}

// TestServer wraps an Echo instance wired like the production server and
// exposes the collaborators tests need to inspect.
type TestServer struct {
	Echo       *echo.Echo
	Registry   *domain.ProviderRegistry
	Store      *storage.MemoryStore
	Clock      *timeutil.MockClock
	Supervisor *monitor.Supervisor
	Search     usecase.SearchUseCase
	Automated  *usecase.AutomatedBooking
}

// NewTestServer builds the full stack for env. The monitor supervisor runs
// until the test ends.
func NewTestServer(t *testing.T, env Env) *TestServer {
	t.Helper()

	clock := timeutil.NewMockClockFromString(Now)
	log := logger.Nop()

	registry := domain.NewProviderRegistry()
	for _, p := range env.Providers {
		registry.Register(p)
	}

	store := storage.NewMemoryStore(clock)
	queryExtractor := extractor.New(extractor.WithClock(clock))
	search := usecase.NewSearchUseCase(queryExtractor, registry, env.Config, clock, log)
	automated := usecase.NewAutomatedBooking(registry, store, log)

	searcher := monitor.SearchFunc(func(ctx context.Context, query domain.StructuredQuery) ([]domain.ListingItem, error) {
		result, err := search.SearchQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		return result.Items, nil
	})
	supervisor, err := monitor.NewSupervisor(searcher, env.Sink, monitor.Config{Schedule: env.Schedule}, clock, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		supervisor.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		shutdownCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
		defer stop()
		_ = automated.Shutdown(shutdownCtx)
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.Setup(e, log)

	handler := httpAdapter.NewHandler(httpAdapter.Services{
		Extractor: queryExtractor,
		Search:    search,
		Fares:     usecase.NewFareComparison(registry, env.Config, log),
		Bookings:  usecase.NewBookingService(registry, store, env.Payments, domain.DefaultCurrency, log),
		Automated: automated,
		Monitors:  supervisor,
		Registry:  registry,
		Logger:    log,
	})
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:       e,
		Registry:   registry,
		Store:      store,
		Clock:      clock,
		Supervisor: supervisor,
		Search:     search,
		Automated:  automated,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method string
	Path   string
	Body   interface{}

	// User is sent as the identity header. Anonymous skips the header.
	User      string
	Anonymous bool
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	switch b := req.Body.(type) {
	case nil:
		bodyReader = bytes.NewReader(nil)
	case string:
		bodyReader = bytes.NewReader([]byte(b))
	default:
		bodyBytes, _ := json.Marshal(b)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)
	if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if !req.Anonymous {
		user := req.User
		if user == "" {
			user = TestUser
		}
		httpReq.Header.Set(middleware.UserIDHeader, user)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// SearchRequest posts a smart search prompt.
func (ts *TestServer) SearchRequest(prompt string) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/search",
		Body:   httpAdapter.SearchRequest{Prompt: prompt},
	})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{
		Method:    http.MethodGet,
		Path:      "/health",
		Anonymous: true,
	})
}

// Decode unmarshals the response body into v and fails the test on error.
func (r Response) Decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body, v), "body: %s", r.Body)
}

// SearchResponse decodes the body as a search response.
func (r Response) SearchResponse(t *testing.T) httpAdapter.SearchResponseDTO {
	t.Helper()
	var resp httpAdapter.SearchResponseDTO
	r.Decode(t, &resp)
	return resp
}

// ErrorBody is the error envelope every failed request carries.
type ErrorBody struct {
	Status  string            `json:"status"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

// Error decodes the body as an error envelope.
func (r Response) Error(t *testing.T) ErrorBody {
	t.Helper()
	var body ErrorBody
	r.Decode(t, &body)
	return body
}

// Partners is a pair of real partner adapters talking to fixture stubs.
type Partners struct {
	BookingCom     *bookingcom.Adapter
	BookingComStub *testutil.PartnerStub
	RedBus         *redbus.Adapter
	RedBusStub     *testutil.PartnerStub
}

// NewPartners starts stubs for the Booking.com and RedBus APIs serving the
// fixtures under test/testdata, and adapters pointed at them.
func NewPartners(t *testing.T) Partners {
	t.Helper()

	bcStub := testutil.NewPartnerStub(t, map[string]string{
		"/cities":                "bookingcom/cities.json",
		"/hotels/search":         "bookingcom/hotels_search.json",
		"/hotels/4410021/blocks": "bookingcom/blocks.json",
		"/bookings":              "bookingcom/booking.json",
	})
	rbStub := testutil.NewPartnerStub(t, map[string]string{
		"/cities":                     "redbus/cities.json",
		"/search":                     "redbus/search.json",
		"/layout/RB-INV-501":          "redbus/layout.json",
		"/booking/initiate":           "redbus/initiate.json",
		"/booking/status/RB-TKT-9001": "redbus/status.json",
	})

	clock := timeutil.NewMockClockFromString(Now)
	return Partners{
		BookingCom: bookingcom.NewAdapter(bookingcom.Config{
			BaseURL: bcStub.URL,
			APIKey:  "bc-test",
			Timeout: 2 * time.Second,
		}, bcStub.Client(), logger.Nop()),
		BookingComStub: bcStub,
		RedBus: redbus.NewAdapter(redbus.Config{
			BaseURL: rbStub.URL,
			APIKey:  "rb-test",
			Timeout: 2 * time.Second,
		}, rbStub.Client(), clock, logger.Nop()),
		RedBusStub: rbStub,
	}
}

// Providers returns both adapters in registration order.
func (p Partners) Providers() []domain.Provider {
	return []domain.Provider{p.BookingCom, p.RedBus}
}

// BookingBody returns a valid booking body for provider and externalID.
func BookingBody(provider, externalID string) httpAdapter.InitiateBookingRequest {
	return httpAdapter.InitiateBookingRequest{
		Provider:   provider,
		ExternalID: externalID,
		Customer: httpAdapter.CustomerDTO{
			Name:  "Asha Rao",
			Email: "asha@example.com",
			Phone: "+919800000000",
		},
	}
}

// DefaultProviders returns mock hotel and bus providers with sample data.
func DefaultProviders() (*mock.Provider, *mock.Provider) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	hotels := mock.NewProvider("staysy", domain.KindHotel).WithItems(mock.SampleHotels("staysy", 3))
	buses := mock.NewProvider("busline", domain.KindTransport).WithItems(mock.SampleBuses("busline", "Pune", "Goa", day, 3))
	return hotels, buses
}
