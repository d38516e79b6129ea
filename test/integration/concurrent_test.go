package integration

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/tripsmith/travel-booking-aggregator/internal/adapter/http"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/test/mock"
)

const busPrompt = "bus from Pune to Goa on 15th March"

// TestConcurrent_MultipleSearchRequests tests that multiple concurrent
// search requests are handled correctly without interference.
func TestConcurrent_MultipleSearchRequests(t *testing.T) {
	// Arrange
	provider := mock.NewProvider("busline", domain.KindTransport).
		WithDelay(10 * time.Millisecond). // Small delay to increase overlap
		WithItems(mock.SampleBuses("busline", "Pune", "Goa", busDay, 3))
	ts := NewTestServer(t, Env{Providers: []domain.Provider{provider}})

	numRequests := 10
	var wg sync.WaitGroup
	results := make([]Response, numRequests)

	// Act
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = ts.SearchRequest(busPrompt)
		}(i)
	}
	wg.Wait()

	// Assert
	for i := 0; i < numRequests; i++ {
		require.Equal(t, http.StatusOK, results[i].Code, "request %d should succeed", i)
		resp := results[i].SearchResponse(t)
		assert.Len(t, resp.Results, 3, "request %d should have 3 listings", i)
	}
	assert.Equal(t, numRequests, provider.CallCount())
}

// TestConcurrent_IndependentResults tests that each concurrent request
// receives its own independent results.
func TestConcurrent_IndependentResults(t *testing.T) {
	hotels, buses := DefaultProviders()
	buses.WithDelay(20 * time.Millisecond)
	hotels.WithDelay(5 * time.Millisecond)
	ts := NewTestServer(t, Env{Providers: []domain.Provider{hotels, buses}})

	prompts := []string{
		busPrompt,
		"hotel in Goa",
		"AC bus from Pune to Goa on 15th March",
		"hotel in Goa under 2600",
	}
	want := []int{3, 3, 2, 2}

	var wg sync.WaitGroup
	results := make([]Response, len(prompts)*3)
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = ts.SearchRequest(prompts[idx%len(prompts)])
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		require.Equal(t, http.StatusOK, r.Code)
		resp := r.SearchResponse(t)
		assert.Len(t, resp.Results, want[i%len(prompts)], "prompt %q", prompts[i%len(prompts)])
	}
}

// TestConcurrent_MixedSuccessAndFailure checks partial failures under load.
func TestConcurrent_MixedSuccessAndFailure(t *testing.T) {
	ok := mock.NewProvider("busline", domain.KindTransport).WithItems(mock.SampleBuses("busline", "Pune", "Goa", busDay, 2))
	broken := mock.NewProvider("broken", domain.KindTransport).WithError(domain.NewProviderUnavailableError("broken"))
	ts := NewTestServer(t, Env{Providers: []domain.Provider{ok, broken}})

	numRequests := 8
	var wg sync.WaitGroup
	results := make([]Response, numRequests)
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = ts.SearchRequest(busPrompt)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, http.StatusOK, r.Code)
		resp := r.SearchResponse(t)
		assert.Len(t, resp.Results, 2)
		assert.Equal(t, []string{"broken"}, resp.Metadata.ProvidersFailed)
	}
	assert.Equal(t, numRequests, broken.CallCount())
}

// TestConcurrent_Bookings checks that simultaneous bookings each get their
// own stored record and payment link.
func TestConcurrent_Bookings(t *testing.T) {
	hotels, _ := DefaultProviders()
	gateway := mock.NewPaymentGateway()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{hotels}, Payments: gateway})

	numRequests := 12
	var wg sync.WaitGroup
	results := make([]Response, numRequests)
	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			body := BookingBody("staysy", fmt.Sprintf("STAYSY-H%d", idx%3+1))
			body.Amount = 2000
			results[idx] = ts.Do(Request{
				Method: http.MethodPost,
				Path:   "/api/v1/bookings",
				Body:   body,
				User:   fmt.Sprintf("user-%d", idx%4),
			})
		}(i)
	}
	wg.Wait()

	ids := map[string]bool{}
	urls := map[string]bool{}
	for _, r := range results {
		require.Equal(t, http.StatusCreated, r.Code, string(r.Body))
		var created httpAdapter.BookingInitiatedDTO
		r.Decode(t, &created)
		ids[created.BookingID] = true
		urls[created.PaymentURL] = true
	}
	assert.Len(t, ids, numRequests, "booking IDs must be unique")
	assert.Len(t, urls, numRequests, "each booking gets its own link")
	assert.Len(t, gateway.Links(), numRequests)
	assert.Len(t, hotels.Selections(), numRequests)

	// Every user sees exactly their own three bookings.
	for u := 0; u < 4; u++ {
		var list httpAdapter.BookingListResponseDTO
		ts.Do(Request{Method: http.MethodGet, Path: "/api/v1/bookings", User: fmt.Sprintf("user-%d", u)}).Decode(t, &list)
		assert.Equal(t, 3, list.Count)
	}
}

// TestConcurrent_MonitorStartStop starts and stops many monitors at once
// and checks the supervisor ends with none running.
func TestConcurrent_MonitorStartStop(t *testing.T) {
	_, buses := DefaultProviders()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: mock.NewAlertSink()})

	numSubjects := 20
	var wg sync.WaitGroup
	starts := make([]Response, numSubjects)
	for i := 0; i < numSubjects; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			starts[idx] = ts.Do(Request{
				Method: http.MethodPost,
				Path:   "/api/v1/monitors",
				Body: httpAdapter.StartMonitorRequest{
					SubjectID: fmt.Sprintf("trip-%d", idx),
					Prompt:    busPrompt,
					Threshold: 500, // never reached, so every monitor keeps running
				},
			})
		}(i)
	}
	wg.Wait()

	for i, r := range starts {
		require.Equal(t, http.StatusCreated, r.Code, "subject %d: %s", i, r.Body)
	}
	handles, err := ts.Supervisor.Monitors(context.Background())
	require.NoError(t, err)
	assert.Len(t, handles, numSubjects)

	stops := make([]Response, numSubjects)
	for i := 0; i < numSubjects; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			stops[idx] = ts.Do(Request{Method: http.MethodDelete, Path: fmt.Sprintf("/api/v1/monitors/trip-%d", idx)})
		}(i)
	}
	wg.Wait()

	for i, r := range stops {
		assert.Equal(t, http.StatusOK, r.Code, "subject %d", i)
	}
	handles, err = ts.Supervisor.Monitors(context.Background())
	require.NoError(t, err)
	assert.Empty(t, handles)
}

// TestConcurrent_NoRaceCondition mixes every kind of request. It is meant
// to be run with -race.
func TestConcurrent_NoRaceCondition(t *testing.T) {
	hotels, buses := DefaultProviders()
	ts := NewTestServer(t, Env{
		Providers: []domain.Provider{hotels, buses},
		Payments:  mock.NewPaymentGateway(),
		Sink:      mock.NewAlertSink(),
	})

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			switch idx % 5 {
			case 0:
				ts.SearchRequest(busPrompt)
			case 1:
				ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/fares/compare", Body: httpAdapter.FareCompareRequest{Prompt: busPrompt}})
			case 2:
				body := BookingBody("staysy", "STAYSY-H1")
				body.Amount = 2000
				ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/bookings", Body: body})
			case 3:
				ts.Do(Request{Method: http.MethodGet, Path: "/api/v1/bookings"})
			case 4:
				ts.HealthRequest()
			}
		}(i)
	}
	wg.Wait()

	// Bus prompts never reach the hotel provider; bookings do.
	assert.Zero(t, hotels.CallCount())
	assert.Len(t, hotels.Selections(), 6)
	assert.Equal(t, 12, buses.CallCount())
}
