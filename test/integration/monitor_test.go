package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpAdapter "github.com/tripsmith/travel-booking-aggregator/internal/adapter/http"
	"github.com/tripsmith/travel-booking-aggregator/internal/adapter/http/response"
	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/test/mock"
)

func startMonitor(ts *TestServer, user, subject string, threshold float64) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/monitors",
		User:   user,
		Body: httpAdapter.StartMonitorRequest{
			SubjectID: subject,
			Prompt:    busPrompt,
			Threshold: threshold,
		},
	})
}

func waitForAlert(t *testing.T, sink *mock.AlertSink) domain.PriceAlert {
	t.Helper()
	select {
	case alert := <-sink.Alerts():
		return alert
	case <-time.After(2 * time.Second):
		t.Fatal("no price alert delivered")
		return domain.PriceAlert{}
	}
}

func assertNoAlert(t *testing.T, sink *mock.AlertSink) {
	t.Helper()
	select {
	case alert := <-sink.Alerts():
		t.Fatalf("unexpected alert for %s at %.0f", alert.SubjectID, alert.MinPrice)
	case <-time.After(100 * time.Millisecond):
	}
}

// waitForSleep blocks until every running monitor is parked on its
// schedule timer.
func waitForSleep(t *testing.T, ts *TestServer, monitors int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return ts.Clock.Waiters() >= monitors
	}, 2*time.Second, 5*time.Millisecond)
}

// ===== Alerting Tests =====

func TestMonitor_AlertsImmediatelyWhenBelowThreshold(t *testing.T) {
	// Arrange
	_, buses := DefaultProviders()
	sink := mock.NewAlertSink()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: sink})

	// Act
	resp := startMonitor(ts, "", "goa-trip", 900)

	// Assert
	require.Equal(t, http.StatusCreated, resp.Code, string(resp.Body))
	var created httpAdapter.MonitorResponseDTO
	resp.Decode(t, &created)
	assert.Equal(t, "goa-trip", created.Monitor.SubjectID)
	assert.Equal(t, 900.0, created.Monitor.Threshold)
	assert.Equal(t, "Goa", created.Monitor.Query.Destination)

	alert := waitForAlert(t, sink)
	assert.Equal(t, TestUser+"/goa-trip", alert.SubjectID)
	assert.Equal(t, 800.0, alert.MinPrice)
	assert.Equal(t, 900.0, alert.Threshold)
	assert.Equal(t, "BUSLINE-B1", alert.Item.ExternalID)

	// A monitor finishes once it has alerted.
	require.Eventually(t, func() bool {
		var list httpAdapter.MonitorListResponseDTO
		ts.Do(Request{Method: http.MethodGet, Path: "/api/v1/monitors"}).Decode(t, &list)
		return list.Count == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, sink.Delivered(), 1)
}

func TestMonitor_AlertsAfterPriceDrop(t *testing.T) {
	_, buses := DefaultProviders()
	sink := mock.NewAlertSink()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: sink})

	resp := startMonitor(ts, "", "goa-trip", 700)
	require.Equal(t, http.StatusCreated, resp.Code, string(resp.Body))

	// The first search finds nothing under 700.
	waitForSleep(t, ts, 1)
	assert.Equal(t, 1, buses.CallCount())
	assertNoAlert(t, sink)

	// Fares drop before the next scheduled check.
	cheaper := mock.SampleBuses("busline", "Pune", "Goa", busDay, 2)
	cheaper[1].Price = domain.NewMoney(650, domain.DefaultCurrency)
	buses.WithItems(cheaper)
	ts.Clock.Advance(time.Hour)

	alert := waitForAlert(t, sink)
	assert.Equal(t, 650.0, alert.MinPrice)
	assert.Equal(t, "BUSLINE-B2", alert.Item.ExternalID)
	assert.Equal(t, 2, buses.CallCount())
}

func TestMonitor_KeepsCheckingOnSchedule(t *testing.T) {
	_, buses := DefaultProviders()
	sink := mock.NewAlertSink()
	ts := NewTestServer(t, Env{
		Providers: []domain.Provider{buses},
		Sink:      sink,
		Schedule:  "@every 15m",
	})

	require.Equal(t, http.StatusCreated, startMonitor(ts, "", "", 500).Code)

	for want := 1; want <= 3; want++ {
		waitForSleep(t, ts, 1)
		assert.Equal(t, want, buses.CallCount())
		ts.Clock.Advance(15 * time.Minute)
	}
	assertNoAlert(t, sink)
}

// ===== Lifecycle Tests =====

func TestMonitor_StopPreventsAlerts(t *testing.T) {
	_, buses := DefaultProviders()
	sink := mock.NewAlertSink()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: sink})

	require.Equal(t, http.StatusCreated, startMonitor(ts, "", "goa-trip", 700).Code)
	waitForSleep(t, ts, 1)

	resp := ts.Do(Request{Method: http.MethodDelete, Path: "/api/v1/monitors/goa-trip"})
	require.Equal(t, http.StatusOK, resp.Code)

	cheaper := mock.SampleBuses("busline", "Pune", "Goa", busDay, 1)
	cheaper[0].Price = domain.NewMoney(300, domain.DefaultCurrency)
	buses.WithItems(cheaper)
	ts.Clock.Advance(time.Hour)
	assertNoAlert(t, sink)
	assert.Equal(t, 1, buses.CallCount())

	// Stopping twice is a 404.
	resp = ts.Do(Request{Method: http.MethodDelete, Path: "/api/v1/monitors/goa-trip"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, response.CodeNotFound, resp.Error(t).Code)
}

func TestMonitor_DefaultSubjectIsTheCaller(t *testing.T) {
	_, buses := DefaultProviders()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: mock.NewAlertSink()})

	require.Equal(t, http.StatusCreated, startMonitor(ts, "", "", 500).Code)

	handles, err := ts.Supervisor.Monitors(t.Context())
	require.NoError(t, err)
	require.Len(t, handles, 1)
	assert.Equal(t, TestUser, handles[0].SubjectID)

	resp := ts.Do(Request{Method: http.MethodDelete, Path: "/api/v1/monitors"})
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMonitor_DuplicateSubjectConflicts(t *testing.T) {
	_, buses := DefaultProviders()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: mock.NewAlertSink()})

	require.Equal(t, http.StatusCreated, startMonitor(ts, "", "goa-trip", 500).Code)

	resp := startMonitor(ts, "", "goa-trip", 600)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, response.CodeConflict, resp.Error(t).Code)

	// The same subject name under another user is a different monitor.
	resp = startMonitor(ts, "bob", "goa-trip", 600)
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestMonitor_ListIsScopedToCaller(t *testing.T) {
	_, buses := DefaultProviders()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: mock.NewAlertSink()})

	require.Equal(t, http.StatusCreated, startMonitor(ts, "alice", "goa", 500).Code)
	require.Equal(t, http.StatusCreated, startMonitor(ts, "alice", "mumbai", 500).Code)
	require.Equal(t, http.StatusCreated, startMonitor(ts, "bob", "goa", 500).Code)

	var alice, bob httpAdapter.MonitorListResponseDTO
	ts.Do(Request{Method: http.MethodGet, Path: "/api/v1/monitors", User: "alice"}).Decode(t, &alice)
	ts.Do(Request{Method: http.MethodGet, Path: "/api/v1/monitors", User: "bob"}).Decode(t, &bob)

	assert.Equal(t, 2, alice.Count)
	assert.Equal(t, 1, bob.Count)
	assert.Equal(t, "goa", bob.Monitors[0].SubjectID)

	// Bob cannot stop Alice's monitor: it resolves to his own subject.
	resp := ts.Do(Request{Method: http.MethodDelete, Path: "/api/v1/monitors/mumbai", User: "bob"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestMonitor_Validation(t *testing.T) {
	_, buses := DefaultProviders()
	ts := NewTestServer(t, Env{Providers: []domain.Provider{buses}, Sink: mock.NewAlertSink()})

	tests := []struct {
		name string
		body interface{}
	}{
		{"zero threshold", httpAdapter.StartMonitorRequest{Prompt: busPrompt}},
		{"negative threshold", httpAdapter.StartMonitorRequest{Prompt: busPrompt, Threshold: -5}},
		{"missing prompt", httpAdapter.StartMonitorRequest{Threshold: 500}},
		{"malformed body", `{"prompt":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.Do(Request{Method: http.MethodPost, Path: "/api/v1/monitors", Body: tt.body})
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}

	handles, err := ts.Supervisor.Monitors(t.Context())
	require.NoError(t, err)
	assert.Empty(t, handles)
}
