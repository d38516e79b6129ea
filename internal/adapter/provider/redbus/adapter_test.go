package redbus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

var testClock = timeutil.NewMockClock(time.Date(2024, 3, 10, 9, 0, 0, 0, timeutil.MustGetLocation(timeutil.IST)))

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAdapter(Config{BaseURL: srv.URL, APIKey: "rb-key"}, srv.Client(), testClock, logger.Nop())
}

// ===== Identity Tests =====

func TestAdapter_Name(t *testing.T) {
	a := NewAdapter(Config{}, nil, nil, nil)
	assert.Equal(t, "redbus", a.Name())
	assert.Equal(t, domain.KindTransport, a.Kind())
}

// ===== Search Tests =====

func TestAdapter_Search(t *testing.T) {
	var gotReq searchRequest
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rb-key", r.Header.Get("apiKey"))
		switch r.URL.Path {
		case "/cities":
			switch r.URL.Query().Get("search") {
			case "Delhi":
				_, _ = w.Write([]byte(`[{"id": 733, "name": "Delhi"}]`))
			default:
				_, _ = w.Write([]byte(`[]`))
			}
		case "/search":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
			_, _ = w.Write([]byte(`{
				"inventories": [
					{
						"id": "INV-1",
						"travelsName": "Zingbus",
						"busType": "Volvo A/C Sleeper (2+1)",
						"departureTime": "21:30",
						"arrivalTime": "09:15",
						"duration": "11h 45m",
						"availableSeats": 12,
						"fare": 1299,
						"amenities": ["Charging Point", "Blanket"],
						"rating": 4.3,
						"cancellationPolicy": "50% refund before 12h"
					},
					{
						"id": 42,
						"travelsName": "HRTC",
						"busType": "Ordinary",
						"departureTime": "2024-06-15T06:00:00+05:30",
						"fare": "850"
					},
					{
						"id": "INV-3",
						"travelsName": ""
					}
				]
			}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	depart := time.Date(2024, 6, 15, 0, 0, 0, 0, timeutil.MustGetLocation(timeutil.IST))
	items, err := a.Search(context.Background(), domain.StructuredQuery{
		Origin:        "Delhi",
		Destination:   "Manali",
		Dates:         []time.Time{depart},
		TransportType: domain.TransportBus,
	})

	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Delhi", gotReq.Source)
	assert.Equal(t, "Manali", gotReq.Destination)
	assert.Equal(t, "2024-06-15", gotReq.DOJ)
	assert.Equal(t, "733", gotReq.SrcID)
	assert.Empty(t, gotReq.DestID)

	first := items[0]
	assert.Equal(t, "redbus", first.SourceProvider)
	assert.Equal(t, "INV-1", first.ExternalID)
	assert.Equal(t, domain.KindTransport, first.Kind)
	assert.Equal(t, "https://www.redbus.in/booking/select-seat/INV-1", first.RawBookingURL)
	require.NotNil(t, first.Price)
	assert.Equal(t, 1299.0, first.Price.Amount)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4.3, *first.Rating)
	require.NotNil(t, first.Transport)
	assert.Equal(t, "Zingbus", first.Transport.Operator)
	require.NotNil(t, first.Transport.DepartureTime)
	require.NotNil(t, first.Transport.ArrivalTime)
	assert.Equal(t, 21, first.Transport.DepartureTime.Hour())
	assert.Equal(t, 16, first.Transport.ArrivalTime.Day())
	require.NotNil(t, first.Transport.SeatsAvailable)
	assert.Equal(t, 12, *first.Transport.SeatsAvailable)

	second := items[1]
	assert.Equal(t, "42", second.ExternalID)
	assert.Nil(t, second.Rating)
	require.NotNil(t, second.Price)
	assert.Equal(t, 850.0, second.Price.Amount)
	require.NotNil(t, second.Transport.DepartureTime)
	assert.Nil(t, second.Transport.ArrivalTime)
}

func TestAdapter_Search_DefaultsToToday(t *testing.T) {
	var gotReq searchRequest
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		}
		_, _ = w.Write([]byte(`{"inventories": []}`))
	})

	items, err := a.Search(context.Background(), domain.StructuredQuery{Origin: "Pune", Destination: "Goa"})

	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "2024-03-10", gotReq.DOJ)
}

func TestAdapter_Search_IncompleteRoute(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a full route")
	})

	tests := []struct {
		name  string
		query domain.StructuredQuery
	}{
		{name: "empty", query: domain.StructuredQuery{}},
		{name: "no destination", query: domain.StructuredQuery{Origin: "Delhi"}},
		{name: "same city", query: domain.StructuredQuery{Origin: "Delhi", Destination: "Delhi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := a.Search(context.Background(), tt.query)
			assert.NoError(t, err)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestAdapter_Search_NonSuccessIsAbsorbed(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cities" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
	})

	items, err := a.Search(context.Background(), domain.StructuredQuery{Origin: "Delhi", Destination: "Jaipur"})
	assert.NoError(t, err)
	assert.Empty(t, items)
}

// ===== Layout Tests =====

func TestAdapter_FetchLayout(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/layout/INV-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"seats": [
			{"seatNumber": "L1", "berth": "LOWER", "available": true, "fare": 1299},
			{"seatNumber": "U1", "berth": "UPPER", "available": false, "fare": "1199"},
			{"seatNumber": "7", "available": true}
		]}`))
	})

	layout, err := a.FetchLayout(context.Background(), "INV-1")

	require.NoError(t, err)
	assert.Equal(t, "INV-1", layout.ExternalID)
	require.Len(t, layout.Units, 3)
	assert.Equal(t, "L1 (lower)", layout.Units[0].Label)
	assert.Equal(t, 1199.0, *layout.Units[1].Price)
	assert.Nil(t, layout.Units[2].Price)
	assert.Len(t, layout.Available(), 2)
}

func TestAdapter_FetchLayout_Error(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := a.FetchLayout(context.Background(), "missing")

	var perr *domain.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "redbus", perr.Provider)
}

// ===== Selection Tests =====

func TestAdapter_InitiateSelection(t *testing.T) {
	var gotReq initiateRequest
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/booking/initiate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"bookingReference": "RB-991", "paymentUrl": "https://pay.redbus.in/RB-991", "totalAmount": "2598"}`))
	})

	res, err := a.InitiateSelection(context.Background(), "INV-1", domain.SelectionDetails{
		UserID:    "u-1",
		Units:     []string{"L1", "L2"},
		Customer:  domain.Customer{Name: "Asha", Email: "asha@example.com"},
		Passenger: map[string]string{"age": "31"},
	})

	require.NoError(t, err)
	assert.Equal(t, "RB-991", res.ProviderReference)
	assert.Equal(t, "https://pay.redbus.in/RB-991", res.PaymentURL)
	assert.Equal(t, 2598.0, res.TotalAmount)
	assert.Equal(t, "INV-1", gotReq.InventoryID)
	assert.Equal(t, []string{"L1", "L2"}, gotReq.SeatNumbers)
	assert.Equal(t, "u-1", gotReq.Passengers["user_id"])
	assert.Equal(t, "31", gotReq.Passengers["age"])
	assert.Equal(t, "Asha", gotReq.Passengers["name"])
}

func TestAdapter_InitiateSelection_NoSeats(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without seats")
	})

	_, err := a.InitiateSelection(context.Background(), "INV-1", domain.SelectionDetails{})
	assert.True(t, domain.IsInvalidRequest(err))
}

// ===== Status Tests =====

func TestAdapter_CheckStatus(t *testing.T) {
	tests := []struct {
		status string
		want   domain.PaymentStatus
	}{
		{"CONFIRMED", domain.PaymentPaid},
		{"booked", domain.PaymentPaid},
		{"PENDING", domain.PaymentPending},
		{"INITIATED", domain.PaymentPending},
		{"CANCELLED", domain.PaymentFailed},
		{"FAILED", domain.PaymentFailed},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/booking/status/RB-991", r.URL.Path)
				_ = json.NewEncoder(w).Encode(statusResponse{Status: tt.status, PNR: "PNR1"})
			})

			got, err := a.CheckStatus(context.Background(), "RB-991")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
