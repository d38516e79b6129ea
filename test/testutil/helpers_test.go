package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustParseTime(t *testing.T) {
	tests := []struct {
		name    string
		dateStr string
	}{
		{
			name:    "valid RFC3339",
			dateStr: "2026-03-15T08:00:00Z",
		},
		{
			name:    "valid RFC3339 with IST offset",
			dateStr: "2026-03-15T20:30:00+05:30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseTime(t, tt.dateStr)
			assert.False(t, result.IsZero())
		})
	}
}

func TestMustParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateStr   string
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		{
			name:      "valid date",
			dateStr:   "2026-03-15",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   15,
		},
		{
			name:      "leap year date",
			dateStr:   "2024-02-29",
			wantYear:  2024,
			wantMonth: time.February,
			wantDay:   29,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseDate(t, tt.dateStr)
			assert.Equal(t, tt.wantYear, result.Year())
			assert.Equal(t, tt.wantMonth, result.Month())
			assert.Equal(t, tt.wantDay, result.Day())

			_, offset := result.Zone()
			assert.Equal(t, 5*3600+1800, offset, "dates are midnight IST")
			assert.Zero(t, result.Hour())
		})
	}
}

func TestPtr(t *testing.T) {
	intVal := Ptr(42)
	require.NotNil(t, intVal)
	assert.Equal(t, 42, *intVal)

	strVal := Ptr("Goa")
	require.NotNil(t, strVal)
	assert.Equal(t, "Goa", *strVal)
}

func TestLoadTestJSON(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		shouldContain string
	}{
		{
			name:          "booking.com hotels",
			filename:      "bookingcom/hotels_search.json",
			shouldContain: "Sea Breeze Resort",
		},
		{
			name:          "redbus inventories",
			filename:      "redbus/search.json",
			shouldContain: "Paulo Travels",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := LoadTestJSON(t, tt.filename)
			assert.NotEmpty(t, data)
			assert.True(t, json.Valid(data))
			assert.Contains(t, string(data), tt.shouldContain)
		})
	}
}

func TestPartnerStub(t *testing.T) {
	stub := NewPartnerStub(t, map[string]string{
		"/cities": "redbus/cities.json",
	})

	get := func(path string) (int, string) {
		resp, err := http.Get(stub.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	t.Run("serves fixture", func(t *testing.T) {
		code, body := get("/cities?search=Pune")
		assert.Equal(t, http.StatusOK, code)
		assert.Contains(t, body, "Pune")
	})

	t.Run("unknown path", func(t *testing.T) {
		code, _ := get("/nowhere")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("forced failure", func(t *testing.T) {
		stub.FailPath("/cities", http.StatusServiceUnavailable)
		code, _ := get("/cities")
		assert.Equal(t, http.StatusServiceUnavailable, code)
	})

	assert.Equal(t, 2, stub.Hits("/cities"))
	assert.Equal(t, 1, stub.Hits("/nowhere"))
}
