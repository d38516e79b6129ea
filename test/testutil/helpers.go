// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/timeutil"
)

// LoadTestJSON loads a JSON file from the testdata directory.
// The filename should be relative to the testdata directory.
func LoadTestJSON(t *testing.T, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(testdataDir(t), filename))
	if err != nil {
		t.Fatalf("Failed to load test file %s: %v", filename, err)
	}
	return data
}

func testdataDir(t *testing.T) string {
	t.Helper()

	// Get the path to testdata relative to this file
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}

	// testutil is in test/testutil
	return filepath.Join(filepath.Dir(currentFile), "..", "testdata")
}

// PartnerStub is a fake partner API that answers each path with a fixture
// from the testdata directory and counts the requests it served.
type PartnerStub struct {
	*httptest.Server

	mu    sync.Mutex
	hits  map[string]int
	fails map[string]int
}

// NewPartnerStub starts a stub serving routes, a map from URL path to a
// fixture file under testdata. Unknown paths answer 404. The server is
// closed when the test ends.
func NewPartnerStub(t *testing.T, routes map[string]string) *PartnerStub {
	t.Helper()

	bodies := make(map[string][]byte, len(routes))
	for path, file := range routes {
		bodies[path] = LoadTestJSON(t, file)
	}

	stub := &PartnerStub{hits: make(map[string]int), fails: make(map[string]int)}
	stub.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.hits[r.URL.Path]++
		status := stub.fails[r.URL.Path]
		stub.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(stub.Close)
	return stub
}

// FailPath makes every later request to path answer with status.
func (s *PartnerStub) FailPath(path string, status int) {
	s.mu.Lock()
	s.fails[path] = status
	s.mu.Unlock()
}

// Hits returns how many requests path received.
func (s *PartnerStub) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// MustParseDate parses a YYYY-MM-DD date at midnight India time, the zone
// every travel date is interpreted in.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := timeutil.ParseInTimezone("2006-01-02", dateStr, timeutil.IST)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}
