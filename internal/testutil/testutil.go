// Package testutil provides shared test fixtures for binary inputs and
// HTTP assertions.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// Triplets flattens byte triplets into one raw input buffer.
func Triplets(ts ...[3]byte) []byte {
	raw := make([]byte, 0, len(ts)*3)
	for _, t := range ts {
		raw = append(raw, t[:]...)
	}
	return raw
}

// RepeatingInput returns n bytes cycling through 0..period-1. A period that
// is a multiple of three and at most 255 yields period/3 distinct triplets.
func RepeatingInput(n, period int) []byte {
	raw := make([]byte, n)
	for i := range raw {
		raw[i] = byte(i % period)
	}
	return raw
}

// WriteInputFile writes data to a file under t.TempDir and returns its path.
func WriteInputFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertContentType checks the Content-Type header of a recorded response.
func AssertContentType(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if got := rec.Header().Get("Content-Type"); got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}

// Serve runs one request against h and returns the recorder. Requests come
// from loopback so guarded debug pages are reachable.
func Serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
