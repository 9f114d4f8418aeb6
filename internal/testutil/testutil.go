// Package testutil provides shared test helpers and lap-file fixtures.
package testutil

import (
	"strings"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// LapCSV assembles a raw lap file from a header and rows. Rows are joined
// verbatim so tests can include empty (null) cells.
func LapCSV(header string, rows ...string) []byte {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(r)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// SimpleLapCSV builds a minimal lap file with SessionTime, Speed, Distance
// and the car-ahead pair, the shape most normalizer tests need.
func SimpleLapCSV(rows ...string) []byte {
	return LapCSV("SessionTime,Speed,Distance,DriverAhead,DistanceToDriverAhead", rows...)
}
