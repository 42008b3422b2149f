// Package testutil provides relative-tolerance float comparison helpers
// for tests of the sim packages. The current tests in sim/ and
// sim/liouvillean do not import it; they use testify and NearlyEqual.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertInfinite fails the test unless got is a positive-infinity time, the
// convention every root-finder in sim/liouvillean uses for "no future
// collision".
func AssertInfinite(t *testing.T, name string, got float64) {
	t.Helper()
	if !math.IsInf(got, 1) {
		t.Errorf("%s: got %v, want +Inf", name, got)
	}
}
