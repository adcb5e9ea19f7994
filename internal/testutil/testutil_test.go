package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	t.Parallel()

	s := Sine(100, 50, 1, 2, 0)
	if len(s) != 100 {
		t.Fatalf("len = %d, want 100", len(s))
	}
	if s[0] != 0 {
		t.Errorf("s[0] = %v, want 0", s[0])
	}
	// Quarter period at 1Hz and 50Hz is sample 12.5; sample 12 is close to the crest.
	if math.Abs(s[12]-2) > 0.05 {
		t.Errorf("s[12] = %v, want ~2", s[12])
	}
}

func TestConstant(t *testing.T) {
	t.Parallel()

	for _, v := range Constant(10, 3.5) {
		if v != 3.5 {
			t.Fatalf("got %v, want 3.5", v)
		}
	}
	for _, v := range Constant(10, 0) {
		if v != 0 {
			t.Fatalf("got %v, want 0", v)
		}
	}
}

func TestWalk(t *testing.T) {
	t.Parallel()

	x, y, z := Walk(50, 10, 2, 1)
	if len(x) != 500 || len(y) != 500 || len(z) != 500 {
		t.Fatalf("lengths = %d/%d/%d, want 500", len(x), len(y), len(z))
	}
	if z[0] != Gravity {
		t.Errorf("z[0] = %v, want %v", z[0], Gravity)
	}
	if x[0] != 0.3 || y[0] != 0.5 {
		t.Errorf("offsets = %v/%v, want 0.3/0.5", x[0], y[0])
	}
}

func TestAssertPeakSpacing(t *testing.T) {
	t.Parallel()

	fakeT := &testing.T{}
	AssertPeakSpacing(fakeT, []int{3, 20, 40}, 17)
	if fakeT.Failed() {
		t.Error("expected no failure for well spaced peaks")
	}
}

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

func TestMaxAbsDiff(t *testing.T) {
	t.Parallel()

	a := []float64{1, 2, 3, 4}
	b := []float64{1, 2.5, 3, 10}
	if got := MaxAbsDiff(a, b, 0, 3); got != 0.5 {
		t.Errorf("MaxAbsDiff = %v, want 0.5", got)
	}
	if got := MaxAbsDiff(a, b, 0, 4); got != 6 {
		t.Errorf("MaxAbsDiff = %v, want 6", got)
	}
}
