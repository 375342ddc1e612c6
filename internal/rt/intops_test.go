package rt

import (
	"math"
	"testing"
)

func TestClzCtzPopcountZero(t *testing.T) {
	if got := Clz32(0); got != 32 {
		t.Errorf("Clz32(0) = %d, want 32", got)
	}
	if got := Clz64(0); got != 64 {
		t.Errorf("Clz64(0) = %d, want 64", got)
	}
	if got := Ctz32(0); got != 32 {
		t.Errorf("Ctz32(0) = %d, want 32", got)
	}
	if got := Ctz64(0); got != 64 {
		t.Errorf("Ctz64(0) = %d, want 64", got)
	}
	if got := Popcount32(0); got != 0 {
		t.Errorf("Popcount32(0) = %d, want 0", got)
	}
}

func TestRotlRotrAreInverses(t *testing.T) {
	for _, x := range []uint32{0, 1, 0x12345678, 0xFFFFFFFF, 0x80000001} {
		for _, y := range []uint32{0, 1, 7, 16, 31} {
			if got := Rotr32(Rotl32(x, y), y); got != x {
				t.Errorf("Rotr32(Rotl32(%#x, %d), %d) = %#x, want %#x", x, y, y, got, x)
			}
		}
	}
}

func TestRotlByZeroIsIdentity(t *testing.T) {
	if got := Rotl32(0xABCD1234, 0); got != 0xABCD1234 {
		t.Errorf("Rotl32(x, 0) = %#x, want x unchanged", got)
	}
	if got := Rotl64(0xABCD1234FFEE0011, 0); got != 0xABCD1234FFEE0011 {
		t.Errorf("Rotl64(x, 0) = %#x, want x unchanged", got)
	}
}

// TestBoundaryScenario1_DivSMinByNegOne covers I32_DIV_S(INT32_MIN, -1).
func TestBoundaryScenario1_DivSMinByNegOne(t *testing.T) {
	in := NewInstance(DefaultConfig(), nil)
	err := in.Invoke(func() {
		DivS32(math.MinInt32, -1)
	})
	if err == nil {
		t.Fatal("expected INT_OVERFLOW trap")
	}
	if te, ok := err.(*TrapError); !ok || te.Kind != TrapIntOverflow {
		t.Fatalf("expected TrapIntOverflow, got %v", err)
	}
}

// TestBoundaryScenario2_RemSMinByNegOne covers I32_REM_S(INT32_MIN, -1) == 0,
// the documented divergence from the CPU's trapping IDIV on x86.
func TestBoundaryScenario2_RemSMinByNegOne(t *testing.T) {
	if got := RemS32(math.MinInt32, -1); got != 0 {
		t.Fatalf("RemS32(MinInt32, -1) = %d, want 0", got)
	}
	if got := RemS64(math.MinInt64, -1); got != 0 {
		t.Fatalf("RemS64(MinInt64, -1) = %d, want 0", got)
	}
}

// TestBoundaryScenario3_DivUByZero covers I32_DIV_U(1, 0).
func TestBoundaryScenario3_DivUByZero(t *testing.T) {
	in := NewInstance(DefaultConfig(), nil)
	err := in.Invoke(func() {
		DivU32(1, 0)
	})
	if err == nil {
		t.Fatal("expected DIV_BY_ZERO trap")
	}
	if te, ok := err.(*TrapError); !ok || te.Kind != TrapDivByZero {
		t.Fatalf("expected TrapDivByZero, got %v", err)
	}
}

func TestDivSOrdinary(t *testing.T) {
	if got := DivS32(7, 2); got != 3 {
		t.Fatalf("DivS32(7, 2) = %d, want 3", got)
	}
	if got := DivS32(-7, 2); got != -3 {
		t.Fatalf("DivS32(-7, 2) = %d, want -3 (truncating toward zero)", got)
	}
}
