package rt

import "math"

const (
	canonNaN32Bit uint32 = 1 << 22 // quiet-NaN payload bit, spec.md §4.8
	canonNaN64Bit uint64 = 1 << 51

	signMask32 uint32 = 1 << 31
	signMask64 uint64 = 1 << 63
)

// CanonicalNaN32/64 set the quiet-NaN payload bit on an already-NaN bit
// pattern, leaving sign and the rest of the mantissa untouched. Every
// NaN-accepting unary primitive below routes a NaN input through this
// except Fabs, which spec.md's Open Question says must NOT canonicalize.
func CanonicalNaN32(bitsIn uint32) uint32 { return bitsIn | canonNaN32Bit }
func CanonicalNaN64(bitsIn uint64) uint64 { return bitsIn | canonNaN64Bit }

func canon32(x float32) float32 {
	return math.Float32frombits(CanonicalNaN32(math.Float32bits(x)))
}

func canon64(x float64) float64 {
	return math.Float64frombits(CanonicalNaN64(math.Float64bits(x)))
}

// Floor32/64, Ceil32/64, Trunc32/64, Nearest32/64, Sqrt32/64 canonicalize a
// NaN input to a quiet NaN and otherwise apply the standard IEEE operation
// (spec.md §4.8). These are built on math.Float32bits/frombits and
// math.Floor/Ceil/Trunc/Sqrt because no third-party numeric library in the
// corpus offers WebAssembly-correct NaN-canonicalizing float primitives —
// see DESIGN.md.

func Floor32(x float32) float32 {
	if math.IsNaN(float64(x)) {
		return canon32(x)
	}
	return float32(math.Floor(float64(x)))
}

func Floor64(x float64) float64 {
	if math.IsNaN(x) {
		return canon64(x)
	}
	return math.Floor(x)
}

func Ceil32(x float32) float32 {
	if math.IsNaN(float64(x)) {
		return canon32(x)
	}
	return float32(math.Ceil(float64(x)))
}

func Ceil64(x float64) float64 {
	if math.IsNaN(x) {
		return canon64(x)
	}
	return math.Ceil(x)
}

func Trunc32(x float32) float32 {
	if math.IsNaN(float64(x)) {
		return canon32(x)
	}
	return float32(math.Trunc(float64(x)))
}

func Trunc64(x float64) float64 {
	if math.IsNaN(x) {
		return canon64(x)
	}
	return math.Trunc(x)
}

// Nearest32/64 implement round-to-nearest-even (WebAssembly's "nearest"),
// which math.RoundToEven already provides.
func Nearest32(x float32) float32 {
	if math.IsNaN(float64(x)) {
		return canon32(x)
	}
	return float32(math.RoundToEven(float64(x)))
}

func Nearest64(x float64) float64 {
	if math.IsNaN(x) {
		return canon64(x)
	}
	return math.RoundToEven(x)
}

func Sqrt32(x float32) float32 {
	if math.IsNaN(float64(x)) {
		return canon32(x)
	}
	return float32(math.Sqrt(float64(x)))
}

func Sqrt64(x float64) float64 {
	if math.IsNaN(x) {
		return canon64(x)
	}
	return math.Sqrt(x)
}

// Fabs32/64 clear only the sign bit of the bit pattern and never
// canonicalize a NaN payload, by design (spec.md §4.8's stated asymmetry,
// and §9's Open Question: this must not be "fixed" to match the other
// unary primitives).
func Fabs32(x float32) float32 {
	return math.Float32frombits(math.Float32bits(x) &^ signMask32)
}

func Fabs64(x float64) float64 {
	return math.Float64frombits(math.Float64bits(x) &^ signMask64)
}

// Fmin32/64 implement spec.md §4.8: NaN propagates (canonicalized); equal
// zeros resolve by sign, preferring the negative zero; otherwise the
// smaller value wins.
func Fmin32(x, y float32) float32 {
	if math.IsNaN(float64(x)) {
		return canon32(x)
	}
	if math.IsNaN(float64(y)) {
		return canon32(y)
	}
	if x == 0 && y == 0 {
		if math.Signbit(float64(x)) {
			return x
		}
		return y
	}
	if x < y {
		return x
	}
	return y
}

func Fmin64(x, y float64) float64 {
	if math.IsNaN(x) {
		return canon64(x)
	}
	if math.IsNaN(y) {
		return canon64(y)
	}
	if x == 0 && y == 0 {
		if math.Signbit(x) {
			return x
		}
		return y
	}
	if x < y {
		return x
	}
	return y
}

// Fmax32/64 mirror Fmin32/64, preferring the positive zero.
func Fmax32(x, y float32) float32 {
	if math.IsNaN(float64(x)) {
		return canon32(x)
	}
	if math.IsNaN(float64(y)) {
		return canon32(y)
	}
	if x == 0 && y == 0 {
		if !math.Signbit(float64(x)) {
			return x
		}
		return y
	}
	if x > y {
		return x
	}
	return y
}

func Fmax64(x, y float64) float64 {
	if math.IsNaN(x) {
		return canon64(x)
	}
	if math.IsNaN(y) {
		return canon64(y)
	}
	if x == 0 && y == 0 {
		if !math.Signbit(x) {
			return x
		}
		return y
	}
	if x > y {
		return x
	}
	return y
}

// ReinterpretF32ToI32/ReinterpretI32ToF32/ReinterpretF64ToI64/
// ReinterpretI64ToF64 are bitwise casts (spec.md §4.8).
func ReinterpretF32ToI32(x float32) int32 { return int32(math.Float32bits(x)) }
func ReinterpretI32ToF32(x int32) float32 { return math.Float32frombits(uint32(x)) }
func ReinterpretF64ToI64(x float64) int64 { return int64(math.Float64bits(x)) }
func ReinterpretI64ToF64(x int64) float64 { return math.Float64frombits(uint64(x)) }

// Trapping truncation bounds (spec.md §4.8): for signed targets each pair
// is the half-open interval [lo, hi) a non-NaN input must fall within to
// truncate rather than trap; for unsigned targets the lower bound -1 is
// exclusive, so the interval is (-1, hi), since trunc(-1) = -1 has no
// unsigned representation. Every bound here is an exact power of two (or -1), so it is
// representable identically whether the source operand was float32 or
// float64 — only the *argument's* precision (already rounded by its own
// type before reaching these functions) can push a borderline value across
// a bound, which is exactly spec.md §8 boundary scenario 4.
const (
	i32BoundLoS = -2147483648.0
	i32BoundHiS = 2147483648.0
	i32BoundLoU = -1.0
	i32BoundHiU = 4294967296.0
	i64BoundLoS = -9223372036854775808.0
	i64BoundHiS = 9223372036854775808.0
	i64BoundLoU = -1.0
	i64BoundHiU = 18446744073709551616.0
)

func truncCheck(v, lo, hi float64) {
	if math.IsNaN(v) {
		Trap(TrapInvalidConversion)
	}
	if v < lo || v >= hi {
		Trap(TrapIntOverflow)
	}
}

// truncCheckU is truncCheck for unsigned targets: it traps for any input
// at or below -1.
func truncCheckU(v, hi float64) {
	if math.IsNaN(v) {
		Trap(TrapInvalidConversion)
	}
	if v <= i32BoundLoU || v >= hi {
		Trap(TrapIntOverflow)
	}
}

func TruncS32F32(x float32) int32 {
	v := float64(x)
	truncCheck(v, i32BoundLoS, i32BoundHiS)
	return int32(v)
}

func TruncU32F32(x float32) uint32 {
	v := float64(x)
	truncCheckU(v, i32BoundHiU)
	return uint32(v)
}

func TruncS32F64(x float64) int32 {
	truncCheck(x, i32BoundLoS, i32BoundHiS)
	return int32(x)
}

func TruncU32F64(x float64) uint32 {
	truncCheckU(x, i32BoundHiU)
	return uint32(x)
}

func TruncS64F32(x float32) int64 {
	v := float64(x)
	truncCheck(v, i64BoundLoS, i64BoundHiS)
	return int64(v)
}

func TruncU64F32(x float32) uint64 {
	v := float64(x)
	truncCheckU(v, i64BoundHiU)
	return uint64(v)
}

func TruncS64F64(x float64) int64 {
	truncCheck(x, i64BoundLoS, i64BoundHiS)
	return int64(x)
}

func TruncU64F64(x float64) uint64 {
	truncCheckU(x, i64BoundHiU)
	return uint64(x)
}

// Saturating truncation (spec.md §4.8): NaN -> 0; below the low bound ->
// the destination's minimum (signed), at or below -1 -> 0 (unsigned);
// at-or-above the high
// bound -> the destination's maximum; otherwise truncate toward zero.

func TruncSatS32F32(x float32) int32 { return truncSatS32(float64(x)) }
func TruncSatS32F64(x float64) int32 { return truncSatS32(x) }

func truncSatS32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < i32BoundLoS:
		return math.MinInt32
	case v >= i32BoundHiS:
		return math.MaxInt32
	default:
		return int32(v)
	}
}

func TruncSatU32F32(x float32) uint32 { return truncSatU32(float64(x)) }
func TruncSatU32F64(x float64) uint32 { return truncSatU32(x) }

func truncSatU32(v float64) uint32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= i32BoundLoU:
		return 0
	case v >= i32BoundHiU:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}

func TruncSatS64F32(x float32) int64 { return truncSatS64(float64(x)) }
func TruncSatS64F64(x float64) int64 { return truncSatS64(x) }

func truncSatS64(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < i64BoundLoS:
		return math.MinInt64
	case v >= i64BoundHiS:
		return math.MaxInt64
	default:
		return int64(v)
	}
}

func TruncSatU64F32(x float32) uint64 { return truncSatU64(float64(x)) }
func TruncSatU64F64(x float64) uint64 { return truncSatU64(x) }

func truncSatU64(v float64) uint64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= i64BoundLoU:
		return 0
	case v >= i64BoundHiU:
		return math.MaxUint64
	default:
		return uint64(v)
	}
}
