package rt

import "math/bits"

// Clz32 counts leading zeros, defined as 32 when x == 0 (spec.md §4.7).
func Clz32(x uint32) uint32 { return uint32(bits.LeadingZeros32(x)) }

// Clz64 counts leading zeros, defined as 64 when x == 0.
func Clz64(x uint64) uint64 { return uint64(bits.LeadingZeros64(x)) }

// Ctz32 counts trailing zeros, defined as 32 when x == 0.
func Ctz32(x uint32) uint32 { return uint32(bits.TrailingZeros32(x)) }

// Ctz64 counts trailing zeros, defined as 64 when x == 0.
func Ctz64(x uint64) uint64 { return uint64(bits.TrailingZeros64(x)) }

// Popcount32/64 are the standard population count.
func Popcount32(x uint32) uint32 { return uint32(bits.OnesCount32(x)) }
func Popcount64(x uint64) uint64 { return uint64(bits.OnesCount64(x)) }

// Rotl32 implements spec.md §4.7's rotl with mask m = bits(x)-1:
// (x << (y & m)) | (x >> ((m - y + 1) & m)).
func Rotl32(x, y uint32) uint32 {
	const m = 31
	return (x << (y & m)) | (x >> ((m - y + 1) & m))
}

func Rotl64(x, y uint64) uint64 {
	const m = 63
	return (x << (y & m)) | (x >> ((m - y + 1) & m))
}

// Rotr32/64 are the symmetric counterpart.
func Rotr32(x, y uint32) uint32 {
	const m = 31
	return (x >> (y & m)) | (x << ((m - y + 1) & m))
}

func Rotr64(x, y uint64) uint64 {
	const m = 63
	return (x >> (y & m)) | (x << ((m - y + 1) & m))
}

// DivS32 implements spec.md §4.7: traps DIV_BY_ZERO if y == 0; traps
// INT_OVERFLOW if x == MinInt32 && y == -1; otherwise signed division,
// result reinterpreted as unsigned (the caller's value is already the
// 32-bit word; Go's int32 division already wraps the way WebAssembly
// expects for every other input).
func DivS32(x, y int32) int32 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	if x == math32Min && y == -1 {
		Trap(TrapIntOverflow)
	}
	return x / y
}

func RemS32(x, y int32) int32 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	if x == math32Min && y == -1 {
		return 0
	}
	return x % y
}

func DivU32(x, y uint32) uint32 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	return x / y
}

func RemU32(x, y uint32) uint32 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	return x % y
}

func DivS64(x, y int64) int64 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	if x == math64Min && y == -1 {
		Trap(TrapIntOverflow)
	}
	return x / y
}

func RemS64(x, y int64) int64 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	if x == math64Min && y == -1 {
		return 0
	}
	return x % y
}

func DivU64(x, y uint64) uint64 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	return x / y
}

func RemU64(x, y uint64) uint64 {
	if y == 0 {
		Trap(TrapDivByZero)
	}
	return x % y
}

const (
	math32Min = int32(-1) << 31
	math64Min = int64(-1) << 63
)
