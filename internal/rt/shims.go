package rt

import "golang.org/x/sys/cpu"

// Portable host-feature shims (spec.md §4.10), used when the toolchain or
// host lacks native clz/ctz/popcount intrinsics. Go's math/bits package
// already lowers Clz32/Ctz32/Popcount32 (intops.go) to a hardware
// instruction when one exists and falls back internally otherwise, so
// these portable versions exist to give the fallback path something to
// exercise and test directly, gated by Config.ForcePortableBitops or by
// an absent cpu feature.

// portableCtz32 finds the lowest set bit by linear bit-test, the technique
// spec.md §4.10 names first.
func portableCtz32(x uint32) uint32 {
	if x == 0 {
		return 32
	}
	var i uint32
	for ; i < 32; i++ {
		if x&(1<<i) != 0 {
			return i
		}
	}
	return 32
}

// reverseBits32 reverses the bit order of x. spec.md §9's Open Question
// flags that the source's REV helper has a self-decrementing loop variable
// (i >>= 1 inside the loop body) that makes it iterate too few times;
// this implementation uses an explicit, separate bit-count counter so the
// shift of x and the loop bound can never interact.
func reverseBits32(x uint32) uint32 {
	var out uint32
	for i := 0; i < 32; i++ {
		out <<= 1
		out |= x & 1
		x >>= 1
	}
	return out
}

// portableClz32 counts leading zeros via ctz(reverse_bits(x)), per
// spec.md §4.10.
func portableClz32(x uint32) uint32 {
	return portableCtz32(reverseBits32(x))
}

// portablePopcount32 is the SWAR (SIMD-within-a-register) population count
// spec.md §4.10 and §9 describe as the fallback technique.
func portablePopcount32(x uint32) uint32 {
	x = x - ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f
	return (x * 0x01010101) >> 24
}

func portableCtz64(x uint64) uint64 {
	if x == 0 {
		return 64
	}
	var i uint64
	for ; i < 64; i++ {
		if x&(1<<i) != 0 {
			return i
		}
	}
	return 64
}

func reverseBits64(x uint64) uint64 {
	var out uint64
	for i := 0; i < 64; i++ {
		out <<= 1
		out |= x & 1
		x >>= 1
	}
	return out
}

func portableClz64(x uint64) uint64 {
	return portableCtz64(reverseBits64(x))
}

func portablePopcount64(x uint64) uint64 {
	x = x - ((x >> 1) & 0x5555555555555555)
	x = (x & 0x3333333333333333) + ((x >> 2) & 0x3333333333333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f0f0f0f0f
	return (x * 0x0101010101010101) >> 56
}

// HasNativePopcount reports whether the host CPU exposes a hardware
// population-count instruction, the detector spec.md §4.10 implies gates
// shim selection.
func HasNativePopcount() bool {
	return cpu.X86.HasPOPCNT || cpu.ARM64.HasASIMD
}

// Popcount32Via/Popcount64Via select between the native (math/bits, hardware-backed when
// available) and portable SWAR implementation per cfg.ForcePortableBitops
// and the detected host feature.
func Popcount32Via(cfg Config, x uint32) uint32 {
	if cfg.ForcePortableBitops || !HasNativePopcount() {
		return portablePopcount32(x)
	}
	return Popcount32(x)
}

func Popcount64Via(cfg Config, x uint64) uint64 {
	if cfg.ForcePortableBitops || !HasNativePopcount() {
		return portablePopcount64(x)
	}
	return Popcount64(x)
}

func Clz32Via(cfg Config, x uint32) uint32 {
	if cfg.ForcePortableBitops {
		return portableClz32(x)
	}
	return Clz32(x)
}

func Ctz32Via(cfg Config, x uint32) uint32 {
	if cfg.ForcePortableBitops {
		return portableCtz32(x)
	}
	return Ctz32(x)
}
