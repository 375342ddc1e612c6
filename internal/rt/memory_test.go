package rt

import (
	"math"
	"runtime"
	"testing"
)

func mustMemory(t *testing.T, cfg Config, size, maxSize uint64) *Memory {
	t.Helper()
	m, err := NewMemory(cfg, size, maxSize)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestI32StoreLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	m := mustMemory(t, cfg, 64, 64)

	I32Store(m, 8, 0x11223344)
	if got := I32LoadU(m, 8); got != 0x11223344 {
		t.Fatalf("I32LoadU(8) = %#x, want %#x", got, 0x11223344)
	}
}

func TestSignExtension(t *testing.T) {
	cfg := DefaultConfig()
	m := mustMemory(t, cfg, 16, 16)

	I32Store8(m, 0, 0xFF) // -1 as a signed byte
	if got := I32Load8S(m, 0); got != -1 {
		t.Fatalf("I32Load8S = %d, want -1", got)
	}
	if got := I32Load8U(m, 0); got != 0xFF {
		t.Fatalf("I32Load8U = %#x, want 0xFF", got)
	}

	I32Store16(m, 2, 0x8000)
	if got := I32Load16S(m, 2); got != -32768 {
		t.Fatalf("I32Load16S = %d, want -32768", got)
	}
}

// TestEndianAdapterLittleEndianSemantics covers spec.md §8's invariant: a
// segment initialized from byte sequence B and then read as i32 at offset
// 0 yields B[0] | B[1]<<8 | B[2]<<16 | B[3]<<24, on any host configuration.
func TestEndianAdapterLittleEndianSemantics(t *testing.T) {
	for _, big := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.BigEndianHost = big
		m := mustMemory(t, cfg, 64, 64)

		seg := &DataSegment{Bytes: []byte{0x01, 0x02, 0x03, 0x04}}
		MemoryInit(m, seg, 0, 0, 4)

		want := uint32(0x01) | uint32(0x02)<<8 | uint32(0x03)<<16 | uint32(0x04)<<24
		if got := I32LoadU(m, 0); got != want {
			t.Fatalf("bigEndian=%v: I32LoadU(0) = %#x, want %#x", big, got, want)
		}
	}
}

// TestFloatLoadStoreBitExact covers spec.md §8's invariant that loading a
// value just stored reproduces the exact bit pattern, including a
// signalling NaN payload, on both endian configurations.
func TestFloatLoadStoreBitExact(t *testing.T) {
	sigNaN32 := math.Float32bits(float32(math.NaN())) | 0x00000001 // force a payload bit, not just quiet
	sigNaN32 &^= 0x00400000                                        // clear the quiet bit to keep it signalling

	for _, big := range []bool{false, true} {
		cfg := DefaultConfig()
		cfg.BigEndianHost = big
		m := mustMemory(t, cfg, 64, 64)

		F32Store(m, 16, sigNaN32)
		if got := F32Load(m, 16); got != sigNaN32 {
			t.Fatalf("bigEndian=%v: F32Load = %#x, want %#x (signalling NaN payload not preserved)", big, got, sigNaN32)
		}
	}
}

func TestBoundaryScenario8_LoadNearEndOfMemory(t *testing.T) {
	const pageSize = 65536 // WebAssembly page size; guard-page mode needs page granularity

	t.Run("bounds", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CheckMode = CheckBounds
		m := mustMemory(t, cfg, pageSize, pageSize)

		in := NewInstance(cfg, nil)
		err := in.Invoke(func() {
			I32LoadU(m, pageSize-1)
		})
		if err == nil {
			t.Fatal("expected OOB trap, got none")
		}
		te, ok := err.(*TrapError)
		if !ok || te.Kind != TrapOOB {
			t.Fatalf("expected TrapOOB, got %v", err)
		}
	})

	t.Run("guard_page", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.CheckMode = CheckGuardPage
		m := mustMemory(t, cfg, pageSize, pageSize)

		in := NewInstance(cfg, nil)
		err := in.Invoke(func() {
			I32LoadU(m, pageSize-1)
		})
		if err == nil {
			t.Fatal("expected OOB trap (converted MMU fault), got none")
		}
		te, ok := err.(*TrapError)
		if !ok || te.Kind != TrapOOB {
			t.Fatalf("expected TrapOOB, got %v", err)
		}
	})
}

// TestArmedSegueServesLoadsAndStores covers spec.md §4.9's transparency
// property directly: when NewMemory arms the fast path, ordinary
// load/store primitives still go through it (readAt/writeAt dispatch to
// segueRead/segueWrite) and produce the same values a disarmed memory
// would.
func TestArmedSegueServesLoadsAndStores(t *testing.T) {
	if runtime.GOARCH != "amd64" {
		t.Skip("segue fast path only arms on amd64")
	}
	cfg := DefaultConfig()
	cfg.SeguePermitted = true
	m := mustMemory(t, cfg, 64, 64)
	if m.segue == nil || !m.segue.Armed() {
		t.Skip("host does not expose the BMI2 feature this fast path requires")
	}

	I32Store(m, 8, 0x11223344)
	if got := I32LoadU(m, 8); got != 0x11223344 {
		t.Fatalf("I32LoadU(8) via armed segue = %#x, want %#x", got, 0x11223344)
	}

	I64Store(m, 16, 0xdeadbeefcafef00d)
	if got := I64LoadU(m, 16); got != 0xdeadbeefcafef00d {
		t.Fatalf("I64LoadU(16) via armed segue = %#x, want %#x", got, uint64(0xdeadbeefcafef00d))
	}
}

func TestRangeCheckOverflow64(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mem64 = true
	m := mustMemory(t, cfg, 16, 16)

	in := NewInstance(cfg, nil)
	err := in.Invoke(func() {
		// offset + len overflows uint64
		m.rangeCheck(math.MaxUint64-2, 8)
	})
	if err == nil {
		t.Fatal("expected OOB trap on 64-bit overflow")
	}
	_ = in
}
