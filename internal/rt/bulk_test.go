package rt

import "testing"

func TestMemoryFill(t *testing.T) {
	m := mustMemory(t, DefaultConfig(), 32, 32)
	MemoryFill(m, 4, 0xAB, 8)
	for i := uint64(4); i < 12; i++ {
		if got := I32Load8U(m, i); got != 0xAB {
			t.Fatalf("byte at %d = %#x, want 0xAB", i, got)
		}
	}
	if got := I32Load8U(m, 3); got != 0 {
		t.Fatalf("byte before fill range = %#x, want 0", got)
	}
	if got := I32Load8U(m, 12); got != 0 {
		t.Fatalf("byte after fill range = %#x, want 0", got)
	}
}

func TestMemoryCopyOverlapping(t *testing.T) {
	m := mustMemory(t, DefaultConfig(), 32, 32)
	for i := uint64(0); i < 8; i++ {
		I32Store8(m, i, uint32(i+1))
	}
	// Overlapping forward copy: dst starts inside the source window.
	MemoryCopy(m, m, 2, 0, 8)

	want := []uint32{1, 2, 1, 2, 3, 4, 5, 6, 7, 8}
	for i, w := range want {
		if got := I32Load8U(m, uint64(i)); got != w {
			t.Fatalf("byte %d = %d, want %d", i, got, w)
		}
	}
}

func TestMemoryCopyCrossMemory(t *testing.T) {
	cfg := DefaultConfig()
	src := mustMemory(t, cfg, 16, 16)
	dst := mustMemory(t, cfg, 16, 16)
	I32Store(src, 0, 0xCAFEBABE)

	MemoryCopy(dst, src, 4, 0, 4)
	if got := I32LoadU(dst, 4); got != 0xCAFEBABE {
		t.Fatalf("I32LoadU(dst, 4) = %#x, want 0xCAFEBABE", got)
	}
}

func TestMemoryInitRangeCheckedBeforeWrite(t *testing.T) {
	m := mustMemory(t, DefaultConfig(), 8, 8)
	seg := &DataSegment{Bytes: []byte{1, 2, 3, 4}}

	in := NewInstance(DefaultConfig(), nil)
	err := in.Invoke(func() {
		MemoryInit(m, seg, 0, 2, 4) // s+n = 6 > seg.Size() = 4
	})
	if err == nil {
		t.Fatal("expected OOB trap on segment source range")
	}
	te, ok := err.(*TrapError)
	if !ok || te.Kind != TrapOOB {
		t.Fatalf("expected TrapOOB, got %v", err)
	}
}
