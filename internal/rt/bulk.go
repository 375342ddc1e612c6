package rt

// DataSegment is a static byte payload used to initialize linear memory
// at instantiation time (spec.md §4.4). It carries no endianness of its
// own; MemoryInit interprets it as raw bytes to place starting at a given
// memory offset.
type DataSegment struct {
	Bytes []byte
}

// Size returns the segment's byte length.
func (s *DataSegment) Size() int { return len(s.Bytes) }

// MemoryFill implements spec.md §4.4: range-checks (d, n), then writes byte
// v across the destination range. Byte writes are orientation-invariant
// (every byte written is the same value), so the endian adapter only needs
// to locate the physical window once; no per-byte reversal is needed.
func MemoryFill(m *Memory, d uint64, v byte, n uint64) {
	m.checkAccess("memory_fill", d, n)
	if n == 0 {
		return
	}
	start := m.effectiveOffset(d, n)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = v
	}
	m.writeAt(start, buf)
}

// MemoryCopy implements spec.md §4.4: double range-check, then copies via
// the endian adapter with memmove (overlap-safe) semantics. Reading the
// full source window through the adapter before writing it back through
// the adapter is what gives overlap safety here: the source is fully
// captured before any destination byte is touched, exactly like a
// textbook memmove using a temporary buffer, and composing load-then-store
// through the same per-access adapter is what keeps big-endian physical
// layout consistent (loadBytes un-mirrors, storeBytes re-mirrors, so the
// net effect for dst equals a literal copy of src's physical window).
func MemoryCopy(dst, src *Memory, d, s, n uint64) {
	dst.checkAccess("memory_copy_dst", d, n)
	src.checkAccess("memory_copy_src", s, n)
	if n == 0 {
		return
	}
	payload := src.loadBytes(s, n)
	buf := make([]byte, n)
	copy(buf, payload)
	dst.storeBytes(d, buf)
}

// MemoryInit implements spec.md §4.4: range-checks both the segment source
// range (s+n <= segment.Size()) and the destination range, then copies the
// segment bytes in, reversing them per the endian adapter rule on
// big-endian hosts (storeBytes already performs that reversal for an
// arbitrary-width payload).
func MemoryInit(m *Memory, seg *DataSegment, d, s, n uint64) {
	if s+n < s || s+n > uint64(seg.Size()) {
		Trap(TrapOOB)
	}
	m.checkAccess("memory_init", d, n)
	if n == 0 {
		return
	}
	buf := make([]byte, n)
	copy(buf, seg.Bytes[s:s+n])
	m.storeBytes(d, buf)
}
