package rt

import (
	"unsafe"

	"github.com/zboralski/wasmrt/internal/log"
)

// Memory is a linear memory buffer. All access primitives act as if data is
// little-endian regardless of host byte order (spec.md §3). Growth and
// allocation are external collaborators; Memory only exposes access.
type Memory struct {
	data      []byte
	size      uint64 // current byte length, <= len(data)
	maxSize   uint64 // cap, in bytes
	addr64    bool   // 64-bit address space when true
	bigEndian bool   // host byte order the adapter must compensate for
	mode      CheckMode

	guard *guardMemory // non-nil only when mode == CheckGuardPage
	segue *Segue       // non-nil and possibly armed for non-guard-page memories

	logger *log.Logger // nil unless an embedder opts in with SetLogger
}

// SetLogger installs a logger to receive checked-access and segue events
// for this memory. Nil by default: logging is zero-cost until an embedder
// opts in. The segue arm/disarm decision was already made in NewMemory, so
// SetLogger re-announces it immediately rather than leaving a caller blind
// to a decision they missed by installing the logger after construction.
func (m *Memory) SetLogger(l *log.Logger) {
	m.logger = l
	if m.segue != nil {
		logSegueDecision(m, m.segue.Armed(), "logger attached after construction")
	}
}

// NewMemory allocates a linear memory of the given initial size (bytes),
// capped at maxSize, under the given Instance configuration.
func NewMemory(cfg Config, size, maxSize uint64) (*Memory, error) {
	m := &Memory{
		size:      size,
		maxSize:   maxSize,
		addr64:    cfg.Mem64,
		bigEndian: cfg.BigEndianHost,
		mode:      cfg.CheckMode,
	}
	if m.mode == CheckGuardPage {
		g, err := newGuardMemory(size, maxSize)
		if err != nil {
			return nil, err
		}
		m.guard = g
		return m, nil
	}
	m.data = make([]byte, size, max64(size, 1))
	m.segue = NewSegue(cfg, m)
	return m, nil
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// Size returns the current byte length of the memory.
func (m *Memory) Size() uint64 { return m.size }

// Close releases the host resources backing a guard-page memory. It is a
// no-op for bounds/none-mode memories, which hold no external resources.
func (m *Memory) Close() error {
	if m.guard != nil {
		return m.guard.close()
	}
	return nil
}

// rangeCheck implements spec.md §4.2: fails with OOB if offset+len
// overflows the address-width type or exceeds m.size. For 64-bit memories
// the overflow check is explicit; for 32-bit it widens to 64-bit so both
// checks fold into one comparison, matching the spec's stated rationale.
func (m *Memory) rangeCheck(offset, length uint64) {
	if m.addr64 {
		end := offset + length
		if end < offset { // explicit overflow check for 64-bit address space
			Trap(TrapOOB)
		}
		if end > m.size {
			Trap(TrapOOB)
		}
		return
	}
	// 32-bit memory: offset and length are already known to fit in 32 bits
	// by construction; widen to 64-bit so a single comparison catches both
	// the overflow and the bounds violation.
	end := uint64(uint32(offset)) + uint64(uint32(length))
	if end > m.size {
		Trap(TrapOOB)
	}
}

// effectiveOffset is the endian adapter of spec.md §4.1: it yields the
// starting host byte for a little-endian value of width n at address a. On
// a little-endian host this is a itself; on a big-endian host it mirrors
// the offset around m.size so later byte-at-a-time writes land in
// reversed order and a subsequent little-endian read reproduces the
// original value.
func (m *Memory) effectiveOffset(a, n uint64) uint64 {
	if !m.bigEndian {
		return a
	}
	return m.size - a - n
}

// byteStep returns +1 normally and -1 on a big-endian host, so callers can
// walk the n bytes of a value in little-endian logical order while writing
// them physically backwards.
func (m *Memory) byteStep() int64 {
	if m.bigEndian {
		return -1
	}
	return 1
}

// segueRead/segueWrite are the armed fast path: addressing relative to the
// cached base pointer instead of re-reading the m.data slice header on every
// access (spec.md §4.9). They still operate on the same backing array as
// m.data, so bounds already validated by checkAccess/rangeCheck apply
// identically; Base() additionally re-validates the pointer itself when
// sanity checks are configured.
func (m *Memory) segueRead(addr, n uint64) []byte {
	base := m.segue.Base()
	return unsafe.Slice((*byte)(unsafe.Add(base, addr)), n)
}

func (m *Memory) segueWrite(addr uint64, b []byte) {
	base := m.segue.Base()
	dst := unsafe.Slice((*byte)(unsafe.Add(base, addr)), len(b))
	copy(dst, b)
}

func (m *Memory) readAt(addr uint64, n uint64) []byte {
	if m.guard != nil {
		return m.guard.read(addr, n)
	}
	if m.segue != nil && m.segue.Armed() {
		return m.segueRead(addr, n)
	}
	return m.data[addr : addr+n]
}

func (m *Memory) writeAt(addr uint64, b []byte) {
	if m.guard != nil {
		m.guard.write(addr, b)
		return
	}
	if m.segue != nil && m.segue.Armed() {
		m.segueWrite(addr, b)
		return
	}
	copy(m.data[addr:addr+uint64(len(b))], b)
}

// loadBytes extracts the n little-endian-ordered bytes of a load at logical
// address addr, honoring the endian adapter.
func (m *Memory) loadBytes(addr, n uint64) []byte {
	start := m.effectiveOffset(addr, n)
	raw := m.readAt(start, n)
	if !m.bigEndian {
		return raw
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = raw[n-1-uint64(i)]
	}
	return out
}

// storeBytes writes the n little-endian-ordered bytes b at logical address
// addr, honoring the endian adapter.
func (m *Memory) storeBytes(addr uint64, b []byte) {
	n := uint64(len(b))
	start := m.effectiveOffset(addr, n)
	if !m.bigEndian {
		m.writeAt(start, b)
		return
	}
	rev := make([]byte, n)
	for i := range b {
		rev[n-1-uint64(i)] = b[i]
	}
	m.writeAt(start, rev)
}

func (m *Memory) checkAccess(op string, addr, n uint64) {
	if m.logger != nil {
		m.logger.MemoryAccess(op, addr, int(n))
	}
	switch m.mode {
	case CheckNone:
		return
	case CheckBounds:
		m.rangeCheck(addr, n)
	case CheckGuardPage:
		// No explicit check: readAt/writeAt route through the guard
		// container, whose host MMU raises the fault.
	}
}

// --- sized, signed/unsigned loads and stores (spec.md §4.3) ---

// width is the access width in bytes for a load/store primitive.
type width int

const (
	width8  width = 1
	width16 width = 2
	width32 width = 4
	width64 width = 8
)

// loadRaw returns the w bytes at addr zero-extended into a uint64, and
// storeRaw writes the low w bytes of v. Callers use the named wrappers
// below, which fix the width, apply signExtend for signed loads and
// convert to the destination type, so generated code gets one
// opcode-named function per WebAssembly access.
func loadRaw(m *Memory, op string, addr uint64, w width) uint64 {
	m.checkAccess(op, addr, uint64(w))
	b := m.loadBytes(addr, uint64(w))
	var v uint64
	for i := width(0); i < w; i++ {
		v |= uint64(b[i]) << (8 * uint(i))
	}
	return v
}

func storeRaw(m *Memory, op string, addr uint64, w width, v uint64) {
	m.checkAccess(op, addr, uint64(w))
	b := make([]byte, w)
	for i := width(0); i < w; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
	m.storeBytes(addr, b)
}

func signExtend(v uint64, w width) int64 {
	switch w {
	case width8:
		return int64(int8(v))
	case width16:
		return int64(int16(v))
	case width32:
		return int64(int32(v))
	default:
		return int64(v)
	}
}

// I32Load8S/U, I32Load16S/U, I32Load, I64Load*, etc. are named per
// WebAssembly opcode, per the contract surface in spec.md §6.

func I32Load8S(m *Memory, addr uint64) int32 {
	return int32(signExtend(loadRaw(m, "i32_load8_s", addr, width8), width8))
}
func I32Load8U(m *Memory, addr uint64) uint32 { return uint32(loadRaw(m, "i32_load8_u", addr, width8)) }
func I32Load16S(m *Memory, addr uint64) int32 {
	return int32(signExtend(loadRaw(m, "i32_load16_s", addr, width16), width16))
}
func I32Load16U(m *Memory, addr uint64) uint32 {
	return uint32(loadRaw(m, "i32_load16_u", addr, width16))
}
func I32Load(m *Memory, addr uint64) int32   { return int32(loadRaw(m, "i32_load", addr, width32)) }
func I32LoadU(m *Memory, addr uint64) uint32 { return uint32(loadRaw(m, "i32_load_u", addr, width32)) }

func I64Load8S(m *Memory, addr uint64) int64 {
	return signExtend(loadRaw(m, "i64_load8_s", addr, width8), width8)
}
func I64Load8U(m *Memory, addr uint64) uint64 { return loadRaw(m, "i64_load8_u", addr, width8) }
func I64Load16S(m *Memory, addr uint64) int64 {
	return signExtend(loadRaw(m, "i64_load16_s", addr, width16), width16)
}
func I64Load16U(m *Memory, addr uint64) uint64 { return loadRaw(m, "i64_load16_u", addr, width16) }
func I64Load32S(m *Memory, addr uint64) int64 {
	return signExtend(loadRaw(m, "i64_load32_s", addr, width32), width32)
}
func I64Load32U(m *Memory, addr uint64) uint64 { return loadRaw(m, "i64_load32_u", addr, width32) }
func I64Load(m *Memory, addr uint64) int64     { return int64(loadRaw(m, "i64_load", addr, width64)) }
func I64LoadU(m *Memory, addr uint64) uint64   { return loadRaw(m, "i64_load_u", addr, width64) }

func I32Store8(m *Memory, addr uint64, v uint32)  { storeRaw(m, "i32_store8", addr, width8, uint64(v)) }
func I32Store16(m *Memory, addr uint64, v uint32) { storeRaw(m, "i32_store16", addr, width16, uint64(v)) }
func I32Store(m *Memory, addr uint64, v uint32)   { storeRaw(m, "i32_store", addr, width32, uint64(v)) }

func I64Store8(m *Memory, addr uint64, v uint64)  { storeRaw(m, "i64_store8", addr, width8, v) }
func I64Store16(m *Memory, addr uint64, v uint64) { storeRaw(m, "i64_store16", addr, width16, v) }
func I64Store32(m *Memory, addr uint64, v uint64) { storeRaw(m, "i64_store32", addr, width32, v) }
func I64Store(m *Memory, addr uint64, v uint64)   { storeRaw(m, "i64_store", addr, width64, v) }

// F32Load/F64Load/F32Store/F64Store preserve signalling-NaN payloads
// bit-exactly (spec.md §4.3 and §8's property on reinterpret round-trips).
// forceReadBits is the force-read barrier described in spec.md §4.3 and
// §9: a non-inlined byte-wise copy that keeps the Go compiler/runtime from
// ever materializing the bits in a floating-point register in a way that
// could normalize a signalling NaN. float32/float64 in Go are IEEE-754
// binary32/binary64 with no implicit NaN canonicalization on ordinary
// moves, so this barrier is defensive documentation as much as mechanism —
// spec.md §9 allows that it "may be unnecessary" under strict-IEEE builds.
//
//go:noinline
func forceReadBits32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

//go:noinline
func forceReadBits64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

func F32Load(m *Memory, addr uint64) uint32 {
	m.checkAccess("f32_load", addr, 4)
	return forceReadBits32(m.loadBytes(addr, 4))
}

func F64Load(m *Memory, addr uint64) uint64 {
	m.checkAccess("f64_load", addr, 8)
	return forceReadBits64(m.loadBytes(addr, 8))
}

func F32Store(m *Memory, addr uint64, bits32 uint32) {
	storeRaw(m, "f32_store", addr, width32, uint64(bits32))
}

func F64Store(m *Memory, addr uint64, bits64 uint64) {
	storeRaw(m, "f64_store", addr, width64, bits64)
}
