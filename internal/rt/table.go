package rt

import "bytes"

// FuncTypeID is a globally interned 32-byte function-signature descriptor
// (spec.md §3). Two descriptors are equal iff their pointers are equal, or
// both are non-nil and their 32 bytes compare equal — this permits
// cross-module type equality when modules are statically linked against
// distinct interned pools.
type FuncTypeID *[32]byte

// InternPool owns the canonical function-type descriptors for one linkage
// unit. It is read-only after construction is complete; concurrent
// Instances may share one pool safely (spec.md §5).
type InternPool struct {
	byHash map[[32]byte]*[32]byte
}

// NewInternPool creates an empty pool.
func NewInternPool() *InternPool {
	return &InternPool{byHash: make(map[[32]byte]*[32]byte)}
}

// Intern returns the canonical FuncTypeID for the given 32-byte signature
// hash, allocating a new entry the first time a hash is seen.
func (p *InternPool) Intern(hash [32]byte) FuncTypeID {
	if existing, ok := p.byHash[hash]; ok {
		return existing
	}
	h := hash
	p.byHash[hash] = &h
	return &h
}

// FuncTypesEqual implements spec.md §4.6's func_types_eq: pointer equality
// first (the fast, common case within one module), falling back to a
// bytewise compare so two distinct interned pools (e.g. two statically
// linked modules) still agree when their signatures match byte-for-byte.
func FuncTypesEqual(a, b FuncTypeID) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return bytes.Equal(a[:], b[:])
}

// FuncrefEntry is one slot of a function-reference table (spec.md §3). A
// null entry has Func == 0.
type FuncrefEntry struct {
	TypeID     FuncTypeID
	Func       uintptr // host function pointer; opaque to this package
	TailCallee uintptr
	Instance   uintptr // module_instance_ptr for the owning instance
}

// IsNull reports whether e is the canonical null funcref.
func (e FuncrefEntry) IsNull() bool { return e.Func == 0 }

// FuncrefTable is data[0..size) of FuncrefEntry.
type FuncrefTable struct {
	entries []FuncrefEntry
}

// NewFuncrefTable allocates a table of size entries, all null.
func NewFuncrefTable(size uint64) *FuncrefTable {
	return &FuncrefTable{entries: make([]FuncrefEntry, size)}
}

func (t *FuncrefTable) Size() uint64 { return uint64(len(t.entries)) }

func (t *FuncrefTable) rangeCheck(idx, n uint64) {
	end := idx + n
	if end < idx || end > t.Size() {
		Trap(TrapOOB)
	}
}

// Get returns the entry at idx, trapping OOB if idx is out of range.
func (t *FuncrefTable) Get(idx uint64) FuncrefEntry {
	t.rangeCheck(idx, 1)
	return t.entries[idx]
}

// Set writes the entry at idx, trapping OOB if idx is out of range.
func (t *FuncrefTable) Set(idx uint64, e FuncrefEntry) {
	t.rangeCheck(idx, 1)
	t.entries[idx] = e
}

// Fill implements spec.md §4.5's table_fill for a funcref table.
func (t *FuncrefTable) Fill(d uint64, v FuncrefEntry, n uint64) {
	t.rangeCheck(d, n)
	for i := uint64(0); i < n; i++ {
		t.entries[d+i] = v
	}
}

// TableCopyFuncref implements table_copy with memmove-class semantics: overlapping
// copies preserve source entries by staging through a temporary slice
// before writing back, the same technique MemoryCopy uses.
func TableCopyFuncref(dst, src *FuncrefTable, d, s, n uint64) {
	dst.rangeCheck(d, n)
	src.rangeCheck(s, n)
	if n == 0 {
		return
	}
	staged := make([]FuncrefEntry, n)
	copy(staged, src.entries[s:s+n])
	copy(dst.entries[d:d+n], staged)
}

// ElemTag discriminates an element segment entry's evaluation mode
// (spec.md §3).
type ElemTag int

const (
	ElemRefFunc ElemTag = iota
	ElemRefNull
	ElemGlobalGet
)

// ElemEntry is one tagged-union element-segment entry.
type ElemEntry struct {
	Tag          ElemTag
	TypeID       FuncTypeID // RefFunc only
	Func         uintptr    // RefFunc only
	TailCallee   uintptr    // RefFunc only
	ModuleOffset uintptr    // byte offset into the module-instance record
}

// ElementSegment is a static table initializer.
type ElementSegment struct {
	Entries []ElemEntry
}

func (s *ElementSegment) Size() int { return len(s.Entries) }

// globalGetFuncref dereferences *(funcref_ptr*)((byte*)instance + offset),
// the GlobalGet evaluation rule of spec.md §4.5. instanceBase is the raw
// address of the module-instance record; ReadGlobalFuncref is a
// collaborator hook because this package has no concept of "the module
// instance record's layout" beyond a byte offset into it.
func globalGetFuncref(in *Instance, instanceBase uintptr, offset uintptr) FuncrefEntry {
	in.collab.mu.RLock()
	read := in.collab.ReadGlobalFuncref
	in.collab.mu.RUnlock()
	return read(instanceBase, offset)
}

// FuncrefTableInit implements spec.md §4.5's funcref_table_init: for each
// of n entries, evaluate the element expression and write the resulting
// entry, range-checking both the segment source range and the table
// destination range first (so a trap never leaves a half-initialized
// table — spec.md §5's "no half-updates" guarantee).
func FuncrefTableInit(in *Instance, t *FuncrefTable, seg *ElementSegment, d, s, n, instanceBase uint64) {
	if in.Logger != nil {
		in.Logger.TableOp("funcref_table_init", d, s, n)
	}
	if s+n < s || s+n > uint64(seg.Size()) {
		Trap(TrapOOB)
	}
	t.rangeCheck(d, n)
	resolved := make([]FuncrefEntry, n)
	for i := uint64(0); i < n; i++ {
		e := seg.Entries[s+i]
		switch e.Tag {
		case ElemRefFunc:
			resolved[i] = FuncrefEntry{
				TypeID:     e.TypeID,
				Func:       e.Func,
				TailCallee: e.TailCallee,
				Instance:   uintptr(instanceBase) + e.ModuleOffset,
			}
		case ElemRefNull:
			resolved[i] = FuncrefEntry{}
		case ElemGlobalGet:
			resolved[i] = globalGetFuncref(in, uintptr(instanceBase), e.ModuleOffset)
		}
	}
	copy(t.entries[d:d+n], resolved)
}

// ExternrefEntry is an opaque extern-reference table slot; the all-zero
// value is null (spec.md §3).
type ExternrefEntry uint64

// ExternrefTable is data[0..size) of opaque reference values.
type ExternrefTable struct {
	entries []ExternrefEntry
}

func NewExternrefTable(size uint64) *ExternrefTable {
	return &ExternrefTable{entries: make([]ExternrefEntry, size)}
}

func (t *ExternrefTable) Size() uint64 { return uint64(len(t.entries)) }

func (t *ExternrefTable) rangeCheck(idx, n uint64) {
	end := idx + n
	if end < idx || end > t.Size() {
		Trap(TrapOOB)
	}
}

func (t *ExternrefTable) Get(idx uint64) ExternrefEntry {
	t.rangeCheck(idx, 1)
	return t.entries[idx]
}

func (t *ExternrefTable) Set(idx uint64, v ExternrefEntry) {
	t.rangeCheck(idx, 1)
	t.entries[idx] = v
}

func (t *ExternrefTable) Fill(d uint64, v ExternrefEntry, n uint64) {
	t.rangeCheck(d, n)
	for i := uint64(0); i < n; i++ {
		t.entries[d+i] = v
	}
}

func TableCopyExternref(dst, src *ExternrefTable, d, s, n uint64) {
	dst.rangeCheck(d, n)
	src.rangeCheck(s, n)
	if n == 0 {
		return
	}
	staged := make([]ExternrefEntry, n)
	copy(staged, src.entries[s:s+n])
	copy(dst.entries[d:d+n], staged)
}

// ExternrefTableInit supports only null initialization in this runtime
// (spec.md §4.5): every entry in range is set to the null externref.
func ExternrefTableInit(in *Instance, t *ExternrefTable, d, n uint64) {
	if in.Logger != nil {
		in.Logger.TableOp("externref_table_init", d, 0, n)
	}
	t.rangeCheck(d, n)
	for i := uint64(0); i < n; i++ {
		t.entries[d+i] = 0
	}
}
