package rt

import "testing"

func typeID(pool *InternPool, tag byte) FuncTypeID {
	var h [32]byte
	h[0] = tag
	return pool.Intern(h)
}

func TestFuncrefTableGetSetFill(t *testing.T) {
	pool := NewInternPool()
	tbl := NewFuncrefTable(4)
	tid := typeID(pool, 1)

	e := FuncrefEntry{TypeID: tid, Func: 0xDEAD}
	tbl.Set(1, e)
	if got := tbl.Get(1); got.Func != 0xDEAD {
		t.Fatalf("Get(1).Func = %#x, want 0xDEAD", got.Func)
	}
	if got := tbl.Get(0); !got.IsNull() {
		t.Fatalf("Get(0) should be null before any write")
	}

	tbl.Fill(0, e, 4)
	for i := uint64(0); i < 4; i++ {
		if got := tbl.Get(i); got.Func != 0xDEAD {
			t.Fatalf("after Fill, Get(%d).Func = %#x, want 0xDEAD", i, got.Func)
		}
	}
}

func TestFuncrefTableOOB(t *testing.T) {
	tbl := NewFuncrefTable(2)
	in := NewInstance(DefaultConfig(), nil)
	err := in.Invoke(func() { tbl.Get(2) })
	if err == nil {
		t.Fatal("expected OOB trap")
	}
	if te, ok := err.(*TrapError); !ok || te.Kind != TrapOOB {
		t.Fatalf("expected TrapOOB, got %v", err)
	}
}

func TestTableCopyFuncrefOverlap(t *testing.T) {
	pool := NewInternPool()
	tid := typeID(pool, 2)
	tbl := NewFuncrefTable(8)
	for i := uint64(0); i < 4; i++ {
		tbl.Set(i, FuncrefEntry{TypeID: tid, Func: uintptr(i + 1)})
	}
	TableCopyFuncref(tbl, tbl, 2, 0, 4)

	want := []uintptr{1, 2, 1, 2, 3, 4}
	for i, w := range want {
		if got := tbl.Get(uint64(i)).Func; got != w {
			t.Fatalf("entry %d Func = %d, want %d", i, got, w)
		}
	}
}

func TestFuncTypesEqualAcrossPools(t *testing.T) {
	poolA := NewInternPool()
	poolB := NewInternPool()
	var h [32]byte
	h[5] = 9
	idA := poolA.Intern(h)
	idB := poolB.Intern(h)

	if idA == idB {
		t.Fatal("distinct pools should never share a pointer")
	}
	if !FuncTypesEqual(idA, idB) {
		t.Fatal("byte-identical signatures from distinct pools must compare equal")
	}

	var h2 [32]byte
	h2[5] = 10
	idC := poolB.Intern(h2)
	if FuncTypesEqual(idA, idC) {
		t.Fatal("distinct signatures must not compare equal")
	}
}

func TestFuncrefTableInitRefFuncAndRefNull(t *testing.T) {
	pool := NewInternPool()
	tid := typeID(pool, 3)
	seg := &ElementSegment{Entries: []ElemEntry{
		{Tag: ElemRefFunc, TypeID: tid, Func: 0x100, ModuleOffset: 0},
		{Tag: ElemRefNull},
		{Tag: ElemRefFunc, TypeID: tid, Func: 0x200, ModuleOffset: 0x10},
	}}
	tbl := NewFuncrefTable(4)
	in := NewInstance(DefaultConfig(), pool)

	FuncrefTableInit(in, tbl, seg, 0, 0, 3, 0x1000)

	if got := tbl.Get(0); got.Func != 0x100 || got.Instance != 0x1000 {
		t.Fatalf("entry 0 = %+v", got)
	}
	if got := tbl.Get(1); !got.IsNull() {
		t.Fatalf("entry 1 should be null, got %+v", got)
	}
	if got := tbl.Get(2); got.Func != 0x200 || got.Instance != 0x1010 {
		t.Fatalf("entry 2 = %+v", got)
	}
}

func TestExternrefTableFillAndCopy(t *testing.T) {
	tbl := NewExternrefTable(4)
	tbl.Fill(0, ExternrefEntry(7), 4)
	other := NewExternrefTable(4)
	TableCopyExternref(other, tbl, 0, 0, 4)
	for i := uint64(0); i < 4; i++ {
		if got := other.Get(i); got != 7 {
			t.Fatalf("externref %d = %d, want 7", i, got)
		}
	}
	in := NewInstance(DefaultConfig(), nil)
	ExternrefTableInit(in, other, 1, 2)
	if got := other.Get(1); got != 0 {
		t.Fatalf("after ExternrefTableInit, entry 1 = %d, want 0", got)
	}
}
