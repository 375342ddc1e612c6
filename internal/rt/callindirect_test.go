package rt

import "testing"

// TestBoundaryScenario6_CallIndirectTypeMismatchAcrossPools covers an
// indirect call whose expected type descriptor comes from a different
// InternPool than the one that produced the table entry's type, where the
// underlying 32 bytes differ — the call must trap CALL_INDIRECT.
func TestBoundaryScenario6_CallIndirectTypeMismatchAcrossPools(t *testing.T) {
	poolA := NewInternPool()
	poolB := NewInternPool()

	var sigFoo, sigBar [32]byte
	sigFoo[0] = 0xAA
	sigBar[0] = 0xBB

	entryType := poolA.Intern(sigFoo)
	expectedType := poolB.Intern(sigBar)

	tbl := NewFuncrefTable(1)
	tbl.Set(0, FuncrefEntry{TypeID: entryType, Func: 0x42})

	in := NewInstance(DefaultConfig(), poolA)
	err := in.Invoke(func() {
		CallIndirect(tbl, expectedType, 0)
	})
	if err == nil {
		t.Fatal("expected CALL_INDIRECT trap on type mismatch")
	}
	if te, ok := err.(*TrapError); !ok || te.Kind != TrapCallIndirect {
		t.Fatalf("expected TrapCallIndirect, got %v", err)
	}
}

func TestCallIndirectTypeMatchAcrossPoolsSucceeds(t *testing.T) {
	poolA := NewInternPool()
	poolB := NewInternPool()

	var sig [32]byte
	sig[3] = 0x77

	entryType := poolA.Intern(sig)
	expectedType := poolB.Intern(sig) // byte-identical, distinct pointer

	tbl := NewFuncrefTable(1)
	tbl.Set(0, FuncrefEntry{TypeID: entryType, Func: 0x99})

	got := CallIndirect(tbl, expectedType, 0)
	if got.Func != 0x99 {
		t.Fatalf("CallIndirect returned Func=%#x, want 0x99", got.Func)
	}
}

func TestCallIndirectNullEntryTraps(t *testing.T) {
	pool := NewInternPool()
	var sig [32]byte
	expected := pool.Intern(sig)
	tbl := NewFuncrefTable(1)

	in := NewInstance(DefaultConfig(), pool)
	err := in.Invoke(func() { CallIndirect(tbl, expected, 0) })
	if err == nil {
		t.Fatal("expected CALL_INDIRECT trap on null entry")
	}
	if te, ok := err.(*TrapError); !ok || te.Kind != TrapCallIndirect {
		t.Fatalf("expected TrapCallIndirect, got %v", err)
	}
}

func TestCallIndirectOutOfRangeTraps(t *testing.T) {
	pool := NewInternPool()
	var sig [32]byte
	expected := pool.Intern(sig)
	tbl := NewFuncrefTable(1)

	in := NewInstance(DefaultConfig(), pool)
	err := in.Invoke(func() { CallIndirect(tbl, expected, 5) })
	if err == nil {
		t.Fatal("expected CALL_INDIRECT trap on out-of-range index")
	}
	if te, ok := err.(*TrapError); !ok || te.Kind != TrapCallIndirect {
		t.Fatalf("expected TrapCallIndirect, got %v", err)
	}
}
