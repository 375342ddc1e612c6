package rt

// CallIndirect implements spec.md §4.6: traps CALL_INDIRECT if idx is out
// of range, the table entry is null, or the entry's type does not match
// expected. On success it returns the entry so the caller can dispatch
// through Func/TailCallee/Instance; this package has no notion of a Go
// function signature to call through, so dispatch itself is left to the
// generated code that calls CallIndirect.
func CallIndirect(t *FuncrefTable, expected FuncTypeID, idx uint64) FuncrefEntry {
	if idx >= t.Size() {
		Trap(TrapCallIndirect)
	}
	e := t.entries[idx]
	if e.IsNull() {
		Trap(TrapCallIndirect)
	}
	if !FuncTypesEqual(expected, e.TypeID) {
		Trap(TrapCallIndirect)
	}
	return e
}
