package log

import "testing"

func TestNewNopDoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Trap("instance-1", "OOB", "addr=0x40")
	l.MemoryAccess("i32_load", 0x40, 4)
	l.TableOp("table_fill", 0, 0, 4)
	l.Segue(true, "preconditions held")
}

func TestSetOnEventFires(t *testing.T) {
	l := NewNop()
	var gotKind, gotDetail string
	l.SetOnEvent(func(kind, detail string) {
		gotKind, gotDetail = kind, detail
	})
	l.Trap("instance-1", "DIV_BY_ZERO", "")
	if gotKind != "trap" {
		t.Fatalf("gotKind = %q, want \"trap\"", gotKind)
	}
	if gotDetail != "DIV_BY_ZERO" {
		t.Fatalf("gotDetail = %q, want \"DIV_BY_ZERO\"", gotDetail)
	}
}

func TestHexFormatsZero(t *testing.T) {
	if got := Hex(0); got != "0x0" {
		t.Fatalf("Hex(0) = %q, want \"0x0\"", got)
	}
	if got := Hex(0xFF); got != "0xff" {
		t.Fatalf("Hex(0xFF) = %q, want \"0xff\"", got)
	}
}
