package script

import (
	"strings"
	"testing"

	"github.com/zboralski/wasmrt/internal/rt"
)

func TestConsoleLoadStoreRoundTrip(t *testing.T) {
	cfg := rt.DefaultConfig()
	m, err := rt.NewMemory(cfg, 64, 64)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	defer m.Close()

	in := rt.NewInstance(cfg, nil)
	c := NewConsole(in, map[string]*rt.Memory{"main": m})

	if _, err := c.Eval(`mem.main.storeI32(8, 0x2a)`); err != nil {
		t.Fatalf("Eval(storeI32): %v", err)
	}
	out, err := c.Eval(`mem.main.loadI32(8)`)
	if err != nil {
		t.Fatalf("Eval(loadI32): %v", err)
	}
	if out != "42" {
		t.Fatalf("loadI32(8) = %q, want \"42\"", out)
	}
}

func TestConsoleNumericPrimitives(t *testing.T) {
	cfg := rt.DefaultConfig()
	in := rt.NewInstance(cfg, nil)
	c := NewConsole(in, nil)

	out, err := c.Eval(`numeric.clz32(1)`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if out != "31" {
		t.Fatalf("clz32(1) = %q, want \"31\"", out)
	}
}

func TestConsoleOutOfBoundsSurfacesAsScriptError(t *testing.T) {
	cfg := rt.DefaultConfig()
	m, err := rt.NewMemory(cfg, 16, 16)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	defer m.Close()

	in := rt.NewInstance(cfg, nil)
	c := NewConsole(in, map[string]*rt.Memory{"main": m})

	_, err = c.Eval(`mem.main.loadI32(1000)`)
	if err == nil {
		t.Fatal("expected an out-of-bounds access to surface as a script error")
	}
	if !strings.Contains(err.Error(), "script:") {
		t.Fatalf("error = %v, want wrapped script error", err)
	}
}
