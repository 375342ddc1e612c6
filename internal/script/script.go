// Package script embeds a goja JavaScript console over an rt.Instance, so
// an operator can poke at memory and numeric primitives interactively instead of writing a Go harness for every experiment.
package script

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/zboralski/wasmrt/internal/rt"
)

// Console is a goja VM with the runtime's primitives bound as globals.
type Console struct {
	vm       *goja.Runtime
	instance *rt.Instance
	memories map[string]*rt.Memory
}

// NewConsole creates a Console bound to in, with the named memories
// reachable from script as mem.<name>.
func NewConsole(in *rt.Instance, memories map[string]*rt.Memory) *Console {
	c := &Console{
		vm:       goja.New(),
		instance: in,
		memories: memories,
	}
	c.bind()
	return c
}

// bind installs the memory and numeric primitives and a depth() query as
// JS-callable functions. Every call that can trap is wrapped in in.Invoke so a script
// error reads as a JS exception instead of crashing the console.
func (c *Console) bind() {
	vm := c.vm

	mem := vm.NewObject()
	for name, m := range c.memories {
		m := m
		memObj := vm.NewObject()
		memObj.Set("loadI32", func(addr int64) (v uint32, err error) {
			err = c.instance.Invoke(func() { v = rt.I32LoadU(m, uint64(addr)) })
			return
		})
		memObj.Set("storeI32", func(addr int64, val uint32) error {
			return c.instance.Invoke(func() { rt.I32Store(m, uint64(addr), val) })
		})
		memObj.Set("size", func() uint64 { return m.Size() })
		mem.Set(name, memObj)
	}
	vm.Set("mem", mem)

	numeric := vm.NewObject()
	numeric.Set("clz32", rt.Clz32)
	numeric.Set("ctz32", rt.Ctz32)
	numeric.Set("popcount32", rt.Popcount32)
	numeric.Set("rotl32", rt.Rotl32)
	numeric.Set("rotr32", rt.Rotr32)
	vm.Set("numeric", numeric)

	vm.Set("depth", func() int { return c.instance.Depth() })
}

// Eval runs a script and returns its result formatted as a string, or an
// error if the script failed to parse or threw.
func (c *Console) Eval(src string) (string, error) {
	v, err := c.vm.RunString(src)
	if err != nil {
		return "", fmt.Errorf("script: %w", err)
	}
	return v.String(), nil
}
