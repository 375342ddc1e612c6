package rt

import "sync"

// Collaborators holds the overridable external hooks of this core
// (spec.md §6): funcref nullification and the module-instance field reads
// that GlobalGet element entries require. Trap delivery and memmove/memset
// are not hooks here: Trap panics, and copies use Go's built-ins. It is
// modeled on the
// teacher's stub registry (a name-indexed table of overridable hooks,
// see internal/stubs/registry.go in the teacher tree) but there is only one
// fixed set of collaborator roles here rather than an open-ended set of
// symbol-named hooks, so Collaborators is a small struct of function
// fields instead of a map.
type Collaborators struct {
	mu sync.RWMutex

	// ReadGlobalFuncref resolves a GlobalGet element-segment entry: it
	// reads *(funcref_ptr*)((byte*)instanceBase + offset). The default
	// implementation always returns the null funcref, since this package
	// has no notion of a module-instance record layout; real embedders
	// override it.
	ReadGlobalFuncref func(instanceBase uintptr, offset uintptr) FuncrefEntry

	// FuncrefNullify writes the canonical null funcref into dst.
	FuncrefNullify func(dst *FuncrefEntry)
}

// DefaultCollaborators returns a Collaborators with conservative defaults:
// GlobalGet resolves to null, and nullify zeroes the entry in place.
func DefaultCollaborators() *Collaborators {
	return &Collaborators{
		ReadGlobalFuncref: func(uintptr, uintptr) FuncrefEntry { return FuncrefEntry{} },
		FuncrefNullify:    func(dst *FuncrefEntry) { *dst = FuncrefEntry{} },
	}
}

// SetReadGlobalFuncref overrides the GlobalGet resolver under lock, so an
// embedder can install it after NewInstance without racing a concurrent
// table-init call.
func (c *Collaborators) SetReadGlobalFuncref(fn func(instanceBase, offset uintptr) FuncrefEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ReadGlobalFuncref = fn
}
