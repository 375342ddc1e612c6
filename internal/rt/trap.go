// Package rt implements the runtime support core consumed by ahead-of-time
// compiled WebAssembly modules: memory and table access, numeric operators
// with trap semantics, and segment initialization.
package rt

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zboralski/wasmrt/internal/log"
	"github.com/zboralski/wasmrt/internal/trace"
)

// TrapKind is the closed enumeration of trap reasons a primitive can raise.
type TrapKind int

const (
	TrapOOB TrapKind = iota
	TrapIntOverflow
	TrapDivByZero
	TrapInvalidConversion
	TrapUnreachable
	TrapCallIndirect
	TrapExhaustion
)

func (k TrapKind) String() string {
	switch k {
	case TrapOOB:
		return "OOB"
	case TrapIntOverflow:
		return "INT_OVERFLOW"
	case TrapDivByZero:
		return "DIV_BY_ZERO"
	case TrapInvalidConversion:
		return "INVALID_CONVERSION"
	case TrapUnreachable:
		return "UNREACHABLE"
	case TrapCallIndirect:
		return "CALL_INDIRECT"
	case TrapExhaustion:
		return "EXHAUSTION"
	default:
		return "UNKNOWN_TRAP"
	}
}

// TrapError is the payload carried by the panic a trap raises. It never
// escapes an Instance boundary: Instance.Invoke recovers it and returns it
// as an ordinary error.
type TrapError struct {
	Kind   TrapKind
	Detail string
}

func (e *TrapError) Error() string {
	if e.Detail == "" {
		return "trap: " + e.Kind.String()
	}
	return fmt.Sprintf("trap: %s: %s", e.Kind, e.Detail)
}

// Trap is a never-returning non-local exit. Generated code (and every
// primitive in this package) calls Trap instead of returning an error; the
// call stack unwinds via panic to the nearest Instance.Invoke, which is the
// only place a trap is recovered. No primitive in this package may recover
// a trap itself.
func Trap(kind TrapKind) {
	panic(&TrapError{Kind: kind})
}

// Trapf is Trap with a formatted detail message, used only for diagnostics;
// the Kind is what generated code and tests key off of.
func Trapf(kind TrapKind, format string, args ...any) {
	panic(&TrapError{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// DefaultMaxDepth is the call-stack depth ceiling used when an Instance is
// constructed without an explicit override: deep enough for legitimate
// recursive guest code, bounded so a runaway guest traps instead of
// exhausting the host stack.
const DefaultMaxDepth = 1_000_000

// Instance is the runtime state of one module: its memories, tables, the
// type pool they were linked against, and the call-stack depth counter.
// An Instance is not safe for concurrent use from multiple goroutines, the
// same way the spec's call-stack depth counter is documented "per-thread"
// rather than synchronized.
type Instance struct {
	ID   uuid.UUID
	Pool *InternPool
	Cfg  Config

	// Trace, when non-nil, receives a recorded event for every trap this
	// Instance's Invoke recovers. Nil by default: tracing is zero-cost
	// until an embedder opts in with SetTrace.
	Trace *trace.Recorder

	// Logger, when non-nil, receives a structured log entry for every trap
	// this Instance's Invoke recovers. Nil by default: logging is
	// zero-cost until an embedder opts in with SetLogger.
	Logger *log.Logger

	depth    int
	maxDepth int

	collab *Collaborators
}

// SetTrace installs a trace.Recorder to receive future trap events.
func (in *Instance) SetTrace(r *trace.Recorder) { in.Trace = r }

// SetLogger installs a Logger to receive future trap events.
func (in *Instance) SetLogger(l *log.Logger) { in.Logger = l }

// NewInstance creates an Instance bound to the given type pool and
// configuration. If pool is nil a private InternPool is created.
func NewInstance(cfg Config, pool *InternPool) *Instance {
	if pool == nil {
		pool = NewInternPool()
	}
	maxDepth := cfg.MaxCallDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Instance{
		ID:       uuid.New(),
		Pool:     pool,
		Cfg:      cfg,
		maxDepth: maxDepth,
		collab:   DefaultCollaborators(),
	}
}

// Collaborators exposes the Instance's collaborator registry so an embedder
// can override the GlobalGet resolver or funcref nullification.
func (in *Instance) Collaborators() *Collaborators { return in.collab }

// Enter accounts for generated-function entry when call-stack depth
// counting is enabled in Cfg. It traps EXHAUSTION if the configured ceiling
// is exceeded. Pair every Enter with a Leave on the success path (not a
// deferred one, which would also run while a trap unwinds); on a trap the
// Leave is skipped by design (see spec.md §3: "on trap, non-local exit
// bypasses decrement").
func (in *Instance) Enter() {
	if !in.Cfg.CountCallDepth {
		return
	}
	in.depth++
	if in.depth > in.maxDepth {
		Trap(TrapExhaustion)
	}
}

// Leave undoes Enter on the success path of a generated function.
func (in *Instance) Leave() {
	if !in.Cfg.CountCallDepth {
		return
	}
	in.depth--
}

// Depth reports the current call-stack depth counter (for tests and the
// TUI inspector).
func (in *Instance) Depth() int { return in.depth }

// Invoke is the sole trap-recovery boundary: it calls fn and converts any
// TrapError panic raised (directly or transitively) into a normal error.
// Any other panic propagates unchanged — this package only traps the
// conditions spec.md's TrapKind enumerates.
//
// Invoke resets the depth counter to 0 after a recovered trap: the caught
// value is process-external to this core (spec.md §7: "the depth counter
// ... is reset externally after a trap is caught").
func (in *Instance) Invoke(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			te, ok := r.(*TrapError)
			if !ok {
				panic(r)
			}
			in.depth = 0
			if in.Trace != nil {
				in.Trace.Record("trap", te.Kind.String(), te.Detail)
			}
			if in.Logger != nil {
				in.Logger.Trap(in.ID.String(), te.Kind.String(), te.Detail)
			}
			err = te
		}
	}()
	fn()
	return nil
}
