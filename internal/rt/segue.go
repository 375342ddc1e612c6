package rt

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Segue is the segmented-memory fast path of spec.md §4.9: when all its
// preconditions hold, memory-access primitives compute addresses relative
// to a cached base pointer instead of re-reading memory.data on every
// access. The original technique programs an x86 segment-base register so
// the CPU itself adds the base; Go exposes neither inline asm nor a way to
// program a segment register from user code, so this realizes the same
// *effect* — saving a pointer load per access — as a cached, sanity-checked
// field instead (spec.md §9: "in a language without inline asm support one
// simply does not offer the fast path — behaviour is unchanged"; here we
// keep an approximation of it rather than dropping it outright, since the
// cached-pointer behavior is still observable as a performance path with
// identical correctness).
type Segue struct {
	base   unsafe.Pointer
	armed  bool
	sanity bool
	owner  *Memory
}

// seguePreconditionsHold mirrors spec.md §4.9's enabling conditions that
// this runtime can actually observe: little-endian host and a host that
// exposes the bit-manipulation instruction set the real fast path would
// also want (golang.org/x/sys/cpu exposes no FSGSBASE feature bit, so
// cpu.X86.HasBMI2 stands in as the nearest available proxy for "this host
// has the modern instruction support the fast path assumes" — see
// SPEC_FULL.md's DOMAIN STACK table).
func seguePreconditionsHold(cfg Config) bool {
	if !cfg.SeguePermitted {
		return false
	}
	if cfg.BigEndianHost {
		return false
	}
	if runtime.GOARCH != "amd64" {
		return false
	}
	return cpu.X86.HasBMI2
}

// NewSegue arms the fast path for mem if every precondition holds;
// otherwise it returns a disarmed Segue and every access falls back to the
// ordinary addressing path. Arming is transparent to correctness either
// way (spec.md §4.9: "the fast path is transparent").
func NewSegue(cfg Config, mem *Memory) *Segue {
	s := &Segue{sanity: cfg.SegueSanityChecks}
	if !seguePreconditionsHold(cfg) {
		logSegueDecision(mem, false, "preconditions not met")
		return s
	}
	if mem.guard != nil || len(mem.data) == 0 {
		logSegueDecision(mem, false, "guard-page memory or zero-length backing array")
		return s
	}
	s.base = unsafe.Pointer(&mem.data[0])
	s.armed = true
	s.owner = mem
	logSegueDecision(mem, true, "preconditions held")
	return s
}

func logSegueDecision(mem *Memory, armed bool, reason string) {
	if mem.logger != nil {
		mem.logger.Segue(armed, reason)
	}
}

// Armed reports whether the fast path is active.
func (s *Segue) Armed() bool { return s.armed }

// Base returns the cached base pointer, re-validating it against the
// owning memory's current backing array when sanity checks are enabled
// (spec.md §4.9: "a sanity check may verify seg_base == memory.data before
// each access in debug builds").
func (s *Segue) Base() unsafe.Pointer {
	if s.sanity && s.armed {
		if len(s.owner.data) == 0 || unsafe.Pointer(&s.owner.data[0]) != s.base {
			Trapf(TrapOOB, "segue base stale: memory was reallocated")
		}
	}
	return s.base
}
