package rt

// CheckMode selects the memory-access checking strategy, one of the
// build-time configuration flags in spec.md §6. It is selected when a
// Memory is constructed (NewMemory) rather than at true compile time (this is a library, not
// a code generator) — see SPEC_FULL.md Open Question OQ-1.
type CheckMode int

const (
	// CheckNone performs no access check. Intended for benchmarking a
	// translator that is already known-correct; never the default.
	CheckNone CheckMode = iota
	// CheckBounds performs an explicit range_check before every access.
	CheckBounds
	// CheckGuardPage relies on a host MMU fault (see guardmem.go) instead
	// of explicit arithmetic.
	CheckGuardPage
)

func (m CheckMode) String() string {
	switch m {
	case CheckNone:
		return "none"
	case CheckBounds:
		return "bounds"
	case CheckGuardPage:
		return "guard_page"
	default:
		return "unknown"
	}
}

// Config gathers the build-time configuration flags of spec.md §6.
type Config struct {
	// CheckMode selects the memory-access checking strategy.
	CheckMode CheckMode `yaml:"check_mode"`

	// CountCallDepth turns call-stack depth counting on or off.
	CountCallDepth bool `yaml:"count_call_depth"`
	// MaxCallDepth is the configurable ceiling; <=0 means DefaultMaxDepth.
	MaxCallDepth int `yaml:"max_call_depth"`

	// BigEndianHost forces the endian adapter's big-endian path,
	// independent of runtime.GOARCH's actual byte order. Exercised by
	// tests to cover both adapter branches on any host.
	BigEndianHost bool `yaml:"big_endian_host"`

	// Mem64 enables 64-bit address-space memories.
	Mem64 bool `yaml:"mem64"`

	// SeguePermitted allows the segmented-memory fast path to arm itself
	// when the rest of its preconditions hold (see segue.go).
	SeguePermitted bool `yaml:"segue_permitted"`
	// SegueSanityChecks enables the per-access seg_base == memory.data
	// assertion described in spec.md §4.9, at a performance cost.
	SegueSanityChecks bool `yaml:"segue_sanity_checks"`

	// ForcePortableBitops forces the SWAR/bit-loop fallback in shims.go
	// even on hosts with native popcount/clz/ctz support, so the fallback
	// path has something exercising it outside of unit tests.
	ForcePortableBitops bool `yaml:"force_portable_bitops"`
}

// DefaultConfig returns the configuration a production embedder should
// start from: bounds checking, depth counting at DefaultMaxDepth, host
// endianness, 32-bit memories, segue permitted when the host supports it.
func DefaultConfig() Config {
	return Config{
		CheckMode:      CheckBounds,
		CountCallDepth: true,
		MaxCallDepth:   DefaultMaxDepth,
		SeguePermitted: true,
	}
}
