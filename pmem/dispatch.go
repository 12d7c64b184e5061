package pmem

import (
	"sync"

	"github.com/ajroetker/go-pmem/pmem/diag"
)

// Level is the vector instruction set used by the copy engine.
type Level int

const (
	// LevelScalar copies through the cache and flushes every line.
	LevelScalar Level = iota

	// LevelSSE2 streams with 128-bit registers (x86-64 baseline).
	LevelSSE2

	// LevelAVX streams with 256-bit registers.
	LevelAVX

	// LevelAVX512F streams with 512-bit registers.
	LevelAVX512F
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelSSE2:
		return "sse2"
	case LevelAVX:
		return "avx"
	case LevelAVX512F:
		return "avx512f"
	default:
		return "unknown"
	}
}

var (
	resolveOnce sync.Once
	resolved    CopyStrategy
)

// Resolve returns the process-wide copy strategy, detecting the CPU on the
// first call. Concurrent first callers all observe the same strategy.
func Resolve() CopyStrategy {
	resolveOnce.Do(func() {
		caps := Detect()
		resolved = StrategyFor(caps)
		diag.Logf(3, "pmem: using %s strategy, flush %s, fence %t, movnt threshold %d",
			resolved.Name(), caps.Flush, caps.NeedsFence, caps.MovntThreshold)
	})
	return resolved
}

// CurrentLevel returns the vector level of the resolved strategy.
func CurrentLevel() Level {
	return Resolve().Capabilities().Level
}

// CurrentWidth returns the vector register width in bytes of the resolved
// strategy: 16 for SSE2, 32 for AVX, 64 for AVX-512F and 8 for scalar.
func CurrentWidth() int {
	return Resolve().Capabilities().Width
}

// CurrentName returns the name of the resolved strategy, e.g. "avx512f".
func CurrentName() string {
	return Resolve().Name()
}
