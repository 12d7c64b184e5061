// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pmem

import "os"

// FlushKind is the instruction used to push a cache line toward the
// persistence domain.
type FlushKind int

const (
	// FlushNone means no flush is issued: either the CPU has no flush
	// instruction or the platform flushes caches on power failure.
	FlushNone FlushKind = iota

	// FlushCLFLUSH flushes and invalidates; it is ordered with stores.
	FlushCLFLUSH

	// FlushCLFLUSHOPT flushes and invalidates, weakly ordered.
	FlushCLFLUSHOPT

	// FlushCLWB writes back without invalidating, weakly ordered.
	FlushCLWB
)

// String returns the instruction name.
func (k FlushKind) String() string {
	switch k {
	case FlushNone:
		return "none"
	case FlushCLFLUSH:
		return "clflush"
	case FlushCLFLUSHOPT:
		return "clflushopt"
	case FlushCLWB:
		return "clwb"
	default:
		return "unknown"
	}
}

// Capabilities describes what the copy engine may use on this host.
// It is a plain value; once Resolve has computed it, it never changes.
type Capabilities struct {
	Level Level
	// Width is the vector register width in bytes.
	Width int
	Flush FlushKind
	// NeedsFence is set when a store fence is required to order stores
	// before returning: always with non-temporal stores, and with the
	// weakly ordered flush instructions.
	NeedsFence     bool
	MovntThreshold uintptr
}

// cpuFeatures is the raw result of probing the CPU.
type cpuFeatures struct {
	sse2, avx, avx512f        bool
	clflush, clflushopt, clwb bool
}

// Detect probes the CPU and applies the PMEM_* environment overrides. It
// has no side effects and always succeeds; at worst it reports the scalar
// level with no flush instruction.
func Detect() Capabilities {
	return capabilitiesFor(probeCPU(), ConfigFromEnv(os.Getenv))
}

func capabilitiesFor(f cpuFeatures, cfg Config) Capabilities {
	c := Capabilities{
		Level:          LevelScalar,
		MovntThreshold: cfg.MovntThreshold,
	}

	if !cfg.NoSIMD && !cfg.NoMovnt {
		switch {
		case f.avx512f && !cfg.NoAVX512F && !cfg.NoAVX:
			c.Level = LevelAVX512F
		case f.avx && !cfg.NoAVX:
			c.Level = LevelAVX
		case f.sse2:
			c.Level = LevelSSE2
		}
	}

	switch {
	case cfg.NoFlush:
		c.Flush = FlushNone
	case f.clwb && !cfg.NoCLWB:
		c.Flush = FlushCLWB
	case f.clflushopt && !cfg.NoCLFLUSHOPT:
		c.Flush = FlushCLFLUSHOPT
	case f.clflush:
		c.Flush = FlushCLFLUSH
	}

	return c.WithLevel(c.Level)
}

// WithLevel returns c running at level l instead, with Width and NeedsFence
// derived for l. l must not exceed the detected level.
func (c Capabilities) WithLevel(l Level) Capabilities {
	c.Level, c.Width = l, 8
	if t, ok := TierFor(l); ok {
		c.Width = t.Width()
	}
	c.NeedsFence = l != LevelScalar || c.Flush == FlushCLFLUSHOPT || c.Flush == FlushCLWB
	return c
}
