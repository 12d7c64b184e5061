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

import "unsafe"

// Flags modify a single Move or Set.
type Flags uint32

const (
	// FlagNoDrain skips the trailing fence. The caller must call Drain
	// before relying on durability.
	FlagNoDrain Flags = 1 << iota

	// FlagNonTemporal streams regardless of the movnt threshold.
	FlagNonTemporal

	// FlagTemporal copies through the cache and flushes, even above the
	// movnt threshold.
	FlagTemporal

	// FlagNoFlush copies through the cache without flushing or fencing.
	// The caller persists the range later.
	FlagNoFlush
)

// CopyStrategy is a durable copy implementation bound to one capability
// set. All methods are safe for concurrent use on disjoint ranges.
type CopyStrategy interface {
	// Name is the vector level name, e.g. "sse2" or "scalar".
	Name() string

	Capabilities() Capabilities

	// Move copies n bytes from src to dst with memmove semantics and makes
	// them durable before returning.
	Move(dst, src unsafe.Pointer, n uintptr, flags Flags)

	// Set fills n bytes at dst with c and makes them durable before
	// returning.
	Set(dst unsafe.Pointer, c byte, n uintptr, flags Flags)

	// Flush flushes every cache line overlapping [addr, addr+n) without
	// fencing.
	Flush(addr, n uintptr)

	// Drain waits for prior flushes and non-temporal stores to complete.
	Drain()
}

type strategy struct {
	caps Capabilities
	p    Primitives
	eng  *engine // nil for the scalar level
}

// StrategyFor builds the strategy matching caps. Levels above what the CPU
// supports must not be requested.
func StrategyFor(caps Capabilities) CopyStrategy {
	return newStrategy(caps, newPrimitives(caps))
}

func newStrategy(caps Capabilities, p Primitives) *strategy {
	s := &strategy{caps: caps, p: p}
	if t, ok := TierFor(caps.Level); ok {
		s.eng = &engine{tier: t, p: p}
	}
	return s
}

func (s *strategy) Name() string               { return s.caps.Level.String() }
func (s *strategy) Capabilities() Capabilities { return s.caps }

func (s *strategy) Move(dst, src unsafe.Pointer, n uintptr, flags Flags) {
	if n == 0 || dst == src {
		return
	}
	switch {
	case flags&FlagNoFlush != 0:
		s.p.CachedCopy(dst, src, n)
		return
	case s.streams(n, flags):
		s.eng.move(dst, src, n)
	default:
		s.p.CachedCopy(dst, src, n)
		flushRange(s.p, uintptr(dst), n)
	}
	s.drain(flags)
}

func (s *strategy) Set(dst unsafe.Pointer, c byte, n uintptr, flags Flags) {
	if n == 0 {
		return
	}
	switch {
	case flags&FlagNoFlush != 0:
		fill(dst, c, n)
		return
	case s.streams(n, flags):
		s.eng.set(dst, c, n)
	default:
		fill(dst, c, n)
		flushRange(s.p, uintptr(dst), n)
	}
	s.drain(flags)
}

func (s *strategy) Flush(addr, n uintptr) {
	if n == 0 || s.caps.Flush == FlushNone {
		return
	}
	flushRange(s.p, addr, n)
}

func (s *strategy) Drain() {
	if s.caps.NeedsFence {
		s.p.Fence()
	}
}

// streams reports whether a request goes through the chunked engine.
func (s *strategy) streams(n uintptr, flags Flags) bool {
	if s.eng == nil || flags&FlagTemporal != 0 {
		return false
	}
	return flags&FlagNonTemporal != 0 || n >= s.caps.MovntThreshold
}

func (s *strategy) drain(flags Flags) {
	if flags&FlagNoDrain == 0 {
		s.Drain()
	}
}

func fill(dst unsafe.Pointer, c byte, n uintptr) {
	b := unsafe.Slice((*byte)(dst), n)
	for i := range b {
		b[i] = c
	}
}
