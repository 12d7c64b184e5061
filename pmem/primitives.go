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

import (
	"sync/atomic"
	"unsafe"

	"github.com/ajroetker/go-pmem/pmem/asm"
)

// Primitives is the hardware boundary of the copy engine. Everything above
// it is plain arithmetic, so the engine can be driven by a recording
// implementation in tests.
type Primitives interface {
	// StreamCopy copies n bytes from src to dst with non-temporal stores.
	// n is a chunk of the tier's cascade or one of 32, 16, 8, 4. All n
	// bytes are loaded before the first store.
	StreamCopy(dst, src unsafe.Pointer, n uintptr)

	// CachedCopy copies n bytes through the cache. Overlap is allowed.
	CachedCopy(dst, src unsafe.Pointer, n uintptr)

	// FlushLine pushes the cache line containing addr toward persistence.
	FlushLine(addr uintptr)

	// Fence orders every store issued so far before any later one.
	Fence()

	// Streamed is called after each StreamCopy with the range written.
	// Hardware needs nothing here; it lets memory checkers account for
	// bytes that bypassed the cache.
	Streamed(dst unsafe.Pointer, n uintptr)
}

// nativePrimitives binds the asm kernels chosen for a capability set.
type nativePrimitives struct {
	movnt func(dst, src unsafe.Pointer, n uintptr)
	flush func(addr uintptr)
	fence func()
}

func (p *nativePrimitives) StreamCopy(dst, src unsafe.Pointer, n uintptr) { p.movnt(dst, src, n) }
func (p *nativePrimitives) CachedCopy(dst, src unsafe.Pointer, n uintptr) { memmove(dst, src, n) }
func (p *nativePrimitives) FlushLine(addr uintptr)                        { p.flush(addr) }
func (p *nativePrimitives) Fence()                                        { p.fence() }
func (p *nativePrimitives) Streamed(dst unsafe.Pointer, n uintptr)        {}

func newPrimitives(c Capabilities) *nativePrimitives {
	p := &nativePrimitives{
		movnt: memmove,
		flush: func(uintptr) {},
		fence: portableFence,
	}
	if !asm.Available {
		return p
	}

	switch c.Level {
	case LevelSSE2:
		p.movnt = asm.MovNTSSE2
	case LevelAVX:
		p.movnt = asm.MovNTAVX
	case LevelAVX512F:
		p.movnt = asm.MovNTAVX512
	}
	switch c.Flush {
	case FlushCLFLUSH:
		p.flush = asm.Clflush
	case FlushCLFLUSHOPT:
		p.flush = asm.Clflushopt
	case FlushCLWB:
		p.flush = asm.Clwb
	}
	p.fence = asm.Sfence
	return p
}

// memmove copies n bytes; the builtin copy handles overlap.
func memmove(dst, src unsafe.Pointer, n uintptr) {
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}

var fenceWord atomic.Uint32

// portableFence is a full barrier through an atomic read-modify-write.
func portableFence() {
	fenceWord.Add(1)
}

// flushRange flushes every cache line overlapping [addr, addr+n).
func flushRange(p Primitives, addr, n uintptr) {
	end := addr + n
	for line := addr &^ lineMask; line < end; line += CacheLineSize {
		p.FlushLine(line)
	}
}
