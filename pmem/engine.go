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
	"sync"
	"unsafe"

	"github.com/ajroetker/go-pmem/pmem/diag"
)

// engine is the chunked copy engine for one tier. It never fences; the
// strategy issues the single trailing fence.
//
// Addresses are carried as a base pointer plus an offset so that no pointer
// is ever formed one past the end of a range.
type engine struct {
	tier Tier
	p    Primitives
}

// move copies n > 0 bytes from src to dst, choosing the traversal direction
// so that overlapping ranges behave like memmove.
func (e *engine) move(dst, src unsafe.Pointer, n uintptr) {
	// Unsigned: dst below src wraps to a huge value and goes forward.
	if uintptr(dst)-uintptr(src) >= n {
		e.forward(dst, src, n, 1)
	} else {
		e.backward(dst, src, n)
	}
}

// forward walks low to high. With stride 0 every read starts at src, which
// is how set streams a pattern buffer.
func (e *engine) forward(dst, src unsafe.Pointer, n, stride uintptr) {
	var off uintptr
	if head := uintptr(dst) & lineMask; head != 0 {
		off = min(CacheLineSize-head, n)
		e.small(dst, src, off)
		if off == n {
			return
		}
	}
	diag.AssertEq((uintptr(dst)+off)&lineMask, 0)

	chunks := e.tier.chunks
	for n-off >= chunks[0] {
		e.stream(unsafe.Add(dst, off), unsafe.Add(src, off*stride), chunks[0])
		off += chunks[0]
	}
	for _, c := range chunks[1:] {
		if n-off >= c {
			e.stream(unsafe.Add(dst, off), unsafe.Add(src, off*stride), c)
			off += c
		}
	}

	for _, t := range tailSizes {
		if n-off >= t {
			e.stream(unsafe.Add(dst, off), unsafe.Add(src, off*stride), t)
			off += t
		}
	}
	if off < n {
		e.small(unsafe.Add(dst, off), unsafe.Add(src, off*stride), n-off)
	}
}

// backward walks high to low; end is the offset of the first byte not yet
// written, counting down to zero.
func (e *engine) backward(dst, src unsafe.Pointer, n uintptr) {
	end := n
	if head := (uintptr(dst) + n) & lineMask; head != 0 {
		head = min(head, n)
		end -= head
		e.small(unsafe.Add(dst, end), unsafe.Add(src, end), head)
		if end == 0 {
			return
		}
	}
	diag.AssertEq((uintptr(dst)+end)&lineMask, 0)

	chunks := e.tier.chunks
	for end >= chunks[0] {
		end -= chunks[0]
		e.stream(unsafe.Add(dst, end), unsafe.Add(src, end), chunks[0])
	}
	for _, c := range chunks[1:] {
		if end >= c {
			end -= c
			e.stream(unsafe.Add(dst, end), unsafe.Add(src, end), c)
		}
	}

	for _, t := range tailSizes {
		if end >= t {
			end -= t
			e.stream(unsafe.Add(dst, end), unsafe.Add(src, end), t)
		}
	}
	if end > 0 {
		e.small(dst, src, end)
	}
}

// stream writes one chunk or tail with non-temporal stores. The streaming
// kernels fault unless dst is aligned to min(n, CacheLineSize).
func (e *engine) stream(dst, src unsafe.Pointer, n uintptr) {
	diag.Assertf(uintptr(dst)%min(n, CacheLineSize) == 0,
		"pmem: %d-byte stream to misaligned %#x", n, uintptr(dst))
	e.p.StreamCopy(dst, src, n)
	e.p.Streamed(dst, n)
}

// small copies a sub-line piece through the cache and flushes it.
func (e *engine) small(dst, src unsafe.Pointer, n uintptr) {
	e.p.CachedCopy(dst, src, n)
	flushRange(e.p, uintptr(dst), n)
}

// patterns hold the fill bytes streamed by set. The largest cascade chunk
// is 32 lines.
var patterns = sync.Pool{
	New: func() any { return new([32 * CacheLineSize]byte) },
}

// set fills n > 0 bytes at dst with c.
func (e *engine) set(dst unsafe.Pointer, c byte, n uintptr) {
	buf := patterns.Get().(*[32 * CacheLineSize]byte)
	defer patterns.Put(buf)

	pat := buf[:min(n, e.tier.chunks[0])]
	for i := range pat {
		pat[i] = c
	}
	e.forward(dst, unsafe.Pointer(&pat[0]), n, 0)
}
