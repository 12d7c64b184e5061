// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"unsafe"

	"github.com/ajroetker/go-pmem/pmem"
)

// DefaultSegment is the smallest piece of a move handed to one worker.
// Below it the pool overhead outweighs the extra bandwidth.
const DefaultSegment = 256 << 10

// Mover performs durable moves through a Pool.
type Mover struct {
	pool    *Pool
	s       pmem.CopyStrategy
	segment int
}

// NewMover returns a Mover using s, or the process-wide strategy if s is
// nil. segment is rounded up to a whole number of cache lines; 0 selects
// DefaultSegment.
func NewMover(pool *Pool, s pmem.CopyStrategy, segment int) *Mover {
	if s == nil {
		s = pmem.Resolve()
	}
	if segment <= 0 {
		segment = DefaultSegment
	}
	segment = (segment + pmem.CacheLineSize - 1) &^ (pmem.CacheLineSize - 1)
	return &Mover{pool: pool, s: s, segment: segment}
}

// Segment returns the segment size in bytes.
func (m *Mover) Segment() int {
	return m.segment
}

// bounds returns the offset where segment i starts. Interior boundaries
// fall on cache lines of dst so that no line is written by two workers.
func (m *Mover) bounds(dst unsafe.Pointer, n, i int) int {
	switch {
	case i == 0:
		return 0
	case i >= m.segments(n):
		return n
	}
	lead := int(uintptr(dst) & (pmem.CacheLineSize - 1))
	return min(i*m.segment-lead, n)
}

func (m *Mover) segments(n int) int {
	return (n + m.segment - 1) / m.segment
}

// Memmove durably copies min(len(dst), len(src)) bytes and returns the
// count, like pmem.Memmove.
func (m *Mover) Memmove(dst, src []byte) int {
	n := min(len(dst), len(src))
	if n == 0 {
		return 0
	}
	d, s := unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0])
	if n <= m.segment || overlaps(d, s, n) {
		m.s.Move(d, s, uintptr(n), 0)
		return n
	}

	m.pool.ParallelFor(m.segments(n), func(first, last int) {
		start, end := m.bounds(d, n, first), m.bounds(d, n, last)
		if start < end {
			m.s.Move(unsafe.Add(d, start), unsafe.Add(s, start), uintptr(end-start), 0)
		}
	})
	return n
}

// Memset durably fills dst with c.
func (m *Mover) Memset(dst []byte, c byte) {
	n := len(dst)
	if n == 0 {
		return
	}
	d := unsafe.Pointer(&dst[0])
	if n <= m.segment {
		m.s.Set(d, c, uintptr(n), 0)
		return
	}

	m.pool.ParallelForAtomicBatched(m.segments(n), 1, func(first, last int) {
		start, end := m.bounds(d, n, first), m.bounds(d, n, last)
		if start < end {
			m.s.Set(unsafe.Add(d, start), c, uintptr(end-start), pmem.FlagNoDrain)
		}
	}, m.s.Drain)
}

func overlaps(d, s unsafe.Pointer, n int) bool {
	a, b := uintptr(d), uintptr(s)
	return a < b+uintptr(n) && b < a+uintptr(n)
}
