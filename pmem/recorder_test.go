package pmem

import (
	"unsafe"
)

// opKind identifies a call made on the Primitives boundary.
type opKind int

const (
	opStream opKind = iota
	opCached
	opFlush
	opFence
)

func (k opKind) String() string {
	return [...]string{"stream", "cached", "flush", "fence"}[k]
}

// op is one recorded call. addr is absolute; n is 0 for fences and
// CacheLineSize for flushes.
type op struct {
	kind opKind
	addr uintptr
	n    uintptr
}

// recorder performs the copies for real and logs every call, so tests can
// check both the bytes and the store/flush/fence sequence.
type recorder struct {
	ops      []op
	streamed [][2]uintptr
}

func (r *recorder) StreamCopy(dst, src unsafe.Pointer, n uintptr) {
	memmove(dst, src, n)
	r.ops = append(r.ops, op{opStream, uintptr(dst), n})
}

func (r *recorder) CachedCopy(dst, src unsafe.Pointer, n uintptr) {
	memmove(dst, src, n)
	r.ops = append(r.ops, op{opCached, uintptr(dst), n})
}

func (r *recorder) FlushLine(addr uintptr) {
	r.ops = append(r.ops, op{opFlush, addr, CacheLineSize})
}

func (r *recorder) Fence() {
	r.ops = append(r.ops, op{opFence, 0, 0})
}

func (r *recorder) Streamed(dst unsafe.Pointer, n uintptr) {
	r.streamed = append(r.streamed, [2]uintptr{uintptr(dst), n})
}

func (r *recorder) reset() {
	r.ops = r.ops[:0]
	r.streamed = r.streamed[:0]
}

func (r *recorder) count(k opKind) int {
	var c int
	for _, o := range r.ops {
		if o.kind == k {
			c++
		}
	}
	return c
}

// stores returns the store operations (streamed and cached) in order.
func (r *recorder) stores() []op {
	var s []op
	for _, o := range r.ops {
		if o.kind == opStream || o.kind == opCached {
			s = append(s, o)
		}
	}
	return s
}

// vectorCaps returns capabilities for a vector level that fences and
// flushes with CLWB.
func vectorCaps(l Level) Capabilities {
	t, _ := TierFor(l)
	return Capabilities{
		Level:          l,
		Width:          t.Width(),
		Flush:          FlushCLWB,
		NeedsFence:     true,
		MovntThreshold: DefaultMovntThreshold,
	}
}

var vectorLevels = []Level{LevelSSE2, LevelAVX, LevelAVX512F}

// alignedBuf returns an n-byte slice whose first byte is line aligned.
func alignedBuf(n int) []byte {
	b := make([]byte, n+CacheLineSize)
	off := int(-uintptr(unsafe.Pointer(&b[0])) & lineMask)
	return b[off : off+n : off+n]
}

// fillPattern writes a non-repeating-within-256 byte pattern.
func fillPattern(b []byte, seed int) {
	for i := range b {
		b[i] = byte(i*7 + seed + i>>8)
	}
}
