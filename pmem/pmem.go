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
	"unsafe"

	"github.com/ajroetker/go-pmem/pmem/diag"
)

// Memmove copies min(len(dst), len(src)) bytes from src to dst and makes
// them durable before returning. The slices may overlap. It returns the
// number of bytes copied.
func Memmove(dst, src []byte) int {
	return MemmoveFlags(dst, src, 0)
}

// MemmoveFlags is Memmove with flags.
func MemmoveFlags(dst, src []byte, flags Flags) int {
	n := min(len(dst), len(src))
	if n == 0 {
		return 0
	}
	Resolve().Move(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), uintptr(n), flags)
	return n
}

// MemmovePtr copies n bytes from src to dst durably. Both ranges must be
// valid for n bytes.
func MemmovePtr(dst, src unsafe.Pointer, n uintptr) {
	Resolve().Move(dst, src, n, 0)
}

// Memset fills dst with c and makes it durable before returning.
func Memset(dst []byte, c byte) {
	MemsetFlags(dst, c, 0)
}

// MemsetFlags is Memset with flags.
func MemsetFlags(dst []byte, c byte, flags Flags) {
	if len(dst) == 0 {
		return
	}
	Resolve().Set(unsafe.Pointer(&dst[0]), c, uintptr(len(dst)), flags)
}

// Flush flushes the cache lines of b without waiting for completion.
func Flush(b []byte) {
	if len(b) == 0 {
		return
	}
	Resolve().Flush(uintptr(unsafe.Pointer(&b[0])), uintptr(len(b)))
}

// Drain waits for earlier Flush calls and FlagNoDrain copies to complete.
func Drain() {
	Resolve().Drain()
}

// Persist is Flush followed by Drain.
func Persist(b []byte) {
	Flush(b)
	Drain()
}

// CurrentCapabilities returns the capabilities of the resolved strategy.
func CurrentCapabilities() Capabilities {
	return Resolve().Capabilities()
}

// ErrorMsg returns the message of the last error reported by this module,
// or "" if there was none.
func ErrorMsg() string {
	return diag.LastError()
}
