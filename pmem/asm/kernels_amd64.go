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

//go:build amd64 && !noasm

//go:generate sh -c "cd ../../cmd/pmemasm && go run main.go -out ../../pmem/asm/movnt_amd64.s -stubs ../../pmem/asm/movnt_amd64.go -pkg asm"

package asm

import (
	"fmt"
	"unsafe"
)

// Available reports whether the amd64 kernels are compiled in.
const Available = true

// MovNTSSE2 copies n bytes from src to dst with 128-bit non-temporal
// stores. n must be 256, 128, 64, 32, 16, 8 or 4, and dst must be aligned to
// min(n, 16); a misaligned dst faults. src may have any alignment. The whole
// block is loaded before the first store.
func MovNTSSE2(dst, src unsafe.Pointer, n uintptr) {
	d, s := (*byte)(dst), (*byte)(src)
	switch n {
	case 4 * 64:
		movnt4x64SSE2(d, s)
	case 2 * 64:
		movnt2x64SSE2(d, s)
	case 64:
		movnt1x64SSE2(d, s)
	case 32:
		movnt32SSE2(d, s)
	case 16:
		movnt16SSE2(d, s)
	case 8:
		movnt8(d, s)
	case 4:
		movnt4(d, s)
	default:
		panic(fmt.Sprintf("asm: no SSE2 streaming kernel for %d bytes", n))
	}
}

// MovNTAVX is MovNTSSE2 with 256-bit registers. n must be 512, 256, 128,
// 64, 32, 16, 8 or 4, and dst must be aligned to min(n, 32).
func MovNTAVX(dst, src unsafe.Pointer, n uintptr) {
	d, s := (*byte)(dst), (*byte)(src)
	switch n {
	case 8 * 64:
		movnt8x64AVX(d, s)
	case 4 * 64:
		movnt4x64AVX(d, s)
	case 2 * 64:
		movnt2x64AVX(d, s)
	case 64:
		movnt1x64AVX(d, s)
	case 32:
		movnt32AVX(d, s)
	case 16:
		movnt16SSE2(d, s)
	case 8:
		movnt8(d, s)
	case 4:
		movnt4(d, s)
	default:
		panic(fmt.Sprintf("asm: no AVX streaming kernel for %d bytes", n))
	}
}

// MovNTAVX512 is MovNTSSE2 with 512-bit registers. n must be 2048, 1024,
// 512, 256, 128, 64, 32, 16, 8 or 4, and dst must be aligned to min(n, 64).
func MovNTAVX512(dst, src unsafe.Pointer, n uintptr) {
	d, s := (*byte)(dst), (*byte)(src)
	switch n {
	case 32 * 64:
		movnt32x64AVX512(d, s)
	case 16 * 64:
		movnt16x64AVX512(d, s)
	case 8 * 64:
		movnt8x64AVX512(d, s)
	case 4 * 64:
		movnt4x64AVX512(d, s)
	case 2 * 64:
		movnt2x64AVX512(d, s)
	case 64:
		movnt1x64AVX512(d, s)
	case 32:
		movnt32AVX(d, s)
	case 16:
		movnt16SSE2(d, s)
	case 8:
		movnt8(d, s)
	case 4:
		movnt4(d, s)
	default:
		panic(fmt.Sprintf("asm: no AVX-512 streaming kernel for %d bytes", n))
	}
}

// Clflush flushes and invalidates the cache line containing addr. It is
// ordered with respect to stores and needs no fence.
func Clflush(addr uintptr) { clflush(addr) }

// Clflushopt is the weakly ordered variant of Clflush; follow it with
// Sfence.
func Clflushopt(addr uintptr) { clflushopt(addr) }

// Clwb writes the cache line containing addr back to memory without
// invalidating it; follow it with Sfence.
func Clwb(addr uintptr) { clwb(addr) }

// Sfence orders all preceding stores, including non-temporal stores and
// CLFLUSHOPT/CLWB, before any later store.
func Sfence() { sfence() }

// CPUID executes the CPUID instruction for the given leaf and subleaf.
func CPUID(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32) {
	return cpuid(leaf, subleaf)
}
