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

// Package pmem moves bytes into persistent memory so that they are durable,
// not merely cached, when the call returns.
//
// Memmove has the semantics of the builtin copy (overlapping ranges are
// handled like memmove) plus a durability guarantee: every byte written has
// either been stored with a non-temporal store or flushed from the cache,
// and a store fence has ordered those stores before the call returns.
//
//	m, _ := mapfile.Map("/mnt/pmem0/log", 1<<20, mapfile.Create, 0o644)
//	pmem.Memmove(m.Bytes()[off:], record)
//
// The implementation is picked once per process. The CPU is probed for its
// widest usable vector registers (SSE2, AVX, AVX-512F) and its best cache
// flush instruction (CLWB, CLFLUSHOPT, CLFLUSH), and the matching chunked
// copy engine is bound. Without vector support, or without the assembly
// (-tags noasm, non-amd64), a cached copy followed by line flushes is used.
//
// Environment variables, read once:
//
//	PMEM_NO_SIMD          use the scalar strategy
//	PMEM_NO_AVX512F       do not use 512-bit registers
//	PMEM_NO_AVX           do not use 256-bit registers
//	PMEM_NO_MOVNT         never use non-temporal stores
//	PMEM_NO_FLUSH         skip cache flushes (platforms with flush-on-fail caches)
//	PMEM_NO_CLWB          do not use CLWB
//	PMEM_NO_CLFLUSHOPT    do not use CLFLUSHOPT
//	PMEM_MOVNT_THRESHOLD  smallest move that uses non-temporal stores (default 256)
//
// A call that is interrupted (the process dies mid-copy) guarantees nothing
// beyond the prefix that was already flushed and fenced. The package offers
// no transactions or recovery.
package pmem
