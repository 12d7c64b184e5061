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

// Package asm holds the hardware-facing primitives of go-pmem: streaming
// (non-temporal) store kernels, cache line flushes, the store fence and
// CPUID.
//
// The streaming kernels in movnt_amd64.s are generated by cmd/pmemasm; the
// flush, fence and CPUID routines in flush_amd64.s are written by hand.
// Callers must check the CPU before using an instruction set: executing an
// AVX-512 kernel or CLWB on a CPU without it faults. Package pmem does that
// check once and binds the matching functions.
//
// Build with -tags noasm to exclude the assembly; Available is then false
// and every function panics.
package asm
