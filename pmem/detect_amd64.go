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

//go:build amd64

package pmem

import (
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-pmem/pmem/asm"
)

// CPUID bits for the flush instructions, which x/sys/cpu does not expose.
const (
	cpuid1EDXCLFLUSH    = 1 << 19
	cpuid7EBXCLFLUSHOPT = 1 << 23
	cpuid7EBXCLWB       = 1 << 24
)

// Gets swapped out with a mock during tests.
var cpuid = asm.CPUID

func probeCPU() cpuFeatures {
	// Without the assembly there is no way to stream or flush; stay scalar.
	if !asm.Available {
		return cpuFeatures{}
	}

	// x/sys/cpu already checks that the OS saves the YMM/ZMM state.
	f := cpuFeatures{
		sse2:    cpu.X86.HasSSE2,
		avx:     cpu.X86.HasAVX,
		avx512f: cpu.X86.HasAVX512F,
	}

	maxLeaf, _, _, _ := cpuid(0, 0)
	if maxLeaf >= 1 {
		_, _, _, edx := cpuid(1, 0)
		f.clflush = edx&cpuid1EDXCLFLUSH != 0
	}
	if maxLeaf >= 7 {
		_, ebx, _, _ := cpuid(7, 0)
		f.clflushopt = ebx&cpuid7EBXCLFLUSHOPT != 0
		f.clwb = ebx&cpuid7EBXCLWB != 0
	}
	return f
}
