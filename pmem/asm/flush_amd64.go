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

package asm

// Implemented in flush_amd64.s. CLFLUSHOPT and CLWB are emitted as raw
// bytes, the Go assembler does not accept every spelling of them.

func clflush(addr uintptr)

func clflushopt(addr uintptr)

func clwb(addr uintptr)

func sfence()

func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)
