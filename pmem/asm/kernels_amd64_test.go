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

import (
	"bytes"
	"testing"
	"unsafe"

	"golang.org/x/sys/cpu"
)

type kernel struct {
	name  string
	fn    func(dst, src unsafe.Pointer, n uintptr)
	width int
	sizes []uintptr
	ok    bool
}

func kernels() []kernel {
	return []kernel{
		{"sse2", MovNTSSE2, 16, []uintptr{256, 128, 64, 32, 16, 8, 4}, true},
		{"avx", MovNTAVX, 32, []uintptr{512, 256, 128, 64, 32, 16, 8, 4}, cpu.X86.HasAVX},
		{"avx512", MovNTAVX512, 64, []uintptr{2048, 1024, 512, 256, 128, 64, 32, 16, 8, 4}, cpu.X86.HasAVX512F},
	}
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}

// alignedBuf returns an n-byte slice starting on a 64-byte boundary.
func alignedBuf(n int) []byte {
	b := make([]byte, n+64)
	off := int(-uintptr(unsafe.Pointer(&b[0])) & 63)
	return b[off : off+n : off+n]
}

// The destination must be aligned; the source may be anywhere.
func TestMovNTDisjoint(t *testing.T) {
	for _, k := range kernels() {
		if !k.ok {
			t.Logf("%s not supported, skipping", k.name)
			continue
		}
		for _, n := range k.sizes {
			for _, srcOff := range []int{0, 1, 3, 17, 63} {
				src := pattern(int(n) + srcOff)[srcOff:]
				buf := alignedBuf(int(n) + 128)
				dst := buf[64 : 64+n]
				k.fn(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), n)
				Sfence()

				if !bytes.Equal(dst, src) {
					t.Errorf("%s/%d src+%d: copied bytes differ", k.name, n, srcOff)
				}
				if buf[63] != 0 || buf[64+n] != 0 {
					t.Errorf("%s/%d src+%d: wrote outside destination", k.name, n, srcOff)
				}
			}
		}
	}
}

// A block loads all of its source before storing, so it may overlap itself
// in either direction. Shifting the destination by whole registers keeps it
// aligned.
func TestMovNTOverlap(t *testing.T) {
	for _, k := range kernels() {
		if !k.ok {
			continue
		}
		for _, n := range k.sizes {
			for _, regs := range []int{1, 2, 3} {
				shift := regs * k.width
				buf := alignedBuf(int(n) + shift)
				copy(buf, pattern(len(buf)))
				want := append([]byte(nil), buf[:n]...)
				k.fn(unsafe.Pointer(&buf[shift]), unsafe.Pointer(&buf[0]), n)
				Sfence()
				if !bytes.Equal(buf[shift:shift+int(n)], want) {
					t.Errorf("%s/%d: forward overlap by %d corrupted data", k.name, n, shift)
				}
			}
			for _, shift := range []int{1, 4, 17} {
				buf := alignedBuf(int(n) + shift)
				copy(buf, pattern(len(buf)))
				want := append([]byte(nil), buf[shift:]...)
				k.fn(unsafe.Pointer(&buf[0]), unsafe.Pointer(&buf[shift]), n)
				Sfence()
				if !bytes.Equal(buf[:n], want) {
					t.Errorf("%s/%d: backward overlap by %d corrupted data", k.name, n, shift)
				}
			}
		}
	}
}

func TestMovNTBadSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MovNTSSE2 with 12 bytes did not panic")
		}
	}()
	dst, src := alignedBuf(16), make([]byte, 16)
	MovNTSSE2(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), 12)
}

func TestFlushInstructions(t *testing.T) {
	buf := pattern(256)
	addr := uintptr(unsafe.Pointer(&buf[0]))

	_, _, _, edx := CPUID(1, 0)
	if edx&(1<<19) != 0 {
		Clflush(addr)
	}
	_, ebx, _, _ := CPUID(7, 0)
	if ebx&(1<<23) != 0 {
		Clflushopt(addr + 64)
	}
	if ebx&(1<<24) != 0 {
		Clwb(addr + 128)
	}
	Sfence()

	if !bytes.Equal(buf, pattern(256)) {
		t.Error("flushing changed memory contents")
	}
}

func TestCPUIDVendor(t *testing.T) {
	maxLeaf, b, c, d := CPUID(0, 0)
	if maxLeaf < 1 {
		t.Fatalf("max CPUID leaf = %d, want >= 1", maxLeaf)
	}
	vendor := make([]byte, 0, 12)
	for _, r := range []uint32{b, d, c} {
		vendor = append(vendor, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
	}
	t.Logf("vendor %q, max leaf %d", vendor, maxLeaf)
}
