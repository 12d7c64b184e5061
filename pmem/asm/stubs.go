//go:build !amd64 || noasm

package asm

import "unsafe"

// Stub implementations for non-amd64 or noasm builds.
// These should never be called - the pmem package checks Available and
// uses the portable primitives instead.

// Available reports whether the amd64 kernels are compiled in.
const Available = false

func MovNTSSE2(dst, src unsafe.Pointer, n uintptr)   { panic("amd64 kernels not available") }
func MovNTAVX(dst, src unsafe.Pointer, n uintptr)    { panic("amd64 kernels not available") }
func MovNTAVX512(dst, src unsafe.Pointer, n uintptr) { panic("amd64 kernels not available") }

func Clflush(addr uintptr)    { panic("amd64 kernels not available") }
func Clflushopt(addr uintptr) { panic("amd64 kernels not available") }
func Clwb(addr uintptr)       { panic("amd64 kernels not available") }
func Sfence()                 { panic("amd64 kernels not available") }

func CPUID(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32) {
	panic("amd64 kernels not available")
}
