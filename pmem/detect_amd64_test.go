//go:build amd64

package pmem

import (
	"testing"

	"github.com/ajroetker/go-pmem/pmem/asm"
)

func TestProbeCPUFlushBits(t *testing.T) {
	if !asm.Available {
		t.Skip("assembly kernels not compiled in")
	}
	defer func(old func(uint32, uint32) (uint32, uint32, uint32, uint32)) { cpuid = old }(cpuid)

	testCases := []struct {
		name                        string
		maxLeaf, leaf1EDX, leaf7EBX uint32
		clflush, clflushopt, clwb   bool
	}{
		{"all", 7, cpuid1EDXCLFLUSH, cpuid7EBXCLFLUSHOPT | cpuid7EBXCLWB, true, true, true},
		{"clflush only", 7, cpuid1EDXCLFLUSH, 0, true, false, false},
		{"leaf 7 missing", 6, cpuid1EDXCLFLUSH, cpuid7EBXCLWB, true, false, false},
		{"nothing", 0, cpuid1EDXCLFLUSH, cpuid7EBXCLWB, false, false, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cpuid = func(leaf, _ uint32) (eax, ebx, ecx, edx uint32) {
				switch leaf {
				case 0:
					return tc.maxLeaf, 0, 0, 0
				case 1:
					return 0, 0, 0, tc.leaf1EDX
				case 7:
					return 0, tc.leaf7EBX, 0, 0
				}
				return 0, 0, 0, 0
			}
			f := probeCPU()
			if f.clflush != tc.clflush || f.clflushopt != tc.clflushopt || f.clwb != tc.clwb {
				t.Errorf("got clflush=%v clflushopt=%v clwb=%v, want %v %v %v",
					f.clflush, f.clflushopt, f.clwb, tc.clflush, tc.clflushopt, tc.clwb)
			}
			if !f.sse2 {
				t.Errorf("amd64 without SSE2")
			}
		})
	}
}
