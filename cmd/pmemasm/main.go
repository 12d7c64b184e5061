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

// Command pmemasm generates the amd64 streaming-store kernels used by
// pmem/asm.
//
// Usage:
//
//	cd cmd/pmemasm && go run main.go -out ../../pmem/asm/movnt_amd64.s -stubs ../../pmem/asm/movnt_amd64.go -pkg asm
//
// or go generate ./pmem/asm.
//
// Every kernel loads its whole block into vector registers before issuing
// the first non-temporal store, so a block may overlap its own source.
package main

import (
	"fmt"

	. "github.com/mmcloughlin/avo/build"
	. "github.com/mmcloughlin/avo/operand"
	"github.com/mmcloughlin/avo/reg"
)

const cacheLine = 64

// isa describes one vector register file.
type isa struct {
	name  string
	width int // bytes per register
	reg   func() reg.VecVirtual
	load  func(mx, x Op)
	store func(x, m Op)
	// vzeroupper is required after touching the upper lanes of YMM/ZMM.
	vzeroupper bool
}

var (
	sse2 = isa{
		name:  "SSE2",
		width: 16,
		reg:   XMM,
		load:  func(mx, x Op) { MOVOU(mx, x) },
		store: func(x, m Op) { MOVNTO(x, m) },
	}
	avx = isa{
		name:       "AVX",
		width:      32,
		reg:        YMM,
		load:       func(mx, x Op) { VMOVDQU(mx, x) },
		store:      func(x, m Op) { VMOVNTDQ(x, m) },
		vzeroupper: true,
	}
	avx512 = isa{
		name:       "AVX512",
		width:      64,
		reg:        ZMM,
		load:       func(mx, x Op) { VMOVDQU64(mx, x) },
		store:      func(x, m Op) { VMOVNTDQ(x, m) },
		vzeroupper: true,
	}
)

func main() {
	ConstraintExpr("amd64 && !noasm")

	for _, lines := range []int{4, 2, 1} {
		block(sse2, lines*cacheLine, fmt.Sprintf("movnt%dx64%s", lines, sse2.name))
	}
	block(sse2, 32, "movnt32SSE2")
	block(sse2, 16, "movnt16SSE2")
	scalar(8)
	scalar(4)

	for _, lines := range []int{8, 4, 2, 1} {
		block(avx, lines*cacheLine, fmt.Sprintf("movnt%dx64%s", lines, avx.name))
	}
	block(avx, 32, "movnt32AVX")

	for _, lines := range []int{32, 16, 8, 4, 2, 1} {
		block(avx512, lines*cacheLine, fmt.Sprintf("movnt%dx64%s", lines, avx512.name))
	}

	Generate()
}

// block emits a kernel moving size bytes with size/isa.width registers.
func block(v isa, size int, name string) {
	TEXT(name, NOSPLIT, "func(dst, src *byte)")
	Doc(fmt.Sprintf("%s copies %d bytes from src to dst using non-temporal stores.", name, size))

	dst := Load(Param("dst"), GP64())
	src := Load(Param("src"), GP64())

	n := size / v.width
	regs := make([]reg.VecVirtual, n)
	for i := range regs {
		regs[i] = v.reg()
		v.load(Mem{Base: src, Disp: i * v.width}, regs[i])
	}
	for i, r := range regs {
		v.store(r, Mem{Base: dst, Disp: i * v.width})
	}
	if v.vzeroupper {
		VZEROUPPER()
	}
	RET()
}

// scalar emits an 8 or 4 byte MOVNTI kernel.
func scalar(size int) {
	name := fmt.Sprintf("movnt%d", size)
	TEXT(name, NOSPLIT, "func(dst, src *byte)")
	Doc(fmt.Sprintf("%s copies %d bytes from src to dst using a non-temporal store.", name, size))

	dst := Load(Param("dst"), GP64())
	src := Load(Param("src"), GP64())
	switch size {
	case 8:
		r := GP64()
		MOVQ(Mem{Base: src}, r)
		MOVNTIQ(r, Mem{Base: dst})
	case 4:
		r := GP32()
		MOVL(Mem{Base: src}, r)
		MOVNTIL(r, Mem{Base: dst})
	}
	RET()
}
