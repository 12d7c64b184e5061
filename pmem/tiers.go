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

// CacheLineSize is the flush granularity and the alignment the copy engine
// establishes before streaming.
const CacheLineSize = 64

const lineMask = CacheLineSize - 1

// Tier describes one vector width of the chunked copy engine: its register
// width and the cascade of chunk sizes it streams, largest first.
type Tier struct {
	level  Level
	width  int
	chunks []uintptr
}

// Width returns the register width in bytes (16 for 128-bit, 32 for
// 256-bit, 64 for 512-bit).
func (t Tier) Width() int {
	return t.width
}

// Name returns the level name ("sse2", "avx", "avx512f").
func (t Tier) Name() string {
	return t.level.String()
}

// Level returns the vector level the tier runs at.
func (t Tier) Level() Level {
	return t.level
}

// Chunks returns the chunk cascade in bytes, largest first. The first
// chunk is repeated while it fits; every other chunk is used at most once.
func (t Tier) Chunks() []uintptr {
	return append([]uintptr(nil), t.chunks...)
}

var (
	// Tier128 loads a 4-line chunk into the 16 XMM registers.
	Tier128 = Tier{
		level:  LevelSSE2,
		width:  16,
		chunks: []uintptr{4 * CacheLineSize, 2 * CacheLineSize, CacheLineSize},
	}

	// Tier256 loads an 8-line chunk into the 16 YMM registers.
	Tier256 = Tier{
		level:  LevelAVX,
		width:  32,
		chunks: []uintptr{8 * CacheLineSize, 4 * CacheLineSize, 2 * CacheLineSize, CacheLineSize},
	}

	// Tier512 loads a 32-line chunk into the 32 ZMM registers.
	Tier512 = Tier{
		level: LevelAVX512F,
		width: 64,
		chunks: []uintptr{
			32 * CacheLineSize, 16 * CacheLineSize, 8 * CacheLineSize,
			4 * CacheLineSize, 2 * CacheLineSize, CacheLineSize,
		},
	}
)

// tailSizes are the sub-line residues written with a single streaming
// store. Any other residue is copied through the cache and flushed; there is
// no point in more than one streaming store for part of a line.
var tailSizes = [...]uintptr{32, 16, 8, 4}

// TierFor returns the tier for a vector level. ok is false for
// LevelScalar.
func TierFor(l Level) (t Tier, ok bool) {
	switch l {
	case LevelSSE2:
		return Tier128, true
	case LevelAVX:
		return Tier256, true
	case LevelAVX512F:
		return Tier512, true
	default:
		return Tier{}, false
	}
}
