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

import (
	"strconv"

	"github.com/ajroetker/go-pmem/pmem/diag"
)

// DefaultMovntThreshold is the smallest move, in bytes, for which the
// vector strategies use non-temporal stores. Shorter moves are copied
// through the cache and flushed.
const DefaultMovntThreshold = 256

// Config holds the environment overrides applied on top of CPU detection.
type Config struct {
	NoSIMD         bool // PMEM_NO_SIMD
	NoAVX512F      bool // PMEM_NO_AVX512F
	NoAVX          bool // PMEM_NO_AVX
	NoMovnt        bool // PMEM_NO_MOVNT
	NoFlush        bool // PMEM_NO_FLUSH
	NoCLWB         bool // PMEM_NO_CLWB
	NoCLFLUSHOPT   bool // PMEM_NO_CLFLUSHOPT
	MovntThreshold uintptr
}

// ConfigFromEnv reads the PMEM_* variables through getenv, normally
// os.Getenv.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{
		NoSIMD:         envBool(getenv, "PMEM_NO_SIMD"),
		NoAVX512F:      envBool(getenv, "PMEM_NO_AVX512F"),
		NoAVX:          envBool(getenv, "PMEM_NO_AVX"),
		NoMovnt:        envBool(getenv, "PMEM_NO_MOVNT"),
		NoFlush:        envBool(getenv, "PMEM_NO_FLUSH"),
		NoCLWB:         envBool(getenv, "PMEM_NO_CLWB"),
		NoCLFLUSHOPT:   envBool(getenv, "PMEM_NO_CLFLUSHOPT"),
		MovntThreshold: DefaultMovntThreshold,
	}
	if val := getenv("PMEM_MOVNT_THRESHOLD"); val != "" {
		n, err := strconv.ParseUint(val, 10, 0)
		if err != nil {
			diag.Logf(3, "pmem: invalid PMEM_MOVNT_THRESHOLD %q, using %d", val, DefaultMovntThreshold)
		} else {
			cfg.MovntThreshold = uintptr(n)
		}
	}
	return cfg
}

// envBool reports whether the named variable is set. Any non-empty value
// counts as true unless it parses as a false boolean ("0", "false", ...).
func envBool(getenv func(string) string, name string) bool {
	val := getenv(name)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
