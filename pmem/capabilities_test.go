package pmem

import "testing"

func TestCapabilitiesFor(t *testing.T) {
	all := cpuFeatures{sse2: true, avx: true, avx512f: true, clflush: true, clflushopt: true, clwb: true}
	def := Config{MovntThreshold: DefaultMovntThreshold}

	testCases := []struct {
		name  string
		f     cpuFeatures
		cfg   Config
		level Level
		width int
		flush FlushKind
		fence bool
	}{
		{"everything", all, def, LevelAVX512F, 64, FlushCLWB, true},
		{"no cpu features", cpuFeatures{}, def, LevelScalar, 8, FlushNone, false},
		{"sse2 clflush", cpuFeatures{sse2: true, clflush: true}, def, LevelSSE2, 16, FlushCLFLUSH, true},
		{"avx clflushopt", cpuFeatures{sse2: true, avx: true, clflush: true, clflushopt: true}, def, LevelAVX, 32, FlushCLFLUSHOPT, true},
		{"scalar clflush needs no fence", cpuFeatures{clflush: true}, def, LevelScalar, 8, FlushCLFLUSH, false},
		{"scalar clwb fences", cpuFeatures{clflush: true, clwb: true}, def, LevelScalar, 8, FlushCLWB, true},
		{"PMEM_NO_SIMD", all, Config{NoSIMD: true}, LevelScalar, 8, FlushCLWB, true},
		{"PMEM_NO_MOVNT", all, Config{NoMovnt: true}, LevelScalar, 8, FlushCLWB, true},
		{"PMEM_NO_AVX512F", all, Config{NoAVX512F: true}, LevelAVX, 32, FlushCLWB, true},
		{"PMEM_NO_AVX", all, Config{NoAVX: true}, LevelSSE2, 16, FlushCLWB, true},
		{"PMEM_NO_CLWB", all, Config{NoCLWB: true}, LevelAVX512F, 64, FlushCLFLUSHOPT, true},
		{"PMEM_NO_CLWB and CLFLUSHOPT", all, Config{NoCLWB: true, NoCLFLUSHOPT: true}, LevelAVX512F, 64, FlushCLFLUSH, true},
		{"PMEM_NO_FLUSH scalar", all, Config{NoFlush: true, NoSIMD: true}, LevelScalar, 8, FlushNone, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := capabilitiesFor(tc.f, tc.cfg)
			if got.Level != tc.level {
				t.Errorf("level: got %v, want %v", got.Level, tc.level)
			}
			if got.Width != tc.width {
				t.Errorf("width: got %d, want %d", got.Width, tc.width)
			}
			if got.Flush != tc.flush {
				t.Errorf("flush: got %v, want %v", got.Flush, tc.flush)
			}
			if got.NeedsFence != tc.fence {
				t.Errorf("fence: got %v, want %v", got.NeedsFence, tc.fence)
			}
			if got.MovntThreshold != tc.cfg.MovntThreshold {
				t.Errorf("threshold: got %d, want %d", got.MovntThreshold, tc.cfg.MovntThreshold)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
		want Config
	}{
		{"empty", nil, Config{MovntThreshold: DefaultMovntThreshold}},
		{"bools", map[string]string{
			"PMEM_NO_SIMD":       "1",
			"PMEM_NO_AVX512F":    "true",
			"PMEM_NO_AVX":        "yes",
			"PMEM_NO_MOVNT":      "0",
			"PMEM_NO_FLUSH":      "false",
			"PMEM_NO_CLWB":       "T",
			"PMEM_NO_CLFLUSHOPT": "",
		}, Config{NoSIMD: true, NoAVX512F: true, NoAVX: true, NoCLWB: true, MovntThreshold: DefaultMovntThreshold}},
		{"threshold", map[string]string{"PMEM_MOVNT_THRESHOLD": "4096"}, Config{MovntThreshold: 4096}},
		{"zero threshold", map[string]string{"PMEM_MOVNT_THRESHOLD": "0"}, Config{MovntThreshold: 0}},
		{"bad threshold", map[string]string{"PMEM_MOVNT_THRESHOLD": "-1"}, Config{MovntThreshold: DefaultMovntThreshold}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConfigFromEnv(func(k string) string { return tc.env[k] })
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestTiers(t *testing.T) {
	testCases := []struct {
		level  Level
		width  int
		chunks []uintptr
	}{
		{LevelSSE2, 16, []uintptr{256, 128, 64}},
		{LevelAVX, 32, []uintptr{512, 256, 128, 64}},
		{LevelAVX512F, 64, []uintptr{2048, 1024, 512, 256, 128, 64}},
	}
	for _, tc := range testCases {
		t.Run(tc.level.String(), func(t *testing.T) {
			tier, ok := TierFor(tc.level)
			if !ok {
				t.Fatalf("no tier for %v", tc.level)
			}
			if tier.Width() != tc.width || tier.Name() != tc.level.String() || tier.Level() != tc.level {
				t.Errorf("got %d/%s, want %d/%s", tier.Width(), tier.Name(), tc.width, tc.level)
			}
			got := tier.Chunks()
			if len(got) != len(tc.chunks) {
				t.Fatalf("got chunks %v, want %v", got, tc.chunks)
			}
			for i := range got {
				if got[i] != tc.chunks[i] {
					t.Errorf("chunk %d: got %d, want %d", i, got[i], tc.chunks[i])
				}
			}
			got[0] = 1
			if tier.Chunks()[0] != tc.chunks[0] {
				t.Errorf("Chunks returned the tier's own slice")
			}
		})
	}
	if _, ok := TierFor(LevelScalar); ok {
		t.Errorf("got a tier for scalar")
	}
}

func TestWithLevel(t *testing.T) {
	testCases := []struct {
		name  string
		flush FlushKind
		level Level
		width int
		fence bool
	}{
		{"scalar clflush", FlushCLFLUSH, LevelScalar, 8, false},
		{"scalar none", FlushNone, LevelScalar, 8, false},
		{"scalar clflushopt", FlushCLFLUSHOPT, LevelScalar, 8, true},
		{"scalar clwb", FlushCLWB, LevelScalar, 8, true},
		{"sse2 clflush", FlushCLFLUSH, LevelSSE2, 16, true},
		{"avx clwb", FlushCLWB, LevelAVX, 32, true},
		{"avx512f none", FlushNone, LevelAVX512F, 64, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Start from a vector level so nothing is inherited by accident.
			detected := capabilitiesFor(cpuFeatures{sse2: true, avx: true, avx512f: true},
				Config{MovntThreshold: 4096})
			detected.Flush = tc.flush

			got := detected.WithLevel(tc.level)
			if got.Level != tc.level || got.Width != tc.width || got.NeedsFence != tc.fence {
				t.Errorf("got %v/%d/%v, want %v/%d/%v",
					got.Level, got.Width, got.NeedsFence, tc.level, tc.width, tc.fence)
			}
			if got.Flush != tc.flush || got.MovntThreshold != 4096 {
				t.Errorf("got flush %v threshold %d, want %v 4096", got.Flush, got.MovntThreshold, tc.flush)
			}
		})
	}
}
