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

package diag

import (
	"fmt"

	"k8s.io/klog/v2"
)

// KlogReporter sends diagnostics to klog. Levels map onto klog verbosity,
// so `-v=3` shows capability detection and `-v=4` per-mapping events.
type KlogReporter struct{}

// Logf implements Reporter.
func (KlogReporter) Logf(depth, level int, format string, args ...any) {
	if !klog.V(klog.Level(level)).Enabled() {
		return
	}
	klog.InfoDepth(depth+1, fmt.Sprintf(format, args...))
}

// Fatalf implements Reporter. klog flushes and exits with status 255.
func (KlogReporter) Fatalf(depth int, format string, args ...any) {
	klog.FatalDepth(depth+1, fmt.Sprintf(format, args...))
}
