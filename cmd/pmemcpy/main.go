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

// Command pmemcpy copies files into persistent memory and measures the
// durable copy strategies available on this machine.
//
// Usage:
//
//	pmemcpy info
//	pmemcpy copy [--parallel N] SRC DST
//	pmemcpy bench [--size 64MiB] [--threads N] [--file PATH]
//
// The klog flags (-v, --logtostderr, ...) are accepted by every command;
// build with -tags pmemdebug to see the library's own diagnostics.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pmemcpy: %v\n", err)
		os.Exit(1)
	}
}
