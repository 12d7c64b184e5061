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

package main

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-pmem/pmem"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the detected copy strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			caps := pmem.CurrentCapabilities()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "arch:            %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "strategy:        %s\n", pmem.CurrentName())
			fmt.Fprintf(out, "vector width:    %d bytes\n", caps.Width)
			fmt.Fprintf(out, "flush:           %s\n", caps.Flush)
			fmt.Fprintf(out, "fence:           %t\n", caps.NeedsFence)
			fmt.Fprintf(out, "movnt threshold: %s\n", humanize.IBytes(uint64(caps.MovntThreshold)))
			if tier, ok := pmem.TierFor(caps.Level); ok {
				fmt.Fprintf(out, "chunks:          %v\n", tier.Chunks())
			}
			return nil
		},
	}
}
