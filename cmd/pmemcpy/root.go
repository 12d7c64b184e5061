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
	"flag"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// newRootCommand creates the pmemcpy command tree.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pmemcpy",
		Short: "Durable copies into persistent memory",
		Long: `pmemcpy copies data into persistent memory using non-temporal stores,
cache line flushes and store fences, and reports which of them this CPU
supports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			klog.Flush()
		},
	}

	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	cmd.PersistentFlags().AddGoFlagSet(klogFlags)

	cmd.AddCommand(newInfoCommand())
	cmd.AddCommand(newCopyCommand())
	cmd.AddCommand(newBenchCommand())
	return cmd
}
