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
	"time"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-pmem/pmem"
	"github.com/ajroetker/go-pmem/pmem/mapfile"
)

type benchOptions struct {
	size       string
	threads    int
	iterations int
	file       string
	flags      []string
}

var benchFlags = map[string]pmem.Flags{
	"nodrain":     pmem.FlagNoDrain,
	"nontemporal": pmem.FlagNonTemporal,
	"temporal":    pmem.FlagTemporal,
	"noflush":     pmem.FlagNoFlush,
}

func newBenchCommand() *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure durable copy throughput of every available strategy",
		Long: `Measure the throughput of every copy strategy this CPU supports, from
scalar up to the detected level. Each thread copies --size bytes per
iteration into its own destination, either heap memory or a slice of
--file when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.size, "size", "64MiB", "bytes copied per thread per iteration")
	cmd.Flags().IntVarP(&opts.threads, "threads", "t", 1, "concurrent copying threads")
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "n", 5, "copies per thread")
	cmd.Flags().StringVar(&opts.file, "file", "", "map this file as the destination")
	cmd.Flags().StringSliceVar(&opts.flags, "flags", nil, "copy flags: nodrain, nontemporal, temporal, noflush")
	return cmd
}

func runBench(cmd *cobra.Command, opts *benchOptions) error {
	size, err := humanize.ParseBytes(opts.size)
	if err != nil || size == 0 {
		return errors.Errorf("invalid --size %q", opts.size)
	}
	if opts.threads <= 0 || opts.iterations <= 0 {
		return errors.New("--threads and --iterations must be positive")
	}
	var flags pmem.Flags
	for _, name := range opts.flags {
		f, ok := benchFlags[name]
		if !ok {
			return errors.Errorf("unknown copy flag %q", name)
		}
		flags |= f
	}

	n := int(size)
	src := make([]byte, n)
	for i := range src {
		src[i] = byte(i)
	}

	var dst []byte
	if opts.file != "" {
		m, err := mapfile.Map(opts.file, int64(n*opts.threads), mapfile.Create, 0o644)
		if err != nil {
			return err
		}
		defer m.Close()
		dst = m.Bytes()
		fmt.Fprintf(cmd.OutOrStdout(), "destination %s, pmem %t\n", opts.file, m.IsPmem())
	} else {
		dst = make([]byte, n*opts.threads)
	}

	detected := pmem.CurrentCapabilities()
	for level := pmem.LevelScalar; level <= detected.Level; level++ {
		s := pmem.StrategyFor(detected.WithLevel(level))

		elapsed, err := benchStrategy(cmd, s, dst, src, opts.threads, opts.iterations, flags)
		if err != nil {
			return err
		}
		total := uint64(n) * uint64(opts.threads) * uint64(opts.iterations)
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %3d threads  %10s in %-12s %s/s\n", s.Name(), opts.threads,
			humanize.IBytes(total), elapsed.Round(time.Microsecond),
			humanize.IBytes(uint64(float64(total)/max(elapsed.Seconds(), 1e-9))))
	}
	return nil
}

func benchStrategy(cmd *cobra.Command, s pmem.CopyStrategy, dst, src []byte, threads, iterations int, flags pmem.Flags) (time.Duration, error) {
	n := len(src)
	g, ctx := errgroup.WithContext(cmd.Context())
	start := time.Now()
	for t := 0; t < threads; t++ {
		out := dst[t*n : (t+1)*n]
		g.Go(func() error {
			for i := 0; i < iterations; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				s.Move(unsafe.Pointer(&out[0]), unsafe.Pointer(&src[0]), uintptr(n), flags)
			}
			if flags&pmem.FlagNoDrain != 0 {
				s.Drain()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, errors.Wrapf(err, "benchmarking %s", s.Name())
	}
	return time.Since(start), nil
}
