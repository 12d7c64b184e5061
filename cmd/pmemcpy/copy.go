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
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-pmem/pmem/contrib/parallel"
	"github.com/ajroetker/go-pmem/pmem/mapfile"
)

type copyOptions struct {
	workers int
	segment string
	buffer  string
}

func newCopyCommand() *cobra.Command {
	opts := &copyOptions{}
	cmd := &cobra.Command{
		Use:   "copy SRC DST",
		Short: "Copy SRC into DST durably",
		Long: `Copy SRC into DST, creating or resizing DST to the size of SRC.

DST is mapped with MAP_SYNC when it lives on a DAX file system, in which
case the copy is made durable with cache flushes alone. Otherwise the
mapped pages are synced with msync.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, opts, args[0], args[1])
		},
	}
	cmd.Flags().IntVarP(&opts.workers, "parallel", "p", 0, "number of copy workers (0 copies on one goroutine)")
	cmd.Flags().StringVar(&opts.segment, "segment", "256KiB", "smallest piece of a copy given to one worker")
	cmd.Flags().StringVar(&opts.buffer, "buffer", "16MiB", "read buffer size")
	return cmd
}

func runCopy(cmd *cobra.Command, opts *copyOptions, srcPath, dstPath string) error {
	bufSize, err := humanize.ParseBytes(opts.buffer)
	if err != nil || bufSize == 0 {
		return errors.Errorf("invalid --buffer %q", opts.buffer)
	}
	segment, err := humanize.ParseBytes(opts.segment)
	if err != nil {
		return errors.Wrapf(err, "invalid --segment %q", opts.segment)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer src.Close()
	st, err := src.Stat()
	if err != nil {
		return errors.WithStack(err)
	}
	if st.Size() == 0 {
		return errors.WithStack(os.WriteFile(dstPath, nil, 0o644))
	}

	m, err := mapfile.Map(dstPath, st.Size(), mapfile.Create, 0o644)
	if err != nil {
		return err
	}
	defer m.Close()

	var mover *parallel.Mover
	if opts.workers > 0 {
		pool := parallel.New(opts.workers)
		defer pool.Close()
		mover = parallel.NewMover(pool, nil, int(segment))
	}

	start := time.Now()
	buf := make([]byte, min(bufSize, uint64(st.Size())))
	var off int
	for {
		n, err := io.ReadFull(src, buf)
		if n > 0 {
			if off+n > m.Len() {
				return errors.Errorf("%s grew while copying", srcPath)
			}
			if mover != nil {
				mover.Memmove(m.Bytes()[off:], buf[:n])
			} else if _, err := m.Memmove(off, buf[:n]); err != nil {
				return err
			}
			off += n
			klog.V(2).Infof("copied %s of %s", humanize.IBytes(uint64(off)), humanize.IBytes(uint64(m.Len())))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s", srcPath)
		}
	}
	if off != m.Len() {
		return errors.Errorf("%s shrank while copying: %d of %d bytes", srcPath, off, m.Len())
	}
	if mover != nil && !m.IsPmem() {
		if err := m.Persist(0, m.Len()); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	if err := m.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "copied %s to %s (pmem %t) in %s, %s/s\n",
		humanize.IBytes(uint64(off)), dstPath, m.IsPmem(), elapsed.Round(time.Microsecond),
		humanize.IBytes(uint64(float64(off)/max(elapsed.Seconds(), 1e-9))))
	return nil
}
