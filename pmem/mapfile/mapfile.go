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

//go:build unix

// Package mapfile maps a file into memory for use with the pmem copy
// routines.
//
// On Linux the mapping is first attempted with MAP_SYNC, which only succeeds
// on a DAX file system. Such a mapping is persistent memory: the pmem
// routines make stores durable without any system call. Any other mapping
// is made durable with msync, which Persist does automatically.
package mapfile

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/ajroetker/go-pmem/pmem"
	"github.com/ajroetker/go-pmem/pmem/diag"
)

// Flags control how Map opens the file.
type Flags int

const (
	// Create creates the file if it does not exist and sets its size.
	Create Flags = 1 << iota

	// Exclusive fails if Create is set and the file exists.
	Exclusive

	// Sparse skips allocating the file's blocks when it is created.
	Sparse
)

// ForceEnv overrides the persistent memory check when set to "1" (treat
// every mapping as persistent memory) or "0" (never).
const ForceEnv = "PMEM_IS_PMEM_FORCE"

// Mapping is a shared, writable mapping of a whole file.
type Mapping struct {
	path   string
	f      *os.File
	data   []byte
	isPmem bool
}

// Map opens path and maps size bytes of it. With Create the file is created
// if needed and sized to size; otherwise a size of 0 maps the whole file.
func Map(path string, size int64, flags Flags, perm os.FileMode) (*Mapping, error) {
	if flags&Exclusive != 0 && flags&Create == 0 {
		return nil, diag.ReportError(nil, "mapfile: Exclusive without Create for %s", path)
	}
	if size < 0 {
		return nil, diag.ReportError(nil, "mapfile: negative size %d for %s", size, path)
	}

	mode := os.O_RDWR
	if flags&Create != 0 {
		mode |= os.O_CREATE
	}
	if flags&Exclusive != 0 {
		mode |= os.O_EXCL
	}
	f, err := os.OpenFile(path, mode, perm)
	if err != nil {
		return nil, diag.ReportError(err, "mapfile: open")
	}

	m, err := mapOpened(path, f, size, flags)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return m, nil
}

func mapOpened(path string, f *os.File, size int64, flags Flags) (*Mapping, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, diag.ReportError(err, "mapfile: stat")
	}
	switch {
	case flags&Create != 0 && size > 0 && st.Size() != size:
		if err := f.Truncate(size); err != nil {
			return nil, diag.ReportError(err, "mapfile: truncate %s to %d", path, size)
		}
		if flags&Sparse == 0 {
			if err := allocate(f, size); err != nil {
				return nil, diag.ReportError(err, "mapfile: allocate %d bytes for %s", size, path)
			}
		}
	case size == 0:
		size = st.Size()
	case size > st.Size():
		return nil, diag.ReportError(nil, "mapfile: %s has %d bytes, cannot map %d", path, st.Size(), size)
	}
	if size == 0 {
		return nil, diag.ReportError(nil, "mapfile: %s is empty", path)
	}
	if int64(int(size)) != size {
		return nil, diag.ReportError(nil, "mapfile: size %d does not fit in memory", size)
	}

	data, isPmem, err := mmap(int(f.Fd()), int(size))
	if err != nil {
		return nil, diag.ReportError(err, "mapfile: mmap %s", path)
	}
	if force, ok := forced(); ok {
		isPmem = force
	}
	diag.Logf(4, "mapfile: mapped %s, %d bytes, pmem %t", path, size, isPmem)
	return &Mapping{path: path, f: f, data: data, isPmem: isPmem}, nil
}

// forced reads ForceEnv.
func forced() (isPmem, ok bool) {
	val := os.Getenv(ForceEnv)
	if val == "" {
		return false, false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		diag.Logf(3, "mapfile: ignoring %s=%q", ForceEnv, val)
		return false, false
	}
	return b, true
}

// Bytes returns the mapped memory. It is valid until Close.
func (m *Mapping) Bytes() []byte {
	return m.data
}

// Len returns the size of the mapping in bytes.
func (m *Mapping) Len() int {
	return len(m.data)
}

// IsPmem reports whether stores into the mapping become durable by flushing
// the CPU caches alone.
func (m *Mapping) IsPmem() bool {
	return m.isPmem
}

// Path returns the mapped file's name.
func (m *Mapping) Path() string {
	return m.path
}

func (m *Mapping) check(off, n int) error {
	if m.data == nil {
		return diag.ReportError(nil, "mapfile: %s is closed", m.path)
	}
	if off < 0 || n < 0 || off > len(m.data)-n {
		return diag.ReportError(nil, "mapfile: range [%d, %d+%d) outside %d byte mapping", off, off, n, len(m.data))
	}
	return nil
}

// Persist makes [off, off+n) durable.
func (m *Mapping) Persist(off, n int) error {
	if err := m.check(off, n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if m.isPmem {
		pmem.Persist(m.data[off : off+n])
		return nil
	}
	return m.msync(off, n)
}

// msync syncs the pages covering [off, off+n).
func (m *Mapping) msync(off, n int) error {
	start := off &^ (os.Getpagesize() - 1)
	if err := unix.Msync(m.data[start:off+n], unix.MS_SYNC); err != nil {
		return diag.ReportError(err, "mapfile: msync %s", m.path)
	}
	return nil
}

// Memmove copies src to off durably and returns the number of bytes copied,
// which is short if src runs past the end of the mapping.
func (m *Mapping) Memmove(off int, src []byte) (int, error) {
	if err := m.check(off, 0); err != nil {
		return 0, err
	}
	dst := m.data[off:]
	if m.isPmem {
		return pmem.Memmove(dst, src), nil
	}
	n := pmem.MemmoveFlags(dst, src, pmem.FlagNoFlush)
	return n, m.Persist(off, n)
}

// Memset fills [off, off+n) with c durably.
func (m *Mapping) Memset(off, n int, c byte) error {
	if err := m.check(off, n); err != nil {
		return err
	}
	dst := m.data[off : off+n]
	if m.isPmem {
		pmem.Memset(dst, c)
		return nil
	}
	pmem.MemsetFlags(dst, c, pmem.FlagNoFlush)
	return m.Persist(off, n)
}

// Close unmaps the file and closes it. Data not yet persisted may be lost.
func (m *Mapping) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return diag.ReportError(err, "mapfile: close %s", m.path)
	}
	diag.Logf(4, "mapfile: unmapped %s", m.path)
	return nil
}

// isUnsupported reports whether a mapping flag was rejected by the kernel or
// the file system.
func isUnsupported(err error) bool {
	return errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.EINVAL)
}
