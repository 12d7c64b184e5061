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

package mapfile

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/ajroetker/go-pmem/pmem/diag"
)

const prot = unix.PROT_READ | unix.PROT_WRITE

// mmap maps fd with MAP_SYNC when the file system supports it. Only a DAX
// file system accepts MAP_SYNC, so success means persistent memory.
func mmap(fd, size int) (data []byte, isPmem bool, err error) {
	data, err = unix.Mmap(fd, 0, size, prot, unix.MAP_SHARED_VALIDATE|unix.MAP_SYNC)
	if err == nil {
		return data, true, nil
	}
	if !isUnsupported(err) {
		return nil, false, err
	}
	diag.Logf(4, "mapfile: MAP_SYNC rejected (%v), using MAP_SHARED", err)

	data, err = unix.Mmap(fd, 0, size, prot, unix.MAP_SHARED)
	return data, false, err
}

func allocate(f *os.File, size int64) error {
	err := unix.Fallocate(int(f.Fd()), 0, 0, size)
	if isUnsupported(err) {
		// tmpfs before 3.5 and a few network file systems.
		return nil
	}
	return err
}
