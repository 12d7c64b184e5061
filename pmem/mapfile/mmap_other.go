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

//go:build unix && !linux

package mapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmap maps fd shared. Without MAP_SYNC there is no way to tell persistent
// memory apart, so the mapping is always treated as ordinary memory.
func mmap(fd, size int) (data []byte, isPmem bool, err error) {
	data, err = unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	return data, false, err
}

// allocate relies on Truncate; blocks are allocated on first write.
func allocate(f *os.File, size int64) error {
	return nil
}
