// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

//go:build !windows

package runtime

import "golang.org/x/sys/unix"

// page is a POSIX anonymous mapping: writable while code is copied in,
// then flipped to executable before first use via an
// allocate-write-protect sequence.
type page struct {
	mem []byte
}

func newPage(code []byte) (*page, error) {
	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, &MemoryAllocationError{Op: "mmap", Err: err}
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		return nil, &MemoryProtectionError{Op: "mprotect", Err: err}
	}
	return &page{mem: mem}, nil
}

func (p *page) addr() uintptr {
	return uintptr(unsafeSliceAddr(p.mem))
}

func (p *page) release() error {
	if p.mem == nil {
		return nil
	}
	err := unix.Munmap(p.mem)
	p.mem = nil
	if err != nil {
		return &MemoryAllocationError{Op: "munmap", Err: err}
	}
	return nil
}
