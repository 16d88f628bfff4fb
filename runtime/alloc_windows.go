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

//go:build windows

package runtime

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// page is a VirtualAlloc reservation, the direct analog of the original
// allocator: committed read/write, code copied in, then flipped to
// read/execute with VirtualProtect.
type page struct {
	base uintptr
	size uintptr
}

func newPage(code []byte) (*page, error) {
	size := uintptr(len(code))
	base, err := windows.VirtualAlloc(0, size, windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, &MemoryAllocationError{Op: "VirtualAlloc", Err: err}
	}
	dst := unsafe.Slice((*byte)(unsafe.Pointer(base)), size)
	copy(dst, code)

	var old uint32
	if err := windows.VirtualProtect(base, size, windows.PAGE_EXECUTE_READ, &old); err != nil {
		windows.VirtualFree(base, 0, windows.MEM_RELEASE)
		return nil, &MemoryProtectionError{Op: "VirtualProtect", Err: err}
	}
	return &page{base: base, size: size}, nil
}

func (p *page) addr() uintptr {
	return p.base
}

func (p *page) release() error {
	if p.base == 0 {
		return nil
	}
	err := windows.VirtualFree(p.base, 0, windows.MEM_RELEASE)
	p.base = 0
	if err != nil {
		return &MemoryAllocationError{Op: "VirtualFree", Err: err}
	}
	return nil
}
