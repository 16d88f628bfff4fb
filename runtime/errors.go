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

// Package runtime owns the JIT-emitted code after the encoder has produced
// it: committing it to an executable page, calling into it under the
// Microsoft x64 convention, and releasing the page. Split by build tag
// into a POSIX backend (golang.org/x/sys/unix) and a Windows backend
// (golang.org/x/sys/windows), matching how the original allocator is a
// single VirtualAlloc/VirtualProtect/VirtualFree trio and how the rest of
// this pack reaches for golang.org/x/sys rather than raw syscall numbers
// when a platform needs more than the standard library exposes.
package runtime

import "fmt"

// MemoryAllocationError reports a failure to reserve or commit the
// executable page a compiled function lives in.
type MemoryAllocationError struct {
	Op  string
	Err error
}

func (e *MemoryAllocationError) Error() string {
	return fmt.Sprintf("runtime: memory allocation failed during %s: %v", e.Op, e.Err)
}

func (e *MemoryAllocationError) Unwrap() error { return e.Err }

// MemoryProtectionError reports a failure to flip a page between
// writable and executable.
type MemoryProtectionError struct {
	Op  string
	Err error
}

func (e *MemoryProtectionError) Error() string {
	return fmt.Sprintf("runtime: memory protection failed during %s: %v", e.Op, e.Err)
}

func (e *MemoryProtectionError) Unwrap() error { return e.Err }
