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

// Package utils holds the handful of small, dependency-free helpers
// shared across exprjit's packages for internal invariants that are
// never meant to be caller-recoverable -- as opposed to ParseError,
// CodegenError, MemoryAllocationError and MemoryProtectionError, which
// are real errors returned to the caller.
package utils

import (
	"fmt"
	"math"
)

// Assert panics with a formatted message when cond is false. Used for
// invariants that a correct compiler pipeline can never violate (a
// register table lookup miss, a malformed IR program), never for
// input validation.
func Assert(cond bool, format string, msg ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, msg...))
	}
}

// ShouldNotReachHere panics unconditionally; used as the default arm of
// an exhaustive switch over a closed enum.
func ShouldNotReachHere() {
	panic("should not reach here")
}

// Abs is an ordinary int absolute value, kept alongside Assert since
// both are one-liners used widely enough across the compiler's packages
// to not warrant repeating inline.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Float64ToHex renders a float's bit pattern as a hex literal, used by
// ir.Instruction.String to render FLoad immediates for compile.go's
// DebugDumpIR trace.
func Float64ToHex(f float64) string {
	return fmt.Sprintf("0x%x", math.Float64bits(f))
}
