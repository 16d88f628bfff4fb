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
package codegen

import "fmt"

// CodegenError reports an ir.Instruction the encoder has no machine-code
// rendering for. The only opcode expected to ever reach this path is
// ir.FTan, kept in the opcode enum for symmetry with the original but
// deliberately never given an x86-64 encoding (SPEC_FULL.md).
type CodegenError struct {
	Op string
}

func (e *CodegenError) Error() string {
	return fmt.Sprintf("codegen: no x86-64 encoding for opcode %s", e.Op)
}
