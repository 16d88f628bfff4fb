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

// Package codegen is the x86-64 backend: a table-driven instruction
// encoder that turns ir.Program into a raw machine-code byte buffer,
// honoring the Microsoft x64 calling convention. Modeled on a table-driven
// width/suffix dispatch and physical-register constant tables,
// generalized from emitting assembly text to emitting machine code bytes
// directly.
package codegen

import "math"

// buffer is the growable byte sequence the encoder appends raw machine
// code to.
type buffer struct {
	bytes []byte
}

func (b *buffer) u8(v uint8) {
	b.bytes = append(b.bytes, v)
}

func (b *buffer) bytesN(vs ...byte) {
	b.bytes = append(b.bytes, vs...)
}

// u64 appends the little-endian bytes of a 64-bit immediate (used for
// MOVABS-style immediate materialization and floor/round immediate bytes
// handled elsewhere).
func (b *buffer) u64(v uint64) {
	for i := 0; i < 8; i++ {
		b.u8(byte(v >> (8 * uint(i))))
	}
}

func (b *buffer) f64(v float64) {
	b.u64(math.Float64bits(v))
}
