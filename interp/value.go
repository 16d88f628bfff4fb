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

// Package interp holds the three reference evaluators, each trading a
// different amount of structure for resemblance to
// the compiled path: a recursive tree walker, a tree walker that
// communicates through an explicit value stack instead of Go call-stack
// return values, and a walker over the same ir.Program the encoder
// consumes. All three are differential-testing oracles for the JIT, not
// part of the compiled path itself.
package interp

import (
	"exprjit/scalar"
)

// Value is a dynamically-typed scalar carried by bit pattern plus a type
// tag, the interpreter-side analog of the raw uint64 cells ir.Operand and
// the x86-64 stack/registers hold.
type Value struct {
	Bits uint64
	Type scalar.Type
}

func IntValue(v int64) Value     { return Value{Bits: scalar.IntBits(v), Type: scalar.Integer} }
func FloatValue(v float64) Value { return Value{Bits: scalar.Bits(v), Type: scalar.Float} }

// AsFloat returns v's value as a float64, converting (not bit-punning)
// from Integer if necessary -- the same widening gen() in
// ir/generator.go performs before a float-only operator.
func (v Value) AsFloat() float64 {
	if v.Type == scalar.Integer {
		return float64(scalar.AsInt(v.Bits))
	}
	return scalar.AsFloat(v.Bits)
}

// AsInt returns v's value as an int64, truncating from Float if
// necessary.
func (v Value) AsInt() int64 {
	if v.Type == scalar.Float {
		return int64(scalar.AsFloat(v.Bits))
	}
	return scalar.AsInt(v.Bits)
}
