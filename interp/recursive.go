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
package interp

import (
	"exprjit/expr"
	"exprjit/scalar"
	"exprjit/utils"
)

// Recursive evaluates an expression tree the straightforward way: one Go
// function call per arena node, the result threaded back through return
// values. Grounded on original_source/ExpressionJIT Demo/source/
// interpreter.cpp's RecursiveInterpreter, generalized from a single
// implicit double argument to the named, typed arguments scalar.ArgMap
// binds.
type Recursive struct {
	arena *expr.Arena
}

func NewRecursive(arena *expr.Arena) *Recursive {
	return &Recursive{arena: arena}
}

// Eval walks the tree rooted at root, reading argument values from ints
// and floats by the index each KindArgument node carries.
func (r *Recursive) Eval(root int, ints []int64, floats []float64) Value {
	return r.eval(root, ints, floats)
}

func (r *Recursive) eval(i int, ints []int64, floats []float64) Value {
	node := r.arena.Node(i)
	switch node.Kind {
	case expr.KindLiteral:
		return Value{Bits: node.Bits, Type: node.Type}

	case expr.KindArgument:
		if node.Type == scalar.Integer {
			return IntValue(ints[node.Index])
		}
		return FloatValue(floats[node.Index])

	case expr.KindUnop:
		switch node.UOp {
		case expr.IntToFloat:
			return FloatValue(r.eval(node.Lhs, ints, floats).AsFloat())
		case expr.FloatToInt:
			return IntValue(r.eval(node.Lhs, ints, floats).AsInt())
		default:
			return applyUnop(node.UOp, r.eval(node.Lhs, ints, floats))
		}

	case expr.KindBinop:
		lhs := r.eval(node.Lhs, ints, floats)
		rhs := r.eval(node.Rhs, ints, floats)
		return applyBinop(node.Op, lhs, rhs)
	}
	utils.ShouldNotReachHere()
	return Value{}
}
