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
	"math"

	"exprjit/expr"
	"exprjit/scalar"
	"exprjit/utils"
)

// applyUnop mirrors the per-operator type table in ir/generator.go:
// Negate and Abs keep the operand's type (an int stays an int), Sin/Cos/
// Floor have no integer form and always promote to float first. Shared by
// the recursive and stack tree walkers; the IR walker works in raw bits
// directly since by its stage the type decision is already baked into
// which opcode (I* vs F*) was emitted.
func applyUnop(op expr.Unop, v Value) Value {
	switch op {
	case expr.Negate:
		if v.Type == scalar.Integer {
			return IntValue(-v.AsInt())
		}
		return FloatValue(-v.AsFloat())
	case expr.Abs:
		if v.Type == scalar.Integer {
			return IntValue(int64(utils.Abs(int(v.AsInt()))))
		}
		return FloatValue(math.Abs(v.AsFloat()))
	case expr.Sin:
		return FloatValue(math.Sin(v.AsFloat()))
	case expr.Cos:
		return FloatValue(math.Cos(v.AsFloat()))
	case expr.Floor:
		return FloatValue(math.Floor(v.AsFloat()))
	}
	utils.ShouldNotReachHere()
	return Value{}
}

// applyBinop promotes to float the moment either operand is a float,
// exactly as ir/generator.go's gen() decides resT for a KindBinop node.
func applyBinop(op expr.Binop, lhs, rhs Value) Value {
	if lhs.Type == scalar.Float || rhs.Type == scalar.Float {
		l, r := lhs.AsFloat(), rhs.AsFloat()
		switch op {
		case expr.Add:
			return FloatValue(l + r)
		case expr.Subtract:
			return FloatValue(l - r)
		case expr.Multiply:
			return FloatValue(l * r)
		case expr.Divide:
			return FloatValue(l / r)
		case expr.Modulo:
			return FloatValue(math.Mod(l, r))
		}
		utils.ShouldNotReachHere()
		return Value{}
	}
	l, r := lhs.AsInt(), rhs.AsInt()
	switch op {
	case expr.Add:
		return IntValue(l + r)
	case expr.Subtract:
		return IntValue(l - r)
	case expr.Multiply:
		return IntValue(l * r)
	case expr.Divide:
		return IntValue(l / r)
	case expr.Modulo:
		return IntValue(l % r)
	}
	utils.ShouldNotReachHere()
	return Value{}
}
