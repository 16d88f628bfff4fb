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

// Stack evaluates an expression tree the same way Recursive does, but
// communicates operand and result values through an explicit stack
// rather than Go return values, mirroring
// original_source/ExpressionJIT Demo/source/interpreter.cpp's
// StackInterpreter and, in spirit, the real stack traffic the x86-64
// encoder itself emits.
type Stack struct {
	arena *expr.Arena
	st    []Value
}

func NewStack(arena *expr.Arena) *Stack {
	return &Stack{arena: arena}
}

// Eval walks the tree rooted at root and returns the single value left
// on the stack.
func (s *Stack) Eval(root int, ints []int64, floats []float64) Value {
	s.st = s.st[:0]
	s.eval(root, ints, floats)
	return s.pop()
}

func (s *Stack) push(v Value) { s.st = append(s.st, v) }

func (s *Stack) pop() Value {
	n := len(s.st) - 1
	v := s.st[n]
	s.st = s.st[:n]
	return v
}

func (s *Stack) eval(i int, ints []int64, floats []float64) {
	node := s.arena.Node(i)
	switch node.Kind {
	case expr.KindLiteral:
		s.push(Value{Bits: node.Bits, Type: node.Type})

	case expr.KindArgument:
		if node.Type == scalar.Integer {
			s.push(IntValue(ints[node.Index]))
		} else {
			s.push(FloatValue(floats[node.Index]))
		}

	case expr.KindUnop:
		s.eval(node.Lhs, ints, floats)
		v := s.pop()
		switch node.UOp {
		case expr.IntToFloat:
			s.push(FloatValue(v.AsFloat()))
		case expr.FloatToInt:
			s.push(IntValue(v.AsInt()))
		default:
			s.push(applyUnop(node.UOp, v))
		}

	case expr.KindBinop:
		s.eval(node.Lhs, ints, floats)
		s.eval(node.Rhs, ints, floats)
		rhs := s.pop()
		lhs := s.pop()
		s.push(applyBinop(node.Op, lhs, rhs))

	default:
		utils.ShouldNotReachHere()
	}
}
