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

	"exprjit/ir"
	"exprjit/scalar"
	"exprjit/utils"
)

// Run walks prog the same way the x86-64 encoder's instructions behave:
// a raw uint64 value stack for ILoad/IPush/IPop/IArg, and a small
// register file for the virtual registers arithmetic opcodes read and
// write directly. Grounded on original_source/ExpressionJIT Demo/source/
// interpreter.cpp's IRInterpreter, generalized from its single implicit
// stack slot per operation to exprjit's explicit two-operand
// Instruction/Register shape.
func Run(prog ir.Program, returnType scalar.Type, ints []int64, floats []float64) Value {
	var regs [ir.FA3 + 1]uint64
	var stack []uint64

	push := func(v uint64) { stack = append(stack, v) }
	pop := func() uint64 {
		n := len(stack) - 1
		v := stack[n]
		stack = stack[:n]
		return v
	}
	fget := func(r ir.Register) float64 { return scalar.AsFloat(regs[r]) }
	fset := func(r ir.Register, v float64) { regs[r] = scalar.Bits(v) }
	iget := func(r ir.Register) int64 { return scalar.AsInt(regs[r]) }
	iset := func(r ir.Register, v int64) { regs[r] = scalar.IntBits(v) }

	for _, instr := range prog {
		a, b := instr.A.Reg, instr.B.Reg
		switch instr.Code {
		case ir.Ret:
			if returnType == scalar.Integer {
				return IntValue(iget(ir.IR))
			}
			return FloatValue(fget(ir.FR))

		case ir.ILoad, ir.FLoad:
			push(instr.A.Imm)
		case ir.IArg:
			push(scalar.IntBits(ints[instr.A.Imm]))
		case ir.FArg:
			push(scalar.Bits(floats[instr.A.Imm]))

		case ir.IPush, ir.FPush:
			push(regs[a])
		case ir.IPop, ir.FPop:
			regs[a] = pop()
		case ir.IMov, ir.FMov:
			regs[a] = regs[b]

		case ir.IAdd:
			iset(a, iget(a)+iget(b))
		case ir.ISub:
			iset(a, iget(a)-iget(b))
		case ir.IMul:
			iset(a, iget(a)*iget(b))
		case ir.IDiv:
			iset(a, iget(a)/iget(b))
		case ir.IMod:
			iset(a, iget(a)%iget(b))
		case ir.INeg:
			iset(a, -iget(a))
		case ir.IAbs:
			iset(a, int64(utils.Abs(int(iget(a)))))

		case ir.FAdd:
			fset(a, fget(a)+fget(b))
		case ir.FSub:
			fset(a, fget(a)-fget(b))
		case ir.FMul:
			fset(a, fget(a)*fget(b))
		case ir.FDiv:
			fset(a, fget(a)/fget(b))
		case ir.FMod:
			fset(a, math.Mod(fget(a), fget(b)))
		case ir.FNeg:
			fset(a, -fget(a))
		case ir.FAbs:
			fset(a, math.Abs(fget(a)))
		case ir.FSin:
			fset(a, math.Sin(fget(a)))
		case ir.FCos:
			fset(a, math.Cos(fget(a)))
		case ir.FTan:
			fset(a, math.Tan(fget(a)))
		case ir.FFloor:
			fset(a, math.Floor(fget(a)))

		case ir.IToF:
			fset(a, float64(iget(b)))
		case ir.FToI:
			iset(a, int64(fget(b)))

		default:
			utils.Assert(false, "exprjit/interp: unknown ir opcode %s", instr.Code)
		}
	}
	utils.Assert(false, "exprjit/interp: program fell off the end without Ret")
	return Value{}
}
