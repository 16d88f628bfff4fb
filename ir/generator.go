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
package ir

import (
	"exprjit/expr"
	"exprjit/scalar"
	"exprjit/utils"
)

// noCode marks the "absent" cell of a per-type unop opcode pair: the
// operator has no native encoding for that operand type, and the operand
// must be coerced to the other type first.
const noCode Code = -1

type codePair struct{ intCode, floatCode Code }

var binopCodes = map[expr.Binop]codePair{
	expr.Add:      {IAdd, FAdd},
	expr.Subtract: {ISub, FSub},
	expr.Multiply: {IMul, FMul},
	expr.Divide:   {IDiv, FDiv},
	expr.Modulo:   {IMod, FMod},
}

var unopCodes = map[expr.Unop]codePair{
	expr.Negate: {INeg, FNeg},
	expr.Abs:    {IAbs, FAbs},
	expr.Sin:    {noCode, FSin},
	expr.Cos:    {noCode, FCos},
	expr.Floor:  {noCode, FFloor},
}

var scratchInt = [2]Register{I0, I1}
var scratchFloat = [2]Register{F0, F1}

// Generator performs a post-order traversal of the expression tree,
// appending to prog as it goes.
type Generator struct {
	arena      *expr.Arena
	prog       Program
	resultType scalar.Type
}

// Generate lowers the expression tree rooted at root into an IR program
// that pops its single result into IR or FR (coercing it to resultType if
// needed), leaving the stack empty, and ends with Ret.
func Generate(arena *expr.Arena, root int, resultType scalar.Type) Program {
	g := &Generator{arena: arena, resultType: resultType}
	retT := g.gen(root)
	switch {
	case retT == resultType && resultType == scalar.Integer:
		g.pop(IR)
	case retT == resultType && resultType == scalar.Float:
		g.pop(FR)
	case retT == scalar.Float && resultType == scalar.Integer:
		g.pop(F0)
		g.ftoi(IR, F0)
	case retT == scalar.Integer && resultType == scalar.Float:
		g.pop(I0)
		g.itof(FR, I0)
	}
	g.emit(Ret)
	return g.prog
}

func (g *Generator) emit(code Code, operands ...Operand) {
	instr := Instruction{Code: code}
	if len(operands) > 0 {
		instr.A = operands[0]
	}
	if len(operands) > 1 {
		instr.B = operands[1]
	}
	g.prog = append(g.prog, instr)
}

func (g *Generator) push(vr Register) {
	if vr.IsInt() {
		g.emit(IPush, Reg(vr))
	} else {
		g.emit(FPush, Reg(vr))
	}
}

func (g *Generator) pop(vr Register) {
	if vr.IsInt() {
		g.emit(IPop, Reg(vr))
	} else {
		g.emit(FPop, Reg(vr))
	}
}

func (g *Generator) itof(dst, src Register) {
	g.emit(IToF, Reg(dst), Reg(src))
}

func (g *Generator) ftoi(dst, src Register) {
	g.emit(FToI, Reg(dst), Reg(src))
}

// popa pops the stack top (known to hold a value of type t) into the
// scratch register numbered reg (0 or 1), coercing it to resT first if the
// two types differ, and returns the register that ends up holding it.
func (g *Generator) popa(t, resT scalar.Type, reg int) Register {
	v := scratchInt[reg]
	if t == scalar.Float {
		v = scratchFloat[reg]
	}
	g.pop(v)
	if t == resT {
		return v
	}
	if resT == scalar.Float {
		dst := scratchFloat[reg]
		g.itof(dst, v)
		return dst
	}
	dst := scratchInt[reg]
	g.ftoi(dst, v)
	return dst
}

func (g *Generator) gen(i int) scalar.Type {
	node := g.arena.Node(i)
	switch node.Kind {
	case expr.KindBinop:
		codes := binopCodes[node.Op]
		// Right-hand side is generated (and so pushed) first so the
		// left-hand side ends up on top of the stack and is popped
		// first, matching original_source/ExpressionJIT/source/
		// ir_generator.cpp's Generator::gen.
		rhsT := g.gen(node.Rhs)
		lhsT := g.gen(node.Lhs)
		resT := scalar.Integer
		if lhsT == scalar.Float || rhsT == scalar.Float {
			resT = scalar.Float
		}
		lhsV := g.popa(lhsT, resT, 0)
		rhsV := g.popa(rhsT, resT, 1)
		code := codes.intCode
		if resT == scalar.Float {
			code = codes.floatCode
		}
		g.emit(code, Reg(lhsV), Reg(rhsV))
		g.push(lhsV)
		return resT

	case expr.KindUnop:
		switch node.UOp {
		case expr.FloatToInt:
			opT := g.gen(node.Lhs)
			if opT != scalar.Integer {
				g.pop(F0)
				g.ftoi(I0, F0)
				g.push(I0)
			}
			return scalar.Integer
		case expr.IntToFloat:
			opT := g.gen(node.Lhs)
			if opT != scalar.Float {
				g.pop(I0)
				g.itof(F0, I0)
				g.push(F0)
			}
			return scalar.Float
		default:
			opT := g.gen(node.Lhs)
			codes := unopCodes[node.UOp]
			var resT scalar.Type
			var code Code
			if opT == scalar.Integer {
				if codes.intCode == noCode {
					resT, code = scalar.Float, codes.floatCode
				} else {
					resT, code = scalar.Integer, codes.intCode
				}
			} else {
				if codes.floatCode == noCode {
					resT, code = scalar.Integer, codes.intCode
				} else {
					resT, code = scalar.Float, codes.floatCode
				}
			}
			v := g.popa(opT, resT, 0)
			g.emit(code, Reg(v))
			g.push(v)
			return resT
		}

	case expr.KindArgument:
		code := IArg
		if node.Type == scalar.Float {
			code = FArg
		}
		g.emit(code, Imm(uint64(node.Index)))
		return node.Type

	case expr.KindLiteral:
		code := ILoad
		if node.Type == scalar.Float {
			code = FLoad
		}
		g.emit(code, Imm(node.Bits))
		return node.Type
	}
	utils.ShouldNotReachHere()
	return scalar.Integer
}
