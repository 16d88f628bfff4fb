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

import (
	"exprjit/ir"
	"exprjit/utils"
)

// physInt maps a virtual integer register to the physical GPR the encoder
// dedicates to it. I1 is routed to R10 rather than a low register so it
// never collides with R11, the universal immediate/stack scratch, or RAX,
// the IDiv/IMod dividend slot.
var physIntMap = map[ir.Register]uint32{
	ir.I0: RAX, ir.IR: RAX, ir.I1: R10,
	ir.IA0: RCX, ir.IA1: RDX, ir.IA2: R8, ir.IA3: R9,
}

// physFloatMap maps a virtual float register to the physical XMM register
// the encoder dedicates to it. FR shares XMM0 with FA0 because a program
// never reads an argument after it has started computing the return value
// into FR.
var physFloatMap = map[ir.Register]uint32{
	ir.F0: XMM4, ir.FR: XMM0, ir.F1: XMM5,
	ir.FA0: XMM0, ir.FA1: XMM1, ir.FA2: XMM2, ir.FA3: XMM3,
}

func physInt(r ir.Register) uint32 {
	p, ok := physIntMap[r]
	utils.Assert(ok, "codegen: %s has no physical integer register mapping", r)
	return p
}

func physFloat(r ir.Register) uint32 {
	p, ok := physFloatMap[r]
	utils.Assert(ok, "codegen: %s has no physical float register mapping", r)
	return p
}

// Encoder lowers an optimized ir.Program into a buffer of raw x86-64
// machine code honoring the Microsoft x64 calling convention. Modeled on
// a code-generation walk over a table of per-opcode emission forms,
// generalized from emitting assembly text to emitting bytes via the
// table-driven opdesc forms in x86.go.
type Encoder struct {
	buf       buffer
	intArgs   int
	floatArgs int
}

// Encode emits machine code for prog, a program compiled against a
// declaration of intArgs integer arguments and floatArgs float arguments,
// passed per the Microsoft x64 calling convention. It returns a
// *CodegenError if prog contains an opcode with no x86-64 rendering.
func Encode(prog ir.Program, intArgs, floatArgs int) ([]byte, error) {
	e := &Encoder{intArgs: intArgs, floatArgs: floatArgs}
	for _, instr := range prog {
		if err := e.emit(instr); err != nil {
			return nil, err
		}
	}
	return e.buf.bytes, nil
}

func (e *Encoder) emit(i ir.Instruction) error {
	switch i.Code {
	case ir.Ret:
		e.buf.vop(opRet)

	case ir.ILoad, ir.FLoad:
		e.buf.unop(opMovImm64, RAX)
		e.buf.u64(i.A.Imm)
		e.buf.unop(opPushR, RAX)

	case ir.IArg:
		e.buf.unop(opPushR, intArgRegs[i.A.Imm])
	case ir.FArg:
		e.pushf(floatArgRegs[i.A.Imm])

	case ir.IPush:
		e.buf.unop(opPushR, physInt(i.A.Reg))
	case ir.FPush:
		e.pushf(physFloat(i.A.Reg))
	case ir.IPop:
		e.buf.unop(opPopR, physInt(i.A.Reg))
	case ir.FPop:
		e.popf(physFloat(i.A.Reg))

	case ir.IMov:
		e.buf.binop(opMovRR, physInt(i.A.Reg), physInt(i.B.Reg))
	case ir.FMov:
		e.buf.binop(opMovF, physFloat(i.A.Reg), physFloat(i.B.Reg))

	case ir.IAdd:
		e.buf.binop(opAddRR, physInt(i.A.Reg), physInt(i.B.Reg))
	case ir.ISub:
		e.buf.binop(opSubRR, physInt(i.A.Reg), physInt(i.B.Reg))
	case ir.IMul:
		e.buf.binop(opMulRR, physInt(i.A.Reg), physInt(i.B.Reg))
	case ir.IDiv:
		e.emitIDivMod(i, RAX)
	case ir.IMod:
		e.emitIDivMod(i, RDX)
	case ir.INeg:
		e.buf.digop(opNegR, physInt(i.A.Reg))
	case ir.IAbs:
		e.emitIAbs(i.A.Reg)

	case ir.FAdd:
		e.buf.binop(opAddF, physFloat(i.A.Reg), physFloat(i.B.Reg))
	case ir.FSub:
		e.buf.binop(opSubF, physFloat(i.A.Reg), physFloat(i.B.Reg))
	case ir.FMul:
		e.buf.binop(opMulF, physFloat(i.A.Reg), physFloat(i.B.Reg))
	case ir.FDiv:
		e.buf.binop(opDivF, physFloat(i.A.Reg), physFloat(i.B.Reg))
	case ir.FMod:
		e.emitFMod(i)
	case ir.FNeg:
		xra := physFloat(i.A.Reg)
		e.negf(xra, other(xra))
	case ir.FAbs:
		e.emitFAbs(i.A.Reg)
	case ir.FFloor:
		xra := physFloat(i.A.Reg)
		e.buf.binop(opRoundF, xra, xra)
		e.buf.u8(roundToNegInf)
	case ir.FSin:
		e.emitSin(physFloat(i.A.Reg))
	case ir.FCos:
		e.emitCos(physFloat(i.A.Reg))
	case ir.FTan:
		return &CodegenError{Op: "FTan"}

	case ir.IToF:
		e.buf.binop(opItoF, physFloat(i.A.Reg), physInt(i.B.Reg))
	case ir.FToI:
		e.buf.binop(opFtoI, physInt(i.A.Reg), physFloat(i.B.Reg))

	default:
		return &CodegenError{Op: i.Code.String()}
	}
	return nil
}

// emitIDivMod lowers IDiv/IMod. IDIV takes its dividend from RDX:RAX and
// leaves the quotient in RAX, the remainder in RDX; result picks which one
// the caller wants. R11 shields any live value already sitting in RDX
// (the IA1 argument register) while IDIV clobbers it. The divisor is the
// B operand, which the generator always places in I1 (R10), so it is
// never RAX or RDX itself.
func (e *Encoder) emitIDivMod(i ir.Instruction, result uint32) {
	lhs, rhs := physInt(i.A.Reg), physInt(i.B.Reg)
	e.buf.binop(opMovRR, RAX, lhs)
	e.buf.binop(opMovRR, R11, RDX)
	e.buf.binop(opXorRR, RDX, RDX)
	e.buf.digop(opDivR, rhs)
	e.buf.binop(opMovRR, lhs, result)
	e.buf.binop(opMovRR, RDX, R11)
}

// emitIAbs computes the branch-free absolute value: with t the mask of
// lhs's sign bit replicated across all 64 bits (arithmetic shift by 63),
// abs(x) = (x ^ t) - t.
func (e *Encoder) emitIAbs(reg ir.Register) {
	r0 := physInt(reg)
	r1 := uint32(RAX)
	if r0 == RAX {
		r1 = R10
	}
	e.buf.binop(opMovRR, r1, r0)
	e.buf.digop(opSarI8, r1)
	e.buf.u8(63)
	e.buf.binop(opXorRR, r0, r1)
	e.buf.binop(opSubRR, r0, r1)
}

// emitFAbs clears the sign bit via an AND mask loaded through R11.
func (e *Encoder) emitFAbs(reg ir.Register) {
	xra := physFloat(reg)
	xrt := other(xra)
	e.buf.unop(opMovImm64, R11)
	e.buf.u64(0x7fffffffffffffff)
	e.buf.binop(opLoadF, xrt, R11)
	e.buf.binop(opAndF, xra, xrt)
}

// emitFMod has no direct x86-64 instruction: x mod y is computed as
// x - trunc(x/y)*y, using XMM6 as scratch since it is neither an argument
// slot nor a virtual-register target.
func (e *Encoder) emitFMod(i ir.Instruction) {
	const xrt = XMM6
	xra, xrb := physFloat(i.A.Reg), physFloat(i.B.Reg)
	e.buf.binop(opMovF, xrt, xra)
	e.buf.binop(opDivF, xrt, xrb)
	e.buf.binop(opRoundF, xrt, xrt)
	e.buf.u8(roundTrunc)
	e.buf.binop(opMulF, xrt, xrb)
	e.buf.binop(opSubF, xra, xrt)
}
