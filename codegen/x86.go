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

// Physical register encodings (3-bit field; bit 3 set for the R8-R15 /
// XMM8-XMM15 extended half, routed through REX.B or REX.R).
const (
	RAX uint32 = 0b0000
	RCX uint32 = 0b0001
	RDX uint32 = 0b0010
	RBX uint32 = 0b0011
	RSP uint32 = 0b0100
	RBP uint32 = 0b0101
	RSI uint32 = 0b0110
	RDI uint32 = 0b0111
	R8  uint32 = 0b1000
	R9  uint32 = 0b1001
	R10 uint32 = 0b1010
	R11 uint32 = 0b1011
	R12 uint32 = 0b1100
	R13 uint32 = 0b1101
	R14 uint32 = 0b1110
	R15 uint32 = 0b1111

	XMM0 uint32 = 0b0000
	XMM1 uint32 = 0b0001
	XMM2 uint32 = 0b0010
	XMM3 uint32 = 0b0011
	XMM4 uint32 = 0b0100
	XMM5 uint32 = 0b0101
	XMM6 uint32 = 0b0110
	XMM7 uint32 = 0b0111
)

const (
	regExt  uint32 = 0b1000
	regMask uint32 = 0b0111
)

// Microsoft x64 argument registers.
var intArgRegs = [4]uint32{RCX, RDX, R8, R9}
var floatArgRegs = [4]uint32{XMM0, XMM1, XMM2, XMM3}

const (
	rexBase uint32 = 0b01000000
	rexW    uint32 = 0b1000
	rexR    uint32 = 0b0100 // extends the reg field
	rexB    uint32 = 0b0001 // extends the rm field
)

func rexByte(reg, rm uint32) byte {
	v := rexBase | rexW
	if reg&regExt != 0 {
		v |= rexR
	}
	if rm&regExt != 0 {
		v |= rexB
	}
	return byte(v)
}

func modrm(reg, rm uint32) byte {
	return byte(0b11000000 | ((reg & regMask) << 3) | (rm & regMask))
}

// prefix flags, one opcode descriptor can combine several.
type prefix uint32

const (
	prefixNone prefix = 0
	// prefixREX emits a REX.W byte only when an operand needs extension.
	prefixREX prefix = 1 << iota
	// prefixREXF always emits a REX.W byte, even with no extended operand
	// (required for 64-bit operand size on instructions whose base
	// opcode defaults to 32-bit).
	prefixREXF
	prefix66
	prefixF2
)

func (p prefix) has(f prefix) bool { return p&f != 0 }

// form selects how an opcode descriptor's operands are encoded.
type form int

const (
	formVop   form = iota // no operand, e.g. RET
	formBinop             // ModR/M /r: reg, rm
	formDigop             // ModR/M /digit: digit fixed, rm varies
	formUnop              // register embedded in the opcode's low 3 bits (+r)
)

// opdesc is a table-driven opcode record: its prefix rules, its base
// opcode bytes, its encoding form, and (for formDigop) the fixed digit.
// Grounded on the original's X86_64::Instruction descriptor shape, and on
// expressing encodings as lookup tables rather than ad hoc branches.
type opdesc struct {
	prefix prefix
	opcode []byte
	form   form
	digit  uint32 // only meaningful when form == formDigop
}

func (b *buffer) emitPrefixAndRex(p prefix, extOperand uint32, rexFn func() byte) {
	if p.has(prefix66) {
		b.u8(0x66)
	} else if p.has(prefixF2) {
		b.u8(0xF2)
	}
	if p.has(prefixREXF) || (p.has(prefixREX) && extOperand&regExt != 0) {
		b.u8(rexFn())
	}
}

// binop emits a /r instruction: `reg OP= rm` (or `reg = reg OP rm`,
// depending on the opcode), the register+register ModR/M form.
func (b *buffer) binop(d opdesc, reg, rm uint32) {
	b.emitPrefixAndRex(d.prefix, reg|rm, func() byte { return rexByte(reg, rm) })
	b.bytesN(d.opcode...)
	b.u8(modrm(reg, rm))
}

// digop emits a /digit instruction: the ModR/M reg field is the fixed
// digit from the descriptor, rm is the sole register operand.
func (b *buffer) digop(d opdesc, rm uint32) {
	b.emitPrefixAndRex(d.prefix, rm, func() byte { return rexByte(0, rm) })
	b.bytesN(d.opcode...)
	b.u8(modrm(d.digit, rm))
}

// unop emits a +r instruction: the register is folded into the low 3 bits
// of the last opcode byte (e.g. `push r64`, `pop r64`, `mov r64, imm64`).
func (b *buffer) unop(d opdesc, r uint32) {
	b.emitPrefixAndRex(d.prefix, r, func() byte {
		v := rexBase | rexW
		if r&regExt != 0 {
			v |= rexB
		}
		return byte(v)
	})
	n := len(d.opcode)
	b.bytesN(d.opcode[:n-1]...)
	b.u8(d.opcode[n-1] | byte(r&regMask))
}

func (b *buffer) vop(d opdesc) {
	b.bytesN(d.opcode...)
}

// Opcode table, transcribed from
// original_source/ExpressionJIT/source/include/exprjit/x86_64.h.
var (
	opRet = opdesc{opcode: []byte{0xC3}, form: formVop}

	opMovImm64 = opdesc{prefix: prefixREXF, opcode: []byte{0xB8}, form: formUnop} // mov r64, imm64
	opPopR     = opdesc{prefix: prefixREX, opcode: []byte{0x58}, form: formUnop}
	opPushR    = opdesc{prefix: prefixREX, opcode: []byte{0x50}, form: formUnop}

	opMovRR = opdesc{prefix: prefixREXF, opcode: []byte{0x8B}, form: formBinop} // mov reg, rm
	opAddRR = opdesc{prefix: prefixREXF, opcode: []byte{0x03}, form: formBinop}
	opSubRR = opdesc{prefix: prefixREXF, opcode: []byte{0x2B}, form: formBinop}
	opMulRR = opdesc{prefix: prefixREXF, opcode: []byte{0x0F, 0xAF}, form: formBinop}
	opXorRR = opdesc{prefix: prefixREXF, opcode: []byte{0x33}, form: formBinop}
	opDivR  = opdesc{prefix: prefixREXF, opcode: []byte{0xF7}, form: formDigop, digit: 7} // idiv rm
	opNegR  = opdesc{prefix: prefixREXF, opcode: []byte{0xF7}, form: formDigop, digit: 3}
	opSarI8 = opdesc{prefix: prefixREXF, opcode: []byte{0xC1}, form: formDigop, digit: 7} // sar rm, imm8

	opLoadF  = opdesc{prefix: prefix66 | prefixREXF, opcode: []byte{0x0F, 0x6E}, form: formBinop} // movq xmm, r/m64
	opStoreF = opdesc{prefix: prefix66 | prefixREXF, opcode: []byte{0x0F, 0x7E}, form: formBinop} // movq r/m64, xmm
	opMovF   = opdesc{prefix: prefixF2, opcode: []byte{0x0F, 0x10}, form: formBinop}              // movsd xmm, xmm
	opAddF   = opdesc{prefix: prefixF2, opcode: []byte{0x0F, 0x58}, form: formBinop}
	opSubF   = opdesc{prefix: prefixF2, opcode: []byte{0x0F, 0x5C}, form: formBinop}
	opMulF   = opdesc{prefix: prefixF2, opcode: []byte{0x0F, 0x59}, form: formBinop}
	opDivF   = opdesc{prefix: prefixF2, opcode: []byte{0x0F, 0x5E}, form: formBinop}
	opXorF   = opdesc{prefix: prefix66, opcode: []byte{0x0F, 0x57}, form: formBinop}
	opAndF   = opdesc{prefix: prefix66, opcode: []byte{0x0F, 0x54}, form: formBinop}
	opRoundF = opdesc{prefix: prefix66, opcode: []byte{0x0F, 0x3A, 0x0B}, form: formBinop} // roundsd xmm, xmm, imm8

	// cvttsd2si: the truncating form, so a float-to-int coercion agrees
	// with the interpreters' int64 casts regardless of MXCSR state.
	opFtoI = opdesc{prefix: prefixF2 | prefixREXF, opcode: []byte{0x0F, 0x2C}, form: formBinop}
	opItoF = opdesc{prefix: prefixF2 | prefixREXF, opcode: []byte{0x0F, 0x2A}, form: formBinop} // cvtsi2sd
)

// roundToNegInf and roundTrunc are the ROUNDSD immediate-mode bytes:
// suppress-precision-exception (bit 3) combined with the rounding mode in
// bits [1:0]. 0b1001 = round toward -infinity (FFloor); 0b1011 = round
// toward zero / truncate (used by the FMod expansion).
const (
	roundToNegInf uint8 = 0x09
	roundTrunc    uint8 = 0x0B
)
