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

import "math"

// sin and cos are open-coded rather than called out to the host math
// library: a JIT-emitted call site would have to honor the platform ABI
// (shadow space, stack alignment, register preservation) for no benefit.
// Both reduce the argument to [0, pi) and evaluate a bounded Taylor
// partial sum, transcribed from
// original_source/ExpressionJIT/source/include/exprjit/x86_64.h's
// ir::Code::FSin/FCos emitter lambdas.
//
// The four scratch registers below are the float argument slots
// XMM0-XMM3. None of them is F0/F1 (XMM4/XMM5), and FR (XMM0) is only
// written after the last operation; the slots that hold declared float
// arguments are saved and restored around each routine by
// saveArgRegs/restoreArgRegs:
const (
	xmmPi2     = XMM2 // 2*pi divisor, then x^2 multiplier
	xmmAddend  = XMM1 // running term value
	xmmDivisor = XMM3 // per-term factorial divisor
	xmmParity  = XMM0 // argument-reduction parity, consumed by finalizeSign
)

// sinDenominators/cosDenominators are (2k+1)!/(2k)! for k = 1..9, i.e. the
// factorial denominators of the 2nd through 10th term of each series; the
// leading term (x, or 1) is already on the stack before these run. Signs
// alternate, starting with a subtraction in both series.
var sinDenominators = []float64{6, 120, 5040, 362880, 39916800, 6227020800, 1307674368000, 355687428096000, 121645100408832000}
var cosDenominators = []float64{2, 24, 720, 40320, 3628800, 479001600, 87178291200, 20922789888000, 6402373705728000}

// loadfv materializes the 64-bit float immediate v into xmmReg via RAX.
func (e *Encoder) loadfv(xmmReg uint32, v float64) {
	e.buf.unop(opMovImm64, RAX)
	e.buf.f64(v)
	e.buf.binop(opLoadF, xmmReg, RAX)
}

// negf flips xmmReg's sign bit, using tmp (another XMM register) and R11
// as scratch.
func (e *Encoder) negf(xmmReg, tmp uint32) {
	e.buf.unop(opMovImm64, R11)
	e.buf.u64(0x8000000000000000)
	e.buf.binop(opLoadF, tmp, R11)
	e.buf.binop(opXorF, xmmReg, tmp)
}

// pushf/popf move a float from an XMM register to/from the CPU stack by
// way of the general-purpose scratch R11: the value is first moved from
// XMM to a general-purpose register, which is what can actually be
// pushed/popped.
func (e *Encoder) pushf(xmmReg uint32) {
	e.buf.binop(opStoreF, xmmReg, R11)
	e.buf.unop(opPushR, R11)
}

func (e *Encoder) popf(xmmReg uint32) {
	e.buf.unop(opPopR, R11)
	e.buf.binop(opLoadF, xmmReg, R11)
}

// saveArgRegs/restoreArgRegs preserve the live float-argument XMM
// registers (XMM0..XMM3, as many as floatArgs declares) around a
// transcendental's internal scratch use, mirroring the nested
// conditionals in the original emitter.
func (e *Encoder) saveArgRegs() {
	for i := 0; i < e.floatArgs && i < 4; i++ {
		e.pushf(floatArgRegs[i])
	}
}

func (e *Encoder) restoreArgRegs() {
	for i := e.floatArgs - 1; i >= 0 && i < 4; i-- {
		e.popf(floatArgRegs[i])
	}
}

// other returns the scratch XMM register not equal to xra, from the pair
// {XMM4, XMM5} the virtual float registers F0/F1 map to.
func other(xra uint32) uint32 {
	if xra == XMM4 {
		return XMM5
	}
	return XMM4
}

// reduceRange rewrites xra (currently x) to x - 2*pi*floor(x/(2*pi)), then
// x mod pi with a parity sign captured in xmmParity, using xrt as scratch.
// Returns nothing; xra holds the doubly-reduced argument and xmmParity
// holds -floor(x'/pi) (an integer-valued float), used by the caller to
// pick the final sign via the identity sin(pi+x) = -sin(x) (resp. cos).
func (e *Encoder) reduceRange(xra, xrt uint32) {
	e.buf.binop(opMovF, xrt, xra)
	e.loadfv(xmmPi2, 2*math.Pi)
	e.buf.binop(opDivF, xrt, xmmPi2)
	e.buf.binop(opRoundF, xrt, xrt)
	e.buf.u8(roundToNegInf)
	e.buf.binop(opMulF, xrt, xmmPi2)
	e.buf.binop(opSubF, xra, xrt)

	e.buf.binop(opMovF, xmmParity, xra)
	e.loadfv(xrt, math.Pi)
	e.buf.binop(opDivF, xmmParity, xrt)
	e.buf.binop(opRoundF, xmmParity, xmmParity)
	e.buf.u8(roundToNegInf)
	e.negf(xmmParity, xmmAddend)
	e.buf.binop(opMovF, xmmAddend, xmmParity)
	e.buf.binop(opMulF, xmmAddend, xrt)
	e.buf.binop(opAddF, xra, xmmAddend)
}

// finalizeSign multiplies xra by (2*parity + 1), mapping parity's {-1, 0}
// to the sign {-1, +1} the range reduction's sin(pi+x) = -sin(x) (resp.
// cos) identity needs.
func (e *Encoder) finalizeSign(xra uint32) {
	e.buf.binop(opAddF, xmmParity, xmmParity)
	e.loadfv(xmmAddend, 1.0)
	e.buf.binop(opAddF, xmmParity, xmmAddend)
	e.buf.binop(opMulF, xra, xmmParity)
}

func (e *Encoder) emitSin(xra uint32) {
	xrt := other(xra)
	e.saveArgRegs()
	e.reduceRange(xra, xrt)

	// First correction term: x^3 / 3!, subtracted.
	e.buf.binop(opMovF, xrt, xra)
	e.buf.binop(opMulF, xrt, xrt) // xrt = x^2
	e.buf.binop(opMovF, xmmPi2, xrt)
	e.buf.binop(opMulF, xrt, xra) // xrt = x^3
	e.applyTerm(xra, xrt, sinDenominators[0], true)

	for i, denom := range sinDenominators[1:] {
		e.buf.binop(opMulF, xrt, xmmPi2) // xrt *= x^2 -> next odd power
		e.applyTerm(xra, xrt, denom, (i+1)%2 == 0)
	}

	e.finalizeSign(xra)
	e.restoreArgRegs()
}

func (e *Encoder) emitCos(xra uint32) {
	xrt := other(xra)
	e.saveArgRegs()
	e.reduceRange(xra, xrt)

	// Accumulator starts at 1; first correction term: x^2 / 2!, subtracted.
	e.buf.binop(opMovF, xrt, xra)
	e.loadfv(xra, 1.0)
	e.buf.binop(opMulF, xrt, xrt) // xrt = x^2
	e.buf.binop(opMovF, xmmPi2, xrt)
	e.applyTerm(xra, xrt, cosDenominators[0], true)

	for i, denom := range cosDenominators[1:] {
		e.buf.binop(opMulF, xrt, xmmPi2) // xrt *= x^2 -> next even power
		e.applyTerm(xra, xrt, denom, (i+1)%2 == 0)
	}

	e.finalizeSign(xra)
	e.restoreArgRegs()
}

// applyTerm divides xrt by denom and adds (or subtracts) it into the
// running sum xra.
func (e *Encoder) applyTerm(xra, xrt uint32, denom float64, subtract bool) {
	e.buf.binop(opMovF, xmmAddend, xrt)
	e.loadfv(xmmDivisor, denom)
	e.buf.binop(opDivF, xmmAddend, xmmDivisor)
	if subtract {
		e.buf.binop(opSubF, xra, xmmAddend)
	} else {
		e.buf.binop(opAddF, xra, xmmAddend)
	}
}
