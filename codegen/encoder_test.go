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
	"testing"

	"exprjit/ir"
)

func TestEncodeRet(t *testing.T) {
	code, err := Encode(ir.Program{{Code: ir.Ret}}, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != 1 || code[0] != 0xC3 {
		t.Fatalf("Encode(Ret) = % x, want [c3]", code)
	}
}

func TestEncodeILoadEmitsMovabsAndPush(t *testing.T) {
	prog := ir.Program{
		{Code: ir.ILoad, A: ir.Imm(7)},
		{Code: ir.Ret},
	}
	code, err := Encode(prog, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	// REX.W + B8 (movabs rax, imm64) + 8-byte immediate + 50 (push rax)
	// + C3 (ret).
	if len(code) != 1+1+8+1+1 {
		t.Fatalf("Encode(ILoad) produced %d bytes, want 12: % x", len(code), code)
	}
	if code[0] != 0x48 || code[1] != 0xB8 {
		t.Fatalf("Encode(ILoad) prefix = % x, want 48 b8", code[:2])
	}
}

func TestEncodeUnknownOpcodeFails(t *testing.T) {
	prog := ir.Program{
		{Code: ir.FTan, A: ir.Reg(ir.F0)},
		{Code: ir.Ret},
	}
	_, err := Encode(prog, 0, 0)
	if err == nil {
		t.Fatal("Encode(FTan) succeeded, want CodegenError")
	}
	if _, ok := err.(*CodegenError); !ok {
		t.Fatalf("Encode(FTan) error = %T, want *CodegenError", err)
	}
}

func TestEncodeIAddProducesREXBinop(t *testing.T) {
	prog := ir.Program{
		{Code: ir.IAdd, A: ir.Reg(ir.I0), B: ir.Reg(ir.I1)},
		{Code: ir.Ret},
	}
	code, err := Encode(prog, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	// REX.W(+B since R10, the rm operand, is extended) + 0x03 (add r, r/m)
	// + ModR/M + ret.
	if len(code) != 4 {
		t.Fatalf("Encode(IAdd) produced %d bytes, want 4: % x", len(code), code)
	}
	if code[1] != 0x03 {
		t.Fatalf("Encode(IAdd) opcode byte = %#x, want 0x03", code[1])
	}
}
