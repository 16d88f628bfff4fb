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
	"testing"

	"exprjit/expr"
	"exprjit/scalar"
)

func lastCode(prog Program) Code {
	return prog[len(prog)-1].Code
}

func TestGenerateIntegerLiteral(t *testing.T) {
	arena := expr.NewArena()
	root, err := expr.Parse("7", arena, nil)
	if err != nil {
		t.Fatal(err)
	}
	prog := Generate(arena, root, scalar.Integer)
	if lastCode(prog) != Ret {
		t.Fatalf("program does not end in Ret: %+v", prog)
	}
	if prog[0].Code != ILoad {
		t.Fatalf("program[0] = %v, want ILoad", prog[0].Code)
	}
	if prog[0].A.Imm != scalar.IntBits(7) {
		t.Errorf("literal bits = %#x, want 7", prog[0].A.Imm)
	}
}

func TestGenerateIntBinopStaysInt(t *testing.T) {
	arena := expr.NewArena()
	root, err := expr.Parse("1+2", arena, nil)
	if err != nil {
		t.Fatal(err)
	}
	prog := Generate(arena, root, scalar.Integer)
	found := false
	for _, instr := range prog {
		if instr.Code == IAdd {
			found = true
		}
		if instr.Code == FAdd {
			t.Fatalf("int+int lowered to FAdd: %+v", prog)
		}
	}
	if !found {
		t.Fatalf("no IAdd in %+v", prog)
	}
}

func TestGenerateMixedBinopPromotesToFloat(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}}
	arena := expr.NewArena()
	root, err := expr.Parse("1+x", arena, args)
	if err != nil {
		t.Fatal(err)
	}
	prog := Generate(arena, root, scalar.Float)
	found := false
	for _, instr := range prog {
		if instr.Code == FAdd {
			found = true
		}
	}
	if !found {
		t.Fatalf("int+float did not lower to FAdd: %+v", prog)
	}
}

func TestGenerateSinPromotesIntOperand(t *testing.T) {
	arena := expr.NewArena()
	root, err := expr.Parse("sin(1)", arena, nil)
	if err != nil {
		t.Fatal(err)
	}
	prog := Generate(arena, root, scalar.Float)
	sawItoF, sawFSin := false, false
	for _, instr := range prog {
		if instr.Code == IToF {
			sawItoF = true
		}
		if instr.Code == FSin {
			sawFSin = true
		}
	}
	if !sawItoF || !sawFSin {
		t.Fatalf("sin(1) did not coerce its integer operand: %+v", prog)
	}
}

func TestGenerateReturnCoercion(t *testing.T) {
	// An all-integer expression requested with a float return type must
	// end with an IToF before Ret.
	arena := expr.NewArena()
	root, err := expr.Parse("1+2", arena, nil)
	if err != nil {
		t.Fatal(err)
	}
	prog := Generate(arena, root, scalar.Float)
	if prog[len(prog)-2].Code != IToF {
		t.Fatalf("program did not coerce final result to float: %+v", prog)
	}
}

func TestInstructionStringDecodesImmediates(t *testing.T) {
	arena := expr.NewArena()
	root, err := expr.Parse("7", arena, nil)
	if err != nil {
		t.Fatal(err)
	}
	prog := Generate(arena, root, scalar.Integer)
	if got := prog[0].String(); got != "ILoad 7" {
		t.Errorf("ILoad.String() = %q, want %q", got, "ILoad 7")
	}
	if got := prog[len(prog)-1].String(); got != "Ret" {
		t.Errorf("Ret.String() = %q, want %q", got, "Ret")
	}
}
