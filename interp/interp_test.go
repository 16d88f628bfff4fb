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
	"testing"

	"exprjit/expr"
	"exprjit/ir"
	"exprjit/scalar"
)

func compileAll(t *testing.T, source string, args scalar.ArgMap) (*expr.Arena, int, ir.Program) {
	t.Helper()
	arena := expr.NewArena()
	root, err := expr.Parse(source, arena, args)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	prog := ir.Optimize(ir.Generate(arena, root, scalar.Float))
	return arena, root, prog
}

func TestThreeInterpretersAgree(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}}
	cases := []struct {
		source string
		x      float64
		want   float64
	}{
		{"x*x+1", 3, 10},
		{"sin(x)", 1.2, math.Sin(1.2)},
		{"cos(x)*cos(x)+sin(x)*sin(x)", 0.7, 1},
		{"floor(x)", 3.9, 3},
		{"abs(x)", -4.5, 4.5},
		{"x/2", 7, 3.5},
	}
	for _, c := range cases {
		arena, root, prog := compileAll(t, c.source, args)
		floats := []float64{c.x}

		rec := NewRecursive(arena).Eval(root, nil, floats).AsFloat()
		stk := NewStack(arena).Eval(root, nil, floats).AsFloat()
		irv := Run(prog, scalar.Float, nil, floats).AsFloat()

		const eps = 1e-9
		if math.Abs(rec-c.want) > eps {
			t.Errorf("%s: recursive = %v, want %v", c.source, rec, c.want)
		}
		if math.Abs(stk-c.want) > eps {
			t.Errorf("%s: stack = %v, want %v", c.source, stk, c.want)
		}
		if math.Abs(irv-c.want) > eps {
			t.Errorf("%s: ir = %v, want %v", c.source, irv, c.want)
		}
	}
}

func TestIntegerDivisionTruncates(t *testing.T) {
	arena := expr.NewArena()
	root, err := expr.Parse("7/2", arena, nil)
	if err != nil {
		t.Fatal(err)
	}
	prog := ir.Optimize(ir.Generate(arena, root, scalar.Integer))

	got := Run(prog, scalar.Integer, nil, nil)
	if got.AsInt() != 3 {
		t.Errorf("7/2 (int) = %v, want 3", got.AsInt())
	}
	rec := NewRecursive(arena).Eval(root, nil, nil)
	if rec.AsInt() != 3 {
		t.Errorf("recursive 7/2 (int) = %v, want 3", rec.AsInt())
	}
}
