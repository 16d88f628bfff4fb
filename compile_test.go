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
package exprjit

import (
	"math"
	"testing"

	"exprjit/expr"
	"exprjit/interp"
	"exprjit/scalar"
)

// jitAgreesWithReference compiles source, runs it through the JIT and the
// recursive reference interpreter with the same arguments, and reports
// whether the two agree within eps -- the differential-testing property
// every compiled program is expected to satisfy.
func jitAgreesWithReference(t *testing.T, source string, args scalar.ArgMap, sig Signature, ints []int64, floats []float64, eps float64) {
	t.Helper()

	arena := expr.NewArena()
	root, err := expr.Parse(source, arena, args)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}

	callable, err := Compile(source, args, scalar.Float, sig)
	if err != nil {
		t.Fatalf("Compile(%q): %v", source, err)
	}
	defer callable.Close()

	got := callable.CallFloat(ints, floats)
	want := interp.NewRecursive(arena).Eval(root, ints, floats).AsFloat()

	if math.Abs(got-want) > eps {
		t.Errorf("%s: jit = %v, interpreter = %v (diff %v > eps %v)", source, got, want, math.Abs(got-want), eps)
	}
}

func TestCompileArithmetic(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}, 'y': {Index: 1, Type: scalar.Float}}
	sig := Signature{FloatArgs: 2}
	cases := []struct {
		source string
		x, y   float64
	}{
		{"x+y", 3, 4},
		{"x-y", 10, 3},
		{"x*y", 6, 7},
		{"x/y", 22, 7},
		{"x*x+y*y", 3, 4},
		{"(x+y)*(x-y)", 5, 2},
	}
	for _, c := range cases {
		jitAgreesWithReference(t, c.source, args, sig, nil, []float64{c.x, c.y}, 1e-9)
	}
}

func TestCompileTranscendental(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}}
	sig := Signature{FloatArgs: 1}
	for _, x := range []float64{0, 0.5, 1, 2, 3.14159, -1.5, 10, -20} {
		jitAgreesWithReference(t, "sin(x)", args, sig, nil, []float64{x}, 1e-6)
		jitAgreesWithReference(t, "cos(x)", args, sig, nil, []float64{x}, 1e-6)
	}
}

func TestCompileFloorAbsMod(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}, 'y': {Index: 1, Type: scalar.Float}}
	sig := Signature{FloatArgs: 2}
	jitAgreesWithReference(t, "floor(x)", args, sig, nil, []float64{3.7, 0}, 1e-9)
	jitAgreesWithReference(t, "abs(x)", args, sig, nil, []float64{-9.5, 0}, 1e-9)
	jitAgreesWithReference(t, "x-floor(x/y)*y", args, sig, nil, []float64{17.5, 5}, 1e-9)
}

func TestCompileNestedFunctionCalls(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}}
	sig := Signature{FloatArgs: 1}
	jitAgreesWithReference(t, "sin(cos(x))", args, sig, nil, []float64{0.3}, 1e-6)
	jitAgreesWithReference(t, "abs(-sin(x))", args, sig, nil, []float64{2.1}, 1e-6)
}

func TestCompileIntegerArguments(t *testing.T) {
	args := scalar.ArgMap{'n': {Index: 0, Type: scalar.Integer}}
	sig := Signature{IntArgs: 1}
	arena := expr.NewArena()
	root, err := expr.Parse("n*n+1", arena, args)
	if err != nil {
		t.Fatal(err)
	}
	callable, err := Compile("n*n+1", args, scalar.Integer, sig)
	if err != nil {
		t.Fatal(err)
	}
	defer callable.Close()

	for _, n := range []int64{0, 1, -3, 12} {
		got := callable.CallInt([]int64{n}, nil)
		want := interp.NewRecursive(arena).Eval(root, []int64{n}, nil).AsInt()
		if got != want {
			t.Errorf("n=%d: jit = %d, interpreter = %d", n, got, want)
		}
	}
}

func TestCompileIntegerExpression(t *testing.T) {
	callable, err := Compile("1 + 2 * 3", nil, scalar.Integer, Signature{})
	if err != nil {
		t.Fatal(err)
	}
	defer callable.Close()
	if got := callable.CallInt(nil, nil); got != 7 {
		t.Errorf("1 + 2 * 3 = %d, want 7", got)
	}
}

func TestCompileKnownValues(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}}
	sig := Signature{FloatArgs: 1}
	cases := []struct {
		source string
		x      float64
		want   float64
	}{
		{"1.0 + 2 * 3", 0, 7},
		{"x * x - 1", 5, 24},
		{"abs(x - 5)", 2, 3},
		{"floor(x * abs(x - 5))", 2.5, 6},
		{"(1+2*3)*4", 0, 28},
		{"9-4-2", 0, 3},
	}
	for _, c := range cases {
		callable, err := Compile(c.source, args, scalar.Float, sig)
		if err != nil {
			t.Fatalf("Compile(%q): %v", c.source, err)
		}
		got := callable.CallFloat(nil, []float64{c.x})
		callable.Close()
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s (x=%v) = %v, want %v", c.source, c.x, got, c.want)
		}
	}
}

func TestCompileDemoExpression(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}}
	sig := Signature{FloatArgs: 1}
	source := "18 - x * (3.14 - abs x + floor(x * abs(x - 5)))"
	for _, x := range []float64{0, 0.25, 1, 2.5, 4.75} {
		jitAgreesWithReference(t, source, args, sig, nil, []float64{x}, 1e-6)
	}
}

func TestCompileIntArgPromotesInMixedBinop(t *testing.T) {
	args := scalar.ArgMap{'n': {Index: 0, Type: scalar.Integer}}
	callable, err := Compile("n + 0.5", args, scalar.Float, Signature{IntArgs: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer callable.Close()
	if got := callable.CallFloat([]int64{7}, nil); got != 7.5 {
		t.Errorf("n + 0.5 (n=7) = %v, want 7.5", got)
	}
}

func TestCompileFloatToIntTruncates(t *testing.T) {
	args := scalar.ArgMap{'x': {Index: 0, Type: scalar.Float}}
	callable, err := Compile("int(x)", args, scalar.Integer, Signature{FloatArgs: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer callable.Close()
	cases := []struct {
		x    float64
		want int64
	}{
		{3.9, 3},
		{-3.9, -3},
		{0.5, 0},
		{42, 42},
	}
	for _, c := range cases {
		if got := callable.CallInt(nil, []float64{c.x}); got != c.want {
			t.Errorf("int(%v) = %d, want %d", c.x, got, c.want)
		}
	}
}

func TestCompileRejectsTooManyArguments(t *testing.T) {
	_, err := Compile("x", nil, scalar.Float, Signature{FloatArgs: 5})
	if err == nil {
		t.Fatal("Compile with 5 float arguments succeeded, want error")
	}
}

func TestCompileParseErrorPropagates(t *testing.T) {
	_, err := Compile("1+", nil, scalar.Float, Signature{})
	if err == nil {
		t.Fatal("Compile(\"1+\") succeeded, want error")
	}
}
