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

// Command exprjitc compiles one expression, given on the command line,
// and runs it both through the JIT and the recursive reference
// interpreter, printing both results side by side: a minimal,
// terminal-only consumer of the compiler exercising every stage of the
// pipeline.
package main

import (
	"fmt"
	"os"
	"strconv"

	"exprjit"
	"exprjit/expr"
	"exprjit/interp"
	"exprjit/scalar"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: exprjitc <expression> [float-arg]...")
		fmt.Println(`Example: exprjitc "x*x+sin(x)" 1.5`)
		os.Exit(1)
	}
	expression := os.Args[1]

	floats := make([]float64, 0, len(os.Args)-2)
	args := scalar.ArgMap{}
	names := []byte("xyzw")
	for i, raw := range os.Args[2:] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "exprjitc: bad float argument %q: %v\n", raw, err)
			os.Exit(1)
		}
		floats = append(floats, v)
		if i < len(names) {
			args[names[i]] = scalar.Binding{Index: i, Type: scalar.Float}
		}
	}

	arena := expr.NewArena()
	root, err := expr.Parse(expression, arena, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "exprjitc: parse error: %v\n", err)
		os.Exit(1)
	}

	callable, err := exprjit.Compile(expression, args, scalar.Float, exprjit.Signature{FloatArgs: len(floats)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "exprjitc: compile error: %v\n", err)
		os.Exit(1)
	}
	defer callable.Close()

	jitResult := callable.CallFloat(nil, floats)
	refResult := interp.NewRecursive(arena).Eval(root, nil, floats).AsFloat()

	fmt.Printf("jit:         %v\n", jitResult)
	fmt.Printf("interpreted: %v\n", refResult)
}
