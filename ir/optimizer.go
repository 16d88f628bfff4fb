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

// pass is one peephole rewrite: given prog and a cursor i, it either
// rewrites prog in place and returns the index to resume scanning from, or
// leaves prog untouched and returns i+1.
type pass func(prog Program, i int) (Program, int)

// pushPopElim erases an IPush/FPush immediately followed by the matching
// IPop/FPop of the same register: the value never needed to leave the
// register in the first place. This is the only peephole rewrite the
// optimizer performs.
func pushPopElim(prog Program, i int) (Program, int) {
	next := i + 1
	if next >= len(prog) {
		return prog, next
	}
	a, b := prog[i], prog[next]
	matches := (a.Code == IPush && b.Code == IPop) || (a.Code == FPush && b.Code == FPop)
	if matches && a.A.Reg == b.A.Reg {
		prog = append(prog[:i], prog[next+1:]...)
		return prog, i
	}
	return prog, next
}

var passes = []pass{pushPopElim}

// Optimize runs every registered pass over prog to a fixpoint: each pass
// sweeps left to right, restarting at the erase point whenever it
// rewrites, until it reaches the end of the (shrinking) program, and the
// sweeps repeat until one of them erases nothing. Running it again on an
// already-optimized program is a no-op (idempotent).
func Optimize(prog Program) Program {
	for {
		n := len(prog)
		for _, p := range passes {
			i := 0
			for i < len(prog) {
				prog, i = p(prog, i)
			}
		}
		if len(prog) == n {
			return prog
		}
	}
}
