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

import "testing"

func TestOptimizeErasesAdjacentPushPop(t *testing.T) {
	prog := Program{
		{Code: IPush, A: Reg(I0)},
		{Code: IPop, A: Reg(I0)},
		{Code: Ret},
	}
	got := Optimize(prog)
	if len(got) != 1 || got[0].Code != Ret {
		t.Fatalf("Optimize did not erase push/pop pair: %+v", got)
	}
}

func TestOptimizeLeavesMismatchedRegisterAlone(t *testing.T) {
	prog := Program{
		{Code: IPush, A: Reg(I0)},
		{Code: IPop, A: Reg(I1)},
		{Code: Ret},
	}
	got := Optimize(prog)
	if len(got) != 3 {
		t.Fatalf("Optimize erased a push/pop pair with different registers: %+v", got)
	}
}

func TestOptimizeIsIdempotent(t *testing.T) {
	prog := Program{
		{Code: IPush, A: Reg(I0)},
		{Code: IPop, A: Reg(I0)},
		{Code: FPush, A: Reg(F0)},
		{Code: FPop, A: Reg(F0)},
		{Code: Ret},
	}
	once := Optimize(prog)
	twice := Optimize(once)
	if len(once) != len(twice) {
		t.Fatalf("Optimize is not idempotent: once=%+v twice=%+v", once, twice)
	}
}
