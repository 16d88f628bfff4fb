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
package runtime

import (
	"testing"

	"exprjit/scalar"
)

// movabsRaxRetInt is `mov rax, imm64; ret`, the smallest possible
// non-trivial JIT function: it ignores every argument register and
// always returns the same integer.
func movabsRaxRetInt(v uint64) []byte {
	code := []byte{0x48, 0xB8, 0, 0, 0, 0, 0, 0, 0, 0, 0xC3}
	for i := 0; i < 8; i++ {
		code[2+i] = byte(v >> (8 * uint(i)))
	}
	return code
}

func TestCallableRunsLiteralInt(t *testing.T) {
	c, err := New(movabsRaxRetInt(41), 0, 0, scalar.Integer)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if got := c.CallInt(nil, nil); got != 41 {
		t.Errorf("CallInt() = %d, want 41", got)
	}
}

func TestCallableAddsIntArgs(t *testing.T) {
	// add rax, rcx  (arg0); add rax, rdx (arg1); ret -- but rax starts at 0
	// only if we zero it first, so: mov rax, rcx; add rax, rdx; ret.
	code := []byte{
		0x48, 0x89, 0xC8, // mov rax, rcx
		0x48, 0x01, 0xD0, // add rax, rdx
		0xC3,
	}
	c, err := New(code, 2, 0, scalar.Integer)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if got := c.CallInt([]int64{30, 12}, nil); got != 42 {
		t.Errorf("CallInt(30, 12) = %d, want 42", got)
	}
}

func TestCallableChurn(t *testing.T) {
	// Creating and destroying many callables in sequence must not leak
	// pages: every New is paired with a Close and each one stays
	// invocable until then.
	for i := 0; i < 512; i++ {
		c, err := New(movabsRaxRetInt(uint64(i)), 0, 0, scalar.Integer)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if got := c.CallInt(nil, nil); got != int64(i) {
			t.Fatalf("iteration %d: CallInt() = %d", i, got)
		}
		if err := c.Close(); err != nil {
			t.Fatalf("iteration %d: Close() = %v", i, err)
		}
	}
}

func TestCallableCloseReleasesPage(t *testing.T) {
	c, err := New(movabsRaxRetInt(1), 0, 0, scalar.Integer)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}
}
