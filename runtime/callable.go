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

import "exprjit/scalar"

// Callable owns a compiled function's executable page and the argument
// signature it was encoded against. The original gives each arity/type
// combination its own C function-pointer typedef; Go has no equivalent
// unsafe cast, so Callable instead exposes a single typed entry point
// (CallInt/CallFloat) that always loads the full four-int/four-float
// register file and discards the slots the program never reads.
//
// A Callable is not safe for concurrent Close alongside Call.
type Callable struct {
	page       *page
	intArgs    int
	floatArgs  int
	returnType scalar.Type
}

// New takes ownership of machine code produced by codegen.Encode,
// committing it to an executable page.
func New(code []byte, intArgs, floatArgs int, returnType scalar.Type) (*Callable, error) {
	p, err := newPage(code)
	if err != nil {
		return nil, err
	}
	return &Callable{page: p, intArgs: intArgs, floatArgs: floatArgs, returnType: returnType}, nil
}

// ReturnType reports whether CallInt or CallFloat is the one that yields
// a meaningful result for this Callable.
func (c *Callable) ReturnType() scalar.Type { return c.returnType }

func (c *Callable) invoke(ints []int64, floats []float64) (uint64, uint64) {
	var intSlots [4]int64
	var floatSlots [4]float64
	copy(intSlots[:], ints)
	copy(floatSlots[:], floats)
	return rawCall(c.page.addr(), &intSlots, &floatSlots)
}

// CallInt invokes the compiled function and returns its result as an
// int64, coercing if the function's declared return type is Float.
func (c *Callable) CallInt(ints []int64, floats []float64) int64 {
	intRes, floatRes := c.invoke(ints, floats)
	if c.returnType == scalar.Float {
		return int64(scalar.AsFloat(floatRes))
	}
	return int64(intRes)
}

// CallFloat invokes the compiled function and returns its result as a
// float64, coercing if the function's declared return type is Integer.
func (c *Callable) CallFloat(ints []int64, floats []float64) float64 {
	intRes, floatRes := c.invoke(ints, floats)
	if c.returnType == scalar.Integer {
		return float64(int64(intRes))
	}
	return scalar.AsFloat(floatRes)
}

// Close releases the executable page. The Callable must not be invoked
// again afterward.
func (c *Callable) Close() error {
	return c.page.release()
}
