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

// Package expr holds the expression arena: an append-only indexed store of
// nodes, and the lexer/parser that fills it from source text.
package expr

import "exprjit/scalar"

// Binop is a binary arithmetic operator.
type Binop int

const (
	Add Binop = iota
	Subtract
	Multiply
	Divide
	Modulo
)

// Unop is a unary operator, including the explicit scalar coercions.
type Unop int

const (
	Negate Unop = iota
	Abs
	Sin
	Cos
	Floor
	IntToFloat
	FloatToInt
)

// Kind discriminates the four node variants stored in the Arena.
type Kind int

const (
	KindBinop Kind = iota
	KindUnop
	KindLiteral
	KindArgument
)

// Node is a tagged variant: exactly one of its payload groups is valid,
// selected by Kind. Children are referenced by arena index, never by
// pointer, so the arena is trivially movable.
type Node struct {
	Kind Kind

	// Binop payload.
	Op  Binop
	Lhs int
	Rhs int

	// Unop payload (UOp is the operator, Lhs is reused as the operand).
	UOp Unop

	// Literal / Argument payload.
	Bits  uint64
	Index int
	Type  scalar.Type
}

// Arena is the append-only, owner-discarded store of expression nodes.
// Every stored index is strictly less than the index of any node that
// references it: children are always appended before their parents.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena ready to receive parsed nodes.
func NewArena() *Arena {
	return &Arena{nodes: make([]Node, 0, 16)}
}

// Len reports how many nodes have been appended so far.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Node returns the node stored at index i.
func (a *Arena) Node(i int) Node {
	return a.nodes[i]
}

func (a *Arena) pushBinop(op Binop, lhs, rhs int) int {
	i := len(a.nodes)
	a.nodes = append(a.nodes, Node{Kind: KindBinop, Op: op, Lhs: lhs, Rhs: rhs})
	return i
}

func (a *Arena) pushUnop(op Unop, operand int) int {
	i := len(a.nodes)
	a.nodes = append(a.nodes, Node{Kind: KindUnop, UOp: op, Lhs: operand})
	return i
}

func (a *Arena) pushLiteral(bits uint64, t scalar.Type) int {
	i := len(a.nodes)
	a.nodes = append(a.nodes, Node{Kind: KindLiteral, Bits: bits, Type: t})
	return i
}

func (a *Arena) pushArgument(index int, t scalar.Type) int {
	i := len(a.nodes)
	a.nodes = append(a.nodes, Node{Kind: KindArgument, Index: index, Type: t})
	return i
}
