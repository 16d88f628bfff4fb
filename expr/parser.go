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
package expr

import "exprjit/scalar"

// ParseError is the one error type the parser surfaces; it always carries
// a static message. The arena and lexer position are left in an
// undefined-but-safely-discardable state once one is returned.
type ParseError struct {
	Msg string
}

func (e ParseError) Error() string {
	return e.Msg
}

var binopTable = map[byte]Binop{
	'+': Add, '-': Subtract, '*': Multiply, '/': Divide, '%': Modulo,
}

// unopTable maps the single-character unary-op code (operator-prefix char
// or function-call code from funcTable) to the node's Unop tag.
var unopTable = map[byte]Unop{
	'-': Negate,
	'a': Abs,
	's': Sin,
	'c': Cos,
	'f': Floor,
	'i': FloatToInt,
	'd': IntToFloat,
}

// stopReason records why parseBinary returned control to its caller,
// replacing the original C++ implementation's overloaded '\0'/'\1'/'\2'
// sentinel byte with an explicit tag. The stopping token itself is never
// consumed by parseBinary: a matching closing delimiter is consumed by
// parsePrimary once the whole sub-expression has returned, so nested
// precedence-climbing calls can stop on the same delimiter and simply
// discard each other's reason.
type stopReason int

const (
	stopEnd         stopReason = iota // stopped on the closing delimiter matching `end`
	stopNoOperator                    // next token isn't a binary operator (includes EOF)
	stopPrecedence                    // next operator's precedence < the current minimum
)

type parser struct {
	lex   *lexer
	arena *Arena
}

// Parse compiles source text into arena, returning the index of the root
// node. args maps bound single-letter names to (index, type); it is
// read-only for the duration of the parse.
func Parse(source string, arena *Arena, args scalar.ArgMap) (int, error) {
	p := &parser{lex: newLexer(source, args), arena: arena}
	return p.parseExpression(0)
}

// parseExpression parses one expression terminated by end (a closing
// delimiter byte, or 0 for top level, where the terminator is end of
// input) and fails if the terminator actually reached doesn't match.
func (p *parser) parseExpression(end byte) (int, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	root, reason, err := p.parseBinary(lhs, end, 0)
	if err != nil {
		return 0, err
	}
	if end == 0 {
		tok, err := p.lex.next()
		if err != nil {
			return 0, err
		}
		if tok.Kind != TkEOF {
			return 0, ParseError{"Unexpected char."}
		}
	} else if reason != stopEnd {
		return 0, ParseError{"Unexpected char."}
	}
	return root, nil
}

// parsePrimary reads one token and dispatches: literal and argument
// tokens become leaves, an opening delimiter starts a parenthesized
// sub-expression, and an operator token is a unary prefix.
func (p *parser) parsePrimary() (int, error) {
	save := p.lex.pos
	tok, err := p.lex.next()
	if err != nil {
		return 0, err
	}
	switch tok.Kind {
	case TkLiteral:
		return p.arena.pushLiteral(tok.LitBits, tok.LitType), nil
	case TkArgument:
		return p.arena.pushArgument(tok.ArgIndex, tok.ArgType), nil
	case TkDelimiter:
		closing, ok := delimPairs[tok.Delim]
		if !ok {
			// A closing delimiter can never start a primary expression.
			p.lex.pos = save
			return 0, ParseError{"Unexpected char."}
		}
		root, err := p.parseExpression(closing)
		if err != nil {
			return 0, err
		}
		// parseExpression stopped on (but did not consume) the matching
		// closing delimiter; consume it here.
		if _, err := p.lex.next(); err != nil {
			return 0, err
		}
		return root, nil
	case TkOperator:
		return p.parseUnary(tok)
	case TkEOF:
		return 0, ParseError{"Expected primary expression."}
	default:
		return 0, ParseError{"Unexpected primary token."}
	}
}

// parseUnary maps an operator/function token to its Unop and parses one
// primary as its operand. Function application (Prec == callPrecedence)
// and the prefix operators share this path.
func (p *parser) parseUnary(tok Token) (int, error) {
	op, ok := unopTable[tok.Ch]
	if !ok {
		return 0, ParseError{"Unknown unary operator."}
	}
	operand, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	return p.arena.pushUnop(op, operand), nil
}

// parseBinary repeatedly extends lhs by peeking an operator token; it
// implements precedence climbing: an operator is consumed only while its
// precedence is >= minPrec, and a strictly-higher-precedence next operator
// pulls the right-hand side into a recursive, higher-minPrec call before
// the current operator's node is built (left-associative at equal
// precedence, right-climbing at increasing precedence), matching
// original_source/ExpressionJIT/source/parser.cpp's parseBinary.
func (p *parser) parseBinary(lhs int, end byte, minPrec int8) (int, stopReason, error) {
	for {
		save := p.lex.pos
		tok, err := p.lex.next()
		if err != nil {
			return 0, 0, err
		}
		if tok.Kind != TkOperator {
			p.lex.pos = save
			if tok.Kind == TkDelimiter && tok.Delim == end {
				return lhs, stopEnd, nil
			}
			return lhs, stopNoOperator, nil
		}
		// Function tokens (callPrecedence) are unary-only and stop the
		// binary climb just like a too-low-precedence operator does.
		op, isBinop := binopTable[tok.Ch]
		if !isBinop || tok.Prec < minPrec {
			p.lex.pos = save
			return lhs, stopPrecedence, nil
		}

		rhs, err := p.parsePrimary()
		if err != nil {
			return 0, 0, err
		}

		// Peek the next operator (without consuming) to decide
		// associativity for the operand we just parsed.
		peekSave := p.lex.pos
		nextTok, err := p.lex.next()
		if err != nil {
			return 0, 0, err
		}
		p.lex.pos = peekSave

		if nextTok.Kind == TkOperator && tok.Prec < nextTok.Prec {
			// The recursive call stops on the same unconsumed token this
			// level will stop on, so its reason can be discarded.
			rhs, _, err = p.parseBinary(rhs, end, tok.Prec+1)
			if err != nil {
				return 0, 0, err
			}
		}

		lhs = p.arena.pushBinop(op, lhs, rhs)
	}
}
