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

import (
	"strconv"

	"exprjit/scalar"
)

// TokenKind discriminates the four lexical categories, plus end-of-input.
type TokenKind int

const (
	TkLiteral TokenKind = iota
	TkArgument
	TkDelimiter
	TkOperator
	TkEOF
)

// Token is the lexer's single-token output; only the fields matching Kind
// are meaningful, mirroring the Arena's own tagged-variant shape.
type Token struct {
	Kind TokenKind

	// TkLiteral
	LitBits uint64
	LitType scalar.Type

	// TkArgument
	ArgIndex int
	ArgType  scalar.Type

	// TkDelimiter
	Delim byte

	// TkOperator: Ch is either a binary operator char ('+','-','*','/','%')
	// or, for function-call tokens synthesized from an identifier, the
	// single-character unary-op code ('a','s','c','f','i','d') looked up
	// via funcTable. Prec is its binding precedence.
	Ch   byte
	Prec int8
}

var precedence = map[byte]int8{
	'+': 0, '-': 0,
	'*': 1, '/': 1, '%': 1,
}

var delimPairs = map[byte]byte{
	'(': ')', '[': ']', '{': '}',
}

// funcTable maps a reserved function word to the single-character unary-op
// code parseUnary understands.
var funcTable = map[string]byte{
	"abs":   'a',
	"sin":   's',
	"cos":   'c',
	"floor": 'f',
	"int":   'i',
	"flt":   'd',
}

// callPrecedence is the binding power of a function-application token:
// tighter than any binary operator.
const callPrecedence int8 = 100

// lexer scans a read-only source string one token at a time. Whitespace
// (space, newline) is skipped between tokens; it indexes directly into
// the in-memory source since expressions are always short, single-line
// text rather than scanning from a byte stream.
type lexer struct {
	src  string
	pos  int
	args scalar.ArgMap
}

func newLexer(src string, args scalar.ArgMap) *lexer {
	return &lexer{src: src, args: args}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\n') {
		l.pos++
	}
}

// next scans and returns the next token, or a TkEOF token at end of input.
func (l *lexer) next() (Token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Token{Kind: TkEOF}, nil
	}
	c := l.src[l.pos]
	switch {
	case isDigit(c):
		return l.lexLiteral(), nil
	case isAlpha(c):
		return l.lexArgumentOrFunc()
	case c == '(' || c == '[' || c == '{':
		l.pos++
		return Token{Kind: TkDelimiter, Delim: c}, nil
	case c == ')' || c == ']' || c == '}':
		// Closing delimiters are only ever consumed explicitly by the
		// parser matching an opening one; reaching here as a *primary*
		// token is the caller's responsibility to detect.
		l.pos++
		return Token{Kind: TkDelimiter, Delim: c}, nil
	default:
		return l.lexOperator()
	}
}

// lexLiteral scans a maximal run of digits with at most one '.'.
func (l *lexer) lexLiteral() Token {
	start := l.pos
	isFloat := false
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		if l.src[l.pos] == '.' {
			if isFloat {
				break
			}
			isFloat = true
		}
		l.pos++
	}
	text := l.src[start:l.pos]
	if isFloat {
		v, _ := strconv.ParseFloat(text, 64)
		return Token{Kind: TkLiteral, LitBits: scalar.Bits(v), LitType: scalar.Float}
	}
	v, _ := strconv.ParseInt(text, 10, 64)
	return Token{Kind: TkLiteral, LitBits: scalar.IntBits(v), LitType: scalar.Integer}
}

// lexArgumentOrFunc scans a maximal alphabetic run. If the first letter is
// a bound argument name it is consumed alone, forming an argument token
// on its own (remaining letters are re-lexed); otherwise the whole run is
// looked up as a reserved function name.
func (l *lexer) lexArgumentOrFunc() (Token, error) {
	first := l.src[l.pos]
	if b, ok := l.args[first]; ok {
		l.pos++
		return Token{Kind: TkArgument, ArgIndex: b.Index, ArgType: b.Type}, nil
	}
	start := l.pos
	for l.pos < len(l.src) && isAlpha(l.src[l.pos]) {
		l.pos++
	}
	word := l.src[start:l.pos]
	code, ok := funcTable[word]
	if !ok {
		return Token{}, ParseError{"Unknown argument or function name."}
	}
	return Token{Kind: TkOperator, Ch: code, Prec: callPrecedence}, nil
}

func (l *lexer) lexOperator() (Token, error) {
	c := l.src[l.pos]
	prec, ok := precedence[c]
	if !ok {
		return Token{}, ParseError{"Unexpected char."}
	}
	l.pos++
	return Token{Kind: TkOperator, Ch: c, Prec: prec}, nil
}
