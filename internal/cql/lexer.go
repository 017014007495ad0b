// Package cql parses and evaluates a subset of the Chess Query Language
// over the positions of a game.
package cql

import (
	"strings"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF

	LPAREN // (
	RPAREN // )

	IDENT     // and, or, piece, attack, mate, etc.
	NUMBER    // 0, 1, 42, 2500
	STRING    // "Carlsen"
	PIECE     // K, Q, R, B, N, P, k, q, r, b, n, p, A, a, _, ?
	PIECESET  // [RQ], [RBN], etc.
	SQUARE    // a1, e4, h8, .
	SQUARESET // [a-h]1, a[1-8], [a-d][1-4]

	LT // <
	GT // >
	LE // <=
	GE // >=
	EQ // ==
)

var tokenNames = [...]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	LPAREN:    "LPAREN",
	RPAREN:    "RPAREN",
	IDENT:     "IDENT",
	NUMBER:    "NUMBER",
	STRING:    "STRING",
	PIECE:     "PIECE",
	PIECESET:  "PIECESET",
	SQUARE:    "SQUARE",
	SQUARESET: "SQUARESET",
	LT:        "LT",
	GT:        "GT",
	LE:        "LE",
	GE:        "GE",
	EQ:        "EQ",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// isComparison reports whether t is a comparison operator.
func (t TokenType) isComparison() bool {
	return t >= LT && t <= EQ
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // Byte offset in the input
}

// Lexer splits a query into tokens.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize returns every token of input, ending with EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens
		}
	}
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	for l.pos < len(l.input) && isWhitespace(l.input[l.pos]) {
		l.pos++
	}
	start := l.pos
	if start >= len(l.input) {
		return Token{Type: EOF, Pos: start}
	}

	c := l.input[start]
	switch {
	case c == '(':
		return l.emit(LPAREN, start+1)
	case c == ')':
		return l.emit(RPAREN, start+1)
	case c == '<' || c == '>' || c == '=':
		return l.operator()
	case c == '"':
		return l.quoted()
	case c == '[':
		return l.bracketed()
	case c == '.':
		return l.emit(SQUARE, start+1)
	case c == '_' || c == '?':
		return l.emit(PIECE, start+1)
	case isDigit(c):
		end := start
		for end < len(l.input) && isDigit(l.input[end]) {
			end++
		}
		return l.emit(NUMBER, end)
	case isLetter(c):
		return l.word()
	}
	return l.emit(ILLEGAL, start+1)
}

// emit returns the token spanning from the current position to end.
func (l *Lexer) emit(typ TokenType, end int) Token {
	tok := Token{Type: typ, Literal: l.input[l.pos:end], Pos: l.pos}
	l.pos = end
	return tok
}

func (l *Lexer) operator() Token {
	two := l.pos+1 < len(l.input) && l.input[l.pos+1] == '='
	switch l.input[l.pos] {
	case '<':
		if two {
			return l.emit(LE, l.pos+2)
		}
		return l.emit(LT, l.pos+1)
	case '>':
		if two {
			return l.emit(GE, l.pos+2)
		}
		return l.emit(GT, l.pos+1)
	}
	if two {
		return l.emit(EQ, l.pos+2)
	}
	return l.emit(ILLEGAL, l.pos+1)
}

// quoted reads a string literal. An unterminated string runs to the end of
// the input.
func (l *Lexer) quoted() Token {
	start := l.pos
	end := strings.IndexByte(l.input[start+1:], '"')
	if end < 0 {
		l.pos = len(l.input)
		return Token{Type: STRING, Literal: l.input[start+1:], Pos: start}
	}
	l.pos = start + 1 + end + 1
	return Token{Type: STRING, Literal: l.input[start+1 : start+1+end], Pos: start}
}

// bracketed reads "[...]" and any square range glued to it, e.g. [a-h]1
// or [a-d][1-4].
func (l *Lexer) bracketed() Token {
	end := l.skipBracket(l.pos)
	inner := strings.Trim(l.input[l.pos:end], "[]")
	if end < len(l.input) && (isDigit(l.input[end]) || l.input[end] == '[') {
		return l.emit(SQUARESET, l.rangeEnd(end))
	}
	if isPieceSet(inner) {
		return l.emit(PIECESET, end)
	}
	return l.emit(SQUARESET, end)
}

// word reads an identifier, square, piece letter or file-led square range.
func (l *Lexer) word() Token {
	end := l.pos
	for end < len(l.input) && (isLetter(l.input[end]) || isDigit(l.input[end]) || l.input[end] == '-' || l.input[end] == '_') {
		end++
	}
	literal := l.input[l.pos:end]

	if len(literal) <= 2 && isFile(literal[0]) && end < len(l.input) && l.input[end] == '[' {
		return l.emit(SQUARESET, l.rangeEnd(end))
	}
	switch {
	case len(literal) == 2 && isFile(literal[0]) && isRank(literal[1]):
		return l.emit(SQUARE, end)
	case len(literal) == 1 && isPieceChar(literal[0]):
		return l.emit(PIECE, end)
	}
	return l.emit(IDENT, end)
}

// skipBracket returns the index just past the ']' closing the bracket at i.
func (l *Lexer) skipBracket(i int) int {
	n := strings.IndexByte(l.input[i:], ']')
	if n < 0 {
		return len(l.input)
	}
	return i + n + 1
}

// rangeEnd returns the end of a square range continuing at i.
func (l *Lexer) rangeEnd(i int) int {
	for i < len(l.input) {
		switch c := l.input[i]; {
		case c == '[':
			i = l.skipBracket(i)
		case isDigit(c) || isFile(c):
			i++
		default:
			return i
		}
	}
	return i
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isFile(ch byte) bool {
	return ch >= 'a' && ch <= 'h'
}

func isRank(ch byte) bool {
	return ch >= '1' && ch <= '8'
}

func isPieceChar(ch byte) bool {
	return strings.IndexByte("KQRBNPkqrbnpAa_?", ch) >= 0
}

// isPieceSet reports whether the inside of a bracket lists pieces rather
// than a square range.
func isPieceSet(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte("KQRBNPkqrbnpAa", s[i]) < 0 {
			return false
		}
	}
	return true
}
