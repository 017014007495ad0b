package parser

import (
	"bufio"
	"io"
	"strings"
)

// Lexer tokenizes PGN input.
type Lexer struct {
	reader  *bufio.Reader
	line    string
	pos     int
	lineNum int
	eof     bool
}

// NewLexer creates a new lexer for the given reader.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// readLine reads the next line from input.
func (l *Lexer) readLine() bool {
	if l.eof {
		return false
	}
	line, err := l.reader.ReadString('\n')
	if err != nil {
		l.eof = true
		if len(line) == 0 {
			return false
		}
	}
	l.line = line
	l.pos = 0
	l.lineNum++

	// A '%' in the first column escapes the whole line.
	if strings.HasPrefix(l.line, "%") {
		l.pos = len(l.line)
	}
	return true
}

// currentChar returns the current character or 0 if at end of line.
func (l *Lexer) currentChar() byte {
	if l.pos >= len(l.line) {
		return 0
	}
	return l.line[l.pos]
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() *Token {
	for {
		if l.pos >= len(l.line) {
			if !l.readLine() {
				return &Token{Kind: TokEOF, Line: l.lineNum, Column: l.pos + 1}
			}
			continue
		}

		ch := l.currentChar()
		start := l.pos
		tok := &Token{Line: l.lineNum, Column: start + 1}
		l.pos++

		switch {
		case isSpace(ch), ch == '.':
			continue
		case ch == ';':
			l.pos = len(l.line)
			continue
		case ch == '[':
			tok.Kind = TokTag
			l.skipSpace()
			tok.Text = l.gatherWhile(isSymbolChar)
		case ch == ']':
			continue
		case ch == '"':
			tok.Kind = TokString
			tok.Text = l.gatherString()
		case ch == '{':
			tok.Kind = TokComment
			tok.Text = l.gatherComment()
		case ch == '(':
			tok.Kind = TokVariationStart
		case ch == ')':
			tok.Kind = TokVariationEnd
		case ch == '$':
			tok.Kind = TokNAG
			tok.Text = "$" + l.gatherWhile(isDigit)
		case ch == '*':
			tok.Kind = TokResult
			tok.Text = "*"
		case ch == '!' || ch == '?':
			tok.Kind = TokNAG
			tok.Text = string(ch) + l.gatherWhile(isAnnotation)
		case isDigit(ch):
			l.gatherNumeric(tok, start)
		case isMoveStart(ch):
			tok.Kind = TokMove
			tok.Text = string(ch) + l.gatherWhile(isMoveChar)
		default:
			tok.Kind = TokError
			tok.Text = string(ch)
		}
		return tok
	}
}

// gatherNumeric classifies text starting with a digit as a result, a
// zero-style castle or a move number.
func (l *Lexer) gatherNumeric(tok *Token, start int) {
	l.pos = start
	text := l.gatherWhile(func(c byte) bool {
		return isDigit(c) || c == '-' || c == '/'
	})
	switch text {
	case "1-0", "0-1", "1/2-1/2":
		tok.Kind = TokResult
		tok.Text = text
	case "0-0", "0-0-0":
		tok.Kind = TokMove
		tok.Text = text + l.gatherWhile(isMoveChar)
	default:
		if strings.ContainsAny(text, "-/") {
			tok.Kind = TokError
		} else {
			tok.Kind = TokMoveNumber
		}
		tok.Text = text
	}
}

// gatherString gathers a quoted tag value; backslash escapes the next
// character.
func (l *Lexer) gatherString() string {
	var sb strings.Builder
	for l.pos < len(l.line) {
		ch := l.currentChar()
		l.pos++
		switch ch {
		case '\\':
			if l.pos < len(l.line) {
				sb.WriteByte(l.currentChar())
				l.pos++
			}
		case '"':
			return sb.String()
		case '\n', '\r':
		default:
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// gatherComment gathers a brace comment, which may span lines.
func (l *Lexer) gatherComment() string {
	var parts []string
	for {
		if end := strings.IndexByte(l.line[l.pos:], '}'); end >= 0 {
			parts = append(parts, strings.TrimSpace(l.line[l.pos:l.pos+end]))
			l.pos += end + 1
			return strings.Join(parts, " ")
		}
		parts = append(parts, strings.TrimSpace(l.line[l.pos:]))
		l.pos = len(l.line)
		if !l.readLine() {
			return strings.Join(parts, " ")
		}
		l.pos = 0
	}
}

// gatherWhile consumes characters while keep holds and returns them.
func (l *Lexer) gatherWhile(keep func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.line) && keep(l.currentChar()) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// skipSpace skips blanks on the current line.
func (l *Lexer) skipSpace() {
	l.gatherWhile(isSpace)
}

// LineNumber returns the current line number.
func (l *Lexer) LineNumber() int {
	return l.lineNum
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSymbolChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

func isAnnotation(c byte) bool {
	return c == '!' || c == '?'
}

func isMoveStart(c byte) bool {
	return isLetter(c)
}

func isMoveChar(c byte) bool {
	return isLetter(c) || isDigit(c) || strings.IndexByte("=+#-:", c) >= 0
}
