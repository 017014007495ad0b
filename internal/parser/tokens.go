// Package parser reads PGN text into tags, main-line moves and a result.
package parser

// TokenKind classifies a PGN token.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokTag            // [Name
	TokString         // "value"
	TokComment        // {text} or ; to end of line
	TokNAG            // $n
	TokMoveNumber     // 12. or 12...
	TokVariationStart // (
	TokVariationEnd   // )
	TokMove           // e4, Nxf7+, O-O
	TokResult         // 1-0, 0-1, 1/2-1/2, *
	TokError
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokTag:
		return "tag"
	case TokString:
		return "string"
	case TokComment:
		return "comment"
	case TokNAG:
		return "NAG"
	case TokMoveNumber:
		return "move number"
	case TokVariationStart:
		return "'('"
	case TokVariationEnd:
		return "')'"
	case TokMove:
		return "move"
	case TokResult:
		return "result"
	case TokError:
		return "bad token"
	}
	return "unknown token"
}

// Token is one lexical unit of PGN text.
type Token struct {
	Kind TokenKind
	// Text is the tag name, string value, move, NAG, comment or result.
	Text string
	// Line and Column locate the first character, counting from 1.
	Line, Column int
}
