package parser

import (
	"io"

	"github.com/lgbarn/termchess/internal/errors"
)

// Record is one game as read from PGN: its tags, the main-line moves in
// the notation they were written in, and the terminating result.
// Comments, NAGs and variations are read and discarded.
type Record struct {
	Tags   map[string]string
	Moves  []string
	Result string
	Line   int
}

// Parser parses PGN input into records.
type Parser struct {
	lexer        *Lexer
	currentToken *Token
}

// NewParser creates a new parser for the given reader.
func NewParser(r io.Reader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// nextToken gets the next token from the lexer.
func (p *Parser) nextToken() {
	p.currentToken = p.lexer.NextToken()
}

// ParseGame parses a single game from the input.
// Returns nil, nil when the input holds no more games.
func (p *Parser) ParseGame() (*Record, error) {
	if p.currentToken == nil {
		p.nextToken()
	}
	p.skipComments()
	if p.currentToken.Kind == TokEOF {
		return nil, nil
	}

	rec := &Record{Tags: make(map[string]string), Line: p.currentToken.Line}

	if err := p.parseOptTagList(rec); err != nil {
		return nil, err
	}
	if err := p.parseMoveList(rec); err != nil {
		return nil, err
	}
	rec.Result = p.parseResult()
	return rec, nil
}

// parseOptTagList parses zero or more tag pairs.
func (p *Parser) parseOptTagList(rec *Record) error {
	for p.currentToken.Kind == TokTag {
		name := p.currentToken
		p.nextToken()
		if p.currentToken.Kind != TokString {
			return p.errorf(name, "tag value", p.currentToken.Text)
		}
		rec.Tags[name.Text] = p.currentToken.Text
		p.nextToken()
		p.skipComments()
	}
	return nil
}

// parseMoveList parses main-line moves up to the result or the next game.
func (p *Parser) parseMoveList(rec *Record) error {
	for {
		switch p.currentToken.Kind {
		case TokMove:
			rec.Moves = append(rec.Moves, p.currentToken.Text)
			p.nextToken()
		case TokMoveNumber, TokNAG, TokComment:
			p.nextToken()
		case TokVariationStart:
			if err := p.skipVariation(); err != nil {
				return err
			}
		case TokResult, TokTag, TokEOF:
			return nil
		default:
			return p.errorf(p.currentToken, "move", p.currentToken.Text)
		}
	}
}

// skipVariation skips a parenthesised variation, including nested ones.
func (p *Parser) skipVariation() error {
	start := p.currentToken
	depth := 0
	for {
		switch p.currentToken.Kind {
		case TokVariationStart:
			depth++
		case TokVariationEnd:
			depth--
			if depth == 0 {
				p.nextToken()
				return nil
			}
		case TokEOF:
			return p.errorf(start, "')'", "end of input")
		case TokError:
			return p.errorf(p.currentToken, "move", p.currentToken.Text)
		}
		p.nextToken()
	}
}

// parseResult parses a game result, if present.
func (p *Parser) parseResult() string {
	if p.currentToken.Kind == TokResult {
		result := p.currentToken.Text
		p.nextToken()
		return result
	}
	return ""
}

// skipComments skips comments between games.
func (p *Parser) skipComments() {
	for p.currentToken.Kind == TokComment {
		p.nextToken()
	}
}

// errorf builds a ParseError located at tok.
func (p *Parser) errorf(tok *Token, expected, got string) error {
	if got == "" {
		got = tok.Kind.String()
	}
	return &errors.ParseError{
		Err:      errors.ErrInvalidSAN,
		Line:     tok.Line,
		Column:   tok.Column,
		Expected: expected,
		Got:      got,
	}
}

// ParseAllGames parses all games from the input.
func (p *Parser) ParseAllGames() ([]*Record, error) {
	var games []*Record
	for {
		game, err := p.ParseGame()
		if err != nil {
			return games, err
		}
		if game == nil {
			return games, nil
		}
		games = append(games, game)
	}
}
