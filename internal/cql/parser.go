package cql

import (
	"fmt"
	"strconv"

	"github.com/lgbarn/termchess/internal/errors"
)

// filterSpec describes a filter's arguments.
type filterSpec struct {
	args    int  // number of arguments
	numeric bool // evaluates to a number rather than a truth value
}

// filters lists the known filters.
var filters = map[string]filterSpec{
	"piece":     {args: 2}, // piece <designator> <square>
	"attack":    {args: 2}, // attack <attacker> <piece or square>
	"pin":       {args: 3}, // pin <pinned> <pinner> <pinned to>
	"between":   {args: 2}, // between <square> <square>
	"check":     {},
	"mate":      {},
	"stalemate": {},
	"wtm":       {},
	"btm":       {},
	"flip":      {args: 1}, // flip <expr>
	"flipcolor": {args: 1}, // flipcolor <expr>
	"result":    {args: 1}, // result <string>
	"player":    {args: 1}, // player <string>
	"white":     {},
	"black":     {},
	"count":     {args: 1, numeric: true}, // count <designator>
	"material":  {args: 1, numeric: true}, // material white|black
	"elo":       {args: 1, numeric: true}, // elo white|black
	"year":      {numeric: true},
	"ply":       {numeric: true},
}

// Parser parses queries into an AST.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	return &Parser{tokens: Tokenize(input)}
}

// Parse parses a query. Several top-level expressions are joined with an
// implicit "and".
func Parse(input string) (Node, error) {
	return NewParser(input).ParseExpression()
}

func (p *Parser) current() Token {
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Type != EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("at %d: %s: %w", p.current().Pos, fmt.Sprintf(format, args...), errors.ErrCQLSyntax)
}

// ParseExpression parses the complete input.
func (p *Parser) ParseExpression() (Node, error) {
	nodes, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if p.current().Type != EOF {
		return nil, p.errorf("unexpected %q", p.current().Literal)
	}
	if len(nodes) == 0 {
		return nil, p.errorf("empty expression")
	}
	return joinAnd(nodes), nil
}

// parseList parses primaries up to a ')' or the end of input.
func (p *Parser) parseList() ([]Node, error) {
	var nodes []Node
	for t := p.current().Type; t != EOF && t != RPAREN; t = p.current().Type {
		node, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func joinAnd(nodes []Node) Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &LogicalNode{Op: "and", Children: nodes}
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.current()
	switch tok.Type {
	case LPAREN:
		return p.parseParen()
	case IDENT:
		return p.parseFilter()
	case PIECE, PIECESET:
		p.advance()
		return &PieceNode{Designator: tok.Literal}, nil
	case SQUARE, SQUARESET:
		p.advance()
		return &SquareNode{Designator: tok.Literal}, nil
	case NUMBER:
		val, err := strconv.Atoi(tok.Literal)
		if err != nil {
			return nil, p.errorf("invalid number %s", tok.Literal)
		}
		p.advance()
		return &NumberNode{Value: val}, nil
	case STRING:
		p.advance()
		return &StringNode{Value: tok.Literal}, nil
	case EOF:
		return nil, p.errorf("unexpected end of query")
	}
	return nil, p.errorf("unexpected %v %q", tok.Type, tok.Literal)
}

// parseParen parses a parenthesised logical operator, comparison or group.
func (p *Parser) parseParen() (Node, error) {
	p.advance() // (

	tok := p.current()
	var node Node
	var err error
	switch {
	case tok.Type == IDENT && (tok.Literal == "and" || tok.Literal == "or" || tok.Literal == "not"):
		node, err = p.parseLogical()
	case tok.Type.isComparison():
		node, err = p.parseComparison()
	default:
		var nodes []Node
		nodes, err = p.parseList()
		if err == nil && len(nodes) == 0 {
			err = p.errorf("empty parentheses")
		}
		if err == nil {
			node = joinAnd(nodes)
		}
	}
	if err != nil {
		return nil, err
	}

	if p.current().Type != RPAREN {
		return nil, p.errorf("expected ')'")
	}
	p.advance()
	return node, nil
}

func (p *Parser) parseLogical() (Node, error) {
	op := p.advance().Literal
	children, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, p.errorf("%s needs an operand", op)
	}
	if op == "not" && len(children) != 1 {
		return nil, p.errorf("not takes one operand, got %d", len(children))
	}
	return &LogicalNode{Op: op, Children: children}, nil
}

func (p *Parser) parseComparison() (Node, error) {
	op := p.advance().Literal
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ComparisonNode{Op: op, Left: left, Right: right}, nil
}

// parseOperand parses a comparison operand, which must be numeric.
func (p *Parser) parseOperand() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case *NumberNode:
		return n, nil
	case *FilterNode:
		if filters[n.Name].numeric {
			return n, nil
		}
	}
	return nil, p.errorf("%s is not a number", node)
}

func (p *Parser) parseFilter() (Node, error) {
	name := p.current().Literal
	def, ok := filters[name]
	if !ok {
		return nil, p.errorf("unknown filter %q", name)
	}
	p.advance()

	args := make([]Node, 0, def.args)
	for len(args) < def.args {
		if t := p.current().Type; t == EOF || t == RPAREN {
			return nil, p.errorf("%s takes %d argument(s), got %d", name, def.args, len(args))
		}
		arg, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &FilterNode{Name: name, Args: args}, nil
}
