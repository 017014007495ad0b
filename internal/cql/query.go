package cql

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
)

// Query is a compiled query. A game matches when any position it passes
// through, the start included, satisfies the query.
type Query struct {
	text string
	root Node
}

// Compile parses text and checks every filter argument.
func Compile(text string) (*Query, error) {
	root, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if err := validate(root); err != nil {
		return nil, err
	}
	return &Query{text: text, root: root}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Query {
	q, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return q
}

// Root returns the parsed expression.
func (q *Query) Root() Node {
	return q.root
}

// MatchPosition evaluates the query against a single position of game.
func (q *Query) MatchPosition(pos *chess.Position, game *chess.Game, ply int) bool {
	return NewEvaluator(pos, game, ply).Evaluate(q.root)
}

// Match reports whether any position of the game satisfies the query.
// Positions after an undecodable FEN are not examined.
func (q *Query) Match(game *chess.Game) bool {
	fens := make([]string, 0, len(game.Moves)+1)
	fens = append(fens, game.StartFEN)
	for _, m := range game.Moves {
		fens = append(fens, m.FEN)
	}
	for ply, fen := range fens {
		pos, err := engine.Decode(fen)
		if err != nil {
			return false
		}
		if q.MatchPosition(pos, game, ply) {
			return true
		}
	}
	return false
}

// Name returns a description of the query.
func (q *Query) Name() string {
	return fmt.Sprintf("CQL(%s)", q.root)
}

// validate checks each filter gets arguments of the kind it evaluates.
func validate(node Node) error {
	switch n := node.(type) {
	case *LogicalNode:
		for _, child := range n.Children {
			if err := validate(child); err != nil {
				return err
			}
		}
	case *ComparisonNode:
		if err := validate(n.Left); err != nil {
			return err
		}
		return validate(n.Right)
	case *FilterNode:
		return validateFilter(n)
	case *PieceNode, *SquareNode, *StringNode:
		return fmt.Errorf("%s outside a filter: %w", node, errors.ErrCQLSyntax)
	}
	return nil
}

func validateFilter(f *FilterNode) error {
	badArg := func(i int, want string) error {
		return fmt.Errorf("%s: argument %d must be %s, got %s: %w", f.Name, i+1, want, f.Args[i], errors.ErrCQLSyntax)
	}
	switch f.Name {
	case "piece":
		if err := checkPieces(f, 0, badArg); err != nil {
			return err
		}
		return checkSquares(f, 1, badArg)
	case "attack":
		if err := checkPieces(f, 0, badArg); err != nil {
			return err
		}
		if _, ok := f.Args[1].(*SquareNode); ok {
			return checkSquares(f, 1, badArg)
		}
		return checkPieces(f, 1, badArg)
	case "pin":
		for i := range f.Args {
			if err := checkPieces(f, i, badArg); err != nil {
				return err
			}
		}
	case "between":
		for i := range f.Args {
			if err := checkSquares(f, i, badArg); err != nil {
				return err
			}
		}
	case "count":
		return checkPieces(f, 0, badArg)
	case "material", "elo":
		if c, ok := f.Args[0].(*FilterNode); !ok || (c.Name != "white" && c.Name != "black") {
			return badArg(0, "white or black")
		}
	case "result", "player":
		if _, ok := f.Args[0].(*StringNode); !ok {
			return badArg(0, "a string")
		}
	case "flip", "flipcolor":
		return validate(f.Args[0])
	case "white", "black":
		return fmt.Errorf("%s outside material or elo: %w", f.Name, errors.ErrCQLSyntax)
	}
	return nil
}

func checkPieces(f *FilterNode, i int, badArg func(int, string) error) error {
	p, ok := f.Args[i].(*PieceNode)
	if !ok {
		return badArg(i, "a piece designator")
	}
	if _, err := parsePieceSet(p.Designator); err != nil {
		return err
	}
	return nil
}

func checkSquares(f *FilterNode, i int, badArg func(int, string) error) error {
	s, ok := f.Args[i].(*SquareNode)
	if !ok {
		return badArg(i, "a square designator")
	}
	if _, err := parseSquareSet(s.Designator); err != nil {
		return err
	}
	return nil
}
