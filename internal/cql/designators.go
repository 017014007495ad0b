package cql

import (
	"fmt"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
)

// parseSquareSet expands a square designator. "." is every square;
// otherwise files and ranks are collected from single characters and
// bracketed ranges, and a missing axis means all of it: [a-h]1 is the
// first rank, e[1-8] or [e] the e-file.
func parseSquareSet(desig string) ([]chess.Square, error) {
	if desig == "." {
		return allSquares(), nil
	}

	var files, ranks []byte
	add := func(c byte) error {
		switch {
		case isFile(c):
			files = append(files, c)
		case isRank(c):
			ranks = append(ranks, c)
		default:
			return fmt.Errorf("bad square set %q: %w", desig, errors.ErrCQLSyntax)
		}
		return nil
	}

	for i := 0; i < len(desig); i++ {
		if desig[i] != '[' {
			if err := add(desig[i]); err != nil {
				return nil, err
			}
			continue
		}
		end := strings.IndexByte(desig[i:], ']')
		if end < 0 {
			return nil, fmt.Errorf("unclosed bracket in %q: %w", desig, errors.ErrCQLSyntax)
		}
		inner := desig[i+1 : i+end]
		for j := 0; j < len(inner); j++ {
			switch {
			case inner[j] == ',':
			case j+2 < len(inner) && inner[j+1] == '-':
				lo, hi := inner[j], inner[j+2]
				if lo > hi || isFile(lo) != isFile(hi) {
					return nil, fmt.Errorf("bad range %q: %w", inner[j:j+3], errors.ErrCQLSyntax)
				}
				for c := lo; c <= hi; c++ {
					if err := add(c); err != nil {
						return nil, err
					}
				}
				j += 2
			default:
				if err := add(inner[j]); err != nil {
					return nil, err
				}
			}
		}
		i += end
	}

	if len(files) == 0 && len(ranks) == 0 {
		return nil, fmt.Errorf("empty square set %q: %w", desig, errors.ErrCQLSyntax)
	}
	if len(files) == 0 {
		files = []byte("abcdefgh")
	}
	if len(ranks) == 0 {
		ranks = []byte("12345678")
	}

	squares := make([]chess.Square, 0, len(files)*len(ranks))
	for _, f := range files {
		for _, r := range ranks {
			sq, _ := chess.SquareAt(f, r)
			squares = append(squares, sq)
		}
	}
	return squares, nil
}

func allSquares() []chess.Square {
	squares := make([]chess.Square, 0, chess.BoardSize*chess.BoardSize)
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			squares = append(squares, chess.Square{Row: row, Col: col})
		}
	}
	return squares
}

// pieceSet is a parsed piece designator.
type pieceSet string

// parsePieceSet validates a piece designator: one character or a
// bracketed list such as [RQ].
func parsePieceSet(desig string) (pieceSet, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(desig, "["), "]")
	if inner == "" {
		return "", fmt.Errorf("empty piece designator: %w", errors.ErrCQLSyntax)
	}
	for i := 0; i < len(inner); i++ {
		if !isPieceChar(inner[i]) {
			return "", fmt.Errorf("bad piece designator %q: %w", desig, errors.ErrCQLSyntax)
		}
	}
	return pieceSet(inner), nil
}

// Contains reports whether the piece (or empty square) fits the designator.
func (s pieceSet) Contains(p chess.Piece) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '?':
			return true
		case '_':
			if p.IsEmpty() {
				return true
			}
		case 'A':
			if p.IsColour(chess.White) {
				return true
			}
		case 'a':
			if p.IsColour(chess.Black) {
				return true
			}
		default:
			if want, ok := chess.PieceFromLetter(c); ok && p == want {
				return true
			}
		}
	}
	return false
}
