package engine

import (
	"fmt"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
)

// ParseMoveToken parses a coordinate move such as "e2e4" or "e7e8q", the
// form UCI engines reply with. It checks only the syntax; legality is
// decided by MakeMove.
func ParseMoveToken(token string) (chess.Move, error) {
	token = strings.TrimSpace(token)
	if len(token) != 4 && len(token) != 5 {
		return chess.Move{}, fmt.Errorf("%q has %d characters: %w", token, len(token), errors.ErrInvalidMoveToken)
	}

	from, ok := chess.ParseSquare(token[0:2])
	if !ok {
		return chess.Move{}, fmt.Errorf("bad origin square in %q: %w", token, errors.ErrInvalidMoveToken)
	}
	to, ok := chess.ParseSquare(token[2:4])
	if !ok {
		return chess.Move{}, fmt.Errorf("bad destination square in %q: %w", token, errors.ErrInvalidMoveToken)
	}
	if from == to {
		return chess.Move{}, fmt.Errorf("null move %q: %w", token, errors.ErrInvalidMoveToken)
	}

	move := chess.NewMove(from, to)
	if len(token) == 5 {
		kind, ok := chess.KindFromLetter(token[4])
		if !ok || !chess.IsPromotionKind(kind) {
			return chess.Move{}, fmt.Errorf("bad promotion letter in %q: %w", token, errors.ErrInvalidMoveToken)
		}
		move.Promotion = kind
	}
	return move, nil
}
