package notation

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
)

// Derived is a move recovered from two consecutive positions.
type Derived struct {
	Move   chess.Move
	SAN    string
	Record chess.MoveRecord

	// Colour and Number identify the half-move in the game.
	Colour chess.Colour
	Number int
}

// DiffMove derives the move that leads from the position before to the
// position after by comparing their boards. Castling is recognised by the
// king moving two files, en passant by a pawn moving diagonally onto an
// empty square, and promotion by a pawn becoming another kind on the last
// rank. The derived move must be legal in before and must reproduce the
// placement, side to move, castling rights and en passant square of after.
func DiffMove(before, after string) (Derived, error) {
	from, err := engine.Decode(before)
	if err != nil {
		return Derived{}, err
	}
	to, err := engine.Decode(after)
	if err != nil {
		return Derived{}, err
	}

	move, err := diffBoards(from, to)
	if err != nil {
		return Derived{}, err
	}

	san := SAN(from, move)
	next := from.Copy()
	record, err := engine.MakeMove(next, move)
	if err != nil {
		return Derived{}, err
	}
	if !sameState(next, to) {
		return Derived{}, fmt.Errorf("%s does not lead to %q: %w", move, after, errors.ErrIllegalMove)
	}
	return Derived{
		Move:   move,
		SAN:    san,
		Record: record,
		Colour: from.ToMove,
		Number: from.FullmoveNumber,
	}, nil
}

// diffBoards finds the single piece of the side to move that left one
// square and arrived on another.
func diffBoards(before, after *chess.Position) (chess.Move, error) {
	mover := before.ToMove
	var vacated, arrived []chess.Square

	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			sq := chess.Square{Row: row, Col: col}
			was, is := before.Get(sq), after.Get(sq)
			if was == is {
				continue
			}
			if was.IsColour(mover) && !is.IsColour(mover) {
				vacated = append(vacated, sq)
			}
			if is.IsColour(mover) {
				arrived = append(arrived, sq)
			}
		}
	}

	// A castle moves the king and a rook; the king names the move.
	king := before.KingSquare[mover]
	if len(vacated) == 2 && len(arrived) == 2 {
		for _, sq := range arrived {
			if after.Get(sq).Kind == chess.King && sq.Row == king.Row && abs(sq.Col-king.Col) == 2 {
				return chess.NewMove(king, sq), nil
			}
		}
	}

	if len(vacated) != 1 || len(arrived) != 1 {
		return chess.Move{}, fmt.Errorf("%d squares vacated and %d filled: %w", len(vacated), len(arrived), errors.ErrIllegalMove)
	}

	move := chess.NewMove(vacated[0], arrived[0])
	moved, landed := before.Get(move.From), after.Get(move.To)
	if moved.Kind == chess.Pawn && landed.Kind != chess.Pawn {
		move.Promotion = landed.Kind
	}
	return move, nil
}

// sameState compares everything but the clocks.
func sameState(a, b *chess.Position) bool {
	aep, aok := a.EnPassantSquare()
	bep, bok := b.EnPassantSquare()
	return a.Board == b.Board &&
		a.ToMove == b.ToMove &&
		a.Castling == b.Castling &&
		aok == bok && aep == bep
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
