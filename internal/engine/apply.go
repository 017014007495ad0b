package engine

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
)

// MakeMove validates move against pos and, if it is legal, applies it.
// A rejected move leaves pos untouched and returns an error wrapping
// ErrIllegalMove or ErrInvalidPromotion.
func MakeMove(pos *chess.Position, move chess.Move) (chess.MoveRecord, error) {
	if err := validateMove(pos, move); err != nil {
		return chess.MoveRecord{}, &errors.MoveError{
			Err:      err,
			Ply:      plyNumber(pos),
			MoveText: move.String(),
			FEN:      Encode(pos),
		}
	}
	return applyMove(pos, move), nil
}

// validateMove checks a move without changing the position.
func validateMove(pos *chess.Position, move chess.Move) error {
	if !move.From.Valid() || !move.To.Valid() {
		return fmt.Errorf("square off the board: %w", errors.ErrIllegalMove)
	}
	piece := pos.Get(move.From)
	if piece.IsEmpty() {
		return fmt.Errorf("no piece on %s: %w", move.From, errors.ErrIllegalMove)
	}
	if piece.Colour != pos.ToMove {
		return fmt.Errorf("%s is not to move: %w", piece.Colour, errors.ErrIllegalMove)
	}

	legal := false
	for _, to := range LegalTargets(pos, move.From) {
		if to == move.To {
			legal = true
			break
		}
	}
	if !legal {
		return fmt.Errorf("%s cannot move from %s to %s: %w", piece.Kind, move.From, move.To, errors.ErrIllegalMove)
	}

	if isPromotionMove(piece, move.To) {
		if !chess.IsPromotionKind(move.Promotion) {
			return fmt.Errorf("pawn on %s needs a promotion piece: %w", move.To, errors.ErrInvalidPromotion)
		}
	} else if move.Promotion != chess.None {
		return fmt.Errorf("%s does not promote: %w", move, errors.ErrInvalidPromotion)
	}
	return nil
}

// applyMove performs a move already known to be legal.
func applyMove(pos *chess.Position, move chess.Move) chess.MoveRecord {
	colour := pos.ToMove
	piece := pos.Get(move.From)
	record := chess.MoveRecord{
		Move:       move,
		Class:      classifyMove(pos, move, piece),
		Piece:      piece,
		Captured:   chess.Empty,
		CapturedOn: chess.NoSquare,
	}

	// An en passant victim stands behind the destination square.
	victimSq := move.To
	if record.Class == chess.EnPassantPawnMove {
		victimSq = enPassantVictim(move.From, move.To)
	}
	if victim := pos.Get(victimSq); !victim.IsEmpty() {
		record.Captured = victim
		record.CapturedOn = victimSq
		pos.Set(victimSq, chess.Empty)
		pos.Captured[colour] = append(pos.Captured[colour], victim)
		if victim.Kind == chess.Rook {
			updateCastlingRightsForRook(pos, victim.Colour, victimSq)
		}
	}

	placed := piece
	if record.Class == chess.PawnMoveWithPromotion {
		placed = chess.Piece{Kind: move.Promotion, Colour: colour}
	}
	pos.Set(move.From, chess.Empty)
	pos.Set(move.To, placed)

	switch piece.Kind {
	case chess.King:
		applyKingMove(pos, colour, move, record.Class)
	case chess.Rook:
		updateCastlingRightsForRook(pos, colour, move.From)
	}

	if piece.Kind == chess.Pawn || record.IsCapture() {
		pos.HalfmoveClock = 0
	} else {
		pos.HalfmoveClock++
	}
	if colour == chess.Black {
		pos.FullmoveNumber++
	}

	pos.ClearEnPassant()
	if isDoubleStep(piece, move.From, move.To) {
		record.DoubleStep = true
		pos.SetEnPassant(chess.Square{Row: (move.From.Row + move.To.Row) / 2, Col: move.From.Col})
	}

	pos.ToMove = colour.Opposite()
	UpdateCheckStatus(pos)

	if pos.InCheck[pos.ToMove] {
		record.CheckStatus = chess.Check
		if !HasLegalMoves(pos, pos.ToMove) {
			record.CheckStatus = chess.Checkmate
		}
	}
	return record
}

// plyNumber returns the 1-based ply of the next move in pos.
func plyNumber(pos *chess.Position) int {
	ply := 2*(pos.FullmoveNumber-1) + 1
	if pos.ToMove == chess.Black {
		ply++
	}
	return ply
}
