package engine

import "github.com/lgbarn/termchess/internal/chess"

// IsSquareAttacked returns true if any piece of byColour attacks sq.
func IsSquareAttacked(pos *chess.Position, sq chess.Square, byColour chess.Colour) bool {
	attacked := false
	pos.Squares(byColour, func(from chess.Square, piece chess.Piece) bool {
		for _, target := range attackTargets(pos, from, piece) {
			if target == sq {
				attacked = true
				return false
			}
		}
		return true
	})
	return attacked
}

// IsInCheck returns true if the given colour's king is in check.
func IsInCheck(pos *chess.Position, colour chess.Colour) bool {
	king := pos.KingSquare[colour]

	// If king position not tracked, search for it
	if !pos.Get(king).Is(colour, chess.King) {
		var ok bool
		king, ok = findKing(pos, colour)
		if !ok {
			return false // No king found
		}
	}

	return IsSquareAttacked(pos, king, colour.Opposite())
}

// UpdateCheckStatus recomputes the cached check flags for both colours.
func UpdateCheckStatus(pos *chess.Position) {
	pos.InCheck[chess.White] = IsInCheck(pos, chess.White)
	pos.InCheck[chess.Black] = IsInCheck(pos, chess.Black)
}

// findKing finds the king of the given colour on the board.
func findKing(pos *chess.Position, colour chess.Colour) (chess.Square, bool) {
	found := chess.NoSquare
	pos.Squares(colour, func(sq chess.Square, piece chess.Piece) bool {
		if piece.Kind == chess.King {
			found = sq
			return false
		}
		return true
	})
	return found, found.Valid()
}

// Attacks reports whether the piece on from attacks to. Unlike the move
// generator it counts squares held by friendly pieces, so a defended piece
// is attacked by its defenders.
func Attacks(pos *chess.Position, from, to chess.Square) bool {
	piece := pos.Get(from)
	if piece.IsEmpty() || from == to || !to.Valid() {
		return false
	}
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)
	switch piece.Kind {
	case chess.Pawn:
		for _, sq := range pawnAttacks(from, piece.Colour) {
			if sq == to {
				return true
			}
		}
		return false
	case chess.Knight:
		return dr*dc == 2
	case chess.King:
		return dr <= 1 && dc <= 1
	case chess.Bishop:
		return dr == dc && isPathClear(pos, from, to)
	case chess.Rook:
		return (dr == 0 || dc == 0) && isPathClear(pos, from, to)
	case chess.Queen:
		return (dr == dc || dr == 0 || dc == 0) && isPathClear(pos, from, to)
	}
	return false
}
