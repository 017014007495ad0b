package engine

import "github.com/lgbarn/termchess/internal/chess"

// KingCapability selects how king destinations are produced.
type KingCapability int

const (
	// KingAdjacency yields the eight neighbouring squares only. It is the
	// only king capability attack detection can reach.
	KingAdjacency KingCapability = iota

	// KingAdjacencyWithCastling adds castling destinations, which are
	// themselves decided with attack queries.
	KingAdjacencyWithCastling
)

// Home squares for the castling pieces, by file.
const (
	kingHomeCol      = 4
	kingsideRookCol  = 7
	queensideRookCol = 0
	kingsideKingCol  = 6
	queensideKingCol = 2
	kingsideRookTo   = 5
	queensideRookTo  = 3
)

// KingTargets returns the destinations of the king on from under the
// given capability.
func KingTargets(pos *chess.Position, from chess.Square, capability KingCapability) []chess.Square {
	piece := pos.Get(from)
	if piece.Kind != chess.King {
		return nil
	}
	targets := kingAdjacency(pos, from, piece.Colour)
	if capability == KingAdjacencyWithCastling {
		targets = append(targets, castlingTargets(pos, from, piece.Colour)...)
	}
	return targets
}

// kingAdjacency returns the neighbouring squares not held by a friendly piece.
func kingAdjacency(pos *chess.Position, from chess.Square, colour chess.Colour) []chess.Square {
	return offsetTargets(pos, from, colour, kingOffsets)
}

// castlingTargets returns the king destinations of the castles available
// to colour: the right is held, the king and rook stand on their home
// squares, the squares between them are empty, the king is not in check,
// and the king neither crosses nor lands on an attacked square.
func castlingTargets(pos *chess.Position, from chess.Square, colour chess.Colour) []chess.Square {
	row := chess.BackRow(colour)
	if from != (chess.Square{Row: row, Col: kingHomeCol}) {
		return nil
	}
	if !pos.Castling.Kingside(colour) && !pos.Castling.Queenside(colour) {
		return nil
	}

	enemy := colour.Opposite()
	if IsSquareAttacked(pos, from, enemy) {
		return nil
	}

	var targets []chess.Square
	if pos.Castling.Kingside(colour) &&
		canCastleThrough(pos, from, colour, kingsideRookCol, kingsideRookTo, kingsideKingCol) {
		targets = append(targets, chess.Square{Row: row, Col: kingsideKingCol})
	}
	if pos.Castling.Queenside(colour) &&
		canCastleThrough(pos, from, colour, queensideRookCol, queensideRookTo, queensideKingCol) {
		targets = append(targets, chess.Square{Row: row, Col: queensideKingCol})
	}
	return targets
}

// canCastleThrough checks the rook, the empty path and the attacked squares
// for one castle. The king passes over transitCol and stops on kingToCol.
func canCastleThrough(pos *chess.Position, king chess.Square, colour chess.Colour, rookCol, transitCol, kingToCol int) bool {
	rook := chess.Square{Row: king.Row, Col: rookCol}
	if !pos.Get(rook).Is(colour, chess.Rook) {
		return false
	}
	if !isPathClear(pos, king, rook) {
		return false
	}
	enemy := colour.Opposite()
	for _, col := range []int{transitCol, kingToCol} {
		if IsSquareAttacked(pos, chess.Square{Row: king.Row, Col: col}, enemy) {
			return false
		}
	}
	return true
}

// isCastleMove reports whether a king move displaces the king by two files.
func isCastleMove(piece chess.Piece, from, to chess.Square) bool {
	return piece.Kind == chess.King && from.Row == to.Row && abs(to.Col-from.Col) == 2
}

// castleRookSquares returns where the rook starts and ends for a castle
// whose king lands on kingTo.
func castleRookSquares(kingTo chess.Square) (from, to chess.Square) {
	if kingTo.Col == kingsideKingCol {
		return chess.Square{Row: kingTo.Row, Col: kingsideRookCol}, chess.Square{Row: kingTo.Row, Col: kingsideRookTo}
	}
	return chess.Square{Row: kingTo.Row, Col: queensideRookCol}, chess.Square{Row: kingTo.Row, Col: queensideRookTo}
}

// applyKingMove updates the king cache and castling rights after a king
// move, and brings the rook across when the move is a castle.
func applyKingMove(pos *chess.Position, colour chess.Colour, move chess.Move, class chess.MoveClass) {
	if class == chess.KingsideCastle || class == chess.QueensideCastle {
		rookFrom, rookTo := castleRookSquares(move.To)
		rook := pos.Get(rookFrom)
		pos.Set(rookFrom, chess.Empty)
		pos.Set(rookTo, rook)
	}
	pos.KingSquare[colour] = move.To
	pos.Castling.ClearAll(colour)
}

// updateCastlingRightsForRook removes castling rights when a rook leaves
// or is captured on its home square.
func updateCastlingRightsForRook(pos *chess.Position, colour chess.Colour, sq chess.Square) {
	if sq.Row != chess.BackRow(colour) {
		return
	}
	switch sq.Col {
	case kingsideRookCol:
		pos.Castling.ClearKingside(colour)
	case queensideRookCol:
		pos.Castling.ClearQueenside(colour)
	}
}
