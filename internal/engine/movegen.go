package engine

import "github.com/lgbarn/termchess/internal/chess"

// PseudoLegalTargets returns the destinations of the piece on from that
// follow its movement pattern, before checking whether the mover's king
// would be left attacked. It returns nil if from is empty or holds a
// piece of the side not to move.
func PseudoLegalTargets(pos *chess.Position, from chess.Square) []chess.Square {
	piece := pos.Get(from)
	if piece.IsEmpty() || piece.Colour != pos.ToMove {
		return nil
	}
	return moveTargets(pos, from, piece)
}

// moveTargets generates destinations for any piece, whoever is to move.
func moveTargets(pos *chess.Position, from chess.Square, piece chess.Piece) []chess.Square {
	switch piece.Kind {
	case chess.Pawn:
		return pawnTargets(pos, from, piece.Colour)
	case chess.Knight:
		return knightTargets(pos, from, piece.Colour)
	case chess.Bishop, chess.Rook, chess.Queen:
		return slidingTargets(pos, from, piece.Colour, slidingDirs(piece.Kind))
	case chess.King:
		return KingTargets(pos, from, KingAdjacencyWithCastling)
	}
	return nil
}

// attackTargets returns the squares a piece attacks. Kings contribute only
// their adjacent squares; castling never attacks anything.
func attackTargets(pos *chess.Position, from chess.Square, piece chess.Piece) []chess.Square {
	switch piece.Kind {
	case chess.Pawn:
		return pawnAttacks(from, piece.Colour)
	case chess.Knight:
		return knightTargets(pos, from, piece.Colour)
	case chess.Bishop, chess.Rook, chess.Queen:
		return slidingTargets(pos, from, piece.Colour, slidingDirs(piece.Kind))
	case chess.King:
		return kingAdjacency(pos, from, piece.Colour)
	}
	return nil
}

// classifyMove works out the class of a move about to be made.
func classifyMove(pos *chess.Position, move chess.Move, piece chess.Piece) chess.MoveClass {
	switch piece.Kind {
	case chess.Pawn:
		if isPromotionMove(piece, move.To) {
			return chess.PawnMoveWithPromotion
		}
		if move.From.Col != move.To.Col && pos.IsEmpty(move.To) {
			return chess.EnPassantPawnMove
		}
		return chess.PawnMove
	case chess.King:
		if isCastleMove(piece, move.From, move.To) {
			if move.To.Col > move.From.Col {
				return chess.KingsideCastle
			}
			return chess.QueensideCastle
		}
	}
	return chess.PieceMove
}
