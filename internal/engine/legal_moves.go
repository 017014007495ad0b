package engine

import "github.com/lgbarn/termchess/internal/chess"

// LegalTargets returns the destinations of the piece on from that do not
// leave its own king attacked.
func LegalTargets(pos *chess.Position, from chess.Square) []chess.Square {
	targets := PseudoLegalTargets(pos, from)
	legal := targets[:0]
	for _, to := range targets {
		if tryMove(pos, from, to) {
			legal = append(legal, to)
		}
	}
	return legal
}

// LegalMoves returns every legal move for the side to move. A pawn reaching
// the last rank yields one move per promotion kind.
func LegalMoves(pos *chess.Position) []chess.Move {
	var moves []chess.Move
	pos.Squares(pos.ToMove, func(from chess.Square, piece chess.Piece) bool {
		for _, to := range LegalTargets(pos, from) {
			if isPromotionMove(piece, to) {
				for _, kind := range chess.PromotionKinds {
					moves = append(moves, chess.Move{From: from, To: to, Promotion: kind})
				}
				continue
			}
			moves = append(moves, chess.NewMove(from, to))
		}
		return true
	})
	return moves
}

// IsLegal reports whether move may be played in pos, promotion included.
func IsLegal(pos *chess.Position, move chess.Move) bool {
	return validateMove(pos, move) == nil
}

// HasLegalMoves returns true if the given colour has at least one legal move.
func HasLegalMoves(pos *chess.Position, colour chess.Colour) bool {
	found := false
	pos.Squares(colour, func(from chess.Square, piece chess.Piece) bool {
		for _, to := range moveTargets(pos, from, piece) {
			if tryMove(pos, from, to) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// tryMove plays from-to on the board, reports whether the mover's king is
// safe afterwards, and puts every touched square and the king cache back.
func tryMove(pos *chess.Position, from, to chess.Square) bool {
	piece := pos.Get(from)
	colour := piece.Colour
	captured := pos.Get(to)
	kingBefore := pos.KingSquare[colour]

	victimSq := chess.NoSquare
	victim := chess.Empty
	if piece.Kind == chess.Pawn && from.Col != to.Col && captured.IsEmpty() {
		victimSq = enPassantVictim(from, to)
		victim = pos.Get(victimSq)
		pos.Set(victimSq, chess.Empty)
	}

	pos.Set(from, chess.Empty)
	pos.Set(to, piece)
	if piece.Kind == chess.King {
		pos.KingSquare[colour] = to
	}

	safe := !IsInCheck(pos, colour)

	pos.Set(to, captured)
	pos.Set(from, piece)
	if victimSq.Valid() {
		pos.Set(victimSq, victim)
	}
	pos.KingSquare[colour] = kingBefore

	return safe
}
