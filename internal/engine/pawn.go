package engine

import "github.com/lgbarn/termchess/internal/chess"

// pawnTargets returns the pseudo-legal destinations of a pawn: single and
// double advances onto empty squares, diagonal captures of enemy pieces,
// and the en passant capture when the pawn stands beside the target.
func pawnTargets(pos *chess.Position, from chess.Square, colour chess.Colour) []chess.Square {
	var targets []chess.Square
	dir := chess.PawnDirection(colour)

	// Forward moves
	one := from.Offset(dir, 0)
	if pos.IsEmpty(one) {
		targets = append(targets, one)
		two := from.Offset(2*dir, 0)
		if from.Row == chess.PawnStartRow(colour) && pos.IsEmpty(two) {
			targets = append(targets, two)
		}
	}

	// Captures
	for _, dc := range []int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.Valid() {
			continue
		}
		if pos.Get(to).IsColour(colour.Opposite()) {
			targets = append(targets, to)
			continue
		}
		if isEnPassantCapture(pos, from, to, colour) {
			targets = append(targets, to)
		}
	}
	return targets
}

// pawnAttacks returns the two diagonal squares a pawn attacks, whether or
// not anything stands on them.
func pawnAttacks(from chess.Square, colour chess.Colour) []chess.Square {
	dir := chess.PawnDirection(colour)
	var targets []chess.Square
	for _, dc := range []int{-1, 1} {
		if to := from.Offset(dir, dc); to.Valid() {
			targets = append(targets, to)
		}
	}
	return targets
}

// isEnPassantCapture reports whether a pawn of colour on from may capture
// en passant onto to. Only the side to move owns the en passant target.
func isEnPassantCapture(pos *chess.Position, from, to chess.Square, colour chess.Colour) bool {
	ep, ok := pos.EnPassantSquare()
	if !ok || to != ep || colour != pos.ToMove {
		return false
	}
	if from.Row+chess.PawnDirection(colour) != ep.Row || abs(from.Col-ep.Col) != 1 {
		return false
	}
	if !pos.IsEmpty(ep) {
		return false
	}
	return pos.Get(enPassantVictim(from, to)).Is(colour.Opposite(), chess.Pawn)
}

// enPassantVictim returns the square of the pawn removed by an en passant
// capture: beside the capturing pawn, on the destination file.
func enPassantVictim(from, to chess.Square) chess.Square {
	return chess.Square{Row: from.Row, Col: to.Col}
}

// isPromotionMove reports whether moving piece to sq promotes it.
func isPromotionMove(piece chess.Piece, to chess.Square) bool {
	return piece.Kind == chess.Pawn && to.Row == chess.PromotionRow(piece.Colour)
}

// isDoubleStep reports whether a pawn move advanced two squares.
func isDoubleStep(piece chess.Piece, from, to chess.Square) bool {
	return piece.Kind == chess.Pawn && from.Col == to.Col && abs(to.Row-from.Row) == 2
}
