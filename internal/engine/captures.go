package engine

import "github.com/lgbarn/termchess/internal/chess"

// standardComplement is each side's material at the start of a game.
var standardComplement = []struct {
	kind  chess.Kind
	count int
}{
	{chess.Pawn, 8},
	{chess.Knight, 2},
	{chess.Bishop, 2},
	{chess.Rook, 2},
	{chess.Queen, 1},
}

// RecomputeCaptured rebuilds both capture lists by comparing the pieces on
// the board with the standard starting complement. Pieces a colour is
// missing are counted as captured by the other colour. Promoted pieces can
// push a count above the standard one; such surpluses are ignored.
func RecomputeCaptured(pos *chess.Position) {
	for _, capturer := range []chess.Colour{chess.White, chess.Black} {
		victim := capturer.Opposite()
		var captured []chess.Piece
		for _, c := range standardComplement {
			missing := c.count - pos.PieceCount(victim, c.kind)
			for i := 0; i < missing; i++ {
				captured = append(captured, chess.Piece{Kind: c.kind, Colour: victim})
			}
		}
		pos.Captured[capturer] = captured
	}
}
