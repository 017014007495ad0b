package engine

import "github.com/lgbarn/termchess/internal/chess"

// HasInsufficientMaterial reports whether no sequence of legal moves can
// end in checkmate: bare kings, a single minor piece, or any number of
// bishops that all stand on squares of one colour.
func HasInsufficientMaterial(pos *chess.Position) bool {
	knights, bishops := 0, 0
	var shades [2]bool // dark, light

	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			switch pos.Board[row][col].Kind {
			case chess.None, chess.King:
			case chess.Knight:
				knights++
			case chess.Bishop:
				bishops++
				if isLightSquare(chess.Square{Row: row, Col: col}) {
					shades[1] = true
				} else {
					shades[0] = true
				}
			default:
				return false
			}
		}
	}

	if knights+bishops <= 1 {
		return true
	}
	return knights == 0 && !(shades[0] && shades[1])
}

// isLightSquare reports the square colour; a8 is light.
func isLightSquare(sq chess.Square) bool {
	return (sq.Row+sq.Col)%2 == 0
}
