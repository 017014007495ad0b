package cql

import "github.com/lgbarn/termchess/internal/chess"

// mirrorFiles reflects the board left to right. Castling and en passant
// do not survive the reflection.
func mirrorFiles(pos *chess.Position) *chess.Position {
	return transform(pos, pos.ToMove, func(sq chess.Square, p chess.Piece) (chess.Square, chess.Piece) {
		return chess.Square{Row: sq.Row, Col: chess.BoardSize - 1 - sq.Col}, p
	})
}

// swapColours reflects the board top to bottom and swaps every piece's
// colour, so White's position becomes Black's.
func swapColours(pos *chess.Position) *chess.Position {
	return transform(pos, pos.ToMove.Opposite(), func(sq chess.Square, p chess.Piece) (chess.Square, chess.Piece) {
		p.Colour = p.Colour.Opposite()
		return chess.Square{Row: chess.BoardSize - 1 - sq.Row, Col: sq.Col}, p
	})
}

func transform(pos *chess.Position, toMove chess.Colour, fn func(chess.Square, chess.Piece) (chess.Square, chess.Piece)) *chess.Position {
	out := chess.NewPosition()
	out.ToMove = toMove
	out.HalfmoveClock = pos.HalfmoveClock
	out.FullmoveNumber = pos.FullmoveNumber
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			piece := pos.Board[row][col]
			if piece.IsEmpty() {
				continue
			}
			sq, piece := fn(chess.Square{Row: row, Col: col}, piece)
			out.Set(sq, piece)
			if piece.Kind == chess.King {
				out.KingSquare[piece.Colour] = sq
			}
		}
	}
	return out
}
