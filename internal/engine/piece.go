package engine

import "github.com/lgbarn/termchess/internal/chess"

// Direction vectors as {row, col} steps.
var (
	knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs  = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs  = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	queenDirs     = append(append([][2]int{}, diagonalDirs...), straightDirs...)
)

// slidingDirs returns the ray directions for a sliding piece kind.
func slidingDirs(kind chess.Kind) [][2]int {
	switch kind {
	case chess.Bishop:
		return diagonalDirs
	case chess.Rook:
		return straightDirs
	case chess.Queen:
		return queenDirs
	}
	return nil
}

// slidingTargets casts rays from the origin. A ray stops after the first
// enemy piece and before the first friendly one.
func slidingTargets(pos *chess.Position, from chess.Square, colour chess.Colour, dirs [][2]int) []chess.Square {
	var targets []chess.Square
	for _, dir := range dirs {
		to := from.Offset(dir[0], dir[1])
		for to.Valid() {
			target := pos.Get(to)
			if !target.IsEmpty() {
				if target.Colour != colour {
					targets = append(targets, to)
				}
				break // Blocked
			}
			targets = append(targets, to)
			to = to.Offset(dir[0], dir[1])
		}
	}
	return targets
}

// offsetTargets returns the in-bounds squares at the given offsets that
// are not occupied by a friendly piece.
func offsetTargets(pos *chess.Position, from chess.Square, colour chess.Colour, offsets [][2]int) []chess.Square {
	var targets []chess.Square
	for _, offset := range offsets {
		to := from.Offset(offset[0], offset[1])
		if !to.Valid() || pos.Get(to).IsColour(colour) {
			continue
		}
		targets = append(targets, to)
	}
	return targets
}

// knightTargets returns the knight destinations from a square.
func knightTargets(pos *chess.Position, from chess.Square, colour chess.Colour) []chess.Square {
	return offsetTargets(pos, from, colour, knightOffsets)
}

// isPathClear checks that every square strictly between from and to is
// empty. The squares must share a line or diagonal.
func isPathClear(pos *chess.Position, from, to chess.Square) bool {
	dr := sign(to.Row - from.Row)
	dc := sign(to.Col - from.Col)
	for sq := from.Offset(dr, dc); sq != to; sq = sq.Offset(dr, dc) {
		if !sq.Valid() {
			return false
		}
		if !pos.IsEmpty(sq) {
			return false
		}
	}
	return true
}
