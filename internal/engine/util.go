package engine

import (
	"golang.org/x/exp/constraints"

	"github.com/lgbarn/termchess/internal/chess"
)

func abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// sign returns -1, 0 or 1.
func sign[T constraints.Signed](x T) T {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Line returns the unit step leading from a towards b when the two
// distinct squares share a rank, file or diagonal.
func Line(a, b chess.Square) (dr, dc int, ok bool) {
	dr, dc = b.Row-a.Row, b.Col-a.Col
	if a == b || (dr != 0 && dc != 0 && abs(dr) != abs(dc)) {
		return 0, 0, false
	}
	return sign(dr), sign(dc), true
}
