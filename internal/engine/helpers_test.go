package engine

import (
	"testing"

	"github.com/lgbarn/termchess/internal/chess"
)

// mustDecode decodes fen or fails the test.
func mustDecode(t testing.TB, fen string) *chess.Position {
	t.Helper()
	pos, err := Decode(fen)
	if err != nil {
		t.Fatalf("Decode(%q) failed: %v", fen, err)
	}
	return pos
}

// play applies coordinate moves in order and returns the last record.
func play(t testing.TB, pos *chess.Position, tokens ...string) chess.MoveRecord {
	t.Helper()
	var record chess.MoveRecord
	for _, token := range tokens {
		move, err := ParseMoveToken(token)
		if err != nil {
			t.Fatalf("ParseMoveToken(%q) failed: %v", token, err)
		}
		record, err = MakeMove(pos, move)
		if err != nil {
			t.Fatalf("MakeMove(%s) failed: %v", token, err)
		}
	}
	return record
}

// sq is shorthand for chess.MustSquare.
func sq(name string) chess.Square {
	return chess.MustSquare(name)
}

// squareNames converts squares to their algebraic names.
func squareNames(squares []chess.Square) []string {
	names := make([]string, 0, len(squares))
	for _, s := range squares {
		names = append(names, s.String())
	}
	return names
}

// containsSquare reports whether name is among squares.
func containsSquare(squares []chess.Square, name string) bool {
	for _, s := range squares {
		if s.String() == name {
			return true
		}
	}
	return false
}
