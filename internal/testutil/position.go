package testutil

import (
	"testing"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
)

// PlayTokens applies coordinate moves to pos in order and returns the FEN
// of every position passed through, starting with pos itself. It stops at
// the first move that fails to parse or is illegal.
func PlayTokens(pos *chess.Position, tokens ...string) ([]string, error) {
	fens := []string{engine.Encode(pos)}
	for _, token := range tokens {
		move, err := engine.ParseMoveToken(token)
		if err != nil {
			return fens, err
		}
		if _, err := engine.MakeMove(pos, move); err != nil {
			return fens, err
		}
		fens = append(fens, engine.Encode(pos))
	}
	return fens, nil
}

// MustDecode decodes a FEN string, calling t.Fatal if it is rejected.
func MustDecode(t testing.TB, fen string) *chess.Position {
	t.Helper()
	pos, err := engine.Decode(fen)
	if err != nil {
		t.Fatalf("Decode(%q): %v", fen, err)
	}
	return pos
}

// MustPlay plays tokens from the standard starting position and returns the
// final position with the FEN log of the game.
// It calls t.Fatal if any move is rejected.
func MustPlay(t testing.TB, tokens ...string) (*chess.Position, []string) {
	t.Helper()
	pos := engine.NewInitialPosition()
	fens, err := PlayTokens(pos, tokens...)
	if err != nil {
		t.Fatalf("playing %v: %v", tokens, err)
	}
	return pos, fens
}

// MustPlayFrom is MustPlay starting from fen.
func MustPlayFrom(t testing.TB, fen string, tokens ...string) (*chess.Position, []string) {
	t.Helper()
	pos := MustDecode(t, fen)
	fens, err := PlayTokens(pos, tokens...)
	if err != nil {
		t.Fatalf("playing %v from %q: %v", tokens, fen, err)
	}
	return pos, fens
}
