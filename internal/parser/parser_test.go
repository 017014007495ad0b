package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/termchess/internal/errors"
)

// parseTestGame is a helper that parses a PGN string and returns the game.
func parseTestGame(t *testing.T, pgn string) *Record {
	t.Helper()
	p := NewParser(strings.NewReader(pgn))
	game, err := p.ParseGame()
	if err != nil {
		t.Fatalf("ParseGame error: %v", err)
	}
	if game == nil {
		t.Fatal("Expected game, got nil")
	}
	return game
}

func TestParseSimpleGame(t *testing.T) {
	pgn := `[Event "Test"]
[Site "?"]
[Date "2024.01.01"]
[Round "1"]
[White "Player1"]
[Black "Player2"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 1-0
`

	game := parseTestGame(t, pgn)

	if got := game.Tags["Event"]; got != "Test" {
		t.Errorf("Event = %q, want %q", got, "Test")
	}
	if got := game.Tags["White"]; got != "Player1" {
		t.Errorf("White = %q, want %q", got, "Player1")
	}

	want := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6"}
	if diff := cmp.Diff(want, game.Moves); diff != "" {
		t.Errorf("Moves mismatch (-want +got):\n%s", diff)
	}
	if game.Result != "1-0" {
		t.Errorf("Result = %q, want %q", game.Result, "1-0")
	}
	if game.Line != 1 {
		t.Errorf("Line = %d, want 1", game.Line)
	}
}

func TestParseMovetext(t *testing.T) {
	tests := []struct {
		name       string
		pgn        string
		wantMoves  []string
		wantResult string
	}{
		{
			name:       "fools mate",
			pgn:        "1. f3 e5 2. g4 Qh4# 0-1",
			wantMoves:  []string{"f3", "e5", "g4", "Qh4#"},
			wantResult: "0-1",
		},
		{
			name:      "compact numbering",
			pgn:       "1.e4 e5 2.Nf3",
			wantMoves: []string{"e4", "e5", "Nf3"},
		},
		{
			name:       "black to move numbering",
			pgn:        "12... Rxe8+ 13. Kh1 *",
			wantMoves:  []string{"Rxe8+", "Kh1"},
			wantResult: "*",
		},
		{
			name:       "comments",
			pgn:        "1. e4 {Best by test} e5 ; rest of line\n2. Nf3 {multi\nline} Nc6 1/2-1/2",
			wantMoves:  []string{"e4", "e5", "Nf3", "Nc6"},
			wantResult: "1/2-1/2",
		},
		{
			name:      "variations",
			pgn:       "1. e4 e5 (1... c5 2. Nf3 (2. c3 d5)) 2. Nf3 Nc6",
			wantMoves: []string{"e4", "e5", "Nf3", "Nc6"},
		},
		{
			name:      "annotations and NAGs",
			pgn:       "1. e4! e5?! 2. Qh5?? $4 Nc6",
			wantMoves: []string{"e4", "e5", "Qh5", "Nc6"},
		},
		{
			name:      "castling spellings",
			pgn:       "1. O-O O-O-O 2. 0-0 0-0-0+",
			wantMoves: []string{"O-O", "O-O-O", "0-0", "0-0-0+"},
		},
		{
			name:      "promotion",
			pgn:       "40. e8=Q+ Kxe8 41. a1N",
			wantMoves: []string{"e8=Q+", "Kxe8", "a1N"},
		},
		{
			name:      "escaped line",
			pgn:       "% exported by hand\n1. d4 d5",
			wantMoves: []string{"d4", "d5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := parseTestGame(t, tt.pgn)
			if diff := cmp.Diff(tt.wantMoves, game.Moves); diff != "" {
				t.Errorf("Moves mismatch (-want +got):\n%s", diff)
			}
			if game.Result != tt.wantResult {
				t.Errorf("Result = %q, want %q", game.Result, tt.wantResult)
			}
		})
	}
}

func TestParseEscapedTagValue(t *testing.T) {
	game := parseTestGame(t, `[Event "The \"Big\" Open"] *`)
	if got := game.Tags["Event"]; got != `The "Big" Open` {
		t.Errorf("Event = %q", got)
	}
}

func TestParseMultipleGames(t *testing.T) {
	pgn := `[Event "Game1"]
[Result "1-0"]

1. e4 e5 1-0

{between games}
[Event "Game2"]
[Result "0-1"]

1. d4 d5 0-1
`

	games, err := NewParser(strings.NewReader(pgn)).ParseAllGames()
	if err != nil {
		t.Fatalf("ParseAllGames error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[1].Tags["Event"] != "Game2" {
		t.Errorf("second game Event = %q", games[1].Tags["Event"])
	}
	if diff := cmp.Diff([]string{"d4", "d5"}, games[1].Moves); diff != "" {
		t.Errorf("second game moves mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	for _, pgn := range []string{"", "   \n\t  ", "{only a comment}"} {
		game, err := NewParser(strings.NewReader(pgn)).ParseGame()
		if err != nil || game != nil {
			t.Errorf("ParseGame(%q) = %v, %v; want nil, nil", pgn, game, err)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		pgn      string
		wantLine int
	}{
		{"missing tag value", "[Event]\n1. e4", 1},
		{"unknown character", "1. e4 e5\n2. @f3", 2},
		{"unterminated variation", "1. e4 (1. d4 d5", 1},
		{"stray dash result", "1. e4 1-", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(strings.NewReader(tt.pgn)).ParseGame()
			var perr *errors.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("ParseGame() err = %v, want *ParseError", err)
			}
			if perr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", perr.Line, tt.wantLine)
			}
			if !errors.Is(err, errors.ErrInvalidSAN) {
				t.Errorf("ParseGame() err = %v, want ErrInvalidSAN", err)
			}
		})
	}
}
