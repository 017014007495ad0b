package notation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/parser"
	"github.com/lgbarn/termchess/internal/testutil"
)

func sans(game *chess.Game) []string {
	var out []string
	for _, m := range game.Moves {
		out = append(out, m.SAN)
	}
	return out
}

func TestFENLogToGame(t *testing.T) {
	_, fens := testutil.MustPlay(t, "e2e4", "e7e5", "g1f3", "b8c6", "f1b5")

	game, err := FENLogToGame(fens)
	testutil.AssertNoError(t, err)

	if diff := cmp.Diff([]string{"e4", "e5", "Nf3", "Nc6", "Bb5"}, sans(game)); diff != "" {
		t.Errorf("SAN mismatch (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, game.StartFEN, testInitial)
	testutil.AssertEqual(t, game.FinalFEN, fens[len(fens)-1])
	testutil.AssertFalse(t, game.HasTag(chess.SetupTag), "standard start must not set SetUp")
	testutil.AssertEqual(t, game.Result(), chess.InProgress)

	wantNumbers := []int{1, 1, 2, 2, 3}
	wantColours := []chess.Colour{chess.White, chess.Black, chess.White, chess.Black, chess.White}
	for i, m := range game.Moves {
		testutil.AssertEqual(t, m.Number, wantNumbers[i], "move %d number", i)
		testutil.AssertEqual(t, m.Colour, wantColours[i], "move %d colour", i)
		testutil.AssertEqual(t, m.FEN, fens[i+1], "move %d FEN", i)
	}
}

func TestFENLogToGame_Checkmate(t *testing.T) {
	_, fens := testutil.MustPlay(t, "f2f3", "e7e5", "g2g4", "d8h4")

	game, err := FENLogToGame(fens)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, game.LastMove().SAN, "Qh4#")
	testutil.AssertEqual(t, game.Result(), chess.BlackWins)
}

func TestFENLogToGame_SetUp(t *testing.T) {
	start := "4k3/8/8/8/8/8/8/R3K3 b - - 3 40"
	_, fens := testutil.MustPlayFrom(t, start, "e8d7", "a1a7")

	game, err := FENLogToGame(fens)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, game.GetTag(chess.SetupTag), "1")
	testutil.AssertEqual(t, game.FEN(), start)
	testutil.AssertEqual(t, game.Moves[0].Colour, chess.Black)
	testutil.AssertEqual(t, game.Moves[0].Number, 40)
	testutil.AssertEqual(t, game.Moves[1].Number, 41)
	testutil.AssertEqual(t, game.Moves[1].SAN, "Ra7+")
}

func TestFENLogToGame_Errors(t *testing.T) {
	_, fens := testutil.MustPlay(t, "e2e4", "e7e5", "g1f3")

	tests := []struct {
		name    string
		fens    []string
		wantErr error
		wantPly int
	}{
		{"empty", nil, errors.ErrCorruptHistory, 0},
		{"blank lines only", []string{"", "  "}, errors.ErrCorruptHistory, 0},
		{"bad start", []string{"garbage"}, errors.ErrInvalidFEN, 0},
		{"skipped position", []string{fens[0], fens[1], fens[3]}, errors.ErrIllegalMove, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FENLogToGame(tt.fens)
			testutil.AssertError(t, err)
			testutil.AssertErrorIs(t, err, tt.wantErr)

			var moveErr *errors.MoveError
			if errors.As(err, &moveErr) {
				testutil.AssertEqual(t, moveErr.Ply, tt.wantPly)
			}
		})
	}
}

func TestReadFENLog(t *testing.T) {
	_, fens := testutil.MustPlay(t, "d2d4", "d7d5")
	input := strings.Join(fens, "\n") + "\n\n"

	game, err := ReadFENLog(strings.NewReader(input))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, game.PlyCount(), 2)
	testutil.AssertEqual(t, game.LastMove().SAN, "d5")
}

func TestTokenizeMovetext(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "1. e4 e5 2. Nf3", []string{"e4", "e5", "Nf3"}},
		{"comments and variations", "1. e4 {best by test} e5 (1... c5 2. Nf3) 2. Nf3 $1 *", []string{"e4", "e5", "Nf3"}},
		{"result only", "1-0", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenizeMovetext(tt.text)
			testutil.AssertNoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("TokenizeMovetext mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMovetextToFENs(t *testing.T) {
	_, want := testutil.MustPlay(t, "e2e4", "c7c5", "g1f3")

	got, err := MovetextToFENs(testInitial, "1. e4 c5 2. Nf3")
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MovetextToFENs mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay(t *testing.T) {
	game, err := Replay(testInitial, []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Nf6", "O-O"})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, game.PlyCount(), 7)
	testutil.AssertEqual(t, game.LastMove().Class, chess.KingsideCastle)
	testutil.AssertEqual(t, game.LastMove().Move.String(), "e1g1")
	testutil.AssertEqual(t, game.Result(), chess.InProgress)
}

func TestReplay_Errors(t *testing.T) {
	_, err := Replay(testInitial, []string{"e4", "e5", "Ke3"})
	testutil.AssertError(t, err)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidSAN)

	var moveErr *errors.MoveError
	testutil.AssertTrue(t, errors.As(err, &moveErr), "want *MoveError, got %T", err)
	testutil.AssertEqual(t, moveErr.Ply, 3)
	testutil.AssertEqual(t, moveErr.MoveText, "Ke3")

	_, err = Replay("bad fen", nil)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidFEN)
}

func TestRecordToGame(t *testing.T) {
	input := `[Event "Club night"]
[White "Ann"]
[Black "Ben"]
[SetUp "1"]
[FEN "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"]

1. e4 Kd7 2. e5 1/2-1/2
`
	rec, err := parser.NewParser(strings.NewReader(input)).ParseGame()
	testutil.AssertNoError(t, err)
	testutil.AssertNotNil(t, rec)

	game, err := RecordToGame(rec)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, game.PlyCount(), 3)
	testutil.AssertEqual(t, game.White(), "Ann")
	testutil.AssertEqual(t, game.GetTag(chess.EventTag), "Club night")
	testutil.AssertEqual(t, game.Result(), chess.Draw)
	testutil.AssertEqual(t, game.StartFEN, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	testutil.AssertEqual(t, game.FinalFEN, "8/3k4/8/4P3/8/8/8/4K3 b - - 0 2")
}
