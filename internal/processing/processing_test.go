package processing

import (
	"testing"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/matching"
	"github.com/lgbarn/termchess/internal/notation"
	"github.com/lgbarn/termchess/internal/testutil"
)

// playGame plays tokens from start (the initial position when empty) and
// rebuilds the resulting FEN log as a game.
func playGame(t *testing.T, start string, tokens ...string) *chess.Game {
	t.Helper()
	var fens []string
	if start == "" {
		_, fens = testutil.MustPlay(t, tokens...)
	} else {
		_, fens = testutil.MustPlayFrom(t, start, tokens...)
	}
	game, err := notation.FENLogToGame(fens)
	if err != nil {
		t.Fatalf("FENLogToGame: %v", err)
	}
	return game
}

var knightDance = []string{
	"g1f3", "g8f6", "f3g1", "f6g8",
	"g1f3", "g8f6", "f3g1", "f6g8",
}

func TestAnalyzeGame(t *testing.T) {
	game := playGame(t, "", "e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6")

	analysis, err := AnalyzeGame(game)
	testutil.AssertNoError(t, err)
	testutil.AssertNotNil(t, analysis.Final)
	testutil.AssertEqual(t, analysis.Plies, 6)
	testutil.AssertEqual(t, len(analysis.Positions), 7)
	testutil.AssertEqual(t, analysis.Status, engine.Ongoing)
	testutil.AssertEqual(t, engine.Encode(analysis.Final), game.FinalFEN)
	testutil.AssertFalse(t, analysis.RepetitionDetected())
	testutil.AssertFalse(t, analysis.FiftyMoveTriggered())
	testutil.AssertFalse(t, analysis.UnderpromotionFound())
	testutil.AssertFalse(t, analysis.HasInsufficientMaterial)
}

func TestAnalyzeGame_Features(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		tokens []string
		check  func(*GameAnalysis) bool
	}{
		{
			name:   "threefold repetition",
			tokens: knightDance,
			check:  func(a *GameAnalysis) bool { return a.HasRepetition && !a.Has5FoldRepetition },
		},
		{
			name:   "fivefold repetition",
			tokens: append(append([]string{}, knightDance...), knightDance...),
			check:  func(a *GameAnalysis) bool { return a.Has5FoldRepetition },
		},
		{
			name:   "fifty-move rule",
			start:  "4k3/8/8/8/8/8/8/R3K3 w - - 99 80",
			tokens: []string{"a1a2"},
			check:  func(a *GameAnalysis) bool { return a.HasFiftyMoveRule && !a.Has75MoveRule },
		},
		{
			name:   "seventy-five-move rule",
			start:  "4k3/8/8/8/8/8/8/R3K3 w - - 149 80",
			tokens: []string{"a1a2"},
			check:  func(a *GameAnalysis) bool { return a.Has75MoveRule },
		},
		{
			name:   "underpromotion",
			start:  "k7/4P3/8/8/8/8/8/4K3 w - - 0 1",
			tokens: []string{"e7e8n"},
			check:  func(a *GameAnalysis) bool { return a.HasUnderpromotion },
		},
		{
			name:   "queen promotion is not underpromotion",
			start:  "k7/4P3/8/8/8/8/8/4K3 w - - 0 1",
			tokens: []string{"e7e8q"},
			check:  func(a *GameAnalysis) bool { return !a.HasUnderpromotion },
		},
		{
			name:   "bare kings",
			start:  "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1",
			tokens: []string{"e1d2"},
			check: func(a *GameAnalysis) bool {
				return a.HasInsufficientMaterial && a.Status == engine.InsufficientMaterial
			},
		},
		{
			name:   "checkmate",
			tokens: []string{"f2f3", "e7e5", "g2g4", "d8h4"},
			check:  func(a *GameAnalysis) bool { return a.Status == engine.Checkmate },
		},
		{
			name:   "stalemate",
			start:  "7k/5Q2/8/6K1/8/8/8/8 w - - 0 1",
			tokens: []string{"g5g6"},
			check:  func(a *GameAnalysis) bool { return a.Status == engine.Stalemate },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := AnalyzeGame(playGame(t, tt.start, tt.tokens...))
			testutil.AssertNoError(t, err)
			testutil.AssertTrue(t, tt.check(analysis), "analysis %+v", analysis)
		})
	}
}

func TestAnalyzeGame_BadFEN(t *testing.T) {
	game := playGame(t, "", "e2e4")
	game.Moves[0].FEN = "not a fen"

	_, err := AnalyzeGame(game)
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "ply 1")

	game.StartFEN = "garbage"
	_, err = AnalyzeGame(game)
	testutil.AssertContains(t, err.Error(), "start position")
}

func TestMatches(t *testing.T) {
	mateGame := playGame(t, "", "f2f3", "e7e5", "g2g4", "d8h4")
	mate, err := AnalyzeGame(mateGame)
	testutil.AssertNoError(t, err)
	danceGame := playGame(t, "", knightDance...)
	dance, err := AnalyzeGame(danceGame)
	testutil.AssertNoError(t, err)

	tests := []struct {
		name     string
		filter   func(*config.FilterConfig)
		wantMate bool
		wantRep  bool
	}{
		{"empty filter", func(*config.FilterConfig) {}, true, true},
		{"checkmate", func(f *config.FilterConfig) { f.MatchCheckmate = true }, true, false},
		{"repetition", func(f *config.FilterConfig) { f.CheckRepetition = true }, false, true},
		{"stalemate", func(f *config.FilterConfig) { f.MatchStalemate = true }, false, false},
		{"min ply", func(f *config.FilterConfig) { f.MinPly = 5 }, false, true},
		{"max ply", func(f *config.FilterConfig) { f.MaxPly = 4 }, true, false},
		{"negated checkmate", func(f *config.FilterConfig) {
			f.MatchCheckmate = true
			f.Negate = true
		}, false, true},
		{"conditions combine", func(f *config.FilterConfig) {
			f.MatchCheckmate = true
			f.CheckRepetition = true
		}, false, false},
		{"fifty-move rule", func(f *config.FilterConfig) { f.CheckFiftyMoveRule = true }, false, false},
		{"underpromotion", func(f *config.FilterConfig) { f.MatchUnderpromotion = true }, false, false},
		{"insufficient", func(f *config.FilterConfig) { f.MatchInsufficient = true }, false, false},
		{"seventy-five-move rule", func(f *config.FilterConfig) { f.Check75MoveRule = true }, false, false},
		{"fivefold repetition", func(f *config.FilterConfig) { f.CheckFivefold = true }, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := config.NewFilterConfig()
			tt.filter(f)
			testutil.AssertEqual(t, Matches(mateGame, mate, f), tt.wantMate, "checkmate game")
			testutil.AssertEqual(t, Matches(danceGame, dance, f), tt.wantRep, "repetition game")
		})
	}
}

func TestMatches_Selectors(t *testing.T) {
	game := playGame(t, "", "f2f3", "e7e5", "g2g4", "d8h4")
	analysis, err := AnalyzeGame(game)
	testutil.AssertNoError(t, err)

	gf := matching.NewGameFilter()
	testutil.AssertNoError(t, gf.AddLine("Moves g4 Qh4"))
	f := config.NewFilterConfig()
	testutil.AssertTrue(t, Matches(game, analysis, f, gf))

	other := matching.NewGameFilter()
	testutil.AssertNoError(t, other.AddLine("Moves e4"))
	testutil.AssertFalse(t, Matches(game, analysis, f, gf, other))

	f.Negate = true
	testutil.AssertTrue(t, Matches(game, analysis, f, gf, other))

	f.Negate = false
	f.MatchStalemate = true
	testutil.AssertFalse(t, Matches(game, analysis, f, gf))
}
