package matching

import (
	"testing"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/testutil"
)

func taggedGame(t *testing.T) *chess.Game {
	t.Helper()
	game := playGame(t, "", "e2e4", "e7e5")
	game.SetTag(chess.EventTag, "Club night")
	game.SetTag(chess.WhiteTag, "Ann Smith")
	game.SetTag(chess.BlackTag, "Ben Jones")
	game.SetTag("Date", "2024.03.15")
	game.SetTag("WhiteElo", "1850")
	game.SetTag("ECO", "C20")
	return game
}

func TestTagMatcher_ParseCriterion(t *testing.T) {
	game := taggedGame(t)

	tests := []struct {
		criterion string
		want      bool
	}{
		{`Event "Club night"`, true},
		{`Event = "club NIGHT"`, true},
		{`Event != "Club night"`, false},
		{`Event <> "Open"`, true},
		{`Site != "anywhere"`, true},
		{`Site = "anywhere"`, false},
		{`Date >= "2024.01.01"`, true},
		{`Date < "2024.03.15"`, false},
		{`Date <= "2024.03.15"`, true},
		{`WhiteElo > 1800`, true},
		{`WhiteElo > 900`, true},
		{`ECO >= C00`, true},
		{`ECO < C20`, false},
		{`White ~ ^Ann`, true},
		{`Black ~ ^Ann`, false},
		{`Player @ jones`, true},
		{`Player = "Ann Smith"`, true},
		{`Player @ carl`, false},
	}

	for _, tt := range tests {
		t.Run(tt.criterion, func(t *testing.T) {
			tm := NewTagMatcher()
			testutil.AssertNoError(t, tm.ParseCriterion(tt.criterion))
			testutil.AssertEqual(t, tm.CriteriaCount(), 1)
			testutil.AssertEqual(t, tm.Match(game), tt.want)
		})
	}
}

func TestTagMatcher_AllMustMatch(t *testing.T) {
	game := taggedGame(t)
	tm := NewTagMatcher()
	testutil.AssertNoError(t, tm.AddCriterion("ECO", "C", OpContains))
	testutil.AssertNoError(t, tm.AddCriterion("Result", "*", OpEqual))
	testutil.AssertTrue(t, tm.Match(game))

	testutil.AssertNoError(t, tm.AddCriterion("Result", "1-0", OpEqual))
	testutil.AssertFalse(t, tm.Match(game))
}

func TestTagMatcher_ParseErrors(t *testing.T) {
	tm := NewTagMatcher()
	testutil.AssertNoError(t, tm.ParseCriterion(""))
	testutil.AssertNoError(t, tm.ParseCriterion("# comment"))
	testutil.AssertEqual(t, tm.CriteriaCount(), 0)

	err := tm.ParseCriterion(`= "value"`)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidConfig)

	testutil.AssertError(t, tm.ParseCriterion(`White ~ "(unclosed"`))
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024.01.01", "2023.12.31", 1},
		{"2024.??.??", "2024.01.01", 0},
		{"9", "10", -1},
		{"abc", "ABD", -1},
		{"same", "SAME", 0},
	}
	for _, tt := range tests {
		testutil.AssertEqual(t, compareValues(tt.a, tt.b), tt.want, "compareValues(%q, %q)", tt.a, tt.b)
	}
}
