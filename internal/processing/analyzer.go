// Package processing analyses converted games and decides which of them
// are written.
package processing

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/hashing"
	"github.com/lgbarn/termchess/internal/matching"
)

// GameAnalysis holds analysis results from replaying a game.
type GameAnalysis struct {
	Final             *chess.Position
	Status            engine.GameStatus
	Plies             int
	HasFiftyMoveRule  bool
	HasRepetition     bool
	HasUnderpromotion bool
	Positions         []uint64 // Zobrist hashes for repetition detection

	// Extended draw rule detection
	Has75MoveRule           bool
	Has5FoldRepetition      bool
	HasInsufficientMaterial bool
}

// FiftyMoveTriggered returns true if the game reached the fifty-move rule.
func (ga *GameAnalysis) FiftyMoveTriggered() bool {
	return ga.HasFiftyMoveRule
}

// RepetitionDetected returns true if the game has a threefold repetition.
func (ga *GameAnalysis) RepetitionDetected() bool {
	return ga.HasRepetition
}

// UnderpromotionFound returns true if any pawn promoted to non-queen.
func (ga *GameAnalysis) UnderpromotionFound() bool {
	return ga.HasUnderpromotion
}

// AnalyzeGame walks the positions of a game and records its features.
func AnalyzeGame(game *chess.Game) (*GameAnalysis, error) {
	pos, err := engine.Decode(game.StartFEN)
	if err != nil {
		return nil, fmt.Errorf("start position: %w", err)
	}

	analysis := &GameAnalysis{Plies: len(game.Moves)}
	posHash := hashing.Zobrist(pos)
	analysis.Positions = append(analysis.Positions, posHash)
	positionCount := map[uint64]int{posHash: 1}

	for i, m := range game.Moves {
		pos, err = engine.Decode(m.FEN)
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", i+1, err)
		}

		// 50-move rule (100 half-moves)
		if pos.HalfmoveClock >= 100 {
			analysis.HasFiftyMoveRule = true
		}

		// 75-move rule (150 half-moves - automatic draw)
		if pos.HalfmoveClock >= 150 {
			analysis.Has75MoveRule = true
		}

		if m.Move.Promotion != chess.None && m.Move.Promotion != chess.Queen {
			analysis.HasUnderpromotion = true
		}

		posHash = hashing.Zobrist(pos)
		analysis.Positions = append(analysis.Positions, posHash)
		positionCount[posHash]++

		// 3-fold repetition
		if positionCount[posHash] >= 3 {
			analysis.HasRepetition = true
		}

		// 5-fold repetition (automatic draw)
		if positionCount[posHash] >= 5 {
			analysis.Has5FoldRepetition = true
		}
	}

	analysis.HasInsufficientMaterial = engine.HasInsufficientMaterial(pos)
	analysis.Status = engine.Status(pos)
	analysis.Final = pos
	return analysis, nil
}

// Matches reports whether an analysed game passes the filter and every
// selector. Negate inverts the outcome.
func Matches(game *chess.Game, analysis *GameAnalysis, f *config.FilterConfig, selectors ...matching.GameMatcher) bool {
	outcome := matching.MatcherFunc{
		Label: "outcome",
		Fn:    func(*chess.Game) bool { return matchesAll(analysis, f) },
	}
	matched := matching.AllOf(append([]matching.GameMatcher{outcome}, selectors...)...).Match(game)
	if f.Negate {
		return !matched
	}
	return matched
}

func matchesAll(analysis *GameAnalysis, f *config.FilterConfig) bool {
	if f.MinPly > 0 && analysis.Plies < f.MinPly {
		return false
	}
	if f.MaxPly > 0 && analysis.Plies > f.MaxPly {
		return false
	}
	if f.MatchCheckmate && analysis.Status != engine.Checkmate {
		return false
	}
	if f.MatchStalemate && analysis.Status != engine.Stalemate {
		return false
	}
	if f.MatchInsufficient && !analysis.HasInsufficientMaterial {
		return false
	}
	if f.MatchUnderpromotion && !analysis.UnderpromotionFound() {
		return false
	}
	if f.CheckRepetition && !analysis.RepetitionDetected() {
		return false
	}
	if f.CheckFiftyMoveRule && !analysis.FiftyMoveTriggered() {
		return false
	}
	if f.Check75MoveRule && !analysis.Has75MoveRule {
		return false
	}
	if f.CheckFivefold && !analysis.Has5FoldRepetition {
		return false
	}
	return true
}
