package matching

import (
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
)

// VariationMatcher selects games containing a run of moves.
type VariationMatcher struct {
	moveSequences [][]string
}

// NewVariationMatcher creates a new variation matcher.
func NewVariationMatcher() *VariationMatcher {
	return &VariationMatcher{}
}

// AddMovetext adds a sequence written as movetext, e.g. "1. e4 e5 2. Nf3".
// Move numbers are skipped.
func (vm *VariationMatcher) AddMovetext(line string) {
	if moves := parseMoveSequence(line); len(moves) > 0 {
		vm.AddMoveSequence(moves)
	}
}

// AddMoveSequence adds a move sequence to match.
func (vm *VariationMatcher) AddMoveSequence(moves []string) {
	vm.moveSequences = append(vm.moveSequences, moves)
}

// Match reports whether the game plays any of the sequences as consecutive
// moves. Check and annotation marks are ignored.
func (vm *VariationMatcher) Match(game *chess.Game) bool {
	played := make([]string, len(game.Moves))
	for i, m := range game.Moves {
		played[i] = normalizeMove(m.SAN)
	}
	for _, seq := range vm.moveSequences {
		if containsRun(played, seq) {
			return true
		}
	}
	return false
}

// Name implements GameMatcher.
func (vm *VariationMatcher) Name() string {
	return "VariationMatcher"
}

// SequenceCount returns the number of move sequences.
func (vm *VariationMatcher) SequenceCount() int {
	return len(vm.moveSequences)
}

// containsRun reports whether seq occurs in played as a contiguous run.
func containsRun(played, seq []string) bool {
	for start := 0; start+len(seq) <= len(played); start++ {
		i := 0
		for i < len(seq) && played[start+i] == normalizeMove(seq[i]) {
			i++
		}
		if i == len(seq) {
			return true
		}
	}
	return false
}

// parseMoveSequence parses a line of moves into individual move texts.
func parseMoveSequence(line string) []string {
	var moves []string
	for _, part := range strings.Fields(line) {
		if strings.HasSuffix(part, ".") {
			continue
		}
		if i := strings.LastIndex(part, "."); i >= 0 {
			part = part[i+1:]
		}
		moves = append(moves, part)
	}
	return moves
}

// normalizeMove strips check marks and annotation glyphs.
func normalizeMove(text string) string {
	return strings.TrimRight(strings.TrimSpace(text), "+#!?")
}
