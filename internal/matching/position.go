package matching

import (
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/hashing"
)

// FENPattern is a position to look for. Wildcards in the placement:
//   - ? matches any square (empty or occupied)
//   - ! matches any non-empty square
//   - * matches zero or more of anything
//   - A matches any white piece
//   - a matches any black piece
//   - _ matches empty square
type FENPattern struct {
	Pattern string
	Label   string // optional label for matched position
	Hash    uint64 // position hash for exact FEN matches
	IsExact bool   // true if this is an exact FEN (no wildcards)
	ranks   []string
}

// PositionMatcher selects games passing through given positions.
type PositionMatcher struct {
	patterns    []*FENPattern
	exactHashes map[uint64]*FENPattern
}

// NewPositionMatcher creates a new position matcher.
func NewPositionMatcher() *PositionMatcher {
	return &PositionMatcher{
		exactHashes: make(map[uint64]*FENPattern),
	}
}

// IsPattern reports whether text holds placement wildcards rather than a
// complete FEN.
func IsPattern(text string) bool {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return true
	}
	return strings.ContainsAny(fields[0], "?!*Aa_")
}

// Add adds text as an exact FEN or a wildcard pattern.
func (pm *PositionMatcher) Add(text, label string) error {
	if IsPattern(text) {
		pm.AddPattern(text, label, false)
		return nil
	}
	return pm.AddFEN(text, label)
}

// AddFEN adds an exact position. Clocks are ignored when comparing.
func (pm *PositionMatcher) AddFEN(fen string, label string) error {
	hash, err := hashing.FENKey(fen)
	if err != nil {
		return err
	}
	pattern := &FENPattern{Pattern: fen, Label: label, Hash: hash, IsExact: true}
	pm.patterns = append(pm.patterns, pattern)
	pm.exactHashes[hash] = pattern
	return nil
}

// AddPattern adds a placement pattern with wildcards. With includeInvert
// the colour-reversed pattern is added as well.
func (pm *PositionMatcher) AddPattern(pattern string, label string, includeInvert bool) {
	if fields := strings.Fields(pattern); len(fields) > 0 {
		pattern = fields[0]
	}
	pm.patterns = append(pm.patterns, &FENPattern{
		Pattern: pattern,
		Label:   label,
		ranks:   strings.Split(pattern, "/"),
	})

	if includeInvert {
		inverted := invertPattern(pattern)
		pm.patterns = append(pm.patterns, &FENPattern{
			Pattern: inverted,
			Label:   label,
			ranks:   strings.Split(inverted, "/"),
		})
	}
}

// MatchGame returns the first pattern reached by the game, or nil.
func (pm *PositionMatcher) MatchGame(game *chess.Game) *FENPattern {
	if len(pm.patterns) == 0 {
		return nil
	}
	var found *FENPattern
	walkPositions(game, func(pos *chess.Position) bool {
		found = pm.matchPosition(pos)
		return found != nil
	})
	return found
}

// Match implements GameMatcher.
func (pm *PositionMatcher) Match(game *chess.Game) bool {
	return pm.MatchGame(game) != nil
}

// Name implements GameMatcher.
func (pm *PositionMatcher) Name() string {
	return "PositionMatcher"
}

// matchPosition checks if a position matches any pattern.
func (pm *PositionMatcher) matchPosition(pos *chess.Position) *FENPattern {
	if pattern, ok := pm.exactHashes[hashing.Zobrist(pos)]; ok {
		return pattern
	}

	var ranks [chess.BoardSize]string
	for row := range ranks {
		ranks[row] = rankString(pos, row)
	}
	for _, pattern := range pm.patterns {
		if !pattern.IsExact && matchRanks(ranks, pattern.ranks) {
			return pattern
		}
	}
	return nil
}

// rankString renders one board row with '_' for empty squares.
func rankString(pos *chess.Position, row int) string {
	var sb strings.Builder
	for col := 0; col < chess.BoardSize; col++ {
		piece := pos.Board[row][col]
		if piece.IsEmpty() {
			sb.WriteByte('_')
		} else {
			sb.WriteByte(piece.Letter())
		}
	}
	return sb.String()
}

// matchRanks matches board rows against pattern ranks, rank 8 first.
func matchRanks(board [chess.BoardSize]string, pattern []string) bool {
	if len(pattern) != chess.BoardSize {
		return false
	}
	for i, patternRank := range pattern {
		if !matchRank(board[i], patternRank) {
			return false
		}
	}
	return true
}

// matchRank matches a board rank string against a pattern rank.
func matchRank(boardRank, patternRank string) bool {
	bi, pi := 0, 0
	for pi < len(patternRank) {
		c := patternRank[pi]
		if c == '*' {
			pi++
			if pi == len(patternRank) {
				return true
			}
			for ; bi <= len(boardRank); bi++ {
				if matchRank(boardRank[bi:], patternRank[pi:]) {
					return true
				}
			}
			return false
		}

		if c >= '1' && c <= '8' {
			for n := int(c - '0'); n > 0; n-- {
				if bi >= len(boardRank) || boardRank[bi] != '_' {
					return false
				}
				bi++
			}
			pi++
			continue
		}

		if bi >= len(boardRank) || !matchSquare(boardRank[bi], c) {
			return false
		}
		bi++
		pi++
	}
	return bi == len(boardRank)
}

// matchSquare matches one board square against one pattern character.
func matchSquare(square, c byte) bool {
	switch c {
	case '?':
		return true
	case '!':
		return square != '_'
	case 'A':
		return square >= 'A' && square <= 'Z'
	case 'a':
		return square >= 'a' && square <= 'z'
	default:
		return square == c
	}
}

// invertPattern swaps colours and flips the rank order.
func invertPattern(pattern string) string {
	var result strings.Builder
	for _, c := range pattern {
		switch {
		case c >= 'A' && c <= 'Z':
			result.WriteRune(c + 'a' - 'A')
		case c >= 'a' && c <= 'z':
			result.WriteRune(c - ('a' - 'A'))
		default:
			result.WriteRune(c)
		}
	}

	ranks := strings.Split(result.String(), "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	return strings.Join(ranks, "/")
}

// PatternCount returns the number of patterns.
func (pm *PositionMatcher) PatternCount() int {
	return len(pm.patterns)
}
