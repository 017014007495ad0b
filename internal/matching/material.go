package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
)

// MaterialMatcher matches games that reach a material balance.
type MaterialMatcher struct {
	// Pattern like "QR:qrr" means white has Q+R, black has Q+2R
	pattern    string
	exactMatch bool
	counts     [2][chess.King + 1]int
}

// NewMaterialMatcher parses a pattern of the form "QRN:qrn": White's
// pieces before the colon, Black's after. Letters are case-insensitive
// within a side. With exact set, a side may hold no pieces beyond those
// listed apart from its king; otherwise the listed pieces are a minimum.
func NewMaterialMatcher(pattern string, exact bool) (*MaterialMatcher, error) {
	mm := &MaterialMatcher{pattern: pattern, exactMatch: exact}
	sides := strings.Split(pattern, ":")
	if len(sides) > 2 {
		return nil, fmt.Errorf("material pattern %q: %w", pattern, errors.ErrInvalidConfig)
	}
	colours := []chess.Colour{chess.White, chess.Black}
	for i, side := range sides {
		for j := 0; j < len(side); j++ {
			kind, ok := chess.KindFromLetter(side[j])
			if !ok {
				return nil, fmt.Errorf("material pattern %q: bad piece %q: %w",
					pattern, side[j], errors.ErrInvalidConfig)
			}
			mm.counts[colours[i]][kind]++
		}
	}
	return mm, nil
}

// Match reports whether any position of the game has the material.
func (mm *MaterialMatcher) Match(game *chess.Game) bool {
	return walkPositions(game, mm.matchPosition)
}

// Name implements GameMatcher.
func (mm *MaterialMatcher) Name() string {
	return "MaterialMatcher(" + mm.pattern + ")"
}

// matchPosition checks if a position matches the material pattern.
func (mm *MaterialMatcher) matchPosition(pos *chess.Position) bool {
	var onBoard [2][chess.King + 1]int
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			piece := pos.Board[row][col]
			if !piece.IsEmpty() {
				onBoard[piece.Colour][piece.Kind]++
			}
		}
	}

	for colour := range onBoard {
		for kind := chess.Pawn; kind <= chess.King; kind++ {
			want, got := mm.counts[colour][kind], onBoard[colour][kind]
			if got < want {
				return false
			}
			if mm.exactMatch && kind != chess.King && got != want {
				return false
			}
		}
	}
	return true
}
