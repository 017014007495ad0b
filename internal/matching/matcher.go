// Package matching selects converted games by their tags, the positions
// they pass through and the moves they contain.
package matching

import (
	"fmt"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
)

// GameMatcher is implemented by every game selector.
type GameMatcher interface {
	// Match returns true if the game matches the matcher's criteria.
	Match(game *chess.Game) bool

	// Name returns a descriptive name for this matcher.
	Name() string
}

// MatcherFunc adapts a predicate to GameMatcher under a fixed name.
type MatcherFunc struct {
	Label string
	Fn    func(game *chess.Game) bool
}

func (f MatcherFunc) Match(game *chess.Game) bool { return f.Fn(game) }
func (f MatcherFunc) Name() string { return f.Label }

// combined is a conjunction or disjunction of selectors.
type combined struct {
	any      bool
	matchers []GameMatcher
}

// AllOf matches a game that every selector matches. With no selectors it
// matches everything.
func AllOf(matchers ...GameMatcher) GameMatcher {
	return combined{matchers: matchers}
}

// AnyOf matches a game that at least one selector matches. With no
// selectors it matches nothing.
func AnyOf(matchers ...GameMatcher) GameMatcher {
	return combined{any: true, matchers: matchers}
}

func (c combined) Match(game *chess.Game) bool {
	for _, m := range c.matchers {
		if m.Match(game) == c.any {
			return c.any
		}
	}
	return !c.any
}

func (c combined) Name() string {
	op := "all"
	if c.any {
		op = "any"
	}
	names := make([]string, len(c.matchers))
	for i, m := range c.matchers {
		names[i] = m.Name()
	}
	return fmt.Sprintf("%s(%s)", op, strings.Join(names, ", "))
}

// walkPositions calls fn with the start position and the position after
// every move until fn returns true. It reports whether fn did. Games whose
// FENs do not decode stop at the first bad one.
func walkPositions(game *chess.Game, fn func(pos *chess.Position) bool) bool {
	pos, err := engine.Decode(game.StartFEN)
	if err != nil {
		return false
	}
	if fn(pos) {
		return true
	}
	for _, m := range game.Moves {
		pos, err = engine.Decode(m.FEN)
		if err != nil {
			return false
		}
		if fn(pos) {
			return true
		}
	}
	return false
}
