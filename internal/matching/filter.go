package matching

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
)

// GameFilter combines the tag, position, material and move selectors.
// Every selector given criteria must match.
type GameFilter struct {
	TagMatcher       *TagMatcher
	PositionMatcher  *PositionMatcher
	VariationMatcher *VariationMatcher
	MaterialMatchers []*MaterialMatcher
}

// NewGameFilter creates a new game filter.
func NewGameFilter() *GameFilter {
	return &GameFilter{
		TagMatcher:       NewTagMatcher(),
		PositionMatcher:  NewPositionMatcher(),
		VariationMatcher: NewVariationMatcher(),
	}
}

// LoadFile reads criteria from a file, one per line:
//
//	FEN <fen or pattern>
//	Material <pattern>
//	Moves <movetext>
//	<tag criterion>
//
// Blank lines and lines starting with '#' are ignored.
func (gf *GameFilter) LoadFile(filename string) error {
	file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := gf.AddLine(scanner.Text()); err != nil {
			return fmt.Errorf("%s:%d: %w", filename, lineNo, err)
		}
	}
	return scanner.Err()
}

// AddLine adds one criterion in the LoadFile format.
func (gf *GameFilter) AddLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	keyword, rest, _ := strings.Cut(line, " ")
	rest = strings.Trim(strings.TrimSpace(rest), `"`)

	switch keyword {
	case "FEN", "FENPattern":
		return gf.PositionMatcher.Add(rest, "")
	case "Material":
		return gf.AddMaterial(rest, false)
	case "MaterialExact":
		return gf.AddMaterial(rest, true)
	case "Moves":
		gf.VariationMatcher.AddMovetext(rest)
		return nil
	}
	return gf.TagMatcher.ParseCriterion(line)
}

// AddMaterial adds a material balance the game must reach.
func (gf *GameFilter) AddMaterial(pattern string, exact bool) error {
	mm, err := NewMaterialMatcher(pattern, exact)
	if err != nil {
		return err
	}
	gf.MaterialMatchers = append(gf.MaterialMatchers, mm)
	return nil
}

// matchers returns the selectors that have criteria.
func (gf *GameFilter) matchers() []GameMatcher {
	var all []GameMatcher
	if gf.TagMatcher.CriteriaCount() > 0 {
		all = append(all, gf.TagMatcher)
	}
	if gf.PositionMatcher.PatternCount() > 0 {
		all = append(all, gf.PositionMatcher)
	}
	if gf.VariationMatcher.SequenceCount() > 0 {
		all = append(all, gf.VariationMatcher)
	}
	for _, mm := range gf.MaterialMatchers {
		all = append(all, mm)
	}
	return all
}

// Match implements GameMatcher. A filter without criteria matches every
// game.
func (gf *GameFilter) Match(game *chess.Game) bool {
	return AllOf(gf.matchers()...).Match(game)
}

// HasCriteria returns true if any filter criteria are set.
func (gf *GameFilter) HasCriteria() bool {
	return len(gf.matchers()) > 0
}

// Name implements GameMatcher.
func (gf *GameFilter) Name() string {
	return "GameFilter"
}
