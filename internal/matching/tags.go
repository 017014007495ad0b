package matching

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
)

// TagOperator represents comparison operators for tag matching.
type TagOperator int

const (
	OpEqual TagOperator = iota
	OpNotEqual
	OpLessThan
	OpLessOrEqual
	OpGreaterThan
	OpGreaterOrEqual
	OpContains // substring match
	OpRegex    // regex match
)

// operators lists the criterion operators, longest first so "<=" is
// tried before "<".
var operators = []struct {
	text string
	op   TagOperator
}{
	{"<=", OpLessOrEqual},
	{">=", OpGreaterOrEqual},
	{"<>", OpNotEqual},
	{"!=", OpNotEqual},
	{"<", OpLessThan},
	{">", OpGreaterThan},
	{"=", OpEqual},
	{"~", OpRegex},
	{"@", OpContains},
}

// PlayerTag matches either player name.
const PlayerTag = "Player"

// TagCriterion represents a single tag matching criterion.
type TagCriterion struct {
	TagName  string
	Value    string
	Operator TagOperator
	regex    *regexp.Regexp
}

// TagMatcher selects games by their tag values. All criteria must match.
type TagMatcher struct {
	criteria []*TagCriterion
}

// NewTagMatcher creates a new tag matcher.
func NewTagMatcher() *TagMatcher {
	return &TagMatcher{}
}

// AddCriterion adds a tag matching criterion.
func (tm *TagMatcher) AddCriterion(tagName, value string, op TagOperator) error {
	c := &TagCriterion{TagName: tagName, Value: value, Operator: op}
	if op == OpRegex {
		re, err := regexp.Compile(value)
		if err != nil {
			return fmt.Errorf("tag %s: %w", tagName, err)
		}
		c.regex = re
	}
	tm.criteria = append(tm.criteria, c)
	return nil
}

// ParseCriterion parses a criterion like `Result = "1-0"` or `ECO >= C20`.
// A bare tag name and value means equality. Blank lines and lines starting
// with '#' are ignored.
func (tm *TagMatcher) ParseCriterion(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	tagEnd := strings.IndexAny(line, " \t<>=!~@")
	if tagEnd <= 0 {
		return fmt.Errorf("tag criterion %q: %w", line, errors.ErrInvalidConfig)
	}
	tagName := line[:tagEnd]
	rest := strings.TrimSpace(line[tagEnd:])

	op := OpEqual
	for _, candidate := range operators {
		if strings.HasPrefix(rest, candidate.text) {
			op = candidate.op
			rest = rest[len(candidate.text):]
			break
		}
	}

	value := strings.TrimSpace(rest)
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	return tm.AddCriterion(tagName, value, op)
}

// Match reports whether the game satisfies every criterion.
func (tm *TagMatcher) Match(game *chess.Game) bool {
	for _, c := range tm.criteria {
		if !matchCriterion(game, c) {
			return false
		}
	}
	return true
}

// Name implements GameMatcher.
func (tm *TagMatcher) Name() string {
	return fmt.Sprintf("TagMatcher(%d)", len(tm.criteria))
}

// matchCriterion checks if a game matches a single criterion.
func matchCriterion(game *chess.Game, c *TagCriterion) bool {
	if c.TagName == PlayerTag {
		return matchValue(game.White(), c) || matchValue(game.Black(), c)
	}
	if !game.HasTag(c.TagName) {
		return c.Operator == OpNotEqual
	}
	return matchValue(game.GetTag(c.TagName), c)
}

// matchValue compares a tag value against a criterion.
func matchValue(tagValue string, c *TagCriterion) bool {
	switch c.Operator {
	case OpEqual:
		return strings.EqualFold(tagValue, c.Value)
	case OpNotEqual:
		return !strings.EqualFold(tagValue, c.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(tagValue), strings.ToLower(c.Value))
	case OpRegex:
		return c.regex.MatchString(tagValue)
	}
	return orderMatches(compareValues(tagValue, c.Value), c.Operator)
}

// orderMatches applies a relational operator to a comparison result.
func orderMatches(cmp int, op TagOperator) bool {
	switch op {
	case OpLessThan:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	}
	return false
}

// compareValues orders two tag values: as dates (YYYY.MM.DD) when both
// parse, then as numbers, then as case-folded strings.
func compareValues(a, b string) int {
	if da, db := parseDate(a), parseDate(b); da > 0 && db > 0 {
		return compareInts(da, db)
	}
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// parseDate encodes a YYYY.MM.DD date as an integer, or returns 0.
// Unknown month or day fields ("??") count as 1.
func parseDate(s string) int {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return 0
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil || year < 100 || year > 3000 {
		return 0
	}
	month, day := 1, 1
	if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	if d, err := strconv.Atoi(parts[2]); err == nil && d >= 1 && d <= 31 {
		day = d
	}
	return year*10000 + month*100 + day
}

// CriteriaCount returns the number of criteria.
func (tm *TagMatcher) CriteriaCount() int {
	return len(tm.criteria)
}
