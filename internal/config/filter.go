package config

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/errors"
)

// FilterConfig selects which converted games are written.
// All fields use Go zero values (false, 0) - filters are disabled by default.
type FilterConfig struct {
	// Ply bounds; 0 disables a bound.
	MinPly int
	MaxPly int

	// Match conditions
	MatchCheckmate      bool
	MatchStalemate      bool
	MatchUnderpromotion bool
	MatchInsufficient   bool
	CheckRepetition     bool
	CheckFiftyMoveRule  bool
	Check75MoveRule     bool
	CheckFivefold       bool

	// Selection criteria
	TagCriteria   []string // e.g. `ECO >= "C20"`
	Positions     []string // FENs or placement patterns
	Material      string   // e.g. "QR:qr"
	MaterialExact bool
	Moves         []string // movetext runs
	CriteriaFile  string
	CQL           string // query every position is tested against

	// Negate writes the games that do NOT match.
	Negate bool
}

// NewFilterConfig creates a FilterConfig with default values.
func NewFilterConfig() *FilterConfig {
	return &FilterConfig{}
}

// Active reports whether any filter is set.
func (f *FilterConfig) Active() bool {
	return f.MinPly > 0 || f.MaxPly > 0 ||
		f.MatchCheckmate || f.MatchStalemate || f.MatchUnderpromotion ||
		f.MatchInsufficient || f.CheckRepetition || f.CheckFiftyMoveRule ||
		f.Check75MoveRule || f.CheckFivefold || f.HasSelection()
}

// HasSelection reports whether any tag, position, material, move or CQL
// criterion is set.
func (f *FilterConfig) HasSelection() bool {
	return len(f.TagCriteria) > 0 || len(f.Positions) > 0 || f.Material != "" ||
		len(f.Moves) > 0 || f.CriteriaFile != "" || f.CQL != ""
}

// Validate checks that the filter configuration is valid.
func (f *FilterConfig) Validate() error {
	if f.MinPly < 0 || f.MaxPly < 0 {
		return fmt.Errorf("negative ply bound: %w", errors.ErrInvalidConfig)
	}
	if f.MaxPly > 0 && f.MinPly > f.MaxPly {
		return fmt.Errorf("minimum ply (%d) > maximum ply (%d): %w",
			f.MinPly, f.MaxPly, errors.ErrInvalidConfig)
	}
	return nil
}
