package config

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/errors"
)

// OutputFormat selects how exported games are written.
type OutputFormat int

const (
	PGN OutputFormat = iota
	JSON
)

// String returns the flag spelling of the format.
func (f OutputFormat) String() string {
	if f == JSON {
		return "json"
	}
	return "pgn"
}

// Extension returns the file extension used for the format.
func (f OutputFormat) Extension() string {
	return "." + f.String()
}

// ParseOutputFormat converts a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "pgn", "":
		return PGN, nil
	case "json":
		return JSON, nil
	}
	return PGN, fmt.Errorf("unknown output format %q: %w", s, errors.ErrInvalidConfig)
}

// TagOutputForm specifies which tags to output.
type TagOutputForm int

const (
	AllTags        TagOutputForm = 0
	SevenTagRoster TagOutputForm = 1
	NoTags         TagOutputForm = 2
)

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// Format selects PGN or JSON.
	Format OutputFormat

	// MaxLineLength is the maximum line length for PGN movetext.
	MaxLineLength uint

	// KeepMoveNumbers controls whether move numbers are included.
	KeepMoveNumbers bool

	// KeepResults controls whether the result token ends the movetext.
	KeepResults bool

	// KeepChecks controls whether check symbols (+, #) are kept.
	KeepChecks bool

	// TagFormat specifies which tags to output (AllTags, SevenTagRoster, NoTags).
	TagFormat TagOutputForm

	// AddFENComments writes the FEN after each move as a PGN comment.
	AddFENComments bool
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{
		Format:          PGN,
		MaxLineLength:   80,
		KeepMoveNumbers: true,
		KeepResults:     true,
		KeepChecks:      true,
		TagFormat:       AllTags,
	}
}

// Validate checks the line length.
func (o *OutputConfig) Validate() error {
	if o.MaxLineLength < 20 {
		return fmt.Errorf("line length %d too short: %w", o.MaxLineLength, errors.ErrInvalidConfig)
	}
	return nil
}
