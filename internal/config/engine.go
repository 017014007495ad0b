package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/termchess/internal/errors"
)

// Search limits accepted for the external engine.
const (
	MinDepth      = 1
	MaxDepth      = 30
	DefaultDepth  = 10
	MinSkillLevel = 0
	MaxSkillLevel = 20
)

// EngineConfig holds settings for the external move-suggestion engine.
type EngineConfig struct {
	// Path is the engine binary. Empty disables the engine.
	Path string

	// Depth is the search depth passed with "go depth".
	Depth int

	// SkillLevel is sent as the "Skill Level" option; -1 leaves the
	// engine's default.
	SkillLevel int

	// Timeout bounds a single search.
	Timeout time.Duration
}

// NewEngineConfig creates an EngineConfig with default values.
func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		Path:       "stockfish",
		Depth:      DefaultDepth,
		SkillLevel: -1,
		Timeout:    30 * time.Second,
	}
}

// Enabled reports whether an engine binary is configured.
func (e *EngineConfig) Enabled() bool {
	return e.Path != ""
}

// Validate checks the search limits.
func (e *EngineConfig) Validate() error {
	if e.Depth < MinDepth || e.Depth > MaxDepth {
		return fmt.Errorf("engine depth %d outside %d-%d: %w", e.Depth, MinDepth, MaxDepth, errors.ErrInvalidConfig)
	}
	if e.SkillLevel != -1 && (e.SkillLevel < MinSkillLevel || e.SkillLevel > MaxSkillLevel) {
		return fmt.Errorf("skill level %d outside %d-%d: %w", e.SkillLevel, MinSkillLevel, MaxSkillLevel, errors.ErrInvalidConfig)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("engine timeout must be positive: %w", errors.ErrInvalidConfig)
	}
	return nil
}
