package config

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
)

// PlayConfig holds settings for interactive games.
type PlayConfig struct {
	// HumanColour is the side the person at the keyboard plays.
	HumanColour chess.Colour

	// StartFEN is the initial position; empty means the standard start.
	StartFEN string

	// Player names written to exported games.
	White string
	Black string
}

// NewPlayConfig creates a PlayConfig with default values.
func NewPlayConfig() *PlayConfig {
	return &PlayConfig{
		HumanColour: chess.White,
		White:       "Player",
		Black:       "Engine",
	}
}

// Validate checks the configured colour.
func (p *PlayConfig) Validate() error {
	if p.HumanColour != chess.White && p.HumanColour != chess.Black {
		return fmt.Errorf("invalid human colour %d: %w", p.HumanColour, errors.ErrInvalidConfig)
	}
	return nil
}
