package config

import (
	"io"
	"time"

	"github.com/lgbarn/termchess/internal/chess"
)

// Builder assembles a Config in steps and validates it once in Build.
type Builder struct {
	cfg *Config
}

// NewBuilder starts from the defaults of NewConfig.
func NewBuilder() *Builder {
	return &Builder{cfg: NewConfig()}
}

// Engine sets the engine binary, search depth, skill level and the timeout
// for each engine exchange.
func (b *Builder) Engine(path string, depth, skill int, timeout time.Duration) *Builder {
	b.cfg.Engine.Path = path
	b.cfg.Engine.Depth = depth
	b.cfg.Engine.SkillLevel = skill
	b.cfg.Engine.Timeout = timeout
	return b
}

// Human sets the side the person at the keyboard plays.
func (b *Builder) Human(c chess.Colour) *Builder {
	b.cfg.Play.HumanColour = c
	return b
}

// StartFEN sets the position new games begin from.
func (b *Builder) StartFEN(fen string) *Builder {
	b.cfg.Play.StartFEN = fen
	return b
}

// Players sets the names recorded in exported games.
func (b *Builder) Players(white, black string) *Builder {
	b.cfg.Play.White, b.cfg.Play.Black = white, black
	return b
}

// DataDir sets where saved games are stored.
func (b *Builder) DataDir(dir string) *Builder {
	b.cfg.DataDir = dir
	return b
}

// Output sets the converted-game format and line width.
func (b *Builder) Output(format OutputFormat, maxLineLength uint) *Builder {
	b.cfg.Output.Format = format
	b.cfg.Output.MaxLineLength = maxLineLength
	return b
}

// Dedupe turns on duplicate suppression.
func (b *Builder) Dedupe(exact bool, capacity int) *Builder {
	b.cfg.Duplicate.Suppress = true
	b.cfg.Duplicate.ExactMatch = exact
	b.cfg.Duplicate.MaxCapacity = capacity
	return b
}

// Log sends log output to w.
func (b *Builder) Log(w io.Writer, debug bool) *Builder {
	b.cfg.SetLogOutput(w)
	b.cfg.Debug = debug
	return b
}

// Build validates and returns the configuration.
func (b *Builder) Build() (*Config, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return b.cfg, nil
}
