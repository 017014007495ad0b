// Package config provides configuration for termchess.
package config

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	// Engine drives the external move-suggestion process.
	Engine *EngineConfig

	// Play holds settings for interactive games.
	Play *PlayConfig

	// Output controls PGN and JSON export.
	Output *OutputConfig

	// Duplicate controls duplicate detection in batch conversion.
	Duplicate *DuplicateConfig

	// Filter selects which games batch conversion writes.
	Filter *FilterConfig

	// DataDir is where saved games are stored.
	DataDir string

	// ECOFile is a PGN file of ECO lines used to name openings. Empty
	// disables classification.
	ECOFile string

	// LogPath names the log file, if any. Empty means no log file.
	LogPath string

	// Debug writes the current FEN to DebugFile after every move and
	// raises log output: to stderr for batch commands, to DebugLog while
	// the terminal screen is active.
	Debug     bool
	DebugFile string
	DebugLog  string

	// Verbosity: 0=nothing, 1=summary, 2=per file.
	Verbosity int

	// Output streams
	OutputFile io.Writer
	LogFile    io.Writer

	// Logger writes to LogFile.
	Logger *log.Logger
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	cfg := &Config{
		Engine:     NewEngineConfig(),
		Play:       NewPlayConfig(),
		Output:     NewOutputConfig(),
		Duplicate:  NewDuplicateConfig(),
		Filter:     NewFilterConfig(),
		DataDir:    defaultDataDir(),
		DebugFile:  "debug_position.fen",
		DebugLog:   "termchess_debug.log",
		Verbosity:  1,
		OutputFile: os.Stdout,
	}
	cfg.SetLogOutput(io.Discard)
	return cfg
}

// SetOutput sets the output writer.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// SetLogOutput points LogFile and Logger at w.
func (c *Config) SetLogOutput(w io.Writer) {
	c.LogFile = w
	c.Logger = log.New(w, "termchess: ", log.LstdFlags)
}

// OpenLog opens the configured log destination. LogPath wins when set.
// Otherwise debug mode logs to stderr, or to DebugLog when screen is true
// because the terminal front end owns stderr. The returned closer must be
// called when the program exits.
func (c *Config) OpenLog(screen bool) (io.Closer, error) {
	path := c.LogPath
	if path == "" && c.Debug {
		if !screen {
			c.SetLogOutput(os.Stderr)
			return io.NopCloser(nil), nil
		}
		path = c.DebugLog
	}
	if path == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	c.SetLogOutput(f)
	return f, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if err := c.Play.Validate(); err != nil {
		return err
	}
	if err := c.Output.Validate(); err != nil {
		return err
	}
	if err := c.Filter.Validate(); err != nil {
		return err
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory is empty: %w", errors.ErrInvalidConfig)
	}
	return nil
}

// defaultDataDir returns the per-user data directory, falling back to the
// working directory when the home directory is unknown.
func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".termchess"
	}
	return filepath.Join(dir, "termchess", "games")
}

// ParseColour converts "white" or "black" (or "w"/"b") to a colour.
func ParseColour(s string) (chess.Colour, error) {
	switch s {
	case "white", "w", "White":
		return chess.White, nil
	case "black", "b", "Black":
		return chess.Black, nil
	}
	return chess.White, fmt.Errorf("unknown colour %q: %w", s, errors.ErrInvalidConfig)
}
