package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/lgbarn/termchess/internal/errors"
)

// File is the JSON form of a config file. Absent fields leave the
// current value alone.
type File struct {
	EnginePath    *string `json:"engine_path,omitempty"`
	Depth         *int    `json:"depth,omitempty"`
	SkillLevel    *int    `json:"skill_level,omitempty"`
	EngineTimeout string  `json:"engine_timeout,omitempty"`
	Colour        string  `json:"colour,omitempty"`
	White         string  `json:"white,omitempty"`
	Black         string  `json:"black,omitempty"`
	DataDir       string  `json:"data_dir,omitempty"`
	ECOFile       string  `json:"eco_file,omitempty"`
	LogFile       string  `json:"log_file,omitempty"`
	Debug         *bool   `json:"debug,omitempty"`
	MaxLineLength *uint   `json:"max_line_length,omitempty"`
}

// DefaultFilePath returns the per-user config file location.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "termchess", "config.json")
}

// LoadFile reads the config file at path and applies it to c. A missing
// file is not an error when optional is set.
func (c *Config) LoadFile(path string, optional bool) error {
	f, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening config %s: %w", path, err)
	}
	defer f.Close()

	if err := c.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Load decodes a JSON config from r and applies it to c.
func (c *Config) Load(r io.Reader) error {
	var file File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("decoding config: %v: %w", err, errors.ErrInvalidConfig)
	}
	return c.Apply(&file)
}

// Apply copies the fields set in file onto c.
func (c *Config) Apply(file *File) error {
	if file.EnginePath != nil {
		c.Engine.Path = *file.EnginePath
	}
	if file.Depth != nil {
		c.Engine.Depth = *file.Depth
	}
	if file.SkillLevel != nil {
		c.Engine.SkillLevel = *file.SkillLevel
	}
	if file.EngineTimeout != "" {
		d, err := time.ParseDuration(file.EngineTimeout)
		if err != nil {
			return fmt.Errorf("engine_timeout %q: %w", file.EngineTimeout, errors.ErrInvalidConfig)
		}
		c.Engine.Timeout = d
	}
	if file.Colour != "" {
		colour, err := ParseColour(file.Colour)
		if err != nil {
			return err
		}
		c.Play.HumanColour = colour
	}
	if file.White != "" {
		c.Play.White = file.White
	}
	if file.Black != "" {
		c.Play.Black = file.Black
	}
	if file.DataDir != "" {
		c.DataDir = file.DataDir
	}
	if file.ECOFile != "" {
		c.ECOFile = file.ECOFile
	}
	if file.LogFile != "" {
		c.LogPath = file.LogFile
	}
	if file.Debug != nil {
		c.Debug = *file.Debug
	}
	if file.MaxLineLength != nil {
		c.Output.MaxLineLength = *file.MaxLineLength
	}
	return nil
}
