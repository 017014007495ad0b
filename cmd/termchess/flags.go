// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/errors"
)

// options holds the flags of one mode. Flags a mode does not define stay nil.
type options struct {
	// Common options
	configPath *string
	logFile    *string
	debug      *bool
	quiet      *bool
	ecoFile    *string

	// Game options
	startFEN   *string
	colour     *string
	enginePath *string
	noEngine   *bool
	depth      *int
	skill      *int
	dataDir    *string
	white      *string
	black      *string

	// Conversion options
	jsonOutput         *bool
	outputDir          *string
	lineLength         *int
	sevenTagOnly       *bool
	noTags             *bool
	noResults          *bool
	fenComments        *bool
	suppressDuplicates *bool
	exactDuplicates    *bool
	duplicateCapacity  *int
	workers            *int

	// Filter options
	minPly         *int
	maxPly         *int
	checkmate      *bool
	stalemate      *bool
	underpromotion *bool
	insufficient   *bool
	repetition     *bool
	fiftyMove      *bool
	seventyFive    *bool
	fivefold       *bool
	negate         *bool

	// Selection options
	criteriaFile  *string
	tagCriteria   stringList
	positions     stringList
	moves         stringList
	material      *string
	materialExact *string
	cql           *string

	// Diagram options
	outputFile *string
	squareSize *int
	flip       *bool
	noCoords   *bool
	highlight  *string
}

// stringList collects the values of a repeatable flag.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ", ")
}

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// newFlagSet creates a flag set that reports errors instead of exiting.
func newFlagSet(name string, stderr io.Writer, usage func(fs *flag.FlagSet)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs) }
	return fs
}

func (o *options) defineCommon(fs *flag.FlagSet) {
	o.configPath = fs.String("config", "", "Config file (default: "+config.DefaultFilePath()+")")
	o.logFile = fs.String("log", "", "Append diagnostics to this log file")
	o.debug = fs.Bool("debug", false, "Debug mode: verbose log and a FEN dump after every move")
	o.quiet = fs.Bool("s", false, "Silent mode (no summary)")
	o.ecoFile = fs.String("e", "", "ECO classification file (PGN format)")
}

func (o *options) definePlay(fs *flag.FlagSet) {
	o.startFEN = fs.String("fen", "", "Start from this FEN position")
	o.colour = fs.String("colour", "white", "Side you play: white or black")
	o.enginePath = fs.String("engine", "stockfish", "UCI engine binary")
	o.noEngine = fs.Bool("noengine", false, "Play both sides without an engine")
	o.depth = fs.Int("depth", config.DefaultDepth, "Engine search depth (1-30)")
	o.skill = fs.Int("skill", -1, "Engine skill level (0-20, -1 = engine default)")
	o.dataDir = fs.String("data", "", "Directory for saved games")
	o.white = fs.String("white", "", "White player name for exported games")
	o.black = fs.String("black", "", "Black player name for exported games")
}

func (o *options) defineConvert(fs *flag.FlagSet) {
	o.jsonOutput = fs.Bool("J", false, "Output in JSON format")
	o.outputDir = fs.String("o", "", "Output directory (default: next to each input)")
	o.lineLength = fs.Int("w", 80, "Maximum line length")
	o.sevenTagOnly = fs.Bool("7", false, "Output only the seven tag roster")
	o.noTags = fs.Bool("notags", false, "Don't output any tags")
	o.noResults = fs.Bool("noresults", false, "Don't output results")
	o.fenComments = fs.Bool("fencomments", false, "Add FEN comment after each move")
	o.suppressDuplicates = fs.Bool("D", false, "Skip logs that end in an already seen position")
	o.exactDuplicates = fs.Bool("exact", false, "Duplicates must also have the same number of moves")
	o.duplicateCapacity = fs.Int("duplicate-capacity", 0, "Maximum remembered games (0 = unlimited)")
	o.workers = fs.Int("workers", 0, "Number of worker threads (0 = one per CPU core)")
	o.white = fs.String("white", "", "White player name")
	o.black = fs.String("black", "", "Black player name")

	o.minPly = fs.Int("minply", 0, "Skip games shorter than this many half-moves")
	o.maxPly = fs.Int("maxply", 0, "Skip games longer than this many half-moves")
	o.checkmate = fs.Bool("checkmate", false, "Keep only games ending in checkmate")
	o.stalemate = fs.Bool("stalemate", false, "Keep only games ending in stalemate")
	o.underpromotion = fs.Bool("underpromotion", false, "Keep only games with an underpromotion")
	o.insufficient = fs.Bool("insufficient", false, "Keep only games ending with insufficient material")
	o.repetition = fs.Bool("repetition", false, "Keep only games with a threefold repetition")
	o.fiftyMove = fs.Bool("fifty", false, "Keep only games reaching the fifty-move rule")
	o.seventyFive = fs.Bool("75", false, "Keep only games reaching the seventy-five-move rule")
	o.fivefold = fs.Bool("repetition5", false, "Keep only games with a fivefold repetition")
	o.negate = fs.Bool("n", false, "Keep the games that do not match instead")

	o.criteriaFile = fs.String("t", "", "Selection criteria file")
	fs.Var(&o.tagCriteria, "tag", "Tag criterion, e.g. 'ECO >= C20' (repeatable)")
	fs.Var(&o.positions, "x", "FEN or placement pattern the game must reach (repeatable)")
	fs.Var(&o.moves, "v", "Move sequence the game must contain, e.g. '1. e4 e5' (repeatable)")
	o.material = fs.String("z", "", "Material balance to reach (e.g., 'QR:qrr')")
	o.materialExact = fs.String("y", "", "Exact material balance to reach")
	o.cql = fs.String("cql", "", "CQL query some position of the game must satisfy, e.g. '(and mate (piece Q h7))'")
}

func (o *options) defineDiagram(fs *flag.FlagSet) {
	o.startFEN = fs.String("fen", "", "Position to draw (default: the standard start)")
	o.outputFile = fs.String("o", "", "Output file, .svg or .png (default: SVG on stdout)")
	o.squareSize = fs.Int("size", 48, "Square size in pixels")
	o.flip = fs.Bool("flip", false, "Draw the board from Black's side")
	o.noCoords = fs.Bool("nocoords", false, "Don't draw coordinates")
	o.highlight = fs.String("highlight", "", "Mark the legal moves of the piece on this square")
}

func (o *options) defineReplay(fs *flag.FlagSet) {
	o.startFEN = fs.String("fen", "", "Position the movetext starts from")
}

// applyFlags applies the flags given on the command line to the
// configuration. Flags left at their defaults do not override values read
// from the config file.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, o *options) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err == nil {
			err = applyFlag(cfg, o, f.Name)
		}
	})
	return err
}

// applyFlag applies a single named flag.
func applyFlag(cfg *config.Config, o *options, name string) error {
	switch name {
	case "log":
		cfg.LogPath = *o.logFile
	case "debug":
		cfg.Debug = *o.debug
	case "e":
		cfg.ECOFile = *o.ecoFile
	case "s":
		if *o.quiet {
			cfg.Verbosity = 0
		}
	case "fen":
		cfg.Play.StartFEN = *o.startFEN
	case "colour":
		colour, err := config.ParseColour(*o.colour)
		if err != nil {
			return err
		}
		cfg.Play.HumanColour = colour
	case "engine":
		cfg.Engine.Path = *o.enginePath
	case "noengine":
		if *o.noEngine {
			cfg.Engine.Path = ""
		}
	case "depth":
		cfg.Engine.Depth = *o.depth
	case "skill":
		cfg.Engine.SkillLevel = *o.skill
	case "data":
		cfg.DataDir = *o.dataDir
	case "white":
		cfg.Play.White = *o.white
	case "black":
		cfg.Play.Black = *o.black
	case "J":
		if *o.jsonOutput {
			cfg.Output.Format = config.JSON
		}
	case "w":
		if *o.lineLength < 0 {
			return fmt.Errorf("line length %d is negative: %w", *o.lineLength, errors.ErrInvalidConfig)
		}
		cfg.Output.MaxLineLength = uint(*o.lineLength)
	case "7":
		if *o.sevenTagOnly {
			cfg.Output.TagFormat = config.SevenTagRoster
		}
	case "notags":
		if *o.noTags {
			cfg.Output.TagFormat = config.NoTags
		}
	case "noresults":
		cfg.Output.KeepResults = !*o.noResults
	case "fencomments":
		cfg.Output.AddFENComments = *o.fenComments
	case "D":
		cfg.Duplicate.Suppress = *o.suppressDuplicates
	case "exact":
		cfg.Duplicate.ExactMatch = *o.exactDuplicates
	case "duplicate-capacity":
		cfg.Duplicate.MaxCapacity = *o.duplicateCapacity
	case "minply":
		cfg.Filter.MinPly = *o.minPly
	case "maxply":
		cfg.Filter.MaxPly = *o.maxPly
	case "checkmate":
		cfg.Filter.MatchCheckmate = *o.checkmate
	case "stalemate":
		cfg.Filter.MatchStalemate = *o.stalemate
	case "underpromotion":
		cfg.Filter.MatchUnderpromotion = *o.underpromotion
	case "insufficient":
		cfg.Filter.MatchInsufficient = *o.insufficient
	case "repetition":
		cfg.Filter.CheckRepetition = *o.repetition
	case "fifty":
		cfg.Filter.CheckFiftyMoveRule = *o.fiftyMove
	case "75":
		cfg.Filter.Check75MoveRule = *o.seventyFive
	case "repetition5":
		cfg.Filter.CheckFivefold = *o.fivefold
	case "n":
		cfg.Filter.Negate = *o.negate
	case "t":
		cfg.Filter.CriteriaFile = *o.criteriaFile
	case "tag":
		cfg.Filter.TagCriteria = o.tagCriteria
	case "x":
		cfg.Filter.Positions = o.positions
	case "v":
		cfg.Filter.Moves = o.moves
	case "z":
		cfg.Filter.Material, cfg.Filter.MaterialExact = *o.material, false
	case "y":
		cfg.Filter.Material, cfg.Filter.MaterialExact = *o.materialExact, true
	case "cql":
		cfg.Filter.CQL = *o.cql
	}
	return nil
}

// loadConfig builds the configuration: defaults, then the config file,
// then command-line flags.
func loadConfig(fs *flag.FlagSet, o *options) (*config.Config, error) {
	cfg := config.NewConfig()

	path, optional := *o.configPath, false
	if path == "" {
		path, optional = config.DefaultFilePath(), true
	}
	if path != "" {
		if err := cfg.LoadFile(path, optional); err != nil {
			return nil, err
		}
	}

	if err := applyFlags(cfg, fs, o); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
