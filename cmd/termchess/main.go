// termchess plays chess in the terminal against a UCI engine and converts
// FEN logs and movetext between formats.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/cql"
	"github.com/lgbarn/termchess/internal/diagram"
	"github.com/lgbarn/termchess/internal/eco"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/hashing"
	"github.com/lgbarn/termchess/internal/matching"
	"github.com/lgbarn/termchess/internal/notation"
	"github.com/lgbarn/termchess/internal/output"
	"github.com/lgbarn/termchess/internal/parser"
	"github.com/lgbarn/termchess/internal/processing"
	"github.com/lgbarn/termchess/internal/shell"
	"github.com/lgbarn/termchess/internal/storage"
	"github.com/lgbarn/termchess/internal/uci"
	"github.com/lgbarn/termchess/internal/worker"
)

const programVersion = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches to a mode and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "convert":
			return runConvert(args[1:], stdout, stderr)
		case "replay":
			return runReplay(args[1:], stdin, stdout, stderr)
		case "diagram":
			return runDiagram(args[1:], stdout, stderr)
		case "version", "-version", "--version":
			fmt.Fprintf(stdout, "termchess version %s\n", programVersion)
			return 0
		}
	}
	return runPlay(args, stderr)
}

// parseFlags parses args and loads the configuration. It returns a
// non-negative exit status when the program should stop.
func parseFlags(fs *flag.FlagSet, o *options, args []string, stderr io.Writer) (*config.Config, int) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, 0
		}
		return nil, 2
	}
	cfg, err := loadConfig(fs, o)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return nil, 1
	}
	return cfg, -1
}

// runPlay starts an interactive game on the terminal.
func runPlay(args []string, stderr io.Writer) int {
	o := &options{}
	fs := newFlagSet("termchess", stderr, playUsage)
	o.defineCommon(fs)
	o.definePlay(fs)
	cfg, status := parseFlags(fs, o, args, stderr)
	if cfg == nil {
		return status
	}

	logCloser, err := cfg.OpenLog(true)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	var opts []shell.Option
	store, err := storage.Open(cfg.DataDir)
	if err != nil {
		cfg.Logger.Printf("storage: %v", err)
		fmt.Fprintf(stderr, "Warning: saved games unavailable: %v\n", err)
	} else {
		defer store.Close()
		opts = append(opts, shell.WithStore(store))
	}

	openings, err := loadECOClassifier(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if openings != nil {
		opts = append(opts, shell.WithOpenings(openings))
	}

	if cfg.Engine.Enabled() {
		eng, err := startEngine(cfg)
		if err != nil {
			cfg.Logger.Printf("engine: %v", err)
			fmt.Fprintf(stderr, "Warning: %v; playing without an engine\n", err)
		} else {
			defer eng.Close()
			opts = append(opts, shell.WithEngine(eng))
		}
	}

	session, err := shell.NewSession(cfg, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(stderr, "Error opening terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(stderr, "Error opening terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	shell.NewTerminal(screen, session).Run()
	return 0
}

// loadECOClassifier loads the ECO classification file if one is configured.
func loadECOClassifier(cfg *config.Config) (*eco.Classifier, error) {
	if cfg.ECOFile == "" {
		return nil, nil
	}

	classifier := eco.NewClassifier()
	if err := classifier.LoadFromFile(cfg.ECOFile); err != nil {
		return nil, fmt.Errorf("loading ECO file %s: %w", cfg.ECOFile, err)
	}
	cfg.Logger.Printf("loaded %d ECO entries (%d skipped)", classifier.EntriesLoaded(), classifier.Skipped())
	return classifier, nil
}

// startEngine launches the configured engine and applies its options.
func startEngine(cfg *config.Config) (*uci.Engine, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Engine.Timeout)
	defer cancel()

	eng, err := uci.Start(ctx, cfg.Engine.Path, uci.WithLogger(cfg.Logger), uci.WithDepth(cfg.Engine.Depth))
	if err != nil {
		return nil, err
	}
	if cfg.Engine.SkillLevel >= 0 {
		if err := eng.SetSkillLevel(ctx, cfg.Engine.SkillLevel); err != nil {
			eng.Close()
			return nil, err
		}
	}
	if err := eng.NewGame(ctx); err != nil {
		eng.Close()
		return nil, err
	}
	cfg.Logger.Printf("engine %q ready", eng.Name())
	return eng, nil
}

// runConvert turns FEN log files into PGN or JSON files.
func runConvert(args []string, stdout, stderr io.Writer) int {
	o := &options{}
	fs := newFlagSet("termchess convert", stderr, convertUsage)
	o.defineCommon(fs)
	o.defineConvert(fs)
	cfg, status := parseFlags(fs, o, args, stderr)
	if cfg == nil {
		return status
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(stderr, "Error: no input files")
		return 2
	}

	logCloser, err := cfg.OpenLog(false)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logCloser.Close()

	openings, err := loadECOClassifier(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	selectors, err := buildSelectors(cfg.Filter)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results := worker.ProcessAll(ctx, paths, workerCount(*o.workers), worker.ConvertFENLog())
	if cfg.Duplicate.Suppress {
		dupes := hashing.NewSharedDetector(cfg.Duplicate.ExactMatch, cfg.Duplicate.MaxCapacity)
		worker.MarkDuplicates(results, dupes)
		if s := dupes.Stats(); s.Full {
			cfg.Logger.Printf("dedupe: capacity of %d reached, later games were not remembered", s.Unique)
		}
	}

	stats := convertStats{
		dedupe:    cfg.Duplicate.Suppress,
		filtering: cfg.Filter.Active(),
		total:     len(paths),
	}
	for _, result := range results {
		switch {
		case result.Error != nil:
			cfg.Logger.Printf("convert: %v", result.Error)
			fmt.Fprintf(stderr, "Error: %v\n", result.Error)
			stats.failed++
		case result.Duplicate:
			if cfg.Verbosity > 1 {
				fmt.Fprintf(stderr, "%s: duplicate, skipped\n", result.Path)
			}
			stats.duplicates++
		case !keepConverted(result, cfg, openings, selectors):
			if cfg.Verbosity > 1 {
				fmt.Fprintf(stderr, "%s: filtered out\n", result.Path)
			}
			stats.filtered++
		default:
			out, err := writeConverted(result, cfg, *o.outputDir)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				stats.failed++
				continue
			}
			if cfg.Verbosity > 1 {
				fmt.Fprintf(stdout, "%s -> %s\n", result.Path, out)
			}
			stats.written++
		}
	}

	if cfg.Verbosity > 0 {
		stats.report(stderr)
	}
	if stats.failed > 0 {
		return 1
	}
	return 0
}

// workerCount resolves the -workers flag.
func workerCount(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// buildSelectors compiles the selection criteria and the CQL query.
func buildSelectors(f *config.FilterConfig) ([]matching.GameMatcher, error) {
	gf, err := buildGameFilter(f)
	if err != nil {
		return nil, err
	}
	selectors := []matching.GameMatcher{gf}
	if f.CQL != "" {
		query, err := cql.Compile(f.CQL)
		if err != nil {
			return nil, fmt.Errorf("cql: %w", err)
		}
		selectors = append(selectors, query)
	}
	return selectors, nil
}

// buildGameFilter compiles the tag, position, material and move criteria.
func buildGameFilter(f *config.FilterConfig) (*matching.GameFilter, error) {
	gf := matching.NewGameFilter()
	if f.CriteriaFile != "" {
		if err := gf.LoadFile(f.CriteriaFile); err != nil {
			return nil, err
		}
	}
	for _, criterion := range f.TagCriteria {
		if err := gf.TagMatcher.ParseCriterion(criterion); err != nil {
			return nil, err
		}
	}
	for _, position := range f.Positions {
		if err := gf.PositionMatcher.Add(position, ""); err != nil {
			return nil, fmt.Errorf("position %q: %w", position, err)
		}
	}
	for _, moves := range f.Moves {
		gf.VariationMatcher.AddMovetext(moves)
	}
	if f.Material != "" {
		if err := gf.AddMaterial(f.Material, f.MaterialExact); err != nil {
			return nil, err
		}
	}
	return gf, nil
}

// keepConverted tags a converted game and reports whether it passes the
// configured filters.
func keepConverted(result worker.Result, cfg *config.Config, openings *eco.Classifier, selectors []matching.GameMatcher) bool {
	game := result.Game
	game.SetTag(chess.EventTag, convertedName(result.Path))
	game.SetTag(chess.WhiteTag, cfg.Play.White)
	game.SetTag(chess.BlackTag, cfg.Play.Black)
	if openings != nil {
		openings.AddTags(game)
	}
	if !cfg.Filter.Active() {
		return true
	}
	return processing.Matches(game, result.Analysis, cfg.Filter, selectors...)
}

// convertedName is the input file name without its extension.
func convertedName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// writeConverted writes one converted game next to its input, or into dir.
func writeConverted(result worker.Result, cfg *config.Config, dir string) (string, error) {
	if dir == "" {
		dir = filepath.Dir(result.Path)
	}
	out := filepath.Join(dir, convertedName(result.Path)+cfg.Output.Format.Extension())

	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	w := output.NewGameWriter(f, cfg.Output)
	if err := w.WriteGame(result.Game); err != nil {
		f.Close()
		return "", fmt.Errorf("%s: %w", out, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("%s: %w", out, err)
	}
	return out, f.Close()
}

// convertStats counts the outcome of a conversion run.
type convertStats struct {
	dedupe     bool
	filtering  bool
	written    int
	duplicates int
	filtered   int
	failed     int
	total      int
}

// report prints the conversion summary. Counts for disabled stages are
// left out.
func (s convertStats) report(w io.Writer) {
	fmt.Fprintf(w, "%d game(s) written", s.written)
	if s.dedupe {
		fmt.Fprintf(w, ", %d duplicate(s)", s.duplicates)
	}
	if s.filtering {
		fmt.Fprintf(w, ", %d filtered", s.filtered)
	}
	fmt.Fprintf(w, ", %d failed out of %d.\n", s.failed, s.total)
}

// runReplay prints the FEN after every move of a movetext, one per line.
// The movetext comes from the arguments or stdin; input starting with a
// tag pair is read as PGN.
func runReplay(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o := &options{}
	fs := newFlagSet("termchess replay", stderr, replayUsage)
	o.defineCommon(fs)
	o.defineReplay(fs)
	cfg, status := parseFlags(fs, o, args, stderr)
	if cfg == nil {
		return status
	}

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading input: %v\n", err)
			return 1
		}
		text = string(data)
	}

	fens, err := replayFENs(cfg.Play.StartFEN, text)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	for _, fen := range fens {
		fmt.Fprintln(stdout, fen)
	}
	return 0
}

// replayFENs returns the FEN log of text, which is either bare movetext
// or one or more PGN games.
func replayFENs(start, text string) ([]string, error) {
	if start == "" {
		start = engine.InitialFEN
	}
	if !strings.HasPrefix(strings.TrimSpace(text), "[") {
		return notation.MovetextToFENs(start, text)
	}

	records, err := parser.NewParser(strings.NewReader(text)).ParseAllGames()
	if err != nil {
		return nil, err
	}
	var fens []string
	for _, rec := range records {
		game, err := notation.RecordToGame(rec)
		if err != nil {
			return nil, err
		}
		fens = append(fens, game.StartFEN)
		for _, m := range game.Moves {
			fens = append(fens, m.FEN)
		}
	}
	return fens, nil
}

// runDiagram draws a position as SVG or PNG.
func runDiagram(args []string, stdout, stderr io.Writer) int {
	o := &options{}
	fs := newFlagSet("termchess diagram", stderr, diagramUsage)
	o.defineCommon(fs)
	o.defineDiagram(fs)
	cfg, status := parseFlags(fs, o, args, stderr)
	if cfg == nil {
		return status
	}

	fen := cfg.Play.StartFEN
	if fen == "" {
		fen = engine.InitialFEN
	}
	pos, err := engine.Decode(fen)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := diagram.DefaultOptions()
	opts.SquareSize = *o.squareSize
	opts.Flipped = *o.flip
	opts.Coordinates = !*o.noCoords
	if *o.highlight != "" {
		from, ok := chess.ParseSquare(*o.highlight)
		if !ok {
			fmt.Fprintf(stderr, "Error: bad square %q\n", *o.highlight)
			return 2
		}
		opts.Highlight = append([]chess.Square{from}, engine.LegalTargets(pos, from)...)
	}

	w := stdout
	if *o.outputFile != "" {
		f, err := os.Create(*o.outputFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating output file %s: %v\n", *o.outputFile, err)
			return 1
		}
		defer f.Close()
		w = f
	}

	if strings.EqualFold(filepath.Ext(*o.outputFile), ".png") {
		err = diagram.WritePNG(w, pos, opts)
	} else {
		err = diagram.WriteSVG(w, pos, opts)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func playUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: termchess [options]\n")
	fmt.Fprintf(w, "       termchess convert [options] fen-logs...\n")
	fmt.Fprintf(w, "       termchess replay [options] [movetext]\n")
	fmt.Fprintf(w, "       termchess diagram [options]\n\n")
	fmt.Fprintf(w, "Play chess in the terminal against a UCI engine.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
}

func convertUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: termchess convert [options] fen-logs...\n\n")
	fmt.Fprintf(w, "Convert FEN logs (one position per line) to PGN or JSON.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
}

func replayUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: termchess replay [options] [movetext]\n\n")
	fmt.Fprintf(w, "Print the FEN after every move of a game, reading stdin when no movetext is given.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
}

func diagramUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: termchess diagram [options]\n\n")
	fmt.Fprintf(w, "Draw a position as SVG or PNG.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
}
