// Package output writes recorded games as PGN or JSON.
package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/engine"
)

// OutputWriter handles formatted output with line length control.
type OutputWriter struct {
	w             io.Writer
	lineLength    int
	maxLineLength int
	needsSpace    bool
	err           error
}

// NewOutputWriter creates a new output writer.
func NewOutputWriter(w io.Writer, maxLineLength int) *OutputWriter {
	if maxLineLength <= 0 {
		maxLineLength = 80
	}
	return &OutputWriter{
		w:             w,
		maxLineLength: maxLineLength,
	}
}

// Write writes a string, adding a space separator if needed.
func (o *OutputWriter) Write(s string) {
	if o.needsSpace && len(s) > 0 {
		if o.lineLength+1+len(s) > o.maxLineLength {
			o.print("\n")
			o.lineLength = 0
			o.needsSpace = false
		} else {
			o.print(" ")
			o.lineLength++
		}
	}

	o.print(s)
	o.lineLength += len(s)
	o.needsSpace = true
}

// NewLine starts a new line.
func (o *OutputWriter) NewLine() {
	o.print("\n")
	o.lineLength = 0
	o.needsSpace = false
}

// Err returns the first write error.
func (o *OutputWriter) Err() error {
	return o.err
}

func (o *OutputWriter) print(s string) {
	if o.err != nil {
		return
	}
	_, o.err = io.WriteString(o.w, s)
}

// OutputGame writes a game in PGN: tags, a blank line, wrapped movetext
// ending with the result, and a blank line.
func OutputGame(w io.Writer, game *chess.Game, cfg *config.OutputConfig) error {
	if err := outputTags(w, game, cfg); err != nil {
		return err
	}
	if cfg.TagFormat != config.NoTags {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	if err := outputMoves(w, game, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// outputTags writes the seven tag roster, SetUp and FEN for non-standard
// starts, then any other tags in name order.
func outputTags(w io.Writer, game *chess.Game, cfg *config.OutputConfig) error {
	if cfg.TagFormat == config.NoTags {
		return nil
	}

	for _, tag := range chess.SevenTagRoster {
		value := game.GetTag(tag)
		if tag == chess.ResultTag {
			value = gameResult(game)
		}
		if value == "" {
			value = "?"
		}
		if _, err := fmt.Fprintf(w, "[%s \"%s\"]\n", tag, escapeTagValue(value)); err != nil {
			return err
		}
	}

	start := startFEN(game)
	if start != engine.InitialFEN {
		if _, err := fmt.Fprintf(w, "[%s \"1\"]\n[%s \"%s\"]\n", chess.SetupTag, chess.FENTag, start); err != nil {
			return err
		}
	}

	if cfg.TagFormat == config.SevenTagRoster {
		return nil
	}
	names := maps.Keys(game.Tags)
	slices.Sort(names)
	for _, tag := range names {
		if chess.IsSevenTagRosterTag(tag) || tag == chess.SetupTag || tag == chess.FENTag {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s \"%s\"]\n", tag, escapeTagValue(game.Tags[tag])); err != nil {
			return err
		}
	}
	return nil
}

// escapeTagValue escapes special characters in tag values.
func escapeTagValue(s string) string {
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// outputMoves writes the movetext.
func outputMoves(w io.Writer, game *chess.Game, cfg *config.OutputConfig) error {
	ow := NewOutputWriter(w, int(cfg.MaxLineLength))

	for i, move := range game.Moves {
		if cfg.KeepMoveNumbers {
			if move.Colour == chess.White {
				ow.Write(fmt.Sprintf("%d.", move.Number))
			} else if i == 0 {
				ow.Write(fmt.Sprintf("%d...", move.Number))
			}
		}

		san := move.SAN
		if !cfg.KeepChecks {
			san = strings.TrimRight(san, "+#")
		}
		ow.Write(san)

		if cfg.AddFENComments && move.FEN != "" {
			ow.Write("{" + move.FEN + "}")
		}
	}

	if cfg.KeepResults {
		ow.Write(gameResult(game))
	}
	ow.NewLine()
	return ow.Err()
}

// gameResult returns the Result tag, or "*" when there is none.
func gameResult(game *chess.Game) string {
	if result := game.Result(); result != "" {
		return result
	}
	return chess.InProgress
}

// startFEN returns the game's starting position in FEN.
func startFEN(game *chess.Game) string {
	if game.StartFEN != "" {
		return game.StartFEN
	}
	if fen := game.FEN(); fen != "" {
		return fen
	}
	return engine.InitialFEN
}
