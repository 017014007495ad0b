package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/config"
)

// GameWriter writes games in one output format. Output is complete only
// after Close.
type GameWriter interface {
	WriteGame(game *chess.Game) error
	Close() error
}

// NewGameWriter returns the writer for cfg.Format.
func NewGameWriter(w io.Writer, cfg *config.OutputConfig) GameWriter {
	switch cfg.Format {
	case config.JSON:
		return NewJSONWriter(w)
	default:
		return NewPGNWriter(w, cfg)
	}
}

// PGNWriter writes games as PGN text through a buffer.
type PGNWriter struct {
	buf   *bufio.Writer
	cfg   *config.OutputConfig
	games int
}

// NewPGNWriter creates a PGN writer.
func NewPGNWriter(w io.Writer, cfg *config.OutputConfig) *PGNWriter {
	return &PGNWriter{buf: bufio.NewWriter(w), cfg: cfg}
}

// WriteGame appends one game.
func (pw *PGNWriter) WriteGame(game *chess.Game) error {
	if err := OutputGame(pw.buf, game, pw.cfg); err != nil {
		return err
	}
	pw.games++
	return nil
}

// Games returns how many games have been written.
func (pw *PGNWriter) Games() int {
	return pw.games
}

// Close flushes buffered text. The underlying writer is left open.
func (pw *PGNWriter) Close() error {
	return pw.buf.Flush()
}

// JSONWriter collects games and writes them as one {"games": [...]}
// document on Close.
type JSONWriter struct {
	w       io.Writer
	pending []*JSONGame
	closed  bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w, pending: []*JSONGame{}}
}

// WriteGame converts the game now and queues it for Close.
func (jw *JSONWriter) WriteGame(game *chess.Game) error {
	jw.pending = append(jw.pending, GameToJSON(game))
	return nil
}

// Close writes the document. Later calls do nothing.
func (jw *JSONWriter) Close() error {
	if jw.closed {
		return nil
	}
	jw.closed = true
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(&JSONOutput{Games: jw.pending})
}
