package notation

import (
	"fmt"
	"io"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/parser"
)

// FENLogToGame rebuilds a game from a FEN log, one position per
// half-move starting with the initial one. Blank lines are skipped.
// The Result tag is set from the final position.
func FENLogToGame(fens []string) (*chess.Game, error) {
	var log []string
	for _, fen := range fens {
		if fen = strings.TrimSpace(fen); fen != "" {
			log = append(log, fen)
		}
	}
	if len(log) == 0 {
		return nil, fmt.Errorf("empty FEN log: %w", errors.ErrCorruptHistory)
	}

	start, err := engine.Decode(log[0])
	if err != nil {
		return nil, &errors.MoveError{Err: err, FEN: log[0]}
	}

	game := chess.NewGame()
	game.StartFEN = engine.Encode(start)
	game.FinalFEN = game.StartFEN
	if game.StartFEN != engine.InitialFEN {
		game.SetTag(chess.SetupTag, "1")
		game.SetTag(chess.FENTag, game.StartFEN)
	}

	for i := 1; i < len(log); i++ {
		derived, err := DiffMove(log[i-1], log[i])
		if err != nil {
			return nil, &errors.MoveError{Err: err, Ply: i, FEN: log[i-1]}
		}
		game.AppendMove(chess.GameMove{
			Move:   derived.Move,
			SAN:    derived.SAN,
			Class:  derived.Record.Class,
			Colour: derived.Colour,
			Number: derived.Number,
			FEN:    log[i],
		})
	}

	final, err := engine.Decode(game.FinalFEN)
	if err != nil {
		return nil, err
	}
	game.SetTag(chess.ResultTag, engine.Result(final))
	return game, nil
}

// ReadFENLog reads a FEN log with one position per line.
func ReadFENLog(r io.Reader) (*chess.Game, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return FENLogToGame(strings.Split(string(data), "\n"))
}

// TokenizeMovetext returns the main-line moves of PGN movetext, dropping
// move numbers, comments, variations, annotations and the result.
func TokenizeMovetext(text string) ([]string, error) {
	rec, err := parser.NewParser(strings.NewReader(text)).ParseGame()
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return rec.Moves, nil
}

// MovetextToFENs replays SAN movetext from the position start and returns
// the FEN after every move, preceded by start itself.
func MovetextToFENs(start, text string) ([]string, error) {
	moves, err := TokenizeMovetext(text)
	if err != nil {
		return nil, err
	}
	game, err := Replay(start, moves)
	if err != nil {
		return nil, err
	}
	fens := []string{game.StartFEN}
	for _, m := range game.Moves {
		fens = append(fens, m.FEN)
	}
	return fens, nil
}

// Replay plays SAN moves from start and records them as a game.
func Replay(start string, moves []string) (*chess.Game, error) {
	pos, err := engine.Decode(start)
	if err != nil {
		return nil, err
	}

	game := chess.NewGame()
	game.StartFEN = engine.Encode(pos)
	game.FinalFEN = game.StartFEN
	if game.StartFEN != engine.InitialFEN {
		game.SetTag(chess.SetupTag, "1")
		game.SetTag(chess.FENTag, game.StartFEN)
	}

	for i, text := range moves {
		move, err := ParseSAN(pos, text)
		if err != nil {
			return nil, &errors.MoveError{Err: err, Ply: i + 1, MoveText: text, FEN: engine.Encode(pos)}
		}
		san := SAN(pos, move)
		colour, number := pos.ToMove, pos.FullmoveNumber
		record, err := engine.MakeMove(pos, move)
		if err != nil {
			return nil, err
		}
		game.AppendMove(chess.GameMove{
			Move:   move,
			SAN:    san,
			Class:  record.Class,
			Colour: colour,
			Number: number,
			FEN:    engine.Encode(pos),
		})
	}
	game.SetTag(chess.ResultTag, engine.Result(pos))
	return game, nil
}

// RecordToGame replays a parsed PGN record, starting from its FEN tag when
// present. The record's tags are copied onto the game; a result written in
// the movetext wins over the one derived from the final position.
func RecordToGame(rec *parser.Record) (*chess.Game, error) {
	start := engine.InitialFEN
	if fen, ok := rec.Tags[chess.FENTag]; ok {
		start = fen
	}
	game, err := Replay(start, rec.Moves)
	if err != nil {
		return nil, err
	}
	for name, value := range rec.Tags {
		game.SetTag(name, value)
	}
	if rec.Result != "" {
		game.SetTag(chess.ResultTag, rec.Result)
	}
	return game, nil
}
