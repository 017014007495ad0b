// Package shell runs an interactive game: a line-oriented command
// interpreter and a terminal front end on top of it.
package shell

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/eco"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/history"
	"github.com/lgbarn/termchess/internal/storage"
	"github.com/lgbarn/termchess/internal/uci"
)

// Engine suggests moves for a position.
type Engine interface {
	Evaluate(ctx context.Context, fen string, depth int) (*uci.Evaluation, error)
	Name() string
}

// GameStore keeps named games.
type GameStore interface {
	Save(game storage.SavedGame) error
	Load(name string) (*storage.SavedGame, error)
	List() ([]storage.SavedGame, error)
}

// Openings names the opening a game followed.
type Openings interface {
	ClassifyFENs(fens []string) *eco.Entry
	AddTags(game *chess.Game) bool
}

// Response is what one command produced.
type Response struct {
	// Message is free text for the user, possibly several lines.
	Message string

	// Status is the banner for the position after the command.
	Status string

	// Highlight lists squares to mark on the board.
	Highlight []chess.Square

	// Quit is set when the session should end.
	Quit bool
}

// Session holds one game and interprets commands against it.
type Session struct {
	cfg      *config.Config
	logger   *log.Logger
	engine   Engine
	store    GameStore
	openings Openings

	log      *history.Log
	pos      *chess.Position
	lastMove *chess.Move
}

// Option configures a Session.
type Option func(*Session)

// WithEngine attaches a move-suggestion engine. It plays the side the
// human does not.
func WithEngine(e Engine) Option {
	return func(s *Session) {
		s.engine = e
	}
}

// WithStore attaches saved-game storage.
func WithStore(store GameStore) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithOpenings attaches an ECO table for the opening command and exported
// games.
func WithOpenings(o Openings) Option {
	return func(s *Session) {
		s.openings = o
	}
}

// NewSession starts a game from cfg.Play.StartFEN, or the standard
// position when it is empty.
func NewSession(cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{cfg: cfg, logger: cfg.Logger}
	for _, opt := range opts {
		opt(s)
	}

	start := cfg.Play.StartFEN
	if start == "" {
		start = engine.InitialFEN
	}
	if err := s.reset(start); err != nil {
		return nil, err
	}
	return s, nil
}

// reset starts a fresh history from fen.
func (s *Session) reset(fen string) error {
	pos, err := engine.Decode(fen)
	if err != nil {
		return err
	}
	s.pos = pos
	s.log = history.New(engine.Encode(pos))
	s.lastMove = nil
	s.dumpDebug()
	return nil
}

// Position returns a copy of the current position.
func (s *Session) Position() *chess.Position {
	return s.pos.Copy()
}

// FEN returns the current position in FEN.
func (s *Session) FEN() string {
	return s.log.Current()
}

// History returns the FEN log of the game.
func (s *Session) History() []string {
	return s.log.Entries()
}

// LastMove returns the most recent move, if any.
func (s *Session) LastMove() (chess.Move, bool) {
	if s.lastMove == nil {
		return chess.Move{}, false
	}
	return *s.lastMove, true
}

// HumanColour returns the side typed moves play for.
func (s *Session) HumanColour() chess.Colour {
	return s.cfg.Play.HumanColour
}

// EngineName returns the attached engine's name, or "".
func (s *Session) EngineName() string {
	if s.engine == nil {
		return ""
	}
	return s.engine.Name()
}

// engineToMove reports whether the attached engine owes the next move.
func (s *Session) engineToMove() bool {
	return s.engine != nil && s.pos.ToMove != s.cfg.Play.HumanColour && !engine.Status(s.pos).IsOver()
}

// Execute interprets one input line.
func (s *Session) Execute(line string) Response {
	fields := strings.Fields(line)
	var resp Response
	if len(fields) == 0 {
		if s.engineToMove() {
			resp.Message = s.engineReply()
		}
		return s.finish(resp)
	}

	cmd, args := strings.ToLower(fields[0]), fields[1:]
	if handler, ok := commands[cmd]; ok {
		resp = handler(s, args)
	} else {
		resp = s.move(fields)
	}
	return s.finish(resp)
}

// finish fills in the status banner.
func (s *Session) finish(resp Response) Response {
	if resp.Status == "" {
		resp.Status = s.Status()
	}
	return resp
}

// play applies move to the game and records it.
func (s *Session) play(move chess.Move) (chess.MoveRecord, string, error) {
	san := sanOf(s.pos, move)
	record, err := engine.MakeMove(s.pos, move)
	if err != nil {
		return record, "", err
	}
	s.log.Append(engine.Encode(s.pos))
	s.lastMove = &move
	s.dumpDebug()
	return record, san, nil
}

// dumpDebug writes the current FEN to the debug file in debug mode.
func (s *Session) dumpDebug() {
	if !s.cfg.Debug || s.cfg.DebugFile == "" {
		return
	}
	if err := os.WriteFile(s.cfg.DebugFile, []byte(s.log.Current()+"\n"), 0o644); err != nil {
		s.logger.Printf("debug dump: %v", err)
	}
}

// Status describes the current position for the banner line.
func (s *Session) Status() string {
	side := strings.ToUpper(s.pos.ToMove.String())
	switch engine.Status(s.pos) {
	case engine.Checkmate:
		winner := strings.ToUpper(s.pos.ToMove.Opposite().String())
		return fmt.Sprintf("CHECKMATE! %s WINS!", winner)
	case engine.Stalemate:
		return "STALEMATE! IT'S A DRAW!"
	case engine.FiftyMoveDraw:
		return "DRAW by the fifty-move rule"
	case engine.InsufficientMaterial:
		return "DRAW by insufficient material"
	}

	status := side + " to move"
	if s.pos.InCheck[s.pos.ToMove] {
		status = side + " is in check!"
	}
	if s.log.RepetitionCount() >= 3 {
		status += " (threefold repetition: a draw may be claimed)"
	}
	return status
}
