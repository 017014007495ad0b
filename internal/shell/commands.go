package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/diagram"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/history"
	"github.com/lgbarn/termchess/internal/notation"
	"github.com/lgbarn/termchess/internal/output"
	"github.com/lgbarn/termchess/internal/storage"
	"github.com/lgbarn/termchess/internal/uci"
)

type handler func(s *Session, args []string) Response

var commands = map[string]handler{
	"quit":    (*Session).cmdQuit,
	"exit":    (*Session).cmdQuit,
	"help":    (*Session).cmdHelp,
	"title":   (*Session).cmdTitle,
	"hint":    (*Session).cmdHint,
	"fen":     (*Session).cmdFEN,
	"setup":   (*Session).cmdSetup,
	"undo":    (*Session).cmdUndo,
	"save":    (*Session).cmdSave,
	"load":    (*Session).cmdLoad,
	"games":   (*Session).cmdGames,
	"pgn":     (*Session).cmdPGN,
	"diagram": (*Session).cmdDiagram,
	"new":     (*Session).cmdNew,
	"go":      (*Session).cmdGo,
	"opening": (*Session).cmdOpening,
}

const helpText = `Enter moves as: e2 e4, e2e4, e7e8q or in SAN (Nf3, O-O)
Type a square (e.g. e2) to see the moves of the piece on it
  hint            ask the engine for a suggestion
  fen             show the position in FEN
  setup <fen>     start from a position
  undo [n]        take back n move pairs (default 1)
  save <name>     save the game
  load <name>     load a saved game
  games           list saved games
  opening         name the opening played so far
  pgn [file]      show or write the game as PGN
  diagram <file>  draw the board as .svg or .png
  new             start a new game
  go              let the engine move now
  title           show the engine banner
  help            show this help
  quit            leave`

func (s *Session) cmdQuit(args []string) Response {
	return Response{Message: "Thanks for playing!", Quit: true}
}

func (s *Session) cmdHelp(args []string) Response {
	return Response{Message: helpText}
}

func (s *Session) cmdTitle(args []string) Response {
	var sb strings.Builder
	name := s.EngineName()
	if name == "" {
		sb.WriteString("=== termchess ===\n")
	} else {
		fmt.Fprintf(&sb, "=== Chess Game with %s ===\n", name)
	}
	fmt.Fprintf(&sb, "You play as %s", s.HumanColour())
	if s.engine != nil {
		fmt.Fprintf(&sb, ", the engine plays %s", s.HumanColour().Opposite())
	}
	if s.cfg.Debug {
		sb.WriteString("\n*** DEBUG MODE ENABLED ***")
	}
	return Response{Message: sb.String()}
}

func (s *Session) cmdHint(args []string) Response {
	if s.engine == nil {
		return Response{Message: "No engine attached."}
	}
	if engine.Status(s.pos).IsOver() {
		return Response{Message: "The game is over."}
	}

	eval, move, err := s.suggest()
	if err != nil {
		s.logger.Printf("hint: %v", err)
		return Response{Message: "Sorry, couldn't get a hint from the engine."}
	}
	return Response{
		Message:   fmt.Sprintf("Engine suggests: %s to %s (%s, %s)", move.From, move.To, sanOf(s.pos, move), uci.FormatEvaluation(eval)),
		Highlight: []chess.Square{move.From, move.To},
	}
}

func (s *Session) cmdFEN(args []string) Response {
	return Response{Message: "Current FEN: " + s.FEN()}
}

func (s *Session) cmdSetup(args []string) Response {
	if len(args) == 0 {
		return Response{Message: "Usage: setup <fen>"}
	}
	fen := strings.Join(args, " ")
	if err := s.reset(fen); err != nil {
		return Response{Message: fmt.Sprintf("Invalid FEN: %v", err)}
	}
	s.logger.Printf("setup %s", s.FEN())
	return Response{Message: "Position set up."}
}

func (s *Session) cmdUndo(args []string) Response {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return Response{Message: "Usage: undo [n]"}
		}
		n = v
	}
	if s.log.Plies() == 0 {
		return Response{Message: "No moves to undo!"}
	}

	// A human move the engine has not answered yet is half a pair.
	plies := 2 * n
	if s.engineToMove() {
		plies--
	}
	before := s.log.Plies()
	pos, err := s.log.UndoPlies(plies)
	if err != nil {
		return Response{Message: fmt.Sprintf("Undo failed: %v", err)}
	}
	s.pos = pos
	s.lastMove = nil
	s.dumpDebug()
	return Response{Message: fmt.Sprintf("Took back %d half-moves.", before-s.log.Plies())}
}

func (s *Session) cmdSave(args []string) Response {
	if s.store == nil {
		return Response{Message: "Saving is not available."}
	}
	if len(args) != 1 {
		return Response{Message: "Usage: save <name>"}
	}
	white, black := s.playerNames()
	err := s.store.Save(storage.SavedGame{
		Name:  args[0],
		FENs:  s.log.Entries(),
		White: white,
		Black: black,
	})
	if err != nil {
		s.logger.Printf("save %s: %v", args[0], err)
		return Response{Message: fmt.Sprintf("Save failed: %v", err)}
	}
	s.logger.Printf("saved %s (%d plies)", args[0], s.log.Plies())
	return Response{Message: fmt.Sprintf("Saved %q.", args[0])}
}

func (s *Session) cmdLoad(args []string) Response {
	if s.store == nil {
		return Response{Message: "Loading is not available."}
	}
	if len(args) != 1 {
		return Response{Message: "Usage: load <name>"}
	}
	saved, err := s.store.Load(args[0])
	if err != nil {
		if errors.Is(err, errors.ErrGameNotFound) {
			return Response{Message: fmt.Sprintf("No saved game %q.", args[0])}
		}
		return Response{Message: fmt.Sprintf("Load failed: %v", err)}
	}

	if err := s.restore(saved.FENs); err != nil {
		s.logger.Printf("load %s: %v", args[0], err)
		if rerr := s.reset(engine.InitialFEN); rerr != nil {
			return Response{Message: fmt.Sprintf("Load failed: %v", rerr)}
		}
		return Response{Message: fmt.Sprintf("Saved game %q is damaged (%v); starting a new game.", args[0], err)}
	}
	s.logger.Printf("loaded %s (%d plies)", args[0], s.log.Plies())
	return Response{Message: fmt.Sprintf("Loaded %q at move %d.", args[0], s.pos.FullmoveNumber)}
}

// restore replaces the game with a saved FEN log.
func (s *Session) restore(fens []string) error {
	log, err := history.FromEntries(fens)
	if err != nil {
		return err
	}
	pos, err := log.UndoPlies(0)
	if err != nil {
		return err
	}
	s.log = log
	s.pos = pos
	s.lastMove = nil
	if log.Plies() > 0 {
		entries := log.Entries()
		if derived, err := notation.DiffMove(entries[len(entries)-2], entries[len(entries)-1]); err == nil {
			s.lastMove = &derived.Move
		}
	}
	s.dumpDebug()
	return nil
}

func (s *Session) cmdGames(args []string) Response {
	if s.store == nil {
		return Response{Message: "Saved games are not available."}
	}
	games, err := s.store.List()
	if err != nil {
		return Response{Message: fmt.Sprintf("Listing failed: %v", err)}
	}
	if len(games) == 0 {
		return Response{Message: "No saved games."}
	}
	var sb strings.Builder
	for i, g := range games {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%-16s %3d plies  %s", g.Name, g.Plies(), g.SavedAt.Format("2006-01-02 15:04"))
	}
	return Response{Message: sb.String()}
}

func (s *Session) cmdPGN(args []string) Response {
	game, err := notation.FENLogToGame(s.log.Entries())
	if err != nil {
		return Response{Message: fmt.Sprintf("Cannot build PGN: %v", err)}
	}
	white, black := s.playerNames()
	game.SetTag(chess.WhiteTag, white)
	game.SetTag(chess.BlackTag, black)
	game.SetTag(chess.EventTag, "termchess game")
	if s.openings != nil {
		s.openings.AddTags(game)
	}

	var sb strings.Builder
	w := output.NewPGNWriter(&sb, s.cfg.Output)
	if err := w.WriteGame(game); err != nil {
		return Response{Message: fmt.Sprintf("Cannot build PGN: %v", err)}
	}
	if err := w.Close(); err != nil {
		return Response{Message: fmt.Sprintf("Cannot build PGN: %v", err)}
	}
	if len(args) == 0 {
		return Response{Message: strings.TrimRight(sb.String(), "\n")}
	}
	if err := os.WriteFile(args[0], []byte(sb.String()), 0o644); err != nil {
		return Response{Message: fmt.Sprintf("Cannot write %s: %v", args[0], err)}
	}
	return Response{Message: "PGN written to " + args[0]}
}

func (s *Session) cmdDiagram(args []string) Response {
	if len(args) != 1 {
		return Response{Message: "Usage: diagram <file.svg|file.png>"}
	}
	path := args[0]
	f, err := os.Create(path)
	if err != nil {
		return Response{Message: fmt.Sprintf("Cannot write %s: %v", path, err)}
	}
	defer f.Close()

	opts := diagram.DefaultOptions()
	opts.Flipped = s.HumanColour() == chess.Black
	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = diagram.WritePNG(f, s.pos, opts)
	} else {
		err = diagram.WriteSVG(f, s.pos, opts)
	}
	if err != nil {
		return Response{Message: fmt.Sprintf("Cannot draw %s: %v", path, err)}
	}
	return Response{Message: "Diagram written to " + path}
}

func (s *Session) cmdNew(args []string) Response {
	start := s.cfg.Play.StartFEN
	if start == "" {
		start = engine.InitialFEN
	}
	if err := s.reset(start); err != nil {
		return Response{Message: fmt.Sprintf("Cannot start: %v", err)}
	}
	resp := Response{Message: "New game."}
	if s.engineToMove() {
		resp.Message += "\n" + s.engineReply()
	}
	return resp
}

func (s *Session) cmdGo(args []string) Response {
	if s.engine == nil {
		return Response{Message: "No engine attached."}
	}
	if engine.Status(s.pos).IsOver() {
		return Response{Message: "The game is over."}
	}
	if !s.engineToMove() {
		return Response{Message: "It is your move."}
	}
	return Response{Message: s.engineReply()}
}

func (s *Session) cmdOpening(args []string) Response {
	if s.openings == nil {
		return Response{Message: "No opening table loaded."}
	}
	entry := s.openings.ClassifyFENs(s.log.Entries())
	if entry == nil {
		return Response{Message: "Opening unknown."}
	}
	return Response{Message: "Opening: " + entry.Name()}
}

// playerNames returns the White and Black names for exported games.
func (s *Session) playerNames() (string, string) {
	white, black := s.cfg.Play.White, s.cfg.Play.Black
	if s.engine != nil {
		name := s.engine.Name()
		if name == "" {
			name = "Engine"
		}
		if s.HumanColour() == chess.White {
			black = name
		} else {
			white = name
		}
	}
	return white, black
}

// suggest asks the engine for the best move and checks it is legal here.
func (s *Session) suggest() (*uci.Evaluation, chess.Move, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Engine.Timeout)
	defer cancel()

	eval, err := s.engine.Evaluate(ctx, s.FEN(), s.cfg.Engine.Depth)
	if err != nil {
		return nil, chess.Move{}, err
	}
	move, err := engine.ParseMoveToken(eval.BestMove)
	if err != nil {
		return eval, chess.Move{}, err
	}
	if !engine.IsLegal(s.pos, move) {
		return eval, move, fmt.Errorf("engine move %s: %w", move, errors.ErrIllegalMove)
	}
	return eval, move, nil
}

// engineReply lets the engine move. A failed or rejected suggestion
// leaves the turn with the engine.
func (s *Session) engineReply() string {
	eval, move, err := s.suggest()
	if err != nil {
		if eval != nil {
			s.logger.Printf("rejected engine move %q: %v", eval.BestMove, err)
			return fmt.Sprintf("Engine suggested invalid move %q; type 'go' to ask again.", eval.BestMove)
		}
		s.logger.Printf("engine: %v", err)
		return "Engine couldn't find a move; type 'go' to ask again."
	}
	_, san, err := s.play(move)
	if err != nil {
		s.logger.Printf("engine move %s: %v", move, err)
		return fmt.Sprintf("Engine suggested invalid move %q; type 'go' to ask again.", eval.BestMove)
	}
	s.logger.Printf("engine played %s", move)
	return fmt.Sprintf("Engine played: %s to %s (%s)", move.From, move.To, san)
}
