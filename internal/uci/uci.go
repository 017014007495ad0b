// Package uci drives an external chess engine over the Universal Chess
// Interface text protocol.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/lgbarn/termchess/internal/errors"
)

// Skill level bounds accepted by SetSkillLevel.
const (
	MinSkillLevel = 0
	MaxSkillLevel = 20
)

// DefaultDepth is the search depth used when a request names none.
const DefaultDepth = 10

// Evaluation holds the result of an engine analysis.
type Evaluation struct {
	Score    int    // Centipawns from the side to move's perspective
	IsMate   bool   // True if Score represents mate distance
	MateIn   int    // Moves to mate (positive = side to move mates)
	Depth    int    // Search depth reached
	BestMove string // Best move in coordinate notation
}

// Engine is a client for one running UCI engine. Requests are serialised;
// an Engine is safe for use by one caller at a time from any goroutine.
type Engine struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.Writer
	closer io.Closer
	lines  chan string
	done   chan struct{}
	quit   chan struct{}
	name   string
	depth  int
	logger *log.Logger

	// searching is set when a search was abandoned before its bestmove
	// line arrived; the next request drains it first.
	searching bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger logs every line sent to and received from the engine.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDepth sets the search depth used when a request passes depth <= 0.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		if depth >= 1 {
			e.depth = depth
		}
	}
}

// NewEngine creates a client that writes commands to w and reads replies
// from r. The handshake is not performed; call Init before searching.
func NewEngine(w io.Writer, r io.Reader, opts ...Option) *Engine {
	e := &Engine{
		stdin:  w,
		lines:  make(chan string, 64),
		done:   make(chan struct{}),
		quit:   make(chan struct{}),
		depth:  DefaultDepth,
		logger: log.New(io.Discard, "", 0),
	}
	if c, ok := w.(io.Closer); ok {
		e.closer = c
	}
	for _, opt := range opts {
		opt(e)
	}
	go e.readLoop(r)
	return e
}

// Start launches the engine binary at path and performs the handshake.
func Start(ctx context.Context, path string, opts ...Option) (*Engine, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, errors.ErrEngineUnavailable)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, errors.ErrEngineUnavailable)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, errors.ErrEngineUnavailable)
	}

	e := NewEngine(stdin, stdout, opts...)
	e.cmd = cmd
	if err := e.Init(ctx); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// readLoop forwards engine output line by line until the reader fails.
func (e *Engine) readLoop(r io.Reader) {
	defer close(e.done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case e.lines <- line:
		case <-e.quit:
			return
		}
	}
}

// Init performs the uci/uciok and isready/readyok handshake and records the
// engine's name.
func (e *Engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.send("uci"); err != nil {
		return err
	}
	for {
		line, err := e.readLine(ctx)
		if err != nil {
			return err
		}
		if name, ok := strings.CutPrefix(line, "id name "); ok {
			e.name = name
		}
		if line == "uciok" {
			break
		}
	}
	return e.waitReady(ctx)
}

// Name returns the name the engine reported during the handshake.
func (e *Engine) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// SetSkillLevel sets the engine's Skill Level option.
func (e *Engine) SetSkillLevel(ctx context.Context, level int) error {
	if level < MinSkillLevel || level > MaxSkillLevel {
		return fmt.Errorf("skill level %d outside %d-%d: %w", level, MinSkillLevel, MaxSkillLevel, errors.ErrInvalidConfig)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.send(fmt.Sprintf("setoption name Skill Level value %d", level)); err != nil {
		return err
	}
	return e.waitReady(ctx)
}

// NewGame tells the engine a new game is starting.
func (e *Engine) NewGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.send("ucinewgame"); err != nil {
		return err
	}
	return e.waitReady(ctx)
}

// BestMove asks for the best move in the position given by fen, searching
// to depth plies. The returned token is exactly what the engine sent and
// has not been validated.
func (e *Engine) BestMove(ctx context.Context, fen string, depth int) (string, error) {
	eval, err := e.Evaluate(ctx, fen, depth)
	if err != nil {
		return "", err
	}
	return eval.BestMove, nil
}

// Evaluate searches the position given by fen and returns the last score
// reported along with the best move.
func (e *Engine) Evaluate(ctx context.Context, fen string, depth int) (*Evaluation, error) {
	if depth <= 0 {
		depth = e.depth
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.drainSearch(ctx); err != nil {
		return nil, err
	}
	if err := e.send("position fen " + fen); err != nil {
		return nil, err
	}
	if err := e.send(fmt.Sprintf("go depth %d", depth)); err != nil {
		return nil, err
	}
	e.searching = true

	eval := &Evaluation{}
	for {
		line, err := e.readLine(ctx)
		if err != nil {
			if ctx.Err() != nil {
				if serr := e.send("stop"); serr != nil {
					e.logger.Printf("uci: stopping abandoned search: %v", serr)
				}
			}
			return nil, err
		}
		switch {
		case strings.HasPrefix(line, "info"):
			e.parseInfo(line, eval)
		case strings.HasPrefix(line, "bestmove"):
			e.searching = false
			fields := strings.Fields(line)
			if len(fields) < 2 || fields[1] == "(none)" || fields[1] == "0000" {
				return nil, fmt.Errorf("no move in %q: %w", line, errors.ErrEngineProtocol)
			}
			eval.BestMove = fields[1]
			return eval, nil
		}
	}
}

// drainSearch discards the output of an abandoned search.
func (e *Engine) drainSearch(ctx context.Context) error {
	for e.searching {
		line, err := e.readLine(ctx)
		if err != nil {
			return err
		}
		if strings.HasPrefix(line, "bestmove") {
			e.searching = false
		}
	}
	return nil
}

// parseInfo parses a UCI info line and updates the evaluation.
func (e *Engine) parseInfo(line string, eval *Evaluation) {
	parts := strings.Fields(line)
	for i := 0; i < len(parts); i++ {
		switch parts[i] {
		case "depth":
			if i+1 < len(parts) {
				if d, err := strconv.Atoi(parts[i+1]); err == nil {
					eval.Depth = d
				}
				i++
			}
		case "score":
			if i+2 < len(parts) {
				n, err := strconv.Atoi(parts[i+2])
				if err != nil {
					continue
				}
				switch parts[i+1] {
				case "cp":
					eval.Score = n
					eval.IsMate = false
				case "mate":
					eval.MateIn = n
					eval.IsMate = true
				}
				i += 2
			}
		case "pv":
			// The principal variation runs to the end of the line.
			return
		}
	}
}

// waitReady sends isready and waits for readyok.
func (e *Engine) waitReady(ctx context.Context) error {
	if err := e.send("isready"); err != nil {
		return err
	}
	for {
		line, err := e.readLine(ctx)
		if err != nil {
			return err
		}
		if line == "readyok" {
			return nil
		}
	}
}

// send writes one command line to the engine.
func (e *Engine) send(command string) error {
	e.logger.Printf("uci > %s", command)
	if _, err := io.WriteString(e.stdin, command+"\n"); err != nil {
		return fmt.Errorf("write %q: %v: %w", command, err, errors.ErrEngineUnavailable)
	}
	return nil
}

// readLine returns the next line from the engine.
func (e *Engine) readLine(ctx context.Context) (string, error) {
	select {
	case line := <-e.lines:
		e.logger.Printf("uci < %s", line)
		return line, nil
	case <-e.done:
		// Lines queued before the reader stopped are still valid.
		select {
		case line := <-e.lines:
			e.logger.Printf("uci < %s", line)
			return line, nil
		default:
		}
		return "", fmt.Errorf("engine closed its output: %w", errors.ErrEngineUnavailable)
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for engine: %w", ctx.Err())
	}
}

// Close sends quit and releases the engine process.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	select {
	case <-e.quit:
		return nil
	default:
	}
	if err := e.send("quit"); err != nil {
		e.logger.Printf("uci: %v", err)
	}
	close(e.quit)
	if e.closer != nil {
		if err := e.closer.Close(); err != nil {
			e.logger.Printf("uci: closing engine input: %v", err)
		}
	}
	if e.cmd != nil {
		if err := e.cmd.Wait(); err != nil {
			return fmt.Errorf("engine exit: %w", err)
		}
	}
	return nil
}

// FormatEvaluation formats an evaluation as a human-readable string.
func FormatEvaluation(eval *Evaluation) string {
	if eval.IsMate {
		if eval.MateIn > 0 {
			return fmt.Sprintf("+M%d", eval.MateIn)
		}
		return fmt.Sprintf("-M%d", -eval.MateIn)
	}
	pawns := float64(eval.Score) / 100.0
	if pawns >= 0 {
		return fmt.Sprintf("+%.2f", pawns)
	}
	return fmt.Sprintf("%.2f", pawns)
}
