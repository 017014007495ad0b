package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lgbarn/termchess/internal/config"
	"github.com/lgbarn/termchess/internal/storage"
	"github.com/lgbarn/termchess/internal/uci"
)

// fakeEngine answers searches from a script. The last move repeats once
// the script runs out.
type fakeEngine struct {
	moves []string
	err   error
	score int
	fens  []string
}

func (f *fakeEngine) Evaluate(ctx context.Context, fen string, depth int) (*uci.Evaluation, error) {
	f.fens = append(f.fens, fen)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.moves) == 0 {
		return nil, errors.New("no move scripted")
	}
	move := f.moves[0]
	if len(f.moves) > 1 {
		f.moves = f.moves[1:]
	}
	return &uci.Evaluation{BestMove: move, Score: f.score, Depth: depth}, nil
}

func (f *fakeEngine) Name() string {
	return "Fakefish 1.0"
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.NewBuilder().
		Engine("stockfish", config.DefaultDepth, -1, time.Second).
		DataDir(t.TempDir()).
		Build()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config, opts ...Option) *Session {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	s, err := NewSession(cfg, opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func memoryStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// run executes lines in order and returns the last response.
func run(t *testing.T, s *Session, lines ...string) Response {
	t.Helper()
	var resp Response
	for _, line := range lines {
		resp = s.Execute(line)
	}
	return resp
}
