package uci

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
)

// fakeEngine is an in-memory UCI engine answering from a responder.
type fakeEngine struct {
	mu       sync.Mutex
	received []string
}

// commands returns the commands received so far.
func (f *fakeEngine) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

// startFake connects a client to a fake engine. respond returns the lines
// to send back for each command received.
func startFake(t *testing.T, respond func(cmd string) []string, opts ...Option) (*Engine, *fakeEngine) {
	t.Helper()
	cmdR, cmdW := io.Pipe()
	outR, outW := io.Pipe()
	fake := &fakeEngine{}

	go func() {
		defer outW.Close()
		scanner := bufio.NewScanner(cmdR)
		for scanner.Scan() {
			cmd := scanner.Text()
			fake.mu.Lock()
			fake.received = append(fake.received, cmd)
			fake.mu.Unlock()
			if cmd == "quit" {
				return
			}
			for _, line := range respond(cmd) {
				fmt.Fprintln(outW, line)
			}
		}
	}()

	e := NewEngine(cmdW, outR, opts...)
	t.Cleanup(func() { e.Close() })
	return e, fake
}

// scripted answers like a typical engine, replying to go with info lines
// and then bestmove best.
func scripted(best string, info ...string) func(string) []string {
	return func(cmd string) []string {
		switch {
		case cmd == "uci":
			return []string{
				"id name Fakefish 1.0",
				"id author termchess tests",
				"option name Skill Level type spin default 20 min 0 max 20",
				"uciok",
			}
		case cmd == "isready":
			return []string{"readyok"}
		case strings.HasPrefix(cmd, "go"):
			return append(append([]string{}, info...), "bestmove "+best+" ponder e7e5")
		}
		return nil
	}
}
