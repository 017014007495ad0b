// Package history keeps the FEN log of a game and restores earlier
// positions from it.
package history

import (
	"fmt"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/hashing"
)

// Log is an ordered record of every position of a game, one FEN per
// half-move. Entry zero is the starting position and is never removed.
type Log struct {
	entries []string
}

// New creates a log whose starting entry is startFEN.
func New(startFEN string) *Log {
	return &Log{entries: []string{startFEN}}
}

// FromEntries rebuilds a log from saved entries. The first entry is taken
// as the starting position; an empty slice is a corrupt history.
func FromEntries(fens []string) (*Log, error) {
	if len(fens) == 0 {
		return nil, fmt.Errorf("no starting entry: %w", errors.ErrCorruptHistory)
	}
	entries := make([]string, len(fens))
	copy(entries, fens)
	return &Log{entries: entries}, nil
}

// Append records the position reached after a move.
func (l *Log) Append(fen string) {
	l.entries = append(l.entries, fen)
}

// Current returns the last entry, or "" for a corrupt log.
func (l *Log) Current() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[len(l.entries)-1]
}

// Start returns the starting entry, or "" for a corrupt log.
func (l *Log) Start() string {
	if len(l.entries) == 0 {
		return ""
	}
	return l.entries[0]
}

// Len returns the number of entries, including the starting one.
func (l *Log) Len() int {
	return len(l.entries)
}

// Plies returns the number of half-moves recorded.
func (l *Log) Plies() int {
	if len(l.entries) == 0 {
		return 0
	}
	return len(l.entries) - 1
}

// Entries returns a copy of the log.
func (l *Log) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// UndoPairs removes the last 2n entries, never the starting one, and
// decodes the new current entry.
func (l *Log) UndoPairs(n int) (*chess.Position, error) {
	return l.UndoPlies(2 * n)
}

// UndoPlies removes the last n entries, never the starting one, and
// decodes the new current entry. n <= 0 just reloads the current entry.
func (l *Log) UndoPlies(n int) (*chess.Position, error) {
	if len(l.entries) == 0 {
		return nil, fmt.Errorf("no starting entry: %w", errors.ErrCorruptHistory)
	}
	if n > l.Plies() {
		n = l.Plies()
	}
	if n > 0 {
		l.entries = l.entries[:len(l.entries)-n]
	}

	pos, err := engine.Decode(l.Current())
	if err != nil {
		return nil, fmt.Errorf("entry %d: %v: %w", len(l.entries)-1, err, errors.ErrCorruptHistory)
	}
	return pos, nil
}

// RepetitionCount returns how many entries share the current position,
// counting the current entry itself.
func (l *Log) RepetitionCount() int {
	return hashing.RepetitionCount(l.entries)
}
