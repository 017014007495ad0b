package hashing

import (
	"sync"

	"github.com/lgbarn/termchess/internal/chess"
)

// DetectorStats summarises what a detector has seen.
type DetectorStats struct {
	Unique     int
	Duplicates int
	Full       bool
}

// SharedDetector is a DuplicateDetector safe for use by several goroutines.
type SharedDetector struct {
	mu       sync.Mutex
	detector *DuplicateDetector
}

// NewSharedDetector creates a detector. maxCapacity of 0 is unlimited.
func NewSharedDetector(exactMatch bool, maxCapacity int) *SharedDetector {
	return &SharedDetector{detector: NewDuplicateDetector(exactMatch, maxCapacity)}
}

// CheckAndAdd reports whether the game was seen before and records it.
// The check and the insert happen under one lock, so of two identical
// games racing in, exactly one is reported as new.
func (d *SharedDetector) CheckAndAdd(game *chess.Game, final *chess.Position) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detector.CheckAndAdd(game, final)
}

// Stats returns a consistent snapshot of the counters.
func (d *SharedDetector) Stats() DetectorStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DetectorStats{
		Unique:     d.detector.UniqueCount(),
		Duplicates: d.detector.DuplicateCount(),
		Full:       d.detector.IsFull(),
	}
}

// Reset forgets every recorded game.
func (d *SharedDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Reset()
}
