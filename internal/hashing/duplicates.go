package hashing

import (
	"github.com/lgbarn/termchess/internal/chess"
)

// DuplicateDetector tracks the final positions of converted games so that
// repeated logs can be skipped.
type DuplicateDetector struct {
	// hashTable stores seen signatures keyed by Zobrist hash
	hashTable map[uint64][]GameSignature
	// useExactMatch also requires the ply counts to match
	useExactMatch bool
	// maxCapacity bounds the number of stored signatures; 0 is unlimited
	maxCapacity int
	// duplicateCount tracks number of duplicates found
	duplicateCount int
}

// GameSignature stores identifying information about a game.
type GameSignature struct {
	// Hash is the Zobrist hash of the final position
	Hash uint64
	// MoveCount is the number of half-moves in the game
	MoveCount int
	// WeakHash is a placement checksum used to confirm Zobrist matches
	WeakHash chess.HashCode
}

// NewDuplicateDetector creates a new duplicate detector.
// maxCapacity of 0 means unlimited capacity.
func NewDuplicateDetector(exactMatch bool, maxCapacity int) *DuplicateDetector {
	return &DuplicateDetector{
		hashTable:     make(map[uint64][]GameSignature),
		useExactMatch: exactMatch,
		maxCapacity:   maxCapacity,
	}
}

// CheckAndAdd reports whether the game ending in final has been seen and
// records it if not. A full detector still answers but stores nothing new.
func (d *DuplicateDetector) CheckAndAdd(game *chess.Game, final *chess.Position) bool {
	if final == nil {
		return false
	}

	sig := GameSignature{
		Hash:      Zobrist(final),
		MoveCount: game.PlyCount(),
		WeakHash:  WeakHash(final),
	}

	for _, existing := range d.hashTable[sig.Hash] {
		if d.signaturesMatch(sig, existing) {
			d.duplicateCount++
			return true
		}
	}

	if d.IsFull() {
		return false
	}
	d.hashTable[sig.Hash] = append(d.hashTable[sig.Hash], sig)
	return false
}

// signaturesMatch checks if two game signatures match.
func (d *DuplicateDetector) signaturesMatch(a, b GameSignature) bool {
	if a.Hash != b.Hash || a.WeakHash != b.WeakHash {
		return false
	}
	if d.useExactMatch && a.MoveCount != b.MoveCount {
		return false
	}
	return true
}

// DuplicateCount returns the number of duplicates detected.
func (d *DuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of unique games.
func (d *DuplicateDetector) UniqueCount() int {
	count := 0
	for _, sigs := range d.hashTable {
		count += len(sigs)
	}
	return count
}

// IsFull returns true if the detector has reached its capacity limit.
func (d *DuplicateDetector) IsFull() bool {
	return d.maxCapacity > 0 && d.UniqueCount() >= d.maxCapacity
}

// Reset clears the hash table.
func (d *DuplicateDetector) Reset() {
	d.hashTable = make(map[uint64][]GameSignature)
	d.duplicateCount = 0
}
