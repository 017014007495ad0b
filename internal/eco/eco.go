// Package eco classifies games by opening using an ECO (Encyclopaedia of
// Chess Openings) reference file in PGN format.
package eco

import (
	"fmt"
	"io"
	"os"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/hashing"
	"github.com/lgbarn/termchess/internal/notation"
	"github.com/lgbarn/termchess/internal/parser"
)

// Tags written by AddTags.
const (
	ECOTag          = "ECO"
	OpeningTag      = "Opening"
	VariationTag    = "Variation"
	SubVariationTag = "SubVariation"
)

// HalfMoveLimit is the maximum distance from an ECO line for a match.
const HalfMoveLimit = 6

// TableSize is the size of the ECO hash table.
const TableSize = 4096

// Entry is one ECO line.
type Entry struct {
	Code           string // e.g., "B33"
	Opening        string // e.g., "Sicilian"
	Variation      string // e.g., "Sveshnikov"
	SubVariation   string
	RequiredHash   uint64 // Position hash at the end of the line
	CumulativeHash uint64 // XOR of the hashes along the line
	HalfMoves      int    // Number of half-moves to reach this position
	next           *Entry
}

// Name returns the opening and variation as one line of text.
func (e *Entry) Name() string {
	name := e.Code + " " + e.Opening
	if e.Variation != "" {
		name += ", " + e.Variation
	}
	if e.SubVariation != "" {
		name += ", " + e.SubVariation
	}
	return name
}

// Classifier looks up the opening of a game.
type Classifier struct {
	table         [TableSize]*Entry
	maxHalfMoves  int
	entriesLoaded int
	skipped       int
}

// NewClassifier creates an empty classifier.
func NewClassifier() *Classifier {
	return &Classifier{maxHalfMoves: HalfMoveLimit}
}

// LoadFromFile loads ECO lines from a PGN file.
func (c *Classifier) LoadFromFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot open ECO file: %w", err)
	}
	defer file.Close()

	return c.LoadFromReader(file)
}

// LoadFromReader loads ECO lines from PGN. Lines that do not replay
// legally are counted in Skipped and otherwise ignored.
func (c *Classifier) LoadFromReader(r io.Reader) error {
	records, err := parser.NewParser(r).ParseAllGames()
	if err != nil {
		return fmt.Errorf("error parsing ECO file: %w", err)
	}

	for _, rec := range records {
		if rec.Tags[ECOTag] == "" {
			continue
		}
		game, err := notation.RecordToGame(rec)
		if err != nil {
			c.skipped++
			continue
		}
		c.add(game)
	}
	return nil
}

// add hashes the positions of an ECO line and stores its final position.
func (c *Classifier) add(game *chess.Game) {
	if len(game.Moves) == 0 {
		return
	}

	var posHash, cumulativeHash uint64
	for _, m := range game.Moves {
		h, err := hashing.FENKey(m.FEN)
		if err != nil {
			c.skipped++
			return
		}
		posHash = h
		cumulativeHash ^= h
	}

	entry := &Entry{
		Code:           game.GetTag(ECOTag),
		Opening:        game.GetTag(OpeningTag),
		Variation:      game.GetTag(VariationTag),
		SubVariation:   game.GetTag(SubVariationTag),
		RequiredHash:   posHash,
		CumulativeHash: cumulativeHash,
		HalfMoves:      len(game.Moves),
	}

	ix := entry.RequiredHash % TableSize
	for existing := c.table[ix]; existing != nil; existing = existing.next {
		if existing.RequiredHash == entry.RequiredHash &&
			existing.HalfMoves == entry.HalfMoves &&
			existing.CumulativeHash == entry.CumulativeHash {
			return
		}
	}

	entry.next = c.table[ix]
	c.table[ix] = entry
	c.entriesLoaded++

	if entry.HalfMoves+HalfMoveLimit > c.maxHalfMoves {
		c.maxHalfMoves = entry.HalfMoves + HalfMoveLimit
	}
}

// ClassifyGame finds the best ECO match for a game, or nil.
func (c *Classifier) ClassifyGame(game *chess.Game) *Entry {
	fens := make([]string, 0, len(game.Moves)+1)
	fens = append(fens, game.StartFEN)
	for _, m := range game.Moves {
		fens = append(fens, m.FEN)
	}
	return c.ClassifyFENs(fens)
}

// ClassifyFENs classifies a FEN log whose first entry is the starting
// position. The deepest matching position wins.
func (c *Classifier) ClassifyFENs(fens []string) *Entry {
	if c.entriesLoaded == 0 || len(fens) < 2 {
		return nil
	}

	var best *Entry
	var cumulativeHash uint64
	for i, fen := range fens[1:] {
		halfMoves := i + 1
		if halfMoves > c.maxHalfMoves {
			break
		}
		posHash, err := hashing.FENKey(fen)
		if err != nil {
			break
		}
		cumulativeHash ^= posHash

		if match := c.findMatch(posHash, cumulativeHash, halfMoves); match != nil {
			best = match
		}
	}
	return best
}

// findMatch looks up a position in the table.
func (c *Classifier) findMatch(posHash, cumulativeHash uint64, halfMoves int) *Entry {
	var possible *Entry
	for entry := c.table[posHash%TableSize]; entry != nil; entry = entry.next {
		if entry.RequiredHash != posHash {
			continue
		}
		if entry.HalfMoves == halfMoves && entry.CumulativeHash == cumulativeHash {
			return entry
		}
		if abs(halfMoves-entry.HalfMoves) <= HalfMoveLimit {
			possible = entry
		}
	}
	return possible
}

// AddTags sets the ECO, Opening and Variation tags of a game.
func (c *Classifier) AddTags(game *chess.Game) bool {
	match := c.ClassifyGame(game)
	if match == nil {
		return false
	}

	game.SetTag(ECOTag, match.Code)
	if match.Opening != "" {
		game.SetTag(OpeningTag, match.Opening)
	}
	if match.Variation != "" {
		game.SetTag(VariationTag, match.Variation)
	}
	if match.SubVariation != "" {
		game.SetTag(SubVariationTag, match.SubVariation)
	}
	return true
}

// EntriesLoaded returns the number of ECO lines loaded.
func (c *Classifier) EntriesLoaded() int {
	return c.entriesLoaded
}

// Skipped returns the number of ECO lines that could not be replayed.
func (c *Classifier) Skipped() int {
	return c.skipped
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
