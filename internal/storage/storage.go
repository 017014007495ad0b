// Package storage keeps saved games in a BadgerDB directory.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/lgbarn/termchess/internal/errors"
)

const keyPrefix = "game/"

// SavedGame is a named game stored as its FEN log.
type SavedGame struct {
	Name    string    `json:"name"`
	FENs    []string  `json:"fens"`
	SavedAt time.Time `json:"saved_at"`
	White   string    `json:"white,omitempty"`
	Black   string    `json:"black,omitempty"`
}

// Plies returns the number of half-moves in the saved log.
func (g *SavedGame) Plies() int {
	if len(g.FENs) == 0 {
		return 0
	}
	return len(g.FENs) - 1
}

// Store wraps BadgerDB for saved games.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening game store %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store that is never written to disk.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(name string) []byte {
	return []byte(keyPrefix + name)
}

// validName rejects names that cannot be typed back at the prompt.
func validName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\n/") {
		return fmt.Errorf("invalid game name %q", name)
	}
	return nil
}

// Save stores game under its name, replacing any earlier game of that
// name. A zero SavedAt is set to the current time.
func (s *Store) Save(game SavedGame) error {
	if err := validName(game.Name); err != nil {
		return err
	}
	if len(game.FENs) == 0 {
		return fmt.Errorf("saving %q: %w", game.Name, errors.ErrCorruptHistory)
	}
	if game.SavedAt.IsZero() {
		game.SavedAt = time.Now()
	}

	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(game.Name), data)
	})
}

// Load returns the game saved under name.
func (s *Store) Load(name string) (*SavedGame, error) {
	var game SavedGame
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(name))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%q: %w", name, errors.ErrGameNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &game)
		})
	})
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// List returns all saved games, oldest first.
func (s *Store) List() ([]SavedGame, error) {
	var games []SavedGame
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var game SavedGame
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &game)
			}); err != nil {
				return err
			}
			games = append(games, game)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].SavedAt.Before(games[j].SavedAt)
	})
	return games, nil
}

// Delete removes the game saved under name.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(gameKey(name)); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%q: %w", name, errors.ErrGameNotFound)
		} else if err != nil {
			return err
		}
		return txn.Delete(gameKey(name))
	})
}
