// Package hashing provides position hashing, repetition counting and
// duplicate detection for chess games.
package hashing

import (
	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
)

// zobristSeed fixes the key tables so hashes are stable across runs and can
// be stored.
const zobristSeed = 0x9E3779B97F4A7C15

var (
	pieceKeys     [2][chess.NumKinds][chess.BoardSize * chess.BoardSize]uint64
	castlingKeys  [4]uint64
	enPassantKeys [chess.BoardSize]uint64
	blackToMove   uint64
)

func init() {
	state := uint64(zobristSeed)
	for colour := range pieceKeys {
		for kind := range pieceKeys[colour] {
			for sq := range pieceKeys[colour][kind] {
				pieceKeys[colour][kind][sq] = splitmix64(&state)
			}
		}
	}
	for i := range castlingKeys {
		castlingKeys[i] = splitmix64(&state)
	}
	for i := range enPassantKeys {
		enPassantKeys[i] = splitmix64(&state)
	}
	blackToMove = splitmix64(&state)
}

// splitmix64 advances state and returns the next pseudo-random value.
func splitmix64(state *uint64) uint64 {
	*state += 0x9E3779B97F4A7C15
	z := *state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Zobrist returns the hash of the position's placement, side to move,
// castling rights and en passant file. The clocks are not part of the key,
// so two positions that differ only in move counters hash the same.
func Zobrist(pos *chess.Position) uint64 {
	var hash uint64
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			piece := pos.Board[row][col]
			if piece.IsEmpty() {
				continue
			}
			hash ^= pieceKeys[piece.Colour][piece.Kind][row*chess.BoardSize+col]
		}
	}

	rights := [4]bool{
		pos.Castling.WhiteKingside,
		pos.Castling.WhiteQueenside,
		pos.Castling.BlackKingside,
		pos.Castling.BlackQueenside,
	}
	for i, ok := range rights {
		if ok {
			hash ^= castlingKeys[i]
		}
	}

	if sq, ok := pos.EnPassantSquare(); ok {
		hash ^= enPassantKeys[sq.Col]
	}
	if pos.ToMove == chess.Black {
		hash ^= blackToMove
	}
	return hash
}

// FENKey decodes fen and returns its Zobrist hash.
func FENKey(fen string) (uint64, error) {
	pos, err := engine.Decode(fen)
	if err != nil {
		return 0, err
	}
	return Zobrist(pos), nil
}

// WeakHash returns a cheap order-dependent checksum of the placement only.
// It is used as a second opinion when Zobrist hashes collide.
func WeakHash(pos *chess.Position) chess.HashCode {
	var hash chess.HashCode
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			piece := pos.Board[row][col]
			if piece.IsEmpty() {
				continue
			}
			code := chess.HashCode(int(piece.Kind)*2+int(piece.Colour)) + 1
			hash += code * chess.HashCode(row*chess.BoardSize+col+1)
		}
	}
	return hash
}

// RepetitionCount returns how many times the final position of fens occurs
// in the log, counting itself. Entries that fail to decode are skipped.
func RepetitionCount(fens []string) int {
	if len(fens) == 0 {
		return 0
	}
	target, err := FENKey(fens[len(fens)-1])
	if err != nil {
		return 0
	}
	count := 0
	for _, fen := range fens {
		if key, err := FENKey(fen); err == nil && key == target {
			count++
		}
	}
	return count
}
