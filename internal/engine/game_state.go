package engine

import "github.com/lgbarn/termchess/internal/chess"

// FiftyMoveLimit is the halfmove clock value at which the game is drawn.
const FiftyMoveLimit = 100

// GameStatus describes whether the game in a position is still running.
type GameStatus int

const (
	Ongoing GameStatus = iota
	Checkmate
	Stalemate
	FiftyMoveDraw
	InsufficientMaterial
)

// String returns a human readable status.
func (s GameStatus) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveDraw:
		return "draw by the fifty-move rule"
	case InsufficientMaterial:
		return "draw by insufficient material"
	}
	return "in progress"
}

// IsOver reports whether the status ends the game.
func (s GameStatus) IsOver() bool {
	return s != Ongoing
}

// IsCheckmate returns true if colour is in check with no legal move.
func IsCheckmate(pos *chess.Position, colour chess.Colour) bool {
	return IsInCheck(pos, colour) && !HasLegalMoves(pos, colour)
}

// IsStalemate returns true if colour is not in check and has no legal move.
func IsStalemate(pos *chess.Position, colour chess.Colour) bool {
	return !IsInCheck(pos, colour) && !HasLegalMoves(pos, colour)
}

// IsFiftyMoveDraw returns true once fifty moves by each side have passed
// without a pawn move or capture.
func IsFiftyMoveDraw(pos *chess.Position) bool {
	return pos.HalfmoveClock >= FiftyMoveLimit
}

// Status reports the state of the game for the side to move. Checkmate
// takes precedence over the draw rules.
func Status(pos *chess.Position) GameStatus {
	colour := pos.ToMove
	if !HasLegalMoves(pos, colour) {
		if IsInCheck(pos, colour) {
			return Checkmate
		}
		return Stalemate
	}
	if IsFiftyMoveDraw(pos) {
		return FiftyMoveDraw
	}
	if HasInsufficientMaterial(pos) {
		return InsufficientMaterial
	}
	return Ongoing
}

// Result returns the PGN result token for a position.
func Result(pos *chess.Position) string {
	switch Status(pos) {
	case Checkmate:
		if pos.ToMove == chess.White {
			return chess.BlackWins
		}
		return chess.WhiteWins
	case Stalemate, FiftyMoveDraw, InsufficientMaterial:
		return chess.Draw
	}
	return chess.InProgress
}
