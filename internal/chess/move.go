package chess

// Move is a request to move the piece on From to To. Promotion names the
// piece a pawn becomes on the last rank and is None otherwise.
type Move struct {
	From      Square
	To        Square
	Promotion Kind
}

// NewMove creates a move without promotion.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// String returns the coordinate form used by UCI engines, e.g. "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != None {
		s += string(m.Promotion.Letter() + ('a' - 'A'))
	}
	return s
}

// MoveRecord describes a move after it has been executed. The flags are
// derived while applying the move, never supplied by the caller.
type MoveRecord struct {
	Move Move

	// Class of move (pawn move, piece move, castle, etc.).
	Class MoveClass

	// The piece that moved, as it stood before moving.
	Piece Piece

	// The piece captured (Empty if no capture).
	Captured Piece

	// Square the captured piece stood on. It differs from Move.To only
	// for en passant.
	CapturedOn Square

	// Whether the move was a pawn's two-square advance.
	DoubleStep bool

	// Whether the move gives check or checkmate.
	CheckStatus CheckStatus
}

// IsCapture returns true if this move captured a piece.
func (r *MoveRecord) IsCapture() bool {
	return !r.Captured.IsEmpty()
}

// IsEnPassant returns true if this move was an en passant capture.
func (r *MoveRecord) IsEnPassant() bool {
	return r.Class == EnPassantPawnMove
}

// IsPromotion returns true if this move is a pawn promotion.
func (r *MoveRecord) IsPromotion() bool {
	return r.Class == PawnMoveWithPromotion
}

// IsCastle returns true if this move is a castling move.
func (r *MoveRecord) IsCastle() bool {
	switch r.Class {
	case KingsideCastle, QueensideCastle:
		return true
	default:
		return false
	}
}
