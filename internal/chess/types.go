// Package chess provides core chess types and operations.
package chess

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// Letter returns the FEN side-to-move letter.
func (c Colour) Letter() byte {
	if c == White {
		return 'w'
	}
	return 'b'
}

// Kind represents a chess piece type. None marks an empty square.
type Kind int

const (
	None Kind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumKinds
)

// String returns the string representation of a piece kind.
func (k Kind) String() string {
	names := []string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Letter returns the single letter representation of a kind (uppercase).
func (k Kind) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if k >= 0 && int(k) < len(letters) {
		return letters[k]
	}
	return '?'
}

// KindFromLetter converts a piece letter of either case to a Kind.
func KindFromLetter(letter byte) (Kind, bool) {
	switch letter {
	case 'P', 'p':
		return Pawn, true
	case 'N', 'n':
		return Knight, true
	case 'B', 'b':
		return Bishop, true
	case 'R', 'r':
		return Rook, true
	case 'Q', 'q':
		return Queen, true
	case 'K', 'k':
		return King, true
	}
	return None, false
}

// IsPromotionKind reports whether a pawn may promote to k.
func IsPromotionKind(k Kind) bool {
	switch k {
	case Knight, Bishop, Rook, Queen:
		return true
	default:
		return false
	}
}

// PromotionKinds lists promotion choices, strongest first.
var PromotionKinds = []Kind{Queen, Rook, Bishop, Knight}

// Piece is a coloured piece. Every empty square holds Empty.
type Piece struct {
	Kind   Kind
	Colour Colour
}

// Empty is the value stored on every unoccupied square.
var Empty = Piece{Kind: None}

// W creates a white piece.
func W(kind Kind) Piece {
	return Piece{Kind: kind, Colour: White}
}

// B creates a black piece.
func B(kind Kind) Piece {
	return Piece{Kind: kind, Colour: Black}
}

// IsEmpty reports whether the piece marks an empty square.
func (p Piece) IsEmpty() bool {
	return p.Kind == None
}

// Is reports whether p is a piece of the given colour and kind.
func (p Piece) Is(colour Colour, kind Kind) bool {
	return p.Kind == kind && p.Kind != None && p.Colour == colour
}

// IsColour reports whether p is a non-empty piece of the given colour.
func (p Piece) IsColour(colour Colour) bool {
	return p.Kind != None && p.Colour == colour
}

// Letter returns the FEN letter: uppercase for White, lowercase for Black.
func (p Piece) Letter() byte {
	if p.Kind == None {
		return ' '
	}
	l := p.Kind.Letter()
	if p.Colour == Black {
		l += 'a' - 'A'
	}
	return l
}

// String returns the FEN letter of the piece, or "." for an empty square.
func (p Piece) String() string {
	if p.Kind == None {
		return "."
	}
	return string(p.Letter())
}

// PieceFromLetter converts a FEN piece letter to a Piece.
func PieceFromLetter(letter byte) (Piece, bool) {
	kind, ok := KindFromLetter(letter)
	if !ok {
		return Empty, false
	}
	if letter >= 'a' && letter <= 'z' {
		return B(kind), true
	}
	return W(kind), true
}

// MoveClass categorizes different types of chess moves.
type MoveClass int

const (
	PawnMove MoveClass = iota
	PawnMoveWithPromotion
	EnPassantPawnMove
	PieceMove
	KingsideCastle
	QueensideCastle
)

// String returns a short description of the move class.
func (c MoveClass) String() string {
	switch c {
	case PawnMove:
		return "pawn"
	case PawnMoveWithPromotion:
		return "promotion"
	case EnPassantPawnMove:
		return "en passant"
	case PieceMove:
		return "piece"
	case KingsideCastle:
		return "O-O"
	case QueensideCastle:
		return "O-O-O"
	}
	return "unknown"
}

// Constants for board dimensions and coordinates.
const (
	BoardSize = 8

	RankBase = '1'
	ColBase  = 'a'
	LastRank = RankBase + BoardSize - 1
	LastCol  = ColBase + BoardSize - 1
)

// PawnDirection returns the row step of a pawn advance. Row 0 is rank 8,
// so White pawns move towards lower rows.
func PawnDirection(colour Colour) int {
	if colour == White {
		return -1
	}
	return 1
}

// PawnStartRow returns the row a colour's pawns start on.
func PawnStartRow(colour Colour) int {
	if colour == White {
		return 6
	}
	return 1
}

// BackRow returns the row holding a colour's pieces at the start.
func BackRow(colour Colour) int {
	if colour == White {
		return BoardSize - 1
	}
	return 0
}

// PromotionRow returns the row on which a colour's pawns promote.
func PromotionRow(colour Colour) int {
	return BackRow(colour.Opposite())
}

// HashCode is the type for position hashing.
type HashCode uint64

// CheckStatus indicates whether a move gives check or checkmate.
type CheckStatus int

const (
	NoCheck CheckStatus = iota
	Check
	Checkmate
)

// Suffix returns the SAN suffix for the status.
func (s CheckStatus) Suffix() string {
	switch s {
	case Check:
		return "+"
	case Checkmate:
		return "#"
	}
	return ""
}
