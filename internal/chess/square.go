package chess

// Square is a board coordinate. Row 0 is rank 8 and Col 0 is the a-file,
// matching the order in which FEN lists the board.
type Square struct {
	Row int
	Col int
}

// NoSquare is the out-of-board square used where no square applies.
var NoSquare = Square{Row: -1, Col: -1}

// Valid reports whether the square lies on the board.
func (s Square) Valid() bool {
	return s.Row >= 0 && s.Row < BoardSize && s.Col >= 0 && s.Col < BoardSize
}

// Offset returns the square dr rows and dc columns away. The result may
// be off the board.
func (s Square) Offset(dr, dc int) Square {
	return Square{Row: s.Row + dr, Col: s.Col + dc}
}

// File returns the file letter 'a'..'h'.
func (s Square) File() byte {
	return byte(ColBase + s.Col)
}

// Rank returns the rank digit '1'..'8'.
func (s Square) Rank() byte {
	return byte(LastRank - s.Row)
}

// String returns the algebraic name, e.g. "e4".
func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{s.File(), s.Rank()})
}

// SquareAt builds a square from file and rank characters.
func SquareAt(file, rank byte) (Square, bool) {
	if file < ColBase || file > LastCol || rank < RankBase || rank > LastRank {
		return NoSquare, false
	}
	return Square{Row: int(LastRank - rank), Col: int(file - ColBase)}, true
}

// ParseSquare parses an algebraic square name such as "e4".
func ParseSquare(name string) (Square, bool) {
	if len(name) != 2 {
		return NoSquare, false
	}
	return SquareAt(name[0], name[1])
}

// MustSquare parses a square name and panics if it is invalid.
// It is intended for constants and tests.
func MustSquare(name string) Square {
	sq, ok := ParseSquare(name)
	if !ok {
		panic("chess: invalid square " + name)
	}
	return sq
}
