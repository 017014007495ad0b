package chess

// CastlingRights records which castles are still available. Rights are only
// ever cleared during a game; a new setup is the only way to restore them.
type CastlingRights struct {
	WhiteKingside  bool
	WhiteQueenside bool
	BlackKingside  bool
	BlackQueenside bool
}

// AllCastlingRights is the set of rights at the start of a standard game.
var AllCastlingRights = CastlingRights{true, true, true, true}

// Kingside reports whether colour may still castle on the king's wing.
func (c CastlingRights) Kingside(colour Colour) bool {
	if colour == White {
		return c.WhiteKingside
	}
	return c.BlackKingside
}

// Queenside reports whether colour may still castle on the queen's wing.
func (c CastlingRights) Queenside(colour Colour) bool {
	if colour == White {
		return c.WhiteQueenside
	}
	return c.BlackQueenside
}

// ClearKingside forfeits colour's kingside castle.
func (c *CastlingRights) ClearKingside(colour Colour) {
	if colour == White {
		c.WhiteKingside = false
	} else {
		c.BlackKingside = false
	}
}

// ClearQueenside forfeits colour's queenside castle.
func (c *CastlingRights) ClearQueenside(colour Colour) {
	if colour == White {
		c.WhiteQueenside = false
	} else {
		c.BlackQueenside = false
	}
}

// ClearAll forfeits both castles for colour.
func (c *CastlingRights) ClearAll(colour Colour) {
	c.ClearKingside(colour)
	c.ClearQueenside(colour)
}

// Any reports whether any castle is still available.
func (c CastlingRights) Any() bool {
	return c.WhiteKingside || c.WhiteQueenside || c.BlackKingside || c.BlackQueenside
}

// String returns the FEN castling field, "-" when no rights remain.
func (c CastlingRights) String() string {
	var b []byte
	if c.WhiteKingside {
		b = append(b, 'K')
	}
	if c.WhiteQueenside {
		b = append(b, 'Q')
	}
	if c.BlackKingside {
		b = append(b, 'k')
	}
	if c.BlackQueenside {
		b = append(b, 'q')
	}
	if len(b) == 0 {
		return "-"
	}
	return string(b)
}

// Position holds the complete game state: the board plus everything FEN
// records, and the derived caches the rules engine keeps in step with it.
type Position struct {
	// Board squares indexed [row][col]; row 0 is rank 8.
	Board [BoardSize][BoardSize]Piece

	// Who has the next move.
	ToMove Colour

	// Square holding each colour's king, indexed by Colour.
	KingSquare [2]Square

	// Castles still available.
	Castling CastlingRights

	// Is an en passant capture possible? If so then EnPassant holds the
	// square passed over by the double-stepping pawn.
	HasEnPassant bool
	EnPassant    Square

	// The half-move clock since the last pawn move or capture.
	HalfmoveClock int

	// The current move number.
	FullmoveNumber int

	// Whether each colour's king is attacked, indexed by Colour.
	InCheck [2]bool

	// Pieces captured by each colour, in capture order.
	Captured [2][]Piece
}

// NewPosition creates an empty board with White to move.
func NewPosition() *Position {
	p := &Position{
		ToMove:         White,
		FullmoveNumber: 1,
		KingSquare:     [2]Square{NoSquare, NoSquare},
		EnPassant:      NoSquare,
	}
	p.Clear()
	return p
}

// Clear empties every square.
func (p *Position) Clear() {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			p.Board[row][col] = Empty
		}
	}
}

// SetupInitialPosition sets up the standard chess starting position.
func (p *Position) SetupInitialPosition() {
	p.Clear()

	backRank := []Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < BoardSize; col++ {
		p.Board[BackRow(Black)][col] = B(backRank[col])
		p.Board[PawnStartRow(Black)][col] = B(Pawn)
		p.Board[PawnStartRow(White)][col] = W(Pawn)
		p.Board[BackRow(White)][col] = W(backRank[col])
	}

	p.KingSquare[White] = Square{Row: BackRow(White), Col: 4}
	p.KingSquare[Black] = Square{Row: BackRow(Black), Col: 4}
	p.Castling = AllCastlingRights
	p.ToMove = White
	p.HasEnPassant = false
	p.EnPassant = NoSquare
	p.HalfmoveClock = 0
	p.FullmoveNumber = 1
	p.InCheck = [2]bool{}
	p.Captured = [2][]Piece{}
}

// Get returns the piece on sq, or Empty for a square off the board.
func (p *Position) Get(sq Square) Piece {
	if !sq.Valid() {
		return Empty
	}
	return p.Board[sq.Row][sq.Col]
}

// Set places a piece on sq. Any piece of kind None is stored as Empty.
// The king cache is not touched; callers moving a king update it.
func (p *Position) Set(sq Square, piece Piece) {
	if !sq.Valid() {
		return
	}
	if piece.Kind == None {
		piece = Empty
	}
	p.Board[sq.Row][sq.Col] = piece
}

// IsEmpty reports whether sq is on the board and unoccupied.
func (p *Position) IsEmpty(sq Square) bool {
	return sq.Valid() && p.Board[sq.Row][sq.Col].IsEmpty()
}

// EnPassantSquare returns the en passant target, if there is one.
func (p *Position) EnPassantSquare() (Square, bool) {
	if !p.HasEnPassant {
		return NoSquare, false
	}
	return p.EnPassant, true
}

// SetEnPassant records sq as the en passant target.
func (p *Position) SetEnPassant(sq Square) {
	p.HasEnPassant = true
	p.EnPassant = sq
}

// ClearEnPassant removes the en passant target.
func (p *Position) ClearEnPassant() {
	p.HasEnPassant = false
	p.EnPassant = NoSquare
}

// PieceCount returns how many pieces of the colour and kind are on the board.
func (p *Position) PieceCount(colour Colour, kind Kind) int {
	n := 0
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if p.Board[row][col].Is(colour, kind) {
				n++
			}
		}
	}
	return n
}

// Squares calls fn for every occupied square of the given colour.
// Iteration stops early when fn returns false.
func (p *Position) Squares(colour Colour, fn func(Square, Piece) bool) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			piece := p.Board[row][col]
			if !piece.IsColour(colour) {
				continue
			}
			if !fn(Square{Row: row, Col: col}, piece) {
				return
			}
		}
	}
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	c := *p
	for i := range p.Captured {
		if p.Captured[i] != nil {
			c.Captured[i] = append([]Piece(nil), p.Captured[i]...)
		}
	}
	return &c
}
