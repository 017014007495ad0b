package chess

// GameMove is one half-move of a recorded game.
type GameMove struct {
	// The coordinate move.
	Move Move

	// The move text in SAN (e.g., "Nf3", "e4", "O-O").
	SAN string

	// Class of move (pawn move, piece move, castle, etc.).
	Class MoveClass

	// Colour of the side that played the move.
	Colour Colour

	// Move number the half-move belongs to.
	Number int

	// FEN of the position after the move.
	FEN string
}

// Game represents a complete chess game with tags and moves.
type Game struct {
	// Tags for this game (e.g., Event, Site, Date, White, Black, Result).
	Tags map[string]string

	// FEN of the starting position.
	StartFEN string

	// The moves of the game, in order.
	Moves []GameMove

	// FEN of the final position.
	FinalFEN string
}

// NewGame creates a new empty game.
func NewGame() *Game {
	return &Game{
		Tags: make(map[string]string),
	}
}

// GetTag returns a tag value, or empty string if not present.
func (g *Game) GetTag(name string) string {
	return g.Tags[name]
}

// SetTag sets a tag value.
func (g *Game) SetTag(name, value string) {
	g.ensureTags()
	g.Tags[name] = value
}

// HasTag returns true if the tag is present.
func (g *Game) HasTag(name string) bool {
	_, ok := g.Tags[name]
	return ok
}

// ensureTags initializes the Tags map if it is nil.
func (g *Game) ensureTags() {
	if g.Tags == nil {
		g.Tags = make(map[string]string)
	}
}

// White returns the White player name.
func (g *Game) White() string {
	return g.GetTag("White")
}

// Black returns the Black player name.
func (g *Game) Black() string {
	return g.GetTag("Black")
}

// Result returns the game result.
func (g *Game) Result() string {
	return g.GetTag("Result")
}

// FEN returns the FEN tag if present.
func (g *Game) FEN() string {
	return g.GetTag("FEN")
}

// PlyCount returns the number of half-moves in the game.
func (g *Game) PlyCount() int {
	return len(g.Moves)
}

// LastMove returns the last move in the game, or nil if no moves.
func (g *Game) LastMove() *GameMove {
	if len(g.Moves) == 0 {
		return nil
	}
	return &g.Moves[len(g.Moves)-1]
}

// AppendMove adds a move to the end of the game.
func (g *Game) AppendMove(m GameMove) {
	g.Moves = append(g.Moves, m)
	g.FinalFEN = m.FEN
}
