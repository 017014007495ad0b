package notation

import (
	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
)

const testInitial = engine.InitialFEN

var (
	parseToken = engine.ParseMoveToken
	legalMoves = engine.LegalMoves
)

// encodeAfter plays token on a copy of pos and returns the resulting FEN.
func encodeAfter(pos *chess.Position, token string) string {
	next := pos.Copy()
	move, err := engine.ParseMoveToken(token)
	if err != nil {
		panic(err)
	}
	if _, err := engine.MakeMove(next, move); err != nil {
		panic(err)
	}
	return engine.Encode(next)
}
