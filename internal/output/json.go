package output

import (
	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
)

// JSONGame represents a game in JSON format.
type JSONGame struct {
	Tags       map[string]string `json:"tags"`
	Moves      []JSONMove        `json:"moves,omitempty"`
	Result     string            `json:"result"`
	PlyCount   int               `json:"plyCount"`
	InitialFEN string            `json:"initialFEN,omitempty"`
	FinalFEN   string            `json:"finalFEN"`
}

// JSONMove represents a move in JSON format.
type JSONMove struct {
	MoveNumber int    `json:"moveNumber,omitempty"`
	Color      string `json:"color"` // "white" or "black"
	SAN        string `json:"san"`
	UCI        string `json:"uci"`
	From       string `json:"from"`
	To         string `json:"to"`
	Piece      string `json:"piece,omitempty"`
	Captured   string `json:"captured,omitempty"`
	Promotion  string `json:"promotion,omitempty"`
	Check      string `json:"check,omitempty"`
	FEN        string `json:"fen"`
}

// JSONOutput holds multiple games for array output.
type JSONOutput struct {
	Games []*JSONGame `json:"games"`
}

// GameToJSON converts a game to JSON form. Piece and capture details come
// from replaying the moves; if a move fails to replay those fields are
// left empty for it and the rest of the game.
func GameToJSON(game *chess.Game) *JSONGame {
	jg := &JSONGame{
		Tags:     copyTags(game.Tags),
		Result:   gameResult(game),
		PlyCount: game.PlyCount(),
		FinalFEN: game.FinalFEN,
	}

	start := startFEN(game)
	if start != engine.InitialFEN {
		jg.InitialFEN = start
	}
	if jg.FinalFEN == "" {
		jg.FinalFEN = start
	}

	pos, err := engine.Decode(start)
	if err != nil {
		pos = nil
	}

	jg.Moves = make([]JSONMove, 0, len(game.Moves))
	for _, move := range game.Moves {
		jm := JSONMove{
			Color: colorName(move.Colour),
			SAN:   move.SAN,
			UCI:   move.Move.String(),
			From:  move.Move.From.String(),
			To:    move.Move.To.String(),
			FEN:   move.FEN,
		}
		if move.Colour == chess.White {
			jm.MoveNumber = move.Number
		}
		if move.Move.Promotion != chess.None {
			jm.Promotion = pieceTypeName(move.Move.Promotion)
		}

		if pos != nil {
			record, err := engine.MakeMove(pos, move.Move)
			if err != nil {
				pos = nil
			} else {
				jm.Piece = pieceTypeName(record.Piece.Kind)
				if record.IsCapture() {
					jm.Captured = pieceTypeName(record.Captured.Kind)
				}
				jm.Check = record.CheckStatus.Suffix()
			}
		}
		jg.Moves = append(jg.Moves, jm)
	}
	return jg
}

// copyTags copies game tags and ensures seven tag roster has values.
func copyTags(tags map[string]string) map[string]string {
	result := make(map[string]string, len(tags)+len(chess.SevenTagRoster))
	for k, v := range tags {
		result[k] = v
	}
	for _, tag := range chess.SevenTagRoster {
		if _, ok := result[tag]; !ok {
			result[tag] = "?"
		}
	}
	return result
}

// colorName returns "white" or "black".
func colorName(c chess.Colour) string {
	if c == chess.White {
		return "white"
	}
	return "black"
}

// pieceTypeName returns the piece type as a string.
func pieceTypeName(k chess.Kind) string {
	switch k {
	case chess.Pawn:
		return "pawn"
	case chess.Knight:
		return "knight"
	case chess.Bishop:
		return "bishop"
	case chess.Rook:
		return "rook"
	case chess.Queen:
		return "queen"
	case chess.King:
		return "king"
	default:
		return ""
	}
}
