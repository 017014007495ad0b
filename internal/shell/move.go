package shell

import (
	"fmt"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
	"github.com/lgbarn/termchess/internal/notation"
)

// move handles input that is not a command: a square query, a coordinate
// move ("e2 e4", "e2e4", "e7e8q", "e7 e8 q") or a SAN move.
func (s *Session) move(fields []string) Response {
	if len(fields) == 1 {
		if sq, ok := chess.ParseSquare(strings.ToLower(fields[0])); ok {
			return s.query(sq)
		}
	}

	if status := engine.Status(s.pos); status.IsOver() {
		return Response{Message: fmt.Sprintf("The game is over (%s). Type 'new' or 'undo'.", status)}
	}
	if s.engineToMove() {
		return Response{Message: "It is the engine's move. Press Enter or type 'go'."}
	}

	move, err := s.parseMove(fields)
	if err != nil {
		return Response{Message: "Invalid input format. Use: e2 e4"}
	}

	record, san, err := s.play(move)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidPromotion) {
			return Response{Message: fmt.Sprintf("Invalid promotion: add q, r, b or n, e.g. %s%sq", move.From, move.To)}
		}
		if s.pos.InCheck[s.pos.ToMove] {
			return Response{Message: "Invalid move: your king is in check."}
		}
		return Response{Message: "Invalid move"}
	}

	msg := fmt.Sprintf("Move made: %s to %s (%s)", move.From, move.To, san)
	if record.IsCapture() {
		msg += fmt.Sprintf(", captured %s", strings.ToLower(record.Captured.Kind.String()))
	}
	resp := Response{Message: msg, Highlight: []chess.Square{move.From, move.To}}
	if s.engineToMove() {
		resp.Message += "\n" + s.engineReply()
		if last, ok := s.LastMove(); ok {
			resp.Highlight = []chess.Square{last.From, last.To}
		}
	}
	return resp
}

// parseMove reads coordinate input, falling back to SAN.
func (s *Session) parseMove(fields []string) (chess.Move, error) {
	token := strings.ToLower(strings.Join(fields, ""))
	if move, err := engine.ParseMoveToken(token); err == nil {
		return move, nil
	}
	if len(fields) != 1 {
		return chess.Move{}, fmt.Errorf("unreadable move %q", strings.Join(fields, " "))
	}
	return notation.ParseSAN(s.pos, fields[0])
}

// query lists the legal targets of the piece on sq.
func (s *Session) query(sq chess.Square) Response {
	piece := s.pos.Get(sq)
	if piece.IsEmpty() || !piece.IsColour(s.pos.ToMove) {
		return Response{Message: fmt.Sprintf("Invalid position or no piece at %s", sq)}
	}

	targets := engine.LegalTargets(s.pos, sq)
	var sb strings.Builder
	if s.pos.InCheck[s.pos.ToMove] {
		sb.WriteString("Your king is in check! You can only make moves that get out of check.\n")
	}
	if len(targets) == 0 {
		fmt.Fprintf(&sb, "No legal moves available from %s", sq)
		return Response{Message: sb.String(), Highlight: []chess.Square{sq}}
	}

	fmt.Fprintf(&sb, "Possible moves from %s:", sq)
	for _, to := range targets {
		sb.WriteByte(' ')
		sb.WriteString(to.String())
	}
	return Response{Message: sb.String(), Highlight: targets}
}

// sanOf returns the SAN of a legal move, or "" for an illegal one.
func sanOf(pos *chess.Position, move chess.Move) string {
	if !engine.IsLegal(pos, move) {
		return ""
	}
	return notation.SAN(pos, move)
}
