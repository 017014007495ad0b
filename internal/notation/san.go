// Package notation converts between coordinate moves, standard algebraic
// notation and FEN logs.
package notation

import (
	"fmt"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
	"github.com/lgbarn/termchess/internal/errors"
)

// SAN returns the standard algebraic notation of a legal move in pos.
// An illegal move falls back to its coordinate form.
func SAN(pos *chess.Position, move chess.Move) string {
	if !engine.IsLegal(pos, move) {
		return move.String()
	}
	piece := pos.Get(move.From)

	var sb strings.Builder
	switch {
	case piece.Kind == chess.King && move.To.Col-move.From.Col == 2:
		sb.WriteString("O-O")
	case piece.Kind == chess.King && move.From.Col-move.To.Col == 2:
		sb.WriteString("O-O-O")
	default:
		capture := !pos.Get(move.To).IsEmpty()
		if piece.Kind == chess.Pawn {
			if move.From.Col != move.To.Col {
				capture = true
				sb.WriteByte(move.From.File())
			}
		} else {
			sb.WriteByte(piece.Kind.Letter())
			sb.WriteString(disambiguation(pos, move, piece))
		}
		if capture {
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
		if move.Promotion != chess.None {
			sb.WriteByte('=')
			sb.WriteByte(move.Promotion.Letter())
		}
	}

	next := pos.Copy()
	record, err := engine.MakeMove(next, move)
	if err == nil {
		sb.WriteString(record.CheckStatus.Suffix())
	}
	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell
// move apart from other legal moves of the same kind to the same square.
func disambiguation(pos *chess.Position, move chess.Move, piece chess.Piece) string {
	var others []chess.Square
	for _, m := range engine.LegalMoves(pos) {
		if m.To != move.To || m.From == move.From || pos.Get(m.From) != piece {
			continue
		}
		others = append(others, m.From)
	}
	if len(others) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range others {
		if sq.Col == move.From.Col {
			sameFile = true
		}
		if sq.Row == move.From.Row {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(move.From.File())
	case !sameRank:
		return string(move.From.Rank())
	default:
		return move.From.String()
	}
}

// ParseSAN resolves algebraic notation against the legal moves of pos.
// It accepts "O-O" and "0-0" castles, captures with or without 'x', and
// promotions written "e8=Q" or "e8Q". Check and annotation marks are
// ignored.
func ParseSAN(pos *chess.Position, text string) (chess.Move, error) {
	san := strings.TrimRight(strings.TrimSpace(text), "+#!?")
	if san == "" {
		return chess.Move{}, fmt.Errorf("empty move: %w", errors.ErrInvalidSAN)
	}

	switch san {
	case "O-O", "0-0":
		return castle(pos, text, 2)
	case "O-O-O", "0-0-0":
		return castle(pos, text, -2)
	}

	kind := chess.Pawn
	if k, ok := chess.KindFromLetter(san[0]); ok && san[0] >= 'A' && san[0] <= 'Z' {
		kind = k
		san = san[1:]
	}

	promotion := chess.None
	if n := len(san); n >= 1 {
		if k, ok := chess.KindFromLetter(san[n-1]); ok && san[n-1] >= 'A' && san[n-1] <= 'Z' {
			if !chess.IsPromotionKind(k) {
				return chess.Move{}, fmt.Errorf("%q promotes to %s: %w", text, k, errors.ErrInvalidSAN)
			}
			promotion = k
			san = strings.TrimSuffix(san[:n-1], "=")
		}
	}

	san = strings.NewReplacer("x", "", ":", "", "-", "").Replace(san)
	if len(san) < 2 {
		return chess.Move{}, fmt.Errorf("no destination in %q: %w", text, errors.ErrInvalidSAN)
	}
	to, ok := chess.ParseSquare(san[len(san)-2:])
	if !ok {
		return chess.Move{}, fmt.Errorf("bad destination in %q: %w", text, errors.ErrInvalidSAN)
	}
	qualifier := san[:len(san)-2]
	if len(qualifier) > 2 {
		return chess.Move{}, fmt.Errorf("bad origin in %q: %w", text, errors.ErrInvalidSAN)
	}

	var matches []chess.Move
	for _, m := range engine.LegalMoves(pos) {
		if m.To != to || m.Promotion != promotion || pos.Get(m.From).Kind != kind {
			continue
		}
		if !matchesQualifier(m.From, qualifier) {
			continue
		}
		matches = append(matches, m)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return chess.Move{}, fmt.Errorf("%q matches no legal move: %w", text, errors.ErrInvalidSAN)
	default:
		return chess.Move{}, fmt.Errorf("%q is ambiguous: %w", text, errors.ErrInvalidSAN)
	}
}

// matchesQualifier reports whether from agrees with an origin file, rank
// or square written before the destination.
func matchesQualifier(from chess.Square, qualifier string) bool {
	for i := 0; i < len(qualifier); i++ {
		c := qualifier[i]
		switch {
		case c >= 'a' && c <= 'h':
			if from.File() != c {
				return false
			}
		case c >= '1' && c <= '8':
			if from.Rank() != c {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// castle returns the castling move of the side to move toward dc.
func castle(pos *chess.Position, text string, dc int) (chess.Move, error) {
	from := pos.KingSquare[pos.ToMove]
	move := chess.NewMove(from, from.Offset(0, dc))
	if !engine.IsLegal(pos, move) {
		return chess.Move{}, fmt.Errorf("%q is not legal here: %w", text, errors.ErrInvalidSAN)
	}
	return move, nil
}
