package cql

import (
	"strconv"
	"strings"

	"github.com/lgbarn/termchess/internal/chess"
	"github.com/lgbarn/termchess/internal/engine"
)

// pieceValues are the usual material values indexed by Kind.
var pieceValues = [...]int{chess.Pawn: 1, chess.Knight: 3, chess.Bishop: 3, chess.Rook: 5, chess.Queen: 9, chess.King: 0}

// Evaluator evaluates a query against one position of a game. Designators
// are assumed valid; Compile checks them.
type Evaluator struct {
	pos  *chess.Position
	game *chess.Game // nil when only a position is known
	ply  int
}

// NewEvaluator creates an evaluator for the position reached after ply
// half-moves of game. game may be nil.
func NewEvaluator(pos *chess.Position, game *chess.Game, ply int) *Evaluator {
	return &Evaluator{pos: pos, game: game, ply: ply}
}

// Evaluate reports whether the position satisfies node. Numeric filters
// hold when non-zero.
func (e *Evaluator) Evaluate(node Node) bool {
	switch n := node.(type) {
	case *LogicalNode:
		return e.evalLogical(n)
	case *ComparisonNode:
		return compare(n.Op, e.Number(n.Left), e.Number(n.Right))
	case *FilterNode:
		if filters[n.Name].numeric {
			return e.Number(n) != 0
		}
		return e.evalFilter(n)
	case *NumberNode:
		return n.Value != 0
	}
	return false
}

func (e *Evaluator) evalLogical(l *LogicalNode) bool {
	switch l.Op {
	case "and":
		for _, child := range l.Children {
			if !e.Evaluate(child) {
				return false
			}
		}
		return true
	case "or":
		for _, child := range l.Children {
			if e.Evaluate(child) {
				return true
			}
		}
		return false
	case "not":
		return !e.Evaluate(l.Children[0])
	}
	return false
}

func compare(op string, left, right int) bool {
	switch op {
	case "<":
		return left < right
	case ">":
		return left > right
	case "<=":
		return left <= right
	case ">=":
		return left >= right
	case "==":
		return left == right
	}
	return false
}

func (e *Evaluator) evalFilter(f *FilterNode) bool {
	switch f.Name {
	case "piece":
		return e.evalPiece(f.Args[0], f.Args[1])
	case "attack":
		return e.evalAttack(f.Args[0], f.Args[1])
	case "pin":
		return e.evalPin(f.Args[0], f.Args[1], f.Args[2])
	case "between":
		return e.evalBetween(f.Args[0], f.Args[1])
	case "check":
		return engine.IsInCheck(e.pos, e.pos.ToMove)
	case "mate":
		return engine.IsCheckmate(e.pos, e.pos.ToMove)
	case "stalemate":
		return engine.IsStalemate(e.pos, e.pos.ToMove)
	case "wtm":
		return e.pos.ToMove == chess.White
	case "btm":
		return e.pos.ToMove == chess.Black
	case "flip":
		return e.Evaluate(f.Args[0]) || e.transformed(mirrorFiles(e.pos)).Evaluate(f.Args[0])
	case "flipcolor":
		return e.Evaluate(f.Args[0]) || e.transformed(swapColours(e.pos)).Evaluate(f.Args[0])
	case "result":
		return e.game != nil && e.game.Result() == stringArg(f.Args[0])
	case "player":
		return e.evalPlayer(stringArg(f.Args[0]))
	}
	return false
}

// Number evaluates a numeric node.
func (e *Evaluator) Number(node Node) int {
	switch n := node.(type) {
	case *NumberNode:
		return n.Value
	case *FilterNode:
		switch n.Name {
		case "count":
			return e.count(pieces(n.Args[0]))
		case "material":
			return e.material(colourArg(n.Args[0]))
		case "elo":
			return e.elo(colourArg(n.Args[0]))
		case "year":
			return e.year()
		case "ply":
			return e.ply
		}
	}
	return 0
}

func (e *Evaluator) transformed(pos *chess.Position) *Evaluator {
	return &Evaluator{pos: pos, game: e.game, ply: e.ply}
}

func (e *Evaluator) evalPiece(pieceArg, squareArg Node) bool {
	set := pieces(pieceArg)
	for _, sq := range squares(squareArg) {
		if set.Contains(e.pos.Get(sq)) {
			return true
		}
	}
	return false
}

// targets returns the squares named by a square designator or holding a
// piece that fits a piece designator.
func (e *Evaluator) targets(node Node) []chess.Square {
	if _, ok := node.(*SquareNode); ok {
		return squares(node)
	}
	return e.occupied(pieces(node))
}

// occupied returns the non-empty squares whose piece fits set.
func (e *Evaluator) occupied(set pieceSet) []chess.Square {
	var found []chess.Square
	for _, sq := range allSquares() {
		if piece := e.pos.Get(sq); !piece.IsEmpty() && set.Contains(piece) {
			found = append(found, sq)
		}
	}
	return found
}

func (e *Evaluator) evalAttack(attackerArg, targetArg Node) bool {
	attackers := e.occupied(pieces(attackerArg))
	for _, to := range e.targets(targetArg) {
		for _, from := range attackers {
			if engine.Attacks(e.pos, from, to) {
				return true
			}
		}
	}
	return false
}

// evalPin reports whether a piece fitting pinnedArg stands between a piece
// fitting toArg and a line piece fitting pinnerArg that would otherwise
// attack it.
func (e *Evaluator) evalPin(pinnedArg, pinnerArg, toArg Node) bool {
	pinners := pieces(pinnerArg)
	for _, pinned := range e.occupied(pieces(pinnedArg)) {
		for _, target := range e.occupied(pieces(toArg)) {
			if e.isPinned(pinned, target, pinners) {
				return true
			}
		}
	}
	return false
}

func (e *Evaluator) isPinned(pinned, target chess.Square, pinners pieceSet) bool {
	dr, dc, ok := engine.Line(target, pinned)
	if !ok || !e.clearBetween(target, pinned) {
		return false
	}
	for sq := pinned.Offset(dr, dc); sq.Valid(); sq = sq.Offset(dr, dc) {
		piece := e.pos.Get(sq)
		if piece.IsEmpty() {
			continue
		}
		if !pinners.Contains(piece) {
			return false
		}
		diagonal := dr != 0 && dc != 0
		switch piece.Kind {
		case chess.Queen:
			return true
		case chess.Bishop:
			return diagonal
		case chess.Rook:
			return !diagonal
		}
		return false
	}
	return false
}

// evalBetween reports whether two squares share a line with at least one
// square between them, all empty.
func (e *Evaluator) evalBetween(a, b Node) bool {
	for _, from := range squares(a) {
		for _, to := range squares(b) {
			dr, dc, ok := engine.Line(from, to)
			if ok && from.Offset(dr, dc) != to && e.clearBetween(from, to) {
				return true
			}
		}
	}
	return false
}

// clearBetween reports whether every square strictly between two aligned
// squares is empty.
func (e *Evaluator) clearBetween(from, to chess.Square) bool {
	dr, dc, _ := engine.Line(from, to)
	for sq := from.Offset(dr, dc); sq != to; sq = sq.Offset(dr, dc) {
		if !e.pos.IsEmpty(sq) {
			return false
		}
	}
	return true
}

func (e *Evaluator) count(set pieceSet) int {
	n := 0
	for _, sq := range allSquares() {
		if set.Contains(e.pos.Get(sq)) {
			n++
		}
	}
	return n
}

func (e *Evaluator) material(colour chess.Colour) int {
	total := 0
	for _, sq := range allSquares() {
		if piece := e.pos.Get(sq); piece.IsColour(colour) {
			total += pieceValues[piece.Kind]
		}
	}
	return total
}

func (e *Evaluator) evalPlayer(name string) bool {
	if e.game == nil {
		return false
	}
	name = strings.ToLower(name)
	return strings.Contains(strings.ToLower(e.game.White()), name) ||
		strings.Contains(strings.ToLower(e.game.Black()), name)
}

func (e *Evaluator) elo(colour chess.Colour) int {
	if e.game == nil {
		return 0
	}
	tag := "BlackElo"
	if colour == chess.White {
		tag = "WhiteElo"
	}
	elo, _ := strconv.Atoi(e.game.GetTag(tag))
	return elo
}

// year returns the year of the Date tag, or 0.
func (e *Evaluator) year() int {
	if e.game == nil {
		return 0
	}
	date := e.game.GetTag("Date")
	if len(date) < 4 {
		return 0
	}
	year, _ := strconv.Atoi(date[:4])
	return year
}

func pieces(node Node) pieceSet {
	if p, ok := node.(*PieceNode); ok {
		set, _ := parsePieceSet(p.Designator)
		return set
	}
	return ""
}

func squares(node Node) []chess.Square {
	if s, ok := node.(*SquareNode); ok {
		set, _ := parseSquareSet(s.Designator)
		return set
	}
	return nil
}

func stringArg(node Node) string {
	if s, ok := node.(*StringNode); ok {
		return s.Value
	}
	return ""
}

func colourArg(node Node) chess.Colour {
	if f, ok := node.(*FilterNode); ok && f.Name == "black" {
		return chess.Black
	}
	return chess.White
}
