package engine

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	oracle "github.com/notnil/chess"

	"github.com/lgbarn/termchess/internal/chess"
)

// perftPositions are reference positions with well known node counts.
var perftPositions = []struct {
	name  string
	fen   string
	depth int
	nodes int
}{
	{"initial", InitialFEN, 3, 8902},
	{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 2039},
	{"endgame", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 3, 2812},
	{"promotions", "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 2, 264},
	{"discovered", "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 2, 1486},
}

// perft counts the leaf nodes of the legal move tree to the given depth.
func perft(pos *chess.Position, depth int) int {
	if depth == 0 {
		return 1
	}
	moves := LegalMoves(pos)
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, move := range moves {
		next := pos.Copy()
		applyMove(next, move)
		nodes += perft(next, depth-1)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	if testing.Short() {
		t.Skip("perft is slow")
	}
	for _, tt := range perftPositions {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustDecode(t, tt.fen)
			if got := perft(pos, tt.depth); got != tt.nodes {
				t.Errorf("perft(%d) = %d, want %d", tt.depth, got, tt.nodes)
			}
		})
	}
}

// legalMoveNames returns our legal moves as sorted UCI strings.
func legalMoveNames(pos *chess.Position) []string {
	var names []string
	for _, move := range LegalMoves(pos) {
		names = append(names, move.String())
	}
	sort.Strings(names)
	return names
}

// oracleMoveNames returns the oracle's legal moves as sorted UCI strings.
func oracleMoveNames(t *testing.T, fen string) []string {
	t.Helper()
	opt, err := oracle.FEN(fen)
	if err != nil {
		t.Fatalf("oracle rejected %s: %v", fen, err)
	}
	game := oracle.NewGame(opt)
	var names []string
	for _, move := range game.ValidMoves() {
		names = append(names, move.String())
	}
	sort.Strings(names)
	return names
}

// TestLegalMovesMatchOracle walks a few games, comparing the legal move set
// with an independent move generator at every ply.
func TestLegalMovesMatchOracle(t *testing.T) {
	for _, start := range perftPositions {
		t.Run(start.name, func(t *testing.T) {
			pos := mustDecode(t, start.fen)
			for ply := 0; ply < 40; ply++ {
				fen := Encode(pos)
				got := legalMoveNames(pos)
				want := oracleMoveNames(t, fen)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatalf("ply %d, %s: legal moves mismatch (-oracle +ours):\n%s", ply, fen, diff)
				}
				if len(got) == 0 {
					return
				}
				move, err := ParseMoveToken(got[(ply*7+3)%len(got)])
				if err != nil {
					t.Fatalf("ParseMoveToken: %v", err)
				}
				if _, err := MakeMove(pos, move); err != nil {
					t.Fatalf("MakeMove(%s): %v", move, err)
				}
			}
		})
	}
}

func TestInitialLegalMoves(t *testing.T) {
	pos := NewInitialPosition()
	if got := len(LegalMoves(pos)); got != 20 {
		t.Errorf("len(LegalMoves()) = %d, want 20", got)
	}
}

// TestGeneratorSoundness checks every generated square is on the board and
// never holds a friendly piece.
func TestGeneratorSoundness(t *testing.T) {
	for _, tt := range perftPositions {
		pos := mustDecode(t, tt.fen)
		pos.Squares(pos.ToMove, func(from chess.Square, piece chess.Piece) bool {
			for _, to := range PseudoLegalTargets(pos, from) {
				if !to.Valid() {
					t.Errorf("%s: %v from %s generated off-board square %v", tt.name, piece, from, to)
				}
				if pos.Get(to).IsColour(piece.Colour) {
					t.Errorf("%s: %v from %s generated friendly-occupied %s", tt.name, piece, from, to)
				}
			}
			return true
		})
	}
}

func TestPseudoLegalTargets(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		from string
		want []string
	}{
		{
			name: "pawn on start rank",
			fen:  InitialFEN,
			from: "e2",
			want: []string{"e3", "e4"},
		},
		{
			name: "pawn capture and blocked advance",
			fen:  "4k3/8/8/8/8/3pp3/4P3/4K3 w - - 0 1",
			from: "e2",
			want: []string{"d3"},
		},
		{
			name: "knight in the corner",
			fen:  "4k3/8/8/8/8/8/8/N3K3 w - - 0 1",
			from: "a1",
			want: []string{"b3", "c2"},
		},
		{
			name: "rook stops at pieces",
			fen:  "4k3/8/8/8/1p6/8/1R2P3/4K3 w - - 0 1",
			from: "b2",
			want: []string{"b1", "b3", "b4", "a2", "c2", "d2"},
		},
		{
			name: "bishop rays",
			fen:  "4k3/8/8/8/8/2p5/1B6/4K3 w - - 0 1",
			from: "b2",
			want: []string{"a1", "a3", "c1", "c3"},
		},
		{
			name: "en passant beside the target",
			fen:  "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
			from: "e5",
			want: []string{"e6", "d6"},
		},
		{
			name: "piece of the side not to move",
			fen:  InitialFEN,
			from: "e7",
			want: nil,
		},
		{
			name: "empty square",
			fen:  InitialFEN,
			from: "e4",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustDecode(t, tt.fen)
			got := squareNames(PseudoLegalTargets(pos, sq(tt.from)))
			want := append([]string{}, tt.want...)
			sort.Strings(got)
			sort.Strings(want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("PseudoLegalTargets(%s) mismatch (-want +got):\n%s", tt.from, diff)
			}
		})
	}
}

func TestKingCapabilities(t *testing.T) {
	pos := mustDecode(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	adjacent := KingTargets(pos, sq("e1"), KingAdjacency)
	withCastling := KingTargets(pos, sq("e1"), KingAdjacencyWithCastling)

	for _, name := range []string{"g1", "c1"} {
		if containsSquare(adjacent, name) {
			t.Errorf("KingAdjacency produced castle square %s", name)
		}
		if !containsSquare(withCastling, name) {
			t.Errorf("KingAdjacencyWithCastling missing %s", name)
		}
	}
	if len(withCastling) != len(adjacent)+2 {
		t.Errorf("castling added %d squares, want 2", len(withCastling)-len(adjacent))
	}
	if got := KingTargets(pos, sq("a1"), KingAdjacency); got != nil {
		t.Errorf("KingTargets on a rook = %v, want nil", got)
	}
}

func TestIsSquareAttacked(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		sq   string
		by   chess.Colour
		want bool
	}{
		{"pawn attacks diagonally", "4k3/8/8/8/8/8/3P4/4K3 w - - 0 1", "e3", chess.White, true},
		{"pawn does not attack ahead", "4k3/8/8/8/8/8/3P4/4K3 w - - 0 1", "d3", chess.White, false},
		{"black pawn attacks downwards", "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "e4", chess.Black, true},
		{"knight", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", "c3", chess.White, true},
		{"slider blocked", "4k3/8/8/8/8/8/R1P5/7K w - - 0 1", "d2", chess.White, false},
		{"slider through empty squares", "r3k3/8/8/8/8/8/8/4K3 w - - 0 1", "a1", chess.Black, true},
		{"king adjacency", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "d2", chess.White, true},
		{"square off every ray", "4k3/8/8/8/8/8/8/R3K3 b - - 0 1", "e8", chess.White, false},
		{"rook reaches the king", "R3k3/8/8/8/8/8/8/4K3 b - - 0 1", "e8", chess.White, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustDecode(t, tt.fen)
			if got := IsSquareAttacked(pos, sq(tt.sq), tt.by); got != tt.want {
				t.Errorf("IsSquareAttacked(%s, %v) = %v, want %v", tt.sq, tt.by, got, tt.want)
			}
		})
	}
}

func TestAttacks(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to string
		want     bool
	}{
		{"rook defends friendly pawn", "4k3/8/8/8/8/8/R3P3/4K3 w - - 0 1", "a2", "e2", true},
		{"rook blocked", "4k3/8/8/8/8/8/R1P1P3/4K3 w - - 0 1", "a2", "e2", false},
		{"bishop diagonal", "4k3/8/8/8/8/8/1B6/4K3 w - - 0 1", "b2", "h8", true},
		{"bishop off diagonal", "4k3/8/8/8/8/8/1B6/4K3 w - - 0 1", "b2", "b8", false},
		{"queen straight", "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1", "a1", "a8", true},
		{"knight jump", "4k3/8/8/8/8/8/8/1N2K3 w - - 0 1", "b1", "c3", true},
		{"white pawn diagonal", "4k3/8/8/8/8/8/3P4/4K3 w - - 0 1", "d2", "e3", true},
		{"white pawn ahead", "4k3/8/8/8/8/8/3P4/4K3 w - - 0 1", "d2", "d3", false},
		{"black pawn downwards", "4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "d5", "c4", true},
		{"king adjacent", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "e1", "f2", true},
		{"empty square attacks nothing", "4k3/8/8/8/8/8/8/4K3 w - - 0 1", "a1", "a2", false},
		{"piece does not attack itself", "4k3/8/8/8/8/8/8/Q3K3 w - - 0 1", "a1", "a1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustDecode(t, tt.fen)
			if got := Attacks(pos, sq(tt.from), sq(tt.to)); got != tt.want {
				t.Errorf("Attacks(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestLine(t *testing.T) {
	tests := []struct {
		a, b   string
		dr, dc int
		ok     bool
	}{
		{"e1", "e8", -1, 0, true},
		{"e8", "e1", 1, 0, true},
		{"a1", "h8", -1, 1, true},
		{"h1", "a1", 0, -1, true},
		{"c3", "a5", -1, -1, true},
		{"b1", "c3", 0, 0, false},
		{"d4", "d4", 0, 0, false},
	}

	for _, tt := range tests {
		dr, dc, ok := Line(sq(tt.a), sq(tt.b))
		if dr != tt.dr || dc != tt.dc || ok != tt.ok {
			t.Errorf("Line(%s, %s) = %d, %d, %v; want %d, %d, %v", tt.a, tt.b, dr, dc, ok, tt.dr, tt.dc, tt.ok)
		}
	}
}
