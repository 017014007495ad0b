package shell

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/lgbarn/termchess/internal/chess"
)

// Board colours.
var (
	lightBg     = tcell.NewRGBColor(0xf0, 0xd9, 0xb5)
	darkBg      = tcell.NewRGBColor(0xb5, 0x88, 0x63)
	highlightBg = tcell.NewRGBColor(0x9a, 0xc8, 0x7c)
	lastMoveBg  = tcell.NewRGBColor(0xcd, 0xd2, 0x6a)
	whiteFg     = tcell.NewRGBColor(0xff, 0xff, 0xff)
	blackFg     = tcell.NewRGBColor(0x00, 0x00, 0x00)
)

// Screen layout.
const (
	boardLeft   = 3
	boardTop    = 2
	cellWidth   = 3
	sideLeft    = boardLeft + chess.BoardSize*cellWidth + 4
	statusRow   = boardTop + chess.BoardSize + 2
	messageRow  = statusRow + 2
	inputPrompt = "> "
)

// Terminal renders a Session on a tcell screen and feeds it typed lines.
type Terminal struct {
	screen  tcell.Screen
	session *Session

	input     []rune
	message   string
	status    string
	highlight []chess.Square
}

// NewTerminal creates a terminal front end. The screen must already be
// initialised.
func NewTerminal(screen tcell.Screen, session *Session) *Terminal {
	t := &Terminal{screen: screen, session: session}
	t.message = session.cmdTitle(nil).Message + "\nType 'help' for commands."

	// An empty line lets the engine open when it plays White.
	resp := session.Execute("")
	if resp.Message != "" {
		t.message += "\n" + resp.Message
	}
	t.status = resp.Status
	t.highlight = resp.Highlight
	return t
}

// Run draws the board and processes events until the user quits.
func (t *Terminal) Run() {
	t.Draw()
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.screen.Sync()
			t.Draw()
		case *tcell.EventKey:
			if t.HandleKey(ev) {
				return
			}
			t.Draw()
		}
	}
}

// HandleKey applies one key press and reports whether to quit.
func (t *Terminal) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		line := string(t.input)
		t.input = t.input[:0]
		resp := t.session.Execute(line)
		t.message = resp.Message
		t.status = resp.Status
		t.highlight = resp.Highlight
		return resp.Quit
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(t.input) > 0 {
			t.input = t.input[:len(t.input)-1]
		}
	case tcell.KeyRune:
		t.input = append(t.input, ev.Rune())
	}
	return false
}

// Draw renders the whole screen.
func (t *Terminal) Draw() {
	t.screen.Clear()
	pos := t.session.Position()

	title := "termchess"
	if name := t.session.EngineName(); name != "" {
		title += " vs " + name
	}
	t.text(boardLeft, 0, title, tcell.StyleDefault.Bold(true))

	t.drawBoard(pos)
	t.drawCaptured(pos)

	t.text(0, statusRow, t.status, tcell.StyleDefault.Bold(true))
	for i, line := range strings.Split(t.message, "\n") {
		t.text(0, messageRow+i, line, tcell.StyleDefault)
	}

	_, height := t.screen.Size()
	prompt := inputPrompt + string(t.input)
	t.text(0, height-1, prompt, tcell.StyleDefault)
	t.screen.ShowCursor(len(prompt), height-1)
	t.screen.Show()
}

// drawBoard draws the squares with rank and file labels, from the human
// player's side.
func (t *Terminal) drawBoard(pos *chess.Position) {
	flipped := t.session.HumanColour() == chess.Black
	last, hasLast := t.session.LastMove()

	for screenRow := 0; screenRow < chess.BoardSize; screenRow++ {
		for screenCol := 0; screenCol < chess.BoardSize; screenCol++ {
			sq := chess.Square{Row: screenRow, Col: screenCol}
			if flipped {
				sq = chess.Square{Row: chess.BoardSize - 1 - screenRow, Col: chess.BoardSize - 1 - screenCol}
			}

			bg := darkBg
			if (sq.Row+sq.Col)%2 == 0 {
				bg = lightBg
			}
			if hasLast && (sq == last.From || sq == last.To) {
				bg = lastMoveBg
			}
			if t.highlighted(sq) {
				bg = highlightBg
			}
			style := tcell.StyleDefault.Background(bg)

			glyph := ' '
			if piece := pos.Get(sq); !piece.IsEmpty() {
				glyph = rune(piece.Kind.Letter())
				fg := blackFg
				if piece.Colour == chess.White {
					fg = whiteFg
				}
				style = style.Foreground(fg).Bold(true)
			}

			x := boardLeft + screenCol*cellWidth
			y := boardTop + screenRow
			t.screen.SetContent(x, y, ' ', nil, style)
			t.screen.SetContent(x+1, y, glyph, nil, style)
			t.screen.SetContent(x+2, y, ' ', nil, style)

			if screenCol == 0 {
				t.screen.SetContent(boardLeft-2, y, rune(sq.Rank()), nil, tcell.StyleDefault)
			}
			if screenRow == chess.BoardSize-1 {
				t.screen.SetContent(x+1, y+1, rune(sq.File()), nil, tcell.StyleDefault)
			}
		}
	}
}

// drawCaptured lists the pieces each side has taken.
func (t *Terminal) drawCaptured(pos *chess.Position) {
	for i, c := range []chess.Colour{chess.White, chess.Black} {
		var sb strings.Builder
		sb.WriteString(c.String())
		sb.WriteString(" captured:")
		for _, p := range pos.Captured[c] {
			sb.WriteByte(' ')
			sb.WriteByte(p.Letter())
		}
		t.text(sideLeft, boardTop+i, sb.String(), tcell.StyleDefault)
	}
	t.text(sideLeft, boardTop+3, "Move "+strconv.Itoa(pos.FullmoveNumber)+", "+pos.ToMove.String()+" to play", tcell.StyleDefault)
}

func (t *Terminal) highlighted(sq chess.Square) bool {
	for _, h := range t.highlight {
		if h == sq {
			return true
		}
	}
	return false
}

// text writes s starting at (x, y).
func (t *Terminal) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}
