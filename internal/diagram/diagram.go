// Package diagram draws board positions as SVG or PNG images.
package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lgbarn/termchess/internal/chess"
)

// Square colours.
const (
	lightSquare = "#f0d9b5"
	darkSquare  = "#b58863"
	highlight   = "#9ac87c"
	background  = "#ffffff"
	labelColour = "#404040"
)

// Options controls diagram layout.
type Options struct {
	// SquareSize is the width of one square in pixels.
	SquareSize int

	// Flipped draws the board from Black's side.
	Flipped bool

	// Coordinates adds file letters and rank numbers around the board.
	Coordinates bool

	// Highlight lists squares to tint, such as a piece's legal targets.
	Highlight []chess.Square
}

// DefaultOptions returns a 48 pixel board with coordinates.
func DefaultOptions() Options {
	return Options{SquareSize: 48, Coordinates: true}
}

// layout holds the derived geometry of a diagram.
type layout struct {
	opts   Options
	margin int
	size   int
}

func newLayout(opts Options) layout {
	if opts.SquareSize <= 0 {
		opts.SquareSize = DefaultOptions().SquareSize
	}
	l := layout{opts: opts}
	if opts.Coordinates {
		l.margin = opts.SquareSize / 2
	}
	l.size = chess.BoardSize*opts.SquareSize + 2*l.margin
	return l
}

// origin returns the top-left pixel of sq.
func (l layout) origin(sq chess.Square) (int, int) {
	row, col := sq.Row, sq.Col
	if l.opts.Flipped {
		row, col = chess.BoardSize-1-row, chess.BoardSize-1-col
	}
	return l.margin + col*l.opts.SquareSize, l.margin + row*l.opts.SquareSize
}

// centre returns the centre pixel of sq.
func (l layout) centre(sq chess.Square) (int, int) {
	x, y := l.origin(sq)
	half := l.opts.SquareSize / 2
	return x + half, y + half
}

func (l layout) highlighted(sq chess.Square) bool {
	for _, h := range l.opts.Highlight {
		if h == sq {
			return true
		}
	}
	return false
}

// WriteSVG draws pos as an SVG document.
func WriteSVG(w io.Writer, pos *chess.Position, opts Options) error {
	return writeSVG(w, pos, newLayout(opts), true)
}

// writeSVG draws the board. Piece letters are drawn as SVG text only when
// withText is set; the rasteriser cannot render text.
func writeSVG(w io.Writer, pos *chess.Position, l layout, withText bool) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(l.size, l.size, 0, 0, l.size, l.size)
	canvas.Title("FEN board")
	canvas.Rect(0, 0, l.size, l.size, "fill:"+background)

	sqSize := l.opts.SquareSize
	radius := sqSize * 2 / 5
	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			sq := chess.Square{Row: row, Col: col}
			x, y := l.origin(sq)

			fill := darkSquare
			if (row+col)%2 == 0 {
				fill = lightSquare
			}
			if l.highlighted(sq) {
				fill = highlight
			}
			canvas.Rect(x, y, sqSize, sqSize, "fill:"+fill)

			piece := pos.Get(sq)
			if piece.IsEmpty() {
				continue
			}
			cx, cy := l.centre(sq)
			body, ink := pieceColours(piece.Colour)
			canvas.Circle(cx, cy, radius, fmt.Sprintf("fill:%s;stroke:#000000;stroke-width:1", body))
			if withText {
				canvas.Text(cx, cy+sqSize/8, string(piece.Kind.Letter()),
					fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-weight:bold;font-size:%dpx;fill:%s", sqSize/3, ink))
			}
		}
	}

	if l.opts.Coordinates && withText {
		style := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:%s", sqSize/4, labelColour)
		for i := 0; i < chess.BoardSize; i++ {
			file := chess.Square{Row: chess.BoardSize - 1, Col: i}
			x, _ := l.centre(file)
			canvas.Text(x, l.size-l.margin/3, string(file.File()), style)

			rank := chess.Square{Row: i, Col: 0}
			_, y := l.centre(rank)
			canvas.Text(l.margin/2, y+sqSize/12, string(rank.Rank()), style)
		}
	}

	canvas.End()
	return ew.err
}

// pieceColours returns the body and letter colours for a side.
func pieceColours(c chess.Colour) (body, ink string) {
	if c == chess.White {
		return "#fafafa", "#000000"
	}
	return "#202020", "#ffffff"
}

// WritePNG rasterises the diagram and overlays piece letters and
// coordinates with a bitmap font.
func WritePNG(w io.Writer, pos *chess.Position, opts Options) error {
	l := newLayout(opts)

	var buf bytes.Buffer
	if err := writeSVG(&buf, pos, l, false); err != nil {
		return err
	}
	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("parsing board SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(l.size), float64(l.size))

	rgba := image.NewRGBA(image.Rect(0, 0, l.size, l.size))
	scanner := rasterx.NewScannerGV(l.size, l.size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(l.size, l.size, scanner)
	icon.Draw(raster, 1.0)

	drawLabels(rgba, pos, l)
	return png.Encode(w, rgba)
}

// drawLabels writes piece letters and coordinates onto img.
func drawLabels(img *image.RGBA, pos *chess.Position, l layout) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Face: face}
	glyphW := face.Advance
	glyphH := face.Ascent

	put := func(cx, cy int, text string, c color.Color) {
		d.Src = image.NewUniform(c)
		width := glyphW * len(text)
		d.Dot = fixed.P(cx-width/2, cy+glyphH/2)
		d.DrawString(text)
	}

	for row := 0; row < chess.BoardSize; row++ {
		for col := 0; col < chess.BoardSize; col++ {
			sq := chess.Square{Row: row, Col: col}
			piece := pos.Get(sq)
			if piece.IsEmpty() {
				continue
			}
			cx, cy := l.centre(sq)
			_, ink := pieceColours(piece.Colour)
			put(cx, cy, string(piece.Kind.Letter()), parseHex(ink))
		}
	}

	if !l.opts.Coordinates {
		return
	}
	label := parseHex(labelColour)
	for i := 0; i < chess.BoardSize; i++ {
		file := chess.Square{Row: chess.BoardSize - 1, Col: i}
		x, _ := l.centre(file)
		put(x, l.size-l.margin/2, string(file.File()), label)

		rank := chess.Square{Row: i, Col: 0}
		_, y := l.centre(rank)
		put(l.margin/2, y, string(rank.Rank()), label)
	}
}

// parseHex converts "#rrggbb" to a colour.
func parseHex(s string) color.RGBA {
	var r, g, b uint8
	fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// errWriter records the first write error; svgo ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
