// Package render draws board snapshots as PNG images.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strconv"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"checkers-local/types"
)

const (
	DefaultSquareSize = 64
	minSquareSize     = 16
)

// Options controls the output image.
type Options struct {
	// SquareSize is the side of one board square in pixels. Zero means DefaultSquareSize.
	SquareSize int
	// Width scales the finished image to this width, keeping the aspect ratio. Zero keeps the native size.
	Width int
	// Coordinates draws file letters and rank numbers in a margin around the board.
	Coordinates bool
}

var (
	lightSquare      = color.RGBA{233, 207, 163, 255}
	darkSquare       = color.RGBA{148, 98, 62, 255}
	marginColor      = color.RGBA{40, 33, 28, 255}
	coordinateColor  = color.RGBA{214, 196, 160, 255}
	lastMoveFill     = color.NRGBA{R: 255, G: 228, B: 120, A: 110}
	selectedFill     = color.NRGBA{R: 90, G: 200, B: 110, A: 150}
	destinationFill  = color.NRGBA{R: 60, G: 170, B: 90, A: 140}
	captureFill      = color.NRGBA{R: 210, G: 50, B: 40, A: 150}
	errNilBoardState = errors.New("board state is nil")
)

// ImageSize returns the native pixel size RenderPNG produces for opts before scaling.
func ImageSize(opts Options) (int, int) {
	sq, margin := layout(opts)
	side := sq*types.BoardSize + margin*2
	return side, side
}

func layout(opts Options) (square, margin int) {
	square = opts.SquareSize
	if square <= 0 {
		square = DefaultSquareSize
	}
	if square < minSquareSize {
		square = minSquareSize
	}
	if opts.Coordinates {
		margin = square / 2
	}
	return square, margin
}

// RenderPNG draws state and encodes it as PNG.
func RenderPNG(ctx context.Context, state *types.BoardState, opts Options) ([]byte, error) {
	img, err := Render(ctx, state, opts)
	if err != nil {
		return nil, err
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

// Render draws state into a new image.
func Render(ctx context.Context, state *types.BoardState, opts Options) (image.Image, error) {
	if state == nil {
		return nil, errNilBoardState
	}
	if state.Height() != types.BoardSize || state.Width() != types.BoardSize {
		return nil, fmt.Errorf("board must be %dx%d, got %dx%d", types.BoardSize, types.BoardSize, state.Height(), state.Width())
	}

	square, margin := layout(opts)
	w, h := ImageSize(opts)
	origin := image.Pt(margin, margin)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(marginColor), image.Point{}, imagedraw.Src)

	drawSquares(img, square, origin)
	drawOverlays(img, state, square, origin)
	if err := drawPieces(img, state, square, origin); err != nil {
		return nil, err
	}
	if opts.Coordinates {
		drawCoordinates(img, square, origin)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if opts.Width > 0 && opts.Width != w {
		return scale(img, opts.Width), nil
	}
	return img, nil
}

func scale(src *image.RGBA, width int) *image.RGBA {
	b := src.Bounds()
	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func squareRect(p types.Pos, square int, origin image.Point) image.Rectangle {
	x := origin.X + p.Col*square
	y := origin.Y + p.Row*square
	return image.Rect(x, y, x+square, y+square)
}

func squareColor(p types.Pos) color.Color {
	if p.Playable() {
		return darkSquare
	}
	return lightSquare
}

func drawSquares(dst imagedraw.Image, square int, origin image.Point) {
	for row := 0; row < types.BoardSize; row++ {
		for col := 0; col < types.BoardSize; col++ {
			p := types.Pos{Row: row, Col: col}
			imagedraw.Draw(dst, squareRect(p, square, origin), image.NewUniform(squareColor(p)), image.Point{}, imagedraw.Src)
		}
	}
}

func drawOverlays(dst imagedraw.Image, state *types.BoardState, square int, origin image.Point) {
	if state.LastMove != nil {
		fillSquare(dst, *state.LastMove, square, origin, lastMoveFill)
	}
	if state.Selected != nil {
		fillSquare(dst, *state.Selected, square, origin, selectedFill)
	}
	for _, m := range state.Moves {
		fillSquare(dst, m.To(), square, origin, destinationFill)
		if m.Capture != nil {
			fillSquare(dst, *m.Capture, square, origin, captureFill)
		}
	}
}

func fillSquare(dst imagedraw.Image, p types.Pos, square int, origin image.Point, clr color.Color) {
	if !p.OnBoard() {
		return
	}
	imagedraw.Draw(dst, squareRect(p, square, origin), image.NewUniform(clr), image.Point{}, imagedraw.Over)
}

func drawPieces(dst imagedraw.Image, state *types.BoardState, square int, origin image.Point) error {
	inset := square / 10
	for row, cells := range state.Board {
		for col, c := range cells {
			if c == types.NoColor {
				continue
			}
			piece, err := pieceImage(c, square-inset*2)
			if err != nil {
				return err
			}
			r := squareRect(types.Pos{Row: row, Col: col}, square, origin).Inset(inset)
			imagedraw.Draw(dst, r, piece, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawCoordinates(dst imagedraw.Image, square int, origin image.Point) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(coordinateColor),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	margin := origin.X
	boardEnd := origin.Y + types.BoardSize*square

	for i := 0; i < types.BoardSize; i++ {
		center := i*square + square/2
		file := string(rune('a' + i))
		rank := strconv.Itoa(types.BoardSize - i)

		drawCenteredText(drawer, file, origin.X+center, origin.Y-margin/2+ascent/2)
		drawCenteredText(drawer, file, origin.X+center, boardEnd+margin/2+ascent/2)
		drawCenteredText(drawer, rank, margin/2, origin.Y+center+ascent/2)
		drawCenteredText(drawer, rank, boardEnd+margin/2, origin.Y+center+ascent/2)
	}
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}
