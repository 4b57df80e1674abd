package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			topColor := r.GetPixel(col, topY)
			botColor := r.GetPixel(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(topColor),
					Bg: rgbaToColor(botColor),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGreen  = color.RGBA{0, 255, 0, 255}
	ColorBlue   = color.RGBA{0, 0, 255, 255}
	ColorYellow = color.RGBA{255, 255, 0, 255}
	ColorGray   = color.RGBA{128, 128, 128, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// TerminalRenderer presents framebuffers on a terminal using half-block
// cells, so each character cell carries two vertically stacked pixels.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int // columns
	height int // rows
}

// NewTerminalRenderer creates a renderer for the given terminal size.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height}
}

// FramebufferSize returns the pixel dimensions a framebuffer must have to
// fill this renderer's terminal area.
func (tr *TerminalRenderer) FramebufferSize() (width, height int) {
	return tr.width, tr.height * 2
}

// Render converts fb to cells on the underlying terminal. The cells are
// not shown until Flush is called.
func (tr *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(tr.term, uv.Rect(0, 0, tr.width, tr.height))
}

// Flush sends the prepared cells to the terminal.
func (tr *TerminalRenderer) Flush() error {
	return tr.term.Display()
}
