package subtitle

import (
	"image"
	"image/color"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

const (
	// sizeFloor is the smallest font size the fitting loop will try.
	// Below it the line count is allowed to grow unbounded.
	sizeFloor = 20

	// sizeStep is how much the fitting loop shrinks per attempt
	sizeStep = 2

	// maxLines is the tallest block the fitting loop accepts
	maxLines = 3

	// sideMargin is reserved horizontal space (50px each side)
	sideMargin = 100

	// outlineWidth is the stroke radius drawn around the fill
	outlineWidth = 2
)

// Engine lays out subtitle text and rasterises it onto a transparent
// canvas. A nil font falls back to the builtin bitmap face, so an
// engine always renders something.
type Engine struct {
	mu   sync.Mutex
	font *sfnt.Font
}

// NewEngine creates a subtitle engine around a parsed font.
// Pass nil to use the builtin bitmap face.
func NewEngine(fnt *sfnt.Font) *Engine {
	return &Engine{font: fnt}
}

// LoadFont reads and parses a TTF/OTF file
func LoadFont(path string) (*sfnt.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return opentype.Parse(data)
}

// Render fits text into the frame and draws it centered, white fill
// over a black outline. It returns the full-size transparent canvas
// plus the rectangle that actually received ink, so compositing can
// skip the empty remainder. Empty text yields an empty rectangle.
// Safe for concurrent use.
func (e *Engine) Render(width, height int, text string, baseSize int) (*image.RGBA, image.Rectangle) {
	e.mu.Lock()
	defer e.mu.Unlock()

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))

	text = strings.TrimSpace(text)
	if text == "" {
		return canvas, image.Rectangle{}
	}

	face, lines := e.fit(text, width-sideMargin, baseSize)

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()
	ascent := metrics.Ascent.Ceil()

	blockWidth := 0
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > blockWidth {
			blockWidth = w
		}
	}
	blockHeight := lineHeight * len(lines)

	blockX := (width - blockWidth) / 2
	blockY := (height - blockHeight) / 2

	drawPass := func(dx, dy int, col color.Color) {
		drawer := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(col),
			Face: face,
		}
		for i, line := range lines {
			lineWidth := font.MeasureString(face, line).Ceil()
			x := blockX + (blockWidth-lineWidth)/2 + dx
			y := blockY + ascent + i*lineHeight + dy
			drawer.Dot = fixed.P(x, y)
			drawer.DrawString(line)
		}
	}

	// Outline: black at every offset in the square, then the fill on top
	for dy := -outlineWidth; dy <= outlineWidth; dy++ {
		for dx := -outlineWidth; dx <= outlineWidth; dx++ {
			drawPass(dx, dy, color.Black)
		}
	}
	drawPass(0, 0, color.White)

	// Glyphs can overhang their advance widths a little, so the ink
	// box carries extra padding before clamping to the canvas
	box := image.Rect(
		blockX-outlineWidth-2,
		blockY-outlineWidth-2,
		blockX+blockWidth+outlineWidth+2,
		blockY+blockHeight+outlineWidth+2,
	).Intersect(canvas.Bounds())

	return canvas, box
}

// fit finds the largest size at or below baseSize whose wrapped text
// fits in maxLines. When even the floor overflows, the floor wins and
// the extra lines stay.
func (e *Engine) fit(text string, budget, baseSize int) (font.Face, []string) {
	if baseSize < sizeFloor {
		baseSize = sizeFloor
	}

	var face font.Face
	var lines []string
	for size := baseSize; size >= sizeFloor; size -= sizeStep {
		face = e.face(size)
		lines = wrap(face, text, budget)
		if len(lines) <= maxLines {
			break
		}
	}
	return face, lines
}

// face builds a concrete face for one size, falling back to the
// builtin bitmap face when no font is loaded
func (e *Engine) face(size int) font.Face {
	if e.font == nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(e.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// wrap breaks text into lines no wider than budget, greedy by word.
// A single word wider than the budget still gets its own line.
func wrap(face font.Face, text string, budget int) []string {
	words := strings.Fields(text)

	var lines []string
	var current []string
	for _, word := range words {
		candidate := word
		if len(current) > 0 {
			candidate = strings.Join(current, " ") + " " + word
		}

		if font.MeasureString(face, candidate).Ceil() <= budget || len(current) == 0 {
			current = append(current, word)
		} else {
			lines = append(lines, strings.Join(current, " "))
			current = []string{word}
		}
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}

	return lines
}
