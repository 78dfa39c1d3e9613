package render

import (
	"image"
	"image/draw"

	"github.com/rezapratama/dialog2video/internal/motion"
	"github.com/rezapratama/dialog2video/internal/script"
	"github.com/rezapratama/dialog2video/internal/subtitle"
)

// Scene is the static stage material shared by every turn: the
// pre-scaled background and the two character sprites
type Scene struct {
	Background *image.RGBA
	Sprite1    *image.RGBA
	Sprite2    *image.RGBA
	Margin     int
}

// Turn renders the frames of one dialogue turn. The subtitle raster is
// computed once at construction; Frame is then a pure function of t,
// so frames can be produced in any order and identical inputs yield
// byte-identical pixels.
type Turn struct {
	scene       Scene
	speaking    int
	events      []script.Event
	subtitle    *image.RGBA
	subtitleBox image.Rectangle
}

// NewTurn lays out the subtitle for one turn and captures everything
// Frame needs. speaking selects which sprite sways with the dialogue,
// 1 (left) or 2 (right).
func NewTurn(scene Scene, text string, speaking int, events []script.Event, subs *subtitle.Engine, baseFontSize int) *Turn {
	b := scene.Background.Bounds()
	sub, box := subs.Render(b.Dx(), b.Dy(), text, baseFontSize)

	return &Turn{
		scene:       scene,
		speaking:    speaking,
		events:      events,
		subtitle:    sub,
		subtitleBox: box,
	}
}

// Frame composites the frame at time t (seconds from the start of the
// turn) into dst. dst must match the background dimensions exactly.
func (r *Turn) Frame(t float64, dst *image.RGBA) {
	bounds := r.scene.Background.Bounds()

	// Stage background, full replace
	copy(dst.Pix, r.scene.Background.Pix)

	offset := motion.Offset(t, motion.At(r.events, t))

	// Both sprites sit on the frame bottom; only the speaker sways
	x1 := r.scene.Margin
	x2 := bounds.Dx() - r.scene.Sprite2.Bounds().Dx() - r.scene.Margin
	if r.speaking == 1 {
		x1 += offset
	} else {
		x2 += offset
	}

	drawSprite(dst, r.scene.Sprite1, x1, bounds.Dy()-r.scene.Sprite1.Bounds().Dy())
	drawSprite(dst, r.scene.Sprite2, x2, bounds.Dy()-r.scene.Sprite2.Bounds().Dy())

	// Hard alpha test: wherever the subtitle has ink, its RGB is
	// copied verbatim and the pixel forced opaque. No blending.
	for y := r.subtitleBox.Min.Y; y < r.subtitleBox.Max.Y; y++ {
		so := r.subtitle.PixOffset(r.subtitleBox.Min.X, y)
		do := dst.PixOffset(r.subtitleBox.Min.X, y)
		for x := r.subtitleBox.Min.X; x < r.subtitleBox.Max.X; x++ {
			if r.subtitle.Pix[so+3] != 0 {
				dst.Pix[do+0] = r.subtitle.Pix[so+0]
				dst.Pix[do+1] = r.subtitle.Pix[so+1]
				dst.Pix[do+2] = r.subtitle.Pix[so+2]
				dst.Pix[do+3] = 255
			}
			so += 4
			do += 4
		}
	}
}

// drawSprite composites a sprite through its own alpha channel
func drawSprite(dst *image.RGBA, sprite *image.RGBA, x, y int) {
	sb := sprite.Bounds()
	draw.Draw(dst, image.Rect(x, y, x+sb.Dx(), y+sb.Dy()), sprite, sb.Min, draw.Over)
}
