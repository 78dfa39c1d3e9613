package render

import (
	"image"
	"image/draw"

	"github.com/skip2/go-qrcode"
)

// OutroCard builds the closing still: the stage background with a QR
// code for the episode link centered on it. The QR side is a third of
// the frame height.
func OutroCard(background *image.RGBA, link string) (*image.RGBA, error) {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	// Image может вернуть код крупнее запрошенного, если размер меньше
	// матрицы, поэтому центруем по фактическим границам
	b := background.Bounds()
	qrImg := qr.Image(b.Dy() / 3)
	qb := qrImg.Bounds()

	dst := image.NewRGBA(b)
	draw.Draw(dst, b, background, b.Min, draw.Src)

	x := b.Min.X + (b.Dx()-qb.Dx())/2
	y := b.Min.Y + (b.Dy()-qb.Dy())/2
	draw.Draw(dst, image.Rect(x, y, x+qb.Dx(), y+qb.Dy()), qrImg, qb.Min, draw.Over)

	return dst, nil
}
