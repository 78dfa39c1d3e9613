package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	xdraw "golang.org/x/image/draw"
)

// backgroundDPI keeps a rasterised A4 page above 1080p before scaling
const backgroundDPI = 150

// LoadBackground decodes an image or PDF file and stretches it to the
// exact stage size. Aspect ratio is not preserved.
func LoadBackground(path string, width, height int) (*image.RGBA, error) {
	img, err := decode(path)
	if err != nil {
		return nil, fmt.Errorf("background %s: %w", path, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, nil
}

// LoadSprite decodes a character image and scales it to the target
// height, preserving aspect ratio and the alpha channel
func LoadSprite(path string, targetHeight int) (*image.RGBA, error) {
	img, err := decode(path)
	if err != nil {
		return nil, fmt.Errorf("sprite %s: %w", path, err)
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("sprite %s: empty image", path)
	}

	width := b.Dx() * targetHeight / b.Dy()
	if width < 1 {
		width = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, targetHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst, nil
}

func decode(path string) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return renderPDFPage(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

func renderPDFPage(path string) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return doc.ImageDPI(0, backgroundDPI)
}
