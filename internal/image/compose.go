package imagepkg

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Card holds the per-request inputs of the compositor.
type Card struct {
	Photo        *image.NRGBA
	QR           *image.NRGBA
	DisplayName  string
	ContestTitle string
}

// Compose draws the voting card onto a copy of the template, in order:
// masked photo, name, contest title, QR code. The shared template is never
// written to.
func (a *Assets) Compose(layout Layout, card Card) (*image.NRGBA, error) {
	if card.Photo == nil || card.QR == nil {
		return nil, fmt.Errorf("compose: photo and qr are required")
	}
	if got := card.Photo.Bounds().Size(); got != layout.PhotoRect().Size() {
		return nil, fmt.Errorf("compose: photo is %v, layout wants %v", got, layout.PhotoRect().Size())
	}
	if got := card.QR.Bounds().Size(); got != layout.QRRect.Size() {
		return nil, fmt.Errorf("compose: qr is %v, layout wants %v", got, layout.QRRect.Size())
	}

	canvas := imaging.Clone(a.Template)
	canvas = imaging.Overlay(canvas, card.Photo, layout.PhotoOrigin, 1.0)

	if err := drawCentered(canvas, a.NameFont, layout.NameSize, layout.NameAnchor, card.DisplayName); err != nil {
		return nil, err
	}
	if err := drawCentered(canvas, a.TitleFont, layout.TitleSize, layout.TitleAnchor, card.ContestTitle); err != nil {
		return nil, err
	}

	canvas = imaging.Overlay(canvas, card.QR, layout.QRRect.Min, 1.0)
	return canvas, nil
}

// drawCentered renders text in solid white so that the middle of its
// advance width and the middle of the face's ascent/descent fall on anchor.
func drawCentered(dst *image.NRGBA, f *opentype.Font, size float64, anchor image.Point, text string) error {
	if text == "" {
		return nil
	}
	// Faces keep a scratch buffer, so each render gets its own.
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("compose: font face: %w", err)
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	m := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.I(anchor.X) - d.MeasureString(text)/2,
		Y: fixed.I(anchor.Y) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(text)
	return nil
}
