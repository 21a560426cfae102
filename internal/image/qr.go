package imagepkg

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/youruser/votecard/internal/errs"
)

// qrModulePixels is the size of one QR module before the symbol is
// stretched to its target rectangle.
const qrModulePixels = 10

// EncodeQR encodes content at recovery level Low with the smallest version
// that fits and a 4-module quiet zone, then stretches the black-on-white
// symbol to exactly width x height.
func EncodeQR(content string, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: target %dx%d", errs.ErrQREncodingFailed, width, height)
	}
	sym, err := qrSymbol(content)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(sym, width, height, imaging.Lanczos), nil
}

func qrSymbol(content string) (image.Image, error) {
	q, err := qrcode.New(content, qrcode.Low)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrQREncodingFailed, err)
	}
	return q.Image(-qrModulePixels), nil
}

// GenerateQRPNG returns PNG bytes of a square QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	img, err := EncodeQR(text, size, size)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}
