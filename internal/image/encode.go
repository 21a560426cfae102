package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/youruser/votecard/internal/errs"
)

// ContentType is the media type of every image this package emits.
const ContentType = "image/png"

// EncodePNG serialises img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)); err != nil {
		return nil, fmt.Errorf("%w: png: %v", errs.ErrInternalEncoding, err)
	}
	return buf.Bytes(), nil
}
