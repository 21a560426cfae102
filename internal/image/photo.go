package imagepkg

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/youruser/votecard/internal/errs"
)

// DefaultJPEGQuality is the quality of the lossy size-reduction pass.
const DefaultJPEGQuality = 50

// ProcessPhoto recompresses src through JPEG at quality, resizes it to
// diameter x diameter and masks it to the inscribed circle. Pixels outside
// the circle are fully transparent.
func ProcessPhoto(src image.Image, diameter, quality int) (*image.NRGBA, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("photo diameter %d must be positive", diameter)
	}
	img, err := Recompress(src, quality)
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(img, diameter, diameter, imaging.Lanczos)
	ApplyMask(resized, CircleMask(diameter))
	return resized, nil
}

// Recompress round-trips img through JPEG at the given quality.
func Recompress(img image.Image, quality int) (image.Image, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: jpeg recompress: %v", errs.ErrUnsupportedImageFormat, err)
	}
	out, err := imaging.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: jpeg recompress: %v", errs.ErrUnsupportedImageFormat, err)
	}
	return out, nil
}

// CircleMask returns a hard-edged mask of size d x d that is opaque for
// pixels whose centre lies inside the inscribed circle.
func CircleMask(d int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, d, d))
	// Doubled coordinates keep the test in integers, which makes the mask
	// exactly symmetric about both axes.
	r2 := d * d
	for y := 0; y < d; y++ {
		dy := 2*y + 1 - d
		for x := 0; x < d; x++ {
			dx := 2*x + 1 - d
			if dx*dx+dy*dy <= r2 {
				mask.Pix[mask.PixOffset(x, y)] = 0xff
			}
		}
	}
	return mask
}

// ApplyMask replaces the alpha channel of img with mask in place. img and
// mask must have the same bounds.
func ApplyMask(img *image.NRGBA, mask *image.Alpha) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
				continue
			}
			img.Pix[i+3] = a
		}
	}
}
