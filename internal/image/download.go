package imagepkg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/votecard/internal/errs"
	"github.com/youruser/votecard/internal/util"
)

// DownloadImage fetches url with a single GET and decodes the body.
// Undecodable bytes wrap errs.ErrUnsupportedImageFormat.
func DownloadImage(ctx context.Context, client *http.Client, url string, maxBytes int64) (image.Image, error) {
	body, err := util.GetBytes(ctx, client, url, maxBytes)
	if err != nil {
		return nil, err
	}
	return DecodeImage(body)
}

// DecodeImage decodes any format registered with the image package
// (JPEG, PNG, GIF, BMP, TIFF, WebP).
func DecodeImage(b []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrUnsupportedImageFormat, err)
	}
	return img, nil
}
