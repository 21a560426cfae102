// Package errs holds the failure taxonomy shared by every stage of the
// voting card pipeline. Stages wrap one of the sentinels with
// fmt.Errorf("%w: ...") and callers classify with errors.Is or Kind.
package errs

import "errors"

var (
	ErrUpstreamUnavailable    = errors.New("upstream unavailable")
	ErrUpstreamBadResponse    = errors.New("upstream bad response")
	ErrUnsupportedImageFormat = errors.New("unsupported image format")
	ErrQREncodingFailed       = errors.New("qr encoding failed")
	ErrTemplateAssetMissing   = errors.New("template asset missing")
	ErrInternalEncoding       = errors.New("internal encoding error")
)

var kinds = []struct {
	err  error
	code string
}{
	{ErrUpstreamUnavailable, "upstream_unavailable"},
	{ErrUpstreamBadResponse, "upstream_bad_response"},
	{ErrUnsupportedImageFormat, "unsupported_image_format"},
	{ErrQREncodingFailed, "qr_encoding_failed"},
	{ErrTemplateAssetMissing, "template_asset_missing"},
	{ErrInternalEncoding, "internal_encoding_error"},
}

// Kind returns the machine-readable code for err, or "internal" when err
// does not wrap any known sentinel.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return "internal"
}

// IsUpstream reports whether err was caused by the contestant API or the
// photo host rather than by this service.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) || errors.Is(err, ErrUpstreamBadResponse)
}
