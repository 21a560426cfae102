package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: dial tcp", ErrUpstreamUnavailable), "upstream_unavailable"},
		{fmt.Errorf("%w: status 404", ErrUpstreamBadResponse), "upstream_bad_response"},
		{fmt.Errorf("fetch photo: %w", fmt.Errorf("%w: html", ErrUnsupportedImageFormat)), "unsupported_image_format"},
		{ErrQREncodingFailed, "qr_encoding_failed"},
		{ErrTemplateAssetMissing, "template_asset_missing"},
		{ErrInternalEncoding, "internal_encoding_error"},
		{errors.New("boom"), "internal"},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsUpstream(t *testing.T) {
	if !IsUpstream(fmt.Errorf("%w: timeout", ErrUpstreamUnavailable)) {
		t.Error("unavailable should be upstream")
	}
	if !IsUpstream(fmt.Errorf("%w: 500", ErrUpstreamBadResponse)) {
		t.Error("bad response should be upstream")
	}
	if IsUpstream(ErrQREncodingFailed) {
		t.Error("qr failure is not upstream")
	}
}
