package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youruser/votecard/internal/card"
	"github.com/youruser/votecard/internal/contestant"
	"github.com/youruser/votecard/internal/testutil"
	"github.com/youruser/votecard/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, up *testutil.Upstream, withRoster bool) http.Handler {
	t.Helper()
	client := util.NewHTTPClient(2 * time.Second)
	renderer := testutil.Renderer(t)
	s := &Server{
		Cards: &card.Service{
			Source:   &contestant.SlugSource{Client: client, URLTemplate: up.ContestantURL()},
			Renderer: renderer,
		},
	}
	if withRoster {
		s.Roster = &card.Service{
			Source:   &contestant.RosterSource{Client: client, URLTemplate: up.ContestURL()},
			Renderer: renderer,
		}
	}
	return NewRouter(s)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, testutil.NewUpstream(t), false)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a request id header")
	}
}

func TestGenerateVoteImage(t *testing.T) {
	router := newTestRouter(t, testutil.NewUpstream(t), false)

	for _, method := range []string{"POST", "GET"} {
		req := httptest.NewRequest(method, "/voting/generate/305DD8X", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", method, w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("%s: expected image/png, got %s", method, ct)
		}
		img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
		if err != nil {
			t.Fatalf("%s: body is not a PNG: %v", method, err)
		}
		if got := img.Bounds().Size(); got != image.Pt(testutil.TemplateWidth, testutil.TemplateHeight) {
			t.Errorf("%s: size %v", method, got)
		}
	}
}

func TestGenerateVoteImageErrors(t *testing.T) {
	router := newTestRouter(t, testutil.NewUpstream(t), false)

	testCases := []struct {
		path    string
		code    string
		message string
	}{
		{"/voting/generate/missing-id", "upstream_bad_response", msgFetchFailed},
		{"/voting/generate/html-photo", "unsupported_image_format", msgGenerateFailed},
	}
	for _, tc := range testCases {
		req := httptest.NewRequest("POST", tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected 500, got %d", tc.path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct == "image/png" {
			t.Errorf("%s: error response must not be an image", tc.path)
		}
		body := decodeError(t, w)
		if body["code"] != tc.code || body["error"] != tc.message {
			t.Errorf("%s: unexpected body %v", tc.path, body)
		}
	}
}

func TestRosterRoute(t *testing.T) {
	up := testutil.NewUpstream(t)

	router := newTestRouter(t, up, true)
	req := httptest.NewRequest("GET", "/voting/contests/comedy/contestants/0", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/voting/contests/comedy/contestants/abc", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad index, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/voting/contests/comedy/contestants/5", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for out of range index, got %d", w.Code)
	}

	noRoster := newTestRouter(t, up, false)
	req = httptest.NewRequest("GET", "/voting/contests/comedy/contestants/0", nil)
	w = httptest.NewRecorder()
	noRoster.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 without roster source, got %d", w.Code)
	}
}

func TestQREndpoint(t *testing.T) {
	router := newTestRouter(t, testutil.NewUpstream(t), false)

	req := httptest.NewRequest("GET", "/api/qr?text=https://example.com/x&size=128", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != image.Pt(128, 128) {
		t.Errorf("unexpected size %v", img.Bounds().Size())
	}

	req = httptest.NewRequest("GET", "/api/qr", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without text, got %d", w.Code)
	}
}

func TestIndexPage(t *testing.T) {
	router := newTestRouter(t, testutil.NewUpstream(t), false)
	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("/voting/generate/")) {
		t.Errorf("unexpected index response %d", w.Code)
	}
}
