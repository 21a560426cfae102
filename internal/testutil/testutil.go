// Package testutil builds fixtures shared by the pipeline and HTTP tests:
// in-memory assets and a fake contestant API that also hosts photos.
package testutil

import (
	"bytes"
	"encoding/json"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/youruser/votecard/internal/card"
	imagepkg "github.com/youruser/votecard/internal/image"
	"github.com/youruser/votecard/internal/util"
)

// TemplateColor fills the fake template so tests can tell drawn pixels apart.
var TemplateColor = color.NRGBA{R: 0x20, G: 0x10, B: 0x40, A: 0xff}

const (
	TemplateWidth  = 1080
	TemplateHeight = 1500
)

// SolidPNG encodes a w x h image of a single colour.
func SolidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(w, h, c), imaging.PNG); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

// Assets returns a plain template with Go fonts standing in for the
// production fonts.
func Assets(t *testing.T) *imagepkg.Assets {
	t.Helper()
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		t.Fatal(err)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	a, err := imagepkg.NewAssets(imaging.New(TemplateWidth, TemplateHeight, TemplateColor), bold, regular, imagepkg.DefaultLayout)
	if err != nil {
		t.Fatalf("build assets: %v", err)
	}
	return a
}

// Renderer wires Assets to a short-timeout client.
func Renderer(t *testing.T) *card.Renderer {
	t.Helper()
	return &card.Renderer{
		Assets:      Assets(t),
		Layout:      imagepkg.DefaultLayout,
		Client:      util.NewHTTPClient(2 * time.Second),
		JPEGQuality: imagepkg.DefaultJPEGQuality,
	}
}

// Upstream is a fake contestant API. Contestants maps slug to the JSON
// record served at /contestant/{slug}; Contests maps a contest slug to the
// roster served at /contest/{slug}; Files maps a path to raw bytes.
type Upstream struct {
	*httptest.Server
	Contestants map[string]map[string]any
	Contests    map[string]map[string]any
	Files       map[string][]byte
}

// NewUpstream starts a fake API preloaded with contestant "305DD8X"
// (Jane Doe, solid blue 1000x1000 photo) and a broken contestant
// "html-photo" whose photo URL serves an HTML page.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{
		Contestants: map[string]map[string]any{},
		Contests:    map[string]map[string]any{},
		Files:       map[string][]byte{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/contestant/", func(w http.ResponseWriter, r *http.Request) {
		rec, ok := u.Contestants[r.URL.Path[len("/contestant/"):]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rec)
	})
	mux.HandleFunc("/contest/", func(w http.ResponseWriter, r *http.Request) {
		roster, ok := u.Contests[r.URL.Path[len("/contest/"):]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(roster)
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		b, ok := u.Files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(b)
	})
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Server.Close)

	u.Files["/files/blue.png"] = SolidPNG(t, 1000, 1000, color.NRGBA{B: 0xff, A: 0xff})
	u.Files["/files/error.html"] = []byte("<html><body>Service Unavailable</body></html>")

	u.Contestants["305DD8X"] = u.Contestant("Jane Doe", "/files/blue.png", "Comedy Champion")
	u.Contestants["html-photo"] = u.Contestant("Broken Photo", "/files/error.html", "Comedy Champion")
	u.Contests["comedy"] = map[string]any{
		"name": "Comedy Champion",
		"contestants": []map[string]any{
			{"slug": "305DD8X", "name": "Jane Doe", "image": u.URL + "/files/blue.png", "cta_link": "https://example.com/x"},
		},
	}
	return u
}

// Contestant builds an upstream record whose photo is served by u.
func (u *Upstream) Contestant(name, photoPath, contest string) map[string]any {
	return map[string]any{
		"name":     name,
		"image":    u.URL + photoPath,
		"cta_link": "https://example.com/x",
		"contest":  map[string]any{"name": contest},
	}
}

// ContestantURL is the URL template for the single-contestant endpoint.
func (u *Upstream) ContestantURL() string {
	return u.URL + "/contestant/{id}"
}

// ContestURL is the URL template for the roster endpoint.
func (u *Upstream) ContestURL() string {
	return u.URL + "/contest/{id}"
}
