package contestant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/youruser/votecard/internal/errs"
	"github.com/youruser/votecard/internal/util"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/contestant/305DD8X", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Jane Doe","image":"http://photos/jane.png","cta_link":"https://example.com/x","contest":{"name":"Comedy Champion"}}`))
	})
	mux.HandleFunc("/contestant/no-contest", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Jane Doe","image":"http://photos/jane.png","cta_link":"https://example.com/x"}`))
	})
	mux.HandleFunc("/contestant/garbled", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})
	mux.HandleFunc("/contest/comedy", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Comedy Champion","contestants":[
			{"slug":"a1","name":"Ann","image":"http://photos/a.png","cta_link":"https://example.com/a"},
			{"slug":"b2","name":"Bob","image":"http://photos/b.png","cta_link":"https://example.com/b","contest":{"name":"Comedy Finals"}}
		]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSlugSource(t *testing.T) {
	srv := newUpstream(t)
	src := &SlugSource{Client: util.NewHTTPClient(time.Second), URLTemplate: srv.URL + "/contestant/{id}"}

	rec, err := src.Contestant(context.Background(), "305DD8X")
	if err != nil {
		t.Fatalf("Contestant: %v", err)
	}
	want := Record{
		Identifier:   "305DD8X",
		DisplayName:  "Jane Doe",
		PhotoURL:     "http://photos/jane.png",
		CTAURL:       "https://example.com/x",
		ContestTitle: "Comedy Champion",
	}
	if rec != want {
		t.Errorf("record = %+v, want %+v", rec, want)
	}
}

func TestSlugSourceErrors(t *testing.T) {
	srv := newUpstream(t)
	src := &SlugSource{Client: util.NewHTTPClient(time.Second), URLTemplate: srv.URL + "/contestant/{id}"}

	cases := []struct {
		id   string
		want error
	}{
		{"missing-id", errs.ErrUpstreamBadResponse},
		{"garbled", errs.ErrUpstreamBadResponse},
		{"no-contest", errs.ErrUpstreamBadResponse},
		{"  ", ErrInvalidIdentifier},
	}
	for _, tc := range cases {
		_, err := src.Contestant(context.Background(), tc.id)
		if !errors.Is(err, tc.want) {
			t.Errorf("Contestant(%q) error = %v, want %v", tc.id, err, tc.want)
		}
	}
}

func TestRosterSource(t *testing.T) {
	srv := newUpstream(t)
	src := &RosterSource{Client: util.NewHTTPClient(time.Second), URLTemplate: srv.URL + "/contest/{id}"}

	rec, err := src.Contestant(context.Background(), RosterID("comedy", 0))
	if err != nil {
		t.Fatalf("Contestant: %v", err)
	}
	if rec.Identifier != "a1" || rec.DisplayName != "Ann" || rec.ContestTitle != "Comedy Champion" {
		t.Errorf("unexpected record %+v", rec)
	}

	rec, err = src.Contestant(context.Background(), RosterID("comedy", 1))
	if err != nil {
		t.Fatalf("Contestant: %v", err)
	}
	if rec.ContestTitle != "Comedy Finals" {
		t.Errorf("entry contest should win, got %q", rec.ContestTitle)
	}

	if _, err := src.Contestant(context.Background(), RosterID("comedy", 2)); !errors.Is(err, errs.ErrUpstreamBadResponse) {
		t.Errorf("out of range error = %v", err)
	}
	if _, err := src.Contestant(context.Background(), "comedy/x"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("bad index error = %v", err)
	}
}

func TestParseRosterID(t *testing.T) {
	contest, index, err := ParseRosterID("season/3/7")
	if err != nil {
		t.Fatal(err)
	}
	if contest != "season/3" || index != 7 {
		t.Errorf("got %q %d", contest, index)
	}
	for _, bad := range []string{"", "/1", "comedy/", "comedy/-1", "comedy"} {
		if _, _, err := ParseRosterID(bad); err == nil {
			t.Errorf("ParseRosterID(%q) should fail", bad)
		}
	}
}
