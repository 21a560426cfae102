package contestant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/youruser/votecard/internal/errs"
	"github.com/youruser/votecard/internal/util"
)

// ErrInvalidIdentifier is returned before any network call when the
// identifier cannot be sent upstream.
var ErrInvalidIdentifier = errors.New("invalid contestant identifier")

func expand(template, id string) string {
	return strings.ReplaceAll(template, "{id}", url.PathEscape(id))
}

// SlugSource looks a contestant up directly by slug on the upstream API.
type SlugSource struct {
	Client      *http.Client
	URLTemplate string
	MaxBytes    int64
}

// Contestant issues exactly one GET against the contestant endpoint.
func (s *SlugSource) Contestant(ctx context.Context, identifier string) (Record, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Record{}, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	body, err := util.GetBytes(ctx, s.Client, expand(s.URLTemplate, identifier), s.MaxBytes)
	if err != nil {
		return Record{}, err
	}
	var payload apiContestant
	if err := json.Unmarshal(body, &payload); err != nil {
		return Record{}, fmt.Errorf("%w: decode contestant %q: %v", errs.ErrUpstreamBadResponse, identifier, err)
	}
	return payload.record(identifier, "")
}

// RosterSource resolves identifiers of the form "<contest>/<index>" by
// fetching the contest roster and picking the entry at index.
type RosterSource struct {
	Client      *http.Client
	URLTemplate string
	MaxBytes    int64
}

type apiRoster struct {
	Name        string          `json:"name"`
	Contestants []apiContestant `json:"contestants"`
}

// RosterID joins a contest slug and a zero-based index into an identifier
// accepted by RosterSource.
func RosterID(contest string, index int) string {
	return contest + "/" + strconv.Itoa(index)
}

// ParseRosterID splits an identifier produced by RosterID.
func ParseRosterID(identifier string) (string, int, error) {
	i := strings.LastIndex(identifier, "/")
	if i <= 0 || i == len(identifier)-1 {
		return "", 0, fmt.Errorf("%w: %q, want <contest>/<index>", ErrInvalidIdentifier, identifier)
	}
	index, err := strconv.Atoi(identifier[i+1:])
	if err != nil || index < 0 {
		return "", 0, fmt.Errorf("%w: %q, index must be a non-negative integer", ErrInvalidIdentifier, identifier)
	}
	return identifier[:i], index, nil
}

// Contestant fetches the roster once and returns the indexed entry.
func (s *RosterSource) Contestant(ctx context.Context, identifier string) (Record, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Record{}, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	contest, index, err := ParseRosterID(identifier)
	if err != nil {
		return Record{}, err
	}
	body, err := util.GetBytes(ctx, s.Client, expand(s.URLTemplate, contest), s.MaxBytes)
	if err != nil {
		return Record{}, err
	}
	var roster apiRoster
	if err := json.Unmarshal(body, &roster); err != nil {
		return Record{}, fmt.Errorf("%w: decode contest %q: %v", errs.ErrUpstreamBadResponse, contest, err)
	}
	if index >= len(roster.Contestants) {
		return Record{}, fmt.Errorf("%w: contest %q has %d contestants, index %d", errs.ErrUpstreamBadResponse, contest, len(roster.Contestants), index)
	}
	entry := roster.Contestants[index]
	id := identifier
	if entry.Slug != "" {
		id = entry.Slug
	}
	return entry.record(id, roster.Name)
}
