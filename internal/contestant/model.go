package contestant

import (
	"context"
	"fmt"
	"strings"

	"github.com/youruser/votecard/internal/errs"
)

// Record is the profile of one voting participant. It is fetched once per
// request and not modified afterwards.
type Record struct {
	Identifier   string `json:"identifier"`
	DisplayName  string `json:"name"`
	PhotoURL     string `json:"image"`
	CTAURL       string `json:"cta_link"`
	ContestTitle string `json:"contest_title"`
}

// Source resolves an identifier into a Record. Implementations differ only
// in how the record is obtained.
type Source interface {
	Contestant(ctx context.Context, identifier string) (Record, error)
}

// apiContestant is the upstream JSON shape shared by the single-contestant
// endpoint and roster entries.
type apiContestant struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	CTALink string `json:"cta_link"`
	Contest *struct {
		Name string `json:"name"`
	} `json:"contest"`
}

func (a apiContestant) record(identifier, fallbackTitle string) (Record, error) {
	r := Record{
		Identifier:   identifier,
		DisplayName:  strings.TrimSpace(a.Name),
		PhotoURL:     strings.TrimSpace(a.Image),
		CTAURL:       strings.TrimSpace(a.CTALink),
		ContestTitle: strings.TrimSpace(fallbackTitle),
	}
	if a.Contest != nil && strings.TrimSpace(a.Contest.Name) != "" {
		r.ContestTitle = strings.TrimSpace(a.Contest.Name)
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate reports a bad upstream response when a required field is empty.
func (r Record) Validate() error {
	missing := []string{}
	if r.DisplayName == "" {
		missing = append(missing, "name")
	}
	if r.PhotoURL == "" {
		missing = append(missing, "image")
	}
	if r.CTAURL == "" {
		missing = append(missing, "cta_link")
	}
	if r.ContestTitle == "" {
		missing = append(missing, "contest.name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: contestant %q missing %s", errs.ErrUpstreamBadResponse, r.Identifier, strings.Join(missing, ", "))
	}
	return nil
}
