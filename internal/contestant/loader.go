package contestant

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/youruser/votecard/internal/errs"
)

// FileSource serves records from a local CSV roster loaded once at startup.
// The header must name the columns slug, name, image, cta_link and contest.
type FileSource struct {
	records map[string]Record
}

// LoadFileSource reads the roster at path.
func LoadFileSource(path string) (*FileSource, error) {
	recs, err := loadRosterCSV(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	fs := &FileSource{records: make(map[string]Record, len(recs))}
	for _, r := range recs {
		fs.records[r.Identifier] = r
	}
	return fs, nil
}

// Len returns the number of contestants in the roster.
func (f *FileSource) Len() int {
	return len(f.records)
}

// Contestant looks the slug up in the loaded roster.
func (f *FileSource) Contestant(_ context.Context, identifier string) (Record, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return Record{}, fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	r, ok := f.records[identifier]
	if !ok {
		return Record{}, fmt.Errorf("%w: contestant %q not in local roster", errs.ErrUpstreamBadResponse, identifier)
	}
	return r, nil
}

func loadRosterCSV(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"slug", "name", "image", "cta_link", "contest"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv %s missing column %q", path, required)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Record{}
	for line, row := range rows[1:] {
		rec := Record{
			Identifier:   get(row, "slug"),
			DisplayName:  get(row, "name"),
			PhotoURL:     get(row, "image"),
			CTAURL:       get(row, "cta_link"),
			ContestTitle: get(row, "contest"),
		}
		if rec.Identifier == "" {
			continue
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", line+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}
