package card

import (
	"fmt"
	"os"

	"github.com/youruser/votecard/internal/contestant"
	"github.com/youruser/votecard/internal/util"
)

// Sink delivers a finished card somewhere other than an HTTP response.
type Sink interface {
	Deliver(rec contestant.Record, png []byte) error
}

// FileSink writes the card to Path, creating its directory if needed.
type FileSink struct {
	Path string
}

func (f FileSink) Deliver(rec contestant.Record, png []byte) error {
	if err := util.EnsureParentDir(f.Path); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, png, 0o644); err != nil {
		return fmt.Errorf("write card for %s: %w", rec.Identifier, err)
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write card for %s: %w", rec.Identifier, err)
	}
	return nil
}
