// Package card runs the voting card pipeline for one contestant: fetch the
// photo, mask it, encode the call-to-action QR code, composite everything
// onto the template and serialise the result.
package card

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/votecard/internal/contestant"
	imagepkg "github.com/youruser/votecard/internal/image"
)

// Renderer holds the process-wide, read-only dependencies of the pipeline.
// A Renderer is safe for concurrent use; every Render call owns its own
// buffers.
type Renderer struct {
	Assets      *imagepkg.Assets
	Layout      imagepkg.Layout
	Client      *http.Client
	MaxBytes    int64
	JPEGQuality int
	Log         *slog.Logger
}

// Render produces the PNG voting card for rec. No bytes are returned
// unless every stage succeeded.
func (r *Renderer) Render(ctx context.Context, rec contestant.Record) ([]byte, error) {
	start := time.Now()

	var (
		photo *image.NRGBA
		qr    *image.NRGBA
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src, err := imagepkg.DownloadImage(gctx, r.Client, rec.PhotoURL, r.MaxBytes)
		if err != nil {
			return fmt.Errorf("fetch photo: %w", err)
		}
		photo, err = imagepkg.ProcessPhoto(src, r.Layout.PhotoDiameter, r.JPEGQuality)
		if err != nil {
			return fmt.Errorf("process photo: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		w, h := r.Layout.QRSize()
		var err error
		qr, err = imagepkg.EncodeQR(rec.CTAURL, w, h)
		if err != nil {
			return fmt.Errorf("encode qr: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := r.Assets.Compose(r.Layout, imagepkg.Card{
		Photo:        photo,
		QR:           qr,
		DisplayName:  rec.DisplayName,
		ContestTitle: rec.ContestTitle,
	})
	if err != nil {
		return nil, err
	}

	b, err := imagepkg.EncodePNG(out)
	if err != nil {
		return nil, err
	}

	r.logger().Info("voting card rendered",
		"contestant", rec.Identifier,
		"duration_ms", time.Since(start).Milliseconds(),
		"size", humanize.Bytes(uint64(len(b))),
	)
	return b, nil
}

func (r *Renderer) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// Service binds a record source to a renderer.
type Service struct {
	Source   contestant.Source
	Renderer *Renderer
}

// Generate resolves identifier and renders its card.
func (s *Service) Generate(ctx context.Context, identifier string) ([]byte, contestant.Record, error) {
	rec, err := s.Source.Contestant(ctx, identifier)
	if err != nil {
		return nil, contestant.Record{}, fmt.Errorf("fetch contestant: %w", err)
	}
	b, err := s.Renderer.Render(ctx, rec)
	if err != nil {
		return nil, rec, err
	}
	return b, rec, nil
}
