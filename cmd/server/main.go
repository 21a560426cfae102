package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/youruser/votecard/internal/api"
	"github.com/youruser/votecard/internal/card"
	"github.com/youruser/votecard/internal/config"
	"github.com/youruser/votecard/internal/contestant"
	imagepkg "github.com/youruser/votecard/internal/image"
	"github.com/youruser/votecard/internal/util"
)

var version = "v0.1.0"

func main() {
	var configPath string
	root := &cobra.Command{
		Use:          "votecard",
		Short:        "Render contestant voting cards",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	})

	var contest, out string
	var index int
	renderCmd := &cobra.Command{
		Use:   "render [slug]",
		Short: "Render one card to a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var slug string
			if len(args) == 1 {
				slug = args[0]
			}
			return runRender(configPath, slug, contest, index, out)
		},
	}
	renderCmd.Flags().StringVar(&contest, "contest", "", "Contest slug for a roster lookup (use with --index)")
	renderCmd.Flags().IntVar(&index, "index", 0, "Zero-based position in the contest roster")
	renderCmd.Flags().StringVarP(&out, "out", "o", "card.png", "Output PNG path")
	root.AddCommand(renderCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("votecard %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	log    *slog.Logger
	cards  *card.Service
	roster *card.Service
}

// setup loads config and assets and wires the pipeline. Asset failures
// abort before anything is served.
func setup(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)
	slog.SetDefault(log)

	assets, err := imagepkg.LoadAssets(cfg.Assets.Template, cfg.Assets.NameFont, cfg.Assets.TitleFont, imagepkg.DefaultLayout)
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	client := util.NewHTTPClient(cfg.Upstream.Timeout.Duration)
	renderer := &card.Renderer{
		Assets:      assets,
		Layout:      imagepkg.DefaultLayout,
		Client:      client,
		MaxBytes:    cfg.Upstream.MaxBytes,
		JPEGQuality: cfg.Photo.JPEGQuality,
		Log:         log,
	}

	var source contestant.Source = &contestant.SlugSource{
		Client:      client,
		URLTemplate: cfg.Upstream.ContestantURL,
		MaxBytes:    cfg.Upstream.MaxBytes,
	}
	if cfg.Assets.RosterCSV != "" {
		fs, err := contestant.LoadFileSource(cfg.Assets.RosterCSV)
		if err != nil {
			return nil, fmt.Errorf("load roster: %w", err)
		}
		log.Info("using local roster", "path", cfg.Assets.RosterCSV, "contestants", fs.Len())
		source = fs
	}

	a := &app{
		cfg:   cfg,
		log:   log,
		cards: &card.Service{Source: source, Renderer: renderer},
	}
	if cfg.Upstream.ContestURL != "" {
		a.roster = &card.Service{
			Source: &contestant.RosterSource{
				Client:      client,
				URLTemplate: cfg.Upstream.ContestURL,
				MaxBytes:    cfg.Upstream.MaxBytes,
			},
			Renderer: renderer,
		}
	}
	return a, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func runServe(configPath string) error {
	a, err := setup(configPath)
	if err != nil {
		return err
	}
	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Port),
		Handler:      api.NewRouter(&api.Server{Cards: a.cards, Roster: a.roster, Log: a.log}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3*a.cfg.Upstream.Timeout.Duration + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", "version", version, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-quit:
	}

	a.log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.log.Error("HTTP server shutdown error", "error", err)
	}
	return nil
}

func runRender(configPath, slug, contest string, index int, out string) error {
	a, err := setup(configPath)
	if err != nil {
		return err
	}

	svc, id := a.cards, slug
	if contest != "" {
		if a.roster == nil {
			return errors.New("upstream.contest_url is not configured")
		}
		svc, id = a.roster, contestant.RosterID(contest, index)
	} else if slug == "" {
		return errors.New("a slug argument or --contest is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b, rec, err := svc.Generate(ctx, id)
	if err != nil {
		return err
	}
	var sink card.Sink = card.FileSink{Path: out}
	if err := sink.Deliver(rec, b); err != nil {
		return err
	}
	a.log.Info("card written", "contestant", rec.Identifier, "path", out)
	return nil
}
